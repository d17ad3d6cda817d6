package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/filedrop/internal/client/models"
	"github.com/dmitrijs2005/filedrop/internal/common"
)

func (a *App) execUpload(ctx context.Context, cmd string, args []string) error {
	u := a.upload
	switch cmd {
	case "add", "select":
		if len(args) == 0 {
			return usage(cmd + " <path>...")
		}
		files, err := a.localFiles(args)
		if err != nil {
			return err
		}
		if cmd == "select" {
			return u.SelectFiles(files)
		}
		return u.AddFiles(files...)

	case "rm":
		if len(args) != 1 {
			return usage("rm <#>")
		}
		n, err := strconv.Atoi(args[0])
		if err != nil {
			return usage("rm <#>")
		}
		if err := u.RemoveStaged(n - 1); err != nil {
			a.out.Alert(fmt.Sprintf("No staged file #%s", args[0]))
			return err
		}
		return nil

	case "ls", "show":
		a.uploadView.Show(u.State())
		return nil

	case "expiry":
		if len(args) != 2 {
			return usage(expiryUsage())
		}
		n, err := strconv.Atoi(args[0])
		if err != nil {
			return usage(expiryUsage())
		}
		r := u.State().Retention
		r.ExpiryValue, r.ExpiryUnit = n, models.ExpiryUnit(args[1])
		return u.SetRetention(r)

	case "max":
		if len(args) != 1 {
			return usage("max <n>  (0 = unlimited)")
		}
		n, err := strconv.Atoi(args[0])
		if err != nil {
			return usage("max <n>  (0 = unlimited)")
		}
		r := u.State().Retention
		r.MaxDownloads = n
		return u.SetRetention(r)

	case "send":
		_, err := u.Submit(ctx)
		return err

	case "copy":
		return u.CopyCode(ctx)

	case "reset":
		return u.Reset()

	default:
		return unknown(cmd)
	}
}

// localFiles stats every path; the first failure is alerted and nothing is
// staged.
func (a *App) localFiles(paths []string) ([]models.LocalFile, error) {
	files := make([]models.LocalFile, 0, len(paths))
	for _, p := range paths {
		f, err := models.FileFromPath(p)
		if err != nil {
			a.out.Alert(fmt.Sprintf("Cannot add %s: %v", p, err))
			return nil, err
		}
		files = append(files, f)
	}
	return files, nil
}

func expiryUsage() string {
	units := []models.ExpiryUnit{models.ExpiryMinutes, models.ExpiryHours, models.ExpiryDays}
	limits := make([]string, 0, len(units))
	for _, u := range units {
		limits = append(limits, fmt.Sprintf("%d %s", models.MaxExpiry(u), u))
	}
	return "expiry <value> <minutes|hours|days>  (at most " + strings.Join(limits, ", ") + ")"
}

func (a *App) execPickup(ctx context.Context, cmd string, args []string) error {
	p := a.pickup
	switch cmd {
	case "redeem", "code":
		if len(args) > 1 {
			return usage("redeem <code>")
		}
		code := ""
		if len(args) == 1 {
			code = args[0]
		}
		return p.Redeem(ctx, code)

	case "ls", "show":
		a.pickupView.Show(p.State())
		return nil

	case "get":
		if len(args) != 1 {
			return usage("get <#|name>")
		}
		name, err := a.resolveFile(args[0])
		if err != nil {
			a.out.Alert(err.Error())
			return err
		}
		return p.Download(ctx, name)

	case "getall":
		return p.DownloadAll(ctx)

	case "reset":
		return p.Reset()

	default:
		return unknown(cmd)
	}
}

// resolveFile maps a 1-based index or an exact file name to a listed name.
func (a *App) resolveFile(arg string) (string, error) {
	files := a.pickup.State().Files
	if n, err := strconv.Atoi(arg); err == nil && n >= 1 && n <= len(files) {
		return files[n-1].Name, nil
	}
	for _, f := range files {
		if f.Name == arg {
			return f.Name, nil
		}
	}
	return "", fmt.Errorf("file %q: %w", arg, common.ErrorNotFound)
}

func (a *App) execManage(ctx context.Context, cmd string, args []string) error {
	m := a.manage
	switch cmd {
	case "show", "ls":
		a.manageView.Show(m.State())
		return nil

	case "refresh":
		return m.Refresh(ctx)

	case "auto":
		if len(args) != 1 || (args[0] != "on" && args[0] != "off") {
			return usage("auto on|off")
		}
		if err := m.ToggleAutoRefresh(ctx, args[0] == "on"); err != nil {
			a.out.Alert(err.Error())
			return err
		}
		return nil

	case "delete":
		return m.RequestDelete()

	case "confirm":
		return m.ConfirmDelete(ctx)

	case "cancel":
		return m.CancelDelete()

	default:
		return unknown(cmd)
	}
}
