package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/dmitrijs2005/filedrop/internal/client/client"
	"github.com/dmitrijs2005/filedrop/internal/client/config"
	"github.com/dmitrijs2005/filedrop/internal/client/services"
	"github.com/dmitrijs2005/filedrop/internal/logging"
)

// PreferenceStore is the durable preference store with listing support.
type PreferenceStore interface {
	services.Preferences
	All(ctx context.Context) (map[string]string, error)
	Unset(ctx context.Context, key string) error
}

// App wires the coordinators to the terminal.
type App struct {
	config *config.Config
	api    client.Client
	prefs  PreferenceStore
	log    logging.Logger
	out    *console
	clip   services.Clipboard

	downloads *backgroundDownloads

	page   Page
	upload *services.Uploader
	pickup *services.Pickup
	manage *services.Manager

	uploadView *uploadView
	pickupView *pickupView
	manageView *manageView

	navMu   sync.Mutex
	pending string
}

func NewApp(ctx context.Context, c *config.Config, api client.Client, prefs PreferenceStore, log logging.Logger, w io.Writer) *App {
	out := newConsole(w)
	return &App{
		config:    c,
		api:       api,
		prefs:     prefs,
		log:       log,
		out:       out,
		clip:      osc52Clipboard{c: out},
		downloads: newBackgroundDownloads(ctx, api, c.DownloadDir, out, log),
	}
}

// Run opens the configured start page and serves commands read from in
// until EOF, "exit" or ctx cancellation. It waits for background downloads
// before returning.
func (a *App) Run(ctx context.Context, in io.Reader) error {
	defer a.close()

	a.out.Println("filedrop CLI (type 'help' for commands)")
	if err := a.Go(ctx, a.config.StartPage); err != nil {
		a.out.Println("Cannot open start page:", err)
		if err := a.Go(ctx, "/upload"); err != nil {
			return err
		}
	}

	lines := make(chan string)
	go func() {
		defer close(lines)
		sc := bufio.NewScanner(in)
		for sc.Scan() {
			select {
			case lines <- sc.Text():
			case <-ctx.Done():
				return
			}
		}
	}()

	runREPL(ctx, a, lines, a.out)
	return nil
}

func (a *App) close() {
	if a.manage != nil {
		a.manage.Close()
	}
	a.downloads.Wait()
}

// Navigate records a page change requested by a coordinator. It is applied
// once the running command returns.
func (a *App) Navigate(path string) {
	a.navMu.Lock()
	defer a.navMu.Unlock()
	a.pending = path
}

func (a *App) takeNavigation() string {
	a.navMu.Lock()
	defer a.navMu.Unlock()
	p := a.pending
	a.pending = ""
	return p
}

// Go loads the page at path with a fresh coordinator.
func (a *App) Go(ctx context.Context, path string) error {
	page, err := ParsePage(path)
	if err != nil {
		return err
	}

	if a.manage != nil {
		a.manage.Close()
		a.manage = nil
	}
	a.upload, a.pickup = nil, nil
	a.page = page
	a.log.Debug(ctx, "page opened", "path", page.Path())

	switch page.Kind {
	case PageUpload:
		a.uploadView = &uploadView{c: a.out, base: strings.TrimRight(a.config.ServerURL, "/")}
		a.upload = services.NewUploader(a.api, a.uploadView, a.clip, a.log, services.UploadOptions{
			CopyFeedback: a.config.CopyFeedback,
		})
		a.out.Println(a.out.accent.Render("Upload files"))
		a.upload.Show()

	case PagePickup:
		a.pickupView = &pickupView{c: a.out}
		a.pickup = services.NewPickup(a.api, a.pickupView, a.downloads, a.log, services.PickupOptions{
			Cooldown: a.config.DownloadCooldown,
			Interval: a.config.DownloadInterval,
		})
		a.out.Println(a.out.accent.Render("Pick up files"))
		a.pickup.Show()

	case PageManage:
		a.manageView = &manageView{c: a.out, interval: a.config.AutoRefreshInterval}
		a.manage = services.NewManager(a.api, a.prefs, a.manageView, a, a.log, page.FileGroupID, services.ManageOptions{
			RefreshInterval: a.config.AutoRefreshInterval,
		})
		a.out.Println(a.out.accent.Render("Manage upload " + page.FileGroupID))
		// Load failures are alerted by the coordinator; the page stays usable.
		_ = a.manage.Load(ctx)
	}
	return nil
}

func (a *App) prompt() string {
	return fmt.Sprintf("filedrop %s> ", a.page.Path())
}

// Exec runs a page command.
func (a *App) Exec(ctx context.Context, cmd string, args []string) error {
	var err error
	switch a.page.Kind {
	case PageUpload:
		err = a.execUpload(ctx, cmd, args)
	case PagePickup:
		err = a.execPickup(ctx, cmd, args)
	case PageManage:
		err = a.execManage(ctx, cmd, args)
	}

	if errors.Is(err, services.ErrIllegalTransition) {
		a.out.Println("Not available right now:", err)
	}
	if p := a.takeNavigation(); p != "" {
		if navErr := a.Go(ctx, p); navErr != nil {
			a.out.Println("Cannot open page:", navErr)
		}
	}
	return err
}

// Prefs lists stored preferences, or removes one with "unset <key>".
func (a *App) Prefs(ctx context.Context, args []string) error {
	if len(args) == 2 && args[0] == "unset" {
		if err := a.prefs.Unset(ctx, args[1]); err != nil {
			a.out.Alert(err.Error())
			return err
		}
		a.out.Printf("Preference %s removed\n", args[1])
		return nil
	}
	if len(args) != 0 {
		return usage("prefs [unset <key>]")
	}

	all, err := a.prefs.All(ctx)
	if err != nil {
		a.out.Alert(err.Error())
		return err
	}
	if len(all) == 0 {
		a.out.Println(a.out.faint.Render("No stored preferences"))
		return nil
	}
	rows := make([][]string, 0, len(all))
	for k, v := range all {
		rows = append(rows, []string{k, v})
	}
	sortRows(rows)
	a.out.Block(a.out.table([]string{"Key", "Value"}, rows))
	return nil
}

func (a *App) help() string {
	common := "go <path>, prefs [unset <key>], help, exit"
	switch a.page.Kind {
	case PagePickup:
		return "Pickup commands: redeem <code>, ls, get <#|name>, getall, reset\nGlobal: " + common
	case PageManage:
		return "Manage commands: show, refresh, auto on|off, delete, confirm, cancel\nGlobal: " + common
	default:
		return "Upload commands: add <path>..., select <path>..., rm <#>, ls, expiry <value> <minutes|hours|days>, max <n>, send, copy, reset\nGlobal: " + common
	}
}
