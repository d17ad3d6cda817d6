package cli

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/dustin/go-humanize"

	"github.com/dmitrijs2005/filedrop/internal/client/models"
	"github.com/dmitrijs2005/filedrop/internal/client/services"
	"github.com/dmitrijs2005/filedrop/internal/format"
)

// now is a test seam for relative times.
var now = time.Now

func (c *console) table(headers []string, rows [][]string) string {
	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(c.faint).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return c.accent.Padding(0, 1)
			}
			return c.r.NewStyle().Padding(0, 1)
		}).
		Render()
}

func (c *console) Alert(msg string) {
	c.Println(c.alert.Render("! " + msg))
}

// serverTime parses the ISO-8601 timestamps the server emits, with or
// without a zone offset.
func serverTime(s string) (time.Time, bool) {
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05.999999999", "2006-01-02 15:04:05"} {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func displayTime(s string) string {
	t, ok := serverTime(s)
	if !ok {
		return s
	}
	return t.Format("2006-01-02 15:04:05") + " (" + humanize.RelTime(t, now(), "ago", "from now") + ")"
}

// uploadView renders the upload page.
type uploadView struct {
	c    *console
	base string
	last services.UploadState
}

func (v *uploadView) Alert(msg string) { v.c.Alert(msg) }

func (v *uploadView) RenderUpload(s services.UploadState) {
	prev := v.last
	v.last = s

	switch s.Phase {
	case services.UploadSending:
		if prev.Phase != services.UploadSending {
			v.c.Printf("Uploading %d file(s), %s\n", len(s.Staged), format.FileSize(s.TotalStaged()))
			v.c.Progress("Upload", s.Percent, -1)
			return
		}
		v.c.Progress("Upload", s.Percent, prev.Percent)

	case services.UploadDone:
		if prev.Phase != services.UploadDone {
			v.c.EndProgress()
			v.result(s)
			return
		}
		if s.CopyLabel != prev.CopyLabel && s.CopyLabel == services.LabelCopied {
			v.c.Println(v.c.accent.Render(services.LabelCopied))
		}

	case services.UploadEditing:
		switch {
		case prev.Phase == services.UploadSending:
			v.c.EndProgress()
			v.c.Println("Upload form restored. Staged files are kept; fix the problem and run 'send' again.")
		case prev.Phase == services.UploadDone:
			v.c.Println("Ready for a new upload.")
		case !reflect.DeepEqual(stagedNames(prev), stagedNames(s)) || prev.Retention != s.Retention:
			v.Show(s)
		}
	}
}

// Show prints the full page.
func (v *uploadView) Show(s services.UploadState) {
	switch s.Phase {
	case services.UploadSending:
		v.c.Printf("Uploading... %d%%\n", s.Percent)
	case services.UploadDone:
		v.result(s)
	default:
		v.c.Block(v.form(s))
	}
}

func (v *uploadView) form(s services.UploadState) string {
	var b strings.Builder
	if len(s.Staged) == 0 {
		b.WriteString(v.c.faint.Render("No files selected") + "\n")
	} else {
		rows := make([][]string, 0, len(s.Staged))
		for i, f := range s.Staged {
			rows = append(rows, []string{strconv.Itoa(i + 1), f.Name, format.FileSize(f.Size)})
		}
		b.WriteString(v.c.table([]string{"#", "File", "Size"}, rows) + "\n")
		fmt.Fprintf(&b, "Total: %s\n", format.FileSize(s.TotalStaged()))
	}
	fmt.Fprintf(&b, "Expires after %d %s, %s\n", s.Retention.ExpiryValue, s.Retention.ExpiryUnit, maxDownloads(s.Retention.MaxDownloads))
	return b.String()
}

func (v *uploadView) result(s services.UploadState) {
	if s.Result == nil {
		return
	}
	v.c.Block(fmt.Sprintf("Upload complete.\nPickup code: %s  [%s]\nManage:      %s%s\n",
		v.c.accent.Render(s.Result.PickupCode), s.CopyLabel, v.base, s.Result.ManagePath))
}

func stagedNames(s services.UploadState) []string {
	names := make([]string, 0, len(s.Staged))
	for _, f := range s.Staged {
		names = append(names, f.Name)
	}
	return names
}

func maxDownloads(n int) string {
	if n <= 0 {
		return "unlimited downloads"
	}
	return fmt.Sprintf("at most %d download(s)", n)
}

// pickupView renders the pickup page.
type pickupView struct {
	c    *console
	last services.PickupState
}

func (v *pickupView) Alert(msg string) { v.c.Alert(msg) }

func (v *pickupView) RenderPickup(s services.PickupState) {
	prev := v.last
	v.last = s

	switch {
	case s.Batch.Visible:
		v.c.Progress("Downloading "+s.Batch.Counter(), s.Batch.Percent, batchLast(prev.Batch))
	case prev.Batch.Visible:
		v.c.EndProgress()
		v.c.Println("All downloads triggered.")
	case s.Phase == services.PickupRedeeming:
		v.c.Println("Redeeming pickup code...")
	case s.Phase == services.PickupListing && prev.Phase != services.PickupListing:
		v.Show(s)
	case s.Phase == services.PickupEntering && prev.Phase == services.PickupListing:
		v.c.Println("Enter a pickup code with: redeem <code>")
	}
}

func batchLast(b services.BatchProgress) int {
	if !b.Visible {
		return -1
	}
	return b.Percent
}

func (v *pickupView) Show(s services.PickupState) {
	switch s.Phase {
	case services.PickupListing:
		if len(s.Files) == 0 {
			v.c.Println(v.c.faint.Render("No files in this upload"))
			return
		}
		rows := make([][]string, 0, len(s.Files))
		for i, f := range s.Files {
			rows = append(rows, []string{strconv.Itoa(i + 1), f.Name, format.FileSize(f.Size)})
		}
		v.c.Block(v.c.table([]string{"#", "File", "Size"}, rows))
		v.c.Println("Download with: get <#|name>, or getall")
	default:
		v.c.Println("Enter a pickup code with: redeem <code>")
	}
}

// manageView renders the management page.
type manageView struct {
	c        *console
	interval time.Duration
	last     services.ManageState
}

func (v *manageView) Alert(msg string) { v.c.Alert(msg) }

func (v *manageView) RenderManage(s services.ManageState) {
	prev := v.last
	v.last = s

	if s.Deleted && !prev.Deleted {
		v.c.Println("File group deleted.")
		return
	}
	if s.Confirm != prev.Confirm {
		switch s.Confirm {
		case services.ConfirmShown:
			v.c.Println(v.c.alert.Render("Delete this upload permanently? Type 'confirm' to delete or 'cancel' to keep it."))
		case services.ConfirmPending:
			v.c.Println("Deleting...")
		}
	}
	if s.AutoRefresh != prev.AutoRefresh {
		if s.AutoRefresh {
			v.c.Printf("Auto-refresh on (every %s)\n", v.interval)
		} else {
			v.c.Println("Auto-refresh off")
		}
	}
	if !s.Busy && s.Group != nil && !reflect.DeepEqual(s.Group, prev.Group) {
		v.Show(s)
	}
}

func (v *manageView) Show(s services.ManageState) {
	g := s.Group
	if g == nil {
		v.c.Printf("File group %s: status not loaded yet, run 'refresh'\n", s.FileGroupID)
		return
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Pickup code:  %s\n", v.c.accent.Render(g.PickupCode))
	fmt.Fprintf(&b, "Downloads:    %s", humanize.Comma(int64(g.DownloadCount)))
	if g.MaxDownloads != nil && *g.MaxDownloads > 0 {
		fmt.Fprintf(&b, " of %d", *g.MaxDownloads)
	}
	b.WriteString("\n")
	if g.CreatedAt != "" {
		fmt.Fprintf(&b, "Created:      %s\n", displayTime(g.CreatedAt))
	}
	if g.ExpiryDate != nil && *g.ExpiryDate != "" {
		fmt.Fprintf(&b, "Expires:      %s\n", displayTime(*g.ExpiryDate))
	}

	if len(g.Files) > 0 {
		rows := make([][]string, 0, len(g.Files))
		for _, f := range g.Files {
			rows = append(rows, []string{f.Name, format.FileSize(f.Size)})
		}
		b.WriteString(v.c.table([]string{"File", "Size"}, rows) + "\n")
	}

	b.WriteString(historyTable(v.c, g.DownloadHistory))
	v.c.Block(b.String())
}

func historyTable(c *console, history []models.DownloadRecord) string {
	if len(history) == 0 {
		return c.faint.Render("No downloads yet") + "\n"
	}
	rows := make([][]string, 0, len(history))
	for _, r := range history {
		rows = append(rows, []string{displayTime(r.Time), r.Filename, r.IP})
	}
	return c.table([]string{"Time", "File", "IP"}, rows) + "\n"
}
