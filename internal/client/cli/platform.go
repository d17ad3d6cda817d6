package cli

import (
	"context"
	"errors"
	"os"
	"sync"

	"github.com/aymanbagabas/go-osc52/v2"

	"github.com/dmitrijs2005/filedrop/internal/client/client"
	"github.com/dmitrijs2005/filedrop/internal/logging"
)

var ErrNoClipboard = errors.New("clipboard unavailable: output is not a terminal")

// osc52Clipboard copies text through the terminal with the OSC 52 escape
// sequence, which most terminal emulators forward to the system clipboard.
type osc52Clipboard struct {
	c *console
}

func (o osc52Clipboard) WriteText(text string) error {
	if !o.c.tty {
		return ErrNoClipboard
	}
	o.c.mu.Lock()
	defer o.c.mu.Unlock()
	seq := osc52.New(text)
	if os.Getenv("TMUX") != "" {
		seq = seq.Tmux()
	}
	_, err := seq.WriteTo(o.c.w)
	return err
}

// backgroundDownloads saves triggered downloads into dir without blocking
// the caller, like the browser does for an anchor click.
type backgroundDownloads struct {
	api client.Client
	dir string
	c   *console
	log logging.Logger
	ctx context.Context

	wg sync.WaitGroup
}

func newBackgroundDownloads(ctx context.Context, api client.Client, dir string, c *console, log logging.Logger) *backgroundDownloads {
	return &backgroundDownloads{api: api, dir: dir, c: c, log: log, ctx: ctx}
}

// Trigger starts the download and returns immediately. The result is
// reported on the console when the transfer ends.
func (d *backgroundDownloads) Trigger(_ context.Context, path, fileName string) error {
	if err := d.ctx.Err(); err != nil {
		return err
	}
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		saved, err := d.api.Download(d.ctx, path, d.dir)
		if err != nil {
			d.log.Warn(d.ctx, "download failed", "file", fileName, "error", err)
			d.c.Println(d.c.alert.Render("! Download of " + fileName + " failed: " + client.UserMessage(err, err.Error())))
			return
		}
		d.c.Printf("Saved %s to %s\n", fileName, saved)
	}()
	return nil
}

// Wait blocks until every started download has ended.
func (d *backgroundDownloads) Wait() {
	d.wg.Wait()
}
