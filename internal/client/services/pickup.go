package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/filedrop/internal/client/client"
	"github.com/dmitrijs2005/filedrop/internal/client/models"
	"github.com/dmitrijs2005/filedrop/internal/logging"
)

type PickupPhase int

const (
	PickupEntering PickupPhase = iota
	PickupRedeeming
	PickupListing
)

func (p PickupPhase) String() string {
	switch p {
	case PickupEntering:
		return "entering"
	case PickupRedeeming:
		return "redeeming"
	case PickupListing:
		return "listing"
	default:
		return fmt.Sprintf("PickupPhase(%d)", int(p))
	}
}

// BatchProgress is the download-all progress surface.
type BatchProgress struct {
	Visible bool
	Percent int
	Current int
	Total   int
}

// Counter renders the "i/total" label.
func (b BatchProgress) Counter() string {
	return fmt.Sprintf("%d/%d", b.Current, b.Total)
}

type PickupState struct {
	Phase PickupPhase
	Files []models.FileDescriptor
	Batch BatchProgress
}

type PickupView interface {
	RenderPickup(PickupState)
	Alert(msg string)
}

type PickupOptions struct {
	// Cooldown keeps a file locked after its download was triggered.
	Cooldown time.Duration
	// Interval separates consecutive downloads of a download-all pass.
	Interval time.Duration
}

// Pickup coordinates the pickup page.
type Pickup struct {
	api     client.Client
	view    PickupView
	trigger DownloadTrigger
	log     logging.Logger
	opts    PickupOptions

	now   nowFunc
	sleep sleepFunc

	mu    sync.Mutex
	state PickupState
	cap   models.Capability
	locks *DownloadLocks
}

func NewPickup(api client.Client, view PickupView, trigger DownloadTrigger, log logging.Logger, opts PickupOptions) *Pickup {
	if opts.Cooldown <= 0 {
		opts.Cooldown = 3 * time.Minute
	}
	if opts.Interval <= 0 {
		opts.Interval = 5 * time.Second
	}
	return &Pickup{
		api:     api,
		view:    view,
		trigger: trigger,
		log:     log.With("page", "pickup"),
		opts:    opts,
		now:     time.Now,
		sleep:   realSleep,
		locks:   NewDownloadLocks(opts.Cooldown),
	}
}

func (p *Pickup) State() PickupState {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.snapshot()
}

func (p *Pickup) Show() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.render()
}

// LockState reports the download lock of the named file.
func (p *Pickup) LockState(name string) LockState {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.locks.State(name, p.now())
}

// Redeem exchanges a pickup code for a capability and the file list.
// Surrounding whitespace is ignored and an empty code never reaches the network.
func (p *Pickup) Redeem(ctx context.Context, code string) error {
	code = strings.TrimSpace(code)
	if code == "" {
		p.mu.Lock()
		defer p.mu.Unlock()
		p.view.Alert(MsgEnterCode)
		return ErrEmptyPickupCode
	}

	p.mu.Lock()
	if p.state.Phase != PickupEntering {
		defer p.mu.Unlock()
		return fmt.Errorf("%w: redeem while %s", ErrIllegalTransition, p.state.Phase)
	}
	p.state.Phase = PickupRedeeming
	p.render()
	p.mu.Unlock()

	res, err := p.api.Pickup(ctx, code)

	p.mu.Lock()
	defer p.mu.Unlock()

	if err != nil {
		p.state.Phase = PickupEntering
		p.render()
		p.log.Warn(ctx, "redeem failed", "error", err)
		p.view.Alert(client.UserMessage(err, client.MsgRequestFailed))
		return err
	}

	p.cap = res.Capability
	p.state.Phase = PickupListing
	p.state.Files = slices.Clone(res.Files)
	p.state.Batch = BatchProgress{}
	p.render()
	p.log.Info(ctx, "pickup code redeemed", "file_group_id", res.Capability.FileGroupID, "files", len(res.Files))
	return nil
}

// Download triggers the download of one file. A file whose previous download
// is still in flight or cooling down is rejected with ErrDownloadInFlight.
func (p *Pickup) Download(ctx context.Context, name string) error {
	p.mu.Lock()
	if !p.cap.Valid() {
		defer p.mu.Unlock()
		p.view.Alert(MsgNoCapability)
		return ErrNoCapability
	}
	if !p.locks.Acquire(name, p.now()) {
		defer p.mu.Unlock()
		p.view.Alert(MsgDownloadInFlight)
		return fmt.Errorf("%w: %s", ErrDownloadInFlight, name)
	}
	capability := p.cap
	p.mu.Unlock()

	path := client.DownloadPath(capability.FileGroupID, name, capability.Token)
	p.log.Debug(ctx, "download triggered", "path", client.RedactToken(path))

	err := p.trigger.Trigger(ctx, path, name)

	p.mu.Lock()
	defer p.mu.Unlock()

	// The lock is kept on failure too; the cooldown starts either way.
	p.locks.Settle(name, p.now())
	if err != nil {
		p.log.Warn(ctx, "download trigger failed", "file", name, "error", err)
		p.view.Alert(client.UserMessage(err, MsgDownloadFailed))
		return fmt.Errorf("download %s: %w", name, err)
	}
	return nil
}

// DownloadAll triggers every listed file in order with a fixed delay
// between consecutive triggers. Download alerts each locked file and each
// failed trigger; neither stops the pass.
func (p *Pickup) DownloadAll(ctx context.Context) error {
	p.mu.Lock()
	if !p.cap.Valid() {
		defer p.mu.Unlock()
		p.view.Alert(MsgNoCapability)
		return ErrNoCapability
	}
	files := slices.Clone(p.state.Files)
	total := len(files)
	if total == 0 {
		p.mu.Unlock()
		return nil
	}
	p.state.Batch = BatchProgress{Visible: true, Total: total}
	p.render()
	p.mu.Unlock()

	var failed int
	for i, f := range files {
		if i > 0 {
			if err := p.sleep(ctx, p.opts.Interval); err != nil {
				p.hideBatch()
				return err
			}
		}

		p.mu.Lock()
		p.state.Batch.Percent = int(math.Round(float64(i) / float64(total) * 100))
		p.state.Batch.Current = i + 1
		p.render()
		p.mu.Unlock()

		if err := p.Download(ctx, f.Name); err != nil {
			if errors.Is(err, ErrNoCapability) {
				p.hideBatch()
				return err
			}
			if !errors.Is(err, ErrDownloadInFlight) {
				failed++
			}
		}
	}

	p.mu.Lock()
	p.state.Batch.Percent = 100
	p.render()
	p.mu.Unlock()
	p.hideBatch()

	p.log.Info(ctx, "download all finished", "files", total, "failed", failed)
	return nil
}

func (p *Pickup) hideBatch() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.state.Batch = BatchProgress{}
	p.render()
}

// Reset drops the capability and returns to code entry.
func (p *Pickup) Reset() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.state.Phase == PickupRedeeming {
		return fmt.Errorf("%w: reset while %s", ErrIllegalTransition, p.state.Phase)
	}
	p.cap = models.Capability{}
	p.state = PickupState{Phase: PickupEntering}
	p.render()
	return nil
}

func (p *Pickup) snapshot() PickupState {
	s := p.state
	s.Files = slices.Clone(s.Files)
	return s
}

// render must be called with p.mu held.
func (p *Pickup) render() {
	p.view.RenderPickup(p.snapshot())
}
