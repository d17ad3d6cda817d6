package services

import (
	"context"
	"fmt"
	"math"
	"slices"
	"sync"
	"time"

	"github.com/dmitrijs2005/filedrop/internal/client/client"
	"github.com/dmitrijs2005/filedrop/internal/client/models"
	"github.com/dmitrijs2005/filedrop/internal/logging"
)

// UploadPhase selects which of the mutually exclusive upload surfaces is visible.
type UploadPhase int

const (
	UploadEditing UploadPhase = iota
	UploadSending
	UploadDone
)

func (p UploadPhase) String() string {
	switch p {
	case UploadEditing:
		return "editing"
	case UploadSending:
		return "sending"
	case UploadDone:
		return "done"
	default:
		return fmt.Sprintf("UploadPhase(%d)", int(p))
	}
}

// UploadOutcome is what the result surface shows.
type UploadOutcome struct {
	PickupCode string
	ManagePath string
}

// UploadState is a snapshot of the upload page.
type UploadState struct {
	Phase     UploadPhase
	Staged    []models.LocalFile
	Retention models.Retention
	// Percent is meaningful only while Phase is UploadSending.
	Percent   int
	Result    *UploadOutcome
	CopyLabel string
}

// TotalStaged returns the byte size of all staged files.
func (s UploadState) TotalStaged() int64 {
	var n int64
	for _, f := range s.Staged {
		n += f.Size
	}
	return n
}

type UploadView interface {
	RenderUpload(UploadState)
	Alert(msg string)
}

type UploadOptions struct {
	// CopyFeedback is how long the copy control reads "Copied".
	CopyFeedback time.Duration
}

// Uploader coordinates the upload page.
type Uploader struct {
	api  client.Client
	view UploadView
	clip Clipboard
	log  logging.Logger
	opts UploadOptions

	afterFunc afterFuncFunc

	mu      sync.Mutex
	state   UploadState
	gen     uint64
	copyGen uint64
	copyTmr stopper
}

func NewUploader(api client.Client, view UploadView, clip Clipboard, log logging.Logger, opts UploadOptions) *Uploader {
	if opts.CopyFeedback <= 0 {
		opts.CopyFeedback = 2 * time.Second
	}
	return &Uploader{
		api:       api,
		view:      view,
		clip:      clip,
		log:       log.With("page", "upload"),
		opts:      opts,
		afterFunc: realAfterFunc,
		state: UploadState{
			Phase:     UploadEditing,
			Retention: models.DefaultRetention(),
			CopyLabel: LabelCopy,
		},
	}
}

// State returns a snapshot of the current state.
func (u *Uploader) State() UploadState {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.snapshot()
}

// Show renders the current state.
func (u *Uploader) Show() {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.render()
}

// SelectFiles replaces the staged set wholesale.
func (u *Uploader) SelectFiles(files []models.LocalFile) error {
	u.mu.Lock()
	defer u.mu.Unlock()

	if u.state.Phase != UploadEditing {
		return fmt.Errorf("%w: select files while %s", ErrIllegalTransition, u.state.Phase)
	}
	u.state.Staged = slices.Clone(files)
	u.render()
	return nil
}

// AddFiles appends files to the staged set.
func (u *Uploader) AddFiles(files ...models.LocalFile) error {
	u.mu.Lock()
	defer u.mu.Unlock()

	if u.state.Phase != UploadEditing {
		return fmt.Errorf("%w: add files while %s", ErrIllegalTransition, u.state.Phase)
	}
	u.state.Staged = append(slices.Clone(u.state.Staged), files...)
	u.render()
	return nil
}

// RemoveStaged drops the staged file at index i.
func (u *Uploader) RemoveStaged(i int) error {
	u.mu.Lock()
	defer u.mu.Unlock()

	if u.state.Phase != UploadEditing {
		return fmt.Errorf("%w: remove file while %s", ErrIllegalTransition, u.state.Phase)
	}
	if i < 0 || i >= len(u.state.Staged) {
		return fmt.Errorf("%w: %d of %d", ErrStagedIndexOutOfRange, i, len(u.state.Staged))
	}
	u.state.Staged = slices.Delete(slices.Clone(u.state.Staged), i, i+1)
	u.render()
	return nil
}

// SetRetention validates and stores the retention parameters.
func (u *Uploader) SetRetention(r models.Retention) error {
	u.mu.Lock()
	defer u.mu.Unlock()

	if u.state.Phase != UploadEditing {
		return fmt.Errorf("%w: set retention while %s", ErrIllegalTransition, u.state.Phase)
	}
	if err := r.Validate(); err != nil {
		u.view.Alert(err.Error())
		return err
	}
	u.state.Retention = r
	u.render()
	return nil
}

// Submit uploads the staged files. Validation failures never reach the
// network. On failure the form is restored with the staged files intact;
// on success the staged set is discarded and the result surface shown.
func (u *Uploader) Submit(ctx context.Context) (*UploadOutcome, error) {
	u.mu.Lock()
	if u.state.Phase != UploadEditing {
		defer u.mu.Unlock()
		return nil, fmt.Errorf("%w: submit while %s", ErrIllegalTransition, u.state.Phase)
	}
	if len(u.state.Staged) == 0 {
		defer u.mu.Unlock()
		u.view.Alert(MsgSelectFiles)
		return nil, ErrNoFilesSelected
	}
	if err := u.state.Retention.Validate(); err != nil {
		defer u.mu.Unlock()
		u.view.Alert(err.Error())
		return nil, err
	}

	files := slices.Clone(u.state.Staged)
	retention := u.state.Retention
	u.gen++
	gen := u.gen
	u.state.Phase = UploadSending
	u.state.Percent = 0
	u.render()
	u.mu.Unlock()

	u.log.Info(ctx, "upload started", "files", len(files))

	res, err := u.api.Upload(ctx, files, retention, func(sent, total int64) {
		u.progress(gen, sent, total)
	})

	u.mu.Lock()
	defer u.mu.Unlock()

	// Leaving UploadSending hides the progress surface before either branch.
	if err != nil {
		u.state.Phase = UploadEditing
		u.state.Percent = 0
		u.render()
		u.log.Warn(ctx, "upload failed", "error", err)
		u.view.Alert(client.UserMessage(err, client.MsgRequestFailed))
		return nil, err
	}

	out := &UploadOutcome{
		PickupCode: res.PickupCode,
		ManagePath: client.ManagePath(res.FileGroupID),
	}
	u.state.Phase = UploadDone
	u.state.Percent = 0
	u.state.Staged = nil
	u.state.Result = out
	u.state.CopyLabel = LabelCopy
	u.render()
	u.log.Info(ctx, "upload finished", "file_group_id", res.FileGroupID)

	o := *out
	return &o, nil
}

func (u *Uploader) progress(gen uint64, sent, total int64) {
	if total <= 0 {
		return
	}
	pct := int(math.Round(float64(sent) / float64(total) * 100))
	pct = min(max(pct, 0), 100)

	u.mu.Lock()
	defer u.mu.Unlock()

	if gen != u.gen || u.state.Phase != UploadSending {
		return
	}
	if pct <= u.state.Percent {
		return
	}
	u.state.Percent = pct
	u.render()
}

// CopyCode writes the pickup code to the clipboard and flips the copy
// control to "Copied" for the configured feedback window.
func (u *Uploader) CopyCode(ctx context.Context) error {
	u.mu.Lock()
	if u.state.Phase != UploadDone || u.state.Result == nil {
		defer u.mu.Unlock()
		return fmt.Errorf("%w: copy code while %s", ErrIllegalTransition, u.state.Phase)
	}
	code := u.state.Result.PickupCode
	u.mu.Unlock()

	if err := u.clip.WriteText(code); err != nil {
		u.log.Warn(ctx, "clipboard write failed", "error", err)
		u.view.Alert(MsgCopyFailedPrefix + err.Error())
		return fmt.Errorf("copy pickup code: %w", err)
	}

	u.mu.Lock()
	defer u.mu.Unlock()

	if u.state.Phase != UploadDone {
		return nil
	}
	if u.copyTmr != nil {
		u.copyTmr.Stop()
	}
	u.copyGen++
	g := u.copyGen
	u.state.CopyLabel = LabelCopied
	u.render()

	u.copyTmr = u.afterFunc(u.opts.CopyFeedback, func() {
		u.mu.Lock()
		defer u.mu.Unlock()
		if g != u.copyGen || u.state.Phase != UploadDone {
			return
		}
		u.state.CopyLabel = LabelCopy
		u.render()
	})
	return nil
}

// Reset returns to a blank form. It is idempotent, but not allowed while an
// upload is in flight.
func (u *Uploader) Reset() error {
	u.mu.Lock()
	defer u.mu.Unlock()

	if u.state.Phase == UploadSending {
		return fmt.Errorf("%w: reset while %s", ErrIllegalTransition, u.state.Phase)
	}
	if u.copyTmr != nil {
		u.copyTmr.Stop()
		u.copyTmr = nil
	}
	u.copyGen++
	u.state = UploadState{
		Phase:     UploadEditing,
		Retention: models.DefaultRetention(),
		CopyLabel: LabelCopy,
	}
	u.render()
	return nil
}

func (u *Uploader) snapshot() UploadState {
	s := u.state
	s.Staged = slices.Clone(s.Staged)
	if s.Result != nil {
		r := *s.Result
		s.Result = &r
	}
	return s
}

// render must be called with u.mu held.
func (u *Uploader) render() {
	u.view.RenderUpload(u.snapshot())
}
