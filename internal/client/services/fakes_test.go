package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/dmitrijs2005/filedrop/internal/client/client"
	"github.com/dmitrijs2005/filedrop/internal/client/models"
)

type fakeAPI struct {
	mu sync.Mutex

	uploadFn    func(ctx context.Context, files []models.LocalFile, r models.Retention, progress client.ProgressFunc) (*models.UploadResult, error)
	pickupFn    func(ctx context.Context, code string) (*models.PickupResult, error)
	fileGroupFn func(ctx context.Context, id string) (*models.FileGroup, error)
	deleteFn    func(ctx context.Context, id string) error

	calls map[string]int
	codes []string
}

func (f *fakeAPI) hit(op string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.calls == nil {
		f.calls = map[string]int{}
	}
	f.calls[op]++
}

func (f *fakeAPI) count(op string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[op]
}

func (f *fakeAPI) Upload(ctx context.Context, files []models.LocalFile, r models.Retention, progress client.ProgressFunc) (*models.UploadResult, error) {
	f.hit("upload")
	if f.uploadFn == nil {
		return &models.UploadResult{PickupCode: "ABC123", FileGroupID: "g1"}, nil
	}
	return f.uploadFn(ctx, files, r, progress)
}

func (f *fakeAPI) Pickup(ctx context.Context, code string) (*models.PickupResult, error) {
	f.hit("pickup")
	f.mu.Lock()
	f.codes = append(f.codes, code)
	f.mu.Unlock()
	if f.pickupFn == nil {
		return &models.PickupResult{
			Capability: models.Capability{FileGroupID: "g1", Token: "tok"},
			Files: []models.FileDescriptor{
				{Name: "a.txt", Size: 1},
				{Name: "b.txt", Size: 2},
				{Name: "c.txt", Size: 3},
			},
		}, nil
	}
	return f.pickupFn(ctx, code)
}

func (f *fakeAPI) FileGroup(ctx context.Context, id string) (*models.FileGroup, error) {
	f.hit("filegroup")
	if f.fileGroupFn == nil {
		return &models.FileGroup{PickupCode: "ABC123", DownloadCount: 0}, nil
	}
	return f.fileGroupFn(ctx, id)
}

func (f *fakeAPI) Delete(ctx context.Context, id string) error {
	f.hit("delete")
	if f.deleteFn == nil {
		return nil
	}
	return f.deleteFn(ctx, id)
}

func (f *fakeAPI) Download(context.Context, string, string) (string, error) {
	return "", errors.New("not used by coordinators")
}

// alerts is embedded by the fake views.
type alerts struct {
	mu   sync.Mutex
	msgs []string
}

func (a *alerts) Alert(msg string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.msgs = append(a.msgs, msg)
}

func (a *alerts) messages() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]string(nil), a.msgs...)
}

type uploadView struct {
	alerts
	states []UploadState
}

func (v *uploadView) RenderUpload(s UploadState) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.states = append(v.states, s)
}

func (v *uploadView) renders() []UploadState {
	v.mu.Lock()
	defer v.mu.Unlock()
	return append([]UploadState(nil), v.states...)
}

type pickupView struct {
	alerts
	states []PickupState
}

func (v *pickupView) RenderPickup(s PickupState) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.states = append(v.states, s)
}

func (v *pickupView) renders() []PickupState {
	v.mu.Lock()
	defer v.mu.Unlock()
	return append([]PickupState(nil), v.states...)
}

type manageView struct {
	alerts
	states []ManageState
}

func (v *manageView) RenderManage(s ManageState) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.states = append(v.states, s)
}

func (v *manageView) renders() []ManageState {
	v.mu.Lock()
	defer v.mu.Unlock()
	return append([]ManageState(nil), v.states...)
}

type fakeClipboard struct {
	text string
	err  error
}

func (c *fakeClipboard) WriteText(s string) error {
	if c.err != nil {
		return c.err
	}
	c.text = s
	return nil
}

type fakeTrigger struct {
	mu    sync.Mutex
	paths []string
	err   error
}

func (t *fakeTrigger) Trigger(_ context.Context, path, _ string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.paths = append(t.paths, path)
	return t.err
}

func (t *fakeTrigger) triggered() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]string(nil), t.paths...)
}

type fakeNav struct {
	mu    sync.Mutex
	paths []string
}

func (n *fakeNav) Navigate(p string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.paths = append(n.paths, p)
}

func (n *fakeNav) visited() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.paths...)
}

type manualClock struct {
	mu sync.Mutex
	t  time.Time
}

func newClock() *manualClock {
	return &manualClock{t: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *manualClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *manualClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

// scheduled is a callback captured by fakeAfter.
type scheduled struct {
	d       time.Duration
	f       func()
	stopped bool
}

func (s *scheduled) Stop() bool {
	was := !s.stopped
	s.stopped = true
	return was
}

type fakeAfter struct {
	mu    sync.Mutex
	calls []*scheduled
}

func (a *fakeAfter) AfterFunc(d time.Duration, f func()) stopper {
	a.mu.Lock()
	defer a.mu.Unlock()
	s := &scheduled{d: d, f: f}
	a.calls = append(a.calls, s)
	return s
}

// fire runs the i-th scheduled callback unless it was stopped.
func (a *fakeAfter) fire(i int) {
	a.mu.Lock()
	s := a.calls[i]
	a.mu.Unlock()
	if !s.stopped {
		s.f()
	}
}

type fakeTicker struct {
	mu      sync.Mutex
	chans   []chan time.Time
	periods []time.Duration
	stopped int
}

func (t *fakeTicker) New(d time.Duration) (<-chan time.Time, func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	ch := make(chan time.Time)
	t.chans = append(t.chans, ch)
	t.periods = append(t.periods, d)
	return ch, func() {
		t.mu.Lock()
		defer t.mu.Unlock()
		t.stopped++
	}
}

func (t *fakeTicker) started() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.chans)
}

func (t *fakeTicker) stops() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.stopped
}

// tick delivers one tick to the latest ticker and reports whether a
// goroutine received it before the timeout.
func (t *fakeTicker) tick(timeout time.Duration) bool {
	t.mu.Lock()
	ch := t.chans[len(t.chans)-1]
	t.mu.Unlock()
	select {
	case ch <- time.Now():
		return true
	case <-time.After(timeout):
		return false
	}
}
