package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/dmitrijs2005/filedrop/internal/client/client"
	"github.com/dmitrijs2005/filedrop/internal/client/models"
	"github.com/dmitrijs2005/filedrop/internal/common"
	"github.com/dmitrijs2005/filedrop/internal/logging"
)

type ManageState struct {
	FileGroupID string
	// Group is nil until the first successful refresh.
	Group       *models.FileGroup
	Busy        bool
	AutoRefresh bool
	Confirm     ConfirmState
	Deleted     bool
}

type ManageView interface {
	RenderManage(ManageState)
	Alert(msg string)
}

type ManageOptions struct {
	// RefreshInterval is the auto-refresh period.
	RefreshInterval time.Duration
}

// Manager coordinates the management page of one file group.
type Manager struct {
	id    string
	api   client.Client
	prefs Preferences
	view  ManageView
	nav   Navigator
	log   logging.Logger
	opts  ManageOptions

	newTicker tickerFunc

	mu        sync.Mutex
	state     ManageState
	stopTimer context.CancelFunc
	timers    sync.WaitGroup
}

func NewManager(api client.Client, prefs Preferences, view ManageView, nav Navigator, log logging.Logger, fileGroupID string, opts ManageOptions) *Manager {
	if opts.RefreshInterval <= 0 {
		opts.RefreshInterval = time.Minute
	}
	return &Manager{
		id:        fileGroupID,
		api:       api,
		prefs:     prefs,
		view:      view,
		nav:       nav,
		log:       log.With("page", "manage", "file_group_id", fileGroupID),
		opts:      opts,
		newTicker: realTicker,
		state:     ManageState{FileGroupID: fileGroupID},
	}
}

func (m *Manager) State() ManageState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snapshot()
}

func (m *Manager) Show() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.render()
}

// Load fetches the current status and re-applies the persisted auto-refresh
// preference through ToggleAutoRefresh. A missing or unreadable preference
// means disabled.
func (m *Manager) Load(ctx context.Context) error {
	refreshErr := m.Refresh(ctx)
	if errors.Is(refreshErr, ErrIllegalTransition) {
		return refreshErr
	}

	v, ok, err := m.prefs.Get(ctx, common.AutoRefreshPreferenceKey)
	if err != nil {
		m.log.Warn(ctx, "auto-refresh preference unreadable", "error", err)
	}
	enabled := ok && v == "true"
	if err := m.ToggleAutoRefresh(ctx, enabled); err != nil {
		m.log.Warn(ctx, "auto-refresh preference not re-applied", "error", err)
	}
	return refreshErr
}

// Refresh fetches the file group status and re-renders it. The busy flag is
// cleared whatever the outcome. A refresh cancelled by its own context is
// not alerted.
func (m *Manager) Refresh(ctx context.Context) error {
	m.mu.Lock()
	if m.state.Deleted {
		defer m.mu.Unlock()
		return fmt.Errorf("%w: refresh after delete", ErrIllegalTransition)
	}
	m.state.Busy = true
	m.render()
	m.mu.Unlock()

	group, err := m.api.FileGroup(ctx, m.id)

	m.mu.Lock()
	defer m.mu.Unlock()

	m.state.Busy = false
	if err != nil {
		m.render()
		if ctx.Err() != nil && errors.Is(err, ctx.Err()) {
			return err
		}
		m.log.Warn(ctx, "refresh failed", "error", err)
		m.view.Alert(client.UserMessage(err, client.MsgRequestFailed))
		return err
	}
	if !m.state.Deleted {
		m.state.Group = group
	}
	m.render()
	return nil
}

// ToggleAutoRefresh starts or stops the periodic refresh and persists the
// choice. Enabling restarts the period. A persistence failure is returned
// but leaves the timer state applied.
func (m *Manager) ToggleAutoRefresh(ctx context.Context, enabled bool) error {
	m.mu.Lock()
	if m.state.Deleted && enabled {
		defer m.mu.Unlock()
		return fmt.Errorf("%w: enable auto-refresh after delete", ErrIllegalTransition)
	}
	m.cancelTimerLocked()
	if enabled {
		m.startTimerLocked(ctx)
	}
	m.state.AutoRefresh = enabled
	m.render()
	m.mu.Unlock()

	if err := m.prefs.Set(ctx, common.AutoRefreshPreferenceKey, strconv.FormatBool(enabled)); err != nil {
		m.log.Warn(ctx, "auto-refresh preference not saved", "error", err)
		return fmt.Errorf("save auto-refresh preference: %w", err)
	}
	return nil
}

// startTimerLocked must be called with m.mu held. The timer goroutine keeps
// ctx values but not its cancellation; it stops via m.stopTimer.
func (m *Manager) startTimerLocked(ctx context.Context) {
	tctx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	ticks, stop := m.newTicker(m.opts.RefreshInterval)
	m.stopTimer = cancel

	m.timers.Add(1)
	go func() {
		defer m.timers.Done()
		defer stop()
		for {
			select {
			case <-tctx.Done():
				return
			case <-ticks:
				if err := m.Refresh(tctx); errors.Is(err, ErrIllegalTransition) {
					return
				}
			}
		}
	}()
}

// cancelTimerLocked must be called with m.mu held. It does not wait for the
// timer goroutine, which may itself be waiting for m.mu.
func (m *Manager) cancelTimerLocked() {
	if m.stopTimer != nil {
		m.stopTimer()
		m.stopTimer = nil
	}
}

// RequestDelete shows the confirmation modal.
func (m *Manager) RequestDelete() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state.Deleted {
		return fmt.Errorf("%w: delete after delete", ErrIllegalTransition)
	}
	next, err := m.state.Confirm.Request()
	if err != nil {
		return err
	}
	m.state.Confirm = next
	m.render()
	return nil
}

// CancelDelete hides the confirmation modal.
func (m *Manager) CancelDelete() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	next, err := m.state.Confirm.Cancel()
	if err != nil {
		return err
	}
	m.state.Confirm = next
	m.render()
	return nil
}

// ConfirmDelete issues the delete. It is only legal while the modal is shown.
// On success auto-refresh stops and the page navigates to the root; on
// failure the modal is hidden and the page stays.
func (m *Manager) ConfirmDelete(ctx context.Context) error {
	m.mu.Lock()
	next, err := m.state.Confirm.Begin()
	if err != nil {
		defer m.mu.Unlock()
		return err
	}
	m.state.Confirm = next
	m.render()
	m.mu.Unlock()

	err = m.api.Delete(ctx, m.id)

	m.mu.Lock()
	m.state.Confirm, _ = m.state.Confirm.Settle()
	if err != nil {
		defer m.mu.Unlock()
		m.render()
		m.log.Warn(ctx, "delete failed", "error", err)
		m.view.Alert(client.UserMessage(err, client.MsgDeleteFailed))
		return err
	}
	m.state.Deleted = true
	m.state.AutoRefresh = false
	m.cancelTimerLocked()
	m.render()
	m.mu.Unlock()

	m.log.Info(ctx, "file group deleted")
	m.nav.Navigate("/")
	return nil
}

// Close stops auto-refresh and waits for timer goroutines to exit.
// The persisted preference is left untouched.
func (m *Manager) Close() {
	m.mu.Lock()
	m.cancelTimerLocked()
	m.mu.Unlock()

	m.timers.Wait()
}

func (m *Manager) snapshot() ManageState {
	s := m.state
	if s.Group != nil {
		g := *s.Group
		s.Group = &g
	}
	return s
}

// render must be called with m.mu held.
func (m *Manager) render() {
	m.view.RenderManage(m.snapshot())
}
