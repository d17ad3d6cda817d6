package services

import "time"

// LockState is the per-file download state: Available or InFlight.
type LockState interface {
	lockState()
}

// Available means a download for the file may be triggered.
type Available struct{}

// InFlight means a download was triggered. A zero Until means the trigger
// has not completed yet and the cooldown has not started.
type InFlight struct {
	Until time.Time
}

func (Available) lockState() {}
func (InFlight) lockState()  {}

// DownloadLocks maps file names to lock states. Entries are created on first
// use and never removed, only flipped. It is not safe for concurrent use.
type DownloadLocks struct {
	cooldown time.Duration
	entries  map[string]LockState
}

func NewDownloadLocks(cooldown time.Duration) *DownloadLocks {
	return &DownloadLocks{cooldown: cooldown, entries: map[string]LockState{}}
}

// State reports the state of name at now, flipping an expired InFlight entry
// back to Available.
func (l *DownloadLocks) State(name string, now time.Time) LockState {
	st, ok := l.entries[name]
	if !ok {
		return Available{}
	}
	switch s := st.(type) {
	case Available:
		return s
	case InFlight:
		if !s.Until.IsZero() && !now.Before(s.Until) {
			l.entries[name] = Available{}
			return Available{}
		}
		return s
	default:
		panic("unreachable lock state")
	}
}

// Acquire moves name from Available to InFlight. It reports false when a
// download for name is already in flight.
func (l *DownloadLocks) Acquire(name string, now time.Time) bool {
	switch l.State(name, now).(type) {
	case Available:
		l.entries[name] = InFlight{}
		return true
	case InFlight:
		return false
	default:
		panic("unreachable lock state")
	}
}

// Settle starts the cooldown of an in-flight entry whose trigger completed
// at now. Settling an available entry is a no-op.
func (l *DownloadLocks) Settle(name string, now time.Time) {
	switch s := l.State(name, now).(type) {
	case Available:
	case InFlight:
		if s.Until.IsZero() {
			l.entries[name] = InFlight{Until: now.Add(l.cooldown)}
		}
	default:
		panic("unreachable lock state")
	}
}
