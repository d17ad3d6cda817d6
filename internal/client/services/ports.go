package services

import (
	"context"
	"time"
)

// Clipboard is the system clipboard.
type Clipboard interface {
	WriteText(text string) error
}

// DownloadTrigger hands a capability-scoped path to the platform download
// mechanism. It returns once the download has been started, not finished.
type DownloadTrigger interface {
	Trigger(ctx context.Context, path, fileName string) error
}

// Navigator leaves the current page.
type Navigator interface {
	Navigate(path string)
}

// Preferences is a durable string key/value store shared across sessions.
type Preferences interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
}

// stopper cancels a scheduled callback.
type stopper interface {
	Stop() bool
}

// Time seams. Production code uses the time package; tests swap them for
// manual clocks.
type (
	nowFunc       func() time.Time
	afterFuncFunc func(d time.Duration, f func()) stopper
	sleepFunc     func(ctx context.Context, d time.Duration) error
	tickerFunc    func(d time.Duration) (<-chan time.Time, func())
)

func realAfterFunc(d time.Duration, f func()) stopper {
	return time.AfterFunc(d, f)
}

func realSleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func realTicker(d time.Duration) (<-chan time.Time, func()) {
	t := time.NewTicker(d)
	return t.C, t.Stop
}
