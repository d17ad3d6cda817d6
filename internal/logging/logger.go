// Package logging is the structured-logging seam of the filedrop client.
// Coordinators and the HTTP client depend on Logger; the binary plugs in a
// slog text handler and tests use Nop.
package logging

import "context"

// Logger takes a message plus alternating key/value attributes:
//
//	log.Info(ctx, "upload finished", "file_group_id", id, "files", n)
type Logger interface {
	// Debug records coordinator transitions and request detail.
	Debug(ctx context.Context, msg string, args ...any)
	Info(ctx context.Context, msg string, args ...any)
	// Warn is used for failed API calls and other recoverable problems.
	Warn(ctx context.Context, msg string, args ...any)
	Error(ctx context.Context, msg string, args ...any)

	// With binds attributes such as op and request_id to every later record.
	With(args ...any) Logger
}
