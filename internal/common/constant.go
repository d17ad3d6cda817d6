// Package common contains shared constants and sentinel errors used across
// filedrop components.
package common

const (
	// RequestIDHeaderName carries the per-call correlation id on outbound requests.
	RequestIDHeaderName = "X-Request-ID"

	// UserAgent identifies the terminal client to the file-drop server.
	UserAgent = "filedrop-cli/1.0"

	// AutoRefreshPreferenceKey is the single durable preference shared across
	// management sessions. Values are the literal strings "true" and "false".
	AutoRefreshPreferenceKey = "autoRefresh"
)
