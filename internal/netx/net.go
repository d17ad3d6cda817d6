// Package netx builds the HTTP client shared by every API call.
package netx

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/dmitrijs2005/filedrop/internal/common"
	"github.com/google/uuid"
)

type requestIDKey struct{}

// Transport stamps every outbound request with a User-Agent and a fresh
// X-Request-ID unless the caller already set one via WithRequestID.
type Transport struct {
	Base http.RoundTripper
}

func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	if req == nil {
		return nil, errors.New("nil request")
	}
	base := t.Base
	if base == nil {
		base = http.DefaultTransport
	}

	r := req.Clone(req.Context())
	if r.Header.Get("User-Agent") == "" {
		r.Header.Set("User-Agent", common.UserAgent)
	}
	if r.Header.Get(common.RequestIDHeaderName) == "" {
		id, ok := RequestID(req.Context())
		if !ok {
			id = uuid.NewString()
		}
		r.Header.Set(common.RequestIDHeaderName, id)
	}

	return base.RoundTrip(r)
}

// WithRequestID attaches id to ctx so the transport reuses it instead of
// minting a new one. Callers use this to log the same id they send.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// RequestID returns the id stored by WithRequestID.
func RequestID(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(requestIDKey{}).(string)
	return id, ok && id != ""
}

// NewRequestContext returns ctx carrying a freshly generated request id.
func NewRequestContext(ctx context.Context) (context.Context, string) {
	id := uuid.NewString()
	return WithRequestID(ctx, id), id
}

// NewClient returns an HTTP client without a global timeout: uploads and
// downloads may legitimately run long, so deadlines come from contexts.
func NewClient() *http.Client {
	base := &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		TLSHandshakeTimeout:   10 * time.Second,
		ResponseHeaderTimeout: 60 * time.Second,
		IdleConnTimeout:       90 * time.Second,
	}
	return &http.Client{Transport: &Transport{Base: base}}
}
