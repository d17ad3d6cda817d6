package client

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Failure classes. Every *APIError matches exactly one of them via errors.Is.
var (
	ErrTransport         = errors.New("transport failure")
	ErrApplication       = errors.New("application failure")
	ErrMalformedResponse = errors.New("malformed response")
)

// ErrFileTooLarge additionally matches transport failures caused by HTTP 413.
var ErrFileTooLarge = errors.New("file too large")

// User-facing messages.
const (
	MsgNetworkError     = "A network error occurred, please try again later"
	MsgRequestFailed    = "Request failed, please try again later"
	MsgUploadFailed     = "Upload failed"
	MsgFileTooLarge     = "File too large: the upload exceeds the server limit"
	MsgServerError      = "The server encountered an error, please try again later"
	MsgUnreadableResult = "Upload finished but the result could not be read. Reload and check the management page"
	MsgUnreadableReply  = "The server reply could not be read"
	MsgInvalidCode      = "Invalid pickup code"
	MsgLoadFailed       = "Failed to load file group"
	MsgDeleteFailed     = "Delete failed"
)

// APIError is a classified API failure. Message is safe to show the user.
type APIError struct {
	Op         string
	StatusCode int
	Message    string

	kind error
	Err  error
}

func (e *APIError) Error() string {
	if e == nil {
		return "api error"
	}
	s := e.Op + ": " + e.kind.Error()
	if e.StatusCode != 0 {
		s += fmt.Sprintf(" (HTTP %d)", e.StatusCode)
	}
	if e.Message != "" {
		s += ": " + e.Message
	}
	if e.Err != nil {
		s += ": " + e.Err.Error()
	}
	return s
}

func (e *APIError) Is(target error) bool {
	if target == e.kind {
		return true
	}
	return target == ErrFileTooLarge && e.StatusCode == http.StatusRequestEntityTooLarge
}

func (e *APIError) Unwrap() error { return e.Err }

// UserMessage extracts the user-facing message from err, falling back to def.
func UserMessage(err error, def string) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return def
}

func transportError(op string, err error) *APIError {
	return &APIError{Op: op, Message: MsgNetworkError, kind: ErrTransport, Err: err}
}

func applicationError(op, serverMsg, def string) *APIError {
	msg := strings.TrimSpace(serverMsg)
	if msg == "" {
		msg = def
	}
	return &APIError{Op: op, Message: msg, kind: ErrApplication}
}

func malformedError(op string, status int, msg string, err error) *APIError {
	return &APIError{Op: op, StatusCode: status, Message: msg, kind: ErrMalformedResponse, Err: err}
}

type errorBody struct {
	Error string `json:"error"`
}

// statusError classifies a non-OK response. A 413 always maps to the
// file-too-large message; HTML error pages map to the generic server message;
// otherwise a JSON {"error": ...} is used when present.
func statusError(op string, status int, contentType string, body []byte, def string) *APIError {
	e := &APIError{Op: op, StatusCode: status, Message: def, kind: ErrTransport}

	switch {
	case status == http.StatusRequestEntityTooLarge:
		e.Message = MsgFileTooLarge
	case isHTML(contentType, body):
		e.Message = MsgServerError
		if title := htmlTitle(body); title != "" {
			e.Err = fmt.Errorf("html error page %q", title)
		}
	default:
		var eb errorBody
		if json.Unmarshal(body, &eb) == nil && strings.TrimSpace(eb.Error) != "" {
			e.Message = strings.TrimSpace(eb.Error)
		}
	}
	return e
}

func isHTML(contentType string, body []byte) bool {
	if mt, _, err := mime.ParseMediaType(contentType); err == nil && mt == "text/html" {
		return true
	}
	return bytes.HasPrefix(bytes.TrimSpace(body), []byte("<"))
}

func htmlTitle(body []byte) string {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(doc.Find("title").First().Text())
}
