package cli

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

var ErrUnknownPage = errors.New("unknown page")

type PageKind int

const (
	PageUpload PageKind = iota
	PagePickup
	PageManage
)

// Page is a routed client page.
type Page struct {
	Kind        PageKind
	FileGroupID string
}

// Path returns the canonical same-origin path of p.
func (p Page) Path() string {
	switch p.Kind {
	case PagePickup:
		return "/pickup"
	case PageManage:
		return "/manage/" + url.PathEscape(p.FileGroupID)
	default:
		return "/upload"
	}
}

// ParsePage routes a path the way the web front end does: a path containing
// /manage/{id} opens the management page, /pickup the pickup page, and
// /upload or the root the upload page. Absolute URLs are accepted and their
// query and fragment ignored.
func ParsePage(raw string) (Page, error) {
	p := strings.TrimSpace(raw)
	if u, err := url.Parse(p); err == nil {
		p = u.EscapedPath()
	}

	if _, rest, ok := strings.Cut(p, "/manage/"); ok {
		id, _, _ := strings.Cut(rest, "/")
		id, err := url.PathUnescape(id)
		if err != nil {
			return Page{}, fmt.Errorf("%w: %s: %v", ErrUnknownPage, raw, err)
		}
		if id == "" {
			return Page{}, fmt.Errorf("%w: %s: missing file group id", ErrUnknownPage, raw)
		}
		return Page{Kind: PageManage, FileGroupID: id}, nil
	}

	switch {
	case strings.Contains(p, "/pickup"):
		return Page{Kind: PagePickup}, nil
	case strings.Contains(p, "/upload"), p == "", p == "/":
		return Page{Kind: PageUpload}, nil
	default:
		return Page{}, fmt.Errorf("%w: %s", ErrUnknownPage, raw)
	}
}
