package client

import (
	"fmt"
	"io"
	"mime/multipart"
	"sync"

	"github.com/dmitrijs2005/filedrop/internal/client/models"
)

// FilesField is the repeated multipart field carrying uploaded files.
const FilesField = "files[]"

type countingWriter struct{ n int64 }

func (w *countingWriter) Write(p []byte) (int, error) {
	w.n += int64(len(p))
	return len(p), nil
}

// multipartLength computes the exact encoded body length by laying out the
// form with empty file parts and adding the declared file sizes back.
func multipartLength(boundary string, files []models.LocalFile, fields [][2]string) (int64, error) {
	cw := &countingWriter{}
	mw := multipart.NewWriter(cw)
	if err := mw.SetBoundary(boundary); err != nil {
		return 0, err
	}

	var payload int64
	for _, f := range files {
		if _, err := mw.CreateFormFile(FilesField, f.Name); err != nil {
			return 0, err
		}
		payload += f.Size
	}
	for _, kv := range fields {
		if err := mw.WriteField(kv[0], kv[1]); err != nil {
			return 0, err
		}
	}
	if err := mw.Close(); err != nil {
		return 0, err
	}
	return cw.n + payload, nil
}

// writeMultipart streams the form into w. Each file must yield exactly its
// declared size so the precomputed Content-Length stays truthful.
func writeMultipart(w io.Writer, boundary string, files []models.LocalFile, fields [][2]string) error {
	mw := multipart.NewWriter(w)
	if err := mw.SetBoundary(boundary); err != nil {
		return err
	}

	for _, f := range files {
		part, err := mw.CreateFormFile(FilesField, f.Name)
		if err != nil {
			return err
		}
		if err := copyFile(part, f); err != nil {
			return err
		}
	}
	for _, kv := range fields {
		if err := mw.WriteField(kv[0], kv[1]); err != nil {
			return err
		}
	}
	return mw.Close()
}

func copyFile(w io.Writer, f models.LocalFile) error {
	rc, err := f.Open()
	if err != nil {
		return fmt.Errorf("open %s: %w", f.Name, err)
	}
	defer rc.Close()

	n, err := io.CopyN(w, rc, f.Size)
	if err != nil {
		return fmt.Errorf("read %s: got %d of %d bytes: %w", f.Name, n, f.Size, err)
	}
	return nil
}

// progressReader reports bytes as the transport consumes them. After stop
// returns no further reports are made.
type progressReader struct {
	inner io.Reader
	total int64
	fn    ProgressFunc

	mu      sync.Mutex
	sent    int64
	stopped bool
}

func newProgressReader(inner io.Reader, total int64, fn ProgressFunc) *progressReader {
	return &progressReader{inner: inner, total: total, fn: fn}
}

func (p *progressReader) Read(b []byte) (int, error) {
	n, err := p.inner.Read(b)
	if n > 0 {
		p.mu.Lock()
		p.sent += int64(n)
		if !p.stopped && p.fn != nil {
			p.fn(p.sent, p.total)
		}
		p.mu.Unlock()
	}
	return n, err
}

func (p *progressReader) stop() {
	p.mu.Lock()
	p.stopped = true
	p.mu.Unlock()
}
