// Package apitest runs an in-process fake of the file-drop HTTP API for tests.
//
// The fake keeps file groups in memory and implements every endpoint the
// client consumes. Individual routes can be replaced with Override to inject
// failures such as 413 replies or HTML error pages.
package apitest

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/dmitrijs2005/filedrop/internal/client/models"
)

type storedFile struct {
	name string
	data []byte
}

type group struct {
	code         string
	token        string
	files        []storedFile
	history      []models.DownloadRecord
	maxDownloads int
	expiryValue  string
	expiryUnit   string
}

// Server is a running fake. Embedders get URL and Close from httptest.Server.
type Server struct {
	*httptest.Server

	mu        sync.Mutex
	groups    map[string]*group
	overrides map[string]http.HandlerFunc
	hits      map[string]int
	seq       int
}

// New starts a fake and closes it when t finishes.
func New(t testing.TB) *Server {
	s := &Server{
		groups:    map[string]*group{},
		overrides: map[string]http.HandlerFunc{},
		hits:      map[string]int{},
	}

	r := chi.NewRouter()
	r.Use(s.intercept)
	r.Post("/upload", s.upload)
	r.Post("/pickup", s.pickup)
	r.Get("/download/{id}/{name}", s.download)
	r.Get("/api/file-group/{id}", s.fileGroup)
	r.Post("/api/delete/{id}", s.delete)

	s.Server = httptest.NewServer(r)
	t.Cleanup(s.Close)
	return s
}

// Override replaces the handler for a route key such as "POST /upload" or
// "GET /api/file-group/{id}".
func (s *Server) Override(route string, h http.HandlerFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.overrides[route] = h
}

// Hits reports how many requests reached route, overridden or not.
func (s *Server) Hits(route string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hits[route]
}

// AddGroup seeds a file group and returns its pickup code.
func (s *Server) AddGroup(id string, files map[string][]byte, order ...string) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	g := &group{code: s.nextCodeLocked()}
	if len(order) == 0 {
		for name := range files {
			order = append(order, name)
		}
	}
	for _, name := range order {
		g.files = append(g.files, storedFile{name: name, data: files[name]})
	}
	s.groups[id] = g
	return g.code
}

// Exists reports whether a file group is still stored.
func (s *Server) Exists(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.groups[id]
	return ok
}

// Uploaded returns the names and retention fields of a stored group.
func (s *Server) Uploaded(id string) (names []string, fields map[string]string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	g, ok := s.groups[id]
	if !ok {
		return nil, nil
	}
	for _, f := range g.files {
		names = append(names, f.name)
	}
	return names, map[string]string{
		"expiry_value":  g.expiryValue,
		"expiry_unit":   g.expiryUnit,
		"max_downloads": fmt.Sprint(g.maxDownloads),
	}
}

func (s *Server) nextCodeLocked() string {
	s.seq++
	return fmt.Sprintf("C%05d", s.seq)
}

func (s *Server) intercept(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := routeKey(r)
		s.mu.Lock()
		s.hits[key]++
		h := s.overrides[key]
		s.mu.Unlock()

		if h != nil {
			h(w, r)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func routeKey(r *http.Request) string {
	p := r.URL.Path
	switch {
	case strings.HasPrefix(p, "/download/"):
		p = "/download/{id}/{name}"
	case strings.HasPrefix(p, "/api/file-group/"):
		p = "/api/file-group/{id}"
	case strings.HasPrefix(p, "/api/delete/"):
		p = "/api/delete/{id}"
	}
	return r.Method + " " + p
}

func param(r *http.Request, name string) string {
	v := chi.URLParam(r, name)
	if u, err := url.PathUnescape(v); err == nil {
		return u
	}
	return v
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (s *Server) upload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": err.Error()})
		return
	}
	headers := r.MultipartForm.File["files[]"]
	if len(headers) == 0 {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "no files uploaded"})
		return
	}

	g := &group{
		expiryValue: r.FormValue("expiry_value"),
		expiryUnit:  r.FormValue("expiry_unit"),
	}
	fmt.Sscan(r.FormValue("max_downloads"), &g.maxDownloads)

	for _, fh := range headers {
		f, err := fh.Open()
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, map[string]any{"error": err.Error()})
			return
		}
		data, _ := io.ReadAll(f)
		_ = f.Close()
		g.files = append(g.files, storedFile{name: fh.Filename, data: data})
	}

	id := uuid.NewString()
	s.mu.Lock()
	g.code = s.nextCodeLocked()
	s.groups[id] = g
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, map[string]any{
		"success":        true,
		"file_group_id":  id,
		"pickup_code":    g.code,
		"management_url": "http://untrusted.example/manage/" + id,
	})
}

func (s *Server) pickup(w http.ResponseWriter, r *http.Request) {
	code := r.FormValue("pickup_code")
	if code == "" {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "pickup code required"})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for id, g := range s.groups {
		if g.code != code {
			continue
		}
		g.token = uuid.NewString()
		files := make([]models.FileDescriptor, 0, len(g.files))
		for _, f := range g.files {
			files = append(files, models.FileDescriptor{Name: f.name, Size: int64(len(f.data))})
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"success":       true,
			"file_group_id": id,
			"token":         g.token,
			"files":         files,
		})
		return
	}
	writeJSON(w, http.StatusNotFound, map[string]any{"error": "pickup code invalid or expired"})
}

func (s *Server) download(w http.ResponseWriter, r *http.Request) {
	id, name := param(r, "id"), param(r, "name")

	s.mu.Lock()
	g, ok := s.groups[id]
	if !ok || g.token == "" || r.URL.Query().Get("token") != g.token {
		s.mu.Unlock()
		writeJSON(w, http.StatusForbidden, map[string]any{"error": "invalid or expired download link"})
		return
	}
	var data []byte
	found := false
	for _, f := range g.files {
		if f.name == name {
			data, found = f.data, true
			break
		}
	}
	if found {
		g.history = append(g.history, models.DownloadRecord{
			Filename: name,
			Time:     time.Now().Format(time.RFC3339),
			IP:       "127.0.0.1",
		})
	}
	s.mu.Unlock()

	if !found {
		writeJSON(w, http.StatusNotFound, map[string]any{"error": "file not found"})
		return
	}
	w.Header().Set("Content-Type", "application/octet-stream")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	_, _ = w.Write(data)
}

func (s *Server) fileGroup(w http.ResponseWriter, r *http.Request) {
	id := param(r, "id")

	s.mu.Lock()
	defer s.mu.Unlock()
	g, ok := s.groups[id]
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]any{"success": false, "error": "file group not found"})
		return
	}
	files := make([]models.FileDescriptor, 0, len(g.files))
	for _, f := range g.files {
		files = append(files, models.FileDescriptor{Name: f.name, Size: int64(len(f.data))})
	}
	history := append([]models.DownloadRecord{}, g.history...)
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"file_group": models.FileGroup{
			PickupCode:      g.code,
			DownloadCount:   len(g.history),
			DownloadHistory: history,
			Files:           files,
		},
	})
}

func (s *Server) delete(w http.ResponseWriter, r *http.Request) {
	id := param(r, "id")

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.groups[id]; !ok {
		writeJSON(w, http.StatusNotFound, map[string]any{"error": "file group not found"})
		return
	}
	delete(s.groups, id)
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}
