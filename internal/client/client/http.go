package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/dmitrijs2005/filedrop/internal/client/models"
	"github.com/dmitrijs2005/filedrop/internal/filex"
	"github.com/dmitrijs2005/filedrop/internal/logging"
	"github.com/dmitrijs2005/filedrop/internal/netx"
)

// maxReplyBytes caps how much of a JSON or error reply is buffered.
const maxReplyBytes = 1 << 20

// HTTPClient talks to the file-drop server over its JSON/multipart API.
type HTTPClient struct {
	base    string
	http    *http.Client
	timeout time.Duration
	log     logging.Logger
}

var _ Client = (*HTTPClient)(nil)

// NewHTTPClient validates baseURL and builds a client. timeout bounds the
// short JSON calls; uploads and downloads are bounded only by their context.
func NewHTTPClient(baseURL string, hc *http.Client, timeout time.Duration, log logging.Logger) (*HTTPClient, error) {
	u, err := url.Parse(strings.TrimSpace(baseURL))
	if err != nil {
		return nil, fmt.Errorf("parse server url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("server url %q must be http or https", baseURL)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("server url %q has no host", baseURL)
	}
	u.RawQuery, u.Fragment = "", ""
	if hc == nil {
		hc = netx.NewClient()
	}
	return &HTTPClient{
		base:    strings.TrimRight(u.String(), "/"),
		http:    hc,
		timeout: timeout,
		log:     log,
	}, nil
}

// URL resolves a same-origin path against the configured server.
func (c *HTTPClient) URL(p string) string {
	return c.base + p
}

func (c *HTTPClient) Upload(ctx context.Context, files []models.LocalFile, retention models.Retention, progress ProgressFunc) (*models.UploadResult, error) {
	const op = "upload"
	ctx, reqID := netx.NewRequestContext(ctx)
	log := c.log.With("op", op, "request_id", reqID)

	fields := retention.FormFields()
	boundary := multipart.NewWriter(io.Discard).Boundary()
	total, err := multipartLength(boundary, files, fields)
	if err != nil {
		return nil, fmt.Errorf("layout multipart body: %w", err)
	}

	pr, pw := io.Pipe()
	defer pr.Close()
	go func() {
		pw.CloseWithError(writeMultipart(pw, boundary, files, fields))
	}()

	body := newProgressReader(pr, total, progress)
	defer body.stop()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.URL(uploadPath), io.NopCloser(body))
	if err != nil {
		return nil, transportError(op, err)
	}
	req.ContentLength = total
	req.Header.Set("Content-Type", "multipart/form-data; boundary="+boundary)
	req.Header.Set("Accept", "application/json")

	log.Debug(ctx, "upload started", "files", len(files), "bytes", total)
	started := time.Now()

	resp, err := c.http.Do(req)
	if err != nil {
		log.Warn(ctx, "upload transport failure", "error", err)
		return nil, transportError(op, err)
	}
	defer resp.Body.Close()

	raw, readErr := io.ReadAll(io.LimitReader(resp.Body, maxReplyBytes))

	if resp.StatusCode != http.StatusOK {
		apiErr := statusError(op, resp.StatusCode, resp.Header.Get("Content-Type"), raw, MsgUploadFailed)
		log.Warn(ctx, "upload rejected", "status", resp.StatusCode, "error", apiErr)
		return nil, apiErr
	}
	if readErr != nil {
		return nil, malformedError(op, resp.StatusCode, MsgUnreadableResult, readErr)
	}

	var out models.UploadResult
	if err := json.Unmarshal(raw, &out); err != nil {
		log.Error(ctx, "upload reply unreadable", "error", err)
		return nil, malformedError(op, resp.StatusCode, MsgUnreadableResult, err)
	}
	if out.PickupCode == "" || out.FileGroupID == "" {
		err := errors.New("reply lacks pickup_code or file_group_id")
		log.Error(ctx, "upload reply incomplete", "error", err)
		return nil, malformedError(op, resp.StatusCode, MsgUnreadableResult, err)
	}

	log.Info(ctx, "upload finished", "file_group_id", out.FileGroupID, "bytes", total, "took", time.Since(started))
	return &out, nil
}

func (c *HTTPClient) Pickup(ctx context.Context, code string) (*models.PickupResult, error) {
	const op = "pickup"
	form := url.Values{"pickup_code": {code}}

	raw, err := c.call(ctx, op, http.MethodPost, pickupPath,
		strings.NewReader(form.Encode()), "application/x-www-form-urlencoded", MsgRequestFailed)
	if err != nil {
		return nil, err
	}

	var out struct {
		Success     bool                    `json:"success"`
		FileGroupID string                  `json:"file_group_id"`
		Token       string                  `json:"token"`
		Files       []models.FileDescriptor `json:"files"`
		Error       string                  `json:"error"`
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, malformedError(op, http.StatusOK, MsgUnreadableReply, err)
	}
	if !out.Success {
		return nil, applicationError(op, out.Error, MsgInvalidCode)
	}
	capability := models.Capability{FileGroupID: out.FileGroupID, Token: out.Token}
	if !capability.Valid() {
		return nil, malformedError(op, http.StatusOK, MsgUnreadableReply, errors.New("reply lacks file_group_id or token"))
	}
	if out.Files == nil {
		out.Files = []models.FileDescriptor{}
	}

	return &models.PickupResult{Capability: capability, Files: out.Files}, nil
}

func (c *HTTPClient) FileGroup(ctx context.Context, fileGroupID string) (*models.FileGroup, error) {
	const op = "file_group"

	raw, err := c.call(ctx, op, http.MethodGet, fileGroupPath+url.PathEscape(fileGroupID), nil, "", MsgLoadFailed)
	if err != nil {
		return nil, err
	}

	var out struct {
		Success   bool              `json:"success"`
		FileGroup *models.FileGroup `json:"file_group"`
		Error     string            `json:"error"`
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, malformedError(op, http.StatusOK, MsgUnreadableReply, err)
	}
	if !out.Success {
		return nil, applicationError(op, out.Error, MsgLoadFailed)
	}
	if out.FileGroup == nil {
		return nil, malformedError(op, http.StatusOK, MsgUnreadableReply, errors.New("reply lacks file_group"))
	}
	return out.FileGroup, nil
}

func (c *HTTPClient) Delete(ctx context.Context, fileGroupID string) error {
	const op = "delete"

	raw, err := c.call(ctx, op, http.MethodPost, deletePath+url.PathEscape(fileGroupID), nil, "", MsgDeleteFailed)
	if err != nil {
		return err
	}

	var out struct {
		Success bool   `json:"success"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return malformedError(op, http.StatusOK, MsgUnreadableReply, err)
	}
	if !out.Success {
		return applicationError(op, out.Error, MsgDeleteFailed)
	}
	return nil
}

func (c *HTTPClient) Download(ctx context.Context, p string, dir string) (string, error) {
	const op = "download"
	ctx, reqID := netx.NewRequestContext(ctx)
	log := c.log.With("op", op, "request_id", reqID, "path", RedactToken(p))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.URL(p), nil)
	if err != nil {
		return "", transportError(op, err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		log.Warn(ctx, "download transport failure", "error", err)
		return "", transportError(op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxReplyBytes))
		apiErr := statusError(op, resp.StatusCode, resp.Header.Get("Content-Type"), raw, MsgRequestFailed)
		log.Warn(ctx, "download rejected", "status", resp.StatusCode, "error", apiErr)
		return "", apiErr
	}

	name, err := filex.SafeFileName(downloadName(p, resp.Header.Get("Content-Disposition")))
	if err != nil {
		return "", err
	}
	target, err := filex.EnsureDir(dir)
	if err != nil {
		return "", err
	}

	saved, err := saveAtomically(filepath.Join(target, name), resp.Body)
	if err != nil {
		log.Error(ctx, "download write failed", "error", err)
		return "", err
	}

	log.Info(ctx, "download saved", "file", saved, "bytes", resp.ContentLength)
	return saved, nil
}

// call performs a short JSON request and returns the body of a 200 reply.
// Any other status is classified by statusError.
func (c *HTTPClient) call(ctx context.Context, op, method, p string, body io.Reader, contentType, def string) ([]byte, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}
	ctx, reqID := netx.NewRequestContext(ctx)
	log := c.log.With("op", op, "request_id", reqID)

	req, err := http.NewRequestWithContext(ctx, method, c.URL(p), body)
	if err != nil {
		return nil, transportError(op, err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		log.Warn(ctx, "transport failure", "error", err)
		return nil, transportError(op, err)
	}
	defer resp.Body.Close()

	raw, readErr := io.ReadAll(io.LimitReader(resp.Body, maxReplyBytes))
	if resp.StatusCode != http.StatusOK {
		apiErr := statusError(op, resp.StatusCode, resp.Header.Get("Content-Type"), raw, def)
		log.Warn(ctx, "request rejected", "status", resp.StatusCode, "error", apiErr)
		return nil, apiErr
	}
	if readErr != nil {
		return nil, transportError(op, readErr)
	}

	log.Debug(ctx, "request ok", "status", resp.StatusCode)
	return raw, nil
}

func downloadName(p, disposition string) string {
	if disposition != "" {
		if _, params, err := mime.ParseMediaType(disposition); err == nil && params["filename"] != "" {
			return params["filename"]
		}
	}
	if u, err := url.Parse(p); err == nil {
		return path.Base(u.Path)
	}
	return ""
}

func saveAtomically(dst string, r io.Reader) (string, error) {
	tmp, err := os.CreateTemp(filepath.Dir(dst), "."+filepath.Base(dst)+".part-*")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, r); err != nil {
		_ = tmp.Close()
		return "", fmt.Errorf("write %s: %w", dst, err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("close %s: %w", dst, err)
	}
	if err := os.Rename(tmp.Name(), dst); err != nil {
		return "", fmt.Errorf("rename into %s: %w", dst, err)
	}
	return dst, nil
}
