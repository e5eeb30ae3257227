// Package api is the Gravity backend client. It owns the HTTP contract
// and the wire normalization boundary: serialized attachment and
// custom-property strings are decoded immediately on receipt and
// encoded immediately on send, so the rest of the program only ever
// handles decoded structures.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/mohdsalimkhatib/Gravity/internal/learning"
)

// Repository defines the operations the UI layer needs from the
// backend. Implemented by *Client; a test double can stand in.
type Repository interface {
	ListLearnings(ctx context.Context, query ListQuery) (Page, error)
	CreateLearning(ctx context.Context, l learning.Learning) (learning.Learning, error)
	UpdateLearning(ctx context.Context, id int64, l learning.Learning) (learning.Learning, error)
	DeleteLearning(ctx context.Context, id int64) error
	UploadFile(ctx context.Context, path string) (string, error)
	UploadFiles(ctx context.Context, paths []string) ([]learning.Attachment, error)
}

var _ Repository = (*Client)(nil)

// Client talks to the Gravity backend HTTP API.
type Client struct {
	baseURL   *url.URL
	http      *http.Client
	userAgent string
	token     string
	log       *zap.Logger
}

const (
	defaultServerURL = "http://localhost:8080"
	defaultUserAgent = "gravity/0.1"
	requestTimeout   = 30 * time.Second
)

// Error is a non-2xx response from the backend. Message carries the
// server-provided error body when one was present.
type Error struct {
	StatusCode int
	Message    string
}

func (e *Error) Error() string {
	return e.Message
}

// NewClient builds a Client for the given server URL. A nil logger is
// replaced with a no-op one.
func NewClient(serverURL string, log *zap.Logger) (*Client, error) {
	base, err := parseBaseURL(serverURL)
	if err != nil {
		return nil, err
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{
		baseURL: base,
		http: &http.Client{
			Timeout: requestTimeout,
		},
		userAgent: defaultUserAgent,
		log:       log,
	}, nil
}

// SetToken installs the bearer token attached to subsequent requests.
func (c *Client) SetToken(token string) {
	c.token = token
}

// ClearToken removes the bearer token.
func (c *Client) ClearToken() {
	c.token = ""
}

// Login authenticates against the backend. A non-2xx response surfaces
// as an *Error carrying the server's message.
func (c *Client) Login(ctx context.Context, username, password string, rememberMe bool) (LoginResponse, error) {
	var payload LoginResponse
	req := loginRequest{Username: username, Password: password, RememberMe: rememberMe}
	if err := c.doJSON(ctx, http.MethodPost, &url.URL{Path: "/api/auth/login"}, req, &payload); err != nil {
		return LoginResponse{}, err
	}
	return payload, nil
}

// Register creates a new account.
func (c *Client) Register(ctx context.Context, username, email, password string) error {
	req := registerRequest{Username: username, Email: email, Password: password}
	return c.doJSON(ctx, http.MethodPost, &url.URL{Path: "/api/auth/register"}, req, nil)
}

// ListQuery configures GET /api/learnings requests.
type ListQuery struct {
	Page   int
	Size   int
	Search string
}

// ListLearnings fetches one page of learnings, optionally filtered by a
// search term. Entries whose stored attachment or custom-property
// strings fail to decode keep their scalar fields; the malformed field
// is logged and dropped rather than aborting the page.
func (c *Client) ListLearnings(ctx context.Context, query ListQuery) (Page, error) {
	values := url.Values{}
	values.Set("page", strconv.Itoa(query.Page))
	if query.Size > 0 {
		values.Set("size", strconv.Itoa(query.Size))
	}
	if term := strings.TrimSpace(query.Search); term != "" {
		values.Set("search", term)
	}
	rel := &url.URL{Path: "/api/learnings", RawQuery: values.Encode()}

	var wire pageWire
	if err := c.doJSON(ctx, http.MethodGet, rel, nil, &wire); err != nil {
		return Page{}, err
	}

	page := Page{
		CurrentPage: wire.CurrentPage,
		TotalItems:  wire.TotalItems,
		TotalPages:  wire.TotalPages,
		PageSize:    wire.PageSize,
		HasNext:     wire.HasNext,
		HasPrevious: wire.HasPrevious,
	}
	page.Learnings = make([]learning.Learning, 0, len(wire.Learnings))
	for _, w := range wire.Learnings {
		l, err := fromWire(w)
		if err != nil {
			c.log.Warn("dropping malformed stored fields", zap.Int64("id", w.ID), zap.Error(err))
			w.Attachments = nil
			w.CustomProperties = nil
			if l, err = fromWire(w); err != nil {
				c.log.Warn("skipping undecodable learning", zap.Int64("id", w.ID), zap.Error(err))
				continue
			}
		}
		page.Learnings = append(page.Learnings, l)
	}
	return page, nil
}

// CreateLearning persists a new entry and returns it with the
// server-assigned id.
func (c *Client) CreateLearning(ctx context.Context, l learning.Learning) (learning.Learning, error) {
	wire, err := toWire(l)
	if err != nil {
		return learning.Learning{}, err
	}
	var saved learningWire
	if err := c.doJSON(ctx, http.MethodPost, &url.URL{Path: "/api/learnings"}, wire, &saved); err != nil {
		return learning.Learning{}, err
	}
	return fromWire(saved)
}

// UpdateLearning overwrites the entry with the given id in place.
func (c *Client) UpdateLearning(ctx context.Context, id int64, l learning.Learning) (learning.Learning, error) {
	wire, err := toWire(l)
	if err != nil {
		return learning.Learning{}, err
	}
	var saved learningWire
	rel := &url.URL{Path: "/api/learnings/" + strconv.FormatInt(id, 10)}
	if err := c.doJSON(ctx, http.MethodPut, rel, wire, &saved); err != nil {
		return learning.Learning{}, err
	}
	return fromWire(saved)
}

// DeleteLearning removes the entry with the given id. Irreversible.
func (c *Client) DeleteLearning(ctx context.Context, id int64) error {
	rel := &url.URL{Path: "/api/learnings/" + strconv.FormatInt(id, 10)}
	return c.doJSON(ctx, http.MethodDelete, rel, nil, nil)
}

// UploadFile uploads a single local file and returns the URL the
// backend stored it under.
func (c *Client) UploadFile(ctx context.Context, path string) (string, error) {
	body, contentType, err := multipartBody("file", path)
	if err != nil {
		return "", err
	}
	resp, err := c.send(ctx, http.MethodPost, &url.URL{Path: "/api/upload"}, body, contentType)
	if err != nil {
		return "", err
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read upload response: %w", err)
	}
	return strings.TrimSpace(string(raw)), nil
}

// UploadFiles uploads several local files in one request and returns
// the stored attachment descriptors in upload order.
func (c *Client) UploadFiles(ctx context.Context, paths []string) ([]learning.Attachment, error) {
	body, contentType, err := multipartBody("files", paths...)
	if err != nil {
		return nil, err
	}
	resp, err := c.send(ctx, http.MethodPost, &url.URL{Path: "/upload/multiple"}, body, contentType)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	var attachments []learning.Attachment
	if err := json.NewDecoder(resp.Body).Decode(&attachments); err != nil {
		return nil, fmt.Errorf("decode upload response: %w", err)
	}
	return attachments, nil
}

func (c *Client) doJSON(ctx context.Context, method string, rel *url.URL, payload, dest any) error {
	var body io.Reader
	contentType := ""
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(raw)
		contentType = "application/json"
	}
	resp, err := c.send(ctx, method, rel, body, contentType)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if dest == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// send issues the request and maps non-2xx responses to *Error,
// preferring the server's {"error": ...} body over a generic message.
// The caller owns the response body on success.
func (c *Client) send(ctx context.Context, method string, rel *url.URL, body io.Reader, contentType string) (*http.Response, error) {
	reqURL := c.baseURL.ResolveReference(rel)
	req, err := http.NewRequestWithContext(ctx, method, reqURL.String(), body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	if resp.StatusCode >= 300 {
		defer func() { _ = resp.Body.Close() }()
		message := fmt.Sprintf("api %s returned status %d", rel.Path, resp.StatusCode)
		var envelope struct {
			Error string `json:"error"`
		}
		if decodeErr := json.NewDecoder(resp.Body).Decode(&envelope); decodeErr == nil && envelope.Error != "" {
			message = envelope.Error
		}
		return nil, &Error{StatusCode: resp.StatusCode, Message: message}
	}
	return resp, nil
}

func multipartBody(field string, paths ...string) (io.Reader, string, error) {
	buf := &bytes.Buffer{}
	writer := multipart.NewWriter(buf)
	for _, path := range paths {
		file, err := os.Open(path)
		if err != nil {
			return nil, "", fmt.Errorf("open upload: %w", err)
		}
		part, err := writer.CreateFormFile(field, filepath.Base(path))
		if err == nil {
			_, err = io.Copy(part, file)
		}
		_ = file.Close()
		if err != nil {
			return nil, "", fmt.Errorf("assemble upload: %w", err)
		}
	}
	if err := writer.Close(); err != nil {
		return nil, "", fmt.Errorf("assemble upload: %w", err)
	}
	return buf, writer.FormDataContentType(), nil
}

func parseBaseURL(serverURL string) (*url.URL, error) {
	trimmed := strings.TrimSpace(serverURL)
	if trimmed == "" {
		trimmed = defaultServerURL
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "http://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse server url %q: %w", serverURL, err)
	}
	u.Path = ""
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}
