// Package resumeclient is a typed HTTP client for the resume API.
package resumeclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"resume-editor/resume/autosave"
	"resume-editor/resume/model"
	"resume-editor/resume/render"
)

// ErrNotFound is returned when the server answers 404 for a resume.
var ErrNotFound = errors.New("resume not found")

// APIError is a non-2xx response decoded from the server's error envelope.
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("resume api: status %d", e.Status)
	}
	return fmt.Sprintf("resume api: %s: %s (status %d)", e.Code, e.Message, e.Status)
}

// Unwrap maps 404 onto ErrNotFound.
func (e *APIError) Unwrap() error {
	if e.Status == http.StatusNotFound {
		return ErrNotFound
	}
	return nil
}

// Summary is one row of the resume list.
type Summary struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	JobID     *string   `json:"jobId,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// CreateInput selects how a new resume is seeded.
type CreateInput struct {
	Mode     string `json:"mode,omitempty"`
	Title    string `json:"title,omitempty"`
	JobID    string `json:"jobId,omitempty"`
	JobTitle string `json:"jobTitle,omitempty"`
}

// Client talks to /api/v1 on a resume server.
type Client struct {
	baseURL    string
	token      string
	guestID    string
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithToken authenticates requests with a bearer token.
func WithToken(token string) Option {
	return func(c *Client) { c.token = strings.TrimSpace(token) }
}

// WithGuestID identifies requests with the X-Guest-Id header.
func WithGuestID(id string) Option {
	return func(c *Client) { c.guestID = strings.TrimSpace(id) }
}

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// New constructs a client for baseURL, e.g. http://localhost:8080.
func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimSpace(baseURL))
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid base url %q", baseURL)
	}
	c := &Client{
		baseURL:    strings.TrimRight(u.String(), "/") + "/api/v1",
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Fetch loads a full document.
func (c *Client) Fetch(ctx context.Context, id string) (model.Document, error) {
	var doc model.Document
	err := c.do(ctx, http.MethodGet, "/resumes/"+url.PathEscape(id), nil, &doc)
	return doc, err
}

// List returns resume summaries, most recently updated first.
func (c *Client) List(ctx context.Context, limit, offset int) ([]Summary, error) {
	q := url.Values{}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	if offset > 0 {
		q.Set("offset", strconv.Itoa(offset))
	}
	path := "/resumes"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}
	var out []Summary
	err := c.do(ctx, http.MethodGet, path, nil, &out)
	return out, err
}

// Create seeds a new resume.
func (c *Client) Create(ctx context.Context, in CreateInput) (model.Document, error) {
	var doc model.Document
	err := c.do(ctx, http.MethodPost, "/resumes", in, &doc)
	return doc, err
}

// Update replaces the whole document and returns the persisted version.
func (c *Client) Update(ctx context.Context, doc model.Document) (model.Document, error) {
	var saved model.Document
	err := c.do(ctx, http.MethodPut, "/resumes/"+url.PathEscape(doc.ID), doc, &saved)
	return saved, err
}

// Save implements autosave.Persister.
func (c *Client) Save(ctx context.Context, doc model.Document) (model.Document, error) {
	return c.Update(ctx, doc)
}

// UpdateTitle renames a resume without sending the whole document.
func (c *Client) UpdateTitle(ctx context.Context, id, title string) (string, error) {
	var out struct {
		Title string `json:"title"`
	}
	err := c.do(ctx, http.MethodPatch, "/resumes/"+url.PathEscape(id)+"/title", map[string]string{"title": title}, &out)
	return out.Title, err
}

// Delete removes a resume.
func (c *Client) Delete(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/resumes/"+url.PathEscape(id), nil, nil)
}

// Templates lists the server's template registry.
func (c *Client) Templates(ctx context.Context) ([]render.Template, error) {
	var out []render.Template
	err := c.do(ctx, http.MethodGet, "/templates", nil, &out)
	return out, err
}

// Render projects a stored resume through a template and returns the raw body
// in the requested format.
func (c *Client) Render(ctx context.Context, id, templateID, format string) ([]byte, error) {
	path := "/resumes/" + url.PathEscape(id) + "/render/" + url.PathEscape(templateID)
	if format != "" {
		path += "?format=" + url.QueryEscape(format)
	}
	return c.send(ctx, http.MethodGet, path, nil)
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	body, err := c.send(ctx, method, path, in)
	if err != nil {
		return err
	}
	if out == nil || len(body) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}

func (c *Client) send(ctx context.Context, method, path string, in any) ([]byte, error) {
	var reqBody io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return nil, err
		}
		reqBody = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return nil, err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	switch {
	case c.token != "":
		req.Header.Set("Authorization", "Bearer "+c.token)
	case c.guestID != "":
		req.Header.Set("X-Guest-Id", c.guestID)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 300 {
		return nil, decodeError(resp.StatusCode, body)
	}
	return body, nil
}

func decodeError(status int, body []byte) error {
	var envelope struct {
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	apiErr := &APIError{Status: status}
	if json.Unmarshal(body, &envelope) == nil {
		apiErr.Code = envelope.Error.Code
		apiErr.Message = envelope.Error.Message
	}
	return apiErr
}

var _ autosave.Persister = (*Client)(nil)
