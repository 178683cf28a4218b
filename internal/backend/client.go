package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/MrSnakeDoc/brainlink/internal/domain"
	"github.com/MrSnakeDoc/brainlink/internal/logger"
	"github.com/MrSnakeDoc/brainlink/internal/utils"
)

const (
	// DefaultTimeout bounds a single backend call.
	DefaultTimeout = 10 * time.Second

	// maxBodyBytes caps how much of a response body is read.
	maxBodyBytes = 4 << 20
)

// Options configures a Client.
type Options struct {
	BaseURL   string        // ex: "https://api.brainlink.example"
	Timeout   time.Duration // per request, 0 = DefaultTimeout
	UserAgent string        // optional
}

// Client talks to the BrainLink backend REST API.
// It holds no credential: callers pass the session token to each call.
type Client struct {
	base      *url.URL
	http      *http.Client
	userAgent string
	logger    logger.Logger
}

// New builds a backend client. BaseURL must be an absolute URL.
func New(opts Options, log logger.Logger) (*Client, error) {
	base, err := url.Parse(strings.TrimRight(opts.BaseURL, "/"))
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("invalid backend url %q", opts.BaseURL)
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	return &Client{
		base: base,
		http: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				Proxy: http.ProxyFromEnvironment,
				DialContext: (&net.Dialer{
					Timeout:   timeout,
					KeepAlive: 30 * time.Second,
				}).DialContext,
				TLSHandshakeTimeout: timeout,
				MaxIdleConns:        32,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		userAgent: opts.UserAgent,
		logger:    log,
	}, nil
}

// wire types

type credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type signinResponse struct {
	Token string `json:"token"`
}

type wireItem struct {
	ID       string `json:"id,omitempty"`
	LegacyID string `json:"_id,omitempty"`
	Title    string `json:"title"`
	Link     string `json:"link"`
	Type     string `json:"type"`
}

type contentResponse struct {
	Username string      `json:"username,omitempty"`
	Content  *[]wireItem `json:"content"`
}

type createRequest struct {
	Link  string `json:"link"`
	Title string `json:"title"`
	Type  string `json:"type"`
}

type deleteRequest struct {
	ContentID string `json:"contentId"`
}

type shareRequest struct {
	Share bool `json:"share"`
}

type shareResponse struct {
	Hash string `json:"hash"`
}

type errorResponse struct {
	Message string       `json:"message"`
	Errors  []FieldError `json:"errors"`
}

// Signup creates an account.
func (c *Client) Signup(ctx context.Context, username, password string) error {
	return c.do(ctx, http.MethodPost, "/api/v1/signup", "", credentials{username, password}, nil)
}

// Signin authenticates and returns the opaque session token.
func (c *Client) Signin(ctx context.Context, username, password string) (string, error) {
	var resp signinResponse
	if err := c.do(ctx, http.MethodPost, "/api/v1/signin", "", credentials{username, password}, &resp); err != nil {
		return "", err
	}
	if resp.Token == "" {
		return "", fmt.Errorf("signin: %w: missing token", ErrMalformedResponse)
	}
	return resp.Token, nil
}

// ListContent returns the caller's items in backend order.
func (c *Client) ListContent(ctx context.Context, token string) ([]domain.Item, error) {
	var resp contentResponse
	if err := c.do(ctx, http.MethodGet, "/api/v1/content", token, nil, &resp); err != nil {
		return nil, err
	}
	if resp.Content == nil {
		return nil, fmt.Errorf("list content: %w: missing content", ErrMalformedResponse)
	}
	return toItems(*resp.Content), nil
}

// CreateContent stores a new item for the caller.
func (c *Client) CreateContent(ctx context.Context, token string, d domain.Draft) error {
	d = d.Normalized()
	body := createRequest{Link: d.Link, Title: d.Title, Type: d.Type.Wire()}
	return c.do(ctx, http.MethodPost, "/api/v1/content", token, body, nil)
}

// DeleteContent removes the item with the given backend id.
func (c *Client) DeleteContent(ctx context.Context, token, contentID string) error {
	return c.do(ctx, http.MethodDelete, "/api/v1/content", token, deleteRequest{ContentID: contentID}, nil)
}

// ShareBrain mints (or rotates) the public share hash of the caller's collection.
func (c *Client) ShareBrain(ctx context.Context, token string) (string, error) {
	var resp shareResponse
	if err := c.do(ctx, http.MethodPost, "/api/v1/brain/share", token, shareRequest{Share: true}, &resp); err != nil {
		return "", err
	}
	if resp.Hash == "" {
		return "", fmt.Errorf("share brain: %w: missing hash", ErrMalformedResponse)
	}
	return resp.Hash, nil
}

// Snapshot is the public, read-only view of a shared collection.
type Snapshot struct {
	Hash  string
	Owner string // username of the sharer, when the backend tells
	Items []domain.Item
}

// SharedBrain fetches the public snapshot addressed by hash. No credential is sent.
func (c *Client) SharedBrain(ctx context.Context, hash string) (*Snapshot, error) {
	var resp contentResponse
	path := "/api/v1/brain/" + url.PathEscape(hash)
	if err := c.do(ctx, http.MethodGet, path, "", nil, &resp); err != nil {
		return nil, err
	}
	if resp.Content == nil {
		return nil, fmt.Errorf("shared brain: %w: missing content", ErrMalformedResponse)
	}
	return &Snapshot{Hash: hash, Owner: resp.Username, Items: toItems(*resp.Content)}, nil
}

// toItems maps wire records to domain items. "id" is canonical; "_id" is
// only read when "id" is absent. Items with neither get a positional key.
func toItems(in []wireItem) []domain.Item {
	out := make([]domain.Item, 0, len(in))
	for i, w := range in {
		id := w.ID
		if id == "" {
			id = w.LegacyID
		}
		t, _ := domain.ParseContentType(w.Type)
		out = append(out, domain.Item{
			ID:    id,
			Title: w.Title,
			Link:  w.Link,
			Type:  t,
		}.WithFallbackKey(i))
	}
	return out
}

func (c *Client) do(ctx context.Context, method, path, token string, in, out any) error {
	var body io.Reader = http.NoBody
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	u := *c.base
	u.Path = c.base.Path + path

	req, err := http.NewRequestWithContext(ctx, method, u.String(), body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		// sent verbatim, no "Bearer " prefix
		req.Header.Set("Authorization", token)
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w: %v", method, path, ErrNetwork, err)
	}
	defer utils.DrainAndClose(resp.Body)

	c.logger.Debug("backend call",
		logger.String("method", method),
		logger.String("path", path),
		logger.Int("status", resp.StatusCode),
		logger.Duration("duration", time.Since(start)))

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return fmt.Errorf("%s %s: %w: %v", method, path, ErrNetwork, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(resp.StatusCode, data)
	}

	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		if out != nil {
			return fmt.Errorf("%s %s: %w: empty body", method, path, ErrMalformedResponse)
		}
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("%s %s: %w: %v", method, path, ErrMalformedResponse, err)
	}
	return nil
}

func decodeError(status int, data []byte) error {
	be := &Error{Status: status}
	var payload errorResponse
	if err := json.Unmarshal(data, &payload); err == nil {
		be.Message = payload.Message
		be.Fields = payload.Errors
	}
	return be
}
