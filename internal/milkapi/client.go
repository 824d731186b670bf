package milkapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/vasamilk/admin-console/internal/logger"
)

const (
	DefaultTimeout = 30 * time.Second
	maxBodyBytes   = 4 << 20
)

var ErrBadResponse = errors.New("milk-api: unexpected response")

// Client talks to the milk-api backend. Every call is a POST; the session token
// travels in the body.
type Client struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
}

type Option func(*Client)

// WithHTTPClient replaces the default client (30s timeout).
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.httpClient = h }
}

// WithRateLimit caps outgoing requests. rps <= 0 disables the limit.
func WithRateLimit(rps float64, burst int) Option {
	return func(c *Client) {
		if rps <= 0 {
			c.limiter = nil
			return
		}
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Post sends form as multipart/form-data to path, with query appended (used by
// the paginated list endpoints).
func (c *Client) Post(ctx context.Context, path string, query url.Values, form *Form) (*Envelope, error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	if form != nil {
		for _, f := range form.fields {
			if err := mw.WriteField(f.key, f.value); err != nil {
				return nil, fmt.Errorf("encode form: %w", err)
			}
		}
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("encode form: %w", err)
	}

	logger.LogRequest(ctx, http.MethodPost, path, form.LogFields())
	return c.do(ctx, path, query, mw.FormDataContentType(), &body)
}

// PostJSON sends body as JSON. Used by endpoints that take structured payloads.
func (c *Client) PostJSON(ctx context.Context, path string, body any) (*Envelope, error) {
	b, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("encode body: %w", err)
	}

	logger.LogRequest(ctx, http.MethodPost, path, nil)
	return c.do(ctx, path, nil, "application/json", bytes.NewReader(b))
}

func (c *Client) do(ctx context.Context, path string, query url.Values, contentType string, body io.Reader) (*Envelope, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			logger.LogError(ctx, path, err)
			return nil, fmt.Errorf("milk-api rate limit: %w", err)
		}
	}

	fullURL := c.baseURL + path
	if len(query) > 0 {
		fullURL += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, fullURL, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		logger.LogError(ctx, path, err)
		return nil, fmt.Errorf("milk-api request %s: %w", path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		logger.LogError(ctx, path, err)
		return nil, fmt.Errorf("read milk-api %s: %w", path, err)
	}

	var env Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		err = fmt.Errorf("%w: %s returned HTTP %d: %v", ErrBadResponse, path, resp.StatusCode, err)
		logger.LogError(ctx, path, err)
		return nil, err
	}
	// A JSON envelope on a 4xx is still the backend's answer; 5xx is not.
	if resp.StatusCode >= http.StatusInternalServerError {
		err := fmt.Errorf("%w: %s returned HTTP %d", ErrBadResponse, path, resp.StatusCode)
		logger.LogError(ctx, path, err)
		return nil, err
	}

	logger.LogResponse(ctx, path, resp.StatusCode, env.Status, time.Since(start))
	return &env, nil
}

// Call posts form with the token attached and fails on any non-success status.
func (c *Client) Call(ctx context.Context, token, path string, form *Form) (*Envelope, error) {
	env, err := c.Post(ctx, path, nil, form.Clone().WithToken(token))
	if err != nil {
		return nil, err
	}
	if err := env.Err(); err != nil {
		return env, err
	}
	return env, nil
}

// Page is one page of a list endpoint.
type Page struct {
	Data  []json.RawMessage `json:"data"`
	Total int               `json:"total"`
}

// List fetches one page of a paginated endpoint. Total falls back to the number
// of returned items when the backend omits it.
func (c *Client) List(ctx context.Context, token, path string, page, size int, form *Form) (*Page, error) {
	if page < 1 {
		page = 1
	}
	if size < 1 {
		size = 10
	}
	q := url.Values{}
	q.Set("page", fmt.Sprint(page))
	q.Set("size", fmt.Sprint(size))

	env, err := c.Post(ctx, path, q, form.Clone().WithToken(token))
	if err != nil {
		return nil, err
	}
	if err := env.Err(); err != nil {
		return nil, err
	}

	p := &Page{Data: []json.RawMessage{}}
	if err := env.DecodeData(&p.Data); err != nil && !errors.Is(err, ErrNoData) {
		return nil, fmt.Errorf("decode %s page: %w", path, err)
	}
	if p.Data == nil {
		p.Data = []json.RawMessage{}
	}
	p.Total = len(p.Data)
	if env.Total != nil {
		p.Total = *env.Total
	}
	return p, nil
}
