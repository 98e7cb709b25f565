// Package strapi is the outbound boundary: one gateway client every
// content adapter dispatches through, plus per-resource adapters that
// translate between the content API's wire shape and the view models.
package strapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/doaqui/doaqui/core"
)

const DefaultTimeout = 30 * time.Second

// ClientConfig configures the gateway client.
type ClientConfig struct {
	// BaseURL of the content API, e.g. "http://localhost:1337/api".
	BaseURL string

	// Credentials is read at dispatch time for every request, so the
	// client always sees the latest token. Required.
	Credentials core.CredentialSource

	// OnAuthFailure runs once per 401/403 response, before the error is
	// returned to the caller. Wired to the session store's Logout.
	OnAuthFailure func()

	// Optional
	Timeout    time.Duration
	HTTPClient *http.Client
	Logger     *slog.Logger
}

// Client is the single chokepoint for requests to the content API. It
// attaches the current bearer credential, bounds every request with a
// timeout, and forces a logout on any authorization failure - then
// propagates the original error unchanged. It never retries and never
// refreshes tokens on its own.
type Client struct {
	baseURL string
	http    *http.Client
	creds   core.CredentialSource
	logger  *slog.Logger

	authFailureMu sync.Mutex
	onAuthFailure func()
}

func NewClient(cfg ClientConfig) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, core.ErrBaseURLRequired
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout == 0 {
			timeout = DefaultTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		baseURL:       strings.TrimRight(cfg.BaseURL, "/"),
		http:          httpClient,
		creds:         cfg.Credentials,
		onAuthFailure: cfg.OnAuthFailure,
		logger:        logger,
	}, nil
}

// RequestOption adjusts a single outbound request.
type RequestOption func(*requestOptions)

type requestOptions struct {
	token    string
	hasToken bool
	query    url.Values
}

// WithToken overrides the session credential for one request. Used by
// the sign-up flow, which must act with a token the store has not
// committed yet.
func WithToken(token string) RequestOption {
	return func(o *requestOptions) {
		o.token = token
		o.hasToken = true
	}
}

// WithQuery attaches an encoded query string to the request.
func WithQuery(values url.Values) RequestOption {
	return func(o *requestOptions) {
		o.query = values
	}
}

// do dispatches one request. op names the operation for fallback error
// messages ("fetching donations", "updating donation", ...). On non-2xx
// it returns a *core.APIError carrying the original status code and the
// backend message when one was supplied.
func (c *Client) do(ctx context.Context, method, path, op string, body, out any, opts ...RequestOption) error {
	options := requestOptions{}
	for _, opt := range opts {
		opt(&options)
	}

	target := c.baseURL + path
	if len(options.query) > 0 {
		target += "?" + options.query.Encode()
	}

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding %s request: %w", op, err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return fmt.Errorf("building %s request: %w", op, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	// Read the credential at dispatch time - never a stale capture. An
	// absent credential means the header is omitted entirely.
	token := c.creds.Credential()
	if options.hasToken {
		token = options.token
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("error %s: %w", op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := decodeError(op, resp)
		if apiErr.AuthFailure() {
			c.forceLogout(op, apiErr.Status)
		}
		return apiErr
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding %s response: %w", op, err)
	}
	return nil
}

func (c *Client) Get(ctx context.Context, path, op string, out any, opts ...RequestOption) error {
	return c.do(ctx, http.MethodGet, path, op, nil, out, opts...)
}

func (c *Client) Post(ctx context.Context, path, op string, body, out any, opts ...RequestOption) error {
	return c.do(ctx, http.MethodPost, path, op, body, out, opts...)
}

func (c *Client) Put(ctx context.Context, path, op string, body, out any, opts ...RequestOption) error {
	return c.do(ctx, http.MethodPut, path, op, body, out, opts...)
}

func (c *Client) Delete(ctx context.Context, path, op string, opts ...RequestOption) error {
	return c.do(ctx, http.MethodDelete, path, op, nil, nil, opts...)
}

// forceLogout is the client's one side effect: any 401/403 clears the
// session, even when the initiating caller is long gone. Logout itself
// is idempotent, so concurrent failures collapse to a single observable
// transition.
func (c *Client) forceLogout(op string, status int) {
	c.authFailureMu.Lock()
	defer c.authFailureMu.Unlock()

	if c.onAuthFailure == nil {
		return
	}
	c.logger.Info("authorization failure, clearing session", "op", op, "status", status)
	c.onAuthFailure()
}

// wireError is the content API's error envelope.
type wireError struct {
	Error struct {
		Status  int    `json:"status"`
		Name    string `json:"name"`
		Message string `json:"message"`
	} `json:"error"`
	Message string `json:"message"`
}

func decodeError(op string, resp *http.Response) *core.APIError {
	apiErr := &core.APIError{
		Status:  resp.StatusCode,
		Op:      op,
		Message: "error " + op,
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
	if err != nil {
		return apiErr
	}

	var payload wireError
	if err := json.Unmarshal(raw, &payload); err != nil {
		return apiErr
	}
	if payload.Error.Message != "" {
		apiErr.Message = payload.Error.Message
	} else if payload.Message != "" {
		apiErr.Message = payload.Message
	}
	return apiErr
}
