// Package apiclient wraps the external auction, auth and profile REST API.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"heartbids/internal/biddingerrors"
	model "heartbids/internal/models"
	"heartbids/utils"

	"golang.org/x/time/rate"
)

const (
	HeaderAPIKey        = "X-Noroff-API-Key"
	HeaderAuthorization = "Authorization"
	HeaderContentType   = "Content-Type"

	defaultTimeout = 10 * time.Second
	maxErrorBody   = 1 << 20
)

// TokenSource supplies the persisted bearer token. An empty token means "not logged in".
type TokenSource interface {
	Token() string
}

// TokenFunc adapts a function to TokenSource.
type TokenFunc func() string

func (f TokenFunc) Token() string { return f() }

// HeaderOptions selects which headers an outbound call carries.
type HeaderOptions struct {
	APIKey      bool
	AuthToken   bool
	ContentType bool
}

var (
	public        = HeaderOptions{APIKey: true}
	authenticated = HeaderOptions{APIKey: true, AuthToken: true}
	authedWrite   = HeaderOptions{APIKey: true, AuthToken: true, ContentType: true}
	publicWrite   = HeaderOptions{APIKey: true, ContentType: true}
)

// Client issues requests against the auction API. It never retries.
type Client struct {
	baseURL *url.URL
	apiKey  string
	tokens  TokenSource
	http    *http.Client
	limiter *rate.Limiter
	timeout time.Duration
}

type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithTokenSource sets where the bearer token is read from.
func WithTokenSource(ts TokenSource) Option {
	return func(c *Client) {
		c.tokens = ts
	}
}

// WithRateLimit caps outbound requests per second. A non-positive limit disables limiting.
func WithRateLimit(perSecond float64, burst int) Option {
	return func(c *Client) {
		if perSecond <= 0 {
			c.limiter = nil
			return
		}
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(perSecond), burst)
	}
}

// WithTimeout bounds every single request.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// New creates a client for the API rooted at baseURL.
func New(baseURL, apiKey string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("apiclient: parse base url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("apiclient: base url %q must be absolute", baseURL)
	}

	c := &Client{
		baseURL: u,
		apiKey:  apiKey,
		tokens:  TokenFunc(func() string { return "" }),
		http:    &http.Client{},
		timeout: defaultTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Headers builds the header set for an outbound call. When the token is requested
// but none is stored the header is left out and the server rejects the call.
func (c *Client) Headers(opts HeaderOptions) http.Header {
	h := make(http.Header)
	if opts.APIKey && c.apiKey != "" {
		h.Set(HeaderAPIKey, c.apiKey)
	}
	if opts.AuthToken && c.tokens != nil {
		if token := c.tokens.Token(); token != "" {
			h.Set(HeaderAuthorization, "Bearer "+token)
		}
	}
	if opts.ContentType {
		h.Set(HeaderContentType, "application/json")
	}
	return h
}

// do performs one request and decodes the data member of the envelope into out.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body any, hdr HeaderOptions, out any) (model.PageMeta, error) {
	op := method + " " + path

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return model.PageMeta{}, &biddingerrors.NetworkError{Op: op, Err: err}
		}
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return model.PageMeta{}, fmt.Errorf("apiclient: encode %s body: %w", op, err)
		}
		reader = bytes.NewReader(payload)
	}

	u := c.baseURL.JoinPath(path)
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), reader)
	if err != nil {
		return model.PageMeta{}, fmt.Errorf("apiclient: build %s: %w", op, err)
	}
	req.Header = c.Headers(hdr)

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		utils.Debug("apiclient: request failed", map[string]any{"method": method, "path": path, "error": err.Error()})
		return model.PageMeta{}, &biddingerrors.NetworkError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	utils.Debug("apiclient: request", map[string]any{
		"method":  method,
		"path":    path,
		"status":  resp.StatusCode,
		"latency": time.Since(start).String(),
	})

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return model.PageMeta{}, decodeError(op, resp)
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		_, _ = io.Copy(io.Discard, resp.Body)
		return model.PageMeta{}, nil
	}

	var env model.Envelope[json.RawMessage]
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return model.PageMeta{}, &biddingerrors.NetworkError{Op: op, Err: fmt.Errorf("decode response: %w", err)}
	}
	if len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return model.PageMeta{}, &biddingerrors.NetworkError{Op: op, Err: fmt.Errorf("decode data: %w", err)}
		}
	}
	return env.Meta, nil
}

// decodeError turns a non-2xx response into a ServerValidationError when the body
// carries API error messages, and a NetworkError otherwise.
func decodeError(op string, resp *http.Response) error {
	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if err != nil {
		return &biddingerrors.NetworkError{Op: op, StatusCode: resp.StatusCode, Err: err}
	}

	var body model.APIErrorBody
	if err := json.Unmarshal(raw, &body); err == nil {
		messages := make([]string, 0, len(body.Errors))
		for _, e := range body.Errors {
			if e.Message != "" {
				messages = append(messages, e.Message)
			}
		}
		if len(messages) > 0 {
			return &biddingerrors.ServerValidationError{
				StatusCode: resp.StatusCode,
				Message:    messages[0],
				Messages:   messages,
			}
		}
	}
	return &biddingerrors.NetworkError{Op: op, StatusCode: resp.StatusCode}
}

// IsNotFound reports whether err is an API 404.
func IsNotFound(err error) bool {
	return statusOf(err) == http.StatusNotFound
}

// IsUnauthorized reports whether err is an API 401.
func IsUnauthorized(err error) bool {
	return statusOf(err) == http.StatusUnauthorized
}

func statusOf(err error) int {
	var sv *biddingerrors.ServerValidationError
	if errors.As(err, &sv) {
		return sv.StatusCode
	}
	var ne *biddingerrors.NetworkError
	if errors.As(err, &ne) {
		return ne.StatusCode
	}
	return 0
}
