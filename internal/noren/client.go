// Package noren is the request client for the Noren (Finvasia) trading REST
// API. Every call is a POST with body `jData=<json>&jKey=<token>` and a JSON
// response discriminated by the `stat` field.
package noren

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"finvasia-agent/internal/logger"
)

// Client issues signed requests against Noren endpoints. It performs no
// retries: a failed order POST must never be silently re-submitted, and the
// same single-attempt rule is kept for reads so the invariant stays uniform.
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// Option configures the client
type Option func(*Client)

// WithBaseURL sets the Noren REST base URL
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(baseURL, "/")
	}
}

// WithTimeout sets the HTTP client timeout
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// WithHTTPClient replaces the underlying HTTP client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// NewClient creates a new Noren client with the given options
func NewClient(opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		baseURL: "https://api.shoonya.com/NorenWClientTP",
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// BaseURL returns the configured REST base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Call POSTs the payload to the named endpoint wrapped in the Noren
// envelope. The login call passes an empty token; the jKey field is still
// sent with an empty value. Transport failures and non-2xx statuses come
// back as a Not_Ok Response, never as a panic or a raw error.
func (c *Client) Call(ctx context.Context, endpoint string, payload map[string]string, token string) Response {
	start := time.Now()
	resp := c.do(ctx, endpoint, payload, token)
	logger.BrokerCall(ctx, endpoint, resp.Stat, time.Since(start).Milliseconds())
	return resp
}

func (c *Client) do(ctx context.Context, endpoint string, payload map[string]string, token string) Response {
	jData, err := json.Marshal(payload)
	if err != nil {
		return Fail("encoding request payload: " + err.Error())
	}

	body := "jData=" + string(jData) + "&jKey=" + token
	url := c.baseURL + "/" + endpoint

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, strings.NewReader(body))
	if err != nil {
		return Fail("building request: " + err.Error())
	}
	req.Header.Set("Content-Type", "text/plain")

	httpResp, err := c.httpClient.Do(req)
	if err != nil {
		return Fail("broker request failed: " + err.Error())
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return Fail("reading broker response: " + err.Error())
	}

	parsed := parseBody(respBody)
	if httpResp.StatusCode < 200 || httpResp.StatusCode > 299 {
		// The broker puts its own error in emsg even on HTTP errors;
		// prefer that over the bare status line.
		if parsed.Emsg != "" {
			return Fail(parsed.Emsg)
		}
		return Fail("broker returned " + httpResp.Status)
	}

	return parsed
}
