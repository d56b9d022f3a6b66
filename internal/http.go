package internal

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/hashicorp/go-retryablehttp"

	pkgerrs "github.com/snoolib/snoo/pkg/errors"
	"github.com/snoolib/snoo/pkg/types"
)

const (
	DefaultMaxRetries   = 3
	MaxRetryCap         = 32
	DefaultRetryWaitMin = 1 * time.Second
	DefaultRetryWaitMax = 60 * time.Second

	// Bodies attached to errors and debug logs are truncated to this size.
	maxErrorBodyBytes = 2048
)

// TokenProvider supplies a bearer token for each request.
type TokenProvider interface {
	GetToken(ctx context.Context) (string, error)
}

// ClientConfig carries the settings for the transport client.
type ClientConfig struct {
	// HTTPClient is the underlying client. Defaults to http.DefaultClient.
	HTTPClient *http.Client
	// BaseURL is the API host every request path is resolved against.
	BaseURL string
	// UserAgent is sent on every request.
	UserAgent string
	// Tokens supplies bearer tokens. Nil in anonymous mode.
	Tokens TokenProvider
	// Anonymous selects the read-only www host convention: no Authorization
	// header and a .json suffix on every path.
	Anonymous bool
	// Logger receives transport diagnostics. Nil disables logging.
	Logger *slog.Logger
	// MaxRetries bounds retry attempts. Defaults to 3, capped at 32.
	MaxRetries int
	// RetryWaitMin and RetryWaitMax bound the backoff schedule.
	// Default 1s and 60s.
	RetryWaitMin time.Duration
	RetryWaitMax time.Duration
	// RateLimit tunes the pacer. Nil uses the defaults.
	RateLimit *RateLimitConfig
	// DisablePacing turns off proactive request pacing, for tests.
	DisablePacing bool
}

// Client manages communication with the Reddit API. It paces requests to stay
// inside Reddit's rate limits and retries transient failures.
type Client struct {
	retry     *retryablehttp.Client
	BaseURL   *url.URL
	UserAgent string
	tokens    TokenProvider
	anonymous bool
	logger    *slog.Logger
	pacer     *Pacer
}

// NewClient returns a new Reddit API transport client.
func NewClient(cfg *ClientConfig) (*Client, error) {
	if cfg == nil {
		return nil, &pkgerrs.ClientError{Message: "client config is required"}
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	parsedURL, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, &pkgerrs.ClientError{Operation: "parse base URL", Err: err}
	}
	if !strings.HasSuffix(parsedURL.Path, "/") {
		parsedURL.Path += "/"
	}

	maxRetries := cfg.MaxRetries
	if maxRetries <= 0 {
		maxRetries = DefaultMaxRetries
	}
	if maxRetries > MaxRetryCap {
		maxRetries = MaxRetryCap
	}

	waitMin := cfg.RetryWaitMin
	if waitMin <= 0 {
		waitMin = DefaultRetryWaitMin
	}
	waitMax := cfg.RetryWaitMax
	if waitMax <= 0 {
		waitMax = DefaultRetryWaitMax
	}

	c := &Client{
		BaseURL:   parsedURL,
		UserAgent: cfg.UserAgent,
		tokens:    cfg.Tokens,
		anonymous: cfg.Anonymous,
		logger:    cfg.Logger,
		pacer:     NewPacer(cfg.RateLimit, cfg.DisablePacing, cfg.Logger),
	}

	retry := &retryablehttp.Client{
		HTTPClient:   httpClient,
		RetryMax:     maxRetries,
		RetryWaitMin: waitMin,
		RetryWaitMax: waitMax,
		CheckRetry:   c.checkRetry,
		Backoff:      c.backoff,
		ErrorHandler: retryablehttp.PassthroughErrorHandler,
		RequestLogHook: func(_ retryablehttp.Logger, req *http.Request, attempt int) {
			if attempt > 0 && c.logger != nil {
				c.logger.Warn("retrying request", "path", req.URL.Path, "attempt", attempt)
			}
			_ = c.pacer.Wait(req.Context())
		},
		ResponseLogHook: func(_ retryablehttp.Logger, resp *http.Response) {
			c.pacer.Observe(resp)
		},
	}
	if cfg.Logger != nil {
		retry.Logger = cfg.Logger
	}
	c.retry = retry

	return c, nil
}

// NewRequest creates an API request. A relative URL can be provided in path,
// in which case it is resolved relative to the BaseURL of the Client. Query
// params are attached along with raw_json=1, and the bearer token is fetched
// from the TokenProvider. In anonymous mode the path gets a .json suffix and
// no Authorization header.
func (c *Client) NewRequest(ctx context.Context, method, path string, body io.Reader, params url.Values) (*http.Request, error) {
	if c.anonymous {
		path = ensureDotJSON(path)
	}

	u, err := c.BaseURL.Parse(path)
	if err != nil {
		return nil, &pkgerrs.RequestError{Operation: "build request", URL: path, Err: err}
	}

	q := u.Query()
	q.Set("raw_json", "1")
	for key, values := range params {
		for _, v := range values {
			q.Add(key, v)
		}
	}
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, method, u.String(), body)
	if err != nil {
		return nil, &pkgerrs.RequestError{Operation: "build request", URL: u.String(), Err: err}
	}

	req.Header.Set("User-Agent", c.UserAgent)
	if body != nil && method != http.MethodGet {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}

	if !c.anonymous {
		token, err := c.tokens.GetToken(ctx)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}

	return req, nil
}

func ensureDotJSON(path string) string {
	if strings.HasSuffix(path, ".json") {
		return path
	}
	return strings.TrimSuffix(path, "/") + ".json"
}

// Do sends an API request, retrying transient failures per the configured
// schedule, and JSON-decodes the response into the value pointed to by v
// when v is non-nil.
func (c *Client) Do(req *http.Request, v any) (*http.Response, error) {
	rreq, err := retryablehttp.FromRequest(req)
	if err != nil {
		return nil, &pkgerrs.RequestError{Operation: "prepare request", URL: req.URL.Redacted(), Err: err}
	}

	resp, err := c.retry.Do(rreq)
	if err != nil {
		if resp != nil {
			resp.Body.Close()
		}
		return nil, &pkgerrs.RequestError{Operation: req.Method, URL: req.URL.Redacted(), Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		snippet := readSnippet(resp.Body)
		if inv, ok := c.tokens.(interface{ Invalidate() }); ok {
			inv.Invalidate()
		}
		return resp, &pkgerrs.AuthError{
			StatusCode: resp.StatusCode,
			Body:       string(snippet),
			Message:    "API rejected credentials",
		}
	}

	if resp.StatusCode == http.StatusTooManyRequests {
		readSnippet(resp.Body)
		return resp, rateLimitErrorFromResponse(resp)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return resp, c.apiError(resp)
	}

	if v != nil {
		bodyBytes, err := io.ReadAll(resp.Body)
		if err != nil {
			return resp, &pkgerrs.RequestError{
				Operation: req.Method,
				URL:       req.URL.Redacted(),
				Message:   "failed to read response body",
				Err:       err,
			}
		}
		if err := json.Unmarshal(bodyBytes, v); err != nil {
			return resp, c.parseError(req, bodyBytes, err)
		}
	}

	return resp, nil
}

// DoThing sends the request and decodes the response as a single Thing.
func (c *Client) DoThing(req *http.Request) (*types.Thing, error) {
	var thing types.Thing
	if _, err := c.Do(req, &thing); err != nil {
		return nil, err
	}
	return &thing, nil
}

// DoThingArray sends the request and decodes a response that is a JSON array
// of Things, as the article comments endpoint returns.
func (c *Client) DoThingArray(req *http.Request) ([]*types.Thing, error) {
	var things []*types.Thing
	if _, err := c.Do(req, &things); err != nil {
		return nil, err
	}
	return things, nil
}

// DoAction sends a form POST and decodes the api_type=json envelope,
// converting a non-empty errors array into an *errors.APIError.
func (c *Client) DoAction(req *http.Request) (*types.ActionResponse, error) {
	var action types.ActionResponse
	resp, err := c.Do(req, &action)
	if err != nil {
		return nil, err
	}
	if err := actionError(resp.StatusCode, &action); err != nil {
		return nil, err
	}
	return &action, nil
}

// actionError converts the errors array of an action envelope into an
// APIError. Entries are [code, message, field] triples.
func actionError(statusCode int, action *types.ActionResponse) error {
	if len(action.JSON.Errors) == 0 {
		return nil
	}
	entry := action.JSON.Errors[0]
	apiErr := &pkgerrs.APIError{StatusCode: statusCode}
	if len(entry) > 0 {
		apiErr.ErrorCode = entry[0]
	}
	if len(entry) > 1 {
		apiErr.Message = entry[1]
	}
	if len(entry) > 2 {
		apiErr.Field = entry[2]
	}
	return apiErr
}

// checkRetry decides whether an attempt should be retried: connection resets,
// 429 and 5xx are transient, everything else fails immediately.
func (c *Client) checkRetry(ctx context.Context, resp *http.Response, err error) (bool, error) {
	if ctx.Err() != nil {
		return false, ctx.Err()
	}

	if err != nil {
		return retryableNetworkError(err), nil
	}

	if resp == nil {
		return false, nil
	}

	if resp.StatusCode == http.StatusTooManyRequests {
		return true, nil
	}
	if resp.StatusCode >= 500 {
		return true, nil
	}

	return false, nil
}

// retryableNetworkError reports whether a transport error is transient.
// Connection resets and aborts are; bad URLs, TLS failures, and canceled
// contexts are not.
func retryableNetworkError(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	if errors.Is(err, syscall.ECONNRESET) || errors.Is(err, syscall.ECONNABORTED) {
		return true
	}
	return errors.Is(err, io.ErrUnexpectedEOF)
}

// backoff computes the wait before the next attempt. A Retry-After header is
// honored exactly; otherwise the wait doubles per attempt within the
// configured bounds.
func (c *Client) backoff(minWait, maxWait time.Duration, attemptNum int, resp *http.Response) time.Duration {
	if resp != nil {
		if s := resp.Header.Get("Retry-After"); s != "" {
			if seconds, err := strconv.ParseFloat(s, ParseFloatBitSize); err == nil && seconds > 0 {
				return time.Duration(seconds * float64(time.Second))
			}
		}
	}

	wait := maxWait
	if shift := uint(attemptNum) + 1; shift < 32 {
		wait = time.Duration(1<<shift) * time.Second
	}
	if wait < minWait {
		wait = minWait
	}
	if wait > maxWait {
		wait = maxWait
	}
	return wait
}

func rateLimitErrorFromResponse(resp *http.Response) error {
	rle := &pkgerrs.RateLimitError{Used: -1, Remaining: -1}
	if s := resp.Header.Get("Retry-After"); s != "" {
		if seconds, err := strconv.ParseFloat(s, ParseFloatBitSize); err == nil && seconds > 0 {
			rle.RetryAfter = time.Duration(seconds * float64(time.Second))
		}
	}
	if s := resp.Header.Get("X-Ratelimit-Used"); s != "" {
		if n, err := strconv.ParseFloat(s, ParseFloatBitSize); err == nil {
			rle.Used = int(n)
		}
	}
	if s := resp.Header.Get("X-Ratelimit-Remaining"); s != "" {
		if n, err := strconv.ParseFloat(s, ParseFloatBitSize); err == nil {
			rle.Remaining = int(n)
		}
	}
	return rle
}

// apiError builds an APIError from a non-2xx response, using the JSON error
// body when Reddit sent one.
func (c *Client) apiError(resp *http.Response) error {
	snippet := readSnippet(resp.Body)
	apiErr := &pkgerrs.APIError{StatusCode: resp.StatusCode}

	var body struct {
		Message string `json:"message"`
		Reason  string `json:"reason"`
	}
	if err := json.Unmarshal(snippet, &body); err == nil && body.Message != "" {
		apiErr.Message = body.Message
		apiErr.ErrorCode = body.Reason
	} else {
		apiErr.Message = strings.TrimSpace(string(snippet))
	}

	return apiErr
}

// parseError logs the undecodable body at Debug and attaches the truncated
// payload to the returned error.
func (c *Client) parseError(req *http.Request, body []byte, err error) error {
	snippet := body
	if len(snippet) > maxErrorBodyBytes {
		snippet = snippet[:maxErrorBodyBytes]
	}

	if c.logger != nil {
		c.logger.Debug("response body failed to decode",
			"url", req.URL.Redacted(),
			"body", string(snippet),
		)
	}

	return &pkgerrs.ParseError{
		Operation: req.Method + " " + req.URL.Path,
		Body:      snippet,
		Err:       err,
	}
}

func readSnippet(r io.Reader) []byte {
	b, _ := io.ReadAll(io.LimitReader(r, maxErrorBodyBytes))
	return b
}
