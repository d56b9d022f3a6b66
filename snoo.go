package snoo

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/snoolib/snoo/internal"
	pkgerrs "github.com/snoolib/snoo/pkg/errors"
	"github.com/snoolib/snoo/pkg/types"
)

// Version of the library, reported in the default User-Agent.
const Version = "0.3.0"

const (
	// DefaultBaseURL is the OAuth API host used by authenticated clients.
	DefaultBaseURL = "https://oauth.reddit.com/"
	// DefaultAuthURL is the host used for token grants and, in anonymous
	// mode, for the read-only .json endpoints.
	DefaultAuthURL = "https://www.reddit.com/"
	// DefaultUserAgent identifies the library when Config.UserAgent is empty.
	DefaultUserAgent = "snoo/" + Version + " (github.com/snoolib/snoo)"
	// DefaultTimeout is applied to the HTTP client built when none is injected.
	DefaultTimeout = 30 * time.Second
)

// Config holds the settings for a Client.
//
// Leaving ClientID and ClientSecret empty selects anonymous mode: the client
// reads the public .json endpoints of www.reddit.com without a token, and
// every operation that needs an account returns a StateError. Setting both
// selects OAuth; additionally setting Username and Password switches the
// grant from client_credentials (app context) to password (user context),
// which unlocks the inbox, voting history, submission and moderation calls.
type Config struct {
	// ClientID and ClientSecret identify the OAuth application, from
	// https://www.reddit.com/prefs/apps. Leave both empty for anonymous
	// read-only access.
	ClientID     string
	ClientSecret string

	// Username and Password select the password grant. Optional; requires
	// ClientID and ClientSecret.
	Username string
	Password string

	// UserAgent identifies the application to Reddit. Reddit asks for the
	// form "platform:app-name:version by /u/username" and throttles generic
	// agents aggressively. Defaults to DefaultUserAgent.
	UserAgent string

	// BaseURL overrides the API host, mainly for tests. Defaults to
	// DefaultBaseURL, or DefaultAuthURL in anonymous mode.
	BaseURL string

	// AuthURL overrides the token-grant host, mainly for tests.
	AuthURL string

	// HTTPClient is used for all requests when set. Defaults to a client
	// with DefaultTimeout.
	HTTPClient *http.Client

	// Logger receives structured diagnostics. Nil disables logging.
	Logger *slog.Logger

	// MaxRetries bounds the retry attempts for transient failures.
	// Defaults to 3, capped at 32.
	MaxRetries int

	// RetryWaitMin and RetryWaitMax bound the backoff between retries.
	// Default 1s and 60s.
	RetryWaitMin time.Duration
	RetryWaitMax time.Duration

	// DisablePacing turns off the proactive rate pacer, for tests.
	DisablePacing bool
}

// Client talks to the Reddit API. Construct one with NewClient, then call
// Connect before issuing requests. All methods are safe for concurrent use.
type Client struct {
	http      *internal.Client
	auth      *internal.Authenticator
	parser    *internal.Parser
	validate  *internal.Validator
	conn      *internal.ConnGate
	logger    *slog.Logger
	userAgent string
	username  string
	anonymous bool
}

// NewClient validates the configuration and builds a Client. No network
// traffic happens here; the token grant runs in Connect.
func NewClient(config *Config) (*Client, error) {
	if config == nil {
		return nil, &pkgerrs.ConfigError{Message: "config is required"}
	}

	if (config.ClientID == "") != (config.ClientSecret == "") {
		return nil, &pkgerrs.ConfigError{
			Field:   "ClientID",
			Message: "ClientID and ClientSecret must be set together",
		}
	}
	if (config.Username == "") != (config.Password == "") {
		return nil, &pkgerrs.ConfigError{
			Field:   "Username",
			Message: "Username and Password must be set together",
		}
	}
	anonymous := config.ClientID == ""
	if anonymous && config.Username != "" {
		return nil, &pkgerrs.ConfigError{
			Field:   "ClientID",
			Message: "user credentials require ClientID and ClientSecret",
		}
	}

	userAgent := config.UserAgent
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	validate := internal.NewValidator()
	if err := validate.ValidateUserAgent(userAgent); err != nil {
		return nil, &pkgerrs.ConfigError{Field: "UserAgent", Message: err.Error()}
	}

	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: DefaultTimeout}
	}

	authURL := config.AuthURL
	if authURL == "" {
		authURL = DefaultAuthURL
	}
	baseURL := config.BaseURL
	if baseURL == "" {
		if anonymous {
			baseURL = DefaultAuthURL
		} else {
			baseURL = DefaultBaseURL
		}
	}

	c := &Client{
		parser:    internal.NewParser(),
		validate:  validate,
		conn:      internal.NewConnGate(),
		logger:    config.Logger,
		userAgent: userAgent,
		username:  config.Username,
		anonymous: anonymous,
	}

	if !anonymous {
		grantType := internal.GrantClientCredentials
		if config.Username != "" {
			grantType = internal.GrantPassword
		}
		auth, err := internal.NewAuthenticator(
			httpClient,
			config.Username,
			config.Password,
			config.ClientID,
			config.ClientSecret,
			userAgent,
			authURL,
			grantType,
			"",
		)
		if err != nil {
			return nil, err
		}
		c.auth = auth
	}

	transportCfg := &internal.ClientConfig{
		HTTPClient:    httpClient,
		BaseURL:       baseURL,
		UserAgent:     userAgent,
		Anonymous:     anonymous,
		Logger:        config.Logger,
		MaxRetries:    config.MaxRetries,
		RetryWaitMin:  config.RetryWaitMin,
		RetryWaitMax:  config.RetryWaitMax,
		DisablePacing: config.DisablePacing,
	}
	if c.auth != nil {
		transportCfg.Tokens = c.auth
	}
	transport, err := internal.NewClient(transportCfg)
	if err != nil {
		return nil, err
	}
	c.http = transport

	return c, nil
}

// Connect performs the OAuth token grant and marks the client ready.
// Concurrent calls coalesce; once connected, Connect is a no-op until
// Logout. Anonymous clients connect without network traffic.
func (c *Client) Connect(ctx context.Context) error {
	return c.conn.Connect(ctx, func(ctx context.Context) error {
		if c.anonymous {
			return nil
		}
		if _, err := c.auth.GetToken(ctx); err != nil {
			return err
		}
		if c.logger != nil {
			c.logger.Info("connected to reddit", "user_context", c.username != "")
		}
		return nil
	})
}

// IsConnected reports whether Connect has completed.
func (c *Client) IsConnected() bool {
	return c.conn.Connected()
}

// Logout revokes the cached token and returns the client to the unconnected
// state. A later Connect obtains a fresh token. On anonymous or never-
// connected clients Logout is a no-op.
func (c *Client) Logout(ctx context.Context) error {
	return c.conn.Disconnect(ctx, func(ctx context.Context) error {
		if c.auth == nil {
			return nil
		}
		if err := c.auth.Revoke(ctx); err != nil {
			return err
		}
		if c.logger != nil {
			c.logger.Info("logged out of reddit")
		}
		return nil
	})
}

// require gates operations that need a connected client.
func (c *Client) require(operation string) error {
	if !c.conn.Connected() {
		return &pkgerrs.StateError{
			Operation: operation,
			Message:   "client is not connected, call Connect first",
		}
	}
	return nil
}

// requireUser gates operations that need the password grant.
func (c *Client) requireUser(operation string) error {
	if err := c.require(operation); err != nil {
		return err
	}
	if c.anonymous {
		return &pkgerrs.StateError{
			Operation: operation,
			Message:   "operation requires OAuth credentials",
		}
	}
	if c.username == "" {
		return &pkgerrs.StateError{
			Operation: operation,
			Message:   "operation requires username and password credentials",
		}
	}
	return nil
}

// listingParams converts pagination options to query parameters.
func listingParams(opts *types.ListingOptions) url.Values {
	params := url.Values{}
	if opts == nil {
		return params
	}
	if opts.Limit > 0 {
		params.Set("limit", strconv.Itoa(opts.Limit))
	}
	if opts.After != "" {
		params.Set("after", opts.After)
	}
	if opts.Before != "" {
		params.Set("before", opts.Before)
	}
	if opts.Count > 0 {
		params.Set("count", strconv.Itoa(opts.Count))
	}
	return params
}

// cursors extracts the pagination tokens from a listing Thing. A non-listing
// Thing yields empty tokens.
func (c *Client) cursors(thing *types.Thing) (after, before string) {
	listing, err := c.parser.ParseListing(thing)
	if err != nil {
		return "", ""
	}
	return listing.AfterFullname, listing.BeforeFullname
}

// getThing issues a GET for path and decodes the Thing envelope.
func (c *Client) getThing(ctx context.Context, path string, params url.Values) (*types.Thing, error) {
	req, err := c.http.NewRequest(ctx, http.MethodGet, path, nil, params)
	if err != nil {
		return nil, err
	}
	return c.http.DoThing(req)
}

// formReader encodes a form body for a POST request.
func formReader(form url.Values) io.Reader {
	return strings.NewReader(form.Encode())
}

// postAction issues a form POST with the api_type=json envelope and returns
// the decoded action response.
func (c *Client) postAction(ctx context.Context, path string, form url.Values) (*types.ActionResponse, error) {
	form.Set("api_type", "json")
	req, err := c.http.NewRequest(ctx, http.MethodPost, path, formReader(form), nil)
	if err != nil {
		return nil, err
	}
	return c.http.DoAction(req)
}
