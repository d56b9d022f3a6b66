package internal

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	pkgerrs "github.com/snoolib/snoo/pkg/errors"
)

const (
	defaultTokenEndpointPath  = "api/v1/access_token"
	defaultRevokeEndpointPath = "api/v1/revoke_token"

	// GrantPassword is the OAuth2 resource-owner password grant, used when a
	// username and password are configured.
	GrantPassword = "password"
	// GrantClientCredentials is the OAuth2 application-only grant, used when
	// only a client ID and secret are configured.
	GrantClientCredentials = "client_credentials"

	// Tokens are refreshed this long before their reported expiry so that a
	// request started near the boundary does not race token expiration.
	tokenRefreshMargin = time.Minute
)

// Authenticator retrieves and caches OAuth2 access tokens from the Reddit API.
// Tokens are reused until shortly before expiry, then fetched again.
type Authenticator struct {
	client       *http.Client
	clientID     string
	clientSecret string
	userAgent    string
	BaseURL      *url.URL
	tokenURL     *url.URL
	revokeURL    *url.URL
	formData     *url.Values

	mu        sync.Mutex
	token     string
	expiresAt time.Time
}

// NewAuthenticator creates a new authenticator.
// The tokenPath parameter can be an empty string to use the default Reddit token endpoint.
func NewAuthenticator(httpClient *http.Client, username, password, clientID, clientSecret, userAgent, baseURL, grantType, tokenPath string) (*Authenticator, error) {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	parsedURL, err := url.Parse(baseURL)
	if err != nil {
		return nil, &pkgerrs.AuthError{Err: fmt.Errorf("failed to parse base URL: %w", err)}
	}
	if !strings.HasSuffix(parsedURL.Path, "/") {
		parsedURL.Path += "/"
	}

	if tokenPath == "" {
		tokenPath = defaultTokenEndpointPath
	}

	resolvedTokenURL, err := parsedURL.Parse(tokenPath)
	if err != nil {
		return nil, &pkgerrs.AuthError{Err: fmt.Errorf("failed to parse token endpoint path: %w", err)}
	}

	resolvedRevokeURL, err := parsedURL.Parse(defaultRevokeEndpointPath)
	if err != nil {
		return nil, &pkgerrs.AuthError{Err: fmt.Errorf("failed to parse revoke endpoint path: %w", err)}
	}

	// Prepare form data upfront
	form := &url.Values{}
	form.Add("grant_type", grantType)
	if username != "" && password != "" {
		form.Add("username", username)
		form.Add("password", password)
	}

	return &Authenticator{
		client:       httpClient,
		clientID:     clientID,
		clientSecret: clientSecret,
		userAgent:    userAgent,
		BaseURL:      parsedURL,
		tokenURL:     resolvedTokenURL,
		revokeURL:    resolvedRevokeURL,
		formData:     form,
	}, nil
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
	Scope       string `json:"scope"`
	// Reddit reports bad credentials as a 200 with an error field.
	Error string `json:"error"`
}

// GetToken returns a valid access token, fetching a new one from the token
// endpoint when none is cached or the cached token is near expiry.
func (a *Authenticator) GetToken(ctx context.Context) (string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.token != "" && time.Now().Before(a.expiresAt.Add(-tokenRefreshMargin)) {
		return a.token, nil
	}

	tok, expiresIn, err := a.fetchToken(ctx)
	if err != nil {
		return "", err
	}

	a.token = tok
	a.expiresAt = time.Now().Add(time.Duration(expiresIn) * time.Second)
	return tok, nil
}

// Invalidate drops the cached token so the next GetToken call fetches a fresh
// one. Called after the API rejects a request with 401.
func (a *Authenticator) Invalidate() {
	a.mu.Lock()
	a.token = ""
	a.expiresAt = time.Time{}
	a.mu.Unlock()
}

// fetchToken performs the configured grant flow against the token endpoint.
// Callers must hold a.mu.
func (a *Authenticator) fetchToken(ctx context.Context) (string, int, error) {
	data := a.formData.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.tokenURL.String(), strings.NewReader(data))
	if err != nil {
		return "", 0, &pkgerrs.AuthError{Err: fmt.Errorf("failed to create token request: %w", err)}
	}

	req.SetBasicAuth(a.clientID, a.clientSecret)
	req.Header.Set("User-Agent", a.userAgent)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := a.client.Do(req)
	if err != nil {
		return "", 0, &pkgerrs.AuthError{Err: fmt.Errorf("failed to execute token request: %w", err)}
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", 0, &pkgerrs.AuthError{
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("failed to read response body: %w", err),
		}
	}

	if resp.StatusCode != http.StatusOK {
		return "", 0, &pkgerrs.AuthError{
			StatusCode: resp.StatusCode,
			Body:       string(bodyBytes),
		}
	}

	var tokenResp tokenResponse
	if err := json.Unmarshal(bodyBytes, &tokenResp); err != nil {
		return "", 0, &pkgerrs.AuthError{
			StatusCode: resp.StatusCode,
			Body:       string(bodyBytes),
			Err:        fmt.Errorf("failed to unmarshal token response: %w", err),
		}
	}

	if tokenResp.Error != "" {
		return "", 0, &pkgerrs.AuthError{
			StatusCode: resp.StatusCode,
			Message:    fmt.Sprintf("token endpoint rejected credentials: %s", tokenResp.Error),
		}
	}

	if tokenResp.AccessToken == "" {
		return "", 0, &pkgerrs.AuthError{
			StatusCode: resp.StatusCode,
			Body:       string(bodyBytes),
			Err:        fmt.Errorf("access token was empty in response"),
		}
	}

	return tokenResp.AccessToken, tokenResp.ExpiresIn, nil
}

// Revoke invalidates the cached token with Reddit's revocation endpoint and
// clears the local cache. It is a no-op when no token is cached.
func (a *Authenticator) Revoke(ctx context.Context) error {
	a.mu.Lock()
	tok := a.token
	a.mu.Unlock()

	if tok == "" {
		return nil
	}

	form := url.Values{}
	form.Add("access_token", tok)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.revokeURL.String(), strings.NewReader(form.Encode()))
	if err != nil {
		return &pkgerrs.AuthError{Err: fmt.Errorf("failed to create revoke request: %w", err)}
	}

	req.SetBasicAuth(a.clientID, a.clientSecret)
	req.Header.Set("User-Agent", a.userAgent)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := a.client.Do(req)
	if err != nil {
		return &pkgerrs.AuthError{Err: fmt.Errorf("failed to execute revoke request: %w", err)}
	}
	defer resp.Body.Close()

	// Reddit responds 204 on success. Read and discard any body so the
	// connection can be reused.
	bodyBytes, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))

	if resp.StatusCode != http.StatusNoContent {
		return &pkgerrs.AuthError{
			StatusCode: resp.StatusCode,
			Body:       string(bodyBytes),
			Message:    "token revocation failed",
		}
	}

	a.Invalidate()
	return nil
}
