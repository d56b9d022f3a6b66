package snoo

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	pkgerrs "github.com/snoolib/snoo/pkg/errors"
)

// capturedRequest is one request the fake server saw, with the form body
// already parsed.
type capturedRequest struct {
	Method string
	Path   string
	Query  url.Values
	Form   url.Values
	Header http.Header
}

// fakeServer emulates the Reddit API for root-level tests. The token and
// revocation endpoints are built in; everything else dispatches to routes
// registered with handle.
type fakeServer struct {
	*httptest.Server

	mu           sync.Mutex
	requests     []capturedRequest
	routes       map[string]http.HandlerFunc
	tokenGrants  int
	tokenStatus  int
	revokeStatus int
}

func newFakeServer(t *testing.T) *fakeServer {
	t.Helper()
	f := &fakeServer{
		routes:       make(map[string]http.HandlerFunc),
		tokenStatus:  http.StatusOK,
		revokeStatus: http.StatusNoContent,
	}
	f.Server = httptest.NewServer(http.HandlerFunc(f.serveHTTP))
	t.Cleanup(f.Close)
	return f
}

func (f *fakeServer) handle(method, path string, h http.HandlerFunc) {
	f.mu.Lock()
	f.routes[method+" "+path] = h
	f.mu.Unlock()
}

// handleJSON registers a route answering with a fixed JSON body.
func (f *fakeServer) handleJSON(method, path, body string) {
	f.handle(method, path, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, body)
	})
}

func (f *fakeServer) serveHTTP(w http.ResponseWriter, r *http.Request) {
	r.ParseForm()
	f.mu.Lock()
	f.requests = append(f.requests, capturedRequest{
		Method: r.Method,
		Path:   r.URL.Path,
		Query:  r.URL.Query(),
		Form:   r.PostForm,
		Header: r.Header.Clone(),
	})
	f.mu.Unlock()

	switch r.URL.Path {
	case "/api/v1/access_token":
		f.mu.Lock()
		f.tokenGrants++
		status := f.tokenStatus
		f.mu.Unlock()
		if status != http.StatusOK {
			w.WriteHeader(status)
			io.WriteString(w, `{"message": "Unauthorized", "error": 401}`)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"access_token":"test-token","token_type":"bearer","expires_in":3600,"scope":"*"}`)
		return
	case "/api/v1/revoke_token":
		f.mu.Lock()
		status := f.revokeStatus
		f.mu.Unlock()
		w.WriteHeader(status)
		return
	}

	f.mu.Lock()
	h, ok := f.routes[r.Method+" "+r.URL.Path]
	f.mu.Unlock()
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		io.WriteString(w, `{"message": "Not Found", "error": 404}`)
		return
	}
	h(w, r)
}

// grants reports how often the token endpoint was hit.
func (f *fakeServer) grants() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.tokenGrants
}

func (f *fakeServer) requestCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.requests)
}

func (f *fakeServer) setTokenStatus(status int) {
	f.mu.Lock()
	f.tokenStatus = status
	f.mu.Unlock()
}

func (f *fakeServer) setRevokeStatus(status int) {
	f.mu.Lock()
	f.revokeStatus = status
	f.mu.Unlock()
}

// requestsTo returns the captured requests whose path matches.
func (f *fakeServer) requestsTo(path string) []capturedRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []capturedRequest
	for _, req := range f.requests {
		if req.Path == path {
			out = append(out, req)
		}
	}
	return out
}

// lastRequestTo returns the most recent request to path, failing the test
// when none was made.
func (f *fakeServer) lastRequestTo(t *testing.T, path string) capturedRequest {
	t.Helper()
	reqs := f.requestsTo(path)
	if len(reqs) == 0 {
		t.Fatalf("no request reached %s", path)
	}
	return reqs[len(reqs)-1]
}

func testConfig(f *fakeServer) *Config {
	return &Config{
		ClientID:      "test-client",
		ClientSecret:  "test-secret",
		UserAgent:     "snoo-test/1.0",
		BaseURL:       f.URL,
		AuthURL:       f.URL,
		DisablePacing: true,
		MaxRetries:    1,
		RetryWaitMin:  time.Millisecond,
		RetryWaitMax:  2 * time.Millisecond,
	}
}

// newTestClient builds and connects an application-only client against the
// fake server.
func newTestClient(t *testing.T, f *fakeServer) *Client {
	t.Helper()
	client, err := NewClient(testConfig(f))
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	if err := client.Connect(context.Background()); err != nil {
		t.Fatalf("Connect returned error: %v", err)
	}
	return client
}

// newUserClient builds and connects a password-grant client.
func newUserClient(t *testing.T, f *fakeServer) *Client {
	t.Helper()
	cfg := testConfig(f)
	cfg.Username = "testuser"
	cfg.Password = "hunter2"
	client, err := NewClient(cfg)
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	if err := client.Connect(context.Background()); err != nil {
		t.Fatalf("Connect returned error: %v", err)
	}
	return client
}

// newAnonClient builds and connects an anonymous client.
func newAnonClient(t *testing.T, f *fakeServer) *Client {
	t.Helper()
	cfg := testConfig(f)
	cfg.ClientID = ""
	cfg.ClientSecret = ""
	client, err := NewClient(cfg)
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	if err := client.Connect(context.Background()); err != nil {
		t.Fatalf("Connect returned error: %v", err)
	}
	return client
}

// listingBody builds a Listing Thing with the given serialized children.
func listingBody(after string, children ...string) string {
	afterJSON := "null"
	if after != "" {
		afterJSON = fmt.Sprintf("%q", after)
	}
	return fmt.Sprintf(`{"kind":"Listing","data":{"after":%s,"before":null,"children":[%s]}}`,
		afterJSON, strings.Join(children, ","))
}

func postChild(id, title string, score int) string {
	return fmt.Sprintf(`{"kind":"t3","data":{"id":%q,"name":"t3_%s","title":%q,"score":%d,"author":"alice","subreddit":"golang","permalink":"/r/golang/comments/%s/title/","num_comments":2}}`,
		id, id, title, score, id)
}

func commentChild(id, author, body string) string {
	return fmt.Sprintf(`{"kind":"t1","data":{"id":%q,"name":"t1_%s","author":%q,"body":%q,"score":1,"link_id":"t3_abc","replies":""}}`,
		id, id, author, body)
}

const subredditAboutBody = `{"kind":"t5","data":{"id":"2rc7j","name":"t5_2rc7j","display_name":"golang","title":"The Go Programming Language","subscribers":250000,"public_description":"Gopher it."}}`

// actionOK wraps a data payload in the api_type=json envelope.
func actionOK(data string) string {
	if data == "" {
		return `{"json":{"errors":[]}}`
	}
	return fmt.Sprintf(`{"json":{"errors":[],"data":%s}}`, data)
}

// actionFailed builds an envelope carrying one API error triple.
func actionFailed(code, message, field string) string {
	return fmt.Sprintf(`{"json":{"errors":[[%q,%q,%q]]}}`, code, message, field)
}

func wantConfigError(t *testing.T, err error, field string) {
	t.Helper()
	var cfgErr *pkgerrs.ConfigError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("error = %v (%T), want *ConfigError", err, err)
	}
	if field != "" && cfgErr.Field != field {
		t.Errorf("ConfigError.Field = %q, want %q", cfgErr.Field, field)
	}
}

func wantStateError(t *testing.T, err error) {
	t.Helper()
	var stateErr *pkgerrs.StateError
	if !errors.As(err, &stateErr) {
		t.Fatalf("error = %v (%T), want *StateError", err, err)
	}
}

func wantAPIError(t *testing.T, err error) *pkgerrs.APIError {
	t.Helper()
	var apiErr *pkgerrs.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("error = %v (%T), want *APIError", err, err)
	}
	return apiErr
}

func TestNewClient(t *testing.T) {
	tests := []struct {
		name      string
		config    *Config
		wantField string
	}{
		{
			name:      "nil config",
			config:    nil,
			wantField: "",
		},
		{
			name:      "secret without id",
			config:    &Config{ClientSecret: "secret"},
			wantField: "ClientID",
		},
		{
			name:      "id without secret",
			config:    &Config{ClientID: "id"},
			wantField: "ClientID",
		},
		{
			name: "username without password",
			config: &Config{
				ClientID: "id", ClientSecret: "secret",
				Username: "user",
			},
			wantField: "Username",
		},
		{
			name: "password without username",
			config: &Config{
				ClientID: "id", ClientSecret: "secret",
				Password: "pass",
			},
			wantField: "Username",
		},
		{
			name: "user credentials without app credentials",
			config: &Config{
				Username: "user", Password: "pass",
			},
			wantField: "ClientID",
		},
		{
			name: "user agent with newline",
			config: &Config{
				ClientID: "id", ClientSecret: "secret",
				UserAgent: "bad\nagent",
			},
			wantField: "UserAgent",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewClient(tt.config)
			if err == nil {
				t.Fatal("expected error but got none")
			}
			wantConfigError(t, err, tt.wantField)
		})
	}
}

func TestNewClient_ValidConfigs(t *testing.T) {
	tests := []struct {
		name   string
		config *Config
	}{
		{
			name:   "application only",
			config: &Config{ClientID: "id", ClientSecret: "secret"},
		},
		{
			name: "user credentials",
			config: &Config{
				ClientID: "id", ClientSecret: "secret",
				Username: "user", Password: "pass",
			},
		},
		{
			name:   "anonymous",
			config: &Config{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, err := NewClient(tt.config)
			if err != nil {
				t.Fatalf("NewClient returned error: %v", err)
			}
			if client.IsConnected() {
				t.Error("client reports connected before Connect")
			}
		})
	}
}

func TestClient_RequiresConnect(t *testing.T) {
	client, err := NewClient(&Config{ClientID: "id", ClientSecret: "secret"})
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}

	ctx := context.Background()
	calls := map[string]func() error{
		"GetHot": func() error {
			_, err := client.GetHot(ctx, "golang", nil)
			return err
		},
		"GetSubreddit": func() error {
			_, err := client.GetSubreddit(ctx, "golang")
			return err
		},
		"GetComments": func() error {
			_, err := client.GetComments(ctx, "golang", "abc123", nil)
			return err
		},
		"Me": func() error {
			_, err := client.Me(ctx)
			return err
		},
		"Submit": func() error {
			_, err := client.Submit(ctx, "golang", &SubmitRequest{Title: "t"})
			return err
		},
	}

	for name, call := range calls {
		t.Run(name, func(t *testing.T) {
			wantStateError(t, call())
		})
	}
}

func TestConnect_GrantsToken(t *testing.T) {
	f := newFakeServer(t)
	client := newTestClient(t, f)

	if !client.IsConnected() {
		t.Fatal("client not connected after Connect")
	}
	if got := f.grants(); got != 1 {
		t.Fatalf("token endpoint hit %d times, want 1", got)
	}

	grant := f.lastRequestTo(t, "/api/v1/access_token")
	if got := grant.Form.Get("grant_type"); got != "client_credentials" {
		t.Errorf("grant_type = %q, want client_credentials", got)
	}
	if got := grant.Header.Get("User-Agent"); got != "snoo-test/1.0" {
		t.Errorf("User-Agent = %q, want snoo-test/1.0", got)
	}
	if !strings.HasPrefix(grant.Header.Get("Authorization"), "Basic ") {
		t.Error("token request missing basic auth")
	}

	// A second Connect is a no-op.
	if err := client.Connect(context.Background()); err != nil {
		t.Fatalf("second Connect returned error: %v", err)
	}
	if got := f.grants(); got != 1 {
		t.Errorf("token endpoint hit %d times after reconnect, want 1", got)
	}
}

func TestConnect_PasswordGrant(t *testing.T) {
	f := newFakeServer(t)
	newUserClient(t, f)

	grant := f.lastRequestTo(t, "/api/v1/access_token")
	if got := grant.Form.Get("grant_type"); got != "password" {
		t.Errorf("grant_type = %q, want password", got)
	}
	if got := grant.Form.Get("username"); got != "testuser" {
		t.Errorf("username = %q, want testuser", got)
	}
	if got := grant.Form.Get("password"); got != "hunter2" {
		t.Errorf("password form field = %q, want hunter2", got)
	}
}

func TestConnect_TokenRejected(t *testing.T) {
	f := newFakeServer(t)
	f.setTokenStatus(http.StatusUnauthorized)

	client, err := NewClient(testConfig(f))
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}

	err = client.Connect(context.Background())
	if err == nil {
		t.Fatal("Connect succeeded against rejecting token endpoint")
	}
	var authErr *pkgerrs.AuthError
	if !errors.As(err, &authErr) {
		t.Fatalf("error = %v (%T), want *AuthError", err, err)
	}
	if client.IsConnected() {
		t.Error("client reports connected after failed Connect")
	}

	// A later Connect retries the grant.
	f.setTokenStatus(http.StatusOK)
	if err := client.Connect(context.Background()); err != nil {
		t.Fatalf("retry Connect returned error: %v", err)
	}
	if !client.IsConnected() {
		t.Error("client not connected after successful retry")
	}
}

func TestConnect_AnonymousIsOffline(t *testing.T) {
	f := newFakeServer(t)
	client := newAnonClient(t, f)

	if !client.IsConnected() {
		t.Fatal("anonymous client not connected")
	}
	if got := f.grants(); got != 0 {
		t.Errorf("anonymous Connect hit the token endpoint %d times, want 0", got)
	}
}

func TestLogout(t *testing.T) {
	f := newFakeServer(t)
	client := newTestClient(t, f)

	if err := client.Logout(context.Background()); err != nil {
		t.Fatalf("Logout returned error: %v", err)
	}
	if client.IsConnected() {
		t.Error("client still connected after Logout")
	}

	revoke := f.lastRequestTo(t, "/api/v1/revoke_token")
	if got := revoke.Form.Get("access_token"); got != "test-token" {
		t.Errorf("revoked token = %q, want test-token", got)
	}

	// Logging in again issues a fresh grant.
	if err := client.Connect(context.Background()); err != nil {
		t.Fatalf("reconnect returned error: %v", err)
	}
	if got := f.grants(); got != 2 {
		t.Errorf("token endpoint hit %d times after reconnect, want 2", got)
	}
}

func TestLogout_NeverConnected(t *testing.T) {
	f := newFakeServer(t)
	client, err := NewClient(testConfig(f))
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}

	if err := client.Logout(context.Background()); err != nil {
		t.Fatalf("Logout on unconnected client returned error: %v", err)
	}
	if len(f.requestsTo("/api/v1/revoke_token")) != 0 {
		t.Error("Logout on unconnected client hit the revoke endpoint")
	}
}

func TestLogout_RevokeFailureKeepsSession(t *testing.T) {
	f := newFakeServer(t)
	client := newTestClient(t, f)
	f.setRevokeStatus(http.StatusInternalServerError)

	if err := client.Logout(context.Background()); err == nil {
		t.Fatal("Logout succeeded despite failing revocation")
	}
	if !client.IsConnected() {
		t.Error("client disconnected despite failed revocation")
	}
}

func TestRequestShape_Authenticated(t *testing.T) {
	f := newFakeServer(t)
	f.handleJSON(http.MethodGet, "/r/golang/about", subredditAboutBody)
	client := newTestClient(t, f)

	if _, err := client.GetSubreddit(context.Background(), "golang"); err != nil {
		t.Fatalf("GetSubreddit returned error: %v", err)
	}

	req := f.lastRequestTo(t, "/r/golang/about")
	if got := req.Header.Get("Authorization"); got != "Bearer test-token" {
		t.Errorf("Authorization = %q, want Bearer test-token", got)
	}
	if got := req.Header.Get("User-Agent"); got != "snoo-test/1.0" {
		t.Errorf("User-Agent = %q, want snoo-test/1.0", got)
	}
	if got := req.Query.Get("raw_json"); got != "1" {
		t.Errorf("raw_json = %q, want 1", got)
	}
}

func TestRequestShape_Anonymous(t *testing.T) {
	f := newFakeServer(t)
	f.handleJSON(http.MethodGet, "/r/golang/about.json", subredditAboutBody)
	client := newAnonClient(t, f)

	sub, err := client.GetSubreddit(context.Background(), "golang")
	if err != nil {
		t.Fatalf("GetSubreddit returned error: %v", err)
	}
	if sub.DisplayName != "golang" {
		t.Errorf("DisplayName = %q, want golang", sub.DisplayName)
	}

	req := f.lastRequestTo(t, "/r/golang/about.json")
	if got := req.Header.Get("Authorization"); got != "" {
		t.Errorf("anonymous request carried Authorization %q", got)
	}
}

func TestAnonymous_WriteOperationsRejected(t *testing.T) {
	f := newFakeServer(t)
	client := newAnonClient(t, f)
	ctx := context.Background()

	if _, err := client.Me(ctx); err == nil {
		t.Error("Me succeeded on anonymous client")
	} else {
		wantStateError(t, err)
	}
	if _, err := client.Submit(ctx, "golang", &SubmitRequest{Title: "t"}); err == nil {
		t.Error("Submit succeeded on anonymous client")
	} else {
		wantStateError(t, err)
	}
}

func TestAppOnly_UserOperationsRejected(t *testing.T) {
	f := newFakeServer(t)
	client := newTestClient(t, f)

	_, err := client.Me(context.Background())
	wantStateError(t, err)
}

func TestClient_NotFoundSurfacesAPIError(t *testing.T) {
	f := newFakeServer(t)
	client := newTestClient(t, f)

	_, err := client.GetSubreddit(context.Background(), "missingsub")
	if err == nil {
		t.Fatal("expected error for unrouted path")
	}
	apiErr := wantAPIError(t, err)
	if apiErr.StatusCode != http.StatusNotFound {
		t.Errorf("StatusCode = %d, want 404", apiErr.StatusCode)
	}
	if !pkgerrs.IsNotFound(err) {
		t.Error("IsNotFound = false for 404 APIError")
	}
}
