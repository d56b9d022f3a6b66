package internal

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	pkgerrs "github.com/snoolib/snoo/pkg/errors"
)

// mockResponse defines the response from the mock server.
type mockResponse struct {
	statusCode int
	body       string
}

// mockAuthServer is a mock HTTP server for testing the authenticator.
type mockAuthServer struct {
	t            *testing.T
	mockResponse *mockResponse
	grantType    string
	expectedUser string
	expectedPass string
	username     string
	password     string
	requests     atomic.Int32
}

// ServeHTTP handles incoming requests to the mock server.
func (s *mockAuthServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.requests.Add(1)

	if r.Method != http.MethodPost {
		s.t.Errorf("expected POST request, got %s", r.Method)
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	user, pass, ok := r.BasicAuth()
	if !ok || user != s.expectedUser || pass != s.expectedPass {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		fmt.Fprint(w, `{"error": "invalid_client"}`)
		return
	}

	if err := r.ParseForm(); err != nil {
		s.t.Fatalf("failed to parse form: %v", err)
	}
	if s.grantType != "" && r.Form.Get("grant_type") != s.grantType {
		s.t.Errorf("expected grant_type %q, got %q", s.grantType, r.Form.Get("grant_type"))
	}

	// Validate username and password if they are expected
	if s.username != "" {
		if r.Form.Get("username") != s.username {
			s.t.Errorf("expected username %q, got %q", s.username, r.Form.Get("username"))
		}
	}
	if s.password != "" {
		if r.Form.Get("password") != s.password {
			s.t.Errorf("expected password %q, got %q", s.password, r.Form.Get("password"))
		}
	}

	if s.mockResponse == nil {
		s.t.Error("mockResponse is nil but auth succeeded, this is likely a test setup error")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.WriteHeader(s.mockResponse.statusCode)
	fmt.Fprint(w, s.mockResponse.body)
}

func TestNewAuthenticator(t *testing.T) {
	t.Parallel()

	customClient := &http.Client{}

	testCases := []struct {
		name       string
		httpClient *http.Client
		baseURL    string
		tokenPath  string
		username   string
		password   string
		grantType  string
		wantErr    bool
		checkFunc  func(t *testing.T, a *Authenticator, err error)
	}{
		{
			name:       "success with nil client",
			httpClient: nil,
			baseURL:    "https://www.reddit.com/",
			tokenPath:  "api/v1/access_token",
			grantType:  GrantPassword,
			wantErr:    false,
			checkFunc: func(t *testing.T, a *Authenticator, err error) {
				if a.client != http.DefaultClient {
					t.Error("expected client to be http.DefaultClient")
				}
				expectedURL := "https://www.reddit.com/api/v1/access_token"
				if a.tokenURL.String() != expectedURL {
					t.Errorf("expected tokenURL %q, got %q", expectedURL, a.tokenURL.String())
				}
				expectedRevoke := "https://www.reddit.com/api/v1/revoke_token"
				if a.revokeURL.String() != expectedRevoke {
					t.Errorf("expected revokeURL %q, got %q", expectedRevoke, a.revokeURL.String())
				}
			},
		},
		{
			name:       "success with custom client",
			httpClient: customClient,
			baseURL:    "https://www.reddit.com/",
			grantType:  GrantPassword,
			wantErr:    false,
			checkFunc: func(t *testing.T, a *Authenticator, err error) {
				if a.client != customClient {
					t.Error("expected client to be the custom client")
				}
			},
		},
		{
			name:      "success with base url missing trailing slash",
			baseURL:   "https://www.reddit.com",
			tokenPath: "api/v1/access_token",
			grantType: GrantPassword,
			wantErr:   false,
			checkFunc: func(t *testing.T, a *Authenticator, err error) {
				if a.BaseURL.String() != "https://www.reddit.com/" {
					t.Errorf("expected base URL to have trailing slash, got %q", a.BaseURL.String())
				}
				expectedURL := "https://www.reddit.com/api/v1/access_token"
				if a.tokenURL.String() != expectedURL {
					t.Errorf("expected tokenURL %q, got %q", expectedURL, a.tokenURL.String())
				}
			},
		},
		{
			name:      "success with empty token path",
			baseURL:   "https://www.reddit.com/",
			tokenPath: "",
			grantType: GrantPassword,
			wantErr:   false,
			checkFunc: func(t *testing.T, a *Authenticator, err error) {
				expected := "https://www.reddit.com/" + defaultTokenEndpointPath
				if a.tokenURL.String() != expected {
					t.Errorf("expected tokenURL to be %q, got %q", expected, a.tokenURL.String())
				}
			},
		},
		{
			name:      "error with invalid base url",
			baseURL:   "::invalid-url",
			grantType: GrantPassword,
			wantErr:   true,
			checkFunc: func(t *testing.T, a *Authenticator, err error) {
				var authErr *pkgerrs.AuthError
				if !errors.As(err, &authErr) {
					t.Errorf("expected AuthError, got %T", err)
				}
			},
		},
		{
			name:      "error with invalid token path",
			baseURL:   "https://www.reddit.com/",
			tokenPath: ":", // invalid path segment
			grantType: GrantPassword,
			wantErr:   true,
			checkFunc: func(t *testing.T, a *Authenticator, err error) {
				var authErr *pkgerrs.AuthError
				if !errors.As(err, &authErr) {
					t.Errorf("expected AuthError, got %T", err)
				}
			},
		},
		{
			name:      "success with username and password",
			baseURL:   "https://www.reddit.com/",
			tokenPath: "",
			username:  "testuser",
			password:  "testpass",
			grantType: GrantPassword,
			wantErr:   false,
			checkFunc: func(t *testing.T, a *Authenticator, err error) {
				// Check that form data contains username and password
				if a.formData.Get("username") != "testuser" {
					t.Errorf("expected username 'testuser', got %q", a.formData.Get("username"))
				}
				if a.formData.Get("password") != "testpass" {
					t.Errorf("expected password 'testpass', got %q", a.formData.Get("password"))
				}
				if a.formData.Get("grant_type") != GrantPassword {
					t.Errorf("expected grant_type 'password', got %q", a.formData.Get("grant_type"))
				}
			},
		},
		{
			name:      "success with empty username and password",
			baseURL:   "https://www.reddit.com/",
			tokenPath: "",
			grantType: GrantClientCredentials,
			wantErr:   false,
			checkFunc: func(t *testing.T, a *Authenticator, err error) {
				// Check that form data does not contain username and password when empty
				if a.formData.Get("username") != "" {
					t.Errorf("expected empty username, got %q", a.formData.Get("username"))
				}
				if a.formData.Get("password") != "" {
					t.Errorf("expected empty password, got %q", a.formData.Get("password"))
				}
				if a.formData.Get("grant_type") != GrantClientCredentials {
					t.Errorf("expected grant_type 'client_credentials', got %q", a.formData.Get("grant_type"))
				}
			},
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			a, err := NewAuthenticator(tc.httpClient, tc.username, tc.password, "id", "secret", "agent", tc.baseURL, tc.grantType, tc.tokenPath)

			if (err != nil) != tc.wantErr {
				t.Fatalf("NewAuthenticator() error = %v, wantErr %v", err, tc.wantErr)
			}

			if tc.checkFunc != nil {
				tc.checkFunc(t, a, err)
			}
		})
	}
}

func TestAuthenticator_GetToken(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name         string
		clientID     string
		clientSecret string
		username     string
		password     string
		// expectedClientID and expectedClientSecret are for the mock server to expect.
		expectedClientID     string
		expectedClientSecret string
		mockResponse         *mockResponse
		serverDown           bool
		grantType            string
		expectedToken        string
		wantErr              bool
		checkErr             func(t *testing.T, err error)
	}{
		{
			name:                 "success",
			clientID:             "test-id",
			clientSecret:         "test-secret",
			expectedClientID:     "test-id",
			expectedClientSecret: "test-secret",
			mockResponse: &mockResponse{
				statusCode: http.StatusOK,
				body:       `{"access_token": "test-token", "token_type": "bearer", "expires_in": 3600, "scope": "*"}`,
			},
			grantType:     GrantClientCredentials,
			expectedToken: "test-token",
			wantErr:       false,
		},
		{
			name:                 "success with username and password",
			clientID:             "test-id",
			clientSecret:         "test-secret",
			username:             "reddit_user",
			password:             "reddit_pass",
			expectedClientID:     "test-id",
			expectedClientSecret: "test-secret",
			mockResponse: &mockResponse{
				statusCode: http.StatusOK,
				body:       `{"access_token": "user-token", "token_type": "bearer", "expires_in": 3600, "scope": "*"}`,
			},
			grantType:     GrantPassword,
			expectedToken: "user-token",
			wantErr:       false,
		},
		{
			name:                 "invalid credentials",
			clientID:             "wrong-id",
			clientSecret:         "wrong-secret",
			expectedClientID:     "correct-id",
			expectedClientSecret: "correct-secret",
			mockResponse:         nil, // Not used as auth fails
			grantType:            GrantPassword,
			wantErr:              true,
			checkErr: func(t *testing.T, err error) {
				var authErr *pkgerrs.AuthError
				if !errors.As(err, &authErr) {
					t.Fatalf("expected AuthError, got %T", err)
				}
				if authErr.StatusCode != http.StatusUnauthorized {
					t.Errorf("expected status code %d, got %d", http.StatusUnauthorized, authErr.StatusCode)
				}
				if authErr.Body != `{"error": "invalid_client"}` {
					t.Errorf("unexpected body in error: %q", authErr.Body)
				}
			},
		},
		{
			name:                 "grant rejected in 200 body",
			clientID:             "test-id",
			clientSecret:         "test-secret",
			expectedClientID:     "test-id",
			expectedClientSecret: "test-secret",
			mockResponse: &mockResponse{
				statusCode: http.StatusOK,
				body:       `{"error": "invalid_grant"}`,
			},
			grantType: GrantPassword,
			wantErr:   true,
			checkErr: func(t *testing.T, err error) {
				var authErr *pkgerrs.AuthError
				if !errors.As(err, &authErr) {
					t.Fatalf("expected AuthError, got %T", err)
				}
				if !strings.Contains(authErr.Message, "invalid_grant") {
					t.Errorf("expected message to name the grant error, got %q", authErr.Message)
				}
			},
		},
		{
			name:                 "network error",
			clientID:             "test-id",
			clientSecret:         "test-secret",
			expectedClientID:     "test-id",
			expectedClientSecret: "test-secret",
			serverDown:           true,
			wantErr:              true,
			checkErr: func(t *testing.T, err error) {
				var authErr *pkgerrs.AuthError
				if !errors.As(err, &authErr) {
					t.Fatalf("expected AuthError, got %T", err)
				}
				if authErr.Err == nil {
					t.Error("expected underlying network error, but was nil")
				}
			},
		},
		{
			name:                 "bad json response",
			clientID:             "test-id",
			clientSecret:         "test-secret",
			expectedClientID:     "test-id",
			expectedClientSecret: "test-secret",
			mockResponse: &mockResponse{
				statusCode: http.StatusOK,
				body:       `{not-json}`,
			},
			wantErr: true,
			checkErr: func(t *testing.T, err error) {
				var authErr *pkgerrs.AuthError
				if !errors.As(err, &authErr) {
					t.Fatalf("expected AuthError, got %T", err)
				}
				var jsonErr *json.SyntaxError
				if !errors.As(err, &jsonErr) {
					t.Errorf("expected underlying error to be json.SyntaxError, got %T", errors.Unwrap(err))
				}
			},
		},
		{
			name:                 "empty access token in response",
			clientID:             "test-id",
			clientSecret:         "test-secret",
			expectedClientID:     "test-id",
			expectedClientSecret: "test-secret",
			mockResponse: &mockResponse{
				statusCode: http.StatusOK,
				body:       `{"access_token": "", "token_type": "bearer"}`,
			},
			wantErr: true,
			checkErr: func(t *testing.T, err error) {
				var authErr *pkgerrs.AuthError
				if !errors.As(err, &authErr) {
					t.Fatalf("expected AuthError, got %T", err)
				}
				if !strings.Contains(authErr.Err.Error(), "access token was empty") {
					t.Errorf("expected error about empty access token, got %v", authErr.Err)
				}
			},
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			mockServerHandler := &mockAuthServer{
				t:            t,
				mockResponse: tc.mockResponse,
				grantType:    tc.grantType,
				expectedUser: tc.expectedClientID,
				expectedPass: tc.expectedClientSecret,
				username:     tc.username,
				password:     tc.password,
			}

			server := httptest.NewServer(mockServerHandler)

			serverURL := server.URL
			if tc.serverDown {
				server.Close()
			} else {
				defer server.Close()
			}

			a, err := NewAuthenticator(server.Client(), tc.username, tc.password, tc.clientID, tc.clientSecret, "test-agent", serverURL, tc.grantType, "")
			if err != nil {
				t.Fatalf("failed to create authenticator: %v", err)
			}

			token, err := a.GetToken(context.Background())

			if (err != nil) != tc.wantErr {
				t.Fatalf("GetToken() error = %v, wantErr %v", err, tc.wantErr)
			}

			if !tc.wantErr {
				if token != tc.expectedToken {
					t.Errorf("GetToken() token = %q, want %q", token, tc.expectedToken)
				}
			}

			if tc.wantErr && tc.checkErr != nil {
				tc.checkErr(t, err)
			}
		})
	}

	t.Run("context cancellation", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Error("server should not have been called")
		}))
		defer server.Close()

		a, err := NewAuthenticator(http.DefaultClient, "", "", "id", "secret", "agent", server.URL, GrantClientCredentials, "")
		if err != nil {
			t.Fatalf("failed to create authenticator: %v", err)
		}

		ctx, cancel := context.WithCancel(context.Background())
		cancel() // Cancel context immediately

		_, err = a.GetToken(ctx)
		if err == nil {
			t.Fatal("expected an error for canceled context, got nil")
		}

		if !errors.Is(err, context.Canceled) {
			t.Errorf("expected error to be or wrap context.Canceled, got %v", err)
		}
	})
}

func TestAuthenticator_TokenCache(t *testing.T) {
	t.Parallel()

	t.Run("token reused until expiry", func(t *testing.T) {
		t.Parallel()

		handler := &mockAuthServer{
			t:            t,
			expectedUser: "id",
			expectedPass: "secret",
			mockResponse: &mockResponse{
				statusCode: http.StatusOK,
				body:       `{"access_token": "cached-token", "token_type": "bearer", "expires_in": 3600}`,
			},
		}
		server := httptest.NewServer(handler)
		defer server.Close()

		a, err := NewAuthenticator(server.Client(), "", "", "id", "secret", "agent", server.URL, GrantClientCredentials, "")
		if err != nil {
			t.Fatalf("failed to create authenticator: %v", err)
		}

		for i := 0; i < 3; i++ {
			token, err := a.GetToken(context.Background())
			if err != nil {
				t.Fatalf("GetToken() call %d error: %v", i, err)
			}
			if token != "cached-token" {
				t.Fatalf("GetToken() call %d = %q, want %q", i, token, "cached-token")
			}
		}

		if got := handler.requests.Load(); got != 1 {
			t.Errorf("expected 1 token request, got %d", got)
		}
	})

	t.Run("token near expiry is refreshed", func(t *testing.T) {
		t.Parallel()

		// expires_in shorter than the refresh margin, so every call refetches.
		handler := &mockAuthServer{
			t:            t,
			expectedUser: "id",
			expectedPass: "secret",
			mockResponse: &mockResponse{
				statusCode: http.StatusOK,
				body:       `{"access_token": "short-token", "token_type": "bearer", "expires_in": 30}`,
			},
		}
		server := httptest.NewServer(handler)
		defer server.Close()

		a, err := NewAuthenticator(server.Client(), "", "", "id", "secret", "agent", server.URL, GrantClientCredentials, "")
		if err != nil {
			t.Fatalf("failed to create authenticator: %v", err)
		}

		for i := 0; i < 2; i++ {
			if _, err := a.GetToken(context.Background()); err != nil {
				t.Fatalf("GetToken() call %d error: %v", i, err)
			}
		}

		if got := handler.requests.Load(); got != 2 {
			t.Errorf("expected 2 token requests, got %d", got)
		}
	})

	t.Run("invalidate drops cached token", func(t *testing.T) {
		t.Parallel()

		handler := &mockAuthServer{
			t:            t,
			expectedUser: "id",
			expectedPass: "secret",
			mockResponse: &mockResponse{
				statusCode: http.StatusOK,
				body:       `{"access_token": "fresh-token", "token_type": "bearer", "expires_in": 3600}`,
			},
		}
		server := httptest.NewServer(handler)
		defer server.Close()

		a, err := NewAuthenticator(server.Client(), "", "", "id", "secret", "agent", server.URL, GrantClientCredentials, "")
		if err != nil {
			t.Fatalf("failed to create authenticator: %v", err)
		}

		if _, err := a.GetToken(context.Background()); err != nil {
			t.Fatalf("GetToken() error: %v", err)
		}
		a.Invalidate()
		if _, err := a.GetToken(context.Background()); err != nil {
			t.Fatalf("GetToken() after Invalidate error: %v", err)
		}

		if got := handler.requests.Load(); got != 2 {
			t.Errorf("expected 2 token requests after invalidate, got %d", got)
		}
	})
}

func TestAuthenticator_Revoke(t *testing.T) {
	t.Parallel()

	t.Run("revoke posts token and clears cache", func(t *testing.T) {
		t.Parallel()

		var tokenRequests, revokeRequests atomic.Int32
		mux := http.NewServeMux()
		mux.HandleFunc("/api/v1/access_token", func(w http.ResponseWriter, r *http.Request) {
			tokenRequests.Add(1)
			fmt.Fprint(w, `{"access_token": "revocable", "token_type": "bearer", "expires_in": 3600}`)
		})
		mux.HandleFunc("/api/v1/revoke_token", func(w http.ResponseWriter, r *http.Request) {
			revokeRequests.Add(1)
			user, pass, ok := r.BasicAuth()
			if !ok || user != "id" || pass != "secret" {
				t.Errorf("revoke request missing Basic auth, got %q/%q", user, pass)
			}
			if err := r.ParseForm(); err != nil {
				t.Fatalf("failed to parse form: %v", err)
			}
			if got := r.Form.Get("access_token"); got != "revocable" {
				t.Errorf("expected access_token form field %q, got %q", "revocable", got)
			}
			w.WriteHeader(http.StatusNoContent)
		})
		server := httptest.NewServer(mux)
		defer server.Close()

		a, err := NewAuthenticator(server.Client(), "", "", "id", "secret", "agent", server.URL, GrantClientCredentials, "")
		if err != nil {
			t.Fatalf("failed to create authenticator: %v", err)
		}

		if _, err := a.GetToken(context.Background()); err != nil {
			t.Fatalf("GetToken() error: %v", err)
		}
		if err := a.Revoke(context.Background()); err != nil {
			t.Fatalf("Revoke() error: %v", err)
		}
		if got := revokeRequests.Load(); got != 1 {
			t.Fatalf("expected 1 revoke request, got %d", got)
		}

		// The cache was cleared, so the next GetToken hits the server again.
		if _, err := a.GetToken(context.Background()); err != nil {
			t.Fatalf("GetToken() after Revoke error: %v", err)
		}
		if got := tokenRequests.Load(); got != 2 {
			t.Errorf("expected 2 token requests, got %d", got)
		}
	})

	t.Run("revoke without cached token is a no-op", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Error("server should not have been called")
		}))
		defer server.Close()

		a, err := NewAuthenticator(server.Client(), "", "", "id", "secret", "agent", server.URL, GrantClientCredentials, "")
		if err != nil {
			t.Fatalf("failed to create authenticator: %v", err)
		}

		if err := a.Revoke(context.Background()); err != nil {
			t.Fatalf("Revoke() error: %v", err)
		}
	})

	t.Run("revoke failure surfaces status", func(t *testing.T) {
		t.Parallel()

		mux := http.NewServeMux()
		mux.HandleFunc("/api/v1/access_token", func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `{"access_token": "sticky", "token_type": "bearer", "expires_in": 3600}`)
		})
		mux.HandleFunc("/api/v1/revoke_token", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
			fmt.Fprint(w, `{"error": "unsupported_token_type"}`)
		})
		server := httptest.NewServer(mux)
		defer server.Close()

		a, err := NewAuthenticator(server.Client(), "", "", "id", "secret", "agent", server.URL, GrantClientCredentials, "")
		if err != nil {
			t.Fatalf("failed to create authenticator: %v", err)
		}

		if _, err := a.GetToken(context.Background()); err != nil {
			t.Fatalf("GetToken() error: %v", err)
		}

		err = a.Revoke(context.Background())
		if err == nil {
			t.Fatal("expected an error for failed revoke, got nil")
		}
		var authErr *pkgerrs.AuthError
		if !errors.As(err, &authErr) {
			t.Fatalf("expected AuthError, got %T", err)
		}
		if authErr.StatusCode != http.StatusBadRequest {
			t.Errorf("expected status code %d, got %d", http.StatusBadRequest, authErr.StatusCode)
		}
	})
}
