package internal

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/snoolib/snoo/pkg/types"
)

func benchServer(body []byte) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Ratelimit-Used", "5")
		w.Header().Set("X-Ratelimit-Remaining", "95")
		w.Header().Set("X-Ratelimit-Reset", "600")
		w.WriteHeader(http.StatusOK)
		w.Write(body)
	}))
}

func BenchmarkClient_Do_WithLogging(b *testing.B) {
	server := benchServer([]byte(`{"kind":"t2","data":{"name":"t2_abc","id":"abc"}}`))
	defer server.Close()

	cfg := testClientConfig(server, &stubTokens{token: "bench-token"})
	cfg.Logger = slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelDebug}))
	client, err := NewClient(cfg)
	if err != nil {
		b.Fatalf("NewClient returned error: %v", err)
	}

	ctx := context.Background()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		req, _ := client.NewRequest(ctx, http.MethodGet, "api/v1/me", nil, nil)
		var thing types.Thing
		client.Do(req, &thing)
	}
}

func BenchmarkClient_Do_WithoutLogging(b *testing.B) {
	server := benchServer([]byte(`{"kind":"t2","data":{"name":"t2_abc","id":"abc"}}`))
	defer server.Close()

	client, err := NewClient(testClientConfig(server, &stubTokens{token: "bench-token"}))
	if err != nil {
		b.Fatalf("NewClient returned error: %v", err)
	}

	ctx := context.Background()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		req, _ := client.NewRequest(ctx, http.MethodGet, "api/v1/me", nil, nil)
		var thing types.Thing
		client.Do(req, &thing)
	}
}

func BenchmarkClient_Do_LargeListing(b *testing.B) {
	var body bytes.Buffer
	body.WriteString(`{"kind":"Listing","data":{"after":"t3_zzz","children":[`)
	for i := 0; i < 100; i++ {
		if i > 0 {
			body.WriteByte(',')
		}
		body.WriteString(`{"kind":"t3","data":{"id":"abc","title":"post","score":42}}`)
	}
	body.WriteString(`]}}`)

	server := benchServer(body.Bytes())
	defer server.Close()

	client, err := NewClient(testClientConfig(server, &stubTokens{token: "bench-token"}))
	if err != nil {
		b.Fatalf("NewClient returned error: %v", err)
	}

	ctx := context.Background()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		req, _ := client.NewRequest(ctx, http.MethodGet, "r/golang/hot", nil, nil)
		var thing types.Thing
		if _, err := client.Do(req, &thing); err != nil {
			b.Fatalf("Do returned error: %v", err)
		}
	}
}
