package handler

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestHandlerServesGreetings(t *testing.T) {
	tests := []struct {
		path string
		body string
	}{
		{"/api/fast-api", `{"message":"Hello from FastAPI!"}`},
		{"/api/hello", `{"message":"Hello, World"}`},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			resp := httptest.NewRecorder()
			Handler(resp, httptest.NewRequest(http.MethodGet, tt.path, nil))

			if resp.Code != http.StatusOK {
				t.Fatalf("expected 200, got %d", resp.Code)
			}
			if got := string(bytes.TrimSpace(resp.Body.Bytes())); got != tt.body {
				t.Fatalf("expected %s, got %s", tt.body, got)
			}
		})
	}
}

func TestHandlerReadsSecretPerRequest(t *testing.T) {
	t.Setenv("VERCEL_AUTH_SECRET", "first")
	resp := httptest.NewRecorder()
	Handler(resp, httptest.NewRequest(http.MethodGet, "/api/fast-api", nil))
	if got := resp.Header().Get("x-vercel-protection-bypass"); got != "first" {
		t.Fatalf("expected first, got %q", got)
	}

	t.Setenv("VERCEL_AUTH_SECRET", "second")
	resp = httptest.NewRecorder()
	Handler(resp, httptest.NewRequest(http.MethodGet, "/api/fast-api", nil))
	if got := resp.Header().Get("x-vercel-protection-bypass"); got != "second" {
		t.Fatalf("expected rotated secret, got %q", got)
	}
}

func TestHandlerBuildsRouterOnce(t *testing.T) {
	Handler(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/hello", nil))
	first := router
	Handler(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/hello", nil))
	if router != first {
		t.Fatal("expected router to be reused across invocations")
	}
}

func TestHandlerPreflight(t *testing.T) {
	req := httptest.NewRequest(http.MethodOptions, "/api/hello", nil)
	req.Header.Set("Origin", "https://preview.example.app")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	resp := httptest.NewRecorder()
	Handler(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	if got := resp.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Fatalf("expected *, got %q", got)
	}
}
