package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
)

func serveRequestID(t *testing.T, headers map[string]string) (string, *httptest.ResponseRecorder) {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()

	var captured string
	h := RequestID()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured = chimiddleware.GetReqID(r.Context())
	}))
	h.ServeHTTP(rec, req)
	return captured, rec
}

func TestRequestIDGeneratesUUIDv4(t *testing.T) {
	captured, rec := serveRequestID(t, nil)

	if captured == "" {
		t.Fatalf("expected generated request ID")
	}
	if header := rec.Header().Get(chimiddleware.RequestIDHeader); header != captured {
		t.Fatalf("expected response header %q, got %q", captured, header)
	}
	parsed, err := uuid.Parse(captured)
	if err != nil {
		t.Fatalf("request ID %q is not a valid UUID: %v", captured, err)
	}
	if parsed.Version() != 4 {
		t.Fatalf("expected UUIDv4, got version %d", parsed.Version())
	}
}

func TestRequestIDPreservesIncomingHeader(t *testing.T) {
	captured, rec := serveRequestID(t, map[string]string{chimiddleware.RequestIDHeader: "external-id"})

	if captured != "external-id" {
		t.Fatalf("expected request ID to remain external-id, got %q", captured)
	}
	if header := rec.Header().Get(chimiddleware.RequestIDHeader); header != "external-id" {
		t.Fatalf("expected header external-id, got %q", header)
	}
}

func TestRequestIDFallsBackToVercelID(t *testing.T) {
	captured, _ := serveRequestID(t, map[string]string{vercelIDHeader: "iad1::abcde-1700000000000-0123456789ab"})

	if captured != "iad1::abcde-1700000000000-0123456789ab" {
		t.Fatalf("expected Vercel request ID, got %q", captured)
	}
}

func TestRequestIDPrefersExplicitHeaderOverVercelID(t *testing.T) {
	captured, _ := serveRequestID(t, map[string]string{
		chimiddleware.RequestIDHeader: "explicit",
		vercelIDHeader:                "edge",
	})

	if captured != "explicit" {
		t.Fatalf("expected explicit request ID, got %q", captured)
	}
}

func TestRequestIDRejectsInvalidHeaders(t *testing.T) {
	tests := []struct {
		name    string
		inputID string
		wantNew bool
	}{
		{"empty string generates new UUID", "", true},
		{"valid alphanumeric is preserved", "abc123-XYZ", false},
		{"newline causes rejection", "valid\ninjected-line", true},
		{"carriage return causes rejection", "valid\rinjected", true},
		{"null byte causes rejection", "valid\x00null", true},
		{"DEL character causes rejection", "valid\x7Fdel", true},
		{"high byte causes rejection", "valid\x80high", true},
		{"too long causes rejection", strings.Repeat("a", 129), true},
		{"exactly max length is preserved", strings.Repeat("x", 128), false},
		{"spaces are preserved", "trace id 123", false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			captured, _ := serveRequestID(t, map[string]string{chimiddleware.RequestIDHeader: tc.inputID})

			if !tc.wantNew {
				if captured != tc.inputID {
					t.Fatalf("expected %q to be preserved, got %q", tc.inputID, captured)
				}
				return
			}
			if captured == tc.inputID {
				t.Fatalf("expected new UUID, but got original: %q", captured)
			}
			if _, err := uuid.Parse(captured); err != nil {
				t.Fatalf("expected valid UUID, got %q: %v", captured, err)
			}
		})
	}
}
