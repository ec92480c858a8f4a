package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"golang.org/x/time/rate"
)

var ok = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusNoContent)
})

func request(h http.Handler, method, path, remote string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	req.RemoteAddr = remote
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestLimitPerIP(t *testing.T) {
	l := NewIPLimiter(rate.Every(time.Hour), 2)
	h := Limit(l, nil, "slow down")(ok)

	for i := 0; i < 2; i++ {
		if rec := request(h, "GET", "/api/session/me", "10.0.0.1:4000"); rec.Code != http.StatusNoContent {
			t.Fatalf("request %d = %d", i, rec.Code)
		}
	}
	rec := request(h, "GET", "/api/session/me", "10.0.0.1:4001")
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("third request = %d, want 429", rec.Code)
	}
	if rec.Header().Get("X-RateLimit-Remaining") != "0" {
		t.Error("missing X-RateLimit-Remaining")
	}

	if rec := request(h, "GET", "/api/session/me", "10.0.0.2:4000"); rec.Code != http.StatusNoContent {
		t.Errorf("other IP = %d", rec.Code)
	}
}

func TestLimitMatcher(t *testing.T) {
	l := NewIPLimiter(rate.Every(time.Hour), 1)
	h := Limit(l, IsLogin, "too many")(ok)

	tests := []struct {
		method, path string
		want         int
	}{
		{"POST", "/api/session/login", http.StatusNoContent},
		{"POST", "/api/session/login", http.StatusTooManyRequests},
		{"POST", "/api/session/signup", http.StatusTooManyRequests},
		{"GET", "/api/session/me", http.StatusNoContent},
		{"POST", "/api/ai/chat", http.StatusNoContent},
	}
	for _, tt := range tests {
		if rec := request(h, tt.method, tt.path, "10.0.0.9:1"); rec.Code != tt.want {
			t.Errorf("%s %s = %d, want %d", tt.method, tt.path, rec.Code, tt.want)
		}
	}
}

func TestSweepDropsIdleBuckets(t *testing.T) {
	now := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	l := NewIPLimiter(rate.Limit(1), 1)
	l.now = func() time.Time { return now }

	l.Allow("10.0.0.1")
	now = now.Add(limiterTTL / 2)
	l.Allow("10.0.0.2")
	now = now.Add(limiterTTL/2 + time.Second)
	l.Sweep()

	if l.Len() != 1 {
		t.Errorf("Len = %d, want 1", l.Len())
	}
}

func TestSecurityHeaders(t *testing.T) {
	rec := request(SecurityHeaders(ok), "GET", "/health", "10.0.0.1:1")
	for _, h := range []string{headerXContentTypeOptions, headerXFrameOptions, headerContentSecurityPolicy, headerStrictTransportSecurity} {
		if rec.Header().Get(h) == "" {
			t.Errorf("missing %s", h)
		}
	}
}

func TestHostCheck(t *testing.T) {
	h := HostCheck("companion.innerbloom.app")(ok)

	req := httptest.NewRequest("GET", "/health", nil)
	req.Host = "companion.innerbloom.app:443"
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusNoContent {
		t.Errorf("allowed host = %d", rec.Code)
	}

	req.Host = "evil.example.com"
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Errorf("other host = %d, want 403", rec.Code)
	}
}

func TestCORSPreflight(t *testing.T) {
	h := CORS([]string{"http://localhost:3000"})(ok)

	req := httptest.NewRequest("OPTIONS", "/api/session/login", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", "POST")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:3000" {
		t.Errorf("Allow-Origin = %q", got)
	}
	if rec.Header().Get("Access-Control-Allow-Credentials") != "true" {
		t.Error("credentials not allowed")
	}

	req = httptest.NewRequest("GET", "/api/session/me", nil)
	req.Header.Set("Origin", "https://elsewhere.example.com")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Errorf("unknown origin allowed: %q", got)
	}
}

func TestRequestLogger(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	h := chimw.RequestID(RequestLogger(zap.New(core))(ok))

	request(h, "GET", "/api/stats", "10.0.0.1:1")
	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("got %d log entries", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["status"] != int64(http.StatusNoContent) || fields["path"] != "/api/stats" {
		t.Errorf("fields = %v", fields)
	}
	if fields["request_id"] == "" {
		t.Error("request id not logged")
	}
}
