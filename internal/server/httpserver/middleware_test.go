package httpserver

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/yndnr/devserve/internal/telemetry/logger"
	"github.com/yndnr/devserve/internal/telemetry/metric"
)

func newTestLogger(w io.Writer) logger.Logger {
	l, err := logger.New(logger.Config{Level: "debug", Format: "text", Output: w})
	if err != nil {
		panic(err)
	}
	return l
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

// TestChain tests middleware chaining.
func TestChain(t *testing.T) {
	var order []int

	m := func(n int) Middleware {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, n)
				next.ServeHTTP(w, r)
			})
		}
	}

	handler := Chain(
		http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			order = append(order, 4)
			w.WriteHeader(http.StatusOK)
		}),
		m(1), m(2), m(3),
	)

	req := httptest.NewRequest("GET", "/test", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	expected := []int{1, 2, 3, 4}
	if len(order) != len(expected) {
		t.Fatalf("expected %d calls, got %d", len(expected), len(order))
	}
	for i, v := range expected {
		if order[i] != v {
			t.Errorf("expected order[%d] = %d, got %d", i, v, order[i])
		}
	}
}

func TestStaticHeaders(t *testing.T) {
	statuses := []int{http.StatusOK, http.StatusNotFound, http.StatusInternalServerError}

	for _, status := range statuses {
		t.Run(http.StatusText(status), func(t *testing.T) {
			handler := StaticHeaders()(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(status)
			}))

			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, httptest.NewRequest("GET", "/", nil))

			for k, v := range StaticResponseHeaders {
				if got := rec.Header().Get(k); got != v {
					t.Errorf("%s = %q, want %q", k, got, v)
				}
			}
		})
	}
}

func TestStaticHeaders_Values(t *testing.T) {
	want := map[string]string{
		"Access-Control-Allow-Origin":  "*",
		"Access-Control-Allow-Methods": "GET, POST, OPTIONS",
		"Access-Control-Allow-Headers": "Content-Type",
		"X-Content-Type-Options":       "nosniff",
		"X-Frame-Options":              "SAMEORIGIN",
	}
	if len(StaticResponseHeaders) != len(want) {
		t.Fatalf("StaticResponseHeaders has %d entries, want %d", len(StaticResponseHeaders), len(want))
	}
	for k, v := range want {
		if StaticResponseHeaders[k] != v {
			t.Errorf("StaticResponseHeaders[%q] = %q, want %q", k, StaticResponseHeaders[k], v)
		}
	}
}

func TestMethodGuard(t *testing.T) {
	handler := MethodGuard(AllowedMethods...)(okHandler())

	tests := []struct {
		method    string
		wantCode  int
		wantAllow bool
	}{
		{http.MethodGet, http.StatusOK, false},
		{http.MethodHead, http.StatusOK, false},
		{http.MethodPost, http.StatusOK, false},
		{http.MethodOptions, http.StatusNoContent, true},
		{http.MethodPut, http.StatusMethodNotAllowed, true},
		{http.MethodDelete, http.StatusMethodNotAllowed, true},
		{http.MethodPatch, http.StatusMethodNotAllowed, true},
	}

	for _, tt := range tests {
		t.Run(tt.method, func(t *testing.T) {
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, httptest.NewRequest(tt.method, "/", nil))

			if rec.Code != tt.wantCode {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantCode)
			}
			allow := rec.Header().Get("Allow")
			if tt.wantAllow && allow != "GET, HEAD, POST, OPTIONS" {
				t.Errorf("Allow = %q", allow)
			}
			if !tt.wantAllow && allow != "" {
				t.Errorf("unexpected Allow header %q", allow)
			}
		})
	}
}

func TestRequestID(t *testing.T) {
	var seen string
	handler := RequestID()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = logger.RequestIDFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	t.Run("generates request ID when not provided", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest("GET", "/test", nil))

		requestID := rec.Header().Get(HeaderRequestID)
		if len(requestID) != 26 {
			t.Errorf("expected a 26 character ULID, got %q", requestID)
		}
		if seen != requestID {
			t.Errorf("context request ID = %q, header = %q", seen, requestID)
		}
	})

	t.Run("generates distinct IDs", func(t *testing.T) {
		rec1 := httptest.NewRecorder()
		rec2 := httptest.NewRecorder()
		handler.ServeHTTP(rec1, httptest.NewRequest("GET", "/", nil))
		handler.ServeHTTP(rec2, httptest.NewRequest("GET", "/", nil))

		if rec1.Header().Get(HeaderRequestID) == rec2.Header().Get(HeaderRequestID) {
			t.Error("expected distinct request IDs")
		}
	})

	t.Run("preserves existing request ID", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/test", nil)
		req.Header.Set(HeaderRequestID, "existing-id-123")
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		if got := rec.Header().Get(HeaderRequestID); got != "existing-id-123" {
			t.Errorf("expected 'existing-id-123', got %s", got)
		}
	})
}

func TestAccessLog(t *testing.T) {
	var buf bytes.Buffer
	log := newTestLogger(&buf)

	tests := []struct {
		name    string
		status  int
		body    string
		wantMsg string
	}{
		{"success", http.StatusOK, "hello", "level=ACCESS"},
		{"client error", http.StatusNotFound, "", "level=ACCESS"},
		{"server error", http.StatusInternalServerError, "", "level=ACCESS"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf.Reset()
			handler := Chain(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				io.WriteString(w, tt.body)
			}), RequestID(), AccessLog(log))

			req := httptest.NewRequest("GET", "/app.js?v=2", nil)
			handler.ServeHTTP(httptest.NewRecorder(), req)

			out := buf.String()
			for _, want := range []string{
				tt.wantMsg,
				`request="GET /app.js?v=2 HTTP/1.1"`,
				"status=" + strconv.Itoa(tt.status),
				"size=" + strconv.Itoa(len(tt.body)),
				"request_id=",
				"time=",
			} {
				if !strings.Contains(out, want) {
					t.Errorf("log missing %q: %s", want, out)
				}
			}
		})
	}
}

func TestAccessLog_IgnoresLevel(t *testing.T) {
	var buf bytes.Buffer
	log, err := logger.New(logger.Config{Level: "error", Output: &buf})
	if err != nil {
		t.Fatal(err)
	}

	AccessLog(log)(okHandler()).ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/", nil))

	if !strings.Contains(buf.String(), `request="GET / HTTP/1.1"`) {
		t.Errorf("access line should be written at log level error, got: %q", buf.String())
	}
}

func TestRecover(t *testing.T) {
	var buf bytes.Buffer
	log := newTestLogger(&buf)

	t.Run("recovers from panic", func(t *testing.T) {
		handler := Recover(log)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			panic("test panic")
		}))

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest("GET", "/test", nil))

		if rec.Code != http.StatusInternalServerError {
			t.Errorf("expected status 500, got %d", rec.Code)
		}
		if !strings.Contains(buf.String(), "panic recovered") {
			t.Errorf("expected panic log, got: %s", buf.String())
		}
	})

	t.Run("keeps static headers", func(t *testing.T) {
		handler := Chain(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			panic("test panic")
		}), Recover(log), StaticHeaders())

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest("GET", "/test", nil))

		if rec.Header().Get("X-Frame-Options") != "SAMEORIGIN" {
			t.Error("500 response lost static headers")
		}
	})

	t.Run("passes through normal requests", func(t *testing.T) {
		handler := Recover(log)(okHandler())

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest("GET", "/test", nil))

		if rec.Code != http.StatusOK {
			t.Errorf("expected status 200, got %d", rec.Code)
		}
	})
}

// TestRateLimit tests the RateLimit middleware.
func TestRateLimit(t *testing.T) {
	t.Run("allows requests under limit", func(t *testing.T) {
		handler := RateLimit(10)(okHandler())

		req := httptest.NewRequest("GET", "/test", nil)
		req.RemoteAddr = "192.168.1.1:12345"
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Errorf("expected status 200, got %d", rec.Code)
		}
	})

	t.Run("limits requests from same IP", func(t *testing.T) {
		handler := RateLimit(2)(okHandler())
		testIP := "10.0.0.99:12345"

		for i := 0; i < 2; i++ {
			req := httptest.NewRequest("GET", "/test", nil)
			req.RemoteAddr = testIP
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)
			if rec.Code != http.StatusOK {
				t.Errorf("request %d: expected status 200, got %d", i+1, rec.Code)
			}
		}

		req := httptest.NewRequest("GET", "/test", nil)
		req.RemoteAddr = testIP
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusTooManyRequests {
			t.Errorf("expected status 429, got %d", rec.Code)
		}
		if rec.Header().Get("Retry-After") != "1" {
			t.Error("expected Retry-After header")
		}
	})

	t.Run("separate buckets per IP", func(t *testing.T) {
		handler := RateLimit(1)(okHandler())

		for _, ip := range []string{"10.0.0.1:1", "10.0.0.2:1"} {
			req := httptest.NewRequest("GET", "/test", nil)
			req.RemoteAddr = ip
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)
			if rec.Code != http.StatusOK {
				t.Errorf("%s: expected status 200, got %d", ip, rec.Code)
			}
		}
	})
}

func TestRateLimitConcurrency(t *testing.T) {
	handler := RateLimit(100)(okHandler())

	var wg sync.WaitGroup
	successCount := 0
	failCount := 0
	var mu sync.Mutex

	// Simulate 200 concurrent requests from same IP
	for i := 0; i < 200; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			req := httptest.NewRequest("GET", "/test", nil)
			req.RemoteAddr = "192.168.1.1:12345"
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			mu.Lock()
			if rec.Code == http.StatusOK {
				successCount++
			} else {
				failCount++
			}
			mu.Unlock()
		}()
	}

	wg.Wait()

	if successCount == 0 {
		t.Error("expected some successful requests")
	}
	if failCount == 0 {
		t.Error("expected some rate-limited requests")
	}
}

func TestLimiterRegistry(t *testing.T) {
	r := newLimiterRegistry(5)

	a := r.get("10.0.0.1")
	if r.get("10.0.0.1") != a {
		t.Error("expected the same limiter for the same IP")
	}
	r.get("10.0.0.2")

	if n := r.size(); n != 2 {
		t.Errorf("size() = %d, want 2", n)
	}
}

func TestMetrics(t *testing.T) {
	reg := metric.NewRegistry()
	handler := Metrics(reg)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		io.WriteString(w, "body")
	}))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/", nil))

	rec := httptest.NewRecorder()
	reg.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	out := rec.Body.String()
	if !strings.Contains(out, `devserve_http_requests_total{code="200",method="GET"} 1`) {
		t.Errorf("metrics output missing request counter:\n%s", out)
	}
}

// TestGetClientIP tests the getClientIP function.
func TestGetClientIP(t *testing.T) {
	tests := []struct {
		name    string
		headers map[string]string
		remote  string
		want    string
	}{
		{"X-Forwarded-For", map[string]string{"X-Forwarded-For": "10.0.0.1, 10.0.0.2"}, "192.168.1.1:12345", "10.0.0.1"},
		{"X-Real-IP", map[string]string{"X-Real-IP": "10.0.0.1"}, "192.168.1.1:12345", "10.0.0.1"},
		{"RemoteAddr", nil, "192.168.1.1:12345", "192.168.1.1"},
		{"IPv6 RemoteAddr", nil, "[::1]:8443", "::1"},
		{"RemoteAddr without port", nil, "192.168.1.1", "192.168.1.1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/test", nil)
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			req.RemoteAddr = tt.remote

			if ip := getClientIP(req); ip != tt.want {
				t.Errorf("expected %q, got %q", tt.want, ip)
			}
		})
	}
}

// TestResponseWriter tests the responseWriter wrapper.
func TestResponseWriter(t *testing.T) {
	t.Run("captures status code", func(t *testing.T) {
		wrapped := wrapResponseWriter(httptest.NewRecorder())

		wrapped.WriteHeader(http.StatusCreated)

		if wrapped.statusCode != http.StatusCreated {
			t.Errorf("expected status 201, got %d", wrapped.statusCode)
		}
	})

	t.Run("defaults to 200", func(t *testing.T) {
		wrapped := wrapResponseWriter(httptest.NewRecorder())
		io.WriteString(wrapped, "abc")

		if wrapped.statusCode != http.StatusOK {
			t.Errorf("expected default status 200, got %d", wrapped.statusCode)
		}
	})

	t.Run("counts bytes", func(t *testing.T) {
		wrapped := wrapResponseWriter(httptest.NewRecorder())
		io.WriteString(wrapped, "hello")
		io.WriteString(wrapped, " world")

		if wrapped.bytes != 11 {
			t.Errorf("expected 11 bytes, got %d", wrapped.bytes)
		}
	})

	t.Run("unwraps", func(t *testing.T) {
		rec := httptest.NewRecorder()
		if wrapResponseWriter(rec).Unwrap() != rec {
			t.Error("Unwrap() should return the wrapped writer")
		}
	})
}
