package middleware_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/vasamilk/admin-console/internal/middleware"
)

func ok(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

// callWithOrigin runs a 200-OK handler behind CORS with the given origin.
func callWithOrigin(t *testing.T, method, origin string) *httptest.ResponseRecorder {
	t.Helper()

	handler := middleware.CORS([]string{"http://localhost:5173", "https://console.vasamilk.in"})(http.HandlerFunc(ok))
	req := httptest.NewRequest(method, "/api/auth/me", nil)
	if origin != "" {
		req.Header.Set("Origin", origin)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

// TestCORS_AllowedOrigin verifies that a listed origin is echoed back with
// credentials enabled.
func TestCORS_AllowedOrigin(t *testing.T) {
	rec := callWithOrigin(t, http.MethodGet, "https://console.vasamilk.in")

	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "https://console.vasamilk.in" {
		t.Errorf("expected origin to be echoed, got %q", got)
	}
	if got := rec.Header().Get("Access-Control-Allow-Credentials"); got != "true" {
		t.Errorf("expected credentials to be allowed, got %q", got)
	}
}

// TestCORS_UnknownOrigin verifies that an unlisted origin gets no allow headers
// but the request still reaches the handler.
func TestCORS_UnknownOrigin(t *testing.T) {
	rec := callWithOrigin(t, http.MethodGet, "https://evil.example")

	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Errorf("expected no allow-origin header, got %q", got)
	}
	if got := rec.Header().Get("Access-Control-Expose-Headers"); !strings.Contains(got, "Retry-After") {
		t.Errorf("expected Retry-After to be exposed, got %q", got)
	}
}

// TestCORS_Preflight verifies that OPTIONS is answered without calling the handler.
func TestCORS_Preflight(t *testing.T) {
	rec := callWithOrigin(t, http.MethodOptions, "http://localhost:5173")

	if rec.Code != http.StatusNoContent {
		t.Errorf("expected 204, got %d", rec.Code)
	}
}

// TestRequestLogger_LogsStatusAndRequestID verifies the finished-request line and
// that handlers see the request-scoped logger.
func TestRequestLogger_LogsStatusAndRequestID(t *testing.T) {
	var buf bytes.Buffer
	base := zerolog.New(&buf)

	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		zerolog.Ctx(r.Context()).Info().Msg("inside")
		w.WriteHeader(http.StatusTeapot)
		_, _ = w.Write([]byte("short and stout"))
	})

	req := httptest.NewRequest(http.MethodPost, "/api/orders/", nil)
	req.Header.Set("X-Request-Id", "req-42")
	rec := httptest.NewRecorder()
	middleware.RequestLogger(base)(inner).ServeHTTP(rec, req)

	if got := rec.Header().Get("X-Request-Id"); got != "req-42" {
		t.Errorf("expected request id header, got %q", got)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 log lines, got %d: %s", len(lines), buf.String())
	}

	var inside, done map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &inside); err != nil {
		t.Fatal(err)
	}
	if err := json.Unmarshal([]byte(lines[1]), &done); err != nil {
		t.Fatal(err)
	}

	if inside["request_id"] != "req-42" {
		t.Errorf("expected handler log to carry request id, got %v", inside["request_id"])
	}
	if done["status"] != float64(http.StatusTeapot) {
		t.Errorf("expected status 418, got %v", done["status"])
	}
	if done["bytes"] != float64(len("short and stout")) {
		t.Errorf("expected bytes to be counted, got %v", done["bytes"])
	}
	if done["path"] != "/api/orders/" {
		t.Errorf("expected path, got %v", done["path"])
	}
}

// TestRequestLogger_GeneratesRequestID verifies an id is made up when the
// client sends none.
func TestRequestLogger_GeneratesRequestID(t *testing.T) {
	rec := httptest.NewRecorder()
	middleware.RequestLogger(zerolog.Nop())(http.HandlerFunc(ok)).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Header().Get("X-Request-Id") == "" {
		t.Error("expected a generated request id")
	}
}

// TestRecoverer_LogsPanicWithRequestID verifies a panic becomes a 500 and is
// logged through the request logger.
func TestRecoverer_LogsPanicWithRequestID(t *testing.T) {
	var buf bytes.Buffer
	boom := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	})

	req := httptest.NewRequest(http.MethodGet, "/api/lists/users", nil)
	req.Header.Set("X-Request-Id", "req-7")
	rec := httptest.NewRecorder()
	middleware.RequestLogger(zerolog.New(&buf))(middleware.Recoverer(boom)).ServeHTTP(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("expected 500, got %d", rec.Code)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 log lines, got %d: %s", len(lines), buf.String())
	}
	var panicked, done map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &panicked); err != nil {
		t.Fatal(err)
	}
	if err := json.Unmarshal([]byte(lines[1]), &done); err != nil {
		t.Fatal(err)
	}
	if panicked["panic"] != "boom" {
		t.Errorf("expected panic value, got %v", panicked["panic"])
	}
	if panicked["request_id"] != "req-7" {
		t.Errorf("expected panic log to carry request id, got %v", panicked["request_id"])
	}
	if done["status"] != float64(http.StatusInternalServerError) {
		t.Errorf("expected request line with status 500, got %v", done["status"])
	}
}
