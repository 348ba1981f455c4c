package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/college360hub/hub-booking/internal/config"
)

func newContext(method, target, route string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(method, target, nil)
	req.Header.Set(echo.HeaderXRealIP, "203.0.113.9")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath(route)
	return c, rec
}

func TestBuildRateKey(t *testing.T) {
	c, _ := newContext(http.MethodPost, "/api/confirm-booking", "/api/confirm-booking")
	tests := []struct {
		strategy string
		want     string
	}{
		{"ip", "rl:ip:203.0.113.9"},
		{"route", "rl:route:POST /api/confirm-booking"},
		{"ip_route", "rl:ip:203.0.113.9:route:POST /api/confirm-booking"},
		{"", "rl:ip:203.0.113.9:route:POST /api/confirm-booking"},
	}
	for _, tt := range tests {
		cfg := config.RateLimitConfig{Prefix: "rl", KeyStrategy: tt.strategy}
		if got := buildRateKey(cfg, c); got != tt.want {
			t.Errorf("strategy %q: key = %q, want %q", tt.strategy, got, tt.want)
		}
	}
}

func TestRetryAfterSeconds(t *testing.T) {
	for ms, want := range map[int64]int{0: 1, 1: 1, 1000: 1, 1001: 2, 2999: 3} {
		if got := retryAfterSeconds(ms); got != want {
			t.Errorf("retryAfterSeconds(%d) = %d, want %d", ms, got, want)
		}
	}
}

func TestMiddlewaresPassThroughWithoutRedis(t *testing.T) {
	called := 0
	h := func(c echo.Context) error {
		called++
		return c.String(http.StatusOK, "ok")
	}
	rl := NewTokenBucket(config.RateLimitConfig{Enabled: true}, nil, nil)
	cache := NewRedisCache(config.CacheConfig{Enabled: true}, nil, nil)

	c, rec := newContext(http.MethodGet, "/api/available-times", "/api/available-times")
	if err := rl(cache(h))(c); err != nil {
		t.Fatal(err)
	}
	if called != 1 || rec.Code != http.StatusOK {
		t.Errorf("called=%d code=%d", called, rec.Code)
	}
	if rec.Header().Get("X-Cache") != "" {
		t.Error("cache headers set while cache disabled")
	}
}

func TestCacheEntryRoundTrip(t *testing.T) {
	hdr := http.Header{"Content-Type": {"application/json"}}
	entry, err := encodeEntry(http.StatusOK, hdr, []byte(`["a"]`))
	if err != nil {
		t.Fatal(err)
	}
	status, gotHdr, body, ok := decodeEntry(entry)
	if !ok || status != http.StatusOK || string(body) != `["a"]` || gotHdr.Get("Content-Type") != "application/json" {
		t.Errorf("decodeEntry() = %d, %v, %q, %v", status, gotHdr, body, ok)
	}
	if _, _, _, ok := decodeEntry([]byte{0, 1}); ok {
		t.Error("short entry decoded")
	}
}

func TestCacheKeyStrategies(t *testing.T) {
	a, _ := newContext(http.MethodGet, "/api/available-dates?x=1", "/api/available-dates")
	b, _ := newContext(http.MethodGet, "/api/available-dates?x=2", "/api/available-dates")

	byQuery := config.CacheConfig{Prefix: "cache"}
	if cacheKey(byQuery, a) == cacheKey(byQuery, b) {
		t.Error("route_query strategy ignored the query string")
	}
	byRoute := config.CacheConfig{Prefix: "cache", KeyStrategy: "route"}
	if cacheKey(byRoute, a) != cacheKey(byRoute, b) {
		t.Error("route strategy depends on the query string")
	}
}

func TestCaptureWriterStopsAtLimit(t *testing.T) {
	rec := httptest.NewRecorder()
	cw := &captureWriter{ResponseWriter: rec, status: http.StatusOK, limit: 4}
	_, _ = cw.Write([]byte("abc"))
	_, _ = cw.Write([]byte("de"))
	if !cw.truncated || cw.buf.String() != "abc" {
		t.Errorf("truncated=%v buf=%q", cw.truncated, cw.buf.String())
	}
	if rec.Body.String() != "abcde" {
		t.Errorf("client body = %q", rec.Body.String())
	}
}

func TestRequestLogger(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	mw := RequestLogger(zap.New(core))

	c, rec := newContext(http.MethodGet, "/api/admin/stats", "/api/admin/stats")
	err := mw(func(c echo.Context) error {
		return echo.NewHTTPError(http.StatusInternalServerError, "boom")
	})(c)
	if err != nil {
		t.Fatalf("middleware returned %v", err)
	}
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d", rec.Code)
	}

	entries := logs.FilterMessage("request").All()
	if len(entries) != 1 {
		t.Fatalf("logged %d entries", len(entries))
	}
	e := entries[0]
	if e.Level != zapcore.ErrorLevel {
		t.Errorf("level = %v, want error", e.Level)
	}
	fields := e.ContextMap()
	if fields["status"] != int64(500) || fields["route"] != "/api/admin/stats" {
		t.Errorf("fields = %v", fields)
	}
}
