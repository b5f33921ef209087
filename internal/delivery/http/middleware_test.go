package http

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func newMiddlewareRouter(middleware gin.HandlerFunc) *gin.Engine {
	router := gin.New()
	router.Use(middleware)
	router.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, "pong")
	})
	return router
}

func TestCORSAllowedOrigin(t *testing.T) {
	router := newMiddlewareRouter(CORSMiddleware([]string{"https://snackwise.example"}))

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("Origin", "https://snackwise.example")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "https://snackwise.example" {
		t.Errorf("Access-Control-Allow-Origin = %q", got)
	}
}

func TestCORSDisallowedOrigin(t *testing.T) {
	router := newMiddlewareRouter(CORSMiddleware([]string{"https://snackwise.example"}))

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("Origin", "https://evil.example")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Errorf("Access-Control-Allow-Origin = %q, want unset", got)
	}
}

func TestCORSWildcardPrefix(t *testing.T) {
	router := newMiddlewareRouter(CORSMiddleware([]string{"https://*"}))

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("Origin", "https://anything.example")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "https://anything.example" {
		t.Errorf("Access-Control-Allow-Origin = %q", got)
	}
}

func TestCORSPreflight(t *testing.T) {
	router := newMiddlewareRouter(CORSMiddleware([]string{"*"}))

	req := httptest.NewRequest(http.MethodOptions, "/ping", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusNoContent {
		t.Errorf("preflight status = %d, want 204", w.Code)
	}
}

func TestRateLimitRejectsOverBurst(t *testing.T) {
	router := newMiddlewareRouter(RateLimitMiddleware(1, 2))

	codes := make([]int, 0, 4)
	for i := 0; i < 4; i++ {
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		codes = append(codes, w.Code)
	}

	if codes[0] != http.StatusOK || codes[1] != http.StatusOK {
		t.Errorf("first requests = %v, want 200 within burst", codes[:2])
	}
	if codes[3] != http.StatusTooManyRequests {
		t.Errorf("codes = %v, want trailing 429", codes)
	}
}

func TestRateLimitPerIP(t *testing.T) {
	router := newMiddlewareRouter(RateLimitMiddleware(1, 1))

	for _, ip := range []string{"10.0.0.1:1", "10.0.0.2:1"} {
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.RemoteAddr = ip
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Errorf("first request from %s = %d, want 200", ip, w.Code)
		}
	}
}

func TestHTTPSRedirect(t *testing.T) {
	router := newMiddlewareRouter(HTTPSRedirectMiddleware())

	req := httptest.NewRequest(http.MethodGet, "/ping?x=1", nil)
	req.Host = "snackwise.example"
	req.Header.Set("X-Forwarded-Proto", "http")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusMovedPermanently {
		t.Fatalf("status = %d, want 301", w.Code)
	}
	if got := w.Header().Get("Location"); got != "https://snackwise.example/ping?x=1" {
		t.Errorf("Location = %q", got)
	}
}

func TestHTTPSRedirectPassesSecureTraffic(t *testing.T) {
	router := newMiddlewareRouter(HTTPSRedirectMiddleware())

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("X-Forwarded-Proto", "https")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", w.Code)
	}
}
