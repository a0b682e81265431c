package middleware

import (
	"crypto/tls"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

func serveSecured(t *testing.T, opt SecurityOptions, pre gin.HandlerFunc, req *http.Request) http.Header {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	if pre != nil {
		r.Use(pre)
	}
	r.Use(SecurityHeaders(opt))
	r.GET("/cities", func(c *gin.Context) { c.String(http.StatusOK, "ok") })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d", w.Code)
	}
	return w.Header()
}

func TestSecurityHeaders_Baseline(t *testing.T) {
	h := serveSecured(t, SecurityOptions{}, nil, httptest.NewRequest(http.MethodGet, "/cities", nil))

	want := map[string]string{
		"X-Content-Type-Options":        "nosniff",
		"X-Frame-Options":               "DENY",
		"Referrer-Policy":               "no-referrer",
		"Access-Control-Expose-Headers": "X-Request-ID",
	}
	for k, v := range want {
		if got := h.Get(k); got != v {
			t.Fatalf("%s=%q; want %q", k, got, v)
		}
	}
	for _, k := range []string{"Permissions-Policy", "Cache-Control", "Strict-Transport-Security", "Vary"} {
		if got := h.Get(k); got != "" {
			t.Fatalf("unexpected %s=%q", k, got)
		}
	}
}

func TestSecurityHeaders_Options(t *testing.T) {
	opt := SecurityOptions{
		HSTS:          true,
		HSTSMaxAge:    time.Hour,
		NoStore:       true,
		BrowserPolicy: true,
	}
	req := httptest.NewRequest(http.MethodGet, "/cities", nil)
	req.TLS = &tls.ConnectionState{}
	h := serveSecured(t, opt, nil, req)

	if got := h.Get("Strict-Transport-Security"); got != "max-age=3600; includeSubDomains; preload" {
		t.Fatalf("HSTS=%q", got)
	}
	if h.Get("Permissions-Policy") == "" || h.Get("X-Permitted-Cross-Domain-Policies") != "none" {
		t.Fatalf("policy headers missing: %#v", h)
	}
	if h.Get("Cache-Control") != "no-store" || h.Get("Pragma") != "no-cache" || h.Get("Expires") != "0" {
		t.Fatalf("no-store headers missing: %#v", h)
	}
}

func TestSecurityHeaders_HSTSOnlyOverHTTPS(t *testing.T) {
	opt := SecurityOptions{HSTS: true}

	plain := serveSecured(t, opt, nil, httptest.NewRequest(http.MethodGet, "/cities", nil))
	if got := plain.Get("Strict-Transport-Security"); got != "" {
		t.Fatalf("HSTS on plain HTTP: %q", got)
	}

	req := httptest.NewRequest(http.MethodGet, "/cities", nil)
	req.Header.Set("X-Forwarded-Proto", "HTTPS")
	proxied := serveSecured(t, opt, nil, req)
	// zero max age falls back to 180 days
	if got := proxied.Get("Strict-Transport-Security"); got != "max-age=15552000; includeSubDomains; preload" {
		t.Fatalf("HSTS behind proxy=%q", got)
	}
}

func TestSecurityHeaders_MergesListHeaders(t *testing.T) {
	// CORS and gzip run earlier and write Vary / expose headers of their own.
	pre := func(c *gin.Context) {
		c.Writer.Header().Add("Vary", "Origin")
		c.Writer.Header().Add("Vary", "accept")
		c.Header("Access-Control-Expose-Headers", "x-request-id, Content-Length")
		c.Next()
	}
	opt := SecurityOptions{
		ExposeHeaders: []string{"X-Pagination", "Location", ""},
		Vary:          []string{"Accept"},
	}
	h := serveSecured(t, opt, pre, httptest.NewRequest(http.MethodGet, "/cities", nil))

	if got := h.Get("Access-Control-Expose-Headers"); got != "x-request-id, Content-Length, X-Pagination, Location" {
		t.Fatalf("expose=%q", got)
	}
	if got := h.Values("Vary"); len(got) != 1 || got[0] != "Origin, accept" {
		t.Fatalf("vary=%q", got)
	}
}

func TestNoStore(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/public", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/private", NoStore(), func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/public", nil))
	if got := w.Header().Get("Cache-Control"); got != "" {
		t.Fatalf("public Cache-Control=%q", got)
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/private", nil))
	if got := w.Header().Get("Cache-Control"); got != "no-store" {
		t.Fatalf("private Cache-Control=%q", got)
	}
}

func Test_isHTTPS(t *testing.T) {
	cases := []struct {
		name  string
		tls   bool
		proto string
		want  bool
	}{
		{"plain", false, "", false},
		{"tls", true, "", true},
		{"proxy https", false, "https", true},
		{"proxy http", false, "http", false},
	}
	for _, tc := range cases {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if tc.tls {
			req.TLS = &tls.ConnectionState{}
		}
		if tc.proto != "" {
			req.Header.Set("X-Forwarded-Proto", tc.proto)
		}
		if got := isHTTPS(req); got != tc.want {
			t.Fatalf("%s: isHTTPS=%v; want %v", tc.name, got, tc.want)
		}
	}
}
