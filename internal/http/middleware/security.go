// Package middleware contains shared Gin middleware used by the HTTP layer.
//
// This file sets the response hardening headers. The fixed part of the header
// set is computed once when the middleware is built; per request only the
// HTTPS-dependent HSTS header and the list-valued headers (Vary and
// Access-Control-Expose-Headers) are touched, because CORS and gzip write to
// those too.
package middleware

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

const defaultHSTSMaxAge = 180 * 24 * time.Hour

// SecurityOptions configures SecurityHeaders.
type SecurityOptions struct {
	// HSTS emits Strict-Transport-Security on HTTPS requests (direct TLS or
	// X-Forwarded-Proto: https). Plain HTTP never gets it.
	HSTS       bool
	HSTSMaxAge time.Duration // defaults to 180 days

	// NoStore marks every response uncacheable. Prefer the NoStore middleware
	// on the groups that need it.
	NoStore bool

	// BrowserPolicy adds Permissions-Policy and
	// X-Permitted-Cross-Domain-Policies.
	BrowserPolicy bool

	// ExposeHeaders are listed in Access-Control-Expose-Headers next to
	// X-Request-ID so browser clients can read them.
	ExposeHeaders []string

	// Vary lists request headers the representation depends on, e.g. Accept
	// for negotiated JSON/XML bodies.
	Vary []string
}

// SecurityHeaders returns the hardening middleware for opt.
func SecurityHeaders(opt SecurityOptions) gin.HandlerFunc {
	fixed := http.Header{}
	fixed.Set("X-Content-Type-Options", "nosniff")
	fixed.Set("X-Frame-Options", "DENY")
	fixed.Set("Referrer-Policy", "no-referrer")
	if opt.BrowserPolicy {
		fixed.Set("Permissions-Policy", "geolocation=(), microphone=(), camera=(), payment=()")
		fixed.Set("X-Permitted-Cross-Domain-Policies", "none")
	}
	if opt.NoStore {
		setNoStore(fixed)
	}

	hsts := hstsValue(opt.HSTSMaxAge)
	expose := append([]string{requestIDHeader}, opt.ExposeHeaders...)

	return func(c *gin.Context) {
		h := c.Writer.Header()
		for k, v := range fixed {
			h[k] = append([]string(nil), v...)
		}
		if opt.HSTS && isHTTPS(c.Request) {
			h.Set("Strict-Transport-Security", hsts)
		}
		mergeList(h, "Access-Control-Expose-Headers", expose...)
		mergeList(h, "Vary", opt.Vary...)
		c.Next()
	}
}

// NoStore forbids caching of the responses of the routes it is mounted on.
func NoStore() gin.HandlerFunc {
	return func(c *gin.Context) {
		setNoStore(c.Writer.Header())
		c.Next()
	}
}

func setNoStore(h http.Header) {
	h.Set("Cache-Control", "no-store")
	h.Set("Pragma", "no-cache")
	h.Set("Expires", "0")
}

func hstsValue(maxAge time.Duration) string {
	if maxAge <= 0 {
		maxAge = defaultHSTSMaxAge
	}
	return "max-age=" + strconv.Itoa(int(maxAge.Seconds())) + "; includeSubDomains; preload"
}

// isHTTPS reports whether the incoming request used HTTPS either directly
// (r.TLS != nil) or via a reverse proxy that set X-Forwarded-Proto: https.
func isHTTPS(r *http.Request) bool {
	if r.TLS != nil {
		return true
	}
	return strings.EqualFold(r.Header.Get("X-Forwarded-Proto"), "https")
}

// mergeList adds names to the comma-separated header key, keeping whatever
// is already there and skipping case-insensitive duplicates. All existing
// values of key are folded into a single line.
func mergeList(h http.Header, key string, names ...string) {
	var out []string
	seen := map[string]bool{}
	add := func(v string) {
		v = strings.TrimSpace(v)
		if v == "" || seen[strings.ToLower(v)] {
			return
		}
		seen[strings.ToLower(v)] = true
		out = append(out, v)
	}
	for _, line := range h.Values(key) {
		for _, v := range strings.Split(line, ",") {
			add(v)
		}
	}
	for _, v := range names {
		add(v)
	}
	if len(out) > 0 {
		h.Set(key, strings.Join(out, ", "))
	}
}
