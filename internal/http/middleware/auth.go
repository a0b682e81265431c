// Package middleware contains shared Gin middleware used by the HTTP layer.
//
// This file implements bearer token authentication and claim policies.
// Authenticate validates an HS256 JWT (signature, issuer, audience and
// expiry) and stores its claims in the Gin context; RequireClaim enforces a
// single claim value on top of that.
//
// Failures are answered with the standard error envelope:
//
//	401 {"request_id": "...", "code": "unauthorized", "message": "..."}
//	403 {"request_id": "...", "code": "forbidden",    "message": "..."}
package middleware

import (
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const (
	// claimsKey is the Gin context key holding jwt.MapClaims.
	claimsKey = "claims"
	// userIDKey is read by KeyBySubjectOrIP and the request logger.
	userIDKey = "userID"
)

// AuthOptions configures Authenticate.
type AuthOptions struct {
	Secret   []byte // raw HMAC key
	Issuer   string // required "iss"; empty disables the check
	Audience string // required "aud"; empty disables the check
}

// DecodeSecret decodes a base64 signing key as stored in configuration.
func DecodeSecret(s string) ([]byte, error) {
	b, err := base64.StdEncoding.DecodeString(strings.TrimSpace(s))
	if err != nil {
		return nil, fmt.Errorf("auth secret is not valid base64: %w", err)
	}
	if len(b) == 0 {
		return nil, errors.New("auth secret is empty")
	}
	return b, nil
}

func abortAuth(c *gin.Context, status int, code, msg string) {
	if status == http.StatusUnauthorized {
		c.Header("WWW-Authenticate", `Bearer`)
	}
	c.AbortWithStatusJSON(status, gin.H{
		"request_id": RequestIDFrom(c),
		"code":       code,
		"message":    msg,
	})
}

// Authenticate requires a valid "Authorization: Bearer <jwt>" header.
func Authenticate(opt AuthOptions) gin.HandlerFunc {
	parserOpts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	}
	if opt.Issuer != "" {
		parserOpts = append(parserOpts, jwt.WithIssuer(opt.Issuer))
	}
	if opt.Audience != "" {
		parserOpts = append(parserOpts, jwt.WithAudience(opt.Audience))
	}
	parser := jwt.NewParser(parserOpts...)
	keyFn := func(*jwt.Token) (any, error) { return opt.Secret, nil }

	return func(c *gin.Context) {
		h := c.GetHeader("Authorization")
		scheme, raw, ok := strings.Cut(h, " ")
		if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(raw) == "" {
			abortAuth(c, http.StatusUnauthorized, "unauthorized", "missing bearer token")
			return
		}

		claims := jwt.MapClaims{}
		if _, err := parser.ParseWithClaims(strings.TrimSpace(raw), claims, keyFn); err != nil {
			LoggerFrom(c).Debug().Err(err).Msg("token rejected")
			abortAuth(c, http.StatusUnauthorized, "unauthorized", "invalid token")
			return
		}

		c.Set(claimsKey, claims)
		if sub, err := claims.GetSubject(); err == nil && sub != "" {
			c.Set(userIDKey, sub)
		}
		c.Next()
	}
}

// ClaimsFrom returns the claims stored by Authenticate, or nil.
func ClaimsFrom(c *gin.Context) jwt.MapClaims {
	if v, ok := c.Get(claimsKey); ok {
		if mc, ok := v.(jwt.MapClaims); ok {
			return mc
		}
	}
	return nil
}

// RequireClaim allows the request only when the authenticated token carries
// claim name with exactly value (string or array of strings).
func RequireClaim(name, value string) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := ClaimsFrom(c)
		if claims == nil {
			abortAuth(c, http.StatusUnauthorized, "unauthorized", "missing bearer token")
			return
		}
		if !claimHas(claims[name], value) {
			abortAuth(c, http.StatusForbidden, "forbidden", "access denied")
			return
		}
		c.Next()
	}
}

func claimHas(v any, want string) bool {
	switch t := v.(type) {
	case string:
		return t == want
	case []any:
		for _, e := range t {
			if s, ok := e.(string); ok && s == want {
				return true
			}
		}
	}
	return false
}
