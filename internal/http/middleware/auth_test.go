package middleware

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

var testKey = []byte("thisisthesecretforgeneratingatoken")

func signToken(t *testing.T, method jwt.SigningMethod, key any, claims jwt.MapClaims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(method, claims).SignedString(key)
	require.NoError(t, err)
	return s
}

func validClaims() jwt.MapClaims {
	return jwt.MapClaims{
		"sub":  "1",
		"iss":  "https://localhost:7169",
		"aud":  "cityinfoapi",
		"exp":  time.Now().Add(time.Hour).Unix(),
		"city": "London",
	}
}

func authRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestID())
	g := r.Group("/", Authenticate(AuthOptions{Secret: testKey, Issuer: "https://localhost:7169", Audience: "cityinfoapi"}), RequireClaim("city", "London"))
	g.GET("/poi", func(c *gin.Context) {
		uid, _ := c.Get(userIDKey)
		c.String(http.StatusOK, asString(uid))
	})
	return r
}

func doAuth(r http.Handler, header string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/poi", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	r.ServeHTTP(w, req)
	return w
}

func TestAuthenticate_Accepts(t *testing.T) {
	w := doAuth(authRouter(), "Bearer "+signToken(t, jwt.SigningMethodHS256, testKey, validClaims()))
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "1", w.Body.String())
}

func TestAuthenticate_Rejects(t *testing.T) {
	mutate := func(f func(jwt.MapClaims)) jwt.MapClaims {
		c := validClaims()
		f(c)
		return c
	}
	cases := map[string]string{
		"no header":      "",
		"wrong scheme":   "Basic abc",
		"empty bearer":   "Bearer ",
		"garbage":        "Bearer not.a.jwt",
		"wrong key":      "Bearer " + signToken(t, jwt.SigningMethodHS256, []byte("another-secret-another-secret!!"), validClaims()),
		"wrong alg":      "Bearer " + signToken(t, jwt.SigningMethodHS512, testKey, validClaims()),
		"expired":        "Bearer " + signToken(t, jwt.SigningMethodHS256, testKey, mutate(func(c jwt.MapClaims) { c["exp"] = time.Now().Add(-time.Minute).Unix() })),
		"no expiry":      "Bearer " + signToken(t, jwt.SigningMethodHS256, testKey, mutate(func(c jwt.MapClaims) { delete(c, "exp") })),
		"wrong issuer":   "Bearer " + signToken(t, jwt.SigningMethodHS256, testKey, mutate(func(c jwt.MapClaims) { c["iss"] = "evil" })),
		"wrong audience": "Bearer " + signToken(t, jwt.SigningMethodHS256, testKey, mutate(func(c jwt.MapClaims) { c["aud"] = "other" })),
	}
	r := authRouter()
	for name, header := range cases {
		t.Run(name, func(t *testing.T) {
			w := doAuth(r, header)
			require.Equal(t, http.StatusUnauthorized, w.Code)
			require.Equal(t, "Bearer", w.Header().Get("WWW-Authenticate"))

			var body map[string]string
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			require.Equal(t, "unauthorized", body["code"])
			require.NotEmpty(t, body["request_id"])
		})
	}
}

func TestRequireClaim(t *testing.T) {
	r := authRouter()
	for name, city := range map[string]any{
		"other city":   "Paris",
		"missing":      nil,
		"wrong type":   42,
		"array no hit": []string{"Paris", "Antwerp"},
	} {
		t.Run(name, func(t *testing.T) {
			c := validClaims()
			if city == nil {
				delete(c, "city")
			} else {
				c["city"] = city
			}
			w := doAuth(r, "Bearer "+signToken(t, jwt.SigningMethodHS256, testKey, c))
			require.Equal(t, http.StatusForbidden, w.Code)
			require.Contains(t, w.Body.String(), `"forbidden"`)
		})
	}

	c := validClaims()
	c["city"] = []string{"Paris", "London"}
	w := doAuth(r, "Bearer "+signToken(t, jwt.SigningMethodHS256, testKey, c))
	require.Equal(t, http.StatusOK, w.Code)
}

func TestRequireClaim_WithoutAuthenticate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/x", RequireClaim("city", "London"), func(c *gin.Context) { c.Status(http.StatusOK) })
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestDecodeSecret(t *testing.T) {
	b, err := DecodeSecret(" " + base64.StdEncoding.EncodeToString(testKey) + "\n")
	require.NoError(t, err)
	require.Equal(t, testKey, b)

	_, err = DecodeSecret("%%%")
	require.Error(t, err)
	_, err = DecodeSecret("")
	require.Error(t, err)
}
