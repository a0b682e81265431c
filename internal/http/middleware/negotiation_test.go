package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestAcceptNegotiation(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(AcceptNegotiation())
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	cases := []struct {
		accept string
		want   int
	}{
		{"", http.StatusOK},
		{"*/*", http.StatusOK},
		{"application/json", http.StatusOK},
		{"application/xml", http.StatusOK},
		{"text/xml", http.StatusOK},
		{"application/*", http.StatusOK},
		{"text/html, application/json;q=0.9", http.StatusOK},
		{"text/html", http.StatusNotAcceptable},
		{"text/csv, image/png", http.StatusNotAcceptable},
		{"application/json;q=0", http.StatusNotAcceptable},
		{"application/json;q=0.0, text/plain", http.StatusNotAcceptable},
		{";;;", http.StatusNotAcceptable},
	}
	for _, tc := range cases {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/x", nil)
		if tc.accept != "" {
			req.Header.Set("Accept", tc.accept)
		}
		r.ServeHTTP(w, req)
		if w.Code != tc.want {
			t.Fatalf("Accept %q -> %d; want %d", tc.accept, w.Code, tc.want)
		}
	}
}

func TestAcceptNegotiation_CustomOffer(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/pdf", AcceptNegotiation("application/pdf"), func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/pdf", nil)
	req.Header.Set("Accept", "application/json")
	r.ServeHTTP(w, req)
	if w.Code != http.StatusNotAcceptable {
		t.Fatalf("got %d", w.Code)
	}
}
