package middleware

import (
	"mime"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// Negotiated media types.
const (
	MIMEJSON    = "application/json"
	MIMEXML     = "application/xml"
	MIMETextXML = "text/xml"
)

// Offered lists the response types handlers can produce, JSON first.
var Offered = []string{MIMEJSON, MIMEXML, MIMETextXML}

// AcceptNegotiation rejects requests whose Accept header matches none of
// offered with 406. An absent Accept header means "anything".
func AcceptNegotiation(offered ...string) gin.HandlerFunc {
	if len(offered) == 0 {
		offered = Offered
	}
	return func(c *gin.Context) {
		if acceptable(c.GetHeader("Accept"), offered) {
			c.Next()
			return
		}
		c.AbortWithStatusJSON(http.StatusNotAcceptable, gin.H{
			"request_id": RequestIDFrom(c),
			"code":       "not_acceptable",
			"message":    "supported media types: " + strings.Join(offered, ", "),
		})
	}
}

func acceptable(header string, offered []string) bool {
	if strings.TrimSpace(header) == "" {
		return true
	}
	for _, part := range strings.Split(header, ",") {
		mt, params, err := mime.ParseMediaType(strings.TrimSpace(part))
		if err != nil {
			continue
		}
		if q, ok := params["q"]; ok && strings.Trim(q, "0.") == "" {
			continue // q=0 means "not acceptable"
		}
		for _, o := range offered {
			if matches(mt, o) {
				return true
			}
		}
	}
	return false
}

func matches(pattern, offered string) bool {
	if pattern == "*/*" || pattern == offered {
		return true
	}
	typ, sub, _ := strings.Cut(pattern, "/")
	otyp, _, _ := strings.Cut(offered, "/")
	return sub == "*" && typ == otyp
}
