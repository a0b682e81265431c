// Package handlers provides HTTP handler implementations for the public API.
//
// This file defines the response utilities shared by all endpoints: the
// structured error envelope and the negotiated JSON/XML writers. Every body
// the API produces goes through respond(), so the representation always
// follows the request's Accept header.
//
// Conventions:
//   - All error responses return an ErrorResponse with a stable `code`.
//   - `fail()` centralizes error logging and formatting; 5xx responses are
//     logged with the request-scoped logger.
//   - `ok()` and `noContent()` write success responses.
//
// Example error response:
//
//	HTTP/1.1 400 Bad Request
//	{
//	  "request_id": "123e4567-e89b-12d3-a456-426614174000",
//	  "code": "validation_failed",
//	  "message": "the request body is invalid",
//	  "errors": [{"field": "name", "message": "You should provide a name value."}]
//	}
package handlers

import (
	"encoding/xml"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/cityinfo-api/internal/http/middleware"
	"github.com/tbourn/cityinfo-api/internal/validation"
)

// ErrorResponse is the standard error envelope returned by all endpoints.
type ErrorResponse struct {
	XMLName xml.Name `json:"-" xml:"Error" swaggerignore:"true"`
	// Correlates server logs and client errors
	RequestID string `json:"request_id,omitempty" xml:"request_id,omitempty" example:"123e4567-e89b-12d3-a456-426614174000"`
	// Stable, machine-readable code (see errors.go constants)
	Code string `json:"code" xml:"code" example:"not_found"`
	// Human-readable message (safe to show to users)
	Message string `json:"message" xml:"message" example:"city not found"`
	// Field errors, only for validation_failed
	Errors []validation.FieldError `json:"errors,omitempty" xml:"errors>error,omitempty"`
}

// fail aborts the request with a structured error and logs server-side errors.
func fail(c *gin.Context, status int, code, msg string) {
	abort(c, status, ErrorResponse{Code: code, Message: msg}, nil)
}

// failInternal aborts with a generic 500 and logs cause.
func failInternal(c *gin.Context, cause error) {
	abort(c, http.StatusInternalServerError, ErrorResponse{
		Code:    ErrCodeInternal,
		Message: "a problem happened while handling your request",
	}, cause)
}

// failValidation aborts with 400 validation_failed and the offending fields.
func failValidation(c *gin.Context, msg string, fields []validation.FieldError) {
	abort(c, http.StatusBadRequest, ErrorResponse{
		Code:    ErrCodeValidationFailed,
		Message: msg,
		Errors:  fields,
	}, nil)
}

func abort(c *gin.Context, status int, resp ErrorResponse, cause error) {
	resp.RequestID = middleware.RequestIDFrom(c)

	if status >= http.StatusInternalServerError {
		lg := middleware.LoggerFrom(c)
		lg.Error().
			Err(cause).
			Int("status", status).
			Str("code", resp.Code).
			Str("message", resp.Message).
			Msg("api error")
	}

	c.Abort()
	respond(c, status, resp, resp)
}

// Fail is the exported variant of fail() for the router's fallbacks.
func Fail(c *gin.Context, status int, code, msg string) { fail(c, status, code, msg) }

// ok writes body in the negotiated format.
func ok(c *gin.Context, status int, body any) {
	respond(c, status, body, body)
}

// respond writes asJSON or asXML depending on the Accept header. XML needs a
// separate value when the JSON body is a bare slice without a root element.
// Accept headers offering neither fall back to JSON; routes that must refuse
// them use middleware.AcceptNegotiation.
func respond(c *gin.Context, status int, asJSON, asXML any) {
	switch c.NegotiateFormat(middleware.Offered...) {
	case middleware.MIMEXML:
		c.XML(status, asXML)
	case middleware.MIMETextXML:
		c.Render(status, textXML{Data: asXML})
	default:
		c.JSON(status, asJSON)
	}
}

// noContent writes an HTTP 204 No Content response.
func noContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// textXML renders like render.XML but labels the body text/xml.
type textXML struct {
	Data any
}

func (r textXML) Render(w http.ResponseWriter) error {
	r.WriteContentType(w)
	return xml.NewEncoder(w).Encode(r.Data)
}

func (textXML) WriteContentType(w http.ResponseWriter) {
	if h := w.Header(); len(h["Content-Type"]) == 0 {
		h["Content-Type"] = []string{"text/xml; charset=utf-8"}
	}
}
