// Point-of-interest HTTP handlers.
//
// This file exposes REST endpoints nested under a city:
//   - GET    /cities/{cityId}/pointsofinterest        (list)
//   - GET    /cities/{cityId}/pointsofinterest/{id}   (get)
//   - POST   /cities/{cityId}/pointsofinterest        (create)
//   - PUT    /cities/{cityId}/pointsofinterest/{id}   (full update)
//   - PATCH  /cities/{cityId}/pointsofinterest/{id}   (JSON Patch)
//   - DELETE /cities/{cityId}/pointsofinterest/{id}   (delete)
//
// All of them require a bearer token carrying city=London.
package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/tbourn/cityinfo-api/internal/dto"
	"github.com/tbourn/cityinfo-api/internal/http/middleware"
	"github.com/tbourn/cityinfo-api/internal/validation"
)

// bindBody decodes the request body as XML when the client declared an XML
// content type and as JSON otherwise, then validates it. On failure it
// aborts and returns false.
func bindBody(c *gin.Context, obj any) bool {
	var err error
	switch c.ContentType() {
	case middleware.MIMEXML, middleware.MIMETextXML:
		err = c.ShouldBindXML(obj)
	default:
		err = c.ShouldBindJSON(obj)
	}
	if err == nil {
		return true
	}

	var verrs validator.ValidationErrors
	var tooLarge *http.MaxBytesError
	switch {
	case errors.As(err, &verrs):
		failValidation(c, "the request body is invalid", validation.FromError(verrs))
	case errors.As(err, &tooLarge):
		fail(c, http.StatusRequestEntityTooLarge, ErrCodeTooLarge, "request body too large")
	default:
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "malformed request body")
	}
	return false
}

// poiIDs parses {cityId} and {id}.
func poiIDs(c *gin.Context) (cityID, id int, valid bool) {
	if cityID, valid = pathID(c, "cityId"); !valid {
		return 0, 0, false
	}
	if id, valid = pathID(c, "id"); !valid {
		return 0, 0, false
	}
	return cityID, id, true
}

// ListPointsOfInterest godoc
// @ID          listPointsOfInterest
// @Summary     List the points of interest of a city
// @Tags        PointsOfInterest
// @Produce     json,xml
// @Security    BearerAuth
//
// @Param       cityId  path  int  true  "City ID"  example(1)
//
// @Success     200  {array}   dto.PointOfInterest
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Failure     401  {object}  handlers.ErrorResponse  "Missing or invalid token"
// @Failure     403  {object}  handlers.ErrorResponse  "Token lacks city=London"
// @Failure     404  {object}  handlers.ErrorResponse  "City not found"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /cities/{cityId}/pointsofinterest [get]
func (h *Handlers) ListPointsOfInterest(c *gin.Context) {
	cityID, valid := pathID(c, "cityId")
	if !valid {
		return
	}

	pois, err := h.poiSvc.List(c.Request.Context(), cityID)
	if err != nil {
		serviceError(c, err)
		return
	}
	items := dto.ToPointsOfInterest(pois)
	respond(c, http.StatusOK, items, dto.PointOfInterestList{Items: items})
}

// GetPointOfInterest godoc
// @ID          getPointOfInterest
// @Summary     Get a point of interest
// @Tags        PointsOfInterest
// @Produce     json,xml
// @Security    BearerAuth
//
// @Param       cityId  path  int  true  "City ID"               example(1)
// @Param       id      path  int  true  "Point of interest ID"  example(1)
//
// @Success     200  {object}  dto.PointOfInterest
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Failure     401  {object}  handlers.ErrorResponse  "Missing or invalid token"
// @Failure     403  {object}  handlers.ErrorResponse  "Token lacks city=London"
// @Failure     404  {object}  handlers.ErrorResponse  "City or point of interest not found"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /cities/{cityId}/pointsofinterest/{id} [get]
func (h *Handlers) GetPointOfInterest(c *gin.Context) {
	cityID, id, valid := poiIDs(c)
	if !valid {
		return
	}

	poi, err := h.poiSvc.Get(c.Request.Context(), cityID, id)
	if err != nil {
		serviceError(c, err)
		return
	}
	ok(c, http.StatusOK, dto.ToPointOfInterest(*poi))
}

// CreatePointOfInterest godoc
// @ID          createPointOfInterest
// @Summary     Create a point of interest
// @Description Adds a point of interest to a city and returns it with its Location.
// @Tags        PointsOfInterest
// @Accept      json,xml
// @Produce     json,xml
// @Security    BearerAuth
//
// @Param       cityId  path  int                             true  "City ID"  example(1)
// @Param       body    body  dto.PointOfInterestForCreation  true  "New point of interest"
//
// @Success     201  {object}  dto.PointOfInterest
// @Header      201  {string}  Location  "URL of the created resource"
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request or validation failed"
// @Failure     401  {object}  handlers.ErrorResponse  "Missing or invalid token"
// @Failure     403  {object}  handlers.ErrorResponse  "Token lacks city=London"
// @Failure     404  {object}  handlers.ErrorResponse  "City not found"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /cities/{cityId}/pointsofinterest [post]
func (h *Handlers) CreatePointOfInterest(c *gin.Context) {
	cityID, valid := pathID(c, "cityId")
	if !valid {
		return
	}

	var in dto.PointOfInterestForCreation
	if !bindBody(c, &in) {
		return
	}

	poi, err := h.poiSvc.Create(c.Request.Context(), cityID, in)
	if err != nil {
		serviceError(c, err)
		return
	}

	c.Header("Location", strings.TrimSuffix(c.Request.URL.Path, "/")+"/"+strconv.Itoa(poi.ID))
	ok(c, http.StatusCreated, dto.ToPointOfInterest(*poi))
}

// UpdatePointOfInterest godoc
// @ID          updatePointOfInterest
// @Summary     Replace a point of interest
// @Description Overwrites every mutable field of the point of interest.
// @Tags        PointsOfInterest
// @Accept      json,xml
// @Produce     json,xml
// @Security    BearerAuth
//
// @Param       cityId  path  int                           true  "City ID"               example(1)
// @Param       id      path  int                           true  "Point of interest ID"  example(1)
// @Param       body    body  dto.PointOfInterestForUpdate  true  "Replacement values"
//
// @Success     204  {string}  string  "No Content"
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request or validation failed"
// @Failure     401  {object}  handlers.ErrorResponse  "Missing or invalid token"
// @Failure     403  {object}  handlers.ErrorResponse  "Token lacks city=London"
// @Failure     404  {object}  handlers.ErrorResponse  "City or point of interest not found"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /cities/{cityId}/pointsofinterest/{id} [put]
func (h *Handlers) UpdatePointOfInterest(c *gin.Context) {
	cityID, id, valid := poiIDs(c)
	if !valid {
		return
	}

	var in dto.PointOfInterestForUpdate
	if !bindBody(c, &in) {
		return
	}

	if err := h.poiSvc.Update(c.Request.Context(), cityID, id, in); err != nil {
		serviceError(c, err)
		return
	}
	noContent(c)
}

// PatchPointOfInterest godoc
// @ID          patchPointOfInterest
// @Summary     Partially update a point of interest
// @Description Applies an RFC 6902 JSON Patch document. The patched result is validated before
// @Description anything is stored; an invalid document or result leaves the resource unchanged.
// @Tags        PointsOfInterest
// @Accept      json
// @Produce     json,xml
// @Security    BearerAuth
//
// @Param       cityId  path  int     true  "City ID"               example(1)
// @Param       id      path  int     true  "Point of interest ID"  example(1)
// @Param       body    body  string  true  "JSON Patch document"   example([{"op":"replace","path":"/name","value":"Updated"}])
//
// @Success     204  {string}  string  "No Content"
// @Failure     400  {object}  handlers.ErrorResponse  "Invalid patch or validation failed"
// @Failure     401  {object}  handlers.ErrorResponse  "Missing or invalid token"
// @Failure     403  {object}  handlers.ErrorResponse  "Token lacks city=London"
// @Failure     404  {object}  handlers.ErrorResponse  "City or point of interest not found"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /cities/{cityId}/pointsofinterest/{id} [patch]
func (h *Handlers) PatchPointOfInterest(c *gin.Context) {
	cityID, id, valid := poiIDs(c)
	if !valid {
		return
	}

	document, err := c.GetRawData()
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			fail(c, http.StatusRequestEntityTooLarge, ErrCodeTooLarge, "request body too large")
			return
		}
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "unreadable request body")
		return
	}

	if err := h.poiSvc.Patch(c.Request.Context(), cityID, id, document); err != nil {
		serviceError(c, err)
		return
	}
	noContent(c)
}

// DeletePointOfInterest godoc
// @ID          deletePointOfInterest
// @Summary     Delete a point of interest
// @Description Removes the point of interest and sends a best-effort notification.
// @Tags        PointsOfInterest
// @Produce     json,xml
// @Security    BearerAuth
//
// @Param       cityId  path  int  true  "City ID"               example(1)
// @Param       id      path  int  true  "Point of interest ID"  example(1)
//
// @Success     204  {string}  string  "No Content"
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Failure     401  {object}  handlers.ErrorResponse  "Missing or invalid token"
// @Failure     403  {object}  handlers.ErrorResponse  "Token lacks city=London"
// @Failure     404  {object}  handlers.ErrorResponse  "City or point of interest not found"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /cities/{cityId}/pointsofinterest/{id} [delete]
func (h *Handlers) DeletePointOfInterest(c *gin.Context) {
	cityID, id, valid := poiIDs(c)
	if !valid {
		return
	}

	if err := h.poiSvc.Delete(c.Request.Context(), cityID, id); err != nil {
		serviceError(c, err)
		return
	}
	noContent(c)
}
