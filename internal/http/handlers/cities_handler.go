// City HTTP handlers.
//
// This file exposes read-only REST endpoints for cities:
//   - GET /v1/cities              (all cities, minimal shape)
//   - GET /v2/cities              (filtered, paged, X-Pagination header)
//   - GET /cities/{cityId}        (one city, optionally with its points of interest)
package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/cityinfo-api/internal/domain"
	"github.com/tbourn/cityinfo-api/internal/dto"
	"github.com/tbourn/cityinfo-api/internal/utils"
)

// PaginationHeader carries the page metadata of GET /cities as JSON.
const PaginationHeader = "X-Pagination"

const (
	defaultPageSize = 10
	maxPageSize     = 20
)

// clampCityQuery reads the filter and paging query parameters. Paging values
// are bounded rather than rejected; only non-integers are an error.
func clampCityQuery(c *gin.Context) (domain.CityQuery, bool) {
	page, err := utils.ParseBounded(c.Query("pageNumber"), 1, 1, 0)
	if err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "pageNumber must be an integer")
		return domain.CityQuery{}, false
	}
	size, err := utils.ParseBounded(c.Query("pageSize"), defaultPageSize, 1, maxPageSize)
	if err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "pageSize must be an integer")
		return domain.CityQuery{}, false
	}
	return domain.CityQuery{
		Name:        strings.TrimSpace(c.Query("name")),
		SearchQuery: strings.TrimSpace(c.Query("searchQuery")),
		PageNumber:  page,
		PageSize:    size,
	}, true
}

// ListCitiesV1 godoc
// @ID          listCitiesV1
// @Summary     List all cities
// @Description Returns every city in its minimal shape, without paging.
// @Tags        Cities
// @Produce     json,xml
//
// @Success     200  {array}   dto.CityWithoutPointsOfInterest
// @Failure     406  {object}  handlers.ErrorResponse  "Not acceptable"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /v1/cities [get]
func (h *Handlers) ListCitiesV1(c *gin.Context) {
	cities, err := h.citySvc.List(c.Request.Context())
	if err != nil {
		failInternal(c, err)
		return
	}
	items := dto.ToCities(cities)
	respond(c, http.StatusOK, items, dto.CityList{Items: items})
}

// ListCities godoc
// @ID          listCities
// @Summary     List cities (filtered, paginated)
// @Description Returns a page of cities. `name` is an exact match, `searchQuery` a substring match
// @Description over name and description. Page metadata is returned in the X-Pagination header.
// @Tags        Cities
// @Produce     json,xml
//
// @Param       name         query  string  false  "Exact city name"                  example(Paris)
// @Param       searchQuery  query  string  false  "Substring of name or description" example(park)
// @Param       pageNumber   query  int     false  "Page number"    minimum(1) default(1)
// @Param       pageSize     query  int     false  "Items per page" minimum(1) maximum(20) default(10)
//
// @Success     200  {array}   dto.CityWithoutPointsOfInterest
// @Header      200  {string}  X-Pagination  "JSON page metadata"
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Failure     406  {object}  handlers.ErrorResponse  "Not acceptable"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /v2/cities [get]
func (h *Handlers) ListCities(c *gin.Context) {
	q, valid := clampCityQuery(c)
	if !valid {
		return
	}

	cities, meta, err := h.citySvc.ListPage(c.Request.Context(), q)
	if err != nil {
		failInternal(c, err)
		return
	}

	header, err := json.Marshal(meta)
	if err != nil {
		failInternal(c, err)
		return
	}
	c.Header(PaginationHeader, string(header))

	items := dto.ToCities(cities)
	respond(c, http.StatusOK, items, dto.CityList{Items: items})
}

// GetCity godoc
// @ID          getCity
// @Summary     Get a city
// @Description Returns one city. With includePointsOfInterest=true the response also carries
// @Description numberOfPointsOfInterest and pointsOfInterest; otherwise the minimal shape is returned.
// @Tags        Cities
// @Produce     json,xml
//
// @Param       cityId                   path   int   true   "City ID"  example(1)
// @Param       includePointsOfInterest  query  bool  false  "Include points of interest"  default(false)
//
// @Success     200  {object}  dto.City
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Failure     404  {object}  handlers.ErrorResponse  "City not found"
// @Failure     406  {object}  handlers.ErrorResponse  "Not acceptable"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /cities/{cityId} [get]
func (h *Handlers) GetCity(c *gin.Context) {
	id, valid := pathID(c, "cityId")
	if !valid {
		return
	}

	include := false
	if raw := c.Query("includePointsOfInterest"); raw != "" {
		b, err := strconv.ParseBool(raw)
		if err != nil {
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, "includePointsOfInterest must be a boolean")
			return
		}
		include = b
	}

	city, err := h.citySvc.Get(c.Request.Context(), id, include)
	if err != nil {
		serviceError(c, err)
		return
	}

	if include {
		ok(c, http.StatusOK, dto.ToCity(*city))
		return
	}
	ok(c, http.StatusOK, dto.ToCityWithoutPointsOfInterest(*city))
}
