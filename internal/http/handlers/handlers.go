package handlers

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/cityinfo-api/internal/domain"
	"github.com/tbourn/cityinfo-api/internal/dto"
	"github.com/tbourn/cityinfo-api/internal/services"
)

//
// Service contracts (context-aware)
//

// CityService defines the read operations on cities consumed by handlers.
//
// Implementations should be safe for concurrent use and must honor the
// provided context for cancellation and timeouts.
type CityService interface {
	// List returns every city ordered by name (v1, unpaged).
	List(ctx context.Context) ([]domain.City, error)
	// ListPage returns one filtered page of cities and its metadata.
	ListPage(ctx context.Context, q domain.CityQuery) ([]domain.City, domain.PaginationMetadata, error)
	// Get returns one city, with its points of interest when include is set.
	Get(ctx context.Context, id int, include bool) (*domain.City, error)
}

// PointOfInterestService defines the point-of-interest lifecycle.
type PointOfInterestService interface {
	List(ctx context.Context, cityID int) ([]domain.PointOfInterest, error)
	Get(ctx context.Context, cityID, id int) (*domain.PointOfInterest, error)
	Create(ctx context.Context, cityID int, in dto.PointOfInterestForCreation) (*domain.PointOfInterest, error)
	Update(ctx context.Context, cityID, id int, in dto.PointOfInterestForUpdate) error
	Patch(ctx context.Context, cityID, id int, document []byte) error
	Delete(ctx context.Context, cityID, id int) error
}

// FileService serves the demo document and accepts PDF uploads.
type FileService interface {
	Get(ctx context.Context, fileID string) (*services.File, error)
	Upload(ctx context.Context, r io.Reader, size int64, contentType string) (string, error)
}

//
// Handler wiring
//

// Handlers groups HTTP endpoints for cities, points of interest, and files.
type Handlers struct {
	citySvc CityService
	poiSvc  PointOfInterestService
	fileSvc FileService
}

// New constructs and returns a Handlers instance bound to the given services.
func New(citySvc CityService, poiSvc PointOfInterestService, fileSvc FileService) *Handlers {
	return &Handlers{citySvc: citySvc, poiSvc: poiSvc, fileSvc: fileSvc}
}

//
// Helpers
//

// pathID parses the integer path parameter name. On failure it aborts with
// 400 and returns false.
func pathID(c *gin.Context, name string) (int, bool) {
	id, err := strconv.Atoi(c.Param(name))
	if err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, name+" must be an integer")
		return 0, false
	}
	return id, true
}

// serviceError translates a service error into the envelope. Anything that is
// not a known domain error is a 500.
func serviceError(c *gin.Context, err error) {
	var verr *services.ValidationError
	switch {
	case errors.As(err, &verr):
		failValidation(c, "the request body is invalid", verr.Fields)
	case errors.Is(err, services.ErrCityNotFound):
		fail(c, http.StatusNotFound, ErrCodeNotFound, "city not found")
	case errors.Is(err, services.ErrPointOfInterestNotFound):
		fail(c, http.StatusNotFound, ErrCodeNotFound, "point of interest not found")
	case errors.Is(err, services.ErrFileNotFound):
		fail(c, http.StatusNotFound, ErrCodeNotFound, "file not found")
	case errors.Is(err, services.ErrInvalidUpload):
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, services.ErrInvalidUpload.Error())
	default:
		failInternal(c, err)
	}
}
