// Package services – CityService
//
// This file implements the read-only use-cases over cities: the unpaged
// listing (v1), the filtered and paged listing (v2) and single-city lookup
// with optional points of interest.
package services

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/tbourn/cityinfo-api/internal/domain"
)

// CityService serves city queries. It is safe for concurrent use.
type CityService struct {
	Repos RepositoryFactory
}

// NewCityService wires a CityService to a repository factory.
func NewCityService(repos RepositoryFactory) *CityService {
	return &CityService{Repos: repos}
}

// List returns all cities ordered by name.
func (s *CityService) List(ctx context.Context) ([]domain.City, error) {
	ctx, span := otel.Tracer("services/CityService").Start(ctx, "List")
	defer span.End()

	return s.Repos().ListCities(ctx)
}

// ListPage returns one filtered page of cities and its metadata. Paging
// values are expected to be clamped by the caller.
func (s *CityService) ListPage(ctx context.Context, q domain.CityQuery) ([]domain.City, domain.PaginationMetadata, error) {
	tr := otel.Tracer("services/CityService")
	ctx, span := tr.Start(ctx, "ListPage",
		trace.WithAttributes(
			attribute.String("filter.name", q.Name),
			attribute.String("filter.search", q.SearchQuery),
			attribute.Int("page", q.PageNumber),
			attribute.Int("page_size", q.PageSize),
		),
	)
	defer span.End()

	return s.Repos().ListCitiesPage(ctx, q)
}

// Get returns a city, with its points of interest when includePointsOfInterest
// is set. A missing city yields ErrCityNotFound.
func (s *CityService) Get(ctx context.Context, id int, includePointsOfInterest bool) (*domain.City, error) {
	tr := otel.Tracer("services/CityService")
	ctx, span := tr.Start(ctx, "Get",
		trace.WithAttributes(
			attribute.Int("city.id", id),
			attribute.Bool("include_poi", includePointsOfInterest),
		),
	)
	defer span.End()

	c, err := s.Repos().GetCity(ctx, id, includePointsOfInterest)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, ErrCityNotFound
	}
	return c, nil
}
