package services

import (
	"context"

	"gorm.io/gorm"

	"github.com/tbourn/cityinfo-api/internal/domain"
	"github.com/tbourn/cityinfo-api/internal/repo"
)

// Repository is a request-scoped unit of work over cities and points of
// interest. Reads hit the store directly; writes are queued until Commit.
//
// "Not found" is reported as a nil entity with a nil error. Store failures
// are returned untranslated.
type Repository interface {
	ListCities(ctx context.Context) ([]domain.City, error)
	ListCitiesPage(ctx context.Context, q domain.CityQuery) ([]domain.City, domain.PaginationMetadata, error)
	GetCity(ctx context.Context, id int, includePointsOfInterest bool) (*domain.City, error)
	CityExists(ctx context.Context, id int) (bool, error)
	ListPointsOfInterest(ctx context.Context, cityID int) ([]domain.PointOfInterest, error)
	GetPointOfInterest(ctx context.Context, cityID, poiID int) (*domain.PointOfInterest, error)
	AddPointOfInterest(ctx context.Context, cityID int, poi *domain.PointOfInterest) error
	UpdatePointOfInterest(poi *domain.PointOfInterest)
	RemovePointOfInterest(poi *domain.PointOfInterest)
	Commit(ctx context.Context) (bool, error)
}

// RepositoryFactory opens a fresh unit of work. Services call it once per
// operation.
type RepositoryFactory func() Repository

// GormRepositories returns a factory producing GORM-backed units of work.
func GormRepositories(db *gorm.DB) RepositoryFactory {
	return func() Repository { return repo.NewCityInfoRepository(db) }
}

// MemoryRepositories returns a factory producing sessions over store.
func MemoryRepositories(store *repo.MemoryStore) RepositoryFactory {
	return func() Repository { return store.Session() }
}

var (
	_ Repository = (*repo.CityInfoRepository)(nil)
	_ Repository = (*repo.MemorySession)(nil)
)
