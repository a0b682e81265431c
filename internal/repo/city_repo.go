// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides CityInfoRepository, a request-scoped
// unit of work over cities and points of interest.
//
// Reads go straight to the database. Writes are queued with
// AddPointOfInterest, UpdatePointOfInterest and RemovePointOfInterest and
// become durable only when Commit applies them in a single transaction.
package repo

import (
	"context"
	"errors"
	"strings"
	"sync"

	"gorm.io/gorm"

	"github.com/tbourn/cityinfo-api/internal/domain"
)

// ErrNotFound is GORM's record-not-found sentinel, re-exported for callers.
var ErrNotFound = gorm.ErrRecordNotFound

// likeEscaper makes a search term match literally inside LIKE ... ESCAPE '!'.
// '!' is used because a backslash needs extra quoting on MySQL.
var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

type changeKind int

const (
	changeAdd changeKind = iota
	changeUpdate
	changeRemove
)

type change struct {
	kind changeKind
	poi  *domain.PointOfInterest
}

// CityInfoRepository is a unit of work bound to one GORM handle. Create one
// per request with NewCityInfoRepository; instances are not meant to be
// shared across requests.
type CityInfoRepository struct {
	db *gorm.DB

	mu      sync.Mutex
	pending []change
}

// NewCityInfoRepository returns an empty unit of work over db.
func NewCityInfoRepository(db *gorm.DB) *CityInfoRepository {
	return &CityInfoRepository{db: db}
}

// ListCities returns all cities ordered by name.
func (r *CityInfoRepository) ListCities(ctx context.Context) ([]domain.City, error) {
	var out []domain.City
	err := r.db.WithContext(ctx).Order("name ASC").Find(&out).Error
	return out, err
}

// ListCitiesPage applies q's filters, counts the filtered set and returns the
// requested page ordered by name together with its metadata.
func (r *CityInfoRepository) ListCitiesPage(ctx context.Context, q domain.CityQuery) ([]domain.City, domain.PaginationMetadata, error) {
	filtered := func() *gorm.DB {
		tx := r.db.WithContext(ctx).Model(&domain.City{})
		if name := strings.TrimSpace(q.Name); name != "" {
			tx = tx.Where("name = ?", name)
		}
		if s := strings.TrimSpace(q.SearchQuery); s != "" {
			like := "%" + likeEscaper.Replace(s) + "%"
			tx = tx.Where("(name LIKE ? ESCAPE '!' OR (description IS NOT NULL AND description LIKE ? ESCAPE '!'))", like, like)
		}
		return tx
	}

	var total int64
	if err := filtered().Count(&total).Error; err != nil {
		return nil, domain.PaginationMetadata{}, err
	}

	var out []domain.City
	err := filtered().
		Order("name ASC").
		Offset(q.PageSize * (q.PageNumber - 1)).
		Limit(q.PageSize).
		Find(&out).Error
	if err != nil {
		return nil, domain.PaginationMetadata{}, err
	}
	return out, domain.NewPaginationMetadata(int(total), q.PageSize, q.PageNumber), nil
}

// GetCity fetches a city by id, preloading its points of interest when
// includePointsOfInterest is set. A missing city yields (nil, nil).
func (r *CityInfoRepository) GetCity(ctx context.Context, id int, includePointsOfInterest bool) (*domain.City, error) {
	tx := r.db.WithContext(ctx)
	if includePointsOfInterest {
		tx = tx.Preload("PointsOfInterest")
	}
	var c domain.City
	if err := tx.Where("id = ?", id).First(&c).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}

// CityExists reports whether a city with id exists.
func (r *CityInfoRepository) CityExists(ctx context.Context, id int) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&domain.City{}).Where("id = ?", id).Limit(1).Count(&n).Error
	return n > 0, err
}

// ListPointsOfInterest returns the points of interest of a city. Order is
// unspecified.
func (r *CityInfoRepository) ListPointsOfInterest(ctx context.Context, cityID int) ([]domain.PointOfInterest, error) {
	var out []domain.PointOfInterest
	err := r.db.WithContext(ctx).Where("city_id = ?", cityID).Find(&out).Error
	return out, err
}

// GetPointOfInterest fetches a point of interest owned by cityID. A missing
// row, or one that belongs to another city, yields (nil, nil).
func (r *CityInfoRepository) GetPointOfInterest(ctx context.Context, cityID, poiID int) (*domain.PointOfInterest, error) {
	var p domain.PointOfInterest
	err := r.db.WithContext(ctx).Where("city_id = ? AND id = ?", cityID, poiID).First(&p).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

// AddPointOfInterest loads the city and, when present, attaches poi to it as
// a pending insert. The id is assigned on Commit.
func (r *CityInfoRepository) AddPointOfInterest(ctx context.Context, cityID int, poi *domain.PointOfInterest) error {
	city, err := r.GetCity(ctx, cityID, false)
	if err != nil {
		return err
	}
	if city == nil {
		return nil
	}
	poi.CityID = city.ID
	r.enqueue(changeAdd, poi)
	return nil
}

// UpdatePointOfInterest marks poi as modified.
func (r *CityInfoRepository) UpdatePointOfInterest(poi *domain.PointOfInterest) {
	r.enqueue(changeUpdate, poi)
}

// RemovePointOfInterest marks poi for deletion.
func (r *CityInfoRepository) RemovePointOfInterest(poi *domain.PointOfInterest) {
	r.enqueue(changeRemove, poi)
}

func (r *CityInfoRepository) enqueue(k changeKind, poi *domain.PointOfInterest) {
	r.mu.Lock()
	r.pending = append(r.pending, change{kind: k, poi: poi})
	r.mu.Unlock()
}

// Commit applies all pending changes in one transaction and reports whether
// at least one row was affected. Store errors roll the transaction back and
// are returned as-is. The pending list is cleared either way.
func (r *CityInfoRepository) Commit(ctx context.Context) (bool, error) {
	r.mu.Lock()
	pending := r.pending
	r.pending = nil
	r.mu.Unlock()

	if len(pending) == 0 {
		return false, nil
	}

	var affected int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, ch := range pending {
			var res *gorm.DB
			switch ch.kind {
			case changeAdd:
				res = tx.Create(ch.poi)
			case changeUpdate:
				res = tx.Model(&domain.PointOfInterest{}).
					Where("id = ? AND city_id = ?", ch.poi.ID, ch.poi.CityID).
					Updates(map[string]any{
						"name":        ch.poi.Name,
						"description": ch.poi.Description,
					})
			case changeRemove:
				res = tx.Where("id = ? AND city_id = ?", ch.poi.ID, ch.poi.CityID).
					Delete(&domain.PointOfInterest{})
			}
			if res.Error != nil {
				return res.Error
			}
			affected += res.RowsAffected
		}
		return nil
	})
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}
