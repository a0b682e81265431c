package repo

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/tbourn/cityinfo-api/internal/domain"
)

// MemoryStore is a non-persistent, process-lifetime dataset. It is built
// once at startup and injected wherever a store is needed. All access goes
// through sessions obtained from Session.
type MemoryStore struct {
	mu         sync.RWMutex
	cities     map[int]domain.City
	pois       map[int]domain.PointOfInterest
	nextCityID int
	nextPOIID  int
}

// NewMemoryStore builds a store populated with seed. Ids are assigned in
// order starting at 1; ids already present on seed values are ignored.
func NewMemoryStore(seed []domain.City) *MemoryStore {
	s := &MemoryStore{
		cities: make(map[int]domain.City),
		pois:   make(map[int]domain.PointOfInterest),
	}
	for _, c := range seed {
		s.nextCityID++
		cityID := s.nextCityID
		for _, p := range c.PointsOfInterest {
			s.nextPOIID++
			p.ID = s.nextPOIID
			p.CityID = cityID
			s.pois[p.ID] = p
		}
		c.ID = cityID
		c.PointsOfInterest = nil
		s.cities[cityID] = c
	}
	return s
}

// Session returns a new unit of work over the store.
func (s *MemoryStore) Session() *MemorySession {
	return &MemorySession{store: s}
}

// MemorySession is the in-memory counterpart of CityInfoRepository with the
// same read and commit semantics. Name and search matching are
// case-sensitive.
type MemorySession struct {
	store *MemoryStore

	mu      sync.Mutex
	pending []change
}

// ListCities returns all cities ordered by name.
func (m *MemorySession) ListCities(ctx context.Context) ([]domain.City, error) {
	m.store.mu.RLock()
	defer m.store.mu.RUnlock()
	return m.store.sortedCities(func(domain.City) bool { return true }), nil
}

// ListCitiesPage filters by exact name and case-sensitive substring, then
// returns the requested page and its metadata.
func (m *MemorySession) ListCitiesPage(ctx context.Context, q domain.CityQuery) ([]domain.City, domain.PaginationMetadata, error) {
	name := strings.TrimSpace(q.Name)
	search := strings.TrimSpace(q.SearchQuery)

	m.store.mu.RLock()
	all := m.store.sortedCities(func(c domain.City) bool {
		if name != "" && c.Name != name {
			return false
		}
		if search != "" {
			inName := strings.Contains(c.Name, search)
			inDesc := c.Description != nil && strings.Contains(*c.Description, search)
			if !inName && !inDesc {
				return false
			}
		}
		return true
	})
	m.store.mu.RUnlock()

	meta := domain.NewPaginationMetadata(len(all), q.PageSize, q.PageNumber)
	start := q.PageSize * (q.PageNumber - 1)
	if start < 0 {
		start = 0
	}
	if start > len(all) {
		start = len(all)
	}
	end := len(all)
	if q.PageSize >= 0 && start+q.PageSize < end {
		end = start + q.PageSize
	}
	return all[start:end], meta, nil
}

// GetCity returns a copy of the city, or (nil, nil) when it does not exist.
func (m *MemorySession) GetCity(ctx context.Context, id int, includePointsOfInterest bool) (*domain.City, error) {
	m.store.mu.RLock()
	defer m.store.mu.RUnlock()
	c, ok := m.store.cities[id]
	if !ok {
		return nil, nil
	}
	if includePointsOfInterest {
		c.PointsOfInterest = m.store.poisOf(id)
	}
	return &c, nil
}

// CityExists reports whether a city with id exists.
func (m *MemorySession) CityExists(ctx context.Context, id int) (bool, error) {
	m.store.mu.RLock()
	defer m.store.mu.RUnlock()
	_, ok := m.store.cities[id]
	return ok, nil
}

// ListPointsOfInterest returns the points of interest owned by cityID.
func (m *MemorySession) ListPointsOfInterest(ctx context.Context, cityID int) ([]domain.PointOfInterest, error) {
	m.store.mu.RLock()
	defer m.store.mu.RUnlock()
	return m.store.poisOf(cityID), nil
}

// GetPointOfInterest returns (nil, nil) unless poiID exists and belongs to cityID.
func (m *MemorySession) GetPointOfInterest(ctx context.Context, cityID, poiID int) (*domain.PointOfInterest, error) {
	m.store.mu.RLock()
	defer m.store.mu.RUnlock()
	p, ok := m.store.pois[poiID]
	if !ok || p.CityID != cityID {
		return nil, nil
	}
	return &p, nil
}

// AddPointOfInterest queues poi for insertion under cityID. A missing city is a no-op.
func (m *MemorySession) AddPointOfInterest(ctx context.Context, cityID int, poi *domain.PointOfInterest) error {
	ok, _ := m.CityExists(ctx, cityID)
	if !ok {
		return nil
	}
	poi.CityID = cityID
	m.enqueue(changeAdd, poi)
	return nil
}

// UpdatePointOfInterest marks poi as modified.
func (m *MemorySession) UpdatePointOfInterest(poi *domain.PointOfInterest) {
	m.enqueue(changeUpdate, poi)
}

// RemovePointOfInterest marks poi for deletion.
func (m *MemorySession) RemovePointOfInterest(poi *domain.PointOfInterest) {
	m.enqueue(changeRemove, poi)
}

func (m *MemorySession) enqueue(k changeKind, poi *domain.PointOfInterest) {
	m.mu.Lock()
	m.pending = append(m.pending, change{kind: k, poi: poi})
	m.mu.Unlock()
}

// Commit applies pending changes under the store's write lock. Changes that
// reference rows which no longer exist are skipped and do not count as
// affected.
func (m *MemorySession) Commit(ctx context.Context) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	m.mu.Lock()
	pending := m.pending
	m.pending = nil
	m.mu.Unlock()

	s := m.store
	s.mu.Lock()
	defer s.mu.Unlock()

	affected := 0
	for _, ch := range pending {
		switch ch.kind {
		case changeAdd:
			if _, ok := s.cities[ch.poi.CityID]; !ok {
				continue
			}
			s.nextPOIID++
			ch.poi.ID = s.nextPOIID
			s.pois[ch.poi.ID] = *ch.poi
			affected++
		case changeUpdate:
			cur, ok := s.pois[ch.poi.ID]
			if !ok || cur.CityID != ch.poi.CityID {
				continue
			}
			s.pois[ch.poi.ID] = *ch.poi
			affected++
		case changeRemove:
			cur, ok := s.pois[ch.poi.ID]
			if !ok || cur.CityID != ch.poi.CityID {
				continue
			}
			delete(s.pois, ch.poi.ID)
			affected++
		}
	}
	return affected > 0, nil
}

// sortedCities returns the cities accepted by keep ordered by name then id.
// Callers must hold at least the read lock.
func (s *MemoryStore) sortedCities(keep func(domain.City) bool) []domain.City {
	out := make([]domain.City, 0, len(s.cities))
	for _, c := range s.cities {
		if keep(c) {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// poisOf returns the points of interest of cityID ordered by id. Callers must
// hold at least the read lock.
func (s *MemoryStore) poisOf(cityID int) []domain.PointOfInterest {
	out := []domain.PointOfInterest{}
	for _, p := range s.pois {
		if p.CityID == cityID {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
