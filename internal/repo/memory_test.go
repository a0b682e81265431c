package repo

import (
	"context"
	"sync"
	"testing"

	"github.com/tbourn/cityinfo-api/internal/domain"
)

func TestMemoryStore_SeedAssignsIDs(t *testing.T) {
	s := NewMemoryStore(SeedCities())
	sess := s.Session()
	ctx := context.Background()

	cities, err := sess.ListCities(ctx)
	if err != nil || len(cities) != 6 {
		t.Fatalf("ListCities: %v %v", cities, err)
	}
	if cities[0].Name != "Antwerp" || cities[5].Name != "Tokyo" {
		t.Fatalf("cities must be ordered by name: %v", cities)
	}

	// New York City is the first seeded city.
	nyc, _ := sess.GetCity(ctx, 1, true)
	if nyc == nil || nyc.Name != "New York City" || len(nyc.PointsOfInterest) != 2 {
		t.Fatalf("unexpected city 1: %+v", nyc)
	}
	for _, p := range nyc.PointsOfInterest {
		if p.CityID != 1 || p.ID == 0 {
			t.Fatalf("seeded point of interest not linked: %+v", p)
		}
	}
	if c, _ := sess.GetCity(ctx, 1, false); c.PointsOfInterest != nil {
		t.Fatalf("points of interest must only be attached on request")
	}
}

func TestMemorySession_ListCitiesPage(t *testing.T) {
	sess := NewMemoryStore(SeedCities()).Session()
	ctx := context.Background()

	items, meta, _ := sess.ListCitiesPage(ctx, domain.CityQuery{PageNumber: 2, PageSize: 4})
	if len(items) != 2 || items[0].Name != "Paris" || meta.TotalPageCount != 2 || meta.TotalItemCount != 6 {
		t.Fatalf("page 2: %v %+v", items, meta)
	}

	items, meta, _ = sess.ListCitiesPage(ctx, domain.CityQuery{SearchQuery: " capital ", PageNumber: 1, PageSize: 10})
	if len(items) != 2 || meta.TotalItemCount != 2 {
		t.Fatalf("search: %v %+v", items, meta)
	}

	items, _, _ = sess.ListCitiesPage(ctx, domain.CityQuery{Name: "Dubai", PageNumber: 1, PageSize: 10})
	if len(items) != 1 || items[0].Name != "Dubai" {
		t.Fatalf("exact name: %v", items)
	}

	items, meta, _ = sess.ListCitiesPage(ctx, domain.CityQuery{PageNumber: 9, PageSize: 10})
	if len(items) != 0 || meta.TotalItemCount != 6 {
		t.Fatalf("past end: %v %+v", items, meta)
	}
}

func TestMemorySession_UnitOfWork(t *testing.T) {
	store := NewMemoryStore(SeedCities())
	ctx := context.Background()

	s1 := store.Session()
	poi := &domain.PointOfInterest{Name: "Burj Khalifa"}
	if err := s1.AddPointOfInterest(ctx, 6, poi); err != nil {
		t.Fatalf("add: %v", err)
	}
	if list, _ := store.Session().ListPointsOfInterest(ctx, 6); len(list) != 0 {
		t.Fatalf("pending add visible before commit")
	}
	if ok, err := s1.Commit(ctx); !ok || err != nil {
		t.Fatalf("commit add: %v %v", ok, err)
	}
	if poi.ID != 7 || poi.CityID != 6 {
		t.Fatalf("expected id 7 in city 6, got %+v", poi)
	}

	s2 := store.Session()
	got, _ := s2.GetPointOfInterest(ctx, 6, poi.ID)
	got.Name = "Burj"
	s2.UpdatePointOfInterest(got)
	if ok, _ := s2.Commit(ctx); !ok {
		t.Fatalf("commit update reported no change")
	}
	if again, _ := s2.GetPointOfInterest(ctx, 6, poi.ID); again.Name != "Burj" {
		t.Fatalf("update not applied: %+v", again)
	}
	if wrong, _ := s2.GetPointOfInterest(ctx, 1, poi.ID); wrong != nil {
		t.Fatalf("point of interest visible through the wrong city")
	}

	s3 := store.Session()
	s3.RemovePointOfInterest(got)
	if ok, _ := s3.Commit(ctx); !ok {
		t.Fatalf("commit remove reported no change")
	}
	// Removing again affects nothing.
	s3.RemovePointOfInterest(got)
	if ok, _ := s3.Commit(ctx); ok {
		t.Fatalf("second remove must report false")
	}

	// Missing city: add is a no-op.
	s4 := store.Session()
	_ = s4.AddPointOfInterest(ctx, 99, &domain.PointOfInterest{Name: "x"})
	if ok, _ := s4.Commit(ctx); ok {
		t.Fatalf("add to missing city must not commit")
	}
}

func TestMemorySession_CommitHonorsCancelledContext(t *testing.T) {
	s := NewMemoryStore(SeedCities()).Session()
	s.RemovePointOfInterest(&domain.PointOfInterest{ID: 1, CityID: 1})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if ok, err := s.Commit(ctx); ok || err == nil {
		t.Fatalf("expected context error, got ok=%v err=%v", ok, err)
	}
}

func TestMemoryStore_ConcurrentSessions(t *testing.T) {
	store := NewMemoryStore(SeedCities())
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s := store.Session()
			_ = s.AddPointOfInterest(ctx, 4, &domain.PointOfInterest{Name: "Tower Bridge"})
			_, _ = s.Commit(ctx)
		}()
	}
	wg.Wait()

	list, _ := store.Session().ListPointsOfInterest(ctx, 4)
	if len(list) != 20 {
		t.Fatalf("expected 20 points of interest, got %d", len(list))
	}
	seen := map[int]bool{}
	for _, p := range list {
		if seen[p.ID] {
			t.Fatalf("duplicate id %d", p.ID)
		}
		seen[p.ID] = true
	}
}
