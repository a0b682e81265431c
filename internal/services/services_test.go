package services

import (
	"context"
	"errors"
	"sync"

	"github.com/stretchr/testify/mock"

	"github.com/tbourn/cityinfo-api/internal/domain"
	"github.com/tbourn/cityinfo-api/internal/repo"
)

// countingRepo wraps a Repository and records which methods were called.
type countingRepo struct {
	Repository

	mu    sync.Mutex
	calls map[string]int

	existsErr error
	commitErr error
	commitNo  bool
}

func newCountingRepo(inner Repository) *countingRepo {
	return &countingRepo{Repository: inner, calls: map[string]int{}}
}

func (c *countingRepo) hit(name string) {
	c.mu.Lock()
	c.calls[name]++
	c.mu.Unlock()
}

func (c *countingRepo) count(name string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls[name]
}

func (c *countingRepo) CityExists(ctx context.Context, id int) (bool, error) {
	c.hit("CityExists")
	if c.existsErr != nil {
		return false, c.existsErr
	}
	return c.Repository.CityExists(ctx, id)
}

func (c *countingRepo) ListPointsOfInterest(ctx context.Context, cityID int) ([]domain.PointOfInterest, error) {
	c.hit("ListPointsOfInterest")
	return c.Repository.ListPointsOfInterest(ctx, cityID)
}

func (c *countingRepo) GetPointOfInterest(ctx context.Context, cityID, id int) (*domain.PointOfInterest, error) {
	c.hit("GetPointOfInterest")
	return c.Repository.GetPointOfInterest(ctx, cityID, id)
}

func (c *countingRepo) AddPointOfInterest(ctx context.Context, cityID int, p *domain.PointOfInterest) error {
	c.hit("AddPointOfInterest")
	return c.Repository.AddPointOfInterest(ctx, cityID, p)
}

func (c *countingRepo) UpdatePointOfInterest(p *domain.PointOfInterest) {
	c.hit("UpdatePointOfInterest")
	c.Repository.UpdatePointOfInterest(p)
}

func (c *countingRepo) RemovePointOfInterest(p *domain.PointOfInterest) {
	c.hit("RemovePointOfInterest")
	c.Repository.RemovePointOfInterest(p)
}

func (c *countingRepo) Commit(ctx context.Context) (bool, error) {
	c.hit("Commit")
	if c.commitErr != nil {
		return false, c.commitErr
	}
	if c.commitNo {
		return false, nil
	}
	return c.Repository.Commit(ctx)
}

// fixture bundles a seeded memory store and a counting repository that every
// factory call returns.
type fixture struct {
	store *repo.MemoryStore
	repo  *countingRepo
}

func newFixture() *fixture {
	store := repo.NewMemoryStore(repo.SeedCities())
	return &fixture{store: store, repo: newCountingRepo(store.Session())}
}

func (f *fixture) factory() RepositoryFactory {
	return func() Repository {
		// Fresh session per call, shared counters.
		f.repo.Repository = f.store.Session()
		return f.repo
	}
}

// mockNotifier is a testify mock for Notifier.
type mockNotifier struct {
	mock.Mock
}

func (m *mockNotifier) Send(ctx context.Context, subject, message string) error {
	args := m.Called(ctx, subject, message)
	return args.Error(0)
}

type panicNotifier struct{}

func (panicNotifier) Send(context.Context, string, string) error { panic("mail server exploded") }

var errStore = errors.New("store unavailable")
