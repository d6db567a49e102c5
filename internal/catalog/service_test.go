// AngelaMos | 2026
// service_test.go

package catalog

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/booking-api/internal/core"
)

type fakeRepo struct {
	mu       sync.Mutex
	services map[string]*Service
	lists    int
	clock    time.Time
	// afterList runs once the listing is read, outside the lock.
	afterList func()
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		services: make(map[string]*Service),
		clock:    time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func (f *fakeRepo) Create(_ context.Context, svc *Service) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.clock = f.clock.Add(time.Second)
	svc.CreatedAt = f.clock
	svc.UpdatedAt = f.clock
	cp := *svc
	f.services[svc.ID] = &cp
	return nil
}

func (f *fakeRepo) GetByID(_ context.Context, id string) (*Service, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	svc, ok := f.services[id]
	if !ok {
		return nil, core.ErrNotFound
	}
	cp := *svc
	return &cp, nil
}

func (f *fakeRepo) ListActive(_ context.Context) ([]Service, error) {
	f.mu.Lock()
	f.lists++
	out := []Service{}
	for _, svc := range f.services {
		if svc.Active {
			out = append(out, *svc)
		}
	}
	hook := f.afterList
	f.mu.Unlock()

	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if hook != nil {
		hook()
	}
	return out, nil
}

func (f *fakeRepo) Update(_ context.Context, svc *Service) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.services[svc.ID]; !ok {
		return core.ErrNotFound
	}
	cp := *svc
	f.services[svc.ID] = &cp
	return nil
}

func (f *fakeRepo) Deactivate(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	svc, ok := f.services[id]
	if !ok {
		return core.ErrNotFound
	}
	svc.Active = false
	return nil
}

func (f *fakeRepo) Count(_ context.Context) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.services), nil
}

type fakeCache struct {
	mu          sync.Mutex
	gen         int64
	entries     map[int64][]Service
	failReads   bool
	invalidated int
}

func (c *fakeCache) GetActive(_ context.Context) ([]Service, int64, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.failReads {
		return nil, 0, false, errors.New("connection refused")
	}
	services, ok := c.entries[c.gen]
	return services, c.gen, ok, nil
}

func (c *fakeCache) SetActive(_ context.Context, gen int64, services []Service) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.entries == nil {
		c.entries = make(map[int64][]Service)
	}
	c.entries[gen] = services
	return nil
}

func (c *fakeCache) Invalidate(_ context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gen++
	c.invalidated++
	return nil
}

func TestCatalogListUsesCache(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRepo()
	cache := &fakeCache{}
	c := NewCatalog(repo, cache)

	_, err := c.Create(ctx, CreateServiceRequest{Name: "Haircut", DurationMin: 30, PriceCents: 2500})
	require.NoError(t, err)

	first, err := c.ListActive(ctx)
	require.NoError(t, err)
	second, err := c.ListActive(ctx)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, repo.lists)
}

func TestCatalogMutationsInvalidate(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRepo()
	cache := &fakeCache{}
	c := NewCatalog(repo, cache)

	svc, err := c.Create(ctx, CreateServiceRequest{Name: "Haircut", DurationMin: 30})
	require.NoError(t, err)

	_, err = c.ListActive(ctx)
	require.NoError(t, err)

	name := "Haircut Deluxe"
	_, err = c.Update(ctx, svc.ID, UpdateServiceRequest{Name: &name})
	require.NoError(t, err)

	services, err := c.ListActive(ctx)
	require.NoError(t, err)
	require.Len(t, services, 1)
	assert.Equal(t, "Haircut Deluxe", services[0].Name)

	require.NoError(t, c.Deactivate(ctx, svc.ID))

	services, err = c.ListActive(ctx)
	require.NoError(t, err)
	assert.Empty(t, services)
	assert.Equal(t, 3, cache.invalidated)
}

func TestCatalogStaleWriteBackIsNotServed(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRepo()
	cache := &fakeCache{}
	c := NewCatalog(repo, cache)

	svc, err := c.Create(ctx, CreateServiceRequest{Name: "Haircut", DurationMin: 30})
	require.NoError(t, err)

	// an admin deactivates the service between the reader's database read
	// and its cache write
	repo.afterList = func() {
		repo.afterList = nil
		require.NoError(t, c.Deactivate(ctx, svc.ID))
	}

	stale, err := c.ListActive(ctx)
	require.NoError(t, err)
	assert.Len(t, stale, 1)

	services, err := c.ListActive(ctx)
	require.NoError(t, err)
	assert.Empty(t, services)
}

func TestCatalogCacheFailsOpen(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRepo()
	c := NewCatalog(repo, &fakeCache{failReads: true})

	_, err := c.Create(ctx, CreateServiceRequest{Name: "Haircut", DurationMin: 30})
	require.NoError(t, err)

	services, err := c.ListActive(ctx)
	require.NoError(t, err)
	assert.Len(t, services, 1)
}

func TestCatalogWithoutCache(t *testing.T) {
	ctx := context.Background()
	c := NewCatalog(newFakeRepo(), nil)

	_, err := c.Create(ctx, CreateServiceRequest{Name: "Haircut", DurationMin: 30})
	require.NoError(t, err)

	services, err := c.ListActive(ctx)
	require.NoError(t, err)
	assert.Len(t, services, 1)
}

func TestCatalogCreateDefaultsActive(t *testing.T) {
	ctx := context.Background()
	c := NewCatalog(newFakeRepo(), nil)

	active, err := c.Create(ctx, CreateServiceRequest{Name: "A", DurationMin: 10})
	require.NoError(t, err)
	assert.True(t, active.Active)

	off := false
	hidden, err := c.Create(ctx, CreateServiceRequest{Name: "B", DurationMin: 10, Active: &off})
	require.NoError(t, err)
	assert.False(t, hidden.Active)

	services, err := c.ListActive(ctx)
	require.NoError(t, err)
	require.Len(t, services, 1)
	assert.Equal(t, "A", services[0].Name)
}

func TestCatalogListNewestFirst(t *testing.T) {
	ctx := context.Background()
	c := NewCatalog(newFakeRepo(), nil)

	for _, name := range []string{"first", "second", "third"} {
		_, err := c.Create(ctx, CreateServiceRequest{Name: name, DurationMin: 10})
		require.NoError(t, err)
	}

	services, err := c.ListActive(ctx)
	require.NoError(t, err)
	require.Len(t, services, 3)
	assert.Equal(t, "third", services[0].Name)
	assert.Equal(t, "first", services[2].Name)
}

func TestCatalogUpdateMissing(t *testing.T) {
	c := NewCatalog(newFakeRepo(), nil)
	_, err := c.Update(context.Background(), "nope", UpdateServiceRequest{})
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestCatalogSeedDefaults(t *testing.T) {
	ctx := context.Background()
	c := NewCatalog(newFakeRepo(), nil)

	n, err := c.SeedDefaults(ctx, DefaultServices)
	require.NoError(t, err)
	assert.Equal(t, len(DefaultServices), n)

	n, err = c.SeedDefaults(ctx, DefaultServices)
	require.NoError(t, err)
	assert.Zero(t, n)

	services, err := c.ListActive(ctx)
	require.NoError(t, err)
	assert.Len(t, services, len(DefaultServices))
}
