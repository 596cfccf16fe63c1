package repository

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/transit-planner/service-route/internal/common/cache"
	"github.com/transit-planner/service-route/internal/common/domain"
	locationDomain "github.com/transit-planner/service-route/internal/domain/location"
	transportDomain "github.com/transit-planner/service-route/internal/domain/transportation"
)

type memoryStore struct {
	mu   sync.Mutex
	data map[string][]byte
}

func newMemoryStore() *memoryStore {
	return &memoryStore{data: make(map[string][]byte)}
}

func (s *memoryStore) Get(_ context.Context, key string, dest interface{}) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	raw, ok := s.data[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(raw, dest)
}

func (s *memoryStore) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = raw
	return nil
}

func (s *memoryStore) Delete(_ context.Context, keys ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, k := range keys {
		delete(s.data, k)
	}
	return nil
}

func (s *memoryStore) DeletePrefix(_ context.Context, prefix string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for k := range s.data {
		if strings.HasPrefix(k, prefix) {
			delete(s.data, k)
		}
	}
	return nil
}

func (s *memoryStore) Incr(_ context.Context, key string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	if raw, ok := s.data[key]; ok {
		if err := json.Unmarshal(raw, &n); err != nil {
			return 0, err
		}
	}
	n++
	raw, _ := json.Marshal(n)
	s.data[key] = raw
	return n, nil
}

func (s *memoryStore) has(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.data[key]
	return ok
}

type stubLocationRepo struct {
	locationDomain.LocationRepository
	byCode map[string]*locationDomain.Location
	byID   map[uuid.UUID]*locationDomain.Location
	calls  int
}

func newStubLocationRepo(locs ...*locationDomain.Location) *stubLocationRepo {
	r := &stubLocationRepo{byCode: map[string]*locationDomain.Location{}, byID: map[uuid.UUID]*locationDomain.Location{}}
	for _, l := range locs {
		r.byCode[l.Code()] = l
		r.byID[l.ID()] = l
	}
	return r
}

func (r *stubLocationRepo) FindByCode(_ context.Context, code string) (*locationDomain.Location, error) {
	r.calls++
	l, ok := r.byCode[code]
	if !ok {
		return nil, domain.NewNotFoundError("Location", code)
	}
	return l, nil
}

func (r *stubLocationRepo) FindByID(_ context.Context, id uuid.UUID) (*locationDomain.Location, error) {
	l, ok := r.byID[id]
	if !ok {
		return nil, domain.NewNotFoundError("Location", id.String())
	}
	return l, nil
}

func (r *stubLocationRepo) Update(_ context.Context, l *locationDomain.Location) error {
	return nil
}

type stubTransportationRepo struct {
	transportDomain.TransportationRepository
	flights []*transportDomain.Transportation
	calls   int
}

func (r *stubTransportationRepo) FindFlightsBetweenCountries(context.Context, string, string, time.Weekday) ([]*transportDomain.Transportation, error) {
	r.calls++
	return r.flights, nil
}

func (r *stubTransportationRepo) FindFromLocationToCodes(context.Context, string, []string, time.Weekday) ([]*transportDomain.Transportation, error) {
	r.calls++
	return nil, nil
}

func (r *stubTransportationRepo) Save(context.Context, *transportDomain.Transportation) error {
	return nil
}

func newMemo(store cache.Store) *cache.Memoizer {
	return cache.NewMemoizer(store, time.Minute, zap.NewNop())
}

func mustLocation(t *testing.T, code, country string) *locationDomain.Location {
	t.Helper()
	l, err := locationDomain.NewLocation(code+" name", country, code+" city", code)
	require.NoError(t, err)
	return l
}

func TestCachedLocationRepository_FindByCodeReadsThrough(t *testing.T) {
	ist := mustLocation(t, "IST", "TR")
	inner := newStubLocationRepo(ist)
	store := newMemoryStore()
	repo := NewCachedLocationRepository(inner, newMemo(store))
	ctx := context.Background()

	first, err := repo.FindByCode(ctx, "IST")
	require.NoError(t, err)
	second, err := repo.FindByCode(ctx, "IST")
	require.NoError(t, err)

	assert.Equal(t, 1, inner.calls)
	assert.Equal(t, ist.ID(), first.ID())
	assert.Equal(t, ist.ID(), second.ID())
	assert.Equal(t, "TR", second.Country())
	assert.True(t, store.has("locations:code:IST#0"))
}

func TestCachedLocationRepository_NotFoundIsNotCached(t *testing.T) {
	inner := newStubLocationRepo()
	store := newMemoryStore()
	repo := NewCachedLocationRepository(inner, newMemo(store))
	ctx := context.Background()

	_, err := repo.FindByCode(ctx, "NOPE")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = repo.FindByCode(ctx, "NOPE")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	assert.Equal(t, 2, inner.calls)
	assert.False(t, store.has("locations:code:NOPE#0"))
}

func TestCachedLocationRepository_UpdateEvictsOldAndNewCode(t *testing.T) {
	ist := mustLocation(t, "IST", "TR")
	inner := newStubLocationRepo(ist)
	store := newMemoryStore()
	repo := NewCachedLocationRepository(inner, newMemo(store))
	ctx := context.Background()

	_, err := repo.FindByCode(ctx, "IST")
	require.NoError(t, err)
	legs := NewCachedTransportationRepository(&stubTransportationRepo{}, repo.memo)
	_, err = legs.FindFlightsBetweenCountries(ctx, "TR", "UK", time.Monday)
	require.NoError(t, err)
	require.True(t, store.has("transportations:flights:TR:UK:1#0"))

	renamed := locationDomain.Reconstruct(ist.ID(), ist.Name(), ist.Country(), ist.City(), "ISL", ist.CreatedAt(), time.Now())
	require.NoError(t, repo.Update(ctx, renamed))

	assert.False(t, store.has("locations:code:IST#0"))
	assert.False(t, store.has("transportations:flights:TR:UK:1#0"))

	_, err = repo.FindByCode(ctx, "IST")
	require.NoError(t, err)
	assert.Equal(t, 2, inner.calls)
}

func TestCachedTransportationRepository_QueriesAreCachedUntilWrite(t *testing.T) {
	ist, lhr := mustLocation(t, "IST", "TR"), mustLocation(t, "LHR", "UK")
	days, err := transportDomain.NewOperatingDays([]int{1, 3})
	require.NoError(t, err)
	flight, err := transportDomain.NewTransportation(ist, lhr, transportDomain.TypeFlight, days)
	require.NoError(t, err)

	inner := &stubTransportationRepo{flights: []*transportDomain.Transportation{flight}}
	store := newMemoryStore()
	repo := NewCachedTransportationRepository(inner, newMemo(store))
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		got, err := repo.FindFlightsBetweenCountries(ctx, "TR", "UK", time.Monday)
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, flight.ID(), got[0].ID())
		assert.Equal(t, "LHR", got[0].Destination().Code())
		assert.True(t, got[0].OperatesOn(time.Wednesday))
	}
	assert.Equal(t, 1, inner.calls)
	assert.True(t, store.has("transportations:flights:TR:UK:1#0"))

	require.NoError(t, repo.Save(ctx, flight))
	assert.False(t, store.has("transportations:flights:TR:UK:1#0"))

	_, err = repo.FindFlightsBetweenCountries(ctx, "TR", "UK", time.Monday)
	require.NoError(t, err)
	assert.Equal(t, 2, inner.calls)
	assert.True(t, store.has("transportations:flights:TR:UK:1#1"))
}

func TestCachedTransportationRepository_KeyIgnoresCodeOrder(t *testing.T) {
	inner := &stubTransportationRepo{}
	store := newMemoryStore()
	repo := NewCachedTransportationRepository(inner, newMemo(store))
	ctx := context.Background()

	got, err := repo.FindFromLocationToCodes(ctx, "HOME", []string{"SAW", "IST"}, time.Friday)
	require.NoError(t, err)
	assert.Empty(t, got)
	_, err = repo.FindFromLocationToCodes(ctx, "HOME", []string{"IST", "SAW"}, time.Friday)
	require.NoError(t, err)

	assert.Equal(t, 1, inner.calls)
	assert.True(t, store.has("transportations:from:HOME:IST,SAW:5#0"))
}
