package repository

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/transit-planner/service-route/internal/common/cache"
	locationDomain "github.com/transit-planner/service-route/internal/domain/location"
	transportDomain "github.com/transit-planner/service-route/internal/domain/transportation"
)

// Cache scopes. Transportation snapshots embed their endpoints, so any
// location write also retires the transportation scope.
const (
	LocationCachePrefix       = "locations:"
	TransportationCachePrefix = "transportations:"
)

// CachedLocationRepository serves FindByCode through the cache. Misses, including
// not-found results, go to the wrapped repository and are never cached as absent,
// so creating a location has nothing to evict.
type CachedLocationRepository struct {
	locationDomain.LocationRepository
	memo *cache.Memoizer
}

// NewCachedLocationRepository wraps inner with a read-through cache.
func NewCachedLocationRepository(inner locationDomain.LocationRepository, memo *cache.Memoizer) *CachedLocationRepository {
	return &CachedLocationRepository{LocationRepository: inner, memo: memo}
}

func locationCodeKey(code string) string {
	return LocationCachePrefix + "code:" + code
}

// FindByCode implements LocationRepository.
func (r *CachedLocationRepository) FindByCode(ctx context.Context, code string) (*locationDomain.Location, error) {
	snap, err := cache.Memoize(ctx, r.memo, locationCodeKey(code), func(ctx context.Context) (locationDomain.Snapshot, error) {
		loc, err := r.LocationRepository.FindByCode(ctx, code)
		if err != nil {
			return locationDomain.Snapshot{}, err
		}
		return loc.ToSnapshot(), nil
	})
	if err != nil {
		return nil, err
	}
	return locationDomain.FromSnapshot(snap), nil
}

// Update implements LocationRepository. Cached lookups of both the previous
// and the new code, and every transportation entry, are retired.
func (r *CachedLocationRepository) Update(ctx context.Context, loc *locationDomain.Location) error {
	if err := r.LocationRepository.Update(ctx, loc); err != nil {
		return err
	}
	r.InvalidateAll(ctx)
	r.memo.InvalidateScope(ctx, TransportationCachePrefix)
	return nil
}

// Delete implements LocationRepository.
func (r *CachedLocationRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if err := r.LocationRepository.Delete(ctx, id); err != nil {
		return err
	}
	r.InvalidateAll(ctx)
	r.memo.InvalidateScope(ctx, TransportationCachePrefix)
	return nil
}

// InvalidateAll drops every cached location entry.
func (r *CachedLocationRepository) InvalidateAll(ctx context.Context) {
	r.memo.InvalidateScope(ctx, LocationCachePrefix)
}

// CachedTransportationRepository serves the three search queries through the
// cache. Every write drops all cached transportation entries.
type CachedTransportationRepository struct {
	transportDomain.TransportationRepository
	memo *cache.Memoizer
}

// NewCachedTransportationRepository wraps inner with a read-through cache.
func NewCachedTransportationRepository(inner transportDomain.TransportationRepository, memo *cache.Memoizer) *CachedTransportationRepository {
	return &CachedTransportationRepository{TransportationRepository: inner, memo: memo}
}

func codeList(codes []string) string {
	sorted := slices.Clone(codes)
	slices.Sort(sorted)
	return strings.Join(slices.Compact(sorted), ",")
}

func (r *CachedTransportationRepository) memoize(
	ctx context.Context,
	key string,
	load func(ctx context.Context) ([]*transportDomain.Transportation, error),
) ([]*transportDomain.Transportation, error) {
	snaps, err := cache.Memoize(ctx, r.memo, key, func(ctx context.Context) ([]transportDomain.Snapshot, error) {
		legs, err := load(ctx)
		if err != nil {
			return nil, err
		}
		return transportDomain.ToSnapshots(legs), nil
	})
	if err != nil {
		return nil, err
	}
	return transportDomain.FromSnapshots(snaps), nil
}

// FindFlightsBetweenCountries implements TransportationRepository.
func (r *CachedTransportationRepository) FindFlightsBetweenCountries(
	ctx context.Context,
	originCountry, destinationCountry string,
	day time.Weekday,
) ([]*transportDomain.Transportation, error) {
	key := fmt.Sprintf("%sflights:%s:%s:%d", TransportationCachePrefix, originCountry, destinationCountry, day)
	return r.memoize(ctx, key, func(ctx context.Context) ([]*transportDomain.Transportation, error) {
		return r.TransportationRepository.FindFlightsBetweenCountries(ctx, originCountry, destinationCountry, day)
	})
}

// FindFromLocationToCodes implements TransportationRepository.
func (r *CachedTransportationRepository) FindFromLocationToCodes(
	ctx context.Context,
	originCode string,
	destinationCodes []string,
	day time.Weekday,
) ([]*transportDomain.Transportation, error) {
	key := fmt.Sprintf("%sfrom:%s:%s:%d", TransportationCachePrefix, originCode, codeList(destinationCodes), day)
	return r.memoize(ctx, key, func(ctx context.Context) ([]*transportDomain.Transportation, error) {
		return r.TransportationRepository.FindFromLocationToCodes(ctx, originCode, destinationCodes, day)
	})
}

// FindFromCodesToLocation implements TransportationRepository.
func (r *CachedTransportationRepository) FindFromCodesToLocation(
	ctx context.Context,
	originCodes []string,
	destinationCode string,
	day time.Weekday,
) ([]*transportDomain.Transportation, error) {
	key := fmt.Sprintf("%sto:%s:%s:%d", TransportationCachePrefix, codeList(originCodes), destinationCode, day)
	return r.memoize(ctx, key, func(ctx context.Context) ([]*transportDomain.Transportation, error) {
		return r.TransportationRepository.FindFromCodesToLocation(ctx, originCodes, destinationCode, day)
	})
}

// Save implements TransportationRepository.
func (r *CachedTransportationRepository) Save(ctx context.Context, t *transportDomain.Transportation) error {
	if err := r.TransportationRepository.Save(ctx, t); err != nil {
		return err
	}
	r.InvalidateAll(ctx)
	return nil
}

// Update implements TransportationRepository.
func (r *CachedTransportationRepository) Update(ctx context.Context, t *transportDomain.Transportation) error {
	if err := r.TransportationRepository.Update(ctx, t); err != nil {
		return err
	}
	r.InvalidateAll(ctx)
	return nil
}

// Delete implements TransportationRepository.
func (r *CachedTransportationRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if err := r.TransportationRepository.Delete(ctx, id); err != nil {
		return err
	}
	r.InvalidateAll(ctx)
	return nil
}

// InvalidateAll drops every cached transportation query.
func (r *CachedTransportationRepository) InvalidateAll(ctx context.Context) {
	r.memo.InvalidateScope(ctx, TransportationCachePrefix)
}

var (
	_ locationDomain.LocationRepository        = (*CachedLocationRepository)(nil)
	_ transportDomain.TransportationRepository = (*CachedTransportationRepository)(nil)
)
