package application

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	locationDomain "github.com/transit-planner/service-route/internal/domain/location"
	transportDomain "github.com/transit-planner/service-route/internal/domain/transportation"
	"github.com/transit-planner/service-route/internal/events"
)

// NetworkStatsDTO holds transport network statistics for the admin dashboard.
type NetworkStatsDTO struct {
	TotalLocations       int64            `json:"total_locations"`
	TotalTransportations int64            `json:"total_transportations"`
	ByType               map[string]int64 `json:"by_type"`
}

// AdminService implements operator use cases over the whole network.
type AdminService struct {
	locations locationDomain.LocationRepository
	legs      transportDomain.TransportationRepository
	caches    []events.CacheInvalidator
	logger    *zap.Logger
}

// NewAdminService creates a new AdminService. caches are flushed by FlushCaches.
func NewAdminService(
	locations locationDomain.LocationRepository,
	legs transportDomain.TransportationRepository,
	logger *zap.Logger,
	caches ...events.CacheInvalidator,
) *AdminService {
	return &AdminService{
		locations: locations,
		legs:      legs,
		caches:    caches,
		logger:    logger,
	}
}

// GetNetworkStats returns location and leg totals, with legs grouped by type.
func (s *AdminService) GetNetworkStats(ctx context.Context) (*NetworkStatsDTO, error) {
	_, totalLocations, err := s.locations.List(ctx, 1, 1)
	if err != nil {
		return nil, fmt.Errorf("failed to count locations: %w", err)
	}

	counts, err := s.legs.CountByType(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get transportation stats: %w", err)
	}

	var total int64
	for _, c := range counts {
		total += c
	}

	return &NetworkStatsDTO{
		TotalLocations:       totalLocations,
		TotalTransportations: total,
		ByType:               counts,
	}, nil
}

// FlushCaches drops every cached lookup held by this instance.
func (s *AdminService) FlushCaches(ctx context.Context) {
	for _, c := range s.caches {
		c.InvalidateAll(ctx)
	}
	s.logger.Info("route caches flushed", zap.Int("caches", len(s.caches)))
}
