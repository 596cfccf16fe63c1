package application

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/transit-planner/service-route/internal/common/domain"
	locationDomain "github.com/transit-planner/service-route/internal/domain/location"
	transportDomain "github.com/transit-planner/service-route/internal/domain/transportation"
	"github.com/transit-planner/service-route/internal/events"
)

// LocationRequest is the request DTO for creating or replacing a location.
type LocationRequest struct {
	Name    string `json:"name" binding:"required" csv:"name"`
	Country string `json:"country" binding:"required" csv:"country"`
	City    string `json:"city" binding:"required" csv:"city"`
	Code    string `json:"location_code" binding:"required,max=16" csv:"location_code"`
}

// LocationService implements location management use cases.
type LocationService struct {
	repo      locationDomain.LocationRepository
	legs      transportDomain.TransportationRepository
	publisher networkPublisher
	logger    *zap.Logger
}

// NewLocationService creates a new LocationService. producer may be nil, in
// which case no network events are published.
func NewLocationService(
	repo locationDomain.LocationRepository,
	legs transportDomain.TransportationRepository,
	producer EventPublisher,
	source string,
	logger *zap.Logger,
) *LocationService {
	return &LocationService{
		repo:      repo,
		legs:      legs,
		publisher: networkPublisher{producer: producer, source: source, logger: logger},
		logger:    logger,
	}
}

// CreateLocation creates a location. A duplicate code is a conflict.
func (s *LocationService) CreateLocation(ctx context.Context, req LocationRequest) (*LocationDTO, error) {
	loc, err := locationDomain.NewLocation(req.Name, req.Country, req.City, req.Code)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Save(ctx, loc); err != nil {
		return nil, err
	}

	s.logger.Info("location created",
		zap.String("location_id", loc.ID().String()),
		zap.String("code", loc.Code()),
	)

	result := toLocationDTO(loc)
	return &result, nil
}

// GetLocation retrieves a location by ID.
func (s *LocationService) GetLocation(ctx context.Context, id uuid.UUID) (*LocationDTO, error) {
	loc, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	result := toLocationDTO(loc)
	return &result, nil
}

// ListLocations retrieves locations ordered by code.
func (s *LocationService) ListLocations(ctx context.Context, page, limit int) (*domain.PaginatedResult[LocationDTO], error) {
	locs, total, err := s.repo.List(ctx, page, limit)
	if err != nil {
		return nil, err
	}

	dtos := make([]LocationDTO, len(locs))
	for i, l := range locs {
		dtos[i] = toLocationDTO(l)
	}

	result := domain.NewPaginatedResult(dtos, total, page, limit)
	return &result, nil
}

// ListLocationCodes retrieves location codes ordered alphabetically.
func (s *LocationService) ListLocationCodes(ctx context.Context, page, limit int) (*domain.PaginatedResult[string], error) {
	codes, total, err := s.repo.ListCodes(ctx, page, limit)
	if err != nil {
		return nil, err
	}
	result := domain.NewPaginatedResult(codes, total, page, limit)
	return &result, nil
}

// UpdateLocation replaces a location's fields.
func (s *LocationService) UpdateLocation(ctx context.Context, id uuid.UUID, req LocationRequest) (*LocationDTO, error) {
	loc, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	previousCode := loc.Code()

	if err := loc.Update(req.Name, req.Country, req.City, req.Code); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, loc); err != nil {
		return nil, err
	}

	evt := events.LocationChangedEvent{
		LocationID: loc.ID(),
		Code:       loc.Code(),
		OccurredAt: time.Now().UTC(),
	}
	if previousCode != loc.Code() {
		evt.PreviousCode = previousCode
	}
	s.publisher.publish(ctx, events.LocationUpdated, evt)

	result := toLocationDTO(loc)
	return &result, nil
}

// DeleteLocation removes a location that no leg references.
func (s *LocationService) DeleteLocation(ctx context.Context, id uuid.UUID) error {
	loc, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	inUse, err := s.legs.CountByLocation(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to check location usage: %w", err)
	}
	if inUse > 0 {
		return domain.NewConflictError(fmt.Sprintf("location %s is used by %d transportations", loc.Code(), inUse))
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.publisher.publish(ctx, events.LocationDeleted, events.LocationChangedEvent{
		LocationID: loc.ID(),
		Code:       loc.Code(),
		OccurredAt: time.Now().UTC(),
	})

	s.logger.Info("location deleted", zap.String("location_id", id.String()), zap.String("code", loc.Code()))
	return nil
}
