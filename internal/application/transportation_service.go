package application

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/transit-planner/service-route/internal/common/domain"
	locationDomain "github.com/transit-planner/service-route/internal/domain/location"
	transportDomain "github.com/transit-planner/service-route/internal/domain/transportation"
	"github.com/transit-planner/service-route/internal/events"
)

// TransportationRequest is the request DTO for creating or replacing a leg.
type TransportationRequest struct {
	OriginCode         string `json:"origin_code" binding:"required"`
	DestinationCode    string `json:"destination_code" binding:"required"`
	TransportationType string `json:"transportation_type" binding:"required"`
	OperatingDays      []int  `json:"operating_days" binding:"required,min=1,dive,min=0,max=6"`
}

// TransportationService implements transportation management use cases.
type TransportationService struct {
	repo      transportDomain.TransportationRepository
	locations locationDomain.LocationRepository
	publisher networkPublisher
	logger    *zap.Logger
}

// NewTransportationService creates a new TransportationService. producer may
// be nil, in which case no network events are published.
func NewTransportationService(
	repo transportDomain.TransportationRepository,
	locations locationDomain.LocationRepository,
	producer EventPublisher,
	source string,
	logger *zap.Logger,
) *TransportationService {
	return &TransportationService{
		repo:      repo,
		locations: locations,
		publisher: networkPublisher{producer: producer, source: source, logger: logger},
		logger:    logger,
	}
}

type legSpec struct {
	origin, destination *locationDomain.Location
	transportationType  transportDomain.TransportationType
	operatingDays       transportDomain.OperatingDays
}

func (s *TransportationService) resolve(ctx context.Context, req TransportationRequest) (legSpec, error) {
	originCode := locationDomain.NormalizeCode(req.OriginCode)
	destinationCode := locationDomain.NormalizeCode(req.DestinationCode)
	if originCode == destinationCode {
		return legSpec{}, domain.NewValidationError("origin code and destination code cannot be the same")
	}

	tt, err := transportDomain.ParseTransportationType(req.TransportationType)
	if err != nil {
		return legSpec{}, domain.NewValidationError(err.Error())
	}
	days, err := transportDomain.NewOperatingDays(req.OperatingDays)
	if err != nil {
		return legSpec{}, domain.NewValidationError(err.Error())
	}

	origin, err := s.locations.FindByCode(ctx, originCode)
	if err != nil {
		return legSpec{}, err
	}
	destination, err := s.locations.FindByCode(ctx, destinationCode)
	if err != nil {
		return legSpec{}, err
	}

	return legSpec{origin: origin, destination: destination, transportationType: tt, operatingDays: days}, nil
}

// CreateTransportation creates a leg between two existing locations.
func (s *TransportationService) CreateTransportation(ctx context.Context, req TransportationRequest) (*TransportationDTO, error) {
	spec, err := s.resolve(ctx, req)
	if err != nil {
		return nil, err
	}

	leg, err := transportDomain.NewTransportation(spec.origin, spec.destination, spec.transportationType, spec.operatingDays)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Save(ctx, leg); err != nil {
		return nil, err
	}

	s.publisher.publish(ctx, events.TransportationCreated, changedEvent(leg))
	s.logger.Info("transportation created",
		zap.String("transportation_id", leg.ID().String()),
		zap.String("origin", leg.Origin().Code()),
		zap.String("destination", leg.Destination().Code()),
		zap.String("type", leg.TransportationType().String()),
	)

	result := toTransportationDTO(leg)
	return &result, nil
}

// GetTransportation retrieves a leg by ID.
func (s *TransportationService) GetTransportation(ctx context.Context, id uuid.UUID) (*TransportationDTO, error) {
	leg, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	result := toTransportationDTO(leg)
	return &result, nil
}

// ListTransportations retrieves legs with pagination.
func (s *TransportationService) ListTransportations(ctx context.Context, page, limit int) (*domain.PaginatedResult[TransportationDTO], error) {
	legs, total, err := s.repo.List(ctx, page, limit)
	if err != nil {
		return nil, err
	}

	dtos := make([]TransportationDTO, len(legs))
	for i, l := range legs {
		dtos[i] = toTransportationDTO(l)
	}

	result := domain.NewPaginatedResult(dtos, total, page, limit)
	return &result, nil
}

// UpdateTransportation replaces a leg's endpoints, type and days.
func (s *TransportationService) UpdateTransportation(ctx context.Context, id uuid.UUID, req TransportationRequest) (*TransportationDTO, error) {
	leg, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	spec, err := s.resolve(ctx, req)
	if err != nil {
		return nil, err
	}

	if err := leg.Update(spec.origin, spec.destination, spec.transportationType, spec.operatingDays); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, leg); err != nil {
		return nil, err
	}

	s.publisher.publish(ctx, events.TransportationUpdated, changedEvent(leg))

	result := toTransportationDTO(leg)
	return &result, nil
}

// DeleteTransportation removes a leg.
func (s *TransportationService) DeleteTransportation(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.publisher.publish(ctx, events.TransportationDeleted, events.TransportationChangedEvent{
		TransportationID: id,
		OccurredAt:       time.Now().UTC(),
	})
	s.logger.Info("transportation deleted", zap.String("transportation_id", id.String()))
	return nil
}

func changedEvent(leg *transportDomain.Transportation) events.TransportationChangedEvent {
	return events.TransportationChangedEvent{
		TransportationID:   leg.ID(),
		OriginCode:         leg.Origin().Code(),
		DestinationCode:    leg.Destination().Code(),
		TransportationType: leg.TransportationType().String(),
		OperatingDays:      leg.OperatingDays().Ints(),
		OccurredAt:         time.Now().UTC(),
	}
}
