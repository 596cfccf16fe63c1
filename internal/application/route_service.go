package application

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/transit-planner/service-route/internal/common/domain"
	locationDomain "github.com/transit-planner/service-route/internal/domain/location"
	"github.com/transit-planner/service-route/internal/domain/route"
	"github.com/transit-planner/service-route/internal/metrics"
)

// DefaultLookupWorkers bounds the concurrent endpoint lookups of one search.
const DefaultLookupWorkers = 3

// SearchRequest is the request DTO for a route search.
type SearchRequest struct {
	OriginLocationCode      string    `json:"origin_location_code" binding:"required"`
	DestinationLocationCode string    `json:"destination_location_code" binding:"required"`
	TravelInstant           time.Time `json:"travel_instant" binding:"required"`
}

// RouteServiceConfig holds the tunables of RouteService.
type RouteServiceConfig struct {
	// Zone decides which weekday an instant falls on. Nil means time.Local.
	Zone          *time.Location
	LookupWorkers int
}

// RouteService answers itinerary searches.
type RouteService struct {
	locations route.LocationDirectory
	policy    *route.CandidatePolicy
	finder    route.RouteFinder
	zone      *time.Location
	workers   int
	tracer    trace.Tracer
	logger    *zap.Logger
}

// NewRouteService creates a new RouteService.
func NewRouteService(
	locations route.LocationDirectory,
	catalog route.TransportationCatalog,
	finder route.RouteFinder,
	cfg RouteServiceConfig,
	logger *zap.Logger,
) *RouteService {
	zone := cfg.Zone
	if zone == nil {
		zone = time.Local
	}
	workers := cfg.LookupWorkers
	if workers <= 0 {
		workers = DefaultLookupWorkers
	}
	return &RouteService{
		locations: locations,
		policy:    route.NewCandidatePolicy(catalog),
		finder:    finder,
		zone:      zone,
		workers:   workers,
		tracer:    otel.Tracer("service-route/application"),
		logger:    logger,
	}
}

// SearchRoutes returns every itinerary of one to three legs, at least one of
// them a flight, from the origin to the destination on the travel day.
// An empty slice is a successful answer.
func (s *RouteService) SearchRoutes(ctx context.Context, req SearchRequest) ([]RouteDTO, error) {
	started := time.Now()
	originCode := locationDomain.NormalizeCode(req.OriginLocationCode)
	destinationCode := locationDomain.NormalizeCode(req.DestinationLocationCode)

	ctx, span := s.tracer.Start(ctx, "RouteService.SearchRoutes", trace.WithAttributes(
		attribute.String("route.origin", originCode),
		attribute.String("route.destination", destinationCode),
	))
	defer span.End()

	routes, err := s.search(ctx, span, originCode, destinationCode, req.TravelInstant)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		metrics.ObserveSearch(outcomeOf(err), started)
		if domain.KindOf(err) == domain.KindUnavailable {
			s.logger.Error("route search failed",
				zap.String("origin", originCode),
				zap.String("destination", destinationCode),
				zap.Error(err),
			)
		}
		return nil, err
	}

	outcome := metrics.OutcomeFound
	if len(routes) == 0 {
		outcome = metrics.OutcomeEmpty
	}
	metrics.ObserveSearch(outcome, started)
	metrics.RoutesReturned.Observe(float64(len(routes)))
	span.SetAttributes(attribute.Int("route.results", len(routes)))

	s.logger.Debug("route search completed",
		zap.String("origin", originCode),
		zap.String("destination", destinationCode),
		zap.Int("routes", len(routes)),
		zap.Duration("elapsed", time.Since(started)),
	)
	return toRouteDTOs(routes), nil
}

func (s *RouteService) search(ctx context.Context, span trace.Span, originCode, destinationCode string, instant time.Time) ([]route.Route, error) {
	if originCode == "" || destinationCode == "" {
		return nil, domain.NewValidationError("origin and destination location codes are required")
	}
	if originCode == destinationCode {
		return nil, domain.NewValidationError("origin and destination location codes cannot be the same")
	}
	if instant.IsZero() {
		return nil, domain.NewValidationError("travel instant is required")
	}

	origin, destination, err := s.resolveEndpoints(ctx, originCode, destinationCode)
	if err != nil {
		return nil, err
	}

	day := route.OperatingDay(instant, s.zone)
	span.SetAttributes(attribute.String("route.day", day.String()))

	sc, err := s.policy.Collect(ctx, origin, destination, day)
	if err != nil {
		return nil, domain.NewUnavailableError("failed to load transportations", err)
	}
	metrics.RouteCandidateLegs.Observe(float64(len(sc.Candidates())))

	return s.finder.FindRoutes(sc), nil
}

// resolveEndpoints looks both codes up concurrently; both must succeed.
func (s *RouteService) resolveEndpoints(ctx context.Context, originCode, destinationCode string) (*locationDomain.Location, *locationDomain.Location, error) {
	var origin, destination *locationDomain.Location

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)
	g.Go(func() error {
		l, err := s.locations.FindByCode(gctx, originCode)
		origin = l
		return err
	})
	g.Go(func() error {
		l, err := s.locations.FindByCode(gctx, destinationCode)
		destination = l
		return err
	})

	if err := g.Wait(); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, nil, err
		}
		return nil, nil, domain.NewUnavailableError("failed to resolve locations", err)
	}
	return origin, destination, nil
}

func outcomeOf(err error) string {
	switch domain.KindOf(err) {
	case domain.KindValidation:
		return metrics.OutcomeInvalid
	case domain.KindNotFound:
		return metrics.OutcomeNotFound
	default:
		return metrics.OutcomeUnavailable
	}
}
