package application

import (
	"context"
	"errors"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/transit-planner/service-route/internal/common/domain"
	"github.com/transit-planner/service-route/internal/common/kafka"
	locationDomain "github.com/transit-planner/service-route/internal/domain/location"
	transportDomain "github.com/transit-planner/service-route/internal/domain/transportation"
)

var errStoreDown = errors.New("connection refused")

type fakeLocationRepo struct {
	mu      sync.Mutex
	byID    map[uuid.UUID]*locationDomain.Location
	lookups []string
	failAll bool
}

func newFakeLocationRepo(locs ...*locationDomain.Location) *fakeLocationRepo {
	r := &fakeLocationRepo{byID: map[uuid.UUID]*locationDomain.Location{}}
	for _, l := range locs {
		r.byID[l.ID()] = l
	}
	return r
}

func (r *fakeLocationRepo) FindByID(_ context.Context, id uuid.UUID) (*locationDomain.Location, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	l, ok := r.byID[id]
	if !ok {
		return nil, domain.NewNotFoundError("Location", id.String())
	}
	return l, nil
}

func (r *fakeLocationRepo) FindByCode(_ context.Context, code string) (*locationDomain.Location, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lookups = append(r.lookups, code)
	if r.failAll {
		return nil, errStoreDown
	}
	for _, l := range r.byID {
		if l.Code() == code {
			return l, nil
		}
	}
	return nil, domain.NewNotFoundError("Location", code)
}

func (r *fakeLocationRepo) List(_ context.Context, page, limit int) ([]*locationDomain.Location, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	all := make([]*locationDomain.Location, 0, len(r.byID))
	for _, l := range r.byID {
		all = append(all, l)
	}
	slices.SortFunc(all, func(a, b *locationDomain.Location) int {
		if a.Code() < b.Code() {
			return -1
		}
		if a.Code() > b.Code() {
			return 1
		}
		return 0
	})
	start := min((page-1)*limit, len(all))
	end := min(start+limit, len(all))
	return all[start:end], int64(len(all)), nil
}

func (r *fakeLocationRepo) ListCodes(ctx context.Context, page, limit int) ([]string, int64, error) {
	locs, total, err := r.List(ctx, page, limit)
	if err != nil {
		return nil, 0, err
	}
	codes := make([]string, len(locs))
	for i, l := range locs {
		codes[i] = l.Code()
	}
	return codes, total, nil
}

func (r *fakeLocationRepo) Save(_ context.Context, l *locationDomain.Location) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.byID {
		if existing.Code() == l.Code() {
			return domain.NewConflictError("location code already exists: " + l.Code())
		}
	}
	r.byID[l.ID()] = l
	return nil
}

func (r *fakeLocationRepo) Update(_ context.Context, l *locationDomain.Location) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[l.ID()] = l
	return nil
}

func (r *fakeLocationRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.byID, id)
	return nil
}

type fakeTransportationRepo struct {
	legs     map[uuid.UUID]*transportDomain.Transportation
	failWith error
	queries  int
}

func newFakeTransportationRepo(legs ...*transportDomain.Transportation) *fakeTransportationRepo {
	r := &fakeTransportationRepo{legs: map[uuid.UUID]*transportDomain.Transportation{}}
	for _, l := range legs {
		r.legs[l.ID()] = l
	}
	return r
}

func (r *fakeTransportationRepo) FindByID(_ context.Context, id uuid.UUID) (*transportDomain.Transportation, error) {
	l, ok := r.legs[id]
	if !ok {
		return nil, domain.NewNotFoundError("Transportation", id.String())
	}
	return l, nil
}

func (r *fakeTransportationRepo) List(_ context.Context, _, _ int) ([]*transportDomain.Transportation, int64, error) {
	out := make([]*transportDomain.Transportation, 0, len(r.legs))
	for _, l := range r.legs {
		out = append(out, l)
	}
	return out, int64(len(out)), nil
}

func (r *fakeTransportationRepo) filter(keep func(*transportDomain.Transportation) bool) ([]*transportDomain.Transportation, error) {
	r.queries++
	if r.failWith != nil {
		return nil, r.failWith
	}
	var out []*transportDomain.Transportation
	for _, l := range r.legs {
		if keep(l) {
			out = append(out, l)
		}
	}
	return out, nil
}

func (r *fakeTransportationRepo) FindFlightsBetweenCountries(_ context.Context, oc, dc string, day time.Weekday) ([]*transportDomain.Transportation, error) {
	return r.filter(func(l *transportDomain.Transportation) bool {
		return l.IsFlight() && l.Origin().Country() == oc && l.Destination().Country() == dc && l.OperatesOn(day)
	})
}

func (r *fakeTransportationRepo) FindFromLocationToCodes(_ context.Context, origin string, codes []string, day time.Weekday) ([]*transportDomain.Transportation, error) {
	return r.filter(func(l *transportDomain.Transportation) bool {
		return l.Origin().Code() == origin && slices.Contains(codes, l.Destination().Code()) && l.OperatesOn(day)
	})
}

func (r *fakeTransportationRepo) FindFromCodesToLocation(_ context.Context, codes []string, dest string, day time.Weekday) ([]*transportDomain.Transportation, error) {
	return r.filter(func(l *transportDomain.Transportation) bool {
		return slices.Contains(codes, l.Origin().Code()) && l.Destination().Code() == dest && l.OperatesOn(day)
	})
}

func (r *fakeTransportationRepo) CountByLocation(_ context.Context, id uuid.UUID) (int64, error) {
	var n int64
	for _, l := range r.legs {
		if l.Origin().ID() == id || l.Destination().ID() == id {
			n++
		}
	}
	return n, nil
}

func (r *fakeTransportationRepo) CountByType(_ context.Context) (map[string]int64, error) {
	if r.failWith != nil {
		return nil, r.failWith
	}
	counts := map[string]int64{}
	for _, l := range r.legs {
		counts[l.TransportationType().String()]++
	}
	return counts, nil
}

func (r *fakeTransportationRepo) Save(_ context.Context, l *transportDomain.Transportation) error {
	r.legs[l.ID()] = l
	return nil
}

func (r *fakeTransportationRepo) Update(_ context.Context, l *transportDomain.Transportation) error {
	r.legs[l.ID()] = l
	return nil
}

func (r *fakeTransportationRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := r.legs[id]; !ok {
		return domain.NewNotFoundError("Transportation", id.String())
	}
	delete(r.legs, id)
	return nil
}

type recordingPublisher struct {
	events []kafka.CloudEvent
}

func (p *recordingPublisher) PublishEvent(_ context.Context, _ string, event kafka.CloudEvent) error {
	p.events = append(p.events, event)
	return nil
}

func (p *recordingPublisher) types() []string {
	out := make([]string, len(p.events))
	for i, e := range p.events {
		out[i] = e.Type
	}
	return out
}
