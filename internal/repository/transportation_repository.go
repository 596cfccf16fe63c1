package repository

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/transit-planner/service-route/internal/common/domain"
	locationDomain "github.com/transit-planner/service-route/internal/domain/location"
	transportDomain "github.com/transit-planner/service-route/internal/domain/transportation"
)

// TransportationModel is the GORM model for the transportations table.
type TransportationModel struct {
	ID                    uuid.UUID                         `gorm:"type:uuid;primaryKey"`
	OriginLocationID      uuid.UUID                         `gorm:"type:uuid;not null;index"`
	DestinationLocationID uuid.UUID                         `gorm:"type:uuid;not null;index"`
	TransportationType    string                            `gorm:"not null;size:20;index"`
	Origin                LocationModel                     `gorm:"foreignKey:OriginLocationID"`
	Destination           LocationModel                     `gorm:"foreignKey:DestinationLocationID"`
	OperatingDays         []TransportationOperatingDayModel `gorm:"foreignKey:TransportationID;constraint:OnDelete:CASCADE"`
	CreatedAt             time.Time                         `gorm:"not null"`
	UpdatedAt             time.Time                         `gorm:"not null"`
}

// TableName returns the table name for the GORM model.
func (TransportationModel) TableName() string {
	return "transportations"
}

// TransportationOperatingDayModel is one weekday a leg runs on.
type TransportationOperatingDayModel struct {
	TransportationID uuid.UUID `gorm:"type:uuid;primaryKey"`
	Day              int16     `gorm:"primaryKey;check:day BETWEEN 0 AND 6"`
}

// TableName returns the table name for the GORM model.
func (TransportationOperatingDayModel) TableName() string {
	return "transportation_operating_days"
}

const runsOnDay = "EXISTS (SELECT 1 FROM transportation_operating_days od WHERE od.transportation_id = transportations.id AND od.day = ?)"

// GormTransportationRepository is the GORM-based implementation of TransportationRepository.
type GormTransportationRepository struct {
	db *gorm.DB
}

// NewGormTransportationRepository creates a new GormTransportationRepository.
func NewGormTransportationRepository(db *gorm.DB) *GormTransportationRepository {
	return &GormTransportationRepository{db: db}
}

func (r *GormTransportationRepository) withRelations(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("Origin").
		Preload("Destination").
		Preload("OperatingDays")
}

// FindByID retrieves a leg by its unique identifier.
func (r *GormTransportationRepository) FindByID(ctx context.Context, id uuid.UUID) (*transportDomain.Transportation, error) {
	var model TransportationModel
	if err := r.withRelations(ctx).Where("transportations.id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("Transportation", id.String())
		}
		return nil, fmt.Errorf("failed to find transportation by ID: %w", err)
	}
	return toDomainTransportation(&model), nil
}

// List retrieves legs ordered by creation time with pagination.
func (r *GormTransportationRepository) List(ctx context.Context, page, limit int) ([]*transportDomain.Transportation, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&TransportationModel{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count transportations: %w", err)
	}

	var models []TransportationModel
	if err := r.withRelations(ctx).
		Order("created_at DESC").
		Order("id ASC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&models).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list transportations: %w", err)
	}
	return toDomainTransportations(models), total, nil
}

// FindFlightsBetweenCountries returns FLIGHT legs from originCountry to
// destinationCountry that run on day.
func (r *GormTransportationRepository) FindFlightsBetweenCountries(
	ctx context.Context,
	originCountry, destinationCountry string,
	day time.Weekday,
) ([]*transportDomain.Transportation, error) {
	var models []TransportationModel
	if err := r.withRelations(ctx).
		Joins("JOIN locations o ON o.id = transportations.origin_location_id").
		Joins("JOIN locations d ON d.id = transportations.destination_location_id").
		Where("transportations.transportation_type = ?", string(transportDomain.TypeFlight)).
		Where("o.country = ? AND d.country = ?", originCountry, destinationCountry).
		Where(runsOnDay, int(day)).
		Order("transportations.id").
		Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to find flights between countries: %w", err)
	}
	return toDomainTransportations(models), nil
}

// FindFromLocationToCodes returns legs of any type from originCode to any of
// destinationCodes that run on day.
func (r *GormTransportationRepository) FindFromLocationToCodes(
	ctx context.Context,
	originCode string,
	destinationCodes []string,
	day time.Weekday,
) ([]*transportDomain.Transportation, error) {
	if len(destinationCodes) == 0 {
		return []*transportDomain.Transportation{}, nil
	}
	var models []TransportationModel
	if err := r.withRelations(ctx).
		Joins("JOIN locations o ON o.id = transportations.origin_location_id").
		Joins("JOIN locations d ON d.id = transportations.destination_location_id").
		Where("o.location_code = ?", originCode).
		Where("d.location_code IN ?", destinationCodes).
		Where(runsOnDay, int(day)).
		Order("transportations.id").
		Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to find transportations from location: %w", err)
	}
	return toDomainTransportations(models), nil
}

// FindFromCodesToLocation returns legs of any type from any of originCodes to
// destinationCode that run on day.
func (r *GormTransportationRepository) FindFromCodesToLocation(
	ctx context.Context,
	originCodes []string,
	destinationCode string,
	day time.Weekday,
) ([]*transportDomain.Transportation, error) {
	if len(originCodes) == 0 {
		return []*transportDomain.Transportation{}, nil
	}
	var models []TransportationModel
	if err := r.withRelations(ctx).
		Joins("JOIN locations o ON o.id = transportations.origin_location_id").
		Joins("JOIN locations d ON d.id = transportations.destination_location_id").
		Where("o.location_code IN ?", originCodes).
		Where("d.location_code = ?", destinationCode).
		Where(runsOnDay, int(day)).
		Order("transportations.id").
		Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to find transportations to location: %w", err)
	}
	return toDomainTransportations(models), nil
}

// CountByLocation returns how many legs start or end at the location.
func (r *GormTransportationRepository) CountByLocation(ctx context.Context, locationID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&TransportationModel{}).
		Where("origin_location_id = ? OR destination_location_id = ?", locationID, locationID).
		Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count transportations for location: %w", err)
	}
	return count, nil
}

// CountByType returns leg counts grouped by transportation type.
func (r *GormTransportationRepository) CountByType(ctx context.Context) (map[string]int64, error) {
	type typeCount struct {
		TransportationType string
		Count              int64
	}
	var results []typeCount
	if err := r.db.WithContext(ctx).Model(&TransportationModel{}).
		Select("transportation_type, count(*) as count").
		Group("transportation_type").
		Find(&results).Error; err != nil {
		return nil, fmt.Errorf("failed to count by type: %w", err)
	}

	counts := make(map[string]int64, len(results))
	for _, tc := range results {
		counts[tc.TransportationType] = tc.Count
	}
	return counts, nil
}

// Save persists a new leg together with its operating days.
func (r *GormTransportationRepository) Save(ctx context.Context, t *transportDomain.Transportation) error {
	model := toTransportationModel(t)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(model).Error; err != nil {
			return err
		}
		return tx.Create(&model.OperatingDays).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrForeignKeyViolated) {
			return domain.NewValidationError("transportation references an unknown location")
		}
		return fmt.Errorf("failed to save transportation: %w", err)
	}
	return nil
}

// Update persists changes to an existing leg, replacing its operating days.
func (r *GormTransportationRepository) Update(ctx context.Context, t *transportDomain.Transportation) error {
	model := toTransportationModel(t)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&TransportationModel{}).
			Where("id = ?", model.ID).
			Updates(map[string]interface{}{
				"origin_location_id":      model.OriginLocationID,
				"destination_location_id": model.DestinationLocationID,
				"transportation_type":     model.TransportationType,
				"updated_at":              model.UpdatedAt,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return domain.NewNotFoundError("Transportation", model.ID.String())
		}
		if err := tx.Where("transportation_id = ?", model.ID).Delete(&TransportationOperatingDayModel{}).Error; err != nil {
			return err
		}
		return tx.Create(&model.OperatingDays).Error
	})
	if err != nil {
		if domain.KindOf(err) != "" {
			return err
		}
		if errors.Is(err, gorm.ErrForeignKeyViolated) {
			return domain.NewValidationError("transportation references an unknown location")
		}
		return fmt.Errorf("failed to update transportation: %w", err)
	}
	return nil
}

// Delete removes a leg; its operating days cascade.
func (r *GormTransportationRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&TransportationModel{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete transportation: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.NewNotFoundError("Transportation", id.String())
	}
	return nil
}

// --- Mapping functions ---

func toTransportationModel(t *transportDomain.Transportation) *TransportationModel {
	days := t.OperatingDays()
	dayModels := make([]TransportationOperatingDayModel, len(days))
	for i, d := range days {
		dayModels[i] = TransportationOperatingDayModel{TransportationID: t.ID(), Day: int16(d)}
	}
	return &TransportationModel{
		ID:                    t.ID(),
		OriginLocationID:      t.Origin().ID(),
		DestinationLocationID: t.Destination().ID(),
		TransportationType:    string(t.TransportationType()),
		OperatingDays:         dayModels,
		CreatedAt:             t.CreatedAt(),
		UpdatedAt:             t.UpdatedAt(),
	}
}

func toDomainTransportation(m *TransportationModel) *transportDomain.Transportation {
	days := make(transportDomain.OperatingDays, len(m.OperatingDays))
	for i, d := range m.OperatingDays {
		days[i] = time.Weekday(d.Day)
	}
	slices.Sort(days)

	return transportDomain.Reconstruct(
		m.ID,
		toDomainLocation(&m.Origin),
		toDomainLocation(&m.Destination),
		transportDomain.TransportationType(m.TransportationType),
		days,
		m.CreatedAt,
		m.UpdatedAt,
	)
}

func toDomainTransportations(models []TransportationModel) []*transportDomain.Transportation {
	out := make([]*transportDomain.Transportation, len(models))
	for i := range models {
		out[i] = toDomainTransportation(&models[i])
	}
	return out
}

// compile-time interface checks
var (
	_ locationDomain.LocationRepository        = (*GormLocationRepository)(nil)
	_ transportDomain.TransportationRepository = (*GormTransportationRepository)(nil)
)
