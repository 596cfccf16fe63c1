package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/transit-planner/service-route/internal/common/domain"
	locationDomain "github.com/transit-planner/service-route/internal/domain/location"
)

// LocationModel is the GORM model for the locations table.
type LocationModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name      string    `gorm:"not null;size:255"`
	Country   string    `gorm:"not null;size:100;index"`
	City      string    `gorm:"not null;size:100"`
	Code      string    `gorm:"column:location_code;uniqueIndex;not null;size:16"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// TableName returns the table name for the GORM model.
func (LocationModel) TableName() string {
	return "locations"
}

// GormLocationRepository is the GORM-based implementation of LocationRepository.
type GormLocationRepository struct {
	db *gorm.DB
}

// NewGormLocationRepository creates a new GormLocationRepository.
func NewGormLocationRepository(db *gorm.DB) *GormLocationRepository {
	return &GormLocationRepository{db: db}
}

// FindByID retrieves a location by its unique identifier.
func (r *GormLocationRepository) FindByID(ctx context.Context, id uuid.UUID) (*locationDomain.Location, error) {
	var model LocationModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("Location", id.String())
		}
		return nil, fmt.Errorf("failed to find location by ID: %w", err)
	}
	return toDomainLocation(&model), nil
}

// FindByCode retrieves a location by its business code.
func (r *GormLocationRepository) FindByCode(ctx context.Context, code string) (*locationDomain.Location, error) {
	var model LocationModel
	if err := r.db.WithContext(ctx).Where("location_code = ?", code).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("Location", code)
		}
		return nil, fmt.Errorf("failed to find location by code: %w", err)
	}
	return toDomainLocation(&model), nil
}

// List retrieves locations ordered by code with pagination.
func (r *GormLocationRepository) List(ctx context.Context, page, limit int) ([]*locationDomain.Location, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&LocationModel{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count locations: %w", err)
	}

	var models []LocationModel
	if err := r.db.WithContext(ctx).
		Order("location_code ASC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&models).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list locations: %w", err)
	}

	locations := make([]*locationDomain.Location, len(models))
	for i := range models {
		locations[i] = toDomainLocation(&models[i])
	}
	return locations, total, nil
}

// ListCodes retrieves location codes ordered alphabetically with pagination.
func (r *GormLocationRepository) ListCodes(ctx context.Context, page, limit int) ([]string, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&LocationModel{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count locations: %w", err)
	}

	var codes []string
	if err := r.db.WithContext(ctx).
		Model(&LocationModel{}).
		Order("location_code ASC").
		Offset((page-1)*limit).
		Limit(limit).
		Pluck("location_code", &codes).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list location codes: %w", err)
	}
	return codes, total, nil
}

// Save persists a new location.
func (r *GormLocationRepository) Save(ctx context.Context, loc *locationDomain.Location) error {
	if err := r.db.WithContext(ctx).Create(toLocationModel(loc)).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.NewConflictError("location code already exists: " + loc.Code())
		}
		return fmt.Errorf("failed to save location: %w", err)
	}
	return nil
}

// Update persists changes to an existing location.
func (r *GormLocationRepository) Update(ctx context.Context, loc *locationDomain.Location) error {
	result := r.db.WithContext(ctx).
		Model(&LocationModel{}).
		Where("id = ?", loc.ID()).
		Updates(map[string]interface{}{
			"name":          loc.Name(),
			"country":       loc.Country(),
			"city":          loc.City(),
			"location_code": loc.Code(),
			"updated_at":    loc.UpdatedAt(),
		})
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return domain.NewConflictError("location code already exists: " + loc.Code())
		}
		return fmt.Errorf("failed to update location: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.NewNotFoundError("Location", loc.ID().String())
	}
	return nil
}

// Delete removes a location. Locations still referenced by a leg cannot be removed.
func (r *GormLocationRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&LocationModel{})
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrForeignKeyViolated) {
			return domain.NewConflictError("location is still used by transportations")
		}
		return fmt.Errorf("failed to delete location: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.NewNotFoundError("Location", id.String())
	}
	return nil
}

// --- Mapping functions ---

func toLocationModel(l *locationDomain.Location) *LocationModel {
	return &LocationModel{
		ID:        l.ID(),
		Name:      l.Name(),
		Country:   l.Country(),
		City:      l.City(),
		Code:      l.Code(),
		CreatedAt: l.CreatedAt(),
		UpdatedAt: l.UpdatedAt(),
	}
}

func toDomainLocation(m *LocationModel) *locationDomain.Location {
	return locationDomain.Reconstruct(m.ID, m.Name, m.Country, m.City, m.Code, m.CreatedAt, m.UpdatedAt)
}
