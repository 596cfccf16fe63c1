package location

import (
	"context"

	"github.com/google/uuid"
)

// LocationRepository defines the persistence contract for locations.
type LocationRepository interface {
	// FindByID retrieves a location by its identifier.
	FindByID(ctx context.Context, id uuid.UUID) (*Location, error)

	// FindByCode retrieves a location by its unique code.
	// Returns a not-found domain error when no location has that code.
	FindByCode(ctx context.Context, code string) (*Location, error)

	// List retrieves locations ordered by code with pagination.
	List(ctx context.Context, page, limit int) ([]*Location, int64, error)

	// ListCodes retrieves location codes ordered alphabetically with pagination.
	ListCodes(ctx context.Context, page, limit int) ([]string, int64, error)

	// Save persists a new location.
	Save(ctx context.Context, location *Location) error

	// Update persists changes to an existing location.
	Update(ctx context.Context, location *Location) error

	// Delete removes a location.
	Delete(ctx context.Context, id uuid.UUID) error
}
