package repositories

import (
	"context"

	"github.com/classhub-team/classhub/internal/domain/entities"
	"github.com/google/uuid"
)

// MembershipRepository defines the interface for membership data access
type MembershipRepository interface {
	// Create creates a new membership
	Create(ctx context.Context, membership *entities.Membership) error

	// FindByID retrieves a membership by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*entities.Membership, error)

	// FindByHubAndUser retrieves a membership for a user in a hub
	FindByHubAndUser(ctx context.Context, hubID, userID uuid.UUID) (*entities.Membership, error)

	// Update updates an existing membership
	Update(ctx context.Context, membership *entities.Membership) error

	// ListByHub retrieves all memberships in a hub
	ListByHub(ctx context.Context, hubID uuid.UUID, activeOnly bool) ([]*entities.Membership, error)

	// ListByUser retrieves all memberships of a user
	ListByUser(ctx context.Context, userID uuid.UUID, activeOnly bool) ([]*entities.Membership, error)

	// CountActiveByHub counts active members in a hub
	CountActiveByHub(ctx context.Context, hubID uuid.UUID) (int64, error)
}
