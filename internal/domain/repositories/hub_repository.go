package repositories

import (
	"context"

	"github.com/classhub-team/classhub/internal/domain/entities"
	"github.com/google/uuid"
)

// HubRepository defines the interface for hub data access
type HubRepository interface {
	// Create creates a new hub
	Create(ctx context.Context, hub *entities.Hub) error

	// FindByID retrieves a hub by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*entities.Hub, error)

	// FindBySlug retrieves a hub by its slug
	FindBySlug(ctx context.Context, slug string) (*entities.Hub, error)

	// FindByStreamRoomName retrieves a hub by its LiveKit room name
	FindByStreamRoomName(ctx context.Context, roomName string) (*entities.Hub, error)

	// Update updates an existing hub
	Update(ctx context.Context, hub *entities.Hub) error

	// Delete deletes a hub
	Delete(ctx context.Context, id uuid.UUID) error

	// List retrieves hubs with filters and pagination
	List(ctx context.Context, filters HubFilters) ([]*entities.Hub, int64, error)

	// FindByTeacherID retrieves all hubs owned by a teacher
	FindByTeacherID(ctx context.Context, teacherID uuid.UUID, limit, offset int) ([]*entities.Hub, error)

	// IncrementMemberCount increases the member count
	IncrementMemberCount(ctx context.Context, hubID uuid.UUID) error

	// DecrementMemberCount decreases the member count
	DecrementMemberCount(ctx context.Context, hubID uuid.UUID) error

	// UpdateStatus updates the hub status
	UpdateStatus(ctx context.Context, hubID uuid.UUID, status entities.HubStatus) error
}

// HubFilters represents filter options for listing hubs
type HubFilters struct {
	Status    *entities.HubStatus
	TeacherID *uuid.UUID
	Search    string // Search in name, description
	Limit     int
	Offset    int
	SortBy    string // "created_at", "name", "member_count"
	SortOrder string // "asc", "desc"
}
