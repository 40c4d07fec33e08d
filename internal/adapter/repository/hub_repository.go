package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/classhub-team/classhub/internal/domain/entities"
	"github.com/classhub-team/classhub/internal/domain/repositories"
)

// hubRepository implements the HubRepository interface
type hubRepository struct {
	db *gorm.DB
}

// NewHubRepository creates a new hub repository
func NewHubRepository(db *gorm.DB) repositories.HubRepository {
	return &hubRepository{db: db}
}

// Create creates a new hub
func (r *hubRepository) Create(ctx context.Context, hub *entities.Hub) error {
	return r.db.WithContext(ctx).Create(hub).Error
}

// FindByID retrieves a hub by its ID
func (r *hubRepository) FindByID(ctx context.Context, id uuid.UUID) (*entities.Hub, error) {
	var hub entities.Hub
	err := r.db.WithContext(ctx).
		Preload("Teacher").
		Where("id = ?", id).
		First(&hub).Error

	if err != nil {
		return nil, err
	}
	return &hub, nil
}

// FindBySlug retrieves a hub by its slug
func (r *hubRepository) FindBySlug(ctx context.Context, slug string) (*entities.Hub, error) {
	var hub entities.Hub
	err := r.db.WithContext(ctx).
		Preload("Teacher").
		Where("slug = ?", slug).
		First(&hub).Error

	if err != nil {
		return nil, err
	}
	return &hub, nil
}

// FindByStreamRoomName retrieves a hub by its LiveKit room name
func (r *hubRepository) FindByStreamRoomName(ctx context.Context, roomName string) (*entities.Hub, error) {
	var hub entities.Hub
	err := r.db.WithContext(ctx).
		Preload("Teacher").
		Where("stream_room_name = ?", roomName).
		First(&hub).Error

	if err != nil {
		return nil, err
	}
	return &hub, nil
}

// Update updates an existing hub
func (r *hubRepository) Update(ctx context.Context, hub *entities.Hub) error {
	return r.db.WithContext(ctx).Save(hub).Error
}

// Delete deletes a hub
func (r *hubRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&entities.Hub{}, id).Error
}

// List retrieves hubs with filters and pagination
func (r *hubRepository) List(ctx context.Context, filters repositories.HubFilters) ([]*entities.Hub, int64, error) {
	var hubs []*entities.Hub
	var total int64

	query := r.db.WithContext(ctx).Model(&entities.Hub{}).Preload("Teacher")

	if filters.Status != nil {
		query = query.Where("status = ?", *filters.Status)
	}
	if filters.TeacherID != nil {
		query = query.Where("teacher_id = ?", *filters.TeacherID)
	}
	if filters.Search != "" {
		searchPattern := fmt.Sprintf("%%%s%%", filters.Search)
		query = query.Where("name ILIKE ? OR description ILIKE ?", searchPattern, searchPattern)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	sortBy := "created_at"
	if filters.SortBy != "" {
		sortBy = filters.SortBy
	}
	sortOrder := "DESC"
	if filters.SortOrder != "" {
		sortOrder = filters.SortOrder
	}
	query = query.Order(fmt.Sprintf("%s %s", sortBy, sortOrder))

	if filters.Limit > 0 {
		query = query.Limit(filters.Limit)
	}
	if filters.Offset > 0 {
		query = query.Offset(filters.Offset)
	}

	err := query.Find(&hubs).Error
	return hubs, total, err
}

// FindByTeacherID retrieves all hubs owned by a teacher
func (r *hubRepository) FindByTeacherID(ctx context.Context, teacherID uuid.UUID, limit, offset int) ([]*entities.Hub, error) {
	var hubs []*entities.Hub
	query := r.db.WithContext(ctx).
		Where("teacher_id = ?", teacherID).
		Order("created_at DESC")

	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	err := query.Find(&hubs).Error
	return hubs, err
}

// IncrementMemberCount increases the member count
func (r *hubRepository) IncrementMemberCount(ctx context.Context, hubID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&entities.Hub{}).
		Where("id = ?", hubID).
		UpdateColumn("member_count", gorm.Expr("member_count + 1")).
		Error
}

// DecrementMemberCount decreases the member count
func (r *hubRepository) DecrementMemberCount(ctx context.Context, hubID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&entities.Hub{}).
		Where("id = ? AND member_count > 0", hubID).
		UpdateColumn("member_count", gorm.Expr("member_count - 1")).
		Error
}

// UpdateStatus updates the hub status
func (r *hubRepository) UpdateStatus(ctx context.Context, hubID uuid.UUID, status entities.HubStatus) error {
	return r.db.WithContext(ctx).
		Model(&entities.Hub{}).
		Where("id = ?", hubID).
		Update("status", status).
		Error
}
