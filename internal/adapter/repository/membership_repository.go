package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/classhub-team/classhub/internal/domain/entities"
	"github.com/classhub-team/classhub/internal/domain/repositories"
)

// membershipRepository implements the MembershipRepository interface
type membershipRepository struct {
	db *gorm.DB
}

// NewMembershipRepository creates a new membership repository
func NewMembershipRepository(db *gorm.DB) repositories.MembershipRepository {
	return &membershipRepository{db: db}
}

// Create creates a new membership
func (r *membershipRepository) Create(ctx context.Context, membership *entities.Membership) error {
	return r.db.WithContext(ctx).Create(membership).Error
}

// FindByID retrieves a membership by its ID
func (r *membershipRepository) FindByID(ctx context.Context, id uuid.UUID) (*entities.Membership, error) {
	var membership entities.Membership
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("id = ?", id).
		First(&membership).Error

	if err != nil {
		return nil, err
	}
	return &membership, nil
}

// FindByHubAndUser retrieves a membership for a user in a hub
func (r *membershipRepository) FindByHubAndUser(ctx context.Context, hubID, userID uuid.UUID) (*entities.Membership, error) {
	var membership entities.Membership
	err := r.db.WithContext(ctx).
		Where("hub_id = ? AND user_id = ?", hubID, userID).
		First(&membership).Error

	if err != nil {
		return nil, err
	}
	return &membership, nil
}

// Update updates an existing membership
func (r *membershipRepository) Update(ctx context.Context, membership *entities.Membership) error {
	return r.db.WithContext(ctx).Save(membership).Error
}

// ListByHub retrieves all memberships in a hub
func (r *membershipRepository) ListByHub(ctx context.Context, hubID uuid.UUID, activeOnly bool) ([]*entities.Membership, error) {
	var memberships []*entities.Membership
	query := r.db.WithContext(ctx).
		Preload("User").
		Where("hub_id = ?", hubID).
		Order("joined_at ASC")

	if activeOnly {
		query = query.Where("status = ?", entities.MembershipStatusActive)
	}

	err := query.Find(&memberships).Error
	return memberships, err
}

// ListByUser retrieves all memberships of a user
func (r *membershipRepository) ListByUser(ctx context.Context, userID uuid.UUID, activeOnly bool) ([]*entities.Membership, error) {
	var memberships []*entities.Membership
	query := r.db.WithContext(ctx).
		Preload("Hub").
		Preload("Hub.Teacher").
		Where("user_id = ?", userID).
		Order("joined_at DESC")

	if activeOnly {
		query = query.Where("status = ?", entities.MembershipStatusActive)
	}

	err := query.Find(&memberships).Error
	return memberships, err
}

// CountActiveByHub counts active members in a hub
func (r *membershipRepository) CountActiveByHub(ctx context.Context, hubID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&entities.Membership{}).
		Where("hub_id = ? AND status = ?", hubID, entities.MembershipStatusActive).
		Count(&count).Error
	return count, err
}
