package hub

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/classhub-team/classhub/internal/domain/entities"
	"github.com/classhub-team/classhub/internal/domain/repositories"
	usecaseErrors "github.com/classhub-team/classhub/internal/usecase/errors"
)

// slugAttempts bounds retries when generated slugs collide
const slugAttempts = 5

// HubService handles hub business logic
type HubService struct {
	hubRepo        repositories.HubRepository
	membershipRepo repositories.MembershipRepository
}

// NewHubService creates a new hub service
func NewHubService(
	hubRepo repositories.HubRepository,
	membershipRepo repositories.MembershipRepository,
) *HubService {
	return &HubService{
		hubRepo:        hubRepo,
		membershipRepo: membershipRepo,
	}
}

// CreateHubInput represents input for creating a hub
type CreateHubInput struct {
	Name        string
	Description *string
	TeacherID   uuid.UUID
	Settings    map[string]interface{}
}

// CreateHub creates a new hub owned by a teacher. The teacher becomes the
// first active member.
func (s *HubService) CreateHub(ctx context.Context, input CreateHubInput) (*entities.Hub, error) {
	if len(input.Name) < 3 || len(input.Name) > 255 {
		return nil, usecaseErrors.ErrInvalidHubName
	}

	settings := entities.DefaultSettings()
	for k, v := range input.Settings {
		settings[k] = v
	}
	settingsJSON, err := json.Marshal(settings)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal settings: %w", err)
	}

	hub := &entities.Hub{
		Name:        input.Name,
		Description: input.Description,
		TeacherID:   input.TeacherID,
		Status:      entities.HubStatusActive,
		Settings:    settingsJSON,
	}

	base := slugify(input.Name)
	for attempt := 0; attempt < slugAttempts; attempt++ {
		hub.Slug = fmt.Sprintf("%s-%s", base, randomSuffix())
		if err := s.hubRepo.Create(ctx, hub); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				continue
			}
			return nil, fmt.Errorf("failed to create hub: %w", err)
		}

		membership := &entities.Membership{
			HubID:  hub.ID,
			UserID: input.TeacherID,
			Status: entities.MembershipStatusActive,
		}
		if err := s.membershipRepo.Create(ctx, membership); err != nil {
			return nil, fmt.Errorf("failed to add teacher as member: %w", err)
		}
		if err := s.hubRepo.IncrementMemberCount(ctx, hub.ID); err != nil {
			return nil, fmt.Errorf("failed to increment member count: %w", err)
		}
		return hub, nil
	}

	return nil, usecaseErrors.ErrSlugTaken
}

// GetHub retrieves a hub by ID
func (s *HubService) GetHub(ctx context.Context, hubID uuid.UUID) (*entities.Hub, error) {
	hub, err := s.hubRepo.FindByID(ctx, hubID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, usecaseErrors.ErrHubNotFound
		}
		return nil, fmt.Errorf("failed to get hub: %w", err)
	}
	return hub, nil
}

// GetHubBySlug retrieves a hub by its slug
func (s *HubService) GetHubBySlug(ctx context.Context, slug string) (*entities.Hub, error) {
	hub, err := s.hubRepo.FindBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, usecaseErrors.ErrHubNotFound
		}
		return nil, fmt.Errorf("failed to get hub: %w", err)
	}
	return hub, nil
}

// ListHubs retrieves hubs with filters
func (s *HubService) ListHubs(ctx context.Context, filters repositories.HubFilters) ([]*entities.Hub, int64, error) {
	hubs, total, err := s.hubRepo.List(ctx, filters)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list hubs: %w", err)
	}
	return hubs, total, nil
}

// ListUserHubs retrieves the hubs a user is an active member of
func (s *HubService) ListUserHubs(ctx context.Context, userID uuid.UUID) ([]*entities.Hub, error) {
	memberships, err := s.membershipRepo.ListByUser(ctx, userID, true)
	if err != nil {
		return nil, fmt.Errorf("failed to list memberships: %w", err)
	}

	hubs := make([]*entities.Hub, 0, len(memberships))
	for _, m := range memberships {
		if m.Hub != nil {
			hubs = append(hubs, m.Hub)
		}
	}
	return hubs, nil
}

// UpdateHubInput represents input for updating a hub
type UpdateHubInput struct {
	Name        *string
	Description *string
	Settings    map[string]interface{}
}

// UpdateHub updates hub metadata (teacher only)
func (s *HubService) UpdateHub(ctx context.Context, hubID, userID uuid.UUID, input UpdateHubInput) (*entities.Hub, error) {
	hub, err := s.GetHub(ctx, hubID)
	if err != nil {
		return nil, err
	}
	if hub.TeacherID != userID {
		return nil, usecaseErrors.ErrNotTeacher
	}

	if input.Name != nil {
		if len(*input.Name) < 3 || len(*input.Name) > 255 {
			return nil, usecaseErrors.ErrInvalidHubName
		}
		hub.Name = *input.Name
	}
	if input.Description != nil {
		hub.Description = input.Description
	}
	if input.Settings != nil {
		settings := map[string]interface{}{}
		if len(hub.Settings) > 0 {
			if err := json.Unmarshal(hub.Settings, &settings); err != nil {
				return nil, fmt.Errorf("failed to read settings: %w", err)
			}
		}
		for k, v := range input.Settings {
			settings[k] = v
		}
		settingsJSON, err := json.Marshal(settings)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal settings: %w", err)
		}
		hub.Settings = settingsJSON
	}

	if err := s.hubRepo.Update(ctx, hub); err != nil {
		return nil, fmt.Errorf("failed to update hub: %w", err)
	}
	return hub, nil
}

// ArchiveHub archives a hub (teacher only). Archived hubs stay readable but
// reject new posts, votes and streams.
func (s *HubService) ArchiveHub(ctx context.Context, hubID, userID uuid.UUID) error {
	hub, err := s.GetHub(ctx, hubID)
	if err != nil {
		return err
	}
	if hub.TeacherID != userID {
		return usecaseErrors.ErrNotTeacher
	}
	if hub.IsArchived() {
		return usecaseErrors.ErrHubArchived
	}

	if err := s.hubRepo.UpdateStatus(ctx, hubID, entities.HubStatusArchived); err != nil {
		return fmt.Errorf("failed to archive hub: %w", err)
	}
	return nil
}

// JoinHub adds a user to a hub by slug. Rejoining after leaving reactivates
// the old membership.
func (s *HubService) JoinHub(ctx context.Context, slug string, userID uuid.UUID) (*entities.Hub, error) {
	hub, err := s.GetHubBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if hub.IsArchived() {
		return nil, usecaseErrors.ErrHubArchived
	}

	membership, err := s.membershipRepo.FindByHubAndUser(ctx, hub.ID, userID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to get membership: %w", err)
	}

	if membership != nil {
		if membership.IsActive() {
			return nil, usecaseErrors.ErrAlreadyMember
		}
		membership.Rejoin()
		if err := s.membershipRepo.Update(ctx, membership); err != nil {
			return nil, fmt.Errorf("failed to rejoin hub: %w", err)
		}
	} else {
		membership = &entities.Membership{
			HubID:  hub.ID,
			UserID: userID,
			Status: entities.MembershipStatusActive,
		}
		if err := s.membershipRepo.Create(ctx, membership); err != nil {
			return nil, fmt.Errorf("failed to create membership: %w", err)
		}
	}

	if err := s.hubRepo.IncrementMemberCount(ctx, hub.ID); err != nil {
		return nil, fmt.Errorf("failed to increment member count: %w", err)
	}
	return hub, nil
}

// LeaveHub removes a user from a hub. Teachers cannot leave their own hub;
// they archive it instead.
func (s *HubService) LeaveHub(ctx context.Context, hubID, userID uuid.UUID) error {
	hub, err := s.GetHub(ctx, hubID)
	if err != nil {
		return err
	}
	if hub.TeacherID == userID {
		return usecaseErrors.ErrTeacherLeave
	}

	membership, err := s.membershipRepo.FindByHubAndUser(ctx, hubID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return usecaseErrors.ErrNotMember
		}
		return fmt.Errorf("failed to get membership: %w", err)
	}
	if !membership.IsActive() {
		return usecaseErrors.ErrNotMember
	}

	membership.Leave()
	if err := s.membershipRepo.Update(ctx, membership); err != nil {
		return fmt.Errorf("failed to update membership: %w", err)
	}
	if err := s.hubRepo.DecrementMemberCount(ctx, hubID); err != nil {
		return fmt.Errorf("failed to decrement member count: %w", err)
	}
	return nil
}

// GetMembers retrieves the active members of a hub
func (s *HubService) GetMembers(ctx context.Context, hubID uuid.UUID) ([]*entities.Membership, error) {
	members, err := s.membershipRepo.ListByHub(ctx, hubID, true)
	if err != nil {
		return nil, fmt.Errorf("failed to get members: %w", err)
	}
	return members, nil
}

// RequireMember verifies a user is an active member of a hub
func (s *HubService) RequireMember(ctx context.Context, hubID, userID uuid.UUID) error {
	membership, err := s.membershipRepo.FindByHubAndUser(ctx, hubID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return usecaseErrors.ErrNotMember
		}
		return fmt.Errorf("failed to get membership: %w", err)
	}
	if !membership.IsActive() {
		return usecaseErrors.ErrNotMember
	}
	return nil
}
