package stream

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/classhub-team/classhub/internal/domain/entities"
	"github.com/classhub-team/classhub/internal/domain/repositories"
	"github.com/classhub-team/classhub/internal/infrastructure/external/livekit"
	usecaseErrors "github.com/classhub-team/classhub/internal/usecase/errors"
	"github.com/classhub-team/classhub/pkg/config"
)

// StreamService handles hub livestream business logic. Teachers publish,
// students subscribe.
type StreamService struct {
	hubRepo          repositories.HubRepository
	membershipRepo   repositories.MembershipRepository
	notificationRepo repositories.NotificationRepository
	livekitClient    livekit.Client
	egressClient     *livekit.EgressClient
	storageCfg       *config.StorageConfig
}

// NewStreamService creates a new stream service
func NewStreamService(
	hubRepo repositories.HubRepository,
	membershipRepo repositories.MembershipRepository,
	notificationRepo repositories.NotificationRepository,
	livekitClient livekit.Client,
	egressClient *livekit.EgressClient,
	storageCfg *config.StorageConfig,
) *StreamService {
	return &StreamService{
		hubRepo:          hubRepo,
		membershipRepo:   membershipRepo,
		notificationRepo: notificationRepo,
		livekitClient:    livekitClient,
		egressClient:     egressClient,
		storageCfg:       storageCfg,
	}
}

// StartStream starts a livestream for a hub (teacher only)
func (s *StreamService) StartStream(ctx context.Context, hubID, userID uuid.UUID) (*entities.Hub, error) {
	hub, err := s.getHub(ctx, hubID)
	if err != nil {
		return nil, err
	}
	if hub.TeacherID != userID {
		return nil, usecaseErrors.ErrNotTeacher
	}
	if hub.IsArchived() {
		return nil, usecaseErrors.ErrHubArchived
	}
	if hub.IsStreaming() {
		return nil, usecaseErrors.ErrStreamAlreadyActive
	}

	roomName := fmt.Sprintf("hub-%s-%s", hub.Slug, uuid.New().String()[:8])
	if _, err := s.livekitClient.CreateRoom(ctx, roomName, nil); err != nil {
		return nil, usecaseErrors.ErrLivekitRoom
	}

	hub.StartStream(roomName)
	if err := s.hubRepo.Update(ctx, hub); err != nil {
		return nil, fmt.Errorf("failed to update hub: %w", err)
	}

	s.notifyMembers(ctx, hub, userID, entities.NotificationStreamStarted,
		"Livestream started", hub.Name+" is live now",
		map[string]interface{}{"hub_id": hub.ID, "room_name": roomName})

	return hub, nil
}

// StopStream ends a hub's livestream (teacher only). Any running recording
// is stopped first.
func (s *StreamService) StopStream(ctx context.Context, hubID, userID uuid.UUID) error {
	hub, err := s.getHub(ctx, hubID)
	if err != nil {
		return err
	}
	if hub.TeacherID != userID {
		return usecaseErrors.ErrNotTeacher
	}
	if !hub.IsStreaming() {
		return usecaseErrors.ErrStreamNotActive
	}

	if hub.EgressID != nil {
		// Recording failures should not block stream shutdown
		_ = s.egressClient.StopEgress(ctx, *hub.EgressID)
	}

	if err := s.livekitClient.DeleteRoom(ctx, *hub.StreamRoomName); err != nil {
		return usecaseErrors.ErrLivekitRoom
	}

	hub.EndStream()
	if err := s.hubRepo.Update(ctx, hub); err != nil {
		return fmt.Errorf("failed to update hub: %w", err)
	}
	return nil
}

// JoinToken holds a stream access token for a participant
type JoinToken struct {
	Token    string
	RoomName string
	CanPub   bool
}

// JoinStream issues a LiveKit token for a hub member. The teacher can
// publish; students subscribe only.
func (s *StreamService) JoinStream(ctx context.Context, hubID, userID uuid.UUID, username string) (*JoinToken, error) {
	hub, err := s.getHub(ctx, hubID)
	if err != nil {
		return nil, err
	}
	if !hub.IsStreaming() {
		return nil, usecaseErrors.ErrStreamNotActive
	}

	isTeacher := hub.TeacherID == userID
	if !isTeacher {
		membership, err := s.membershipRepo.FindByHubAndUser(ctx, hubID, userID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, usecaseErrors.ErrNotMember
			}
			return nil, fmt.Errorf("failed to get membership: %w", err)
		}
		if !membership.IsActive() {
			return nil, usecaseErrors.ErrNotMember
		}
	}

	token, err := s.livekitClient.GenerateToken(userID.String(), *hub.StreamRoomName, username, &livekit.TokenOptions{
		ValidFor:       4 * time.Hour,
		CanPublish:     isTeacher,
		CanSubscribe:   true,
		CanPublishData: true,
		RoomJoin:       true,
		RoomAdmin:      isTeacher,
	})
	if err != nil {
		return nil, usecaseErrors.ErrLivekitToken
	}

	return &JoinToken{
		Token:    token,
		RoomName: *hub.StreamRoomName,
		CanPub:   isTeacher,
	}, nil
}

// StartRecording starts an egress recording of the running stream
// (teacher only, hub setting "enable_recording" must be on)
func (s *StreamService) StartRecording(ctx context.Context, hubID, userID uuid.UUID) (string, error) {
	hub, err := s.getHub(ctx, hubID)
	if err != nil {
		return "", err
	}
	if hub.TeacherID != userID {
		return "", usecaseErrors.ErrNotTeacher
	}
	if !hub.IsStreaming() {
		return "", usecaseErrors.ErrStreamNotActive
	}
	if !recordingEnabled(hub) {
		return "", usecaseErrors.ErrRecordingDisabled
	}
	if hub.EgressID != nil {
		return "", usecaseErrors.ErrRecordingInProgress
	}

	egressID, err := s.egressClient.StartRoomCompositeEgress(
		ctx,
		*hub.StreamRoomName,
		s.storageCfg.Endpoint,
		s.storageCfg.AccessKeyID,
		s.storageCfg.SecretAccessKey,
		s.storageCfg.BucketName,
	)
	if err != nil {
		return "", fmt.Errorf("failed to start recording: %w", err)
	}

	hub.EgressID = &egressID
	if err := s.hubRepo.Update(ctx, hub); err != nil {
		return "", fmt.Errorf("failed to update hub: %w", err)
	}
	return egressID, nil
}

// StopRecording stops the running egress recording (teacher only)
func (s *StreamService) StopRecording(ctx context.Context, hubID, userID uuid.UUID) error {
	hub, err := s.getHub(ctx, hubID)
	if err != nil {
		return err
	}
	if hub.TeacherID != userID {
		return usecaseErrors.ErrNotTeacher
	}
	if hub.EgressID == nil {
		return usecaseErrors.ErrStreamNotActive
	}

	if err := s.egressClient.StopEgress(ctx, *hub.EgressID); err != nil {
		return fmt.Errorf("failed to stop recording: %w", err)
	}

	hub.EgressID = nil
	if err := s.hubRepo.Update(ctx, hub); err != nil {
		return fmt.Errorf("failed to update hub: %w", err)
	}
	return nil
}

// HandleRoomFinished reconciles hub state when LiveKit reports a room has
// closed, e.g. after the teacher disconnects
func (s *StreamService) HandleRoomFinished(ctx context.Context, roomName string) error {
	hub, err := s.hubRepo.FindByStreamRoomName(ctx, roomName)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Room unknown to us, nothing to reconcile
			return nil
		}
		return fmt.Errorf("failed to get hub: %w", err)
	}
	if !hub.IsStreaming() {
		return nil
	}

	hub.EndStream()
	if err := s.hubRepo.Update(ctx, hub); err != nil {
		return fmt.Errorf("failed to update hub: %w", err)
	}
	return nil
}

// HandleEgressEnded clears the hub's recording state when LiveKit reports
// an egress has finished writing its output
func (s *StreamService) HandleEgressEnded(ctx context.Context, roomName, egressID string) error {
	hub, err := s.hubRepo.FindByStreamRoomName(ctx, roomName)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return fmt.Errorf("failed to get hub: %w", err)
	}
	if hub.EgressID == nil || *hub.EgressID != egressID {
		return nil
	}

	hub.EgressID = nil
	if err := s.hubRepo.Update(ctx, hub); err != nil {
		return fmt.Errorf("failed to update hub: %w", err)
	}

	s.notifyMembers(ctx, hub, hub.TeacherID, entities.NotificationRecordingReady,
		"Recording saved",
		fmt.Sprintf("The recording for %s has been saved", hub.Name),
		map[string]interface{}{"hub_id": hub.ID.String(), "egress_id": egressID},
	)
	return nil
}

// Participants lists the participants of a hub's running stream
func (s *StreamService) Participants(ctx context.Context, hubID uuid.UUID) ([]*livekit.ParticipantInfo, error) {
	hub, err := s.getHub(ctx, hubID)
	if err != nil {
		return nil, err
	}
	if !hub.IsStreaming() {
		return nil, usecaseErrors.ErrStreamNotActive
	}
	return s.livekitClient.ListParticipants(ctx, *hub.StreamRoomName)
}

// getHub loads a hub, mapping gorm's not-found error
func (s *StreamService) getHub(ctx context.Context, hubID uuid.UUID) (*entities.Hub, error) {
	hub, err := s.hubRepo.FindByID(ctx, hubID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, usecaseErrors.ErrHubNotFound
		}
		return nil, fmt.Errorf("failed to get hub: %w", err)
	}
	return hub, nil
}

// recordingEnabled reads the enable_recording flag from hub settings
func recordingEnabled(hub *entities.Hub) bool {
	if len(hub.Settings) == 0 {
		return false
	}
	var settings map[string]interface{}
	if err := json.Unmarshal(hub.Settings, &settings); err != nil {
		return false
	}
	enabled, _ := settings["enable_recording"].(bool)
	return enabled
}

// notifyMembers fans a notification out to active members except the actor
func (s *StreamService) notifyMembers(ctx context.Context, hub *entities.Hub, actorID uuid.UUID, typ entities.NotificationType, title, body string, data map[string]interface{}) {
	payload, err := json.Marshal(data)
	if err != nil {
		return
	}
	members, err := s.membershipRepo.ListByHub(ctx, hub.ID, true)
	if err != nil {
		return
	}

	var notifications []*entities.Notification
	for _, m := range members {
		if m.UserID == actorID {
			continue
		}
		notifications = append(notifications, &entities.Notification{
			UserID: m.UserID,
			HubID:  hub.ID,
			Type:   typ,
			Title:  title,
			Body:   body,
			Data:   payload,
		})
	}
	_ = s.notificationRepo.CreateBatch(ctx, notifications)
}
