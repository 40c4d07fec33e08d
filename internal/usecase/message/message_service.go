package message

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/classhub-team/classhub/internal/domain/entities"
	"github.com/classhub-team/classhub/internal/domain/repositories"
	usecaseErrors "github.com/classhub-team/classhub/internal/usecase/errors"
	"github.com/classhub-team/classhub/pkg/crypto"
)

// Uploader stores attachment payloads and resolves access URLs
type Uploader interface {
	UploadFile(ctx context.Context, objectName string, reader io.Reader, size int64, contentType string) error
	GetFileURL(ctx context.Context, objectName string, expiry time.Duration) (string, error)
}

// MessageService handles messaging business logic. Message and reply bodies
// are encrypted before they reach the database.
type MessageService struct {
	hubRepo          repositories.HubRepository
	membershipRepo   repositories.MembershipRepository
	messageRepo      repositories.MessageRepository
	eventRepo        repositories.EventRepository
	bookmarkRepo     repositories.BookmarkRepository
	notificationRepo repositories.NotificationRepository
	storage          Uploader
	box              *crypto.Box
}

// NewMessageService creates a new message service
func NewMessageService(
	hubRepo repositories.HubRepository,
	membershipRepo repositories.MembershipRepository,
	messageRepo repositories.MessageRepository,
	eventRepo repositories.EventRepository,
	bookmarkRepo repositories.BookmarkRepository,
	notificationRepo repositories.NotificationRepository,
	storage Uploader,
	box *crypto.Box,
) *MessageService {
	return &MessageService{
		hubRepo:          hubRepo,
		membershipRepo:   membershipRepo,
		messageRepo:      messageRepo,
		eventRepo:        eventRepo,
		bookmarkRepo:     bookmarkRepo,
		notificationRepo: notificationRepo,
		storage:          storage,
		box:              box,
	}
}

// Attachment carries an uploaded file destined for object storage
type Attachment struct {
	Kind        string // "image", "file" or "video"
	Filename    string
	Reader      io.Reader
	Size        int64
	ContentType string
}

// PostMessageInput represents input for posting a message
type PostMessageInput struct {
	HubID       uuid.UUID
	SenderID    uuid.UUID
	SenderRole  entities.UserRole
	Content     string
	IsPoll      bool
	PollOptions []string
	Attachment  *Attachment
}

// PostMessage posts a new message to a hub
func (s *MessageService) PostMessage(ctx context.Context, input PostMessageInput) (*entities.Message, error) {
	hub, err := s.activeHub(ctx, input.HubID)
	if err != nil {
		return nil, err
	}

	if input.Content == "" && input.Attachment == nil && !input.IsPoll {
		return nil, usecaseErrors.ErrEmptyMessage
	}

	if input.IsPoll {
		if len(input.PollOptions) < 2 {
			return nil, usecaseErrors.ErrPollNeedsOptions
		}
		if input.SenderRole != entities.RoleTeacher && !settingEnabled(hub, "allow_student_polls") {
			return nil, usecaseErrors.ErrStudentPollsClosed
		}
	}

	msg := &entities.Message{
		HubID:    input.HubID,
		SenderID: input.SenderID,
		IsPoll:   input.IsPoll,
	}

	if input.Content != "" {
		sealed, err := s.box.Seal(input.Content)
		if err != nil {
			return nil, fmt.Errorf("failed to encrypt content: %w", err)
		}
		msg.Content = sealed
	}

	if input.IsPoll {
		optionsJSON, err := json.Marshal(input.PollOptions)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal poll options: %w", err)
		}
		msg.PollOptions = optionsJSON
	}

	if input.Attachment != nil {
		objectKey, err := s.uploadAttachment(ctx, input.HubID, input.Attachment)
		if err != nil {
			return nil, err
		}
		switch input.Attachment.Kind {
		case "image":
			msg.ImageURL = &objectKey
		case "video":
			msg.VideoURL = &objectKey
		default:
			msg.FileURL = &objectKey
		}
	}

	if err := s.messageRepo.CreateMessage(ctx, msg); err != nil {
		return nil, fmt.Errorf("failed to create message: %w", err)
	}

	if input.IsPoll {
		s.notifyMembers(ctx, hub, input.SenderID, entities.NotificationPoll,
			"New poll", "A new poll is open in "+hub.Name,
			map[string]interface{}{"message_id": msg.ID})
	}

	msg.Content = input.Content
	return msg, nil
}

// uploadAttachment streams an attachment into object storage under a
// hub-scoped key
func (s *MessageService) uploadAttachment(ctx context.Context, hubID uuid.UUID, att *Attachment) (string, error) {
	objectKey := fmt.Sprintf("hubs/%s/attachments/%s%s", hubID, uuid.New(), path.Ext(att.Filename))
	if err := s.storage.UploadFile(ctx, objectKey, att.Reader, att.Size, att.ContentType); err != nil {
		return "", fmt.Errorf("failed to upload attachment: %w", err)
	}
	return objectKey, nil
}

// GetMessage retrieves a message with its content decrypted
func (s *MessageService) GetMessage(ctx context.Context, messageID uuid.UUID) (*entities.Message, error) {
	msg, err := s.messageRepo.FindMessageByID(ctx, messageID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, usecaseErrors.ErrMessageNotFound
		}
		return nil, fmt.Errorf("failed to get message: %w", err)
	}
	s.decryptMessage(msg)
	return msg, nil
}

// ListMessages retrieves messages in a hub with pagination, decrypted
func (s *MessageService) ListMessages(ctx context.Context, hubID uuid.UUID, filters repositories.MessageFilters) ([]*entities.Message, int64, error) {
	messages, total, err := s.messageRepo.ListMessages(ctx, hubID, filters)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list messages: %w", err)
	}
	for _, msg := range messages {
		s.decryptMessage(msg)
	}
	return messages, total, nil
}

// PostReplyInput represents input for posting a reply
type PostReplyInput struct {
	MessageID uuid.UUID
	SenderID  uuid.UUID
	Content   string
}

// PostReply posts a reply to a message and notifies its author
func (s *MessageService) PostReply(ctx context.Context, input PostReplyInput) (*entities.Reply, error) {
	if input.Content == "" {
		return nil, usecaseErrors.ErrEmptyMessage
	}

	msg, err := s.messageRepo.FindMessageByID(ctx, input.MessageID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, usecaseErrors.ErrMessageNotFound
		}
		return nil, fmt.Errorf("failed to get message: %w", err)
	}

	if _, err := s.activeHub(ctx, msg.HubID); err != nil {
		return nil, err
	}

	sealed, err := s.box.Seal(input.Content)
	if err != nil {
		return nil, fmt.Errorf("failed to encrypt content: %w", err)
	}

	reply := &entities.Reply{
		MessageID: input.MessageID,
		SenderID:  input.SenderID,
		Content:   sealed,
	}
	if err := s.messageRepo.CreateReply(ctx, reply); err != nil {
		return nil, fmt.Errorf("failed to create reply: %w", err)
	}

	if msg.SenderID != input.SenderID {
		s.notify(ctx, msg.SenderID, msg.HubID, entities.NotificationReply,
			"New reply", "Someone replied to your message",
			map[string]interface{}{"message_id": msg.ID, "reply_id": reply.ID})
	}

	reply.Content = input.Content
	return reply, nil
}

// ListReplies retrieves replies to a message, decrypted
func (s *MessageService) ListReplies(ctx context.Context, messageID uuid.UUID) ([]*entities.Reply, error) {
	replies, err := s.messageRepo.ListReplies(ctx, messageID)
	if err != nil {
		return nil, fmt.Errorf("failed to list replies: %w", err)
	}
	for _, reply := range replies {
		s.decryptReply(reply)
	}
	return replies, nil
}

// VoteInput represents input for voting on a message or reply
type VoteInput struct {
	HubID     uuid.UUID
	UserID    uuid.UUID
	ContentID uuid.UUID
	Kind      entities.VoteKind
}

// Vote records a vote on a message or reply. Every vote appends an event;
// repeat votes by the same user count again.
func (s *MessageService) Vote(ctx context.Context, input VoteInput) error {
	if !input.Kind.IsValid() {
		return usecaseErrors.ErrInvalidVoteKind
	}
	if _, err := s.activeHub(ctx, input.HubID); err != nil {
		return err
	}

	contentKind := entities.ContentMessage
	var authorID uuid.UUID

	msg, err := s.messageRepo.FindMessageByID(ctx, input.ContentID)
	switch {
	case err == nil:
		authorID = msg.SenderID
		if err := s.messageRepo.AdjustMessageVotes(ctx, input.ContentID, input.Kind); err != nil {
			return fmt.Errorf("failed to adjust message votes: %w", err)
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		reply, err := s.messageRepo.FindReplyByID(ctx, input.ContentID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return usecaseErrors.ErrMessageNotFound
			}
			return fmt.Errorf("failed to get reply: %w", err)
		}
		contentKind = entities.ContentReply
		authorID = reply.SenderID
		if err := s.messageRepo.AdjustReplyVotes(ctx, input.ContentID, input.Kind); err != nil {
			return fmt.Errorf("failed to adjust reply votes: %w", err)
		}
	default:
		return fmt.Errorf("failed to get message: %w", err)
	}

	event := &entities.VoteEvent{
		HubID:       input.HubID,
		UserID:      input.UserID,
		ContentID:   input.ContentID,
		ContentKind: contentKind,
		Kind:        input.Kind,
	}
	if err := s.eventRepo.AppendVote(ctx, event); err != nil {
		return fmt.Errorf("failed to append vote event: %w", err)
	}

	if input.Kind == entities.VoteUp && authorID != input.UserID {
		s.notify(ctx, authorID, input.HubID, entities.NotificationVote,
			"New upvote", "Your post received an upvote",
			map[string]interface{}{"content_id": input.ContentID})
	}
	return nil
}

// VotePollInput represents input for voting on a poll option
type VotePollInput struct {
	HubID  uuid.UUID
	UserID uuid.UUID
	PollID uuid.UUID
	Option string
}

// VotePoll records a poll vote. Repeat votes append new events.
func (s *MessageService) VotePoll(ctx context.Context, input VotePollInput) error {
	if _, err := s.activeHub(ctx, input.HubID); err != nil {
		return err
	}

	msg, err := s.messageRepo.FindMessageByID(ctx, input.PollID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return usecaseErrors.ErrMessageNotFound
		}
		return fmt.Errorf("failed to get poll: %w", err)
	}
	if !msg.IsPoll {
		return usecaseErrors.ErrNotAPoll
	}

	var options []string
	if err := json.Unmarshal(msg.PollOptions, &options); err != nil {
		return fmt.Errorf("failed to read poll options: %w", err)
	}
	valid := false
	for _, opt := range options {
		if opt == input.Option {
			valid = true
			break
		}
	}
	if !valid {
		return usecaseErrors.ErrInvalidPollOption
	}

	event := &entities.PollVoteEvent{
		HubID:  input.HubID,
		UserID: input.UserID,
		PollID: input.PollID,
		Option: input.Option,
	}
	if err := s.eventRepo.AppendPollVote(ctx, event); err != nil {
		return fmt.Errorf("failed to append poll vote event: %w", err)
	}
	return nil
}

// PollResults tallies votes per declared option for a poll
func (s *MessageService) PollResults(ctx context.Context, pollID uuid.UUID) (map[string]int64, error) {
	msg, err := s.messageRepo.FindMessageByID(ctx, pollID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, usecaseErrors.ErrMessageNotFound
		}
		return nil, fmt.Errorf("failed to get poll: %w", err)
	}
	if !msg.IsPoll {
		return nil, usecaseErrors.ErrNotAPoll
	}

	counts, err := s.eventRepo.CountPollVotesByOption(ctx, pollID)
	if err != nil {
		return nil, fmt.Errorf("failed to count poll votes: %w", err)
	}

	var options []string
	if err := json.Unmarshal(msg.PollOptions, &options); err != nil {
		return nil, fmt.Errorf("failed to read poll options: %w", err)
	}
	results := make(map[string]int64, len(options))
	for _, opt := range options {
		results[opt] = counts[opt]
	}
	return results, nil
}

// BookmarkMessage bookmarks a message for a user
func (s *MessageService) BookmarkMessage(ctx context.Context, hubID, userID, messageID uuid.UUID) error {
	if _, err := s.messageRepo.FindMessageByID(ctx, messageID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return usecaseErrors.ErrMessageNotFound
		}
		return fmt.Errorf("failed to get message: %w", err)
	}

	bookmark := &entities.Bookmark{
		HubID:     hubID,
		UserID:    userID,
		MessageID: messageID,
	}
	if err := s.bookmarkRepo.Create(ctx, bookmark); err != nil {
		return fmt.Errorf("failed to create bookmark: %w", err)
	}
	return nil
}

// RemoveBookmark removes a user's bookmark on a message
func (s *MessageService) RemoveBookmark(ctx context.Context, userID, messageID uuid.UUID) error {
	if err := s.bookmarkRepo.Delete(ctx, userID, messageID); err != nil {
		return fmt.Errorf("failed to remove bookmark: %w", err)
	}
	return nil
}

// ListBookmarks retrieves a user's bookmarks in a hub with message
// content decrypted
func (s *MessageService) ListBookmarks(ctx context.Context, hubID, userID uuid.UUID) ([]*entities.Bookmark, error) {
	bookmarks, err := s.bookmarkRepo.ListByUser(ctx, hubID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookmarks: %w", err)
	}
	for _, b := range bookmarks {
		if b.Message != nil {
			s.decryptMessage(b.Message)
		}
	}
	return bookmarks, nil
}

// AttachmentURL resolves a stored object key to a presigned URL
func (s *MessageService) AttachmentURL(ctx context.Context, objectKey string) (string, error) {
	return s.storage.GetFileURL(ctx, objectKey, 24*time.Hour)
}

// activeHub loads a hub and rejects archived ones
func (s *MessageService) activeHub(ctx context.Context, hubID uuid.UUID) (*entities.Hub, error) {
	hub, err := s.hubRepo.FindByID(ctx, hubID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, usecaseErrors.ErrHubNotFound
		}
		return nil, fmt.Errorf("failed to get hub: %w", err)
	}
	if hub.IsArchived() {
		return nil, usecaseErrors.ErrHubArchived
	}
	return hub, nil
}

// decryptMessage replaces sealed content in place. Content that fails to
// open is left empty rather than leaking ciphertext.
func (s *MessageService) decryptMessage(msg *entities.Message) {
	if msg.Content == "" {
		return
	}
	plain, err := s.box.Open(msg.Content)
	if err != nil {
		msg.Content = ""
		return
	}
	msg.Content = plain
}

// decryptReply replaces sealed reply content in place
func (s *MessageService) decryptReply(reply *entities.Reply) {
	if reply.Content == "" {
		return
	}
	plain, err := s.box.Open(reply.Content)
	if err != nil {
		reply.Content = ""
		return
	}
	reply.Content = plain
}

// notify writes a notification for one user, tolerating failures
func (s *MessageService) notify(ctx context.Context, userID, hubID uuid.UUID, typ entities.NotificationType, title, body string, data map[string]interface{}) {
	payload, err := json.Marshal(data)
	if err != nil {
		return
	}
	n := &entities.Notification{
		UserID: userID,
		HubID:  hubID,
		Type:   typ,
		Title:  title,
		Body:   body,
		Data:   payload,
	}
	// Notification failures never fail the triggering operation
	_ = s.notificationRepo.Create(ctx, n)
}

// notifyMembers fans a notification out to every active hub member except
// the actor
func (s *MessageService) notifyMembers(ctx context.Context, hub *entities.Hub, actorID uuid.UUID, typ entities.NotificationType, title, body string, data map[string]interface{}) {
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
	// Notification failures never fail the triggering operation
	_ = s.notificationRepo.CreateBatch(ctx, notifications)
}

// settingEnabled reads a boolean flag from hub settings
func settingEnabled(hub *entities.Hub, key string) bool {
	if len(hub.Settings) == 0 {
		return false
	}
	var settings map[string]interface{}
	if err := json.Unmarshal(hub.Settings, &settings); err != nil {
		return false
	}
	enabled, _ := settings[key].(bool)
	return enabled
}
