package analytics

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/classhub-team/classhub/internal/domain/entities"
	"github.com/classhub-team/classhub/internal/domain/repositories"
	usecaseErrors "github.com/classhub-team/classhub/internal/usecase/errors"
	"github.com/classhub-team/classhub/pkg/crypto"
)

// Service computes engagement reports from hub activity snapshots and
// caches the results in Redis
type Service struct {
	hubRepo        repositories.HubRepository
	membershipRepo repositories.MembershipRepository
	messageRepo    repositories.MessageRepository
	eventRepo      repositories.EventRepository
	bookmarkRepo   repositories.BookmarkRepository
	cache          *redis.Client
	cacheTTL       time.Duration
	box            *crypto.Box
}

// NewService creates a new analytics service. A nil cache client disables
// caching.
func NewService(
	hubRepo repositories.HubRepository,
	membershipRepo repositories.MembershipRepository,
	messageRepo repositories.MessageRepository,
	eventRepo repositories.EventRepository,
	bookmarkRepo repositories.BookmarkRepository,
	cache *redis.Client,
	cacheTTL time.Duration,
	box *crypto.Box,
) *Service {
	return &Service{
		hubRepo:        hubRepo,
		membershipRepo: membershipRepo,
		messageRepo:    messageRepo,
		eventRepo:      eventRepo,
		bookmarkRepo:   bookmarkRepo,
		cache:          cache,
		cacheTTL:       cacheTTL,
		box:            box,
	}
}

// RoomReportFor computes the room-level report for a hub
func (s *Service) RoomReportFor(ctx context.Context, hubID uuid.UUID) (*RoomReport, error) {
	cacheKey := fmt.Sprintf("analytics:room:%s", hubID)
	var cached RoomReport
	if s.fromCache(ctx, cacheKey, &cached) {
		return &cached, nil
	}

	snap, err := s.snapshot(ctx, hubID)
	if err != nil {
		return nil, err
	}

	memberCount, err := s.membershipRepo.CountActiveByHub(ctx, hubID)
	if err != nil {
		return nil, fmt.Errorf("failed to count members: %w", err)
	}

	report := ComputeRoomAnalytics(snap.messages, snap.replies, int(memberCount))
	s.toCache(ctx, cacheKey, report)
	return &report, nil
}

// StudentReportFor computes the per-student report for a hub member
func (s *Service) StudentReportFor(ctx context.Context, hubID uuid.UUID, username string) (*StudentReport, error) {
	cacheKey := fmt.Sprintf("analytics:student:%s:%s", hubID, username)
	var cached StudentReport
	if s.fromCache(ctx, cacheKey, &cached) {
		return &cached, nil
	}

	snap, err := s.snapshot(ctx, hubID)
	if err != nil {
		return nil, err
	}

	report := ComputeStudentAnalytics(snap.messages, snap.replies, snap.votes, snap.pollVotes, snap.bookmarks, username)
	s.toCache(ctx, cacheKey, report)
	return &report, nil
}

// InvalidateHub drops the cached room report so the next request
// recomputes it. Student reports expire on their TTL.
func (s *Service) InvalidateHub(ctx context.Context, hubID uuid.UUID) {
	if s.cache == nil {
		return
	}
	s.cache.Del(ctx, fmt.Sprintf("analytics:room:%s", hubID))
}

// snapshot holds the full activity history of a hub as analytics records
type snapshotData struct {
	messages  []MessageRecord
	replies   []ReplyRecord
	votes     []VoteRecord
	pollVotes []PollVoteRecord
	bookmarks []BookmarkRecord
}

// snapshot loads every message, reply, vote, poll vote and bookmark in a
// hub and converts them into analytics records
func (s *Service) snapshot(ctx context.Context, hubID uuid.UUID) (*snapshotData, error) {
	if _, err := s.hubRepo.FindByID(ctx, hubID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, usecaseErrors.ErrHubNotFound
		}
		return nil, fmt.Errorf("failed to get hub: %w", err)
	}

	messages, err := s.messageRepo.ListAllMessages(ctx, hubID)
	if err != nil {
		return nil, fmt.Errorf("failed to load messages: %w", err)
	}
	replies, err := s.messageRepo.ListAllReplies(ctx, hubID)
	if err != nil {
		return nil, fmt.Errorf("failed to load replies: %w", err)
	}
	votes, err := s.eventRepo.ListVotesByHub(ctx, hubID)
	if err != nil {
		return nil, fmt.Errorf("failed to load votes: %w", err)
	}
	pollVotes, err := s.eventRepo.ListPollVotesByHub(ctx, hubID)
	if err != nil {
		return nil, fmt.Errorf("failed to load poll votes: %w", err)
	}
	bookmarks, err := s.bookmarkRepo.ListByHub(ctx, hubID)
	if err != nil {
		return nil, fmt.Errorf("failed to load bookmarks: %w", err)
	}

	// Poll option tallies come from the event log
	pollTallies := make(map[uuid.UUID]map[string]int)
	for _, pv := range pollVotes {
		if pollTallies[pv.PollID] == nil {
			pollTallies[pv.PollID] = make(map[string]int)
		}
		pollTallies[pv.PollID][pv.Option]++
	}

	snap := &snapshotData{}
	for _, msg := range messages {
		snap.messages = append(snap.messages, s.messageRecord(msg, pollTallies[msg.ID]))
	}
	for _, reply := range replies {
		snap.replies = append(snap.replies, s.replyRecord(reply))
	}
	for _, v := range votes {
		snap.votes = append(snap.votes, VoteRecord{
			Username:  senderName(v.User),
			Kind:      string(v.Kind),
			ContentID: v.ContentID.String(),
			Timestamp: v.CreatedAt.Format(timeLayout),
		})
	}
	for _, pv := range pollVotes {
		snap.pollVotes = append(snap.pollVotes, PollVoteRecord{
			Username:  senderName(pv.User),
			PollID:    pv.PollID.String(),
			Option:    pv.Option,
			Timestamp: pv.CreatedAt.Format(timeLayout),
		})
	}
	for _, b := range bookmarks {
		snap.bookmarks = append(snap.bookmarks, BookmarkRecord{
			Username:   senderName(b.User),
			HubID:      b.HubID.String(),
			QuestionID: b.MessageID.String(),
			Timestamp:  b.CreatedAt.Format(timeLayout),
		})
	}
	return snap, nil
}

// messageRecord converts a message entity into an analytics record,
// decrypting its content
func (s *Service) messageRecord(msg *entities.Message, tally map[string]int) MessageRecord {
	rec := MessageRecord{
		ID:        msg.ID.String(),
		Sender:    senderName(msg.Sender),
		Timestamp: msg.CreatedAt.Format(timeLayout),
		Content:   s.openContent(msg.Content),
		IsPoll:    msg.IsPoll,
		Upvotes:   msg.Upvotes,
		Downvotes: msg.Downvotes,
	}
	if msg.Sender != nil {
		rec.Role = string(msg.Sender.Role)
	}
	if msg.ImageURL != nil {
		rec.ImageURL = *msg.ImageURL
	}
	if msg.FileURL != nil {
		rec.FileURL = *msg.FileURL
	}
	if msg.VideoURL != nil {
		rec.VideoURL = *msg.VideoURL
	}
	if msg.IsPoll && len(msg.PollOptions) > 0 {
		var options []string
		if err := json.Unmarshal(msg.PollOptions, &options); err == nil {
			for _, opt := range options {
				rec.PollOptions = append(rec.PollOptions, PollOption{
					Label: opt,
					Votes: tally[opt],
				})
			}
		}
	}
	return rec
}

// replyRecord converts a reply entity into an analytics record
func (s *Service) replyRecord(reply *entities.Reply) ReplyRecord {
	rec := ReplyRecord{
		ID:         reply.ID.String(),
		QuestionID: reply.MessageID.String(),
		Sender:     senderName(reply.Sender),
		Timestamp:  reply.CreatedAt.Format(timeLayout),
		Content:    s.openContent(reply.Content),
		Upvotes:    reply.Upvotes,
		Downvotes:  reply.Downvotes,
	}
	if reply.Sender != nil {
		rec.Role = string(reply.Sender.Role)
	}
	return rec
}

// openContent decrypts stored content, treating unreadable ciphertext
// as empty
func (s *Service) openContent(sealed string) string {
	if sealed == "" {
		return ""
	}
	plain, err := s.box.Open(sealed)
	if err != nil {
		return ""
	}
	return plain
}

// senderName returns the username of a preloaded user, or empty when the
// association is missing
func senderName(u *entities.User) string {
	if u == nil {
		return ""
	}
	return u.Username
}

// fromCache loads a cached report into out, reporting whether it hit
func (s *Service) fromCache(ctx context.Context, key string, out interface{}) bool {
	if s.cache == nil {
		return false
	}
	raw, err := s.cache.Get(ctx, key).Result()
	if err != nil {
		return false
	}
	return json.Unmarshal([]byte(raw), out) == nil
}

// toCache stores a report, tolerating cache failures
func (s *Service) toCache(ctx context.Context, key string, report interface{}) {
	if s.cache == nil {
		return
	}
	raw, err := json.Marshal(report)
	if err != nil {
		return
	}
	s.cache.Set(ctx, key, raw, s.cacheTTL)
}
