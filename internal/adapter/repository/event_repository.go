package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/classhub-team/classhub/internal/domain/entities"
	"github.com/classhub-team/classhub/internal/domain/repositories"
)

// eventRepository implements the EventRepository interface
type eventRepository struct {
	db *gorm.DB
}

// NewEventRepository creates a new event repository
func NewEventRepository(db *gorm.DB) repositories.EventRepository {
	return &eventRepository{db: db}
}

// AppendVote records a vote event
func (r *eventRepository) AppendVote(ctx context.Context, event *entities.VoteEvent) error {
	return r.db.WithContext(ctx).Create(event).Error
}

// AppendPollVote records a poll vote event
func (r *eventRepository) AppendPollVote(ctx context.Context, event *entities.PollVoteEvent) error {
	return r.db.WithContext(ctx).Create(event).Error
}

// ListVotesByHub retrieves every vote event in a hub, oldest first
func (r *eventRepository) ListVotesByHub(ctx context.Context, hubID uuid.UUID) ([]*entities.VoteEvent, error) {
	var events []*entities.VoteEvent
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("hub_id = ?", hubID).
		Order("created_at ASC").
		Find(&events).Error
	return events, err
}

// ListPollVotesByHub retrieves every poll vote event in a hub, oldest first
func (r *eventRepository) ListPollVotesByHub(ctx context.Context, hubID uuid.UUID) ([]*entities.PollVoteEvent, error) {
	var events []*entities.PollVoteEvent
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("hub_id = ?", hubID).
		Order("created_at ASC").
		Find(&events).Error
	return events, err
}

// CountPollVotesByOption tallies poll vote events per option for a poll
func (r *eventRepository) CountPollVotesByOption(ctx context.Context, pollID uuid.UUID) (map[string]int64, error) {
	var rows []struct {
		Option string
		Total  int64
	}
	err := r.db.WithContext(ctx).
		Model(&entities.PollVoteEvent{}).
		Select("option, COUNT(*) as total").
		Where("poll_id = ?", pollID).
		Group("option").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.Option] = row.Total
	}
	return counts, nil
}

// bookmarkRepository implements the BookmarkRepository interface
type bookmarkRepository struct {
	db *gorm.DB
}

// NewBookmarkRepository creates a new bookmark repository
func NewBookmarkRepository(db *gorm.DB) repositories.BookmarkRepository {
	return &bookmarkRepository{db: db}
}

// Create creates a bookmark; repeat bookmarks on the same message are ignored
func (r *bookmarkRepository) Create(ctx context.Context, bookmark *entities.Bookmark) error {
	return r.db.WithContext(ctx).
		Where("user_id = ? AND message_id = ?", bookmark.UserID, bookmark.MessageID).
		FirstOrCreate(bookmark).Error
}

// Delete removes a user's bookmark on a message
func (r *bookmarkRepository) Delete(ctx context.Context, userID, messageID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("user_id = ? AND message_id = ?", userID, messageID).
		Delete(&entities.Bookmark{}).Error
}

// ListByUser retrieves a user's bookmarks in a hub
func (r *bookmarkRepository) ListByUser(ctx context.Context, hubID, userID uuid.UUID) ([]*entities.Bookmark, error) {
	var bookmarks []*entities.Bookmark
	err := r.db.WithContext(ctx).
		Preload("Message").
		Preload("Message.Sender").
		Where("hub_id = ? AND user_id = ?", hubID, userID).
		Order("created_at DESC").
		Find(&bookmarks).Error
	return bookmarks, err
}

// ListByHub retrieves every bookmark in a hub, oldest first
func (r *bookmarkRepository) ListByHub(ctx context.Context, hubID uuid.UUID) ([]*entities.Bookmark, error) {
	var bookmarks []*entities.Bookmark
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("hub_id = ?", hubID).
		Order("created_at ASC").
		Find(&bookmarks).Error
	return bookmarks, err
}
