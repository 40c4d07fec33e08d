package repositories

import (
	"context"

	"github.com/classhub-team/classhub/internal/domain/entities"
	"github.com/google/uuid"
)

// EventRepository defines the interface for append-only engagement events.
// Vote and poll-vote events are never deduplicated.
type EventRepository interface {
	// AppendVote records a vote event
	AppendVote(ctx context.Context, event *entities.VoteEvent) error

	// AppendPollVote records a poll vote event
	AppendPollVote(ctx context.Context, event *entities.PollVoteEvent) error

	// ListVotesByHub retrieves every vote event in a hub, user preloaded, oldest first
	ListVotesByHub(ctx context.Context, hubID uuid.UUID) ([]*entities.VoteEvent, error)

	// ListPollVotesByHub retrieves every poll vote event in a hub, user preloaded, oldest first
	ListPollVotesByHub(ctx context.Context, hubID uuid.UUID) ([]*entities.PollVoteEvent, error)

	// CountPollVotesByOption tallies poll vote events per option for a poll
	CountPollVotesByOption(ctx context.Context, pollID uuid.UUID) (map[string]int64, error)
}

// BookmarkRepository defines the interface for bookmark data access
type BookmarkRepository interface {
	// Create creates a bookmark; idempotent per user and message
	Create(ctx context.Context, bookmark *entities.Bookmark) error

	// Delete removes a user's bookmark on a message
	Delete(ctx context.Context, userID, messageID uuid.UUID) error

	// ListByUser retrieves a user's bookmarks in a hub, message preloaded
	ListByUser(ctx context.Context, hubID, userID uuid.UUID) ([]*entities.Bookmark, error)

	// ListByHub retrieves every bookmark in a hub, user preloaded, oldest first
	ListByHub(ctx context.Context, hubID uuid.UUID) ([]*entities.Bookmark, error)
}
