package repositories

import (
	"context"
	"time"

	"github.com/classhub-team/classhub/internal/domain/entities"
	"github.com/google/uuid"
)

// MessageRepository defines the interface for message and reply data access
type MessageRepository interface {
	// CreateMessage creates a new message
	CreateMessage(ctx context.Context, message *entities.Message) error

	// FindMessageByID retrieves a message by its ID
	FindMessageByID(ctx context.Context, id uuid.UUID) (*entities.Message, error)

	// ListMessages retrieves messages in a hub with pagination, sender preloaded
	ListMessages(ctx context.Context, hubID uuid.UUID, filters MessageFilters) ([]*entities.Message, int64, error)

	// ListAllMessages retrieves every message in a hub, sender preloaded, oldest first
	ListAllMessages(ctx context.Context, hubID uuid.UUID) ([]*entities.Message, error)

	// UpdateMessage updates an existing message
	UpdateMessage(ctx context.Context, message *entities.Message) error

	// DeleteMessage deletes a message and its replies
	DeleteMessage(ctx context.Context, id uuid.UUID) error

	// CreateReply creates a new reply
	CreateReply(ctx context.Context, reply *entities.Reply) error

	// FindReplyByID retrieves a reply by its ID
	FindReplyByID(ctx context.Context, id uuid.UUID) (*entities.Reply, error)

	// ListReplies retrieves replies to a message, oldest first, sender preloaded
	ListReplies(ctx context.Context, messageID uuid.UUID) ([]*entities.Reply, error)

	// ListAllReplies retrieves every reply in a hub, sender preloaded, oldest first
	ListAllReplies(ctx context.Context, hubID uuid.UUID) ([]*entities.Reply, error)

	// AdjustMessageVotes bumps the vote counters on a message
	AdjustMessageVotes(ctx context.Context, messageID uuid.UUID, kind entities.VoteKind) error

	// AdjustReplyVotes bumps the vote counters on a reply
	AdjustReplyVotes(ctx context.Context, replyID uuid.UUID, kind entities.VoteKind) error
}

// MessageFilters represents filter options for listing messages
type MessageFilters struct {
	SenderID *uuid.UUID
	PollOnly bool
	Since    *time.Time
	Limit    int
	Offset   int
}
