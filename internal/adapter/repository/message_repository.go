package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/classhub-team/classhub/internal/domain/entities"
	"github.com/classhub-team/classhub/internal/domain/repositories"
)

// messageRepository implements the MessageRepository interface
type messageRepository struct {
	db *gorm.DB
}

// NewMessageRepository creates a new message repository
func NewMessageRepository(db *gorm.DB) repositories.MessageRepository {
	return &messageRepository{db: db}
}

// CreateMessage creates a new message
func (r *messageRepository) CreateMessage(ctx context.Context, message *entities.Message) error {
	return r.db.WithContext(ctx).Create(message).Error
}

// FindMessageByID retrieves a message by its ID
func (r *messageRepository) FindMessageByID(ctx context.Context, id uuid.UUID) (*entities.Message, error) {
	var message entities.Message
	err := r.db.WithContext(ctx).
		Preload("Sender").
		Where("id = ?", id).
		First(&message).Error

	if err != nil {
		return nil, err
	}
	return &message, nil
}

// ListMessages retrieves messages in a hub with pagination
func (r *messageRepository) ListMessages(ctx context.Context, hubID uuid.UUID, filters repositories.MessageFilters) ([]*entities.Message, int64, error) {
	var messages []*entities.Message
	var total int64

	query := r.db.WithContext(ctx).
		Model(&entities.Message{}).
		Preload("Sender").
		Where("hub_id = ?", hubID)

	if filters.SenderID != nil {
		query = query.Where("sender_id = ?", *filters.SenderID)
	}
	if filters.PollOnly {
		query = query.Where("is_poll = true")
	}
	if filters.Since != nil {
		query = query.Where("created_at >= ?", *filters.Since)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = query.Order("created_at DESC")
	if filters.Limit > 0 {
		query = query.Limit(filters.Limit)
	}
	if filters.Offset > 0 {
		query = query.Offset(filters.Offset)
	}

	err := query.Find(&messages).Error
	return messages, total, err
}

// ListAllMessages retrieves every message in a hub, oldest first
func (r *messageRepository) ListAllMessages(ctx context.Context, hubID uuid.UUID) ([]*entities.Message, error) {
	var messages []*entities.Message
	err := r.db.WithContext(ctx).
		Preload("Sender").
		Where("hub_id = ?", hubID).
		Order("created_at ASC").
		Find(&messages).Error
	return messages, err
}

// UpdateMessage updates an existing message
func (r *messageRepository) UpdateMessage(ctx context.Context, message *entities.Message) error {
	return r.db.WithContext(ctx).Save(message).Error
}

// DeleteMessage deletes a message and its replies
func (r *messageRepository) DeleteMessage(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("message_id = ?", id).Delete(&entities.Reply{}).Error; err != nil {
			return err
		}
		return tx.Delete(&entities.Message{}, id).Error
	})
}

// CreateReply creates a new reply
func (r *messageRepository) CreateReply(ctx context.Context, reply *entities.Reply) error {
	return r.db.WithContext(ctx).Create(reply).Error
}

// FindReplyByID retrieves a reply by its ID
func (r *messageRepository) FindReplyByID(ctx context.Context, id uuid.UUID) (*entities.Reply, error) {
	var reply entities.Reply
	err := r.db.WithContext(ctx).
		Preload("Sender").
		Where("id = ?", id).
		First(&reply).Error

	if err != nil {
		return nil, err
	}
	return &reply, nil
}

// ListReplies retrieves replies to a message, oldest first
func (r *messageRepository) ListReplies(ctx context.Context, messageID uuid.UUID) ([]*entities.Reply, error) {
	var replies []*entities.Reply
	err := r.db.WithContext(ctx).
		Preload("Sender").
		Where("message_id = ?", messageID).
		Order("created_at ASC").
		Find(&replies).Error
	return replies, err
}

// ListAllReplies retrieves every reply in a hub, oldest first
func (r *messageRepository) ListAllReplies(ctx context.Context, hubID uuid.UUID) ([]*entities.Reply, error) {
	var replies []*entities.Reply
	err := r.db.WithContext(ctx).
		Preload("Sender").
		Joins("JOIN messages ON messages.id = replies.message_id").
		Where("messages.hub_id = ?", hubID).
		Order("replies.created_at ASC").
		Find(&replies).Error
	return replies, err
}

// AdjustMessageVotes bumps the vote counters on a message
func (r *messageRepository) AdjustMessageVotes(ctx context.Context, messageID uuid.UUID, kind entities.VoteKind) error {
	column := "upvotes"
	if kind == entities.VoteDown {
		column = "downvotes"
	}
	return r.db.WithContext(ctx).
		Model(&entities.Message{}).
		Where("id = ?", messageID).
		UpdateColumn(column, gorm.Expr(column+" + 1")).
		Error
}

// AdjustReplyVotes bumps the vote counters on a reply
func (r *messageRepository) AdjustReplyVotes(ctx context.Context, replyID uuid.UUID, kind entities.VoteKind) error {
	column := "upvotes"
	if kind == entities.VoteDown {
		column = "downvotes"
	}
	return r.db.WithContext(ctx).
		Model(&entities.Reply{}).
		Where("id = ?", replyID).
		UpdateColumn(column, gorm.Expr(column+" + 1")).
		Error
}
