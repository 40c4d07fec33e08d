package entities

import (
	"time"

	"github.com/google/uuid"
)

// VoteKind is the direction of a vote
type VoteKind string

const (
	VoteUp   VoteKind = "up"
	VoteDown VoteKind = "down"
)

// IsValid checks if the vote kind is valid
func (k VoteKind) IsValid() bool {
	return k == VoteUp || k == VoteDown
}

// ContentKind distinguishes what a vote was cast on
type ContentKind string

const (
	ContentMessage ContentKind = "message"
	ContentReply   ContentKind = "reply"
)

// VoteEvent is an append-only record of a vote cast on a message or reply.
// Events are never deduplicated; repeat votes append new rows.
type VoteEvent struct {
	ID          uuid.UUID   `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	HubID       uuid.UUID   `gorm:"type:uuid;not null;index" json:"hub_id"`
	UserID      uuid.UUID   `gorm:"type:uuid;not null;index" json:"user_id"`
	User        *User       `gorm:"foreignKey:UserID" json:"user,omitempty"`
	ContentID   uuid.UUID   `gorm:"type:uuid;not null;index" json:"content_id"`
	ContentKind ContentKind `gorm:"type:varchar(20);not null" json:"content_kind"`
	Kind        VoteKind    `gorm:"type:varchar(10);not null" json:"kind"`

	CreatedAt time.Time `gorm:"default:now()" json:"created_at"`
}

// TableName specifies the table name for VoteEvent
func (VoteEvent) TableName() string {
	return "vote_events"
}

// PollVoteEvent is an append-only record of a poll option choice
type PollVoteEvent struct {
	ID     uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	HubID  uuid.UUID `gorm:"type:uuid;not null;index" json:"hub_id"`
	UserID uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	User   *User     `gorm:"foreignKey:UserID" json:"user,omitempty"`
	PollID uuid.UUID `gorm:"type:uuid;not null;index" json:"poll_id"`
	Option string    `gorm:"type:varchar(255);not null" json:"option"`

	CreatedAt time.Time `gorm:"default:now()" json:"created_at"`
}

// TableName specifies the table name for PollVoteEvent
func (PollVoteEvent) TableName() string {
	return "poll_vote_events"
}

// Bookmark marks a message a user saved for later
type Bookmark struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	HubID     uuid.UUID `gorm:"type:uuid;not null;index" json:"hub_id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index:idx_user_message,unique" json:"user_id"`
	User      *User     `gorm:"foreignKey:UserID" json:"user,omitempty"`
	MessageID uuid.UUID `gorm:"type:uuid;not null;index:idx_user_message,unique" json:"message_id"`
	Message   *Message  `gorm:"foreignKey:MessageID" json:"message,omitempty"`

	CreatedAt time.Time `gorm:"default:now()" json:"created_at"`
}

// TableName specifies the table name for Bookmark
func (Bookmark) TableName() string {
	return "bookmarks"
}
