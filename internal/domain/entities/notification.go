package entities

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// NotificationType classifies what produced a notification
type NotificationType string

const (
	NotificationReply          NotificationType = "reply"
	NotificationVote           NotificationType = "vote"
	NotificationPoll           NotificationType = "poll"
	NotificationStreamStarted  NotificationType = "stream_started"
	NotificationRecordingReady NotificationType = "recording_ready"
	NotificationHubArchived    NotificationType = "hub_archived"
)

// Notification is an in-app notification for a user
type Notification struct {
	ID     uuid.UUID        `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	UserID uuid.UUID        `gorm:"type:uuid;not null;index" json:"user_id"`
	HubID  uuid.UUID        `gorm:"type:uuid;not null;index" json:"hub_id"`
	Type   NotificationType `gorm:"type:varchar(30);not null" json:"type"`
	Title  string           `gorm:"type:varchar(255);not null" json:"title"`
	Body   string           `gorm:"type:text" json:"body"`

	// Type-specific payload, e.g. the message or stream the event refers to
	Data datatypes.JSON `gorm:"type:jsonb;default:'{}'" json:"data"`

	ReadAt *time.Time `json:"read_at,omitempty"`

	CreatedAt time.Time `gorm:"default:now();index" json:"created_at"`
}

// TableName specifies the table name for Notification
func (Notification) TableName() string {
	return "notifications"
}

// IsRead checks if the notification has been read
func (n *Notification) IsRead() bool {
	return n.ReadAt != nil
}

// MarkRead marks the notification as read
func (n *Notification) MarkRead() {
	now := time.Now()
	n.ReadAt = &now
}
