package entities

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// HubStatus represents the current status of a hub
type HubStatus string

const (
	HubStatusActive   HubStatus = "active"
	HubStatusArchived HubStatus = "archived"
)

// Hub represents a classroom chat space tying one teacher to many students.
// Identified by a short URL-safe slug.
type Hub struct {
	ID          uuid.UUID      `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	Name        string         `gorm:"type:varchar(255);not null" json:"name"`
	Description *string        `gorm:"type:text" json:"description,omitempty"`
	Slug        string         `gorm:"type:varchar(100);uniqueIndex;not null" json:"slug"`
	TeacherID   uuid.UUID      `gorm:"type:uuid;not null;index" json:"teacher_id"`
	Teacher     *User          `gorm:"foreignKey:TeacherID" json:"teacher,omitempty"`
	Status      HubStatus      `gorm:"type:varchar(20);not null;default:'active';index" json:"status"`
	MemberCount int            `gorm:"default:0" json:"member_count"`
	Settings    datatypes.JSON `gorm:"type:jsonb;default:'{}'" json:"settings"`

	// Livestream state
	StreamRoomName  *string    `gorm:"type:varchar(255);uniqueIndex" json:"stream_room_name,omitempty"`
	StreamStartedAt *time.Time `json:"stream_started_at,omitempty"`
	StreamEndedAt   *time.Time `json:"stream_ended_at,omitempty"`
	EgressID        *string    `gorm:"type:varchar(255)" json:"egress_id,omitempty"`

	CreatedAt time.Time `gorm:"default:now()" json:"created_at"`
	UpdatedAt time.Time `gorm:"default:now()" json:"updated_at"`
}

// TableName specifies the table name for Hub
func (Hub) TableName() string {
	return "hubs"
}

// DefaultSettings returns default hub settings
func DefaultSettings() map[string]interface{} {
	return map[string]interface{}{
		"allow_student_polls":  false,
		"allow_anonymous":      false,
		"enable_livestream":    true,
		"enable_recording":     false,
		"moderate_first_posts": false,
	}
}

// IsArchived checks if the hub has been archived
func (h *Hub) IsArchived() bool {
	return h.Status == HubStatusArchived
}

// IsStreaming checks if a livestream is currently running
func (h *Hub) IsStreaming() bool {
	return h.StreamRoomName != nil && h.StreamStartedAt != nil && h.StreamEndedAt == nil
}

// StartStream marks a livestream as running
func (h *Hub) StartStream(roomName string) {
	now := time.Now()
	h.StreamRoomName = &roomName
	h.StreamStartedAt = &now
	h.StreamEndedAt = nil
}

// EndStream marks the livestream as ended
func (h *Hub) EndStream() {
	now := time.Now()
	h.StreamEndedAt = &now
	h.EgressID = nil
}
