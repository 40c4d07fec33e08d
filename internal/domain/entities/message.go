package entities

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Message represents a top-level post in a hub. Content is stored
// encrypted at rest and decrypted at the service layer.
type Message struct {
	ID       uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	HubID    uuid.UUID `gorm:"type:uuid;not null;index" json:"hub_id"`
	Hub      *Hub      `gorm:"foreignKey:HubID" json:"hub,omitempty"`
	SenderID uuid.UUID `gorm:"type:uuid;not null;index" json:"sender_id"`
	Sender   *User     `gorm:"foreignKey:SenderID" json:"sender,omitempty"`

	Content string `gorm:"type:text" json:"content"`

	// Attachments; object keys in the media bucket, resolved to URLs by the presenter
	ImageURL *string `gorm:"type:varchar(500)" json:"image_url,omitempty"`
	FileURL  *string `gorm:"type:varchar(500)" json:"file_url,omitempty"`
	VideoURL *string `gorm:"type:varchar(500)" json:"video_url,omitempty"`

	IsPoll      bool           `gorm:"default:false" json:"is_poll"`
	PollOptions datatypes.JSON `gorm:"type:jsonb" json:"poll_options,omitempty"`

	Upvotes   int `gorm:"default:0" json:"upvotes"`
	Downvotes int `gorm:"default:0" json:"downvotes"`

	CreatedAt time.Time `gorm:"default:now();index" json:"created_at"`
	UpdatedAt time.Time `gorm:"default:now()" json:"updated_at"`
}

// TableName specifies the table name for Message
func (Message) TableName() string {
	return "messages"
}

// NetVotes returns upvotes minus downvotes
func (m *Message) NetVotes() int {
	return m.Upvotes - m.Downvotes
}

// Reply represents a threaded reply to a message
type Reply struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	MessageID uuid.UUID `gorm:"type:uuid;not null;index" json:"message_id"`
	Message   *Message  `gorm:"foreignKey:MessageID" json:"message,omitempty"`
	SenderID  uuid.UUID `gorm:"type:uuid;not null;index" json:"sender_id"`
	Sender    *User     `gorm:"foreignKey:SenderID" json:"sender,omitempty"`

	Content string `gorm:"type:text" json:"content"`

	Upvotes   int `gorm:"default:0" json:"upvotes"`
	Downvotes int `gorm:"default:0" json:"downvotes"`

	CreatedAt time.Time `gorm:"default:now();index" json:"created_at"`
	UpdatedAt time.Time `gorm:"default:now()" json:"updated_at"`
}

// TableName specifies the table name for Reply
func (Reply) TableName() string {
	return "replies"
}

// NetVotes returns upvotes minus downvotes
func (r *Reply) NetVotes() int {
	return r.Upvotes - r.Downvotes
}
