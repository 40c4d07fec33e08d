package entities

import (
	"time"

	"github.com/google/uuid"
)

// MembershipStatus represents the status of a hub membership
type MembershipStatus string

const (
	MembershipStatusActive MembershipStatus = "active"
	MembershipStatusLeft   MembershipStatus = "left"
)

// Membership represents a user's membership in a hub
type Membership struct {
	ID     uuid.UUID        `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	HubID  uuid.UUID        `gorm:"type:uuid;not null;index:idx_hub_user,unique" json:"hub_id"`
	Hub    *Hub             `gorm:"foreignKey:HubID" json:"hub,omitempty"`
	UserID uuid.UUID        `gorm:"type:uuid;not null;index:idx_hub_user,unique" json:"user_id"`
	User   *User            `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Status MembershipStatus `gorm:"type:varchar(20);default:'active';index" json:"status"`

	JoinedAt time.Time  `gorm:"default:now()" json:"joined_at"`
	LeftAt   *time.Time `json:"left_at,omitempty"`

	CreatedAt time.Time `gorm:"default:now()" json:"created_at"`
	UpdatedAt time.Time `gorm:"default:now()" json:"updated_at"`
}

// TableName specifies the table name for Membership
func (Membership) TableName() string {
	return "memberships"
}

// IsActive checks if the membership is currently active
func (m *Membership) IsActive() bool {
	return m.Status == MembershipStatusActive
}

// Leave marks the membership as left
func (m *Membership) Leave() {
	now := time.Now()
	m.Status = MembershipStatusLeft
	m.LeftAt = &now
}

// Rejoin reactivates a membership that was previously left
func (m *Membership) Rejoin() {
	m.Status = MembershipStatusActive
	m.LeftAt = nil
}
