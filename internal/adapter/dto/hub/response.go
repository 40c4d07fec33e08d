package hub

import (
	"time"

	"github.com/classhub-team/classhub/internal/adapter/dto/auth"
)

// HubResponse represents a hub in responses
type HubResponse struct {
	ID              string                 `json:"id"`
	Name            string                 `json:"name"`
	Description     *string                `json:"description,omitempty"`
	Slug            string                 `json:"slug"`
	TeacherID       string                 `json:"teacher_id"`
	Teacher         *auth.UserResponse     `json:"teacher,omitempty"`
	Status          string                 `json:"status"`
	MemberCount     int                    `json:"member_count"`
	Settings        map[string]interface{} `json:"settings"`
	IsStreaming     bool                   `json:"is_streaming"`
	StreamStartedAt *time.Time             `json:"stream_started_at,omitempty"`
	CreatedAt       time.Time              `json:"created_at"`
	UpdatedAt       time.Time              `json:"updated_at"`
}

// HubListResponse represents a paginated list of hubs
type HubListResponse struct {
	Hubs       []*HubResponse `json:"hubs"`
	Total      int64          `json:"total"`
	Page       int            `json:"page"`
	PageSize   int            `json:"page_size"`
	TotalPages int            `json:"total_pages"`
}

// MemberResponse represents a hub member in responses
type MemberResponse struct {
	ID       string             `json:"id"`
	HubID    string             `json:"hub_id"`
	UserID   string             `json:"user_id"`
	User     *auth.UserResponse `json:"user,omitempty"`
	Status   string             `json:"status"`
	JoinedAt time.Time          `json:"joined_at"`
}

// MemberListResponse represents a list of hub members
type MemberListResponse struct {
	Members []*MemberResponse `json:"members"`
	Total   int               `json:"total"`
}
