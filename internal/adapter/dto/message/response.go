package message

import (
	"time"

	"github.com/classhub-team/classhub/internal/adapter/dto/auth"
)

// MessageResponse represents a message in responses
type MessageResponse struct {
	ID          string             `json:"id"`
	HubID       string             `json:"hub_id"`
	SenderID    string             `json:"sender_id"`
	Sender      *auth.UserResponse `json:"sender,omitempty"`
	Content     string             `json:"content"`
	ImageURL    *string            `json:"image_url,omitempty"`
	FileURL     *string            `json:"file_url,omitempty"`
	VideoURL    *string            `json:"video_url,omitempty"`
	IsPoll      bool               `json:"is_poll"`
	PollOptions []string           `json:"poll_options,omitempty"`
	Upvotes     int                `json:"upvotes"`
	Downvotes   int                `json:"downvotes"`
	NetVotes    int                `json:"net_votes"`
	CreatedAt   time.Time          `json:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at"`
}

// MessageListResponse represents a paginated list of messages
type MessageListResponse struct {
	Messages   []*MessageResponse `json:"messages"`
	Total      int64              `json:"total"`
	Page       int                `json:"page"`
	PageSize   int                `json:"page_size"`
	TotalPages int                `json:"total_pages"`
}

// ReplyResponse represents a reply in responses
type ReplyResponse struct {
	ID        string             `json:"id"`
	MessageID string             `json:"message_id"`
	SenderID  string             `json:"sender_id"`
	Sender    *auth.UserResponse `json:"sender,omitempty"`
	Content   string             `json:"content"`
	Upvotes   int                `json:"upvotes"`
	Downvotes int                `json:"downvotes"`
	NetVotes  int                `json:"net_votes"`
	CreatedAt time.Time          `json:"created_at"`
}

// ReplyListResponse represents a list of replies
type ReplyListResponse struct {
	Replies []*ReplyResponse `json:"replies"`
	Total   int              `json:"total"`
}

// PollResultsResponse represents poll vote tallies per option
type PollResultsResponse struct {
	PollID  string           `json:"poll_id"`
	Results map[string]int64 `json:"results"`
	Total   int64            `json:"total"`
}

// BookmarkResponse represents a bookmark in responses
type BookmarkResponse struct {
	ID        string           `json:"id"`
	HubID     string           `json:"hub_id"`
	MessageID string           `json:"message_id"`
	Message   *MessageResponse `json:"message,omitempty"`
	CreatedAt time.Time        `json:"created_at"`
}

// BookmarkListResponse represents a list of bookmarks
type BookmarkListResponse struct {
	Bookmarks []*BookmarkResponse `json:"bookmarks"`
	Total     int                 `json:"total"`
}

// SearchResultResponse represents a single semantic search hit
type SearchResultResponse struct {
	MessageID string  `json:"message_id"`
	Score     float64 `json:"score"`
	Snippet   string  `json:"snippet"`
}

// SearchResponse represents the search results
type SearchResponse struct {
	Results []*SearchResultResponse `json:"results"`
	Total   int                     `json:"total"`
}
