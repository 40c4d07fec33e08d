package message

// PostMessageRequest represents the request to post a message. Sent as
// multipart form data when an attachment is included.
type PostMessageRequest struct {
	Content     string   `json:"content" form:"content"`
	IsPoll      bool     `json:"is_poll" form:"is_poll"`
	PollOptions []string `json:"poll_options,omitempty" form:"poll_options" validate:"omitempty,min=2,max=10,dive,min=1,max=255"`
}

// PostReplyRequest represents the request to reply to a message
type PostReplyRequest struct {
	Content string `json:"content" validate:"required,min=1"`
}

// VoteRequest represents the request to vote on a message or reply
type VoteRequest struct {
	Kind string `json:"kind" validate:"required,oneof=up down"`
}

// PollVoteRequest represents the request to vote on a poll option
type PollVoteRequest struct {
	Option string `json:"option" validate:"required,min=1,max=255"`
}

// ListMessagesRequest represents query parameters for listing messages
type ListMessagesRequest struct {
	SenderID string `query:"sender_id" validate:"omitempty,uuid"`
	PollOnly bool   `query:"poll_only"`
	Page     int    `query:"page" validate:"min=0"`
	PageSize int    `query:"page_size" validate:"min=0,max=100"`
}

// SearchRequest represents a semantic search query within a hub
type SearchRequest struct {
	Query string `json:"query" query:"q" validate:"required,min=1,max=500"`
	Limit int    `json:"limit" query:"limit" validate:"min=0,max=50"`
}
