package presenter

import (
	"encoding/json"

	messageDTO "github.com/classhub-team/classhub/internal/adapter/dto/message"
	"github.com/classhub-team/classhub/internal/domain/entities"
	"github.com/classhub-team/classhub/internal/infrastructure/external/embedding"
)

// URLResolver maps a stored object key to an accessible URL. Returns the
// key unchanged when resolution fails.
type URLResolver func(objectKey string) string

// ToMessageResponse converts a Message entity to MessageResponse DTO,
// resolving attachment keys to URLs
func ToMessageResponse(m *entities.Message, resolve URLResolver) *messageDTO.MessageResponse {
	if m == nil {
		return nil
	}

	var pollOptions []string
	if m.IsPoll && m.PollOptions != nil {
		json.Unmarshal(m.PollOptions, &pollOptions)
	}

	response := &messageDTO.MessageResponse{
		ID:          m.ID.String(),
		HubID:       m.HubID.String(),
		SenderID:    m.SenderID.String(),
		Content:     m.Content,
		ImageURL:    resolveKey(m.ImageURL, resolve),
		FileURL:     resolveKey(m.FileURL, resolve),
		VideoURL:    resolveKey(m.VideoURL, resolve),
		IsPoll:      m.IsPoll,
		PollOptions: pollOptions,
		Upvotes:     m.Upvotes,
		Downvotes:   m.Downvotes,
		NetVotes:    m.NetVotes(),
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}

	if m.Sender != nil {
		response.Sender = ToUserResponse(m.Sender)
	}

	return response
}

// ToMessageListResponse converts a slice of Message entities to
// MessageListResponse
func ToMessageListResponse(messages []*entities.Message, total int64, page, pageSize int, resolve URLResolver) *messageDTO.MessageListResponse {
	messageResponses := make([]*messageDTO.MessageResponse, len(messages))
	for i, m := range messages {
		messageResponses[i] = ToMessageResponse(m, resolve)
	}

	totalPages := int(total) / pageSize
	if int(total)%pageSize != 0 {
		totalPages++
	}

	return &messageDTO.MessageListResponse{
		Messages:   messageResponses,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	}
}

// ToReplyResponse converts a Reply entity to ReplyResponse DTO
func ToReplyResponse(r *entities.Reply) *messageDTO.ReplyResponse {
	if r == nil {
		return nil
	}

	response := &messageDTO.ReplyResponse{
		ID:        r.ID.String(),
		MessageID: r.MessageID.String(),
		SenderID:  r.SenderID.String(),
		Content:   r.Content,
		Upvotes:   r.Upvotes,
		Downvotes: r.Downvotes,
		NetVotes:  r.NetVotes(),
		CreatedAt: r.CreatedAt,
	}

	if r.Sender != nil {
		response.Sender = ToUserResponse(r.Sender)
	}

	return response
}

// ToReplyListResponse converts a slice of Reply entities to ReplyListResponse
func ToReplyListResponse(replies []*entities.Reply) *messageDTO.ReplyListResponse {
	replyResponses := make([]*messageDTO.ReplyResponse, len(replies))
	for i, r := range replies {
		replyResponses[i] = ToReplyResponse(r)
	}

	return &messageDTO.ReplyListResponse{
		Replies: replyResponses,
		Total:   len(replyResponses),
	}
}

// ToPollResultsResponse converts poll tallies to PollResultsResponse
func ToPollResultsResponse(pollID string, results map[string]int64) *messageDTO.PollResultsResponse {
	var total int64
	for _, count := range results {
		total += count
	}

	return &messageDTO.PollResultsResponse{
		PollID:  pollID,
		Results: results,
		Total:   total,
	}
}

// ToBookmarkListResponse converts a slice of Bookmark entities to
// BookmarkListResponse
func ToBookmarkListResponse(bookmarks []*entities.Bookmark, resolve URLResolver) *messageDTO.BookmarkListResponse {
	bookmarkResponses := make([]*messageDTO.BookmarkResponse, len(bookmarks))
	for i, b := range bookmarks {
		bookmarkResponses[i] = &messageDTO.BookmarkResponse{
			ID:        b.ID.String(),
			HubID:     b.HubID.String(),
			MessageID: b.MessageID.String(),
			Message:   ToMessageResponse(b.Message, resolve),
			CreatedAt: b.CreatedAt,
		}
	}

	return &messageDTO.BookmarkListResponse{
		Bookmarks: bookmarkResponses,
		Total:     len(bookmarkResponses),
	}
}

// ToSearchResponse converts embedding search hits to SearchResponse
func ToSearchResponse(results []embedding.SearchResult) *messageDTO.SearchResponse {
	resultResponses := make([]*messageDTO.SearchResultResponse, len(results))
	for i, r := range results {
		resultResponses[i] = &messageDTO.SearchResultResponse{
			MessageID: r.MessageID,
			Score:     r.Score,
			Snippet:   r.Snippet,
		}
	}

	return &messageDTO.SearchResponse{
		Results: resultResponses,
		Total:   len(resultResponses),
	}
}

// resolveKey resolves an optional object key through the resolver
func resolveKey(key *string, resolve URLResolver) *string {
	if key == nil || resolve == nil {
		return key
	}
	url := resolve(*key)
	return &url
}
