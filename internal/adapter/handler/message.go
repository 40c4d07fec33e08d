package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	messageDTO "github.com/classhub-team/classhub/internal/adapter/dto/message"
	"github.com/classhub-team/classhub/internal/adapter/presenter"
	"github.com/classhub-team/classhub/internal/domain/entities"
	"github.com/classhub-team/classhub/internal/infrastructure/external/embedding"
	"github.com/classhub-team/classhub/internal/usecase/analytics"
	usecaseErrors "github.com/classhub-team/classhub/internal/usecase/errors"
	hubUsecase "github.com/classhub-team/classhub/internal/usecase/hub"
	messageUsecase "github.com/classhub-team/classhub/internal/usecase/message"
)

// Message handles message-related HTTP requests
type Message struct {
	messageService   *messageUsecase.MessageService
	hubService       *hubUsecase.HubService
	analyticsService *analytics.Service
	embedding        *embedding.Client
	logger           *zap.Logger
}

// NewMessageHandler creates a new message handler. The embedding client
// may be nil when semantic search is not configured.
func NewMessageHandler(
	messageService *messageUsecase.MessageService,
	hubService *hubUsecase.HubService,
	analyticsService *analytics.Service,
	embeddingClient *embedding.Client,
	logger *zap.Logger,
) *Message {
	return &Message{
		messageService:   messageService,
		hubService:       hubService,
		analyticsService: analyticsService,
		embedding:        embeddingClient,
		logger:           logger,
	}
}

// PostMessage handles POST /hubs/:id/messages
// Accepts JSON, or multipart form data when an attachment is included
// under the "attachment" field.
func (h *Message) PostMessage(c echo.Context) error {
	hubID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]interface{}{
			"error":   "invalid_hub_id",
			"message": "hub ID must be a valid UUID",
		})
	}

	user, ok := currentUser(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]interface{}{
			"error":   "unauthorized",
			"message": "user not authenticated",
		})
	}

	if err := h.requireMember(c, hubID, user.ID); err != nil {
		return err
	}

	var req messageDTO.PostMessageRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]interface{}{
			"error":   "invalid_request",
			"message": err.Error(),
		})
	}

	input := messageUsecase.PostMessageInput{
		HubID:       hubID,
		SenderID:    user.ID,
		SenderRole:  user.Role,
		Content:     req.Content,
		IsPoll:      req.IsPoll,
		PollOptions: req.PollOptions,
	}

	// Multipart attachment, if any
	if file, err := c.FormFile("attachment"); err == nil {
		src, err := file.Open()
		if err != nil {
			return c.JSON(http.StatusBadRequest, map[string]interface{}{
				"error":   "invalid_attachment",
				"message": err.Error(),
			})
		}
		defer src.Close()

		contentType := file.Header.Get("Content-Type")
		input.Attachment = &messageUsecase.Attachment{
			Kind:        attachmentKind(contentType),
			Filename:    file.Filename,
			Reader:      src,
			Size:        file.Size,
			ContentType: contentType,
		}
	}

	msg, err := h.messageService.PostMessage(c.Request().Context(), input)
	if err != nil {
		statusCode := http.StatusInternalServerError
		errorCode := "failed_to_post_message"

		switch {
		case errors.Is(err, usecaseErrors.ErrHubNotFound):
			statusCode = http.StatusNotFound
			errorCode = "hub_not_found"
		case errors.Is(err, usecaseErrors.ErrHubArchived):
			statusCode = http.StatusForbidden
			errorCode = "hub_archived"
		case errors.Is(err, usecaseErrors.ErrEmptyMessage):
			statusCode = http.StatusBadRequest
			errorCode = "empty_message"
		case errors.Is(err, usecaseErrors.ErrPollNeedsOptions):
			statusCode = http.StatusBadRequest
			errorCode = "poll_needs_options"
		case errors.Is(err, usecaseErrors.ErrStudentPollsClosed):
			statusCode = http.StatusForbidden
			errorCode = "student_polls_closed"
		}

		return c.JSON(statusCode, map[string]interface{}{
			"error":   errorCode,
			"message": err.Error(),
		})
	}

	h.analyticsService.InvalidateHub(c.Request().Context(), hubID)
	h.indexMessage(hubID, msg.ID, msg.Content)

	return c.JSON(http.StatusCreated, presenter.ToMessageResponse(msg, h.urlResolver(c.Request().Context())))
}

// GetMessage handles GET /hubs/:id/messages/:mid
func (h *Message) GetMessage(c echo.Context) error {
	messageID, err := uuid.Parse(c.Param("mid"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]interface{}{
			"error":   "invalid_message_id",
			"message": "message ID must be a valid UUID",
		})
	}

	msg, err := h.messageService.GetMessage(c.Request().Context(), messageID)
	if err != nil {
		statusCode := http.StatusInternalServerError
		if errors.Is(err, usecaseErrors.ErrMessageNotFound) {
			statusCode = http.StatusNotFound
		}
		return c.JSON(statusCode, map[string]interface{}{
			"error":   "message_not_found",
			"message": err.Error(),
		})
	}

	return c.JSON(http.StatusOK, presenter.ToMessageResponse(msg, h.urlResolver(c.Request().Context())))
}

// ListMessages handles GET /hubs/:id/messages
func (h *Message) ListMessages(c echo.Context) error {
	hubID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]interface{}{
			"error":   "invalid_hub_id",
			"message": "hub ID must be a valid UUID",
		})
	}

	userID, ok := currentUserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]interface{}{
			"error":   "unauthorized",
			"message": "user not authenticated",
		})
	}

	if err := h.requireMember(c, hubID, userID); err != nil {
		return err
	}

	var req messageDTO.ListMessagesRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]interface{}{
			"error":   "invalid_request",
			"message": err.Error(),
		})
	}

	if req.Page == 0 {
		req.Page = 1
	}
	if req.PageSize == 0 {
		req.PageSize = 50
	}

	messages, total, err := h.messageService.ListMessages(c.Request().Context(), hubID, buildMessageFilters(&req))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]interface{}{
			"error":   "failed_to_list_messages",
			"message": err.Error(),
		})
	}

	return c.JSON(http.StatusOK, presenter.ToMessageListResponse(messages, total, req.Page, req.PageSize, h.urlResolver(c.Request().Context())))
}

// PostReply handles POST /hubs/:id/messages/:mid/replies
func (h *Message) PostReply(c echo.Context) error {
	hubID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]interface{}{
			"error":   "invalid_hub_id",
			"message": "hub ID must be a valid UUID",
		})
	}

	messageID, err := uuid.Parse(c.Param("mid"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]interface{}{
			"error":   "invalid_message_id",
			"message": "message ID must be a valid UUID",
		})
	}

	userID, ok := currentUserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]interface{}{
			"error":   "unauthorized",
			"message": "user not authenticated",
		})
	}

	if err := h.requireMember(c, hubID, userID); err != nil {
		return err
	}

	var req messageDTO.PostReplyRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]interface{}{
			"error":   "invalid_request",
			"message": err.Error(),
		})
	}

	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]interface{}{
			"error":   "validation_failed",
			"message": err.Error(),
		})
	}

	reply, err := h.messageService.PostReply(c.Request().Context(), messageUsecase.PostReplyInput{
		MessageID: messageID,
		SenderID:  userID,
		Content:   req.Content,
	})
	if err != nil {
		statusCode := http.StatusInternalServerError
		errorCode := "failed_to_post_reply"

		switch {
		case errors.Is(err, usecaseErrors.ErrMessageNotFound):
			statusCode = http.StatusNotFound
			errorCode = "message_not_found"
		case errors.Is(err, usecaseErrors.ErrHubArchived):
			statusCode = http.StatusForbidden
			errorCode = "hub_archived"
		case errors.Is(err, usecaseErrors.ErrEmptyMessage):
			statusCode = http.StatusBadRequest
			errorCode = "empty_reply"
		}

		return c.JSON(statusCode, map[string]interface{}{
			"error":   errorCode,
			"message": err.Error(),
		})
	}

	h.analyticsService.InvalidateHub(c.Request().Context(), hubID)

	return c.JSON(http.StatusCreated, presenter.ToReplyResponse(reply))
}

// ListReplies handles GET /hubs/:id/messages/:mid/replies
func (h *Message) ListReplies(c echo.Context) error {
	messageID, err := uuid.Parse(c.Param("mid"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]interface{}{
			"error":   "invalid_message_id",
			"message": "message ID must be a valid UUID",
		})
	}

	replies, err := h.messageService.ListReplies(c.Request().Context(), messageID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]interface{}{
			"error":   "failed_to_list_replies",
			"message": err.Error(),
		})
	}

	return c.JSON(http.StatusOK, presenter.ToReplyListResponse(replies))
}

// Vote handles POST /hubs/:id/content/:cid/vote for messages and replies
func (h *Message) Vote(c echo.Context) error {
	hubID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]interface{}{
			"error":   "invalid_hub_id",
			"message": "hub ID must be a valid UUID",
		})
	}

	contentID, err := uuid.Parse(c.Param("cid"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]interface{}{
			"error":   "invalid_content_id",
			"message": "content ID must be a valid UUID",
		})
	}

	userID, ok := currentUserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]interface{}{
			"error":   "unauthorized",
			"message": "user not authenticated",
		})
	}

	if err := h.requireMember(c, hubID, userID); err != nil {
		return err
	}

	var req messageDTO.VoteRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]interface{}{
			"error":   "invalid_request",
			"message": err.Error(),
		})
	}

	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]interface{}{
			"error":   "validation_failed",
			"message": err.Error(),
		})
	}

	err = h.messageService.Vote(c.Request().Context(), messageUsecase.VoteInput{
		HubID:     hubID,
		UserID:    userID,
		ContentID: contentID,
		Kind:      voteKind(req.Kind),
	})
	if err != nil {
		statusCode := http.StatusInternalServerError
		errorCode := "failed_to_vote"

		switch {
		case errors.Is(err, usecaseErrors.ErrMessageNotFound):
			statusCode = http.StatusNotFound
			errorCode = "content_not_found"
		case errors.Is(err, usecaseErrors.ErrHubArchived):
			statusCode = http.StatusForbidden
			errorCode = "hub_archived"
		case errors.Is(err, usecaseErrors.ErrInvalidVoteKind):
			statusCode = http.StatusBadRequest
			errorCode = "invalid_vote_kind"
		}

		return c.JSON(statusCode, map[string]interface{}{
			"error":   errorCode,
			"message": err.Error(),
		})
	}

	h.analyticsService.InvalidateHub(c.Request().Context(), hubID)

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "vote recorded",
	})
}

// VotePoll handles POST /hubs/:id/polls/:pid/vote
func (h *Message) VotePoll(c echo.Context) error {
	hubID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]interface{}{
			"error":   "invalid_hub_id",
			"message": "hub ID must be a valid UUID",
		})
	}

	pollID, err := uuid.Parse(c.Param("pid"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]interface{}{
			"error":   "invalid_poll_id",
			"message": "poll ID must be a valid UUID",
		})
	}

	userID, ok := currentUserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]interface{}{
			"error":   "unauthorized",
			"message": "user not authenticated",
		})
	}

	if err := h.requireMember(c, hubID, userID); err != nil {
		return err
	}

	var req messageDTO.PollVoteRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]interface{}{
			"error":   "invalid_request",
			"message": err.Error(),
		})
	}

	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]interface{}{
			"error":   "validation_failed",
			"message": err.Error(),
		})
	}

	err = h.messageService.VotePoll(c.Request().Context(), messageUsecase.VotePollInput{
		HubID:  hubID,
		UserID: userID,
		PollID: pollID,
		Option: req.Option,
	})
	if err != nil {
		statusCode := http.StatusInternalServerError
		errorCode := "failed_to_vote"

		switch {
		case errors.Is(err, usecaseErrors.ErrMessageNotFound):
			statusCode = http.StatusNotFound
			errorCode = "poll_not_found"
		case errors.Is(err, usecaseErrors.ErrHubArchived):
			statusCode = http.StatusForbidden
			errorCode = "hub_archived"
		case errors.Is(err, usecaseErrors.ErrNotAPoll):
			statusCode = http.StatusBadRequest
			errorCode = "not_a_poll"
		case errors.Is(err, usecaseErrors.ErrInvalidPollOption):
			statusCode = http.StatusBadRequest
			errorCode = "invalid_option"
		}

		return c.JSON(statusCode, map[string]interface{}{
			"error":   errorCode,
			"message": err.Error(),
		})
	}

	h.analyticsService.InvalidateHub(c.Request().Context(), hubID)

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "poll vote recorded",
	})
}

// PollResults handles GET /hubs/:id/polls/:pid/results
func (h *Message) PollResults(c echo.Context) error {
	pollID, err := uuid.Parse(c.Param("pid"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]interface{}{
			"error":   "invalid_poll_id",
			"message": "poll ID must be a valid UUID",
		})
	}

	results, err := h.messageService.PollResults(c.Request().Context(), pollID)
	if err != nil {
		statusCode := http.StatusInternalServerError
		errorCode := "failed_to_get_results"

		switch {
		case errors.Is(err, usecaseErrors.ErrMessageNotFound):
			statusCode = http.StatusNotFound
			errorCode = "poll_not_found"
		case errors.Is(err, usecaseErrors.ErrNotAPoll):
			statusCode = http.StatusBadRequest
			errorCode = "not_a_poll"
		}

		return c.JSON(statusCode, map[string]interface{}{
			"error":   errorCode,
			"message": err.Error(),
		})
	}

	return c.JSON(http.StatusOK, presenter.ToPollResultsResponse(pollID.String(), results))
}

// Bookmark handles POST /hubs/:id/messages/:mid/bookmark
func (h *Message) Bookmark(c echo.Context) error {
	hubID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]interface{}{
			"error":   "invalid_hub_id",
			"message": "hub ID must be a valid UUID",
		})
	}

	messageID, err := uuid.Parse(c.Param("mid"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]interface{}{
			"error":   "invalid_message_id",
			"message": "message ID must be a valid UUID",
		})
	}

	userID, ok := currentUserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]interface{}{
			"error":   "unauthorized",
			"message": "user not authenticated",
		})
	}

	if err := h.requireMember(c, hubID, userID); err != nil {
		return err
	}

	if err := h.messageService.BookmarkMessage(c.Request().Context(), hubID, userID, messageID); err != nil {
		statusCode := http.StatusInternalServerError
		if errors.Is(err, usecaseErrors.ErrMessageNotFound) {
			statusCode = http.StatusNotFound
		}
		return c.JSON(statusCode, map[string]interface{}{
			"error":   "failed_to_bookmark",
			"message": err.Error(),
		})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "message bookmarked",
	})
}

// RemoveBookmark handles DELETE /hubs/:id/messages/:mid/bookmark
func (h *Message) RemoveBookmark(c echo.Context) error {
	messageID, err := uuid.Parse(c.Param("mid"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]interface{}{
			"error":   "invalid_message_id",
			"message": "message ID must be a valid UUID",
		})
	}

	userID, ok := currentUserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]interface{}{
			"error":   "unauthorized",
			"message": "user not authenticated",
		})
	}

	if err := h.messageService.RemoveBookmark(c.Request().Context(), userID, messageID); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]interface{}{
			"error":   "failed_to_remove_bookmark",
			"message": err.Error(),
		})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "bookmark removed",
	})
}

// ListBookmarks handles GET /hubs/:id/bookmarks
func (h *Message) ListBookmarks(c echo.Context) error {
	hubID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]interface{}{
			"error":   "invalid_hub_id",
			"message": "hub ID must be a valid UUID",
		})
	}

	userID, ok := currentUserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]interface{}{
			"error":   "unauthorized",
			"message": "user not authenticated",
		})
	}

	bookmarks, err := h.messageService.ListBookmarks(c.Request().Context(), hubID, userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]interface{}{
			"error":   "failed_to_list_bookmarks",
			"message": err.Error(),
		})
	}

	return c.JSON(http.StatusOK, presenter.ToBookmarkListResponse(bookmarks, h.urlResolver(c.Request().Context())))
}

// Search handles GET /hubs/:id/search
func (h *Message) Search(c echo.Context) error {
	hubID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]interface{}{
			"error":   "invalid_hub_id",
			"message": "hub ID must be a valid UUID",
		})
	}

	userID, ok := currentUserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]interface{}{
			"error":   "unauthorized",
			"message": "user not authenticated",
		})
	}

	if err := h.requireMember(c, hubID, userID); err != nil {
		return err
	}

	if h.embedding == nil {
		return c.JSON(http.StatusServiceUnavailable, map[string]interface{}{
			"error":   "search_unavailable",
			"message": "semantic search is not configured",
		})
	}

	var req messageDTO.SearchRequest
	if err := c.Bind(&req); err != nil || req.Query == "" {
		return c.JSON(http.StatusBadRequest, map[string]interface{}{
			"error":   "invalid_request",
			"message": "query parameter q is required",
		})
	}

	results, err := h.embedding.Search(c.Request().Context(), hubID.String(), req.Query, req.Limit)
	if err != nil {
		return c.JSON(http.StatusBadGateway, map[string]interface{}{
			"error":   "search_failed",
			"message": err.Error(),
		})
	}

	return c.JSON(http.StatusOK, presenter.ToSearchResponse(results))
}

// requireMember rejects the request when the user is not an active hub
// member. Writes the error response itself.
func (h *Message) requireMember(c echo.Context, hubID, userID uuid.UUID) error {
	err := h.hubService.RequireMember(c.Request().Context(), hubID, userID)
	if err == nil {
		return nil
	}

	statusCode := http.StatusInternalServerError
	errorCode := "failed_to_check_membership"

	switch {
	case errors.Is(err, usecaseErrors.ErrHubNotFound):
		statusCode = http.StatusNotFound
		errorCode = "hub_not_found"
	case errors.Is(err, usecaseErrors.ErrNotMember):
		statusCode = http.StatusForbidden
		errorCode = "not_member"
	}

	return c.JSON(statusCode, map[string]interface{}{
		"error":   errorCode,
		"message": err.Error(),
	})
}

// urlResolver returns a presenter resolver backed by presigned storage URLs
func (h *Message) urlResolver(ctx context.Context) presenter.URLResolver {
	return func(objectKey string) string {
		url, err := h.messageService.AttachmentURL(ctx, objectKey)
		if err != nil {
			if h.logger != nil {
				h.logger.Warn("failed to resolve attachment URL",
					zap.String("object_key", objectKey),
					zap.Error(err),
				)
			}
			return objectKey
		}
		return url
	}
}

// indexMessage submits message text to the embedding service in the
// background. Indexing failures never affect the request.
func (h *Message) indexMessage(hubID, messageID uuid.UUID, content string) {
	if h.embedding == nil || content == "" {
		return
	}

	go func() {
		if err := h.embedding.IndexMessage(context.Background(), hubID.String(), messageID.String(), content); err != nil {
			if h.logger != nil {
				h.logger.Warn("failed to index message for search",
					zap.String("message_id", messageID.String()),
					zap.Error(err),
				)
			}
		}
	}()
}

// attachmentKind classifies an upload by its content type
func attachmentKind(contentType string) string {
	switch {
	case strings.HasPrefix(contentType, "image/"):
		return "image"
	case strings.HasPrefix(contentType, "video/"):
		return "video"
	default:
		return "file"
	}
}

// voteKind converts the wire value into a domain vote kind
func voteKind(kind string) entities.VoteKind {
	return entities.VoteKind(kind)
}
