package handler

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/classhub-team/classhub/internal/adapter/presenter"
	usecaseErrors "github.com/classhub-team/classhub/internal/usecase/errors"
	hubUsecase "github.com/classhub-team/classhub/internal/usecase/hub"
	streamUsecase "github.com/classhub-team/classhub/internal/usecase/stream"
)

// Stream handles livestream HTTP requests
type Stream struct {
	streamService *streamUsecase.StreamService
	hubService    *hubUsecase.HubService
	livekitURL    string
}

// NewStreamHandler creates a new stream handler
func NewStreamHandler(streamService *streamUsecase.StreamService, hubService *hubUsecase.HubService, livekitURL string) *Stream {
	return &Stream{
		streamService: streamService,
		hubService:    hubService,
		livekitURL:    livekitURL,
	}
}

// StartStream handles POST /hubs/:id/stream/start
// @Summary Start a livestream
// @Description Creates a LiveKit room for the hub. Teachers only.
// @Tags streams
// @Produce json
// @Param id path string true "Hub ID"
// @Success 200 {object} stream.StreamResponse
// @Router /hubs/{id}/stream/start [post]
func (h *Stream) StartStream(c echo.Context) error {
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

	hub, err := h.streamService.StartStream(c.Request().Context(), hubID, userID)
	if err != nil {
		return h.streamError(c, err, "failed_to_start_stream")
	}

	return c.JSON(http.StatusOK, presenter.ToStreamResponse(hub))
}

// StopStream handles POST /hubs/:id/stream/stop
func (h *Stream) StopStream(c echo.Context) error {
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

	if err := h.streamService.StopStream(c.Request().Context(), hubID, userID); err != nil {
		return h.streamError(c, err, "failed_to_stop_stream")
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "stream stopped",
	})
}

// GetStream handles GET /hubs/:id/stream
// Returns the hub's current livestream state.
func (h *Stream) GetStream(c echo.Context) error {
	hubID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]interface{}{
			"error":   "invalid_hub_id",
			"message": "hub ID must be a valid UUID",
		})
	}

	hub, err := h.hubService.GetHub(c.Request().Context(), hubID)
	if err != nil {
		statusCode := http.StatusInternalServerError
		if errors.Is(err, usecaseErrors.ErrHubNotFound) {
			statusCode = http.StatusNotFound
		}
		return c.JSON(statusCode, map[string]interface{}{
			"error":   "hub_not_found",
			"message": err.Error(),
		})
	}

	return c.JSON(http.StatusOK, presenter.ToStreamResponse(hub))
}

// JoinStream handles POST /hubs/:id/stream/join
// Issues a LiveKit access token. Teachers can publish, students subscribe.
func (h *Stream) JoinStream(c echo.Context) error {
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

	token, err := h.streamService.JoinStream(c.Request().Context(), hubID, user.ID, user.Username)
	if err != nil {
		return h.streamError(c, err, "failed_to_join_stream")
	}

	return c.JSON(http.StatusOK, presenter.ToJoinStreamResponse(token, h.livekitURL))
}

// StartRecording handles POST /hubs/:id/stream/recording/start
func (h *Stream) StartRecording(c echo.Context) error {
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

	egressID, err := h.streamService.StartRecording(c.Request().Context(), hubID, userID)
	if err != nil {
		return h.streamError(c, err, "failed_to_start_recording")
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message":   "recording started",
		"egress_id": egressID,
	})
}

// StopRecording handles POST /hubs/:id/stream/recording/stop
func (h *Stream) StopRecording(c echo.Context) error {
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

	if err := h.streamService.StopRecording(c.Request().Context(), hubID, userID); err != nil {
		return h.streamError(c, err, "failed_to_stop_recording")
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "recording stopped",
	})
}

// Participants handles GET /hubs/:id/stream/participants
func (h *Stream) Participants(c echo.Context) error {
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

	if err := h.hubService.RequireMember(c.Request().Context(), hubID, userID); err != nil {
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

	participants, err := h.streamService.Participants(c.Request().Context(), hubID)
	if err != nil {
		return h.streamError(c, err, "failed_to_list_participants")
	}

	return c.JSON(http.StatusOK, presenter.ToParticipantListResponse(participants))
}

// streamError maps stream usecase errors to HTTP responses
func (h *Stream) streamError(c echo.Context, err error, fallbackCode string) error {
	statusCode := http.StatusInternalServerError
	errorCode := fallbackCode

	switch {
	case errors.Is(err, usecaseErrors.ErrHubNotFound):
		statusCode = http.StatusNotFound
		errorCode = "hub_not_found"
	case errors.Is(err, usecaseErrors.ErrHubArchived):
		statusCode = http.StatusForbidden
		errorCode = "hub_archived"
	case errors.Is(err, usecaseErrors.ErrNotTeacher):
		statusCode = http.StatusForbidden
		errorCode = "teacher_only"
	case errors.Is(err, usecaseErrors.ErrNotMember):
		statusCode = http.StatusForbidden
		errorCode = "not_member"
	case errors.Is(err, usecaseErrors.ErrStreamNotActive):
		statusCode = http.StatusConflict
		errorCode = "stream_not_active"
	case errors.Is(err, usecaseErrors.ErrStreamAlreadyActive):
		statusCode = http.StatusConflict
		errorCode = "stream_already_active"
	case errors.Is(err, usecaseErrors.ErrRecordingDisabled):
		statusCode = http.StatusConflict
		errorCode = "recording_disabled"
	case errors.Is(err, usecaseErrors.ErrRecordingInProgress):
		statusCode = http.StatusConflict
		errorCode = "recording_in_progress"
	case errors.Is(err, usecaseErrors.ErrLivekitConnection),
		errors.Is(err, usecaseErrors.ErrLivekitRoom),
		errors.Is(err, usecaseErrors.ErrLivekitToken):
		statusCode = http.StatusBadGateway
		errorCode = "livekit_error"
	}

	return c.JSON(statusCode, map[string]interface{}{
		"error":   errorCode,
		"message": err.Error(),
	})
}
