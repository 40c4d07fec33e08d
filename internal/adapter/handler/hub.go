package handler

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	hubDTO "github.com/classhub-team/classhub/internal/adapter/dto/hub"
	"github.com/classhub-team/classhub/internal/adapter/presenter"
	usecaseErrors "github.com/classhub-team/classhub/internal/usecase/errors"
	hubUsecase "github.com/classhub-team/classhub/internal/usecase/hub"
)

// Hub handles hub-related HTTP requests
type Hub struct {
	hubService *hubUsecase.HubService
}

// NewHubHandler creates a new hub handler
func NewHubHandler(hubService *hubUsecase.HubService) *Hub {
	return &Hub{
		hubService: hubService,
	}
}

// CreateHub handles POST /hubs
// @Summary      Create a new hub
// @Description  Creates a new classroom hub owned by the current teacher
// @Tags         Hubs
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request  body      hub.CreateHubRequest  true  "Hub creation request"
// @Success      201      {object}  hub.HubResponse  "Hub created successfully"
// @Failure      400      {object}  map[string]interface{}  "Invalid request or validation failed"
// @Failure      401      {object}  map[string]interface{}  "User not authenticated"
// @Router       /hubs [post]
func (h *Hub) CreateHub(c echo.Context) error {
	var req hubDTO.CreateHubRequest
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

	userID, ok := currentUserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]interface{}{
			"error":   "unauthorized",
			"message": "user not authenticated",
		})
	}

	input := hubUsecase.CreateHubInput{
		Name:        req.Name,
		Description: req.Description,
		TeacherID:   userID,
		Settings:    req.Settings,
	}

	hub, err := h.hubService.CreateHub(c.Request().Context(), input)
	if err != nil {
		statusCode := http.StatusInternalServerError
		errorCode := "failed_to_create_hub"

		switch {
		case errors.Is(err, usecaseErrors.ErrInvalidHubName):
			statusCode = http.StatusBadRequest
			errorCode = "invalid_hub_name"
		case errors.Is(err, usecaseErrors.ErrSlugTaken):
			statusCode = http.StatusConflict
			errorCode = "slug_taken"
		}

		return c.JSON(statusCode, map[string]interface{}{
			"error":   errorCode,
			"message": err.Error(),
		})
	}

	return c.JSON(http.StatusCreated, presenter.ToHubResponse(hub))
}

// GetHub handles GET /hubs/:id
// @Summary      Get hub details
// @Description  Gets detailed information about a specific hub
// @Tags         Hubs
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Hub ID (UUID)"
// @Success      200  {object}  hub.HubResponse  "Hub details"
// @Failure      400  {object}  map[string]interface{}  "Invalid hub ID"
// @Failure      404  {object}  map[string]interface{}  "Hub not found"
// @Router       /hubs/{id} [get]
func (h *Hub) GetHub(c echo.Context) error {
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

	return c.JSON(http.StatusOK, presenter.ToHubResponse(hub))
}

// GetHubBySlug handles GET /hubs/slug/:slug
func (h *Hub) GetHubBySlug(c echo.Context) error {
	slug := c.Param("slug")
	if slug == "" {
		return c.JSON(http.StatusBadRequest, map[string]interface{}{
			"error":   "invalid_slug",
			"message": "slug is required",
		})
	}

	hub, err := h.hubService.GetHubBySlug(c.Request().Context(), slug)
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

	return c.JSON(http.StatusOK, presenter.ToHubResponse(hub))
}

// ListHubs handles GET /hubs
// @Summary      List hubs
// @Description  Gets a paginated list of hubs with optional filters
// @Tags         Hubs
// @Produce      json
// @Security     BearerAuth
// @Param        page       query     int     false  "Page number (default: 1)"
// @Param        page_size  query     int     false  "Items per page (default: 20)"
// @Param        status     query     string  false  "Hub status filter (active/archived)"
// @Param        search     query     string  false  "Search by hub name"
// @Success      200        {object}  hub.HubListResponse  "List of hubs"
// @Router       /hubs [get]
func (h *Hub) ListHubs(c echo.Context) error {
	var req hubDTO.ListHubsRequest
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
		req.PageSize = 20
	}

	hubs, total, err := h.hubService.ListHubs(c.Request().Context(), buildHubFilters(&req))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]interface{}{
			"error":   "failed_to_list_hubs",
			"message": err.Error(),
		})
	}

	return c.JSON(http.StatusOK, presenter.ToHubListResponse(hubs, total, req.Page, req.PageSize))
}

// ListMyHubs handles GET /hubs/mine
func (h *Hub) ListMyHubs(c echo.Context) error {
	userID, ok := currentUserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]interface{}{
			"error":   "unauthorized",
			"message": "user not authenticated",
		})
	}

	hubs, err := h.hubService.ListUserHubs(c.Request().Context(), userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]interface{}{
			"error":   "failed_to_list_hubs",
			"message": err.Error(),
		})
	}

	pageSize := len(hubs)
	if pageSize == 0 {
		pageSize = 1
	}
	return c.JSON(http.StatusOK, presenter.ToHubListResponse(hubs, int64(len(hubs)), 1, pageSize))
}

// UpdateHub handles PUT /hubs/:id
func (h *Hub) UpdateHub(c echo.Context) error {
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

	var req hubDTO.UpdateHubRequest
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

	input := hubUsecase.UpdateHubInput{
		Name:        req.Name,
		Description: req.Description,
		Settings:    req.Settings,
	}

	hub, err := h.hubService.UpdateHub(c.Request().Context(), hubID, userID, input)
	if err != nil {
		statusCode := http.StatusInternalServerError
		errorCode := "failed_to_update_hub"

		switch {
		case errors.Is(err, usecaseErrors.ErrHubNotFound):
			statusCode = http.StatusNotFound
			errorCode = "hub_not_found"
		case errors.Is(err, usecaseErrors.ErrNotTeacher):
			statusCode = http.StatusForbidden
			errorCode = "not_teacher"
		case errors.Is(err, usecaseErrors.ErrInvalidHubName):
			statusCode = http.StatusBadRequest
			errorCode = "invalid_hub_name"
		}

		return c.JSON(statusCode, map[string]interface{}{
			"error":   errorCode,
			"message": err.Error(),
		})
	}

	return c.JSON(http.StatusOK, presenter.ToHubResponse(hub))
}

// ArchiveHub handles POST /hubs/:id/archive
func (h *Hub) ArchiveHub(c echo.Context) error {
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

	if err := h.hubService.ArchiveHub(c.Request().Context(), hubID, userID); err != nil {
		statusCode := http.StatusInternalServerError
		errorCode := "failed_to_archive_hub"

		switch {
		case errors.Is(err, usecaseErrors.ErrHubNotFound):
			statusCode = http.StatusNotFound
			errorCode = "hub_not_found"
		case errors.Is(err, usecaseErrors.ErrNotTeacher):
			statusCode = http.StatusForbidden
			errorCode = "not_teacher"
		}

		return c.JSON(statusCode, map[string]interface{}{
			"error":   errorCode,
			"message": err.Error(),
		})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "hub archived successfully",
	})
}

// JoinHub handles POST /hubs/join
// @Summary      Join a hub
// @Description  Joins a hub via its invite slug
// @Tags         Hubs
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request  body      hub.JoinHubRequest  true  "Join request with slug"
// @Success      200      {object}  hub.HubResponse  "Joined hub"
// @Failure      404      {object}  map[string]interface{}  "Hub not found"
// @Failure      409      {object}  map[string]interface{}  "Already a member"
// @Router       /hubs/join [post]
func (h *Hub) JoinHub(c echo.Context) error {
	userID, ok := currentUserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]interface{}{
			"error":   "unauthorized",
			"message": "user not authenticated",
		})
	}

	var req hubDTO.JoinHubRequest
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

	hub, err := h.hubService.JoinHub(c.Request().Context(), req.Slug, userID)
	if err != nil {
		statusCode := http.StatusInternalServerError
		errorCode := "failed_to_join_hub"

		switch {
		case errors.Is(err, usecaseErrors.ErrHubNotFound):
			statusCode = http.StatusNotFound
			errorCode = "hub_not_found"
		case errors.Is(err, usecaseErrors.ErrHubArchived):
			statusCode = http.StatusForbidden
			errorCode = "hub_archived"
		case errors.Is(err, usecaseErrors.ErrAlreadyMember):
			statusCode = http.StatusConflict
			errorCode = "already_member"
		}

		return c.JSON(statusCode, map[string]interface{}{
			"error":   errorCode,
			"message": err.Error(),
		})
	}

	return c.JSON(http.StatusOK, presenter.ToHubResponse(hub))
}

// LeaveHub handles POST /hubs/:id/leave
func (h *Hub) LeaveHub(c echo.Context) error {
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

	if err := h.hubService.LeaveHub(c.Request().Context(), hubID, userID); err != nil {
		statusCode := http.StatusInternalServerError
		errorCode := "failed_to_leave_hub"

		switch {
		case errors.Is(err, usecaseErrors.ErrHubNotFound):
			statusCode = http.StatusNotFound
			errorCode = "hub_not_found"
		case errors.Is(err, usecaseErrors.ErrNotMember):
			statusCode = http.StatusBadRequest
			errorCode = "not_member"
		case errors.Is(err, usecaseErrors.ErrTeacherLeave):
			statusCode = http.StatusForbidden
			errorCode = "teacher_cannot_leave"
		}

		return c.JSON(statusCode, map[string]interface{}{
			"error":   errorCode,
			"message": err.Error(),
		})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "successfully left the hub",
	})
}

// GetMembers handles GET /hubs/:id/members
func (h *Hub) GetMembers(c echo.Context) error {
	hubID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]interface{}{
			"error":   "invalid_hub_id",
			"message": "hub ID must be a valid UUID",
		})
	}

	members, err := h.hubService.GetMembers(c.Request().Context(), hubID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]interface{}{
			"error":   "failed_to_get_members",
			"message": err.Error(),
		})
	}

	return c.JSON(http.StatusOK, presenter.ToMemberListResponse(members))
}
