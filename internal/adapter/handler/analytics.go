package handler

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/classhub-team/classhub/internal/usecase/analytics"
	usecaseErrors "github.com/classhub-team/classhub/internal/usecase/errors"
	hubUsecase "github.com/classhub-team/classhub/internal/usecase/hub"
)

// Analytics handles engagement report HTTP requests
type Analytics struct {
	analyticsService *analytics.Service
	hubService       *hubUsecase.HubService
}

// NewAnalyticsHandler creates a new analytics handler
func NewAnalyticsHandler(analyticsService *analytics.Service, hubService *hubUsecase.HubService) *Analytics {
	return &Analytics{
		analyticsService: analyticsService,
		hubService:       hubService,
	}
}

// RoomReport handles GET /hubs/:id/analytics/room
// @Summary Get room engagement report
// @Description Returns hub-wide engagement metrics, trends and insights. Teachers only.
// @Tags analytics
// @Produce json
// @Param id path string true "Hub ID"
// @Success 200 {object} analytics.RoomReport
// @Router /hubs/{id}/analytics/room [get]
func (h *Analytics) RoomReport(c echo.Context) error {
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

	if !user.IsTeacher() {
		return c.JSON(http.StatusForbidden, map[string]interface{}{
			"error":   "teacher_only",
			"message": "room reports are restricted to teachers",
		})
	}

	report, err := h.analyticsService.RoomReportFor(c.Request().Context(), hubID)
	if err != nil {
		statusCode := http.StatusInternalServerError
		errorCode := "failed_to_compute_report"
		if errors.Is(err, usecaseErrors.ErrHubNotFound) {
			statusCode = http.StatusNotFound
			errorCode = "hub_not_found"
		}
		return c.JSON(statusCode, map[string]interface{}{
			"error":   errorCode,
			"message": err.Error(),
		})
	}

	return c.JSON(http.StatusOK, report)
}

// StudentReport handles GET /hubs/:id/analytics/students/:username
// Students may only view their own report; teachers may view any.
func (h *Analytics) StudentReport(c echo.Context) error {
	hubID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]interface{}{
			"error":   "invalid_hub_id",
			"message": "hub ID must be a valid UUID",
		})
	}

	username := c.Param("username")
	if username == "" {
		return c.JSON(http.StatusBadRequest, map[string]interface{}{
			"error":   "invalid_username",
			"message": "username is required",
		})
	}

	user, ok := currentUser(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]interface{}{
			"error":   "unauthorized",
			"message": "user not authenticated",
		})
	}

	if !user.IsTeacher() && user.Username != username {
		return c.JSON(http.StatusForbidden, map[string]interface{}{
			"error":   "forbidden",
			"message": "students may only view their own report",
		})
	}

	if err := h.hubService.RequireMember(c.Request().Context(), hubID, user.ID); err != nil {
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

	report, err := h.analyticsService.StudentReportFor(c.Request().Context(), hubID, username)
	if err != nil {
		statusCode := http.StatusInternalServerError
		errorCode := "failed_to_compute_report"
		if errors.Is(err, usecaseErrors.ErrHubNotFound) {
			statusCode = http.StatusNotFound
			errorCode = "hub_not_found"
		}
		return c.JSON(statusCode, map[string]interface{}{
			"error":   errorCode,
			"message": err.Error(),
		})
	}

	return c.JSON(http.StatusOK, report)
}
