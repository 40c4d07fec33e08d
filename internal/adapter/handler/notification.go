package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/classhub-team/classhub/internal/adapter/presenter"
	usecaseErrors "github.com/classhub-team/classhub/internal/usecase/errors"
	notificationUsecase "github.com/classhub-team/classhub/internal/usecase/notification"
)

// Notification handles notification HTTP requests
type Notification struct {
	notificationService *notificationUsecase.NotificationService
}

// NewNotificationHandler creates a new notification handler
func NewNotificationHandler(notificationService *notificationUsecase.NotificationService) *Notification {
	return &Notification{
		notificationService: notificationService,
	}
}

// List handles GET /notifications
// Supports ?unread=true, ?limit= and ?offset= query parameters.
func (h *Notification) List(c echo.Context) error {
	userID, ok := currentUserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]interface{}{
			"error":   "unauthorized",
			"message": "user not authenticated",
		})
	}

	unreadOnly := c.QueryParam("unread") == "true"

	limit := 50
	if v, err := strconv.Atoi(c.QueryParam("limit")); err == nil && v > 0 && v <= 200 {
		limit = v
	}
	offset := 0
	if v, err := strconv.Atoi(c.QueryParam("offset")); err == nil && v > 0 {
		offset = v
	}

	notifications, total, err := h.notificationService.List(c.Request().Context(), userID, unreadOnly, limit, offset)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]interface{}{
			"error":   "failed_to_list_notifications",
			"message": err.Error(),
		})
	}

	unread, err := h.notificationService.UnreadCount(c.Request().Context(), userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]interface{}{
			"error":   "failed_to_count_unread",
			"message": err.Error(),
		})
	}

	return c.JSON(http.StatusOK, presenter.ToNotificationListResponse(notifications, total, unread))
}

// MarkRead handles POST /notifications/:id/read
func (h *Notification) MarkRead(c echo.Context) error {
	notificationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]interface{}{
			"error":   "invalid_notification_id",
			"message": "notification ID must be a valid UUID",
		})
	}

	userID, ok := currentUserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]interface{}{
			"error":   "unauthorized",
			"message": "user not authenticated",
		})
	}

	if err := h.notificationService.MarkRead(c.Request().Context(), notificationID, userID); err != nil {
		statusCode := http.StatusInternalServerError
		errorCode := "failed_to_mark_read"

		switch {
		case errors.Is(err, usecaseErrors.ErrNotificationNotFound):
			statusCode = http.StatusNotFound
			errorCode = "notification_not_found"
		case errors.Is(err, usecaseErrors.ErrForbidden):
			statusCode = http.StatusForbidden
			errorCode = "forbidden"
		}

		return c.JSON(statusCode, map[string]interface{}{
			"error":   errorCode,
			"message": err.Error(),
		})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "notification marked as read",
	})
}

// MarkAllRead handles POST /notifications/read-all
func (h *Notification) MarkAllRead(c echo.Context) error {
	userID, ok := currentUserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]interface{}{
			"error":   "unauthorized",
			"message": "user not authenticated",
		})
	}

	if err := h.notificationService.MarkAllRead(c.Request().Context(), userID); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]interface{}{
			"error":   "failed_to_mark_all_read",
			"message": err.Error(),
		})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "all notifications marked as read",
	})
}

// UnreadCount handles GET /notifications/unread-count
func (h *Notification) UnreadCount(c echo.Context) error {
	userID, ok := currentUserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]interface{}{
			"error":   "unauthorized",
			"message": "user not authenticated",
		})
	}

	count, err := h.notificationService.UnreadCount(c.Request().Context(), userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]interface{}{
			"error":   "failed_to_count_unread",
			"message": err.Error(),
		})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"unread_count": count,
	})
}
