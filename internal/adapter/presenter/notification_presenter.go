package presenter

import (
	"encoding/json"

	notificationDTO "github.com/classhub-team/classhub/internal/adapter/dto/notification"
	"github.com/classhub-team/classhub/internal/domain/entities"
)

// ToNotificationResponse converts a Notification entity to
// NotificationResponse DTO
func ToNotificationResponse(n *entities.Notification) *notificationDTO.NotificationResponse {
	if n == nil {
		return nil
	}

	var data map[string]interface{}
	if n.Data != nil {
		json.Unmarshal(n.Data, &data)
	}

	return &notificationDTO.NotificationResponse{
		ID:        n.ID.String(),
		HubID:     n.HubID.String(),
		Type:      string(n.Type),
		Title:     n.Title,
		Body:      n.Body,
		Data:      data,
		ReadAt:    n.ReadAt,
		CreatedAt: n.CreatedAt,
	}
}

// ToNotificationListResponse converts Notification entities to
// NotificationListResponse
func ToNotificationListResponse(notifications []*entities.Notification, total, unread int64) *notificationDTO.NotificationListResponse {
	notificationResponses := make([]*notificationDTO.NotificationResponse, len(notifications))
	for i, n := range notifications {
		notificationResponses[i] = ToNotificationResponse(n)
	}

	return &notificationDTO.NotificationListResponse{
		Notifications: notificationResponses,
		Total:         total,
		UnreadCount:   unread,
	}
}
