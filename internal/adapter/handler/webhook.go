package handler

import (
	"github.com/labstack/echo/v4"
	"github.com/livekit/protocol/auth"
	"github.com/livekit/protocol/webhook"
	"go.uber.org/zap"

	appErrors "github.com/classhub-team/classhub/errors"
	streamUsecase "github.com/classhub-team/classhub/internal/usecase/stream"
)

// WebhookHandler handles LiveKit webhook events
type WebhookHandler struct {
	streamService *streamUsecase.StreamService
	livekitAPIKey string
	livekitSecret string
	logger        *zap.Logger
}

// NewWebhookHandler creates a new webhook handler
func NewWebhookHandler(streamService *streamUsecase.StreamService, livekitAPIKey, livekitSecret string, logger *zap.Logger) *WebhookHandler {
	return &WebhookHandler{
		streamService: streamService,
		livekitAPIKey: livekitAPIKey,
		livekitSecret: livekitSecret,
		logger:        logger,
	}
}

// HandleLiveKitWebhook processes LiveKit webhook events
// @Summary      LiveKit Webhook
// @Description  Receives webhook events from LiveKit server with JWT signature validation
// @Tags         Webhooks
// @Accept       json
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Failure      401  {object}  map[string]interface{}
// @Router       /webhooks/livekit [post]
func (h *WebhookHandler) HandleLiveKitWebhook(c echo.Context) error {
	provider := auth.NewSimpleKeyProvider(h.livekitAPIKey, h.livekitSecret)

	event, err := webhook.ReceiveWebhookEvent(c.Request(), provider)
	if err != nil {
		appErr := appErrors.ErrUnauthenticated()
		appErr.Raw = err
		return HandleError(h.logger, c, appErr)
	}

	h.logger.Info("🌐 received LiveKit webhook", zap.String("event", event.Event))

	ctx := c.Request().Context()

	switch event.Event {
	case "room_finished":
		if event.Room == nil {
			break
		}
		if err := h.streamService.HandleRoomFinished(ctx, event.Room.Name); err != nil {
			h.logger.Error("failed to reconcile finished room",
				zap.String("room", event.Room.Name),
				zap.Error(err),
			)
		}

	case "egress_ended":
		if event.EgressInfo == nil {
			break
		}
		if err := h.streamService.HandleEgressEnded(ctx, event.EgressInfo.RoomName, event.EgressInfo.EgressId); err != nil {
			h.logger.Error("failed to reconcile ended egress",
				zap.String("room", event.EgressInfo.RoomName),
				zap.String("egress_id", event.EgressInfo.EgressId),
				zap.Error(err),
			)
		}

	default:
		// Events we don't care about still get a 200 so LiveKit stops retrying
	}

	return HandleSuccess(h.logger, c, map[string]interface{}{
		"event": event.Event,
	})
}
