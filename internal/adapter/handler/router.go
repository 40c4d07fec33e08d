package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/classhub-team/classhub/internal/infrastructure/http/middleware"
	"github.com/classhub-team/classhub/internal/usecase/auth"
	"github.com/classhub-team/classhub/pkg/config"
)

// Router holds all handlers
type Router struct {
	cfg                 *config.Config
	oauthService        *auth.OAuthService
	authHandler         *Auth
	hubHandler          *Hub
	messageHandler      *Message
	streamHandler       *Stream
	analyticsHandler    *Analytics
	notificationHandler *Notification
	webhookHandler      *WebhookHandler
}

// NewRouter creates a new router with all handlers
func NewRouter(
	cfg *config.Config,
	oauthService *auth.OAuthService,
	authHandler *Auth,
	hubHandler *Hub,
	messageHandler *Message,
	streamHandler *Stream,
	analyticsHandler *Analytics,
	notificationHandler *Notification,
	webhookHandler *WebhookHandler,
) *Router {
	return &Router{
		cfg:                 cfg,
		oauthService:        oauthService,
		authHandler:         authHandler,
		hubHandler:          hubHandler,
		messageHandler:      messageHandler,
		streamHandler:       streamHandler,
		analyticsHandler:    analyticsHandler,
		notificationHandler: notificationHandler,
		webhookHandler:      webhookHandler,
	}
}

// Setup configures all application routes
func (rt *Router) Setup(e *echo.Echo) {
	// Health check endpoint
	e.GET("/health", rt.healthCheck)

	// Webhooks are signed by LiveKit, not by user tokens
	e.POST("/webhooks/livekit", rt.webhookHandler.HandleLiveKitWebhook)

	// API v1 group
	v1 := e.Group("/v1")

	rt.setupAuthRoutes(v1)
	rt.setupHubRoutes(v1)
	rt.setupNotificationRoutes(v1)
}

// setupAuthRoutes configures authentication routes
func (rt *Router) setupAuthRoutes(g *echo.Group) {
	authGroup := g.Group("/auth")

	authGroup.GET("/google/login", rt.authHandler.GoogleLogin)
	authGroup.GET("/google/callback", rt.authHandler.GoogleCallback)
	authGroup.POST("/refresh", rt.authHandler.RefreshToken)
	authGroup.POST("/logout", rt.authHandler.Logout)

	authenticated := authGroup.Group("", middleware.EchoAuth(rt.oauthService))
	authenticated.POST("/logout-all", rt.authHandler.LogoutAll)
	authenticated.GET("/me", rt.authHandler.Me)
}

// setupHubRoutes configures hub, message, stream and analytics routes
func (rt *Router) setupHubRoutes(g *echo.Group) {
	hubs := g.Group("/hubs", middleware.EchoAuth(rt.oauthService))

	// Hubs
	hubs.POST("", rt.hubHandler.CreateHub, middleware.RequireTeacher())
	hubs.GET("", rt.hubHandler.ListHubs)
	hubs.GET("/mine", rt.hubHandler.ListMyHubs)
	hubs.POST("/join", rt.hubHandler.JoinHub)
	hubs.GET("/slug/:slug", rt.hubHandler.GetHubBySlug)
	hubs.GET("/:id", rt.hubHandler.GetHub)
	hubs.PUT("/:id", rt.hubHandler.UpdateHub, middleware.RequireTeacher())
	hubs.POST("/:id/archive", rt.hubHandler.ArchiveHub, middleware.RequireTeacher())
	hubs.POST("/:id/leave", rt.hubHandler.LeaveHub)
	hubs.GET("/:id/members", rt.hubHandler.GetMembers)

	// Messages and replies
	hubs.POST("/:id/messages", rt.messageHandler.PostMessage)
	hubs.GET("/:id/messages", rt.messageHandler.ListMessages)
	hubs.GET("/:id/messages/:mid", rt.messageHandler.GetMessage)
	hubs.POST("/:id/messages/:mid/replies", rt.messageHandler.PostReply)
	hubs.GET("/:id/messages/:mid/replies", rt.messageHandler.ListReplies)
	hubs.POST("/:id/messages/:mid/bookmark", rt.messageHandler.Bookmark)
	hubs.DELETE("/:id/messages/:mid/bookmark", rt.messageHandler.RemoveBookmark)
	hubs.GET("/:id/bookmarks", rt.messageHandler.ListBookmarks)
	hubs.GET("/:id/search", rt.messageHandler.Search)

	// Votes and polls
	hubs.POST("/:id/content/:cid/vote", rt.messageHandler.Vote)
	hubs.POST("/:id/polls/:pid/vote", rt.messageHandler.VotePoll)
	hubs.GET("/:id/polls/:pid/results", rt.messageHandler.PollResults)

	// Livestreams
	hubs.GET("/:id/stream", rt.streamHandler.GetStream)
	hubs.POST("/:id/stream/start", rt.streamHandler.StartStream, middleware.RequireTeacher())
	hubs.POST("/:id/stream/stop", rt.streamHandler.StopStream, middleware.RequireTeacher())
	hubs.POST("/:id/stream/join", rt.streamHandler.JoinStream)
	hubs.GET("/:id/stream/participants", rt.streamHandler.Participants)
	hubs.POST("/:id/stream/recording/start", rt.streamHandler.StartRecording, middleware.RequireTeacher())
	hubs.POST("/:id/stream/recording/stop", rt.streamHandler.StopRecording, middleware.RequireTeacher())

	// Analytics
	hubs.GET("/:id/analytics/room", rt.analyticsHandler.RoomReport, middleware.RequireTeacher())
	hubs.GET("/:id/analytics/students/:username", rt.analyticsHandler.StudentReport)
}

// setupNotificationRoutes configures notification routes
func (rt *Router) setupNotificationRoutes(g *echo.Group) {
	notifications := g.Group("/notifications", middleware.EchoAuth(rt.oauthService))

	notifications.GET("", rt.notificationHandler.List)
	notifications.GET("/unread-count", rt.notificationHandler.UnreadCount)
	notifications.POST("/read-all", rt.notificationHandler.MarkAllRead)
	notifications.POST("/:id/read", rt.notificationHandler.MarkRead)
}

// healthCheck returns health status
func (rt *Router) healthCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"status":      "ok",
		"environment": rt.cfg.Server.Environment,
	})
}
