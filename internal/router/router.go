package router

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"mailbrief/internal/handler"
	"mailbrief/internal/middleware"
)

type Handlers struct {
	Auth      *handler.AuthHandler
	Digest    *handler.DigestHandler
	Summary   *handler.SummaryHandler
	Analytics *handler.AnalyticsHandler
	Settings  *handler.SettingsHandler
}

func SetupRoutes(e *echo.Echo, h Handlers) {
	// Public routes
	e.GET("/auth/:provider", h.Auth.BeginAuthHandler)
	e.GET("/auth/:provider/callback", h.Auth.CallbackHandler)
	e.GET("/auth/logout", h.Auth.LogoutHandler)

	e.GET("/health", func(c echo.Context) error {
		return c.String(http.StatusOK, "OK")
	})

	// Protected API routes
	protected := e.Group("/api")
	protected.Use(middleware.AuthMiddleware(h.Auth))

	protected.GET("/digest", h.Digest.GetDigest)
	protected.DELETE("/digest/:message_id", h.Digest.ForgetSummary)
	protected.POST("/summarize", h.Summary.Summarize)
	protected.POST("/tags", h.Summary.GenerateTags)

	protected.GET("/analytics", h.Analytics.GetStats)
	protected.POST("/replies", h.Analytics.RecordReply)

	protected.GET("/settings", h.Settings.GetSettings)
	protected.PUT("/settings", h.Settings.UpdateSettings)
}
