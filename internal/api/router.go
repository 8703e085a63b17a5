package api

import (
	"context"
	"log/slog"

	"github.com/gin-gonic/gin"

	"reprise/internal/catalog"
	"reprise/internal/config"
	"reprise/internal/library"
	"reprise/internal/logging"
	"reprise/internal/playlist"
	"reprise/internal/store"
)

// HealthChecker reports database health.
type HealthChecker interface {
	CheckHealth(ctx context.Context) (store.DatabaseHealth, error)
}

// Deps are the services the HTTP layer dispatches to.
type Deps struct {
	Repo     catalog.Repository
	Health   HealthChecker
	Playlist *playlist.Manager
	Library  *library.Service
	Logger   *slog.Logger
}

// Handler holds shared dependencies for all HTTP handlers.
type Handler struct {
	repo     catalog.Repository
	health   HealthChecker
	playlist *playlist.Manager
	library  *library.Service
	logger   *slog.Logger
}

// NewHandler creates a handler around deps.
func NewHandler(deps Deps) *Handler {
	return &Handler{
		repo:     deps.Repo,
		health:   deps.Health,
		playlist: deps.Playlist,
		library:  deps.Library,
		logger:   logging.NewComponentLogger(deps.Logger, "api"),
	}
}

// NewRouter builds the gin engine serving /api/v1.
func NewRouter(cfg *config.Config, deps Deps) *gin.Engine {
	h := NewHandler(deps)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(requestID())
	r.Use(requestLogger(h.logger))
	r.Use(corsMiddleware(cfg.API.AllowedOrigins))

	v1 := r.Group("/api/v1")
	v1.GET("/health", h.Health)

	protected := v1.Group("")
	protected.Use(bearerAuth(cfg.Paths.APIToken))
	{
		protected.GET("/stats", h.Stats)
		protected.GET("/preview", h.Preview)

		protected.GET("/playlists", h.ListPlaylists)
		protected.POST("/playlists", h.CreatePlaylist)
		protected.GET("/playlists/resume", h.ResumePlaylist)
		protected.GET("/playlists/:id", h.GetPlaylist)
		protected.PUT("/playlists/:id/cursor", h.AdvancePlaylist)
		protected.POST("/playlists/:id/complete", h.CompletePlaylist)
		protected.PUT("/playlists/:id/positions", h.SavePosition)
		protected.GET("/playlists/:id/positions/:videoID", h.GetPosition)

		protected.GET("/collections", h.ListCollections)
		protected.POST("/collections", h.CreateCollection)
		protected.PATCH("/collections/:id", h.UpdateCollection)
		protected.POST("/collections/:id/toggle", h.ToggleCollection)
		protected.DELETE("/collections/:id", h.DeleteCollection)
		protected.POST("/collections/:id/videos", h.AddVideos)

		protected.GET("/videos", h.ListVideos)
		protected.DELETE("/videos/:id", h.DeleteVideo)
	}
	return r
}
