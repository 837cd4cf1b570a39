package http

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewRouter creates and configures the HTTP router with all endpoints.
// Uses RouterConfig to receive all dependencies, improving testability
// and reducing parameter count.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(RequestIDMiddleware())
	router.Use(AccessLogMiddleware())
	router.Use(SecurityHeadersMiddleware())

	health := NewHealthController(cfg.Database, cfg.Sessions, cfg.PruneSchedule, cfg.Version)
	router.GET("/health", health.Status)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	sessions := NewSessionsController(cfg.Sessions)
	api := router.Group("/api/sessions")
	{
		api.POST("", sessions.Create)
		api.DELETE("/:id", sessions.Close)

		api.GET("/:id/search", sessions.GetSearch)
		api.POST("/:id/search", sessions.Search)
		api.POST("/:id/search/more", sessions.LoadMore)
		api.POST("/:id/search/activate", sessions.ActivateSearch)

		api.GET("/:id/detail", sessions.GetDetail)
		api.POST("/:id/detail", sessions.OpenDetail)
		api.POST("/:id/detail/toggle", sessions.ToggleBookmark)
		if cfg.CoverCache != nil {
			coversController := NewCoversController(sessions, cfg.CoverCache)
			api.GET("/:id/detail/cover", coversController.Cover)
		}

		api.GET("/:id/bookmarks", sessions.GetBookmarks)
		api.DELETE("/:id/bookmarks", sessions.DeleteBookmark)
		api.POST("/:id/bookmarks/selection", sessions.SelectBookmark)
		api.DELETE("/:id/bookmarks/selection", sessions.ClearSelection)
		api.DELETE("/:id/bookmarks/all", sessions.ClearBookmarks)
	}

	return router
}
