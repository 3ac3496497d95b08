package http

import (
	"github.com/clipforge/viral-moments-backend/internal/clips"
	"github.com/clipforge/viral-moments-backend/internal/middleware"
	"github.com/labstack/echo/v4"
)

func MapClipsRoutes(clipsGroup *echo.Group, h clips.Handler, mw *middleware.MiddlewareManager) {
	clipsGroup.Use(mw.SessionMiddleware)
	clipsGroup.POST("", h.Submit())
	clipsGroup.GET("", h.ListJobs())
	clipsGroup.GET("/:job_id", h.GetJob())
	clipsGroup.DELETE("/:job_id", h.Cancel())
}
