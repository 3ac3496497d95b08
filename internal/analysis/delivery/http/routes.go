package http

import (
	"github.com/clipforge/viral-moments-backend/internal/analysis"
	"github.com/clipforge/viral-moments-backend/internal/middleware"
	"github.com/labstack/echo/v4"
)

func MapAnalysisRoutes(analysisGroup *echo.Group, h analysis.Handler, mw *middleware.MiddlewareManager) {
	analysisGroup.Use(mw.SessionMiddleware)
	analysisGroup.POST("", h.Analyze())
	analysisGroup.GET("", h.List())
	analysisGroup.GET("/:analysis_id", h.GetByID())
	analysisGroup.GET("/:analysis_id/moments", h.SearchMoments())
}
