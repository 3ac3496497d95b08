package http

import (
	"net/http"

	"github.com/clipforge/viral-moments-backend/internal/analysis"
	"github.com/clipforge/viral-moments-backend/internal/config"
	"github.com/clipforge/viral-moments-backend/internal/models"
	"github.com/clipforge/viral-moments-backend/pkg/httpErrors"
	"github.com/clipforge/viral-moments-backend/pkg/logger"
	"github.com/clipforge/viral-moments-backend/pkg/utils"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type analysisHandler struct {
	cfg        *config.Config
	analysisUC analysis.UseCase
	logger     logger.Logger
}

func NewAnalysisHandler(cfg *config.Config, analysisUC analysis.UseCase, log logger.Logger) analysis.Handler {
	return &analysisHandler{
		cfg:        cfg,
		analysisUC: analysisUC,
		logger:     log,
	}
}

func (h *analysisHandler) Analyze() echo.HandlerFunc {
	return func(c echo.Context) error {
		sess, err := utils.GetSessionFromCtx(c.Request().Context())
		if err != nil {
			return c.JSON(httpErrors.ErrorResponse(err))
		}
		video := &models.VideoReference{}
		if err := utils.ReadRequest(c, video); err != nil {
			return c.JSON(httpErrors.ErrorResponse(httpErrors.NewValidationError(err.Error())))
		}
		result, err := h.analysisUC.Analyze(c.Request().Context(), sess.SessionID, *video)
		if err != nil {
			return c.JSON(httpErrors.ErrorResponse(err))
		}
		return c.JSON(http.StatusCreated, result)
	}
}

func (h *analysisHandler) GetByID() echo.HandlerFunc {
	return func(c echo.Context) error {
		sess, err := utils.GetSessionFromCtx(c.Request().Context())
		if err != nil {
			return c.JSON(httpErrors.ErrorResponse(err))
		}
		analysisID, err := uuid.Parse(c.Param("analysis_id"))
		if err != nil {
			return c.JSON(httpErrors.ErrorResponse(httpErrors.NewValidationError("invalid analysis id")))
		}
		result, err := h.analysisUC.GetByID(c.Request().Context(), sess.SessionID, analysisID)
		if err != nil {
			return c.JSON(httpErrors.ErrorResponse(err))
		}
		return c.JSON(http.StatusOK, result)
	}
}

func (h *analysisHandler) List() echo.HandlerFunc {
	return func(c echo.Context) error {
		sess, err := utils.GetSessionFromCtx(c.Request().Context())
		if err != nil {
			return c.JSON(httpErrors.ErrorResponse(err))
		}
		pagination, err := utils.GetPaginationFromCtx(c)
		if err != nil {
			return c.JSON(httpErrors.ErrorResponse(httpErrors.NewValidationError(err.Error())))
		}
		list, err := h.analysisUC.List(c.Request().Context(), sess.SessionID, pagination)
		if err != nil {
			return c.JSON(httpErrors.ErrorResponse(err))
		}
		return c.JSON(http.StatusOK, list)
	}
}

func (h *analysisHandler) SearchMoments() echo.HandlerFunc {
	return func(c echo.Context) error {
		sess, err := utils.GetSessionFromCtx(c.Request().Context())
		if err != nil {
			return c.JSON(httpErrors.ErrorResponse(err))
		}
		analysisID, err := uuid.Parse(c.Param("analysis_id"))
		if err != nil {
			return c.JSON(httpErrors.ErrorResponse(httpErrors.NewValidationError("invalid analysis id")))
		}
		found, err := h.analysisUC.SearchMoments(c.Request().Context(), sess.SessionID, analysisID, c.QueryParam("query"))
		if err != nil {
			return c.JSON(httpErrors.ErrorResponse(err))
		}
		return c.JSON(http.StatusOK, map[string]interface{}{"moments": found})
	}
}
