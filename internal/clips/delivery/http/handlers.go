package http

import (
	"net/http"

	"github.com/clipforge/viral-moments-backend/internal/clips"
	"github.com/clipforge/viral-moments-backend/internal/config"
	"github.com/clipforge/viral-moments-backend/internal/models"
	"github.com/clipforge/viral-moments-backend/pkg/httpErrors"
	"github.com/clipforge/viral-moments-backend/pkg/logger"
	"github.com/clipforge/viral-moments-backend/pkg/utils"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type clipsHandler struct {
	cfg     *config.Config
	clipsUC clips.UseCase
	logger  logger.Logger
}

func NewClipsHandler(cfg *config.Config, clipsUC clips.UseCase, log logger.Logger) clips.Handler {
	return &clipsHandler{
		cfg:     cfg,
		clipsUC: clipsUC,
		logger:  log,
	}
}

func (h *clipsHandler) Submit() echo.HandlerFunc {
	return func(c echo.Context) error {
		sess, err := utils.GetSessionFromCtx(c.Request().Context())
		if err != nil {
			return c.JSON(httpErrors.ErrorResponse(err))
		}
		input := &models.SubmitClipInput{}
		if err := utils.ReadRequest(c, input); err != nil {
			return c.JSON(httpErrors.ErrorResponse(httpErrors.NewValidationError(err.Error())))
		}
		job, err := h.clipsUC.Submit(c.Request().Context(), sess.SessionID, input)
		if err != nil {
			return c.JSON(httpErrors.ErrorResponse(err))
		}
		return c.JSON(http.StatusAccepted, job)
	}
}

func (h *clipsHandler) GetJob() echo.HandlerFunc {
	return func(c echo.Context) error {
		sess, err := utils.GetSessionFromCtx(c.Request().Context())
		if err != nil {
			return c.JSON(httpErrors.ErrorResponse(err))
		}
		jobID, err := uuid.Parse(c.Param("job_id"))
		if err != nil {
			return c.JSON(httpErrors.ErrorResponse(httpErrors.NewValidationError("invalid job id")))
		}
		job, err := h.clipsUC.GetJob(c.Request().Context(), sess.SessionID, jobID)
		if err != nil {
			return c.JSON(httpErrors.ErrorResponse(err))
		}
		return c.JSON(http.StatusOK, job)
	}
}

func (h *clipsHandler) ListJobs() echo.HandlerFunc {
	return func(c echo.Context) error {
		sess, err := utils.GetSessionFromCtx(c.Request().Context())
		if err != nil {
			return c.JSON(httpErrors.ErrorResponse(err))
		}
		pagination, err := utils.GetPaginationFromCtx(c)
		if err != nil {
			return c.JSON(httpErrors.ErrorResponse(httpErrors.NewValidationError(err.Error())))
		}
		list, err := h.clipsUC.ListJobs(c.Request().Context(), sess.SessionID, pagination)
		if err != nil {
			return c.JSON(httpErrors.ErrorResponse(err))
		}
		return c.JSON(http.StatusOK, list)
	}
}

func (h *clipsHandler) Cancel() echo.HandlerFunc {
	return func(c echo.Context) error {
		sess, err := utils.GetSessionFromCtx(c.Request().Context())
		if err != nil {
			return c.JSON(httpErrors.ErrorResponse(err))
		}
		jobID, err := uuid.Parse(c.Param("job_id"))
		if err != nil {
			return c.JSON(httpErrors.ErrorResponse(httpErrors.NewValidationError("invalid job id")))
		}
		job, err := h.clipsUC.Cancel(c.Request().Context(), sess.SessionID, jobID)
		if err != nil {
			return c.JSON(httpErrors.ErrorResponse(err))
		}
		return c.JSON(http.StatusOK, job)
	}
}
