package middleware

import (
	"context"
	"time"

	"github.com/clipforge/viral-moments-backend/internal/models"
	"github.com/clipforge/viral-moments-backend/pkg/httpErrors"
	"github.com/clipforge/viral-moments-backend/pkg/utils"
	"github.com/labstack/echo/v4"
)

// SessionMiddleware binds every request to a client session, creating one
// lazily when no valid cookie arrives. Sessions scope which analyses and
// jobs a client can see; this is ownership, not authentication.
func (mw *MiddlewareManager) SessionMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()

		var sess *models.Session
		cookie, err := c.Cookie(mw.cfg.Session.Name)
		if err == nil && cookie.Value != "" {
			sess, err = mw.sessUC.GetSessionByID(ctx, cookie.Value)
			if err != nil {
				mw.logger.Warnf("session %s not found, issuing a new one: %v", cookie.Value, err)
				sess = nil
			}
		}

		if sess == nil {
			sess = &models.Session{CreatedAt: time.Now()}
			if _, err = mw.sessUC.CreateSession(ctx, sess, mw.cfg.Session.Expire); err != nil {
				mw.logger.Errorf("SessionMiddleware - CreateSession: %v", err)
				return c.JSON(httpErrors.ErrorResponse(httpErrors.NewInternalServerError(nil)))
			}
			c.SetCookie(utils.CreateSessionCookie(mw.cfg, sess.SessionID))
		}

		reqCtx := context.WithValue(ctx, utils.SessionCtxKey{}, sess)
		c.SetRequest(c.Request().WithContext(reqCtx))
		return next(c)
	}
}

// RequestLoggerMiddleware logs method, uri, status and latency per request.
func (mw *MiddlewareManager) RequestLoggerMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		start := time.Now()
		err := next(c)
		mw.logger.Infof("%s %s status=%d requestID=%s latency=%s",
			c.Request().Method,
			c.Request().RequestURI,
			c.Response().Status,
			utils.GetRequestID(c),
			time.Since(start),
		)
		return err
	}
}
