package utils

import (
	"context"
	"net/http"

	"github.com/clipforge/viral-moments-backend/internal/config"
	"github.com/clipforge/viral-moments-backend/internal/models"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

type SessionCtxKey struct{}

// GetSessionFromCtx returns the client session placed into the request
// context by the session middleware.
func GetSessionFromCtx(ctx context.Context) (*models.Session, error) {
	sess, ok := ctx.Value(SessionCtxKey{}).(*models.Session)
	if !ok {
		return nil, errors.New("session not found in context")
	}
	return sess, nil
}

func GetRequestID(c echo.Context) string {
	return c.Response().Header().Get(echo.HeaderXRequestID)
}

func GetIPAddress(c echo.Context) string {
	return c.Request().RemoteAddr
}

// ReadRequest binds and validates an incoming request body.
func ReadRequest(c echo.Context, request interface{}) error {
	if err := c.Bind(request); err != nil {
		return errors.Wrap(err, "bind request")
	}
	return ValidateStruct(c.Request().Context(), request)
}

func CreateSessionCookie(cfg *config.Config, session string) *http.Cookie {
	return &http.Cookie{
		Name:     cfg.Session.Name,
		Value:    session,
		Path:     "/",
		MaxAge:   cfg.Session.Expire,
		Secure:   cfg.Cookie.Secure,
		HttpOnly: cfg.Cookie.HTTPOnly,
	}
}
