package middleware

import (
	"github.com/clipforge/viral-moments-backend/internal/config"
	"github.com/clipforge/viral-moments-backend/internal/session"
	"github.com/clipforge/viral-moments-backend/pkg/logger"
)

type MiddlewareManager struct {
	sessUC  session.UCSession
	cfg     *config.Config
	origins []string
	logger  logger.Logger
}

// Middleware manager constructor
func NewMiddlewareManager(sessUC session.UCSession, cfg *config.Config, origins []string, logger logger.Logger) *MiddlewareManager {
	return &MiddlewareManager{sessUC: sessUC, cfg: cfg, origins: origins, logger: logger}
}
