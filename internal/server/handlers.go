package server

import (
	"net/http"
	"time"

	"github.com/clipforge/viral-moments-backend/internal/analysis/analyzer"
	analysisHttp "github.com/clipforge/viral-moments-backend/internal/analysis/delivery/http"
	analysisRepository "github.com/clipforge/viral-moments-backend/internal/analysis/repository"
	analysisUsecase "github.com/clipforge/viral-moments-backend/internal/analysis/usecase"
	"github.com/clipforge/viral-moments-backend/internal/clips"
	clipsHttp "github.com/clipforge/viral-moments-backend/internal/clips/delivery/http"
	clipsRepository "github.com/clipforge/viral-moments-backend/internal/clips/repository"
	clipsUsecase "github.com/clipforge/viral-moments-backend/internal/clips/usecase"
	"github.com/clipforge/viral-moments-backend/internal/middleware"
	sessRepository "github.com/clipforge/viral-moments-backend/internal/session/repository"
	sessUsecase "github.com/clipforge/viral-moments-backend/internal/session/usecase"
	"github.com/clipforge/viral-moments-backend/pkg/utils"
	"github.com/labstack/echo/v4"
)

func (s *Server) MapHandlers(e *echo.Echo) error {
	aRepo := analysisRepository.NewAnalysisRepo(s.db)
	aRedisRepo := analysisRepository.NewAnalysisRedisRepo(s.redisClient)
	cRepo := clipsRepository.NewClipsRepo(s.db)
	cRedisRepo := clipsRepository.NewClipsRedisRepo(s.redisClient)
	cAwsRepo := clipsRepository.NewAwsRepository(s.s3Client, s.preSignClient)
	sessRepo := sessRepository.NewSessionRepository(s.redisClient, s.cfg)

	renderBackend := clipsRepository.NewRedisRenderBackend(cRedisRepo, s.cfg.Redis.RenderQueue)
	mlAnalyzer := analyzer.NewHTTPAnalyzer(s.cfg)

	sessUC := sessUsecase.NewSessionUseCase(sessRepo, s.cfg)
	analysisUC := analysisUsecase.NewAnalysisUseCase(s.cfg, mlAnalyzer, aRepo, aRedisRepo, s.logger)
	clipsUC := clipsUsecase.NewClipsUseCase(s.cfg, cRepo, cRedisRepo, cAwsRepo, renderBackend, s.logger)

	analysisHandlers := analysisHttp.NewAnalysisHandler(s.cfg, analysisUC, s.logger)
	clipsHandlers := clipsHttp.NewClipsHandler(s.cfg, clipsUC, s.logger)

	mw := middleware.NewMiddlewareManager(sessUC, s.cfg, []string{"*"}, s.logger)
	e.Use(mw.RequestLoggerMiddleware)

	v1 := e.Group("/api/v1")
	health := v1.Group("/health")
	analysisGroup := v1.Group("/analysis")
	clipsGroup := v1.Group("/clips")

	analysisHttp.MapAnalysisRoutes(analysisGroup, analysisHandlers, mw)
	clipsHttp.MapClipsRoutes(clipsGroup, clipsHandlers, mw)
	health.GET("", func(c echo.Context) error {
		s.logger.Infof("Health check RequestID: %s", utils.GetRequestID(c))
		return c.JSON(http.StatusOK, map[string]string{"status": "OK"})
	})

	go s.runEventLoop(clipsUC, cRedisRepo)
	go s.runSweeper(clipsUC)
	return nil
}

// runEventLoop pumps render backend progress events into the orchestrator
// until shutdown. This is the push path; client polling of getJob never
// drives transitions.
func (s *Server) runEventLoop(clipsUC clips.UseCase, redisRepo clips.RedisRepository) {
	events, err := redisRepo.SubscribeEvents(s.ctx, s.cfg.Redis.EventsChannel)
	if err != nil {
		s.logger.Errorf("failed to subscribe to render events: %v", err)
		return
	}
	for event := range events {
		if err := clipsUC.HandleEvent(s.ctx, event); err != nil {
			s.logger.Warnf("render event %s for job %s not applied: %v", event.Type, event.JobID, err)
		}
	}
}

func (s *Server) runSweeper(clipsUC clips.UseCase) {
	interval := s.cfg.Jobs.SweepInterval
	if interval <= 0 {
		interval = 15 * time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-s.ctx.Done():
			return
		case <-ticker.C:
			clipsUC.Sweep(s.ctx)
		}
	}
}
