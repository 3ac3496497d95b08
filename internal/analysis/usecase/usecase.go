package usecase

import (
	"context"
	"database/sql"

	"github.com/clipforge/viral-moments-backend/internal/analysis"
	"github.com/clipforge/viral-moments-backend/internal/config"
	"github.com/clipforge/viral-moments-backend/internal/models"
	"github.com/clipforge/viral-moments-backend/internal/moments"
	"github.com/clipforge/viral-moments-backend/pkg/httpErrors"
	"github.com/clipforge/viral-moments-backend/pkg/logger"
	"github.com/clipforge/viral-moments-backend/pkg/utils"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

const (
	cacheDuration = 3600
)

type analysisUC struct {
	cfg          *config.Config
	analyzer     analysis.Analyzer
	analysisRepo analysis.Repository
	redisRepo    analysis.RedisRepository
	logger       logger.Logger
}

func NewAnalysisUseCase(
	cfg *config.Config,
	analyzer analysis.Analyzer,
	analysisRepo analysis.Repository,
	redisRepo analysis.RedisRepository,
	log logger.Logger,
) analysis.UseCase {
	return &analysisUC{
		cfg:          cfg,
		analyzer:     analyzer,
		analysisRepo: analysisRepo,
		redisRepo:    redisRepo,
		logger:       log,
	}
}

// Analyze resolves the video reference through the external analyzer,
// enforces the scoring/tagging contract on whatever comes back, and stores
// the immutable result scoped to the caller's session.
func (u *analysisUC) Analyze(ctx context.Context, sessionID string, video models.VideoReference) (*models.AnalysisResult, error) {
	if err := utils.ValidateStruct(ctx, &video); err != nil {
		u.logger.Errorf("Analyze - ValidateStruct: %v", err)
		return nil, errors.Wrap(httpErrors.ErrValidation, err.Error())
	}

	analyzeCtx := ctx
	if u.cfg.Analyzer.Timeout > 0 {
		var cancel context.CancelFunc
		analyzeCtx, cancel = context.WithTimeout(ctx, u.cfg.Analyzer.Timeout)
		defer cancel()
	}

	payload, err := u.analyzer.Analyze(analyzeCtx, video)
	if err != nil {
		u.logger.Errorf("Analyze - analyzer failed for video %s: %v", video.VideoID, err)
		if errors.Is(err, httpErrors.ErrAnalysis) {
			return nil, err
		}
		return nil, errors.Wrap(httpErrors.ErrAnalysis, err.Error())
	}

	result, err := models.NewAnalysisResult(sessionID, video, payload)
	if err != nil {
		u.logger.Errorf("Analyze - analyzer returned invalid payload for video %s: %v", video.VideoID, err)
		return nil, err
	}

	if err = u.analysisRepo.CreateAnalysis(ctx, result); err != nil {
		u.logger.Errorf("Analyze - CreateAnalysis: %v", err)
		return nil, err
	}

	if err = u.redisRepo.SetAnalysis(ctx, result.AnalysisID.String(), cacheDuration, result); err != nil {
		u.logger.Errorf("Analyze - SetAnalysis cache: %v", err)
	}

	u.logger.Infof("analysis %s created for video %s with %d moments", result.AnalysisID, video.VideoID, len(result.Moments))
	return result, nil
}

func (u *analysisUC) GetByID(ctx context.Context, sessionID string, analysisID uuid.UUID) (*models.AnalysisResult, error) {
	if analysisID == uuid.Nil {
		return nil, errors.Wrap(httpErrors.ErrNotFound, "empty analysis id")
	}

	if cached, err := u.redisRepo.GetAnalysisByID(ctx, analysisID.String()); err == nil && cached != nil {
		if cached.SessionID != sessionID {
			return nil, errors.Wrapf(httpErrors.ErrNotFound, "analysis %s", analysisID)
		}
		return cached, nil
	}

	result, err := u.analysisRepo.GetAnalysisByID(ctx, analysisID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errors.Wrapf(httpErrors.ErrNotFound, "analysis %s", analysisID)
		}
		u.logger.Errorf("GetByID - GetAnalysisByID: %v", err)
		return nil, err
	}
	if result.SessionID != sessionID {
		return nil, errors.Wrapf(httpErrors.ErrNotFound, "analysis %s", analysisID)
	}

	if err = u.redisRepo.SetAnalysis(ctx, result.AnalysisID.String(), cacheDuration, result); err != nil {
		u.logger.Errorf("GetByID - SetAnalysis cache: %v", err)
	}
	return result, nil
}

func (u *analysisUC) List(ctx context.Context, sessionID string, pagination *utils.Pagination) (*models.AnalysisList, error) {
	if pagination == nil {
		pagination = &utils.Pagination{Page: 1, Size: 10}
	}
	list, err := u.analysisRepo.GetAnalyses(ctx, sessionID, pagination)
	if err != nil {
		u.logger.Errorf("List - GetAnalyses: %v", err)
		return nil, err
	}
	return list, nil
}

// SearchMoments runs the pure moment filter against a stored result. The
// stored moment sequence is never mutated or re-sorted here.
func (u *analysisUC) SearchMoments(ctx context.Context, sessionID string, analysisID uuid.UUID, query string) ([]models.Moment, error) {
	result, err := u.GetByID(ctx, sessionID, analysisID)
	if err != nil {
		return nil, err
	}
	return moments.Search(result.Moments, query), nil
}
