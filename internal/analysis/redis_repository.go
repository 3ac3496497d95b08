package analysis

import (
	"context"

	"github.com/clipforge/viral-moments-backend/internal/models"
)

type RedisRepository interface {
	SetAnalysis(ctx context.Context, analysisID string, seconds int, result *models.AnalysisResult) error
	GetAnalysisByID(ctx context.Context, analysisID string) (*models.AnalysisResult, error)
}
