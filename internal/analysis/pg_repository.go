package analysis

import (
	"context"

	"github.com/clipforge/viral-moments-backend/internal/models"
	"github.com/clipforge/viral-moments-backend/pkg/utils"
	"github.com/google/uuid"
)

type Repository interface {
	CreateAnalysis(ctx context.Context, result *models.AnalysisResult) error
	GetAnalysisByID(ctx context.Context, analysisID uuid.UUID) (*models.AnalysisResult, error)
	GetAnalyses(ctx context.Context, sessionID string, pagination *utils.Pagination) (*models.AnalysisList, error)
}
