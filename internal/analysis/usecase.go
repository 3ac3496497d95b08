package analysis

import (
	"context"

	"github.com/clipforge/viral-moments-backend/internal/models"
	"github.com/clipforge/viral-moments-backend/pkg/utils"
	"github.com/google/uuid"
)

type UseCase interface {
	Analyze(ctx context.Context, sessionID string, video models.VideoReference) (*models.AnalysisResult, error)
	GetByID(ctx context.Context, sessionID string, analysisID uuid.UUID) (*models.AnalysisResult, error)
	List(ctx context.Context, sessionID string, pagination *utils.Pagination) (*models.AnalysisList, error)
	SearchMoments(ctx context.Context, sessionID string, analysisID uuid.UUID, query string) ([]models.Moment, error)
}
