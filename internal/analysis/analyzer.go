package analysis

import (
	"context"

	"github.com/clipforge/viral-moments-backend/internal/models"
)

// Analyzer is the external download + ML scoring collaborator. A single
// success/failure outcome; the core never sees partial results and never
// produces scores itself.
type Analyzer interface {
	Analyze(ctx context.Context, video models.VideoReference) (*models.AnalysisPayload, error)
}
