package clips

import (
	"context"

	"github.com/clipforge/viral-moments-backend/internal/models"
)

// RenderBackend is the external trim/transcode pipeline. Start is the
// "begin processing" signal fired at submit time; progress flows back as
// RenderEvents consumed by the orchestrator, not as return values here.
type RenderBackend interface {
	Start(ctx context.Context, job *models.RenderJob) error
}
