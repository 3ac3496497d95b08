package clips

import (
	"context"

	"github.com/clipforge/viral-moments-backend/internal/models"
	"github.com/clipforge/viral-moments-backend/pkg/utils"
	"github.com/google/uuid"
)

// UseCase is the job orchestrator contract: the single writer of clip job
// state. All transitions funnel through it.
type UseCase interface {
	Submit(ctx context.Context, sessionID string, input *models.SubmitClipInput) (*models.ClipJob, error)
	GetJob(ctx context.Context, sessionID string, jobID uuid.UUID) (*models.ClipJob, error)
	ListJobs(ctx context.Context, sessionID string, pagination *utils.Pagination) (*models.ClipJobList, error)
	Cancel(ctx context.Context, sessionID string, jobID uuid.UUID) (*models.ClipJob, error)
	HandleEvent(ctx context.Context, event *models.RenderEvent) error
	Sweep(ctx context.Context)
}
