package clips

import (
	"context"

	"github.com/clipforge/viral-moments-backend/internal/models"
	"github.com/clipforge/viral-moments-backend/pkg/utils"
	"github.com/google/uuid"
)

type Repository interface {
	CreateJob(ctx context.Context, job *models.ClipJob) error
	UpdateJob(ctx context.Context, job *models.ClipJob) error
	GetJobByID(ctx context.Context, jobID uuid.UUID) (*models.ClipJob, error)
	GetJobs(ctx context.Context, sessionID string, pagination *utils.Pagination) (*models.ClipJobList, error)
}
