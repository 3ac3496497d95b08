package clips

import (
	"context"

	"github.com/clipforge/viral-moments-backend/internal/models"
)

// RedisRepository carries the render transport and the job state mirror:
// queue between orchestrator and worker, pub/sub channel for progress
// events, and a per-job hash expiring after the retention window.
type RedisRepository interface {
	EnqueueRenderJob(ctx context.Context, key string, job *models.RenderJob) error
	DequeueRenderJob(ctx context.Context, key string) (*models.RenderJob, error)
	PublishEvent(ctx context.Context, channel string, event *models.RenderEvent) error
	SubscribeEvents(ctx context.Context, channel string) (<-chan *models.RenderEvent, error)
	SetJobState(ctx context.Context, job *models.ClipJob, ttlSeconds int) error
	GetJobState(ctx context.Context, jobID string) (*models.ClipJob, error)
}
