package repository

import (
	"context"

	"github.com/clipforge/viral-moments-backend/internal/clips"
	"github.com/clipforge/viral-moments-backend/internal/models"
)

// redisRenderBackend delivers start signals by enqueueing the render job for
// the worker fleet; progress comes back over the events channel.
type redisRenderBackend struct {
	redisRepo clips.RedisRepository
	queueKey  string
}

func NewRedisRenderBackend(redisRepo clips.RedisRepository, queueKey string) clips.RenderBackend {
	return &redisRenderBackend{
		redisRepo: redisRepo,
		queueKey:  queueKey,
	}
}

func (b *redisRenderBackend) Start(ctx context.Context, job *models.RenderJob) error {
	return b.redisRepo.EnqueueRenderJob(ctx, b.queueKey, job)
}
