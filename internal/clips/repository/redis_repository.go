package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/clipforge/viral-moments-backend/internal/clips"
	"github.com/clipforge/viral-moments-backend/internal/models"
	"github.com/go-redis/redis/v8"
	"github.com/pkg/errors"
)

const (
	jobKeyPrefix   = "job:"
	dequeueTimeout = 5 * time.Second
)

type clipsRedisRepo struct {
	redisClient *redis.Client
}

func NewClipsRedisRepo(redisClient *redis.Client) clips.RedisRepository {
	return &clipsRedisRepo{redisClient: redisClient}
}

func (c *clipsRedisRepo) EnqueueRenderJob(ctx context.Context, key string, job *models.RenderJob) error {
	jobBytes, err := json.Marshal(job)
	if err != nil {
		return errors.Wrap(err, "clipsRedisRepo.EnqueueRenderJob.Marshal")
	}
	if err = c.redisClient.LPush(ctx, key, jobBytes).Err(); err != nil {
		return errors.Wrap(err, "clipsRedisRepo.EnqueueRenderJob.LPush")
	}
	return nil
}

// DequeueRenderJob blocks up to a short window so worker loops stay
// responsive to shutdown. A nil job means the queue was empty.
func (c *clipsRedisRepo) DequeueRenderJob(ctx context.Context, key string) (*models.RenderJob, error) {
	res, err := c.redisClient.BRPop(ctx, dequeueTimeout, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "clipsRedisRepo.DequeueRenderJob.BRPop")
	}
	job := &models.RenderJob{}
	if err = json.Unmarshal([]byte(res[1]), job); err != nil {
		return nil, errors.Wrap(err, "clipsRedisRepo.DequeueRenderJob.Unmarshal")
	}
	return job, nil
}

func (c *clipsRedisRepo) PublishEvent(ctx context.Context, channel string, event *models.RenderEvent) error {
	eventBytes, err := json.Marshal(event)
	if err != nil {
		return errors.Wrap(err, "clipsRedisRepo.PublishEvent.Marshal")
	}
	if err = c.redisClient.Publish(ctx, channel, eventBytes).Err(); err != nil {
		return errors.Wrap(err, "clipsRedisRepo.PublishEvent.Publish")
	}
	return nil
}

func (c *clipsRedisRepo) SubscribeEvents(ctx context.Context, channel string) (<-chan *models.RenderEvent, error) {
	pubsub := c.redisClient.Subscribe(ctx, channel)
	if _, err := pubsub.Receive(ctx); err != nil {
		return nil, errors.Wrap(err, "clipsRedisRepo.SubscribeEvents.Receive")
	}

	out := make(chan *models.RenderEvent)
	go func() {
		defer close(out)
		defer pubsub.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-pubsub.Channel():
				if !ok {
					return
				}
				event := &models.RenderEvent{}
				if err := json.Unmarshal([]byte(msg.Payload), event); err != nil {
					continue
				}
				select {
				case out <- event:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out, nil
}

func (c *clipsRedisRepo) SetJobState(ctx context.Context, job *models.ClipJob, ttlSeconds int) error {
	jobBytes, err := json.Marshal(job)
	if err != nil {
		return errors.Wrap(err, "clipsRedisRepo.SetJobState.Marshal")
	}

	jobKey := jobKeyPrefix + job.JobID.String()
	pipe := c.redisClient.Pipeline()
	// session_id rides as its own field: the job JSON never carries it.
	pipe.HSet(ctx, jobKey, map[string]interface{}{
		"status":     string(job.Status),
		"session_id": job.SessionID,
		"result_ref": job.ResultRef,
		"updated_at": job.UpdatedAt.Format(time.RFC3339),
		"job_data":   string(jobBytes),
	})
	if ttlSeconds > 0 {
		pipe.Expire(ctx, jobKey, time.Duration(ttlSeconds)*time.Second)
	}
	if _, err = pipe.Exec(ctx); err != nil {
		return errors.Wrap(err, "clipsRedisRepo.SetJobState.Exec")
	}
	return nil
}

// GetJobState reads the mirror hash. A nil job with nil error means the
// mirror has no entry (expired TTL or never written).
func (c *clipsRedisRepo) GetJobState(ctx context.Context, jobID string) (*models.ClipJob, error) {
	fields, err := c.redisClient.HMGet(ctx, jobKeyPrefix+jobID, "job_data", "session_id").Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, errors.Wrap(err, fmt.Sprintf("clipsRedisRepo.GetJobState.HMGet %s", jobID))
	}
	jobData, ok := fields[0].(string)
	if !ok || jobData == "" {
		return nil, nil
	}
	job := &models.ClipJob{}
	if err = json.Unmarshal([]byte(jobData), job); err != nil {
		return nil, errors.Wrap(err, "clipsRedisRepo.GetJobState.Unmarshal")
	}
	if sessionID, ok := fields[1].(string); ok {
		job.SessionID = sessionID
	}
	return job, nil
}
