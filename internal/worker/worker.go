package worker

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sync"
	"time"

	"github.com/clipforge/viral-moments-backend/internal/clips"
	"github.com/clipforge/viral-moments-backend/internal/config"
	"github.com/clipforge/viral-moments-backend/internal/models"
	"github.com/clipforge/viral-moments-backend/pkg/logger"
	"github.com/clipforge/viral-moments-backend/pkg/utils"
)

const cpuBackoff = 5 * time.Second

// Worker consumes render jobs off the redis queue, cuts the clip with
// ffmpeg, uploads the artifact to S3 and reports progress back on the
// events channel. It never touches the orchestrator's job table directly.
type Worker struct {
	cfg       *config.Config
	redisRepo clips.RedisRepository
	awsRepo   clips.AWSRepository
	logger    logger.Logger
}

func NewWorker(cfg *config.Config, redisRepo clips.RedisRepository, awsRepo clips.AWSRepository, log logger.Logger) *Worker {
	return &Worker{
		cfg:       cfg,
		redisRepo: redisRepo,
		awsRepo:   awsRepo,
		logger:    log,
	}
}

// Start runs the configured number of consumer goroutines and blocks until
// ctx is cancelled and all of them have drained.
func (w *Worker) Start(ctx context.Context) {
	count := w.cfg.Worker.WorkerCount
	if count <= 0 {
		count = 1
	}

	var wg sync.WaitGroup
	for i := 0; i < count; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			w.consume(ctx, id)
		}(i)
	}
	wg.Wait()
}

func (w *Worker) consume(ctx context.Context, id int) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		if ok, usage := utils.CheckCPUUsage(w.cfg.Worker.MaxCPUUsage); !ok {
			w.logger.Warnf("worker %d: cpu usage %.1f%% above limit, backing off", id, usage)
			time.Sleep(cpuBackoff)
			continue
		}

		job, err := w.redisRepo.DequeueRenderJob(ctx, w.cfg.Redis.RenderQueue)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			w.logger.Errorf("worker %d: dequeue: %v", id, err)
			time.Sleep(time.Second)
			continue
		}
		if job == nil {
			continue
		}

		w.logger.Infof("worker %d: picked up render job %s", id, job.JobID)
		w.process(ctx, job)
	}
}

func (w *Worker) process(ctx context.Context, job *models.RenderJob) {
	if err := w.publish(ctx, &models.RenderEvent{
		JobID: job.JobID,
		Type:  models.RenderEventStarted,
		At:    time.Now(),
	}); err != nil {
		w.logger.Errorf("job %s: publish started: %v", job.JobID, err)
	}

	resultRef, err := w.render(ctx, job)
	if err != nil {
		w.logger.Errorf("job %s: render failed: %v", job.JobID, err)
		if pubErr := w.publish(ctx, &models.RenderEvent{
			JobID:   job.JobID,
			Type:    models.RenderEventFailed,
			Reason:  models.FailureBackendError,
			Message: err.Error(),
			At:      time.Now(),
		}); pubErr != nil {
			w.logger.Errorf("job %s: publish failed event: %v", job.JobID, pubErr)
		}
		return
	}

	if err := w.publish(ctx, &models.RenderEvent{
		JobID:     job.JobID,
		Type:      models.RenderEventDone,
		ResultRef: resultRef,
		At:        time.Now(),
	}); err != nil {
		w.logger.Errorf("job %s: publish done: %v", job.JobID, err)
	}
	w.logger.Infof("job %s: clip uploaded as %s", job.JobID, job.OutputKey)
}

// render cuts the moment out of the source, uploads it and returns the
// presigned URL for the uploaded object.
func (w *Worker) render(ctx context.Context, job *models.RenderJob) (string, error) {
	tempDir := w.cfg.Worker.TempDir
	if tempDir == "" {
		tempDir = os.TempDir()
	}
	if err := os.MkdirAll(tempDir, 0o755); err != nil {
		return "", fmt.Errorf("create temp dir: %w", err)
	}
	outputPath := filepath.Join(tempDir, fmt.Sprintf("%s.mp4", job.JobID))
	defer os.Remove(outputPath)

	renderCtx, cancel := context.WithTimeout(ctx, w.cfg.Jobs.RenderTimeout)
	defer cancel()

	cmd := exec.CommandContext(renderCtx, "ffmpeg", BuildTrimArgs(job, outputPath)...)
	if out, err := cmd.CombinedOutput(); err != nil {
		return "", fmt.Errorf("ffmpeg: %w: %s", err, tailOutput(out))
	}

	file, err := os.Open(outputPath)
	if err != nil {
		return "", fmt.Errorf("open rendered clip: %w", err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return "", fmt.Errorf("stat rendered clip: %w", err)
	}

	if err := w.awsRepo.UploadClip(ctx, w.cfg.S3.OutputBucket, job.OutputKey, file, info.Size()); err != nil {
		return "", fmt.Errorf("upload clip: %w", err)
	}

	resultRef, err := w.awsRepo.GetPresignedURL(ctx, w.cfg.S3.OutputBucket, job.OutputKey)
	if err != nil {
		return "", fmt.Errorf("presign clip: %w", err)
	}
	return resultRef, nil
}

func (w *Worker) publish(ctx context.Context, event *models.RenderEvent) error {
	return w.redisRepo.PublishEvent(ctx, w.cfg.Redis.EventsChannel, event)
}

// tailOutput keeps failure messages bounded; ffmpeg logs everything to
// stderr and the useful part is at the end.
func tailOutput(out []byte) string {
	const max = 512
	if len(out) <= max {
		return string(out)
	}
	return string(out[len(out)-max:])
}
