package usecase

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/clipforge/viral-moments-backend/internal/clips"
	"github.com/clipforge/viral-moments-backend/internal/config"
	"github.com/clipforge/viral-moments-backend/internal/models"
	"github.com/clipforge/viral-moments-backend/pkg/httpErrors"
	"github.com/clipforge/viral-moments-backend/pkg/logger"
	"github.com/clipforge/viral-moments-backend/pkg/utils"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

const (
	// DedupReuse returns an in-flight job for an identical submission instead
	// of creating a new one. DedupNew always creates a fresh job.
	DedupReuse = "reuse"
	DedupNew   = "new"

	startSignalTimeout = 30 * time.Second
)

// jobEntry pairs a job with its own mutex so transitions for one job id are
// serialized without blocking signals for other jobs.
type jobEntry struct {
	mu       sync.Mutex
	job      *models.ClipJob
	deadline time.Time
}

type clipsUC struct {
	cfg       *config.Config
	jobsRepo  clips.Repository
	redisRepo clips.RedisRepository
	awsRepo   clips.AWSRepository
	backend   clips.RenderBackend
	logger    logger.Logger

	mu    sync.RWMutex
	table map[uuid.UUID]*jobEntry
}

func NewClipsUseCase(
	cfg *config.Config,
	jobsRepo clips.Repository,
	redisRepo clips.RedisRepository,
	awsRepo clips.AWSRepository,
	backend clips.RenderBackend,
	log logger.Logger,
) clips.UseCase {
	return &clipsUC{
		cfg:       cfg,
		jobsRepo:  jobsRepo,
		redisRepo: redisRepo,
		awsRepo:   awsRepo,
		backend:   backend,
		logger:    log,
		table:     make(map[uuid.UUID]*jobEntry),
	}
}

// Submit validates options, snapshots the moment by value and records the
// job as queued before the render backend hears anything about it. The
// "begin processing" signal is fired asynchronously; the caller already
// holds a queued job when it goes out.
func (u *clipsUC) Submit(ctx context.Context, sessionID string, input *models.SubmitClipInput) (*models.ClipJob, error) {
	if input == nil {
		return nil, errors.Wrap(httpErrors.ErrValidation, "submit input is nil")
	}

	input.Options.ApplyDefaults()
	if err := input.Options.Validate(); err != nil {
		u.logger.Errorf("Submit - invalid options: %v", err)
		return nil, err
	}
	if err := models.ValidateMoment(input.Moment); err != nil {
		u.logger.Errorf("Submit - invalid moment: %v", err)
		return nil, err
	}

	if u.cfg.Jobs.DedupPolicy == DedupReuse {
		if existing := u.findInFlight(sessionID, input); existing != nil {
			u.logger.Infof("Submit - reusing in-flight job %s", existing.JobID)
			return existing, nil
		}
	}

	now := time.Now()
	moment := input.Moment.Clone()
	moment.Tags = models.NormalizeTags(moment.Tags)

	job := &models.ClipJob{
		JobID:      uuid.New(),
		SessionID:  sessionID,
		AnalysisID: input.AnalysisID,
		Moment:     moment,
		Options:    input.Options,
		Status:     models.JobStatusQueued,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	entry := &jobEntry{
		job:      job,
		deadline: now.Add(u.cfg.Jobs.AckTimeout),
	}

	if err := u.jobsRepo.CreateJob(ctx, job); err != nil {
		u.logger.Errorf("Submit - CreateJob: %v", err)
		return nil, err
	}

	// Snapshot before the entry becomes reachable by the event loop and the
	// sweeper; from then on job is mutated only under entry.mu.
	snapshot := job.Clone()

	u.mu.Lock()
	u.table[job.JobID] = entry
	u.mu.Unlock()

	u.mirrorJob(ctx, snapshot)

	renderJob := &models.RenderJob{
		JobID:       snapshot.JobID.String(),
		SessionID:   sessionID,
		SourceURL:   input.SourceURL,
		Moment:      snapshot.Moment.Clone(),
		Options:     snapshot.Options,
		OutputKey:   clipKey(sessionID, snapshot.JobID),
		SubmittedAt: now,
	}
	go u.fireStart(renderJob)

	u.logger.Infof("job %s queued for moment %q [%0.2f-%0.2f]", snapshot.JobID, moment.Label, moment.Start, moment.End)
	return snapshot, nil
}

// fireStart delivers the begin-processing signal on a detached context so an
// aborted client request cannot strand the already-visible queued job. A
// delivery failure fails that job alone through the normal event path.
func (u *clipsUC) fireStart(renderJob *models.RenderJob) {
	ctx, cancel := context.WithTimeout(context.Background(), startSignalTimeout)
	defer cancel()

	if err := u.backend.Start(ctx, renderJob); err != nil {
		u.logger.Errorf("fireStart - backend start for job %s: %v", renderJob.JobID, err)
		if evErr := u.HandleEvent(ctx, &models.RenderEvent{
			JobID:   renderJob.JobID,
			Type:    models.RenderEventFailed,
			Reason:  models.FailureBackendError,
			Message: err.Error(),
			At:      time.Now(),
		}); evErr != nil {
			u.logger.Errorf("fireStart - failed to fail job %s: %v", renderJob.JobID, evErr)
		}
	}
}

func (u *clipsUC) GetJob(ctx context.Context, sessionID string, jobID uuid.UUID) (*models.ClipJob, error) {
	u.mu.RLock()
	entry, ok := u.table[jobID]
	u.mu.RUnlock()

	if !ok {
		// Jobs from a previous process survive only in persistence: the
		// redis mirror while its TTL holds, the postgres row after.
		job, err := u.redisRepo.GetJobState(ctx, jobID.String())
		if err != nil || job == nil {
			job, err = u.jobsRepo.GetJobByID(ctx, jobID)
			if err != nil {
				if errors.Is(err, sql.ErrNoRows) {
					return nil, errors.Wrapf(httpErrors.ErrNotFound, "job %s", jobID)
				}
				u.logger.Errorf("GetJob - GetJobByID: %v", err)
				return nil, err
			}
		}
		if job.SessionID != sessionID {
			return nil, errors.Wrapf(httpErrors.ErrNotFound, "job %s", jobID)
		}
		u.expireRow(ctx, job)
		return job, nil
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()

	if entry.job.SessionID != sessionID {
		return nil, errors.Wrapf(httpErrors.ErrNotFound, "job %s", jobID)
	}
	u.expireLocked(ctx, entry, time.Now())
	return entry.job.Clone(), nil
}

func (u *clipsUC) ListJobs(ctx context.Context, sessionID string, pagination *utils.Pagination) (*models.ClipJobList, error) {
	if pagination == nil {
		pagination = &utils.Pagination{Page: 1, Size: 10}
	}
	list, err := u.jobsRepo.GetJobs(ctx, sessionID, pagination)
	if err != nil {
		u.logger.Errorf("ListJobs - GetJobs: %v", err)
		return nil, err
	}
	return list, nil
}

// Cancel moves a non-terminal job to failed(cancelled). Cancelling a
// terminal job is a no-op returning the job as-is.
func (u *clipsUC) Cancel(ctx context.Context, sessionID string, jobID uuid.UUID) (*models.ClipJob, error) {
	u.mu.RLock()
	entry, ok := u.table[jobID]
	u.mu.RUnlock()

	if !ok {
		job, err := u.jobsRepo.GetJobByID(ctx, jobID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, errors.Wrapf(httpErrors.ErrNotFound, "job %s", jobID)
			}
			return nil, err
		}
		if job.SessionID != sessionID {
			return nil, errors.Wrapf(httpErrors.ErrNotFound, "job %s", jobID)
		}
		if job.Status.Terminal() {
			return job, nil
		}
		job.Status = models.JobStatusFailed
		job.Error = &models.JobFailure{Reason: models.FailureCancelled}
		job.UpdatedAt = time.Now()
		if err = u.jobsRepo.UpdateJob(ctx, job); err != nil {
			u.logger.Errorf("Cancel - UpdateJob: %v", err)
			return nil, err
		}
		return job, nil
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()

	if entry.job.SessionID != sessionID {
		return nil, errors.Wrapf(httpErrors.ErrNotFound, "job %s", jobID)
	}
	if entry.job.Status.Terminal() {
		return entry.job.Clone(), nil
	}
	u.failLocked(ctx, entry, models.FailureCancelled, "cancelled by client")
	return entry.job.Clone(), nil
}

// HandleEvent applies one backend signal to the job state machine. Signals
// for the same job id are serialized by the per-entry mutex; signals for
// different jobs never block each other. Anything arriving after a terminal
// state is dropped and logged.
func (u *clipsUC) HandleEvent(ctx context.Context, event *models.RenderEvent) error {
	jobID, err := uuid.Parse(event.JobID)
	if err != nil {
		return errors.Wrapf(httpErrors.ErrValidation, "invalid job id %q in render event", event.JobID)
	}

	u.mu.RLock()
	entry, ok := u.table[jobID]
	u.mu.RUnlock()
	if !ok {
		u.logger.Warnf("render event %s for unknown job %s dropped", event.Type, event.JobID)
		return errors.Wrapf(httpErrors.ErrNotFound, "job %s", jobID)
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()

	job := entry.job
	if job.Status.Terminal() {
		u.logger.Warnf("late %s signal for terminal job %s (status=%s) dropped", event.Type, job.JobID, job.Status)
		return nil
	}

	switch event.Type {
	case models.RenderEventStarted:
		if job.Status != models.JobStatusQueued {
			u.logger.Warnf("duplicate started signal for job %s (status=%s) dropped", job.JobID, job.Status)
			return nil
		}
		job.Status = models.JobStatusProcessing
		entry.deadline = time.Now().Add(u.cfg.Jobs.RenderTimeout)
	case models.RenderEventDone:
		// A done signal while still queued means the ack was lost in
		// transit; the completion still wins.
		job.Status = models.JobStatusDone
		job.ResultRef = event.ResultRef
		job.Error = nil
	case models.RenderEventFailed:
		reason := event.Reason
		if reason == "" {
			reason = models.FailureBackendError
		}
		job.Status = models.JobStatusFailed
		job.Error = &models.JobFailure{Reason: reason, Message: event.Message}
	default:
		u.logger.Warnf("unknown render event type %q for job %s dropped", event.Type, job.JobID)
		return nil
	}

	job.UpdatedAt = time.Now()
	u.persistLocked(ctx, entry)
	u.logger.Infof("job %s -> %s", job.JobID, job.Status)
	return nil
}

// Sweep moves every job past its deadline into failed(timeout) and garbage
// collects terminal jobs older than the retention window, removing the
// uploaded artifact of completed ones. Runs on a ticker and lazily on reads,
// so no job is ever observed stale past its deadline.
func (u *clipsUC) Sweep(ctx context.Context) {
	now := time.Now()

	u.mu.RLock()
	entries := make([]*jobEntry, 0, len(u.table))
	for _, e := range u.table {
		entries = append(entries, e)
	}
	u.mu.RUnlock()

	var expired []*models.ClipJob
	for _, entry := range entries {
		entry.mu.Lock()
		u.expireLocked(ctx, entry, now)
		if entry.job.Status.Terminal() && u.cfg.Jobs.Retention > 0 &&
			now.Sub(entry.job.UpdatedAt) > u.cfg.Jobs.Retention {
			expired = append(expired, entry.job.Clone())
		}
		entry.mu.Unlock()
	}

	if len(expired) > 0 {
		u.mu.Lock()
		for _, job := range expired {
			delete(u.table, job.JobID)
		}
		u.mu.Unlock()

		for _, job := range expired {
			if job.Status != models.JobStatusDone {
				continue
			}
			if err := u.awsRepo.RemoveClip(ctx, u.cfg.S3.OutputBucket, clipKey(job.SessionID, job.JobID)); err != nil {
				u.logger.Errorf("remove expired clip for job %s: %v", job.JobID, err)
			}
		}
		u.logger.Infof("garbage collected %d retained jobs", len(expired))
	}
}

// expireRow applies the deadline to a job served from persistence, where no
// in-memory deadline survives. The transition is persisted so the same row
// cannot be observed non-terminal past its deadline again.
func (u *clipsUC) expireRow(ctx context.Context, job *models.ClipJob) {
	if job.Status.Terminal() {
		return
	}
	timeout := u.cfg.Jobs.RenderTimeout
	if job.Status == models.JobStatusQueued {
		timeout = u.cfg.Jobs.AckTimeout
	}
	if timeout <= 0 || time.Since(job.UpdatedAt) <= timeout {
		return
	}
	u.logger.Warnf("job %s timed out in state %s", job.JobID, job.Status)
	message := fmt.Sprintf("no %s signal before deadline", nextSignal(job.Status))
	job.Status = models.JobStatusFailed
	job.Error = &models.JobFailure{Reason: models.FailureTimeout, Message: message}
	job.UpdatedAt = time.Now()
	if err := u.jobsRepo.UpdateJob(ctx, job); err != nil {
		u.logger.Errorf("persist job %s: %v", job.JobID, err)
	}
	u.mirrorJob(ctx, job)
}

// expireLocked times out a non-terminal job whose deadline has passed.
// Caller holds entry.mu.
func (u *clipsUC) expireLocked(ctx context.Context, entry *jobEntry, now time.Time) {
	if entry.job.Status.Terminal() || now.Before(entry.deadline) {
		return
	}
	u.logger.Warnf("job %s timed out in state %s", entry.job.JobID, entry.job.Status)
	u.failLocked(ctx, entry, models.FailureTimeout, fmt.Sprintf("no %s signal before deadline", nextSignal(entry.job.Status)))
}

// failLocked applies a failure transition. Caller holds entry.mu.
func (u *clipsUC) failLocked(ctx context.Context, entry *jobEntry, reason models.FailureReason, message string) {
	entry.job.Status = models.JobStatusFailed
	entry.job.Error = &models.JobFailure{Reason: reason, Message: message}
	entry.job.UpdatedAt = time.Now()
	u.persistLocked(ctx, entry)
}

// persistLocked writes the job row and the redis mirror. Persistence
// failures are logged, never allowed to undo an applied transition.
func (u *clipsUC) persistLocked(ctx context.Context, entry *jobEntry) {
	if err := u.jobsRepo.UpdateJob(ctx, entry.job); err != nil {
		u.logger.Errorf("persist job %s: %v", entry.job.JobID, err)
	}
	u.mirrorJob(ctx, entry.job)
}

func (u *clipsUC) mirrorJob(ctx context.Context, job *models.ClipJob) {
	ttl := int(u.cfg.Jobs.Retention.Seconds())
	if err := u.redisRepo.SetJobState(ctx, job, ttl); err != nil {
		u.logger.Errorf("mirror job %s: %v", job.JobID, err)
	}
}

// findInFlight returns a live non-terminal job matching the submission key,
// used by the reuse dedup policy.
func (u *clipsUC) findInFlight(sessionID string, input *models.SubmitClipInput) *models.ClipJob {
	key := submissionKey(sessionID, input.AnalysisID, input.Moment, input.Options)

	u.mu.RLock()
	entries := make([]*jobEntry, 0, len(u.table))
	for _, e := range u.table {
		entries = append(entries, e)
	}
	u.mu.RUnlock()

	for _, entry := range entries {
		entry.mu.Lock()
		match := !entry.job.Status.Terminal() &&
			submissionKey(entry.job.SessionID, entry.job.AnalysisID, entry.job.Moment, entry.job.Options) == key
		var clone *models.ClipJob
		if match {
			clone = entry.job.Clone()
		}
		entry.mu.Unlock()
		if clone != nil {
			return clone
		}
	}
	return nil
}

func clipKey(sessionID string, jobID uuid.UUID) string {
	return fmt.Sprintf("clips/%s/%s.mp4", sessionID, jobID)
}

func submissionKey(sessionID string, analysisID uuid.UUID, m models.Moment, o models.ClipOptions) string {
	return fmt.Sprintf("%s|%s|%s|%.3f|%.3f|%s|%s", sessionID, analysisID, m.Label, m.Start, m.End, o.AspectRatio, o.Resolution)
}

func nextSignal(status models.JobStatus) string {
	if status == models.JobStatusQueued {
		return "started"
	}
	return "completion"
}
