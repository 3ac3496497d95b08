package usecase

import (
	"context"
	"database/sql"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/clipforge/viral-moments-backend/internal/config"
	"github.com/clipforge/viral-moments-backend/internal/models"
	"github.com/clipforge/viral-moments-backend/pkg/httpErrors"
	"github.com/clipforge/viral-moments-backend/pkg/logger"
	"github.com/clipforge/viral-moments-backend/pkg/utils"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

type fakeJobsRepo struct {
	mu      sync.Mutex
	created map[uuid.UUID]*models.ClipJob
	updates int
}

func newFakeJobsRepo() *fakeJobsRepo {
	return &fakeJobsRepo{created: make(map[uuid.UUID]*models.ClipJob)}
}

func (r *fakeJobsRepo) CreateJob(ctx context.Context, job *models.ClipJob) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.created[job.JobID] = job.Clone()
	return nil
}

func (r *fakeJobsRepo) UpdateJob(ctx context.Context, job *models.ClipJob) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.created[job.JobID] = job.Clone()
	r.updates++
	return nil
}

func (r *fakeJobsRepo) GetJobByID(ctx context.Context, jobID uuid.UUID) (*models.ClipJob, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	job, ok := r.created[jobID]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return job.Clone(), nil
}

func (r *fakeJobsRepo) GetJobs(ctx context.Context, sessionID string, pagination *utils.Pagination) (*models.ClipJobList, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	list := &models.ClipJobList{}
	for _, job := range r.created {
		if job.SessionID == sessionID {
			list.Jobs = append(list.Jobs, job.Clone())
			list.TotalCount++
		}
	}
	return list, nil
}

type fakeRedisRepo struct{}

func (r *fakeRedisRepo) EnqueueRenderJob(ctx context.Context, key string, job *models.RenderJob) error {
	return nil
}

func (r *fakeRedisRepo) DequeueRenderJob(ctx context.Context, key string) (*models.RenderJob, error) {
	return nil, nil
}

func (r *fakeRedisRepo) PublishEvent(ctx context.Context, channel string, event *models.RenderEvent) error {
	return nil
}

func (r *fakeRedisRepo) SubscribeEvents(ctx context.Context, channel string) (<-chan *models.RenderEvent, error) {
	ch := make(chan *models.RenderEvent)
	close(ch)
	return ch, nil
}

func (r *fakeRedisRepo) SetJobState(ctx context.Context, job *models.ClipJob, ttlSeconds int) error {
	return nil
}

func (r *fakeRedisRepo) GetJobState(ctx context.Context, jobID string) (*models.ClipJob, error) {
	return nil, nil
}

type fakeAWSRepo struct {
	mu      sync.Mutex
	removed []string
}

func (f *fakeAWSRepo) UploadClip(ctx context.Context, bucket, key string, body io.Reader, size int64) error {
	return nil
}

func (f *fakeAWSRepo) GetPresignedURL(ctx context.Context, bucket, key string) (string, error) {
	return "https://clips.example.com/" + key, nil
}

func (f *fakeAWSRepo) RemoveClip(ctx context.Context, bucket, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.removed = append(f.removed, key)
	return nil
}

type fakeBackend struct {
	mu      sync.Mutex
	started []*models.RenderJob
	err     error
}

func (b *fakeBackend) Start(ctx context.Context, job *models.RenderJob) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.err != nil {
		return b.err
	}
	b.started = append(b.started, job)
	return nil
}

func testConfig() *config.Config {
	return &config.Config{
		Jobs: config.JobsConfig{
			AckTimeout:    30 * time.Second,
			RenderTimeout: 10 * time.Minute,
			SweepInterval: 15 * time.Second,
			Retention:     24 * time.Hour,
			DedupPolicy:   DedupNew,
		},
	}
}

func testLogger() logger.Logger {
	apiLogger := logger.NewApiLogger(&config.Config{Logger: config.Logger{Level: "fatal"}})
	apiLogger.InitLogger()
	return apiLogger
}

func testMoment() models.Moment {
	return models.Moment{
		Label: "Opening hook",
		Start: 12.5,
		End:   34.0,
		Score: 91,
		Tags:  []string{"Funny", "hook"},
	}
}

func testInput() *models.SubmitClipInput {
	return &models.SubmitClipInput{
		SourceURL: "https://videos.example.com/v/abc123.mp4",
		Moment:    testMoment(),
	}
}

func newTestUC(t *testing.T, cfg *config.Config) (*clipsUC, *fakeJobsRepo, *fakeAWSRepo, *fakeBackend) {
	t.Helper()
	repo := newFakeJobsRepo()
	awsRepo := &fakeAWSRepo{}
	backend := &fakeBackend{}
	uc := NewClipsUseCase(cfg, repo, &fakeRedisRepo{}, awsRepo, backend, testLogger()).(*clipsUC)
	return uc, repo, awsRepo, backend
}

func TestSubmitQueuesJob(t *testing.T) {
	t.Parallel()
	uc, repo, _, _ := newTestUC(t, testConfig())
	ctx := context.Background()

	job, err := uc.Submit(ctx, "sess-1", testInput())
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if job.Status != models.JobStatusQueued {
		t.Fatalf("status = %s, want queued", job.Status)
	}
	if job.JobID == uuid.Nil {
		t.Fatal("job id not assigned")
	}
	if job.Error != nil {
		t.Fatalf("queued job carries error: %+v", job.Error)
	}
	if got := job.Moment.Tags; len(got) != 2 || got[0] != "funny" || got[1] != "hook" {
		t.Fatalf("tags not normalized: %v", got)
	}

	got, err := uc.GetJob(ctx, "sess-1", job.JobID)
	if err != nil {
		t.Fatalf("GetJob immediately after Submit: %v", err)
	}
	if got.Status != models.JobStatusQueued {
		t.Fatalf("GetJob status = %s, want queued", got.Status)
	}

	if _, err = repo.GetJobByID(ctx, job.JobID); err != nil {
		t.Fatalf("job not persisted: %v", err)
	}
}

func TestSubmitInvalidOptions(t *testing.T) {
	t.Parallel()
	uc, repo, _, _ := newTestUC(t, testConfig())

	input := testInput()
	input.Options.AspectRatio = "21:9"

	_, err := uc.Submit(context.Background(), "sess-1", input)
	if !errors.Is(err, httpErrors.ErrConfiguration) {
		t.Fatalf("err = %v, want configuration error", err)
	}

	repo.mu.Lock()
	defer repo.mu.Unlock()
	if len(repo.created) != 0 {
		t.Fatal("rejected submission created a job")
	}
}

func TestSubmitInvalidMoment(t *testing.T) {
	t.Parallel()
	uc, _, _, _ := newTestUC(t, testConfig())

	input := testInput()
	input.Moment.End = input.Moment.Start

	_, err := uc.Submit(context.Background(), "sess-1", input)
	if !errors.Is(err, httpErrors.ErrValidation) {
		t.Fatalf("err = %v, want validation error", err)
	}
}

func TestSubmitAppliesDefaults(t *testing.T) {
	t.Parallel()
	uc, _, _, _ := newTestUC(t, testConfig())

	job, err := uc.Submit(context.Background(), "sess-1", testInput())
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if job.Options.AspectRatio != models.DefaultAspectRatio {
		t.Errorf("aspect ratio = %s, want %s", job.Options.AspectRatio, models.DefaultAspectRatio)
	}
	if job.Options.Resolution != models.DefaultResolution {
		t.Errorf("resolution = %s, want %s", job.Options.Resolution, models.DefaultResolution)
	}
}

func TestStartedMovesToProcessing(t *testing.T) {
	t.Parallel()
	uc, _, _, _ := newTestUC(t, testConfig())
	ctx := context.Background()

	job, err := uc.Submit(ctx, "sess-1", testInput())
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}

	if err = uc.HandleEvent(ctx, &models.RenderEvent{
		JobID: job.JobID.String(),
		Type:  models.RenderEventStarted,
		At:    time.Now(),
	}); err != nil {
		t.Fatalf("HandleEvent started: %v", err)
	}

	got, err := uc.GetJob(ctx, "sess-1", job.JobID)
	if err != nil {
		t.Fatalf("GetJob: %v", err)
	}
	if got.Status != models.JobStatusProcessing {
		t.Fatalf("status = %s, want processing", got.Status)
	}
}

func TestDoneRecordsResultRef(t *testing.T) {
	t.Parallel()
	uc, _, _, _ := newTestUC(t, testConfig())
	ctx := context.Background()

	job, err := uc.Submit(ctx, "sess-1", testInput())
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}

	events := []*models.RenderEvent{
		{JobID: job.JobID.String(), Type: models.RenderEventStarted},
		{JobID: job.JobID.String(), Type: models.RenderEventDone, ResultRef: "https://clips.example.com/out.mp4"},
	}
	for _, ev := range events {
		if err = uc.HandleEvent(ctx, ev); err != nil {
			t.Fatalf("HandleEvent %s: %v", ev.Type, err)
		}
	}

	got, err := uc.GetJob(ctx, "sess-1", job.JobID)
	if err != nil {
		t.Fatalf("GetJob: %v", err)
	}
	if got.Status != models.JobStatusDone {
		t.Fatalf("status = %s, want done", got.Status)
	}
	if got.ResultRef != "https://clips.example.com/out.mp4" {
		t.Fatalf("result ref = %q", got.ResultRef)
	}
	if got.Error != nil {
		t.Fatalf("done job carries error: %+v", got.Error)
	}
}

func TestDoneWithoutStartedStillCompletes(t *testing.T) {
	t.Parallel()
	uc, _, _, _ := newTestUC(t, testConfig())
	ctx := context.Background()

	job, err := uc.Submit(ctx, "sess-1", testInput())
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}

	if err = uc.HandleEvent(ctx, &models.RenderEvent{
		JobID:     job.JobID.String(),
		Type:      models.RenderEventDone,
		ResultRef: "https://clips.example.com/out.mp4",
	}); err != nil {
		t.Fatalf("HandleEvent done: %v", err)
	}

	got, err := uc.GetJob(ctx, "sess-1", job.JobID)
	if err != nil {
		t.Fatalf("GetJob: %v", err)
	}
	if got.Status != models.JobStatusDone {
		t.Fatalf("status = %s, want done", got.Status)
	}
}

func TestLateSignalAfterTerminalDropped(t *testing.T) {
	t.Parallel()
	uc, _, _, _ := newTestUC(t, testConfig())
	ctx := context.Background()

	job, err := uc.Submit(ctx, "sess-1", testInput())
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}

	if err = uc.HandleEvent(ctx, &models.RenderEvent{
		JobID:     job.JobID.String(),
		Type:      models.RenderEventDone,
		ResultRef: "ref-1",
	}); err != nil {
		t.Fatalf("HandleEvent done: %v", err)
	}

	// Late failure must not disturb the terminal state.
	if err = uc.HandleEvent(ctx, &models.RenderEvent{
		JobID:   job.JobID.String(),
		Type:    models.RenderEventFailed,
		Reason:  models.FailureBackendError,
		Message: "stale worker report",
	}); err != nil {
		t.Fatalf("late event should be silently dropped, got %v", err)
	}

	got, err := uc.GetJob(ctx, "sess-1", job.JobID)
	if err != nil {
		t.Fatalf("GetJob: %v", err)
	}
	if got.Status != models.JobStatusDone || got.ResultRef != "ref-1" || got.Error != nil {
		t.Fatalf("terminal state mutated: %+v", got)
	}
}

func TestFailedDefaultsToBackendError(t *testing.T) {
	t.Parallel()
	uc, _, _, _ := newTestUC(t, testConfig())
	ctx := context.Background()

	job, err := uc.Submit(ctx, "sess-1", testInput())
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}

	if err = uc.HandleEvent(ctx, &models.RenderEvent{
		JobID:   job.JobID.String(),
		Type:    models.RenderEventFailed,
		Message: "decoder crashed",
	}); err != nil {
		t.Fatalf("HandleEvent failed: %v", err)
	}

	got, err := uc.GetJob(ctx, "sess-1", job.JobID)
	if err != nil {
		t.Fatalf("GetJob: %v", err)
	}
	if got.Status != models.JobStatusFailed {
		t.Fatalf("status = %s, want failed", got.Status)
	}
	if got.Error == nil || got.Error.Reason != models.FailureBackendError {
		t.Fatalf("error = %+v, want backend_error", got.Error)
	}
	if got.ResultRef != "" {
		t.Fatalf("failed job carries result ref %q", got.ResultRef)
	}
}

func TestEventForUnknownJob(t *testing.T) {
	t.Parallel()
	uc, _, _, _ := newTestUC(t, testConfig())

	err := uc.HandleEvent(context.Background(), &models.RenderEvent{
		JobID: uuid.New().String(),
		Type:  models.RenderEventStarted,
	})
	if !errors.Is(err, httpErrors.ErrNotFound) {
		t.Fatalf("err = %v, want not found", err)
	}
}

func TestGetJobUnknownID(t *testing.T) {
	t.Parallel()
	uc, _, _, _ := newTestUC(t, testConfig())

	_, err := uc.GetJob(context.Background(), "sess-1", uuid.New())
	if !errors.Is(err, httpErrors.ErrNotFound) {
		t.Fatalf("err = %v, want not found", err)
	}
}

func TestGetJobWrongSession(t *testing.T) {
	t.Parallel()
	uc, _, _, _ := newTestUC(t, testConfig())
	ctx := context.Background()

	job, err := uc.Submit(ctx, "sess-1", testInput())
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}

	if _, err = uc.GetJob(ctx, "sess-2", job.JobID); !errors.Is(err, httpErrors.ErrNotFound) {
		t.Fatalf("err = %v, want not found for foreign session", err)
	}
}

func TestAckTimeoutOnRead(t *testing.T) {
	t.Parallel()
	cfg := testConfig()
	cfg.Jobs.AckTimeout = -time.Second
	uc, _, _, _ := newTestUC(t, cfg)
	ctx := context.Background()

	job, err := uc.Submit(ctx, "sess-1", testInput())
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}

	got, err := uc.GetJob(ctx, "sess-1", job.JobID)
	if err != nil {
		t.Fatalf("GetJob: %v", err)
	}
	if got.Status != models.JobStatusFailed {
		t.Fatalf("status = %s, want failed after missed ack", got.Status)
	}
	if got.Error == nil || got.Error.Reason != models.FailureTimeout {
		t.Fatalf("error = %+v, want timeout", got.Error)
	}
}

func TestRenderTimeoutOnSweep(t *testing.T) {
	t.Parallel()
	cfg := testConfig()
	cfg.Jobs.RenderTimeout = -time.Second
	uc, _, _, _ := newTestUC(t, cfg)
	ctx := context.Background()

	job, err := uc.Submit(ctx, "sess-1", testInput())
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if err = uc.HandleEvent(ctx, &models.RenderEvent{
		JobID: job.JobID.String(),
		Type:  models.RenderEventStarted,
	}); err != nil {
		t.Fatalf("HandleEvent started: %v", err)
	}

	uc.Sweep(ctx)

	got, err := uc.GetJob(ctx, "sess-1", job.JobID)
	if err != nil {
		t.Fatalf("GetJob: %v", err)
	}
	if got.Status != models.JobStatusFailed {
		t.Fatalf("status = %s, want failed after render timeout", got.Status)
	}
	if got.Error == nil || got.Error.Reason != models.FailureTimeout {
		t.Fatalf("error = %+v, want timeout", got.Error)
	}
}

func TestCancelQueuedJob(t *testing.T) {
	t.Parallel()
	uc, _, _, _ := newTestUC(t, testConfig())
	ctx := context.Background()

	job, err := uc.Submit(ctx, "sess-1", testInput())
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}

	got, err := uc.Cancel(ctx, "sess-1", job.JobID)
	if err != nil {
		t.Fatalf("Cancel: %v", err)
	}
	if got.Status != models.JobStatusFailed {
		t.Fatalf("status = %s, want failed", got.Status)
	}
	if got.Error == nil || got.Error.Reason != models.FailureCancelled {
		t.Fatalf("error = %+v, want cancelled", got.Error)
	}
}

func TestCancelTerminalJobIsNoop(t *testing.T) {
	t.Parallel()
	uc, _, _, _ := newTestUC(t, testConfig())
	ctx := context.Background()

	job, err := uc.Submit(ctx, "sess-1", testInput())
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if err = uc.HandleEvent(ctx, &models.RenderEvent{
		JobID:     job.JobID.String(),
		Type:      models.RenderEventDone,
		ResultRef: "ref-1",
	}); err != nil {
		t.Fatalf("HandleEvent done: %v", err)
	}

	got, err := uc.Cancel(ctx, "sess-1", job.JobID)
	if err != nil {
		t.Fatalf("Cancel on terminal: %v", err)
	}
	if got.Status != models.JobStatusDone || got.ResultRef != "ref-1" {
		t.Fatalf("cancel mutated terminal job: %+v", got)
	}
}

func TestBackendStartFailureFailsJob(t *testing.T) {
	t.Parallel()
	uc, _, _, backend := newTestUC(t, testConfig())
	backend.err = errors.New("queue unreachable")
	ctx := context.Background()

	job, err := uc.Submit(ctx, "sess-1", testInput())
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if job.Status != models.JobStatusQueued {
		t.Fatalf("submit returned %s, want queued before async start", job.Status)
	}

	// fireStart runs on its own goroutine; poll until it lands.
	deadline := time.Now().Add(2 * time.Second)
	for {
		got, err := uc.GetJob(ctx, "sess-1", job.JobID)
		if err != nil {
			t.Fatalf("GetJob: %v", err)
		}
		if got.Status == models.JobStatusFailed {
			if got.Error == nil || got.Error.Reason != models.FailureBackendError {
				t.Fatalf("error = %+v, want backend_error", got.Error)
			}
			return
		}
		if time.Now().After(deadline) {
			t.Fatalf("job never failed, status = %s", got.Status)
		}
		time.Sleep(10 * time.Millisecond)
	}
}

// The job returned by Submit is a snapshot taken before the start signal
// fires; concurrent transitions driven by the backend must never write into
// it. Run with the race detector.
func TestSubmitSnapshotIsolatedFromTransitions(t *testing.T) {
	t.Parallel()
	uc, _, _, backend := newTestUC(t, testConfig())
	backend.err = errors.New("queue unreachable")
	ctx := context.Background()

	for i := 0; i < 500; i++ {
		job, err := uc.Submit(ctx, "sess-1", testInput())
		if err != nil {
			t.Fatalf("Submit %d: %v", i, err)
		}
		if job.Status != models.JobStatusQueued || job.Error != nil {
			t.Fatalf("submit snapshot already transitioned: %+v", job)
		}
	}
}

func TestGetJobStaleRowTimesOut(t *testing.T) {
	t.Parallel()
	uc, repo, _, _ := newTestUC(t, testConfig())
	ctx := context.Background()

	// A processing row from a previous process, long past its render
	// deadline, with no in-memory entry.
	stale := &models.ClipJob{
		JobID:     uuid.New(),
		SessionID: "sess-1",
		Moment:    testMoment(),
		Status:    models.JobStatusProcessing,
		CreatedAt: time.Now().Add(-48 * time.Hour),
		UpdatedAt: time.Now().Add(-48 * time.Hour),
	}
	if err := repo.CreateJob(ctx, stale); err != nil {
		t.Fatalf("seed job row: %v", err)
	}

	got, err := uc.GetJob(ctx, "sess-1", stale.JobID)
	if err != nil {
		t.Fatalf("GetJob: %v", err)
	}
	if got.Status != models.JobStatusFailed {
		t.Fatalf("status = %s, want failed past render deadline", got.Status)
	}
	if got.Error == nil || got.Error.Reason != models.FailureTimeout {
		t.Fatalf("error = %+v, want timeout", got.Error)
	}

	// The transition is persisted, not just reported.
	row, err := repo.GetJobByID(ctx, stale.JobID)
	if err != nil {
		t.Fatalf("GetJobByID: %v", err)
	}
	if row.Status != models.JobStatusFailed {
		t.Fatalf("row status = %s, timeout not persisted", row.Status)
	}
}

func TestGetJobFreshRowServedUnchanged(t *testing.T) {
	t.Parallel()
	uc, repo, _, _ := newTestUC(t, testConfig())
	ctx := context.Background()

	fresh := &models.ClipJob{
		JobID:     uuid.New(),
		SessionID: "sess-1",
		Moment:    testMoment(),
		Status:    models.JobStatusProcessing,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	if err := repo.CreateJob(ctx, fresh); err != nil {
		t.Fatalf("seed job row: %v", err)
	}

	got, err := uc.GetJob(ctx, "sess-1", fresh.JobID)
	if err != nil {
		t.Fatalf("GetJob: %v", err)
	}
	if got.Status != models.JobStatusProcessing {
		t.Fatalf("status = %s, want processing inside its deadline", got.Status)
	}
}

func TestDedupReusePolicy(t *testing.T) {
	t.Parallel()
	cfg := testConfig()
	cfg.Jobs.DedupPolicy = DedupReuse
	uc, _, _, _ := newTestUC(t, cfg)
	ctx := context.Background()

	first, err := uc.Submit(ctx, "sess-1", testInput())
	if err != nil {
		t.Fatalf("first Submit: %v", err)
	}
	second, err := uc.Submit(ctx, "sess-1", testInput())
	if err != nil {
		t.Fatalf("second Submit: %v", err)
	}
	if first.JobID != second.JobID {
		t.Fatalf("reuse policy created a new job: %s vs %s", first.JobID, second.JobID)
	}

	// A different session never shares jobs.
	other, err := uc.Submit(ctx, "sess-2", testInput())
	if err != nil {
		t.Fatalf("other session Submit: %v", err)
	}
	if other.JobID == first.JobID {
		t.Fatal("jobs leaked across sessions")
	}
}

func TestDedupNewPolicy(t *testing.T) {
	t.Parallel()
	uc, _, _, _ := newTestUC(t, testConfig())
	ctx := context.Background()

	first, err := uc.Submit(ctx, "sess-1", testInput())
	if err != nil {
		t.Fatalf("first Submit: %v", err)
	}
	second, err := uc.Submit(ctx, "sess-1", testInput())
	if err != nil {
		t.Fatalf("second Submit: %v", err)
	}
	if first.JobID == second.JobID {
		t.Fatal("new policy reused a job")
	}
}

func TestConcurrentEventsAcrossJobs(t *testing.T) {
	t.Parallel()
	uc, _, _, _ := newTestUC(t, testConfig())
	ctx := context.Background()

	const n = 16
	jobs := make([]*models.ClipJob, n)
	for i := range jobs {
		job, err := uc.Submit(ctx, "sess-1", testInput())
		if err != nil {
			t.Fatalf("Submit %d: %v", i, err)
		}
		jobs[i] = job
	}

	var wg sync.WaitGroup
	for _, job := range jobs {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			_ = uc.HandleEvent(ctx, &models.RenderEvent{JobID: id, Type: models.RenderEventStarted})
			_ = uc.HandleEvent(ctx, &models.RenderEvent{JobID: id, Type: models.RenderEventDone, ResultRef: "ref-" + id})
		}(job.JobID.String())
	}
	wg.Wait()

	for _, job := range jobs {
		got, err := uc.GetJob(ctx, "sess-1", job.JobID)
		if err != nil {
			t.Fatalf("GetJob: %v", err)
		}
		if got.Status != models.JobStatusDone {
			t.Fatalf("job %s status = %s, want done", job.JobID, got.Status)
		}
	}
}

func TestSweepRetainsRecentTerminalJobs(t *testing.T) {
	t.Parallel()
	uc, _, _, _ := newTestUC(t, testConfig())
	ctx := context.Background()

	job, err := uc.Submit(ctx, "sess-1", testInput())
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if err = uc.HandleEvent(ctx, &models.RenderEvent{
		JobID:     job.JobID.String(),
		Type:      models.RenderEventDone,
		ResultRef: "ref-1",
	}); err != nil {
		t.Fatalf("HandleEvent done: %v", err)
	}

	uc.Sweep(ctx)

	uc.mu.RLock()
	_, ok := uc.table[job.JobID]
	uc.mu.RUnlock()
	if !ok {
		t.Fatal("terminal job evicted before retention window")
	}
}

func TestSweepEvictsExpiredTerminalJobs(t *testing.T) {
	t.Parallel()
	cfg := testConfig()
	cfg.Jobs.Retention = time.Nanosecond
	uc, _, awsRepo, _ := newTestUC(t, cfg)
	ctx := context.Background()

	job, err := uc.Submit(ctx, "sess-1", testInput())
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if err = uc.HandleEvent(ctx, &models.RenderEvent{
		JobID:     job.JobID.String(),
		Type:      models.RenderEventDone,
		ResultRef: "ref-1",
	}); err != nil {
		t.Fatalf("HandleEvent done: %v", err)
	}

	time.Sleep(time.Millisecond)
	uc.Sweep(ctx)

	uc.mu.RLock()
	_, ok := uc.table[job.JobID]
	uc.mu.RUnlock()
	if ok {
		t.Fatal("expired terminal job still in table")
	}

	// GC of a completed job removes its uploaded artifact.
	awsRepo.mu.Lock()
	removed := append([]string(nil), awsRepo.removed...)
	awsRepo.mu.Unlock()
	want := clipKey("sess-1", job.JobID)
	found := false
	for _, key := range removed {
		if key == want {
			found = true
		}
	}
	if !found {
		t.Fatalf("expired clip artifact not removed, removed = %v", removed)
	}

	// Evicted jobs stay readable from the persistent row.
	got, err := uc.GetJob(ctx, "sess-1", job.JobID)
	if err != nil {
		t.Fatalf("GetJob after eviction: %v", err)
	}
	if got.Status != models.JobStatusDone {
		t.Fatalf("status = %s, want done", got.Status)
	}
}
