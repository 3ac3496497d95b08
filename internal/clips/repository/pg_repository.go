package repository

import (
	"context"
	"encoding/json"
	"time"

	"github.com/clipforge/viral-moments-backend/internal/clips"
	"github.com/clipforge/viral-moments-backend/internal/models"
	"github.com/clipforge/viral-moments-backend/pkg/utils"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
)

type clipsRepo struct {
	db *sqlx.DB
}

func NewClipsRepo(db *sqlx.DB) clips.Repository {
	return &clipsRepo{db: db}
}

type clipJobRow struct {
	JobID          uuid.UUID `db:"job_id"`
	SessionID      string    `db:"session_id"`
	AnalysisID     uuid.UUID `db:"analysis_id"`
	Label          string    `db:"label"`
	StartSec       float64   `db:"start_sec"`
	EndSec         float64   `db:"end_sec"`
	Score          int       `db:"score"`
	Tags           []byte    `db:"tags"`
	AspectRatio    string    `db:"aspect_ratio"`
	Resolution     string    `db:"resolution"`
	Status         string    `db:"status"`
	ResultRef      string    `db:"result_ref"`
	FailureReason  string    `db:"failure_reason"`
	FailureMessage string    `db:"failure_message"`
	CreatedAt      time.Time `db:"created_at"`
	UpdatedAt      time.Time `db:"updated_at"`
}

func (r clipJobRow) toModel() (*models.ClipJob, error) {
	job := &models.ClipJob{
		JobID:      r.JobID,
		SessionID:  r.SessionID,
		AnalysisID: r.AnalysisID,
		Moment: models.Moment{
			Label: r.Label,
			Start: r.StartSec,
			End:   r.EndSec,
			Score: r.Score,
		},
		Options: models.ClipOptions{
			AspectRatio: models.AspectRatio(r.AspectRatio),
			Resolution:  models.Resolution(r.Resolution),
		},
		Status:    models.JobStatus(r.Status),
		ResultRef: r.ResultRef,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
	if len(r.Tags) > 0 {
		if err := json.Unmarshal(r.Tags, &job.Moment.Tags); err != nil {
			return nil, errors.Wrap(err, "clipJobRow.toModel.UnmarshalTags")
		}
	}
	if r.FailureReason != "" {
		job.Error = &models.JobFailure{
			Reason:  models.FailureReason(r.FailureReason),
			Message: r.FailureMessage,
		}
	}
	return job, nil
}

func (c *clipsRepo) CreateJob(ctx context.Context, job *models.ClipJob) error {
	tags, err := json.Marshal(job.Moment.Tags)
	if err != nil {
		return errors.Wrap(err, "clipsRepo.CreateJob.MarshalTags")
	}
	var failureReason, failureMessage string
	if job.Error != nil {
		failureReason = string(job.Error.Reason)
		failureMessage = job.Error.Message
	}
	if _, err = c.db.ExecContext(
		ctx,
		createJobQuery,
		job.JobID,
		job.SessionID,
		job.AnalysisID,
		job.Moment.Label,
		job.Moment.Start,
		job.Moment.End,
		job.Moment.Score,
		tags,
		string(job.Options.AspectRatio),
		string(job.Options.Resolution),
		string(job.Status),
		job.ResultRef,
		failureReason,
		failureMessage,
		job.CreatedAt,
		job.UpdatedAt,
	); err != nil {
		return errors.Wrap(err, "clipsRepo.CreateJob.Exec")
	}
	return nil
}

func (c *clipsRepo) UpdateJob(ctx context.Context, job *models.ClipJob) error {
	var failureReason, failureMessage string
	if job.Error != nil {
		failureReason = string(job.Error.Reason)
		failureMessage = job.Error.Message
	}
	res, err := c.db.ExecContext(
		ctx,
		updateJobQuery,
		job.JobID,
		string(job.Status),
		job.ResultRef,
		failureReason,
		failureMessage,
		job.UpdatedAt,
	)
	if err != nil {
		return errors.Wrap(err, "clipsRepo.UpdateJob.Exec")
	}
	if count, _ := res.RowsAffected(); count == 0 {
		return errors.Errorf("clipsRepo.UpdateJob: no job row %s", job.JobID)
	}
	return nil
}

func (c *clipsRepo) GetJobByID(ctx context.Context, jobID uuid.UUID) (*models.ClipJob, error) {
	var row clipJobRow
	if err := c.db.GetContext(ctx, &row, getJobByIDQuery, jobID); err != nil {
		return nil, errors.Wrap(err, "clipsRepo.GetJobByID.Get")
	}
	return row.toModel()
}

func (c *clipsRepo) GetJobs(ctx context.Context, sessionID string, pagination *utils.Pagination) (*models.ClipJobList, error) {
	var totalCount int
	if err := c.db.GetContext(ctx, &totalCount, getTotalJobsBySessionQuery, sessionID); err != nil {
		return nil, errors.Wrap(err, "clipsRepo.GetJobs.Count")
	}
	if totalCount == 0 {
		return &models.ClipJobList{
			Jobs:       make([]*models.ClipJob, 0),
			TotalCount: 0,
			Page:       pagination.GetPage(),
			PageSize:   pagination.GetSize(),
			HasMore:    false,
		}, nil
	}

	rows, err := c.db.QueryxContext(ctx, getJobsBySessionQuery, sessionID, pagination.GetOffset(), pagination.GetLimit())
	if err != nil {
		return nil, errors.Wrap(err, "clipsRepo.GetJobs.Query")
	}
	defer rows.Close()

	jobs := make([]*models.ClipJob, 0, pagination.GetSize())
	for rows.Next() {
		var row clipJobRow
		if err = rows.StructScan(&row); err != nil {
			return nil, errors.Wrap(err, "clipsRepo.GetJobs.StructScan")
		}
		job, err := row.toModel()
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, job)
	}
	if err = rows.Err(); err != nil {
		return nil, errors.Wrap(err, "clipsRepo.GetJobs.Rows")
	}

	return &models.ClipJobList{
		Jobs:       jobs,
		TotalCount: totalCount,
		Page:       pagination.GetPage(),
		PageSize:   pagination.GetSize(),
		HasMore:    utils.GetHasMore(pagination.GetPage(), totalCount, pagination.GetSize()),
	}, nil
}
