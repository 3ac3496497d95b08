package models

import (
	"time"

	"github.com/clipforge/viral-moments-backend/pkg/httpErrors"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

type AspectRatio string

const (
	AspectRatio16x9 AspectRatio = "16:9"
	AspectRatio9x16 AspectRatio = "9:16"
	AspectRatio1x1  AspectRatio = "1:1"
	AspectRatio4x5  AspectRatio = "4:5"
)

type Resolution string

const (
	Resolution1080p Resolution = "1080p"
	Resolution720p  Resolution = "720p"
	Resolution480p  Resolution = "480p"
)

const (
	DefaultAspectRatio = AspectRatio16x9
	DefaultResolution  = Resolution1080p
)

// ClipOptions are validated against the enumerated sets at submit time; any
// other value is a configuration error, never silently coerced.
type ClipOptions struct {
	AspectRatio AspectRatio `json:"aspect_ratio" db:"aspect_ratio"`
	Resolution  Resolution  `json:"resolution" db:"resolution"`
}

// ApplyDefaults fills zero values only; explicit values are left for Validate
// to accept or reject.
func (o *ClipOptions) ApplyDefaults() {
	if o.AspectRatio == "" {
		o.AspectRatio = DefaultAspectRatio
	}
	if o.Resolution == "" {
		o.Resolution = DefaultResolution
	}
}

func (o ClipOptions) Validate() error {
	switch o.AspectRatio {
	case AspectRatio16x9, AspectRatio9x16, AspectRatio1x1, AspectRatio4x5:
	default:
		return errors.Wrapf(httpErrors.ErrConfiguration, "unsupported aspect ratio %q", o.AspectRatio)
	}
	switch o.Resolution {
	case Resolution1080p, Resolution720p, Resolution480p:
	default:
		return errors.Wrapf(httpErrors.ErrConfiguration, "unsupported resolution %q", o.Resolution)
	}
	return nil
}

type JobStatus string

const (
	JobStatusQueued     JobStatus = "queued"
	JobStatusProcessing JobStatus = "processing"
	JobStatusDone       JobStatus = "done"
	JobStatusFailed     JobStatus = "failed"
)

// Terminal reports whether the status is immutable once entered.
func (s JobStatus) Terminal() bool {
	return s == JobStatusDone || s == JobStatusFailed
}

type FailureReason string

const (
	FailureTimeout      FailureReason = "timeout"
	FailureBackendError FailureReason = "backend_error"
	FailureCancelled    FailureReason = "cancelled"
)

// JobFailure is the structured reason carried by a failed job.
type JobFailure struct {
	Reason  FailureReason `json:"reason"`
	Message string        `json:"message,omitempty"`
}

// ClipJob tracks one clip-generation request. The moment is a snapshot copy
// taken at submit time, decoupling the job's lifetime from the analysis that
// produced the moment. Ids are never reused; terminal jobs never change.
type ClipJob struct {
	JobID      uuid.UUID   `json:"job_id" db:"job_id"`
	SessionID  string      `json:"-" db:"session_id"`
	AnalysisID uuid.UUID   `json:"analysis_id,omitempty" db:"analysis_id"`
	Moment     Moment      `json:"moment"`
	Options    ClipOptions `json:"options"`
	Status     JobStatus   `json:"status" db:"status"`
	ResultRef  string      `json:"result_ref,omitempty" db:"result_ref"`
	Error      *JobFailure `json:"error,omitempty"`
	CreatedAt  time.Time   `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time   `json:"updated_at" db:"updated_at"`
}

// Clone returns a copy safe to hand to clients while the orchestrator keeps
// mutating its own record.
func (j *ClipJob) Clone() *ClipJob {
	out := *j
	out.Moment = j.Moment.Clone()
	if j.Error != nil {
		e := *j.Error
		out.Error = &e
	}
	return &out
}

type ClipJobList struct {
	Jobs       []*ClipJob `json:"jobs"`
	TotalCount int        `json:"total_count"`
	Page       int        `json:"page"`
	PageSize   int        `json:"page_size"`
	HasMore    bool       `json:"has_more"`
}

// SubmitClipInput is the client request creating a clip job. The moment is
// passed explicitly per request; there is no ambient "selected moment" state.
type SubmitClipInput struct {
	AnalysisID uuid.UUID   `json:"analysis_id"`
	SourceURL  string      `json:"source_url" validate:"required,url,lte=2048"`
	Moment     Moment      `json:"moment" validate:"required"`
	Options    ClipOptions `json:"options"`
}
