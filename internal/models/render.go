package models

import "time"

// RenderJob is the queue payload handed to the render backend. It carries
// everything the worker needs so it never reads analysis state.
type RenderJob struct {
	JobID       string      `json:"job_id" redis:"job_id"`
	SessionID   string      `json:"session_id" redis:"session_id"`
	SourceURL   string      `json:"source_url" redis:"source_url"`
	Moment      Moment      `json:"moment" redis:"moment"`
	Options     ClipOptions `json:"options" redis:"options"`
	OutputKey   string      `json:"output_key" redis:"output_key"`
	SubmittedAt time.Time   `json:"submitted_at" redis:"submitted_at"`
}

type RenderEventType string

const (
	RenderEventStarted RenderEventType = "started"
	RenderEventDone    RenderEventType = "done"
	RenderEventFailed  RenderEventType = "failed"
)

// RenderEvent is an inbound progress signal from the render backend. The
// orchestrator applies these to the job state machine in arrival order.
type RenderEvent struct {
	JobID     string          `json:"job_id"`
	Type      RenderEventType `json:"type"`
	ResultRef string          `json:"result_ref,omitempty"`
	Reason    FailureReason   `json:"reason,omitempty"`
	Message   string          `json:"message,omitempty"`
	At        time.Time       `json:"at"`
}
