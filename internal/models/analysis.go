package models

import (
	"strings"
	"time"

	"github.com/clipforge/viral-moments-backend/pkg/httpErrors"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// VideoReference identifies the source video. It is resolved once when
// analysis runs and is immutable afterwards.
type VideoReference struct {
	VideoID   string `json:"video_id" db:"video_id" validate:"required,lte=255"`
	SourceURL string `json:"source_url" db:"source_url" validate:"required,url,lte=2048"`
}

// Moment is a scored, tagged candidate time-range proposed as a shareable
// clip. Score and tags are assigned once by the analyzer and are read-only
// to every downstream consumer.
type Moment struct {
	Label string   `json:"label" db:"label" validate:"required,lte=255"`
	Start float64  `json:"start" db:"start_sec" validate:"gte=0"`
	End   float64  `json:"end" db:"end_sec" validate:"gte=0"`
	Score int      `json:"score" db:"score" validate:"gte=0,lte=100"`
	Tags  []string `json:"tags" db:"tags"`
}

// Clone returns a deep copy so a snapshot cannot alias the source tags slice.
func (m Moment) Clone() Moment {
	out := m
	if m.Tags != nil {
		out.Tags = make([]string, len(m.Tags))
		copy(out.Tags, m.Tags)
	}
	return out
}

// ValidateMoment enforces the analyzer contract: non-negative offsets,
// end strictly after start, score an integer percentage. Violations are
// surfaced as validation errors, never clamped.
func ValidateMoment(m Moment) error {
	if m.Start < 0 {
		return errors.Wrapf(httpErrors.ErrValidation, "moment %q: start %.3f is negative", m.Label, m.Start)
	}
	if m.End <= m.Start {
		return errors.Wrapf(httpErrors.ErrValidation, "moment %q: end %.3f must be greater than start %.3f", m.Label, m.End, m.Start)
	}
	if m.Score < 0 || m.Score > 100 {
		return errors.Wrapf(httpErrors.ErrValidation, "moment %q: score %d outside [0,100]", m.Label, m.Score)
	}
	return nil
}

// NormalizeTags lowercases, trims and deduplicates tags, preserving first
// occurrence order. Search is case-insensitive by construction because every
// stored tag already went through this.
func NormalizeTags(tags []string) []string {
	if len(tags) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(tags))
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// AnalysisPayload is the raw outcome of the external analyzer before the
// core has validated it into an AnalysisResult.
type AnalysisPayload struct {
	Title        string   `json:"title"`
	Channel      string   `json:"channel"`
	Duration     string   `json:"duration"`
	OverallScore int      `json:"overall_score"`
	Hooks        []string `json:"hooks"`
	Moments      []Moment `json:"moments"`
}

// AnalysisResult is an immutable value object; its moments are replaced
// wholesale only by re-running analysis.
type AnalysisResult struct {
	AnalysisID   uuid.UUID      `json:"analysis_id" db:"analysis_id"`
	SessionID    string         `json:"-" db:"session_id"`
	Video        VideoReference `json:"video"`
	Title        string         `json:"title" db:"title"`
	Channel      string         `json:"channel" db:"channel"`
	Duration     string         `json:"duration" db:"duration"`
	OverallScore int            `json:"overall_score" db:"overall_score"`
	Hooks        []string       `json:"hooks"`
	Moments      []Moment       `json:"moments"`
	CreatedAt    time.Time      `json:"created_at" db:"created_at"`
}

// NewAnalysisResult validates the analyzer payload and builds the immutable
// result. The caller-supplied slices are defensively copied; tags are
// normalized before storage.
func NewAnalysisResult(sessionID string, video VideoReference, p *AnalysisPayload) (*AnalysisResult, error) {
	if p == nil {
		return nil, errors.Wrap(httpErrors.ErrValidation, "analysis payload is nil")
	}
	if p.OverallScore < 0 || p.OverallScore > 100 {
		return nil, errors.Wrapf(httpErrors.ErrValidation, "overall score %d outside [0,100]", p.OverallScore)
	}

	moments := make([]Moment, 0, len(p.Moments))
	for _, m := range p.Moments {
		if err := ValidateMoment(m); err != nil {
			return nil, err
		}
		mc := m.Clone()
		mc.Tags = NormalizeTags(mc.Tags)
		moments = append(moments, mc)
	}

	hooks := make([]string, len(p.Hooks))
	copy(hooks, p.Hooks)

	return &AnalysisResult{
		AnalysisID:   uuid.New(),
		SessionID:    sessionID,
		Video:        video,
		Title:        p.Title,
		Channel:      p.Channel,
		Duration:     p.Duration,
		OverallScore: p.OverallScore,
		Hooks:        hooks,
		Moments:      moments,
		CreatedAt:    time.Now(),
	}, nil
}

type AnalysisList struct {
	Analyses   []*AnalysisResult `json:"analyses"`
	TotalCount int               `json:"total_count"`
	Page       int               `json:"page"`
	PageSize   int               `json:"page_size"`
	HasMore    bool              `json:"has_more"`
}
