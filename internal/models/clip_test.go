package models

import (
	"testing"

	"github.com/clipforge/viral-moments-backend/pkg/httpErrors"
	"github.com/pkg/errors"
)

func TestClipOptionsApplyDefaults(t *testing.T) {
	t.Parallel()

	var opts ClipOptions
	opts.ApplyDefaults()
	if opts.AspectRatio != AspectRatio16x9 {
		t.Errorf("aspect ratio = %s, want 16:9", opts.AspectRatio)
	}
	if opts.Resolution != Resolution1080p {
		t.Errorf("resolution = %s, want 1080p", opts.Resolution)
	}

	// Explicit values survive.
	opts = ClipOptions{AspectRatio: AspectRatio9x16, Resolution: Resolution480p}
	opts.ApplyDefaults()
	if opts.AspectRatio != AspectRatio9x16 || opts.Resolution != Resolution480p {
		t.Errorf("defaults overwrote explicit options: %+v", opts)
	}
}

func TestClipOptionsValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		opts    ClipOptions
		wantErr bool
	}{
		{"all supported ratios", ClipOptions{AspectRatio: AspectRatio4x5, Resolution: Resolution720p}, false},
		{"square", ClipOptions{AspectRatio: AspectRatio1x1, Resolution: Resolution1080p}, false},
		{"unsupported ratio", ClipOptions{AspectRatio: "21:9", Resolution: Resolution1080p}, true},
		{"unsupported resolution", ClipOptions{AspectRatio: AspectRatio16x9, Resolution: "8k"}, true},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			err := tc.opts.Validate()
			if tc.wantErr {
				if !errors.Is(err, httpErrors.ErrConfiguration) {
					t.Fatalf("err = %v, want configuration error", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestJobStatusTerminal(t *testing.T) {
	t.Parallel()

	tests := []struct {
		status JobStatus
		want   bool
	}{
		{JobStatusQueued, false},
		{JobStatusProcessing, false},
		{JobStatusDone, true},
		{JobStatusFailed, true},
	}
	for _, tc := range tests {
		if got := tc.status.Terminal(); got != tc.want {
			t.Errorf("%s.Terminal() = %v, want %v", tc.status, got, tc.want)
		}
	}
}

func TestClipJobClone(t *testing.T) {
	t.Parallel()

	job := &ClipJob{
		Moment: Moment{Label: "x", Start: 1, End: 2, Tags: []string{"a"}},
		Status: JobStatusFailed,
		Error:  &JobFailure{Reason: FailureTimeout, Message: "m"},
	}
	c := job.Clone()
	c.Moment.Tags[0] = "b"
	c.Error.Message = "mutated"

	if job.Moment.Tags[0] != "a" {
		t.Error("clone shares moment tags")
	}
	if job.Error.Message != "m" {
		t.Error("clone shares the failure struct")
	}
}
