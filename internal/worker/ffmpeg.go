package worker

import (
	"fmt"
	"strings"

	"github.com/clipforge/viral-moments-backend/internal/models"
)

// BuildTrimArgs assembles the ffmpeg argument list for one render job.
// Seeking happens before the input so ffmpeg can keyframe-seek instead of
// decoding the whole prefix.
func BuildTrimArgs(job *models.RenderJob, outputPath string) []string {
	args := []string{
		"-ss", formatSeconds(job.Moment.Start),
		"-to", formatSeconds(job.Moment.End),
		"-i", job.SourceURL,
	}

	if vf := buildVideoFilter(job.Options); vf != "" {
		args = append(args, "-vf", vf)
	}

	args = append(args,
		"-c:v", "libx264",
		"-preset", "fast",
		"-c:a", "aac",
		"-movflags", "+faststart",
		"-y", outputPath,
	)
	return args
}

// buildVideoFilter combines the crop for the requested aspect ratio with the
// scale for the requested resolution. 16:9 keeps the source framing.
func buildVideoFilter(opts models.ClipOptions) string {
	var filters []string

	switch opts.AspectRatio {
	case models.AspectRatio9x16:
		filters = append(filters, "crop=ih*9/16:ih")
	case models.AspectRatio1x1:
		filters = append(filters, "crop=ih:ih")
	case models.AspectRatio4x5:
		filters = append(filters, "crop=ih*4/5:ih")
	}

	switch opts.Resolution {
	case models.Resolution1080p:
		filters = append(filters, "scale=-2:1080")
	case models.Resolution720p:
		filters = append(filters, "scale=-2:720")
	case models.Resolution480p:
		filters = append(filters, "scale=-2:480")
	}

	return strings.Join(filters, ",")
}

func formatSeconds(sec float64) string {
	return fmt.Sprintf("%.3f", sec)
}
