package moments

import (
	"strings"

	"github.com/clipforge/viral-moments-backend/internal/models"
)

// Search filters moments by a free-text query. A moment matches when its
// label contains the query case-insensitively, or any of its tags contains
// the query as a substring. The filter is stable: relative order of the
// input is preserved and never re-ranked.
//
// The result is always a freshly allocated slice, so callers can run any
// number of queries against the same immutable moment sequence without one
// call corrupting another.
func Search(ms []models.Moment, query string) []models.Moment {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		out := make([]models.Moment, len(ms))
		for i, m := range ms {
			out[i] = m.Clone()
		}
		return out
	}

	out := make([]models.Moment, 0, len(ms))
	for _, m := range ms {
		if Matches(m, q) {
			out = append(out, m.Clone())
		}
	}
	return out
}

// Matches expects an already trimmed and lowercased query. Tags are stored
// lowercase, so no per-call normalization happens on them.
func Matches(m models.Moment, q string) bool {
	if strings.Contains(strings.ToLower(m.Label), q) {
		return true
	}
	for _, tag := range m.Tags {
		if strings.Contains(tag, q) {
			return true
		}
	}
	return false
}
