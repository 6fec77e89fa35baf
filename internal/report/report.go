package report

import (
	"time"

	"epsconv/internal/rasterize"
	"epsconv/internal/rewrite"
)

// Report records one conversion run: the header rewrite status plus one
// result per requested format.
// It is serialisable so runs can be kept in a history file.
type Report struct {
	ID          string               `json:"id"`
	Source      string               `json:"source"`
	Orientation string               `json:"orientation"`
	StartedAt   time.Time            `json:"started_at"`
	FinishedAt  time.Time            `json:"finished_at"`
	Rewrite     rewrite.Status       `json:"rewrite"`
	BoundingBox *rewrite.BoundingBox `json:"bounding_box,omitempty"`
	Results     []rasterize.Result   `json:"results"`
}

// Duration is the wall time of the run.
func (r *Report) Duration() time.Duration {
	if r.StartedAt.IsZero() || r.FinishedAt.IsZero() {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}

// Failed reports whether the rewrite aborted or any format failed.
func (r *Report) Failed() bool {
	if r.Rewrite.Kind == rewrite.Error {
		return true
	}
	for _, res := range r.Results {
		if res.Outcome == rasterize.Failed {
			return true
		}
	}
	return false
}

// Counts returns how many formats ended in each outcome.
func (r *Report) Counts() map[rasterize.Outcome]int {
	counts := make(map[rasterize.Outcome]int, 3)
	for _, res := range r.Results {
		counts[res.Outcome]++
	}
	return counts
}
