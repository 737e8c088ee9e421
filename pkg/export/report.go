package export

import (
	"time"

	"github.com/matzehuels/layercombos/pkg/observability"
)

// Failure records a combination whose rendering or conversion failed.
type Failure struct {
	Group string
	Label string
	Err   error
}

// GroupReport lists the labels processed for one group.
type GroupReport struct {
	Name   string
	Labels []string
}

// Report summarizes a run.
type Report struct {
	RunID     string
	Groups    []GroupReport
	Exported  []string // Paths written, in processing order
	Failures  []Failure
	CacheHits int
	Duration  time.Duration
}

// Combinations returns the number of combinations processed.
func (r *Report) Combinations() int {
	n := 0
	for _, g := range r.Groups {
		n += len(g.Labels)
	}
	return n
}

// Failed reports whether any combination failed.
func (r *Report) Failed() bool {
	return len(r.Failures) > 0
}

func (r *Report) summary() observability.RunSummary {
	return observability.RunSummary{
		Groups:       len(r.Groups),
		Combinations: r.Combinations(),
		Exported:     len(r.Exported),
		Failures:     len(r.Failures),
		CacheHits:    r.CacheHits,
		Duration:     r.Duration,
	}
}
