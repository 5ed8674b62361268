// Package metrics tracks per-origin timing and counts for one feed build.
package metrics

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/Kush-Singh-26/folio/builder/models"
)

// SourceStats describes what one origin contributed to a feed build.
type SourceStats struct {
	Origin   models.Origin `json:"origin"`
	Records  int           `json:"records"`
	Posts    int           `json:"posts"`
	Dropped  int           `json:"dropped"`
	Duration time.Duration `json:"durationNs"`
	Skipped  bool          `json:"skipped,omitempty"`
	Error    string        `json:"error,omitempty"`
}

// Failed reports whether the origin was unavailable.
func (s SourceStats) Failed() bool { return s.Error != "" }

// FeedMetrics is safe for concurrent use by the source readers.
type FeedMetrics struct {
	mu sync.Mutex

	StartTime time.Time
	EndTime   time.Time
	Ranked    int

	sources map[models.Origin]*SourceStats
}

// NewFeedMetrics creates a new metrics instance.
func NewFeedMetrics() *FeedMetrics {
	return &FeedMetrics{
		StartTime: time.Now(),
		sources:   make(map[models.Origin]*SourceStats),
	}
}

func (m *FeedMetrics) source(origin models.Origin) *SourceStats {
	s, ok := m.sources[origin]
	if !ok {
		s = &SourceStats{Origin: origin}
		m.sources[origin] = s
	}
	return s
}

// RecordSource stores the outcome of a successful read.
func (m *FeedMetrics) RecordSource(origin models.Origin, records, posts, dropped int, d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := m.source(origin)
	s.Records = records
	s.Posts = posts
	s.Dropped = dropped
	s.Duration = d
}

// RecordFailure stores a swallowed source error.
func (m *FeedMetrics) RecordFailure(origin models.Origin, d time.Duration, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := m.source(origin)
	s.Duration = d
	if err != nil {
		s.Error = err.Error()
	}
}

// RecordSkipped marks an origin that was not configured.
func (m *FeedMetrics) RecordSkipped(origin models.Origin) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.source(origin).Skipped = true
}

// RecordEnd marks the end of the build.
func (m *FeedMetrics) RecordEnd(ranked int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.EndTime = time.Now()
	m.Ranked = ranked
}

// TotalDuration returns the total build duration.
func (m *FeedMetrics) TotalDuration() time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.EndTime.IsZero() {
		return time.Since(m.StartTime)
	}
	return m.EndTime.Sub(m.StartTime)
}

// Source returns a copy of the stats for origin.
func (m *FeedMetrics) Source(origin models.Origin) (SourceStats, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sources[origin]
	if !ok {
		return SourceStats{Origin: origin}, false
	}
	return *s, true
}

// Sources returns a copy of every recorded origin, ordered by origin name.
func (m *FeedMetrics) Sources() []SourceStats {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]SourceStats, 0, len(m.sources))
	for _, s := range m.sources {
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Origin < out[j].Origin })
	return out
}

// Failures returns the number of origins that were unavailable.
func (m *FeedMetrics) Failures() int {
	n := 0
	for _, s := range m.Sources() {
		if s.Failed() {
			n++
		}
	}
	return n
}

// String returns a single-line summary.
func (m *FeedMetrics) String() string {
	parts := make([]string, 0, 3)
	for _, s := range m.Sources() {
		switch {
		case s.Skipped:
			parts = append(parts, fmt.Sprintf("%s: skipped", s.Origin))
		case s.Failed():
			parts = append(parts, fmt.Sprintf("%s: failed", s.Origin))
		default:
			parts = append(parts, fmt.Sprintf("%s: %d", s.Origin, s.Posts))
		}
	}
	m.mu.Lock()
	ranked := m.Ranked
	m.mu.Unlock()
	return fmt.Sprintf("Ranked %d posts in %v (%s)", ranked, m.TotalDuration().Round(time.Microsecond), strings.Join(parts, ", "))
}
