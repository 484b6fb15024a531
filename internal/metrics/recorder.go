package metrics

import (
	"fte/internal/domain"
	"fte/internal/execution"
)

// Recorder feeds run sessions into Metrics
type Recorder struct {
	metrics *Metrics
}

// NewRecorder creates a Recorder backed by m
func NewRecorder(m *Metrics) *Recorder {
	return &Recorder{metrics: m}
}

// Begin implements execution.Recorder
func (r *Recorder) Begin(_ domain.Run) execution.Session {
	return &session{metrics: r.metrics}
}

type session struct {
	metrics *Metrics
}

func (s *session) Record(result domain.RunResult) {
	s.metrics.RecordResult(result)
}

func (s *session) End(summary domain.RunSummary) {
	s.metrics.RecordRun(summary)
}
