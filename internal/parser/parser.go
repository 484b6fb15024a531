package parser

import "fte/internal/domain"

// Parser turns raw runner output into a test status
type Parser interface {
	Classify(outcome Outcome) (domain.RunStatus, string)
}

// Outcome is what the external runner produced for one test
type Outcome struct {
	Stdout string
	Stderr string
	Err    error // Non-nil when the invocation itself failed (e.g. non-zero exit)
}
