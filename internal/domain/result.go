package domain

import "time"

// RunStatus is the state of a single test function within one run
type RunStatus int

const (
	// StatusPending means the test was selected but never started.
	StatusPending RunStatus = iota
	// StatusStarted means the external runner is executing the test.
	StatusStarted
	// StatusPassed means the runner exited cleanly with empty stderr.
	StatusPassed
	// StatusFailed means the runner reported a failure or crashed.
	StatusFailed
	// StatusNotFound means the selected node could not be resolved to a file and name.
	StatusNotFound
)

var statusNames = map[RunStatus]string{
	StatusPending:  "pending",
	StatusStarted:  "started",
	StatusPassed:   "passed",
	StatusFailed:   "failed",
	StatusNotFound: "not_found",
}

func (s RunStatus) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return "unknown"
}

// IsTerminal reports whether no further transition can happen within the run.
func (s RunStatus) IsTerminal() bool {
	return s == StatusPassed || s == StatusFailed || s == StatusNotFound
}

// MarshalText lets the status appear by name in the results file
func (s RunStatus) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText is the inverse of MarshalText
func (s *RunStatus) UnmarshalText(text []byte) error {
	for status, name := range statusNames {
		if name == string(text) {
			*s = status
			return nil
		}
	}
	*s = StatusPending
	return nil
}

// RunResult is a status report for exactly one test function during one run
type RunResult struct {
	Test     TestRef       `json:"test"`
	Status   RunStatus     `json:"status"`
	Message  string        `json:"message,omitempty"`
	Duration time.Duration `json:"duration"`
	Stdout   string        `json:"-"`
	Stderr   string        `json:"-"`
}

// Run describes a run session as it is opened
type Run struct {
	ID        string
	StartedAt time.Time
	Tests     []TestRef
}

// RunSummary is the outcome of one run session
type RunSummary struct {
	ID        string
	StartedAt time.Time
	Duration  time.Duration
	Selected  int
	Results   []RunResult // Terminal results only, in selection order
	Cancelled bool
}

// Passed returns the number of passed tests
func (s RunSummary) Passed() int { return s.count(StatusPassed) }

// Failed returns the number of failed tests
func (s RunSummary) Failed() int { return s.count(StatusFailed) }

// NotFound returns the number of tests that could not be resolved
func (s RunSummary) NotFound() int { return s.count(StatusNotFound) }

// Pending returns the number of selected tests that never started
func (s RunSummary) Pending() int { return s.Selected - len(s.Results) }

// OK reports whether every selected test ran and passed
func (s RunSummary) OK() bool {
	return !s.Cancelled && s.Passed() == s.Selected
}

func (s RunSummary) count(status RunStatus) int {
	n := 0
	for _, r := range s.Results {
		if r.Status == status {
			n++
		}
	}
	return n
}

// statusWeight orders statuses for aggregation; higher wins.
var statusWeight = map[RunStatus]int{
	StatusPending:  0,
	StatusPassed:   1,
	StatusStarted:  2,
	StatusNotFound: 3,
	StatusFailed:   4,
}

// AggregateStatus derives a file-level status from its children.
// A file is passed only when every child passed; otherwise the most severe
// child status wins (failed > not found > started). No children means pending.
func AggregateStatus(children []RunStatus) RunStatus {
	if len(children) == 0 {
		return StatusPending
	}

	worst := StatusPending
	allPassed := true
	for _, status := range children {
		if status != StatusPassed {
			allPassed = false
		}
		if statusWeight[status] > statusWeight[worst] {
			worst = status
		}
	}

	if allPassed {
		return StatusPassed
	}
	if worst == StatusPassed {
		// mix of passed and pending
		return StatusPending
	}
	return worst
}
