package domain

// TestFailure represents a failed or unresolved test function from a run
type TestFailure struct {
	TestName string    `json:"test_name"`
	FilePath string    `json:"file_path"`
	Status   RunStatus `json:"status"`
	Message  string    `json:"message"`
	Stdout   string    `json:"stdout,omitempty"`
	Stderr   string    `json:"stderr,omitempty"`
	Resolved bool      `json:"resolved,omitempty"` // Track if the failure was marked as resolved in the viewer
}

// TestResultsMeta contains metadata about a test run
type TestResultsMeta struct {
	RunID           string  `json:"run_id"`
	SelectedTests   int     `json:"selected_tests"`
	PassedTests     int     `json:"passed_tests"`
	FailedTests     int     `json:"failed_tests"`
	NotFoundTests   int     `json:"not_found_tests"`
	PendingTests    int     `json:"pending_tests"`
	Cancelled       bool    `json:"cancelled"`
	Duration        string  `json:"duration"`
	DurationSeconds float64 `json:"duration_seconds"`
	Timestamp       string  `json:"timestamp"`
}

// TestResultsOutput is the complete output structure for test results
type TestResultsOutput struct {
	Meta    TestResultsMeta `json:"meta"`
	Results []RunResult     `json:"results"`
	Details []TestFailure   `json:"details"`
}
