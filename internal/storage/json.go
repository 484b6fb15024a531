package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"fte/internal/domain"
)

// BuildOutput converts a run summary into the results file layout.
func BuildOutput(summary domain.RunSummary) domain.TestResultsOutput {
	output := domain.TestResultsOutput{
		Meta: domain.TestResultsMeta{
			RunID:           summary.ID,
			SelectedTests:   summary.Selected,
			PassedTests:     summary.Passed(),
			FailedTests:     summary.Failed(),
			NotFoundTests:   summary.NotFound(),
			PendingTests:    summary.Pending(),
			Cancelled:       summary.Cancelled,
			Duration:        summary.Duration.String(),
			DurationSeconds: summary.Duration.Seconds(),
			Timestamp:       summary.StartedAt.Format(time.RFC3339),
		},
		Results: summary.Results,
		Details: []domain.TestFailure{},
	}

	for _, r := range summary.Results {
		if r.Status == domain.StatusPassed {
			continue
		}
		output.Details = append(output.Details, domain.TestFailure{
			TestName: r.Test.Name,
			FilePath: r.Test.Path,
			Status:   r.Status,
			Message:  r.Message,
			Stdout:   r.Stdout,
			Stderr:   r.Stderr,
		})
	}

	return output
}

// Save writes a run summary to the configured JSON output file.
func (s *JSONStorage) Save(summary domain.RunSummary) error {
	output := BuildOutput(summary)
	return s.SaveOutput(&output)
}

// Load reads the last test results from the configured JSON output file.
func (s *JSONStorage) Load() (*domain.TestResultsOutput, error) {
	path := s.cfg.GetOutputPath()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read results file: %w", err)
	}
	var output domain.TestResultsOutput
	if err := json.Unmarshal(data, &output); err != nil {
		return nil, fmt.Errorf("parse results: %w", err)
	}
	return &output, nil
}

// SaveOutput writes the full output to the configured JSON file.
func (s *JSONStorage) SaveOutput(output *domain.TestResultsOutput) error {
	data, err := json.MarshalIndent(output, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal results: %w", err)
	}
	path := s.cfg.GetOutputPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write results: %w", err)
	}
	return nil
}

// FailedTests returns the unresolved failures of the last saved run.
func (s *JSONStorage) FailedTests() ([]domain.TestRef, error) {
	output, err := s.Load()
	if err != nil {
		return nil, err
	}

	refs := make([]domain.TestRef, 0, len(output.Details))
	for _, failure := range output.Details {
		if failure.Resolved {
			continue
		}
		refs = append(refs, domain.TestRef{Path: failure.FilePath, Name: failure.TestName})
	}
	return refs, nil
}

// LastStatuses returns the final status of every test in the last saved run.
// Tests that were selected but never ran are absent.
func (s *JSONStorage) LastStatuses() (map[domain.TestRef]domain.RunStatus, error) {
	output, err := s.Load()
	if err != nil {
		return nil, err
	}

	statuses := make(map[domain.TestRef]domain.RunStatus, len(output.Results))
	for _, r := range output.Results {
		statuses[r.Test] = r.Status
	}
	return statuses, nil
}
