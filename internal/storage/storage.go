package storage

import (
	"fte/internal/config"
	"fte/internal/domain"
)

// Storage persists and loads test run results (e.g. for the failures viewer).
type Storage interface {
	Save(summary domain.RunSummary) error
	Load() (*domain.TestResultsOutput, error)
	// SaveOutput writes the full output (e.g. after the viewer marks failures resolved).
	SaveOutput(output *domain.TestResultsOutput) error
	// FailedTests returns the tests that did not pass in the last saved run.
	FailedTests() ([]domain.TestRef, error)
	// LastStatuses returns the status of every test reported in the last saved run.
	LastStatuses() (map[domain.TestRef]domain.RunStatus, error)
}

// JSONStorage stores results in a JSON file under the configured output path.
type JSONStorage struct {
	cfg *config.Config
}

// NewJSONStorage returns a Storage that reads/writes the config's output JSON path.
func NewJSONStorage(cfg *config.Config) *JSONStorage {
	return &JSONStorage{cfg: cfg}
}
