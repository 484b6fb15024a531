package ui

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/schollz/progressbar/v3"

	"fte/internal/domain"
	"fte/internal/execution"
)

// ProgressBar creates and manages progress bars
type ProgressBar struct {
	bar *progressbar.ProgressBar
}

// NewProgressBar creates a new progress bar writing to w
func NewProgressBar(count int, w io.Writer) *ProgressBar {
	bar := progressbar.NewOptions(count,
		progressbar.OptionSetDescription(describe(0, 0)),
		progressbar.OptionSetWidth(50),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        color.CyanString("█"),
			SaucerHead:    color.CyanString("█"),
			SaucerPadding: "░",
			BarStart:      "│",
			BarEnd:        "│",
		}),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetWriter(w),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprint(w, "\n")
		}),
		progressbar.OptionSetRenderBlankState(true),
	)

	return &ProgressBar{bar: bar}
}

// Update updates the progress bar with success and failure counts
func (p *ProgressBar) Update(successCount, failCount int) {
	_ = p.bar.Set(successCount + failCount)
	p.bar.Describe(describe(successCount, failCount))
}

// Finish completes the progress bar
func (p *ProgressBar) Finish() {
	_ = p.bar.Finish()
}

func describe(successCount, failCount int) string {
	return color.CyanString("Running tests: ") +
		color.GreenString("[passed: %d", successCount) +
		" | " +
		color.RedString("failed: %d]", failCount)
}

// ProgressRecorder shows a progress bar for every run session
type ProgressRecorder struct {
	writer io.Writer
}

// NewProgressRecorder creates a ProgressRecorder writing to stderr
func NewProgressRecorder() *ProgressRecorder {
	return &ProgressRecorder{writer: os.Stderr}
}

// Begin implements execution.Recorder
func (r *ProgressRecorder) Begin(run domain.Run) execution.Session {
	return &progressSession{
		bar:    NewProgressBar(len(run.Tests), r.writer),
		writer: r.writer,
	}
}

type progressSession struct {
	bar    *ProgressBar
	writer io.Writer
	passed int
	failed int
}

func (s *progressSession) Record(result domain.RunResult) {
	switch result.Status {
	case domain.StatusPassed:
		s.passed++
	case domain.StatusFailed, domain.StatusNotFound:
		s.failed++
	default:
		return
	}
	s.bar.Update(s.passed, s.failed)
}

func (s *progressSession) End(summary domain.RunSummary) {
	if summary.Cancelled {
		// leave the bar where it stopped
		fmt.Fprintln(s.writer)
		return
	}
	s.bar.Finish()
}
