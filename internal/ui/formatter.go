package ui

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/fatih/color"

	"fte/internal/config"
	"fte/internal/domain"
)

var (
	cyan   = color.New(color.FgCyan)
	green  = color.New(color.FgGreen)
	red    = color.New(color.FgRed)
	yellow = color.New(color.FgYellow)
	gray   = color.New(color.FgHiBlack)
)

// Formatter formats and displays output
type Formatter struct {
	config *config.Config
	out    io.Writer
}

// NewFormatter creates a new Formatter writing to out
func NewFormatter(cfg *config.Config, out io.Writer) *Formatter {
	return &Formatter{
		config: cfg,
		out:    out,
	}
}

// StatusGlyph returns the marker shown next to a test with the given status
func StatusGlyph(status domain.RunStatus) string {
	switch status {
	case domain.StatusStarted:
		return "…"
	case domain.StatusPassed:
		return "✓"
	case domain.StatusFailed:
		return "✗"
	case domain.StatusNotFound:
		return "?"
	}
	return "·"
}

func statusColor(status domain.RunStatus) *color.Color {
	switch status {
	case domain.StatusPassed:
		return green
	case domain.StatusFailed:
		return red
	case domain.StatusNotFound, domain.StatusStarted:
		return yellow
	}
	return gray
}

// relPath returns the path of file relative to its workspace root for cleaner display
func (f *Formatter) relPath(file *domain.TestFile) string {
	root := file.Root
	if root == "" {
		root = f.config.ProjectPath
	}
	if rel, err := filepath.Rel(root, file.Path); err == nil && !strings.HasPrefix(rel, "..") {
		return rel
	}
	return file.Path
}

// PrintTestList prints the discovered test files, optionally with their test functions.
// statuses is optional; when set, tests and files are marked with their last status.
func (f *Formatter) PrintTestList(files []*domain.TestFile, showTestCases bool, statuses map[domain.TestRef]domain.RunStatus) {
	total := 0
	for _, file := range files {
		total += len(file.Functions)
	}

	if showTestCases {
		green.Fprintf(f.out, "Found %d test(s) in %d file(s):\n\n", total, len(files))
	} else {
		green.Fprintf(f.out, "Found %d test file(s):\n\n", len(files))
	}

	for i, file := range files {
		isLastFile := i == len(files)-1

		connector := "├── "
		childPrefix := "│   "
		if isLastFile {
			connector = "└── "
			childPrefix = "    "
		}

		marker := ""
		if len(statuses) > 0 {
			status := fileStatus(file, statuses)
			marker = " " + statusColor(status).Sprint(StatusGlyph(status))
		}

		fmt.Fprintf(f.out, "%s%s%s %s\n", connector, cyan.Sprint(f.relPath(file)), marker,
			gray.Sprintf("(%d)", len(file.Functions)))

		if !showTestCases {
			continue
		}

		if len(file.Functions) == 0 {
			fmt.Fprintf(f.out, "%s└── %s\n", childPrefix, red.Sprint("(no test functions found)"))
			continue
		}

		for j, fn := range file.Functions {
			branch := "├── "
			if j == len(file.Functions)-1 {
				branch = "└── "
			}

			marker := ""
			if status, ok := statuses[fn.Ref()]; ok {
				marker = statusColor(status).Sprint(StatusGlyph(status)) + " "
			}

			fmt.Fprintf(f.out, "%s%s%s%s %s\n", childPrefix, branch, marker,
				yellow.Sprint(fn.Name), gray.Sprintf("L%s", fn.Position))
		}
	}
}

// fileStatus aggregates the statuses of a file's functions
func fileStatus(file *domain.TestFile, statuses map[domain.TestRef]domain.RunStatus) domain.RunStatus {
	children := make([]domain.RunStatus, 0, len(file.Functions))
	for _, fn := range file.Functions {
		children = append(children, statuses[fn.Ref()])
	}
	return domain.AggregateStatus(children)
}

// PrintSummary prints the statistics of a finished run followed by its failures
func (f *Formatter) PrintSummary(summary domain.RunSummary) {
	fmt.Fprintln(f.out)
	cyan.Fprintln(f.out, "╔═══════════════════════════════════════════════════════════════╗")
	cyan.Fprintln(f.out, "║                    Test Execution Statistics                  ║")
	cyan.Fprintln(f.out, "╚═══════════════════════════════════════════════════════════════╝")

	rows := []struct {
		label string
		value string
		c     *color.Color
	}{
		{"Selected Tests", fmt.Sprint(summary.Selected), color.New(color.FgWhite)},
		{"Passed", fmt.Sprint(summary.Passed()), green},
		{"Failed", fmt.Sprint(summary.Failed()), red},
		{"Not Found", fmt.Sprint(summary.NotFound()), yellow},
		{"Not Run", fmt.Sprint(summary.Pending()), gray},
		{"Duration", fmt.Sprintf("%.2fs", summary.Duration.Seconds()), color.New(color.FgWhite)},
		{"Run ID", summary.ID, color.New(color.FgWhite)},
	}

	fmt.Fprintln(f.out, "┌─────────────────────────────────┬─────────────────────────────┐")
	for i, row := range rows {
		fmt.Fprintf(f.out, "│ %-31s │ %s │\n", row.label, row.c.Sprintf("%-27s", row.value))
		if i < len(rows)-1 {
			fmt.Fprintln(f.out, "├─────────────────────────────────┼─────────────────────────────┤")
		}
	}
	fmt.Fprintln(f.out, "└─────────────────────────────────┴─────────────────────────────┘")

	fmt.Fprintln(f.out)
	switch {
	case summary.Cancelled:
		yellow.Fprintf(f.out, "! Run cancelled, %d test(s) not run\n", summary.Pending())
	case summary.OK():
		green.Fprintln(f.out, "✓ All tests passed!")
	default:
		red.Fprintf(f.out, "✗ %d test(s) did not pass\n", summary.Failed()+summary.NotFound())
	}

	f.printFailures(summary.Results)
}

// printFailures prints each non-passing result with its message
func (f *Formatter) printFailures(results []domain.RunResult) {
	for _, r := range results {
		if r.Status == domain.StatusPassed {
			continue
		}
		fmt.Fprintf(f.out, "\n%s %s\n", statusColor(r.Status).Sprint(StatusGlyph(r.Status)), yellow.Sprint(r.Test.String()))
		for _, line := range strings.Split(strings.TrimRight(r.Message, "\n"), "\n") {
			fmt.Fprintf(f.out, "    %s\n", line)
		}
	}
}
