package parser

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/acarl005/stripansi"

	"fte/internal/domain"
)

// CrashMessage prefixes the message of a failed invocation whose output
// carries no bracketed reason.
const CrashMessage = "execution crashed"

var suiteResultPattern = regexp.MustCompile(`Suite result:\s*\w+\.\s*(\d+)\s+passed;\s*(\d+)\s+failed;\s*(\d+)\s+skipped`)

// ForgeParser parses `forge test` output
type ForgeParser struct{}

// NewForgeParser creates a new ForgeParser
func NewForgeParser() *ForgeParser {
	return &ForgeParser{}
}

// Classify maps one runner outcome to a terminal status and message:
//   - clean exit, empty stderr: passed
//   - clean exit, stderr text: failed with the raw stderr
//   - failed invocation: failed with the bracketed reason from stdout
func (p *ForgeParser) Classify(outcome Outcome) (domain.RunStatus, string) {
	if outcome.Err == nil {
		if outcome.Stderr != "" {
			return domain.StatusFailed, outcome.Stderr
		}
		return domain.StatusPassed, ""
	}

	if reason, ok := p.ExtractReason(outcome.Stdout); ok {
		return domain.StatusFailed, reason
	}

	return domain.StatusFailed, fmt.Sprintf("%s: %v", CrashMessage, outcome.Err)
}

// ExtractReason returns the text between the first '[' in stdout and the
// first ']' after it, e.g. "FAIL: assertion failed" from
// "[FAIL: assertion failed] test_foo() (gas: 1234)". ANSI colors are removed first.
func (p *ForgeParser) ExtractReason(stdout string) (string, bool) {
	clean := stripansi.Strip(stdout)

	start := strings.Index(clean, "[")
	if start < 0 {
		return "", false
	}

	end := strings.Index(clean[start+1:], "]")
	if end < 0 {
		return "", false
	}

	return clean[start+1 : start+1+end], true
}

// SuiteCounts are the totals forge prints after each suite
type SuiteCounts struct {
	Passed  int
	Failed  int
	Skipped int
}

// ParseSuiteCounts sums every "Suite result" line in stdout.
// It returns false when forge printed no suite summary at all.
func (p *ForgeParser) ParseSuiteCounts(stdout string) (SuiteCounts, bool) {
	var counts SuiteCounts

	matches := suiteResultPattern.FindAllStringSubmatch(stripansi.Strip(stdout), -1)
	for _, match := range matches {
		var passed, failed, skipped int
		fmt.Sscanf(match[1], "%d", &passed)
		fmt.Sscanf(match[2], "%d", &failed)
		fmt.Sscanf(match[3], "%d", &skipped)
		counts.Passed += passed
		counts.Failed += failed
		counts.Skipped += skipped
	}

	return counts, len(matches) > 0
}
