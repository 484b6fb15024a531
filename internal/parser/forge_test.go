package parser

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"fte/internal/domain"
)

func TestForgeParser_Classify(t *testing.T) {
	p := NewForgeParser()
	exitErr := errors.New("exit status 1")

	tests := []struct {
		name            string
		outcome         Outcome
		expectedStatus  domain.RunStatus
		expectedMessage string
	}{
		{
			name:           "clean exit without stderr passes",
			outcome:        Outcome{Stdout: "[PASS] test_foo() (gas: 1234)"},
			expectedStatus: domain.StatusPassed,
		},
		{
			name:            "clean exit with stderr fails with stderr",
			outcome:         Outcome{Stderr: "assertion failed"},
			expectedStatus:  domain.StatusFailed,
			expectedMessage: "assertion failed",
		},
		{
			name:            "failed invocation uses the bracketed reason",
			outcome:         Outcome{Stdout: "Ran 1 test [reason: overflow] more output", Err: exitErr},
			expectedStatus:  domain.StatusFailed,
			expectedMessage: "reason: overflow",
		},
		{
			name:            "failed invocation strips colors before extracting",
			outcome:         Outcome{Stdout: "\x1b[31m[FAIL: assertion failed]\x1b[0m test_foo() (gas: 99)", Err: exitErr},
			expectedStatus:  domain.StatusFailed,
			expectedMessage: "FAIL: assertion failed",
		},
		{
			name:            "failed invocation without brackets falls back",
			outcome:         Outcome{Stdout: "Compiler run failed", Err: exitErr},
			expectedStatus:  domain.StatusFailed,
			expectedMessage: "execution crashed: exit status 1",
		},
		{
			name:            "failed invocation with an unclosed bracket falls back",
			outcome:         Outcome{Stdout: "oops [ never closed", Err: exitErr},
			expectedStatus:  domain.StatusFailed,
			expectedMessage: "execution crashed: exit status 1",
		},
		{
			name:            "failed invocation with empty stdout falls back",
			outcome:         Outcome{Err: exitErr},
			expectedStatus:  domain.StatusFailed,
			expectedMessage: "execution crashed: exit status 1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, message := p.Classify(tt.outcome)
			assert.Equal(t, tt.expectedStatus, status)
			assert.Equal(t, tt.expectedMessage, message)
		})
	}
}

func TestForgeParser_ExtractReason(t *testing.T) {
	p := NewForgeParser()

	tests := []struct {
		name     string
		stdout   string
		expected string
		ok       bool
	}{
		{name: "first pair wins", stdout: "a [one] b [two]", expected: "one", ok: true},
		{name: "closing bracket before opening is ignored", stdout: "] x [inner]", expected: "inner", ok: true},
		{name: "empty brackets", stdout: "[]", expected: "", ok: true},
		{name: "multiline reason", stdout: "[FAIL: a\nb]", expected: "FAIL: a\nb", ok: true},
		{name: "no brackets", stdout: "nothing here", ok: false},
		{name: "no closing bracket", stdout: "[open", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reason, ok := p.ExtractReason(tt.stdout)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.expected, reason)
		})
	}
}

func TestForgeParser_ParseSuiteCounts(t *testing.T) {
	p := NewForgeParser()

	t.Run("sums every suite", func(t *testing.T) {
		stdout := "Ran 2 tests for test/A.t.sol:ATest\n" +
			"Suite result: ok. 2 passed; 0 failed; 0 skipped; finished in 1.2ms\n" +
			"Ran 1 test for test/B.t.sol:BTest\n" +
			"\x1b[32mSuite result: FAILED. 0 passed; 1 failed; 1 skipped; finished in 3ms\x1b[0m\n"

		counts, ok := p.ParseSuiteCounts(stdout)
		assert.True(t, ok)
		assert.Equal(t, SuiteCounts{Passed: 2, Failed: 1, Skipped: 1}, counts)
	})

	t.Run("no summary", func(t *testing.T) {
		counts, ok := p.ParseSuiteCounts("No tests match the provided pattern")
		assert.False(t, ok)
		assert.Equal(t, SuiteCounts{}, counts)
	})
}
