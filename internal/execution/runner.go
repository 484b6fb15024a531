package execution

import (
	"bytes"
	"context"
	"os"
	"os/exec"

	"fte/internal/config"
	"fte/internal/parser"
)

// TestRunner runs a single test by name through the external runner
type TestRunner interface {
	RunTest(ctx context.Context, workDir, testName string) parser.Outcome
}

// ForgeRunner executes `forge test --match-test <name>`
type ForgeRunner struct {
	binary string
}

// NewForgeRunner creates a new ForgeRunner
func NewForgeRunner(cfg *config.Config) *ForgeRunner {
	binary := cfg.ForgeBinary
	if binary == "" {
		binary = config.DefaultForgeBinary
	}
	return &ForgeRunner{binary: binary}
}

// Command returns the argv used for testName
func (r *ForgeRunner) Command(testName string) []string {
	return []string{r.binary, "test", "--match-test", testName}
}

// RunTest executes forge for a single test in workDir. The process is not
// tied to ctx cancellation and has no timeout: a cancelled run still lets
// the current test finish.
func (r *ForgeRunner) RunTest(ctx context.Context, workDir, testName string) parser.Outcome {
	argv := r.Command(testName)

	// #nosec G204 - binary comes from configuration, test name from the scanner pattern
	cmd := exec.CommandContext(context.WithoutCancel(ctx), argv[0], argv[1:]...)
	cmd.Env = os.Environ()
	cmd.Dir = workDir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()

	return parser.Outcome{
		Stdout: stdout.String(),
		Stderr: stderr.String(),
		Err:    err,
	}
}
