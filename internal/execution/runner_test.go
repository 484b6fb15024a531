package execution

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fte/internal/config"
)

const fakeForge = `#!/bin/sh
echo "args: $*"
echo "dir: $(pwd)"
case "$3" in
  test_fail)
    echo "[FAIL: boom] $3() (gas: 1)"
    exit 1
    ;;
  test_stderr)
    echo "warning" 1>&2
    ;;
esac
`

func newFakeForge(t *testing.T) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("fake forge is a shell script")
	}
	path := filepath.Join(t.TempDir(), "forge")
	require.NoError(t, os.WriteFile(path, []byte(fakeForge), 0o755))
	return path
}

func TestForgeRunner_Command(t *testing.T) {
	cfg := config.New()
	assert.Equal(t, []string{"forge", "test", "--match-test", "test_foo"}, NewForgeRunner(cfg).Command("test_foo"))

	cfg.ForgeBinary = "/opt/foundry/bin/forge"
	assert.Equal(t, "/opt/foundry/bin/forge", NewForgeRunner(cfg).Command("test_foo")[0])

	cfg.ForgeBinary = ""
	assert.Equal(t, config.DefaultForgeBinary, NewForgeRunner(cfg).Command("test_foo")[0])
}

func TestForgeRunner_RunTest(t *testing.T) {
	cfg := config.New()
	cfg.ForgeBinary = newFakeForge(t)
	runner := NewForgeRunner(cfg)
	workDir := t.TempDir()

	t.Run("passes arguments and working directory", func(t *testing.T) {
		outcome := runner.RunTest(context.Background(), workDir, "test_ok")
		require.NoError(t, outcome.Err)
		assert.Contains(t, outcome.Stdout, "args: test --match-test test_ok")

		resolved, err := filepath.EvalSymlinks(workDir)
		require.NoError(t, err)
		assert.True(t, strings.Contains(outcome.Stdout, "dir: "+workDir) || strings.Contains(outcome.Stdout, "dir: "+resolved), outcome.Stdout)
		assert.Empty(t, outcome.Stderr)
	})

	t.Run("captures stderr separately", func(t *testing.T) {
		outcome := runner.RunTest(context.Background(), workDir, "test_stderr")
		require.NoError(t, outcome.Err)
		assert.Equal(t, "warning\n", outcome.Stderr)
		assert.NotContains(t, outcome.Stdout, "warning")
	})

	t.Run("non-zero exit is reported as error", func(t *testing.T) {
		outcome := runner.RunTest(context.Background(), workDir, "test_fail")
		require.Error(t, outcome.Err)
		assert.Contains(t, outcome.Stdout, "[FAIL: boom]")
	})

	t.Run("cancelled context does not stop the test", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		outcome := runner.RunTest(ctx, workDir, "test_ok")
		require.NoError(t, outcome.Err)
		assert.Contains(t, outcome.Stdout, "test_ok")
	})

	t.Run("missing binary is reported as error", func(t *testing.T) {
		cfg := config.New()
		cfg.ForgeBinary = filepath.Join(t.TempDir(), "no-such-forge")
		outcome := NewForgeRunner(cfg).RunTest(context.Background(), workDir, "test_ok")
		assert.Error(t, outcome.Err)
	})
}
