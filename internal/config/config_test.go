package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	dir := t.TempDir()

	cfg, err := Load(viper.New(), dir)
	require.NoError(t, err)

	assert.Equal(t, dir, cfg.ProjectPath)
	assert.Equal(t, []string{dir}, cfg.WorkspaceRoots)
	assert.Equal(t, dir, cfg.PrimaryRoot())
	assert.Equal(t, DefaultForgeBinary, cfg.ForgeBinary)
	assert.Equal(t, DefaultScanConcurrency, cfg.ScanConcurrency)
	assert.Equal(t, DefaultPathsToIgnore, cfg.PathsToIgnore)
	assert.Empty(t, cfg.MetricsAddr)
	assert.Equal(t, DefaultLogLevel, cfg.Log.Level)
	assert.Equal(t, filepath.Join(dir, ".fte", "test-results.json"), cfg.GetOutputPath())
	assert.Equal(t, filepath.Join(dir, ".fte", "fte.log"), cfg.GetLogPath())
	assert.Equal(t, filepath.Join(dir, ConfigFileName), cfg.GetConfigPath())
}

func TestLoad_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	content := `workspace:
  roots:
    - .
    - packages/core
    - /abs/other
forge:
  binary: /opt/foundry/bin/forge
scan:
  concurrency: 2
output:
  dir: results
watch:
  ignore:
    - lib
log:
  level: debug
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, ConfigFileName), []byte(content), 0o644))

	cfg, err := Load(viper.New(), dir)
	require.NoError(t, err)

	assert.Equal(t, []string{dir, filepath.Join(dir, "packages/core"), "/abs/other"}, cfg.WorkspaceRoots)
	assert.Equal(t, "/opt/foundry/bin/forge", cfg.ForgeBinary)
	assert.Equal(t, 2, cfg.ScanConcurrency)
	assert.Equal(t, []string{"lib"}, cfg.PathsToIgnore)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, filepath.Join(dir, "results", DefaultOutputJSONFile), cfg.GetOutputPath())
}

func TestLoad_DuplicateRoots(t *testing.T) {
	dir := t.TempDir()
	content := "workspace:\n  roots:\n    - .\n    - ./\n    - " + dir + "\n    - sub\n    - sub/\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, ConfigFileName), []byte(content), 0o644))

	cfg, err := Load(viper.New(), dir)
	require.NoError(t, err)

	assert.Equal(t, []string{dir, filepath.Join(dir, "sub")}, cfg.WorkspaceRoots)
}

func TestLoad_Environment(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ConfigFileName), []byte("forge:\n  binary: from-file\n"), 0o644))
	t.Setenv("FTE_FORGE_BINARY", "from-env")

	cfg, err := Load(viper.New(), dir)
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.ForgeBinary)
}

func TestLoad_DotEnv(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, EnvFileName), []byte("FTE_METRICS_ADDR=127.0.0.1:9400\n"), 0o644))
	t.Cleanup(func() { _ = os.Unsetenv("FTE_METRICS_ADDR") })

	cfg, err := Load(viper.New(), dir)
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:9400", cfg.MetricsAddr)
}

func TestLoad_InvalidConfigFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ConfigFileName), []byte("forge: [unclosed\n"), 0o644))

	_, err := Load(viper.New(), dir)
	assert.Error(t, err)
}

func TestConfig_PrimaryRoot(t *testing.T) {
	tests := []struct {
		name     string
		config   *Config
		expected string
	}{
		{
			name:     "first workspace root",
			config:   &Config{ProjectPath: "/project", WorkspaceRoots: []string{"/a", "/b"}},
			expected: "/a",
		},
		{
			name:     "falls back to project path",
			config:   &Config{ProjectPath: "/project"},
			expected: "/project",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.config.PrimaryRoot())
		})
	}
}

func TestConfig_GetLogPath(t *testing.T) {
	cfg := &Config{ProjectPath: "/project", Log: LogConfig{Filename: "/var/log/fte.log"}}
	assert.Equal(t, "/var/log/fte.log", cfg.GetLogPath())

	cfg.Log.Filename = ""
	assert.Equal(t, filepath.Join("/project", DefaultLogFilename), cfg.GetLogPath())
}

func TestNew(t *testing.T) {
	cfg := New()
	cfg.PathsToIgnore[0] = "changed"
	assert.Equal(t, "node_modules", DefaultPathsToIgnore[0])
}
