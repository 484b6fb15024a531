package config

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	// Workspace settings
	ProjectPath    string   // Directory fte was started for; holds fte.yaml and .env
	WorkspaceRoots []string // Absolute roots scanned for test/**/*.t.sol

	// Runner settings
	ForgeBinary string

	// Output settings
	OutputJSONFile string
	OutputJSONDir  string

	// Discovery settings
	ScanConcurrency int
	PathsToIgnore   []string

	// MetricsAddr enables the prometheus endpoint when not empty
	MetricsAddr string

	Log LogConfig

	// Command flags
	Flags Flags
}

// LogConfig configures the rotating log file
type LogConfig struct {
	Filename   string
	Level      string
	Verbose    bool
	MaxSize    int
	MaxBackups int
	MaxAge     int
	Compress   bool
}

// Flags holds command-line flags
type Flags struct {
	FileFilter string
	TestFilter string
	TestCases  bool
	OnlyFailed bool
	Verbose    bool
}

// New creates a new Config with defaults rooted at the current directory
func New() *Config {
	cfg := &Config{
		ProjectPath:     DefaultWorkspacePath,
		WorkspaceRoots:  []string{DefaultWorkspacePath},
		ForgeBinary:     DefaultForgeBinary,
		OutputJSONFile:  DefaultOutputJSONFile,
		OutputJSONDir:   DefaultOutputJSONDir,
		ScanConcurrency: DefaultScanConcurrency,
		Log: LogConfig{
			Filename:   DefaultLogFilename,
			Level:      DefaultLogLevel,
			MaxSize:    DefaultLogMaxSize,
			MaxBackups: DefaultLogMaxBackups,
			MaxAge:     DefaultLogMaxAge,
			Compress:   DefaultLogCompress,
		},
	}
	// Copy default paths to ignore
	cfg.PathsToIgnore = make([]string, len(DefaultPathsToIgnore))
	copy(cfg.PathsToIgnore, DefaultPathsToIgnore)
	return cfg
}

// SetDefaults registers every default on v
func SetDefaults(v *viper.Viper) {
	for key, value := range Defaults() {
		v.SetDefault(key, value)
	}
}

// Load reads configuration for the workspace at projectPath.
// Sources, lowest precedence first: defaults, fte.yaml, .env, FTE_* environment.
func Load(v *viper.Viper, projectPath string) (*Config, error) {
	if projectPath == "" {
		projectPath = DefaultWorkspacePath
	}
	absProject, err := filepath.Abs(projectPath)
	if err != nil {
		return nil, fmt.Errorf("resolve project path: %w", err)
	}

	// .env might not exist, that's okay - use environment variables
	_ = godotenv.Load(filepath.Join(absProject, EnvFileName))

	SetDefaults(v)
	v.SetConfigType("yaml")
	v.SetConfigFile(filepath.Join(absProject, ConfigFileName))
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("read %s: %w", ConfigFileName, err)
		}
	}

	cfg := New()
	cfg.ProjectPath = absProject
	cfg.ForgeBinary = v.GetString(KeyForgeBinary)
	cfg.OutputJSONDir = v.GetString(KeyOutputDir)
	cfg.OutputJSONFile = v.GetString(KeyOutputFile)
	cfg.ScanConcurrency = v.GetInt(KeyScanConcurrency)
	cfg.PathsToIgnore = v.GetStringSlice(KeyWatchIgnore)
	cfg.MetricsAddr = v.GetString(KeyMetricsAddr)
	cfg.Log = LogConfig{
		Filename:   v.GetString(KeyLogFilename),
		Level:      v.GetString(KeyLogLevel),
		MaxSize:    v.GetInt(KeyLogMaxSize),
		MaxBackups: v.GetInt(KeyLogMaxBackups),
		MaxAge:     v.GetInt(KeyLogMaxAge),
		Compress:   v.GetBool(KeyLogCompress),
	}

	cfg.WorkspaceRoots = nil
	seen := make(map[string]bool)
	for _, root := range v.GetStringSlice(KeyWorkspaceRoots) {
		resolved := cfg.resolve(root)
		if seen[resolved] {
			continue
		}
		seen[resolved] = true
		cfg.WorkspaceRoots = append(cfg.WorkspaceRoots, resolved)
	}
	if len(cfg.WorkspaceRoots) == 0 {
		cfg.WorkspaceRoots = []string{absProject}
	}

	return cfg, nil
}

// resolve makes path absolute relative to the project path
func (c *Config) resolve(path string) string {
	if filepath.IsAbs(path) {
		return filepath.Clean(path)
	}
	return filepath.Join(c.ProjectPath, path)
}

// PrimaryRoot returns the first workspace root; it is the working directory
// for tests whose file carries no root of its own.
func (c *Config) PrimaryRoot() string {
	if len(c.WorkspaceRoots) > 0 {
		return c.WorkspaceRoots[0]
	}
	return c.ProjectPath
}

// GetOutputPath returns the full path to the output JSON file (under project so run and failures use the same file).
// Resolves to an absolute path so both always read/write the same file regardless of cwd.
func (c *Config) GetOutputPath() string {
	p := filepath.Join(c.ProjectPath, c.OutputJSONDir, c.OutputJSONFile)
	if abs, err := filepath.Abs(p); err == nil {
		return abs
	}
	return p
}

// GetLogPath returns the log file path resolved against the project path
func (c *Config) GetLogPath() string {
	if c.Log.Filename == "" {
		return c.resolve(DefaultLogFilename)
	}
	return c.resolve(c.Log.Filename)
}

// GetConfigPath returns where fte.yaml lives for this project
func (c *Config) GetConfigPath() string {
	return filepath.Join(c.ProjectPath, ConfigFileName)
}
