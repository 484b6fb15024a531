package config

const (
	// DefaultWorkspacePath is the default workspace root
	DefaultWorkspacePath = "."
	// DefaultForgeBinary is the external test runner
	DefaultForgeBinary = "forge"
	// DefaultOutputJSONFile is the default output JSON file name
	DefaultOutputJSONFile = "test-results.json"
	// DefaultOutputJSONDir is the default output directory
	DefaultOutputJSONDir = ".fte"
	// DefaultScanConcurrency bounds how many test files are read at once
	DefaultScanConcurrency = 8

	// DefaultLogFilename is where logs go when nothing else is configured
	DefaultLogFilename   = ".fte/fte.log"
	DefaultLogLevel      = "info"
	DefaultLogMaxSize    = 10
	DefaultLogMaxBackups = 3
	DefaultLogMaxAge     = 28
	DefaultLogCompress   = true

	// ConfigBaseName is the config file name without extension
	ConfigBaseName = "fte"
	// ConfigFileName is looked up in the workspace root
	ConfigFileName = ConfigBaseName + ".yaml"
	// EnvFileName is loaded from the workspace root before the environment is read
	EnvFileName = ".env"
	// EnvPrefix prefixes every environment override, e.g. FTE_FORGE_BINARY
	EnvPrefix = "FTE"
)

// Config keys
const (
	KeyWorkspaceRoots  = "workspace.roots"
	KeyForgeBinary     = "forge.binary"
	KeyScanConcurrency = "scan.concurrency"
	KeyOutputDir       = "output.dir"
	KeyOutputFile      = "output.file"
	KeyWatchIgnore     = "watch.ignore"
	KeyMetricsAddr     = "metrics.addr"
	KeyLogFilename     = "log.filename"
	KeyLogLevel        = "log.level"
	KeyLogMaxSize      = "log.max_size"
	KeyLogMaxBackups   = "log.max_backups"
	KeyLogMaxAge       = "log.max_age"
	KeyLogCompress     = "log.compress"
)

// DefaultPathsToIgnore are directories never scanned or watched.
// Hidden directories are always skipped.
var DefaultPathsToIgnore = []string{
	"node_modules",
	"lib",
	"out",
	"cache",
	"broadcast",
}

// Defaults returns every default value keyed by its config key
func Defaults() map[string]any {
	return map[string]any{
		KeyWorkspaceRoots:  []string{DefaultWorkspacePath},
		KeyForgeBinary:     DefaultForgeBinary,
		KeyScanConcurrency: DefaultScanConcurrency,
		KeyOutputDir:       DefaultOutputJSONDir,
		KeyOutputFile:      DefaultOutputJSONFile,
		KeyWatchIgnore:     append([]string{}, DefaultPathsToIgnore...),
		KeyMetricsAddr:     "",
		KeyLogFilename:     DefaultLogFilename,
		KeyLogLevel:        DefaultLogLevel,
		KeyLogMaxSize:      DefaultLogMaxSize,
		KeyLogMaxBackups:   DefaultLogMaxBackups,
		KeyLogMaxAge:       DefaultLogMaxAge,
		KeyLogCompress:     DefaultLogCompress,
	}
}
