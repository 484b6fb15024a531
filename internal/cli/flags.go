package cli

import (
	"github.com/spf13/pflag"

	"fte/internal/config"
)

// Flags holds command-line flags
type Flags struct {
	FileFilter string
	TestFilter string
	TestCases  bool
	OnlyFailed bool
	Verbose    bool
	Force      bool
}

// ToConfigFlags converts CLI flags to config flags
func (f *Flags) ToConfigFlags() config.Flags {
	return config.Flags{
		FileFilter: f.FileFilter,
		TestFilter: f.TestFilter,
		TestCases:  f.TestCases,
		OnlyFailed: f.OnlyFailed,
		Verbose:    f.Verbose,
	}
}

// AddPersistentFlags registers the flags every command accepts
func (f *Flags) AddPersistentFlags(fs *pflag.FlagSet) {
	fs.BoolVarP(&f.Verbose, "verbose", "v", false, "Log at debug level")
}

// AddFilterFlags registers the file and test name filters
func (f *Flags) AddFilterFlags(fs *pflag.FlagSet) {
	fs.StringVarP(&f.FileFilter, "filter", "f", "", "Filter test files by name pattern (supports wildcards, e.g., '*Token*.t.sol')")
	fs.StringVarP(&f.TestFilter, "match", "m", "", "Filter test functions by name pattern (supports wildcards, e.g., 'test_transfer*')")
}
