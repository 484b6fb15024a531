package discovery

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const (
	// TestDir is the directory under each workspace root that holds test files
	TestDir = "test"
	// TestFileSuffix identifies Foundry test files
	TestFileSuffix = ".t.sol"
	// TestGlob documents the fixed discovery pattern
	TestGlob = TestDir + "/**/*" + TestFileSuffix
)

// Scanner scans a workspace root for test files
type Scanner struct {
	skipDirs map[string]bool
}

// NewScanner creates a new Scanner with the given directories to skip
func NewScanner(skipDirs []string) *Scanner {
	skipMap := make(map[string]bool)
	for _, dir := range skipDirs {
		skipMap[dir] = true
	}
	return &Scanner{skipDirs: skipMap}
}

// Enumerate finds all files matching test/**/*.t.sol under root.
// Paths are absolute and returned in lexical walk order. A root without a
// test directory yields no files.
func (s *Scanner) Enumerate(root string) ([]string, error) {
	root, err := filepath.Abs(filepath.Clean(root))
	if err != nil {
		return nil, fmt.Errorf("resolve workspace root: %w", err)
	}

	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("workspace root does not exist: %s", root)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("workspace root is not a directory: %s", root)
	}

	testRoot := filepath.Join(root, TestDir)
	if info, err := os.Stat(testRoot); err != nil || !info.IsDir() {
		return nil, nil
	}

	var testFiles []string

	err = filepath.WalkDir(testRoot, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if d.IsDir() {
			if path == testRoot {
				return nil
			}

			name := d.Name()
			// Skip hidden directories (starting with .)
			if strings.HasPrefix(name, ".") {
				return filepath.SkipDir
			}

			if s.skipDirs[name] {
				return filepath.SkipDir
			}

			return nil
		}

		if strings.HasSuffix(d.Name(), TestFileSuffix) {
			testFiles = append(testFiles, path)
		}

		return nil
	})

	return testFiles, err
}
