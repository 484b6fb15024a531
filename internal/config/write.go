package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrConfigExists is returned by WriteDefaults when the target file exists
var ErrConfigExists = errors.New("config file already exists")

// DefaultYAML renders every default as a nested yaml document
func DefaultYAML() ([]byte, error) {
	nested := make(map[string]any)
	for key, value := range Defaults() {
		parts := strings.Split(key, ".")
		node := nested
		for _, part := range parts[:len(parts)-1] {
			child, ok := node[part].(map[string]any)
			if !ok {
				child = make(map[string]any)
				node[part] = child
			}
			node = child
		}
		node[parts[len(parts)-1]] = value
	}

	data, err := yaml.Marshal(nested)
	if err != nil {
		return nil, fmt.Errorf("marshal defaults: %w", err)
	}
	return data, nil
}

// WriteDefaults writes DefaultYAML to path. An existing file is only
// replaced when force is set.
func WriteDefaults(path string, force bool) error {
	data, err := DefaultYAML()
	if err != nil {
		return err
	}

	flags := os.O_WRONLY | os.O_CREATE | os.O_EXCL
	if force {
		flags = os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	}

	// #nosec G304 - path is the workspace config file
	file, err := os.OpenFile(path, flags, 0o644)
	if errors.Is(err, fs.ErrExist) {
		return fmt.Errorf("%w: %s", ErrConfigExists, path)
	}
	if err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	if _, err := file.Write(data); err != nil {
		_ = file.Close()
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return file.Close()
}
