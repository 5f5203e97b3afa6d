package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// configFileNames are the names searched for during discovery, in order.
var configFileNames = []string{"glideshow.yaml", "glideshow.yml"}

// DiscoverFile locates the configuration file to load. An explicit path
// wins; otherwise the working directory is checked, then the user's home
// directory. Only the first file found is loaded; files are not stacked.
// Returns "" with no error when nothing is found and no explicit path
// was given.
func DiscoverFile(explicit string) (string, error) {
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			return "", fmt.Errorf("%w: %s", ErrFileNotFound, explicit)
		}
		return explicit, nil
	}

	var dirs []string
	if cwd, err := os.Getwd(); err == nil {
		dirs = append(dirs, cwd)
	}
	if home, err := os.UserHomeDir(); err == nil {
		dirs = append(dirs, home)
	}

	for _, dir := range dirs {
		for _, name := range configFileNames {
			candidate := filepath.Join(dir, name)
			if _, err := os.Stat(candidate); err == nil {
				return candidate, nil
			}
		}
	}

	return "", nil
}

// LoadFile reads and parses a YAML configuration file.
func LoadFile(path string) (map[string]any, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrFileNotFound, path)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var data map[string]any
	if err := yaml.Unmarshal(content, &data); err != nil {
		return nil, &ParseError{
			Path:    path,
			Message: err.Error(),
			Err:     err,
		}
	}

	return normalizeKeys(data), nil
}

// WriteDefaultConfig writes the built-in default configuration to path.
// Refuses to overwrite an existing file.
func WriteDefaultConfig(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists: %s", path)
	}
	return os.WriteFile(path, []byte(defaultConfigYAML), 0o644)
}
