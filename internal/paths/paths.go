package paths

import (
	"fmt"
	"os"
	"path/filepath"
)

// HomeDir returns the current user's home directory.
func HomeDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home directory: %w", err)
	}
	return home, nil
}

// DefaultStateDir returns the default agenda state directory.
func DefaultStateDir() (string, error) {
	home, err := HomeDir()
	if err != nil {
		return "", err
	}

	return filepath.Join(home, ".local", "state", "agenda"), nil
}

// GlobalConfigPath returns the path of the user's global config file.
func GlobalConfigPath() (string, error) {
	home, err := HomeDir()
	if err != nil {
		return "", err
	}

	return filepath.Join(home, ".config", "agenda", "config.toml"), nil
}

// ResolveStateDir expands a leading "~/" in dir, falling back to
// DefaultStateDir when dir is empty.
func ResolveStateDir(dir string) (string, error) {
	if dir == "" {
		return DefaultStateDir()
	}
	if dir == "~" || len(dir) > 1 && dir[:2] == "~/" {
		home, err := HomeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, dir[1:]), nil
	}
	return dir, nil
}
