// Package config handles loading agenda.toml configuration files.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/amonks/agenda/internal/paths"
)

// ProjectFileName is the per-directory config file merged over the global one.
const ProjectFileName = "agenda.toml"

// Config represents the agenda.toml configuration file.
type Config struct {
	Storage Storage `toml:"storage"`
	Profile Profile `toml:"profile"`
	Picker  Picker  `toml:"picker"`
	Display Display `toml:"display"`
}

// Storage selects where state lives.
type Storage struct {
	// Backend is "file" or "sqlite".
	Backend string `toml:"backend"`
	// Dir overrides the default state directory. A leading "~/" is expanded.
	Dir string `toml:"dir"`
}

// Profile seeds onboarding.
type Profile struct {
	// Name is used by greet when no name has been stored yet.
	Name string `toml:"name"`
}

// Picker tunes the date picker.
type Picker struct {
	// RepeatWindow is how long a second select on the same day opens the
	// hour grid, e.g. "300ms".
	RepeatWindow string `toml:"repeat-window"`
}

// Display tunes rendering.
type Display struct {
	// TransitionWindow is how long a toggled task keeps its entering or
	// leaving style, e.g. "300ms".
	TransitionWindow string `toml:"transition-window"`
}

// Load loads configuration from dir and the global config file.
// Returns an empty config if no config files exist.
func Load(dir string) (*Config, error) {
	globalPath, err := paths.GlobalConfigPath()
	if err != nil {
		return nil, err
	}

	globalCfg, globalMeta, err := loadConfigFile(globalPath)
	if err != nil {
		return nil, err
	}

	projectCfg, projectMeta, err := loadConfigFile(filepath.Join(dir, ProjectFileName))
	if err != nil {
		return nil, err
	}

	merged := mergeConfigs(globalCfg, projectCfg, globalMeta, projectMeta)
	if err := merged.validate(); err != nil {
		return nil, err
	}
	return merged, nil
}

func loadConfigFile(path string) (*Config, toml.MetaData, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return &Config{}, toml.MetaData{}, nil
	}
	if err != nil {
		return nil, toml.MetaData{}, fmt.Errorf("read config file %s: %w", path, err)
	}

	var cfg Config
	meta, err := toml.Decode(string(data), &cfg)
	if err != nil {
		return nil, toml.MetaData{}, fmt.Errorf("parse config file %s: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return nil, toml.MetaData{}, fmt.Errorf("parse config file %s: unknown key %q", path, undecoded[0].String())
	}

	return &cfg, meta, nil
}

func mergeConfigs(globalCfg, projectCfg *Config, globalMeta, projectMeta toml.MetaData) *Config {
	if globalCfg == nil {
		globalCfg = &Config{}
	}
	if projectCfg == nil {
		projectCfg = &Config{}
	}

	merged := Config{}
	merged.Storage.Backend = mergeString(projectMeta.IsDefined("storage", "backend"), projectCfg.Storage.Backend, globalCfg.Storage.Backend)
	merged.Storage.Dir = mergeString(projectMeta.IsDefined("storage", "dir"), projectCfg.Storage.Dir, globalCfg.Storage.Dir)
	merged.Profile.Name = mergeString(projectMeta.IsDefined("profile", "name"), projectCfg.Profile.Name, globalCfg.Profile.Name)
	merged.Picker.RepeatWindow = mergeString(projectMeta.IsDefined("picker", "repeat-window"), projectCfg.Picker.RepeatWindow, globalCfg.Picker.RepeatWindow)
	merged.Display.TransitionWindow = mergeString(projectMeta.IsDefined("display", "transition-window"), projectCfg.Display.TransitionWindow, globalCfg.Display.TransitionWindow)

	return &merged
}

func mergeString(projectDefined bool, projectValue, globalValue string) string {
	value := globalValue
	if projectDefined {
		value = projectValue
	}
	return strings.TrimSpace(value)
}

func (c *Config) validate() error {
	if _, err := c.RepeatWindow(); err != nil {
		return err
	}
	if _, err := c.TransitionWindow(); err != nil {
		return err
	}
	return nil
}

// RepeatWindow parses picker.repeat-window. Zero means use the default.
func (c *Config) RepeatWindow() (time.Duration, error) {
	return parseWindow("picker.repeat-window", c.Picker.RepeatWindow)
}

// TransitionWindow parses display.transition-window. Zero means use the
// default.
func (c *Config) TransitionWindow() (time.Duration, error) {
	return parseWindow("display.transition-window", c.Display.TransitionWindow)
}

func parseWindow(key, value string) (time.Duration, error) {
	if value == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, value, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("invalid %s %q: must be positive", key, value)
	}
	return d, nil
}
