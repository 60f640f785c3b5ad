// Package config loads tabgrid's CLI configuration, following the
// precedence/merge/JSONC discipline calvinalkan-agent-task's config.go
// establishes for this pack: defaults, then a global user config, then a
// project config, then CLI overrides, with JSONC relaxed into JSON via
// hujson before decoding.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/tailscale/hujson"
)

// FileName is the default project config file name.
const FileName = ".tabgrid.json"

var (
	errFileNotFound = errors.New("config: file not found")
	errFileRead     = errors.New("config: cannot read file")
	errInvalid      = errors.New("config: invalid file")
)

// Config holds tabgrid's CLI-tunable settings.
type Config struct {
	// HistoryFile is where the REPL persists its input history. Empty
	// disables history persistence.
	HistoryFile string `json:"history_file,omitempty"`

	// Prompt is the REPL prompt string.
	Prompt string `json:"prompt,omitempty"`
}

// Default returns tabgrid's baseline configuration.
func Default() Config {
	home, err := os.UserHomeDir()
	history := ""
	if err == nil {
		history = filepath.Join(home, ".tabgrid_history")
	}

	return Config{
		HistoryFile: history,
		Prompt:      "tabgrid> ",
	}
}

// Load applies, in ascending precedence: defaults, the global config
// (~/.config/tabgrid/config.json or $XDG_CONFIG_HOME/tabgrid/config.json),
// the project config (workDir/.tabgrid.json), and an explicit configPath if
// non-empty. configPath, if given, must exist; the others are optional.
func Load(workDir, configPath string) (Config, error) {
	cfg := Default()

	if globalPath := globalConfigPath(); globalPath != "" {
		overlay, loaded, err := loadFile(globalPath, false)
		if err != nil {
			return Config{}, err
		}
		if loaded {
			cfg = merge(cfg, overlay)
		}
	}

	projectPath := filepath.Join(workDir, FileName)
	overlay, loaded, err := loadFile(projectPath, false)
	if err != nil {
		return Config{}, err
	}
	if loaded {
		cfg = merge(cfg, overlay)
	}

	if configPath != "" {
		overlay, _, err := loadFile(configPath, true)
		if err != nil {
			return Config{}, err
		}
		cfg = merge(cfg, overlay)
	}

	return cfg, nil
}

func globalConfigPath() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "tabgrid", "config.json")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "tabgrid", "config.json")
}

// loadFile reads and parses path. If mustExist is false, a missing file is
// reported as (zero Config, false, nil) rather than an error.
func loadFile(path string, mustExist bool) (Config, bool, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path comes from the operator's own config lookup
	if err != nil {
		if os.IsNotExist(err) && !mustExist {
			return Config{}, false, nil
		}
		if mustExist {
			return Config{}, false, fmt.Errorf("%w: %s", errFileNotFound, path)
		}
		return Config{}, false, fmt.Errorf("%w: %s: %w", errFileRead, path, err)
	}

	standardized, err := hujson.Standardize(data)
	if err != nil {
		return Config{}, false, fmt.Errorf("%w %s: %w", errInvalid, path, err)
	}

	var cfg Config
	if err := json.Unmarshal(standardized, &cfg); err != nil {
		return Config{}, false, fmt.Errorf("%w %s: %w", errInvalid, path, err)
	}

	return cfg, true, nil
}

func merge(base, overlay Config) Config {
	if overlay.HistoryFile != "" {
		base.HistoryFile = overlay.HistoryFile
	}
	if overlay.Prompt != "" {
		base.Prompt = overlay.Prompt
	}
	return base
}
