package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strconv"

	"github.com/joho/godotenv"
)

const envPrefix = "PROPTIC_"

// Load resolves the configuration. Files are read in order and later files
// override earlier ones: the global file, then proptic.json in the working
// directory. An explicit path replaces both. A .env file in the working
// directory is loaded first, then PROPTIC_* variables override the files.
func Load(explicitPath string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		slog.Warn("Could not load .env file", "error", err)
	}

	paths := []string{GlobalConfig(), FileName}
	writePath := GlobalConfig()
	if explicitPath != "" {
		paths = []string{explicitPath}
		writePath = explicitPath
	}

	cfg, err := loadFromConfigPaths(paths)
	if err != nil {
		return nil, err
	}
	cfg.path = writePath
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	cfg.setDefaults()
	return cfg, nil
}

func loadFromConfigPaths(paths []string) (*Config, error) {
	cfg := &Config{}
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv(envPrefix + "API_URL"); v != "" {
		c.APIURL = v
	}
	if v := os.Getenv(envPrefix + "DATA_DIR"); v != "" {
		c.DataDir = v
	}
	if v := os.Getenv(envPrefix + "DEBUG"); v != "" {
		debug, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid %sDEBUG value %q: %w", envPrefix, v, err)
		}
		c.Debug = debug
	}
	return nil
}

// GlobalConfig returns the path of the per user configuration file.
func GlobalConfig() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, appName, FileName)
	}
	if runtime.GOOS == "windows" {
		return filepath.Join(localAppData(), appName, FileName)
	}
	return filepath.Join(homeDir(), ".config", appName, FileName)
}

// DefaultDataDir returns the per user data directory.
// On windows it is %LOCALAPPDATA%/proptic, elsewhere
// $XDG_DATA_HOME/proptic or ~/.local/share/proptic.
func DefaultDataDir() string {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, appName)
	}
	if runtime.GOOS == "windows" {
		return filepath.Join(localAppData(), appName)
	}
	return filepath.Join(homeDir(), ".local", "share", appName)
}

func localAppData() string {
	if dir := os.Getenv("LOCALAPPDATA"); dir != "" {
		return dir
	}
	return filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Local")
}

func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return os.TempDir()
	}
	return home
}
