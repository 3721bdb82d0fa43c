package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

const (
	appName = "proptic"

	// FileName is the name of the configuration file.
	FileName = appName + ".json"

	defaultAPIURL         = "http://localhost:8000/api/v1/"
	defaultPageSize       = 10
	defaultCurrency       = "USD"
	defaultRequestTimeout = 15
)

// Config is the resolved configuration of the program.
type Config struct {
	// APIURL is the base URL of the platform API. Endpoint paths are joined
	// to it.
	APIURL string `json:"api_url,omitempty"`
	// DataDir holds the log file, the token file and the offline cache.
	DataDir string `json:"data_dir,omitempty"`
	Debug   bool   `json:"debug,omitempty"`

	Options *Options `json:"options,omitempty"`

	// path is the file SetConfigField writes to.
	path string
}

type Options struct {
	// PageSize seeds the page size of list tables.
	PageSize int `json:"page_size,omitempty"`
	// Currency prefixes prices.
	Currency string `json:"currency,omitempty"`
	// RequestTimeout is the API timeout in seconds.
	RequestTimeout int `json:"request_timeout,omitempty"`
	// DisableKeyring stores the token in a file instead of the OS keyring.
	DisableKeyring bool `json:"disable_keyring,omitempty"`
	// DisableCache turns off the offline snapshot cache.
	DisableCache bool `json:"disable_cache,omitempty"`
	// LastEmail prefills the login form.
	LastEmail string `json:"last_email,omitempty"`
}

func (c *Config) setDefaults() {
	if c.Options == nil {
		c.Options = &Options{}
	}
	if c.APIURL == "" {
		c.APIURL = defaultAPIURL
	}
	if c.DataDir == "" {
		c.DataDir = DefaultDataDir()
	}
	if c.Options.PageSize <= 0 {
		c.Options.PageSize = defaultPageSize
	}
	if c.Options.Currency == "" {
		c.Options.Currency = defaultCurrency
	}
	if c.Options.RequestTimeout <= 0 {
		c.Options.RequestTimeout = defaultRequestTimeout
	}
}

// Timeout returns the API request timeout.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.Options.RequestTimeout) * time.Second
}

// Path returns the configuration file written by [Config.SetConfigField].
func (c *Config) Path() string { return c.path }

func (c *Config) LogFile() string   { return filepath.Join(c.DataDir, "logs", appName+".log") }
func (c *Config) TokenFile() string { return filepath.Join(c.DataDir, "token") }
func (c *Config) CacheFile() string { return filepath.Join(c.DataDir, "cache.db") }

// SetConfigField writes a single dotted key to the configuration file,
// leaving the rest of the file untouched.
func (c *Config) SetConfigField(key string, value any) error {
	data, err := os.ReadFile(c.path)
	if err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to read config file: %w", err)
		}
		data = []byte("{}")
	}

	if cur := gjson.GetBytes(data, key); cur.Exists() {
		raw, err := json.Marshal(value)
		if err == nil && cur.Raw == string(raw) {
			return nil
		}
	}

	data, err = sjson.SetBytes(data, key, value)
	if err != nil {
		return fmt.Errorf("failed to set config field %s: %w", key, err)
	}
	if err := os.MkdirAll(filepath.Dir(c.path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(c.path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// ConfigField reads a single dotted key from the configuration file.
func (c *Config) ConfigField(key string) gjson.Result {
	data, err := os.ReadFile(c.path)
	if err != nil {
		return gjson.Result{}
	}
	return gjson.GetBytes(data, key)
}
