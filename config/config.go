package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"gopkg.in/yaml.v3"

	"nmwifi/gonetworkmanager"
)

const (
	appName    = "nmwifi"
	configFile = "config.yaml"

	// CurrentVersion is the only file format understood by Load.
	CurrentVersion = 1

	// DefaultMinPasswordLength is the shortest non-empty password the UI
	// accepts. 0 turns the check off.
	DefaultMinPasswordLength = 8
)

// Mutex for file writes
var fileMutex sync.Mutex

// Config is the on-disk configuration.
type Config struct {
	Version int           `yaml:"version"`
	Nmcli   NmcliConfig   `yaml:"nmcli"`
	Policy  PolicyConfig  `yaml:"policy"`
	Logging LoggingConfig `yaml:"logging"`
	UI      UIConfig      `yaml:"ui"`
}

type NmcliConfig struct {
	// Command is split like a shell word list, so "sudo nmcli" works.
	Command string        `yaml:"command"`
	Timeout time.Duration `yaml:"timeout"`
}

type PolicyConfig struct {
	MinPasswordLength int  `yaml:"min_password_length"`
	RescanOnRefresh   bool `yaml:"rescan_on_refresh"`
}

type LoggingConfig struct {
	// Level is one of debug, info, warn, error. Empty disables logging.
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

type UIConfig struct {
	AltScreen    bool `yaml:"alt_screen"`
	MaskPassword bool `yaml:"mask_password"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		Version: CurrentVersion,
		Nmcli: NmcliConfig{
			Command: gonetworkmanager.DefaultCommand,
			Timeout: gonetworkmanager.DefaultTimeout,
		},
		Policy: PolicyConfig{
			MinPasswordLength: DefaultMinPasswordLength,
		},
		UI: UIConfig{
			AltScreen:    true,
			MaskPassword: true,
		},
	}
}

// GetConfigDir returns $XDG_CONFIG_HOME/nmwifi, or ~/.config/nmwifi when
// XDG_CONFIG_HOME is unset.
func GetConfigDir() (string, error) {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, appName), nil
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(homeDir, ".config", appName), nil
}

// GetConfigPath returns the full path to the default configuration file.
func GetConfigPath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, configFile), nil
}

// Load reads the file at path, or the default location when path is
// empty. A missing file yields Default(). Keys absent from the file keep
// their default values.
func Load(path string) (*Config, error) {
	if path == "" {
		p, err := GetConfigPath()
		if err != nil {
			return nil, fmt.Errorf("failed to get config path: %w", err)
		}
		path = p
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Default()
	// The file must state its own version.
	cfg.Version = 0
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	if cfg.Version != CurrentVersion {
		return nil, fmt.Errorf("unsupported config version: %d (expected %d)", cfg.Version, CurrentVersion)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks values that would make the program misbehave.
func (c *Config) Validate() error {
	var errs []error
	if c.Nmcli.Command == "" {
		errs = append(errs, errors.New("nmcli.command must not be empty"))
	}
	if c.Nmcli.Timeout < 0 {
		errs = append(errs, fmt.Errorf("nmcli.timeout must not be negative (got %s)", c.Nmcli.Timeout))
	}
	if c.Policy.MinPasswordLength < 0 {
		errs = append(errs, fmt.Errorf("policy.min_password_length must not be negative (got %d)", c.Policy.MinPasswordLength))
	}
	switch c.Logging.Level {
	case "", "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("logging.level %q is not one of debug, info, warn, error", c.Logging.Level))
	}
	return errors.Join(errs...)
}

// Save writes c to path, or the default location when path is empty. The
// write goes through a temporary file and a rename.
func (c *Config) Save(path string) error {
	fileMutex.Lock()
	defer fileMutex.Unlock()

	if path == "" {
		p, err := GetConfigPath()
		if err != nil {
			return fmt.Errorf("failed to get config path: %w", err)
		}
		path = p
	}
	if err := ensureConfigDir(filepath.Dir(path)); err != nil {
		return fmt.Errorf("failed to ensure config directory exists: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	header := []byte(`# nmwifi configuration
#
# Wi-Fi passwords are never stored here. NetworkManager keeps them in its
# own connection profiles.

`)
	data = append(header, data...)

	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write temporary config file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to save config file: %w", err)
	}
	return nil
}

// ensureConfigDir creates dir with user-only permissions.
func ensureConfigDir(dir string) error {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	return nil
}
