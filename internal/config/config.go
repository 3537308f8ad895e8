package config

import (
	"encoding/json"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"go.uber.org/multierr"
)

const appName = "docsmcp"

// Environment variables that override file settings.
const (
	EnvConfigPath     = "DOCSMCP_CONFIG"
	EnvLogLevel       = "DOCSMCP_LOG_LEVEL"
	EnvLogPath        = "DOCSMCP_LOG_PATH"
	EnvTokenPassword  = "DOCSMCP_TOKEN_PASSWORD"
	EnvServiceAccount = "GOOGLE_APPLICATION_CREDENTIALS"
)

const (
	defaultBatchSoftLimit  = 50
	defaultRequestTimeout  = 60
	defaultOAuthListenAddr = "127.0.0.1:0"
)

// Config represents application configuration
type Config struct {
	CredentialsPath       string `json:"credentials_path"`               // OAuth client secret JSON
	TokenPath             string `json:"token_path"`                     // cached OAuth token
	ServiceAccountPath    string `json:"service_account_path,omitempty"` // takes precedence over OAuth when set
	ImpersonateSubject    string `json:"impersonate_subject,omitempty"`  // domain-wide delegation user for service accounts
	EncryptToken          bool   `json:"encrypt_token"`                  // seal the cached token with a passphrase
	LogLevel              string `json:"log_level"`                      // debug, info, warn, error, none
	LogPath               string `json:"log_path"`                       // defaults to the state dir
	BatchSoftLimit        int    `json:"batch_soft_limit"`               // warn above this many requests per batch
	RequestTimeoutSeconds int    `json:"request_timeout_seconds"`        // per tool call
	ReadOnly              bool   `json:"read_only"`                      // refuse every mutating tool
	OAuthListenAddr       string `json:"oauth_listen_addr"`              // loopback address for the OAuth redirect
	DefaultMaxLength      int    `json:"default_max_length,omitempty"`   // read_document truncation, 0 = unlimited
}

func defaultConfigDir() string {
	switch runtime.GOOS {
	case "windows":
		if appData := strings.TrimSpace(os.Getenv("APPDATA")); appData != "" {
			return filepath.Join(appData, appName)
		}
		homeDir, _ := os.UserHomeDir()
		return filepath.Join(homeDir, "AppData", "Roaming", appName)
	default:
		if configHome := strings.TrimSpace(os.Getenv("XDG_CONFIG_HOME")); configHome != "" {
			return filepath.Join(configHome, appName)
		}
		homeDir, _ := os.UserHomeDir()
		return filepath.Join(homeDir, ".config", appName)
	}
}

func defaultStateDir() string {
	switch runtime.GOOS {
	case "linux":
		if stateHome := strings.TrimSpace(os.Getenv("XDG_STATE_HOME")); stateHome != "" {
			return filepath.Join(stateHome, appName)
		}
		homeDir, _ := os.UserHomeDir()
		return filepath.Join(homeDir, ".local", "state", appName)
	case "windows":
		if localAppData := strings.TrimSpace(os.Getenv("LOCALAPPDATA")); localAppData != "" {
			return filepath.Join(localAppData, appName)
		}
		homeDir, _ := os.UserHomeDir()
		return filepath.Join(homeDir, "AppData", "Local", appName)
	default:
		return defaultConfigDir()
	}
}

// DefaultConfig returns default configuration
func DefaultConfig() *Config {
	configDir := defaultConfigDir()
	stateDir := defaultStateDir()

	return &Config{
		CredentialsPath:       filepath.Join(configDir, "credentials.json"),
		TokenPath:             filepath.Join(stateDir, "token.json"),
		LogLevel:              "info",
		LogPath:               filepath.Join(stateDir, appName+".log"),
		BatchSoftLimit:        defaultBatchSoftLimit,
		RequestTimeoutSeconds: defaultRequestTimeout,
		OAuthListenAddr:       defaultOAuthListenAddr,
	}
}

// Load loads configuration from file. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	config := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return config, nil
		}
		return nil, err
	}

	// Unmarshal into default config (overrides only provided fields)
	if err := json.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	config.fillDefaults()
	return config, nil
}

// fillDefaults restores defaults for fields a config file blanked out.
func (c *Config) fillDefaults() {
	d := DefaultConfig()
	if c.CredentialsPath == "" {
		c.CredentialsPath = d.CredentialsPath
	}
	if c.TokenPath == "" {
		c.TokenPath = d.TokenPath
	}
	if c.LogLevel == "" {
		c.LogLevel = d.LogLevel
	}
	if c.LogPath == "" {
		c.LogPath = d.LogPath
	}
	if c.BatchSoftLimit == 0 {
		c.BatchSoftLimit = d.BatchSoftLimit
	}
	if c.RequestTimeoutSeconds == 0 {
		c.RequestTimeoutSeconds = d.RequestTimeoutSeconds
	}
	if c.OAuthListenAddr == "" {
		c.OAuthListenAddr = d.OAuthListenAddr
	}
}

// ApplyEnv overlays environment overrides. getenv is usually os.Getenv.
func (c *Config) ApplyEnv(getenv func(string) string) {
	if v := strings.TrimSpace(getenv(EnvLogLevel)); v != "" {
		c.LogLevel = v
	}
	if v := strings.TrimSpace(getenv(EnvLogPath)); v != "" {
		c.LogPath = v
	}
	if v := strings.TrimSpace(getenv(EnvServiceAccount)); v != "" && c.ServiceAccountPath == "" {
		c.ServiceAccountPath = v
	}
}

// Validate reports every problem with the configuration at once.
func (c *Config) Validate() error {
	var err error
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "warning", "error", "none":
	default:
		err = multierr.Append(err, fmt.Errorf("log_level %q is not one of debug, info, warn, error, none", c.LogLevel))
	}
	if c.BatchSoftLimit < 1 {
		err = multierr.Append(err, fmt.Errorf("batch_soft_limit must be positive, got %d", c.BatchSoftLimit))
	}
	if c.RequestTimeoutSeconds < 1 {
		err = multierr.Append(err, fmt.Errorf("request_timeout_seconds must be positive, got %d", c.RequestTimeoutSeconds))
	}
	if c.DefaultMaxLength < 0 {
		err = multierr.Append(err, fmt.Errorf("default_max_length must not be negative, got %d", c.DefaultMaxLength))
	}
	if c.ServiceAccountPath == "" && c.CredentialsPath == "" {
		err = multierr.Append(err, fmt.Errorf("either credentials_path or service_account_path is required"))
	}
	if c.TokenPath == "" && c.ServiceAccountPath == "" {
		err = multierr.Append(err, fmt.Errorf("token_path is required for OAuth"))
	}
	if host, _, splitErr := net.SplitHostPort(c.OAuthListenAddr); splitErr != nil {
		err = multierr.Append(err, fmt.Errorf("oauth_listen_addr: %w", splitErr))
	} else if ip := net.ParseIP(host); host != "localhost" && (ip == nil || !ip.IsLoopback()) {
		err = multierr.Append(err, fmt.Errorf("oauth_listen_addr %q must be a loopback address", c.OAuthListenAddr))
	}
	return err
}

// RequestTimeout is RequestTimeoutSeconds as a duration.
func (c *Config) RequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutSeconds) * time.Second
}

// Save saves configuration to file
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}

// GetConfigPath returns the config path, honoring DOCSMCP_CONFIG.
func GetConfigPath() string {
	if p := strings.TrimSpace(os.Getenv(EnvConfigPath)); p != "" {
		return p
	}
	return filepath.Join(defaultConfigDir(), "config.json")
}
