package config

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/zhubert/parley/internal/errors"
)

// DefaultAPIURL is the backend used when nothing else is configured.
const DefaultAPIURL = "http://localhost:8000"

// Config holds the application configuration
type Config struct {
	APIURL               string `json:"api_url,omitempty"`               // Backend base URL
	Theme                string `json:"theme,omitempty"`                 // UI theme name (e.g., "dark-purple", "nord")
	NotificationsEnabled bool   `json:"notifications_enabled,omitempty"` // Desktop notifications when a reply arrives
	LastChatID           string `json:"last_chat_id,omitempty"`          // Chat to reselect on startup
	DefaultPersonality   string `json:"default_personality,omitempty"`   // Preselected tag in the new chat dialog

	mu       sync.RWMutex
	filePath string
}

// Dir returns the directory holding config and credentials. PARLEY_HOME
// overrides the default of ~/.parley.
func Dir() (string, error) {
	if dir := os.Getenv("PARLEY_HOME"); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".parley"), nil
}

// configPath returns the path to the config file
func configPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// Load reads the config from disk, or creates a new one if it doesn't exist
func Load() (*Config, error) {
	path, err := configPath()
	if err != nil {
		return nil, errors.ConfigLoadFailed("~/.parley/config.json", err)
	}

	cfg := &Config{filePath: path}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, errors.ConfigLoadFailed(path, err)
	}

	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, errors.ConfigLoadFailed(path, err)
	}

	cfg.ensureInitialized()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// ensureInitialized normalizes fields after unmarshaling. It must only be
// called from Load before the Config is shared.
func (c *Config) ensureInitialized() {
	c.APIURL = strings.TrimRight(strings.TrimSpace(c.APIURL), "/")
	c.DefaultPersonality = strings.ToLower(strings.TrimSpace(c.DefaultPersonality))
}

// Validate checks that the config is internally consistent.
func (c *Config) Validate() error {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.APIURL != "" {
		if err := ValidateAPIURL(c.APIURL); err != nil {
			return err
		}
	}
	return nil
}

// ValidateAPIURL checks that raw is an absolute http(s) URL.
func ValidateAPIURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return errors.ConfigInvalid(fmt.Sprintf("api url %q: %v", raw, err))
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return errors.ConfigInvalid(fmt.Sprintf("api url %q must use http or https", raw))
	}
	if u.Host == "" {
		return errors.ConfigInvalid(fmt.Sprintf("api url %q has no host", raw))
	}
	return nil
}

// Save writes the config to disk
func (c *Config) Save() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.filePath == "" {
		path, err := configPath()
		if err != nil {
			return errors.ConfigSaveFailed("~/.parley/config.json", err)
		}
		c.filePath = path
	}

	if err := os.MkdirAll(filepath.Dir(c.filePath), 0755); err != nil {
		return errors.ConfigSaveFailed(c.filePath, err)
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return errors.ConfigSaveFailed(c.filePath, err)
	}

	if err := os.WriteFile(c.filePath, data, 0644); err != nil {
		return errors.ConfigSaveFailed(c.filePath, err)
	}
	return nil
}

// GetAPIURL returns the configured backend URL, which may be empty
func (c *Config) GetAPIURL() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.APIURL
}

// SetAPIURL sets the backend URL
func (c *Config) SetAPIURL(u string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.APIURL = strings.TrimRight(u, "/")
}

// GetTheme returns the current theme name
func (c *Config) GetTheme() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.Theme
}

// SetTheme sets the current theme name
func (c *Config) SetTheme(theme string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Theme = theme
}

// GetNotificationsEnabled returns whether desktop notifications are enabled
func (c *Config) GetNotificationsEnabled() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.NotificationsEnabled
}

// SetNotificationsEnabled sets whether desktop notifications are enabled
func (c *Config) SetNotificationsEnabled(enabled bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.NotificationsEnabled = enabled
}

// GetLastChatID returns the chat that was selected when the app last ran
func (c *Config) GetLastChatID() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.LastChatID
}

// SetLastChatID records the selected chat
func (c *Config) SetLastChatID(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.LastChatID = id
}

// GetDefaultPersonality returns the preselected personality tag, or "" for the built-in default
func (c *Config) GetDefaultPersonality() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.DefaultPersonality
}

// SetDefaultPersonality sets the preselected personality tag
func (c *Config) SetDefaultPersonality(tag string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.DefaultPersonality = strings.ToLower(tag)
}
