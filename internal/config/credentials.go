package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/zhubert/parley/internal/errors"
)

// Credentials holds the persisted access token. It satisfies api.TokenStore
// and writes through to disk on every change.
type Credentials struct {
	AccessToken string    `json:"access_token,omitempty"`
	TokenType   string    `json:"token_type,omitempty"`
	Username    string    `json:"username,omitempty"`
	SavedAt     time.Time `json:"saved_at,omitempty"`

	mu       sync.RWMutex
	filePath string
}

// credentialsPath returns the path to the credentials file
func credentialsPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "credentials.json"), nil
}

// LoadCredentials reads the credentials file. A missing file yields empty
// credentials.
func LoadCredentials() (*Credentials, error) {
	path, err := credentialsPath()
	if err != nil {
		return nil, errors.E(errors.Op("config.LoadCredentials"), errors.KindConfig, err)
	}
	return loadCredentialsFrom(path)
}

func loadCredentialsFrom(path string) (*Credentials, error) {
	creds := &Credentials{filePath: path}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return creds, nil
	}
	if err != nil {
		return nil, errors.E(errors.Op("config.LoadCredentials"), errors.KindIO, path, err)
	}
	if err := json.Unmarshal(data, creds); err != nil {
		return nil, errors.E(errors.Op("config.LoadCredentials"), errors.KindConfig, path, err)
	}
	return creds, nil
}

// Token returns the stored access token, or "" when logged out
func (c *Credentials) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.AccessToken
}

// GetUsername returns the username recorded at login
func (c *Credentials) GetUsername() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.Username
}

// SetUsername records the username used to log in. It is kept across logout
// so the login form can be prefilled.
func (c *Credentials) SetUsername(username string) error {
	c.mu.Lock()
	c.Username = username
	c.mu.Unlock()
	return c.save()
}

// SetToken stores a new bearer token and persists it
func (c *Credentials) SetToken(token string) error {
	c.mu.Lock()
	c.AccessToken = token
	c.TokenType = "bearer"
	c.SavedAt = time.Now()
	c.mu.Unlock()
	return c.save()
}

// ClearToken forgets the token and persists the change
func (c *Credentials) ClearToken() error {
	c.mu.Lock()
	c.AccessToken = ""
	c.TokenType = ""
	c.SavedAt = time.Time{}
	c.mu.Unlock()
	return c.save()
}

func (c *Credentials) save() error {
	c.mu.RLock()
	defer c.mu.RUnlock()

	op := errors.Op("config.SaveCredentials")
	if c.filePath == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(c.filePath), 0700); err != nil {
		return errors.E(op, errors.KindIO, c.filePath, err)
	}
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return errors.E(op, errors.KindIO, err)
	}
	if err := os.WriteFile(c.filePath, data, 0600); err != nil {
		return errors.E(op, errors.KindIO, c.filePath, err)
	}
	return nil
}
