package api

import "sync"

// TokenStore holds the bearer token between requests. config.Credentials
// persists it to disk; MemoryTokens keeps it in process.
type TokenStore interface {
	Token() string
	SetToken(token string) error
	ClearToken() error
}

// MemoryTokens is an in-memory TokenStore.
type MemoryTokens struct {
	mu    sync.RWMutex
	token string
}

// NewMemoryTokens returns a store holding token.
func NewMemoryTokens(token string) *MemoryTokens {
	return &MemoryTokens{token: token}
}

func (m *MemoryTokens) Token() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.token
}

func (m *MemoryTokens) SetToken(token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = token
	return nil
}

func (m *MemoryTokens) ClearToken() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = ""
	return nil
}
