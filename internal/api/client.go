// Package api is the HTTP client for the chat backend. Every request carries
// the stored bearer token, and every 401 logs the user out.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/zhubert/parley/internal/errors"
	"github.com/zhubert/parley/internal/logger"
)

const (
	// DefaultTimeout bounds every request, including the model reply on send.
	DefaultTimeout = 60 * time.Second

	maxResponseBytes = 4 << 20
)

// Client talks to the chat backend.
type Client struct {
	baseURL    string
	httpClient *http.Client
	tokens     TokenStore

	mu             sync.RWMutex
	onUnauthorized func()
}

// NewClient creates a client for baseURL. A nil store keeps the token in
// memory.
func NewClient(baseURL string, tokens TokenStore) *Client {
	return NewClientWithHTTP(baseURL, tokens, &http.Client{Timeout: DefaultTimeout})
}

// NewClientWithHTTP creates a client with a custom HTTP client (for testing).
func NewClientWithHTTP(baseURL string, tokens TokenStore, httpClient *http.Client) *Client {
	if tokens == nil {
		tokens = NewMemoryTokens("")
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: DefaultTimeout}
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
		tokens:     tokens,
	}
}

// BaseURL returns the backend root the client was created with.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Tokens returns the client's token store.
func (c *Client) Tokens() TokenStore {
	return c.tokens
}

// Authenticated reports whether a token is currently stored.
func (c *Client) Authenticated() bool {
	return c.tokens.Token() != ""
}

// SetUnauthorizedHook installs fn to run after any 401 response, once the
// token has been cleared. It may be called from any goroutine.
func (c *Client) SetUnauthorizedHook(fn func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onUnauthorized = fn
}

func (c *Client) unauthorized() {
	if err := c.tokens.ClearToken(); err != nil {
		logger.WithComponent("api").Warn("failed to clear token", "error", err)
	}
	c.mu.RLock()
	fn := c.onUnauthorized
	c.mu.RUnlock()
	if fn != nil {
		fn()
	}
}

// do sends one request and decodes a JSON response into out when out is
// non-nil.
func (c *Client) do(ctx context.Context, op errors.Op, method, path string, body io.Reader, contentType string, out any) error {
	log := logger.WithComponent("api")

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return errors.E(op, errors.KindInvalid, "failed to create request", err)
	}
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token := c.tokens.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Debug("request failed", "method", method, "path", path, "error", err)
		return errors.Network(op, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return errors.Network(op, err)
	}
	log.Debug("request", "method", method, "path", path, "status", resp.StatusCode, "duration", time.Since(start))

	if resp.StatusCode == http.StatusUnauthorized {
		apiErr := newError(method, path, resp.StatusCode, data)
		c.unauthorized()
		return errors.E(op, apiErr)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return errors.E(op, newError(method, path, resp.StatusCode, data))
	}

	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return errors.E(op, errors.KindAPI, "failed to parse response", err)
	}
	return nil
}

func (c *Client) doJSON(ctx context.Context, op errors.Op, method, path string, in, out any) error {
	if in == nil {
		return c.do(ctx, op, method, path, nil, "", out)
	}
	payload, err := json.Marshal(in)
	if err != nil {
		return errors.E(op, errors.KindInvalid, "failed to encode request", err)
	}
	return c.do(ctx, op, method, path, bytes.NewReader(payload), "application/json", out)
}

// ListChats returns every chat owned by the user, in server order.
func (c *Client) ListChats(ctx context.Context) ([]Chat, error) {
	var chats []Chat
	if err := c.doJSON(ctx, "api.ListChats", http.MethodGet, "/chat/all", nil, &chats); err != nil {
		return nil, err
	}
	if chats == nil {
		chats = []Chat{}
	}
	return chats, nil
}

// GetChat returns one chat with its messages.
func (c *Client) GetChat(ctx context.Context, id string) (*Chat, error) {
	var chat Chat
	if err := c.doJSON(ctx, "api.GetChat", http.MethodGet, "/chat/"+url.PathEscape(id), nil, &chat); err != nil {
		return nil, err
	}
	if chat.ID == "" {
		chat.ID = id
	}
	if chat.Messages == nil {
		chat.Messages = []Message{}
	}
	return &chat, nil
}

type createChatRequest struct {
	ChatName    string `json:"chat_name"`
	Personality string `json:"personality"`
}

// CreateChat creates a chat. The backend only echoes the id and tag, so the
// returned chat is completed from the request.
func (c *Client) CreateChat(ctx context.Context, name, personality string) (*Chat, error) {
	var chat Chat
	req := createChatRequest{ChatName: name, Personality: personality}
	if err := c.doJSON(ctx, "api.CreateChat", http.MethodPost, "/chat/new", req, &chat); err != nil {
		return nil, err
	}
	if chat.Name == "" {
		chat.Name = name
	}
	if chat.Personality == "" {
		chat.Personality = personality
	}
	if chat.CreatedAt.IsZero() {
		chat.CreatedAt = time.Now()
	}
	return &chat, nil
}

// DeleteChat removes a chat.
func (c *Client) DeleteChat(ctx context.Context, id string) error {
	return c.doJSON(ctx, "api.DeleteChat", http.MethodDelete, "/chat/"+url.PathEscape(id), nil, nil)
}

type sendRequest struct {
	ChatID  string `json:"chat_id"`
	Message string `json:"message"`
}

type sendResponse struct {
	ID      json.RawMessage `json:"id"`
	Reply   string          `json:"reply"`
	Message string          `json:"message"`
}

// SendMessage posts a user message and returns the assistant's reply. The
// reply text is read from reply, falling back to message.
func (c *Client) SendMessage(ctx context.Context, chatID, content string) (*Message, error) {
	var resp sendResponse
	if err := c.doJSON(ctx, "api.SendMessage", http.MethodPost, "/chat/send", sendRequest{ChatID: chatID, Message: content}, &resp); err != nil {
		return nil, err
	}
	id := rawString(resp.ID)
	if id == "" {
		id = "ai-" + uuid.New().String()
	}
	return &Message{
		ID:        id,
		Role:      RoleAssistant,
		Content:   firstNonEmpty(resp.Reply, resp.Message),
		Timestamp: time.Now(),
	}, nil
}

// Login exchanges credentials for a token and stores it. username may also
// be an email address.
func (c *Client) Login(ctx context.Context, username, password string) (*Token, error) {
	op := errors.Op("api.Login")
	form := url.Values{}
	form.Set("username", username)
	form.Set("password", password)

	var tok Token
	if err := c.do(ctx, op, http.MethodPost, "/auth/login", strings.NewReader(form.Encode()), "application/x-www-form-urlencoded", &tok); err != nil {
		return nil, err
	}
	if tok.AccessToken == "" {
		return nil, errors.E(op, errors.KindAPI, "login response has no access token")
	}
	if err := c.tokens.SetToken(tok.AccessToken); err != nil {
		return nil, errors.E(op, errors.KindIO, err)
	}
	return &tok, nil
}

type signupRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Signup registers a new account. It does not log in.
func (c *Client) Signup(ctx context.Context, username, email, password string) (*SignupResult, error) {
	var res SignupResult
	req := signupRequest{Username: username, Email: email, Password: password}
	if err := c.doJSON(ctx, "api.Signup", http.MethodPost, "/auth/signup", req, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// Me returns the authenticated user.
func (c *Client) Me(ctx context.Context) (*User, error) {
	var u User
	if err := c.doJSON(ctx, "api.Me", http.MethodGet, "/auth/me", nil, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// Logout forgets the stored token. The backend keeps no session state.
func (c *Client) Logout() error {
	return c.tokens.ClearToken()
}
