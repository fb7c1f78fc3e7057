package session

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/zhubert/parley/internal/api"
	"github.com/zhubert/parley/internal/errors"
	"github.com/zhubert/parley/internal/logger"
)

// Backend is the chat half of the API client.
type Backend interface {
	ListChats(ctx context.Context) ([]api.Chat, error)
	GetChat(ctx context.Context, id string) (*api.Chat, error)
	CreateChat(ctx context.Context, name, personality string) (*api.Chat, error)
	DeleteChat(ctx context.Context, id string) error
	SendMessage(ctx context.Context, chatID, content string) (*api.Message, error)
}

// State is a point-in-time copy of the manager's state.
type State struct {
	Chats    []api.Chat
	Current  *api.Chat // nil when no chat is selected; Messages is not populated
	Messages []api.Message
	Loading  bool
	Sending  bool
}

// CurrentID returns the id of the current chat, or "".
func (s State) CurrentID() string {
	if s.Current == nil {
		return ""
	}
	return s.Current.ID
}

// LastAssistant returns the newest assistant message, if any.
func (s State) LastAssistant() (api.Message, bool) {
	for i := len(s.Messages) - 1; i >= 0; i-- {
		if s.Messages[i].IsAssistant() {
			return s.Messages[i], true
		}
	}
	return api.Message{}, false
}

// PendingSend is an optimistic user message awaiting its reply.
type PendingSend struct {
	ChatID  string
	Message api.Message

	epoch uint64
}

// Manager mediates every change to the chat state. It is safe for
// concurrent use.
type Manager struct {
	backend Backend

	mu         sync.Mutex
	chats      []api.Chat
	current    *api.Chat
	messages   []api.Message
	loading    int
	sending    int

	// selections counts SelectChat calls and clears; a fetch whose number
	// is no longer the latest is stale. epoch changes only when the message
	// set is replaced by a different chat or cleared.
	selections uint64
	epoch      uint64
	inFlight   map[string]bool // optimistic message ids awaiting a reply
}

// NewManager creates a manager backed by b.
func NewManager(b Backend) *Manager {
	return &Manager{
		backend:  b,
		chats:    []api.Chat{},
		messages: []api.Message{},
		inFlight: map[string]bool{},
	}
}

// Snapshot returns a copy of the current state.
func (m *Manager) Snapshot() State {
	m.mu.Lock()
	defer m.mu.Unlock()

	s := State{
		Chats:    make([]api.Chat, len(m.chats)),
		Messages: make([]api.Message, len(m.messages)),
		Loading:  m.loading > 0,
		Sending:  m.sending > 0,
	}
	copy(s.Chats, m.chats)
	copy(s.Messages, m.messages)
	if m.current != nil {
		cur := *m.current
		s.Current = &cur
	}
	return s
}

// Chat looks up a known chat by id.
func (m *Manager) Chat(id string) (api.Chat, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.chats {
		if c.ID == id {
			return c, true
		}
	}
	return api.Chat{}, false
}

func (m *Manager) beginLoading() {
	m.mu.Lock()
	m.loading++
	m.mu.Unlock()
}

func (m *Manager) endLoading() {
	m.mu.Lock()
	if m.loading > 0 {
		m.loading--
	}
	m.mu.Unlock()
}

// FetchChats replaces the chat list with the server's. On failure the
// previous list is kept.
func (m *Manager) FetchChats(ctx context.Context) error {
	log := logger.WithComponent("session")
	m.beginLoading()
	defer m.endLoading()

	chats, err := m.backend.ListChats(ctx)
	if err != nil {
		log.Warn("failed to fetch chats", "error", err)
		return errors.Wrap("session.FetchChats", err)
	}
	if chats == nil {
		chats = []api.Chat{}
	}

	m.mu.Lock()
	m.chats = chats
	m.mu.Unlock()
	log.Debug("fetched chats", "count", len(chats))
	return nil
}

// SelectChat loads a chat's detail and makes it current. A response that
// arrives after another selection or a clear is discarded. Reloading the
// current chat keeps messages that are still waiting for a reply.
func (m *Manager) SelectChat(ctx context.Context, id string) error {
	log := logger.WithChat(id).With("component", "session")

	m.mu.Lock()
	m.selections++
	seq := m.selections
	m.loading++
	m.mu.Unlock()
	defer m.endLoading()

	chat, err := m.backend.GetChat(ctx, id)
	if err != nil {
		log.Warn("failed to load chat", "error", err)
		return errors.Wrap("session.SelectChat", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if seq != m.selections {
		log.Debug("discarding stale chat detail")
		return nil
	}

	messages := make([]api.Message, len(chat.Messages))
	copy(messages, chat.Messages)
	cur := *chat
	cur.Messages = nil
	if cur.ID == "" {
		cur.ID = id
	}
	for _, c := range m.chats {
		if c.ID == cur.ID {
			if cur.Name == "" {
				cur.Name = c.Name
			}
			if cur.Personality == "" {
				cur.Personality = c.Personality
			}
			if cur.CreatedAt.IsZero() {
				cur.CreatedAt = c.CreatedAt
			}
			break
		}
	}
	if m.current != nil && m.current.ID == cur.ID {
		for _, msg := range m.messages {
			if m.inFlight[msg.ID] {
				messages = append(messages, msg)
			}
		}
	} else {
		m.epoch++
	}
	m.current = &cur
	m.messages = messages
	log.Debug("selected chat", "messages", len(messages))
	return nil
}

// CreateChat creates a chat and refreshes the list. The new chat is not
// selected.
func (m *Manager) CreateChat(ctx context.Context, name, personality string) (*api.Chat, error) {
	op := errors.Op("session.CreateChat")
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errors.Invalid(op, "chat name required")
	}

	chat, err := m.backend.CreateChat(ctx, name, personality)
	if err != nil {
		logger.WithComponent("session").Warn("failed to create chat", "name", name, "error", err)
		return nil, errors.Wrap(op, err)
	}
	_ = m.FetchChats(ctx)
	return chat, nil
}

// DeleteChat deletes a chat. If it was current, the selection is cleared
// before the list is refreshed.
func (m *Manager) DeleteChat(ctx context.Context, id string) error {
	if err := m.backend.DeleteChat(ctx, id); err != nil {
		logger.WithChat(id).Warn("failed to delete chat", "error", err)
		return errors.Wrap("session.DeleteChat", err)
	}

	m.mu.Lock()
	if m.current != nil && m.current.ID == id {
		m.clearLocked()
	}
	m.mu.Unlock()

	_ = m.FetchChats(ctx)
	return nil
}

// ClearCurrentChat deselects the current chat without a network call.
func (m *Manager) ClearCurrentChat() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.clearLocked()
}

func (m *Manager) clearLocked() {
	m.selections++
	m.epoch++
	m.current = nil
	m.messages = []api.Message{}
}

// Reset forgets everything, as on logout.
func (m *Manager) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.clearLocked()
	m.chats = []api.Chat{}
}

// BeginSend optimistically appends a user message to the current chat. It
// returns nil when no chat is selected or content is blank.
func (m *Manager) BeginSend(content string) *PendingSend {
	if strings.TrimSpace(content) == "" {
		return nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.current == nil {
		return nil
	}

	msg := api.Message{
		ID:        "temp-" + uuid.New().String(),
		Role:      api.RoleUser,
		Content:   content,
		Timestamp: time.Now(),
	}
	m.messages = append(m.messages, msg)
	m.inFlight[msg.ID] = true
	m.sending++
	return &PendingSend{ChatID: m.current.ID, Message: msg, epoch: m.epoch}
}

// Deliver sends a pending message. On success the reply is appended if the
// chat is still current; on failure the optimistic message is removed. It
// is a no-op for a nil PendingSend.
func (m *Manager) Deliver(ctx context.Context, p *PendingSend) (*api.Message, error) {
	if p == nil {
		return nil, nil
	}
	log := logger.WithChat(p.ChatID).With("component", "session")

	reply, err := m.backend.SendMessage(ctx, p.ChatID, p.Message.Content)

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.sending > 0 {
		m.sending--
	}
	delete(m.inFlight, p.Message.ID)

	if err != nil {
		m.removeLocked(p.Message.ID)
		log.Warn("send failed, rolled back", "error", err)
		return nil, errors.Wrap("session.Deliver", err)
	}

	if reply == nil {
		return nil, nil
	}
	if p.epoch != m.epoch || m.current == nil || m.current.ID != p.ChatID {
		log.Debug("chat changed before reply arrived, not appending")
		return reply, nil
	}
	m.messages = append(m.messages, *reply)
	return reply, nil
}

// SendMessage is BeginSend followed by Deliver.
func (m *Manager) SendMessage(ctx context.Context, content string) (*api.Message, error) {
	return m.Deliver(ctx, m.BeginSend(content))
}

func (m *Manager) removeLocked(id string) {
	for i, msg := range m.messages {
		if msg.ID == id {
			m.messages = append(m.messages[:i:i], m.messages[i+1:]...)
			return
		}
	}
}
