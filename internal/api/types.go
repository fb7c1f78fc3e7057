package api

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
	"time"
)

// Role identifies who wrote a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// ParseRole maps a wire role to a Role. Backends disagree on what to call
// the model side, so ai, assistant, bot and model all map to RoleAssistant.
// Anything else is treated as the user.
func ParseRole(s string) Role {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "ai", "assistant", "bot", "model":
		return RoleAssistant
	default:
		return RoleUser
	}
}

// Message is one entry in a chat transcript.
type Message struct {
	ID        string
	Role      Role
	Content   string
	Timestamp time.Time
}

// IsAssistant reports whether the message came from the model.
func (m Message) IsAssistant() bool {
	return m.Role == RoleAssistant
}

type wireMessage struct {
	ID        json.RawMessage `json:"id"`
	Role      string          `json:"role"`
	Content   string          `json:"content"`
	Timestamp string          `json:"timestamp"`
	Time      string          `json:"time"`
	CreatedAt string          `json:"created_at"`
}

// UnmarshalJSON decodes a message, normalizing role and timestamp fields.
func (m *Message) UnmarshalJSON(data []byte) error {
	var w wireMessage
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	*m = Message{
		ID:        rawString(w.ID),
		Role:      ParseRole(w.Role),
		Content:   w.Content,
		Timestamp: parseTime(firstNonEmpty(w.Timestamp, w.Time, w.CreatedAt)),
	}
	return nil
}

// Chat is a conversation with a fixed personality.
type Chat struct {
	ID          string
	Name        string
	Personality string
	CreatedAt   time.Time
	Messages    []Message
}

type wireChat struct {
	ChatID      json.RawMessage `json:"chat_id"`
	ID          json.RawMessage `json:"id"`
	ChatName    string          `json:"chat_name"`
	Name        string          `json:"name"`
	Personality *string         `json:"personality"`
	Mode        *string         `json:"mode"`
	CreatedAt   string          `json:"created_at"`
	Messages    []Message       `json:"messages"`
}

// UnmarshalJSON decodes a chat. The id comes from chat_id or id and the tag
// from personality or mode.
func (c *Chat) UnmarshalJSON(data []byte) error {
	var w wireChat
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	id := rawString(w.ChatID)
	if id == "" {
		id = rawString(w.ID)
	}
	tag := ""
	if w.Personality != nil && *w.Personality != "" {
		tag = *w.Personality
	} else if w.Mode != nil {
		tag = *w.Mode
	}
	*c = Chat{
		ID:          id,
		Name:        firstNonEmpty(w.ChatName, w.Name),
		Personality: tag,
		CreatedAt:   parseTime(w.CreatedAt),
		Messages:    w.Messages,
	}
	return nil
}

// User is the authenticated account.
type User struct {
	ID       string
	Username string
	Email    string
}

// UnmarshalJSON decodes a user from user_id or id.
func (u *User) UnmarshalJSON(data []byte) error {
	var w struct {
		UserID   json.RawMessage `json:"user_id"`
		ID       json.RawMessage `json:"id"`
		Username string          `json:"username"`
		Email    string          `json:"email"`
	}
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	id := rawString(w.UserID)
	if id == "" {
		id = rawString(w.ID)
	}
	*u = User{ID: id, Username: w.Username, Email: w.Email}
	return nil
}

// Token is the login response.
type Token struct {
	AccessToken      string `json:"access_token"`
	TokenType        string `json:"token_type"`
	ExpiresInMinutes int    `json:"expires_in_minutes,omitempty"`
}

// SignupResult is the signup response.
type SignupResult struct {
	Msg      string
	UserID   string
	Username string
}

// UnmarshalJSON decodes a signup response whose user_id may be numeric.
func (r *SignupResult) UnmarshalJSON(data []byte) error {
	var w struct {
		Msg      string          `json:"msg"`
		UserID   json.RawMessage `json:"user_id"`
		Username string          `json:"username"`
	}
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	*r = SignupResult{Msg: w.Msg, UserID: rawString(w.UserID), Username: w.Username}
	return nil
}

// rawString returns a JSON string or number as a string. Null and other
// values yield "".
func rawString(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return n.String()
	}
	return ""
}

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04:05.999999999Z07:00",
}

// parseTime accepts RFC 3339 and the naive ISO forms Python emits. Naive
// times are read as UTC. Anything unparseable is the zero time.
func parseTime(s string) time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	if secs, err := strconv.ParseFloat(s, 64); err == nil {
		return time.Unix(0, int64(secs*float64(time.Second))).UTC()
	}
	return time.Time{}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
