package devserver

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/zhubert/parley/internal/errors"
)

// Stored message roles. The model side is "ai" on the wire.
const (
	roleUser = "user"
	roleAI   = "ai"
)

// User is an account row.
type User struct {
	ID             string
	Username       string
	Email          string
	HashedPassword string
}

// Chat is a chat row.
type Chat struct {
	ID          string
	UserID      string
	Name        string
	Personality string
	CreatedAt   time.Time
}

// Message is a message row.
type Message struct {
	ID        string
	ChatID    string
	Role      string
	Content   string
	CreatedAt time.Time
}

// Store persists users, chats and messages in SQLite.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// OpenStore opens (or creates) the database at dsn. ":memory:" gives a
// private in-memory database.
func OpenStore(ctx context.Context, dsn string) (*Store, error) {
	op := errors.Op("devserver.OpenStore")
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, errors.E(op, errors.KindIO, err)
	}
	// An in-memory database lives and dies with its connection
	db.SetMaxOpenConns(1)

	s := &Store{db: db, now: func() time.Time { return time.Now().UTC() }}
	if err := s.migrate(ctx); err != nil {
		db.Close()
		return nil, errors.E(op, errors.KindIO, err)
	}
	return s, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate(ctx context.Context) error {
	stmts := []string{
		`PRAGMA foreign_keys = ON`,
		`CREATE TABLE IF NOT EXISTS users (
			user_id         TEXT PRIMARY KEY,
			username        TEXT NOT NULL UNIQUE,
			email           TEXT NOT NULL UNIQUE,
			hashed_password TEXT NOT NULL,
			created_at      TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS chats (
			chat_id          TEXT PRIMARY KEY,
			user_id          TEXT NOT NULL REFERENCES users(user_id) ON DELETE CASCADE,
			chat_name        TEXT NOT NULL,
			personality_type TEXT NOT NULL,
			created_at       TEXT NOT NULL,
			UNIQUE (user_id, chat_name)
		)`,
		`CREATE TABLE IF NOT EXISTS messages (
			id         TEXT PRIMARY KEY,
			chat_id    TEXT NOT NULL REFERENCES chats(chat_id) ON DELETE CASCADE,
			role       TEXT NOT NULL,
			content    TEXT NOT NULL,
			created_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_messages_chat ON messages(chat_id)`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

// timeLayout has a fixed-width fraction so stored times sort as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func scanTime(s string) time.Time {
	t, _ := time.Parse(time.RFC3339Nano, s)
	return t
}

// =============================================================================
// Users
// =============================================================================

// UserExists reports which of email and username are already taken.
func (s *Store) UserExists(ctx context.Context, email, username string) (emailTaken, usernameTaken bool, err error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users WHERE email = ?`, email).Scan(&n); err != nil {
		return false, false, err
	}
	emailTaken = n > 0
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users WHERE username = ?`, username).Scan(&n); err != nil {
		return false, false, err
	}
	usernameTaken = n > 0
	return emailTaken, usernameTaken, nil
}

// CreateUser inserts a user with a fresh id.
func (s *Store) CreateUser(ctx context.Context, username, email, hashedPassword string) (*User, error) {
	u := &User{ID: uuid.NewString(), Username: username, Email: email, HashedPassword: hashedPassword}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO users (user_id, username, email, hashed_password, created_at) VALUES (?, ?, ?, ?, ?)`,
		u.ID, u.Username, u.Email, u.HashedPassword, formatTime(s.now()))
	if err != nil {
		if isUniqueViolation(err) {
			return nil, errors.E(errors.Op("devserver.CreateUser"), errors.KindConflict, err)
		}
		return nil, err
	}
	return u, nil
}

// FindUserByLogin looks a user up by email or username. It returns nil
// when there is no match.
func (s *Store) FindUserByLogin(ctx context.Context, login string) (*User, error) {
	return s.findUser(ctx, `SELECT user_id, username, email, hashed_password FROM users WHERE email = ? OR username = ? LIMIT 1`, login, login)
}

// GetUser returns the user with id, or nil.
func (s *Store) GetUser(ctx context.Context, id string) (*User, error) {
	return s.findUser(ctx, `SELECT user_id, username, email, hashed_password FROM users WHERE user_id = ?`, id)
}

func (s *Store) findUser(ctx context.Context, query string, args ...any) (*User, error) {
	u := &User{}
	err := s.db.QueryRowContext(ctx, query, args...).Scan(&u.ID, &u.Username, &u.Email, &u.HashedPassword)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return u, nil
}

// =============================================================================
// Chats
// =============================================================================

// ChatNameTaken reports whether userID already has a chat called name.
func (s *Store) ChatNameTaken(ctx context.Context, userID, name string) (bool, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM chats WHERE user_id = ? AND chat_name = ?`, userID, name).Scan(&n)
	return n > 0, err
}

// CreateChat inserts a chat for userID.
func (s *Store) CreateChat(ctx context.Context, userID, name, personality string) (*Chat, error) {
	c := &Chat{ID: uuid.NewString(), UserID: userID, Name: name, Personality: personality, CreatedAt: s.now()}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO chats (chat_id, user_id, chat_name, personality_type, created_at) VALUES (?, ?, ?, ?, ?)`,
		c.ID, c.UserID, c.Name, c.Personality, formatTime(c.CreatedAt))
	if err != nil {
		if isUniqueViolation(err) {
			return nil, errors.E(errors.Op("devserver.CreateChat"), errors.KindConflict, err)
		}
		return nil, err
	}
	return c, nil
}

// ListChats returns userID's chats, newest first.
func (s *Store) ListChats(ctx context.Context, userID string) ([]*Chat, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT chat_id, user_id, chat_name, personality_type, created_at
		 FROM chats WHERE user_id = ? ORDER BY created_at DESC, rowid DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []*Chat
	for rows.Next() {
		c := &Chat{}
		var created string
		if err := rows.Scan(&c.ID, &c.UserID, &c.Name, &c.Personality, &created); err != nil {
			return nil, err
		}
		c.CreatedAt = scanTime(created)
		list = append(list, c)
	}
	return list, rows.Err()
}

// GetChat returns the chat if it belongs to userID, or nil.
func (s *Store) GetChat(ctx context.Context, userID, chatID string) (*Chat, error) {
	c := &Chat{}
	var created string
	err := s.db.QueryRowContext(ctx,
		`SELECT chat_id, user_id, chat_name, personality_type, created_at
		 FROM chats WHERE chat_id = ? AND user_id = ?`, chatID, userID).
		Scan(&c.ID, &c.UserID, &c.Name, &c.Personality, &created)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	c.CreatedAt = scanTime(created)
	return c, nil
}

// DeleteChat removes a chat and its messages. It reports whether a chat
// owned by userID was deleted.
func (s *Store) DeleteChat(ctx context.Context, userID, chatID string) (bool, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return false, err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `DELETE FROM chats WHERE chat_id = ? AND user_id = ?`, chatID, userID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	if n == 0 {
		return false, nil
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM messages WHERE chat_id = ?`, chatID); err != nil {
		return false, err
	}
	return true, tx.Commit()
}

// =============================================================================
// Messages
// =============================================================================

// AddMessage appends a message to a chat.
func (s *Store) AddMessage(ctx context.Context, chatID, role, content string) (*Message, error) {
	m := &Message{ID: uuid.NewString(), ChatID: chatID, Role: role, Content: content, CreatedAt: s.now()}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO messages (id, chat_id, role, content, created_at) VALUES (?, ?, ?, ?, ?)`,
		m.ID, m.ChatID, m.Role, m.Content, formatTime(m.CreatedAt))
	if err != nil {
		return nil, err
	}
	return m, nil
}

// ListMessages returns a chat's messages, oldest first. A limit above zero
// keeps only the newest limit messages.
func (s *Store) ListMessages(ctx context.Context, chatID string, limit int) ([]*Message, error) {
	query := `SELECT id, chat_id, role, content, created_at FROM messages WHERE chat_id = ? ORDER BY created_at ASC, rowid ASC`
	args := []any{chatID}
	if limit > 0 {
		query = `SELECT * FROM (
			SELECT id, chat_id, role, content, created_at, rowid AS seq FROM messages
			WHERE chat_id = ? ORDER BY created_at DESC, rowid DESC LIMIT ?
		) ORDER BY created_at ASC, seq ASC`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []*Message
	for rows.Next() {
		m := &Message{}
		var created string
		dest := []any{&m.ID, &m.ChatID, &m.Role, &m.Content, &created}
		if limit > 0 {
			var seq int64
			dest = append(dest, &seq)
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, err
		}
		m.CreatedAt = scanTime(created)
		list = append(list, m)
	}
	return list, rows.Err()
}

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
