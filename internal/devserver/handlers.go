package devserver

import (
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v5"

	"github.com/zhubert/parley/internal/errors"
	"github.com/zhubert/parley/internal/personality"
)

// =============================================================================
// Wire types
// =============================================================================

type signupRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type signupResponse struct {
	Msg      string `json:"msg"`
	UserID   string `json:"user_id"`
	Username string `json:"username"`
}

type tokenResponse struct {
	AccessToken      string `json:"access_token"`
	TokenType        string `json:"token_type"`
	ExpiresInMinutes int    `json:"expires_in_minutes"`
}

type userResponse struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

type chatSummary struct {
	ChatID    string `json:"chat_id"`
	ChatName  string `json:"chat_name"`
	Mode      string `json:"mode"`
	CreatedAt string `json:"created_at"`
}

type messageResponse struct {
	Role    string `json:"role"`
	Content string `json:"content"`
	Time    string `json:"time"`
}

type chatDetail struct {
	ChatID   string            `json:"chat_id"`
	ChatName string            `json:"chat_name"`
	Mode     string            `json:"mode"`
	Messages []messageResponse `json:"messages"`
}

type createChatRequest struct {
	ChatName    string `json:"chat_name"`
	Personality string `json:"personality"`
}

type createChatResponse struct {
	Msg    string `json:"msg"`
	ChatID string `json:"chat_id"`
	Mode   string `json:"mode"`
}

type sendRequest struct {
	ChatID  string `json:"chat_id"`
	Message string `json:"message"`
}

type sendResponse struct {
	Reply string `json:"reply"`
}

type msgResponse struct {
	Msg string `json:"msg"`
}

// =============================================================================
// Auth
// =============================================================================

func (s *Server) signup(c *echo.Context) error {
	ctx := c.Request().Context()
	var req signupRequest
	if err := c.Bind(&req); err != nil {
		return detail(c, http.StatusBadRequest, "Invalid request body")
	}
	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	switch {
	case req.Username == "" || req.Password == "":
		return detail(c, http.StatusBadRequest, "Username, email and password are required")
	case !validEmail(req.Email):
		return detail(c, http.StatusBadRequest, "A valid email address is required")
	}

	emailTaken, usernameTaken, err := s.store.UserExists(ctx, req.Email, req.Username)
	if err != nil {
		return s.internalError(c, err)
	}
	if emailTaken {
		return detail(c, http.StatusBadRequest, "Email already registered")
	}
	if usernameTaken {
		return detail(c, http.StatusBadRequest, "Username already taken")
	}

	hash, err := hashPassword(req.Password, s.cost)
	if err != nil {
		return s.internalError(c, err)
	}
	user, err := s.store.CreateUser(ctx, req.Username, req.Email, hash)
	if errors.Is(err, errors.KindConflict) {
		return detail(c, http.StatusBadRequest, "Username already taken")
	}
	if err != nil {
		return s.internalError(c, err)
	}

	s.log.Info("user created", "username", user.Username)
	return c.JSON(http.StatusOK, signupResponse{Msg: "User created", UserID: user.ID, Username: user.Username})
}

// login takes OAuth2 password form fields. The username field may hold
// either the username or the email.
func (s *Server) login(c *echo.Context) error {
	ctx := c.Request().Context()
	login := strings.TrimSpace(c.FormValue("username"))
	password := c.FormValue("password")

	user, err := s.store.FindUserByLogin(ctx, login)
	if err != nil {
		return s.internalError(c, err)
	}
	if user == nil || !checkPassword(user.HashedPassword, password) {
		c.Response().Header().Set("WWW-Authenticate", "Bearer")
		return detail(c, http.StatusUnauthorized, "Incorrect email/username or password")
	}

	token, err := s.tokens.issue(user.ID)
	if err != nil {
		return s.internalError(c, err)
	}
	return c.JSON(http.StatusOK, tokenResponse{
		AccessToken:      token,
		TokenType:        "bearer",
		ExpiresInMinutes: int(s.tokens.ttl / time.Minute),
	})
}

func (s *Server) me(c *echo.Context) error {
	u := currentUser(c)
	return c.JSON(http.StatusOK, userResponse{UserID: u.ID, Username: u.Username, Email: u.Email})
}

// =============================================================================
// Chats
// =============================================================================

func (s *Server) listChats(c *echo.Context) error {
	chats, err := s.store.ListChats(c.Request().Context(), currentUser(c).ID)
	if err != nil {
		return s.internalError(c, err)
	}
	resp := make([]chatSummary, 0, len(chats))
	for _, ch := range chats {
		resp = append(resp, chatSummary{
			ChatID:    ch.ID,
			ChatName:  ch.Name,
			Mode:      ch.Personality,
			CreatedAt: formatTime(ch.CreatedAt),
		})
	}
	return c.JSON(http.StatusOK, resp)
}

func (s *Server) getChat(c *echo.Context) error {
	ctx := c.Request().Context()
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		return detail(c, http.StatusBadRequest, "Invalid Chat ID format")
	}

	chat, err := s.store.GetChat(ctx, currentUser(c).ID, id)
	if err != nil {
		return s.internalError(c, err)
	}
	if chat == nil {
		return detail(c, http.StatusNotFound, "Chat not found")
	}

	msgs, err := s.store.ListMessages(ctx, chat.ID, 0)
	if err != nil {
		return s.internalError(c, err)
	}
	resp := chatDetail{ChatID: chat.ID, ChatName: chat.Name, Mode: chat.Personality, Messages: make([]messageResponse, 0, len(msgs))}
	for _, m := range msgs {
		resp.Messages = append(resp.Messages, messageResponse{Role: m.Role, Content: m.Content, Time: formatTime(m.CreatedAt)})
	}
	return c.JSON(http.StatusOK, resp)
}

func (s *Server) createChat(c *echo.Context) error {
	ctx := c.Request().Context()
	user := currentUser(c)
	var req createChatRequest
	if err := c.Bind(&req); err != nil {
		return detail(c, http.StatusBadRequest, "Invalid request body")
	}

	tag := personality.Normalize(req.Personality)
	if !personality.Valid(tag) {
		return detail(c, http.StatusBadRequest, "Invalid personality. Allowed types: "+strings.Join(personality.Tags(), ", "))
	}
	name := strings.TrimSpace(req.ChatName)
	if name == "" {
		return detail(c, http.StatusBadRequest, "Chat name cannot be empty.")
	}

	taken, err := s.store.ChatNameTaken(ctx, user.ID, name)
	if err != nil {
		return s.internalError(c, err)
	}
	if taken {
		return detail(c, http.StatusBadRequest, "Chat name already exists")
	}

	chat, err := s.store.CreateChat(ctx, user.ID, name, tag)
	if errors.Is(err, errors.KindConflict) {
		return detail(c, http.StatusBadRequest, "Chat name already exists")
	}
	if err != nil {
		return s.internalError(c, err)
	}

	s.log.Debug("chat created", "chat_id", chat.ID, "personality", tag)
	return c.JSON(http.StatusOK, createChatResponse{Msg: "Chat created", ChatID: chat.ID, Mode: tag})
}

func (s *Server) deleteChat(c *echo.Context) error {
	deleted, err := s.store.DeleteChat(c.Request().Context(), currentUser(c).ID, c.Param("id"))
	if err != nil {
		return s.internalError(c, err)
	}
	if !deleted {
		return detail(c, http.StatusNotFound, "Chat not found")
	}
	return c.JSON(http.StatusOK, msgResponse{Msg: "Chat deleted successfully"})
}

// sendMessage stores the user's message, asks the responder for a reply
// over the recent history and stores that too.
func (s *Server) sendMessage(c *echo.Context) error {
	ctx := c.Request().Context()
	var req sendRequest
	if err := c.Bind(&req); err != nil {
		return detail(c, http.StatusBadRequest, "Invalid request body")
	}

	content := sanitize(req.Message)
	if content == "" {
		return detail(c, http.StatusBadRequest, "Message cannot be empty.")
	}

	chat, err := s.store.GetChat(ctx, currentUser(c).ID, req.ChatID)
	if err != nil {
		return s.internalError(c, err)
	}
	if chat == nil {
		return detail(c, http.StatusNotFound, "Chat not found or access denied")
	}

	if _, err := s.store.AddMessage(ctx, chat.ID, roleUser, content); err != nil {
		return s.internalError(c, err)
	}
	history, err := s.store.ListMessages(ctx, chat.ID, historyLimit)
	if err != nil {
		return s.internalError(c, err)
	}

	reply, err := s.responder.Reply(ctx, chat.Personality, history)
	if err != nil {
		return s.internalError(c, err)
	}
	if _, err := s.store.AddMessage(ctx, chat.ID, roleAI, reply); err != nil {
		return s.internalError(c, err)
	}
	return c.JSON(http.StatusOK, sendResponse{Reply: reply})
}

// =============================================================================
// Input cleaning
// =============================================================================

// sanitize drops control characters other than newline, tab and carriage
// return, then trims. Emoji and other printable text are kept.
func sanitize(text string) string {
	cleaned := strings.Map(func(r rune) rune {
		switch {
		case r == '\n' || r == '\t' || r == '\r':
			return r
		case r < 0x20 || r == 0x7f:
			return -1
		default:
			return r
		}
	}, text)
	return strings.TrimSpace(cleaned)
}

func validEmail(email string) bool {
	local, domain, ok := strings.Cut(email, "@")
	return ok && local != "" && strings.Contains(domain, ".") && !strings.ContainsAny(email, " \t")
}
