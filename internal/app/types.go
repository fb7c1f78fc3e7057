package app

import (
	"github.com/zhubert/parley/internal/api"
	"github.com/zhubert/parley/internal/session"
)

// ChatsLoadedMsg is sent when a chat list fetch settles
type ChatsLoadedMsg struct {
	Err error
}

// ChatLoadedMsg is sent when a chat detail fetch settles
type ChatLoadedMsg struct {
	ChatID string
	Err    error
}

// ChatCreatedMsg is sent when a create request settles
type ChatCreatedMsg struct {
	Name string
	Chat *api.Chat
	Err  error
}

// ChatDeletedMsg is sent when a delete request settles
type ChatDeletedMsg struct {
	ChatID string
	Name   string
	Err    error
}

// ReplyMsg is sent when a message send settles
type ReplyMsg struct {
	Pending *session.PendingSend
	Reply   *api.Message
	Err     error
}

// LoginResultMsg is sent when a login request settles
type LoginResultMsg struct {
	Username string
	Err      error
}

// SignupResultMsg is sent when a signup request settles
type SignupResultMsg struct {
	Username string
	Err      error
}

// ProfileMsg carries the authenticated user
type ProfileMsg struct {
	User *api.User
	Err  error
}

// UnauthorizedMsg is sent after the client saw a 401 and dropped the token
type UnauthorizedMsg struct{}
