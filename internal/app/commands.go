package app

import (
	tea "charm.land/bubbletea/v2"

	"github.com/zhubert/parley/internal/session"
)

// Each command runs one network call off the event loop and reports back
// with a result message. The session manager is safe for concurrent use.

func (m *Model) fetchChats() tea.Cmd {
	loading := m.sidebar.SetLoading(true)
	ctx := m.ctx
	return tea.Batch(loading, func() tea.Msg {
		return ChatsLoadedMsg{Err: m.session.FetchChats(ctx)}
	})
}

func (m *Model) loadChat(id string) tea.Cmd {
	loading := m.sidebar.SetLoading(true)
	ctx := m.ctx
	return tea.Batch(loading, func() tea.Msg {
		return ChatLoadedMsg{ChatID: id, Err: m.session.SelectChat(ctx, id)}
	})
}

func (m *Model) createChat(name, personality string) tea.Cmd {
	ctx := m.ctx
	return func() tea.Msg {
		chat, err := m.session.CreateChat(ctx, name, personality)
		return ChatCreatedMsg{Name: name, Chat: chat, Err: err}
	}
}

func (m *Model) deleteChat(id, name string) tea.Cmd {
	ctx := m.ctx
	return func() tea.Msg {
		return ChatDeletedMsg{ChatID: id, Name: name, Err: m.session.DeleteChat(ctx, id)}
	}
}

func (m *Model) deliver(p *session.PendingSend) tea.Cmd {
	ctx := m.ctx
	return func() tea.Msg {
		reply, err := m.session.Deliver(ctx, p)
		return ReplyMsg{Pending: p, Reply: reply, Err: err}
	}
}

func (m *Model) login(username, password string) tea.Cmd {
	ctx := m.ctx
	return func() tea.Msg {
		_, err := m.backend.Login(ctx, username, password)
		return LoginResultMsg{Username: username, Err: err}
	}
}

func (m *Model) signup(username, email, password string) tea.Cmd {
	ctx := m.ctx
	return func() tea.Msg {
		_, err := m.backend.Signup(ctx, username, email, password)
		return SignupResultMsg{Username: username, Err: err}
	}
}

func (m *Model) fetchProfile() tea.Cmd {
	ctx := m.ctx
	return func() tea.Msg {
		user, err := m.backend.Me(ctx)
		return ProfileMsg{User: user, Err: err}
	}
}
