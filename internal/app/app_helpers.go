package app

import (
	tea "charm.land/bubbletea/v2"

	"github.com/zhubert/parley/internal/logger"
	"github.com/zhubert/parley/internal/ui"
)

// =============================================================================
// Focus Management
// =============================================================================

func (m *Model) toggleFocus() {
	if m.focus == FocusSidebar {
		// Only allow switching to chat if a chat is open
		if !m.chat.HasChat() {
			return
		}
		m.focusChat()
	} else {
		m.focusSidebar()
	}
}

func (m *Model) focusChat() {
	m.focus = FocusChat
	m.sidebar.SetFocused(false)
	m.chat.SetFocused(true)
}

func (m *Model) focusSidebar() {
	m.focus = FocusSidebar
	m.sidebar.SetFocused(true)
	m.chat.SetFocused(false)
}

// =============================================================================
// Session Sync
// =============================================================================

// syncFromSession copies the manager's state into the components. Every
// handler that touches the manager ends with it.
func (m *Model) syncFromSession() tea.Cmd {
	s := m.session.Snapshot()
	var cmds []tea.Cmd

	m.sidebar.SetChats(s.Chats)
	m.sidebar.SetCurrent(s.CurrentID())
	cmds = append(cmds, m.sidebar.SetLoading(s.Loading))

	if s.Current != nil {
		m.chat.SetChat(s.Current.Name, s.Current.Personality, s.Messages)
		m.header.SetChat(s.Current.Name, s.Current.Personality)
		cmds = append(cmds, m.chat.SetSending(s.Sending))
	} else {
		if m.chat.HasChat() {
			m.chat.ClearChat()
		}
		m.header.ClearChat()
		if m.focus == FocusChat {
			m.focusSidebar()
		}
	}
	return tea.Batch(cmds...)
}

// =============================================================================
// Chat Actions
// =============================================================================

// openChat loads a chat and moves focus to the composer once it arrives
func (m *Model) openChat(id string) tea.Cmd {
	logger.WithChat(id).Debug("opening chat")
	m.sidebar.SelectChat(id)
	return m.loadChat(id)
}

// sendMessage takes the composer text, appends it optimistically and
// starts delivery. Blank input and a disabled composer send nothing.
func (m *Model) sendMessage() tea.Cmd {
	content, ok := m.chat.Submit()
	if !ok {
		return nil
	}
	pending := m.session.BeginSend(content)
	if pending == nil {
		return nil
	}
	return tea.Batch(m.syncFromSession(), m.deliver(pending))
}

// clearCurrentChat closes the open chat without a network call
func (m *Model) clearCurrentChat() tea.Cmd {
	m.session.ClearCurrentChat()
	m.rememberChat("")
	return m.syncFromSession()
}

// copyLastReply puts the newest assistant message on the clipboard
func (m *Model) copyLastReply() tea.Cmd {
	msg, ok := m.session.Snapshot().LastAssistant()
	if !ok {
		return m.flashInfo("No reply to copy yet")
	}
	return ui.CopyText(msg.Content)
}

// rememberChat records the chat to reopen on the next start
func (m *Model) rememberChat(id string) {
	if m.config.GetLastChatID() == id {
		return
	}
	m.config.SetLastChatID(id)
	if err := m.config.Save(); err != nil {
		logger.WithComponent("app").Warn("failed to save config", "error", err)
	}
}

// =============================================================================
// Authentication
// =============================================================================

// logout drops the token and every piece of chat state, then shows login
// with notice above the form.
func (m *Model) logout(notice string) tea.Cmd {
	if err := m.backend.Logout(); err != nil {
		logger.WithComponent("app").Warn("failed to clear token", "error", err)
	}
	m.authenticated = false
	m.pendingSelectID = ""
	m.session.Reset()
	if m.sidebar.IsSearchMode() || m.sidebar.HasFilter() {
		m.sidebar.ExitSearchMode()
	}
	cmd := m.syncFromSession()
	m.focusSidebar()

	login := ui.NewLoginState(m.creds.GetUsername())
	login.Notice = notice
	m.modal.Show(login)
	return cmd
}
