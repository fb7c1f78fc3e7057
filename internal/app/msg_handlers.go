package app

import (
	"fmt"

	tea "charm.land/bubbletea/v2"

	"github.com/zhubert/parley/internal/api"
	"github.com/zhubert/parley/internal/logger"
	"github.com/zhubert/parley/internal/notification"
	"github.com/zhubert/parley/internal/ui"
)

const genericFailure = "Something went wrong."

// handleChatsLoaded syncs the list. Fetch failures are already logged by
// the manager and otherwise ignored.
func (m *Model) handleChatsLoaded(msg ChatsLoadedMsg) (tea.Model, tea.Cmd) {
	cmds := []tea.Cmd{m.syncFromSession()}
	if msg.Err != nil {
		return m, tea.Batch(cmds...)
	}

	if id := m.pendingSelectID; id != "" {
		m.pendingSelectID = ""
		if _, ok := m.session.Chat(id); ok {
			cmds = append(cmds, m.openChat(id))
		} else {
			logger.WithChat(id).Debug("remembered chat no longer exists")
			m.rememberChat("")
		}
	}
	return m, tea.Batch(cmds...)
}

func (m *Model) handleChatLoaded(msg ChatLoadedMsg) (tea.Model, tea.Cmd) {
	cmd := m.syncFromSession()
	if msg.Err != nil {
		return m, cmd
	}
	if m.session.Snapshot().CurrentID() == msg.ChatID {
		m.rememberChat(msg.ChatID)
		m.sidebar.SelectChat(msg.ChatID)
		m.focusChat()
	}
	return m, cmd
}

func (m *Model) handleChatCreated(msg ChatCreatedMsg) (tea.Model, tea.Cmd) {
	state, _ := m.modal.State.(*ui.NewChatState)

	if msg.Err != nil {
		detail := api.DetailOr(msg.Err, genericFailure)
		if state != nil {
			state.Submitting = false
			state.Err = detail
		}
		return m, m.flashError(detail)
	}

	if state != nil {
		m.modal.Hide()
	}
	cmds := []tea.Cmd{
		m.syncFromSession(),
		m.flashSuccess(fmt.Sprintf("%q is ready to use.", msg.Name)),
	}
	if msg.Chat != nil && msg.Chat.ID != "" {
		cmds = append(cmds, m.openChat(msg.Chat.ID))
	}
	return m, tea.Batch(cmds...)
}

func (m *Model) handleChatDeleted(msg ChatDeletedMsg) (tea.Model, tea.Cmd) {
	cmd := m.syncFromSession()
	if msg.Err != nil {
		return m, tea.Batch(cmd, m.flashError(api.DetailOr(msg.Err, "Failed to delete chat.")))
	}
	if m.config.GetLastChatID() == msg.ChatID {
		m.rememberChat("")
	}
	return m, tea.Batch(cmd, m.flashInfo(fmt.Sprintf("Deleted %q", msg.Name)))
}

// handleReply syncs after a send. A failed send was already rolled back by
// the manager and shows no banner.
func (m *Model) handleReply(msg ReplyMsg) (tea.Model, tea.Cmd) {
	cmds := []tea.Cmd{m.syncFromSession()}
	if msg.Err != nil || msg.Reply == nil {
		return m, tea.Batch(cmds...)
	}

	if m.config.GetNotificationsEnabled() {
		name := ""
		if c, ok := m.session.Chat(msg.Pending.ChatID); ok {
			name = c.Name
		}
		cmds = append(cmds, func() tea.Msg {
			_ = notification.ReplyReceived(name)
			return nil
		})
	}
	return m, tea.Batch(cmds...)
}

func (m *Model) handleLoginResult(msg LoginResultMsg) (tea.Model, tea.Cmd) {
	state, _ := m.modal.State.(*ui.LoginState)

	if msg.Err != nil {
		if state != nil {
			state.Submitting = false
			state.Err = api.DetailOr(msg.Err, "Login failed.")
		}
		return m, nil
	}

	if err := m.creds.SetUsername(msg.Username); err != nil {
		logger.WithComponent("app").Warn("failed to save username", "error", err)
	}
	m.authenticated = true
	m.sidebar.SetUsername(msg.Username)
	m.pendingSelectID = m.config.GetLastChatID()
	if state != nil {
		m.modal.Hide()
	}
	return m, tea.Batch(
		m.flashSuccess("Signed in as "+msg.Username),
		m.startSession(),
	)
}

func (m *Model) handleSignupResult(msg SignupResultMsg) (tea.Model, tea.Cmd) {
	state, _ := m.modal.State.(*ui.SignupState)

	if msg.Err != nil {
		if state != nil {
			state.Submitting = false
			state.Err = api.DetailOr(msg.Err, "Signup failed.")
		}
		return m, nil
	}

	login := ui.NewLoginState(msg.Username)
	login.Notice = "Account created. Please sign in."
	m.modal.Show(login)
	return m, nil
}

// handleProfile shows the username from the server. Errors are ignored;
// a 401 reaches the app through the unauthorized hook.
func (m *Model) handleProfile(msg ProfileMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil || msg.User == nil || msg.User.Username == "" {
		return m, nil
	}
	m.sidebar.SetUsername(msg.User.Username)
	return m, nil
}

func (m *Model) handleUnauthorized() (tea.Model, tea.Cmd) {
	listen := m.listenForUnauthorized()
	if !m.authenticated {
		return m, listen
	}
	logger.WithComponent("app").Info("session expired, returning to login")
	return m, tea.Batch(listen, m.logout("Session expired. Please sign in again."))
}
