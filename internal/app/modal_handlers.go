package app

import (
	tea "charm.land/bubbletea/v2"

	"github.com/zhubert/parley/internal/keys"
	"github.com/zhubert/parley/internal/logger"
	"github.com/zhubert/parley/internal/ui"
)

// handleModalKey dispatches a key press to the handler for the open dialog
func (m *Model) handleModalKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	switch s := m.modal.State.(type) {
	case *ui.LoginState:
		return m.handleLoginModal(msg, s)
	case *ui.SignupState:
		return m.handleSignupModal(msg, s)
	case *ui.NewChatState:
		return m.handleNewChatModal(msg, s)
	case *ui.ConfirmDeleteState:
		return m.handleConfirmDeleteModal(msg, s)
	case *ui.SettingsState:
		return m.handleSettingsModal(msg, s)
	case *ui.HelpState:
		return m.handleHelpModal(msg, s)
	}
	modal, cmd := m.modal.Update(msg)
	m.modal = modal
	return m, cmd
}

// handleLoginModal cannot be dismissed: without a token there is nothing
// behind it.
func (m *Model) handleLoginModal(msg tea.KeyPressMsg, state *ui.LoginState) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case keys.Enter:
		if state.Submitting {
			return m, nil
		}
		if errMsg := state.Validate(); errMsg != "" {
			state.Err = errMsg
			return m, nil
		}
		state.Submitting = true
		state.Err = ""
		return m, m.login(state.GetUsername(), state.GetPassword())

	case keys.CtrlS:
		if state.Submitting {
			return m, nil
		}
		m.modal.Show(ui.NewSignupState())
		return m, nil

	case keys.Escape:
		return m, nil
	}
	modal, cmd := m.modal.Update(msg)
	m.modal = modal
	return m, cmd
}

func (m *Model) handleSignupModal(msg tea.KeyPressMsg, state *ui.SignupState) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case keys.Escape:
		if state.Submitting {
			return m, nil
		}
		m.modal.Show(ui.NewLoginState(m.creds.GetUsername()))
		return m, nil

	case keys.Enter:
		if state.Submitting {
			return m, nil
		}
		if errMsg := state.Validate(); errMsg != "" {
			state.Err = errMsg
			return m, nil
		}
		state.Submitting = true
		state.Err = ""
		return m, m.signup(state.GetUsername(), state.GetEmail(), state.GetPassword())
	}
	modal, cmd := m.modal.Update(msg)
	m.modal = modal
	return m, cmd
}

func (m *Model) handleNewChatModal(msg tea.KeyPressMsg, state *ui.NewChatState) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case keys.Escape:
		if state.Submitting {
			return m, nil
		}
		m.modal.Hide()
		return m, nil

	case keys.Enter:
		if state.Submitting {
			return m, nil
		}
		name := state.GetName()
		if name == "" {
			return m, m.flashWarning("Chat name required")
		}
		state.Submitting = true
		state.Err = ""
		logger.WithComponent("app").Debug("creating chat", "name", name, "personality", state.GetPersonality())
		return m, m.createChat(name, state.GetPersonality())
	}
	modal, cmd := m.modal.Update(msg)
	m.modal = modal
	return m, cmd
}

func (m *Model) handleConfirmDeleteModal(msg tea.KeyPressMsg, state *ui.ConfirmDeleteState) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case keys.Escape:
		m.modal.Hide()
		return m, nil

	case keys.Enter:
		m.modal.Hide()
		if !state.Confirmed() {
			return m, nil
		}
		return m, m.deleteChat(state.ChatID, state.ChatName)
	}
	modal, cmd := m.modal.Update(msg)
	m.modal = modal
	return m, cmd
}

func (m *Model) handleSettingsModal(msg tea.KeyPressMsg, state *ui.SettingsState) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case keys.Escape:
		m.modal.Hide()
		return m, nil

	case keys.Enter:
		m.modal.Hide()
		if state.ThemeChanged() {
			ui.SetThemeByName(state.GetSelectedTheme())
			m.chat.RefreshStyles()
		}
		m.config.SetTheme(state.GetSelectedTheme())
		m.config.SetDefaultPersonality(state.GetDefaultPersonality())
		m.config.SetNotificationsEnabled(state.NotificationsEnabled)
		if err := m.config.Save(); err != nil {
			logger.WithComponent("app").Warn("failed to save settings", "error", err)
			return m, m.flashError("Failed to save settings")
		}
		return m, m.flashSuccess("Settings saved")
	}
	modal, cmd := m.modal.Update(msg)
	m.modal = modal
	return m, cmd
}

// handleHelpModal closes on esc or ?, and on enter runs the highlighted
// shortcut.
func (m *Model) handleHelpModal(msg tea.KeyPressMsg, state *ui.HelpState) (tea.Model, tea.Cmd) {
	if state.Filtering() {
		modal, cmd := m.modal.Update(msg)
		m.modal = modal
		return m, cmd
	}

	switch msg.String() {
	case keys.Escape, "?", "q":
		m.modal.Hide()
		return m, nil

	case keys.Enter:
		sc := state.Selected()
		m.modal.Hide()
		if sc == nil {
			return m, nil
		}
		if key, ok := shortcutKeyForDisplay(sc.Key); ok {
			result, cmd, _ := m.ExecuteShortcut(key)
			return result, cmd
		}
		return m, nil
	}
	modal, cmd := m.modal.Update(msg)
	m.modal = modal
	return m, cmd
}
