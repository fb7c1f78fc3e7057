package app

import (
	tea "charm.land/bubbletea/v2"

	"github.com/zhubert/parley/internal/keys"
	"github.com/zhubert/parley/internal/logger"
	"github.com/zhubert/parley/internal/ui"
)

// Shortcut represents a keyboard shortcut with its metadata and handler.
// This is the single source of truth for all shortcuts in the application.
type Shortcut struct {
	Key             string                              // The key binding (e.g., "n", "ctrl+y")
	DisplayKey      string                              // Display name in help; defaults to Key
	Description     string                              // Human-readable description
	Category        string                              // Section for help modal grouping
	RequiresChat    bool                                // A chat must be open
	RequiresSidebar bool                                // Must not be in chat focus
	Handler         func(m *Model) (tea.Model, tea.Cmd) // Action to perform
	Condition       func(m *Model) bool                 // Optional extra condition
}

// Categories for organizing shortcuts in the help modal
const (
	CategoryNavigation = "Navigation"
	CategoryChats      = "Chats"
	CategoryMessages   = "Messages"
	CategoryGeneral    = "General"
)

// categoryOrder defines the display order of categories in the help modal
var categoryOrder = []string{
	CategoryNavigation,
	CategoryChats,
	CategoryMessages,
	CategoryGeneral,
}

// ShortcutRegistry lists every executable shortcut. Entries show up in the
// help dialog and can be run from it.
var ShortcutRegistry = []Shortcut{
	// Navigation
	{
		Key:         keys.Tab,
		DisplayKey:  "Tab",
		Description: "Switch between sidebar and chat",
		Category:    CategoryNavigation,
		Handler:     shortcutToggleFocus,
	},
	{
		Key:             "/",
		Description:     "Search chats",
		Category:        CategoryNavigation,
		RequiresSidebar: true,
		Handler:         shortcutSearch,
	},

	// Chats
	{
		Key:             "n",
		Description:     "New chat",
		Category:        CategoryChats,
		RequiresSidebar: true,
		Handler:         shortcutNewChat,
	},
	{
		Key:             "d",
		Description:     "Delete selected chat",
		Category:        CategoryChats,
		RequiresSidebar: true,
		Handler:         shortcutDeleteChat,
		Condition:       func(m *Model) bool { return m.sidebar.SelectedChat() != nil },
	},
	{
		Key:             "r",
		Description:     "Refresh chat list",
		Category:        CategoryChats,
		RequiresSidebar: true,
		Handler:         shortcutRefresh,
	},

	// Messages
	{
		Key:          keys.CtrlY,
		DisplayKey:   "ctrl-y",
		Description:  "Copy last reply",
		Category:     CategoryMessages,
		RequiresChat: true,
		Handler:      shortcutCopyReply,
	},

	// General
	{
		Key:             ",",
		Description:     "Settings",
		Category:        CategoryGeneral,
		RequiresSidebar: true,
		Handler:         shortcutSettings,
	},
	{
		Key:             "L",
		Description:     "Log out",
		Category:        CategoryGeneral,
		RequiresSidebar: true,
		Handler:         shortcutLogout,
	},
	{
		Key:             "q",
		Description:     "Quit application",
		Category:        CategoryGeneral,
		RequiresSidebar: true,
		Handler:         shortcutQuit,
	},
}

// helpShortcut is handled specially so it does not list itself as runnable
var helpShortcut = Shortcut{
	Key:             "?",
	Description:     "Show this help",
	Category:        CategoryGeneral,
	RequiresSidebar: true,
}

// DisplayOnlyShortcuts are shown in help but handled by the components
var DisplayOnlyShortcuts = []Shortcut{
	{DisplayKey: "↑/↓ or j/k", Description: "Navigate chat list", Category: CategoryNavigation},
	{DisplayKey: "Enter", Description: "Open chat / Send message", Category: CategoryNavigation},
	{DisplayKey: "PgUp/PgDn", Description: "Scroll messages", Category: CategoryNavigation},
	{DisplayKey: "Esc", Description: "Close chat / Clear search", Category: CategoryNavigation},

	{DisplayKey: "shift+enter", Description: "Insert newline", Category: CategoryMessages},
	{DisplayKey: "Mouse drag", Description: "Select text (auto-copies)", Category: CategoryMessages},
	{DisplayKey: "Double click", Description: "Copy word", Category: CategoryMessages},
}

// isShortcutApplicable reports whether s can run in the current state
func (m *Model) isShortcutApplicable(s Shortcut) bool {
	if s.RequiresSidebar && m.focus == FocusChat {
		return false
	}
	if s.RequiresChat && !m.chat.HasChat() {
		return false
	}
	if s.Condition != nil && !s.Condition(m) {
		return false
	}
	return true
}

// ExecuteShortcut runs the shortcut bound to key. handled is false when no
// shortcut applies, and the key should go to the focused panel.
func (m *Model) ExecuteShortcut(key string) (tea.Model, tea.Cmd, bool) {
	if m.sidebar.IsSearchMode() {
		return m, nil, false
	}

	if key == helpShortcut.Key {
		if !m.isShortcutApplicable(helpShortcut) {
			return m, nil, false
		}
		result, cmd := shortcutHelp(m)
		return result, cmd, true
	}

	for _, s := range ShortcutRegistry {
		if s.Key != key {
			continue
		}
		if !m.isShortcutApplicable(s) {
			logger.WithComponent("shortcuts").Debug("guard failed", "key", key, "focus", m.focus)
			return m, nil, false
		}
		result, cmd := s.Handler(m)
		return result, cmd, true
	}
	return m, nil, false
}

// shortcutKeyForDisplay maps a help entry back to its registry key
func shortcutKeyForDisplay(display string) (string, bool) {
	for _, s := range ShortcutRegistry {
		if s.Key == display || s.DisplayKey == display {
			return s.Key, true
		}
	}
	return "", false
}

// getApplicableHelpSections groups the shortcuts that apply right now
func (m *Model) getApplicableHelpSections() []ui.HelpSection {
	categories := make(map[string][]ui.HelpShortcut)

	add := func(s Shortcut) {
		displayKey := s.DisplayKey
		if displayKey == "" {
			displayKey = s.Key
		}
		categories[s.Category] = append(categories[s.Category], ui.HelpShortcut{
			Key:  displayKey,
			Desc: s.Description,
		})
	}

	for _, s := range ShortcutRegistry {
		if m.isShortcutApplicable(s) {
			add(s)
		}
	}
	for _, s := range DisplayOnlyShortcuts {
		add(s)
	}
	add(helpShortcut)

	var sections []ui.HelpSection
	for _, cat := range categoryOrder {
		if shortcuts, ok := categories[cat]; ok && len(shortcuts) > 0 {
			sections = append(sections, ui.HelpSection{
				Title:     cat,
				Shortcuts: shortcuts,
			})
		}
	}
	return sections
}

// =============================================================================
// Shortcut Handlers
// =============================================================================

func shortcutToggleFocus(m *Model) (tea.Model, tea.Cmd) {
	m.toggleFocus()
	return m, nil
}

func shortcutSearch(m *Model) (tea.Model, tea.Cmd) {
	return m, m.sidebar.EnterSearchMode()
}

func shortcutNewChat(m *Model) (tea.Model, tea.Cmd) {
	m.modal.Show(ui.NewNewChatState(m.config.GetDefaultPersonality()))
	return m, nil
}

// shortcutDeleteChat asks for confirmation. The highlighted chat is not
// opened.
func shortcutDeleteChat(m *Model) (tea.Model, tea.Cmd) {
	sel := m.sidebar.SelectedChat()
	m.modal.Show(ui.NewConfirmDeleteState(sel.ID, sel.Name))
	return m, nil
}

func shortcutRefresh(m *Model) (tea.Model, tea.Cmd) {
	return m, m.fetchChats()
}

func shortcutCopyReply(m *Model) (tea.Model, tea.Cmd) {
	return m, m.copyLastReply()
}

func shortcutSettings(m *Model) (tea.Model, tea.Cmd) {
	m.modal.Show(ui.NewSettingsState(m.config.GetDefaultPersonality(), m.config.GetNotificationsEnabled()))
	return m, nil
}

func shortcutLogout(m *Model) (tea.Model, tea.Cmd) {
	return m, m.logout("Signed out.")
}

func shortcutQuit(m *Model) (tea.Model, tea.Cmd) {
	return m.quit()
}

func shortcutHelp(m *Model) (tea.Model, tea.Cmd) {
	m.modal.Show(ui.NewHelpState(m.getApplicableHelpSections(), ui.HelpModalMaxVisible))
	return m, nil
}
