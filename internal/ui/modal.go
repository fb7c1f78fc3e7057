package ui

import (
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/zhubert/parley/internal/ui/modals"
)

// Dialog states live in the modals package; these aliases keep app code
// reading ui.NewChatState and friends.
type (
	ModalState         = modals.ModalState
	HelpShortcut       = modals.HelpShortcut
	HelpSection        = modals.HelpSection
	NewChatState       = modals.NewChatState
	ConfirmDeleteState = modals.ConfirmDeleteState
	LoginState         = modals.LoginState
	SignupState        = modals.SignupState
	SettingsState      = modals.SettingsState
	HelpState          = modals.HelpState
)

var (
	NewNewChatState          = modals.NewNewChatState
	NewConfirmDeleteState    = modals.NewConfirmDeleteState
	NewLoginState            = modals.NewLoginState
	NewSignupState           = modals.NewSignupState
	NewHelpState             = modals.NewHelpState
)

// NewSettingsState opens the settings dialog with every built-in theme
func NewSettingsState(defaultPersonality string, notificationsEnabled bool) *SettingsState {
	names := ThemeNames()
	keys := make([]string, len(names))
	display := make([]string, len(names))
	for i, name := range names {
		keys[i] = string(name)
		display[i] = BuiltinThemes[name].Name
	}
	return modals.NewSettingsState(keys, display, string(CurrentThemeName()), defaultPersonality, notificationsEnabled)
}

// RefreshModalStyles pushes the active theme into the modals package
func RefreshModalStyles() {
	modals.SetStyles(modals.Palette{
		Primary:   ColorPrimary,
		Secondary: ColorSecondary,
		Text:      ColorText,
		Muted:     ColorTextMuted,
		Inverse:   ColorTextInverse,
		Warning:   ColorWarning,
		Error:     ColorError,
		Item:      SidebarItemStyle,
		Selected:  SidebarSelectedStyle,
	}, modals.Layout{
		Width:          ModalWidth,
		InputWidth:     ModalInputWidth,
		InputCharLimit: ModalInputCharLimit,
	})
}

// Modal shows at most one dialog over the main view. State is nil when
// nothing is open.
type Modal struct {
	State ModalState
}

// NewModal creates a new modal
func NewModal() *Modal {
	return &Modal{}
}

// Show displays a modal with the given state
func (m *Modal) Show(state ModalState) {
	m.State = state
}

// Hide hides the modal
func (m *Modal) Hide() {
	m.State = nil
}

// IsVisible returns whether the modal is visible
func (m *Modal) IsVisible() bool {
	return m.State != nil
}

// Update handles messages by delegating to the current state
func (m *Modal) Update(msg tea.Msg) (*Modal, tea.Cmd) {
	if m.State == nil {
		return m, nil
	}
	var cmd tea.Cmd
	m.State, cmd = m.State.Update(msg)
	return m, cmd
}

// View renders the dialog centered on a screen of the given size
func (m *Modal) View(screenWidth, screenHeight int) string {
	if m.State == nil {
		return ""
	}

	width := ModalWidth
	if p, ok := m.State.(modals.ModalWithPreferredWidth); ok {
		width = p.PreferredWidth()
	}
	if maxWidth := screenWidth - 4; width > maxWidth {
		width = maxWidth
	}
	if s, ok := m.State.(modals.ModalWithSize); ok {
		s.SetSize(width, screenHeight-6)
	}

	box := ModalStyle.Width(width).Render(m.State.Render())

	return lipgloss.Place(
		screenWidth, screenHeight,
		lipgloss.Center, lipgloss.Center,
		box,
	)
}
