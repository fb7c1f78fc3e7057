package modals

import (
	"slices"

	tea "charm.land/bubbletea/v2"
	huh "charm.land/huh/v2"
	"charm.land/lipgloss/v2"

	"github.com/zhubert/parley/internal/personality"
)

// ModalWidthWide is the width of the settings dialog
const ModalWidthWide = 70

const optionNotifications = "notifications"

// SettingsState edits theme, default personality and notifications
type SettingsState struct {
	selectedTheme      string
	OriginalTheme      string
	defaultPersonality string

	NotificationsEnabled bool
	generalOptions       []string

	form *huh.Form

	availableWidth int
}

func (*SettingsState) modalState() {}

func (s *SettingsState) PreferredWidth() int { return ModalWidthWide }

// SetSize updates the available width for rendering content.
func (s *SettingsState) SetSize(width, height int) {
	s.availableWidth = width
	s.form.WithWidth(s.contentWidth())
}

func (s *SettingsState) contentWidth() int {
	if s.availableWidth > 0 {
		return s.availableWidth - 10
	}
	return ModalWidthWide - 10
}

func (s *SettingsState) Title() string { return "Settings" }

func (s *SettingsState) Help() string {
	return "Tab: next field  Space: toggle  Enter: save  Esc: cancel"
}

func (s *SettingsState) Render() string {
	title := ModalTitleStyle.Render(s.Title())
	help := ModalHelpStyle.Render(s.Help())
	return lipgloss.JoinVertical(lipgloss.Left, title, s.form.View(), help)
}

func (s *SettingsState) Update(msg tea.Msg) (ModalState, tea.Cmd) {
	var cmd tea.Cmd
	s.form, cmd = huhFormUpdate(s.form, msg)
	s.NotificationsEnabled = slices.Contains(s.generalOptions, optionNotifications)
	return s, cmd
}

// GetSelectedTheme returns the selected theme key.
func (s *SettingsState) GetSelectedTheme() string {
	return s.selectedTheme
}

// ThemeChanged returns true if the selected theme differs from the original.
func (s *SettingsState) ThemeChanged() bool {
	return s.selectedTheme != s.OriginalTheme
}

// GetDefaultPersonality returns the tag preselected in the new chat dialog
func (s *SettingsState) GetDefaultPersonality() string {
	return personality.OrDefault(s.defaultPersonality)
}

// NewSettingsState creates a SettingsState with the current values.
// themes and themeDisplayNames are parallel slices.
func NewSettingsState(themes, themeDisplayNames []string, currentTheme, defaultPersonality string, notificationsEnabled bool) *SettingsState {
	s := &SettingsState{
		selectedTheme:        currentTheme,
		OriginalTheme:        currentTheme,
		defaultPersonality:   personality.OrDefault(defaultPersonality),
		NotificationsEnabled: notificationsEnabled,
		availableWidth:       ModalWidthWide,
	}
	if notificationsEnabled {
		s.generalOptions = []string{optionNotifications}
	}

	themeOptions := make([]huh.Option[string], len(themes))
	for i := range themes {
		themeOptions[i] = huh.NewOption(themeDisplayNames[i], themes[i])
	}

	opts := personality.Options()
	personalityOptions := make([]huh.Option[string], len(opts))
	for i, o := range opts {
		personalityOptions[i] = huh.NewOption(o.Label, o.Tag)
	}

	generalOpts := []huh.Option[string]{
		huh.NewOption("Desktop notification when a reply arrives", optionNotifications).
			Selected(notificationsEnabled),
	}

	s.form = newModalForm(s.contentWidth(),
		huh.NewSelect[string]().
			Title("Theme").
			Options(themeOptions...).
			Value(&s.selectedTheme),
		huh.NewSelect[string]().
			Title("Default personality").
			Description("Preselected when starting a new chat").
			Options(personalityOptions...).
			Value(&s.defaultPersonality),
		huh.NewMultiSelect[string]().
			Title("Options").
			Options(generalOpts...).
			Height(len(generalOpts)).
			Value(&s.generalOptions),
	)
	return s
}
