package modals

import (
	"strings"

	tea "charm.land/bubbletea/v2"
	huh "charm.land/huh/v2"
	"charm.land/lipgloss/v2"

	"github.com/zhubert/parley/internal/keys"
	"github.com/zhubert/parley/internal/personality"
)

// =============================================================================
// NewChatState - name plus personality picker
// =============================================================================

type NewChatState struct {
	name        string
	personality string

	// Err is shown under the form after a failed create
	Err string
	// Submitting is set while the create request is in flight
	Submitting bool

	form *huh.Form
}

func (*NewChatState) modalState() {}

func (s *NewChatState) Title() string { return "New Chat" }

func (s *NewChatState) Help() string {
	if s.Submitting {
		return "Creating..."
	}
	return "Tab: next field  Enter: create  Esc: cancel"
}

func (s *NewChatState) Render() string {
	title := ModalTitleStyle.Render(s.Title())
	help := ModalHelpStyle.Render(s.Help())
	return joinNonEmpty(
		lipgloss.JoinVertical(lipgloss.Left, title, s.form.View()),
		renderError(s.Err),
		help,
	)
}

func (s *NewChatState) Update(msg tea.Msg) (ModalState, tea.Cmd) {
	if s.Submitting {
		return s, nil
	}
	if keyMsg, ok := msg.(tea.KeyPressMsg); ok && keyMsg.String() != keys.Enter && keyMsg.String() != keys.Escape {
		s.Err = ""
	}
	var cmd tea.Cmd
	s.form, cmd = huhFormUpdate(s.form, msg)
	return s, cmd
}

// GetName returns the trimmed chat name
func (s *NewChatState) GetName() string {
	return strings.TrimSpace(s.name)
}

// GetPersonality returns the chosen personality tag
func (s *NewChatState) GetPersonality() string {
	return personality.OrDefault(s.personality)
}

// NewNewChatState creates the dialog with preselected as the chosen
// personality, or the default when it is not a known tag.
func NewNewChatState(preselected string) *NewChatState {
	s := &NewChatState{personality: personality.OrDefault(preselected)}

	opts := personality.Options()
	options := make([]huh.Option[string], len(opts))
	for i, o := range opts {
		options[i] = huh.NewOption(o.Label, o.Tag)
	}

	s.form = newModalForm(ModalInputWidth,
		huh.NewInput().
			Title("Name").
			Placeholder("e.g. Math Help").
			CharLimit(ModalInputCharLimit).
			Value(&s.name),
		huh.NewSelect[string]().
			Title("Personality").
			Options(options...).
			Value(&s.personality),
	)
	return s
}

// =============================================================================
// ConfirmDeleteState - confirm before deleting a chat
// =============================================================================

type ConfirmDeleteState struct {
	ChatID      string
	ChatName    string
	Options     []string
	SelectedIdx int
}

func (*ConfirmDeleteState) modalState() {}

func (s *ConfirmDeleteState) Title() string { return "Delete Chat?" }

func (s *ConfirmDeleteState) Help() string {
	return "up/down: select  Enter: confirm  Esc: cancel"
}

func (s *ConfirmDeleteState) Render() string {
	title := ModalTitleStyle.Render(s.Title())

	name := lipgloss.NewStyle().
		Foreground(ColorSecondary).
		Bold(true).
		Render(TruncateString(s.ChatName, ModalInputWidth))
	warning := lipgloss.NewStyle().
		Foreground(ColorWarning).
		Render("All messages in this chat will be lost.")

	options := RenderSelectableList(s.Options, s.SelectedIdx)
	help := ModalHelpStyle.Render(s.Help())

	return lipgloss.JoinVertical(lipgloss.Left, title, name, warning, "", options, help)
}

func (s *ConfirmDeleteState) Update(msg tea.Msg) (ModalState, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyPressMsg); ok {
		switch keyMsg.String() {
		case keys.Up, "k", keys.ShiftTab:
			if s.SelectedIdx > 0 {
				s.SelectedIdx--
			}
		case keys.Down, "j", keys.Tab:
			if s.SelectedIdx < len(s.Options)-1 {
				s.SelectedIdx++
			}
		case "y":
			s.SelectedIdx = 0
		case "n":
			s.SelectedIdx = len(s.Options) - 1
		}
	}
	return s, nil
}

// Confirmed reports whether the delete option is selected
func (s *ConfirmDeleteState) Confirmed() bool {
	return s.SelectedIdx == 0
}

// NewConfirmDeleteState creates the dialog with Cancel preselected
func NewConfirmDeleteState(chatID, chatName string) *ConfirmDeleteState {
	return &ConfirmDeleteState{
		ChatID:      chatID,
		ChatName:    chatName,
		Options:     []string{"Delete", "Cancel"},
		SelectedIdx: 1,
	}
}
