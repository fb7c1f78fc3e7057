package modals

import (
	"strings"

	tea "charm.land/bubbletea/v2"
	huh "charm.land/huh/v2"
	"charm.land/lipgloss/v2"

	"github.com/zhubert/parley/internal/keys"
)

// =============================================================================
// LoginState - username or email plus password
// =============================================================================

type LoginState struct {
	username string
	password string

	// Notice is shown above the form, e.g. after signup or a lost session
	Notice string
	// Err is shown under the form after a failed login
	Err        string
	Submitting bool

	form *huh.Form
}

func (*LoginState) modalState() {}

func (s *LoginState) Title() string { return "Sign in to Parley" }

func (s *LoginState) Help() string {
	if s.Submitting {
		return "Signing in..."
	}
	return "Tab: next field  Enter: sign in  ctrl+s: create account  ctrl+c: quit"
}

func (s *LoginState) Render() string {
	title := ModalTitleStyle.Render(s.Title())
	var notice string
	if s.Notice != "" {
		notice = lipgloss.NewStyle().Foreground(ColorSecondary).Render(s.Notice)
	}
	return joinNonEmpty(
		title,
		notice,
		s.form.View(),
		renderError(s.Err),
		ModalHelpStyle.Render(s.Help()),
	)
}

func (s *LoginState) Update(msg tea.Msg) (ModalState, tea.Cmd) {
	if s.Submitting {
		return s, nil
	}
	if keyMsg, ok := msg.(tea.KeyPressMsg); ok && keyMsg.String() != keys.Enter {
		s.Err = ""
	}
	var cmd tea.Cmd
	s.form, cmd = huhFormUpdate(s.form, msg)
	return s, cmd
}

// GetUsername returns the trimmed username or email
func (s *LoginState) GetUsername() string {
	return strings.TrimSpace(s.username)
}

// GetPassword returns the password as typed
func (s *LoginState) GetPassword() string {
	return s.password
}

// Validate returns a message when a required field is empty
func (s *LoginState) Validate() string {
	if s.GetUsername() == "" || s.password == "" {
		return "Username and password are required"
	}
	return ""
}

// NewLoginState creates the login dialog with username prefilled
func NewLoginState(username string) *LoginState {
	s := &LoginState{username: username}
	s.form = newModalForm(ModalInputWidth,
		huh.NewInput().
			Title("Username or email").
			CharLimit(ModalInputCharLimit).
			Value(&s.username),
		huh.NewInput().
			Title("Password").
			EchoMode(huh.EchoModePassword).
			CharLimit(ModalInputCharLimit).
			Value(&s.password),
	)
	if username != "" {
		s.form.NextField()
	}
	return s
}

// =============================================================================
// SignupState - create an account
// =============================================================================

type SignupState struct {
	username string
	email    string
	password string

	Err        string
	Submitting bool

	form *huh.Form
}

func (*SignupState) modalState() {}

func (s *SignupState) Title() string { return "Create an account" }

func (s *SignupState) Help() string {
	if s.Submitting {
		return "Creating account..."
	}
	return "Tab: next field  Enter: sign up  Esc: back to sign in"
}

func (s *SignupState) Render() string {
	return joinNonEmpty(
		ModalTitleStyle.Render(s.Title()),
		s.form.View(),
		renderError(s.Err),
		ModalHelpStyle.Render(s.Help()),
	)
}

func (s *SignupState) Update(msg tea.Msg) (ModalState, tea.Cmd) {
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

// GetUsername returns the trimmed username
func (s *SignupState) GetUsername() string { return strings.TrimSpace(s.username) }

// GetEmail returns the trimmed email
func (s *SignupState) GetEmail() string { return strings.TrimSpace(s.email) }

// GetPassword returns the password as typed
func (s *SignupState) GetPassword() string { return s.password }

// Validate returns a message describing the first invalid field, or ""
func (s *SignupState) Validate() string {
	switch {
	case s.GetUsername() == "":
		return "Username is required"
	case !strings.Contains(s.GetEmail(), "@"):
		return "A valid email is required"
	case len(s.password) < 6:
		return "Password must be at least 6 characters"
	}
	return ""
}

// NewSignupState creates the signup dialog
func NewSignupState() *SignupState {
	s := &SignupState{}
	s.form = newModalForm(ModalInputWidth,
		huh.NewInput().
			Title("Username").
			CharLimit(ModalInputCharLimit).
			Value(&s.username),
		huh.NewInput().
			Title("Email").
			CharLimit(ModalInputCharLimit).
			Value(&s.email),
		huh.NewInput().
			Title("Password").
			EchoMode(huh.EchoModePassword).
			CharLimit(ModalInputCharLimit).
			Value(&s.password),
	)
	return s
}
