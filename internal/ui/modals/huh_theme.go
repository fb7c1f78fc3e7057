package modals

import (
	"image/color"

	"charm.land/bubbles/v2/help"
	tea "charm.land/bubbletea/v2"
	huh "charm.land/huh/v2"
	"charm.land/lipgloss/v2"

	"github.com/zhubert/parley/internal/keys"
)

// newModalForm builds a stacked, themed form sized for a modal
func newModalForm(width int, fields ...huh.Field) *huh.Form {
	form := huh.NewForm(huh.NewGroup(fields...)).
		WithTheme(ModalTheme()).
		WithShowHelp(false).
		WithWidth(width).
		WithLayout(huh.LayoutStack)
	// Init eagerly so the first View is fully laid out
	form.Init()
	return form
}

// huhFormUpdate forwards msg to form. Enter and Escape are swallowed because
// the app decides what submitting or cancelling a dialog means.
func huhFormUpdate(form *huh.Form, msg tea.Msg) (*huh.Form, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyPressMsg); ok {
		switch keyMsg.String() {
		case keys.Enter, keys.Escape:
			return form, nil
		}
	}

	m, cmd := form.Update(msg)
	if f, ok := m.(*huh.Form); ok {
		form = f
	}
	return form, cmd
}

func fg(c color.Color) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(c)
}

// ModalTheme returns a huh theme drawn from the current palette. Forms call
// it on construction, so a theme switch applies to the next dialog opened.
func ModalTheme() huh.Theme {
	return huh.ThemeFunc(func(isDark bool) *huh.Styles {
		t := huh.ThemeBase(isDark)

		// The focused field is marked by a left rule in the primary color
		f := &t.Focused
		f.Base = lipgloss.NewStyle().
			PaddingLeft(1).
			BorderStyle(lipgloss.NormalBorder()).
			BorderLeft(true).
			BorderForeground(ColorPrimary)
		f.Card = f.Base
		f.Title = fg(ColorText).Bold(true)
		f.Description = fg(ColorTextMuted).Italic(true)
		f.ErrorIndicator = fg(ColorWarning).SetString(" *")
		f.ErrorMessage = fg(ColorWarning)

		// Personality picker and notification toggles
		f.SelectSelector = fg(ColorPrimary).SetString("> ")
		f.NextIndicator = fg(ColorPrimary).MarginLeft(1).SetString("→")
		f.PrevIndicator = fg(ColorPrimary).MarginRight(1).SetString("←")
		f.Option = fg(ColorText)
		f.MultiSelectSelector = f.SelectSelector
		f.SelectedOption = fg(ColorSecondary)
		f.SelectedPrefix = fg(ColorSecondary).SetString("[x] ")
		f.UnselectedOption = f.Option
		f.UnselectedPrefix = fg(ColorTextMuted).SetString("[ ] ")

		f.TextInput.Cursor = fg(ColorPrimary)
		f.TextInput.Placeholder = fg(ColorTextMuted)
		f.TextInput.Prompt = fg(ColorPrimary)
		f.TextInput.Text = fg(ColorText)

		t.Blurred = t.Focused
		t.Blurred.Base = lipgloss.NewStyle().PaddingLeft(2)
		t.Blurred.Card = t.Blurred.Base
		t.Blurred.NextIndicator = lipgloss.NewStyle()
		t.Blurred.PrevIndicator = lipgloss.NewStyle()

		t.Group.Title = fg(ColorSecondary).Bold(true)
		t.Group.Description = fg(ColorTextMuted)

		t.FieldSeparator = lipgloss.NewStyle().SetString("\n")
		t.Help = help.New().Styles

		return t
	})
}
