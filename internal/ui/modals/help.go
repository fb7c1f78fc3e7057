package modals

import (
	"fmt"
	"io"

	"charm.land/bubbles/v2/list"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
)

// helpRow is one line of the help list: either a section heading or a
// shortcut. Headings carry no shortcut and never match a filter.
type helpRow struct {
	heading  string
	shortcut *HelpShortcut
}

func (r helpRow) FilterValue() string {
	if r.shortcut == nil {
		return ""
	}
	return r.shortcut.Key + " " + r.shortcut.Desc
}

const helpKeyWidth = 16

type helpDelegate struct{}

func (helpDelegate) Height() int                          { return 1 }
func (helpDelegate) Spacing() int                         { return 0 }
func (helpDelegate) Update(tea.Msg, *list.Model) tea.Cmd { return nil }

func (helpDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	row, ok := item.(helpRow)
	if !ok {
		return
	}
	if row.shortcut == nil {
		fmt.Fprint(w, lipgloss.NewStyle().Bold(true).Foreground(ColorSecondary).Render(row.heading))
		return
	}

	key := lipgloss.NewStyle().Bold(true).Width(helpKeyWidth)
	desc := lipgloss.NewStyle()
	cursor := "  "
	if index == m.Index() {
		cursor = "> "
		key = key.Foreground(ColorTextInverse).Background(ColorPrimary)
		desc = desc.Foreground(ColorTextInverse).Background(ColorPrimary)
	} else {
		key = key.Foreground(ColorPrimary)
		desc = desc.Foreground(ColorText)
	}
	fmt.Fprint(w, cursor+key.Render(row.shortcut.Key)+desc.Render(row.shortcut.Desc))
}

// HelpState is the shortcut reference. Enter on a row runs that shortcut.
type HelpState struct {
	list list.Model
}

func (*HelpState) modalState() {}

func (*HelpState) Title() string { return "Keyboard Shortcuts" }

func (s *HelpState) Help() string {
	if s.Filtering() {
		return "Type to filter  Enter: apply  Esc: cancel"
	}
	return "/: filter  up/down: navigate  Enter: run  Esc: close"
}

func (s *HelpState) Render() string {
	return lipgloss.JoinVertical(lipgloss.Left,
		ModalTitleStyle.Render(s.Title()),
		s.list.View(),
		ModalHelpStyle.Render(s.Help()),
	)
}

func (s *HelpState) Update(msg tea.Msg) (ModalState, tea.Cmd) {
	var cmd tea.Cmd
	s.list, cmd = s.list.Update(msg)
	return s, cmd
}

// SetSize leaves room for the title and help lines
func (s *HelpState) SetSize(width, height int) {
	s.list.SetSize(width, max(height-4, 1))
}

// Selected returns the highlighted shortcut, or nil when a heading is highlighted
func (s *HelpState) Selected() *HelpShortcut {
	if row, ok := s.list.SelectedItem().(helpRow); ok {
		return row.shortcut
	}
	return nil
}

// Filtering reports whether the filter input has focus
func (s *HelpState) Filtering() bool {
	return s.list.SettingFilter()
}

// NewHelpState lists sections under their headings, with the cursor on the
// first shortcut.
func NewHelpState(sections []HelpSection, maxVisible int) *HelpState {
	var rows []list.Item
	first := -1
	for _, section := range sections {
		rows = append(rows, helpRow{heading: section.Title})
		for i := range section.Shortcuts {
			if first < 0 {
				first = len(rows)
			}
			rows = append(rows, helpRow{shortcut: &section.Shortcuts[i]})
		}
	}

	l := list.New(rows, helpDelegate{}, ModalWidth, maxVisible)
	l.SetShowTitle(false)
	l.SetShowStatusBar(false)
	l.SetShowHelp(false)
	l.SetShowPagination(false)
	l.DisableQuitKeybindings()
	l.SetFilteringEnabled(true)
	if first >= 0 {
		l.Select(first)
	}
	return &HelpState{list: l}
}
