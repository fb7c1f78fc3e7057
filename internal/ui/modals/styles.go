package modals

import (
	"image/color"

	"charm.land/lipgloss/v2"
)

// Palette is the slice of the active theme that dialogs draw with.
type Palette struct {
	Primary   color.Color
	Secondary color.Color
	Text      color.Color
	Muted     color.Color
	Inverse   color.Color
	Warning   color.Color
	Error     color.Color

	// Row styles shared with the sidebar so option lists match chat rows
	Item     lipgloss.Style
	Selected lipgloss.Style
}

// Layout sizes every dialog.
type Layout struct {
	Width          int
	InputWidth     int
	InputCharLimit int
}

// Derived from the last SetStyles call. Read-only outside this file.
var (
	ModalTitleStyle      lipgloss.Style
	ModalHelpStyle       lipgloss.Style
	SidebarItemStyle     lipgloss.Style
	SidebarSelectedStyle lipgloss.Style
	StatusErrorStyle     lipgloss.Style

	ColorPrimary     color.Color
	ColorSecondary   color.Color
	ColorText        color.Color
	ColorTextMuted   color.Color
	ColorTextInverse color.Color
	ColorWarning     color.Color

	ModalInputWidth     int
	ModalInputCharLimit int
	ModalWidth          int
)

// SetStyles installs a palette and layout. The ui package calls it at
// startup and whenever the theme changes.
func SetStyles(p Palette, l Layout) {
	ColorPrimary = p.Primary
	ColorSecondary = p.Secondary
	ColorText = p.Text
	ColorTextMuted = p.Muted
	ColorTextInverse = p.Inverse
	ColorWarning = p.Warning

	ModalTitleStyle = lipgloss.NewStyle().Foreground(p.Primary).Bold(true).MarginBottom(1)
	ModalHelpStyle = lipgloss.NewStyle().Foreground(p.Muted).MarginTop(1)
	StatusErrorStyle = lipgloss.NewStyle().Foreground(p.Error)
	SidebarItemStyle = p.Item
	SidebarSelectedStyle = p.Selected

	ModalWidth = l.Width
	ModalInputWidth = l.InputWidth
	ModalInputCharLimit = l.InputCharLimit
}
