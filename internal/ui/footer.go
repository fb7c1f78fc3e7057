package ui

import (
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/x/ansi"
)

// KeyBinding represents a keyboard shortcut
type KeyBinding struct {
	Key  string
	Desc string
}

// FlashType selects the color of a footer flash message
type FlashType int

const (
	FlashInfo FlashType = iota
	FlashSuccess
	FlashWarning
	FlashError
)

// FlashTickMsg is sent periodically while a flash is showing so it can expire
type FlashTickMsg time.Time

// FlashTick returns a command that fires a FlashTickMsg after one second
func FlashTick() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return FlashTickMsg(t)
	})
}

// flash is a transient footer message
type flash struct {
	text      string
	kind      FlashType
	expiresAt time.Time
}

// FooterContext describes what the footer should offer
type FooterContext struct {
	HasChat        bool
	SidebarFocused bool
	Searching      bool
	Sending        bool
	Authenticated  bool
}

// Footer is the bottom bar with context-sensitive bindings and flash messages
type Footer struct {
	width int
	ctx   FooterContext
	flash *flash
	now   func() time.Time
}

// NewFooter creates a new footer
func NewFooter() *Footer {
	return &Footer{now: time.Now}
}

// SetContext updates the footer's context for conditional bindings
func (f *Footer) SetContext(ctx FooterContext) {
	f.ctx = ctx
}

// SetWidth sets the footer width
func (f *Footer) SetWidth(width int) {
	f.width = width
}

// SetFlash shows text in the footer until FlashDuration passes
func (f *Footer) SetFlash(text string, kind FlashType) {
	f.flash = &flash{text: text, kind: kind, expiresAt: f.now().Add(FlashDuration)}
}

// ClearFlash removes any flash message
func (f *Footer) ClearFlash() {
	f.flash = nil
}

// HasFlash reports whether a flash is showing
func (f *Footer) HasFlash() bool {
	return f.flash != nil
}

// FlashText returns the current flash text, or ""
func (f *Footer) FlashText() string {
	if f.flash == nil {
		return ""
	}
	return f.flash.text
}

// ClearIfExpired drops an expired flash. It returns true while a flash is
// still showing, meaning another FlashTick is needed.
func (f *Footer) ClearIfExpired() bool {
	if f.flash == nil {
		return false
	}
	if !f.now().Before(f.flash.expiresAt) {
		f.flash = nil
		return false
	}
	return true
}

// Bindings returns the key bindings for the current context
func (f *Footer) Bindings() []KeyBinding {
	switch {
	case !f.ctx.Authenticated:
		return []KeyBinding{
			{Key: "enter", Desc: "submit"},
			{Key: "tab", Desc: "next field"},
			{Key: "ctrl+c", Desc: "quit"},
		}
	case f.ctx.Searching:
		return []KeyBinding{
			{Key: "type", Desc: "filter"},
			{Key: "↑/↓", Desc: "move"},
			{Key: "enter", Desc: "keep"},
			{Key: "esc", Desc: "clear"},
		}
	case f.ctx.SidebarFocused:
		return []KeyBinding{
			{Key: "enter", Desc: "open"},
			{Key: "n", Desc: "new chat"},
			{Key: "d", Desc: "delete"},
			{Key: "/", Desc: "search"},
			{Key: "r", Desc: "refresh"},
			{Key: "tab", Desc: "switch pane"},
			{Key: "?", Desc: "help"},
			{Key: "q", Desc: "quit"},
		}
	case !f.ctx.HasChat:
		return []KeyBinding{
			{Key: "tab", Desc: "chats"},
			{Key: "n", Desc: "new chat"},
			{Key: "?", Desc: "help"},
		}
	case f.ctx.Sending:
		return []KeyBinding{
			{Key: "pgup/dn", Desc: "scroll"},
			{Key: "tab", Desc: "switch pane"},
		}
	default:
		return []KeyBinding{
			{Key: "enter", Desc: "send"},
			{Key: "shift+enter", Desc: "newline"},
			{Key: "ctrl+y", Desc: "copy reply"},
			{Key: "pgup/dn", Desc: "scroll"},
			{Key: "esc", Desc: "close chat"},
			{Key: "tab", Desc: "switch pane"},
		}
	}
}

// View renders the footer
func (f *Footer) View() string {
	if f.flash != nil {
		return FooterStyle.Width(f.width).Render(f.renderFlash())
	}

	var parts []string
	for _, b := range f.Bindings() {
		parts = append(parts, FooterKeyStyle.Render(b.Key)+FooterDescStyle.Render(": "+b.Desc))
	}
	sep := "  " + lipgloss.NewStyle().Foreground(ColorBorder).Render("|") + "  "
	content := strings.Join(parts, sep)
	if f.width > 2 {
		content = ansi.Truncate(content, f.width-2, "…")
	}
	return FooterStyle.Width(f.width).Render(content)
}

func (f *Footer) renderFlash() string {
	var style lipgloss.Style
	var icon string
	switch f.flash.kind {
	case FlashSuccess:
		style, icon = FlashSuccessStyle, "✓ "
	case FlashWarning:
		style, icon = FlashWarningStyle, "! "
	case FlashError:
		style, icon = FlashErrorStyle, "✗ "
	default:
		style, icon = FlashInfoStyle, "• "
	}
	text := icon + f.flash.text
	if f.width > 2 {
		text = ansi.Truncate(text, f.width-2, "…")
	}
	return style.Render(text)
}
