package ui

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/x/ansi"

	"github.com/zhubert/parley/internal/personality"
)

const appTitle = " parley"

// Header renders the top bar: the app name on the left and the current
// chat with its personality label on the right.
type Header struct {
	width    int
	chatName string
	tag      string
	hasChat  bool
}

// NewHeader creates a new header
func NewHeader() *Header {
	return &Header{}
}

// SetWidth sets the header width
func (h *Header) SetWidth(width int) {
	h.width = width
}

// SetChat shows name and the label for tag on the right side
func (h *Header) SetChat(name, tag string) {
	h.chatName = name
	h.tag = tag
	h.hasChat = true
}

// ClearChat removes the chat from the header
func (h *Header) ClearChat() {
	h.chatName = ""
	h.tag = ""
	h.hasChat = false
}

// View renders the header
func (h *Header) View() string {
	var name, label string
	if h.hasChat {
		label = "· " + personality.Label(h.tag) + " "
		name = h.chatName + " "
		room := h.width - len([]rune(appTitle)) - ansi.StringWidth(label) - 2
		if room < 1 {
			name = ""
		} else if ansi.StringWidth(name) > room {
			name = ansi.Truncate(name, room-1, "…") + " "
		}
	}

	right := name + label
	padding := h.width - ansi.StringWidth(appTitle) - ansi.StringWidth(right)
	if padding < 0 {
		padding = 0
	}
	content := appTitle + strings.Repeat(" ", padding) + right

	return h.renderGradient(content, len([]rune(content))-len([]rune(label)))
}

// parseHexColor parses a hex color string (e.g., "#7C3AED") into RGB components
func parseHexColor(hex string) (r, g, b int) {
	if len(hex) == 7 && hex[0] == '#' {
		fmt.Sscanf(hex[1:], "%02x%02x%02x", &r, &g, &b)
	}
	return
}

// renderGradient paints content over a background fading from the theme
// primary to the theme background. Runes from mutedFrom on use the muted color.
func (h *Header) renderGradient(content string, mutedFrom int) string {
	if content == "" {
		return ""
	}

	theme := CurrentTheme()
	startR, startG, startB := parseHexColor(theme.Primary)
	endR, endG, endB := parseHexColor(theme.Bg)
	textColor := lipgloss.Color(theme.Text)
	mutedColor := lipgloss.Color(theme.TextMuted)

	runes := []rune(content)
	width := len(runes)
	titleLen := len([]rune(appTitle))
	var b strings.Builder

	for i, r := range runes {
		t := float64(i) / float64(width)
		cr := int(float64(startR)*(1-t) + float64(endR)*t)
		cg := int(float64(startG)*(1-t) + float64(endG)*t)
		cb := int(float64(startB)*(1-t) + float64(endB)*t)

		style := lipgloss.NewStyle().
			Background(lipgloss.Color(fmt.Sprintf("#%02X%02X%02X", cr, cg, cb))).
			Bold(i < titleLen)
		if i >= mutedFrom {
			style = style.Foreground(mutedColor).Italic(true)
		} else {
			style = style.Foreground(textColor)
		}
		b.WriteString(style.Render(string(r)))
	}
	return b.String()
}
