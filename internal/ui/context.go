package ui

import (
	"sync"

	"github.com/zhubert/parley/internal/logger"
)

// ViewContext is the process-wide layout: terminal size and the panel sizes
// derived from it. The header and footer heights are fixed.
type ViewContext struct {
	TerminalWidth  int
	TerminalHeight int

	HeaderHeight  int
	FooterHeight  int
	ContentHeight int
	SidebarWidth  int
	ChatWidth     int

	mu sync.Mutex
}

var layout = sync.OnceValue(func() *ViewContext {
	return &ViewContext{HeaderHeight: HeaderHeight, FooterHeight: FooterHeight}
})

// GetViewContext returns the shared layout
func GetViewContext() *ViewContext {
	return layout()
}

// Resize lays the panels out for a width x height terminal, clamped to the
// minimum supported size. The sidebar takes a fixed share of the width up to
// SidebarMaxWidth and the chat pane gets the rest.
func (v *ViewContext) Resize(width, height int) {
	width = max(width, MinTerminalWidth)
	height = max(height, MinTerminalHeight)

	v.mu.Lock()
	v.TerminalWidth, v.TerminalHeight = width, height
	v.HeaderHeight, v.FooterHeight = HeaderHeight, FooterHeight
	v.ContentHeight = height - HeaderHeight - FooterHeight
	v.SidebarWidth = min(width/SidebarWidthRatio, SidebarMaxWidth)
	v.ChatWidth = width - v.SidebarWidth
	sidebar, chat := v.SidebarWidth, v.ChatWidth
	v.mu.Unlock()

	logger.WithComponent("ui").Debug("layout", "width", width, "height", height,
		"sidebar", sidebar, "chat", chat)
}

// InnerWidth is panelWidth less the border
func (v *ViewContext) InnerWidth(panelWidth int) int { return panelWidth - BorderSize }

// InnerHeight is panelHeight less the border
func (v *ViewContext) InnerHeight(panelHeight int) int { return panelHeight - BorderSize }
