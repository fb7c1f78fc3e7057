package app

import (
	tea "charm.land/bubbletea/v2"

	"github.com/zhubert/parley/internal/ui"
)

// routeMouseEvents sends wheel events over the chat pane to the viewport,
// and clicks, drags and releases there to the selection logic with
// coordinates made relative to the chat panel.
func (m *Model) routeMouseEvents(msg tea.Msg) tea.Cmd {
	if !m.chat.HasChat() {
		return nil
	}
	sidebarWidth := m.sidebar.Width()

	var forward tea.Msg
	switch mouseMsg := msg.(type) {
	case tea.MouseWheelMsg:
		if mouseMsg.X >= sidebarWidth {
			forward = mouseMsg
		}
	case tea.MouseClickMsg:
		if mouseMsg.X >= sidebarWidth {
			forward = adjustMouseClickMsg(mouseMsg, sidebarWidth)
		}
	case tea.MouseMotionMsg:
		if mouseMsg.X >= sidebarWidth {
			forward = adjustMouseMotionMsg(mouseMsg, sidebarWidth)
		}
	case tea.MouseReleaseMsg:
		// Releases outside the pane still end a drag
		forward = adjustMouseReleaseMsg(mouseMsg, sidebarWidth)
	}
	if forward == nil {
		return nil
	}

	chat, cmd := m.chat.Update(forward)
	m.chat = chat
	return cmd
}

// adjustMouseClickMsg adjusts mouse click coordinates for the chat panel.
// X is adjusted by subtracting sidebar width, Y by subtracting header height.
func adjustMouseClickMsg(msg tea.MouseClickMsg, sidebarWidth int) tea.MouseClickMsg {
	return tea.MouseClickMsg{
		X:      msg.X - sidebarWidth,
		Y:      msg.Y - ui.HeaderHeight,
		Button: msg.Button,
		Mod:    msg.Mod,
	}
}

func adjustMouseMotionMsg(msg tea.MouseMotionMsg, sidebarWidth int) tea.MouseMotionMsg {
	return tea.MouseMotionMsg{
		X:      msg.X - sidebarWidth,
		Y:      msg.Y - ui.HeaderHeight,
		Button: msg.Button,
		Mod:    msg.Mod,
	}
}

func adjustMouseReleaseMsg(msg tea.MouseReleaseMsg, sidebarWidth int) tea.MouseReleaseMsg {
	return tea.MouseReleaseMsg{
		X:      msg.X - sidebarWidth,
		Y:      msg.Y - ui.HeaderHeight,
		Button: msg.Button,
		Mod:    msg.Mod,
	}
}
