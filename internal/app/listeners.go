package app

import (
	tea "charm.land/bubbletea/v2"
)

// notifyUnauthorized is the client's 401 hook. It runs on a command
// goroutine, so it only signals the event loop and never blocks.
func (m *Model) notifyUnauthorized() {
	select {
	case m.unauthorized <- struct{}{}:
	default:
	}
}

// listenForUnauthorized waits for the next 401. The handler re-arms it.
func (m *Model) listenForUnauthorized() tea.Cmd {
	ch := m.unauthorized
	done := m.ctx.Done()
	return func() tea.Msg {
		select {
		case <-ch:
			return UnauthorizedMsg{}
		case <-done:
			return nil
		}
	}
}
