package app

import (
	tea "charm.land/bubbletea/v2"

	"github.com/zhubert/parley/internal/ui"
)

// flash puts text in the footer. Only the first flash of a run starts the
// expiry ticker; later ones replace the text and reuse it.
func (m *Model) flash(text string, kind ui.FlashType) tea.Cmd {
	ticking := m.footer.HasFlash()
	m.footer.SetFlash(text, kind)
	if ticking {
		return nil
	}
	return ui.FlashTick()
}

func (m *Model) flashInfo(text string) tea.Cmd    { return m.flash(text, ui.FlashInfo) }
func (m *Model) flashSuccess(text string) tea.Cmd { return m.flash(text, ui.FlashSuccess) }
func (m *Model) flashWarning(text string) tea.Cmd { return m.flash(text, ui.FlashWarning) }
func (m *Model) flashError(text string) tea.Cmd   { return m.flash(text, ui.FlashError) }
