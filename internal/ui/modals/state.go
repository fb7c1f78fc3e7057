// Package modals provides the dialog states shown over the main view.
// Each dialog implements ModalState with its own struct, so the app can
// type-switch to reach dialog-specific fields.
package modals

import (
	tea "charm.land/bubbletea/v2"
)

// ModalState is implemented by every dialog.
type ModalState interface {
	modalState() // marker method to restrict implementations
	Title() string
	Help() string
	Render() string
	Update(msg tea.Msg) (ModalState, tea.Cmd)
}

// ModalWithPreferredWidth is implemented by dialogs that want a width other
// than ModalWidth.
type ModalWithPreferredWidth interface {
	ModalState
	PreferredWidth() int
}

// ModalWithSize is implemented by dialogs that lay out to the space available.
type ModalWithSize interface {
	ModalState
	SetSize(width, height int)
}

// HelpShortcut represents a single keyboard shortcut for display
type HelpShortcut struct {
	Key  string
	Desc string
}

// HelpSection represents a group of related shortcuts
type HelpSection struct {
	Title     string
	Shortcuts []HelpShortcut
}
