// Package ui provides the terminal components of parley.
//
// The screen is a header line, a sidebar listing chats beside the message
// pane, and a footer line:
//
//	┌─────────────────────────────────────────────────────┐
//	│ parley                          Math Help · Mentor  │
//	├─────────────────┬───────────────────────────────────┤
//	│ / search        │ You  09:30                        │
//	│ > Math Help     │ hi                                │
//	│   Weekend plans │ Mentor  09:30                     │
//	│                 │ Hello!                            │
//	│                 ├───────────────────────────────────┤
//	│ AL ada          │ composer                          │
//	├─────────────────┴───────────────────────────────────┤
//	│ enter send  shift+enter newline  tab sidebar        │
//	└─────────────────────────────────────────────────────┘
//
// ViewContext owns the size calculations. Components never touch the
// network; the app package feeds them session snapshots and reacts to the
// messages they emit.
//
// Styles are package variables rebuilt from the active Theme by SetTheme.
// Dialogs live in the modals subpackage and are shown through Modal.
package ui
