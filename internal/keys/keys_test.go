package keys

import "testing"

// TestKeyStringValues pins the string form of every bound key, so a change
// in Bubble Tea's key format shows up here first.
func TestKeyStringValues(t *testing.T) {
	tests := []struct {
		name     string
		got      string
		expected string
	}{
		// Navigation
		{"Up", Up, "up"},
		{"Down", Down, "down"},
		{"Home", Home, "home"},
		{"End", End, "end"},
		{"PgUp", PgUp, "pgup"},
		{"PgDown", PgDown, "pgdown"},

		// Actions
		{"Enter", Enter, "enter"},
		{"ShiftEnter", ShiftEnter, "shift+enter"},
		{"AltEnter", AltEnter, "alt+enter"},
		{"Tab", Tab, "tab"},
		{"ShiftTab", ShiftTab, "shift+tab"},
		{"Backspace", Backspace, "backspace"},
		{"Escape", Escape, "esc"},

		// Ctrl combos
		{"CtrlC", CtrlC, "ctrl+c"},
		{"CtrlS", CtrlS, "ctrl+s"},
		{"CtrlU", CtrlU, "ctrl+u"},
		{"CtrlD", CtrlD, "ctrl+d"},
		{"CtrlN", CtrlN, "ctrl+n"},
		{"CtrlP", CtrlP, "ctrl+p"},
		{"CtrlJ", CtrlJ, "ctrl+j"},
		{"CtrlY", CtrlY, "ctrl+y"},
		{"CtrlUp", CtrlUp, "ctrl+up"},
		{"CtrlDown", CtrlDown, "ctrl+down"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.expected {
				t.Errorf("keys.%s = %q, want %q", tt.name, tt.got, tt.expected)
			}
		})
	}
}
