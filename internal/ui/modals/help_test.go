package modals

import (
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"
)

func testSections() []HelpSection {
	return []HelpSection{
		{Title: "Chats", Shortcuts: []HelpShortcut{
			{Key: "n", Desc: "New chat"},
			{Key: "d", Desc: "Delete chat"},
		}},
		{Title: "Messages", Shortcuts: []HelpShortcut{
			{Key: "enter", Desc: "Send"},
		}},
	}
}

func TestHelpState_SkipsInitialHeader(t *testing.T) {
	s := NewHelpState(testSections(), 10)
	sc := s.Selected()
	if sc == nil || sc.Key != "n" {
		t.Fatalf("Selected() = %v, want the first shortcut", sc)
	}
}

func TestHelpState_Navigate(t *testing.T) {
	s := NewHelpState(testSections(), 10)
	s.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	sc := s.Selected()
	if sc == nil || sc.Key != "d" {
		t.Fatalf("after down: Selected() = %v, want d", sc)
	}
}

func TestHelpState_Render(t *testing.T) {
	s := NewHelpState(testSections(), 10)
	out := s.Render()
	for _, want := range []string{"Keyboard Shortcuts", "Chats", "New chat"} {
		if !strings.Contains(out, want) {
			t.Errorf("Render() missing %q", want)
		}
	}
	if s.Filtering() {
		t.Error("Filtering() should be false initially")
	}
}
