package app

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/zhubert/parley/internal/api"
	"github.com/zhubert/parley/internal/config"
	"github.com/zhubert/parley/internal/keys"
	"github.com/zhubert/parley/internal/ui"
)

func TestNew_UnauthenticatedShowsLogin(t *testing.T) {
	fb := newFakeBackend()
	fb.token = ""
	m := testModel(t, fb)

	if m.authenticated {
		t.Fatal("model should start signed out")
	}
	if _, ok := m.modal.State.(*ui.LoginState); !ok {
		t.Fatalf("modal = %T, want *ui.LoginState", m.modal.State)
	}

	// Login cannot be dismissed
	sendKey(m, keys.Escape)
	if !m.modal.IsVisible() {
		t.Error("esc should not close the login dialog")
	}
	if !strings.Contains(m.RenderToString(), "Sign in to Parley") {
		t.Error("view should render the login dialog")
	}
}

func TestNew_AuthenticatedReopensLastChat(t *testing.T) {
	t.Setenv("PARLEY_HOME", t.TempDir())
	fb := newFakeBackend(testChats()...)
	cfg := &config.Config{LastChatID: "2"}
	m := New(cfg, &config.Credentials{}, fb, "test")
	t.Cleanup(m.cancel)
	setSize(m, 120, 40)

	if m.modal.IsVisible() {
		t.Fatal("no dialog expected with a stored token")
	}
	drain(t, m, m.Init())

	s := m.session.Snapshot()
	if len(s.Chats) != 3 {
		t.Fatalf("chats = %d, want 3", len(s.Chats))
	}
	if s.CurrentID() != "2" {
		t.Errorf("current = %q, want %q", s.CurrentID(), "2")
	}
	if m.focus != FocusChat {
		t.Error("focus should move to the chat once it loads")
	}
}

func TestNew_ForgetsMissingLastChat(t *testing.T) {
	t.Setenv("PARLEY_HOME", t.TempDir())
	fb := newFakeBackend(testChats()...)
	cfg := &config.Config{LastChatID: "99"}
	m := New(cfg, &config.Credentials{}, fb, "test")
	t.Cleanup(m.cancel)

	drain(t, m, m.fetchChats())

	if id := m.session.Snapshot().CurrentID(); id != "" {
		t.Errorf("current = %q, want none", id)
	}
	if cfg.GetLastChatID() != "" {
		t.Errorf("LastChatID = %q, want cleared", cfg.GetLastChatID())
	}
}

func TestEnterOpensSelectedChat(t *testing.T) {
	m := startedModel(t, newFakeBackend(testChats()...))

	drain(t, m, sendKey(m, keys.Enter))

	s := m.session.Snapshot()
	if s.CurrentID() != "1" {
		t.Fatalf("current = %q, want %q", s.CurrentID(), "1")
	}
	if len(s.Messages) != 2 {
		t.Errorf("messages = %d, want 2", len(s.Messages))
	}
	if !m.chat.HasChat() {
		t.Error("chat panel should show the chat")
	}
	if m.focus != FocusChat {
		t.Error("focus should be on the composer")
	}
	if m.config.GetLastChatID() != "1" {
		t.Errorf("LastChatID = %q, want %q", m.config.GetLastChatID(), "1")
	}
	if _, err := os.Stat(filepath.Join(os.Getenv("PARLEY_HOME"), "config.json")); err != nil {
		t.Errorf("config should be saved: %v", err)
	}
}

func TestArrowsMoveSidebarSelection(t *testing.T) {
	m := startedModel(t, newFakeBackend(testChats()...))

	sendKey(m, keys.Down)
	sendKey(m, keys.Down)
	if sel := m.sidebar.SelectedChat(); sel == nil || sel.ID != "3" {
		t.Fatalf("selected = %v, want chat 3", sel)
	}
	if id := m.session.Snapshot().CurrentID(); id != "" {
		t.Errorf("moving the selection should not open a chat, current = %q", id)
	}
}

func TestSendMessage_OptimisticThenReply(t *testing.T) {
	fb := newFakeBackend(testChats()...)
	m := startedModel(t, fb)
	drain(t, m, sendKey(m, keys.Enter))

	typeText(m, "hello")
	cmd := sendKey(m, keys.Enter)
	if cmd == nil {
		t.Fatal("enter should start a send")
	}

	s := m.session.Snapshot()
	if !s.Sending {
		t.Error("manager should report a send in flight")
	}
	if len(s.Messages) != 3 || s.Messages[2].Content != "hello" || s.Messages[2].IsAssistant() {
		t.Fatalf("optimistic message missing: %+v", s.Messages)
	}
	if m.chat.GetInput() != "" {
		t.Errorf("composer = %q, want cleared", m.chat.GetInput())
	}
	if !m.chat.IsSending() {
		t.Error("chat should show the typing indicator")
	}

	drain(t, m, cmd)

	s = m.session.Snapshot()
	if s.Sending {
		t.Error("send should be finished")
	}
	if len(s.Messages) != 4 {
		t.Fatalf("messages = %d, want 4", len(s.Messages))
	}
	if last := s.Messages[3]; !last.IsAssistant() || last.Content != "Hi there!" {
		t.Errorf("last message = %+v, want the reply", last)
	}
	if got := fb.sentMessages(); len(got) != 1 || got[0] != "hello" {
		t.Errorf("sent = %v, want [hello]", got)
	}
	if m.chat.IsSending() {
		t.Error("typing indicator should be gone")
	}
}

func TestSendMessage_BlankSendsNothing(t *testing.T) {
	fb := newFakeBackend(testChats()...)
	m := startedModel(t, fb)
	drain(t, m, sendKey(m, keys.Enter))

	typeText(m, "   ")
	if cmd := sendKey(m, keys.Enter); cmd != nil {
		drain(t, m, cmd)
	}
	if len(fb.sentMessages()) != 0 {
		t.Error("blank input should not be sent")
	}
	if n := len(m.session.Snapshot().Messages); n != 2 {
		t.Errorf("messages = %d, want 2", n)
	}
}

func TestSendMessage_FailureRollsBack(t *testing.T) {
	fb := newFakeBackend(testChats()...)
	fb.sendErr = &api.Error{Method: "POST", Path: "/chats/1/messages", StatusCode: 500}
	m := startedModel(t, fb)
	drain(t, m, sendKey(m, keys.Enter))

	typeText(m, "hello")
	drain(t, m, sendKey(m, keys.Enter))

	s := m.session.Snapshot()
	if len(s.Messages) != 2 {
		t.Errorf("messages = %d, want the optimistic message removed", len(s.Messages))
	}
	if s.Sending {
		t.Error("send should be finished")
	}
}

func TestEscapeClosesChat(t *testing.T) {
	m := startedModel(t, newFakeBackend(testChats()...))
	drain(t, m, sendKey(m, keys.Enter))

	drain(t, m, sendKey(m, keys.Escape))

	if id := m.session.Snapshot().CurrentID(); id != "" {
		t.Errorf("current = %q, want none", id)
	}
	if m.chat.HasChat() {
		t.Error("chat panel should be empty")
	}
	if m.focus != FocusSidebar {
		t.Error("focus should return to the sidebar")
	}
	if m.config.GetLastChatID() != "" {
		t.Errorf("LastChatID = %q, want cleared", m.config.GetLastChatID())
	}
}

func TestTabNeedsOpenChat(t *testing.T) {
	m := startedModel(t, newFakeBackend(testChats()...))

	sendKey(m, keys.Tab)
	if m.focus != FocusSidebar {
		t.Error("tab should do nothing without an open chat")
	}

	drain(t, m, sendKey(m, keys.Enter))
	sendKey(m, keys.Tab)
	if m.focus != FocusSidebar {
		t.Error("tab should move focus back to the sidebar")
	}
	sendKey(m, keys.Tab)
	if m.focus != FocusChat {
		t.Error("tab should move focus to the chat")
	}
}

func TestSearchEnterOpensMatch(t *testing.T) {
	m := startedModel(t, newFakeBackend(testChats()...))

	sendKey(m, "/")
	if !m.sidebar.IsSearchMode() {
		t.Fatal("/ should enter search mode")
	}
	typeText(m, "roast")
	drain(t, m, sendKey(m, keys.Enter))

	if id := m.session.Snapshot().CurrentID(); id != "3" {
		t.Errorf("current = %q, want %q", id, "3")
	}
	if m.sidebar.IsSearchMode() {
		t.Error("enter should stop search mode")
	}
}

func TestSearchTypingDoesNotTriggerShortcuts(t *testing.T) {
	m := startedModel(t, newFakeBackend(testChats()...))

	sendKey(m, "/")
	typeText(m, "nq")
	if m.modal.IsVisible() {
		t.Error("n should be typed into the filter, not open a dialog")
	}
	if m.sidebar.GetSearchQuery() != "nq" {
		t.Errorf("query = %q, want %q", m.sidebar.GetSearchQuery(), "nq")
	}
}

func TestCtrlCQuits(t *testing.T) {
	m := startedModel(t, newFakeBackend(testChats()...))

	cmd := sendKey(m, keys.CtrlC)
	if cmd == nil {
		t.Fatal("ctrl+c should return a command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("ctrl+c should quit")
	}
	if m.ctx.Err() == nil {
		t.Error("quitting should cancel in-flight requests")
	}
}

func TestUnauthorizedReturnsToLogin(t *testing.T) {
	fb := newFakeBackend(testChats()...)
	m := startedModel(t, fb)
	drain(t, m, sendKey(m, keys.Enter))

	fb.expire()
	drain(t, m, m.listenForUnauthorized())

	if m.authenticated {
		t.Error("model should be signed out")
	}
	login, ok := m.modal.State.(*ui.LoginState)
	if !ok {
		t.Fatalf("modal = %T, want *ui.LoginState", m.modal.State)
	}
	if login.Notice != "Session expired. Please sign in again." {
		t.Errorf("notice = %q", login.Notice)
	}
	s := m.session.Snapshot()
	if len(s.Chats) != 0 || s.Current != nil {
		t.Error("chat state should be cleared")
	}
	if m.chat.HasChat() {
		t.Error("chat panel should be cleared")
	}
}

func TestKeysWhileSignedOutReopenLogin(t *testing.T) {
	fb := newFakeBackend()
	fb.token = ""
	m := testModel(t, fb)
	m.modal.Hide()

	sendKey(m, "n")
	if _, ok := m.modal.State.(*ui.LoginState); !ok {
		t.Errorf("modal = %T, want *ui.LoginState", m.modal.State)
	}
}

func TestPasteGoesToComposer(t *testing.T) {
	m := startedModel(t, newFakeBackend(testChats()...))
	drain(t, m, sendKey(m, keys.Enter))

	m.Update(tea.PasteMsg{Content: "pasted text"})
	if got := m.chat.GetInput(); got != "pasted text" {
		t.Errorf("input = %q, want %q", got, "pasted text")
	}
}

func TestMouseIgnoredWhileModalOpen(t *testing.T) {
	m := startedModel(t, newFakeBackend(testChats()...))
	drain(t, m, sendKey(m, keys.Enter))
	sendKey(m, keys.Tab)
	sendKey(m, "?")

	_, cmd := m.Update(tea.MouseClickMsg{X: 60, Y: 5, Button: tea.MouseLeft})
	if cmd != nil {
		t.Error("mouse events should be dropped while a dialog is open")
	}
}

func TestView(t *testing.T) {
	t.Run("unsized", func(t *testing.T) {
		t.Setenv("PARLEY_HOME", t.TempDir())
		m := New(&config.Config{}, &config.Credentials{}, newFakeBackend(), "test")
		t.Cleanup(m.cancel)
		if got := m.RenderToString(); got != "Loading..." {
			t.Errorf("RenderToString() = %q, want Loading...", got)
		}
	})

	t.Run("chat list", func(t *testing.T) {
		m := startedModel(t, newFakeBackend(testChats()...))
		view := m.RenderToString()
		for _, want := range []string{"Math Help", "Venting", "Roast Me"} {
			if !strings.Contains(view, want) {
				t.Errorf("view missing %q", want)
			}
		}
	})

	t.Run("open chat", func(t *testing.T) {
		m := startedModel(t, newFakeBackend(testChats()...))
		drain(t, m, sendKey(m, keys.Enter))
		view := m.RenderToString()
		if !strings.Contains(view, "What is 2+2?") {
			t.Error("view should show the transcript")
		}
	})

	t.Run("alt screen", func(t *testing.T) {
		m := startedModel(t, newFakeBackend(testChats()...))
		if !m.View().AltScreen {
			t.Error("view should use the alt screen")
		}
	})
}
