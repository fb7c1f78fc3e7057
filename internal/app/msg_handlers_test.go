package app

import (
	"errors"
	"sync"
	"testing"

	"github.com/zhubert/parley/internal/api"
	"github.com/zhubert/parley/internal/keys"
	"github.com/zhubert/parley/internal/notification"
	"github.com/zhubert/parley/internal/session"
	"github.com/zhubert/parley/internal/ui"
)

func TestHandleLoginResult_Error(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		wantErr string
	}{
		{"server detail", &api.Error{StatusCode: 401, Detail: "Invalid credentials"}, "Invalid credentials"},
		{"no detail", errors.New("connection refused"), "Login failed."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fb := newFakeBackend()
			fb.token = ""
			m := testModel(t, fb)
			state := m.modal.State.(*ui.LoginState)
			state.Submitting = true

			m.Update(LoginResultMsg{Username: "ada", Err: tt.err})

			if state.Err != tt.wantErr {
				t.Errorf("Err = %q, want %q", state.Err, tt.wantErr)
			}
			if state.Submitting {
				t.Error("form should be editable again")
			}
			if !m.modal.IsVisible() || m.authenticated {
				t.Error("login should stay open")
			}
		})
	}
}

func TestHandleLoginResult_Success(t *testing.T) {
	fb := newFakeBackend(testChats()...)
	fb.token = ""
	m := testModel(t, fb)

	drain(t, m, m.login("ada", "secret"))

	if !m.authenticated {
		t.Fatal("model should be signed in")
	}
	if m.modal.IsVisible() {
		t.Error("login dialog should close")
	}
	if got := m.creds.GetUsername(); got != "ada" {
		t.Errorf("username = %q, want %q", got, "ada")
	}
	if len(m.session.Snapshot().Chats) != 3 {
		t.Error("chat list should load after login")
	}
	if got := m.footer.FlashText(); got != "Signed in as ada" {
		t.Errorf("flash = %q", got)
	}
}

func TestHandleSignupResult(t *testing.T) {
	t.Run("success prefills login", func(t *testing.T) {
		fb := newFakeBackend()
		fb.token = ""
		m := testModel(t, fb)
		m.modal.Show(ui.NewSignupState())

		drain(t, m, m.signup("bob", "bob@example.com", "pw"))

		login, ok := m.modal.State.(*ui.LoginState)
		if !ok {
			t.Fatalf("modal = %T, want *ui.LoginState", m.modal.State)
		}
		if login.GetUsername() != "bob" {
			t.Errorf("username = %q, want %q", login.GetUsername(), "bob")
		}
		if login.Notice != "Account created. Please sign in." {
			t.Errorf("notice = %q", login.Notice)
		}
		if m.authenticated {
			t.Error("signup should not sign in")
		}
	})

	t.Run("error shows detail", func(t *testing.T) {
		fb := newFakeBackend()
		fb.token = ""
		fb.signupErr = &api.Error{StatusCode: 400, Detail: "Username already exists"}
		m := testModel(t, fb)
		state := ui.NewSignupState()
		m.modal.Show(state)

		drain(t, m, m.signup("bob", "bob@example.com", "pw"))

		if state.Err != "Username already exists" {
			t.Errorf("Err = %q", state.Err)
		}
		if m.modal.State != state {
			t.Error("signup dialog should stay open")
		}
	})
}

func TestHandleChatCreated_SelectsNewChat(t *testing.T) {
	fb := newFakeBackend(testChats()...)
	m := startedModel(t, fb)
	m.modal.Show(ui.NewNewChatState(""))

	drain(t, m, m.createChat("Poetry", "guide"))

	if m.modal.IsVisible() {
		t.Error("dialog should close")
	}
	s := m.session.Snapshot()
	if len(s.Chats) != 4 {
		t.Errorf("chats = %d, want 4", len(s.Chats))
	}
	if s.Current == nil || s.Current.Name != "Poetry" {
		t.Fatalf("current = %+v, want the new chat", s.Current)
	}
	if s.Current.Personality != "guide" {
		t.Errorf("personality = %q, want guide", s.Current.Personality)
	}
	if got := m.footer.FlashText(); got != `"Poetry" is ready to use.` {
		t.Errorf("flash = %q", got)
	}
	if sel := m.sidebar.SelectedChat(); sel == nil || sel.ID != s.Current.ID {
		t.Error("sidebar should highlight the new chat")
	}
}

func TestHandleChatCreated_Error(t *testing.T) {
	fb := newFakeBackend(testChats()...)
	fb.createErr = &api.Error{StatusCode: 422, Detail: "Invalid personality"}
	m := startedModel(t, fb)
	state := ui.NewNewChatState("")
	state.Submitting = true
	m.modal.Show(state)

	drain(t, m, m.createChat("Poetry", "pirate"))

	if !m.modal.IsVisible() {
		t.Fatal("dialog should stay open")
	}
	if state.Err != "Invalid personality" {
		t.Errorf("Err = %q", state.Err)
	}
	if state.Submitting {
		t.Error("form should be editable again")
	}
	if m.footer.FlashText() != "Invalid personality" {
		t.Errorf("flash = %q", m.footer.FlashText())
	}
	if len(m.session.Snapshot().Chats) != 3 {
		t.Error("chat list should be unchanged")
	}
}

func TestHandleChatDeleted(t *testing.T) {
	t.Run("current chat", func(t *testing.T) {
		m := startedModel(t, newFakeBackend(testChats()...))
		drain(t, m, sendKey(m, keys.Enter))

		drain(t, m, m.deleteChat("1", "Math Help"))

		s := m.session.Snapshot()
		if len(s.Chats) != 2 {
			t.Errorf("chats = %d, want 2", len(s.Chats))
		}
		if s.Current != nil {
			t.Error("deleting the open chat should close it")
		}
		if m.config.GetLastChatID() != "" {
			t.Error("deleted chat should be forgotten")
		}
		if got := m.footer.FlashText(); got != `Deleted "Math Help"` {
			t.Errorf("flash = %q", got)
		}
	})

	t.Run("failure", func(t *testing.T) {
		fb := newFakeBackend(testChats()...)
		fb.deleteErr = errors.New("boom")
		m := startedModel(t, fb)

		drain(t, m, m.deleteChat("2", "Venting"))

		if len(m.session.Snapshot().Chats) != 3 {
			t.Error("chat list should be unchanged")
		}
		if got := m.footer.FlashText(); got != "Failed to delete chat." {
			t.Errorf("flash = %q", got)
		}
	})
}

func TestHandleReply_Notification(t *testing.T) {
	var mu sync.Mutex
	var got []string
	notification.SetNotifier(func(title, message string, icon any) error {
		mu.Lock()
		defer mu.Unlock()
		got = append(got, message)
		return nil
	})
	t.Cleanup(notification.ResetNotifier)

	tests := []struct {
		name    string
		enabled bool
		want    int
	}{
		{"disabled", false, 0},
		{"enabled", true, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mu.Lock()
			got = nil
			mu.Unlock()

			m := startedModel(t, newFakeBackend(testChats()...))
			m.config.SetNotificationsEnabled(tt.enabled)
			drain(t, m, sendKey(m, keys.Enter))
			typeText(m, "hey")
			drain(t, m, sendKey(m, keys.Enter))

			mu.Lock()
			defer mu.Unlock()
			if len(got) != tt.want {
				t.Fatalf("notifications = %v, want %d", got, tt.want)
			}
			if tt.want > 0 && got[0] != "Math Help replied" {
				t.Errorf("message = %q", got[0])
			}
		})
	}
}

func TestHandleReply_StaleChat(t *testing.T) {
	m := startedModel(t, newFakeBackend(testChats()...))
	drain(t, m, sendKey(m, keys.Enter))

	typeText(m, "hello")
	cmd := sendKey(m, keys.Enter)

	// Switch chats before the reply lands
	m.focusSidebar()
	sendKey(m, keys.Down)
	drain(t, m, sendKey(m, keys.Enter))
	drain(t, m, cmd)

	s := m.session.Snapshot()
	if s.CurrentID() != "2" {
		t.Fatalf("current = %q, want %q", s.CurrentID(), "2")
	}
	for _, msg := range s.Messages {
		if msg.Content == "Hi there!" {
			t.Error("reply for the old chat should not be shown")
		}
	}
}

func TestHandleReply_ErrorIsQuiet(t *testing.T) {
	m := startedModel(t, newFakeBackend(testChats()...))
	m.Update(ReplyMsg{Pending: &session.PendingSend{ChatID: "1"}, Err: errors.New("boom")})
	if m.footer.HasFlash() {
		t.Errorf("failed sends should not flash, got %q", m.footer.FlashText())
	}
}

func TestHandleProfile(t *testing.T) {
	m := startedModel(t, newFakeBackend(testChats()...))

	m.Update(ProfileMsg{User: &api.User{Username: "grace"}})
	if !containsText(m.RenderToString(), "grace") {
		t.Error("sidebar should show the profile username")
	}

	m.Update(ProfileMsg{Err: errors.New("boom")})
	if !containsText(m.RenderToString(), "grace") {
		t.Error("a failed profile fetch should keep the username")
	}
}
