package app

import (
	"testing"
	"time"
)

func TestNotifyUnauthorized_NeverBlocks(t *testing.T) {
	m := testModel(t, newFakeBackend())

	done := make(chan struct{})
	go func() {
		for i := 0; i < 5; i++ {
			m.notifyUnauthorized()
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("notifyUnauthorized blocked")
	}
	if n := len(m.unauthorized); n != 1 {
		t.Errorf("pending signals = %d, want 1", n)
	}
}

func TestListenForUnauthorized(t *testing.T) {
	t.Run("signal", func(t *testing.T) {
		fb := newFakeBackend()
		m := testModel(t, fb)
		cmd := m.listenForUnauthorized()

		fb.expire()
		if _, ok := runCmd(cmd, time.Second).(UnauthorizedMsg); !ok {
			t.Error("expected UnauthorizedMsg after a 401")
		}
	})

	t.Run("cancelled", func(t *testing.T) {
		m := testModel(t, newFakeBackend())
		cmd := m.listenForUnauthorized()
		m.cancel()
		if msg := runCmd(cmd, time.Second); msg != nil {
			t.Errorf("got %T after cancel, want nil", msg)
		}
	})
}

func TestHandleUnauthorized_SignedOutRearmsOnly(t *testing.T) {
	fb := newFakeBackend()
	fb.token = ""
	m := testModel(t, fb)
	login := m.modal.State

	_, cmd := m.Update(UnauthorizedMsg{})
	if cmd == nil {
		t.Error("listener should be re-armed")
	}
	if m.modal.State != login {
		t.Error("a 401 while signed out should leave the login dialog alone")
	}
}
