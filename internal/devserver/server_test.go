package devserver

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"
)

type testServer struct {
	*httptest.Server
	srv   *Server
	store *Store
}

func newTestServer(t *testing.T, opts Options) *testServer {
	t.Helper()
	store := newTestStore(t)
	if opts.BcryptCost == 0 {
		opts.BcryptCost = bcrypt.MinCost
	}
	if opts.Secret == "" {
		opts.Secret = "test-secret"
	}
	srv := New(store, opts)
	hs := httptest.NewServer(srv.Handler())
	t.Cleanup(hs.Close)
	return &testServer{Server: hs, srv: srv, store: store}
}

// call sends a request and decodes the JSON response into out when it is
// non-nil. body is JSON-encoded unless it is url.Values.
func (ts *testServer) call(t *testing.T, method, path, token string, body, out any) int {
	t.Helper()
	var r io.Reader
	contentType := ""
	switch b := body.(type) {
	case nil:
	case url.Values:
		r = strings.NewReader(b.Encode())
		contentType = "application/x-www-form-urlencoded"
	default:
		data, err := json.Marshal(b)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		r = strings.NewReader(string(data))
		contentType = "application/json"
	}

	req, err := http.NewRequest(method, ts.URL+path, r)
	if err != nil {
		t.Fatalf("NewRequest: %v", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := ts.Client().Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("%s %s: decode: %v", method, path, err)
		}
	}
	return resp.StatusCode
}

func (ts *testServer) signupAndLogin(t *testing.T, username string) string {
	t.Helper()
	status := ts.call(t, http.MethodPost, "/auth/signup", "", map[string]string{
		"username": username, "email": username + "@example.com", "password": "secret",
	}, nil)
	if status != http.StatusOK {
		t.Fatalf("signup status = %d", status)
	}
	var tok tokenResponse
	if status := ts.call(t, http.MethodPost, "/auth/login", "", url.Values{"username": {username}, "password": {"secret"}}, &tok); status != http.StatusOK {
		t.Fatalf("login status = %d", status)
	}
	return tok.AccessToken
}

func (ts *testServer) newChat(t *testing.T, token, name, tag string) string {
	t.Helper()
	var resp createChatResponse
	status := ts.call(t, http.MethodPost, "/chat/new", token, map[string]string{"chat_name": name, "personality": tag}, &resp)
	if status != http.StatusOK {
		t.Fatalf("create chat status = %d", status)
	}
	return resp.ChatID
}

func TestSignup(t *testing.T) {
	ts := newTestServer(t, Options{})
	ts.signupAndLogin(t, "ada")

	tests := []struct {
		name       string
		body       map[string]string
		wantStatus int
		wantDetail string
	}{
		{"duplicate email", map[string]string{"username": "bob", "email": "ADA@example.com", "password": "pw"}, http.StatusBadRequest, "Email already registered"},
		{"duplicate username", map[string]string{"username": "ada", "email": "new@example.com", "password": "pw"}, http.StatusBadRequest, "Username already taken"},
		{"missing password", map[string]string{"username": "bob", "email": "bob@example.com"}, http.StatusBadRequest, "Username, email and password are required"},
		{"bad email", map[string]string{"username": "bob", "email": "bob", "password": "pw"}, http.StatusBadRequest, "A valid email address is required"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var resp detailResponse
			status := ts.call(t, http.MethodPost, "/auth/signup", "", tc.body, &resp)
			if status != tc.wantStatus || resp.Detail != tc.wantDetail {
				t.Errorf("got (%d, %q), want (%d, %q)", status, resp.Detail, tc.wantStatus, tc.wantDetail)
			}
		})
	}

	t.Run("success shape", func(t *testing.T) {
		var resp signupResponse
		status := ts.call(t, http.MethodPost, "/auth/signup", "", map[string]string{
			"username": "cy", "email": "cy@example.com", "password": "pw",
		}, &resp)
		if status != http.StatusOK || resp.Msg != "User created" || resp.Username != "cy" || resp.UserID == "" {
			t.Errorf("signup = (%d, %+v)", status, resp)
		}
	})
}

func TestLogin(t *testing.T) {
	ts := newTestServer(t, Options{TokenTTL: 45 * time.Minute})
	ts.signupAndLogin(t, "ada")

	t.Run("email works as username", func(t *testing.T) {
		var tok tokenResponse
		status := ts.call(t, http.MethodPost, "/auth/login", "", url.Values{"username": {"ada@example.com"}, "password": {"secret"}}, &tok)
		if status != http.StatusOK {
			t.Fatalf("status = %d", status)
		}
		if tok.TokenType != "bearer" || tok.ExpiresInMinutes != 45 || tok.AccessToken == "" {
			t.Errorf("token = %+v", tok)
		}
	})

	for _, creds := range []url.Values{
		{"username": {"ada"}, "password": {"wrong"}},
		{"username": {"nobody"}, "password": {"secret"}},
	} {
		t.Run("rejects "+creds.Get("username")+"/"+creds.Get("password"), func(t *testing.T) {
			var resp detailResponse
			status := ts.call(t, http.MethodPost, "/auth/login", "", creds, &resp)
			if status != http.StatusUnauthorized || resp.Detail != "Incorrect email/username or password" {
				t.Errorf("got (%d, %q)", status, resp.Detail)
			}
		})
	}
}

func TestAuthRequired(t *testing.T) {
	ts := newTestServer(t, Options{})
	expired := &tokenIssuer{secret: []byte("test-secret"), ttl: time.Minute, now: func() time.Time { return time.Now().Add(-time.Hour) }}
	oldToken, err := expired.issue("someone")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	forged := &tokenIssuer{secret: []byte("other-secret"), ttl: time.Hour, now: time.Now}
	forgedToken, _ := forged.issue("someone")

	validForMissingUser, _ := ts.srv.tokens.issue("deleted-user")

	tests := []struct {
		name  string
		path  string
		token string
	}{
		{"no token", "/chat/all", ""},
		{"garbage", "/chat/all", "not-a-jwt"},
		{"expired", "/chat/all", oldToken},
		{"wrong key", "/auth/me", forgedToken},
		{"unknown user", "/auth/me", validForMissingUser},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var resp detailResponse
			status := ts.call(t, http.MethodGet, tc.path, tc.token, nil, &resp)
			if status != http.StatusUnauthorized || resp.Detail != "Could not validate credentials" {
				t.Errorf("got (%d, %q)", status, resp.Detail)
			}
		})
	}
}

func TestMe(t *testing.T) {
	ts := newTestServer(t, Options{})
	token := ts.signupAndLogin(t, "ada")
	var u userResponse
	if status := ts.call(t, http.MethodGet, "/auth/me", token, nil, &u); status != http.StatusOK {
		t.Fatalf("status = %d", status)
	}
	if u.Username != "ada" || u.Email != "ada@example.com" || u.UserID == "" {
		t.Errorf("me = %+v", u)
	}
}

func TestCreateChat(t *testing.T) {
	ts := newTestServer(t, Options{})
	token := ts.signupAndLogin(t, "ada")
	ts.newChat(t, token, "Taken", "friend")

	tests := []struct {
		name       string
		chatName   string
		tag        string
		wantStatus int
		wantDetail string
		wantMode   string
	}{
		{"uppercase tag is lowered", "Study", "GUIDE", http.StatusOK, "", "guide"},
		{"unknown tag", "Other", "pirate", http.StatusBadRequest, "Invalid personality. Allowed types: friend, girlfriend, guide, bully", ""},
		{"duplicate name", "Taken", "bully", http.StatusBadRequest, "Chat name already exists", ""},
		{"blank name", "   ", "friend", http.StatusBadRequest, "Chat name cannot be empty.", ""},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var raw map[string]string
			status := ts.call(t, http.MethodPost, "/chat/new", token, map[string]string{"chat_name": tc.chatName, "personality": tc.tag}, &raw)
			if status != tc.wantStatus {
				t.Fatalf("status = %d, want %d (%v)", status, tc.wantStatus, raw)
			}
			if tc.wantDetail != "" && raw["detail"] != tc.wantDetail {
				t.Errorf("detail = %q, want %q", raw["detail"], tc.wantDetail)
			}
			if tc.wantMode != "" && (raw["mode"] != tc.wantMode || raw["msg"] != "Chat created" || raw["chat_id"] == "") {
				t.Errorf("response = %v", raw)
			}
		})
	}
}

func TestChatsAreScopedToOwner(t *testing.T) {
	ts := newTestServer(t, Options{})
	ada := ts.signupAndLogin(t, "ada")
	bob := ts.signupAndLogin(t, "bob")
	chatID := ts.newChat(t, ada, "Private", "girlfriend")

	var list []chatSummary
	if status := ts.call(t, http.MethodGet, "/chat/all", bob, nil, &list); status != http.StatusOK || len(list) != 0 {
		t.Errorf("bob's chats = (%d, %v), want none", status, list)
	}
	if status := ts.call(t, http.MethodGet, "/chat/"+chatID, bob, nil, nil); status != http.StatusNotFound {
		t.Errorf("bob get status = %d, want 404", status)
	}
	if status := ts.call(t, http.MethodDelete, "/chat/"+chatID, bob, nil, nil); status != http.StatusNotFound {
		t.Errorf("bob delete status = %d, want 404", status)
	}
	var resp detailResponse
	status := ts.call(t, http.MethodPost, "/chat/send", bob, map[string]string{"chat_id": chatID, "message": "hi"}, &resp)
	if status != http.StatusNotFound || resp.Detail != "Chat not found or access denied" {
		t.Errorf("bob send = (%d, %q)", status, resp.Detail)
	}

	if status := ts.call(t, http.MethodGet, "/chat/all", ada, nil, &list); status != http.StatusOK || len(list) != 1 {
		t.Fatalf("ada's chats = (%d, %v)", status, list)
	}
	if list[0].ChatID != chatID || list[0].ChatName != "Private" || list[0].Mode != "girlfriend" || list[0].CreatedAt == "" {
		t.Errorf("summary = %+v", list[0])
	}
}

func TestGetChat(t *testing.T) {
	ts := newTestServer(t, Options{})
	token := ts.signupAndLogin(t, "ada")

	tests := []struct {
		name       string
		id         string
		wantStatus int
		wantDetail string
	}{
		{"not a uuid", "abc", http.StatusBadRequest, "Invalid Chat ID format"},
		{"unknown uuid", "7c9e6679-7425-40de-944b-e07fc1f90ae7", http.StatusNotFound, "Chat not found"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var resp detailResponse
			status := ts.call(t, http.MethodGet, "/chat/"+tc.id, token, nil, &resp)
			if status != tc.wantStatus || resp.Detail != tc.wantDetail {
				t.Errorf("got (%d, %q), want (%d, %q)", status, resp.Detail, tc.wantStatus, tc.wantDetail)
			}
		})
	}
}

func TestSendMessage(t *testing.T) {
	var seen []*Message
	responder := ResponderFunc(func(ctx context.Context, tag string, history []*Message) (string, error) {
		seen = history
		return "reply from " + tag, nil
	})
	ts := newTestServer(t, Options{Responder: responder})
	token := ts.signupAndLogin(t, "ada")
	chatID := ts.newChat(t, token, "Talk", "bully")

	t.Run("empty after cleaning", func(t *testing.T) {
		var resp detailResponse
		status := ts.call(t, http.MethodPost, "/chat/send", token, map[string]string{"chat_id": chatID, "message": " \x00\x07 "}, &resp)
		if status != http.StatusBadRequest || resp.Detail != "Message cannot be empty." {
			t.Errorf("got (%d, %q)", status, resp.Detail)
		}
	})

	var reply sendResponse
	status := ts.call(t, http.MethodPost, "/chat/send", token, map[string]string{"chat_id": chatID, "message": "hello\x01 there 👋"}, &reply)
	if status != http.StatusOK || reply.Reply != "reply from bully" {
		t.Fatalf("send = (%d, %+v)", status, reply)
	}
	if len(seen) != 1 || seen[0].Content != "hello there 👋" {
		t.Errorf("responder history = %+v", seen)
	}

	var chat chatDetail
	if status := ts.call(t, http.MethodGet, "/chat/"+chatID, token, nil, &chat); status != http.StatusOK {
		t.Fatalf("get status = %d", status)
	}
	if chat.ChatName != "Talk" || chat.Mode != "bully" || len(chat.Messages) != 2 {
		t.Fatalf("chat = %+v", chat)
	}
	if chat.Messages[0].Role != "user" || chat.Messages[1].Role != "ai" || chat.Messages[1].Content != "reply from bully" {
		t.Errorf("messages = %+v", chat.Messages)
	}
	if chat.Messages[0].Time == "" {
		t.Error("message time is empty")
	}
}

func TestSendMessage_HistoryIsBounded(t *testing.T) {
	var historyLen int
	responder := ResponderFunc(func(ctx context.Context, tag string, history []*Message) (string, error) {
		historyLen = len(history)
		return "ok", nil
	})
	ts := newTestServer(t, Options{Responder: responder})
	ts.store.now = steppingClock()
	token := ts.signupAndLogin(t, "ada")
	chatID := ts.newChat(t, token, "Long", "guide")

	for i := 0; i < 7; i++ {
		ts.call(t, http.MethodPost, "/chat/send", token, map[string]string{"chat_id": chatID, "message": "again"}, nil)
	}
	if historyLen != historyLimit {
		t.Errorf("history length = %d, want %d", historyLen, historyLimit)
	}
}

func TestDeleteChat(t *testing.T) {
	ts := newTestServer(t, Options{})
	token := ts.signupAndLogin(t, "ada")
	chatID := ts.newChat(t, token, "Gone", "friend")

	var resp msgResponse
	if status := ts.call(t, http.MethodDelete, "/chat/"+chatID, token, nil, &resp); status != http.StatusOK || resp.Msg != "Chat deleted successfully" {
		t.Errorf("delete = (%d, %+v)", status, resp)
	}
	if status := ts.call(t, http.MethodGet, "/chat/"+chatID, token, nil, nil); status != http.StatusNotFound {
		t.Errorf("get after delete = %d, want 404", status)
	}
}

func TestUnknownRouteUsesDetailShape(t *testing.T) {
	ts := newTestServer(t, Options{})
	var resp detailResponse
	status := ts.call(t, http.MethodGet, "/nowhere", "", nil, &resp)
	if status != http.StatusNotFound || resp.Detail == "" {
		t.Errorf("got (%d, %q)", status, resp.Detail)
	}
}

func TestSanitize(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"  plain  ", "plain"},
		{"a\x00b\x1fc\x7f", "abc"},
		{"line one\nline two\ttabbed", "line one\nline two\ttabbed"},
		{"emoji 🎉 ok", "emoji 🎉 ok"},
		{"\x0b\x0c", ""},
	}
	for _, tc := range tests {
		if got := sanitize(tc.in); got != tc.want {
			t.Errorf("sanitize(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestBearerToken(t *testing.T) {
	tests := []struct {
		header, want string
	}{
		{"Bearer abc", "abc"},
		{"bearer  abc ", "abc"},
		{"Basic abc", ""},
		{"abc", ""},
		{"", ""},
	}
	for _, tc := range tests {
		if got := bearerToken(tc.header); got != tc.want {
			t.Errorf("bearerToken(%q) = %q, want %q", tc.header, got, tc.want)
		}
	}
}

func TestListenAndServe_StopsOnCancel(t *testing.T) {
	srv := New(newTestStore(t), Options{Secret: "x", BcryptCost: bcrypt.MinCost})
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.ListenAndServe(ctx, "127.0.0.1:0") }()

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("ListenAndServe() error = %v", err)
		}
	case <-time.After(shutdownTimeout + time.Second):
		t.Fatal("ListenAndServe() did not return after cancel")
	}
}
