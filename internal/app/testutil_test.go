package app

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/charmbracelet/x/ansi"

	"github.com/zhubert/parley/internal/api"
	"github.com/zhubert/parley/internal/clipboard"
	"github.com/zhubert/parley/internal/config"
	"github.com/zhubert/parley/internal/keys"
	"github.com/zhubert/parley/internal/logger"
	"github.com/zhubert/parley/internal/ui"
)

func TestMain(m *testing.M) {
	logger.Reset()
	_ = logger.Init(os.DevNull)
	code := m.Run()
	logger.Close()
	os.Exit(code)
}

// fakeBackend is an in-memory chat server.
type fakeBackend struct {
	mu sync.Mutex

	token  string
	chats  []api.Chat
	nextID int
	reply  string
	sent   []string
	hook   func()

	loginErr  error
	signupErr error
	createErr error
	deleteErr error
	sendErr   error
}

func newFakeBackend(chats ...api.Chat) *fakeBackend {
	return &fakeBackend{token: "tok", chats: chats, reply: "Hi there!", nextID: 100}
}

func (f *fakeBackend) find(id string) int {
	for i, c := range f.chats {
		if c.ID == id {
			return i
		}
	}
	return -1
}

func (f *fakeBackend) ListChats(ctx context.Context) ([]api.Chat, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]api.Chat, len(f.chats))
	for i, c := range f.chats {
		c.Messages = nil
		out[i] = c
	}
	return out, nil
}

func (f *fakeBackend) GetChat(ctx context.Context, id string) (*api.Chat, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	i := f.find(id)
	if i < 0 {
		return nil, &api.Error{Method: "GET", Path: "/chats/" + id, StatusCode: 404, Detail: "Chat not found"}
	}
	c := f.chats[i]
	c.Messages = append([]api.Message(nil), c.Messages...)
	return &c, nil
}

func (f *fakeBackend) CreateChat(ctx context.Context, name, personality string) (*api.Chat, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.nextID++
	c := api.Chat{ID: fmt.Sprint(f.nextID), Name: name, Personality: personality, CreatedAt: time.Now()}
	f.chats = append([]api.Chat{c}, f.chats...)
	return &c, nil
}

func (f *fakeBackend) DeleteChat(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.deleteErr != nil {
		return f.deleteErr
	}
	if i := f.find(id); i >= 0 {
		f.chats = append(f.chats[:i], f.chats[i+1:]...)
	}
	return nil
}

func (f *fakeBackend) SendMessage(ctx context.Context, chatID, content string) (*api.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.sendErr != nil {
		return nil, f.sendErr
	}
	f.sent = append(f.sent, content)
	reply := api.Message{ID: fmt.Sprintf("r%d", len(f.sent)), Role: api.RoleAssistant, Content: f.reply, Timestamp: time.Now()}
	if i := f.find(chatID); i >= 0 {
		f.chats[i].Messages = append(f.chats[i].Messages,
			api.Message{ID: fmt.Sprintf("u%d", len(f.sent)), Role: api.RoleUser, Content: content, Timestamp: time.Now()},
			reply)
	}
	return &reply, nil
}

func (f *fakeBackend) Login(ctx context.Context, username, password string) (*api.Token, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.loginErr != nil {
		return nil, f.loginErr
	}
	f.token = "tok-" + username
	return &api.Token{AccessToken: f.token, TokenType: "bearer"}, nil
}

func (f *fakeBackend) Signup(ctx context.Context, username, email, password string) (*api.SignupResult, error) {
	if f.signupErr != nil {
		return nil, f.signupErr
	}
	return &api.SignupResult{Msg: "User created", Username: username}, nil
}

func (f *fakeBackend) Me(ctx context.Context) (*api.User, error) {
	return &api.User{ID: "1", Username: "ada"}, nil
}

func (f *fakeBackend) Logout() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.token = ""
	return nil
}

func (f *fakeBackend) Authenticated() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.token != ""
}

func (f *fakeBackend) SetUnauthorizedHook(fn func()) {
	f.hook = fn
}

// expire simulates a 401 from the server
func (f *fakeBackend) expire() {
	f.mu.Lock()
	f.token = ""
	f.mu.Unlock()
	if f.hook != nil {
		f.hook()
	}
}

func (f *fakeBackend) sentMessages() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.sent...)
}

// memClipboard keeps clipboard writes in memory.
type memClipboard struct {
	mu   sync.Mutex
	data []byte
}

func (c *memClipboard) Init() error { return nil }

func (c *memClipboard) Read() []byte {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.data
}

func (c *memClipboard) Write(data []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data = append([]byte(nil), data...)
}

func useMemClipboard(t *testing.T) *memClipboard {
	t.Helper()
	mem := &memClipboard{}
	prev := clipboard.SetBackend(mem)
	t.Cleanup(func() { clipboard.SetBackend(prev) })
	return mem
}

func testChats() []api.Chat {
	now := time.Now()
	return []api.Chat{
		{ID: "1", Name: "Math Help", Personality: "guide", CreatedAt: now, Messages: []api.Message{
			{ID: "m1", Role: api.RoleUser, Content: "What is 2+2?", Timestamp: now},
			{ID: "m2", Role: api.RoleAssistant, Content: "It is **4**.", Timestamp: now},
		}},
		{ID: "2", Name: "Venting", Personality: "friend", CreatedAt: now},
		{ID: "3", Name: "Roast Me", Personality: "bully", CreatedAt: now},
	}
}

// testModel creates a sized model whose config lives in a temp dir.
func testModel(t *testing.T, backend *fakeBackend) *Model {
	t.Helper()
	t.Setenv("PARLEY_HOME", t.TempDir())
	m := New(&config.Config{}, &config.Credentials{}, backend, "0.0.0-test")
	t.Cleanup(m.cancel)
	return setSize(m, 120, 40)
}

// startedModel is a signed-in model with the chat list loaded.
func startedModel(t *testing.T, backend *fakeBackend) *Model {
	t.Helper()
	m := testModel(t, backend)
	drain(t, m, m.fetchChats())
	return m
}

// keyPress creates a tea.KeyPressMsg for the given key string.
// Examples: "a", "enter", "tab", "esc", "ctrl+c", "up", "down"
func keyPress(key string) tea.KeyPressMsg {
	switch key {
	case keys.Enter:
		return tea.KeyPressMsg{Code: tea.KeyEnter}
	case keys.Tab:
		return tea.KeyPressMsg{Code: tea.KeyTab}
	case keys.Escape:
		return tea.KeyPressMsg{Code: tea.KeyEscape}
	case keys.Backspace:
		return tea.KeyPressMsg{Code: tea.KeyBackspace}
	case keys.Up:
		return tea.KeyPressMsg{Code: tea.KeyUp}
	case keys.Down:
		return tea.KeyPressMsg{Code: tea.KeyDown}
	case keys.PgUp:
		return tea.KeyPressMsg{Code: tea.KeyPgUp}
	case keys.PgDown:
		return tea.KeyPressMsg{Code: tea.KeyPgDown}
	case keys.CtrlC:
		return tea.KeyPressMsg{Code: 'c', Mod: tea.ModCtrl}
	case keys.CtrlS:
		return tea.KeyPressMsg{Code: 's', Mod: tea.ModCtrl}
	case keys.CtrlY:
		return tea.KeyPressMsg{Code: 'y', Mod: tea.ModCtrl}
	case keys.ShiftEnter:
		return tea.KeyPressMsg{Code: tea.KeyEnter, Mod: tea.ModShift}
	default:
		if len(key) == 1 {
			return tea.KeyPressMsg{Code: rune(key[0]), Text: key}
		}
		return tea.KeyPressMsg{Text: key}
	}
}

// sendKey sends a key press to the model and returns the command it produced.
func sendKey(m *Model, key string) tea.Cmd {
	_, cmd := m.Update(keyPress(key))
	return cmd
}

// typeText simulates typing a string by sending individual character key presses.
func typeText(m *Model, text string) {
	for _, ch := range text {
		sendKey(m, string(ch))
	}
}

// setSize sends a window size message to the model.
func setSize(m *Model, width, height int) *Model {
	result, _ := m.Update(tea.WindowSizeMsg{Width: width, Height: height})
	return result.(*Model)
}

// drain runs cmd and every command its results produce, feeding result
// messages back into the model. Timers and the unauthorized listener never
// finish within the deadline and are dropped.
func drain(t *testing.T, m *Model, cmd tea.Cmd) {
	t.Helper()
	queue := []tea.Cmd{cmd}
	for steps := 0; len(queue) > 0; steps++ {
		if steps > 200 {
			t.Fatal("drain: command loop did not settle")
		}
		next := queue[0]
		queue = queue[1:]
		if next == nil {
			continue
		}
		switch msg := runCmd(next, 50*time.Millisecond).(type) {
		case nil:
		case tea.BatchMsg:
			queue = append(queue, msg...)
		case ui.FlashTickMsg, ui.SidebarTickMsg, ui.StopwatchTickMsg, ui.SelectionFlashTickMsg, tea.QuitMsg:
		default:
			_, follow := m.Update(msg)
			queue = append(queue, follow)
		}
	}
}

func runCmd(cmd tea.Cmd, timeout time.Duration) tea.Msg {
	ch := make(chan tea.Msg, 1)
	go func() { ch <- cmd() }()
	select {
	case msg := <-ch:
		return msg
	case <-time.After(timeout):
		return nil
	}
}

// collect runs cmd and returns the immediate messages, flattening batches.
// Commands that block past timeout are skipped.
func collect(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	switch msg := runCmd(cmd, 50*time.Millisecond).(type) {
	case nil:
		return nil
	case tea.BatchMsg:
		var out []tea.Msg
		for _, c := range msg {
			out = append(out, collect(c)...)
		}
		return out
	default:
		return []tea.Msg{msg}
	}
}

// containsText reports whether the rendered view contains text once styling is stripped.
func containsText(view, text string) bool {
	return strings.Contains(ansi.Strip(view), text)
}
