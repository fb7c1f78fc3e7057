// Package app is the Bubble Tea model that wires the session manager and
// the API client to the ui components.
package app

import (
	"context"

	tea "charm.land/bubbletea/v2"

	"github.com/zhubert/parley/internal/api"
	"github.com/zhubert/parley/internal/config"
	"github.com/zhubert/parley/internal/keys"
	"github.com/zhubert/parley/internal/logger"
	"github.com/zhubert/parley/internal/session"
	"github.com/zhubert/parley/internal/ui"
)

// Backend is everything the app needs from the API client.
type Backend interface {
	session.Backend
	Login(ctx context.Context, username, password string) (*api.Token, error)
	Signup(ctx context.Context, username, email, password string) (*api.SignupResult, error)
	Me(ctx context.Context) (*api.User, error)
	Logout() error
	Authenticated() bool
	SetUnauthorizedHook(fn func())
}

// Focus represents which panel is focused
type Focus int

const (
	FocusSidebar Focus = iota
	FocusChat
)

// Model is the main Bubble Tea model
type Model struct {
	config  *config.Config
	creds   *config.Credentials
	backend Backend
	session *session.Manager
	version string

	header  *ui.Header
	footer  *ui.Footer
	sidebar *ui.Sidebar
	chat    *ui.Chat
	modal   *ui.Modal

	width  int
	height int
	focus  Focus

	authenticated bool

	// pendingSelectID is selected once the chat list arrives: the last chat
	// on startup, or a chat that was just created.
	pendingSelectID string

	// unauthorized receives a value whenever the client sees a 401
	unauthorized chan struct{}

	ctx    context.Context
	cancel context.CancelFunc
}

// New creates a new app model
func New(cfg *config.Config, creds *config.Credentials, backend Backend, version string) *Model {
	if savedTheme := cfg.GetTheme(); savedTheme != "" {
		ui.SetThemeByName(savedTheme)
	}

	ctx, cancel := context.WithCancel(context.Background())
	m := &Model{
		config:       cfg,
		creds:        creds,
		backend:      backend,
		session:      session.NewManager(backend),
		version:      version,
		header:       ui.NewHeader(),
		footer:       ui.NewFooter(),
		sidebar:      ui.NewSidebar(),
		chat:         ui.NewChat(),
		modal:        ui.NewModal(),
		focus:        FocusSidebar,
		unauthorized: make(chan struct{}, 1),
		ctx:          ctx,
		cancel:       cancel,
	}

	backend.SetUnauthorizedHook(m.notifyUnauthorized)

	m.sidebar.SetFocused(true)
	m.sidebar.SetUsername(creds.GetUsername())
	m.authenticated = backend.Authenticated()
	if m.authenticated {
		m.pendingSelectID = cfg.GetLastChatID()
	} else {
		m.modal.Show(ui.NewLoginState(creds.GetUsername()))
	}

	logger.WithComponent("app").Info("starting", "version", version, "authenticated", m.authenticated)
	return m
}

// Init starts the unauthorized listener and, when a token is already
// stored, loads the chat list and the profile.
func (m *Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.listenForUnauthorized()}
	if m.authenticated {
		cmds = append(cmds, m.startSession())
	}
	return tea.Batch(cmds...)
}

// startSession is run once per login: fetch the chats and the profile
func (m *Model) startSession() tea.Cmd {
	return tea.Batch(m.fetchChats(), m.fetchProfile())
}

// Update handles messages
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateSizes()
		return m, nil

	case tea.KeyPressMsg:
		return m.handleKey(msg)

	case tea.MouseClickMsg, tea.MouseMotionMsg, tea.MouseReleaseMsg, tea.MouseWheelMsg:
		if m.modal.IsVisible() {
			return m, nil
		}
		return m, m.routeMouseEvents(msg)

	case tea.PasteMsg:
		if m.modal.IsVisible() {
			modal, cmd := m.modal.Update(msg)
			m.modal = modal
			return m, cmd
		}
		if m.focus == FocusChat {
			chat, cmd := m.chat.Update(msg)
			m.chat = chat
			return m, cmd
		}
		return m, nil

	case ui.FlashTickMsg:
		if m.footer.ClearIfExpired() {
			return m, ui.FlashTick()
		}
		return m, nil

	case ui.SidebarTickMsg:
		sidebar, cmd := m.sidebar.Update(msg)
		m.sidebar = sidebar
		return m, cmd

	case ui.StopwatchTickMsg, ui.SelectionFlashTickMsg:
		chat, cmd := m.chat.Update(msg)
		m.chat = chat
		return m, cmd

	case ui.TextCopiedMsg:
		return m, m.flashSuccess("Copied to clipboard")

	case ui.ClipboardErrorMsg:
		return m, m.flashWarning("Native clipboard unavailable")

	case ChatsLoadedMsg:
		return m.handleChatsLoaded(msg)
	case ChatLoadedMsg:
		return m.handleChatLoaded(msg)
	case ChatCreatedMsg:
		return m.handleChatCreated(msg)
	case ChatDeletedMsg:
		return m.handleChatDeleted(msg)
	case ReplyMsg:
		return m.handleReply(msg)
	case LoginResultMsg:
		return m.handleLoginResult(msg)
	case SignupResultMsg:
		return m.handleSignupResult(msg)
	case ProfileMsg:
		return m.handleProfile(msg)
	case UnauthorizedMsg:
		return m.handleUnauthorized()
	}

	if m.modal.IsVisible() {
		modal, cmd := m.modal.Update(msg)
		m.modal = modal
		return m, cmd
	}
	return m, nil
}

// handleKey routes a key press to the modal, the shortcuts, or the
// focused panel.
func (m *Model) handleKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	if key == keys.CtrlC {
		return m.quit()
	}

	if m.modal.IsVisible() {
		return m.handleModalKey(msg)
	}

	if !m.authenticated {
		m.modal.Show(ui.NewLoginState(m.creds.GetUsername()))
		return m, nil
	}

	if m.focus == FocusSidebar && m.sidebar.IsSearchMode() {
		return m.handleSearchKey(msg)
	}

	if result, cmd, handled := m.ExecuteShortcut(key); handled {
		return result, cmd
	}

	if m.focus == FocusSidebar {
		return m.handleSidebarKey(msg)
	}
	return m.handleChatKey(msg)
}

// handleSearchKey feeds the sidebar filter. Enter also opens the
// highlighted match.
func (m *Model) handleSearchKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	sidebar, cmd := m.sidebar.Update(msg)
	m.sidebar = sidebar
	if msg.String() == keys.Enter {
		if sel := m.sidebar.SelectedChat(); sel != nil {
			return m, tea.Batch(cmd, m.openChat(sel.ID))
		}
	}
	return m, cmd
}

func (m *Model) handleSidebarKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case keys.Enter:
		sel := m.sidebar.SelectedChat()
		if sel == nil {
			return m, nil
		}
		return m, m.openChat(sel.ID)

	case keys.Escape:
		if m.sidebar.HasFilter() {
			m.sidebar.ExitSearchMode()
		}
		return m, nil

	case keys.PgUp, keys.PgDown, keys.CtrlU, keys.CtrlD:
		// Scroll the message pane without leaving the sidebar
		m.chat.SetFocused(true)
		chat, cmd := m.chat.Update(msg)
		m.chat = chat
		m.chat.SetFocused(false)
		return m, cmd
	}

	sidebar, cmd := m.sidebar.Update(msg)
	m.sidebar = sidebar
	return m, cmd
}

func (m *Model) handleChatKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case keys.Enter:
		return m, m.sendMessage()

	case keys.Escape:
		if m.chat.HasTextSelection() {
			m.chat.SelectionClear()
			return m, nil
		}
		return m, m.clearCurrentChat()
	}

	chat, cmd := m.chat.Update(msg)
	m.chat = chat
	return m, cmd
}

// quit cancels in-flight requests and exits
func (m *Model) quit() (tea.Model, tea.Cmd) {
	m.cancel()
	return m, tea.Quit
}
