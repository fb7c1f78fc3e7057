package ui

import (
	"strings"
	"time"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/mattn/go-runewidth"
	"github.com/rivo/uniseg"

	"github.com/zhubert/parley/internal/api"
	"github.com/zhubert/parley/internal/keys"
	"github.com/zhubert/parley/internal/personality"
)

// sidebarSpinnerFrames is the loading spinner, shared with the typing indicator
var sidebarSpinnerFrames = []string{"·", "✺", "✹", "✸", "✷", "✶", "✵", "✴", "✳", "✲", "✱", "✧", "✦", "·"}

// sidebarSpinnerHoldTimes holds the first and last frames longer
var sidebarSpinnerHoldTimes = []int{3, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 3}

// SidebarTickMsg is sent to advance the spinner animation
type SidebarTickMsg time.Time

// SidebarTick returns a command that sends a tick message after a delay
func SidebarTick() tea.Cmd {
	return tea.Tick(300*time.Millisecond, func(t time.Time) tea.Msg {
		return SidebarTickMsg(t)
	})
}

// profileHeight is the profile block at the bottom: a top border and one line
const profileHeight = 2

// Sidebar is the left panel listing chats
type Sidebar struct {
	chats        []api.Chat
	filtered     []api.Chat // nil when no filter is active
	selectedIdx  int
	currentID    string
	width        int
	height       int
	focused      bool
	scrollOffset int

	loading      bool
	spinnerFrame int
	spinnerTick  int

	username string

	searchMode  bool
	searchInput textinput.Model
}

// NewSidebar creates a new sidebar
func NewSidebar() *Sidebar {
	ti := textinput.New()
	ti.Placeholder = "search chats..."
	ti.CharLimit = SidebarSearchCharLimit
	ti.Prompt = ""

	return &Sidebar{searchInput: ti}
}

// SetSize sets the sidebar dimensions
func (s *Sidebar) SetSize(width, height int) {
	s.width = width
	s.height = height
}

// Width returns the sidebar width
func (s *Sidebar) Width() int {
	return s.width
}

// SetFocused sets the focus state
func (s *Sidebar) SetFocused(focused bool) {
	s.focused = focused
}

// IsFocused returns the focus state
func (s *Sidebar) IsFocused() bool {
	return s.focused
}

// SetUsername sets the name shown in the profile line
func (s *Sidebar) SetUsername(username string) {
	s.username = username
}

// SetChats replaces the chat list, keeping the selection on the same chat
// when it still exists.
func (s *Sidebar) SetChats(chats []api.Chat) {
	var selectedID string
	if sel := s.SelectedChat(); sel != nil {
		selectedID = sel.ID
	}

	s.chats = make([]api.Chat, len(chats))
	copy(s.chats, chats)
	if s.filtered != nil {
		s.applyFilter(s.searchInput.Value())
	}

	if selectedID == "" || !s.SelectChat(selectedID) {
		s.clampSelection()
	}
}

// Chats returns the full, unfiltered chat list
func (s *Sidebar) Chats() []api.Chat {
	return s.chats
}

// SetCurrent marks the chat shown in the message pane
func (s *Sidebar) SetCurrent(id string) {
	s.currentID = id
}

// SetLoading raises or lowers the loading spinner. Raising it returns the
// first tick.
func (s *Sidebar) SetLoading(loading bool) tea.Cmd {
	wasLoading := s.loading
	s.loading = loading
	if loading && !wasLoading {
		s.spinnerFrame = 0
		s.spinnerTick = 0
		return SidebarTick()
	}
	return nil
}

// IsLoading reports whether the spinner is showing
func (s *Sidebar) IsLoading() bool {
	return s.loading
}

// SelectedChat returns the highlighted chat, or nil when the list is empty
func (s *Sidebar) SelectedChat() *api.Chat {
	display := s.displayChats()
	if s.selectedIdx < 0 || s.selectedIdx >= len(display) {
		return nil
	}
	return &display[s.selectedIdx]
}

// SelectChat moves the highlight to the chat with id. It returns false when
// the chat is not visible.
func (s *Sidebar) SelectChat(id string) bool {
	for i, c := range s.displayChats() {
		if c.ID == id {
			s.selectedIdx = i
			return true
		}
	}
	return false
}

// EnterSearchMode starts filtering the list by name
func (s *Sidebar) EnterSearchMode() tea.Cmd {
	s.searchMode = true
	s.searchInput.SetValue("")
	s.applyFilter("")
	return s.searchInput.Focus()
}

// ExitSearchMode leaves search and clears the filter
func (s *Sidebar) ExitSearchMode() {
	s.searchMode = false
	s.searchInput.Blur()
	s.searchInput.SetValue("")
	s.filtered = nil
	s.clampSelection()
}

// IsSearchMode reports whether keystrokes go to the filter
func (s *Sidebar) IsSearchMode() bool {
	return s.searchMode
}

// HasFilter reports whether a filter is narrowing the list
func (s *Sidebar) HasFilter() bool {
	return s.filtered != nil
}

// GetSearchQuery returns the current search query
func (s *Sidebar) GetSearchQuery() string {
	return s.searchInput.Value()
}

// applyFilter keeps chats whose name contains query, ignoring case
func (s *Sidebar) applyFilter(query string) {
	query = strings.ToLower(query)
	if query == "" {
		s.filtered = nil
		s.clampSelection()
		return
	}

	s.filtered = []api.Chat{}
	for _, c := range s.chats {
		if strings.Contains(strings.ToLower(c.Name), query) {
			s.filtered = append(s.filtered, c)
		}
	}
	s.selectedIdx = 0
	s.scrollOffset = 0
}

// displayChats returns the chats to display (filtered or all)
func (s *Sidebar) displayChats() []api.Chat {
	if s.filtered != nil {
		return s.filtered
	}
	return s.chats
}

func (s *Sidebar) clampSelection() {
	n := len(s.displayChats())
	if s.selectedIdx >= n {
		s.selectedIdx = n - 1
	}
	if s.selectedIdx < 0 {
		s.selectedIdx = 0
	}
}

// Update handles spinner ticks and list navigation
func (s *Sidebar) Update(msg tea.Msg) (*Sidebar, tea.Cmd) {
	switch msg := msg.(type) {
	case SidebarTickMsg:
		if !s.loading {
			return s, nil
		}
		s.spinnerTick++
		hold := sidebarSpinnerHoldTimes[s.spinnerFrame%len(sidebarSpinnerHoldTimes)]
		if s.spinnerTick >= hold {
			s.spinnerTick = 0
			s.spinnerFrame = (s.spinnerFrame + 1) % len(sidebarSpinnerFrames)
		}
		return s, SidebarTick()

	case tea.KeyPressMsg:
		if !s.focused {
			return s, nil
		}
		display := s.displayChats()

		if s.searchMode {
			switch msg.String() {
			case keys.Escape:
				s.ExitSearchMode()
				return s, nil
			case keys.Enter:
				// Stop typing but keep the filter so the highlighted chat can be opened
				s.searchMode = false
				s.searchInput.Blur()
				return s, nil
			case keys.Up, keys.CtrlP:
				if s.selectedIdx > 0 {
					s.selectedIdx--
				}
				return s, nil
			case keys.Down, keys.CtrlN:
				if s.selectedIdx < len(display)-1 {
					s.selectedIdx++
				}
				return s, nil
			default:
				var cmd tea.Cmd
				s.searchInput, cmd = s.searchInput.Update(msg)
				s.applyFilter(s.searchInput.Value())
				return s, cmd
			}
		}

		switch msg.String() {
		case keys.Up, "k":
			if s.selectedIdx > 0 {
				s.selectedIdx--
			}
		case keys.Down, "j":
			if s.selectedIdx < len(display)-1 {
				s.selectedIdx++
			}
		case keys.Home, "g":
			s.selectedIdx = 0
		case keys.End, "G":
			if len(display) > 0 {
				s.selectedIdx = len(display) - 1
			}
		}
	}
	return s, nil
}

// View renders the sidebar
func (s *Sidebar) View() string {
	ctx := GetViewContext()

	style := PanelStyle
	if s.focused {
		style = PanelFocusedStyle
	}

	innerWidth := ctx.InnerWidth(s.width)
	innerHeight := ctx.InnerHeight(s.height) - profileHeight

	var top []string
	if s.searchMode || s.filtered != nil {
		s.searchInput.SetWidth(innerWidth - 4)
		query := s.searchInput.View()
		if !s.searchMode {
			query = SidebarTagStyle.Render(s.searchInput.Value())
		}
		top = append(top, SidebarSearchStyle.Render("/ ")+query)
	}
	if s.loading {
		frame := sidebarSpinnerFrames[s.spinnerFrame%len(sidebarSpinnerFrames)]
		top = append(top, SidebarMutedStyle.Render(frame+" loading"))
	}
	innerHeight -= len(top)

	body := s.renderList(innerWidth, innerHeight)

	lines := append(top, body...)
	for len(lines) < innerHeight+len(top) {
		lines = append(lines, "")
	}
	lines = append(lines, s.renderProfile(innerWidth))

	// In lipgloss v2, Width/Height include borders, so pass full panel size
	return style.Width(s.width).Height(s.height).Render(strings.Join(lines, "\n"))
}

// renderList renders the visible window of chat rows
func (s *Sidebar) renderList(width, height int) []string {
	if height <= 0 {
		return nil
	}
	display := s.displayChats()
	if len(display) == 0 {
		if s.filtered != nil {
			return []string{SidebarMutedStyle.Render("No matches")}
		}
		if s.loading {
			return nil
		}
		return []string{SidebarMutedStyle.Render("No chats yet"), SidebarMutedStyle.Render("press n to start one")}
	}

	if s.selectedIdx < s.scrollOffset {
		s.scrollOffset = s.selectedIdx
	} else if s.selectedIdx >= s.scrollOffset+height {
		s.scrollOffset = s.selectedIdx - height + 1
	}
	maxScroll := len(display) - height
	if maxScroll < 0 {
		maxScroll = 0
	}
	if s.scrollOffset > maxScroll {
		s.scrollOffset = maxScroll
	}
	if s.scrollOffset < 0 {
		s.scrollOffset = 0
	}

	end := s.scrollOffset + height
	if end > len(display) {
		end = len(display)
	}
	lines := make([]string, 0, end-s.scrollOffset)
	for i := s.scrollOffset; i < end; i++ {
		lines = append(lines, s.renderRow(display[i], i == s.selectedIdx, width))
	}
	return lines
}

// renderRow renders one chat as "name  label", truncated to width
func (s *Sidebar) renderRow(c api.Chat, selected bool, width int) string {
	label := personality.Label(c.Personality)
	marker := "  "
	if c.ID == s.currentID {
		marker = "● "
	}
	if selected {
		marker = "> "
	}

	// Row padding is 1 on each side
	room := width - 2 - runewidth.StringWidth(marker)
	labelWidth := runewidth.StringWidth(label)
	nameRoom := room - labelWidth - 1
	name := c.Name
	if nameRoom < 4 {
		label = ""
		nameRoom = room
	}
	name = runewidth.Truncate(name, nameRoom, "…")
	gap := room - runewidth.StringWidth(name) - runewidth.StringWidth(label)
	if gap < 1 {
		gap = 1
	}

	switch {
	case selected:
		return SidebarSelectedStyle.Width(width).Render(marker + name + strings.Repeat(" ", gap) + label)
	case c.ID == s.currentID:
		return SidebarCurrentStyle.Width(width).Render(marker + name + strings.Repeat(" ", gap) + SidebarTagStyle.Render(label))
	default:
		return SidebarItemStyle.Width(width).Render(marker + name + strings.Repeat(" ", gap) + SidebarTagStyle.Render(label))
	}
}

// renderProfile renders the avatar initials and username
func (s *Sidebar) renderProfile(width int) string {
	name := s.username
	if name == "" {
		name = "not signed in"
	}
	avatar := SidebarAvatarStyle.Render(Initials(s.username))
	room := width - lipgloss.Width(avatar) - 3
	if room < 1 {
		room = 1
	}
	return SidebarProfileStyle.Width(width).Render(avatar + " " + runewidth.Truncate(name, room, "…"))
}

// Initials returns up to two uppercase initials for name, splitting on
// spaces, dots, dashes and underscores. An empty name gives "?".
func Initials(name string) string {
	fields := strings.FieldsFunc(name, func(r rune) bool {
		return r == ' ' || r == '.' || r == '-' || r == '_' || r == '@'
	})
	if len(fields) == 0 {
		return "?"
	}
	first := firstGrapheme(fields[0])
	if len(fields) == 1 {
		// A single word contributes its first two graphemes
		g := uniseg.NewGraphemes(fields[0])
		var b strings.Builder
		for i := 0; i < 2 && g.Next(); i++ {
			b.WriteString(g.Str())
		}
		return strings.ToUpper(b.String())
	}
	return strings.ToUpper(first + firstGrapheme(fields[1]))
}

func firstGrapheme(s string) string {
	g := uniseg.NewGraphemes(s)
	if g.Next() {
		return g.Str()
	}
	return ""
}
