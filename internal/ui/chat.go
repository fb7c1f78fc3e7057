package ui

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"charm.land/bubbles/v2/textarea"
	"charm.land/bubbles/v2/viewport"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/x/ansi"

	"github.com/zhubert/parley/internal/api"
	"github.com/zhubert/parley/internal/keys"
	"github.com/zhubert/parley/internal/personality"
)

// StopwatchTickMsg is sent to animate the typing indicator
type StopwatchTickMsg time.Time

// SelectionFlashTickMsg ends the copy flash on a selection
type SelectionFlashTickMsg time.Time

// thinkingVerbs cycle in the typing indicator while a reply is pending
var thinkingVerbs = []string{
	"Typing",
	"Thinking",
	"Pondering",
	"Musing",
	"Mulling it over",
	"Considering",
	"Reflecting",
	"Composing",
	"Brewing a reply",
	"Gathering thoughts",
}

// randomThinkingVerb returns a random verb from the list
func randomThinkingVerb() string {
	return thinkingVerbs[rand.Intn(len(thinkingVerbs))]
}

// StopwatchTick returns a command that sends a tick message after a delay
func StopwatchTick() tea.Cmd {
	return tea.Tick(100*time.Millisecond, func(t time.Time) tea.Msg {
		return StopwatchTickMsg(t)
	})
}

// SelectionFlashTick returns a command that sends a selection flash tick
func SelectionFlashTick() tea.Cmd {
	return tea.Tick(150*time.Millisecond, func(t time.Time) tea.Msg {
		return SelectionFlashTickMsg(t)
	})
}

// formatElapsed renders a duration as "4s" or "1m 12s"
func formatElapsed(d time.Duration) string {
	secs := int(d.Seconds())
	if secs < 60 {
		return fmt.Sprintf("%ds", secs)
	}
	return fmt.Sprintf("%dm %ds", secs/60, secs%60)
}

// Chat is the right panel: the message list above the composer
type Chat struct {
	viewport viewport.Model
	input    textarea.Model
	width    int
	height   int
	focused  bool

	messages []api.Message
	chatName string
	tag      string
	hasChat  bool

	sending      bool
	sendStart    time.Time
	sendingVerb  string
	spinnerFrame int

	composerLines int

	// Text selection state, in viewport coordinates
	selectionStartCol   int
	selectionStartLine  int
	selectionEndCol     int
	selectionEndLine    int
	selectionActive     bool
	selectionFlashFrame int // -1 when not flashing

	lastClickTime time.Time
	lastClickX    int
	lastClickY    int
	clickCount    int
}

// NewChat creates a new chat panel
func NewChat() *Chat {
	ti := textarea.New()
	ti.Placeholder = "Type a message..."
	ti.CharLimit = ComposerCharLimit
	ti.ShowLineNumbers = false
	ti.Prompt = ""
	ti.SetHeight(ComposerMinLines)
	// Enter submits; newlines come from shift+enter and ctrl+j in Update
	ti.KeyMap.InsertNewline.SetEnabled(false)
	applyComposerStyles(&ti)

	vp := viewport.New()
	vp.MouseWheelEnabled = true
	vp.MouseWheelDelta = 3

	c := &Chat{
		viewport:            vp,
		input:               ti,
		composerLines:       ComposerMinLines,
		selectionFlashFrame: -1,
	}
	c.SelectionClear()
	c.updateContent()
	return c
}

// applyComposerStyles drops the textarea's default backgrounds
func applyComposerStyles(ta *textarea.Model) {
	styles := ta.Styles()
	base := lipgloss.NewStyle()
	text := lipgloss.NewStyle().Foreground(ColorText)
	placeholder := lipgloss.NewStyle().Foreground(ColorTextMuted)

	styles.Focused.Base = base
	styles.Focused.Text = text
	styles.Focused.Placeholder = placeholder
	styles.Focused.CursorLine = text
	styles.Focused.Prompt = text

	styles.Blurred.Base = base
	styles.Blurred.Text = placeholder
	styles.Blurred.Placeholder = placeholder
	styles.Blurred.CursorLine = placeholder
	styles.Blurred.Prompt = placeholder

	ta.SetStyles(styles)
}

// RefreshStyles reapplies theme colors after a theme change
func (c *Chat) RefreshStyles() {
	applyComposerStyles(&c.input)
	c.updateContent()
}

// SetSize sets the chat panel dimensions
func (c *Chat) SetSize(width, height int) {
	c.width = width
	c.height = height
	c.input.SetWidth(GetViewContext().InnerWidth(width) - ComposerPaddingWidth)
	c.layout()
	c.updateContent()
}

// composerHeight is the composer's outer height including borders
func (c *Chat) composerHeight() int {
	return c.composerLines + ComposerBorderHeight
}

// layout sizes the viewport to whatever the composer leaves over
func (c *Chat) layout() {
	ctx := GetViewContext()
	panelHeight := c.height
	if c.hasChat {
		panelHeight -= c.composerHeight()
	}
	vpHeight := ctx.InnerHeight(panelHeight)
	if vpHeight < 1 {
		vpHeight = 1
	}
	vpWidth := ctx.InnerWidth(c.width)
	if vpWidth < 1 {
		vpWidth = 1
	}
	c.viewport.SetWidth(vpWidth)
	c.viewport.SetHeight(vpHeight)
}

// growComposer fits the composer to its content, between ComposerMinLines
// and ComposerMaxLines visual lines.
func (c *Chat) growComposer() {
	width := c.input.Width()
	if width < 1 {
		width = DefaultWrapWidth
	}
	lines := 0
	for _, line := range strings.Split(c.input.Value(), "\n") {
		w := ansi.StringWidth(line)
		lines += 1 + w/width
	}
	if lines < ComposerMinLines {
		lines = ComposerMinLines
	}
	if lines > ComposerMaxLines {
		lines = ComposerMaxLines
	}
	if lines == c.composerLines {
		return
	}
	atBottom := c.viewport.AtBottom()
	c.composerLines = lines
	c.input.SetHeight(lines)
	c.layout()
	if atBottom {
		c.viewport.GotoBottom()
	}
}

// ComposerLines returns the composer's current height in lines
func (c *Chat) ComposerLines() int {
	return c.composerLines
}

// SetFocused sets the focus state
func (c *Chat) SetFocused(focused bool) {
	c.focused = focused
	c.syncInputFocus()
}

// IsFocused returns the focus state
func (c *Chat) IsFocused() bool {
	return c.focused
}

// syncInputFocus keeps the textarea focused only when it can accept input
func (c *Chat) syncInputFocus() {
	if c.focused && c.ComposerEnabled() {
		c.input.Focus()
	} else {
		c.input.Blur()
	}
}

// ComposerEnabled reports whether the composer accepts input: a chat is
// selected and no reply is pending.
func (c *Chat) ComposerEnabled() bool {
	return c.hasChat && !c.sending
}

// SetChat shows a chat. The view scrolls to the bottom when the message
// sequence differs from what was shown.
func (c *Chat) SetChat(name, tag string, messages []api.Message) {
	switched := !c.hasChat || c.chatName != name || c.tag != tag
	c.chatName = name
	c.tag = tag
	hadChat := c.hasChat
	c.hasChat = true
	if !hadChat {
		c.layout()
	}
	if switched {
		c.SelectionClear()
	}
	c.SetMessages(messages)
	c.syncInputFocus()
}

// SetMessages replaces the rendered messages, scrolling to the newest one
// when the sequence changed.
func (c *Chat) SetMessages(messages []api.Message) {
	changed := !sameMessages(c.messages, messages)
	c.messages = make([]api.Message, len(messages))
	copy(c.messages, messages)
	c.updateContent()
	if changed {
		c.viewport.GotoBottom()
	}
}

func sameMessages(a, b []api.Message) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].ID != b[i].ID || a[i].Content != b[i].Content {
			return false
		}
	}
	return true
}

// ClearChat returns the panel to the no-chat state
func (c *Chat) ClearChat() {
	c.hasChat = false
	c.chatName = ""
	c.tag = ""
	c.messages = nil
	c.sending = false
	c.SelectionClear()
	c.input.Reset()
	c.growComposer()
	c.layout()
	c.syncInputFocus()
	c.updateContent()
}

// HasChat reports whether a chat is shown
func (c *Chat) HasChat() bool {
	return c.hasChat
}

// Messages returns the rendered messages
func (c *Chat) Messages() []api.Message {
	return c.messages
}

// SetSending toggles the typing indicator. Turning it on returns the first
// animation tick.
func (c *Chat) SetSending(sending bool) tea.Cmd {
	if sending == c.sending {
		return nil
	}
	c.sending = sending
	c.syncInputFocus()
	c.updateContent()
	c.viewport.GotoBottom()
	if sending {
		c.sendStart = time.Now()
		c.sendingVerb = randomThinkingVerb()
		c.spinnerFrame = 0
		c.updateContent()
		return StopwatchTick()
	}
	return nil
}

// IsSending reports whether the typing indicator is showing
func (c *Chat) IsSending() bool {
	return c.sending
}

// GetInput returns the composer text as typed
func (c *Chat) GetInput() string {
	return c.input.Value()
}

// SetInput replaces the composer text
func (c *Chat) SetInput(value string) {
	c.input.SetValue(value)
	c.growComposer()
}

// ClearInput empties the composer
func (c *Chat) ClearInput() {
	c.input.Reset()
	c.growComposer()
}

// Submit takes the trimmed composer text and clears the composer. It
// returns false without touching the composer when the text is blank or
// the composer is disabled.
func (c *Chat) Submit() (string, bool) {
	if !c.ComposerEnabled() {
		return "", false
	}
	content := strings.TrimSpace(c.input.Value())
	if content == "" {
		return "", false
	}
	c.ClearInput()
	return content, true
}

// assistantName labels assistant messages with the chat's persona
func (c *Chat) assistantName() string {
	return personality.Label(c.tag)
}

// updateContent re-renders the message list into the viewport
func (c *Chat) updateContent() {
	wrapWidth := c.viewport.Width()
	if wrapWidth <= 0 {
		wrapWidth = DefaultWrapWidth
	}

	if !c.hasChat {
		c.viewport.SetContent(renderNoChatMessage(wrapWidth))
		return
	}

	var sb strings.Builder
	if len(c.messages) == 0 && !c.sending {
		sb.WriteString(ChatEmptyStyle.Render("Say hello to your " + strings.ToLower(c.assistantName()) + "..."))
	}

	for i, msg := range c.messages {
		if i > 0 {
			sb.WriteString("\n\n")
		}
		sb.WriteString(c.renderMessage(msg, wrapWidth))
	}

	if c.sending {
		if len(c.messages) > 0 {
			sb.WriteString("\n\n")
		}
		sb.WriteString(ChatAssistantStyle.Render(c.assistantName()))
		sb.WriteString("\n")
		sb.WriteString(c.renderTyping())
	}

	c.viewport.SetContent(sb.String())
}

// renderMessage renders one message with its role line
func (c *Chat) renderMessage(msg api.Message, width int) string {
	var header string
	if msg.IsAssistant() {
		header = ChatAssistantStyle.Render(c.assistantName())
	} else {
		header = ChatUserStyle.Render("You")
	}
	if !msg.Timestamp.IsZero() {
		header += ChatTimestampStyle.Render("  " + msg.Timestamp.Local().Format("15:04"))
	}

	var body string
	if msg.IsAssistant() {
		body = renderMarkdown(strings.TrimSpace(msg.Content), width)
	} else {
		body = renderUserText(msg.Content, width)
	}
	return header + "\n" + body
}

// renderTyping renders the spinner, verb and stopwatch
func (c *Chat) renderTyping() string {
	frame := sidebarSpinnerFrames[c.spinnerFrame%len(sidebarSpinnerFrames)]
	elapsed := formatElapsed(time.Since(c.sendStart))
	stopwatch := lipgloss.NewStyle().Foreground(ColorPrimary).Bold(true).Render(elapsed)
	return TypingStyle.Render(frame+" "+c.sendingVerb+"...") + " " + stopwatch
}

// Update handles ticks, composer keys, scrolling and mouse selection
func (c *Chat) Update(msg tea.Msg) (*Chat, tea.Cmd) {
	switch msg := msg.(type) {
	case StopwatchTickMsg:
		if !c.sending {
			return c, nil
		}
		c.spinnerFrame = (c.spinnerFrame + 1) % len(sidebarSpinnerFrames)
		atBottom := c.viewport.AtBottom()
		c.updateContent()
		if atBottom {
			c.viewport.GotoBottom()
		}
		return c, StopwatchTick()

	case SelectionFlashTickMsg:
		if c.selectionFlashFrame >= 0 {
			c.selectionFlashFrame = -1
			c.SelectionClear()
		}
		return c, nil

	case tea.MouseClickMsg:
		if msg.Button != tea.MouseLeft {
			break
		}
		// Coordinates arrive relative to the panel; drop the border
		return c, c.handleMouseClick(msg.X-1, msg.Y-1)

	case tea.MouseMotionMsg:
		if c.selectionActive {
			c.EndSelection(msg.X-1, msg.Y-1)
		}
		return c, nil

	case tea.MouseReleaseMsg:
		if !c.selectionActive {
			return c, nil
		}
		c.EndSelection(msg.X-1, msg.Y-1)
		c.SelectionStop()
		if c.HasTextSelection() {
			return c, c.CopySelectedText()
		}
		c.SelectionClear()
		return c, nil

	case tea.PasteMsg:
		if !c.ComposerEnabled() {
			return c, nil
		}
		var cmd tea.Cmd
		c.input, cmd = c.input.Update(msg)
		c.growComposer()
		return c, cmd

	case tea.KeyPressMsg:
		if !c.focused {
			return c, nil
		}
		switch msg.String() {
		case keys.PgUp, keys.PgDown, keys.CtrlU, keys.CtrlD, keys.CtrlUp, keys.CtrlDown:
			var cmd tea.Cmd
			c.viewport, cmd = c.viewport.Update(msg)
			return c, cmd
		case keys.ShiftEnter, keys.CtrlJ, keys.AltEnter:
			if c.ComposerEnabled() {
				c.input.InsertString("\n")
				c.growComposer()
			}
			return c, nil
		}
		if !c.ComposerEnabled() {
			return c, nil
		}
		c.SelectionClear()
		var cmd tea.Cmd
		c.input, cmd = c.input.Update(msg)
		c.growComposer()
		return c, cmd
	}

	var cmd tea.Cmd
	c.viewport, cmd = c.viewport.Update(msg)
	return c, cmd
}

// View renders the chat panel
func (c *Chat) View() string {
	panelStyle := PanelStyle
	if c.focused {
		panelStyle = PanelFocusedStyle
	}

	if !c.hasChat {
		return panelStyle.Width(c.width).Height(c.height).Render(c.viewport.View())
	}

	content := c.selectionView(c.viewport.View())
	chatPanel := panelStyle.Width(c.width).Height(c.height - c.composerHeight()).Render(content)

	inputStyle := ComposerStyle
	switch {
	case !c.ComposerEnabled():
		inputStyle = ComposerDisabledStyle
	case c.focused:
		inputStyle = ComposerFocusedStyle
	}
	inputArea := inputStyle.Width(c.width).Render(c.input.View())

	return lipgloss.JoinVertical(lipgloss.Left, chatPanel, inputArea)
}
