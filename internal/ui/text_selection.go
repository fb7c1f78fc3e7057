package ui

import (
	"image/color"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	uv "github.com/charmbracelet/ultraviolet"
	"github.com/charmbracelet/x/ansi"
	"github.com/rivo/uniseg"

	"github.com/zhubert/parley/internal/clipboard"
	"github.com/zhubert/parley/internal/logger"
)

// Selection coordinates are cells relative to the message viewport: (0,0)
// is the first visible cell inside the panel border. Chat.Update subtracts
// the border from panel-relative mouse events before they reach here.

// ClipboardErrorMsg is sent when the native clipboard write fails
type ClipboardErrorMsg struct {
	Error error
}

// TextCopiedMsg is sent after text lands on the native clipboard
type TextCopiedMsg struct {
	Text string
}

const (
	doubleClickThreshold = 500 * time.Millisecond
	clickTolerance       = 2 // cells
)

// StartSelection begins a text selection at the given coordinates
func (c *Chat) StartSelection(col, line int) {
	c.selectionStartCol = col
	c.selectionStartLine = line
	c.selectionEndCol = col
	c.selectionEndLine = line
	c.selectionActive = true
}

// EndSelection updates the end position of the selection during drag
func (c *Chat) EndSelection(col, line int) {
	if !c.selectionActive {
		return
	}
	c.selectionEndCol = col
	c.selectionEndLine = line
}

// SelectionStop ends the drag but keeps the selection visible
func (c *Chat) SelectionStop() {
	c.selectionActive = false
}

// SelectionClear clears the selection entirely
func (c *Chat) SelectionClear() {
	c.selectionStartCol = -1
	c.selectionStartLine = -1
	c.selectionEndCol = -1
	c.selectionEndLine = -1
	c.selectionActive = false
}

// HasTextSelection returns true if there is an active or completed selection
func (c *Chat) HasTextSelection() bool {
	return c.selectionStartCol >= 0 && c.selectionStartLine >= 0 &&
		(c.selectionEndCol != c.selectionStartCol || c.selectionEndLine != c.selectionStartLine)
}

// handleMouseClick starts a drag, or on double and triple clicks selects
// the word or paragraph under the pointer and copies it.
func (c *Chat) handleMouseClick(x, y int) tea.Cmd {
	now := time.Now()

	if now.Sub(c.lastClickTime) <= doubleClickThreshold &&
		abs(x-c.lastClickX) <= clickTolerance &&
		abs(y-c.lastClickY) <= clickTolerance {
		c.clickCount++
	} else {
		c.clickCount = 1
	}

	c.lastClickTime = now
	c.lastClickX = x
	c.lastClickY = y

	switch c.clickCount {
	case 1:
		c.StartSelection(x, y)
	case 2:
		c.SelectWord(x, y)
		return c.CopySelectedText()
	case 3:
		c.SelectParagraph(x, y)
		c.clickCount = 0
		return c.CopySelectedText()
	}
	return nil
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// visibleLines returns the viewport's visible lines with ANSI stripped
func (c *Chat) visibleLines() []string {
	lines := strings.Split(c.viewport.View(), "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(ansi.Strip(line), " ")
	}
	return lines
}

// SelectWord selects the word at the given cell
func (c *Chat) SelectWord(col, line int) {
	lines := c.visibleLines()
	if line < 0 || line >= len(lines) {
		return
	}
	current := lines[line]
	if col < 0 || col >= ansi.StringWidth(current) {
		return
	}

	// Walk graphemes tracking cell positions; a word spans the boundaries
	// around col.
	startCol, endCol := 0, ansi.StringWidth(current)
	pos := 0
	state := -1
	rest := current
	for len(rest) > 0 {
		var cluster string
		var boundaries int
		cluster, rest, boundaries, state = uniseg.StepString(rest, state)
		width := boundaries >> uniseg.ShiftWidth
		isSpace := strings.TrimSpace(cluster) == ""
		if isSpace && pos < col {
			startCol = pos + width
		}
		if isSpace && pos >= col {
			endCol = pos
			break
		}
		pos += width
	}

	c.selectionStartCol = startCol
	c.selectionStartLine = line
	c.selectionEndCol = endCol
	c.selectionEndLine = line
	c.selectionActive = false
}

// SelectParagraph selects the block of non-blank lines around line
func (c *Chat) SelectParagraph(col, line int) {
	lines := c.visibleLines()
	if line < 0 || line >= len(lines) {
		return
	}

	startLine, endLine := line, line
	for startLine > 0 && strings.TrimSpace(lines[startLine-1]) != "" {
		startLine--
	}
	for endLine < len(lines)-1 && strings.TrimSpace(lines[endLine+1]) != "" {
		endLine++
	}

	c.selectionStartCol = 0
	c.selectionStartLine = startLine
	c.selectionEndCol = ansi.StringWidth(lines[endLine])
	c.selectionEndLine = endLine
	c.selectionActive = false
}

// selectionArea returns the selection with start before end in reading order
func (c *Chat) selectionArea() (startCol, startLine, endCol, endLine int) {
	startCol = c.selectionStartCol
	startLine = c.selectionStartLine
	endCol = c.selectionEndCol
	endLine = c.selectionEndLine

	if startLine > endLine || (startLine == endLine && startCol > endCol) {
		startCol, endCol = endCol, startCol
		startLine, endLine = endLine, startLine
	}
	return
}

// GetSelectedText returns the selected text. Columns are cells, so wide
// characters are cut by display width rather than bytes.
func (c *Chat) GetSelectedText() string {
	if !c.HasTextSelection() {
		return ""
	}

	lines := c.visibleLines()
	startCol, startLine, endCol, endLine := c.selectionArea()

	var b strings.Builder
	for y := startLine; y <= endLine && y < len(lines); y++ {
		line := lines[y]
		lineWidth := ansi.StringWidth(line)

		from, to := 0, lineWidth
		if y == startLine {
			from = startCol
		}
		if y == endLine {
			to = endCol
		}
		if from < 0 {
			from = 0
		}
		if to > lineWidth {
			to = lineWidth
		}
		if from < to {
			b.WriteString(ansi.Cut(line, from, to))
		}
		if y < endLine {
			b.WriteString("\n")
		}
	}
	return strings.TrimSpace(b.String())
}

// CopySelectedText copies the selection and flashes it
func (c *Chat) CopySelectedText() tea.Cmd {
	text := c.GetSelectedText()
	if text == "" {
		return nil
	}
	c.selectionFlashFrame = 0
	return tea.Batch(CopyText(text), SelectionFlashTick())
}

// CopyText writes text to the clipboard through OSC 52 and the native
// clipboard.
func CopyText(text string) tea.Cmd {
	return tea.Batch(
		tea.SetClipboard(text),
		func() tea.Msg {
			if err := clipboard.WriteText(text); err != nil {
				logger.WithComponent("ui").Warn("clipboard write failed", "error", err)
				return ClipboardErrorMsg{Error: err}
			}
			return TextCopiedMsg{Text: text}
		},
	)
}

// selectionView paints the selection highlight over the rendered viewport
func (c *Chat) selectionView(view string) string {
	if !c.HasTextSelection() {
		return view
	}

	width := c.viewport.Width()
	height := c.viewport.Height()
	if width <= 0 || height <= 0 {
		return view
	}

	area := uv.Rect(0, 0, width, height)
	scr := uv.NewScreenBuffer(area.Dx(), area.Dy())
	uv.NewStyledString(view).Draw(scr, area)

	startCol, startLine, endCol, endLine := c.selectionArea()

	style := SelectionStyle
	if c.selectionFlashFrame == 0 {
		style = SelectionFlashStyle
	}
	var selBg, selFg color.Color = style.GetBackground(), style.GetForeground()

	for y := startLine; y <= endLine && y < height; y++ {
		xStart, xEnd := 0, width
		if y == startLine {
			xStart = startCol
		}
		if y == endLine {
			xEnd = endCol
		}
		if xStart < 0 {
			xStart = 0
		}

		for x := xStart; x < xEnd && x < width; x++ {
			cell := scr.CellAt(x, y)
			if cell == nil {
				continue
			}
			cell = cell.Clone()
			cell.Style.Bg = selBg
			cell.Style.Fg = selFg
			scr.SetCell(x, y, cell)
		}
	}

	return scr.Render()
}
