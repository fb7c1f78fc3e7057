package ui

import (
	"bytes"
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/charmbracelet/x/ansi"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	east "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"
)

var markdown = goldmark.New(
	goldmark.WithExtensions(extension.Strikethrough, extension.Linkify),
)

const (
	bulletMarker = "• "
	quoteBar     = "│ "
	codeBar      = "▎"
)

// highlightCode applies syntax highlighting to code using the active
// theme's chroma style.
func highlightCode(code, language string) string {
	var lexer chroma.Lexer
	if language != "" {
		lexer = lexers.Get(language)
	}
	if lexer == nil {
		lexer = lexers.Analyse(code)
	}
	if lexer == nil {
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)

	style := styles.Get(CurrentTheme().ChromaStyle)
	if style == nil {
		style = styles.Fallback
	}

	formatter := formatters.Get("terminal256")
	if formatter == nil {
		formatter = formatters.Fallback
	}

	iterator, err := lexer.Tokenise(nil, code)
	if err != nil {
		return code
	}

	var buf bytes.Buffer
	if err := formatter.Format(&buf, style, iterator); err != nil {
		return code
	}
	return strings.TrimRight(buf.String(), "\n")
}

// renderMarkdown renders assistant content as styled terminal text wrapped
// to width.
func renderMarkdown(content string, width int) string {
	if width <= 0 {
		width = DefaultWrapWidth
	}
	src := []byte(content)
	doc := markdown.Parser().Parse(text.NewReader(src))
	r := &mdRenderer{src: src}
	return strings.Join(r.children(doc, width, false), "\n\n")
}

// renderUserText renders user content literally: whitespace is preserved
// and long lines are hard-wrapped.
func renderUserText(content string, width int) string {
	if width <= 0 {
		width = DefaultWrapWidth
	}
	content = strings.ReplaceAll(content, "\t", "    ")
	content = strings.ReplaceAll(content, "\r\n", "\n")
	return ChatUserTextStyle.Render(ansi.Hardwrap(content, width, true))
}

// mdRenderer turns a goldmark AST into styled lines
type mdRenderer struct {
	src []byte
}

// children renders each block child of n. In a tight list the paragraphs
// come through as TextBlocks and are joined by single newlines by the caller.
func (r *mdRenderer) children(n ast.Node, width int, tight bool) []string {
	var blocks []string
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		if out := r.block(c, width, tight); out != "" {
			blocks = append(blocks, out)
		}
	}
	return blocks
}

func (r *mdRenderer) block(n ast.Node, width int, tight bool) string {
	switch n := n.(type) {
	case *ast.Heading:
		style := MarkdownH3Style
		switch n.Level {
		case 1:
			style = MarkdownH1Style
		case 2:
			style = MarkdownH2Style
		}
		return ansi.Wrap(r.inlines(n, style), width, "")

	case *ast.Paragraph, *ast.TextBlock:
		return ansi.Wrap(r.inlines(n, lipgloss.NewStyle()), width, "")

	case *ast.FencedCodeBlock:
		return r.code(r.lines(n.Lines()), string(n.Language(r.src)), width)

	case *ast.CodeBlock:
		return r.code(r.lines(n.Lines()), "", width)

	case *ast.Blockquote:
		inner := strings.Join(r.children(n, width-len(quoteBar), false), "\n\n")
		var b strings.Builder
		for i, line := range strings.Split(inner, "\n") {
			if i > 0 {
				b.WriteString("\n")
			}
			b.WriteString(MarkdownQuoteBarStyle.Render(quoteBar) + MarkdownQuoteStyle.Render(line))
		}
		return b.String()

	case *ast.List:
		return r.list(n, width)

	case *ast.ThematicBreak:
		return MarkdownRuleStyle.Render(strings.Repeat("─", width))

	case *ast.HTMLBlock:
		return ChatTimestampStyle.Render(ansi.Hardwrap(strings.TrimRight(r.lines(n.Lines()), "\n"), width, true))

	default:
		return strings.Join(r.children(n, width, tight), "\n")
	}
}

// list renders bullets or numbers with hanging indents
func (r *mdRenderer) list(n *ast.List, width int) string {
	var items []string
	num := n.Start
	if num == 0 {
		num = 1
	}

	markerWidth := len(bulletMarker)
	if n.IsOrdered() {
		last := num + n.ChildCount() - 1
		markerWidth = len(fmt.Sprintf("%d. ", last))
	}

	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		marker := bulletMarker
		if n.IsOrdered() {
			marker = fmt.Sprintf("%*d. ", markerWidth-2, num)
			num++
		}
		sep := "\n\n"
		if n.IsTight {
			sep = "\n"
		}
		body := strings.Join(r.children(c, width-markerWidth, n.IsTight), sep)
		indent := strings.Repeat(" ", markerWidth)

		var b strings.Builder
		for i, line := range strings.Split(body, "\n") {
			if i == 0 {
				b.WriteString(MarkdownListBulletStyle.Render(marker) + line)
				continue
			}
			b.WriteString("\n")
			if line != "" {
				b.WriteString(indent + line)
			}
		}
		items = append(items, b.String())
	}

	if n.IsTight {
		return strings.Join(items, "\n")
	}
	return strings.Join(items, "\n\n")
}

// code renders a code block with a left bar and optional language label
func (r *mdRenderer) code(code, language string, width int) string {
	code = strings.TrimRight(code, "\n")
	highlighted := highlightCode(code, language)
	bar := MarkdownQuoteBarStyle.Render(codeBar) + " "

	var b strings.Builder
	if language != "" {
		b.WriteString(ChatTimestampStyle.Render(language))
		b.WriteString("\n")
	}
	wrapped := ansi.Hardwrap(highlighted, width-2, true)
	for i, line := range strings.Split(wrapped, "\n") {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(bar + line)
	}
	return b.String()
}

func (r *mdRenderer) lines(segs *text.Segments) string {
	var b strings.Builder
	for i := 0; i < segs.Len(); i++ {
		seg := segs.At(i)
		b.Write(seg.Value(r.src))
	}
	return b.String()
}

// inlines renders the inline children of n with style applied to every leaf
func (r *mdRenderer) inlines(n ast.Node, style lipgloss.Style) string {
	var b strings.Builder
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		r.inline(&b, c, style)
	}
	return b.String()
}

func (r *mdRenderer) inline(b *strings.Builder, n ast.Node, style lipgloss.Style) {
	switch n := n.(type) {
	case *ast.Text:
		b.WriteString(style.Render(string(n.Segment.Value(r.src))))
		switch {
		case n.HardLineBreak():
			b.WriteString("\n")
		case n.SoftLineBreak():
			b.WriteString(" ")
		}

	case *ast.String:
		b.WriteString(style.Render(string(n.Value)))

	case *ast.CodeSpan:
		var code strings.Builder
		for c := n.FirstChild(); c != nil; c = c.NextSibling() {
			switch t := c.(type) {
			case *ast.Text:
				code.Write(t.Segment.Value(r.src))
			case *ast.String:
				code.Write(t.Value)
			}
		}
		b.WriteString(MarkdownCodeStyle.Render(code.String()))

	case *ast.Emphasis:
		next := style.Inherit(MarkdownItalicStyle)
		if n.Level >= 2 {
			next = style.Inherit(MarkdownBoldStyle)
		}
		for c := n.FirstChild(); c != nil; c = c.NextSibling() {
			r.inline(b, c, next)
		}

	case *east.Strikethrough:
		next := style.Inherit(MarkdownStrikeStyle)
		for c := n.FirstChild(); c != nil; c = c.NextSibling() {
			r.inline(b, c, next)
		}

	case *ast.Link:
		label := r.inlines(n, style.Inherit(MarkdownLinkStyle))
		b.WriteString(label)
		dest := string(n.Destination)
		if dest != "" && ansi.Strip(label) != dest {
			b.WriteString(ChatTimestampStyle.Render(" (" + dest + ")"))
		}

	case *ast.AutoLink:
		b.WriteString(MarkdownLinkStyle.Render(string(n.URL(r.src))))

	case *ast.Image:
		alt := ansi.Strip(r.inlines(n, lipgloss.NewStyle()))
		if alt == "" {
			alt = "image"
		}
		b.WriteString(ChatTimestampStyle.Render("[" + alt + "] " + string(n.Destination)))

	case *ast.RawHTML:
		for i := 0; i < n.Segments.Len(); i++ {
			seg := n.Segments.At(i)
			b.WriteString(style.Render(string(seg.Value(r.src))))
		}

	default:
		for c := n.FirstChild(); c != nil; c = c.NextSibling() {
			r.inline(b, c, style)
		}
	}
}

// renderNoChatMessage is shown in the message pane when no chat is selected
func renderNoChatMessage(width int) string {
	title := lipgloss.NewStyle().Foreground(ColorPrimary).Bold(true).Render("No chat selected")
	hint := ChatEmptyStyle.Render("Pick a chat from the sidebar, or press n to start a new one.")
	return ansi.Wrap(title+"\n\n"+hint, width, "")
}
