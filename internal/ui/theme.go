package ui

import (
	"sort"

	"charm.land/lipgloss/v2"
)

// Theme is a color palette for the whole UI.
type Theme struct {
	// Name is the display name shown in the theme picker
	Name string

	Primary   string // focus, header gradient, selection
	Secondary string // assistant accents

	Bg         string
	BgSelected string // defaults to Primary

	Text        string
	TextMuted   string
	TextInverse string // text drawn on Primary

	User      string // "You" label
	Assistant string // persona label
	Success   string
	Warning   string
	Error     string
	Info      string

	Border      string
	BorderFocus string // defaults to Primary

	SelectionBg string // mouse selection highlight
	SelectionFg string

	MarkdownH1       string
	MarkdownH2       string
	MarkdownH3       string
	MarkdownCode     string
	MarkdownCodeBg   string
	MarkdownLink     string
	MarkdownListItem string
	MarkdownQuote    string

	// ChromaStyle names the chroma style used for fenced code blocks
	ChromaStyle string
}

// GetBgSelected returns the selected background color, defaulting to Primary
func (t Theme) GetBgSelected() string {
	if t.BgSelected != "" {
		return t.BgSelected
	}
	return t.Primary
}

// GetBorderFocus returns the focused border color, defaulting to Primary
func (t Theme) GetBorderFocus() string {
	if t.BorderFocus != "" {
		return t.BorderFocus
	}
	return t.Primary
}

// ThemeName identifies a built-in theme.
type ThemeName string

const (
	ThemeDarkPurple ThemeName = "dark-purple"
	ThemeNord       ThemeName = "nord"
	ThemeDracula    ThemeName = "dracula"
	ThemeGruvbox    ThemeName = "gruvbox"
	ThemeTokyoNight ThemeName = "tokyo-night"
	ThemeLight      ThemeName = "light"
)

// DefaultTheme is used when the config names no theme or an unknown one
const DefaultTheme = ThemeDarkPurple

// BuiltinThemes contains all built-in themes
var BuiltinThemes = map[ThemeName]Theme{
	ThemeDarkPurple: {
		Name:             "Dark Purple",
		Primary:          "#7C3AED",
		Secondary:        "#06B6D4",
		Bg:               "#1F2937",
		Text:             "#F9FAFB",
		TextMuted:        "#9CA3AF",
		TextInverse:      "#F9FAFB",
		User:             "#A78BFA",
		Assistant:        "#22D3EE",
		Success:          "#4ADE80",
		Warning:          "#F59E0B",
		Error:            "#EF4444",
		Info:             "#06B6D4",
		Border:           "#374151",
		SelectionBg:      "#5B21B6",
		SelectionFg:      "#F9FAFB",
		MarkdownH1:       "#A78BFA",
		MarkdownH2:       "#C4B5FD",
		MarkdownH3:       "#22D3EE",
		MarkdownCode:     "#67E8F9",
		MarkdownCodeBg:   "#1E1E2E",
		MarkdownLink:     "#67E8F9",
		MarkdownListItem: "#06B6D4",
		MarkdownQuote:    "#9CA3AF",
		ChromaStyle:      "dracula",
	},
	ThemeNord: {
		Name:             "Nord",
		Primary:          "#88C0D0",
		Secondary:        "#81A1C1",
		Bg:               "#2E3440",
		Text:             "#ECEFF4",
		TextMuted:        "#7B88A1",
		TextInverse:      "#2E3440",
		User:             "#B48EAD",
		Assistant:        "#8FBCBB",
		Success:          "#A3BE8C",
		Warning:          "#EBCB8B",
		Error:            "#BF616A",
		Info:             "#5E81AC",
		Border:           "#4C566A",
		SelectionBg:      "#434C5E",
		SelectionFg:      "#ECEFF4",
		MarkdownH1:       "#88C0D0",
		MarkdownH2:       "#81A1C1",
		MarkdownH3:       "#8FBCBB",
		MarkdownCode:     "#A3BE8C",
		MarkdownCodeBg:   "#3B4252",
		MarkdownLink:     "#88C0D0",
		MarkdownListItem: "#81A1C1",
		MarkdownQuote:    "#7B88A1",
		ChromaStyle:      "nord",
	},
	ThemeDracula: {
		Name:             "Dracula",
		Primary:          "#BD93F9",
		Secondary:        "#8BE9FD",
		Bg:               "#282A36",
		Text:             "#F8F8F2",
		TextMuted:        "#6272A4",
		TextInverse:      "#282A36",
		User:             "#FF79C6",
		Assistant:        "#8BE9FD",
		Success:          "#50FA7B",
		Warning:          "#FFB86C",
		Error:            "#FF5555",
		Info:             "#8BE9FD",
		Border:           "#44475A",
		SelectionBg:      "#44475A",
		SelectionFg:      "#F8F8F2",
		MarkdownH1:       "#FF79C6",
		MarkdownH2:       "#BD93F9",
		MarkdownH3:       "#8BE9FD",
		MarkdownCode:     "#50FA7B",
		MarkdownCodeBg:   "#21222C",
		MarkdownLink:     "#8BE9FD",
		MarkdownListItem: "#BD93F9",
		MarkdownQuote:    "#6272A4",
		ChromaStyle:      "dracula",
	},
	ThemeGruvbox: {
		Name:             "Gruvbox",
		Primary:          "#D79921",
		Secondary:        "#689D6A",
		Bg:               "#282828",
		Text:             "#EBDBB2",
		TextMuted:        "#928374",
		TextInverse:      "#282828",
		User:             "#D3869B",
		Assistant:        "#8EC07C",
		Success:          "#B8BB26",
		Warning:          "#FABD2F",
		Error:            "#FB4934",
		Info:             "#83A598",
		Border:           "#504945",
		SelectionBg:      "#504945",
		SelectionFg:      "#FBF1C7",
		MarkdownH1:       "#FABD2F",
		MarkdownH2:       "#FE8019",
		MarkdownH3:       "#8EC07C",
		MarkdownCode:     "#B8BB26",
		MarkdownCodeBg:   "#32302F",
		MarkdownLink:     "#83A598",
		MarkdownListItem: "#D79921",
		MarkdownQuote:    "#928374",
		ChromaStyle:      "gruvbox",
	},
	ThemeTokyoNight: {
		Name:             "Tokyo Night",
		Primary:          "#7AA2F7",
		Secondary:        "#BB9AF7",
		Bg:               "#1A1B26",
		Text:             "#C0CAF5",
		TextMuted:        "#565F89",
		TextInverse:      "#1A1B26",
		User:             "#BB9AF7",
		Assistant:        "#7DCFFF",
		Success:          "#9ECE6A",
		Warning:          "#E0AF68",
		Error:            "#F7768E",
		Info:             "#7DCFFF",
		Border:           "#292E42",
		SelectionBg:      "#33467C",
		SelectionFg:      "#C0CAF5",
		MarkdownH1:       "#7AA2F7",
		MarkdownH2:       "#BB9AF7",
		MarkdownH3:       "#7DCFFF",
		MarkdownCode:     "#9ECE6A",
		MarkdownCodeBg:   "#16161E",
		MarkdownLink:     "#7DCFFF",
		MarkdownListItem: "#7AA2F7",
		MarkdownQuote:    "#565F89",
		ChromaStyle:      "tokyonight-night",
	},
	ThemeLight: {
		Name:             "Light",
		Primary:          "#6D28D9",
		Secondary:        "#0E7490",
		Bg:               "#FFFFFF",
		Text:             "#111827",
		TextMuted:        "#6B7280",
		TextInverse:      "#FFFFFF",
		User:             "#7C3AED",
		Assistant:        "#0E7490",
		Success:          "#15803D",
		Warning:          "#B45309",
		Error:            "#B91C1C",
		Info:             "#0369A1",
		Border:           "#D1D5DB",
		SelectionBg:      "#DDD6FE",
		SelectionFg:      "#111827",
		MarkdownH1:       "#6D28D9",
		MarkdownH2:       "#7C3AED",
		MarkdownH3:       "#0E7490",
		MarkdownCode:     "#BE185D",
		MarkdownCodeBg:   "#F3F4F6",
		MarkdownLink:     "#0369A1",
		MarkdownListItem: "#6D28D9",
		MarkdownQuote:    "#6B7280",
		ChromaStyle:      "github",
	},
}

// ThemeNames returns the built-in theme names in sorted order
func ThemeNames() []ThemeName {
	names := make([]ThemeName, 0, len(BuiltinThemes))
	for name := range BuiltinThemes {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool { return names[i] < names[j] })
	return names
}

// GetTheme returns the named theme, falling back to DefaultTheme
func GetTheme(name ThemeName) Theme {
	if theme, ok := BuiltinThemes[name]; ok {
		return theme
	}
	return BuiltinThemes[DefaultTheme]
}

var (
	currentTheme     = BuiltinThemes[DefaultTheme]
	currentThemeName = DefaultTheme
)

// CurrentTheme returns the active theme
func CurrentTheme() Theme {
	return currentTheme
}

// CurrentThemeName returns the identifier of the active theme
func CurrentThemeName() ThemeName {
	return currentThemeName
}

// SetTheme switches the active theme and rebuilds every style.
func SetTheme(name ThemeName) {
	if _, ok := BuiltinThemes[name]; !ok {
		name = DefaultTheme
	}
	currentThemeName = name
	currentTheme = BuiltinThemes[name]
	regenerateStyles()
	RefreshModalStyles()
}

// SetThemeByName is SetTheme for a config string
func SetThemeByName(name string) {
	SetTheme(ThemeName(name))
}

func init() {
	regenerateStyles()
	RefreshModalStyles()
}

// regenerateStyles rebuilds the package style vars from currentTheme.
func regenerateStyles() {
	t := currentTheme

	ColorPrimary = lipgloss.Color(t.Primary)
	ColorSecondary = lipgloss.Color(t.Secondary)
	ColorBg = lipgloss.Color(t.Bg)
	ColorBgSelected = lipgloss.Color(t.GetBgSelected())
	ColorText = lipgloss.Color(t.Text)
	ColorTextMuted = lipgloss.Color(t.TextMuted)
	ColorTextInverse = lipgloss.Color(t.TextInverse)
	ColorBorder = lipgloss.Color(t.Border)
	ColorBorderFocus = lipgloss.Color(t.GetBorderFocus())
	ColorUser = lipgloss.Color(t.User)
	ColorAssistant = lipgloss.Color(t.Assistant)
	ColorSuccess = lipgloss.Color(t.Success)
	ColorWarning = lipgloss.Color(t.Warning)
	ColorError = lipgloss.Color(t.Error)
	ColorInfo = lipgloss.Color(t.Info)

	HeaderStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(ColorTextInverse).
		Background(ColorPrimary).
		Padding(0, 1)
	HeaderLabelStyle = lipgloss.NewStyle().
		Foreground(ColorTextInverse).
		Italic(true)

	FooterStyle = lipgloss.NewStyle().
		Foreground(ColorTextMuted).
		Padding(0, 1)
	FooterKeyStyle = lipgloss.NewStyle().
		Foreground(ColorPrimary).
		Bold(true)
	FooterDescStyle = lipgloss.NewStyle().
		Foreground(ColorTextMuted)

	FlashInfoStyle = lipgloss.NewStyle().Foreground(ColorInfo).Bold(true)
	FlashSuccessStyle = lipgloss.NewStyle().Foreground(ColorSuccess).Bold(true)
	FlashWarningStyle = lipgloss.NewStyle().Foreground(ColorWarning).Bold(true)
	FlashErrorStyle = lipgloss.NewStyle().Foreground(ColorError).Bold(true)

	PanelStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorBorder)
	PanelFocusedStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorBorderFocus)

	SidebarItemStyle = lipgloss.NewStyle().
		Foreground(ColorText).
		Padding(0, 1)
	SidebarSelectedStyle = lipgloss.NewStyle().
		Foreground(ColorTextInverse).
		Background(ColorBgSelected).
		Bold(true).
		Padding(0, 1)
	SidebarCurrentStyle = lipgloss.NewStyle().
		Foreground(ColorPrimary).
		Bold(true).
		Padding(0, 1)
	SidebarTagStyle = lipgloss.NewStyle().
		Foreground(ColorTextMuted)
	SidebarMutedStyle = lipgloss.NewStyle().
		Foreground(ColorTextMuted).
		Italic(true).
		Padding(0, 1)
	SidebarSearchStyle = lipgloss.NewStyle().
		Foreground(ColorPrimary).
		Padding(0, 1)
	SidebarProfileStyle = lipgloss.NewStyle().
		Foreground(ColorText).
		BorderTop(true).
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(ColorBorder).
		Padding(0, 1)
	SidebarAvatarStyle = lipgloss.NewStyle().
		Foreground(ColorTextInverse).
		Background(ColorPrimary).
		Bold(true).
		Padding(0, 1)

	ChatUserStyle = lipgloss.NewStyle().
		Foreground(ColorUser).
		Bold(true)
	ChatAssistantStyle = lipgloss.NewStyle().
		Foreground(ColorAssistant).
		Bold(true)
	ChatTimestampStyle = lipgloss.NewStyle().
		Foreground(ColorTextMuted)
	ChatUserTextStyle = lipgloss.NewStyle().
		Foreground(ColorText)
	ChatEmptyStyle = lipgloss.NewStyle().
		Foreground(ColorTextMuted).
		Italic(true)
	TypingStyle = lipgloss.NewStyle().
		Foreground(ColorAssistant).
		Italic(true)

	ComposerStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorBorder).
		Padding(0, 1)
	ComposerFocusedStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorBorderFocus).
		Padding(0, 1)
	ComposerDisabledStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorBorder).
		Foreground(ColorTextMuted).
		Padding(0, 1)

	MarkdownH1Style = lipgloss.NewStyle().
		Foreground(lipgloss.Color(t.MarkdownH1)).
		Bold(true).
		Underline(true)
	MarkdownH2Style = lipgloss.NewStyle().
		Foreground(lipgloss.Color(t.MarkdownH2)).
		Bold(true)
	MarkdownH3Style = lipgloss.NewStyle().
		Foreground(lipgloss.Color(t.MarkdownH3)).
		Bold(true)
	MarkdownCodeStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color(t.MarkdownCode)).
		Background(lipgloss.Color(t.MarkdownCodeBg))
	MarkdownCodeBlockStyle = lipgloss.NewStyle().
		Background(lipgloss.Color(t.MarkdownCodeBg)).
		Padding(0, 1)
	MarkdownBoldStyle = lipgloss.NewStyle().Bold(true)
	MarkdownItalicStyle = lipgloss.NewStyle().Italic(true)
	MarkdownStrikeStyle = lipgloss.NewStyle().Strikethrough(true)
	MarkdownLinkStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color(t.MarkdownLink)).
		Underline(true)
	MarkdownListBulletStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color(t.MarkdownListItem))
	MarkdownQuoteStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color(t.MarkdownQuote)).
		Italic(true)
	MarkdownQuoteBarStyle = lipgloss.NewStyle().
		Foreground(ColorBorderFocus)
	MarkdownRuleStyle = lipgloss.NewStyle().
		Foreground(ColorBorder)

	ModalStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorPrimary).
		Padding(1, 2)

	SelectionStyle = lipgloss.NewStyle().
		Background(lipgloss.Color(t.SelectionBg)).
		Foreground(lipgloss.Color(t.SelectionFg))
	SelectionFlashStyle = lipgloss.NewStyle().
		Background(ColorSuccess).
		Foreground(ColorTextInverse)
}
