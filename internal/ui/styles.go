package ui

import "charm.land/lipgloss/v2"

// Color palette. Populated from the active theme by regenerateStyles.
var (
	ColorPrimary     = lipgloss.Color("#7C3AED")
	ColorSecondary   = lipgloss.Color("#06B6D4")
	ColorBg          = lipgloss.Color("#1F2937")
	ColorBgSelected  = lipgloss.Color("#7C3AED")
	ColorText        = lipgloss.Color("#F9FAFB")
	ColorTextMuted   = lipgloss.Color("#9CA3AF")
	ColorTextInverse = lipgloss.Color("#F9FAFB")
	ColorBorder      = lipgloss.Color("#374151")
	ColorBorderFocus = lipgloss.Color("#7C3AED")
	ColorUser        = lipgloss.Color("#A78BFA")
	ColorAssistant   = lipgloss.Color("#22D3EE")
	ColorSuccess     = lipgloss.Color("#4ADE80")
	ColorWarning     = lipgloss.Color("#F59E0B")
	ColorError       = lipgloss.Color("#EF4444")
	ColorInfo        = lipgloss.Color("#06B6D4")
)

// Header and footer
var (
	HeaderStyle      lipgloss.Style
	HeaderLabelStyle lipgloss.Style

	FooterStyle     lipgloss.Style
	FooterKeyStyle  lipgloss.Style
	FooterDescStyle lipgloss.Style

	FlashInfoStyle    lipgloss.Style
	FlashSuccessStyle lipgloss.Style
	FlashWarningStyle lipgloss.Style
	FlashErrorStyle   lipgloss.Style
)

// Panels
var (
	PanelStyle        lipgloss.Style
	PanelFocusedStyle lipgloss.Style
)

// Sidebar
var (
	SidebarItemStyle     lipgloss.Style
	SidebarSelectedStyle lipgloss.Style
	SidebarCurrentStyle  lipgloss.Style
	SidebarTagStyle      lipgloss.Style
	SidebarMutedStyle    lipgloss.Style
	SidebarSearchStyle   lipgloss.Style
	SidebarProfileStyle  lipgloss.Style
	SidebarAvatarStyle   lipgloss.Style
)

// Message list and composer
var (
	ChatUserStyle      lipgloss.Style
	ChatAssistantStyle lipgloss.Style
	ChatTimestampStyle lipgloss.Style
	ChatUserTextStyle  lipgloss.Style
	ChatEmptyStyle     lipgloss.Style
	TypingStyle        lipgloss.Style

	ComposerStyle         lipgloss.Style
	ComposerFocusedStyle  lipgloss.Style
	ComposerDisabledStyle lipgloss.Style
)

// Markdown
var (
	MarkdownH1Style         lipgloss.Style
	MarkdownH2Style         lipgloss.Style
	MarkdownH3Style         lipgloss.Style
	MarkdownCodeStyle       lipgloss.Style
	MarkdownCodeBlockStyle  lipgloss.Style
	MarkdownBoldStyle       lipgloss.Style
	MarkdownItalicStyle     lipgloss.Style
	MarkdownStrikeStyle     lipgloss.Style
	MarkdownLinkStyle       lipgloss.Style
	MarkdownListBulletStyle lipgloss.Style
	MarkdownQuoteStyle      lipgloss.Style
	MarkdownQuoteBarStyle   lipgloss.Style
	MarkdownRuleStyle       lipgloss.Style
)

// Modal and selection
var (
	ModalStyle lipgloss.Style

	SelectionStyle      lipgloss.Style
	SelectionFlashStyle lipgloss.Style
)
