package ui

import "time"

// Layout constants for panel sizing
const (
	// HeaderHeight is the height of the header in lines
	HeaderHeight = 1

	// FooterHeight is the height of the footer in lines
	FooterHeight = 1

	// BorderSize is the total border width (1 on each side)
	BorderSize = 2

	// SidebarWidthRatio is the denominator for sidebar width (1/3 of total width)
	SidebarWidthRatio = 3

	// SidebarMaxWidth caps the sidebar on wide terminals
	SidebarMaxWidth = 40

	// ComposerMinLines is the composer height before the user types anything
	ComposerMinLines = 1

	// ComposerMaxLines is the height the composer stops growing at
	ComposerMaxLines = 6

	// ComposerBorderHeight is the border size around the composer
	ComposerBorderHeight = 2

	// ComposerPaddingWidth is the horizontal padding inside the composer
	ComposerPaddingWidth = 2

	// ComposerCharLimit bounds a single message
	ComposerCharLimit = 4000

	// MinTerminalWidth and MinTerminalHeight clamp layout math on tiny terminals
	MinTerminalWidth  = 40
	MinTerminalHeight = 10

	// DefaultWrapWidth is the default width for text wrapping when viewport width is unknown
	DefaultWrapWidth = 80
)

// Modal dimensions
const (
	// ModalWidth is the default width of modals
	ModalWidth = 60

	// ModalInputCharLimit is the character limit for modal text inputs
	ModalInputCharLimit = 256

	// ModalInputWidth is the width of modal text inputs
	ModalInputWidth = 50

	// SidebarSearchCharLimit bounds the sidebar filter
	SidebarSearchCharLimit = 64

	// HelpModalMaxVisible is the number of shortcut rows shown before scrolling
	HelpModalMaxVisible = 14
)

// FlashDuration is how long a footer flash stays up
const FlashDuration = 4 * time.Second
