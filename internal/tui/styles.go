package tui

import "github.com/charmbracelet/lipgloss"

// Styles holds all lipgloss styles for the TUI.
type Styles struct {
	App          lipgloss.Style
	Pane         lipgloss.Style
	PaneActive   lipgloss.Style
	Title        lipgloss.Style
	Item         lipgloss.Style
	ItemSelected lipgloss.Style
	ItemActive   lipgloss.Style
	Token        lipgloss.Style
	Badge        lipgloss.Style
	Tag          lipgloss.Style
	FilterItem   lipgloss.Style
	FilterActive lipgloss.Style
	Help         lipgloss.Style
	Empty        lipgloss.Style
	StatusOK     lipgloss.Style
	StatusError  lipgloss.Style
	HintKey      lipgloss.Style
	HintDesc     lipgloss.Style
}

// palette is the resolved color set for one theme.
type palette struct {
	primary lipgloss.Color // main text
	subtle  lipgloss.Color // secondary text
	accent  lipgloss.Color // desaturated teal
	border  lipgloss.Color // inactive borders
	danger  lipgloss.Color
}

var palettes = map[string]palette{
	"light": {
		primary: lipgloss.Color("#505050"),
		subtle:  lipgloss.Color("#888888"),
		accent:  lipgloss.Color("#4A7070"),
		border:  lipgloss.Color("#888888"),
		danger:  lipgloss.Color("#A04848"),
	},
	"dark": {
		primary: lipgloss.Color("#A0A0A0"),
		subtle:  lipgloss.Color("#606060"),
		accent:  lipgloss.Color("#5F8787"),
		border:  lipgloss.Color("#505050"),
		danger:  lipgloss.Color("#B06060"),
	},
}

// DefaultStyles returns the dark style configuration.
func DefaultStyles() Styles {
	return StylesFor("dark")
}

// StylesFor builds the style configuration for a theme name. Unknown
// names fall back to dark. Industrial design: grayscale with a single
// desaturated teal accent.
func StylesFor(theme string) Styles {
	p, ok := palettes[theme]
	if !ok {
		p = palettes["dark"]
	}
	primary := p.primary
	subtle := p.subtle
	accent := p.accent
	border := p.border

	return Styles{
		App: lipgloss.NewStyle().
			PaddingTop(1).
			PaddingLeft(2).
			PaddingRight(2),

		Pane: lipgloss.NewStyle().
			Border(lipgloss.ThickBorder()).
			BorderForeground(border).
			Padding(0, 1),

		PaneActive: lipgloss.NewStyle().
			Border(lipgloss.ThickBorder()).
			BorderForeground(accent).
			Padding(0, 1),

		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(accent),

		Item: lipgloss.NewStyle().
			Foreground(primary).
			PaddingLeft(1),

		ItemSelected: lipgloss.NewStyle().
			PaddingLeft(1).
			Background(accent).
			Foreground(lipgloss.Color("#1A1A1A")),

		ItemActive: lipgloss.NewStyle().
			Foreground(accent).
			Bold(true),

		Token: lipgloss.NewStyle().
			Foreground(subtle),

		Badge: lipgloss.NewStyle().
			Foreground(accent),

		Tag: lipgloss.NewStyle().
			Foreground(subtle),

		FilterItem: lipgloss.NewStyle().
			Foreground(subtle).
			Padding(0, 1),

		FilterActive: lipgloss.NewStyle().
			Foreground(accent).
			Bold(true).
			Padding(0, 1),

		Help: lipgloss.NewStyle().
			Foreground(subtle).
			Padding(1, 0),

		Empty: lipgloss.NewStyle().
			Foreground(subtle),

		StatusOK: lipgloss.NewStyle().
			Foreground(accent),

		StatusError: lipgloss.NewStyle().
			Foreground(p.danger),

		HintKey: lipgloss.NewStyle().
			Foreground(subtle),

		HintDesc: lipgloss.NewStyle().
			Foreground(subtle),
	}
}

// TagPalette is the color cycle offered when creating tags.
var TagPalette = []string{
	"#10b981", // green
	"#3b82f6", // blue
	"#eab308", // yellow
	"#a855f7", // purple
	"#ef4444", // red
	"#6b7280", // gray
}
