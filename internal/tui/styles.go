package tui

import "github.com/charmbracelet/lipgloss"

// Styles holds all lipgloss styles for the TUI.
type Styles struct {
	App          lipgloss.Style
	Pane         lipgloss.Style
	Modal        lipgloss.Style
	Title        lipgloss.Style
	Toolbar      lipgloss.Style
	Item         lipgloss.Style
	ItemSelected lipgloss.Style
	Header       lipgloss.Style
	Divider      lipgloss.Style
	URL          lipgloss.Style
	Unread       lipgloss.Style
	Price        lipgloss.Style
	PriceOld     lipgloss.Style
	Checked      lipgloss.Style
	Handle       lipgloss.Style
	Match        lipgloss.Style
	Help         lipgloss.Style
	Empty        lipgloss.Style
	Status       lipgloss.Style
	Error        lipgloss.Style
	HintKey      lipgloss.Style // Key portion of hints (e.g., "Enter", "j/k")
	HintDesc     lipgloss.Style // Description portion of hints (e.g., "confirm", "move")
}

// DefaultStyles returns the default style configuration.
// Industrial design: grayscale with single desaturated teal accent.
func DefaultStyles() Styles {
	primary := lipgloss.AdaptiveColor{Light: "#505050", Dark: "#A0A0A0"} // main text
	subtle := lipgloss.AdaptiveColor{Light: "#888888", Dark: "#606060"}  // secondary text
	accent := lipgloss.AdaptiveColor{Light: "#4A7070", Dark: "#5F8787"}  // desaturated teal
	border := lipgloss.AdaptiveColor{Light: "#888888", Dark: "#505050"}  // inactive borders
	alert := lipgloss.AdaptiveColor{Light: "#A04040", Dark: "#C06060"}   // errors, price drops

	return Styles{
		App: lipgloss.NewStyle().
			PaddingTop(1).
			PaddingLeft(2).
			PaddingRight(2),

		Pane: lipgloss.NewStyle().
			Border(lipgloss.ThickBorder()).
			BorderForeground(border).
			Padding(0, 1),

		Modal: lipgloss.NewStyle().
			Border(lipgloss.ThickBorder()).
			BorderForeground(accent).
			Padding(0, 1),

		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(accent),

		Toolbar: lipgloss.NewStyle().
			Foreground(subtle),

		Item: lipgloss.NewStyle().
			Foreground(primary),

		ItemSelected: lipgloss.NewStyle().
			Background(accent).
			Foreground(lipgloss.Color("#1A1A1A")),

		Header: lipgloss.NewStyle().
			Bold(true).
			Foreground(subtle),

		Divider: lipgloss.NewStyle().
			Foreground(border),

		URL: lipgloss.NewStyle().
			Foreground(subtle),

		Unread: lipgloss.NewStyle().
			Foreground(accent),

		Price: lipgloss.NewStyle().
			Foreground(accent),

		PriceOld: lipgloss.NewStyle().
			Foreground(subtle).
			Strikethrough(true),

		Checked: lipgloss.NewStyle().
			Foreground(accent),

		Handle: lipgloss.NewStyle().
			Foreground(subtle),

		Match: lipgloss.NewStyle().
			Foreground(accent).
			Underline(true),

		Help: lipgloss.NewStyle().
			Foreground(subtle).
			PaddingTop(1),

		Empty: lipgloss.NewStyle().
			Foreground(subtle).
			Italic(true),

		Status: lipgloss.NewStyle().
			Foreground(accent),

		Error: lipgloss.NewStyle().
			Foreground(alert),

		HintKey: lipgloss.NewStyle().
			Foreground(subtle),

		HintDesc: lipgloss.NewStyle().
			Foreground(subtle),
	}
}
