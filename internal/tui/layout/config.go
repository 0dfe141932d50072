package layout

// LayoutConfig holds all layout-related configuration values.
type LayoutConfig struct {
	List  ListConfig
	Modal ModalConfig
	Input InputConfig
	Text  TextConfig
}

// ListConfig holds bookmark list dimensions.
type ListConfig struct {
	// HeightReduction is subtracted from terminal height for the list.
	// Accounts for: app padding (1) + toolbar (1) + pane borders (2) + status (1) + help bar (2) = 7
	HeightReduction int

	// MinHeight is the minimum list height.
	MinHeight int

	// WidthReduction accounts for app padding and pane border/padding.
	WidthReduction int

	// CompactRowHeight and VisualRowHeight are lines per bookmark row.
	// Headers, dividers and the empty text always take one line.
	CompactRowHeight int
	VisualRowHeight  int

	// DescriptionMinWidth hides descriptions on narrower lists.
	DescriptionMinWidth int
}

// ModalConfig holds modal dialog configuration.
type ModalConfig struct {
	// WidthPercent is the modal width as percentage of terminal width.
	WidthPercent int

	// MinWidth is the minimum modal width in characters.
	MinWidth int

	// MaxWidth is the maximum modal width in characters.
	MaxWidth int

	// PickerMaxVisible: max folders shown in the folder picker.
	PickerMaxVisible int

	// HelpKeyColumnWidth: width of the key column in the help overlay.
	HelpKeyColumnWidth int
}

// InputConfig holds text input configuration.
type InputConfig struct {
	TitleCharLimit  int
	URLCharLimit    int
	SearchCharLimit int

	// StandardWidth is used for every modal input.
	StandardWidth int
}

// TextConfig holds text truncation configuration.
type TextConfig struct {
	// Ellipsis is the string used to indicate truncation.
	Ellipsis string
}

// DefaultConfig returns the default layout configuration.
func DefaultConfig() LayoutConfig {
	return LayoutConfig{
		List: ListConfig{
			HeightReduction:     7,
			MinHeight:           3,
			WidthReduction:      8,
			CompactRowHeight:    1,
			VisualRowHeight:     2,
			DescriptionMinWidth: 50,
		},
		Modal: ModalConfig{
			WidthPercent:       50,
			MinWidth:           40,
			MaxWidth:           80,
			PickerMaxVisible:   8,
			HelpKeyColumnWidth: 14,
		},
		Input: InputConfig{
			TitleCharLimit:  200,
			URLCharLimit:    2000,
			SearchCharLimit: 100,
			StandardWidth:   40,
		},
		Text: TextConfig{
			Ellipsis: "...",
		},
	}
}
