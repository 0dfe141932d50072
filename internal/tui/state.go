package tui

import (
	"github.com/charmbracelet/bubbles/textinput"

	"github.com/nikbrunner/bmark/internal/folderpicker"
	"github.com/nikbrunner/bmark/internal/model"
	"github.com/nikbrunner/bmark/internal/prefs"
	"github.com/nikbrunner/bmark/internal/tui/layout"
)

// Mode is what the keyboard currently drives.
type Mode int

const (
	ModeNormal Mode = iota
	ModeSearch
	ModeMove
	ModeNewFolder
	ModeEdit
	ModeConfirmDelete
	ModeSave
	ModeSaved
	ModeSort
	ModeHelp
)

// SearchState holds the search input.
type SearchState struct {
	Input textinput.Model
}

// NewSearchState creates a new SearchState with an initialized input.
func NewSearchState(cfg layout.LayoutConfig) SearchState {
	input := textinput.New()
	input.Placeholder = "Search bookmarks..."
	input.Prompt = "/ "
	input.CharLimit = cfg.Input.SearchCharLimit
	input.Width = cfg.Input.StandardWidth
	return SearchState{Input: input}
}

// FormState holds the inputs of the edit, new folder and save modals.
type FormState struct {
	TitleInput textinput.Model
	URLInput   textinput.Model
	Focus      int              // 0 = title, 1 = URL
	ShowURL    bool             // bookmarks have a URL, folders do not
	EditID     model.BookmarkID // item being edited, zero when creating
	Return     Mode             // mode to go back to on Esc
}

// NewFormState creates a new FormState with initialized inputs.
func NewFormState(cfg layout.LayoutConfig) FormState {
	title := textinput.New()
	title.Placeholder = "Title"
	title.CharLimit = cfg.Input.TitleCharLimit
	title.Width = cfg.Input.StandardWidth

	url := textinput.New()
	url.Placeholder = "https://..."
	url.CharLimit = cfg.Input.URLCharLimit
	url.Width = cfg.Input.StandardWidth

	return FormState{TitleInput: title, URLInput: url}
}

// Reset clears the form for a new modal session.
func (f *FormState) Reset(showURL bool, ret Mode) {
	f.TitleInput.Reset()
	f.URLInput.Reset()
	f.ShowURL = showURL
	f.EditID = model.BookmarkID{}
	f.Return = ret
	f.focus(0)
}

// focus moves the cursor to input i.
func (f *FormState) focus(i int) {
	if !f.ShowURL {
		i = 0
	}
	f.Focus = i
	if i == 0 {
		f.TitleInput.Focus()
		f.URLInput.Blur()
	} else {
		f.URLInput.Focus()
		f.TitleInput.Blur()
	}
}

// MoveState holds the folder picker modal.
type MoveState struct {
	Picker    *folderpicker.Picker
	Filter    textinput.Model
	Filtering bool
	Cursor    int
	ForSave   bool // picking the folder of a just saved bookmark
}

// NewMoveState creates a new MoveState with an initialized filter input.
func NewMoveState(cfg layout.LayoutConfig) MoveState {
	input := textinput.New()
	input.Placeholder = "Filter folders..."
	input.Prompt = "/ "
	input.CharLimit = cfg.Input.SearchCharLimit
	input.Width = cfg.Input.StandardWidth
	return MoveState{Filter: input}
}

// Start opens the picker for a new session.
func (m *MoveState) Start(p *folderpicker.Picker, forSave bool) {
	m.Picker = p
	m.ForSave = forSave
	m.Cursor = 0
	m.Filtering = false
	m.Filter.Reset()
	m.Filter.Blur()
}

// DeleteState holds the items awaiting a delete confirmation.
type DeleteState struct {
	IDs   []model.BookmarkID
	Label string
}

// sortOption is one line of the sort and view menu.
type sortOption struct {
	Label   string
	Sort    prefs.SortOrder
	Display prefs.DisplayMode
	IsView  bool
}

var sortOptions = []sortOption{
	{Label: "Manual", Sort: prefs.SortManual},
	{Label: "Newest first", Sort: prefs.SortReverseChronological},
	{Label: "Oldest first", Sort: prefs.SortChronological},
	{Label: "A to Z", Sort: prefs.SortAlphabetical},
	{Label: "Z to A", Sort: prefs.SortReverseAlphabetical},
	{Label: "Recently opened", Sort: prefs.SortRecentlyUsed},
	{Label: "Compact rows", Display: prefs.DisplayCompact, IsView: true},
	{Label: "Visual rows", Display: prefs.DisplayVisual, IsView: true},
}
