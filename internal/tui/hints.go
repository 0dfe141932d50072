package tui

import (
	"strings"

	"github.com/nikbrunner/bmark/internal/toolbar"
)

// Hint represents a single keybind hint for display.
type Hint struct {
	Key  string // Display key (e.g., "j/k", "Enter")
	Desc string // Short description (e.g., "move", "open")
}

// renderHint renders a single hint as "key:desc" with styling.
func (a App) renderHint(h Hint) string {
	return a.styles.HintKey.Render(h.Key) + ":" + a.styles.HintDesc.Render(h.Desc)
}

// renderHints renders hints in horizontal format for bottom bar: "j/k:move h:back l:open"
func (a App) renderHints(hints HintSet) string {
	allHints := hints.All()
	if len(allHints) == 0 {
		return ""
	}

	parts := make([]string, len(allHints))
	for i, h := range allHints {
		parts[i] = a.renderHint(h)
	}
	return strings.Join(parts, " ")
}

// renderHintsInline renders hints in inline format for modals: "Enter confirm  Esc cancel"
func (a App) renderHintsInline(hints []Hint) string {
	if len(hints) == 0 {
		return ""
	}

	parts := make([]string, len(hints))
	for i, h := range hints {
		parts[i] = a.styles.HintKey.Render(h.Key) + " " + a.styles.HintDesc.Render(h.Desc)
	}
	return strings.Join(parts, "  ")
}

// HintSet is an ordered collection of hints by group.
type HintSet struct {
	Nav    []Hint // Navigation hints (j/k, h/l, etc.)
	Edit   []Hint // Edit hints (a, e, d, etc.)
	Action []Hint // Action hints (Enter, Tab, etc.)
	System []Hint // System hints (?, q, Esc)
}

// All returns all hints flattened in display order: Nav + Action + Edit + System.
func (h HintSet) All() []Hint {
	result := make([]Hint, 0, len(h.Nav)+len(h.Action)+len(h.Edit)+len(h.System))
	result = append(result, h.Nav...)
	result = append(result, h.Action...)
	result = append(result, h.Edit...)
	result = append(result, h.System...)
	return result
}

// getContextualHints returns the bottom bar hints of the list modes.
func (a App) getContextualHints() HintSet {
	switch a.mode {
	case ModeSearch:
		return HintSet{
			Action: []Hint{{Key: "Enter", Desc: "browse results"}},
			System: []Hint{{Key: "Esc", Desc: "end search"}},
		}
	case ModeNormal:
		if a.mgr.SelectionActive() {
			return a.getSelectionHints()
		}
		return a.getNormalModeHints()
	default:
		return HintSet{}
	}
}

// getNormalModeHints returns hints for browsing.
func (a App) getNormalModeHints() HintSet {
	props := a.toolbarProps()
	h := HintSet{
		Nav: []Hint{
			{Key: "j/k", Desc: "move"},
			{Key: "l", Desc: "open"},
		},
		System: []Hint{
			{Key: "?", Desc: "help"},
			{Key: "q", Desc: "quit"},
		},
	}
	if props.Nav == toolbar.NavBack {
		h.Nav = append(h.Nav, Hint{Key: "h", Desc: "back"})
	}
	if props.SearchVisible {
		h.Action = append(h.Action, Hint{Key: "/", Desc: "search"})
	}
	h.Action = append(h.Action, Hint{Key: "a", Desc: "save"})
	if props.SortMenuVisible {
		h.Action = append(h.Action, Hint{Key: "o", Desc: "sort"})
	}
	h.Edit = append(h.Edit,
		Hint{Key: "space", Desc: "select"},
		Hint{Key: "e", Desc: "edit"},
		Hint{Key: "d", Desc: "del"},
	)
	if props.NewFolderVisible {
		h.Edit = append(h.Edit, Hint{Key: "A", Desc: "folder"})
	}
	if a.mgr.DragEnabled() {
		h.Edit = append(h.Edit, Hint{Key: "J/K", Desc: "drag"})
	}
	if a.mgr.CanUndo() {
		h.Edit = append(h.Edit, Hint{Key: "u", Desc: "undo"})
	}
	return h
}

// getSelectionHints returns hints while items are selected.
func (a App) getSelectionHints() HintSet {
	props := a.toolbarProps()
	h := HintSet{
		Nav:    []Hint{{Key: "j/k", Desc: "move"}},
		Action: []Hint{{Key: "space", Desc: "toggle"}},
		System: []Hint{{Key: "Esc", Desc: "clear"}},
	}
	if props.EditVisible {
		h.Edit = append(h.Edit, Hint{Key: "e", Desc: "edit"})
	}
	if props.MoveVisible {
		h.Edit = append(h.Edit, Hint{Key: "m", Desc: "move to"})
	}
	if props.DeleteVisible {
		h.Edit = append(h.Edit, Hint{Key: "d", Desc: "del"})
	}
	if props.MarkReadVisible {
		h.Edit = append(h.Edit, Hint{Key: "r", Desc: "read"})
	}
	if props.MarkUnreadVisible {
		h.Edit = append(h.Edit, Hint{Key: "R", Desc: "unread"})
	}
	return h
}

// getFormHints returns the inline hints of the form modals.
func (a App) getFormHints() []Hint {
	hints := []Hint{{Key: "Enter", Desc: "confirm"}}
	if a.form.ShowURL {
		hints = append(hints, Hint{Key: "Tab", Desc: "next field"})
	}
	return append(hints, Hint{Key: "Esc", Desc: "cancel"})
}

// getMoveHints returns the inline hints of the folder picker.
func (a App) getMoveHints() []Hint {
	if a.move.Filtering {
		return []Hint{{Key: "Enter", Desc: "done"}, {Key: "Esc", Desc: "clear"}}
	}
	hints := []Hint{
		{Key: "j/k", Desc: "move"},
		{Key: "l/h", Desc: "in/out"},
		{Key: "/", Desc: "filter"},
	}
	if a.move.Picker.CanMoveHere() {
		hints = append(hints, Hint{Key: "M", Desc: "move here"})
	}
	return append(hints, Hint{Key: "A", Desc: "new folder"}, Hint{Key: "Esc", Desc: "cancel"})
}

// getSavedHints returns the inline hints of the saved bookmark modal.
func (a App) getSavedHints() []Hint {
	s := a.saved
	var hints []Hint
	if s.EditVisible {
		hints = append(hints, Hint{Key: "e", Desc: "edit"})
	}
	if s.MoveVisible {
		hints = append(hints, Hint{Key: "m", Desc: "move"})
	}
	if s.PriceTrackingAvailable {
		hints = append(hints, Hint{Key: "t", Desc: "track price"})
	}
	return append(hints, Hint{Key: "d", Desc: "remove"}, Hint{Key: "Enter", Desc: "done"})
}
