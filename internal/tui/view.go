package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/nikbrunner/bmark/internal/folderpicker"
	"github.com/nikbrunner/bmark/internal/model"
	"github.com/nikbrunner/bmark/internal/prefs"
	"github.com/nikbrunner/bmark/internal/rows"
	"github.com/nikbrunner/bmark/internal/toolbar"
	"github.com/nikbrunner/bmark/internal/tui/layout"
	"github.com/nikbrunner/bmark/internal/uistate"
)

// toolbarProps computes the toolbar for the current manager state.
func (a App) toolbarProps() toolbar.Props {
	folder, _ := a.mgr.CurrentFolder()
	return toolbar.Compute(toolbar.Input{
		State:          a.mgr.State(),
		Folder:         folder,
		IsRoot:         a.mgr.IsRoot(),
		ShoppingFilter: a.mgr.InShoppingFilter(),
		Selected:       a.mgr.SelectedItems(),
		SortOrder:      a.mgr.Prefs().SortOrder(),
		DisplayMode:    a.mgr.Prefs().DisplayMode(),
	})
}

// renderView renders the whole screen.
func (a App) renderView() string {
	if a.loadErr != nil {
		return a.styles.App.Render(a.styles.Error.Render("Could not load bookmarks: " + a.loadErr.Error()))
	}
	if a.mgr.State().Mode == uistate.ModeLoading {
		return a.styles.App.Render(a.spinner.View() + " Loading bookmarks...")
	}

	switch a.mode {
	case ModeMove:
		return a.overlay(a.renderMove())
	case ModeNewFolder, ModeEdit, ModeSave:
		return a.overlay(a.renderForm())
	case ModeConfirmDelete:
		return a.overlay(a.renderConfirmDelete())
	case ModeSaved:
		return a.overlay(a.renderSaved())
	case ModeSort:
		return a.overlay(a.renderSort())
	case ModeHelp:
		return a.overlay(a.renderHelp())
	}

	var b strings.Builder
	b.WriteString(a.renderToolbar())
	b.WriteString("\n")
	b.WriteString(a.renderList())
	b.WriteString("\n")
	b.WriteString(a.renderStatus())
	b.WriteString("\n")
	b.WriteString(a.renderHints(a.getContextualHints()))
	return a.styles.App.Render(b.String())
}

// overlay centers a modal on the screen.
func (a App) overlay(modal string) string {
	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, modal)
}

func (a App) renderToolbar() string {
	if a.mode == ModeSearch {
		return a.search.Input.View()
	}

	props := a.toolbarProps()
	title := props.Title
	if props.Nav == toolbar.NavBack {
		title = "‹ " + title
	}

	var right string
	if props.Selecting {
		var actions []string
		if props.MoveVisible {
			actions = append(actions, "move")
		}
		if props.DeleteVisible {
			actions = append(actions, "delete")
		}
		if props.MarkReadVisible {
			actions = append(actions, "mark read")
		}
		if props.MarkUnreadVisible {
			actions = append(actions, "mark unread")
		}
		right = strings.Join(actions, " · ")
	} else if props.SortMenuVisible {
		right = fmt.Sprintf("%s · %s", props.CheckedSort, props.CheckedDisplay)
	}

	width := layout.CalculateListWidth(a.width, a.layout.List) + 4
	fitted, pad, ok := layout.FitLine(title, layout.VisibleLength(right), width, a.layout.Text)
	out := a.styles.Title.Render(fitted)
	if ok {
		out += pad + a.styles.Toolbar.Render(right)
	}
	return out
}

// rowHeight is the number of lines entry e takes.
func (a App) rowHeight(e model.BookmarkListEntry) int {
	if e.HasItem() && a.mgr.Prefs().DisplayMode() == prefs.DisplayVisual {
		return a.layout.List.VisualRowHeight
	}
	return a.layout.List.CompactRowHeight
}

func (a App) renderList() string {
	entries := a.mgr.Entries()
	width := layout.CalculateListWidth(a.width, a.layout.List)
	height := layout.CalculateListHeight(a.height, a.layout.List)

	heights := make([]int, len(entries))
	for i, e := range entries {
		heights[i] = a.rowHeight(e)
	}
	start, end := layout.Window(heights, a.cursor, height)

	ctx := rows.Context{
		Display:     a.mgr.Prefs().DisplayMode(),
		DragEnabled: a.mgr.DragEnabled(),
		Selected:    a.mgr.IsSelected,
		Images:      a.mgr.Images,
	}
	selecting := a.mgr.SelectionActive()

	var lines []string
	for i := start; i < end; i++ {
		r := rows.Build(entries[i], ctx)
		lines = append(lines, a.renderRow(r, i == a.cursor, selecting, width)...)
	}
	for len(lines) < height {
		lines = append(lines, "")
	}

	return a.styles.Pane.Width(width + 2).Render(strings.Join(lines, "\n"))
}

// renderRow renders one row model as one or two lines.
func (a App) renderRow(r rows.Row, focused, selecting bool, width int) []string {
	switch r.Kind {
	case model.ViewSectionHeader:
		return []string{a.styles.Header.Render(r.Title)}
	case model.ViewDivider:
		return []string{a.styles.Divider.Render(strings.Repeat("─", width))}
	case model.ViewEmpty:
		return []string{a.styles.Empty.Render(r.Title)}
	case model.ViewShoppingFilter:
		line, _ := layout.TruncateText("$ "+r.Title, width, a.layout.Text)
		if focused {
			return []string{a.styles.ItemSelected.Render(padRight(line, width))}
		}
		return []string{a.styles.Item.Render(line)}
	}

	var prefix string
	if selecting {
		if r.Selected {
			prefix = "[x] "
		} else {
			prefix = "[ ] "
		}
	}
	prefix += iconGlyph(r.Icon) + " "

	visual := a.mgr.Prefs().DisplayMode() == prefs.DisplayVisual
	var meta []string
	if r.Unread {
		meta = append(meta, "●")
	}
	if r.Price != nil {
		chip := r.Price.Current
		if r.Price.Previous != "" {
			chip = r.Price.Previous + " " + chip
		}
		if r.Price.Tracked {
			chip += " ↓"
		}
		meta = append(meta, chip)
	}
	if !visual && width >= a.layout.List.DescriptionMinWidth {
		meta = append(meta, r.Description)
	}
	if r.DragHandle {
		meta = append(meta, "≡")
	}
	right := strings.Join(meta, "  ")

	left, pad, ok := layout.FitLine(prefix+r.Title, layout.VisibleLength(right), width, a.layout.Text)
	if !ok {
		pad, right = "", ""
	}

	var line string
	if focused {
		line = a.styles.ItemSelected.Render(padRight(left+pad+right, width))
	} else {
		line = a.styles.Item.Render(left) + pad + a.styleMeta(r, right)
	}

	if !visual {
		return []string{line}
	}
	desc := r.Description
	if n := len(r.ImageURLs); n > 0 && r.Icon == rows.IconImage {
		desc += fmt.Sprintf("  [%d image%s]", n, plural(n))
	}
	desc, _ = layout.TruncateText(strings.Repeat(" ", len([]rune(prefix)))+desc, width, a.layout.Text)
	return []string{line, a.styles.URL.Render(desc)}
}

// styleMeta colours the right hand side of an unfocused row.
func (a App) styleMeta(r rows.Row, right string) string {
	if right == "" {
		return ""
	}
	if r.Price != nil && r.Price.Previous != "" {
		return strings.Replace(right, r.Price.Previous, a.styles.PriceOld.Render(r.Price.Previous), 1)
	}
	if r.Unread {
		return a.styles.Unread.Render("●") + a.styles.URL.Render(strings.TrimPrefix(right, "●"))
	}
	return a.styles.URL.Render(right)
}

func iconGlyph(i rows.Icon) string {
	switch i {
	case rows.IconFolder:
		return "▸"
	case rows.IconImage:
		return "◆"
	case rows.IconFavicon:
		return "•"
	}
	return " "
}

func plural(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}

func padRight(s string, width int) string {
	if n := layout.VisibleLength(s); n < width {
		return s + strings.Repeat(" ", width-n)
	}
	return s
}

func (a App) renderStatus() string {
	if a.status == "" {
		return ""
	}
	if a.statusErr {
		return a.styles.Error.Render(a.status)
	}
	return a.styles.Status.Render(a.status)
}

// modal wraps body in the modal frame with a title and inline hints.
func (a App) modal(title, body string, hints []Hint) string {
	width := layout.CalculateModalWidth(a.width, a.layout.Modal)
	var b strings.Builder
	b.WriteString(a.styles.Title.Render(title))
	b.WriteString("\n\n")
	b.WriteString(body)
	if len(hints) > 0 {
		b.WriteString("\n\n")
		b.WriteString(a.renderHintsInline(hints))
	}
	return a.styles.Modal.Width(width).Render(b.String())
}

func (a App) renderForm() string {
	var title string
	switch a.mode {
	case ModeNewFolder:
		title = "New folder"
	case ModeSave:
		title = "Save a page"
	default:
		title = "Edit bookmark"
		if !a.form.ShowURL {
			title = "Edit folder"
		}
	}

	body := a.form.TitleInput.View()
	if a.form.ShowURL {
		body += "\n" + a.form.URLInput.View()
	}
	return a.modal(title, body, a.getFormHints())
}

func (a App) renderConfirmDelete() string {
	body := fmt.Sprintf("Delete %s?", a.del.Label)
	return a.modal("Delete", body, []Hint{{Key: "y/Enter", Desc: "delete"}, {Key: "n/Esc", Desc: "cancel"}})
}

func (a App) renderSaved() string {
	s := a.saved
	verb := "Saved to"
	if !s.WasNew {
		verb = "Already in"
	}
	var b strings.Builder
	b.WriteString(a.styles.Item.Render(s.Title))
	b.WriteString("\n")
	b.WriteString(a.styles.URL.Render(s.URL))
	b.WriteString("\n\n")
	b.WriteString(fmt.Sprintf("%s %s", verb, a.styles.Title.Render(s.FolderName)))
	if s.PriceTrackingAvailable {
		state := "off"
		if s.PriceTracked {
			state = "on"
		}
		b.WriteString(fmt.Sprintf("\nPrice %s, tracking %s", s.Price, state))
	}
	return a.modal("Bookmark saved", b.String(), a.getSavedHints())
}

func (a App) renderMove() string {
	p := a.move.Picker
	var b strings.Builder

	if a.move.Filtering || a.move.Filter.Value() != "" {
		b.WriteString(a.move.Filter.View())
		b.WriteString("\n\n")
	}

	pickerRows := p.Rows()
	start, end := layout.CalculateVisibleListItems(a.layout.Modal.PickerMaxVisible, a.move.Cursor, len(pickerRows))
	if len(pickerRows) == 0 {
		b.WriteString(a.styles.Empty.Render("No folders"))
	}
	for i := start; i < end; i++ {
		b.WriteString(a.renderPickerRow(pickerRows[i], i == a.move.Cursor))
		if i < end-1 {
			b.WriteString("\n")
		}
	}

	title := "Move to: " + p.Title()
	if !p.CanMoveHere() {
		title += a.styles.Toolbar.Render("  (cannot move here)")
	}
	return a.modal(title, b.String(), a.getMoveHints())
}

func (a App) renderPickerRow(r folderpicker.Row, focused bool) string {
	if r.Kind == folderpicker.RowUp {
		if focused {
			return a.styles.ItemSelected.Render("‹ " + r.Title)
		}
		return a.styles.Item.Render("‹ " + r.Title)
	}

	if focused {
		return a.styles.ItemSelected.Render("▸ " + r.Title)
	}
	var b strings.Builder
	b.WriteString("▸ ")
	for i, ch := range []rune(r.Title) {
		if containsInt(r.Matched, i) {
			b.WriteString(a.styles.Match.Render(string(ch)))
		} else {
			b.WriteString(a.styles.Item.Render(string(ch)))
		}
	}
	return b.String()
}

func containsInt(xs []int, x int) bool {
	for _, v := range xs {
		if v == x {
			return true
		}
	}
	return false
}

func (a App) renderSort() string {
	props := a.toolbarProps()
	var b strings.Builder
	for i, o := range sortOptions {
		if i > 0 && o.IsView && !sortOptions[i-1].IsView {
			b.WriteString("\n")
		}
		mark := "( )"
		if (!o.IsView && o.Sort == props.CheckedSort) || (o.IsView && o.Display == props.CheckedDisplay) {
			mark = "(•)"
		}
		line := mark + " " + o.Label
		if i == a.sortIdx {
			line = a.styles.ItemSelected.Render(line)
		} else {
			line = a.styles.Item.Render(line)
		}
		b.WriteString(line)
		if i < len(sortOptions)-1 {
			b.WriteString("\n")
		}
	}
	return a.modal("Sort and view", b.String(), []Hint{{Key: "Enter", Desc: "choose"}, {Key: "Esc", Desc: "close"}})
}

func (a App) renderHelp() string {
	col := a.layout.Modal.HelpKeyColumnWidth
	var b strings.Builder
	bindings := a.keys.helpBindings()
	for i, k := range bindings {
		h := k.Help()
		b.WriteString(a.styles.HintKey.Render(padRight(h.Key, col)))
		b.WriteString(a.styles.Item.Render(h.Desc))
		if i < len(bindings)-1 {
			b.WriteString("\n")
		}
	}
	return a.modal("Keys", b.String(), []Hint{{Key: "any key", Desc: "close"}})
}
