package tui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/nikbrunner/bmark/internal/folderpicker"
	"github.com/nikbrunner/bmark/internal/model"
	"github.com/nikbrunner/bmark/internal/prefs"
	"github.com/nikbrunner/bmark/internal/uistate"
)

func (a App) updateNormal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	entries := a.mgr.Entries()

	// Handle gg sequence
	if key.Matches(msg, a.keys.Top) {
		if a.lastKeyWasG {
			a.cursor = nextFocusable(entries, -1, 1)
			a.lastKeyWasG = false
			return a, nil
		}
		a.lastKeyWasG = true
		return a, nil
	}
	a.lastKeyWasG = false

	switch {
	case key.Matches(msg, a.keys.Quit):
		return a, tea.Quit

	case key.Matches(msg, a.keys.Help):
		a.mode = ModeHelp

	case key.Matches(msg, a.keys.Down):
		a.cursor = nextFocusable(entries, a.cursor, 1)

	case key.Matches(msg, a.keys.Up):
		a.cursor = nextFocusable(entries, a.cursor, -1)

	case key.Matches(msg, a.keys.Bottom):
		a.cursor = nextFocusable(entries, len(entries), -1)

	case key.Matches(msg, a.keys.Open):
		if a.mgr.SelectionActive() {
			return a.toggleCurrent()
		}
		url, err := a.mgr.OpenEntry(a.cursor)
		if err != nil {
			a.setStatus("", err)
			return a, nil
		}
		if url != "" {
			return a, a.openCmd(url)
		}

	case key.Matches(msg, a.keys.Back):
		a.mgr.OnBackPressed()

	case key.Matches(msg, a.keys.Search):
		a.mode = ModeSearch
		if a.mgr.State().Mode == uistate.ModeSearching {
			a.search.Input.SetValue(a.mgr.State().Query)
		} else {
			a.search.Input.Reset()
		}
		a.search.Input.CursorEnd()
		cmd := a.search.Input.Focus()
		return a, cmd

	case key.Matches(msg, a.keys.Select):
		return a.toggleCurrent()

	case key.Matches(msg, a.keys.MoveUp):
		return a.drag(-1)

	case key.Matches(msg, a.keys.MoveDown):
		return a.drag(1)

	case key.Matches(msg, a.keys.Move):
		return a.startMove()

	case key.Matches(msg, a.keys.Delete):
		return a.startDelete()

	case key.Matches(msg, a.keys.Undo):
		if !a.mgr.CanUndo() {
			a.setStatus("Nothing to undo", nil)
			return a, nil
		}
		a.setStatus("Restored", a.mgr.Undo())

	case key.Matches(msg, a.keys.Edit):
		return a.startEdit()

	case key.Matches(msg, a.keys.AddFolder):
		if !a.mgr.CanCreateFolder() {
			a.setStatus("Folders cannot be created here", nil)
			return a, nil
		}
		a.form.Reset(false, ModeNormal)
		a.mode = ModeNewFolder
		cmd := a.form.TitleInput.Focus()
		return a, cmd

	case key.Matches(msg, a.keys.Save):
		return a.startSave()

	case key.Matches(msg, a.keys.YankURL):
		if it, ok := a.currentItem(); ok && !it.IsFolder {
			return a, a.copyCmd(it.URL)
		}

	case key.Matches(msg, a.keys.MarkRead):
		return a.markRead(true)

	case key.Matches(msg, a.keys.MarkUnread):
		return a.markRead(false)

	case key.Matches(msg, a.keys.Sort):
		a.mode = ModeSort
		a.sortIdx = 0
		for i, o := range sortOptions {
			if !o.IsView && o.Sort == a.mgr.Prefs().SortOrder() {
				a.sortIdx = i
			}
		}

	case key.Matches(msg, a.keys.Display):
		p := a.mgr.Prefs()
		if p.DisplayMode() == prefs.DisplayVisual {
			p.SetDisplayMode(prefs.DisplayCompact)
		} else {
			p.SetDisplayMode(prefs.DisplayVisual)
		}
	}
	return a, nil
}

func (a App) toggleCurrent() (tea.Model, tea.Cmd) {
	it, ok := a.currentItem()
	if !ok {
		return a, nil
	}
	if !a.mgr.Toggle(it.ID) {
		a.setStatus("This item cannot be selected", nil)
	}
	return a, nil
}

// drag moves the row under the cursor by dir and follows it.
func (a App) drag(dir int) (tea.Model, tea.Cmd) {
	if !a.mgr.DragEnabled() {
		a.setStatus("Reordering needs manual sort in an editable folder", nil)
		return a, nil
	}
	it, ok := a.currentItem()
	if !ok {
		return a, nil
	}
	to := a.cursor + dir
	entries := a.mgr.Entries()
	if to < 0 || to >= len(entries) || !entries[to].HasItem() {
		return a, nil
	}
	if err := a.mgr.Move(a.cursor, to); err != nil {
		a.setStatus("", err)
		return a, nil
	}
	if i := a.mgr.EntryIndex(it.ID); i >= 0 {
		a.cursor = i
	}
	return a, nil
}

func (a App) markRead(read bool) (tea.Model, tea.Cmd) {
	if !a.mgr.SelectionActive() {
		it, ok := a.currentItem()
		if !ok || !it.IsReadingListItem() {
			return a, nil
		}
		a.mgr.Toggle(it.ID)
	}
	if err := a.mgr.MarkSelectedRead(read); err != nil {
		a.setStatus("", err)
	}
	return a, nil
}

func (a App) startMove() (tea.Model, tea.Cmd) {
	targets := a.targets()
	ids := make([]model.BookmarkID, 0, len(targets))
	for _, it := range targets {
		ids = append(ids, it.ID)
	}
	p, err := folderpicker.New(a.mgr.Bridge(), ids)
	if err != nil {
		a.setStatus("", err)
		return a, nil
	}
	a.move.Start(p, false)
	a.mode = ModeMove
	return a, nil
}

func (a App) startDelete() (tea.Model, tea.Cmd) {
	targets := a.targets()
	if len(targets) == 0 {
		return a, nil
	}
	a.del = DeleteState{}
	for _, it := range targets {
		a.del.IDs = append(a.del.IDs, it.ID)
	}
	if len(targets) == 1 {
		a.del.Label = fmt.Sprintf("%q", targets[0].Title)
	} else {
		a.del.Label = fmt.Sprintf("%d items", len(targets))
	}
	if a.confirmDelete {
		a.mode = ModeConfirmDelete
		return a, nil
	}
	return a.commitDelete()
}

func (a App) commitDelete() (tea.Model, tea.Cmd) {
	a.mode = ModeNormal
	if err := a.mgr.Delete(a.del.IDs...); err != nil {
		a.setStatus("", err)
		return a, nil
	}
	a.mgr.ClearSelection()
	a.setStatus(fmt.Sprintf("Deleted %s, press u to undo", a.del.Label), nil)
	a.del = DeleteState{}
	return a, nil
}

func (a App) updateConfirmDelete(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter", "y", "d":
		return a.commitDelete()
	case "esc", "n", "q":
		a.mode = ModeNormal
		a.del = DeleteState{}
	}
	return a, nil
}

func (a App) startEdit() (tea.Model, tea.Cmd) {
	var it model.BookmarkItem
	if a.mgr.SelectionActive() {
		sel := a.mgr.SelectedItems()
		if len(sel) != 1 {
			a.setStatus("Select a single item to edit", nil)
			return a, nil
		}
		it = sel[0]
	} else {
		var ok bool
		if it, ok = a.currentItem(); !ok {
			return a, nil
		}
	}
	if !it.IsEditable || it.IsPermanent {
		a.setStatus("This item cannot be edited", nil)
		return a, nil
	}

	a.form.Reset(!it.IsFolder, ModeNormal)
	a.form.EditID = it.ID
	a.form.TitleInput.SetValue(it.Title)
	a.form.URLInput.SetValue(it.URL)
	a.mode = ModeEdit
	cmd := a.form.TitleInput.Focus()
	return a, cmd
}

// startSave opens the save form, prefilled from the clipboard when it
// holds a web address.
func (a App) startSave() (tea.Model, tea.Cmd) {
	a.form.Reset(true, ModeNormal)
	if text, err := a.clip.ReadAll(); err == nil {
		text = strings.TrimSpace(text)
		if strings.HasPrefix(text, "http://") || strings.HasPrefix(text, "https://") {
			a.form.URLInput.SetValue(text)
			a.form.focus(0)
		}
	}
	a.mode = ModeSave
	cmd := a.form.TitleInput.Focus()
	return a, cmd
}

func (a App) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		a.mode = a.form.Return
		return a, nil
	case "tab", "shift+tab", "down", "up":
		a.form.focus(1 - a.form.Focus)
		return a, nil
	case "enter":
		return a.submitForm()
	}

	var cmd tea.Cmd
	if a.form.Focus == 0 {
		a.form.TitleInput, cmd = a.form.TitleInput.Update(msg)
	} else {
		a.form.URLInput, cmd = a.form.URLInput.Update(msg)
	}
	return a, cmd
}

func (a App) submitForm() (tea.Model, tea.Cmd) {
	title := strings.TrimSpace(a.form.TitleInput.Value())
	url := strings.TrimSpace(a.form.URLInput.Value())

	switch a.mode {
	case ModeNewFolder:
		if title == "" {
			return a, nil
		}
		if a.form.Return == ModeMove {
			_, err := a.move.Picker.CreateFolder(title)
			a.setStatus("", err)
			a.move.Cursor = 0
			a.mode = ModeMove
			return a, nil
		}
		id, err := a.mgr.CreateFolder(title)
		if err != nil {
			a.setStatus("", err)
			return a, nil
		}
		a.mode = ModeNormal
		if i := a.mgr.EntryIndex(id); i >= 0 {
			a.cursor = i
		}
		a.setStatus("Created "+title, nil)

	case ModeEdit:
		if title == "" && !a.form.ShowURL {
			return a, nil
		}
		if err := a.mgr.Rename(a.form.EditID, title); err != nil {
			a.setStatus("", err)
			return a, nil
		}
		if a.form.ShowURL {
			if err := a.mgr.SetURL(a.form.EditID, url); err != nil {
				a.setStatus("", err)
				return a, nil
			}
		}
		a.mode = a.form.Return
		if a.form.Return == ModeSaved {
			a.saved, _ = a.flow.State()
		}

	case ModeSave:
		if url == "" {
			a.form.focus(1)
			return a, nil
		}
		if title == "" {
			title = url
		}
		st, err := a.flow.Save(title, url)
		if err != nil {
			a.setStatus("", err)
			return a, nil
		}
		a.saved = st
		a.mode = ModeSaved
	}
	return a, nil
}

func (a App) updateSaved(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter", "esc", "q":
		a.mode = ModeNormal
		a.setStatus("Saved to "+a.saved.FolderName, nil)

	case "e":
		if !a.saved.EditVisible {
			return a, nil
		}
		a.form.Reset(true, ModeSaved)
		a.form.EditID = a.saved.ID
		a.form.TitleInput.SetValue(a.saved.Title)
		a.form.URLInput.SetValue(a.saved.URL)
		a.mode = ModeEdit
		cmd := a.form.TitleInput.Focus()
		return a, cmd

	case "m":
		if !a.saved.MoveVisible {
			return a, nil
		}
		p, err := folderpicker.New(a.mgr.Bridge(), []model.BookmarkID{a.saved.ID})
		if err != nil {
			a.setStatus("", err)
			return a, nil
		}
		a.move.Start(p, true)
		a.mode = ModeMove

	case "t":
		if !a.saved.PriceTrackingAvailable {
			return a, nil
		}
		st, err := a.flow.SetPriceTracked(!a.saved.PriceTracked)
		if err != nil {
			a.setStatus("", err)
			return a, nil
		}
		a.saved = st

	case "d":
		if err := a.flow.Unsave(); err != nil {
			a.setStatus("", err)
			return a, nil
		}
		a.mode = ModeNormal
		a.setStatus("Bookmark removed", nil)
	}
	return a, nil
}

func (a App) updateMove(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	p := a.move.Picker

	if a.move.Filtering {
		switch msg.String() {
		case "esc":
			a.move.Filtering = false
			a.move.Filter.Reset()
			a.move.Filter.Blur()
			p.Filter("")
			return a, nil
		case "enter", "down", "up":
			a.move.Filtering = false
			a.move.Filter.Blur()
			return a, nil
		}
		var cmd tea.Cmd
		a.move.Filter, cmd = a.move.Filter.Update(msg)
		p.Filter(a.move.Filter.Value())
		a.move.Cursor = 0
		return a, cmd
	}

	rows := p.Rows()
	switch msg.String() {
	case "esc", "q":
		if a.move.ForSave {
			a.mode = ModeSaved
		} else {
			a.mode = ModeNormal
		}
	case "j", "down":
		a.move.Cursor = min(a.move.Cursor+1, len(rows)-1)
	case "k", "up":
		a.move.Cursor = max(a.move.Cursor-1, 0)
	case "/":
		a.move.Filtering = true
		cmd := a.move.Filter.Focus()
		return a, cmd
	case "h", "left", "backspace":
		if p.Back() {
			a.move.Cursor = 0
			a.move.Filter.Reset()
		}
	case "l", "right", "enter":
		if a.move.Cursor < 0 || a.move.Cursor >= len(rows) {
			return a, nil
		}
		row := rows[a.move.Cursor]
		if row.Kind == folderpicker.RowUp {
			p.Back()
		} else if err := p.OpenFolder(row.Folder.ID); err != nil {
			a.setStatus("", err)
		}
		a.move.Cursor = 0
		a.move.Filter.Reset()
	case "A":
		a.form.Reset(false, ModeMove)
		a.mode = ModeNewFolder
		cmd := a.form.TitleInput.Focus()
		return a, cmd
	case "M", " ":
		return a.commitMove()
	}
	return a, nil
}

func (a App) commitMove() (tea.Model, tea.Cmd) {
	p := a.move.Picker
	if !p.CanMoveHere() {
		a.setStatus("", folderpicker.ErrInvalidTarget)
		return a, nil
	}
	if a.move.ForSave {
		st, err := a.flow.OnFolderChosen(p.Current())
		if err != nil {
			a.setStatus("", err)
			return a, nil
		}
		a.saved = st
		a.mode = ModeSaved
		return a, nil
	}
	if err := p.MoveHere(); err != nil {
		a.setStatus("", err)
		return a, nil
	}
	n := len(p.Moving())
	a.mgr.ClearSelection()
	a.mode = ModeNormal
	a.setStatus(fmt.Sprintf("Moved %d to %s", n, p.Title()), nil)
	return a, nil
}

func (a App) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		a.mode = ModeNormal
		a.search.Input.Blur()
		a.mgr.EndSearch()
		return a, nil
	case "enter", "down":
		a.mode = ModeNormal
		a.search.Input.Blur()
		if strings.TrimSpace(a.search.Input.Value()) == "" {
			a.mgr.EndSearch()
		}
		return a, nil
	}

	var cmd tea.Cmd
	a.search.Input, cmd = a.search.Input.Update(msg)
	a.mgr.Search(a.search.Input.Value())
	return a, cmd
}

func (a App) updateSort(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "q", "o":
		a.mode = ModeNormal
	case "j", "down":
		a.sortIdx = min(a.sortIdx+1, len(sortOptions)-1)
	case "k", "up":
		a.sortIdx = max(a.sortIdx-1, 0)
	case "enter", " ":
		opt := sortOptions[a.sortIdx]
		if opt.IsView {
			a.mgr.Prefs().SetDisplayMode(opt.Display)
		} else {
			a.mgr.Prefs().SetSortOrder(opt.Sort)
		}
		a.mode = ModeNormal
	}
	return a, nil
}

// errorText renders err for the status line, hiding wrapping noise of
// well known conditions.
func errorText(err error) string {
	var known = []error{folderpicker.ErrInvalidTarget, folderpicker.ErrNothingToMove}
	for _, k := range known {
		if errors.Is(err, k) {
			return k.Error()
		}
	}
	return err.Error()
}
