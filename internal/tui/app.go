// Package tui is the terminal surface of the bookmark manager: a list
// of the current folder with a toolbar line, search, a folder picker
// and the save flow, driven by manager.Manager.
package tui

import (
	"context"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/nikbrunner/bmark/internal/browser"
	"github.com/nikbrunner/bmark/internal/logging"
	"github.com/nikbrunner/bmark/internal/manager"
	"github.com/nikbrunner/bmark/internal/model"
	"github.com/nikbrunner/bmark/internal/saveflow"
	"github.com/nikbrunner/bmark/internal/store"
	"github.com/nikbrunner/bmark/internal/tui/layout"
	"github.com/nikbrunner/bmark/internal/uistate"
)

var log = logging.GetLogger("TUI")

// Clipboard is the system clipboard.
type Clipboard interface {
	ReadAll() (string, error)
	WriteAll(text string) error
}

type systemClipboard struct{}

func (systemClipboard) ReadAll() (string, error)   { return clipboard.ReadAll() }
func (systemClipboard) WriteAll(text string) error { return clipboard.WriteAll(text) }

// App is the main bubbletea model for the bookmark manager.
type App struct {
	mgr    *manager.Manager
	flow   *saveflow.Flow
	loop   *Loop
	keys   KeyMap
	styles Styles
	layout layout.LayoutConfig

	openURL       func(string) error
	clip          Clipboard
	confirmDelete bool

	mode   Mode
	cursor int

	// cursor per list, keyed by state URL, restored on back navigation
	positions map[string]model.BookmarkID
	lastState uistate.State

	// For gg command
	lastKeyWasG bool

	search  SearchState
	form    FormState
	move    MoveState
	del     DeleteState
	saved   saveflow.State
	sortIdx int

	spinner   spinner.Model
	status    string
	statusErr bool
	loadErr   error

	// Window dimensions
	width  int
	height int
}

// AppParams holds parameters for creating a new App.
type AppParams struct {
	Manager       *manager.Manager
	Loop          *Loop                // optional, a fresh loop if nil
	Keys          *KeyMap              // optional, uses default if nil
	Styles        *Styles              // optional, uses default if nil
	LayoutConfig  *layout.LayoutConfig // optional, uses default if nil
	OpenURL       func(string) error   // optional, the system browser if nil
	Clipboard     Clipboard            // optional, the system clipboard if nil
	ConfirmDelete bool
}

// NewApp creates a new App with the given parameters.
func NewApp(params AppParams) App {
	keys := DefaultKeyMap()
	if params.Keys != nil {
		keys = *params.Keys
	}
	styles := DefaultStyles()
	if params.Styles != nil {
		styles = *params.Styles
	}
	cfg := layout.DefaultConfig()
	if params.LayoutConfig != nil {
		cfg = *params.LayoutConfig
	}
	loop := params.Loop
	if loop == nil {
		loop = NewLoop()
	}
	open := params.OpenURL
	if open == nil {
		open = browser.Open
	}
	clip := params.Clipboard
	if clip == nil {
		clip = systemClipboard{}
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = styles.Status

	mgr := params.Manager
	return App{
		mgr:           mgr,
		flow:          saveflow.New(mgr.Bridge(), mgr.Prefs()),
		loop:          loop,
		keys:          keys,
		styles:        styles,
		layout:        cfg,
		openURL:       open,
		clip:          clip,
		confirmDelete: params.ConfirmDelete,
		positions:     map[string]model.BookmarkID{},
		lastState:     mgr.State(),
		search:        NewSearchState(cfg),
		form:          NewFormState(cfg),
		move:          NewMoveState(cfg),
		spinner:       sp,
		width:         80,
		height:        24,
	}
}

// WithDimensions returns a copy of the app sized to width x height.
func (a App) WithDimensions(width, height int) App {
	a.width = width
	a.height = height
	return a
}

// Cursor returns the current cursor position.
func (a App) Cursor() int {
	return a.cursor
}

// Mode returns the active input mode.
func (a App) Mode() Mode {
	return a.mode
}

// Status returns the last status line message.
func (a App) Status() string {
	return a.status
}

// Manager returns the mediator behind the app.
func (a App) Manager() *manager.Manager {
	return a.mgr
}

// snapshotMsg carries the storage contents read off the UI loop.
type snapshotMsg struct {
	snap *store.Snapshot
	err  error
}

// statusMsg sets the status line.
type statusMsg struct {
	text string
	err  error
}

// Init implements tea.Model.
func (a App) Init() tea.Cmd {
	cmds := []tea.Cmd{a.loop.wait()}
	b := a.mgr.Bridge()
	if !b.IsLoaded() {
		cmds = append(cmds, a.spinner.Tick, func() tea.Msg {
			snap, err := b.ReadStorage(context.Background())
			return snapshotMsg{snap: snap, err: err}
		})
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	m, cmd := a.update(msg)
	app := m.(App)
	app.sync()
	return app, cmd
}

func (a App) update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		return a, nil

	case snapshotMsg:
		if msg.err == nil {
			msg.err = a.mgr.Bridge().Apply(msg.snap)
		}
		if msg.err != nil {
			log.Error("load bookmarks", "err", msg.err)
			a.loadErr = msg.err
		}
		return a, nil

	case postedMsg:
		if msg != nil {
			msg()
		}
		return a, a.loop.wait()

	case statusMsg:
		a.setStatus(msg.text, msg.err)
		return a, nil

	case spinner.TickMsg:
		if a.mgr.State().Mode != uistate.ModeLoading || a.loadErr != nil {
			return a, nil
		}
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}
		if a.mgr.State().Mode == uistate.ModeLoading {
			if msg.String() == "q" || msg.String() == "esc" {
				return a, tea.Quit
			}
			return a, nil
		}
		return a.updateKey(msg)
	}
	return a, nil
}

func (a App) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch a.mode {
	case ModeSearch:
		return a.updateSearch(msg)
	case ModeMove:
		return a.updateMove(msg)
	case ModeNewFolder, ModeEdit, ModeSave:
		return a.updateForm(msg)
	case ModeConfirmDelete:
		return a.updateConfirmDelete(msg)
	case ModeSaved:
		return a.updateSaved(msg)
	case ModeSort:
		return a.updateSort(msg)
	case ModeHelp:
		a.mode = ModeNormal
		return a, nil
	default:
		return a.updateNormal(msg)
	}
}

// setStatus shows text, or err when it is set, on the status line.
func (a *App) setStatus(text string, err error) {
	if err != nil {
		a.status = errorText(err)
		a.statusErr = true
		return
	}
	a.status = text
	a.statusErr = false
}

// sync keeps the cursor on a row after the list changed under it.
func (a *App) sync() {
	state := a.mgr.State()
	entries := a.mgr.Entries()

	if !state.Equal(a.lastState) {
		a.cursor = 0
		if id, ok := a.positions[state.URL()]; ok {
			if i := a.mgr.EntryIndex(id); i >= 0 {
				a.cursor = i
			}
		}
		a.lastState = state
	}

	a.cursor = max(0, min(a.cursor, len(entries)-1))
	if !focusable(entries, a.cursor) {
		a.cursor = nextFocusable(entries, a.cursor, 1)
	}
	if a.cursor >= 0 && a.cursor < len(entries) && entries[a.cursor].HasItem() {
		a.positions[state.URL()] = entries[a.cursor].Item.ID
	}
}

// focusable reports whether the cursor may rest on entry i.
func focusable(entries []model.BookmarkListEntry, i int) bool {
	if i < 0 || i >= len(entries) {
		return false
	}
	switch entries[i].ViewType {
	case model.ViewSectionHeader, model.ViewDivider, model.ViewEmpty:
		return false
	}
	return true
}

// nextFocusable steps from i in direction dir to the next focusable
// entry, staying at i when there is none.
func nextFocusable(entries []model.BookmarkListEntry, i, dir int) int {
	for j := i + dir; j >= 0 && j < len(entries); j += dir {
		if focusable(entries, j) {
			return j
		}
	}
	if !focusable(entries, i) {
		// a list of headers only, such as an empty reading list
		for j := i - dir; j >= 0 && j < len(entries); j -= dir {
			if focusable(entries, j) {
				return j
			}
		}
	}
	return i
}

// current returns the entry under the cursor.
func (a App) current() (model.BookmarkListEntry, bool) {
	entries := a.mgr.Entries()
	if a.cursor < 0 || a.cursor >= len(entries) {
		return model.BookmarkListEntry{}, false
	}
	return entries[a.cursor], true
}

// currentItem returns the bookmark or folder under the cursor.
func (a App) currentItem() (model.BookmarkItem, bool) {
	e, ok := a.current()
	if !ok || !e.HasItem() {
		return model.BookmarkItem{}, false
	}
	return *e.Item, true
}

// targets are the items an action applies to: the selection, or the
// row under the cursor outside selection mode.
func (a App) targets() []model.BookmarkItem {
	if a.mgr.SelectionActive() {
		return a.mgr.SelectedItems()
	}
	if it, ok := a.currentItem(); ok && it.IsEditable && !it.IsPermanent {
		return []model.BookmarkItem{it}
	}
	return nil
}

func (a App) openCmd(url string) tea.Cmd {
	open := a.openURL
	return func() tea.Msg {
		if err := open(url); err != nil {
			return statusMsg{err: err}
		}
		return statusMsg{text: "Opened " + url}
	}
}

func (a App) copyCmd(url string) tea.Cmd {
	clip := a.clip
	return func() tea.Msg {
		if err := clip.WriteAll(url); err != nil {
			return statusMsg{err: err}
		}
		return statusMsg{text: "Copied " + url}
	}
}

// View implements tea.Model.
func (a App) View() string {
	return a.renderView()
}
