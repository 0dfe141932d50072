// Package saveflow is the confirmation step after bookmarking a page:
// it saves the page, reports where it went and offers follow-up
// actions such as moving it or tracking its price.
package saveflow

import (
	"errors"
	"strings"

	"github.com/nikbrunner/bmark/internal/bridge"
	"github.com/nikbrunner/bmark/internal/logging"
	"github.com/nikbrunner/bmark/internal/model"
	"github.com/nikbrunner/bmark/internal/prefs"
)

var log = logging.GetLogger("SAVE")

var (
	ErrNotSaved   = errors.New("nothing saved yet")
	ErrNoShopping = errors.New("bookmark has no product data")
	ErrEmptyURL   = errors.New("url is empty")
)

// State is what the save sheet displays.
type State struct {
	ID         model.BookmarkID
	Title      string
	URL        string
	Folder     model.BookmarkID
	FolderName string
	WasNew     bool

	EditVisible bool
	MoveVisible bool

	PriceTrackingAvailable bool
	PriceTracked           bool
	Price                  string
}

// Flow saves one page at a time.
type Flow struct {
	b     *bridge.Bridge
	prefs *prefs.UiPrefs

	id     model.BookmarkID
	wasNew bool
}

func New(b *bridge.Bridge, p *prefs.UiPrefs) *Flow {
	return &Flow{b: b, prefs: p}
}

// Save bookmarks url. A URL that is already bookmarked is reused;
// otherwise the bookmark goes into the last used folder, or the default
// folder when that is gone.
func (f *Flow) Save(title, url string) (State, error) {
	url = strings.TrimSpace(url)
	if url == "" {
		return State{}, ErrEmptyURL
	}

	for _, it := range f.b.GetBookmarksByURL(url) {
		if it.ID.Type == model.TypeNormal {
			f.id, f.wasNew = it.ID, false
			log.Debug("page already bookmarked", "id", it.ID)
			return f.State()
		}
	}

	folder := f.targetFolder()
	id, err := f.b.AddBookmark(folder, -1, title, url)
	if err != nil {
		return State{}, err
	}
	f.id, f.wasNew = id, true
	f.prefs.SetLastUsedFolder(folder)
	log.Info("bookmark saved", "id", id, "folder", folder)
	return f.State()
}

// targetFolder is the last used folder while it still takes bookmarks.
func (f *Flow) targetFolder() model.BookmarkID {
	if last, ok := f.prefs.LastUsedFolder(); ok {
		it, found := f.b.GetBookmarkByID(last)
		if found && it.IsFolder && it.IsEditable && !it.IsManaged &&
			last.Type == model.TypeNormal && last != f.b.GetRootFolderID() {
			return last
		}
	}
	return f.b.GetDefaultFolder()
}

// State describes the saved bookmark.
func (f *Flow) State() (State, error) {
	it, ok := f.b.GetBookmarkByID(f.id)
	if !ok {
		return State{}, ErrNotSaved
	}
	folder, _ := f.b.GetBookmarkByID(it.ParentID)
	s := State{
		ID:          it.ID,
		Title:       it.Title,
		URL:         it.URL,
		Folder:      it.ParentID,
		FolderName:  folder.Title,
		WasNew:      f.wasNew,
		EditVisible: true,
		MoveVisible: it.IsMovable(),
	}

	if meta := f.b.GetPowerBookmarkMeta(it.ID); meta.HasShopping() {
		s.PriceTrackingAvailable = true
		s.PriceTracked = meta.IsPriceTracked()
		s.Price = model.FormatPrice(meta.Shopping.CurrentPrice, meta.Shopping.CurrencyCode)
	}
	return s, nil
}

// OnFolderChosen moves the saved bookmark into folder and remembers the
// folder for the next save.
func (f *Flow) OnFolderChosen(folder model.BookmarkID) (State, error) {
	if !f.b.DoesBookmarkExist(f.id) {
		return State{}, ErrNotSaved
	}
	id, err := f.b.MoveBookmark(f.id, folder, -1)
	if err != nil {
		return State{}, err
	}
	f.id = id
	if folder.Type == model.TypeNormal {
		f.prefs.SetLastUsedFolder(folder)
	}
	return f.State()
}

// SetPriceTracked turns price tracking of the saved product on or off.
func (f *Flow) SetPriceTracked(on bool) (State, error) {
	meta := f.b.GetPowerBookmarkMeta(f.id)
	if !meta.HasShopping() {
		return State{}, ErrNoShopping
	}
	meta = meta.Clone()
	meta.Shopping.IsPriceTracked = on
	if err := f.b.SetPowerBookmarkMeta(f.id, meta); err != nil {
		return State{}, err
	}
	return f.State()
}

// Unsave deletes the bookmark the flow created or found.
func (f *Flow) Unsave() error {
	if !f.b.DoesBookmarkExist(f.id) {
		return ErrNotSaved
	}
	if err := f.b.DeleteBookmark(f.id); err != nil {
		return err
	}
	f.id = model.BookmarkID{}
	f.wasNew = false
	return nil
}
