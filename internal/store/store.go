// Package store is the bookmark engine: the node tree, its permanent
// folders, mutations, undo and change notifications.
package store

import (
	"errors"
	"sync"
	"time"

	"github.com/nikbrunner/bmark/internal/logging"
	"github.com/nikbrunner/bmark/internal/model"
)

var log = logging.GetLogger("STORE")

// Permanent node ids.
const (
	RootID        int64 = 1
	BookmarkBarID int64 = 2
	OtherID       int64 = 3
	MobileID      int64 = 4
	ReadingListID int64 = 5
	PartnerID     int64 = 6

	firstUserID int64 = 100
)

// MaxUndo bounds the undo history.
const MaxUndo = 20

var (
	ErrNotFound     = errors.New("bookmark not found")
	ErrNotFolder    = errors.New("bookmark is not a folder")
	ErrNotEditable  = errors.New("bookmark is not editable")
	ErrPermanent    = errors.New("permanent folders cannot be changed")
	ErrInvalidMove  = errors.New("invalid move")
	ErrInvalidIndex = errors.New("index out of range")
	ErrWrongType    = errors.New("wrong bookmark type for operation")
	ErrNotLoaded    = errors.New("bookmark model not loaded")
	ErrInvalidOrder = errors.New("ordering is not a permutation of the children")
	ErrNothingUndo  = errors.New("nothing to undo")
	ErrEmptyURL     = errors.New("bookmark url is empty")
)

// Store is the in-memory bookmark tree. Safe for concurrent use;
// observers are called without the lock held.
type Store struct {
	mu sync.RWMutex

	nodes  map[int64]*node
	root   *node
	nextID int64
	loaded bool

	withPartner bool
	now         func() time.Time

	extensiveDepth int
	undo           []undoEntry
	grouping       int
	groupSeq       int

	obsMu     sync.Mutex
	observers []Observer
}

// Option configures a Store.
type Option func(*Store)

// WithPartnerFolder adds the managed, read-only partner folder.
func WithPartnerFolder() Option {
	return func(s *Store) { s.withPartner = true }
}

// WithClock overrides time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// New creates an unloaded store. Call Load before mutating it.
func New(opts ...Option) *Store {
	s := &Store{now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	s.reset()
	return s
}

// reset rebuilds the permanent skeleton. Caller holds mu or owns s.
func (s *Store) reset() {
	s.nodes = make(map[int64]*node)
	s.nextID = firstUserID
	s.undo = nil

	s.root = s.permanent(RootID, model.TypeNormal, "", nil)
	s.permanent(BookmarkBarID, model.TypeNormal, "Bookmarks bar", s.root)
	s.permanent(OtherID, model.TypeNormal, "Other bookmarks", s.root)
	s.permanent(MobileID, model.TypeNormal, "Mobile bookmarks", s.root)
	s.permanent(ReadingListID, model.TypeReadingList, "Reading list", s.root)
	if s.withPartner {
		p := s.permanent(PartnerID, model.TypePartner, "Partner bookmarks", s.root)
		p.managed = true
	}
}

func (s *Store) permanent(id int64, typ model.BookmarkType, title string, parent *node) *node {
	n := &node{
		id:        id,
		typ:       typ,
		guid:      permanentGUIDs[id],
		title:     title,
		folder:    true,
		permanent: true,
		added:     time.Unix(0, 0).UTC(),
	}
	if parent != nil {
		n.parent = parent
		parent.children = append(parent.children, n)
	}
	s.nodes[id] = n
	return n
}

var permanentGUIDs = map[int64]string{
	RootID:        "00000000-0000-4000-a000-000000000001",
	BookmarkBarID: "00000000-0000-4000-a000-000000000002",
	OtherID:       "00000000-0000-4000-a000-000000000003",
	MobileID:      "00000000-0000-4000-a000-000000000004",
	ReadingListID: "00000000-0000-4000-a000-000000000005",
	PartnerID:     "00000000-0000-4000-a000-000000000006",
}

// IsLoaded reports whether Load has completed.
func (s *Store) IsLoaded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loaded
}

// Load populates the tree from a snapshot (nil for an empty store) and
// notifies ModelLoaded. Loading an already loaded store replaces its
// contents inside an extensive-changes bracket instead.
func (s *Store) Load(snap *Snapshot) error {
	s.mu.Lock()
	wasLoaded := s.loaded
	if wasLoaded {
		s.extensiveDepth++
	}
	s.mu.Unlock()

	if wasLoaded {
		s.notify(func(o Observer) { o.ExtensiveChangesBeginning() })
	}

	s.mu.Lock()
	s.reset()
	err := s.applySnapshot(snap)
	s.loaded = true
	s.mu.Unlock()

	if wasLoaded {
		s.EndExtensiveChanges()
		return err
	}
	s.notify(func(o Observer) { o.ModelLoaded() })
	return err
}

// BeginExtensiveChanges starts a batch. Observers hear about the
// outermost begin/end pair only.
func (s *Store) BeginExtensiveChanges() {
	s.mu.Lock()
	s.extensiveDepth++
	first := s.extensiveDepth == 1
	s.mu.Unlock()

	if first {
		s.notify(func(o Observer) { o.ExtensiveChangesBeginning() })
	}
}

// EndExtensiveChanges closes a batch opened with BeginExtensiveChanges.
func (s *Store) EndExtensiveChanges() {
	s.mu.Lock()
	if s.extensiveDepth == 0 {
		s.mu.Unlock()
		log.Warn("EndExtensiveChanges without matching begin")
		return
	}
	s.extensiveDepth--
	last := s.extensiveDepth == 0
	s.mu.Unlock()

	if last {
		s.notify(func(o Observer) { o.ExtensiveChangesEnded() })
	}
}

// InExtensiveChanges reports whether a batch is open.
func (s *Store) InExtensiveChanges() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.extensiveDepth > 0
}

func (s *Store) allocID() int64 {
	id := s.nextID
	s.nextID++
	return id
}

// lookup resolves an id. Caller holds mu.
func (s *Store) lookup(id model.BookmarkID) (*node, error) {
	n, ok := s.nodes[id.ID]
	if !ok || n.typ != id.Type {
		return nil, ErrNotFound
	}
	return n, nil
}

func (s *Store) lookupFolder(id model.BookmarkID) (*node, error) {
	n, err := s.lookup(id)
	if err != nil {
		return nil, err
	}
	if !n.folder {
		return nil, ErrNotFolder
	}
	return n, nil
}
