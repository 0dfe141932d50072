package store

import "github.com/nikbrunner/bmark/internal/model"

// Observer receives engine change notifications. Parent and node items
// are copies taken at the time of the change.
type Observer interface {
	ModelLoaded()
	NodeAdded(parent model.BookmarkItem, index int)
	NodeRemoved(parent model.BookmarkItem, oldIndex int, node model.BookmarkItem)
	NodeMoved(oldParent model.BookmarkItem, oldIndex int, newParent model.BookmarkItem, newIndex int)
	NodeChanged(node model.BookmarkItem)
	ChildrenReordered(parent model.BookmarkItem)
	ExtensiveChangesBeginning()
	ExtensiveChangesEnded()
}

// BaseObserver implements Observer with no-ops. Embed it to override
// only the callbacks you need.
type BaseObserver struct{}

func (BaseObserver) ModelLoaded()                                               {}
func (BaseObserver) NodeAdded(model.BookmarkItem, int)                          {}
func (BaseObserver) NodeRemoved(model.BookmarkItem, int, model.BookmarkItem)    {}
func (BaseObserver) NodeMoved(model.BookmarkItem, int, model.BookmarkItem, int) {}
func (BaseObserver) NodeChanged(model.BookmarkItem)                             {}
func (BaseObserver) ChildrenReordered(model.BookmarkItem)                       {}
func (BaseObserver) ExtensiveChangesBeginning()                                 {}
func (BaseObserver) ExtensiveChangesEnded()                                     {}

type event func(Observer)

// AddObserver registers o. Adding the same observer twice is a no-op.
func (s *Store) AddObserver(o Observer) {
	s.obsMu.Lock()
	defer s.obsMu.Unlock()
	for _, existing := range s.observers {
		if existing == o {
			return
		}
	}
	s.observers = append(s.observers, o)
}

// RemoveObserver unregisters o.
func (s *Store) RemoveObserver(o Observer) {
	s.obsMu.Lock()
	defer s.obsMu.Unlock()
	for i, existing := range s.observers {
		if existing == o {
			s.observers = append(s.observers[:i:i], s.observers[i+1:]...)
			return
		}
	}
}

// notify dispatches events to a copy of the observer list. Must be
// called without mu held.
func (s *Store) notify(events ...event) {
	if len(events) == 0 {
		return
	}
	s.obsMu.Lock()
	observers := make([]Observer, len(s.observers))
	copy(observers, s.observers)
	s.obsMu.Unlock()

	for _, ev := range events {
		for _, o := range observers {
			ev(o)
		}
	}
}
