package bridge

import "github.com/nikbrunner/bmark/internal/model"

// relay is the bridge's engine observer. It is a separate type so the
// engine callbacks stay off the Bridge API.
type relay struct {
	b *Bridge
}

func (r *relay) dispatch(changed bool, fn func(Observer)) {
	b := r.b
	observers := b.snapshotObservers()
	for _, o := range observers {
		fn(o)
	}
	if !changed {
		return
	}
	b.markDirty()

	b.mu.Lock()
	quiet := b.extensive > 0
	b.mu.Unlock()
	if quiet {
		return
	}
	for _, o := range observers {
		o.BookmarkModelChanged()
	}
}

func (r *relay) ModelLoaded() {
	b := r.b
	b.mu.Lock()
	pending := b.onLoaded
	b.onLoaded = nil
	b.mu.Unlock()

	log.Debug("bookmark model loaded", "callbacks", len(pending))
	for _, fn := range pending {
		fn()
	}
	r.dispatch(false, func(o Observer) { o.ModelLoaded() })
}

func (r *relay) NodeAdded(parent model.BookmarkItem, index int) {
	r.dispatch(true, func(o Observer) { o.NodeAdded(parent, index) })
}

func (r *relay) NodeRemoved(parent model.BookmarkItem, oldIndex int, node model.BookmarkItem) {
	r.dispatch(true, func(o Observer) { o.NodeRemoved(parent, oldIndex, node) })
}

func (r *relay) NodeMoved(oldParent model.BookmarkItem, oldIndex int, newParent model.BookmarkItem, newIndex int) {
	r.dispatch(true, func(o Observer) { o.NodeMoved(oldParent, oldIndex, newParent, newIndex) })
}

func (r *relay) NodeChanged(node model.BookmarkItem) {
	r.dispatch(true, func(o Observer) { o.NodeChanged(node) })
}

func (r *relay) ChildrenReordered(parent model.BookmarkItem) {
	r.dispatch(true, func(o Observer) { o.ChildrenReordered(parent) })
}

func (r *relay) ExtensiveChangesBeginning() {
	r.b.mu.Lock()
	r.b.extensive++
	r.b.mu.Unlock()
	r.dispatch(false, func(o Observer) { o.ExtensiveChangesBeginning() })
}

func (r *relay) ExtensiveChangesEnded() {
	r.b.mu.Lock()
	if r.b.extensive > 0 {
		r.b.extensive--
	}
	r.b.mu.Unlock()
	r.dispatch(true, func(o Observer) { o.ExtensiveChangesEnded() })
}
