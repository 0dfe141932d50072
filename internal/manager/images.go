package manager

import (
	"github.com/nikbrunner/bmark/internal/images"
	"github.com/nikbrunner/bmark/internal/model"
	"github.com/nikbrunner/bmark/internal/prefs"
)

// Images returns the images known for id. Folders get up to two.
func (m *Manager) Images(id model.BookmarkID) []images.Image {
	m.imgMu.Lock()
	defer m.imgMu.Unlock()
	return m.imgs[id]
}

// requestImages starts lookups for listed rows that have none yet. It
// only runs in the visual display mode.
func (m *Manager) requestImages() {
	if m.fetcher == nil || m.prefs.DisplayMode() != prefs.DisplayVisual {
		return
	}

	m.imgMu.Lock()
	defer m.imgMu.Unlock()
	for _, e := range m.entries {
		if !e.HasItem() {
			continue
		}
		id := e.Item.ID
		if _, done := m.imgs[id]; done {
			continue
		}
		if _, running := m.imgRequests[id]; running {
			continue
		}

		if e.Item.IsFolder {
			m.imgRequests[id] = m.fetcher.FetchFirstTwoImagesForFolder(id, func(imgs []images.Image) {
				m.post(func() { m.imagesArrived(id, imgs) })
			})
			continue
		}
		m.imgRequests[id] = m.fetcher.FetchImageForBookmark(*e.Item, func(img images.Image) {
			m.post(func() { m.imagesArrived(id, []images.Image{img}) })
		})
	}
}

func (m *Manager) imagesArrived(id model.BookmarkID, imgs []images.Image) {
	if m.destroyed {
		return
	}
	m.imgMu.Lock()
	delete(m.imgRequests, id)
	m.imgs[id] = imgs
	m.imgMu.Unlock()
	m.notify()
}
