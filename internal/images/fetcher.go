package images

import (
	"context"
	"net/url"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/nikbrunner/bmark/internal/model"
)

// Image is what a row shows as its start icon.
type Image struct {
	URL       string
	IsFavicon bool
}

// Source is the part of the bookmark bridge the fetcher reads.
type Source interface {
	GetPowerBookmarkMeta(id model.BookmarkID) *model.PowerBookmarkMeta
	FirstBookmarkDescendants(folder model.BookmarkID, limit int) []model.BookmarkItem
}

// Fetcher resolves images for bookmarks and folders.
type Fetcher struct {
	src   Source
	queue *Queue

	ctx    context.Context
	cancel context.CancelFunc

	mu        sync.Mutex
	destroyed bool
}

// NewFetcher creates a fetcher. The queue is owned by the fetcher and
// destroyed with it.
func NewFetcher(src Source, queue *Queue) *Fetcher {
	ctx, cancel := context.WithCancel(context.Background())
	return &Fetcher{src: src, queue: queue, ctx: ctx, cancel: cancel}
}

// FaviconURL returns the conventional favicon location of a page.
func FaviconURL(pageURL string) string {
	u, err := url.Parse(pageURL)
	if err != nil || u.Host == "" {
		return ""
	}
	return u.Scheme + "://" + u.Host + "/favicon.ico"
}

// ImageForBookmark blocks until the image of item is known. The meta's
// lead image wins; the favicon is the fallback.
func (f *Fetcher) ImageForBookmark(ctx context.Context, item model.BookmarkItem) (Image, error) {
	if meta := f.src.GetPowerBookmarkMeta(item.ID); meta != nil {
		switch {
		case meta.LeadImageURL != "":
			return Image{URL: meta.LeadImageURL}, nil
		case meta.HasShopping() && meta.Shopping.ImageURL != "":
			return Image{URL: meta.Shopping.ImageURL}, nil
		}
	}

	found := make(chan string, 1)
	f.queue.Fetch(item.URL, func(img string) { found <- img })

	select {
	case img := <-found:
		if img == "" {
			return Image{URL: FaviconURL(item.URL), IsFavicon: true}, nil
		}
		return Image{URL: img}, nil
	case <-ctx.Done():
		return Image{}, ctx.Err()
	case <-f.ctx.Done():
		return Image{}, context.Canceled
	}
}

// FirstTwoImages returns the images of the first two bookmarks inside
// folder, looked up concurrently.
func (f *Fetcher) FirstTwoImages(ctx context.Context, folder model.BookmarkID) ([]Image, error) {
	items := f.src.FirstBookmarkDescendants(folder, 2)
	out := make([]Image, len(items))

	g, gctx := errgroup.WithContext(ctx)
	for i, it := range items {
		g.Go(func() error {
			img, err := f.ImageForBookmark(gctx, it)
			if err != nil {
				return err
			}
			out[i] = img
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// FetchImageForBookmark runs ImageForBookmark in the background and
// hands the result to cb. The returned func cancels the request; a
// canceled or destroyed fetch never calls cb.
func (f *Fetcher) FetchImageForBookmark(item model.BookmarkItem, cb func(Image)) (cancel func()) {
	ctx, cancel := context.WithCancel(f.ctx)
	go func() {
		defer cancel()
		img, err := f.ImageForBookmark(ctx, item)
		if err != nil || ctx.Err() != nil || !f.alive() {
			return
		}
		cb(img)
	}()
	return cancel
}

// FetchFirstTwoImagesForFolder is the background form of FirstTwoImages.
func (f *Fetcher) FetchFirstTwoImagesForFolder(folder model.BookmarkID, cb func([]Image)) (cancel func()) {
	ctx, cancel := context.WithCancel(f.ctx)
	go func() {
		defer cancel()
		imgs, err := f.FirstTwoImages(ctx, folder)
		if err != nil || ctx.Err() != nil || !f.alive() {
			return
		}
		cb(imgs)
	}()
	return cancel
}

func (f *Fetcher) alive() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return !f.destroyed
}

// Destroy cancels every request and tears down the queue.
func (f *Fetcher) Destroy() {
	f.mu.Lock()
	if f.destroyed {
		f.mu.Unlock()
		return
	}
	f.destroyed = true
	f.mu.Unlock()

	f.cancel()
	f.queue.Destroy()
}
