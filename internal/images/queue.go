package images

import (
	"context"
	"errors"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
)

// MaxOutstanding is the default number of lookups running at once.
const MaxOutstanding = 30

const defaultCacheSize = 256

// Callback receives the image URL of a page, "" when it has none.
type Callback func(imageURL string)

type request struct {
	pageURL string
	cb      Callback
}

// Queue runs Service lookups with a bound on concurrency. Requests over
// the bound wait in FIFO order. Results are cached by page URL and cache
// hits are answered synchronously without taking a slot.
type Queue struct {
	svc Service
	max int

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu          sync.Mutex
	cache       *lru.Cache[string, string]
	outstanding int
	pending     []request
	destroyed   bool
}

// NewQueue creates a queue over svc. Non-positive sizes use the defaults.
func NewQueue(svc Service, maxOutstanding, cacheSize int) *Queue {
	if maxOutstanding <= 0 {
		maxOutstanding = MaxOutstanding
	}
	if cacheSize <= 0 {
		cacheSize = defaultCacheSize
	}
	cache, _ := lru.New[string, string](cacheSize)
	ctx, cancel := context.WithCancel(context.Background())
	return &Queue{
		svc:    svc,
		max:    maxOutstanding,
		ctx:    ctx,
		cancel: cancel,
		cache:  cache,
	}
}

// Fetch looks up the image of pageURL and calls cb with the result. cb
// runs on the caller's goroutine for cache hits and on a worker
// goroutine otherwise. After Destroy, cb is never called.
func (q *Queue) Fetch(pageURL string, cb Callback) {
	q.mu.Lock()
	if q.destroyed {
		q.mu.Unlock()
		return
	}
	if img, ok := q.cache.Get(pageURL); ok {
		q.mu.Unlock()
		cb(img)
		return
	}

	r := request{pageURL: pageURL, cb: cb}
	if q.outstanding >= q.max {
		q.pending = append(q.pending, r)
		q.mu.Unlock()
		return
	}
	q.outstanding++
	q.start(r)
	q.mu.Unlock()
}

// start must be called with mu held and the slot already counted.
func (q *Queue) start(r request) {
	q.wg.Add(1)
	go q.run(r)
}

func (q *Queue) run(r request) {
	defer q.wg.Done()

	img, err := q.svc.SalientImageURL(q.ctx, r.pageURL)
	if err != nil && !errors.Is(err, ErrNoImage) {
		log.Debug("image lookup failed", "url", r.pageURL, "err", err)
	}

	q.mu.Lock()
	q.outstanding--
	if q.destroyed {
		q.mu.Unlock()
		return
	}
	if err == nil || errors.Is(err, ErrNoImage) || errors.Is(err, ErrUnsupported) {
		q.cache.Add(r.pageURL, img)
	}
	hits := q.drain()
	q.mu.Unlock()

	r.cb(img)
	for _, h := range hits {
		h()
	}
}

// drain starts pending requests while slots are free. Pending requests
// answered by the cache are returned for the caller to run unlocked.
func (q *Queue) drain() []func() {
	var hits []func()
	for len(q.pending) > 0 && q.outstanding < q.max {
		next := q.pending[0]
		q.pending = q.pending[1:]
		if img, ok := q.cache.Get(next.pageURL); ok {
			hits = append(hits, func() { next.cb(img) })
			continue
		}
		q.outstanding++
		q.start(next)
	}
	return hits
}

// Outstanding returns the number of lookups in flight.
func (q *Queue) Outstanding() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.outstanding
}

// Pending returns the number of requests waiting for a slot.
func (q *Queue) Pending() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.pending)
}

// Cached returns a cached result without starting a lookup.
func (q *Queue) Cached(pageURL string) (string, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.cache.Get(pageURL)
}

// Destroy drops pending requests, cancels running lookups and waits for
// them to return.
func (q *Queue) Destroy() {
	q.mu.Lock()
	if q.destroyed {
		q.mu.Unlock()
		return
	}
	q.destroyed = true
	dropped := len(q.pending)
	q.pending = nil
	q.mu.Unlock()

	q.cancel()
	q.wg.Wait()
	log.Debug("image queue destroyed", "dropped", dropped)
}
