// Package culler checks bookmark URLs and finds the dead ones.
package culler

import (
	"context"
	"errors"
	"io"
	stdlog "log"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/nikbrunner/bmark/internal/logging"
	"github.com/nikbrunner/bmark/internal/model"
)

var log = logging.GetLogger("CULL")

var ErrNoBookmarks = errors.New("no bookmarks to check")

// Status represents the health status of a URL.
type Status int

const (
	Healthy     Status = iota // 2xx or 3xx response
	Dead                      // 404 or 410 Gone
	Unreachable               // timeout, DNS failure, connection refused, etc.
)

func (s Status) String() string {
	switch s {
	case Healthy:
		return "ok"
	case Dead:
		return "dead"
	}
	return "unreachable"
}

// Result holds the check result for a single bookmark.
type Result struct {
	Item       model.BookmarkItem
	Status     Status
	StatusCode int    // 0 if the connection failed
	Error      string // readable reason for unreachable URLs
}

// ProgressFunc is called after each URL is checked.
type ProgressFunc func(completed, total int)

// Options tune a check run.
type Options struct {
	Concurrency    int
	Timeout        time.Duration
	RatePerSecond  float64 // 0 disables rate limiting
	ExcludeDomains []string
	OnProgress     ProgressFunc
	Client         *http.Client // optional
}

// DefaultOptions returns the options of the check command.
func DefaultOptions() Options {
	return Options{Concurrency: 10, Timeout: 10 * time.Second, RatePerSecond: 20}
}

// Bookmarks returns the URL bookmarks among items.
func Bookmarks(items []model.BookmarkItem) []model.BookmarkItem {
	out := make([]model.BookmarkItem, 0, len(items))
	for _, it := range items {
		if !it.IsFolder && strings.HasPrefix(it.URL, "http") {
			out = append(out, it)
		}
	}
	return out
}

// CheckURLs checks all bookmark URLs concurrently. 404s on excluded
// domains count as unreachable, since they are usually private pages.
// Results keep the order of items; entries not reached before ctx was
// cancelled are reported unreachable.
func CheckURLs(ctx context.Context, items []model.BookmarkItem, opts Options) []Result {
	if len(items) == 0 {
		return nil
	}

	// the transport logs protocol noise through the standard logger
	originalOutput := stdlog.Writer()
	stdlog.SetOutput(io.Discard)
	defer stdlog.SetOutput(originalOutput)

	exclude := make(map[string]bool)
	for _, domain := range opts.ExcludeDomains {
		exclude[strings.ToLower(domain)] = true
	}

	client := opts.Client
	if client == nil {
		client = &http.Client{
			Timeout: opts.Timeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 10 {
					return http.ErrUseLastResponse
				}
				return nil
			},
		}
	}

	limit := rate.Inf
	if opts.RatePerSecond > 0 {
		limit = rate.Limit(opts.RatePerSecond)
	}
	limiter := rate.NewLimiter(limit, 1)

	results := make([]Result, len(items))
	var (
		mu        sync.Mutex
		completed int
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(opts.Concurrency, 1))
	for i := range items {
		g.Go(func() error {
			if err := limiter.Wait(gctx); err != nil {
				results[i] = Result{Item: items[i], Status: Unreachable, Error: normalizeError(err.Error())}
			} else {
				results[i] = checkURL(gctx, client, items[i], exclude)
			}
			if opts.OnProgress != nil {
				mu.Lock()
				completed++
				opts.OnProgress(completed, len(items))
				mu.Unlock()
			}
			return nil
		})
	}
	_ = g.Wait()

	dead := 0
	for _, r := range results {
		if r.Status == Dead {
			dead++
		}
	}
	log.Info("checked bookmarks", "total", len(items), "dead", dead)
	return results
}

// checkURL tries HEAD first and falls back to GET, which some servers
// require.
func checkURL(ctx context.Context, client *http.Client, item model.BookmarkItem, exclude map[string]bool) Result {
	result := Result{Item: item}

	resp, err := request(ctx, client, http.MethodHead, item.URL)
	if err != nil || resp.StatusCode == http.StatusMethodNotAllowed {
		if resp != nil {
			resp.Body.Close()
		}
		resp, err = request(ctx, client, http.MethodGet, item.URL)
		if err != nil {
			result.Status = Unreachable
			result.Error = normalizeError(err.Error())
			return result
		}
	}
	defer resp.Body.Close()

	result.StatusCode = resp.StatusCode
	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 400:
		result.Status = Healthy
	case resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusGone:
		if isExcludedDomain(item.URL, exclude) {
			result.Status = Unreachable
			result.Error = "Possibly private (auth required)"
		} else {
			result.Status = Dead
		}
	default:
		// 5xx, 403 and friends are often temporary or need a login
		result.Status = Unreachable
		result.Error = http.StatusText(resp.StatusCode)
	}
	return result
}

func request(ctx context.Context, client *http.Client, method, rawURL string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, rawURL, nil)
	if err != nil {
		return nil, err
	}
	return client.Do(req)
}

// isExcludedDomain matches the host and its subdomains.
func isExcludedDomain(rawURL string, exclude map[string]bool) bool {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	host := strings.ToLower(parsed.Hostname())
	if exclude[host] {
		return true
	}
	for domain := range exclude {
		if strings.HasSuffix(host, "."+domain) {
			return true
		}
	}
	return false
}

// normalizeError simplifies verbose error messages into readable categories.
func normalizeError(errStr string) string {
	lower := strings.ToLower(errStr)

	switch {
	case strings.Contains(lower, "no such host"):
		return "DNS failure"
	case strings.Contains(lower, "context deadline exceeded"),
		strings.Contains(lower, "timeout"):
		return "Timeout"
	case strings.Contains(lower, "context canceled"):
		return "Cancelled"
	case strings.Contains(lower, "connection refused"):
		return "Connection refused"
	case strings.Contains(lower, "certificate"):
		return "TLS/certificate error"
	case strings.Contains(lower, "network is unreachable"):
		return "Network unreachable"
	case strings.Contains(lower, "tls:"):
		return "TLS error"
	default:
		return errStr
	}
}

// DeadIDs returns the ids of the dead results.
func DeadIDs(results []Result) []model.BookmarkID {
	var ids []model.BookmarkID
	for _, r := range results {
		if r.Status == Dead {
			ids = append(ids, r.Item.ID)
		}
	}
	return ids
}
