// Package images finds a representative picture for a bookmarked page
// and keeps the number of concurrent lookups bounded.
package images

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/time/rate"

	"github.com/nikbrunner/bmark/internal/logging"
)

var log = logging.GetLogger("IMG")

var (
	ErrNoImage     = errors.New("page has no salient image")
	ErrUnsupported = errors.New("unsupported page url")
)

// maxPageBytes caps how much of a page is parsed.
const maxPageBytes = 2 << 20

// Service resolves the salient image of a page.
type Service interface {
	SalientImageURL(ctx context.Context, pageURL string) (string, error)
}

// HTTPService fetches pages over HTTP and reads their image metadata.
type HTTPService struct {
	client  *http.Client
	limiter *rate.Limiter
}

// NewHTTPService creates a service allowing perSecond page fetches.
// A non-positive rate disables limiting.
func NewHTTPService(timeout time.Duration, perSecond float64) *HTTPService {
	limit := rate.Inf
	burst := 1
	if perSecond > 0 {
		limit = rate.Limit(perSecond)
		burst = max(1, int(perSecond))
	}
	return &HTTPService{
		client: &http.Client{
			Timeout: timeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 10 {
					return http.ErrUseLastResponse
				}
				return nil
			},
		},
		limiter: rate.NewLimiter(limit, burst),
	}
}

// SalientImageURL returns the absolute URL of the page's main image.
func (s *HTTPService) SalientImageURL(ctx context.Context, pageURL string) (string, error) {
	base, err := url.Parse(pageURL)
	if err != nil || (base.Scheme != "http" && base.Scheme != "https") {
		return "", fmt.Errorf("%w: %q", ErrUnsupported, pageURL)
	}

	if err := s.limiter.Wait(ctx); err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("Accept", "text/html")

	log.Debug("fetching page", "url", pageURL)
	resp, err := s.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return "", fmt.Errorf("fetch %s: %s", pageURL, resp.Status)
	}

	doc, err := goquery.NewDocumentFromReader(io.LimitReader(resp.Body, maxPageBytes))
	if err != nil {
		return "", fmt.Errorf("parse %s: %w", pageURL, err)
	}

	// Redirects change what relative references resolve against.
	if resp.Request != nil && resp.Request.URL != nil {
		base = resp.Request.URL
	}

	img, ok := ExtractImage(doc, base)
	if !ok {
		return "", ErrNoImage
	}
	return img, nil
}

// imageSources are tried in order; the first non-empty attribute wins.
var imageSources = []struct {
	selector string
	attr     string
}{
	{`meta[property="og:image"]`, "content"},
	{`meta[property="og:image:url"]`, "content"},
	{`meta[name="twitter:image"]`, "content"},
	{`meta[name="twitter:image:src"]`, "content"},
	{`link[rel="image_src"]`, "href"},
	{`img[src]`, "src"},
}

// ExtractImage picks the salient image of a parsed page and resolves it
// against base.
func ExtractImage(doc *goquery.Document, base *url.URL) (string, bool) {
	for _, src := range imageSources {
		var found string
		doc.Find(src.selector).EachWithBreak(func(_ int, sel *goquery.Selection) bool {
			ref := strings.TrimSpace(sel.AttrOr(src.attr, ""))
			if ref == "" || strings.HasPrefix(ref, "data:") {
				return true
			}
			u, err := base.Parse(ref)
			if err != nil {
				return true
			}
			found = u.String()
			return false
		})
		if found != "" {
			return found, true
		}
	}
	return "", false
}
