package search

import (
	"sort"
	"strings"

	"github.com/nikbrunner/bmark/internal/model"
	"github.com/sahilm/fuzzy"
)

// Result represents a fuzzy search match.
type Result struct {
	Item           model.BookmarkItem
	MatchedIndexes []int // indexes into Item.Title, empty when only the URL matched
	Score          int
	InURL          bool
}

// itemTitles implements fuzzy.Source over item titles.
type itemTitles []model.BookmarkItem

func (it itemTitles) String(i int) string { return it[i].Title }
func (it itemTitles) Len() int            { return len(it) }

// itemURLs implements fuzzy.Source over display URLs.
type itemURLs []model.BookmarkItem

func (iu itemURLs) String(i int) string { return iu[i].DisplayURL() }
func (iu itemURLs) Len() int            { return len(iu) }

// Rank fuzzy matches query against titles and URLs of items.
// An item matching both keeps the better score. Results are sorted by
// score (best first), ties broken by title.
func Rank(query string, items []model.BookmarkItem) []Result {
	query = strings.TrimSpace(query)
	if query == "" || len(items) == 0 {
		return nil
	}

	best := make(map[int]Result, len(items))

	for _, m := range fuzzy.FindFrom(query, itemTitles(items)) {
		best[m.Index] = Result{
			Item:           items[m.Index],
			MatchedIndexes: m.MatchedIndexes,
			Score:          m.Score,
		}
	}

	for _, m := range fuzzy.FindFrom(query, itemURLs(items)) {
		if prev, ok := best[m.Index]; ok && prev.Score >= m.Score {
			continue
		}
		best[m.Index] = Result{
			Item:  items[m.Index],
			Score: m.Score,
			InURL: true,
		}
	}

	results := make([]Result, 0, len(best))
	for _, r := range best {
		results = append(results, r)
	}
	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].Item.Title < results[j].Item.Title
	})
	return results
}

// Items strips the match details.
func Items(results []Result) []model.BookmarkItem {
	items := make([]model.BookmarkItem, len(results))
	for i, r := range results {
		items[i] = r.Item
	}
	return items
}
