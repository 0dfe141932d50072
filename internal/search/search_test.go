package search

import (
	"testing"

	"github.com/nikbrunner/bmark/internal/model"
)

func item(id int64, title, url string) model.BookmarkItem {
	return model.BookmarkItem{ID: model.NewID(id, model.TypeNormal), Title: title, URL: url}
}

func TestRank_EmptyQuery(t *testing.T) {
	items := []model.BookmarkItem{item(1, "GitHub", "https://github.com")}

	if results := Rank("", items); len(results) != 0 {
		t.Errorf("expected 0 results for empty query, got %d", len(results))
	}
	if results := Rank("   ", items); len(results) != 0 {
		t.Errorf("expected 0 results for blank query, got %d", len(results))
	}
}

func TestRank_ExactMatch(t *testing.T) {
	items := []model.BookmarkItem{
		item(1, "GitHub", "https://github.com"),
		item(2, "GitLab", "https://gitlab.com"),
	}

	results := Rank("GitHub", items)

	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	if results[0].Item.Title != "GitHub" {
		t.Errorf("expected GitHub, got %s", results[0].Item.Title)
	}
	if results[0].InURL {
		t.Error("title match should win over URL match")
	}
}

func TestRank_FuzzyMatch(t *testing.T) {
	items := []model.BookmarkItem{
		item(1, "TanStack Router", "https://tanstack.com/router"),
		item(2, "React Router", "https://reactrouter.com"),
	}

	// "tanrou" should fuzzy match "TanStack Router"
	results := Rank("tanrou", items)

	if len(results) < 1 {
		t.Fatalf("expected at least 1 result for 'tanrou', got %d", len(results))
	}
	if results[0].Item.Title != "TanStack Router" {
		t.Errorf("expected TanStack Router as first result, got %s", results[0].Item.Title)
	}
}

func TestRank_MatchesURL(t *testing.T) {
	items := []model.BookmarkItem{
		item(1, "Docs", "https://pkg.go.dev/net/http"),
		item(2, "News", "https://news.ycombinator.com"),
	}

	results := Rank("ycombinator", items)

	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	if !results[0].InURL {
		t.Error("expected URL match")
	}
	if len(results[0].MatchedIndexes) != 0 {
		t.Error("URL matches carry no title indexes")
	}
}

func TestRank_NoMatch(t *testing.T) {
	items := []model.BookmarkItem{item(1, "GitHub", "https://github.com")}

	if results := Rank("xyz123", items); len(results) != 0 {
		t.Errorf("expected 0 results for 'xyz123', got %d", len(results))
	}
}

func TestRank_CaseInsensitive(t *testing.T) {
	items := []model.BookmarkItem{item(1, "GitHub", "https://example.org")}

	results := Rank("github", items)

	if len(results) != 1 {
		t.Fatalf("expected 1 result for case-insensitive match, got %d", len(results))
	}
}

func TestItems(t *testing.T) {
	items := []model.BookmarkItem{
		item(1, "GitHub", "https://github.com"),
		item(2, "GitLab", "https://gitlab.com"),
		item(3, "Gitea", "https://gitea.io"),
	}

	got := Items(Rank("git", items))
	if len(got) != 3 {
		t.Errorf("expected 3 results for 'git', got %d", len(got))
	}
}
