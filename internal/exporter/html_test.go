package exporter

import (
	"strings"
	"testing"
	"time"

	"github.com/nikbrunner/bmark/internal/importer"
	"github.com/nikbrunner/bmark/internal/model"
	"github.com/nikbrunner/bmark/internal/store"
)

var (
	mobile = model.NewID(store.MobileID, model.TypeNormal)
	bar    = model.NewID(store.BookmarkBarID, model.TypeNormal)
)

func newStore(t *testing.T) *store.Store {
	t.Helper()
	at := time.Unix(1700000000, 0)
	s := store.New(store.WithClock(func() time.Time { return at }))
	if err := s.Load(nil); err != nil {
		t.Fatalf("load: %v", err)
	}
	return s
}

func mustExport(t *testing.T, s *store.Store) string {
	t.Helper()
	html, err := ExportHTML(s)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	return html
}

func TestExportHTML_EmptyStore(t *testing.T) {
	html := mustExport(t, newStore(t))

	if !strings.Contains(html, "<!DOCTYPE NETSCAPE-Bookmark-file-1>") {
		t.Error("expected DOCTYPE declaration")
	}
	if !strings.Contains(html, "<TITLE>Bookmarks</TITLE>") {
		t.Error("expected TITLE element")
	}
	if !strings.Contains(html, "Mobile bookmarks</H3>") {
		t.Error("expected the mobile folder even when empty")
	}
	if strings.Contains(html, "Reading list") {
		t.Error("reading list must not be exported")
	}
}

func TestExportHTML_SingleBookmark(t *testing.T) {
	s := newStore(t)
	if _, err := s.AddBookmark(mobile, -1, "GitHub", "https://github.com"); err != nil {
		t.Fatal(err)
	}

	html := mustExport(t, s)

	if !strings.Contains(html, `<A HREF="https://github.com"`) {
		t.Error("expected bookmark URL")
	}
	if !strings.Contains(html, "GitHub</A>") {
		t.Error("expected bookmark title")
	}
	if !strings.Contains(html, `ADD_DATE="1700000000"`) {
		t.Error("expected ADD_DATE timestamp")
	}
}

func TestExportHTML_BookmarkBarMarked(t *testing.T) {
	s := newStore(t)
	if _, err := s.AddBookmark(bar, -1, "Go", "https://go.dev"); err != nil {
		t.Fatal(err)
	}

	html := mustExport(t, s)
	if !strings.Contains(html, `PERSONAL_TOOLBAR_FOLDER="true">Bookmarks bar</H3>`) {
		t.Error("expected bookmarks bar to carry the toolbar attribute")
	}
}

func TestExportHTML_NestedFolders(t *testing.T) {
	s := newStore(t)
	dev, _ := s.AddFolder(mobile, -1, "Development")
	react, _ := s.AddFolder(dev, -1, "React")
	if _, err := s.AddBookmark(react, -1, "TanStack Router", "https://tanstack.com/router"); err != nil {
		t.Fatal(err)
	}

	html := mustExport(t, s)

	devIdx := strings.Index(html, "Development</H3>")
	reactIdx := strings.Index(html, "React</H3>")
	tanstackIdx := strings.Index(html, "TanStack Router</A>")

	if devIdx == -1 || reactIdx == -1 || tanstackIdx == -1 {
		t.Fatal("missing elements in output")
	}
	if devIdx >= reactIdx || reactIdx >= tanstackIdx {
		t.Error("expected proper nesting order: Development > React > TanStack Router")
	}
}

func TestExportHTML_EscapesSpecialCharacters(t *testing.T) {
	s := newStore(t)
	if _, err := s.AddBookmark(mobile, -1, "Test <script>alert('xss')</script>", "https://example.com?foo=bar&baz=qux"); err != nil {
		t.Fatal(err)
	}

	html := mustExport(t, s)

	if strings.Contains(html, "<script>") {
		t.Error("script tag should be escaped")
	}
	if !strings.Contains(html, "&lt;script&gt;") {
		t.Error("expected escaped script tag")
	}
	if strings.Contains(html, "foo=bar&baz") {
		t.Error("ampersand should be escaped in URL")
	}
	if !strings.Contains(html, "foo=bar&amp;baz") {
		t.Error("expected escaped ampersand in URL")
	}
}

func TestExportHTML_ImportsBack(t *testing.T) {
	s := newStore(t)
	dev, _ := s.AddFolder(mobile, -1, "Development")
	if _, err := s.AddBookmark(dev, -1, "Go", "https://go.dev"); err != nil {
		t.Fatal(err)
	}

	nodes, err := importer.ParseHTML(strings.NewReader(mustExport(t, s)))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(nodes) != 1 || nodes[0].Title != "Mobile bookmarks" {
		t.Fatalf("unexpected roots %+v", nodes)
	}
	devNode := nodes[0].Children[0]
	if devNode.Title != "Development" || len(devNode.Children) != 1 || devNode.Children[0].URL != "https://go.dev" {
		t.Errorf("unexpected tree %+v", devNode)
	}
}
