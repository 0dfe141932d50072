package main

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gotest.tools/v3/assert"

	"github.com/nikbrunner/bmark/internal/bridge"
	"github.com/nikbrunner/bmark/internal/model"
	"github.com/nikbrunner/bmark/internal/storage"
	"github.com/nikbrunner/bmark/internal/store"
)

func run(t *testing.T, dir string, args ...string) error {
	t.Helper()
	base := []string{
		"bmark",
		"--config", filepath.Join(dir, "config.toml"),
		"--backend", "json",
		"--data", filepath.Join(dir, "bookmarks.json"),
	}
	return newApp().Run(context.Background(), append(base, args...))
}

func reopen(t *testing.T, dir string) *bridge.Bridge {
	t.Helper()
	b := bridge.New(store.New(), storage.NewJSONStorage(filepath.Join(dir, "bookmarks.json")))
	assert.NilError(t, b.Load(context.Background()))
	t.Cleanup(b.Destroy)
	return b
}

func TestAdd_SavesOnce(t *testing.T) {
	dir := t.TempDir()

	assert.NilError(t, run(t, dir, "add", "--title", "Go", "https://go.dev"))
	assert.NilError(t, run(t, dir, "add", "https://go.dev"))

	got := reopen(t, dir).GetBookmarksByURL("https://go.dev")
	assert.Equal(t, len(got), 1)
	assert.Equal(t, got[0].Title, "Go")
	assert.Equal(t, got[0].ParentID, model.NewID(store.MobileID, model.TypeNormal))
}

func TestAdd_ReadingList(t *testing.T) {
	dir := t.TempDir()

	assert.NilError(t, run(t, dir, "add", "--reading-list", "https://example.com/post"))

	got := reopen(t, dir).GetBookmarksByURL("https://example.com/post")
	assert.Equal(t, len(got), 1)
	assert.Assert(t, got[0].IsReadingListItem())
}

func TestAdd_NeedsURL(t *testing.T) {
	assert.ErrorContains(t, run(t, t.TempDir(), "add"), "needs a URL")
}

func TestImportExport(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.html")
	html := `<!DOCTYPE NETSCAPE-Bookmark-file-1>
<DL><p>
    <DT><H3>Dev</H3>
    <DL><p>
        <DT><A HREF="https://github.com">GitHub</A>
    </DL><p>
</DL><p>
`
	assert.NilError(t, os.WriteFile(in, []byte(html), 0o644))

	assert.NilError(t, run(t, dir, "import", in))

	got := reopen(t, dir).GetBookmarksByURL("https://github.com")
	assert.Equal(t, len(got), 1)

	out := filepath.Join(dir, "out.html")
	assert.NilError(t, run(t, dir, "export", out))
	data, err := os.ReadFile(out)
	assert.NilError(t, err)
	assert.Assert(t, strings.Contains(string(data), `HREF="https://github.com"`))

	assert.ErrorContains(t, run(t, dir, "export", out), "already exists")
	assert.NilError(t, run(t, dir, "export", "--force", out))
}

func TestConfigCreated(t *testing.T) {
	dir := t.TempDir()
	assert.NilError(t, run(t, dir, "tree"))

	_, err := os.Stat(filepath.Join(dir, "config.toml"))
	assert.NilError(t, err)
}
