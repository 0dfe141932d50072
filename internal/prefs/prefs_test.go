package prefs_test

import (
	"errors"
	"testing"

	"gotest.tools/v3/assert"

	"github.com/nikbrunner/bmark/internal/model"
	"github.com/nikbrunner/bmark/internal/prefs"
)

type observer struct {
	sorts    []prefs.SortOrder
	displays []prefs.DisplayMode
}

func (o *observer) SortOrderChanged(s prefs.SortOrder)     { o.sorts = append(o.sorts, s) }
func (o *observer) DisplayModeChanged(m prefs.DisplayMode) { o.displays = append(o.displays, m) }

func TestUiPrefs_Defaults(t *testing.T) {
	p := prefs.New(prefs.NewMemoryKV(), prefs.SortAlphabetical, prefs.DisplayVisual)

	assert.Equal(t, p.SortOrder(), prefs.SortAlphabetical)
	assert.Equal(t, p.DisplayMode(), prefs.DisplayVisual)
	assert.Equal(t, p.LastUsedURL(), "")

	_, ok := p.LastUsedFolder()
	assert.Assert(t, !ok)
}

func TestUiPrefs_LastUsedFolder(t *testing.T) {
	kv := prefs.NewMemoryKV()
	p := prefs.New(kv, prefs.SortManual, prefs.DisplayCompact)

	id := model.NewID(120, model.TypeNormal)
	p.SetLastUsedFolder(id)

	got, ok := p.LastUsedFolder()
	assert.Assert(t, ok)
	assert.Equal(t, got, id)

	raw, _, _ := kv.Get(prefs.KeyLastUsedFolder)
	assert.Equal(t, raw, "normal:120")

	kv.Set(prefs.KeyLastUsedFolder, "garbage")
	_, ok = p.LastUsedFolder()
	assert.Assert(t, !ok, "unparsable folder should read as unset")
}

func TestUiPrefs_Observers(t *testing.T) {
	p := prefs.New(prefs.NewMemoryKV(), prefs.SortManual, prefs.DisplayCompact)
	obs := &observer{}
	p.AddObserver(obs)

	p.SetSortOrder(prefs.SortManual) // unchanged, no callback
	p.SetSortOrder(prefs.SortRecentlyUsed)
	p.SetDisplayMode(prefs.DisplayVisual)

	assert.DeepEqual(t, obs.sorts, []prefs.SortOrder{prefs.SortRecentlyUsed})
	assert.DeepEqual(t, obs.displays, []prefs.DisplayMode{prefs.DisplayVisual})
	assert.Equal(t, p.SortOrder(), prefs.SortRecentlyUsed)

	p.RemoveObserver(obs)
	p.SetSortOrder(prefs.SortChronological)
	assert.Equal(t, len(obs.sorts), 1)
}

func TestParseSortOrder(t *testing.T) {
	for _, o := range prefs.SortOrders() {
		got, err := prefs.ParseSortOrder(o.String())
		assert.NilError(t, err)
		assert.Equal(t, got, o)
	}
	_, err := prefs.ParseSortOrder("sideways")
	assert.ErrorContains(t, err, "unknown sort order")
}

type brokenKV struct{}

func (brokenKV) Get(string) (string, bool, error) { return "", false, errors.New("disk gone") }
func (brokenKV) Set(string, string) error         { return errors.New("disk gone") }
func (brokenKV) Delete(string) error              { return errors.New("disk gone") }

func TestUiPrefs_FailingStoreFallsBack(t *testing.T) {
	p := prefs.New(brokenKV{}, prefs.SortChronological, prefs.DisplayCompact)

	p.SetSortOrder(prefs.SortAlphabetical)
	assert.Equal(t, p.SortOrder(), prefs.SortChronological)
}
