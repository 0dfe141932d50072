package exporter

import (
	"fmt"
	"io"

	"github.com/xlab/treeprint"

	"github.com/nikbrunner/bmark/internal/model"
)

// TreeOptions control WriteTree.
type TreeOptions struct {
	FoldersOnly bool
	ShowURLs    bool
	MaxDepth    int // 0 is unlimited
}

// WriteTree draws the subtree of root as an ASCII tree. A zero root
// draws every top level folder under a "Bookmarks" heading.
func WriteTree(w io.Writer, t Tree, root model.BookmarkID, opts TreeOptions) error {
	var tree treeprint.Tree
	var top []model.BookmarkItem

	if root.Valid() {
		it, err := t.Get(root)
		if err != nil {
			return err
		}
		tree = newTree(it.Title)
		if !it.IsFolder {
			_, err := io.WriteString(w, tree.String())
			return err
		}
		children, err := t.Children(root)
		if err != nil {
			return err
		}
		top = children
	} else {
		tree = newTree("Bookmarks")
		for _, id := range t.TopLevelFolderIDs(false) {
			it, err := t.Get(id)
			if err != nil {
				return err
			}
			top = append(top, it)
		}
	}

	for _, it := range top {
		if err := addNode(tree, t, it, opts, 1); err != nil {
			return err
		}
	}
	_, err := io.WriteString(w, tree.String())
	return err
}

func newTree(title string) treeprint.Tree {
	tree := treeprint.New()
	tree.SetValue(title)
	return tree
}

func addNode(parent treeprint.Tree, t Tree, it model.BookmarkItem, opts TreeOptions, depth int) error {
	if !it.IsFolder {
		if opts.FoldersOnly {
			return nil
		}
		label := it.Title
		if opts.ShowURLs {
			label = fmt.Sprintf("%s  %s", it.Title, it.URL)
		}
		parent.AddNode(label)
		return nil
	}

	branch := parent.AddBranch(it.Title)
	if opts.MaxDepth > 0 && depth >= opts.MaxDepth {
		return nil
	}
	children, err := t.Children(it.ID)
	if err != nil {
		return err
	}
	for _, c := range children {
		if err := addNode(branch, t, c, opts, depth+1); err != nil {
			return err
		}
	}
	return nil
}
