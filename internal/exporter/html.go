// Package exporter writes the bookmark tree as Netscape bookmark HTML.
package exporter

import (
	"bufio"
	"fmt"
	"html"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/nikbrunner/bmark/internal/model"
	"github.com/nikbrunner/bmark/internal/store"
)

// Tree is the read side of the bookmark engine.
type Tree interface {
	TopLevelFolderIDs(includeEmpty bool) []model.BookmarkID
	Get(id model.BookmarkID) (model.BookmarkItem, error)
	Children(parent model.BookmarkID) ([]model.BookmarkItem, error)
}

var _ Tree = (*store.Store)(nil)

// DefaultExportPath returns the default export file path.
// Format: ~/Downloads/bookmarks-export-YYYY-MM-DD.html
func DefaultExportPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	filename := fmt.Sprintf("bookmarks-export-%s.html", time.Now().Format("2006-01-02"))
	return filepath.Join(home, "Downloads", filename), nil
}

// WriteHTML writes every normal bookmark folder. The reading list and
// the partner folder are not part of the export.
func WriteHTML(w io.Writer, t Tree) error {
	bw := bufio.NewWriter(w)

	bw.WriteString("<!DOCTYPE NETSCAPE-Bookmark-file-1>\n")
	bw.WriteString("<META HTTP-EQUIV=\"Content-Type\" CONTENT=\"text/html; charset=UTF-8\">\n")
	bw.WriteString("<TITLE>Bookmarks</TITLE>\n")
	bw.WriteString("<H1>Bookmarks</H1>\n")
	bw.WriteString("<DL><p>\n")

	for _, id := range t.TopLevelFolderIDs(false) {
		if id.Type != model.TypeNormal {
			continue
		}
		folder, err := t.Get(id)
		if err != nil {
			return err
		}
		if err := writeFolder(bw, t, folder, 1); err != nil {
			return err
		}
	}

	bw.WriteString("</DL><p>\n")
	return bw.Flush()
}

// ExportHTML renders the tree to a string.
func ExportHTML(t Tree) (string, error) {
	var b strings.Builder
	if err := WriteHTML(&b, t); err != nil {
		return "", err
	}
	return b.String(), nil
}

func writeFolder(w *bufio.Writer, t Tree, folder model.BookmarkItem, indent int) error {
	prefix := strings.Repeat("    ", indent)

	attrs := fmt.Sprintf(` ADD_DATE="%d"`, folder.DateAdded.Unix())
	if folder.ID.ID == store.BookmarkBarID {
		attrs += ` PERSONAL_TOOLBAR_FOLDER="true"`
	}
	fmt.Fprintf(w, "%s<DT><H3%s>%s</H3>\n", prefix, attrs, html.EscapeString(folder.Title))
	fmt.Fprintf(w, "%s<DL><p>\n", prefix)

	children, err := t.Children(folder.ID)
	if err != nil {
		return err
	}
	inner := strings.Repeat("    ", indent+1)
	for _, c := range children {
		if c.IsFolder {
			if err := writeFolder(w, t, c, indent+1); err != nil {
				return err
			}
			continue
		}
		fmt.Fprintf(w,
			"%s<DT><A HREF=\"%s\" ADD_DATE=\"%d\">%s</A>\n",
			inner,
			html.EscapeString(c.URL),
			c.DateAdded.Unix(),
			html.EscapeString(c.Title),
		)
	}

	fmt.Fprintf(w, "%s</DL><p>\n", prefix)
	return nil
}
