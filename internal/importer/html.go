// Package importer reads Netscape bookmark HTML files, the format every
// browser exports.
package importer

import (
	"io"
	"strconv"
	"strings"
	"time"

	"golang.org/x/net/html"

	"github.com/nikbrunner/bmark/internal/bridge"
	"github.com/nikbrunner/bmark/internal/logging"
	"github.com/nikbrunner/bmark/internal/model"
)

var log = logging.GetLogger("IMPORT")

// Node is a parsed folder or bookmark.
type Node struct {
	Title    string
	URL      string // empty for folders
	AddDate  time.Time
	Children []*Node
}

// IsFolder reports whether the node came from an H3 heading.
func (n *Node) IsFolder() bool {
	return n.URL == ""
}

// ParseHTML parses Netscape bookmark HTML into a forest of nodes.
func ParseHTML(r io.Reader) ([]*Node, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, err
	}

	root := &Node{}
	stack := []*Node{root}
	var pending *Node // folder whose DL has not been seen yet

	var parse func(*html.Node)
	parse = func(n *html.Node) {
		if n.Type == html.ElementNode {
			top := stack[len(stack)-1]
			switch strings.ToLower(n.Data) {
			case "h3":
				name := textContent(n)
				if name == "" {
					return
				}
				folder := &Node{Title: name, AddDate: addDate(n)}
				top.Children = append(top.Children, folder)
				pending = folder
				return

			case "a":
				href := strings.TrimSpace(attr(n, "href"))
				if href == "" {
					return
				}
				title := textContent(n)
				if title == "" {
					title = href
				}
				top.Children = append(top.Children, &Node{Title: title, URL: href, AddDate: addDate(n)})
				return

			case "dl":
				pushed := false
				if pending != nil {
					stack = append(stack, pending)
					pending = nil
					pushed = true
				}
				for c := n.FirstChild; c != nil; c = c.NextSibling {
					parse(c)
				}
				if pushed {
					stack = stack[:len(stack)-1]
				}
				return
			}
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			parse(c)
		}
	}

	parse(doc)
	return root.Children, nil
}

// Stats counts what Import created.
type Stats struct {
	Folders    int
	Bookmarks  int
	Duplicates int
}

// Options tune Import.
type Options struct {
	SkipDuplicates bool // leave out URLs that are already bookmarked
}

// Import adds nodes below parent as one batch of changes.
func Import(b *bridge.Bridge, parent model.BookmarkID, nodes []*Node, opts Options) (Stats, error) {
	var st Stats
	b.BeginExtensiveChanges()
	defer b.EndExtensiveChanges()

	var add func(parent model.BookmarkID, nodes []*Node) error
	add = func(parent model.BookmarkID, nodes []*Node) error {
		for _, n := range nodes {
			if n.IsFolder() {
				id, err := b.AddFolder(parent, -1, n.Title)
				if err != nil {
					return err
				}
				st.Folders++
				if err := add(id, n.Children); err != nil {
					return err
				}
				continue
			}

			if opts.SkipDuplicates && len(b.GetBookmarksByURL(n.URL)) > 0 {
				st.Duplicates++
				continue
			}
			if _, err := b.AddBookmark(parent, -1, n.Title, n.URL); err != nil {
				return err
			}
			st.Bookmarks++
		}
		return nil
	}

	err := add(parent, nodes)
	log.Info("import finished", "folders", st.Folders, "bookmarks", st.Bookmarks, "duplicates", st.Duplicates)
	return st, err
}

func addDate(n *html.Node) time.Time {
	if v := attr(n, "add_date"); v != "" {
		if ts, err := strconv.ParseInt(v, 10, 64); err == nil {
			return time.Unix(ts, 0)
		}
	}
	return time.Time{}
}

// textContent returns the trimmed text below n.
func textContent(n *html.Node) string {
	var text strings.Builder
	var extract func(*html.Node)
	extract = func(n *html.Node) {
		if n.Type == html.TextNode {
			text.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			extract(c)
		}
	}
	extract(n)
	return strings.TrimSpace(text.String())
}

// attr returns an attribute value, matching the key case-insensitively.
func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if strings.EqualFold(a.Key, key) {
			return a.Val
		}
	}
	return ""
}
