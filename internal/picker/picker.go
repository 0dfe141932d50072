// Package picker is the small selector shown by "bmark open" when a
// query matches more than one bookmark.
package picker

import (
	"fmt"
	"slices"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nikbrunner/bmark/internal/model"
	"github.com/nikbrunner/bmark/internal/search"
)

var (
	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("212")).
			Bold(true)

	normalStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252"))

	matchStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")).
			Underline(true)

	urlStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("244")).
			Italic(true)

	headerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("99")).
			Bold(true).
			MarginBottom(1)

	footerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("244"))
)

// linesPerResult is the height of one result: title and URL.
const linesPerResult = 2

// Resolve picks the bookmark to open without asking when the choice is
// unambiguous. ok is false when the user has to pick.
func Resolve(results []search.Result) (item model.BookmarkItem, ok bool) {
	if len(results) == 1 {
		return results[0].Item, true
	}
	return model.BookmarkItem{}, false
}

// Picker is a tea.Model listing search results.
type Picker struct {
	results   []search.Result
	query     string
	cursor    int
	offset    int
	selected  bool
	cancelled bool
	width     int
	height    int
}

// New creates a new Picker with the given search results.
func New(results []search.Result, query string) Picker {
	return Picker{
		results: results,
		query:   query,
		width:   80,
		height:  24,
	}
}

// Init implements tea.Model.
func (p Picker) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (p Picker) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		p.width = msg.Width
		p.height = msg.Height
		p.clamp()
		return p, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc", "ctrl+c", "q":
			p.cancelled = true
			return p, tea.Quit
		case "enter":
			if len(p.results) == 0 {
				p.cancelled = true
			} else {
				p.selected = true
			}
			return p, tea.Quit
		case "down", "j", "ctrl+n":
			p.move(1)
		case "up", "k", "ctrl+p":
			p.move(-1)
		case "g", "home":
			p.move(-len(p.results))
		case "G", "end":
			p.move(len(p.results))
		}
	}
	return p, nil
}

func (p *Picker) move(delta int) {
	p.cursor = max(0, min(len(p.results)-1, p.cursor+delta))
	p.clamp()
}

// visible returns how many results fit between header and footer.
func (p Picker) visible() int {
	return max(1, (p.height-4)/linesPerResult)
}

// clamp keeps the cursor inside the scroll window.
func (p *Picker) clamp() {
	n := p.visible()
	if p.cursor < p.offset {
		p.offset = p.cursor
	}
	if p.cursor >= p.offset+n {
		p.offset = p.cursor - n + 1
	}
}

// View implements tea.Model.
func (p Picker) View() string {
	var b strings.Builder

	b.WriteString(headerStyle.Render(fmt.Sprintf("Search: %s (%d results)", p.query, len(p.results))))
	b.WriteString("\n\n")

	end := min(len(p.results), p.offset+p.visible())
	for i := p.offset; i < end; i++ {
		r := p.results[i]
		cursor := "  "
		style := normalStyle
		if i == p.cursor {
			cursor = "> "
			style = selectedStyle
		}
		fmt.Fprintf(&b, "%s%s\n", cursor, highlight(r.Item.Title, r.MatchedIndexes, style))
		fmt.Fprintf(&b, "   %s\n", urlStyle.Render(r.Item.DisplayURL()))
	}

	b.WriteString("\n")
	b.WriteString(footerStyle.Render("j/k: move  Enter: open  q/Esc: cancel"))
	return b.String()
}

// highlight renders the matched runes of title with matchStyle.
func highlight(title string, matched []int, base lipgloss.Style) string {
	if len(matched) == 0 {
		return base.Render(title)
	}
	var b strings.Builder
	for i, r := range []rune(title) {
		if slices.Contains(matched, i) {
			b.WriteString(matchStyle.Render(string(r)))
		} else {
			b.WriteString(base.Render(string(r)))
		}
	}
	return b.String()
}

// Selected returns the chosen bookmark; ok is false when cancelled.
func (p Picker) Selected() (model.BookmarkItem, bool) {
	if p.cancelled || !p.selected || p.cursor >= len(p.results) {
		return model.BookmarkItem{}, false
	}
	return p.results[p.cursor].Item, true
}

// Cancelled returns true if the user cancelled the selection.
func (p Picker) Cancelled() bool {
	return p.cancelled
}
