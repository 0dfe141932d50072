package layout

import (
	"strings"

	"github.com/charmbracelet/x/ansi"
)

// StripANSI removes escape sequences from s.
func StripANSI(s string) string {
	return ansi.Strip(s)
}

// VisibleLength returns the number of terminal cells s occupies. Wide
// runes count twice and escape sequences not at all.
func VisibleLength(s string) int {
	return ansi.StringWidth(s)
}

// TruncateText shortens text to maxWidth cells, ending it with the
// configured ellipsis. The bool reports whether anything was cut.
func TruncateText(text string, maxWidth int, cfg TextConfig) (string, bool) {
	if maxWidth <= 0 {
		return "", text != ""
	}
	if ansi.StringWidth(text) <= maxWidth {
		return text, false
	}

	if maxWidth <= ansi.StringWidth(cfg.Ellipsis) {
		return ansi.Truncate(cfg.Ellipsis, maxWidth, ""), true
	}
	return ansi.Truncate(text, maxWidth, cfg.Ellipsis), true
}

// FitLine truncates left so it fits on a line of width next to a right
// part rightWidth cells wide, and returns the padding between them.
// ok is false when right does not fit and should be dropped; left then
// takes the whole line.
func FitLine(left string, rightWidth, width int, cfg TextConfig) (fitted string, pad string, ok bool) {
	if rightWidth == 0 || rightWidth+2 > width {
		fitted, _ = TruncateText(left, width, cfg)
		return fitted, "", false
	}
	fitted, _ = TruncateText(left, width-rightWidth-1, cfg)
	gap := width - ansi.StringWidth(fitted) - rightWidth
	return fitted, strings.Repeat(" ", gap), true
}
