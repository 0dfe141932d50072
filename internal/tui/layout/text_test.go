package layout

import "testing"

func TestVisibleLength(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  int
	}{
		{"title", "GitHub", 6},
		{"styled title", "\x1b[1;38;5;212mGitHub\x1b[0m", 6},
		{"wide runes take two cells", "日本語", 6},
		{"styled and wide", "\x1b[1m日本語\x1b[0m", 6},
		{"empty", "", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := VisibleLength(tt.input); got != tt.want {
				t.Errorf("VisibleLength(%q) = %d, want %d", tt.input, got, tt.want)
			}
		})
	}
}

func TestStripANSI(t *testing.T) {
	got := StripANSI("\x1b[2m‹ \x1b[0m\x1b[1mMobile bookmarks\x1b[0m")
	if got != "‹ Mobile bookmarks" {
		t.Errorf("StripANSI = %q", got)
	}
}

func TestTruncateText(t *testing.T) {
	cfg := DefaultConfig().Text

	tests := []struct {
		name      string
		text      string
		maxWidth  int
		want      string
		truncated bool
	}{
		{"fits", "Go", 10, "Go", false},
		{"exact width", "GitHub", 6, "GitHub", false},
		{"cut with ellipsis", "Mobile bookmarks", 9, "Mobile...", true},
		{"room for ellipsis only", "GitHub", 3, "...", true},
		{"narrower than ellipsis", "GitHub", 2, "..", true},
		{"zero width", "GitHub", 0, "", true},
		{"empty title", "", 10, "", false},
		{"wide runes", "日本語のブログ", 5, "日...", true},
		{"wide runes fit", "日本語", 6, "日本語", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, truncated := TruncateText(tt.text, tt.maxWidth, cfg)
			if got != tt.want || truncated != tt.truncated {
				t.Errorf("TruncateText(%q, %d) = (%q, %v), want (%q, %v)",
					tt.text, tt.maxWidth, got, truncated, tt.want, tt.truncated)
			}
		})
	}
}

func TestFitLine(t *testing.T) {
	cfg := DefaultConfig().Text

	tests := []struct {
		name       string
		left       string
		rightWidth int
		width      int
		want       string
		pad        int
		ok         bool
	}{
		{"both fit", "GitHub", 5, 20, "GitHub", 9, true},
		{"left truncated", "A very long bookmark title", 5, 20, "A very long...", 1, true},
		{"wide left", "日本語のブログ", 5, 12, "日...", 2, true},
		{"right too wide", "GitHub", 19, 20, "GitHub", 0, false},
		{"no right part", "GitHub", 0, 4, "G...", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, pad, ok := FitLine(tt.left, tt.rightWidth, tt.width, cfg)
			if got != tt.want || len(pad) != tt.pad || ok != tt.ok {
				t.Errorf("FitLine(%q, %d, %d) = (%q, %d, %v), want (%q, %d, %v)",
					tt.left, tt.rightWidth, tt.width, got, len(pad), ok, tt.want, tt.pad, tt.ok)
			}
		})
	}
}
