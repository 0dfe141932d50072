package layout

import "testing"

func TestCalculateListHeight(t *testing.T) {
	cfg := DefaultConfig().List

	tests := []struct {
		name           string
		terminalHeight int
		want           int
	}{
		{"standard terminal", 24, 17},
		{"tall terminal", 50, 43},
		{"short terminal clamps", 5, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CalculateListHeight(tt.terminalHeight, cfg)
			if got != tt.want {
				t.Errorf("CalculateListHeight(%d) = %d, want %d", tt.terminalHeight, got, tt.want)
			}
		})
	}
}

func TestCalculateListWidth(t *testing.T) {
	cfg := DefaultConfig().List

	if got := CalculateListWidth(80, cfg); got != 72 {
		t.Errorf("CalculateListWidth(80) = %d, want 72", got)
	}
	if got := CalculateListWidth(5, cfg); got != 1 {
		t.Errorf("CalculateListWidth(5) = %d, want 1", got)
	}
}

func ones(n int) []int {
	h := make([]int, n)
	for i := range h {
		h[i] = 1
	}
	return h
}

func TestWindow(t *testing.T) {
	tests := []struct {
		name      string
		heights   []int
		cursor    int
		viewport  int
		wantStart int
		wantEnd   int
	}{
		{"empty", nil, 0, 5, 0, 0},
		{"fits", ones(3), 2, 5, 0, 3},
		{"at start", ones(10), 0, 5, 0, 5},
		{"in middle", ones(10), 5, 5, 4, 9},
		{"at end", ones(10), 9, 5, 5, 10},
		{"cursor out of range", ones(10), 42, 5, 5, 10},
		{"visual rows", []int{1, 2, 2, 2, 2}, 4, 5, 3, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end := Window(tt.heights, tt.cursor, tt.viewport)
			if start != tt.wantStart || end != tt.wantEnd {
				t.Errorf("Window(%v, %d, %d) = (%d, %d), want (%d, %d)",
					tt.heights, tt.cursor, tt.viewport, start, end, tt.wantStart, tt.wantEnd)
			}
		})
	}
}
