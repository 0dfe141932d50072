package layout

// CalculateListHeight computes the content height of the list pane.
// Returns at least MinHeight.
func CalculateListHeight(terminalHeight int, cfg ListConfig) int {
	return max(terminalHeight-cfg.HeightReduction, cfg.MinHeight)
}

// CalculateListWidth computes the width available for row content.
func CalculateListWidth(terminalWidth int, cfg ListConfig) int {
	return max(terminalWidth-cfg.WidthReduction, 1)
}

// Window returns the half-open range of rows to draw so the row at
// cursor is visible. heights[i] is the number of lines row i takes.
// The window keeps the cursor roughly centered, like the viewport of
// a long folder.
func Window(heights []int, cursor, viewportHeight int) (start, end int) {
	total := len(heights)
	if total == 0 {
		return 0, 0
	}
	cursor = max(0, min(cursor, total-1))

	lines := 0
	for _, h := range heights {
		lines += h
	}
	if lines <= viewportHeight {
		return 0, total
	}

	// walk back from the cursor until half the viewport is used
	start = cursor
	used := heights[cursor]
	for start > 0 && used+heights[start-1] <= viewportHeight/2 {
		start--
		used += heights[start]
	}

	end = cursor + 1
	for end < total && used+heights[end] <= viewportHeight {
		used += heights[end]
		end++
	}
	// near the bottom there is room to show more rows above
	for start > 0 && used+heights[start-1] <= viewportHeight {
		start--
		used += heights[start]
	}
	return start, end
}
