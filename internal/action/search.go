package action

import "strings"

// searchState is the dispatcher-global last pattern, consulted by n/N
// (ActionMotion "search-next"/"search-prev") after a `/`/`?` submission.
// Scoped to the process rather than per-pane, matching how a single
// search prompt is shared across panes in the teacher's own overlay.
type searchState struct {
	pattern string
	forward bool
}

func (d *Dispatcher) handleSearchSubmit(pattern string, forward bool) {
	d.search = searchState{pattern: pattern, forward: forward}
	if pattern == "" {
		return
	}
	d.searchStep(forward)
}

// searchStep moves the focused pane's cursor to the next (or previous) row
// containing the last submitted pattern, wrapping around the buffer.
func (d *Dispatcher) searchStep(forward bool) {
	ag := d.focusedAgent()
	if ag == nil || d.search.pattern == "" {
		return
	}
	cur := d.cursorFor(ag.ID, ag)
	total := lineCount(ag)
	if total == 0 {
		return
	}
	step := 1
	if !forward {
		step = -1
	}
	for i := 1; i <= total; i++ {
		row := ((cur.row+step*i)%total + total) % total
		if strings.Contains(plainLine(ag, row), d.search.pattern) {
			cur.row = row
			cur.col = 0
			return
		}
	}
}
