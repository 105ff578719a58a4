package action

import (
	"strings"

	"github.com/pashenkov/braid/internal/agent"
	"github.com/pashenkov/braid/internal/input"
	"github.com/pashenkov/braid/internal/register"
)

// paneCursor is the dispatcher's own read cursor into a pane's VT content,
// used only to give y/d operators and plain motions something to operate
// on — it never affects what the child agent sees or does.
type paneCursor struct {
	row, col int
}

func (d *Dispatcher) cursorFor(agentID string, a *agent.Agent) *paneCursor {
	c, ok := d.cursors[agentID]
	if !ok {
		row, _ := a.VT.CursorReport()
		c = &paneCursor{row: row}
		d.cursors[agentID] = c
	}
	return c
}

func lineCount(a *agent.Agent) int {
	a.VT.Mu.Lock()
	defer a.VT.Mu.Unlock()
	return len(a.VT.Vt.Content)
}

func plainLine(a *agent.Agent, row int) string {
	a.VT.Mu.Lock()
	defer a.VT.Mu.Unlock()
	return agent.PlainLine(a.VT.Vt, row)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// isLinewiseMotion reports whether motion selects whole lines (as opposed
// to a character range within the current line).
func isLinewiseMotion(motion string) bool {
	switch motion {
	case "line", "top", "bottom", "half-page-down", "half-page-up", "page-down", "page-up", "visual-selection":
		return true
	default:
		return false
	}
}

func wordBoundaryForward(line string, col int) int {
	runes := []rune(line)
	i := clamp(col, 0, len(runes))
	for i < len(runes) && !isSpace(runes[i]) {
		i++
	}
	for i < len(runes) && isSpace(runes[i]) {
		i++
	}
	return i
}

func wordBoundaryBackward(line string, col int) int {
	runes := []rune(line)
	i := clamp(col, 0, len(runes))
	for i > 0 && isSpace(runes[i-1]) {
		i--
	}
	for i > 0 && !isSpace(runes[i-1]) {
		i--
	}
	return i
}

func isSpace(r rune) bool { return r == ' ' || r == '\t' }

// handleMotion moves the focused pane's read cursor and, if a.Operator is
// set, copies the text the motion swept over into a.Register. A terminal
// pane's content is produced by a live child process and cannot actually
// be deleted, so the delete operator performs the same copy as yank — it
// exists so `dd`/`dw` do something useful (capture-and-move-on) rather
// than nothing, mirroring how tmux's copy-mode binds both keys to copy.
func (d *Dispatcher) handleMotion(a input.Action) {
	ag := d.focusedAgent()
	if ag == nil {
		return
	}
	cur := d.cursorFor(ag.ID, ag)
	startRow, startCol := cur.row, cur.col
	count := a.Count
	if count <= 0 {
		count = 1
	}
	total := lineCount(ag)
	if total == 0 {
		return
	}

	line := plainLine(ag, clamp(cur.row, 0, total-1))

	switch a.Motion {
	case "left":
		cur.col = clamp(cur.col-count, 0, len(line))
	case "right":
		cur.col = clamp(cur.col+count, 0, len(line))
	case "up":
		cur.row = clamp(cur.row-count, 0, total-1)
	case "down":
		cur.row = clamp(cur.row+count, 0, total-1)
	case "bol", "bol-nonblank":
		cur.col = 0
		if a.Motion == "bol-nonblank" {
			for cur.col < len(line) && isSpace(rune(line[cur.col])) {
				cur.col++
			}
		}
	case "eol":
		cur.col = len(line)
	case "word", "WORD":
		for i := 0; i < count; i++ {
			cur.col = wordBoundaryForward(line, cur.col)
		}
	case "word-back", "WORD-back":
		for i := 0; i < count; i++ {
			cur.col = wordBoundaryBackward(line, cur.col)
		}
	case "word-end", "WORD-end":
		for i := 0; i < count; i++ {
			cur.col = clamp(wordBoundaryForward(line, cur.col)-1, 0, len(line))
		}
	case "top":
		cur.row, cur.col = 0, 0
	case "bottom":
		cur.row, cur.col = total-1, 0
	case "half-page-down":
		cur.row = clamp(cur.row+ag.VT.Rows/2, 0, total-1)
	case "half-page-up":
		cur.row = clamp(cur.row-ag.VT.Rows/2, 0, total-1)
	case "page-down":
		cur.row = clamp(cur.row+ag.VT.Rows, 0, total-1)
	case "page-up":
		cur.row = clamp(cur.row-ag.VT.Rows, 0, total-1)
	case "line", "visual-selection":
		// Row stays put; the whole current line (or, for visual-selection,
		// the anchor-to-cursor range collapsed to the current line — real
		// multi-line visual tracking lives in the router's future work) is
		// the target.
	case "search-next":
		d.searchStep(d.search.forward)
	case "search-prev":
		d.searchStep(!d.search.forward)
	}

	if a.Operator == input.OperatorNone {
		return
	}

	content, kind := d.collectMotionRange(ag, a.Motion, startRow, startCol, cur.row, cur.col)
	if content == "" {
		return
	}
	target := a.Register
	upper := target >= 'A' && target <= 'Z'
	d.ctx.Registers.Yank(ag.ID, content, kind, target, upper)

	// A vim delete leaves the cursor at the start of the deleted range;
	// since nothing is actually removed from the child's output, do the
	// same: the row returns to where the motion began, and the column to
	// the leftmost end of the swept range.
	endCol := cur.col
	cur.row, cur.col = startRow, startCol
	if a.Motion != "line" {
		cur.col = minInt(startCol, endCol)
	}
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func (d *Dispatcher) collectMotionRange(ag *agent.Agent, motion string, startRow, startCol, endRow, endCol int) (string, register.Kind) {
	if isLinewiseMotion(motion) {
		lo, hi := startRow, endRow
		if lo > hi {
			lo, hi = hi, lo
		}
		var lines []string
		for r := lo; r <= hi; r++ {
			lines = append(lines, plainLine(ag, r))
		}
		return strings.Join(lines, "\n"), register.KindLinewise
	}

	if startRow != endRow {
		// Motion crossed a line boundary (e.g. word-wrap at EOL): fall back
		// to whole-line semantics rather than splicing across rows.
		return d.collectMotionRange(ag, "line", startRow, startCol, endRow, endCol)
	}

	line := plainLine(ag, startRow)
	lo, hi := startCol, endCol
	if lo > hi {
		lo, hi = hi, lo
	}
	lo = clamp(lo, 0, len(line))
	hi = clamp(hi, 0, len(line))
	return line[lo:hi], register.KindCharwise
}

// handlePaste forwards the named register's content to the focused
// agent's stdin — pasting in this multiplexer means typing the captured
// text into whichever program currently owns the pane.
func (d *Dispatcher) handlePaste(a input.Action) {
	ag := d.focusedAgent()
	if ag == nil {
		return
	}
	entry, ok := d.ctx.Registers.Get(ag.ID, a.Register)
	if !ok {
		return
	}
	content := entry.Content
	if entry.Kind == register.KindLinewise && !strings.HasSuffix(content, "\n") {
		content += "\n"
	}
	d.writeToFocused([]byte(content))
}
