package compositor

import (
	"fmt"
	"strings"

	"github.com/pashenkov/braid/internal/layout"
)

const (
	seqHideCursor  = "\x1b[?25l"
	seqShowCursor  = "\x1b[?25h"
	seqSyncBegin   = "\x1b[?2026h"
	seqSyncEnd     = "\x1b[?2026l"
	seqClearLine   = "\x1b[2K"
	borderVertical = "│"
)

// PaneLines returns the already-highlighted styled lines to draw for
// paneId, one per visible row, top to bottom. Implementations source these
// from the focused agent's VT (live) or from scrollback (scroll mode);
// during a cached resize phase the compositor substitutes its own
// frame-cache snapshot instead of calling this at all.
type PaneLines func(paneID string) []string

// OverlayBox is one modal overlay's already-rendered content, positioned in
// absolute screen coordinates (0-indexed, top-left origin) by the overlay
// manager. The compositor paints it verbatim atop the pane grid.
type OverlayBox struct {
	X, Y  int
	Lines []string
}

// Draw assembles one synchronized frame: every pane's content positioned
// with absolute cursor addressing, vertical borders between horizontally
// adjacent siblings, any open overlays, and the given status bar on the
// final row. The whole chunk is wrapped in DEC 2026 synchronized-update
// markers so a slow terminal never paints a half-updated frame.
func (c *Compositor) Draw(lines PaneLines, overlays []OverlayBox, statusBarRow int, statusBar string) []byte {
	c.mu.Lock()
	cached := c.resizePhase == ResizeCached
	panes := c.Tree.AllPanes()
	frameCache := make(map[string][]string, len(c.frameCache))
	for k, v := range c.frameCache {
		frameCache[k] = v
	}
	c.mu.Unlock()

	var b strings.Builder
	b.WriteString(seqSyncBegin)
	b.WriteString(seqHideCursor)

	for _, p := range panes {
		var rows []string
		if cached {
			rows = frameCache[p.PaneID]
		} else {
			rows = lines(p.PaneID)
		}
		for i := 0; i < p.Bounds.Height; i++ {
			fmt.Fprintf(&b, "\x1b[%d;%dH%s", p.Bounds.Y+i+1, p.Bounds.X+1, seqClearLine)
			if i < len(rows) {
				b.WriteString(clipToWidth(rows[i], p.Bounds.Width))
			}
		}
	}

	drawBorders(&b, panes)

	for _, ov := range overlays {
		for i, line := range ov.Lines {
			fmt.Fprintf(&b, "\x1b[%d;%dH%s", ov.Y+i+1, ov.X+1, line)
		}
	}

	if statusBar != "" {
		fmt.Fprintf(&b, "\x1b[%d;1H%s%s", statusBarRow, seqClearLine, statusBar)
	}

	b.WriteString(seqSyncEnd)
	return []byte(b.String())
}

// clipToWidth truncates a styled line to at most width printable columns,
// counting only literal characters (SGR escapes pass through uncounted).
// This is an ASCII-width approximation: each byte outside an escape
// sequence counts as one column.
func clipToWidth(line string, width int) string {
	if width <= 0 {
		return ""
	}
	var b strings.Builder
	count := 0
	i := 0
	for i < len(line) && count < width {
		if line[i] == 0x1b {
			end := i + 1
			for end < len(line) && line[end] != 'm' {
				end++
			}
			if end < len(line) {
				end++
			}
			b.WriteString(line[i:end])
			i = end
			continue
		}
		b.WriteByte(line[i])
		count++
		i++
	}
	return b.String()
}

// drawBorders paints a vertical separator one cell to the left of every
// pane whose rect doesn't start at column 0 — the single shared border
// cell the largest-remainder bounds computation reserves between
// horizontally adjacent siblings.
func drawBorders(b *strings.Builder, panes []layout.PaneInfo) {
	for _, p := range panes {
		if p.Bounds.X == 0 {
			continue
		}
		col := p.Bounds.X // 1-indexed border column sits at the 0-indexed gap
		for i := 0; i < p.Bounds.Height; i++ {
			fmt.Fprintf(b, "\x1b[%d;%dH%s", p.Bounds.Y+i+1, col, borderVertical)
		}
	}
}
