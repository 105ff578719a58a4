package overlay

import (
	"github.com/mattn/go-runewidth"

	"github.com/pashenkov/braid/internal/compositor"
)

// Kind identifies which concrete overlay is on top of the stack, so the
// dispatcher knows how to route further input.
type Kind int

const (
	KindAgentPicker Kind = iota
	KindACLComposer
	KindACLViewer
	KindConvPicker
	KindHelp
)

// Dialog is one modal overlay. HandleKey consumes one input byte and
// reports whether the overlay is finished (Esc cancels, Enter/selection
// submits); result is overlay-specific (e.g. a chosen AgentChoice, or nil).
type Dialog interface {
	Kind() Kind
	HandleKey(b byte) (done bool, result any)
	Render(width, height int) []string
}

// Manager owns the stack of open modal overlays. Only the top of the stack
// receives input; closing it reveals the one beneath.
type Manager struct {
	stack []Dialog
}

// New returns an empty overlay manager.
func New() *Manager { return &Manager{} }

// Push opens d on top of the stack.
func (m *Manager) Push(d Dialog) { m.stack = append(m.stack, d) }

// Top returns the active (topmost) overlay, or nil if none is open.
func (m *Manager) Top() Dialog {
	if len(m.stack) == 0 {
		return nil
	}
	return m.stack[len(m.stack)-1]
}

// Active reports whether any overlay is open.
func (m *Manager) Active() bool { return len(m.stack) > 0 }

// Pop closes the topmost overlay.
func (m *Manager) Pop() {
	if len(m.stack) == 0 {
		return
	}
	m.stack = m.stack[:len(m.stack)-1]
}

// HandleKey forwards b to the topmost overlay. If it reports done, it is
// popped and its result returned to the caller (the action dispatcher)
// alongside the overlay Kind it came from.
func (m *Manager) HandleKey(b byte) (kind Kind, done bool, result any) {
	top := m.Top()
	if top == nil {
		return 0, false, nil
	}
	kind = top.Kind()
	done, result = top.HandleKey(b)
	if done {
		m.Pop()
	}
	return kind, done, result
}

// RenderBoxes renders every overlay on the stack (bottom to top) as a
// bordered, centered compositor.OverlayBox sized to screenCols/screenRows.
func (m *Manager) RenderBoxes(screenCols, screenRows int) []compositor.OverlayBox {
	boxes := make([]compositor.OverlayBox, 0, len(m.stack))
	for _, d := range m.stack {
		w, h := dialogSize(screenCols, screenRows)
		content := d.Render(w-2, h-2)
		lines := box(content, w, h)
		x := (screenCols - w) / 2
		y := (screenRows - h) / 2
		boxes = append(boxes, compositor.OverlayBox{X: x, Y: y, Lines: lines})
	}
	return boxes
}

func dialogSize(screenCols, screenRows int) (w, h int) {
	w = screenCols * 2 / 3
	h = screenRows * 2 / 3
	if w < 20 {
		w = screenCols
	}
	if h < 6 {
		h = screenRows
	}
	return w, h
}

// box wraps content lines in a single-line border sized exactly w x h,
// padding or truncating content to fit.
func box(content []string, w, h int) []string {
	lines := make([]string, 0, h)
	lines = append(lines, "┌"+repeat("─", w-2)+"┐")
	for i := 0; i < h-2; i++ {
		var text string
		if i < len(content) {
			text = content[i]
		}
		lines = append(lines, "│"+padTo(text, w-2)+"│")
	}
	lines = append(lines, "└"+repeat("─", w-2)+"┘")
	return lines
}

func repeat(s string, n int) string {
	if n <= 0 {
		return ""
	}
	out := make([]byte, 0, n*len(s))
	for i := 0; i < n; i++ {
		out = append(out, s...)
	}
	return string(out)
}

// padTo truncates or pads s to exactly width terminal columns, accounting
// for double-width runes (CJK agent names, box-drawing glyphs in nested
// content) so the dialog border stays aligned.
func padTo(s string, width int) string {
	if runewidth.StringWidth(s) > width {
		return runewidth.Truncate(s, width, "")
	}
	return s + repeat(" ", width-runewidth.StringWidth(s))
}
