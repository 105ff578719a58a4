package overlay

import (
	"fmt"
	"sort"
	"strings"

	"github.com/pashenkov/braid/internal/bus"
)

// ConvPicker lists open FIPA conversations (newest first) and lets the
// operator cycle with j/k and select one with Enter, the same
// cycle-then-commit idiom as AgentPicker.
type ConvPicker struct {
	convs []bus.Snapshot
	idx   int
}

// NewConvPicker sorts snaps by UpdatedAt descending and returns a picker
// over them.
func NewConvPicker(snaps []bus.Snapshot) *ConvPicker {
	sorted := append([]bus.Snapshot(nil), snaps...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].UpdatedAt.After(sorted[j].UpdatedAt) })
	return &ConvPicker{convs: sorted}
}

func (p *ConvPicker) Kind() Kind { return KindConvPicker }

func (p *ConvPicker) HandleKey(b byte) (bool, any) {
	switch b {
	case 0x1b: // Esc
		return true, nil
	case '\r', '\n':
		if len(p.convs) == 0 {
			return true, nil
		}
		return true, p.convs[p.idx].ID
	case 'j':
		p.move(1)
	case 'k':
		p.move(-1)
	}
	return false, nil
}

func (p *ConvPicker) move(delta int) {
	if len(p.convs) == 0 {
		return
	}
	p.idx = ((p.idx+delta)%len(p.convs) + len(p.convs)) % len(p.convs)
}

func (p *ConvPicker) Render(width, height int) []string {
	if len(p.convs) == 0 {
		return []string{"no open conversations"}
	}
	lines := make([]string, 0, len(p.convs)+1)
	lines = append(lines, "conversations (j/k, Enter to view, Esc to cancel)", "")
	for i, c := range p.convs {
		marker := " "
		if i == p.idx {
			marker = ">"
		}
		participants := strings.Join(c.Participants, ",")
		lines = append(lines, fmt.Sprintf("%s %s  %s  %s  %s  %d msgs",
			marker, c.ID[:minInt(8, len(c.ID))], c.Protocol, c.State, participants, len(c.Messages)))
	}
	if len(lines) > height {
		lines = lines[:height]
	}
	return lines
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
