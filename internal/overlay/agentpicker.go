package overlay

import (
	"fmt"

	"github.com/pashenkov/braid/internal/config"
)

// AgentChoice is the result returned when an AgentPicker is dismissed with
// a selection: either a preset's command or a freely typed command line.
type AgentChoice struct {
	Command string
	Argv    []string
}

// AgentPicker lets the user choose a child agent type from the configured
// presets, or type an arbitrary command, for :e/layout-split new panes.
type AgentPicker struct {
	presets []config.AgentPreset
	idx     int
	custom  *LineEditor
	typing  bool
}

// NewAgentPicker builds a picker over presets. j/k cycle presets; `/` (or
// Enter when there are no presets) switches to free-form custom-command
// entry.
func NewAgentPicker(presets []config.AgentPreset) *AgentPicker {
	return &AgentPicker{presets: presets, custom: NewLineEditor()}
}

func (p *AgentPicker) Kind() Kind { return KindAgentPicker }

func (p *AgentPicker) HandleKey(b byte) (bool, any) {
	if p.typing {
		return p.handleTyping(b)
	}
	switch b {
	case 0x1b: // Esc
		return true, nil
	case '\r', '\n':
		if len(p.presets) == 0 {
			p.typing = true
			return false, nil
		}
		preset := p.presets[p.idx]
		return true, AgentChoice{Command: preset.Command}
	case 'j':
		p.move(1)
	case 'k':
		p.move(-1)
	case '/':
		p.typing = true
	default:
	}
	return false, nil
}

func (p *AgentPicker) handleTyping(b byte) (bool, any) {
	switch b {
	case 0x1b:
		return true, nil
	case '\r', '\n':
		text := p.custom.Text()
		if text == "" {
			return true, nil
		}
		return true, AgentChoice{Command: text}
	case 0x7f, 0x08:
		p.custom.DeleteBackward()
	case 0x17: // Ctrl-W
		p.custom.DeleteWordBackward()
	case 0x02: // Ctrl-B
		p.custom.CursorLeft()
	case 0x06: // Ctrl-F
		p.custom.CursorRight()
	default:
		if b >= 0x20 && b < 0x7f {
			p.custom.InsertByte(b)
		}
	}
	return false, nil
}

func (p *AgentPicker) move(delta int) {
	if len(p.presets) == 0 {
		return
	}
	p.idx = (p.idx + delta + len(p.presets)) % len(p.presets)
}

func (p *AgentPicker) Render(width, height int) []string {
	if p.typing {
		return []string{"new agent command:", "> " + p.custom.Text()}
	}
	lines := []string{"select an agent type (j/k, Enter; / to type a command):"}
	for i, preset := range p.presets {
		marker := "  "
		if i == p.idx {
			marker = "> "
		}
		lines = append(lines, fmt.Sprintf("%s%s (%s)", marker, preset.Name, preset.Command))
	}
	return lines
}
