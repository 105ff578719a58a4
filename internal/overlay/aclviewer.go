package overlay

import (
	"fmt"
	"strings"

	"github.com/pashenkov/braid/internal/bus"
)

// ACLViewer shows the ordered message log of one conversation, scrollable
// with j/k, rendered through the same prompt formatter an agent would read.
type ACLViewer struct {
	conv   *bus.Conversation
	style  bus.PromptStyle
	offset int
}

// NewACLViewer opens a read-only view over conv, rendered in style.
func NewACLViewer(conv *bus.Conversation, style bus.PromptStyle) *ACLViewer {
	return &ACLViewer{conv: conv, style: style}
}

func (v *ACLViewer) Kind() Kind { return KindACLViewer }

func (v *ACLViewer) HandleKey(b byte) (bool, any) {
	switch b {
	case 0x1b, 'q':
		return true, nil
	case 'j':
		if v.offset < len(v.conv.Messages)-1 {
			v.offset++
		}
	case 'k':
		if v.offset > 0 {
			v.offset--
		}
	}
	return false, nil
}

func (v *ACLViewer) Render(width, height int) []string {
	lines := []string{fmt.Sprintf("conversation %s [%s]", v.conv.ID, v.conv.State)}
	for i := v.offset; i < len(v.conv.Messages) && len(lines) < height; i++ {
		rendered := bus.FormatPrompt(v.conv.Messages[i], v.conv, v.style)
		lines = append(lines, strings.Split(rendered, "\n")...)
		lines = append(lines, "---")
	}
	if len(lines) > height {
		lines = lines[:height]
	}
	return lines
}
