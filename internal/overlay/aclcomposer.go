package overlay

import (
	"fmt"

	"github.com/pashenkov/braid/internal/bus"
)

// ACLMessageDraft is the result returned when an ACLComposer is submitted:
// enough to build a bus.Message and hand it to the message bus.
type ACLMessageDraft struct {
	Performative bus.Performative
	To           string
	Content      string
}

// composerField identifies which line of the composer currently has
// keyboard focus.
type composerField int

const (
	fieldTo composerField = iota
	fieldContent
)

// ACLComposer is the free-form message composer opened by a FIPA-sub
// keybinding: the performative is fixed by which key opened it, target and
// content are edited inline, Tab swaps focus between them.
type ACLComposer struct {
	Performative bus.Performative
	to           *LineEditor
	content      *LineEditor
	field        composerField
}

// NewACLComposer opens a composer pre-seeded with to (e.g. a directional
// target picked via hjkl) for the given performative.
func NewACLComposer(performative bus.Performative, to string) *ACLComposer {
	c := &ACLComposer{Performative: performative, to: NewLineEditor(), content: NewLineEditor()}
	for i := 0; i < len(to); i++ {
		c.to.InsertByte(to[i])
	}
	if to == "" {
		c.field = fieldTo
	} else {
		c.field = fieldContent
	}
	return c
}

func (c *ACLComposer) Kind() Kind { return KindACLComposer }

func (c *ACLComposer) active() *LineEditor {
	if c.field == fieldTo {
		return c.to
	}
	return c.content
}

func (c *ACLComposer) HandleKey(b byte) (bool, any) {
	switch b {
	case 0x1b:
		return true, nil
	case '\t':
		c.field = (c.field + 1) % 2
	case '\r', '\n':
		if c.content.Text() == "" {
			return false, nil
		}
		draft := ACLMessageDraft{Performative: c.Performative, To: c.to.Text(), Content: c.content.Text()}
		c.content.History = append(c.content.History, c.content.Text())
		c.to.History = append(c.to.History, c.to.Text())
		return true, draft
	case 0x7f, 0x08:
		c.active().DeleteBackward()
	case 0x01: // Ctrl-A
		c.active().CursorToStart()
	case 0x05: // Ctrl-E
		c.active().CursorToEnd()
	case 0x0b: // Ctrl-K
		c.active().KillToEnd()
	case 0x15: // Ctrl-U
		c.active().KillToStart()
	case 0x17: // Ctrl-W
		c.active().DeleteWordBackward()
	case 0x02: // Ctrl-B
		c.active().CursorLeft()
	case 0x06: // Ctrl-F
		c.active().CursorRight()
	case 0x10: // Ctrl-P
		c.active().HistoryUp()
	case 0x0e: // Ctrl-N
		c.active().HistoryDown()
	default:
		if b >= 0x20 && b < 0x7f {
			c.active().InsertByte(b)
		}
	}
	return false, nil
}

func (c *ACLComposer) Render(width, height int) []string {
	toMarker, contentMarker := " ", " "
	if c.field == fieldTo {
		toMarker = ">"
	} else {
		contentMarker = ">"
	}
	return []string{
		fmt.Sprintf("%s: %s", c.Performative, "compose message"),
		fmt.Sprintf("%s to: %s", toMarker, c.to.Text()),
		fmt.Sprintf("%s content: %s", contentMarker, c.content.Text()),
		"",
		"Tab switch field · Enter send · Esc cancel",
	}
}
