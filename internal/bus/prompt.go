package bus

import (
	"fmt"
	"strings"
)

// PromptStyle selects how FormatPrompt renders a message for injection into
// an agent's input stream.
type PromptStyle string

const (
	StyleStructured PromptStyle = "structured"
	StyleNatural    PromptStyle = "natural"
	StyleMinimal    PromptStyle = "minimal"
)

// expectedResponses maps a performative to the performatives a reply would
// plausibly use, for the response-guidance line.
var expectedResponses = map[Performative][]Performative{
	Request:  {Agree, Refuse},
	CFP:      {Propose, Refuse},
	QueryIf:  {Inform, Refuse},
	QueryRef: {Inform, Refuse},
	Subscribe: {Agree, Refuse},
}

// FormatPrompt renders msg as LLM-readable text, optionally including its
// conversation's protocol context.
func FormatPrompt(msg *Message, conv *Conversation, style PromptStyle) string {
	switch style {
	case StyleMinimal:
		return formatMinimal(msg)
	case StyleNatural:
		return formatNatural(msg, conv)
	default:
		return formatStructured(msg, conv)
	}
}

func formatMinimal(msg *Message) string {
	return fmt.Sprintf("[%s from %s] %v", msg.Performative, msg.From, msg.Content)
}

func formatNatural(msg *Message, conv *Conversation) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s says (%s): %v", msg.From, msg.Performative, msg.Content)
	if conv != nil {
		fmt.Fprintf(&b, "\nThis is part of a %s conversation, currently %s.", conv.Protocol, conv.State)
	}
	if guidance := responseGuidance(msg.Performative); guidance != "" {
		b.WriteString("\n")
		b.WriteString(guidance)
	}
	return b.String()
}

func formatStructured(msg *Message, conv *Conversation) string {
	var b strings.Builder
	fmt.Fprintf(&b, "performative: %s\n", msg.Performative)
	fmt.Fprintf(&b, "from: %s\n", msg.From)
	fmt.Fprintf(&b, "to: %s\n", msg.To)
	if msg.Protocol != "" {
		fmt.Fprintf(&b, "protocol: %s\n", msg.Protocol)
	}
	if msg.ConversationID != "" {
		fmt.Fprintf(&b, "conversation-id: %s\n", msg.ConversationID)
	}
	fmt.Fprintf(&b, "content: %v\n", msg.Content)
	if conv != nil {
		fmt.Fprintf(&b, "conversation-state: %s\n", conv.State)
		fmt.Fprintf(&b, "conversation-messages: %d\n", len(conv.Messages))
	}
	if guidance := responseGuidance(msg.Performative); guidance != "" {
		fmt.Fprintf(&b, "expected-response: %s\n", guidance)
	}
	return b.String()
}

func responseGuidance(p Performative) string {
	expected, ok := expectedResponses[p]
	if !ok {
		return ""
	}
	names := make([]string, len(expected))
	for i, e := range expected {
		names[i] = string(e)
	}
	return "Reply with one of: " + strings.Join(names, ", ")
}
