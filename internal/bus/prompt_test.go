package bus

import (
	"strings"
	"testing"
)

func TestFormatPromptMinimalIsTerse(t *testing.T) {
	msg := &Message{Performative: Inform, From: "worker1", Content: "build passed"}
	out := FormatPrompt(msg, nil, StyleMinimal)
	if !strings.Contains(out, "worker1") || !strings.Contains(out, "build passed") {
		t.Fatalf("expected sender and content in minimal output, got %q", out)
	}
}

func TestFormatPromptStructuredIncludesConversationContext(t *testing.T) {
	msg := &Message{Performative: CFP, From: "manager", To: "*", Protocol: ProtocolContractNet, ConversationID: "conv-1"}
	conv := &Conversation{State: StatePending, Messages: []*Message{msg}}
	out := FormatPrompt(msg, conv, StyleStructured)
	if !strings.Contains(out, "conversation-state: pending") {
		t.Fatalf("expected conversation state in structured output, got %q", out)
	}
	if !strings.Contains(out, "expected-response:") {
		t.Fatalf("expected response guidance for a CFP, got %q", out)
	}
}

func TestFormatPromptNaturalMentionsProtocol(t *testing.T) {
	msg := &Message{Performative: Request, From: "a"}
	conv := &Conversation{State: StateAgreed, Protocol: ProtocolRequest}
	out := FormatPrompt(msg, conv, StyleNatural)
	if !strings.Contains(out, string(ProtocolRequest)) {
		t.Fatalf("expected the protocol name in natural output, got %q", out)
	}
}
