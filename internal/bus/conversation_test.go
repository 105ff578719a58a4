package bus

import (
	"testing"
	"time"
)

func TestContractNetHappyPath(t *testing.T) {
	cm := NewConversationManager(0)
	replyBy := time.Now().Add(500 * time.Millisecond)

	// The dispatcher creates the conversation with its expected bidders up
	// front, since a broadcast CFP's "to" field is just "*".
	conv := cm.GetOrCreate("conv-1", ProtocolContractNet, []string{"worker1", "worker2"}, false)

	cfp := &Message{ID: "m1", ConversationID: "conv-1", Protocol: ProtocolContractNet, Performative: CFP, From: "manager", To: "*", ReplyBy: &replyBy}
	cm.Deliver("conv-1", cfp)

	if conv.State != StatePending {
		t.Fatalf("expected pending after CFP, got %+v", conv)
	}

	cm.Deliver("conv-1", &Message{ID: "m2", ConversationID: "conv-1", Protocol: ProtocolContractNet, Performative: Propose, From: "worker1"})
	if conv.State != StatePending {
		t.Fatalf("expected still pending with one of two responses in, got %v", conv.State)
	}
	cm.Deliver("conv-1", &Message{ID: "m3", ConversationID: "conv-1", Protocol: ProtocolContractNet, Performative: Refuse, From: "worker2"})
	if conv.State != StateProposalsReceived {
		t.Fatalf("expected proposals-received once all bidders responded, got %v", conv.State)
	}

	cm.Deliver("conv-1", &Message{ID: "m4", ConversationID: "conv-1", Protocol: ProtocolContractNet, Performative: AcceptProposal, From: "manager", To: "worker1"})
	if conv.State != StateProposalAccepted {
		t.Fatalf("expected proposal-accepted, got %v", conv.State)
	}

	cm.Deliver("conv-1", &Message{ID: "m5", ConversationID: "conv-1", Protocol: ProtocolContractNet, Performative: Inform, From: "worker1", Content: "done"})
	if conv.State != StateCompleted || conv.Result != "done" {
		t.Fatalf("expected completed with result 'done', got state=%v result=%v", conv.State, conv.Result)
	}
}

func TestContractNetNoProposalsFails(t *testing.T) {
	cm := NewConversationManager(0)
	conv := cm.GetOrCreate("conv-2", ProtocolContractNet, []string{"worker1"}, false)
	cm.Deliver("conv-2", &Message{ID: "m1", ConversationID: "conv-2", Protocol: ProtocolContractNet, Performative: CFP, From: "manager"})

	cm.Deliver("conv-2", &Message{ID: "m2", ConversationID: "conv-2", Protocol: ProtocolContractNet, Performative: Refuse, From: "worker1"})
	if conv.State != StateFailed || conv.Reason != "no-proposals" {
		t.Fatalf("expected failed(no-proposals), got state=%v reason=%v", conv.State, conv.Reason)
	}
}

func TestRequestProtocolRefuseTerminates(t *testing.T) {
	cm := NewConversationManager(0)
	cm.Deliver("conv-3", &Message{ID: "m1", ConversationID: "conv-3", Performative: Request, From: "a", To: "b"})
	cm.Deliver("conv-3", &Message{ID: "m2", ConversationID: "conv-3", Performative: Refuse, From: "b", To: "a"})
	conv, _ := cm.Get("conv-3")
	if conv.State != StateRefused {
		t.Fatalf("expected refused, got %v", conv.State)
	}
}

func TestDeliverDeduplicatesByID(t *testing.T) {
	cm := NewConversationManager(0)
	msg := &Message{ID: "dup", ConversationID: "conv-4", Performative: Inform, From: "a"}
	cm.Deliver("conv-4", msg)
	cm.Deliver("conv-4", msg)

	conv, _ := cm.Get("conv-4")
	if len(conv.Messages) != 1 {
		t.Fatalf("expected duplicate message id to be dropped, got %d messages", len(conv.Messages))
	}
}

func TestReplyByElapsedMarksTimeoutForRequestProtocol(t *testing.T) {
	cm := NewConversationManager(0)
	replyBy := time.Now().Add(30 * time.Millisecond)
	cm.Deliver("conv-5", &Message{ID: "m1", ConversationID: "conv-5", Performative: Request, From: "a", ReplyBy: &replyBy})

	deadline := time.Now().Add(2 * time.Second)
	for {
		conv, _ := cm.Get("conv-5")
		if conv.State == StateFailed {
			if conv.Reason != "timeout" {
				t.Fatalf("expected timeout reason, got %q", conv.Reason)
			}
			return
		}
		if time.Now().After(deadline) {
			t.Fatalf("expected the conversation to time out, stuck at %v", conv.State)
		}
		time.Sleep(2 * time.Millisecond)
	}
}

func TestNotUnderstoodFailsConversation(t *testing.T) {
	cm := NewConversationManager(0)
	cm.Deliver("conv-6", &Message{ID: "m1", ConversationID: "conv-6", Performative: Request, From: "a", To: "b"})
	cm.Deliver("conv-6", &Message{ID: "m2", ConversationID: "conv-6", Performative: NotUnderstood, From: "b", To: "a", ReplyTo: "m1"})

	conv, _ := cm.Get("conv-6")
	if conv.State != StateFailed || conv.Reason != "not-understood" {
		t.Fatalf("expected failed(not-understood), got state=%v reason=%v", conv.State, conv.Reason)
	}
}

func TestUnknownPerformativeFailsConversation(t *testing.T) {
	cm := NewConversationManager(0)
	cm.Deliver("conv-7", &Message{ID: "m1", ConversationID: "conv-7", Performative: Request, From: "a", To: "b"})
	cm.Deliver("conv-7", &Message{ID: "m2", ConversationID: "conv-7", Performative: Performative("made-up"), From: "b", To: "a"})

	conv, _ := cm.Get("conv-7")
	if conv.State != StateFailed || conv.Reason != "unknown-performative" {
		t.Fatalf("expected failed(unknown-performative), got state=%v reason=%v", conv.State, conv.Reason)
	}
}

func TestUserInvolvedConversationIsNeverEvicted(t *testing.T) {
	cm := NewConversationManager(1)
	first := cm.GetOrCreate("conv-user", ProtocolRequest, nil, true)
	first.State = StateCompleted
	first.UpdatedAt = time.Now().Add(-time.Hour)

	cm.GetOrCreate("conv-other", ProtocolRequest, nil, false)

	if _, ok := cm.Get("conv-user"); !ok {
		t.Fatalf("expected the user-involved conversation to survive eviction")
	}
}
