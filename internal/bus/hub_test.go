package bus

import (
	"path/filepath"
	"testing"
	"time"
)

func newTestHub(t *testing.T) (*Hub, string) {
	t.Helper()
	h := NewHub("sess-1", NewConversationManager(0))
	sockPath := filepath.Join(t.TempDir(), "hub.sock")
	if err := h.Listen(sockPath); err != nil {
		t.Fatalf("Listen: %v", err)
	}
	t.Cleanup(func() { h.Shutdown() })
	return h, sockPath
}

func TestClientRegisterHandshake(t *testing.T) {
	_, sockPath := newTestHub(t)

	c, err := Dial(sockPath, "agent-a")
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	defer c.Close()
}

func TestDirectedMessageDeliveredOnlyToTarget(t *testing.T) {
	_, sockPath := newTestHub(t)

	a, err := Dial(sockPath, "agent-a")
	if err != nil {
		t.Fatalf("dial a: %v", err)
	}
	defer a.Close()
	b, err := Dial(sockPath, "agent-b")
	if err != nil {
		t.Fatalf("dial b: %v", err)
	}
	defer b.Close()

	gotB := make(chan *Message, 1)
	b.OnMessage(func(m *Message) { gotB <- m })
	go b.Listen()

	gotA := make(chan *Message, 1)
	a.OnMessage(func(m *Message) { gotA <- m })
	go a.Listen()

	if err := a.Send(&Message{To: "agent-b", Performative: Inform, Content: "hi"}); err != nil {
		t.Fatalf("send: %v", err)
	}

	select {
	case m := <-gotB:
		if m.Content != "hi" {
			t.Fatalf("unexpected content: %+v", m)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for agent-b to receive the message")
	}

	select {
	case m := <-gotA:
		t.Fatalf("agent-a should not have received a directed message to agent-b, got %+v", m)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestBroadcastExcludesSender(t *testing.T) {
	_, sockPath := newTestHub(t)

	a, _ := Dial(sockPath, "agent-a")
	defer a.Close()
	b, _ := Dial(sockPath, "agent-b")
	defer b.Close()

	gotB := make(chan *Message, 1)
	b.OnMessage(func(m *Message) { gotB <- m })
	go b.Listen()
	gotA := make(chan *Message, 1)
	a.OnMessage(func(m *Message) { gotA <- m })
	go a.Listen()

	a.Send(&Message{To: "*", Performative: Inform, Content: "broadcast"})

	select {
	case <-gotB:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for broadcast")
	}
	select {
	case m := <-gotA:
		t.Fatalf("sender should not receive its own broadcast, got %+v", m)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestUnknownPerformativeGetsNotUnderstoodReply(t *testing.T) {
	_, sockPath := newTestHub(t)

	a, err := Dial(sockPath, "agent-a")
	if err != nil {
		t.Fatalf("dial a: %v", err)
	}
	defer a.Close()

	got := make(chan *Message, 1)
	a.OnMessage(func(m *Message) { got <- m })
	go a.Listen()

	if err := a.Send(&Message{ID: "m1", To: "agent-b", Performative: Performative("made-up")}); err != nil {
		t.Fatalf("send: %v", err)
	}

	select {
	case m := <-got:
		if m.Performative != NotUnderstood {
			t.Fatalf("expected a not-understood reply, got %+v", m)
		}
		if m.ReplyTo != "m1" {
			t.Fatalf("expected the reply to reference the rejected message, got %+v", m)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for the not-understood reply")
	}
}

func TestSendRequestTimesOutWithNilReply(t *testing.T) {
	h, _ := newTestHub(t)

	ch := h.SendRequest(&Message{To: "nobody", Performative: Request}, time.Now().Add(50*time.Millisecond))
	select {
	case m := <-ch:
		if m != nil {
			t.Fatalf("expected a nil reply on timeout, got %+v", m)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for the request timeout itself to fire")
	}
}
