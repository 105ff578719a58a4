package register

import (
	"bytes"
	"testing"
)

func TestYankUpdatesUnnamedAndYankRegisters(t *testing.T) {
	s := New(nil)
	s.Yank("agent-1", "hello", KindCharwise, 0, false)

	unnamedEntry, ok := s.Get("agent-1", 0)
	if !ok || unnamedEntry.Content != "hello" {
		t.Fatalf("expected unnamed register to hold the yanked content, got %+v", unnamedEntry)
	}
	yankEntry, ok := s.Get("agent-1", '0')
	if !ok || yankEntry.Content != "hello" {
		t.Fatalf("expected yank register 0 to hold the yanked content, got %+v", yankEntry)
	}
}

func TestYankLowercaseTargetReplaces(t *testing.T) {
	s := New(nil)
	s.Yank("agent-1", "first", KindCharwise, 'a', false)
	s.Yank("agent-1", "second", KindCharwise, 'a', false)

	entry, ok := s.Get("agent-1", 'a')
	if !ok || entry.Content != "second" {
		t.Fatalf("expected lowercase target to be replaced, got %+v", entry)
	}
}

func TestYankUppercaseTargetAppendsToLowerTwin(t *testing.T) {
	s := New(nil)
	s.Yank("agent-1", "first", KindCharwise, 'a', false)
	s.Yank("agent-1", "second", KindCharwise, 'A', true)

	entry, ok := s.Get("agent-1", 'a')
	if !ok || entry.Content != "firstsecond" {
		t.Fatalf("expected charwise append to concatenate directly, got %+v", entry)
	}
}

func TestYankUppercaseLinewiseAppendJoinsWithNewline(t *testing.T) {
	s := New(nil)
	s.Yank("agent-1", "first", KindLinewise, 'a', false)
	s.Yank("agent-1", "second", KindLinewise, 'A', true)

	entry, ok := s.Get("agent-1", 'a')
	if !ok || entry.Content != "first\nsecond" {
		t.Fatalf("expected linewise append to join with a newline, got %+v", entry)
	}
}

func TestYankToClipboardRegisterWritesOSC52(t *testing.T) {
	var buf bytes.Buffer
	s := New(&buf)
	s.Yank("agent-1", "clip me", KindCharwise, '+', false)

	if buf.Len() == 0 {
		t.Fatalf("expected an OSC 52 sequence to be written to the clipboard writer")
	}
	entry, ok := s.Get("agent-1", '+')
	if !ok || entry.Content != "clip me" {
		t.Fatalf("expected the + register to also hold the content, got %+v", entry)
	}
}

func TestRegistersAreScopedPerAgent(t *testing.T) {
	s := New(nil)
	s.Yank("agent-1", "one", KindCharwise, 0, false)
	s.Yank("agent-2", "two", KindCharwise, 0, false)

	e1, _ := s.Get("agent-1", 0)
	e2, _ := s.Get("agent-2", 0)
	if e1.Content != "one" || e2.Content != "two" {
		t.Fatalf("expected per-agent isolation, got %+v / %+v", e1, e2)
	}
}

func TestForgetDropsAgentRegisters(t *testing.T) {
	s := New(nil)
	s.Yank("agent-1", "one", KindCharwise, 0, false)
	s.Forget("agent-1")

	if _, ok := s.Get("agent-1", 0); ok {
		t.Fatalf("expected registers to be gone after Forget")
	}
}
