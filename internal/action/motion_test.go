package action

import (
	"testing"

	"github.com/pashenkov/braid/internal/agent"
	"github.com/pashenkov/braid/internal/input"
	"github.com/pashenkov/braid/internal/register"
)

func seedLines(t *testing.T, a *agent.Agent, lines ...string) {
	t.Helper()
	for i, l := range lines {
		a.VT.Vt.Write([]byte(l))
		if i < len(lines)-1 {
			a.VT.Vt.Write([]byte("\r\n"))
		}
	}
}

func TestHandleMotionYankLineCopiesIntoUnnamedRegister(t *testing.T) {
	f := newFixture(t)
	ag := f.ctx.Agents["agent-1"]
	seedLines(t, ag, "first line", "second line", "third line")

	f.dispatcher.Dispatch(input.Action{
		Type: input.ActionMotion, Motion: "line", Operator: input.OperatorYank, Count: 1,
	})

	entry, ok := f.ctx.Registers.Get("agent-1", 0)
	if !ok {
		t.Fatalf("expected the unnamed register to hold the yanked line")
	}
	if entry.Kind != register.KindLinewise {
		t.Fatalf("expected linewise kind, got %v", entry.Kind)
	}
	if entry.Content != "first line" {
		t.Fatalf("unexpected yank content: %q", entry.Content)
	}
}

func TestHandleMotionDeleteActsLikeYank(t *testing.T) {
	f := newFixture(t)
	ag := f.ctx.Agents["agent-1"]
	seedLines(t, ag, "alpha", "beta")

	f.dispatcher.Dispatch(input.Action{
		Type: input.ActionMotion, Motion: "line", Operator: input.OperatorDelete, Count: 1,
	})

	entry, ok := f.ctx.Registers.Get("agent-1", 0)
	if !ok || entry.Content != "alpha" {
		t.Fatalf("expected delete to capture the line like yank, got %+v ok=%v", entry, ok)
	}
	if lineCount(ag) != 2 {
		t.Fatalf("expected live terminal content untouched by delete, got %d lines", lineCount(ag))
	}
}

func TestHandleMotionWordAdvancesColumnCharwise(t *testing.T) {
	f := newFixture(t)
	ag := f.ctx.Agents["agent-1"]
	seedLines(t, ag, "hello world")

	f.dispatcher.Dispatch(input.Action{Type: input.ActionMotion, Motion: "word", Operator: input.OperatorYank})

	entry, ok := f.ctx.Registers.Get("agent-1", 0)
	if !ok {
		t.Fatalf("expected a charwise yank into the unnamed register")
	}
	if entry.Kind != register.KindCharwise {
		t.Fatalf("expected charwise kind for a word motion, got %v", entry.Kind)
	}
	if entry.Content != "hello " {
		t.Fatalf("unexpected word-yank content: %q", entry.Content)
	}
}

func TestHandleMotionTargetRegisterStoresSeparately(t *testing.T) {
	f := newFixture(t)
	ag := f.ctx.Agents["agent-1"]
	seedLines(t, ag, "one", "two")

	f.dispatcher.Dispatch(input.Action{
		Type: input.ActionMotion, Motion: "line", Operator: input.OperatorYank, Register: 'a',
	})

	entry, ok := f.ctx.Registers.Get("agent-1", 'a')
	if !ok || entry.Content != "one" {
		t.Fatalf("expected register a to hold the yanked line, got %+v ok=%v", entry, ok)
	}
}
