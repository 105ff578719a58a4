package agent

import (
	"testing"
	"time"
)

func TestSpawnMissingExecutableFails(t *testing.T) {
	a := New("pane-1", NewGenericType("a-command-that-certainly-does-not-exist-xyz"), NewVT(24, 80))
	err := a.Spawn(80, 24, "", func() {})
	if err == nil {
		t.Fatalf("expected spawn of a missing executable to fail")
	}
	if a.State() != StateError {
		t.Fatalf("expected StateError after failed spawn, got %v", a.State())
	}
}

func TestSpawnStartsTrueProcess(t *testing.T) {
	a := New("pane-1", NewGenericType("true"), NewVT(24, 80))
	if err := a.Spawn(80, 24, "", func() {}); err != nil {
		t.Fatalf("spawn: %v", err)
	}
	if a.State() != StateRunning {
		t.Fatalf("expected StateRunning immediately after spawn, got %v", a.State())
	}

	deadline := time.Now().Add(2 * time.Second)
	for a.State() == StateRunning && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if a.State() == StateRunning {
		t.Fatalf("expected `true` to have exited by now")
	}
}

func TestKillIsIdempotent(t *testing.T) {
	a := New("pane-1", NewGenericType("sleep"), NewVT(24, 80))
	a.Args = []string{"5"}
	if err := a.Spawn(80, 24, "", func() {}); err != nil {
		t.Fatalf("spawn: %v", err)
	}
	a.Kill()
	a.Kill() // must not panic or block
}

func TestClaudeTypePrependsSessionID(t *testing.T) {
	var ct ClaudeType
	if args := ct.PrependArgs(""); args != nil {
		t.Fatalf("expected no args without a session id, got %v", args)
	}
	args := ct.PrependArgs("abc-123")
	if len(args) != 2 || args[0] != "--session-id" || args[1] != "abc-123" {
		t.Fatalf("unexpected resume args: %v", args)
	}
}

func TestCodexTypeResumeArgv(t *testing.T) {
	var ct CodexType
	args := ct.PrependArgs("sess-1")
	if len(args) != 2 || args[0] != "resume" || args[1] != "sess-1" {
		t.Fatalf("unexpected resume args: %v", args)
	}
}

func TestResolveAgentTypeFallsBackToGeneric(t *testing.T) {
	at := ResolveAgentType("/usr/local/bin/some-other-tool")
	if at.Name() != "generic" {
		t.Fatalf("expected generic fallback, got %s", at.Name())
	}
	if at.Command() != "/usr/local/bin/some-other-tool" {
		t.Fatalf("expected generic type to preserve the full command path")
	}
}

func TestResolveAgentTypeRecognizesKnownAgents(t *testing.T) {
	cases := map[string]string{"claude": "claude", "codex": "codex", "gemini": "gemini"}
	for cmd, wantName := range cases {
		if got := ResolveAgentType(cmd).Name(); got != wantName {
			t.Fatalf("ResolveAgentType(%q).Name() = %q, want %q", cmd, got, wantName)
		}
	}
}
