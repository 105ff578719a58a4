package sessionstore

import (
	"testing"
	"time"

	"github.com/pashenkov/braid/internal/agent"
)

type fakeResolver struct {
	idFor map[string]string
}

func (f *fakeResolver) ResolveLatestSessionID(agentType, cwd string, spawnedAt time.Time, excluded map[string]bool) (string, bool) {
	id, ok := f.idFor[agentType]
	if !ok || excluded[id] {
		return "", false
	}
	return id, true
}

func TestCaptureResumeIDsFillsInPerAgent(t *testing.T) {
	sess := newTestSession("resumable")
	resolver := &fakeResolver{idFor: map[string]string{"claude": "sess-claude", "codex": "sess-codex"}}

	CaptureResumeIDs(sess, resolver, "/work")

	if sess.Agents["agent-1"].ResumedSessionID != "sess-claude" {
		t.Fatalf("expected claude resume id, got %+v", sess.Agents["agent-1"])
	}
	if sess.Agents["agent-2"].ResumedSessionID != "sess-codex" {
		t.Fatalf("expected codex resume id, got %+v", sess.Agents["agent-2"])
	}
}

func TestResumeArgvPrependsTypeFlag(t *testing.T) {
	desc := AgentDescriptor{Type: "claude", ResumedSessionID: "abc123", Argv: []string{"--flag"}}
	argv := ResumeArgv(desc, agent.ClaudeType{})
	want := []string{"--session-id", "abc123", "--flag"}
	if len(argv) != len(want) {
		t.Fatalf("argv mismatch: got %v want %v", argv, want)
	}
	for i := range want {
		if argv[i] != want[i] {
			t.Fatalf("argv mismatch at %d: got %v want %v", i, argv, want)
		}
	}
}

func TestResumeArgvWithNoResumeIDJustAppendsArgv(t *testing.T) {
	desc := AgentDescriptor{Type: "gemini", Argv: []string{"--foo"}}
	argv := ResumeArgv(desc, agent.GeminiType{})
	if len(argv) != 1 || argv[0] != "--foo" {
		t.Fatalf("expected passthrough argv, got %v", argv)
	}
}
