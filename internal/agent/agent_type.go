package agent

import "path/filepath"

// AgentType defines how braid launches and labels a specific kind of child
// coding assistant. Each supported agent (Claude, Codex, Gemini, and a
// generic fallback for anything else) implements this interface.
type AgentType interface {
	// Name returns the agent type identifier (e.g. "claude", "generic").
	Name() string

	// Command returns the executable to run.
	Command() string

	// PrependArgs returns extra args to inject before the user's own argv,
	// e.g. a resumed session id.
	PrependArgs(sessionID string) []string

	// ChildEnv returns extra environment variables for the child process.
	ChildEnv(cp *CollectorPorts) map[string]string

	// DisplayCommand returns the command name shown in the status bar.
	DisplayCommand() string
}

// CollectorPorts is reserved for agent types that expose a local endpoint
// to the child (e.g. an OTLP receiver address); empty for types that don't.
type CollectorPorts struct {
	OtelPort int
}

// ClaudeType launches Claude Code, resuming a prior session id via
// --session-id when one is known.
type ClaudeType struct{}

func (ClaudeType) Name() string         { return "claude" }
func (ClaudeType) Command() string      { return "claude" }
func (ClaudeType) DisplayCommand() string { return "claude" }

func (ClaudeType) PrependArgs(sessionID string) []string {
	if sessionID != "" {
		return []string{"--session-id", sessionID}
	}
	return nil
}

func (ClaudeType) ChildEnv(*CollectorPorts) map[string]string { return nil }

// CodexType launches OpenAI Codex CLI, resuming via `resume <id>`.
type CodexType struct{}

func (CodexType) Name() string          { return "codex" }
func (CodexType) Command() string       { return "codex" }
func (CodexType) DisplayCommand() string { return "codex" }

func (CodexType) PrependArgs(sessionID string) []string {
	if sessionID != "" {
		return []string{"resume", sessionID}
	}
	return nil
}

func (CodexType) ChildEnv(*CollectorPorts) map[string]string { return nil }

// GeminiType launches the Gemini CLI. It has no documented resume flag, so
// PrependArgs is always empty; AgentSessionResolver is still consulted at
// snapshot time in case a future version adds one.
type GeminiType struct{}

func (GeminiType) Name() string          { return "gemini" }
func (GeminiType) Command() string       { return "gemini" }
func (GeminiType) DisplayCommand() string { return "gemini" }

func (GeminiType) PrependArgs(string) []string                { return nil }
func (GeminiType) ChildEnv(*CollectorPorts) map[string]string { return nil }

// GenericType is the fallback for any command not otherwise recognized:
// no resume support, no special environment.
type GenericType struct {
	command string
}

func NewGenericType(command string) GenericType { return GenericType{command: command} }

func (t GenericType) Name() string          { return "generic" }
func (t GenericType) Command() string       { return t.command }
func (t GenericType) DisplayCommand() string { return t.command }

func (GenericType) PrependArgs(string) []string                { return nil }
func (GenericType) ChildEnv(*CollectorPorts) map[string]string { return nil }

// ResolveAgentType maps a command name to a known agent type, falling back
// to GenericType for unrecognized commands.
func ResolveAgentType(command string) AgentType {
	switch filepath.Base(command) {
	case "claude":
		return ClaudeType{}
	case "codex":
		return CodexType{}
	case "gemini":
		return GeminiType{}
	default:
		return NewGenericType(command)
	}
}
