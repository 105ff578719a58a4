// Package activitylog provides a small structured logger for lifecycle
// events (agent spawn/exit, conversation transitions, session save/restore).
// Every component that can log takes a *Logger field that is nil-safe:
// Nop() returns a logger that discards everything, so call sites never
// need a nil check.
package activitylog

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"
)

// Level is the severity of a log line.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "debug"
	case LevelInfo:
		return "info"
	case LevelWarn:
		return "warn"
	case LevelError:
		return "error"
	default:
		return "unknown"
	}
}

// Logger writes leveled, key=value structured lines to an io.Writer.
type Logger struct {
	mu     sync.Mutex
	out    io.Writer
	min    Level
	nop    bool
	fields map[string]string // static fields attached to every line
}

var nopLogger = &Logger{nop: true}

// Nop returns a logger that discards every line. Safe to call concurrently.
func Nop() *Logger { return nopLogger }

// New creates a Logger writing to out at or above min severity.
func New(out io.Writer, min Level) *Logger {
	return &Logger{out: out, min: min}
}

// NewFile opens path for appending and returns a Logger writing to it.
func NewFile(path string, min Level) (*Logger, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open activity log: %w", err)
	}
	return New(f, min), nil
}

// With returns a derived Logger that attaches the given key/value pairs
// (interpreted as alternating key, value, key, value, ...) to every line.
func (l *Logger) With(kv ...string) *Logger {
	if l == nil || l.nop {
		return nopLogger
	}
	merged := make(map[string]string, len(l.fields)+len(kv)/2)
	for k, v := range l.fields {
		merged[k] = v
	}
	for i := 0; i+1 < len(kv); i += 2 {
		merged[kv[i]] = kv[i+1]
	}
	return &Logger{out: l.out, min: l.min, fields: merged}
}

func (l *Logger) log(level Level, msg string, kv []string) {
	if l == nil || l.nop || level < l.min {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.out, "%s level=%s msg=%q", time.Now().Format(time.RFC3339Nano), level, msg)
	for k, v := range l.fields {
		fmt.Fprintf(l.out, " %s=%q", k, v)
	}
	for i := 0; i+1 < len(kv); i += 2 {
		fmt.Fprintf(l.out, " %s=%q", kv[i], kv[i+1])
	}
	fmt.Fprintln(l.out)
}

// Debugf logs at debug level.
func (l *Logger) Debugf(msg string, kv ...string) { l.log(LevelDebug, msg, kv) }

// Infof logs at info level.
func (l *Logger) Infof(msg string, kv ...string) { l.log(LevelInfo, msg, kv) }

// Warnf logs at warn level.
func (l *Logger) Warnf(msg string, kv ...string) { l.log(LevelWarn, msg, kv) }

// Errorf logs at error level.
func (l *Logger) Errorf(msg string, kv ...string) { l.log(LevelError, msg, kv) }

// AgentSpawned logs a successful agent spawn.
func (l *Logger) AgentSpawned(agentID, agentType string, cols, rows int) {
	l.Infof("agent spawned", "agent_id", agentID, "type", agentType,
		"cols", fmt.Sprint(cols), "rows", fmt.Sprint(rows))
}

// AgentExited logs an agent process exit.
func (l *Logger) AgentExited(agentID string, exitCode int, errored bool) {
	l.Infof("agent exited", "agent_id", agentID, "exit_code", fmt.Sprint(exitCode),
		"errored", fmt.Sprint(errored))
}

// StateChange logs a conversation or agent state transition.
func (l *Logger) StateChange(subject, from, to string) {
	l.Infof("state change", "subject", subject, "from", from, "to", to)
}

// SessionSaved logs a successful session save.
func (l *Logger) SessionSaved(id, name string) {
	l.Infof("session saved", "session_id", id, "name", name)
}

// SessionRestored logs a successful session restore.
func (l *Logger) SessionRestored(id, name string) {
	l.Infof("session restored", "session_id", id, "name", name)
}
