package agent

import (
	"fmt"
	"os/exec"
	"sync"
	"syscall"
	"time"

	"github.com/pashenkov/braid/internal/activitylog"
)

// State is the coarse lifecycle status of an Agent, derived from process
// spawn and exit, per spec.md §8 invariant 3.
type State int

const (
	StateRunning State = iota
	StateStopped
	StateError
)

func (s State) String() string {
	switch s {
	case StateRunning:
		return "running"
	case StateStopped:
		return "stopped"
	case StateError:
		return "error"
	default:
		return "unknown"
	}
}

// IdleThreshold is how long a pane's VT must go without output before
// IsIdle reports it idle rather than active.
var IdleThreshold = 2 * time.Second

// Agent owns one child process and its VT, and derives the state an
// Agent/Pane is shown in.
type Agent struct {
	ID      string
	Type    AgentType
	VT      *VT
	Cmd     string
	Args    []string
	SpawnAt time.Time

	activityLog *activitylog.Logger

	mu             sync.Mutex
	state          State
	stateChangedAt time.Time
	stateCh        chan struct{}
	exitCode       int

	stopCh   chan struct{}
	stopOnce sync.Once
}

// New creates an Agent around an already-constructed VT. Call Spawn to
// actually start the child process.
func New(id string, at AgentType, vt *VT) *Agent {
	return &Agent{
		ID:             id,
		Type:           at,
		VT:             vt,
		state:          StateStopped,
		stateChangedAt: time.Now(),
		stateCh:        make(chan struct{}),
		stopCh:         make(chan struct{}),
	}
}

// SetActivityLog installs the structured logger used for lifecycle events.
// Must be called before Spawn to capture the spawn event itself.
func (a *Agent) SetActivityLog(l *activitylog.Logger) {
	a.activityLog = l
}

func (a *Agent) log() *activitylog.Logger {
	if a.activityLog != nil {
		return a.activityLog
	}
	return activitylog.Nop()
}

// Spawn starts the child process in the agent's VT. Fails with a wrapped
// error (surfaced by callers as the SpawnFailed error kind) if the
// executable is missing or cannot be started.
func (a *Agent) Spawn(cols, rows int, sessionID string, onData func()) error {
	command := a.Type.Command()
	args := a.Type.PrependArgs(sessionID)
	args = append(args, a.Args...)
	env := a.Type.ChildEnv(&CollectorPorts{})

	a.SpawnAt = time.Now()
	if err := a.VT.StartPTY(command, args, rows, cols, env); err != nil {
		a.setState(StateError)
		return fmt.Errorf("spawn agent %s: %w", a.ID, err)
	}
	a.Cmd = command

	go a.VT.PipeOutput(onData)
	go a.watchExit()

	a.setState(StateRunning)
	a.log().AgentSpawned(a.ID, a.Type.Name(), cols, rows)
	return nil
}

// watchExit blocks on the child process and transitions the agent's state
// once it terminates.
func (a *Agent) watchExit() {
	if a.VT.Cmd == nil {
		return
	}
	err := a.VT.Cmd.Wait()
	code := 0
	final := StateStopped
	if err != nil {
		final = StateError
		if exitErr, ok := err.(*exec.ExitError); ok {
			code = exitErr.ExitCode()
		} else {
			code = -1
		}
	}
	a.mu.Lock()
	a.exitCode = code
	a.mu.Unlock()
	a.setState(final)
	a.log().AgentExited(a.ID, code, final == StateError)
}

// Write forwards bytes to the child PTY; a no-op once the agent has
// stopped.
func (a *Agent) Write(p []byte, timeout time.Duration) (int, error) {
	if a.State() != StateRunning {
		return 0, nil
	}
	return a.VT.Write(p, timeout)
}

// Resize resizes both the PTY and the VT emulator; the child receives
// SIGWINCH as a side effect of the PTY ioctl.
func (a *Agent) Resize(totalRows, cols, childRows int) {
	a.VT.Resize(totalRows, cols, childRows)
}

// Kill sends SIGTERM to the child process. Idempotent: killing an already-
// stopped or already-killed agent is a no-op.
func (a *Agent) Kill() {
	a.stopOnce.Do(func() {
		close(a.stopCh)
		if a.VT.Cmd != nil && a.VT.Cmd.Process != nil {
			_ = a.VT.Cmd.Process.Signal(syscall.SIGTERM)
		}
	})
}

// State returns the agent's current derived status.
func (a *Agent) State() State {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.state
}

// ExitCode returns the child's exit code once the agent has stopped or
// errored; meaningless while still running.
func (a *Agent) ExitCode() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.exitCode
}

// StateDuration reports how long the agent has held its current state.
func (a *Agent) StateDuration() time.Duration {
	a.mu.Lock()
	defer a.mu.Unlock()
	return time.Since(a.stateChangedAt)
}

// IsIdle reports whether the agent is running but has produced no PTY
// output for at least IdleThreshold.
func (a *Agent) IsIdle() bool {
	if a.State() != StateRunning {
		return false
	}
	return a.VT.IsIdle(IdleThreshold)
}

func (a *Agent) setState(s State) {
	a.mu.Lock()
	changed := a.state != s
	prev := a.state
	a.state = s
	if changed {
		a.stateChangedAt = time.Now()
		close(a.stateCh)
		a.stateCh = make(chan struct{})
	}
	a.mu.Unlock()
	if changed {
		a.log().StateChange(a.ID, prev.String(), s.String())
	}
}
