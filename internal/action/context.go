// Package action implements the ActionDispatcher (C5): the single
// component that turns an input.Action descriptor into a mutation of the
// layout tree, the register store, the message bus, or the overlay stack.
// Every other component reads or mutates only its own state; the
// dispatcher is the one place ownership crosses those boundaries.
package action

import (
	"time"

	"github.com/pashenkov/braid/internal/activitylog"
	"github.com/pashenkov/braid/internal/agent"
	"github.com/pashenkov/braid/internal/bus"
	"github.com/pashenkov/braid/internal/compositor"
	"github.com/pashenkov/braid/internal/config"
	"github.com/pashenkov/braid/internal/host"
	"github.com/pashenkov/braid/internal/input"
	"github.com/pashenkov/braid/internal/layout"
	"github.com/pashenkov/braid/internal/overlay"
	"github.com/pashenkov/braid/internal/register"
	"github.com/pashenkov/braid/internal/sessionstore"
)

// writeTimeout bounds how long a byte forward or paste waits on a
// misbehaving child before giving up, mirroring agent.VT.Write's own
// timeout contract.
const writeTimeout = 2 * time.Second

// Context is the set of collaborators spec.md §4.5 names: {session,
// layoutTree, compositor, inputRouter, registerStore, messageBus,
// overlayManager, terminalHost}, plus the process-level hooks the
// dispatcher needs to actually spawn, resize, and persist agents — those
// hooks are supplied by internal/app's wiring, which is the only place
// that knows how to construct a full agent.Agent.
type Context struct {
	Tree       *layout.Tree
	Compositor *compositor.Compositor
	Router     *input.Router
	Registers  *register.Store
	Hub        *bus.Hub
	Convs      *bus.ConversationManager
	Overlays   *overlay.Manager
	Host       *host.Host
	Store      *sessionstore.Store
	Resolver   agent.SessionResolver
	Log        *activitylog.Logger

	// Agents indexes every live agent by id. The dispatcher never
	// constructs or destroys entries directly; it calls Spawn/Kill.
	Agents map[string]*agent.Agent

	Presets []config.AgentPreset

	SessionID   string
	SessionName string
	CWD         string

	PromptStyle bus.PromptStyle

	// ScrollbackLines is the history depth `:set scrollback=N` most
	// recently requested; internal/app consults it when sizing the next
	// agent's VT.
	ScrollbackLines int

	// Spawn starts a new agent of type at with extra argv, registers it
	// under a fresh id in Agents, and returns that id.
	Spawn func(at agent.AgentType, argv []string) (agentID string, err error)

	// Kill stops agentID's child process and forgets its registers.
	Kill func(agentID string)

	// BuildSession produces a Session carrying every live agent's
	// descriptor (command, argv, env, status) — metadata only internal/app
	// tracks — leaving Layout, FocusedPaneID, and Conversations for the
	// dispatcher to fill in from Tree/Convs at save time.
	BuildSession func() *sessionstore.Session

	// Quit terminates the process with the given exit code.
	Quit func(code int)

	// SetStatus posts a transient status-bar message (spec.md §7).
	SetStatus func(msg string)
}

// Dispatcher owns the pane-content cursors used by register motions and
// the in-progress ex-command/IPC-compose state that spans more than one
// Action.
type Dispatcher struct {
	ctx *Context

	cursors map[string]*paneCursor // keyed by agentID

	exParser *ExCommandParser

	// composerIsIPC marks the open ACLComposer as having been opened via
	// the lightweight IPC-compose path rather than a FIPA performative
	// keybinding, so sendComposedMessage knows to skip ConversationManager.
	composerIsIPC bool

	search searchState
}

// New returns a Dispatcher bound to ctx.
func New(ctx *Context) *Dispatcher {
	return &Dispatcher{
		ctx:      ctx,
		cursors:  make(map[string]*paneCursor),
		exParser: NewExCommandParser(),
	}
}

func (d *Dispatcher) log() *activitylog.Logger {
	if d.ctx.Log != nil {
		return d.ctx.Log
	}
	return activitylog.Nop()
}

func (d *Dispatcher) status(msg string) {
	if d.ctx.SetStatus != nil {
		d.ctx.SetStatus(msg)
	}
}

// focusedAgent resolves the currently focused pane's agent, or nil if the
// pane's agent id doesn't (or no longer) resolve.
func (d *Dispatcher) focusedAgent() *agent.Agent {
	info := d.ctx.Tree.FocusedPane()
	return d.ctx.Agents[info.AgentID]
}

func (d *Dispatcher) writeToFocused(p []byte) {
	a := d.focusedAgent()
	if a == nil {
		return
	}
	a.Write(p, writeTimeout)
}
