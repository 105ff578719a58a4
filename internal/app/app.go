// Package app wires every other package into one running braid process:
// the terminal host, the layout tree, the compositor, the input router,
// the action dispatcher, the message bus, the register store, the overlay
// manager, and the session store. It owns the raw stdin read loop and the
// process-level hooks (spawn/kill/quit) that internal/action's Context
// only holds as closures, mirroring the teacher's own split between
// Session (owns the PTYs) and the wire-protocol daemon built atop it.
package app

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/pashenkov/braid/internal/action"
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

// Options configures a freshly constructed App.
type Options struct {
	Config config.Config

	// SessionName seeds the session the dispatcher saves under; empty
	// means the name is whatever ":name"/":w <name>" later sets.
	SessionName string

	// ResumeTarget is the --resume/--restore argument: a session id, a
	// name, or "latest". Empty means start fresh.
	ResumeTarget string

	// InitialCommand/InitialArgv spawn the first agent when not resuming.
	// InitialCommand empty falls back to Config.DefaultAgents[0].
	InitialCommand string
	InitialArgv    []string

	CWD string
}

// App owns every collaborator for one running process and the stdin read
// loop that drives them.
type App struct {
	cfg config.Config
	cwd string

	host       *host.Host
	tree       *layout.Tree
	compositor *compositor.Compositor
	router     *input.Router
	registers  *register.Store
	hub        *bus.Hub
	convs      *bus.ConversationManager
	overlays   *overlay.Manager
	store      *sessionstore.Store
	resolver   agent.SessionResolver
	log        *activitylog.Logger
	downsample *compositor.Downsampler

	ctx        *action.Context
	dispatcher *action.Dispatcher

	// agents is touched only from the input-loop goroutine: the dispatcher
	// (actions run synchronously out of inputLoop) mutates it directly with
	// no lock of its own, so every other goroutine (PipeOutput readers, the
	// hub's connection goroutines, the compositor's draw timer) reaches it
	// only by posting a closure through enqueue.
	agents map[string]*agent.Agent

	sessionID   string
	sessionName string

	statusMu    sync.Mutex
	statusMsg   string
	statusUntil time.Time

	cols, rows int

	exitCode int
	quitOnce sync.Once
	quitCh   chan struct{}

	// work serializes every mutation of the tree/compositor/agents onto the
	// inputLoop goroutine: callbacks that fire on other goroutines (host
	// signals, agent processes, the message hub, the compositor's draw
	// timer) enqueue closures here rather than touching shared state
	// directly. Stdin bytes reach the same loop through their own channel.
	work chan func()
}

// New constructs an App per opts, resuming a saved session if
// opts.ResumeTarget is set, or spawning a single fresh agent otherwise. It
// does not touch the terminal; call Run to actually take over the screen.
func New(opts Options) (*App, error) {
	sessionsDir, err := config.SessionsDir()
	if err != nil {
		return nil, fmt.Errorf("app: resolve sessions dir: %w", err)
	}

	a := &App{
		cfg:       opts.Config,
		cwd:       opts.CWD,
		host:      host.New(os.Stdin, os.Stdout),
		router:    input.New(),
		overlays:  overlay.New(),
		store:     sessionstore.New(sessionsDir),
		resolver:  agent.NewDefaultResolver(),
		agents:    make(map[string]*agent.Agent),
		quitCh:    make(chan struct{}),
		work:      make(chan func(), 64),
		sessionName: opts.SessionName,
	}

	a.log = a.openActivityLog()
	a.registers = register.New(os.Stdout)
	a.downsample = compositor.NewDownsampler()

	promptStyle := bus.StyleStructured

	// The tree and compositor must exist before any agent is spawned: the
	// first PipeOutput callback can fire before this constructor returns,
	// and it reaches through a.compositor unconditionally.
	var resumedSession *sessionstore.Session
	if opts.ResumeTarget != "" {
		sess, err := a.store.Load(opts.ResumeTarget)
		if err != nil {
			return nil, fmt.Errorf("app: resume %q: %w", opts.ResumeTarget, err)
		}
		resumedSession = sess
		a.sessionID = sess.ID
		a.sessionName = sess.Name
		a.tree = layout.FromSnapshot(sess.Layout)
		a.convs = bus.NewConversationManager(0)
		a.convs.Restore(sess.Conversations)
	} else {
		a.sessionID = uuid.NewString()
		a.convs = bus.NewConversationManager(0)
		placeholderID := uuid.NewString()
		a.tree = layout.New(placeholderID, placeholderID)
	}
	a.hub = bus.NewHub(a.sessionID, a.convs)

	tuning := compositor.DefaultTuning()
	tuning.SilenceMinMs = opts.Config.Reflow.SilenceMinMs
	tuning.SilenceMaxMs = opts.Config.Reflow.SilenceMaxMs
	tuning.MaxMinMs = opts.Config.Reflow.MaxMinMs
	tuning.MaxMaxMs = opts.Config.Reflow.MaxMaxMs
	tuning.FrameIntervalMs = config.EnvInt("FRAME_INTERVAL_MS", compositor.DefaultFrameIntervalMs)
	tuning.CPSWindowMs = config.EnvInt("CPS_WINDOW_MS", compositor.DefaultCPSWindowMs)
	a.compositor = compositor.New(a.tree, tuning)
	// The compositor's own draw timer fires this on its own goroutine;
	// flush reads a.tree/a.agents, so it must run on the input loop too.
	a.compositor.OnDraw(func() { a.enqueue(a.flush) })

	a.hub.OnMessage(a.deliverMessage)
	if sockPath, err := a.listenHub(); err != nil {
		a.log.Warnf("message bus socket unavailable", "path", sockPath, "error", err.Error())
	}

	if resumedSession != nil {
		if err := a.respawnFromSession(resumedSession); err != nil {
			return nil, err
		}
	} else {
		command := opts.InitialCommand
		if command == "" && len(opts.Config.DefaultAgents) > 0 {
			command = opts.Config.DefaultAgents[0].Command
		}
		at := agent.ResolveAgentType(command)
		placeholder := a.tree.FocusedPane()
		if _, err := a.spawnAgentWithID(placeholder.AgentID, at, opts.InitialArgv, 24, 80); err != nil {
			return nil, fmt.Errorf("app: spawn initial agent: %w", err)
		}
	}

	a.ctx = &action.Context{
		Tree:        a.tree,
		Compositor:  a.compositor,
		Router:      a.router,
		Registers:   a.registers,
		Hub:         a.hub,
		Convs:       a.convs,
		Overlays:    a.overlays,
		Host:        a.host,
		Store:       a.store,
		Resolver:    a.resolver,
		Log:         a.log,
		Agents:      a.agents,
		Presets:     opts.Config.DefaultAgents,
		SessionID:   a.sessionID,
		SessionName: a.sessionName,
		CWD:         a.cwd,
		PromptStyle: promptStyle,
		Spawn:       a.ctxSpawn,
		Kill:        a.ctxKill,
		BuildSession: a.buildSession,
		Quit:        a.requestQuit,
		SetStatus:   a.setStatus,
	}
	a.dispatcher = action.New(a.ctx)

	a.host.OnResize(a.handleResize)
	a.host.OnSignal(a.handleSignal)
	a.host.ForwardToChildren(a.forwardSignal)

	return a, nil
}

func (a *App) openActivityLog() *activitylog.Logger {
	dir, err := config.ResolveDir()
	if err != nil {
		return activitylog.Nop()
	}
	l, err := activitylog.NewFile(filepath.Join(dir, "activity.log"), activitylog.LevelInfo)
	if err != nil {
		return activitylog.Nop()
	}
	return l
}

func (a *App) listenHub() (string, error) {
	sockPath := filepath.Join(config.RuntimeDir(), a.sessionID+".sock")
	return sockPath, a.hub.Listen(sockPath)
}

// Run takes over the controlling terminal and drives the event loop until
// a quit is requested or stdin closes. It returns the process exit code
// recorded by the first quit request.
func (a *App) Run() (int, error) {
	if !a.host.IsTerminal() {
		return 1, fmt.Errorf("app: stdout is not a terminal")
	}
	cols, rows, err := a.host.Size()
	if err != nil {
		return 1, fmt.Errorf("app: read terminal size: %w", err)
	}
	a.cols, a.rows = cols, rows
	a.tree.ComputeBounds(layout.Rect{X: 0, Y: 0, Width: cols, Height: rows - 1})
	a.compositor.SyncPaneHeights()
	a.resizeAllPanes(rows-1, cols)

	if err := a.host.Start(); err != nil {
		return 1, fmt.Errorf("app: start host: %w", err)
	}
	defer a.host.Stop()

	a.compositor.ScheduleDraw()
	a.inputLoop()

	a.shutdown()
	return a.exitCode, nil
}

// shutdown runs after inputLoop returns, so it's still the sole goroutine
// touching a.agents at this point.
func (a *App) shutdown() {
	for _, ag := range a.agents {
		ag.Kill()
	}
	a.convs.Shutdown()
	a.hub.Shutdown()
}

func (a *App) requestQuit(code int) {
	a.quitOnce.Do(func() {
		a.exitCode = code
		close(a.quitCh)
	})
}

// lookupAgent must only be called from the input-loop goroutine (directly,
// or from a closure posted through enqueue).
func (a *App) lookupAgent(id string) *agent.Agent {
	return a.agents[id]
}

func (a *App) setStatus(msg string) {
	a.statusMu.Lock()
	a.statusMsg = msg
	a.statusUntil = time.Now().Add(4 * time.Second)
	a.statusMu.Unlock()
	a.compositor.ScheduleDraw()
}

func (a *App) statusBar() string {
	a.statusMu.Lock()
	msg, until := a.statusMsg, a.statusUntil
	a.statusMu.Unlock()
	if msg != "" && time.Now().Before(until) {
		return msg
	}
	focused := a.tree.FocusedPane()
	return fmt.Sprintf(" %s | pane %s | mode %s ", a.sessionName, focused.PaneID, a.router.Mode())
}
