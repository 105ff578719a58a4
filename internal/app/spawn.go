package app

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/pashenkov/braid/internal/agent"
	"github.com/pashenkov/braid/internal/bus"
	"github.com/pashenkov/braid/internal/sessionstore"
)

// spawnAgentWithID constructs and starts a new agent.Agent under id,
// registering it in a.agents before Spawn runs so the first onData
// callback (which may fire before Spawn returns) always finds it. Must run
// on the input-loop goroutine (or before it starts, from New).
func (a *App) spawnAgentWithID(id string, at agent.AgentType, argv []string, childRows, cols int) (string, error) {
	vt := agent.NewVT(childRows, cols)
	ag := agent.New(id, at, vt)
	ag.Args = argv
	ag.SetActivityLog(a.log)

	a.agents[id] = ag

	if err := ag.Spawn(cols, childRows, a.sessionID, a.makeOnData(id)); err != nil {
		delete(a.agents, id)
		return "", err
	}
	return id, nil
}

// ctxSpawn is the action.Context.Spawn hook: spawns a sibling agent sized
// to the focused pane's current bounds. The dispatcher grafts the
// returned id into the layout tree and resizes everything afterward.
func (a *App) ctxSpawn(at agent.AgentType, argv []string) (string, error) {
	cols := a.cols
	rows := a.rows - 1
	if rows < 1 {
		rows = 1
	}
	if focused := a.tree.FocusedPane(); focused.Bounds.Height > 0 {
		rows = focused.Bounds.Height
		cols = focused.Bounds.Width
	}
	return a.spawnAgentWithID(uuid.NewString(), at, argv, rows, cols)
}

// ctxKill is the action.Context.Kill hook: stops the child and forgets
// every bit of per-agent state the dispatcher itself doesn't own. Runs on
// the input-loop goroutine, same as every other ctx.Agents mutation.
func (a *App) ctxKill(agentID string) {
	ag, ok := a.agents[agentID]
	if ok {
		delete(a.agents, agentID)
	}
	if !ok {
		return
	}
	ag.Kill()
	a.registers.Forget(agentID)
	a.compositor.ForgetPane(agentID)
}

// makeOnData returns the callback agent.VT.PipeOutput invokes, synchronously,
// while vt.Mu is already held, on that agent's own PTY-reading goroutine. It
// only enqueues work onto the input loop rather than touching a.agents or
// re-acquiring vt.Mu itself.
func (a *App) makeOnData(agentID string) func() {
	return func() {
		a.enqueue(func() {
			ag := a.lookupAgent(agentID)
			if ag == nil {
				return
			}
			ag.VT.Mu.Lock()
			height := len(ag.VT.Vt.Content)
			ag.VT.Mu.Unlock()
			a.compositor.CheckOutputReflow(agentID, height)
			a.compositor.ScheduleDraw()
		})
	}
}

// buildSession is the action.Context.BuildSession hook: produces the
// per-agent descriptors BuildSession's caller (exSave) merges with the
// tree/conversation snapshot it already knows how to fill in.
func (a *App) buildSession() *sessionstore.Session {
	agents := make(map[string]sessionstore.AgentDescriptor, len(a.agents))
	for id, ag := range a.agents {
		spawnedAt := ag.SpawnAt
		desc := sessionstore.AgentDescriptor{
			ID:        id,
			Type:      ag.Type.Name(),
			Command:   ag.Cmd,
			Argv:      ag.Args,
			Status:    ag.State().String(),
			SpawnedAt: &spawnedAt,
		}
		if ag.State() != agent.StateRunning {
			code := ag.ExitCode()
			desc.ExitCode = &code
		}
		agents[id] = desc
	}

	sess := &sessionstore.Session{
		ID:     a.sessionID,
		Name:   a.sessionName,
		Agents: agents,
	}
	sessionstore.CaptureResumeIDs(sess, a.resolver, a.cwd)
	return sess
}

// respawnFromSession restarts one child process per descriptor in sess,
// grafting each into a freshly loaded tree (already populated from
// sess.Layout) by matching the tree's own agent ids. A descriptor whose
// pane no longer appears in the tree (a corrupt or hand-edited session
// file) is skipped with a logged warning rather than failing the resume.
func (a *App) respawnFromSession(sess *sessionstore.Session) error {
	for _, p := range a.tree.AllPanes() {
		desc, ok := sess.Agents[p.AgentID]
		if !ok {
			a.log.Warnf("resumed session references a pane with no agent descriptor", "pane", p.PaneID)
			continue
		}
		at := agent.ResolveAgentType(desc.Command)
		argv := sessionstore.ResumeArgv(desc, at)

		rows, cols := p.Bounds.Height, p.Bounds.Width
		if rows < 1 {
			rows = 24
		}
		if cols < 1 {
			cols = 80
		}

		ag := agent.New(p.AgentID, at, agent.NewVT(rows, cols))
		ag.Args = desc.Argv
		ag.SetActivityLog(a.log)

		a.agents[p.AgentID] = ag

		if err := ag.Spawn(cols, rows, a.sessionID, a.makeOnData(p.AgentID)); err != nil {
			return fmt.Errorf("app: respawn agent %s (%s): %w", p.AgentID, desc.Type, err)
		}
	}
	return nil
}

// deliverMessage is the bus.Hub.OnMessage hook: renders an incoming FIPA
// message as text and writes it into the recipient agent's PTY, so the
// child process sees it the same way it would see typed input. Hub invokes
// this on the sending client's own connection goroutine, so the agent
// lookup is enqueued onto the input loop; the PTY write and conversation
// lookup that follow don't touch a.agents and run inline.
func (a *App) deliverMessage(msg *bus.Message) {
	if msg.To == "" || msg.To == "*" {
		return
	}
	a.enqueue(func() {
		ag := a.lookupAgent(msg.To)
		if ag == nil {
			return
		}
		var conv *bus.Conversation
		if msg.ConversationID != "" {
			conv, _ = a.convs.Get(msg.ConversationID)
		}
		text := bus.FormatPrompt(msg, conv, a.ctx.PromptStyle)
		ag.Write([]byte(text+"\n"), 2*time.Second)
		a.compositor.ScheduleDraw()
	})
}
