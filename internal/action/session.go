package action

import (
	"fmt"

	"github.com/pashenkov/braid/internal/agent"
	"github.com/pashenkov/braid/internal/overlay"
	"github.com/pashenkov/braid/internal/sessionstore"
)

// handleExCommandSubmit parses and runs the line collected by the `:`
// prompt (spec.md §6.2), reporting any failure through the status bar
// rather than interrupting the session.
func (d *Dispatcher) handleExCommandSubmit(line string) {
	cmd, err := d.exParser.Parse(line)
	if err != nil {
		d.status(err.Error())
		return
	}
	if err := d.runExCommand(cmd); err != nil {
		d.status(err.Error())
	}
}

func (d *Dispatcher) runExCommand(cmd ExCommand) error {
	switch cmd.Name {
	case "q", "quit":
		d.closeFocusedPane()
	case "q!":
		d.quit(0)
	case "qa", "qall", "qa!", "qall!":
		d.quit(0)
	case "e":
		return d.exEdit(cmd.Args)
	case "sp", "split":
		return d.exSplit(cmd.Args, false)
	case "vs", "vsp", "vsplit":
		return d.exSplit(cmd.Args, true)
	case "only", "on":
		d.handleLayoutOnly()
	case "close", "clo":
		d.closeFocusedPane()
	case "w", "write", "save":
		return d.exSave(cmd.Args)
	case "wq", "x":
		if err := d.exSave(cmd.Args); err != nil {
			return err
		}
		d.closeFocusedPane()
	case "sessions", "ls":
		return d.exListSessions()
	case "restore", "load":
		return d.exRestoreHint(cmd.Args)
	case "name", "rename":
		return d.exRename(cmd.Args)
	case "set":
		return d.exSet(cmd.Args)
	default:
		return fmt.Errorf("action: unknown command %q", cmd.Name)
	}
	return nil
}

func (d *Dispatcher) exEdit(args []string) error {
	if len(args) == 0 {
		d.ctx.Overlays.Push(overlay.NewAgentPicker(d.ctx.Presets))
		return nil
	}
	at := agent.ResolveAgentType(args[0])
	return d.spawnSplit(at, args[1:], false)
}

func (d *Dispatcher) exSplit(args []string, vertical bool) error {
	if len(args) == 0 {
		return d.spawnSplit(focusedOrGeneric(d), nil, vertical)
	}
	at := agent.ResolveAgentType(args[0])
	return d.spawnSplit(at, args[1:], vertical)
}

func focusedOrGeneric(d *Dispatcher) agent.AgentType {
	if a := d.focusedAgent(); a != nil {
		return a.Type
	}
	return agent.NewGenericType("")
}

func (d *Dispatcher) exSave(args []string) error {
	if len(args) > 0 {
		d.ctx.SessionName = args[0]
	}
	if d.ctx.BuildSession == nil || d.ctx.Store == nil {
		return nil
	}
	sess := d.ctx.BuildSession()
	sess.Name = d.ctx.SessionName
	sess.Layout = d.ctx.Tree.Snapshot()
	sess.FocusedPaneID = d.ctx.Tree.FocusedPane().PaneID
	sess.Conversations = d.ctx.Convs.All()

	sessionstore.CaptureResumeIDs(sess, d.ctx.Resolver, d.ctx.CWD)

	if err := d.ctx.Store.Save(sess); err != nil {
		return err
	}
	d.ctx.SessionID = sess.ID
	d.status("saved session " + sess.Name)
	return nil
}

func (d *Dispatcher) exListSessions() error {
	if d.ctx.Store == nil {
		return nil
	}
	summaries, err := d.ctx.Store.List()
	if err != nil {
		return err
	}
	d.status(fmt.Sprintf("%d saved session(s)", len(summaries)))
	return nil
}

// exRestoreHint prints the restore target's name rather than actually
// restoring: live restore replaces this whole process's state, which only
// internal/cmd can do at startup, so the running session just confirms the
// target resolves.
func (d *Dispatcher) exRestoreHint(args []string) error {
	if d.ctx.Store == nil {
		return nil
	}
	target := "latest"
	if len(args) > 0 {
		target = args[0]
	}
	sess, err := d.ctx.Store.Load(target)
	if err != nil {
		return err
	}
	d.status(fmt.Sprintf("restart with --resume %s to load %q", sess.ID, sess.Name))
	return nil
}

func (d *Dispatcher) exRename(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("action: :name requires a new session name")
	}
	d.ctx.SessionName = args[0]
	d.status("session renamed to " + args[0])
	return nil
}

// exSet applies `:set key=value`. output_silence[_ms|_duration] adjusts the
// compositor's reflow silence-timer floor (spec.md §4.3.3); scrollback is
// recorded for the next agent this dispatcher spawns, since an already
// running midterm.Terminal can't be resized to a new history depth.
func (d *Dispatcher) exSet(args []string) error {
	for _, arg := range args {
		key, value, err := parseSetAssignment(arg)
		if err != nil {
			return err
		}
		switch key {
		case "output_silence", "output_silence_ms", "output_silence_duration":
			d.ctx.Compositor.Tuning.SilenceMinMs = value
		case "scrollback":
			d.ctx.ScrollbackLines = value
		default:
			return fmt.Errorf("action: unknown setting %q", key)
		}
	}
	return nil
}
