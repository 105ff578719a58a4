package action

import (
	"github.com/google/uuid"
	"github.com/pashenkov/braid/internal/agent"
	"github.com/pashenkov/braid/internal/bus"
	"github.com/pashenkov/braid/internal/input"
	"github.com/pashenkov/braid/internal/overlay"
)

// agentTypeFor resolves an AgentPicker's chosen command string (a preset's
// Command, or free-typed text) to an agent.AgentType the same way the
// initial spawn path does.
func agentTypeFor(command string) agent.AgentType {
	return agent.ResolveAgentType(command)
}

// performativeByLetter maps the FIPA-sub prefix's per-letter codes (as
// emitted by input.Router.handleACLPrefixByte) onto the wire performative.
// A handful of names diverge (ACCEPT/REJECT vs accept-proposal/
// reject-proposal) so this can't be a blind case fold.
var performativeByLetter = map[string]bus.Performative{
	"REQUEST":   bus.Request,
	"INFORM":    bus.Inform,
	"QUERY-IF":  bus.QueryIf,
	"QUERY-REF": bus.QueryRef,
	"CFP":       bus.CFP,
	"PROPOSE":   bus.Propose,
	"ACCEPT":    bus.AcceptProposal,
	"REJECT":    bus.RejectProposal,
	"AGREE":     bus.Agree,
	"REFUSE":    bus.Refuse,
	"FAILURE":   bus.Failure,
	"SUBSCRIBE": bus.Subscribe,
}

func protocolFor(p bus.Performative) bus.Protocol {
	switch p {
	case bus.CFP, bus.Propose, bus.AcceptProposal, bus.RejectProposal:
		return bus.ProtocolContractNet
	case bus.Subscribe:
		return bus.ProtocolSubscribe
	case bus.QueryIf, bus.QueryRef:
		return bus.ProtocolQuery
	default:
		return bus.ProtocolRequest
	}
}

// handleIPCCompose opens a composer for the lightweight inter-agent
// channel: a single digit 1-9 pre-targets the Nth pane's agent (document
// order); any other follow-up byte leaves the target blank for the
// operator to type. Unlike a FIPA send, the resulting message carries no
// protocol and never enters ConversationManager's state machine.
func (d *Dispatcher) handleIPCCompose(a input.Action) {
	to := ""
	if a.Direction >= '1' && a.Direction <= '9' {
		idx := int(a.Direction - '1')
		panes := d.ctx.Tree.AllPanes()
		if idx < len(panes) {
			to = panes[idx].AgentID
		}
	}
	d.composerIsIPC = true
	d.ctx.Overlays.Push(overlay.NewACLComposer(bus.Inform, to))
}

func (d *Dispatcher) handleFIPAPerformative(a input.Action) {
	p, ok := performativeByLetter[a.Performative]
	if !ok {
		return
	}
	d.composerIsIPC = false
	d.ctx.Overlays.Push(overlay.NewACLComposer(p, ""))
}

func (d *Dispatcher) handleFIPAList() {
	d.ctx.Overlays.Push(overlay.NewConvPicker(d.ctx.Convs.All()))
}

func (d *Dispatcher) handleFIPAView() {
	ag := d.focusedAgent()
	if ag == nil {
		return
	}
	var best bus.Snapshot
	found := false
	for _, c := range d.ctx.Convs.All() {
		if !participates(c, ag.ID) {
			continue
		}
		if !found || c.UpdatedAt.After(best.UpdatedAt) {
			best, found = c, true
		}
	}
	if !found {
		d.status("no conversation for this pane")
		return
	}
	d.openViewer(best.ID)
}

func participates(c bus.Snapshot, agentID string) bool {
	for _, p := range c.Participants {
		if p == agentID {
			return true
		}
	}
	return false
}

func (d *Dispatcher) openViewer(convID string) {
	conv, ok := d.ctx.Convs.Get(convID)
	if !ok {
		return
	}
	d.ctx.Overlays.Push(overlay.NewACLViewer(conv, d.ctx.PromptStyle))
}

func (d *Dispatcher) handleFIPACancel() {
	if d.ctx.Overlays.Active() {
		d.ctx.Overlays.Pop()
	}
}

func (d *Dispatcher) handleFIPAStyle(a input.Action) {
	switch a.Style {
	case "structured":
		d.ctx.PromptStyle = bus.StyleStructured
	case "natural":
		d.ctx.PromptStyle = bus.StyleNatural
	case "minimal":
		d.ctx.PromptStyle = bus.StyleMinimal
	}
}

func (d *Dispatcher) handleFIPAHelp() {
	d.ctx.Overlays.Push(overlay.NewHelp())
}

// HandleOverlayResult consumes the result of a dialog the overlay manager
// just closed (as reported by Manager.HandleKey), performing the action
// the dialog collected input for. Called by the host loop, which is the
// one place raw bytes are routed either to the input.Router or straight to
// the overlay stack depending on Overlays.Active().
func (d *Dispatcher) HandleOverlayResult(kind overlay.Kind, result any) {
	switch kind {
	case overlay.KindAgentPicker:
		choice, ok := result.(overlay.AgentChoice)
		if !ok {
			return
		}
		d.spawnSplit(agentTypeFor(choice.Command), choice.Argv, false)
	case overlay.KindACLComposer:
		draft, ok := result.(overlay.ACLMessageDraft)
		if !ok {
			return
		}
		d.sendComposedMessage(draft)
	case overlay.KindConvPicker:
		id, ok := result.(string)
		if !ok || id == "" {
			return
		}
		d.openViewer(id)
	}
}

func (d *Dispatcher) sendComposedMessage(draft overlay.ACLMessageDraft) {
	if d.ctx.Hub == nil {
		return
	}
	from := ""
	if ag := d.focusedAgent(); ag != nil {
		from = ag.ID
	}
	msg := &bus.Message{
		ID:           uuid.NewString(),
		Performative: draft.Performative,
		From:         from,
		To:           draft.To,
		Content:      draft.Content,
	}
	if !d.composerIsIPC {
		msg.Protocol = protocolFor(draft.Performative)
		msg.ConversationID = uuid.NewString()
		d.ctx.Convs.GetOrCreate(msg.ConversationID, msg.Protocol, []string{msg.From, msg.To}, true)
	}
	d.ctx.Hub.Send(msg)
}
