package bus

import (
	"sync"
	"time"
)

// State is a protocol state machine's current state name.
type State string

const (
	StateInitiated         State = "initiated"
	StatePending            State = "pending"
	StateProposalsReceived  State = "proposals-received"
	StateProposalAccepted   State = "proposal-accepted"
	StateAgreed             State = "agreed"
	StateCompleted          State = "completed"
	StateRefused            State = "refused"
	StateFailed             State = "failed"
	StateCancelled          State = "cancelled"
)

// Conversation tracks one protocol instance: its participants, the ordered
// message log, and the live state-machine state.
type Conversation struct {
	ID           string
	Protocol     Protocol
	Participants map[string]bool
	UserInvolved bool

	Messages []*Message
	seenIDs  map[string]bool

	State  State
	Result any
	Reason string

	proposals map[string]Performative // contract-net: participant -> last response

	CreatedAt time.Time
	UpdatedAt time.Time

	replyByTimer *time.Timer
}

func newConversation(id string, proto Protocol, participants []string) *Conversation {
	c := &Conversation{
		ID:           id,
		Protocol:     proto,
		Participants: make(map[string]bool, len(participants)),
		seenIDs:      make(map[string]bool),
		proposals:    make(map[string]Performative),
		State:        StateInitiated,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
	for _, p := range participants {
		c.Participants[p] = true
	}
	return c
}

// ConversationManager indexes every live conversation by id, enforces the
// max-conversation cap with LRU eviction, and drives each conversation's
// protocol state machine as messages arrive.
type ConversationManager struct {
	mu               sync.Mutex
	maxConversations int
	byID             map[string]*Conversation
	onChange         func(*Conversation)
}

const (
	evictCompletedAfter = 30 * time.Second
	evictStaleAfter     = 5 * time.Minute
	defaultMaxConvs     = 1000
)

// NewConversationManager returns a manager capped at max conversations (0
// selects the default of 1000).
func NewConversationManager(max int) *ConversationManager {
	if max <= 0 {
		max = defaultMaxConvs
	}
	return &ConversationManager{maxConversations: max, byID: make(map[string]*Conversation)}
}

// OnChange registers a callback invoked after any conversation mutation,
// used by the overlay to refresh an open ACL composer/viewer.
func (cm *ConversationManager) OnChange(fn func(*Conversation)) { cm.onChange = fn }

// GetOrCreate returns the conversation for id, creating one (and evicting if
// the manager is at capacity) if it doesn't exist yet.
func (cm *ConversationManager) GetOrCreate(id string, proto Protocol, participants []string, userInvolved bool) *Conversation {
	cm.mu.Lock()
	defer cm.mu.Unlock()

	if c, ok := cm.byID[id]; ok {
		return c
	}

	cm.evictLocked(time.Now())

	c := newConversation(id, proto, participants)
	c.UserInvolved = userInvolved
	cm.byID[id] = c
	return c
}

// Get returns the conversation for id, if any.
func (cm *ConversationManager) Get(id string) (*Conversation, bool) {
	cm.mu.Lock()
	defer cm.mu.Unlock()
	c, ok := cm.byID[id]
	return c, ok
}

// Deliver records msg against its conversation (deduplicated on ID, ordered
// by arrival) and advances that conversation's protocol state machine.
func (cm *ConversationManager) Deliver(convID string, msg *Message) {
	cm.mu.Lock()
	defer cm.mu.Unlock()

	c, ok := cm.byID[convID]
	if !ok {
		c = newConversation(convID, msg.Protocol, []string{msg.From, msg.To})
		cm.byID[convID] = c
	}
	if c.seenIDs[msg.ID] {
		return
	}
	c.seenIDs[msg.ID] = true
	c.Messages = append(c.Messages, msg)
	c.UpdatedAt = time.Now()

	cm.advanceLocked(c, msg)

	if msg.ReplyBy != nil && c.replyByTimer == nil {
		deadline := *msg.ReplyBy
		c.replyByTimer = time.AfterFunc(time.Until(deadline), func() {
			cm.mu.Lock()
			cm.onReplyByElapsed(c)
			cm.mu.Unlock()
			if cm.onChange != nil {
				cm.onChange(c)
			}
		})
	}

	if cm.onChange != nil {
		cm.onChange(c)
	}
}

func (cm *ConversationManager) onReplyByElapsed(c *Conversation) {
	if c.State == StateCompleted || c.State == StateFailed || c.State == StateRefused || c.State == StateCancelled {
		return
	}
	switch c.Protocol {
	case ProtocolContractNet:
		if len(c.proposals) == 0 {
			c.State, c.Reason = StateFailed, "no-proposals"
		} else {
			c.State = StateProposalsReceived
		}
	default:
		c.State, c.Reason = StateFailed, "timeout"
	}
	c.UpdatedAt = time.Now()
}

// advanceLocked drives c's protocol state machine for msg. Before dispatching
// to a protocol-specific advancer, it handles the two cases that every
// protocol answers the same way regardless of where the conversation stands:
// a performative outside the closed set, or an explicit not-understood reply
// to something this side sent. Either one fails the conversation rather than
// falling through a protocol switch with no matching case, which would leave
// the conversation silently stuck in whatever state it was already in.
func (cm *ConversationManager) advanceLocked(c *Conversation, msg *Message) {
	if isTerminal(c.State) {
		return
	}
	if msg.Performative == NotUnderstood {
		c.State, c.Reason = StateFailed, "not-understood"
		return
	}
	if !msg.Performative.Valid() {
		c.State, c.Reason = StateFailed, "unknown-performative"
		return
	}

	switch c.Protocol {
	case ProtocolContractNet:
		advanceContractNet(c, msg)
	case ProtocolSubscribe:
		advanceSubscribe(c, msg)
	case ProtocolQuery:
		advanceQuery(c, msg)
	default:
		advanceRequest(c, msg)
	}
}

// advanceRequest drives: initiated -> pending -> (agreed -> completed|failed) | refused | failed.
func advanceRequest(c *Conversation, msg *Message) {
	if c.State == StateCompleted || c.State == StateFailed || c.State == StateRefused {
		return
	}
	switch msg.Performative {
	case Request, CFP, QueryIf, QueryRef:
		if c.State == StateInitiated {
			c.State = StatePending
		}
	case Agree:
		c.State = StateAgreed
	case Inform:
		c.State = StateCompleted
		c.Result = msg.Content
	case Refuse:
		c.State = StateRefused
	case Failure:
		c.State = StateFailed
		c.Reason = "failure"
	}
}

// advanceContractNet drives: initiated -> pending -> proposals-received ->
// proposal-accepted -> completed|failed.
func advanceContractNet(c *Conversation, msg *Message) {
	if c.State == StateCompleted || c.State == StateFailed {
		return
	}
	switch msg.Performative {
	case CFP:
		c.State = StatePending
	case Propose, Refuse:
		c.proposals[msg.From] = msg.Performative
		if allResponded(c) {
			if hasAnyProposal(c.proposals) {
				c.State = StateProposalsReceived
			} else {
				c.State, c.Reason = StateFailed, "no-proposals"
			}
		}
	case AcceptProposal:
		c.State = StateProposalAccepted
	case RejectProposal:
		// Stays in proposals-received; manager may accept a different bidder.
	case Inform:
		if c.State == StateProposalAccepted {
			c.State = StateCompleted
			c.Result = msg.Content
		}
	case Failure:
		c.State, c.Reason = StateFailed, "failure"
	}
}

func allResponded(c *Conversation) bool {
	for p := range c.Participants {
		if p == "" {
			continue
		}
		if _, ok := c.proposals[p]; !ok {
			return false
		}
	}
	return true
}

func hasAnyProposal(proposals map[string]Performative) bool {
	for _, p := range proposals {
		if p == Propose {
			return true
		}
	}
	return false
}

// advanceSubscribe drives: initiated -> pending -> agreed <-> (inform*) -> cancelled|refused.
func advanceSubscribe(c *Conversation, msg *Message) {
	if c.State == StateRefused || c.State == StateCancelled {
		return
	}
	switch msg.Performative {
	case Subscribe:
		c.State = StatePending
	case Agree:
		c.State = StateAgreed
	case Refuse:
		c.State = StateRefused
	case Cancel:
		c.State = StateCancelled
	case Inform:
		if c.State == StateAgreed {
			c.Result = msg.Content
		}
	}
}

// advanceQuery drives: initiated -> pending -> completed|refused|failed.
func advanceQuery(c *Conversation, msg *Message) {
	if c.State == StateCompleted || c.State == StateRefused || c.State == StateFailed {
		return
	}
	switch msg.Performative {
	case QueryIf, QueryRef:
		c.State = StatePending
	case Inform:
		c.State = StateCompleted
		c.Result = msg.Content
	case Refuse:
		c.State = StateRefused
	case Failure:
		c.State, c.Reason = StateFailed, "failure"
	}
}

// evictLocked drops completed conversations older than 30s and stale
// (no recent activity) conversations older than 5 minutes, skipping any
// conversation the human operator is a participant in. Called whenever a
// new conversation would push the manager over its cap.
func (cm *ConversationManager) evictLocked(now time.Time) {
	if len(cm.byID) < cm.maxConversations {
		return
	}
	for id, c := range cm.byID {
		if c.UserInvolved {
			continue
		}
		switch {
		case isTerminal(c.State) && now.Sub(c.UpdatedAt) > evictCompletedAfter:
			cm.removeLocked(id, c)
		case now.Sub(c.UpdatedAt) > evictStaleAfter:
			cm.removeLocked(id, c)
		}
	}
}

func isTerminal(s State) bool {
	switch s {
	case StateCompleted, StateFailed, StateRefused, StateCancelled:
		return true
	default:
		return false
	}
}

func (cm *ConversationManager) removeLocked(id string, c *Conversation) {
	if c.replyByTimer != nil {
		c.replyByTimer.Stop()
	}
	delete(cm.byID, id)
}

// Shutdown cancels every conversation's reply-by timer.
func (cm *ConversationManager) Shutdown() {
	cm.mu.Lock()
	defer cm.mu.Unlock()
	for _, c := range cm.byID {
		if c.replyByTimer != nil {
			c.replyByTimer.Stop()
		}
	}
}

// Snapshot is the serializable form of a Conversation, used to persist a
// session's in-flight conversations to disk.
type Snapshot struct {
	ID           string
	Protocol     Protocol
	Participants []string
	UserInvolved bool
	Messages     []*Message
	State        State
	Result       any
	Reason       string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// All returns a point-in-time snapshot of every tracked conversation,
// terminal or not.
func (cm *ConversationManager) All() []Snapshot {
	cm.mu.Lock()
	defer cm.mu.Unlock()

	out := make([]Snapshot, 0, len(cm.byID))
	for _, c := range cm.byID {
		participants := make([]string, 0, len(c.Participants))
		for p := range c.Participants {
			participants = append(participants, p)
		}
		out = append(out, Snapshot{
			ID:           c.ID,
			Protocol:     c.Protocol,
			Participants: participants,
			UserInvolved: c.UserInvolved,
			Messages:     c.Messages,
			State:        c.State,
			Result:       c.Result,
			Reason:       c.Reason,
			CreatedAt:    c.CreatedAt,
			UpdatedAt:    c.UpdatedAt,
		})
	}
	return out
}

// Restore repopulates the manager from previously captured snapshots,
// reconstructing each conversation's message log and terminal state without
// re-running its state machine. Used when loading a saved session.
func (cm *ConversationManager) Restore(snaps []Snapshot) {
	cm.mu.Lock()
	defer cm.mu.Unlock()

	for _, s := range snaps {
		c := newConversation(s.ID, s.Protocol, s.Participants)
		c.UserInvolved = s.UserInvolved
		c.Messages = s.Messages
		for _, m := range s.Messages {
			c.seenIDs[m.ID] = true
		}
		c.State = s.State
		c.Result = s.Result
		c.Reason = s.Reason
		c.CreatedAt = s.CreatedAt
		c.UpdatedAt = s.UpdatedAt
		cm.byID[s.ID] = c
	}
}
