// Package bus implements the FIPA-ACL inspired message bus that lets
// spawned agents and the human operator coordinate through structured
// messages rather than raw terminal bytes.
package bus

import "time"

// Performative is the communicative act a Message performs, per FIPA ACL.
type Performative string

const (
	Request          Performative = "request"
	RequestWhen      Performative = "request-when"
	RequestWhenever  Performative = "request-whenever"
	Inform           Performative = "inform"
	InformIf         Performative = "inform-if"
	InformRef        Performative = "inform-ref"
	QueryIf          Performative = "query-if"
	QueryRef         Performative = "query-ref"
	CFP              Performative = "cfp"
	Propose          Performative = "propose"
	AcceptProposal   Performative = "accept-proposal"
	RejectProposal   Performative = "reject-proposal"
	Agree            Performative = "agree"
	Refuse           Performative = "refuse"
	Confirm          Performative = "confirm"
	Disconfirm       Performative = "disconfirm"
	Failure          Performative = "failure"
	Subscribe        Performative = "subscribe"
	Cancel           Performative = "cancel"
	NotUnderstood    Performative = "not-understood"
	Propagate        Performative = "propagate"
	Proxy            Performative = "proxy"
)

// performatives is the closed set of valid Performative values; anything
// else arriving over the wire is rejected rather than silently accepted.
var performatives = map[Performative]bool{
	Request: true, RequestWhen: true, RequestWhenever: true,
	Inform: true, InformIf: true, InformRef: true,
	QueryIf: true, QueryRef: true,
	CFP: true, Propose: true, AcceptProposal: true, RejectProposal: true,
	Agree: true, Refuse: true, Confirm: true, Disconfirm: true, Failure: true,
	Subscribe: true, Cancel: true,
	NotUnderstood: true, Propagate: true, Proxy: true,
}

// Valid reports whether p is one of the closed set of FIPA-ACL
// performatives this bus recognizes.
func (p Performative) Valid() bool { return performatives[p] }

// Protocol names a conversation's governing protocol state machine.
type Protocol string

const (
	ProtocolRequest     Protocol = "request"
	ProtocolContractNet Protocol = "contract-net"
	ProtocolSubscribe   Protocol = "subscribe"
	ProtocolQuery       Protocol = "query"
)

// Message is one FIPA-ACL envelope carried over the bus transport.
type Message struct {
	ID           string       `json:"_id"`
	Timestamp    time.Time    `json:"_timestamp"`
	Performative Performative `json:"performative"`
	From         string       `json:"from"`
	To           string       `json:"to"` // a specific agentId, or "*" for broadcast
	Content      any          `json:"content,omitempty"`
	Language     string       `json:"language,omitempty"`
	Ontology     string       `json:"ontology,omitempty"`
	Protocol     Protocol     `json:"protocol,omitempty"`

	ConversationID string     `json:"conversationId,omitempty"`
	ReplyTo        string     `json:"replyTo,omitempty"` // matches a prior message's ID
	ReplyBy        *time.Time `json:"replyBy,omitempty"`
}

// registerFrame is the first line a client sends after connecting.
type registerFrame struct {
	Type    string `json:"type"` // "register"
	AgentID string `json:"agentId"`
}

// registeredFrame is the hub's reply to a registerFrame.
type registeredFrame struct {
	Type      string    `json:"type"` // "registered"
	SessionID string    `json:"sessionId"`
	Timestamp time.Time `json:"timestamp"`
}
