package bus

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Hub is the MessageBus transport: a Unix-domain stream socket speaking
// newline-delimited JSON, one Message per line, plus the FIPA layer that
// sits on top of it.
type Hub struct {
	sessionID string
	conv      *ConversationManager

	mu       sync.Mutex
	listener net.Listener
	sockPath string
	clients  map[string]*clientConn // agentID -> connection
	pending  map[string]*pendingRequest
	onMessage func(*Message)
	closed   bool
}

type clientConn struct {
	agentID string
	conn    net.Conn
	mu      sync.Mutex // serializes writes so JSON lines never interleave
}

type pendingRequest struct {
	ch    chan *Message
	timer *time.Timer
}

// NewHub constructs a Hub for sessionID backed by conv for FIPA-level
// conversation tracking.
func NewHub(sessionID string, conv *ConversationManager) *Hub {
	return &Hub{
		sessionID: sessionID,
		conv:      conv,
		clients:   make(map[string]*clientConn),
		pending:   make(map[string]*pendingRequest),
	}
}

// OnMessage registers a callback invoked for every routed message, used to
// feed the FIPA overlay / activity log.
func (h *Hub) OnMessage(fn func(*Message)) { h.onMessage = fn }

// Listen creates the Unix socket at socketPath (removing a stale one first)
// and begins accepting client connections in the background.
func (h *Hub) Listen(socketPath string) error {
	if err := os.MkdirAll(filepath.Dir(socketPath), 0o700); err != nil {
		return fmt.Errorf("create runtime dir: %w", err)
	}
	if _, err := os.Stat(socketPath); err == nil {
		if conn, dialErr := net.DialTimeout("unix", socketPath, 200*time.Millisecond); dialErr == nil {
			conn.Close()
			return fmt.Errorf("a hub is already listening on %s", socketPath)
		}
		os.Remove(socketPath)
	}

	ln, err := net.Listen("unix", socketPath)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", socketPath, err)
	}
	h.listener = ln
	h.sockPath = socketPath
	go h.acceptLoop(ln)
	return nil
}

func (h *Hub) acceptLoop(ln net.Listener) {
	for {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		go h.handleConn(conn)
	}
}

func (h *Hub) handleConn(conn net.Conn) {
	scanner := bufio.NewScanner(conn)
	scanner.Buffer(make([]byte, 0, 64*1024), 10*1024*1024)

	if !scanner.Scan() {
		conn.Close()
		return
	}
	var reg registerFrame
	if err := json.Unmarshal(scanner.Bytes(), &reg); err != nil || reg.Type != "register" || reg.AgentID == "" {
		conn.Close()
		return
	}

	cc := &clientConn{agentID: reg.AgentID, conn: conn}
	h.mu.Lock()
	h.clients[reg.AgentID] = cc
	h.mu.Unlock()

	cc.writeLine(registeredFrame{Type: "registered", SessionID: h.sessionID, Timestamp: time.Now()})

	defer func() {
		conn.Close()
		h.mu.Lock()
		delete(h.clients, reg.AgentID)
		h.mu.Unlock()
	}()

	for scanner.Scan() {
		var msg Message
		if err := json.Unmarshal(scanner.Bytes(), &msg); err != nil {
			continue // ProtocolError: malformed JSON, drop the line
		}
		if msg.ID == "" {
			msg.ID = uuid.NewString()
		}
		if msg.Timestamp.IsZero() {
			msg.Timestamp = time.Now()
		}
		if !msg.Performative.Valid() {
			// ProtocolError: a performative outside the closed set. FIPA
			// convention is to answer it rather than silently drop it.
			h.route(&Message{
				ID:             uuid.NewString(),
				Timestamp:      time.Now(),
				Performative:   NotUnderstood,
				From:           h.sessionID,
				To:             msg.From,
				Content:        fmt.Sprintf("unrecognized performative %q", msg.Performative),
				ConversationID: msg.ConversationID,
				ReplyTo:        msg.ID,
			})
			continue
		}
		h.route(&msg)
	}
}

func (cc *clientConn) writeLine(v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	cc.mu.Lock()
	defer cc.mu.Unlock()
	_, err = cc.conn.Write(append(b, '\n'))
	return err
}

// route delivers msg to its destination(s), resolves any pending request
// promise it replies to, and folds it into the FIPA conversation state.
func (h *Hub) route(msg *Message) {
	h.mu.Lock()
	if msg.ReplyTo != "" {
		if p, ok := h.pending[msg.ReplyTo]; ok {
			p.timer.Stop()
			delete(h.pending, msg.ReplyTo)
			p.ch <- msg
			close(p.ch)
		}
	}

	if msg.To == "*" {
		for id, cc := range h.clients {
			if id == msg.From {
				continue
			}
			cc.writeLine(msg)
		}
	} else if cc, ok := h.clients[msg.To]; ok {
		cc.writeLine(msg)
	}
	h.mu.Unlock()

	if h.conv != nil && msg.ConversationID != "" {
		h.conv.Deliver(msg.ConversationID, msg)
	}
	if h.onMessage != nil {
		h.onMessage(msg)
	}
}

// Send routes an outbound message the same way an inbound client message
// would be routed, for messages originated by the human operator.
func (h *Hub) Send(msg *Message) {
	if msg.ID == "" {
		msg.ID = uuid.NewString()
	}
	if msg.Timestamp.IsZero() {
		msg.Timestamp = time.Now()
	}
	h.route(msg)
}

// SendRequest sends msg and returns a channel that receives the first
// reply whose ReplyTo equals msg.ID. If no reply arrives by replyBy, the
// channel receives nil rather than being left to block forever.
func (h *Hub) SendRequest(msg *Message, replyBy time.Time) <-chan *Message {
	if msg.ID == "" {
		msg.ID = uuid.NewString()
	}
	ch := make(chan *Message, 1)

	h.mu.Lock()
	h.pending[msg.ID] = &pendingRequest{
		ch: ch,
		timer: time.AfterFunc(time.Until(replyBy), func() {
			h.mu.Lock()
			if p, ok := h.pending[msg.ID]; ok {
				delete(h.pending, msg.ID)
				p.ch <- nil
				close(p.ch)
			}
			h.mu.Unlock()
		}),
	}
	h.mu.Unlock()

	h.Send(msg)
	return ch
}

// Shutdown cancels every pending-request timer and closes the listener and
// every accepted client socket.
func (h *Hub) Shutdown() error {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return nil
	}
	h.closed = true
	for _, p := range h.pending {
		p.timer.Stop()
	}
	h.pending = make(map[string]*pendingRequest)
	for _, cc := range h.clients {
		cc.conn.Close()
	}
	h.clients = make(map[string]*clientConn)
	ln := h.listener
	sockPath := h.sockPath
	h.mu.Unlock()

	if ln != nil {
		ln.Close()
	}
	if sockPath != "" {
		os.Remove(sockPath)
	}
	return nil
}
