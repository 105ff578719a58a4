package bus

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net"
	"sync"
	"time"
)

// Client is a bus participant's connection to the Hub: used by the
// dispatcher on behalf of the human operator, and by tests standing in for
// a spawned agent.
type Client struct {
	agentID string
	conn    net.Conn
	scanner *bufio.Scanner
	writeMu sync.Mutex

	onMessage func(*Message)
}

// Dial connects to the hub's socket and completes the register handshake.
func Dial(socketPath, agentID string) (*Client, error) {
	conn, err := net.DialTimeout("unix", socketPath, 2*time.Second)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", socketPath, err)
	}

	c := &Client{agentID: agentID, conn: conn, scanner: bufio.NewScanner(conn)}
	c.scanner.Buffer(make([]byte, 0, 64*1024), 10*1024*1024)

	if err := c.writeLine(registerFrame{Type: "register", AgentID: agentID}); err != nil {
		conn.Close()
		return nil, err
	}
	if !c.scanner.Scan() {
		conn.Close()
		return nil, fmt.Errorf("hub closed connection before registering")
	}
	var ack registeredFrame
	if err := json.Unmarshal(c.scanner.Bytes(), &ack); err != nil || ack.Type != "registered" {
		conn.Close()
		return nil, fmt.Errorf("unexpected registration reply")
	}
	return c, nil
}

// OnMessage registers the handler invoked for every message read off the
// socket by Listen.
func (c *Client) OnMessage(fn func(*Message)) { c.onMessage = fn }

// Listen blocks, reading messages until the connection closes, dispatching
// each to the OnMessage handler.
func (c *Client) Listen() error {
	for c.scanner.Scan() {
		var msg Message
		if err := json.Unmarshal(c.scanner.Bytes(), &msg); err != nil {
			continue
		}
		if c.onMessage != nil {
			c.onMessage(&msg)
		}
	}
	return c.scanner.Err()
}

// Send writes msg as one JSON line.
func (c *Client) Send(msg *Message) error {
	if msg.From == "" {
		msg.From = c.agentID
	}
	return c.writeLine(msg)
}

func (c *Client) writeLine(v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	_, err = c.conn.Write(append(b, '\n'))
	return err
}

// Close closes the underlying connection.
func (c *Client) Close() error { return c.conn.Close() }
