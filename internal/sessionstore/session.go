// Package sessionstore persists and restores Session documents: the
// serializable snapshot of an agent tiling session's agents, layout, focus,
// and in-flight conversations (spec.md §3 Session, §4.8 SessionStore).
package sessionstore

import (
	"errors"
	"time"

	"github.com/pashenkov/braid/internal/bus"
	"github.com/pashenkov/braid/internal/layout"
)

// ErrSessionNotFound is returned by Load when no matching session file
// exists.
var ErrSessionNotFound = errors.New("sessionstore: session not found")

// ErrSessionCorrupt is returned by Load when a session file exists but
// fails to parse.
var ErrSessionCorrupt = errors.New("sessionstore: session file is corrupt")

// ErrNoSessionName is returned by Save when neither the session nor the
// save request carries a name (ex-command E32).
var ErrNoSessionName = errors.New("sessionstore: E32: No session name")

// AgentDescriptor is the persisted form of one pane's agent: enough to
// respawn the same kind of child process and, via the session resolver, ask
// it to resume its own prior conversation.
type AgentDescriptor struct {
	ID               string            `json:"id"`
	Name             string            `json:"name"`
	Type             string            `json:"type"`
	Command          string            `json:"command"`
	Argv             []string          `json:"argv,omitempty"`
	Env              map[string]string `json:"env,omitempty"`
	Status           string            `json:"status"`
	ExitCode         *int              `json:"exitCode,omitempty"`
	SpawnedAt        *time.Time        `json:"spawnedAt,omitempty"`
	ResumedSessionID string            `json:"resumedSessionId,omitempty"`
}

// Session is the full persisted document for one saved tiling session.
type Session struct {
	ID            string                     `json:"id"`
	Name          string                     `json:"name"`
	CreatedAt     time.Time                  `json:"createdAt"`
	UpdatedAt     time.Time                  `json:"updatedAt"`
	Agents        map[string]AgentDescriptor `json:"agents"`
	Layout        layout.TreeSnapshot        `json:"layout"`
	FocusedPaneID string                     `json:"focusedPaneId"`
	Conversations []bus.Snapshot             `json:"conversations,omitempty"`
}

// Summary is the lightweight listing form returned by List, sorted by
// UpdatedAt descending.
type Summary struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	UpdatedAt  time.Time `json:"updatedAt"`
	AgentCount int       `json:"agentCount"`
	Short      string    `json:"short"`
}
