// Package register implements the per-agent yank/delete register store:
// named registers, the unnamed and numbered-yank registers, and the system
// clipboard bridge via OSC 52.
package register

import (
	"strings"
	"sync"

	"github.com/aymanbagabas/go-osc52/v2"
)

// Kind distinguishes a line-wise register entry from a character-wise one,
// mirroring vim's register semantics for how appends join content.
type Kind int

const (
	KindCharwise Kind = iota
	KindLinewise
)

// Entry is one register's content.
type Entry struct {
	Content string
	Kind    Kind
}

const (
	unnamed = '"'
	yankReg = '0'
	plus    = '+'
	star    = '*'
)

// Store holds every agent's registers. Registers are scoped per agent id so
// that two panes never bleed into each other's clipboard state.
type Store struct {
	mu       sync.Mutex
	perAgent map[string]map[byte]Entry
	clipOut  func(string) // clipboard write hook; defaults to OSC 52 over stdout
}

// New returns an empty Store that emits OSC 52 sequences to w for `+`/`*`
// register writes.
func New(w ClipboardWriter) *Store {
	s := &Store{perAgent: make(map[string]map[byte]Entry)}
	s.clipOut = func(content string) {
		seq := osc52.New(content)
		if w != nil {
			seq.WriteTo(w)
		}
	}
	return s
}

// ClipboardWriter is the subset of io.Writer the OSC 52 sequence is written
// to — normally the terminal host's raw stdout.
type ClipboardWriter interface {
	Write(p []byte) (int, error)
}

func (s *Store) registersFor(agentID string) map[byte]Entry {
	m, ok := s.perAgent[agentID]
	if !ok {
		m = make(map[byte]Entry)
		s.perAgent[agentID] = m
	}
	return m
}

// Yank records content into the unnamed register `"` and the yank register
// `0`, and additionally into target if given: a lowercase letter replaces
// that register, an uppercase letter appends to its lowercase twin (joined
// with a newline when either side is line-kind). `+`/`*` also route to the
// system clipboard via OSC 52.
func (s *Store) Yank(agentID, content string, kind Kind, target byte, append bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	regs := s.registersFor(agentID)
	regs[unnamed] = Entry{Content: content, Kind: kind}
	regs[yankReg] = Entry{Content: content, Kind: kind}

	if target == 0 {
		return
	}

	if target == plus || target == star {
		regs[target] = Entry{Content: content, Kind: kind}
		s.clipOut(content)
		return
	}

	lower := target
	if target >= 'A' && target <= 'Z' {
		lower = target - 'A' + 'a'
	}

	if append && (target >= 'A' && target <= 'Z') {
		existing, ok := regs[lower]
		if !ok {
			regs[lower] = Entry{Content: content, Kind: kind}
			return
		}
		joinKind := existing.Kind
		if kind == KindLinewise {
			joinKind = KindLinewise
		}
		joined := existing.Content
		if joinKind == KindLinewise && !strings.HasSuffix(joined, "\n") {
			joined += "\n"
		}
		joined += content
		regs[lower] = Entry{Content: joined, Kind: joinKind}
		return
	}

	regs[lower] = Entry{Content: content, Kind: kind}
}

// Get returns the named register's entry for agentID. An empty name
// returns the unnamed register.
func (s *Store) Get(agentID string, name byte) (Entry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if name == 0 {
		name = unnamed
	}
	regs := s.registersFor(agentID)
	e, ok := regs[name]
	return e, ok
}

// Forget drops every register belonging to agentID, called on pane close.
func (s *Store) Forget(agentID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.perAgent, agentID)
}
