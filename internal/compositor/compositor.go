// Package compositor owns the frame pipeline: per-pane scroll/follow-tail
// state, the output-reflow state machine that hides VT-library scrollback
// churn, the two-phase resize pipeline, and the highlighting passes drawn
// atop the focused pane. It assembles one output chunk per draw, wrapped in
// DEC 2026 synchronized-update markers, the way the teacher's
// Session.pipeOutputCallback fans a single PTY read out to every attached
// client's RenderScreen/RenderBar.
package compositor

import (
	"sync"
	"time"

	"github.com/pashenkov/braid/internal/layout"
)

// ResizePhase is the compositor-wide resize pipeline state (spec.md §4.3.4).
type ResizePhase int

const (
	ResizeIdle ResizePhase = iota
	ResizeCached
	ResizeReflowing
)

// ReflowPhase is a per-pane output-reflow state (spec.md §4.3.3).
type ReflowPhase int

const (
	ReflowIdlePhase ReflowPhase = iota
	ReflowingPhase
)

// Defaults for the reflow timers, from spec.md §9's calibration notes.
// Overridable via config.ReflowTuning.
const (
	DefaultSilenceMinMs = 70
	DefaultSilenceMaxMs = 120
	DefaultMaxMinMs     = 350
	DefaultMaxMaxMs     = 800

	DefaultFrameIntervalMs = 33
	DefaultCPSWindowMs     = 5000
)

// PaneState holds all per-pane compositor state, keyed by paneId in
// Compositor.panes.
type PaneState struct {
	ScrollOffset        int
	FollowTail          bool
	ScrollLock          bool
	LastContentHeight   int
	StableContentHeight int
	ReflowPhase         ReflowPhase

	clearEvents []time.Time // sliding window for adaptive silence timer

	silenceTimer *time.Timer
	maxTimer     *time.Timer

	frameCache []string // captured visible lines during a resize

	cursorRow, cursorCol int
	cursorVisible        bool

	paneHeight int // last known pane height, refreshed by SyncPaneHeights
}

func newPaneState() *PaneState {
	return &PaneState{FollowTail: true}
}

// Tuning carries the reflow timer bounds and frame cadence, normally
// sourced from config.ReflowTuning / config.EnvInt.
type Tuning struct {
	SilenceMinMs, SilenceMaxMs int
	MaxMinMs, MaxMaxMs         int
	FrameIntervalMs            int
	CPSWindowMs                int
}

// DefaultTuning returns the built-in timer bounds.
func DefaultTuning() Tuning {
	return Tuning{
		SilenceMinMs:    DefaultSilenceMinMs,
		SilenceMaxMs:    DefaultSilenceMaxMs,
		MaxMinMs:        DefaultMaxMinMs,
		MaxMaxMs:        DefaultMaxMaxMs,
		FrameIntervalMs: DefaultFrameIntervalMs,
		CPSWindowMs:     DefaultCPSWindowMs,
	}
}

// Compositor composites every pane's styled lines, the tab bar, borders,
// overlays, and the status bar into one synchronized frame.
type Compositor struct {
	mu     sync.Mutex
	Tree   *layout.Tree
	Tuning Tuning

	panes map[string]*PaneState

	resizePhase ResizePhase
	frameCache  map[string][]string // paneId -> cached visible lines, valid during a resize

	drawPending bool
	drawTimer   *time.Timer
	onDraw      func()

	// clock is overridable for deterministic tests.
	clock func() time.Time
}

// New creates a Compositor bound to tree, using t for reflow/frame tuning.
func New(tree *layout.Tree, t Tuning) *Compositor {
	return &Compositor{
		Tree:        tree,
		Tuning:      t,
		panes:       make(map[string]*PaneState),
		frameCache:  make(map[string][]string),
		resizePhase: ResizeIdle,
		clock:       time.Now,
	}
}

// OnDraw registers the callback invoked every time ScheduleDraw's coalesced
// timer fires (the compositor's own Draw does the actual composition; the
// callback lets the host flush VT output to the real terminal).
func (c *Compositor) OnDraw(fn func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onDraw = fn
}

func (c *Compositor) state(paneID string) *PaneState {
	ps, ok := c.panes[paneID]
	if !ok {
		ps = newPaneState()
		c.panes[paneID] = ps
	}
	return ps
}

// ForgetPane drops all compositor state for a closed pane.
func (c *Compositor) ForgetPane(paneID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if ps, ok := c.panes[paneID]; ok {
		if ps.silenceTimer != nil {
			ps.silenceTimer.Stop()
		}
		if ps.maxTimer != nil {
			ps.maxTimer.Stop()
		}
	}
	delete(c.panes, paneID)
	delete(c.frameCache, paneID)
}

// ResizePhase reports the compositor-wide resize pipeline phase.
func (c *Compositor) ResizePhase() ResizePhase {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.resizePhase
}

// ScheduleDraw coalesces redraws to at most one per FrameIntervalMs. Safe to
// call from any goroutine (PTY readers, input handlers, resize watchers).
func (c *Compositor) ScheduleDraw() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.drawPending {
		return
	}
	c.drawPending = true
	interval := time.Duration(c.Tuning.FrameIntervalMs) * time.Millisecond
	c.drawTimer = time.AfterFunc(interval, c.tick)
}

func (c *Compositor) tick() {
	c.mu.Lock()
	c.drawPending = false
	c.syncPaneHeightsLocked()
	for _, ps := range c.panes {
		if c.resizePhase == ResizeIdle && ps.ReflowPhase == ReflowIdlePhase && !ps.ScrollLock && ps.FollowTail {
			ps.ScrollOffset = maxScroll(ps)
		}
	}
	cb := c.onDraw
	c.mu.Unlock()
	if cb != nil {
		cb()
	}
}

// SyncPaneHeights refreshes every known pane's cached height from the
// current layout tree bounds. The dispatcher calls this after any
// split/close/zoom/equalize/resize, per spec.md §4.5's onResize contract.
func (c *Compositor) SyncPaneHeights() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.syncPaneHeightsLocked()
}

func (c *Compositor) syncPaneHeightsLocked() {
	for _, p := range c.Tree.AllPanes() {
		c.state(p.PaneID).paneHeight = p.Bounds.Height
	}
}

// maxScroll computes max(0, contentHeight(p) - paneHeight(p)) per spec.md
// §4.3.2, using the stable height while reflowing so a scroll-locked
// pane's absolute position doesn't jump mid-churn.
func maxScroll(ps *PaneState) int {
	height := ps.LastContentHeight
	if ps.ReflowPhase == ReflowingPhase {
		height = ps.StableContentHeight
	}
	m := height - ps.paneHeight
	if m < 0 {
		return 0
	}
	return m
}
