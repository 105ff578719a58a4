package app

import (
	"os"

	"github.com/pashenkov/braid/internal/host"
)

// enqueue posts fn to be run on the input loop's goroutine, the one place
// the tree, compositor, and agent map are mutated from outside their own
// internal locks. Safe to call from any goroutine; silently dropped if the
// app has already begun shutting down and stopped draining work.
func (a *App) enqueue(fn func()) {
	select {
	case a.work <- fn:
	case <-a.quitCh:
	}
}

// inputLoop is the single goroutine that owns the tree/compositor/overlay/
// router state: it drains raw stdin bytes (via a dedicated reader
// goroutine) and closures enqueued by host signal callbacks, until Quit is
// requested or stdin is closed.
func (a *App) inputLoop() {
	stdin := make(chan []byte, 16)
	go readStdin(stdin)

	for {
		select {
		case <-a.quitCh:
			return
		case fn := <-a.work:
			fn()
		case chunk, ok := <-stdin:
			if !ok {
				a.requestQuit(0)
				return
			}
			a.handleInput(chunk)
		}
	}
}

func readStdin(out chan<- []byte) {
	buf := make([]byte, 4096)
	for {
		n, err := os.Stdin.Read(buf)
		if n > 0 {
			chunk := make([]byte, n)
			copy(chunk, buf[:n])
			out <- chunk
		}
		if err != nil {
			close(out)
			return
		}
	}
}

// handleInput consumes one chunk of raw stdin bytes: a leading mouse
// escape sequence is decoded and consumed whole; every other byte goes to
// the overlay stack if one is open, otherwise to the input router and on
// to the action dispatcher.
func (a *App) handleInput(chunk []byte) {
	for len(chunk) > 0 {
		if chunk[0] == 0x1b {
			if ev, n, ok := host.ParseMouse(chunk); ok {
				a.handleMouse(ev)
				chunk = chunk[n:]
				continue
			}
		}
		a.handleByte(chunk[0])
		chunk = chunk[1:]
	}
	a.compositor.ScheduleDraw()
}

func (a *App) handleByte(b byte) {
	if a.overlays.Active() {
		kind, done, result := a.overlays.HandleKey(b)
		if done {
			a.dispatcher.HandleOverlayResult(kind, result)
		}
		return
	}
	act := a.router.Handle(b)
	if err := a.dispatcher.Dispatch(act); err != nil {
		a.setStatus(err.Error())
	}
}

func (a *App) handleMouse(ev host.MouseEvent) {
	p, ok := a.tree.FindPaneAt(ev.X-1, ev.Y-1)
	if !ok {
		return
	}
	a.tree.FocusPane(p.ID)
	if ev.Scroll != 0 {
		a.compositor.ScrollPane(p.AgentID, -ev.Scroll*3)
	}
}
