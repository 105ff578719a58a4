package host

import "testing"

func TestParseMouseLeftClickPress(t *testing.T) {
	ev, n, ok := ParseMouse([]byte("\x1b[<0;10;5M"))
	if !ok {
		t.Fatalf("expected a parsed event")
	}
	if ev.Button != 0 || ev.X != 10 || ev.Y != 5 || ev.Action != MousePress {
		t.Fatalf("unexpected event: %+v", ev)
	}
	if n != len("\x1b[<0;10;5M") {
		t.Fatalf("expected to consume the whole sequence, consumed %d", n)
	}
}

func TestParseMouseRelease(t *testing.T) {
	ev, _, ok := ParseMouse([]byte("\x1b[<0;10;5m"))
	if !ok || ev.Action != MouseRelease {
		t.Fatalf("expected a release event, got %+v ok=%v", ev, ok)
	}
}

func TestParseMouseScrollUpAndDown(t *testing.T) {
	up, _, ok := ParseMouse([]byte("\x1b[<64;1;1M"))
	if !ok || up.Scroll != 1 {
		t.Fatalf("expected scroll up, got %+v", up)
	}
	down, _, ok := ParseMouse([]byte("\x1b[<65;1;1M"))
	if !ok || down.Scroll != -1 {
		t.Fatalf("expected scroll down, got %+v", down)
	}
}

func TestParseMouseModifierBits(t *testing.T) {
	// button 0 + shift(4) + meta(8) + ctrl(16) = 28
	ev, _, ok := ParseMouse([]byte("\x1b[<28;3;3M"))
	if !ok {
		t.Fatalf("expected parse ok")
	}
	if !ev.Shift || !ev.Meta || !ev.Ctrl {
		t.Fatalf("expected all modifiers set, got %+v", ev)
	}
}

func TestParseMouseIncompleteSequenceFails(t *testing.T) {
	if _, _, ok := ParseMouse([]byte("\x1b[<0;10")); ok {
		t.Fatalf("expected incomplete sequence to fail")
	}
}

func TestParseMouseNonMouseEscapeFails(t *testing.T) {
	if _, _, ok := ParseMouse([]byte("\x1b[6n")); ok {
		t.Fatalf("expected a non-mouse CSI to fail")
	}
}
