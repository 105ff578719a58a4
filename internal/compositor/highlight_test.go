package compositor

import (
	"strings"
	"testing"
)

func TestApplyHighlightWrapsOnlyTargetColumns(t *testing.T) {
	line := "hello world"
	out := ApplyHighlights(line, []Span{{Start: 0, End: 5, Kind: HighlightVisual}})
	if !strings.Contains(out, "hello") || !strings.Contains(out, " world") {
		t.Fatalf("expected original text to survive, got %q", out)
	}
	if !strings.Contains(out, HighlightVisual.sgr()) {
		t.Fatalf("expected the visual-selection SGR to appear, got %q", out)
	}
}

func TestApplyHighlightPreservesExistingSGR(t *testing.T) {
	line := "\x1b[1mbold\x1b[0m plain"
	out := ApplyHighlights(line, []Span{{Start: 6, End: 11, Kind: HighlightCursor}})
	if !strings.Contains(out, "\x1b[1m") {
		t.Fatalf("expected original bold escape to survive, got %q", out)
	}
	if !strings.Contains(out, HighlightCursor.sgr()) {
		t.Fatalf("expected cursor highlight SGR to appear, got %q", out)
	}
}

func TestApplyHighlightEmptySpanIsNoOp(t *testing.T) {
	line := "plain text"
	out := ApplyHighlights(line, []Span{{Start: 3, End: 3, Kind: HighlightSearchCurrent}})
	if out != line {
		t.Fatalf("expected a zero-width span to be a no-op, got %q", out)
	}
}

func TestMultipleHighlightPassesCompose(t *testing.T) {
	line := "abcdefgh"
	out := ApplyHighlights(line, []Span{
		{Start: 0, End: 3, Kind: HighlightSearchOther},
		{Start: 2, End: 5, Kind: HighlightVisual},
	})
	if !strings.Contains(out, "abcdefgh") {
		t.Fatalf("expected all original characters to survive composition, got %q", out)
	}
}
