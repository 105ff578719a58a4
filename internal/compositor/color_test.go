package compositor

import (
	"strings"
	"testing"

	"github.com/muesli/termenv"
)

func TestDownsamplerPassesThroughTrueColorProfile(t *testing.T) {
	d := NewDownsamplerForProfile(termenv.TrueColor)
	line := "\x1b[38;2;10;20;30mhi\x1b[0m"
	if got := d.Apply(line); got != line {
		t.Fatalf("expected TrueColor profile to pass the line through unchanged, got %q", got)
	}
}

func TestDownsamplerRewritesTruecolorTo256(t *testing.T) {
	d := NewDownsamplerForProfile(termenv.ANSI256)
	line := "\x1b[38;2;255;0;0mred\x1b[0m"
	out := d.Apply(line)
	if strings.Contains(out, "38;2") {
		t.Fatalf("expected truecolor codes to be rewritten, got %q", out)
	}
	if !strings.Contains(out, "38;5;") {
		t.Fatalf("expected a 256-color SGR code, got %q", out)
	}
	if !strings.Contains(out, "red") {
		t.Fatalf("expected line content to survive rewriting, got %q", out)
	}
}

func TestDownsamplerDropsColorUnderAscii(t *testing.T) {
	d := NewDownsamplerForProfile(termenv.Ascii)
	out := d.Apply("\x1b[1;38;2;255;0;0mbold red\x1b[0m")
	if strings.Contains(out, "38") {
		t.Fatalf("expected color codes stripped under Ascii profile, got %q", out)
	}
	if !strings.Contains(out, "1") {
		t.Fatalf("expected the bold attribute to survive, got %q", out)
	}
}

func TestNearest256MatchesExactPaletteEntries(t *testing.T) {
	// Pure red (255,0,0) is exactly both ANSI color 9 and cube color 196;
	// the tie goes to the lower index.
	if got := Nearest256(255, 0, 0); got != 9 {
		t.Fatalf("expected pure red to map to palette index 9, got %d", got)
	}
	// Pure black should map to index 0 or cube entry 16, both exact.
	got := Nearest256(0, 0, 0)
	if xterm256Palette[got].R != 0 || xterm256Palette[got].G != 0 || xterm256Palette[got].B != 0 {
		t.Fatalf("expected an exact black match, got index %d", got)
	}
}
