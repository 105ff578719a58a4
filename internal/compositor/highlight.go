package compositor

import (
	"strings"
	"unicode/utf8"
)

// HighlightKind selects the SGR wrapper a highlight pass applies.
type HighlightKind int

const (
	HighlightSearchCurrent HighlightKind = iota // inverse yellow-on-black
	HighlightSearchOther                        // yellow background
	HighlightVisual                             // inverse
	HighlightCursor                              // inverse-underline
)

func (k HighlightKind) sgr() string {
	switch k {
	case HighlightSearchCurrent:
		return "\x1b[7;33;40m"
	case HighlightSearchOther:
		return "\x1b[43;30m"
	case HighlightVisual:
		return "\x1b[7m"
	case HighlightCursor:
		return "\x1b[7;4m"
	default:
		return ""
	}
}

// Span is a half-open [Start, End) range of character columns (one per
// rune, not byte offsets; SGR escapes are not counted) to wrap in a
// highlight.
type Span struct {
	Start, End int
	Kind       HighlightKind
}

// ApplyHighlights overlays spans atop an already-styled line, in the order
// given — search-match, then visual selection, then the virtual cursor,
// per spec.md §4.3.5. Each pass walks the line cell-by-cell, copying
// through any SGR escape untouched and passing through the line's own
// cells while inside the [Start,End) column range wrapped in the
// highlight's own SGR, with the original sequence restored immediately
// after so later cells keep their original style.
func ApplyHighlights(line string, spans []Span) string {
	for _, s := range spans {
		line = applyOneHighlight(line, s)
	}
	return line
}

func applyOneHighlight(line string, s Span) string {
	if s.Start >= s.End {
		return line
	}
	var b strings.Builder
	col := 0
	i := 0
	inSpan := false
	lastStyle := ""

	for i < len(line) {
		if line[i] == 0x1b {
			end := i + 1
			for end < len(line) && line[end] != 'm' {
				end++
			}
			if end < len(line) {
				end++
			}
			seq := line[i:end]
			lastStyle = seq
			b.WriteString(seq)
			i = end
			continue
		}

		wantSpan := col >= s.Start && col < s.End
		if wantSpan != inSpan {
			if wantSpan {
				b.WriteString(s.Kind.sgr())
			} else {
				b.WriteString("\x1b[0m")
				b.WriteString(lastStyle)
			}
			inSpan = wantSpan
		}
		_, size := utf8.DecodeRuneInString(line[i:])
		b.WriteString(line[i : i+size])
		col++
		i += size
	}
	if inSpan {
		b.WriteString("\x1b[0m")
		if lastStyle != "" {
			b.WriteString(lastStyle)
		}
	}
	return b.String()
}
