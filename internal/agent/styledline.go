package agent

import (
	"strings"

	"github.com/vito/midterm"
)

// styledSegment is one maximal run of same-format cells from a row's
// Format.Regions walk, with its rendered text (content plus any fill
// padding beyond the row's recorded content length already folded in).
type styledSegment struct {
	format midterm.Format
	text   string
}

// StyledLine renders one row of a midterm terminal as a single line of text
// carrying its own SGR escapes, in the same region-walking style as the
// compositor's live draw path: style codes are emitted only when the style
// changes from the previous cell (via midterm's own Format.Render, which
// already implements the full attribute/16-color/256-color/truecolor
// encoding spec.md §4.2 calls for). The line is segmented by format run
// first and trimmed second: trailing segments are dropped only while they
// carry the default format, and only the default-format spaces inside the
// last surviving segment are cut. A trailing run under a non-default
// format (a colored background fill padded past the row's recorded
// content) is never touched, since nothing else reproduces it — the
// compositor clears a row with whatever SGR state is live at the moment of
// the clear, not the row's own trailing style, so this string is the only
// place that fill can live.
func StyledLine(vt *midterm.Terminal, row int) string {
	if row < 0 || row >= len(vt.Content) {
		return ""
	}
	line := vt.Content[row]

	var zero midterm.Format
	var segments []styledSegment
	pos := 0

	for region := range vt.Format.Regions(row) {
		f := region.F
		end := pos + region.Size

		var seg strings.Builder
		if pos < len(line) {
			contentEnd := end
			if contentEnd > len(line) {
				contentEnd = len(line)
			}
			seg.WriteString(string(line[pos:contentEnd]))
		}
		padStart := len(line)
		if padStart < pos {
			padStart = pos
		}
		if padStart < end {
			seg.WriteString(strings.Repeat(" ", end-padStart))
		}
		pos = end

		if len(segments) > 0 && segments[len(segments)-1].format == f {
			segments[len(segments)-1].text += seg.String()
			continue
		}
		segments = append(segments, styledSegment{format: f, text: seg.String()})
	}

	// Drop wholly-default trailing segments, then trim the default-format
	// spaces off whatever default-format segment remains at the end.
	for len(segments) > 0 && segments[len(segments)-1].format == zero {
		trimmed := strings.TrimRight(segments[len(segments)-1].text, " ")
		if trimmed != "" {
			segments[len(segments)-1].text = trimmed
			break
		}
		segments = segments[:len(segments)-1]
	}

	var b strings.Builder
	var lastFormat midterm.Format
	anyStyle := false
	for _, seg := range segments {
		if seg.format != lastFormat {
			b.WriteString("\x1b[0m")
			if seg.format != zero {
				b.WriteString(seg.format.Render())
			}
			lastFormat = seg.format
		}
		if seg.format != zero {
			anyStyle = true
		}
		b.WriteString(seg.text)
	}

	out := b.String()
	if anyStyle {
		out += "\x1b[0m"
	}
	return out
}

// PlainLine returns one row's bare text content, with no SGR escapes, for
// register yank/delete motions that copy terminal content rather than
// redraw it.
func PlainLine(vt *midterm.Terminal, row int) string {
	if row < 0 || row >= len(vt.Content) {
		return ""
	}
	return strings.TrimRight(string(vt.Content[row]), " ")
}
