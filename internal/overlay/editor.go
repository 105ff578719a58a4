// Package overlay implements the modal dialog stack painted atop the pane
// grid: the agent picker, the FIPA message composer/viewer, and help.
package overlay

import "unicode"

// LineEditor is a single-line, readline-ish text field: every dialog that
// takes free-form input (the ACL composer's to/content lines, the agent
// picker's custom-command line) owns its own LineEditor instance, so two
// fields on the same dialog never share cursor or history state. The
// buffer is kept as runes rather than raw bytes, since CursorPos is a
// field position meant for a human to reason about (and for Render to
// pair with runewidth when drawing the cursor marker), not a wire offset.
type LineEditor struct {
	buf []rune

	CursorPos int // rune index, 0..len(buf)

	History []string
	// histPos counts back from the newest history entry: 0 means the
	// live buffer, 1 the most recent entry, 2 the one before it, and so
	// on. stash holds the buffer that was live before history browsing
	// started, restored once histPos returns to 0.
	histPos int
	stash   []rune
}

// NewLineEditor returns an empty editor ready for input.
func NewLineEditor() *LineEditor {
	return &LineEditor{}
}

// Text returns the current buffer contents.
func (e *LineEditor) Text() string { return string(e.buf) }

// Reset clears the buffer and cursor, preserving history.
func (e *LineEditor) Reset() {
	e.buf = e.buf[:0]
	e.CursorPos = 0
	e.histPos = 0
	e.stash = nil
}

// PushHistory records the current buffer as a history entry and resets.
func (e *LineEditor) PushHistory() {
	if len(e.buf) > 0 {
		e.History = append(e.History, string(e.buf))
	}
	e.Reset()
}

// InsertByte inserts a single printable byte at the cursor position. Every
// caller in this package only ever forwards bytes already checked against
// the printable-ASCII range, so treating b as its own rune is exact.
func (e *LineEditor) InsertByte(b byte) {
	e.insertRune(rune(b))
}

func (e *LineEditor) insertRune(r rune) {
	e.buf = append(e.buf, 0)
	copy(e.buf[e.CursorPos+1:], e.buf[e.CursorPos:])
	e.buf[e.CursorPos] = r
	e.CursorPos++
}

// DeleteBackward removes the rune before the cursor. Returns true if a
// character was deleted.
func (e *LineEditor) DeleteBackward() bool {
	if e.CursorPos <= 0 {
		return false
	}
	e.buf = append(e.buf[:e.CursorPos-1], e.buf[e.CursorPos:]...)
	e.CursorPos--
	return true
}

// DeleteWordBackward removes the word behind the cursor, the way readline's
// Ctrl-W does, so kill-ring-style edits don't require backspacing one
// character at a time through a misspelled agent id or a long sentence.
func (e *LineEditor) DeleteWordBackward() bool {
	if e.CursorPos <= 0 {
		return false
	}
	start := e.wordStartBefore(e.CursorPos)
	e.buf = append(e.buf[:start], e.buf[e.CursorPos:]...)
	e.CursorPos = start
	return true
}

func (e *LineEditor) wordStartBefore(i int) int {
	for i > 0 && !isWordChar(e.buf[i-1]) {
		i--
	}
	for i > 0 && isWordChar(e.buf[i-1]) {
		i--
	}
	return i
}

func (e *LineEditor) wordEndAfter(i int) int {
	for i < len(e.buf) && !isWordChar(e.buf[i]) {
		i++
	}
	for i < len(e.buf) && isWordChar(e.buf[i]) {
		i++
	}
	return i
}

// CursorLeft moves the cursor left by one rune.
func (e *LineEditor) CursorLeft() {
	if e.CursorPos > 0 {
		e.CursorPos--
	}
}

// CursorRight moves the cursor right by one rune.
func (e *LineEditor) CursorRight() {
	if e.CursorPos < len(e.buf) {
		e.CursorPos++
	}
}

// CursorToStart moves the cursor to the beginning of the input.
func (e *LineEditor) CursorToStart() { e.CursorPos = 0 }

// CursorToEnd moves the cursor to the end of the input.
func (e *LineEditor) CursorToEnd() { e.CursorPos = len(e.buf) }

// CursorForwardWord moves the cursor forward to the end of the next word.
func (e *LineEditor) CursorForwardWord() {
	e.CursorPos = e.wordEndAfter(e.CursorPos)
}

// CursorBackwardWord moves the cursor backward to the start of the
// previous word.
func (e *LineEditor) CursorBackwardWord() {
	e.CursorPos = e.wordStartBefore(e.CursorPos)
}

// KillToEnd removes text from the cursor to the end of the input.
func (e *LineEditor) KillToEnd() { e.buf = e.buf[:e.CursorPos] }

// KillToStart removes text from the beginning of the input to the cursor.
func (e *LineEditor) KillToStart() {
	e.buf = append(e.buf[:0], e.buf[e.CursorPos:]...)
	e.CursorPos = 0
}

// HistoryUp moves to the previous history entry, stashing the in-progress
// buffer the first time it's called.
func (e *LineEditor) HistoryUp() {
	if e.histPos >= len(e.History) {
		return
	}
	if e.histPos == 0 {
		e.stash = append([]rune(nil), e.buf...)
	}
	e.histPos++
	e.load(e.History[len(e.History)-e.histPos])
}

// HistoryDown moves to the next (more recent) history entry, restoring the
// stashed in-progress buffer once the live end is reached again.
func (e *LineEditor) HistoryDown() {
	if e.histPos == 0 {
		return
	}
	e.histPos--
	if e.histPos == 0 {
		e.load(string(e.stash))
		e.stash = nil
		return
	}
	e.load(e.History[len(e.History)-e.histPos])
}

func (e *LineEditor) load(s string) {
	e.buf = []rune(s)
	e.CursorPos = len(e.buf)
}

func isWordChar(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_'
}
