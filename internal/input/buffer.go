package input

const (
	backspace1 = 0x7F
	backspace2 = 0x08
	crByte     = 0x0D
	lfByte     = 0x0A
)

// handleSearchByte accumulates bytes typed after `/` or `?` until Enter
// submits the pattern or ESC (handled upstream in handleEscape) cancels it.
func (r *Router) handleSearchByte(b byte) Action {
	switch b {
	case crByte, lfByte:
		pattern := append([]byte(nil), r.searchBuf...)
		r.searchBuf = nil
		r.mode = ModeNormal
		return Action{Type: ActionSearchSubmit, Bytes: pattern, Forward: r.searchForward}
	case backspace1, backspace2:
		if len(r.searchBuf) > 0 {
			r.searchBuf = r.searchBuf[:len(r.searchBuf)-1]
		}
		return Action{Type: ActionNone}
	default:
		r.searchBuf = append(r.searchBuf, b)
		return Action{Type: ActionNone}
	}
}

// handleCommandByte accumulates bytes typed after `:` until Enter submits
// the ex-command line.
func (r *Router) handleCommandByte(b byte) Action {
	switch b {
	case crByte, lfByte:
		line := append([]byte(nil), r.cmdBuf...)
		r.cmdBuf = nil
		r.mode = ModeNormal
		return Action{Type: ActionExCommandSubmit, Bytes: line}
	case backspace1, backspace2:
		if len(r.cmdBuf) > 0 {
			r.cmdBuf = r.cmdBuf[:len(r.cmdBuf)-1]
		}
		return Action{Type: ActionNone}
	default:
		r.cmdBuf = append(r.cmdBuf, b)
		return Action{Type: ActionNone}
	}
}
