package input

// handleModalByte handles a byte in normal, visual, or visual-line mode
// once prefix/register/operator substates have been ruled out.
func (r *Router) handleModalByte(b byte) Action {
	if b >= '1' && b <= '9' {
		r.pendingCount += string(b)
		return Action{Type: ActionNone}
	}
	if b == '0' && r.pendingCount != "" {
		r.pendingCount += string(b)
		return Action{Type: ActionNone}
	}

	if r.pendingGPrefix {
		r.pendingGPrefix = false
		if b == 'g' {
			return r.emitMotion("top")
		}
		r.pendingCount = ""
		return Action{Type: ActionNone}
	}

	switch b {
	case '"':
		r.awaitingRegister = true
		return Action{Type: ActionNone}

	case 'y', 'd':
		if r.mode == ModeVisual || r.mode == ModeVisualLine {
			a := Action{
				Type:     ActionMotion,
				Motion:   "visual-selection",
				Operator: operatorFor(b),
				Count:    r.takeCount(),
				Register: r.takeRegister(),
			}
			r.mode = ModeNormal
			return a
		}
		r.pendingOperator = operatorFor(b)
		return Action{Type: ActionNone}

	case 'x':
		if r.mode == ModeVisual || r.mode == ModeVisualLine {
			a := Action{
				Type:     ActionMotion,
				Motion:   "visual-selection",
				Operator: OperatorDelete,
				Count:    r.takeCount(),
				Register: r.takeRegister(),
			}
			r.mode = ModeNormal
			return a
		}
		return Action{Type: ActionNone}

	case 'p', 'P':
		return Action{
			Type:     ActionPaste,
			Before:   b == 'P',
			Register: r.takeRegister(),
		}

	case 'i':
		if r.mode == ModeNormal {
			r.mode = ModeInsert
			return Action{Type: ActionModeSwitch, Mode: ModeInsert}
		}
		return Action{Type: ActionNone}

	case 'v':
		if r.mode == ModeVisual {
			r.mode = ModeNormal
		} else {
			r.mode = ModeVisual
		}
		return Action{Type: ActionModeSwitch, Mode: r.mode}

	case 'V':
		if r.mode == ModeVisualLine {
			r.mode = ModeNormal
		} else {
			r.mode = ModeVisualLine
		}
		return Action{Type: ActionModeSwitch, Mode: r.mode}

	case ':':
		r.mode = ModeCommand
		r.cmdBuf = nil
		return Action{Type: ActionExCommandBegin}

	case '/', '?':
		r.mode = ModeSearch
		r.searchForward = b == '/'
		r.searchBuf = nil
		return Action{Type: ActionSearchBegin, Forward: r.searchForward}

	case 'n':
		return r.emitMotion("search-next")
	case 'N':
		return r.emitMotion("search-prev")

	case 'g':
		r.pendingGPrefix = true
		return Action{Type: ActionNone}

	case 'h':
		return r.emitMotion("left")
	case 'j':
		return r.emitMotion("down")
	case 'k':
		return r.emitMotion("up")
	case 'l':
		return r.emitMotion("right")
	case 'w':
		return r.emitMotion("word")
	case 'W':
		return r.emitMotion("WORD")
	case 'e':
		return r.emitMotion("word-end")
	case 'E':
		return r.emitMotion("WORD-end")
	case 'b' & 0x1F: // ctrl+b
		return r.emitMotion("page-up")
	case 'f' & 0x1F: // ctrl+f
		return r.emitMotion("page-down")
	case 'd' & 0x1F: // ctrl+d
		return r.emitMotion("half-page-down")
	case 'u' & 0x1F: // ctrl+u
		return r.emitMotion("half-page-up")
	case 'b':
		return r.emitMotion("word-back")
	case 'B':
		return r.emitMotion("WORD-back")
	case '0':
		return r.emitMotion("bol")
	case '^':
		return r.emitMotion("bol-nonblank")
	case '$':
		return r.emitMotion("eol")
	case 'G':
		return r.emitMotion("bottom")

	default:
		r.pendingCount = ""
		return Action{Type: ActionNone}
	}
}

func operatorFor(b byte) Operator {
	if b == 'y' {
		return OperatorYank
	}
	return OperatorDelete
}

func (r *Router) emitMotion(motion string) Action {
	return Action{
		Type:     ActionMotion,
		Motion:   motion,
		Operator: OperatorNone,
		Count:    r.takeCount(),
		Register: r.takeRegister(),
	}
}

// handlePendingOperatorByte handles the motion byte following a pending y/d
// operator: y/d (line), w (word), e (word-end), $ (eol), 0/^ (bol), G (end
// of buffer), gg (top). Anything else cancels the operator.
func (r *Router) handlePendingOperatorByte(b byte) Action {
	op := r.pendingOperator

	if r.pendingGPrefix {
		r.pendingGPrefix = false
		r.pendingOperator = OperatorNone
		if b == 'g' {
			return Action{Type: ActionMotion, Motion: "top", Operator: op, Count: r.takeCount(), Register: r.takeRegister()}
		}
		r.pendingCount = ""
		return Action{Type: ActionNone}
	}

	var motion string
	switch b {
	case 'y', 'd':
		if (b == 'y' && op == OperatorYank) || (b == 'd' && op == OperatorDelete) {
			motion = "line"
		} else {
			r.pendingOperator = OperatorNone
			r.pendingCount = ""
			return Action{Type: ActionNone}
		}
	case 'g':
		r.pendingGPrefix = true
		return Action{Type: ActionNone}
	case 'w':
		motion = "word"
	case 'e':
		motion = "word-end"
	case '$':
		motion = "eol"
	case '0', '^':
		motion = "bol"
	case 'G':
		motion = "bottom"
	default:
		r.pendingOperator = OperatorNone
		r.pendingCount = ""
		return Action{Type: ActionNone}
	}

	r.pendingOperator = OperatorNone
	return Action{Type: ActionMotion, Motion: motion, Operator: op, Count: r.takeCount(), Register: r.takeRegister()}
}
