package input

// handlePrefixByte selects the submode following Ctrl-Space.
func (r *Router) handlePrefixByte(b byte) Action {
	r.prefixActive = false

	switch b {
	case 'n':
		r.mode = ModeNormal
		return Action{Type: ActionModeSwitch, Mode: ModeNormal}
	case 'i':
		r.mode = ModeInsert
		return Action{Type: ActionModeSwitch, Mode: ModeInsert}
	case 'v':
		r.mode = ModeVisual
		return Action{Type: ActionModeSwitch, Mode: ModeVisual}
	case 'V':
		r.mode = ModeVisualLine
		return Action{Type: ActionModeSwitch, Mode: ModeVisualLine}
	case 'c':
		r.mode = ModeChat
		return Action{Type: ActionModeSwitch, Mode: ModeChat}
	case 'w', 'W':
		r.layoutPrefix = true
		return Action{Type: ActionNone}
	case 'a', 'A':
		r.ipcPrefix = true
		return Action{Type: ActionNone}
	case 'f', 'F':
		r.aclPrefix = true
		return Action{Type: ActionNone}
	case '[':
		return Action{Type: ActionTabPrev}
	case ']':
		return Action{Type: ActionTabNext}
	case '/', '?':
		r.mode = ModeSearch
		r.searchForward = b == '/'
		r.searchBuf = nil
		return Action{Type: ActionSearchBegin, Forward: r.searchForward}
	case ':':
		r.mode = ModeCommand
		r.cmdBuf = nil
		return Action{Type: ActionExCommandBegin}
	case 'q':
		return Action{Type: ActionQuit}
	case 'Q':
		return Action{Type: ActionForceQuit}
	case 'S':
		return Action{Type: ActionSave}
	case 'H':
		return Action{Type: ActionHelp}
	default:
		if b >= '1' && b <= '9' {
			return Action{Type: ActionTabSwitch, Index: int(b - '0')}
		}
		return Action{Type: ActionNone}
	}
}

// handleLayoutPrefixByte handles the byte following the `w`/`W` layout
// submode selector.
func (r *Router) handleLayoutPrefixByte(b byte) Action {
	switch b {
	case 'h', 'j', 'k', 'l':
		return Action{Type: ActionLayoutFocus, Direction: b}
	case 'w':
		return Action{Type: ActionLayoutCycle, Forward: true}
	case 'W':
		return Action{Type: ActionLayoutCycle, Forward: false}
	case 's':
		return Action{Type: ActionLayoutSplit, Vertical: false}
	case 'v':
		return Action{Type: ActionLayoutSplit, Vertical: true}
	case 'c':
		return Action{Type: ActionLayoutClose}
	case 'o':
		return Action{Type: ActionLayoutOnly}
	case 'z':
		return Action{Type: ActionLayoutZoom}
	case '=':
		return Action{Type: ActionLayoutEqualize}
	case '+':
		return Action{Type: ActionLayoutResizeHeight, Delta: 1}
	case '-':
		return Action{Type: ActionLayoutResizeHeight, Delta: -1}
	case '>':
		return Action{Type: ActionLayoutResizeWidth, Delta: 1}
	case '<':
		return Action{Type: ActionLayoutResizeWidth, Delta: -1}
	case 'x':
		return Action{Type: ActionLayoutSwap}
	case 'r':
		return Action{Type: ActionLayoutRotate}
	default:
		return Action{Type: ActionNone}
	}
}

// handleIPCPrefixByte handles the byte following the `a`/`A` ipc submode
// selector. Raw IPC compose is a single free-form follow-up byte interpreted
// by the overlay (e.g. a digit selecting the target agent).
func (r *Router) handleIPCPrefixByte(b byte) Action {
	return Action{Type: ActionIPCCompose, Direction: b}
}

// handleACLPrefixByte handles the byte following the `f`/`F` FIPA submode
// selector: one letter per performative or panel command.
func (r *Router) handleACLPrefixByte(b byte) Action {
	switch b {
	case 'r':
		return Action{Type: ActionFIPAPerformative, Performative: "REQUEST"}
	case 'i':
		return Action{Type: ActionFIPAPerformative, Performative: "INFORM"}
	case 'q':
		return Action{Type: ActionFIPAPerformative, Performative: "QUERY-IF"}
	case 'Q':
		return Action{Type: ActionFIPAPerformative, Performative: "QUERY-REF"}
	case 'c':
		return Action{Type: ActionFIPAPerformative, Performative: "CFP"}
	case 'p':
		return Action{Type: ActionFIPAPerformative, Performative: "PROPOSE"}
	case 'A':
		return Action{Type: ActionFIPAPerformative, Performative: "ACCEPT"}
	case 'R':
		return Action{Type: ActionFIPAPerformative, Performative: "REJECT"}
	case 'a':
		return Action{Type: ActionFIPAPerformative, Performative: "AGREE"}
	case 'f':
		return Action{Type: ActionFIPAPerformative, Performative: "REFUSE"}
	case 'F':
		return Action{Type: ActionFIPAPerformative, Performative: "FAILURE"}
	case 's':
		return Action{Type: ActionFIPAPerformative, Performative: "SUBSCRIBE"}
	case 'l':
		return Action{Type: ActionFIPAList}
	case 'v':
		return Action{Type: ActionFIPAView}
	case 'x':
		return Action{Type: ActionFIPACancel}
	case '1':
		return Action{Type: ActionFIPAStyle, Style: "structured"}
	case '2':
		return Action{Type: ActionFIPAStyle, Style: "natural"}
	case '3':
		return Action{Type: ActionFIPAStyle, Style: "minimal"}
	case 'h':
		return Action{Type: ActionFIPAHelp}
	default:
		return Action{Type: ActionNone}
	}
}
