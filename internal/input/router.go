// Package input translates raw terminal bytes into action descriptors. It
// is a Mealy machine: every byte produces at most one Action, and the
// router never mutates anything outside its own modal state.
package input

// Mode is the router's top-level mode.
type Mode int

const (
	ModeInsert Mode = iota
	ModeNormal
	ModeVisual
	ModeVisualLine
	ModeSearch
	ModeCommand
	ModeChat
)

func (m Mode) String() string {
	switch m {
	case ModeInsert:
		return "insert"
	case ModeNormal:
		return "normal"
	case ModeVisual:
		return "visual"
	case ModeVisualLine:
		return "visual-line"
	case ModeSearch:
		return "search"
	case ModeCommand:
		return "command"
	case ModeChat:
		return "chat"
	default:
		return "unknown"
	}
}

const (
	ctrlSpace = 0x00
	escByte   = 0x1B
)

// Router is the InputRouter: a single modal byte-stream translator shared
// by every pane's keyboard focus.
type Router struct {
	mode Mode

	prefixActive bool
	layoutPrefix bool
	ipcPrefix    bool
	aclPrefix    bool

	awaitingRegister bool
	pendingRegister  byte

	pendingOperator Operator
	pendingGPrefix  bool // saw a bare 'g', waiting for a second 'g' (gg)
	pendingCount    string

	searchForward bool
	searchBuf     []byte

	cmdBuf []byte
}

// New returns a Router starting in insert mode, matching the contract that
// a freshly focused pane forwards bytes straight to its agent.
func New() *Router {
	return &Router{mode: ModeInsert}
}

// Mode reports the router's current top-level mode.
func (r *Router) Mode() Mode { return r.mode }

// SetMode forces the router into mode, clearing any pending substate. Used
// by the dispatcher to reconcile router state after a pane focus change.
func (r *Router) SetMode(mode Mode) {
	r.resetPending()
	r.mode = mode
}

// Handle consumes one byte and returns the resulting Action. ActionNone
// means the byte was absorbed into pending modal state with no externally
// visible effect yet.
func (r *Router) Handle(b byte) Action {
	if r.prefixActive {
		return r.handlePrefixByte(b)
	}
	if r.layoutPrefix {
		r.layoutPrefix = false
		return r.handleLayoutPrefixByte(b)
	}
	if r.ipcPrefix {
		r.ipcPrefix = false
		return r.handleIPCPrefixByte(b)
	}
	if r.aclPrefix {
		r.aclPrefix = false
		return r.handleACLPrefixByte(b)
	}

	if b == ctrlSpace {
		r.prefixActive = true
		return Action{Type: ActionNone}
	}

	if b == escByte {
		return r.handleEscape()
	}

	switch r.mode {
	case ModeInsert, ModeChat:
		return Action{Type: ActionForward, Bytes: []byte{b}}
	case ModeSearch:
		return r.handleSearchByte(b)
	case ModeCommand:
		return r.handleCommandByte(b)
	case ModeNormal, ModeVisual, ModeVisualLine:
		if r.awaitingRegister {
			return r.handleRegisterByte(b)
		}
		if r.pendingOperator != OperatorNone {
			return r.handlePendingOperatorByte(b)
		}
		return r.handleModalByte(b)
	default:
		return Action{Type: ActionNone}
	}
}

// handleEscape implements "ESC cancels the mode / prefix / pending operator
// back toward normal, and eventually toward insert" by unwinding exactly one
// layer of state per press.
func (r *Router) handleEscape() Action {
	switch {
	case r.prefixActive || r.layoutPrefix || r.ipcPrefix || r.aclPrefix:
		r.prefixActive, r.layoutPrefix, r.ipcPrefix, r.aclPrefix = false, false, false, false
		return Action{Type: ActionNone}
	case r.awaitingRegister:
		r.awaitingRegister = false
		return Action{Type: ActionNone}
	case r.pendingOperator != OperatorNone || r.pendingGPrefix || r.pendingCount != "":
		r.pendingOperator = OperatorNone
		r.pendingGPrefix = false
		r.pendingCount = ""
		return Action{Type: ActionNone}
	case r.mode == ModeSearch:
		r.searchBuf = nil
		r.mode = ModeNormal
		return Action{Type: ActionSearchCancel}
	case r.mode == ModeCommand:
		r.cmdBuf = nil
		r.mode = ModeNormal
		return Action{Type: ActionExCommandCancel}
	case r.mode == ModeVisual || r.mode == ModeVisualLine:
		r.mode = ModeNormal
		return Action{Type: ActionModeSwitch, Mode: ModeNormal}
	case r.mode == ModeChat:
		r.mode = ModeNormal
		return Action{Type: ActionModeSwitch, Mode: ModeNormal}
	case r.mode == ModeNormal:
		r.mode = ModeInsert
		return Action{Type: ActionModeSwitch, Mode: ModeInsert}
	default:
		return Action{Type: ActionForward, Bytes: []byte{escByte}}
	}
}

func (r *Router) resetPending() {
	r.prefixActive = false
	r.layoutPrefix = false
	r.ipcPrefix = false
	r.aclPrefix = false
	r.awaitingRegister = false
	r.pendingRegister = 0
	r.pendingOperator = OperatorNone
	r.pendingGPrefix = false
	r.pendingCount = ""
	r.searchBuf = nil
	r.cmdBuf = nil
}

// takeCount consumes and resets the accumulated numeric prefix, defaulting
// to 1 when none was given.
func (r *Router) takeCount() int {
	if r.pendingCount == "" {
		return 1
	}
	n := 0
	for _, c := range r.pendingCount {
		n = n*10 + int(c-'0')
	}
	r.pendingCount = ""
	if n == 0 {
		return 1
	}
	return n
}

// takeRegister consumes and resets any register set via the `"` prefix.
func (r *Router) takeRegister() byte {
	reg := r.pendingRegister
	r.pendingRegister = 0
	return reg
}

func isRegisterByte(b byte) bool {
	switch {
	case b >= 'a' && b <= 'z', b >= 'A' && b <= 'Z', b >= '0' && b <= '9':
		return true
	case b == '"' || b == '+' || b == '*':
		return true
	default:
		return false
	}
}

func (r *Router) handleRegisterByte(b byte) Action {
	r.awaitingRegister = false
	if isRegisterByte(b) {
		r.pendingRegister = b
	}
	return Action{Type: ActionNone}
}
