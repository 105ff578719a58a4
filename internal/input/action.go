package input

// ActionType identifies what an Action asks the dispatcher to do. The
// router never performs the action itself; it only translates bytes.
type ActionType int

const (
	ActionNone ActionType = iota
	ActionForward
	ActionModeSwitch
	ActionTabSwitch
	ActionTabPrev
	ActionTabNext
	ActionSearchBegin
	ActionSearchSubmit
	ActionSearchCancel
	ActionExCommandBegin
	ActionExCommandSubmit
	ActionExCommandCancel
	ActionQuit
	ActionForceQuit
	ActionSave
	ActionHelp
	ActionMotion
	ActionPaste
	ActionLayoutFocus
	ActionLayoutCycle
	ActionLayoutSplit
	ActionLayoutClose
	ActionLayoutOnly
	ActionLayoutZoom
	ActionLayoutEqualize
	ActionLayoutResizeHeight
	ActionLayoutResizeWidth
	ActionLayoutSwap
	ActionLayoutRotate
	ActionIPCCompose
	ActionFIPAPerformative
	ActionFIPAList
	ActionFIPAView
	ActionFIPACancel
	ActionFIPAStyle
	ActionFIPAHelp
)

// Operator is the vim-style pending operator awaiting a motion.
type Operator int

const (
	OperatorNone Operator = iota
	OperatorYank
	OperatorDelete
)

// Action is the descriptor the router hands to the ActionDispatcher. Only
// the fields relevant to Type are populated; the rest are zero.
type Action struct {
	Type ActionType

	Mode Mode // ActionModeSwitch

	Bytes []byte // ActionForward, ActionSearchSubmit, ActionExCommandSubmit (raw buffer contents)

	Motion   string   // ActionMotion: left,down,up,right,word,word-end,word-back,bol,eol,bol-nonblank,top,bottom,half-page-down,half-page-up,search-next,search-prev,line
	Operator Operator // ActionMotion, ActionPaste register carry-through
	Count    int      // ActionMotion
	Register byte     // ActionMotion (yank/delete target), ActionPaste (source)

	Before bool // ActionPaste: true for P (paste before)

	Index     int  // ActionTabSwitch
	Forward   bool // ActionSearchBegin, ActionLayoutCycle (w vs W), ActionLayoutSwap unused
	Direction byte // ActionLayoutFocus (h/j/k/l), ActionIPCCompose raw byte
	Vertical  bool // ActionLayoutSplit
	Delta     int  // ActionLayoutResizeHeight, ActionLayoutResizeWidth

	Performative string // ActionFIPAPerformative
	Style        string // ActionFIPAStyle: structured|natural|minimal
}
