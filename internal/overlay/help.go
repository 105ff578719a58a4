package overlay

// Help is a static keybinding reference, dismissed by any key.
type Help struct{}

func NewHelp() *Help { return &Help{} }

func (Help) Kind() Kind { return KindHelp }

func (Help) HandleKey(byte) (bool, any) { return true, nil }

func (Help) Render(width, height int) []string {
	lines := []string{
		"Ctrl-Space then:",
		"  n/i/v/V   mode switch",
		"  w         layout: h/j/k/l focus, w/W cycle, s/v split,",
		"            c/o/z close/only/zoom, =, +/-, >/<, x, r",
		"  a         ipc compose",
		"  f         fipa: r/i/q/Q/c/p/A/R/a/f/F/s  performatives",
		"            l/v/x list/view/cancel, 1/2/3 style, h help",
		"  c         chat mode",
		"  1-9       switch to tab N",
		"  [ ]       prev/next tab",
		"  / ?       search forward/backward",
		"  :         ex command",
		"  S         save      H  this help",
		"  q Q       quit / force quit",
		"",
		"normal mode: h j k l w W e E b B 0 $ ^ gg G",
		"  Ctrl-d/u/f/b page · n/N search next/prev",
		"  y/d operators · p/P paste · \"<reg> register prefix",
	}
	if len(lines) > height {
		lines = lines[:height]
	}
	return lines
}
