package compositor

import (
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/muesli/termenv"
)

// Downsampler rewrites truecolor SGR sequences (38;2;r;g;b / 48;2;r;g;b)
// emitted by the styled-line generator down to whatever color depth the
// attached terminal actually supports, detected once via termenv.
type Downsampler struct {
	profile termenv.Profile
}

// NewDownsampler detects the host's color profile via termenv's own
// environment/terminfo probing (COLORTERM, TERM, and a terminal query as a
// last resort).
func NewDownsampler() *Downsampler {
	return &Downsampler{profile: termenv.ColorProfile()}
}

// NewDownsamplerForProfile builds a Downsampler for an explicitly known
// profile, bypassing termenv's own environment detection.
func NewDownsamplerForProfile(p termenv.Profile) *Downsampler {
	return &Downsampler{profile: p}
}

// Apply rewrites every truecolor SGR sequence in line to the nearest color
// the detected profile supports. TrueColor profiles are returned
// unchanged; Ascii profiles have the truecolor codes dropped, since color
// has no monochrome equivalent. Other attributes, and any 16- or 256-color
// codes already in the line, pass through unchanged.
func (d *Downsampler) Apply(line string) string {
	if d.profile == termenv.TrueColor {
		return line
	}
	var b strings.Builder
	i := 0
	for i < len(line) {
		if line[i] != 0x1b || i+1 >= len(line) || line[i+1] != '[' {
			b.WriteByte(line[i])
			i++
			continue
		}
		end := i + 2
		for end < len(line) && line[end] != 'm' {
			end++
		}
		if end >= len(line) {
			b.WriteString(line[i:])
			break
		}
		params := line[i+2 : end]
		b.WriteString(d.rewriteSGR(params))
		i = end + 1
	}
	return b.String()
}

// rewriteSGR downsamples one SGR parameter list, returning a full
// "\x1b[...m" sequence (possibly with color codes removed or replaced).
func (d *Downsampler) rewriteSGR(params string) string {
	if params == "" {
		return "\x1b[m"
	}
	fields := strings.Split(params, ";")
	var out []string
	for idx := 0; idx < len(fields); idx++ {
		f := fields[idx]
		if (f == "38" || f == "48") && idx+1 < len(fields) && fields[idx+1] == "2" && idx+4 < len(fields) {
			ground := f
			r := atoiSafe(fields[idx+2])
			g := atoiSafe(fields[idx+3])
			b := atoiSafe(fields[idx+4])
			idx += 4
			switch d.profile {
			case termenv.Ascii:
				// drop the color entirely
			case termenv.ANSI:
				n := nearest16(r, g, b)
				code := 30 + n
				if n >= 8 {
					code = 90 + n - 8
				}
				if ground == "48" {
					code += 10
				}
				out = append(out, strconv.Itoa(code))
			default: // ANSI256
				out = append(out, ground, "5", strconv.Itoa(Nearest256(r, g, b)))
			}
			continue
		}
		out = append(out, f)
	}
	if len(out) == 0 {
		return "\x1b[m"
	}
	return "\x1b[" + strings.Join(out, ";") + "m"
}

func atoiSafe(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}

// xterm256Palette holds the RGB value of every one of the 256 standard
// xterm color indices: 0-15 are the named ANSI colors, 16-231 are the
// 6x6x6 color cube, and 232-255 are the grayscale ramp.
var xterm256Palette = buildXterm256Palette()

func buildXterm256Palette() [256]colorful.Color {
	var p [256]colorful.Color

	ansi16 := [16][3]uint8{
		{0, 0, 0}, {205, 0, 0}, {0, 205, 0}, {205, 205, 0},
		{0, 0, 238}, {205, 0, 205}, {0, 205, 205}, {229, 229, 229},
		{127, 127, 127}, {255, 0, 0}, {0, 255, 0}, {255, 255, 0},
		{92, 92, 255}, {255, 0, 255}, {0, 255, 255}, {255, 255, 255},
	}
	for i, c := range ansi16 {
		p[i] = rgbColor(c[0], c[1], c[2])
	}

	steps := [6]uint8{0, 95, 135, 175, 215, 255}
	idx := 16
	for r := 0; r < 6; r++ {
		for g := 0; g < 6; g++ {
			for b := 0; b < 6; b++ {
				p[idx] = rgbColor(steps[r], steps[g], steps[b])
				idx++
			}
		}
	}

	for i := 0; i < 24; i++ {
		v := uint8(8 + i*10)
		p[232+i] = rgbColor(v, v, v)
	}
	return p
}

func rgbColor(r, g, b uint8) colorful.Color {
	return colorful.Color{R: float64(r) / 255, G: float64(g) / 255, B: float64(b) / 255}
}

// Nearest256 returns the xterm 256-color palette index closest to (r,g,b)
// in CIE Lab space (via go-colorful's DistanceLab), which tracks human
// color perception far better than a raw Euclidean RGB distance.
func Nearest256(r, g, b int) int {
	target := rgbColor(uint8(r), uint8(g), uint8(b))
	best, bestDist := 0, target.DistanceLab(xterm256Palette[0])
	for i := 1; i < len(xterm256Palette); i++ {
		d := target.DistanceLab(xterm256Palette[i])
		if d < bestDist {
			best, bestDist = i, d
		}
	}
	return best
}

// nearest16 restricts the search to the first 16 palette entries, for
// profiles that only support the named ANSI colors.
func nearest16(r, g, b int) int {
	target := rgbColor(uint8(r), uint8(g), uint8(b))
	best, bestDist := 0, target.DistanceLab(xterm256Palette[0])
	for i := 1; i < 16; i++ {
		d := target.DistanceLab(xterm256Palette[i])
		if d < bestDist {
			best, bestDist = i, d
		}
	}
	return best
}
