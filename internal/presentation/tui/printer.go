package tui

import (
	"fmt"
	"io"
	"os"

	"github.com/aretw0/morenodes/pkg/colorspace"
	"github.com/muesli/termenv"
	"golang.org/x/term"
)

// IsTerminal reports whether w is an *os.File attached to a terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// Printer writes decorated CLI output. Colors are only emitted when enabled.
type Printer struct {
	w     io.Writer
	out   *termenv.Output
	color bool
}

// NewPrinter enables colors when w is a terminal.
func NewPrinter(w io.Writer) *Printer {
	return NewPrinterWithColor(w, IsTerminal(w))
}

// NewPrinterWithColor forces colors on or off.
func NewPrinterWithColor(w io.Writer, color bool) *Printer {
	profile := termenv.Ascii
	if color {
		profile = termenv.TrueColor
	}
	return &Printer{
		w:     w,
		out:   termenv.NewOutput(w, termenv.WithProfile(profile)),
		color: color,
	}
}

// Color reports whether the printer emits escape sequences.
func (p *Printer) Color() bool { return p.color }

var bannerLines = []struct{ text, hex string }{
	{` _ __ ___   ___  _ __ ___ _ __   ___   __| | ___  ___`, "#ef4444"},
	{`| '_ ` + "`" + ` _ \ / _ \| '__/ _ \ '_ \ / _ \ / _` + "`" + ` |/ _ \/ __|`, "#f59e0b"},
	{`| | | | | | (_) | | |  __/ | | | (_) | (_| |  __/\__ \`, "#22c55e"},
	{`|_| |_| |_|\___/|_|  \___|_| |_|\___/ \__,_|\___||___/`, "#3b82f6"},
}

// Banner prints the ASCII banner followed by the version.
func (p *Printer) Banner(version string) {
	fmt.Fprintln(p.w)
	for _, l := range bannerLines {
		fmt.Fprintln(p.w, p.out.String(l.text).Foreground(p.out.Color(l.hex)))
	}
	fmt.Fprintln(p.w, p.out.String("  v"+version).Faint())
	fmt.Fprintln(p.w)
}

// Swatch prints one line describing a conversion: a color block (or the hex
// code without colors), the input channels, the node's hsv and the textbook hsv.
func (p *Printer) Swatch(rgb colorspace.RGB, hsv colorspace.HSV) {
	hex := rgb.Hex()
	block := "[" + hex + "]"
	if p.color {
		block = p.out.String("█████").Foreground(p.out.Color(hex)).String() + " " + hex
	}
	ref := colorspace.Textbook(rgb)
	fmt.Fprintf(p.w, "%s  rgb(%.4g, %.4g, %.4g) -> hsv(%.4g, %.4g, %.4g)  textbook hsv(%.4g, %.4g, %.4g)\n",
		block,
		rgb.R, rgb.G, rgb.B,
		hsv.H, hsv.S, hsv.V,
		ref.H, ref.S, ref.V,
	)
}
