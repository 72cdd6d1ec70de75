package colorspace

import (
	"fmt"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// Textbook converts the color with the standard hue formula, yielding H in [0, 360).
// It exists for comparison against HSV and is never substituted for it.
func Textbook(c RGB) HSV {
	h, s, v := colorful.Color{R: c.R, G: c.G, B: c.B}.Hsv()
	return HSV{H: h, S: s, V: v}
}

// ParseHex parses a "#rrggbb" (or "rrggbb") string into normalized channels.
func ParseHex(s string) (RGB, error) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "#") {
		s = "#" + s
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return RGB{}, fmt.Errorf("%w: %v", ErrInvalidArgument, err)
	}
	return RGB{R: c.R, G: c.G, B: c.B}, nil
}

// Hex formats the color as "#rrggbb", clamping out-of-range channels.
func (c RGB) Hex() string {
	return colorful.Color{R: c.R, G: c.G, B: c.B}.Clamped().Hex()
}
