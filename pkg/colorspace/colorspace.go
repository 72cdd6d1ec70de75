package colorspace

import (
	"fmt"
	"math"
)

// RGB is a color with red, green and blue channels, each nominally in [0, 1].
type RGB struct {
	R, G, B float64
}

// HSV is a color in the hue/saturation/value model.
// H is in degrees; S and V are nominally in [0, 1].
type HSV struct {
	H, S, V float64
}

// Values returns the components as a slice in (r, g, b) order.
func (c RGB) Values() []float64 {
	return []float64{c.R, c.G, c.B}
}

// Values returns the components as a slice in (h, s, v) order.
func (c HSV) Values() []float64 {
	return []float64{c.H, c.S, c.V}
}

// RGBToHSV converts an (r, g, b) triple to HSV.
// It returns ErrInvalidArgument if values is nil or does not hold exactly three channels.
// Channel values are not clamped.
func RGBToHSV(values []float64) (HSV, error) {
	if values == nil {
		return HSV{}, fmt.Errorf("%w: rgb input is missing", ErrInvalidArgument)
	}
	if len(values) != 3 {
		return HSV{}, fmt.Errorf("%w: rgb input must have 3 components, got %d", ErrInvalidArgument, len(values))
	}
	return RGB{R: values[0], G: values[1], B: values[2]}.HSV(), nil
}

// HSV converts the color to HSV.
//
// The hue branches intentionally keep the arithmetic of the node library this
// package serves, which differs from the textbook conversion (see Textbook):
//
//   - red dominant:   60 * floor(((g-b)/diff) / 6), which is only ever 0 or -60
//   - green dominant: 60*((b-r)/diff) + 2, offset added after scaling
//   - blue dominant:  60*((r-g)/diff) + 4, offset added after scaling
//
// Downstream consumers depend on these values, so they are preserved as-is.
func (c RGB) HSV() HSV {
	r, g, b := c.R, c.G, c.B

	mMax := math.Max(math.Max(r, g), b)
	mMin := math.Min(math.Min(r, g), b)
	diff := mMax - mMin

	var h float64
	switch {
	case diff == 0:
		h = 0
	case mMax == r:
		h = 60 * math.Floor(((g-b)/diff)/6)
	case mMax == g:
		h = 60*((b-r)/diff) + 2
	default:
		h = 60*((r-g)/diff) + 4
	}

	s := 0.0
	if mMax != 0 {
		s = diff / mMax
	}

	return HSV{H: h, S: s, V: mMax}
}
