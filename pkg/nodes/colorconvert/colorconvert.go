// Package colorconvert exposes colorspace.RGBToHSV as a graph node.
package colorconvert

import (
	"context"

	"github.com/aretw0/morenodes/pkg/colorspace"
	"github.com/aretw0/morenodes/pkg/domain"
	"github.com/aretw0/morenodes/pkg/ports"
)

// TypeName is the registered name of the node type.
const TypeName = "morenodes.RGBToHSV"

const (
	AttrRGB = domain.InputsPrefix + "rgb"
	AttrHSV = domain.OutputsPrefix + "hsv"
)

const description = `# RGBToHSV

Converts ` + "`inputs:rgb`" + ` (three channels in [0, 1]) to ` + "`outputs:hsv`" + `
(hue in degrees, saturation, value).

The hue follows the extension's original formula, which differs from the
textbook conversion for most chromatic colors.
`

var color3 = domain.AttributeType{Base: domain.TypeDouble, TupleCount: 3}

// NodeType is the RGBToHSV node type.
type NodeType struct {
	ports.NoConnectionHooks
	observe func(error)
}

var _ ports.NodeType = (*NodeType)(nil)

// Option configures the node type.
type Option func(*NodeType)

// WithObserver registers a function called with the outcome of every conversion.
func WithObserver(fn func(error)) Option {
	return func(t *NodeType) {
		t.observe = fn
	}
}

// New returns the RGBToHSV node type.
func New(opts ...Option) *NodeType {
	t := &NodeType{}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

func (t *NodeType) Definition() domain.NodeDefinition {
	return domain.NodeDefinition{
		Name:        TypeName,
		Description: description,
		Attributes: []domain.AttributeSpec{
			{Name: AttrRGB, Type: color3, Default: []float64{0, 0, 0}},
			{Name: AttrHSV, Type: color3},
		},
	}
}

func (t *NodeType) Initialize(context.Context, ports.Node) error { return nil }
func (t *NodeType) Release(context.Context, ports.Node) error    { return nil }

func (t *NodeType) Compute(ctx context.Context, db ports.Database) bool {
	in, _ := db.Inputs().Get(domain.ShortName(AttrRGB))
	rgb, _ := in.([]float64)

	hsv, err := colorspace.RGBToHSV(rgb)
	if t.observe != nil {
		t.observe(err)
	}
	if err != nil {
		db.Logger().Error("color conversion failed", "err", err)
		return false
	}

	if err := db.Outputs().Set(domain.ShortName(AttrHSV), hsv.Values()); err != nil {
		db.Logger().Error("failed to write hsv output", "err", err)
		return false
	}
	return true
}
