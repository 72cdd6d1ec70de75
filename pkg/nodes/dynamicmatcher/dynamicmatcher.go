// Package dynamicmatcher implements a node that forwards dynamic
// inputs:dataN attributes to the matching outputs:dataN attributes.
package dynamicmatcher

import (
	"context"
	"io"
	"log/slog"
	"strings"

	"github.com/aretw0/morenodes/pkg/domain"
	"github.com/aretw0/morenodes/pkg/ports"
)

// TypeName is the registered name of the node type.
const TypeName = "morenodes.DynamicMatcher"

const (
	dataPrefix   = "data"
	inputPrefix  = domain.InputsPrefix + dataPrefix
	outputPrefix = domain.OutputsPrefix + dataPrefix

	// maxIndexed bounds the indexed scan over data0..data99.
	maxIndexed = 100
	// gapTolerance is the last index at which a missing input is tolerated
	// while nothing has been forwarded yet.
	gapTolerance = 10
)

const description = `# DynamicMatcher

Copies every dynamic input named ` + "`inputs:data<suffix>`" + ` to the dynamic
output ` + "`outputs:data<suffix>`" + ` when both exist, then enables ` + "`execOut`" + `.

Inputs without a matching output are ignored.
`

// NodeType is the DynamicMatcher node type.
type NodeType struct {
	ports.NoConnectionHooks
	logger *slog.Logger
}

var _ ports.NodeType = (*NodeType)(nil)

// Option configures the node type.
type Option func(*NodeType)

// WithLogger sets the logger used outside of compute.
func WithLogger(logger *slog.Logger) Option {
	return func(t *NodeType) {
		t.logger = logger
	}
}

// New returns the DynamicMatcher node type.
func New(opts ...Option) *NodeType {
	t := &NodeType{}
	for _, opt := range opts {
		opt(t)
	}
	if t.logger == nil {
		t.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return t
}

func (t *NodeType) Definition() domain.NodeDefinition {
	return domain.NodeDefinition{
		Name:        TypeName,
		Description: description,
		Attributes: []domain.AttributeSpec{
			{Name: domain.AttrExecIn, Type: domain.AttributeType{Base: domain.TypeExecution}, Default: domain.ExecDisabled},
			{Name: domain.AttrExecOut, Type: domain.AttributeType{Base: domain.TypeExecution}, Default: domain.ExecDisabled},
		},
	}
}

func (t *NodeType) Initialize(ctx context.Context, node ports.Node) error {
	t.logger.Info("node initialized", "node", node.Path(), "node_type", TypeName)
	return nil
}

func (t *NodeType) Release(ctx context.Context, node ports.Node) error {
	return nil
}

// Compute forwards data in two passes. The indexed pass walks data0..data99;
// the name pass matches the remaining dynamic inputs by suffix.
func (t *NodeType) Compute(ctx context.Context, db ports.Database) bool {
	logger := db.Logger()
	handled := make(map[string]bool)
	processed := 0

	for i := 0; i < maxIndexed; i++ {
		name := domain.IndexedName(dataPrefix, i)

		value, ok := db.Inputs().Get(name)
		if !ok {
			// Early gaps are tolerated; past that, an empty prefix means there is nothing to match.
			if processed == 0 && i > gapTolerance {
				break
			}
			continue
		}
		if _, ok := db.Outputs().Get(name); !ok {
			continue
		}
		handled[domain.InputsPrefix+name] = true
		if err := db.Outputs().Set(name, value); err != nil {
			logger.Warn("failed to process data attribute", "attribute", name, "err", err)
			continue
		}
		processed++
	}

	outputs := make(map[string]ports.Attribute)
	for _, out := range db.DynamicOutputs() {
		outputs[out.Name()] = out
	}
	for _, in := range db.DynamicInputs() {
		suffix, ok := strings.CutPrefix(in.Name(), inputPrefix)
		if !ok || handled[in.Name()] {
			continue
		}
		outName := outputPrefix + suffix
		out, ok := outputs[outName]
		if !ok {
			continue
		}
		if err := out.Set(in.Get()); err != nil {
			logger.Warn("failed to copy dynamic attribute", "from", in.Name(), "to", outName, "err", err)
			continue
		}
		processed++
	}

	if err := db.Outputs().Set(domain.ShortName(domain.AttrExecOut), domain.ExecEnabled); err != nil {
		logger.Error("failed to trigger execution output", "err", err)
		return false
	}
	if processed > 0 {
		logger.Info("processed input/output pairs", "count", processed)
	}
	return true
}
