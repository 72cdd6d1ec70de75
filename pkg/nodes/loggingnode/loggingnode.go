// Package loggingnode implements a node that prints the values arriving on
// its connected inputs:dataIn<N> slots.
//
// The node keeps exactly one free slot after the highest connected one:
// connecting the trailing slot grows the list, and disconnecting shrinks it
// back.
package loggingnode

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"slices"

	"github.com/aretw0/morenodes/pkg/domain"
	"github.com/aretw0/morenodes/pkg/ports"
)

// TypeName is the registered name of the node type.
const TypeName = "morenodes.LoggingNode"

// SlotBase is the name prefix of the data slots.
const SlotBase = domain.InputsPrefix + "dataIn"

const description = `# LoggingNode

Prints every connected ` + "`inputs:dataIn<N>`" + ` as
` + "`[Logging Node at <time>] <name>: <value>`" + ` when ` + "`verbosity`" + ` is set.

A new slot appears whenever the last free slot is connected. Slots take the
type of whatever feeds them.
`

// State is the per-node internal state.
type State struct {
	timeline ports.Timeline
}

// CurrentTime reads the host timeline.
func (s *State) CurrentTime() float64 {
	if s == nil || s.timeline == nil {
		return 0
	}
	return s.timeline.CurrentTime()
}

// NodeType is the LoggingNode node type.
type NodeType struct {
	out    io.Writer
	logger *slog.Logger
}

var (
	_ ports.NodeType       = (*NodeType)(nil)
	_ ports.InternalStater = (*NodeType)(nil)
)

// Option configures the node type.
type Option func(*NodeType)

// WithOutput sets where logged values are written. Defaults to os.Stdout.
func WithOutput(w io.Writer) Option {
	return func(t *NodeType) {
		t.out = w
	}
}

// WithLogger sets the logger used by lifecycle callbacks.
func WithLogger(logger *slog.Logger) Option {
	return func(t *NodeType) {
		t.logger = logger
	}
}

// New returns the LoggingNode node type.
func New(opts ...Option) *NodeType {
	t := &NodeType{}
	for _, opt := range opts {
		opt(t)
	}
	if t.out == nil {
		t.out = os.Stdout
	}
	if t.logger == nil {
		t.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return t
}

func (t *NodeType) Definition() domain.NodeDefinition {
	exec := domain.AttributeType{Base: domain.TypeExecution}
	return domain.NodeDefinition{
		Name:        TypeName,
		Description: description,
		Attributes: []domain.AttributeSpec{
			{Name: domain.AttrExecIn, Type: exec, Default: domain.ExecDisabled},
			{Name: "inputs:verbosity", Type: domain.AttributeType{Base: domain.TypeBool}, Default: true},
			{Name: domain.AttrExecOut, Type: exec, Default: domain.ExecDisabled},
		},
	}
}

func (t *NodeType) NewInternalState(timeline ports.Timeline) any {
	return &State{timeline: timeline}
}

// Initialize registers the slot callbacks and lays out the initial slots.
// Callbacks fire for both ends of a connection, so they only act when the
// downstream attribute belongs to this node.
func (t *NodeType) Initialize(ctx context.Context, node ports.Node) error {
	node.RegisterOnConnected(func(ctx context.Context, up, down ports.Attribute) error {
		if down.Node() != node {
			return nil
		}
		return t.OnConnected(ctx, up, down)
	})
	node.RegisterOnDisconnected(func(ctx context.Context, up, down ports.Attribute) error {
		if down.Node() != node {
			return nil
		}
		return t.OnDisconnected(ctx, up, down)
	})

	if err := normalize(node); err != nil {
		t.logger.Error("failed to initialize logging node", "node", node.Path(), "err", err)
		return err
	}
	return nil
}

// Release removes the highest-index unconnected slot.
func (t *NodeType) Release(ctx context.Context, node ports.Node) error {
	for _, s := range slices.Backward(slots(node)) {
		if s.attr.UpstreamConnectionCount() > 0 {
			continue
		}
		if err := node.RemoveAttribute(s.attr.Name()); err != nil {
			t.logger.Error("failed to release logging node", "node", node.Path(), "err", err)
			return err
		}
		break
	}
	return nil
}

// OnConnected resolves an untyped slot to the upstream type and makes room
// for the next connection.
func (t *NodeType) OnConnected(ctx context.Context, up, down ports.Attribute) error {
	if _, ok := domain.ParseIndex(SlotBase, down.Name()); !ok {
		return nil
	}

	if down.ResolvedType().IsUnknown() && !up.ResolvedType().IsUnknown() {
		if err := down.SetResolvedType(up.ResolvedType()); err != nil {
			t.logger.Error("failed to resolve slot type", "attribute", down.Name(), "err", err)
			return err
		}
	}

	if err := normalize(down.Node()); err != nil {
		t.logger.Error("failed to add logging slot", "node", down.Node().Path(), "err", err)
		return err
	}
	return nil
}

// OnDisconnected drops slots that are no longer needed.
func (t *NodeType) OnDisconnected(ctx context.Context, up, down ports.Attribute) error {
	if _, ok := domain.ParseIndex(SlotBase, down.Name()); !ok {
		return nil
	}
	if err := normalize(down.Node()); err != nil {
		t.logger.Error("failed to remove logging slot", "node", down.Node().Path(), "err", err)
		return err
	}
	return nil
}

func (t *NodeType) Compute(ctx context.Context, db ports.Database) bool {
	state, _ := db.InternalState().(*State)

	verbosity, _ := db.Inputs().Get("verbosity")
	if verbose, _ := verbosity.(bool); verbose {
		for _, s := range slots(db.Node()) {
			if s.attr.UpstreamConnectionCount() == 0 {
				continue
			}
			fmt.Fprintf(t.out, "[Logging Node at %v] %s: %v\n", state.CurrentTime(), s.attr.Name(), s.attr.Get())
		}
	}

	execIn, _ := db.Inputs().Get(domain.ShortName(domain.AttrExecIn))
	if es, _ := execIn.(domain.ExecutionState); es == domain.ExecDisabled {
		return false
	}

	if err := db.Outputs().Set(domain.ShortName(domain.AttrExecOut), domain.ExecEnabled); err != nil {
		db.Logger().Error("failed to trigger execution output", "err", err)
		return false
	}
	return true
}

type slot struct {
	index int
	attr  ports.Attribute
}

// slots returns the node's data slots sorted by index.
func slots(node ports.Node) []slot {
	var out []slot
	for _, a := range node.Attributes() {
		if i, ok := domain.ParseIndex(SlotBase, a.Name()); ok {
			out = append(out, slot{index: i, attr: a})
		}
	}
	slices.SortFunc(out, func(a, b slot) int { return a.index - b.index })
	return out
}

// normalize keeps dataIn0 plus one free slot after the highest connected
// one, and removes free slots beyond it.
func normalize(node ports.Node) error {
	current := slots(node)

	highest := -1
	for _, s := range current {
		if s.attr.UpstreamConnectionCount() > 0 {
			highest = s.index
		}
	}
	trailing := highest + 1

	for _, s := range current {
		if s.index > trailing && s.attr.UpstreamConnectionCount() == 0 {
			if err := node.RemoveAttribute(s.attr.Name()); err != nil {
				return err
			}
		}
	}

	for _, i := range []int{0, trailing} {
		name := domain.IndexedName(SlotBase, i)
		if _, ok := node.Attribute(name); ok {
			continue
		}
		if _, err := node.CreateAttribute(domain.AttributeSpec{
			Name:     name,
			Type:     domain.Unknown,
			Extended: domain.ExtendedAny,
		}); err != nil {
			return err
		}
	}
	return nil
}
