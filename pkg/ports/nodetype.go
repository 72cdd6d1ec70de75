package ports

import (
	"context"

	"github.com/aretw0/morenodes/pkg/domain"
)

// NodeType is the callback set a plugin supplies for one kind of node.
// The host owns the node lifecycle and calls into it.
type NodeType interface {
	Definition() domain.NodeDefinition

	// Initialize is called once after the node and its static attributes are created.
	Initialize(ctx context.Context, node Node) error
	// Release is called before the node is removed from its graph.
	Release(ctx context.Context, node Node) error
	// Compute evaluates the node and reports success.
	Compute(ctx context.Context, db Database) bool

	OnConnected(ctx context.Context, upstream, downstream Attribute) error
	OnDisconnected(ctx context.Context, upstream, downstream Attribute) error
}

// InternalStater is implemented by node types that keep per-node state.
type InternalStater interface {
	NewInternalState(timeline Timeline) any
}

// NoConnectionHooks can be embedded by node types that ignore connection changes.
type NoConnectionHooks struct{}

func (NoConnectionHooks) OnConnected(context.Context, Attribute, Attribute) error    { return nil }
func (NoConnectionHooks) OnDisconnected(context.Context, Attribute, Attribute) error { return nil }
