package memory

import (
	"fmt"
	"slices"

	"github.com/aretw0/morenodes/pkg/domain"
	"github.com/aretw0/morenodes/pkg/ports"
)

// Node implements ports.Node.
type Node struct {
	graph    *Graph
	path     string
	typeName string
	nodeType ports.NodeType

	attrs map[string]*Attribute
	order []string

	state          any
	onConnected    []ports.ConnectionCallback
	onDisconnected []ports.ConnectionCallback
	lastCompute    *bool
}

var _ ports.Node = (*Node)(nil)

func (n *Node) Path() string     { return n.path }
func (n *Node) TypeName() string { return n.typeName }

// Attributes returns the node's attributes in creation order.
func (n *Node) Attributes() []ports.Attribute {
	out := make([]ports.Attribute, 0, len(n.order))
	for _, name := range n.order {
		out = append(out, n.attrs[name])
	}
	return out
}

func (n *Node) Attribute(name string) (ports.Attribute, bool) {
	a, ok := n.attrs[name]
	if !ok {
		return nil, false
	}
	return a, true
}

// CreateAttribute adds a dynamic attribute.
func (n *Node) CreateAttribute(spec domain.AttributeSpec) (ports.Attribute, error) {
	spec.Dynamic = true
	return n.addAttribute(spec)
}

// RemoveAttribute removes the attribute and every connection touching it.
// Connection callbacks are not fired for connections dropped this way.
func (n *Node) RemoveAttribute(name string) error {
	a, ok := n.attrs[name]
	if !ok {
		return fmt.Errorf("%w: %s.%s", domain.ErrAttributeNotFound, n.path, name)
	}
	n.graph.dropEdges(func(e edge) bool {
		return e.from == a.endpoint() || e.to == a.endpoint()
	})
	delete(n.attrs, name)
	n.order = slices.DeleteFunc(n.order, func(s string) bool { return s == name })
	return nil
}

func (n *Node) RegisterOnConnected(cb ports.ConnectionCallback) {
	n.onConnected = append(n.onConnected, cb)
}

func (n *Node) RegisterOnDisconnected(cb ports.ConnectionCallback) {
	n.onDisconnected = append(n.onDisconnected, cb)
}

func (n *Node) addAttribute(spec domain.AttributeSpec) (*Attribute, error) {
	port, err := spec.Port()
	if err != nil {
		return nil, err
	}
	if _, exists := n.attrs[spec.Name]; exists {
		return nil, fmt.Errorf("%w: %s.%s", domain.ErrAttributeExists, n.path, spec.Name)
	}

	extended := spec.Extended
	if extended == "" {
		extended = domain.ExtendedRegular
	}
	typ := spec.Type
	if typ.Base == "" {
		typ = domain.Unknown
	}

	a := &Attribute{
		node:     n,
		name:     spec.Name,
		port:     port,
		extended: extended,
		dynamic:  spec.Dynamic,
		typ:      typ,
	}
	if spec.Default != nil {
		if err := a.Set(spec.Default); err != nil {
			return nil, fmt.Errorf("default for %s: %w", spec.Name, err)
		}
	}

	n.attrs[spec.Name] = a
	n.order = append(n.order, spec.Name)
	return a, nil
}

func (n *Node) snapshot() domain.NodeSnapshot {
	snap := domain.NodeSnapshot{
		Path:        n.path,
		Type:        n.typeName,
		Attributes:  make([]domain.AttributeSnapshot, 0, len(n.order)),
		LastCompute: n.lastCompute,
	}
	for _, name := range n.order {
		snap.Attributes = append(snap.Attributes, n.attrs[name].snapshot())
	}
	return snap
}
