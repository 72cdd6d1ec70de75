package dsl

import (
	"fmt"
	"strings"

	"github.com/aretw0/morenodes/pkg/domain"
)

// NodeBuilder provides a fluent API for configuring a node.
type NodeBuilder struct {
	node    domain.SceneNode
	builder *Builder
}

// Set assigns an attribute value after the node is initialized.
func (n *NodeBuilder) Set(attr string, value any) *NodeBuilder {
	if n.node.Values == nil {
		n.node.Values = make(map[string]any)
	}
	n.node.Values[attr] = value
	return n
}

// Dynamic adds an attribute on top of the type's definition.
// typ uses the "double[3]" form; an empty typ leaves the type unknown.
func (n *NodeBuilder) Dynamic(name, typ string) *NodeBuilder {
	spec := domain.AttributeSpec{Name: name, Dynamic: true}
	if typ != "" {
		t, err := domain.ParseAttributeType(typ)
		if err != nil {
			n.builder.errs = append(n.builder.errs, fmt.Errorf("node %s: attribute %s: %w", n.node.Path, name, err))
			return n
		}
		spec.Type = t
	}
	n.node.Dynamic = append(n.node.Dynamic, spec)
	return n
}

// Any adds a dynamic attribute accepting any type.
func (n *NodeBuilder) Any(name string) *NodeBuilder {
	n.node.Dynamic = append(n.node.Dynamic, domain.AttributeSpec{
		Name:     name,
		Extended: domain.ExtendedAny,
		Dynamic:  true,
	})
	return n
}

// To connects one of this node's attributes to target. A target without a
// node path refers to this node.
func (n *NodeBuilder) To(attr, target string) *NodeBuilder {
	if !strings.Contains(target, ".") {
		target = n.node.Path + "." + target
	}
	n.builder.Connect(n.node.Path+"."+attr, target)
	return n
}

// Note attaches a free-form description to the node.
func (n *NodeBuilder) Note(text string) *NodeBuilder {
	n.node.Note = text
	return n
}

// Build returns the underlying domain.SceneNode.
// This is primarily used by the Builder, but exposed for advanced usage.
func (n *NodeBuilder) Build() domain.SceneNode {
	return n.node
}
