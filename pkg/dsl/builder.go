package dsl

import (
	"errors"
	"fmt"

	"github.com/aretw0/morenodes/pkg/adapters/memory"
	"github.com/aretw0/morenodes/pkg/domain"
	"github.com/aretw0/morenodes/pkg/scene"
)

// Builder manages the scene construction.
type Builder struct {
	name        string
	steps       int
	order       []string
	nodes       map[string]*NodeBuilder
	connections []domain.Connection
	errs        []error
}

// New creates a new scene builder.
func New(name string) *Builder {
	return &Builder{
		name:  name,
		nodes: make(map[string]*NodeBuilder),
	}
}

// Steps sets the number of evaluation passes.
func (b *Builder) Steps(n int) *Builder {
	b.steps = n
	return b
}

// Add creates a new node in the scene.
// If the node already exists, it returns the existing builder.
func (b *Builder) Add(path, nodeType string) *NodeBuilder {
	if nb, ok := b.nodes[path]; ok {
		return nb
	}
	nb := &NodeBuilder{
		node:    domain.SceneNode{Path: path, Type: nodeType},
		builder: b,
	}
	b.nodes[path] = nb
	b.order = append(b.order, path)
	return nb
}

// Connect wires two fully qualified endpoints.
func (b *Builder) Connect(from, to string) *Builder {
	b.connections = append(b.connections, domain.Connection{From: from, To: to})
	return b
}

// Build returns the scene, or the first errors recorded while building it
// joined with any validation error.
func (b *Builder) Build() (*domain.Scene, error) {
	if len(b.errs) > 0 {
		return nil, errors.Join(b.errs...)
	}

	sc := &domain.Scene{
		Name:        b.name,
		Steps:       b.steps,
		Nodes:       make([]domain.SceneNode, 0, len(b.order)),
		Connections: append([]domain.Connection(nil), b.connections...),
	}
	for _, path := range b.order {
		sc.Nodes = append(sc.Nodes, b.nodes[path].Build())
	}

	if err := scene.Validate(sc); err != nil {
		return nil, fmt.Errorf("invalid scene %q: %w", b.name, err)
	}
	return sc, nil
}

// Loader builds the scene and wraps it in a memory loader.
func (b *Builder) Loader() (*memory.Loader, error) {
	sc, err := b.Build()
	if err != nil {
		return nil, err
	}
	loader, err := memory.NewLoader(*sc)
	if err != nil {
		return nil, fmt.Errorf("failed to build memory loader: %w", err)
	}
	return loader, nil
}
