package memory

import (
	"context"
	"fmt"

	"github.com/aretw0/morenodes/pkg/domain"
)

// FrameTime is how far Run advances a ManualTimeline between evaluation passes.
const FrameTime = 1.0 / 60

// Apply builds scene on the graph. Nodes and their dynamic attributes are
// created first, then connections are made, then values are assigned, so
// values may target attributes created by connection callbacks.
func (g *Graph) Apply(ctx context.Context, scene *domain.Scene) error {
	for _, sn := range scene.Nodes {
		n, err := g.AddNode(ctx, sn.Path, sn.Type)
		if err != nil {
			return fmt.Errorf("scene %q: %w", scene.Name, err)
		}
		for _, spec := range sn.Dynamic {
			if _, err := n.CreateAttribute(spec); err != nil {
				return fmt.Errorf("scene %q: node %s: %w", scene.Name, sn.Path, err)
			}
		}
	}

	for _, c := range scene.Connections {
		if err := g.Connect(ctx, c.From, c.To); err != nil {
			return fmt.Errorf("scene %q: connect %s -> %s: %w", scene.Name, c.From, c.To, err)
		}
	}

	for _, sn := range scene.Nodes {
		n := g.nodes[sn.Path]
		for name, v := range sn.Values {
			a, ok := n.attrs[name]
			if !ok {
				return fmt.Errorf("scene %q: %w: %s.%s", scene.Name, domain.ErrAttributeNotFound, sn.Path, name)
			}
			if err := a.Set(v); err != nil {
				return fmt.Errorf("scene %q: %w", scene.Name, err)
			}
		}
	}
	return nil
}

// Run evaluates the graph steps times (at least once). Between passes a
// ManualTimeline is advanced by FrameTime.
func (g *Graph) Run(ctx context.Context, steps int) (map[string]bool, error) {
	if steps < 1 {
		steps = 1
	}

	var results map[string]bool
	for i := 0; i < steps; i++ {
		if i > 0 {
			if tl, ok := g.timeline.(*ManualTimeline); ok {
				tl.Advance(FrameTime)
			}
		}
		var err error
		results, err = g.Evaluate(ctx)
		if err != nil {
			return results, err
		}
	}
	return results, nil
}
