package middleware

import (
	"context"
	"fmt"
	"regexp"

	"github.com/aretw0/morenodes/pkg/domain"
	"github.com/aretw0/morenodes/pkg/ports"
)

// Mask replaces redacted attribute values.
const Mask = "***"

type redactMiddleware struct {
	next     ports.SnapshotStore
	patterns []*regexp.Regexp
}

// NewRedactMiddleware creates a middleware that masks the values of
// attributes whose name matches one of the patterns before saving.
// Types and wiring are kept.
func NewRedactMiddleware(patterns []string) (Middleware, error) {
	compiled := make([]*regexp.Regexp, len(patterns))
	for i, p := range patterns {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("invalid redact pattern %q: %w", p, err)
		}
		compiled[i] = re
	}
	return func(next ports.SnapshotStore) ports.SnapshotStore {
		return &redactMiddleware{next: next, patterns: compiled}
	}, nil
}

func (m *redactMiddleware) Save(ctx context.Context, id string, snap *domain.GraphSnapshot) error {
	// The caller keeps using snap, so mask a copy.
	cloned := *snap
	cloned.Nodes = make([]domain.NodeSnapshot, len(snap.Nodes))
	for i, n := range snap.Nodes {
		attrs := make([]domain.AttributeSnapshot, len(n.Attributes))
		for j, a := range n.Attributes {
			if a.Value != nil && m.matches(a.Name) {
				a.Value = Mask
			}
			attrs[j] = a
		}
		n.Attributes = attrs
		cloned.Nodes[i] = n
	}
	return m.next.Save(ctx, id, &cloned)
}

func (m *redactMiddleware) matches(name string) bool {
	for _, p := range m.patterns {
		if p.MatchString(name) {
			return true
		}
	}
	return false
}

func (m *redactMiddleware) Load(ctx context.Context, id string) (*domain.GraphSnapshot, error) {
	return m.next.Load(ctx, id)
}

func (m *redactMiddleware) Delete(ctx context.Context, id string) error {
	return m.next.Delete(ctx, id)
}

func (m *redactMiddleware) List(ctx context.Context) ([]string, error) {
	return m.next.List(ctx)
}
