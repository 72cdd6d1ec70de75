// Package loam loads scenes from a directory of documents, one node per document.
//
// A node document carries its wiring in front matter and an optional note as
// its body:
//
//	---
//	type: morenodes.RGBToHSV
//	values:
//	  inputs:rgb: [0.8, 0.2, 0.4]
//	connections:
//	  - from: outputs:hsv
//	    to: log.inputs:dataIn0
//	---
//	Converts the brand color.
//
// Connection endpoints without a node path refer to the declaring node.
// Documents without a type are ignored.
package loam

import (
	"cmp"
	"context"
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"github.com/aretw0/loam"
	"github.com/aretw0/morenodes/pkg/domain"
	"github.com/aretw0/morenodes/pkg/ports"
	"github.com/aretw0/morenodes/pkg/scene"
)

// Loader adapts a Loam repository to ports.SceneLoader.
type Loader struct {
	Repo  *loam.TypedRepository[NodeMetadata]
	name  string
	steps int
}

var _ ports.SceneLoader = (*Loader)(nil)

// Option configures a Loader.
type Option func(*Loader)

// WithSceneName sets the name of loaded scenes.
func WithSceneName(name string) Option {
	return func(l *Loader) {
		l.name = name
	}
}

// WithSteps sets the number of evaluation passes of loaded scenes.
func WithSteps(steps int) Option {
	return func(l *Loader) {
		l.steps = steps
	}
}

// New creates a loader over repo.
func New(repo *loam.TypedRepository[NodeMetadata], opts ...Option) *Loader {
	l := &Loader{Repo: repo}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Open initializes a read-only, strict Loam repository at dir. The scene is
// named after the directory unless WithSceneName is given.
func Open(dir string, opts ...Option) (*Loader, error) {
	absPath, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("invalid path: %w", err)
	}

	// Strict mode returns numbers as json.Number for every document format.
	repo, err := loam.Init(absPath,
		loam.WithStrict(true),
		loam.WithReadOnly(true),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize loam: %w", err)
	}

	opts = append([]Option{WithSceneName(filepath.Base(absPath))}, opts...)
	return New(loam.NewTypedRepository[NodeMetadata](repo), opts...), nil
}

// Load builds a scene from every typed document in the repository.
func (l *Loader) Load(ctx context.Context) (*domain.Scene, error) {
	docs, err := l.Repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("loam list failed: %w", err)
	}

	type entry struct {
		order int
		node  domain.SceneNode
	}
	var entries []entry
	var conns []domain.Connection
	seen := make(map[string]string)

	for _, doc := range docs {
		meta := doc.Data
		if meta.Type == "" {
			continue
		}

		path := meta.Path
		if path == "" {
			path = trimExtension(doc.ID)
		}
		if existing, ok := seen[path]; ok {
			return nil, fmt.Errorf("collision detected: node '%s' is defined in both '%s' and '%s'", path, existing, doc.ID)
		}
		seen[path] = doc.ID

		dynamic, err := scene.DecodeAttributes(meta.Dynamic)
		if err != nil {
			return nil, fmt.Errorf("node %s: %w", path, err)
		}
		nodeConns, err := scene.DecodeConnections(meta.Connections)
		if err != nil {
			return nil, fmt.Errorf("node %s: %w", path, err)
		}
		for _, c := range nodeConns {
			conns = append(conns, domain.Connection{
				From: qualify(path, c.From),
				To:   qualify(path, c.To),
			})
		}

		entries = append(entries, entry{
			order: meta.Order,
			node: domain.SceneNode{
				Path:    path,
				Type:    meta.Type,
				Dynamic: dynamic,
				Values:  meta.Values,
				Note:    strings.TrimSpace(doc.Content),
			},
		})
	}

	slices.SortFunc(entries, func(a, b entry) int {
		if c := cmp.Compare(a.order, b.order); c != 0 {
			return c
		}
		return strings.Compare(a.node.Path, b.node.Path)
	})

	s := &domain.Scene{
		Name:        l.name,
		Connections: conns,
		Steps:       l.steps,
	}
	for _, e := range entries {
		s.Nodes = append(s.Nodes, e.node)
	}

	if err := scene.Validate(s); err != nil {
		return nil, err
	}
	return s, nil
}

// qualify prefixes endpoints that name only an attribute with the node path.
func qualify(path, endpoint string) string {
	if strings.Contains(endpoint, ".") {
		return endpoint
	}
	return path + "." + endpoint
}

func trimExtension(id string) string {
	ext := filepath.Ext(id)
	if ext != "" {
		return filepath.ToSlash(strings.TrimSuffix(id, ext))
	}
	return filepath.ToSlash(id)
}
