package morenodes

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/aretw0/morenodes/internal/logging"
	"github.com/aretw0/morenodes/pkg/adapters/loam"
	"github.com/aretw0/morenodes/pkg/adapters/memory"
	"github.com/aretw0/morenodes/pkg/domain"
	"github.com/aretw0/morenodes/pkg/ports"
	"github.com/aretw0/morenodes/pkg/registry"
	"github.com/aretw0/morenodes/pkg/scene"
)

// ErrNoLoader is returned by Run when the Simulator was built without a loader.
var ErrNoLoader = errors.New("no scene loader configured")

// Simulator builds scenes on a fresh in-memory host graph, evaluates them
// and optionally stores the resulting snapshot.
type Simulator struct {
	registry *registry.Registry
	loader   ports.SceneLoader
	store    ports.SnapshotStore
	hooks    domain.LifecycleHooks
	logger   *slog.Logger
	steps    int
}

// Result is the outcome of one simulation.
type Result struct {
	Scene    *domain.Scene
	Results  map[string]bool
	Snapshot *domain.GraphSnapshot
}

// Option configures the Simulator.
type Option func(*Simulator)

// WithRegistry sets the node types available to scenes (default NewRegistry()).
func WithRegistry(r *registry.Registry) Option {
	return func(s *Simulator) {
		s.registry = r
	}
}

// WithLoader sets the scene source used by Run.
func WithLoader(l ports.SceneLoader) Option {
	return func(s *Simulator) {
		s.loader = l
	}
}

// WithStore persists snapshots of simulations given a snapshot ID.
func WithStore(store ports.SnapshotStore) Option {
	return func(s *Simulator) {
		s.store = store
	}
}

// WithLifecycleHooks registers observability hooks on every graph.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(s *Simulator) {
		s.hooks = hooks
	}
}

// WithLogger sets the host logger handed to node computes.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Simulator) {
		s.logger = logger
	}
}

// WithSteps overrides the scene's own step count when positive.
func WithSteps(steps int) Option {
	return func(s *Simulator) {
		s.steps = steps
	}
}

// New creates a Simulator.
func New(opts ...Option) *Simulator {
	s := &Simulator{}
	for _, opt := range opts {
		opt(s)
	}
	if s.registry == nil {
		s.registry = NewRegistry()
	}
	if s.logger == nil {
		s.logger = logging.NewNop()
	}
	return s
}

// Registry returns the node types known to the Simulator.
func (s *Simulator) Registry() *registry.Registry {
	return s.registry
}

// Run loads the configured scene and simulates it.
func (s *Simulator) Run(ctx context.Context, snapshotID string) (*Result, error) {
	if s.loader == nil {
		return nil, ErrNoLoader
	}
	sc, err := s.loader.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load scene: %w", err)
	}
	return s.Simulate(ctx, sc, snapshotID)
}

// Simulate applies sc to a new graph, evaluates it and snapshots the result.
// When snapshotID is set and a store is configured the snapshot is saved under it.
func (s *Simulator) Simulate(ctx context.Context, sc *domain.Scene, snapshotID string) (*Result, error) {
	logger := s.logger
	if sc.Name != "" {
		logger = logger.With("scene", sc.Name)
	}

	g := memory.NewGraph(
		memory.WithRegistry(s.registry),
		memory.WithLogger(logger),
		memory.WithTimeline(memory.NewManualTimeline(0)),
		memory.WithHooks(s.hooks),
	)
	if err := g.Apply(ctx, sc); err != nil {
		return nil, err
	}

	steps := sc.Steps
	if s.steps > 0 {
		steps = s.steps
	}
	results, err := g.Run(ctx, steps)
	if err != nil {
		return nil, fmt.Errorf("scene %q: %w", sc.Name, err)
	}

	snap := g.Snapshot(snapshotID)
	snap.Scene = sc.Name

	if snapshotID != "" && s.store != nil {
		if err := s.store.Save(ctx, snapshotID, snap); err != nil {
			return nil, fmt.Errorf("failed to save snapshot %s: %w", snapshotID, err)
		}
		logger.Debug("snapshot saved", "snapshot_id", snapshotID)
	}

	return &Result{Scene: sc, Results: results, Snapshot: snap}, nil
}

// NewSceneLoader picks a loader for path: a directory is read as a Loam
// document folder, anything else as a YAML/JSON scene file.
func NewSceneLoader(path string) (ports.SceneLoader, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("invalid scene path: %w", err)
	}
	if info.IsDir() {
		return loam.Open(path)
	}
	return scene.NewFileLoader(path), nil
}
