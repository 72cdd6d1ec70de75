package memory

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"time"

	"github.com/aretw0/morenodes/pkg/domain"
	"github.com/aretw0/morenodes/pkg/ports"
	"github.com/aretw0/morenodes/pkg/registry"
)

// Option configures a Graph.
type Option func(*Graph)

// WithRegistry sets the node types the graph can instantiate.
func WithRegistry(r *registry.Registry) Option {
	return func(g *Graph) {
		g.registry = r
	}
}

// WithLogger configures the structured logger handed to node callbacks.
func WithLogger(logger *slog.Logger) Option {
	return func(g *Graph) {
		g.logger = logger
	}
}

// WithTimeline sets the clock exposed to node internal state.
func WithTimeline(t ports.Timeline) Option {
	return func(g *Graph) {
		g.timeline = t
	}
}

// WithHooks registers observability callbacks.
func WithHooks(h domain.LifecycleHooks) Option {
	return func(g *Graph) {
		g.hooks = h
	}
}

type edge struct {
	from, to domain.Endpoint
}

// Graph is an in-memory stand-in for the host runtime's object graph.
// It owns node lifecycles, wiring and evaluation, and calls into the
// registered node types the way the host does.
//
// A Graph is not safe for concurrent use; node callbacks re-enter it.
type Graph struct {
	registry *registry.Registry
	logger   *slog.Logger
	timeline ports.Timeline
	hooks    domain.LifecycleHooks

	nodes map[string]*Node
	order []string
	edges []edge
}

// NewGraph creates an empty graph.
func NewGraph(opts ...Option) *Graph {
	g := &Graph{
		nodes: make(map[string]*Node),
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.registry == nil {
		g.registry = registry.NewRegistry()
	}
	if g.logger == nil {
		g.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if g.timeline == nil {
		g.timeline = NewManualTimeline(0)
	}
	return g
}

// Timeline returns the graph's clock.
func (g *Graph) Timeline() ports.Timeline {
	return g.timeline
}

// Node returns the node at path.
func (g *Graph) Node(path string) (*Node, bool) {
	n, ok := g.nodes[path]
	return n, ok
}

// Nodes returns all nodes in insertion order.
func (g *Graph) Nodes() []*Node {
	out := make([]*Node, 0, len(g.order))
	for _, p := range g.order {
		out = append(out, g.nodes[p])
	}
	return out
}

// AddNode creates a node of the named type, builds its static attributes,
// allocates its internal state and calls Initialize.
// If Initialize fails the node is discarded.
func (g *Graph) AddNode(ctx context.Context, path, typeName string) (*Node, error) {
	if path == "" {
		return nil, fmt.Errorf("%w: empty path", domain.ErrInvalidAttributeName)
	}
	if _, exists := g.nodes[path]; exists {
		return nil, fmt.Errorf("%w: %s", domain.ErrNodeExists, path)
	}
	nt, err := g.registry.Get(typeName)
	if err != nil {
		return nil, err
	}

	n := &Node{
		graph:    g,
		path:     path,
		typeName: typeName,
		nodeType: nt,
		attrs:    make(map[string]*Attribute),
	}
	for _, spec := range nt.Definition().Attributes {
		spec.Dynamic = false
		if _, err := n.addAttribute(spec); err != nil {
			return nil, fmt.Errorf("node type %s: %w", typeName, err)
		}
	}
	if stater, ok := nt.(ports.InternalStater); ok {
		n.state = stater.NewInternalState(g.timeline)
	}

	g.nodes[path] = n
	g.order = append(g.order, path)

	err = nt.Initialize(ctx, n)
	g.fireNodeEvent(ctx, g.hooks.OnInitialize, domain.EventNodeInitialize, n, err)
	if err != nil {
		g.forget(path)
		return nil, fmt.Errorf("initialize %s: %w", path, err)
	}

	g.logger.Debug("node added", "node", path, "node_type", typeName)
	return n, nil
}

// RemoveNode disconnects the node (firing disconnect callbacks), calls Release and removes it.
// The node is removed even if Release fails; the error is returned.
func (g *Graph) RemoveNode(ctx context.Context, path string) error {
	n, ok := g.nodes[path]
	if !ok {
		return fmt.Errorf("%w: %s", domain.ErrNodeNotFound, path)
	}

	var errs []error
	for _, e := range slices.Clone(g.edges) {
		// Callbacks may already have dropped later edges.
		if (e.from.Node == path || e.to.Node == path) && g.hasEdge(e) {
			errs = append(errs, g.Disconnect(ctx, e.from.String(), e.to.String()))
		}
	}

	err := n.nodeType.Release(ctx, n)
	g.fireNodeEvent(ctx, g.hooks.OnRelease, domain.EventNodeRelease, n, err)
	if err != nil {
		errs = append(errs, fmt.Errorf("release %s: %w", path, err))
	}

	g.forget(path)
	return errors.Join(errs...)
}

// Connect wires an output (upstream) to an input (downstream) and fires
// the connection callbacks registered on both nodes.
func (g *Graph) Connect(ctx context.Context, from, to string) error {
	src, dst, e, err := g.resolve(from, to)
	if err != nil {
		return err
	}
	if g.hasEdge(e) {
		return fmt.Errorf("%w: %s -> %s already connected", domain.ErrInvalidConnection, from, to)
	}

	g.edges = append(g.edges, e)
	dst.upstream++

	g.fireConnection(ctx, domain.EventConnect, e)
	return g.notify(ctx, src, dst, func(n *Node) []ports.ConnectionCallback { return n.onConnected })
}

// Disconnect removes a connection and fires the disconnect callbacks registered on both nodes.
func (g *Graph) Disconnect(ctx context.Context, from, to string) error {
	src, dst, e, err := g.resolve(from, to)
	if err != nil {
		return err
	}
	if !g.hasEdge(e) {
		return fmt.Errorf("%w: %s -> %s not connected", domain.ErrInvalidConnection, from, to)
	}

	g.dropEdges(func(x edge) bool { return x == e })

	g.fireConnection(ctx, domain.EventDisconnect, e)
	return g.notify(ctx, src, dst, func(n *Node) []ports.ConnectionCallback { return n.onDisconnected })
}

// Connections returns all connections in creation order.
func (g *Graph) Connections() []domain.Connection {
	out := make([]domain.Connection, 0, len(g.edges))
	for _, e := range g.edges {
		out = append(out, domain.Connection{From: e.from.String(), To: e.to.String()})
	}
	return out
}

// Compute pulls upstream values into the node's connected inputs and calls its Compute.
func (g *Graph) Compute(ctx context.Context, path string) (bool, error) {
	n, ok := g.nodes[path]
	if !ok {
		return false, fmt.Errorf("%w: %s", domain.ErrNodeNotFound, path)
	}

	logger := g.logger.With("node", n.path, "node_type", n.typeName)
	for _, e := range g.edges {
		if e.to.Node != path {
			continue
		}
		src := g.nodes[e.from.Node].attrs[e.from.Attribute]
		if src.value == nil {
			// Upstream has not produced a value yet; keep the current one.
			continue
		}
		dst := n.attrs[e.to.Attribute]
		if err := dst.Set(src.value); err != nil {
			logger.Warn("failed to pull upstream value", "from", e.from.String(), "to", e.to.Attribute, "err", err)
		}
	}

	start := time.Now()
	result := n.nodeType.Compute(ctx, &database{node: n, logger: logger})
	n.lastCompute = &result

	if g.hooks.OnCompute != nil {
		g.hooks.OnCompute(ctx, &domain.ComputeEvent{
			EventBase: domain.EventBase{Timestamp: time.Now(), Type: domain.EventNodeCompute},
			NodePath:  n.path,
			NodeType:  n.typeName,
			Success:   result,
			Duration:  time.Since(start),
		})
	}
	return result, nil
}

// Evaluate computes every node once, upstream before downstream.
// Nodes in a cycle are computed in insertion order after the acyclic part.
func (g *Graph) Evaluate(ctx context.Context) (map[string]bool, error) {
	results := make(map[string]bool, len(g.nodes))
	for _, path := range g.schedule() {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		ok, err := g.Compute(ctx, path)
		if err != nil {
			return results, err
		}
		results[path] = ok
	}
	return results, nil
}

// Snapshot captures the current graph under the given ID.
func (g *Graph) Snapshot(id string) *domain.GraphSnapshot {
	snap := &domain.GraphSnapshot{
		ID:          id,
		CreatedAt:   time.Now().UTC(),
		Nodes:       make([]domain.NodeSnapshot, 0, len(g.order)),
		Connections: g.Connections(),
	}
	for _, p := range g.order {
		snap.Nodes = append(snap.Nodes, g.nodes[p].snapshot())
	}
	return snap
}

// schedule orders nodes topologically, breaking ties by insertion order.
func (g *Graph) schedule() []string {
	indegree := make(map[string]int, len(g.nodes))
	downstream := make(map[string][]string)
	for _, e := range g.edges {
		if e.from.Node == e.to.Node {
			continue
		}
		indegree[e.to.Node]++
		downstream[e.from.Node] = append(downstream[e.from.Node], e.to.Node)
	}

	out := make([]string, 0, len(g.order))
	done := make(map[string]bool, len(g.order))
	for len(out) < len(g.order) {
		progressed := false
		for _, p := range g.order {
			if done[p] || indegree[p] > 0 {
				continue
			}
			done[p] = true
			out = append(out, p)
			for _, d := range downstream[p] {
				indegree[d]--
			}
			progressed = true
			break
		}
		if !progressed {
			for _, p := range g.order {
				if !done[p] {
					g.logger.Warn("cycle detected, computing remaining nodes in insertion order", "node", p)
					done[p] = true
					out = append(out, p)
				}
			}
		}
	}
	return out
}

func (g *Graph) resolve(from, to string) (*Attribute, *Attribute, edge, error) {
	fromEP, err := domain.ParseEndpoint(from)
	if err != nil {
		return nil, nil, edge{}, err
	}
	toEP, err := domain.ParseEndpoint(to)
	if err != nil {
		return nil, nil, edge{}, err
	}

	src, err := g.attribute(fromEP)
	if err != nil {
		return nil, nil, edge{}, err
	}
	dst, err := g.attribute(toEP)
	if err != nil {
		return nil, nil, edge{}, err
	}
	if dst.port != domain.PortInput {
		return nil, nil, edge{}, fmt.Errorf("%w: downstream %s is not an input", domain.ErrInvalidConnection, to)
	}
	if src.port == domain.PortInput && fromEP.Node == toEP.Node {
		return nil, nil, edge{}, fmt.Errorf("%w: %s feeds an input of its own node", domain.ErrInvalidConnection, from)
	}
	return src, dst, edge{from: fromEP, to: toEP}, nil
}

func (g *Graph) attribute(ep domain.Endpoint) (*Attribute, error) {
	n, ok := g.nodes[ep.Node]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrNodeNotFound, ep.Node)
	}
	a, ok := n.attrs[ep.Attribute]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrAttributeNotFound, ep)
	}
	return a, nil
}

func (g *Graph) hasEdge(e edge) bool {
	return slices.Contains(g.edges, e)
}

// dropEdges removes matching edges and keeps upstream counts in sync.
func (g *Graph) dropEdges(match func(edge) bool) {
	g.edges = slices.DeleteFunc(g.edges, func(e edge) bool {
		if !match(e) {
			return false
		}
		if n, ok := g.nodes[e.to.Node]; ok {
			if a, ok := n.attrs[e.to.Attribute]; ok && a.upstream > 0 {
				a.upstream--
			}
		}
		return true
	})
}

func (g *Graph) notify(ctx context.Context, src, dst *Attribute, callbacks func(*Node) []ports.ConnectionCallback) error {
	nodes := []*Node{src.node}
	if dst.node != src.node {
		nodes = append(nodes, dst.node)
	}

	var errs []error
	for _, n := range nodes {
		for _, cb := range callbacks(n) {
			if err := cb(ctx, src, dst); err != nil {
				errs = append(errs, fmt.Errorf("%s callback: %w", n.path, err))
			}
		}
	}
	return errors.Join(errs...)
}

func (g *Graph) forget(path string) {
	g.dropEdges(func(e edge) bool { return e.from.Node == path || e.to.Node == path })
	delete(g.nodes, path)
	g.order = slices.DeleteFunc(g.order, func(p string) bool { return p == path })
}

func (g *Graph) fireNodeEvent(ctx context.Context, hook func(context.Context, *domain.NodeEvent), typ domain.EventType, n *Node, err error) {
	if hook == nil {
		return
	}
	hook(ctx, &domain.NodeEvent{
		EventBase: domain.EventBase{Timestamp: time.Now(), Type: typ},
		NodePath:  n.path,
		NodeType:  n.typeName,
		Err:       err,
	})
}

func (g *Graph) fireConnection(ctx context.Context, typ domain.EventType, e edge) {
	if g.hooks.OnConnect == nil {
		return
	}
	g.hooks.OnConnect(ctx, &domain.ConnectionEvent{
		EventBase: domain.EventBase{Timestamp: time.Now(), Type: typ},
		From:      e.from.String(),
		To:        e.to.String(),
	})
}
