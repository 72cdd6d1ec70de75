package observability

import (
	"context"
	"log/slog"

	"github.com/aretw0/morenodes/pkg/domain"
)

// LoggingHooks returns lifecycle hooks that log every event at Debug level,
// and failed initializations or releases at Error level.
func LoggingHooks(logger *slog.Logger) domain.LifecycleHooks {
	nodeEvent := func(ctx context.Context, e *domain.NodeEvent) {
		if e.Err != nil {
			logger.ErrorContext(ctx, string(e.Type), "node", e.NodePath, "node_type", e.NodeType, "err", e.Err)
			return
		}
		logger.DebugContext(ctx, string(e.Type), "node", e.NodePath, "node_type", e.NodeType)
	}
	return domain.LifecycleHooks{
		OnInitialize: nodeEvent,
		OnRelease:    nodeEvent,
		OnCompute: func(ctx context.Context, e *domain.ComputeEvent) {
			logger.DebugContext(ctx, string(e.Type),
				"node", e.NodePath,
				"node_type", e.NodeType,
				"success", e.Success,
				"duration", e.Duration,
			)
		},
		OnConnect: func(ctx context.Context, e *domain.ConnectionEvent) {
			logger.DebugContext(ctx, string(e.Type), "from", e.From, "to", e.To)
		},
	}
}

// Combine merges hook sets; each event is delivered to every non-nil hook in order.
func Combine(sets ...domain.LifecycleHooks) domain.LifecycleHooks {
	var out domain.LifecycleHooks
	for _, h := range sets {
		out.OnInitialize = chain(out.OnInitialize, h.OnInitialize)
		out.OnRelease = chain(out.OnRelease, h.OnRelease)
		out.OnCompute = chain(out.OnCompute, h.OnCompute)
		out.OnConnect = chain(out.OnConnect, h.OnConnect)
	}
	return out
}

func chain[E any](a, b func(context.Context, E)) func(context.Context, E) {
	switch {
	case a == nil:
		return b
	case b == nil:
		return a
	}
	return func(ctx context.Context, e E) {
		a(ctx, e)
		b(ctx, e)
	}
}
