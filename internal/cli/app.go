// Package cli wires the configuration, logging, metrics and storage shared by
// the morenodes commands.
package cli

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"

	"github.com/aretw0/morenodes"
	"github.com/aretw0/morenodes/internal/config"
	"github.com/aretw0/morenodes/internal/logging"
	httpadapter "github.com/aretw0/morenodes/pkg/adapters/http"
	"github.com/aretw0/morenodes/pkg/adapters/mcp"
	"github.com/aretw0/morenodes/pkg/adapters/memory"
	"github.com/aretw0/morenodes/pkg/adapters/redis"
	"github.com/aretw0/morenodes/pkg/observability"
	"github.com/aretw0/morenodes/pkg/persistence/middleware"
	"github.com/aretw0/morenodes/pkg/ports"
	"github.com/aretw0/morenodes/pkg/snapshot"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	backend "github.com/redis/go-redis/v9"
)

// Options select the inputs of an App.
type Options struct {
	ConfigPath string
	// LogLevel overrides the configured level when set.
	LogLevel string
	// LogOutput receives structured logs (default os.Stderr).
	LogOutput io.Writer
	// NodeOutput receives LoggingNode prints (default os.Stdout).
	NodeOutput io.Writer
	Loader     ports.SceneLoader
	Steps      int
}

// App is the fully wired application behind the CLI commands.
type App struct {
	Config    config.Config
	Logger    *slog.Logger
	Metrics   *observability.Metrics
	Gatherer  prometheus.Gatherer
	Snapshots *snapshot.Manager
	Simulator *morenodes.Simulator

	closers []func() error
}

// NewApp loads the configuration and builds every component from it.
func NewApp(opts Options) (*App, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, err
	}
	if opts.LogLevel != "" {
		cfg.LogLevel = opts.LogLevel
	}

	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	if opts.LogOutput == nil {
		opts.LogOutput = os.Stderr
	}
	logger := logging.NewWithWriter(opts.LogOutput, level)

	app := &App{Config: cfg, Logger: logger}

	store, err := app.openStore()
	if err != nil {
		return nil, err
	}

	builtinOpts := []morenodes.BuiltinOption{morenodes.WithNodeLogger(logger)}
	if opts.NodeOutput != nil {
		builtinOpts = append(builtinOpts, morenodes.WithLogOutput(opts.NodeOutput))
	}
	hooks := observability.LoggingHooks(logger)
	if cfg.Metrics.Enabled {
		reg := prometheus.NewRegistry()
		app.Metrics = observability.NewMetrics(reg)
		app.Gatherer = reg
		builtinOpts = append(builtinOpts, morenodes.WithConversionObserver(app.Metrics.ObserveConversion))
		hooks = observability.Combine(hooks, app.Metrics.Hooks())
	}

	simOpts := []morenodes.Option{
		morenodes.WithRegistry(morenodes.NewRegistry(builtinOpts...)),
		morenodes.WithStore(store),
		morenodes.WithLogger(logger),
		morenodes.WithLifecycleHooks(hooks),
		morenodes.WithSteps(opts.Steps),
	}
	if opts.Loader != nil {
		simOpts = append(simOpts, morenodes.WithLoader(opts.Loader))
	}
	app.Simulator = morenodes.New(simOpts...)
	return app, nil
}

func (a *App) openStore() (*snapshot.Manager, error) {
	mws, err := snapshotMiddleware(a.Config.Snapshot)
	if err != nil {
		return nil, err
	}

	rc := a.Config.Redis
	if rc.Addr == "" {
		store := middleware.Chain(memory.NewStore(), mws...)
		a.Snapshots = snapshot.NewManager(store, snapshot.WithLogger(a.Logger))
		return a.Snapshots, nil
	}

	client := backend.NewClient(&backend.Options{
		Addr:     rc.Addr,
		Password: rc.Password,
		DB:       rc.DB,
	})
	store := redis.NewFromClient(client,
		redis.WithPrefix(rc.Prefix+"snapshot:"),
		redis.WithTTL(rc.TTL),
	)
	if err := store.Ping(context.Background()); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", rc.Addr, err)
	}
	a.closers = append(a.closers, store.Close)
	a.Logger.Debug("using redis snapshot store", "addr", rc.Addr, "prefix", rc.Prefix)

	a.Snapshots = snapshot.NewManager(middleware.Chain(store, mws...),
		snapshot.WithLocker(redis.NewLocker(client, rc.Prefix)),
		snapshot.WithLogger(a.Logger),
	)
	return a.Snapshots, nil
}

// snapshotMiddleware builds the store wrappers: redaction runs first so
// masked values are what gets sealed.
func snapshotMiddleware(cfg config.SnapshotConfig) ([]middleware.Middleware, error) {
	var mws []middleware.Middleware
	if len(cfg.Redact) > 0 {
		mw, err := middleware.NewRedactMiddleware(cfg.Redact)
		if err != nil {
			return nil, err
		}
		mws = append(mws, mw)
	}
	if cfg.EncryptionKey == "" {
		return mws, nil
	}

	active, err := base64.StdEncoding.DecodeString(cfg.EncryptionKey)
	if err != nil {
		return nil, fmt.Errorf("invalid snapshot.encryption_key: %w", err)
	}
	ec := middleware.EncryptionConfig{ActiveKey: active}
	for i, k := range cfg.FallbackKeys {
		key, err := base64.StdEncoding.DecodeString(k)
		if err != nil {
			return nil, fmt.Errorf("invalid snapshot.fallback_keys[%d]: %w", i, err)
		}
		ec.FallbackKeys = append(ec.FallbackKeys, key)
	}
	mw, err := middleware.NewEncryptionMiddleware(ec)
	if err != nil {
		return nil, err
	}
	return append(mws, mw), nil
}

// HTTPHandler builds the REST API, with /metrics when metrics are enabled.
func (a *App) HTTPHandler() http.Handler {
	opts := []httpadapter.Option{
		httpadapter.WithSnapshots(a.Snapshots),
		httpadapter.WithLogger(a.Logger),
	}
	if a.Metrics != nil {
		opts = append(opts,
			httpadapter.WithConversionObserver(a.Metrics.ObserveConversion),
			httpadapter.WithMetricsHandler(promhttp.HandlerFor(a.Gatherer, promhttp.HandlerOpts{})),
		)
	}
	return httpadapter.NewHandler(a.Simulator, opts...)
}

// MCPServer builds the MCP tool server.
func (a *App) MCPServer() *mcp.Server {
	opts := []mcp.Option{mcp.WithLogger(a.Logger)}
	if a.Metrics != nil {
		opts = append(opts, mcp.WithConversionObserver(a.Metrics.ObserveConversion))
	}
	return mcp.NewServer(a.Simulator, opts...)
}

// Close releases external connections.
func (a *App) Close() error {
	var errs []error
	for _, c := range a.closers {
		errs = append(errs, c())
	}
	return errors.Join(errs...)
}
