package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/aretw0/morenodes"
	"github.com/aretw0/morenodes/internal/logging"
	"github.com/aretw0/morenodes/internal/presentation/graph"
	"github.com/aretw0/morenodes/pkg/colorspace"
	"github.com/aretw0/morenodes/pkg/domain"
	"github.com/aretw0/morenodes/pkg/ports"
	"github.com/aretw0/morenodes/pkg/registry"
	"github.com/aretw0/morenodes/pkg/scene"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// maxBodySize caps request bodies.
const maxBodySize = 1 << 20

// Simulator is the part of morenodes.Simulator the server needs.
type Simulator interface {
	Simulate(ctx context.Context, sc *domain.Scene, snapshotID string) (*morenodes.Result, error)
	Registry() *registry.Registry
}

// Server holds the dependencies of the HTTP handlers.
type Server struct {
	Simulator Simulator
	// Snapshots backs the /snapshots routes; they answer 503 when nil.
	Snapshots ports.SnapshotStore
	Metrics   http.Handler
	Observe   func(error)
	Logger    *slog.Logger
}

// Option configures the Server.
type Option func(*Server)

// WithSnapshots enables the snapshot routes.
func WithSnapshots(store ports.SnapshotStore) Option {
	return func(s *Server) {
		s.Snapshots = store
	}
}

// WithMetricsHandler mounts h at GET /metrics.
func WithMetricsHandler(h http.Handler) Option {
	return func(s *Server) {
		s.Metrics = h
	}
}

// WithConversionObserver is called with the outcome of every POST /colors/hsv conversion.
func WithConversionObserver(fn func(error)) Option {
	return func(s *Server) {
		s.Observe = fn
	}
}

// WithLogger sets the request logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.Logger = logger
	}
}

// NewHandler creates the HTTP handler for sim.
func NewHandler(sim Simulator, opts ...Option) http.Handler {
	s := &Server{Simulator: sim, Logger: logging.NewNop()}
	for _, opt := range opts {
		opt(s)
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(enableCORS)

	r.Get("/health", s.GetHealth)
	r.Get("/info", s.GetInfo)
	r.Get("/openapi.yaml", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/yaml")
		_, _ = w.Write(rawSpec)
	})
	r.Get("/swagger", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(swaggerHTML))
	})

	r.Post("/colors/hsv", s.ConvertColor)
	r.Get("/node-types", s.ListNodeTypes)
	r.Get("/node-types/{name}", s.GetNodeType)
	r.Post("/scenes/evaluate", s.EvaluateScene)

	r.Route("/snapshots", func(r chi.Router) {
		r.Use(s.requireSnapshots)
		r.Get("/", s.ListSnapshots)
		r.Get("/{id}", s.GetSnapshot)
		r.Put("/{id}", s.PutSnapshot)
		r.Delete("/{id}", s.DeleteSnapshot)
		r.Get("/{id}/graph", s.GetSnapshotGraph)
	})

	if s.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.Metrics)
	}
	return r
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) requireSnapshots(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.Snapshots == nil {
			s.writeError(w, http.StatusServiceUnavailable, errors.New("snapshot storage is not configured"))
			return
		}
		next.ServeHTTP(w, r)
	})
}

const swaggerHTML = `
<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="utf-8" />
    <meta name="viewport" content="width=device-width, initial-scale=1" />
    <title>morenodes API Documentation</title>
    <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5.11.0/swagger-ui.css" />
</head>
<body>
<div id="swagger-ui"></div>
<script src="https://unpkg.com/swagger-ui-dist@5.11.0/swagger-ui-bundle.js" crossorigin></script>
<script>
    window.onload = () => {
    window.ui = SwaggerUIBundle({
        url: '/openapi.yaml',
        dom_id: '#swagger-ui',
    });
    };
</script>
</body>
</html>
`

// GetHealth handles GET /health.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetInfo handles GET /info.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	apiVersion := "unknown"
	if doc, err := Spec(); err == nil && doc.Info != nil {
		apiVersion = doc.Info.Version
	}
	s.writeJSON(w, http.StatusOK, map[string]string{
		"app":         "morenodes-http",
		"version":     morenodes.Version,
		"api_version": apiVersion,
	})
}

// ColorRequest is the body of POST /colors/hsv. Exactly one of RGB or Hex is set.
type ColorRequest struct {
	RGB []float64 `json:"rgb,omitempty"`
	Hex string    `json:"hex,omitempty"`
}

// ColorResponse is the result of POST /colors/hsv.
type ColorResponse struct {
	Hex      string    `json:"hex"`
	RGB      []float64 `json:"rgb"`
	HSV      []float64 `json:"hsv"`
	Textbook []float64 `json:"textbook"`
}

// ConvertColor handles POST /colors/hsv.
func (s *Server) ConvertColor(w http.ResponseWriter, r *http.Request) {
	var req ColorRequest
	if err := s.decodeValidated(r, "/colors/hsv", &req); err != nil {
		err = fmt.Errorf("%w: %w", colorspace.ErrInvalidArgument, err)
		if s.Observe != nil {
			s.Observe(err)
		}
		s.writeError(w, http.StatusBadRequest, err)
		return
	}

	var (
		rgb colorspace.RGB
		err error
	)
	switch {
	case req.Hex != "" && req.RGB != nil:
		err = fmt.Errorf("%w: give either rgb or hex", colorspace.ErrInvalidArgument)
	case req.Hex != "":
		rgb, err = colorspace.ParseHex(req.Hex)
	case req.RGB != nil:
		rgb = colorspace.RGB{R: req.RGB[0], G: req.RGB[1], B: req.RGB[2]}
	default:
		err = fmt.Errorf("%w: rgb input is missing", colorspace.ErrInvalidArgument)
	}

	var hsv colorspace.HSV
	if err == nil {
		hsv, err = colorspace.RGBToHSV(rgb.Values())
	}
	if s.Observe != nil {
		s.Observe(err)
	}
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}

	s.writeJSON(w, http.StatusOK, ColorResponse{
		Hex:      rgb.Hex(),
		RGB:      rgb.Values(),
		HSV:      hsv.Values(),
		Textbook: colorspace.Textbook(rgb).Values(),
	})
}

// ListNodeTypes handles GET /node-types.
func (s *Server) ListNodeTypes(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.Simulator.Registry().Definitions())
}

// GetNodeType handles GET /node-types/{name}.
func (s *Server) GetNodeType(w http.ResponseWriter, r *http.Request) {
	t, err := s.Simulator.Registry().Get(chi.URLParam(r, "name"))
	if err != nil {
		s.writeError(w, http.StatusNotFound, err)
		return
	}
	s.writeJSON(w, http.StatusOK, t.Definition())
}

// EvaluateResponse is the result of POST /scenes/evaluate.
type EvaluateResponse struct {
	Scene    string                `json:"scene"`
	Results  map[string]bool       `json:"results"`
	Snapshot *domain.GraphSnapshot `json:"snapshot"`
}

// EvaluateScene handles POST /scenes/evaluate. The body is a scene document;
// the optional snapshot_id query parameter stores the resulting snapshot.
func (s *Server) EvaluateScene(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodySize))
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}
	sc, err := scene.Decode(data, scene.FormatJSON)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}

	res, err := s.Simulator.Simulate(r.Context(), sc, r.URL.Query().Get("snapshot_id"))
	if err != nil {
		s.writeError(w, statusForSceneError(err), err)
		return
	}
	s.writeJSON(w, http.StatusOK, EvaluateResponse{
		Scene:    res.Scene.Name,
		Results:  res.Results,
		Snapshot: res.Snapshot,
	})
}

func statusForSceneError(err error) int {
	for _, target := range []error{
		domain.ErrNodeTypeNotFound,
		domain.ErrNodeExists,
		domain.ErrNodeNotFound,
		domain.ErrAttributeNotFound,
		domain.ErrAttributeExists,
		domain.ErrInvalidAttributeName,
		domain.ErrInvalidConnection,
		domain.ErrTypeMismatch,
	} {
		if errors.Is(err, target) {
			return http.StatusBadRequest
		}
	}
	return http.StatusInternalServerError
}

// ListSnapshots handles GET /snapshots.
func (s *Server) ListSnapshots(w http.ResponseWriter, r *http.Request) {
	ids, err := s.Snapshots.List(r.Context())
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}
	if ids == nil {
		ids = []string{}
	}
	s.writeJSON(w, http.StatusOK, ids)
}

func (s *Server) loadSnapshot(w http.ResponseWriter, r *http.Request) (*domain.GraphSnapshot, bool) {
	snap, err := s.Snapshots.Load(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, domain.ErrSnapshotNotFound) {
			status = http.StatusNotFound
		}
		s.writeError(w, status, err)
		return nil, false
	}
	return snap, true
}

// GetSnapshot handles GET /snapshots/{id}.
func (s *Server) GetSnapshot(w http.ResponseWriter, r *http.Request) {
	if snap, ok := s.loadSnapshot(w, r); ok {
		s.writeJSON(w, http.StatusOK, snap)
	}
}

// GetSnapshotGraph handles GET /snapshots/{id}/graph.
func (s *Server) GetSnapshotGraph(w http.ResponseWriter, r *http.Request) {
	snap, ok := s.loadSnapshot(w, r)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "text/vnd.mermaid")
	_, _ = io.WriteString(w, graph.GenerateMermaid(snap))
}

// PutSnapshot handles PUT /snapshots/{id}.
func (s *Server) PutSnapshot(w http.ResponseWriter, r *http.Request) {
	var snap domain.GraphSnapshot
	if err := s.decodeValidated(r, "/snapshots/{id}", &snap); err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}

	id := chi.URLParam(r, "id")
	snap.ID = id
	if err := s.Snapshots.Save(r.Context(), id, &snap); err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// DeleteSnapshot handles DELETE /snapshots/{id}.
func (s *Server) DeleteSnapshot(w http.ResponseWriter, r *http.Request) {
	if err := s.Snapshots.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// decodeValidated reads the JSON body, validates it against the operation's
// schema and decodes it into dst.
func (s *Server) decodeValidated(r *http.Request, path string, dst any) error {
	data, err := io.ReadAll(io.LimitReader(r.Body, maxBodySize))
	if err != nil {
		return fmt.Errorf("failed to read body: %w", err)
	}
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	if err := validateBody(path, r.Method, raw); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.Logger.Error("response encode failed", "err", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, err error) {
	if status >= http.StatusInternalServerError {
		s.Logger.Error("request failed", "status", status, "err", err)
	} else {
		s.Logger.Warn("request rejected", "status", status, "err", err)
	}
	s.writeJSON(w, status, map[string]string{"error": err.Error()})
}
