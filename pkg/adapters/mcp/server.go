package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/aretw0/morenodes"
	"github.com/aretw0/morenodes/internal/logging"
	"github.com/aretw0/morenodes/internal/presentation/tui"
	"github.com/aretw0/morenodes/pkg/colorspace"
	"github.com/aretw0/morenodes/pkg/domain"
	"github.com/aretw0/morenodes/pkg/registry"
	"github.com/aretw0/morenodes/pkg/scene"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

const nodeTypesURI = "morenodes://node-types"

// Simulator is the part of morenodes.Simulator the MCP server needs.
type Simulator interface {
	Simulate(ctx context.Context, sc *domain.Scene, snapshotID string) (*morenodes.Result, error)
	Registry() *registry.Registry
}

// ColorArgs are the arguments of the rgb_to_hsv tool. Either all of R, G
// and B or Hex must be given.
type ColorArgs struct {
	R   *float64 `json:"r,omitempty"`
	G   *float64 `json:"g,omitempty"`
	B   *float64 `json:"b,omitempty"`
	Hex string   `json:"hex,omitempty"`
}

// ColorResult is the structured output of the rgb_to_hsv tool.
type ColorResult struct {
	Hex      string    `json:"hex" jsonschema_description:"The input color as #rrggbb"`
	HSV      []float64 `json:"hsv" jsonschema_description:"Hue, saturation and value as computed by the RGBToHSV node"`
	Textbook []float64 `json:"textbook" jsonschema_description:"The standard conversion, for comparison"`
}

// DescribeArgs are the arguments of the describe_node_type tool.
type DescribeArgs struct {
	Name string `json:"name"`
}

// EvaluateArgs are the arguments of the evaluate_scene tool.
type EvaluateArgs struct {
	Scene      string `json:"scene"`
	SnapshotID string `json:"snapshot_id,omitempty"`
}

// EvaluateResult is the structured output of the evaluate_scene tool.
type EvaluateResult struct {
	Scene    string                `json:"scene" jsonschema_description:"Scene name"`
	Results  map[string]bool       `json:"results" jsonschema_description:"Compute result per node path"`
	Snapshot *domain.GraphSnapshot `json:"snapshot" jsonschema_description:"Graph state after evaluation"`
}

// Server exposes the converter and the simulator as an MCP server.
type Server struct {
	sim       Simulator
	observe   func(error)
	logger    *slog.Logger
	mcpServer *server.MCPServer
}

// Option configures the Server.
type Option func(*Server)

// WithConversionObserver is called with the outcome of every rgb_to_hsv call.
func WithConversionObserver(fn func(error)) Option {
	return func(s *Server) {
		s.observe = fn
	}
}

// WithLogger sets the server logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// NewServer creates a new MCP Server instance.
func NewServer(sim Simulator, opts ...Option) *Server {
	s := &Server{
		sim:       sim,
		logger:    logging.NewNop(),
		mcpServer: server.NewMCPServer("morenodes-mcp", morenodes.Version),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.registerTools()
	s.registerResources()
	return s
}

// MCPServer returns the underlying mcp-go server.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcpServer
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE serves over SSE on port until ctx is done.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(fmt.Sprintf("http://localhost:%d", port)))

	mux := http.NewServeMux()
	mux.Handle("/sse", sseServer.SSEHandler())
	mux.Handle("/message", sseServer.MessageHandler())

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("MCP server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func (s *Server) registerTools() {
	s.mcpServer.AddTool(mcp.NewTool("rgb_to_hsv",
		mcp.WithDescription("Convert a color to HSV with the RGBToHSV node's hue formula. Pass r, g and b in [0, 1], or hex."),
		mcp.WithNumber("r", mcp.Description("Red channel")),
		mcp.WithNumber("g", mcp.Description("Green channel")),
		mcp.WithNumber("b", mcp.Description("Blue channel")),
		mcp.WithString("hex", mcp.Description("Color as #rrggbb")),
		mcp.WithOutputSchema[ColorResult](),
	), mcp.NewStructuredToolHandler(s.handleRGBToHSV))

	s.mcpServer.AddTool(mcp.NewTool("list_node_types",
		mcp.WithDescription("List the node types available to scenes, with their attributes."),
	), s.handleListNodeTypes)

	s.mcpServer.AddTool(mcp.NewTool("describe_node_type",
		mcp.WithDescription("Get the Markdown documentation of a node type."),
		mcp.WithString("name", mcp.Required(), mcp.Description("Node type name, e.g. morenodes.LoggingNode")),
	), mcp.NewTypedToolHandler(s.handleDescribeNodeType))

	s.mcpServer.AddTool(mcp.NewTool("evaluate_scene",
		mcp.WithDescription("Build a scene on a mocked host graph, evaluate it and return each node's result and the resulting graph snapshot."),
		mcp.WithString("scene", mcp.Required(), mcp.Description("Scene document as JSON: name, steps, nodes[{path,type,values,dynamic}], connections[{from,to}]")),
		mcp.WithString("snapshot_id", mcp.Description("Store the snapshot under this ID (optional)")),
		mcp.WithOutputSchema[EvaluateResult](),
	), mcp.NewStructuredToolHandler(s.handleEvaluateScene))
}

func (s *Server) handleRGBToHSV(ctx context.Context, request mcp.CallToolRequest, args ColorArgs) (ColorResult, error) {
	rgb, err := args.rgb()
	var hsv colorspace.HSV
	if err == nil {
		hsv, err = colorspace.RGBToHSV(rgb.Values())
	}
	if s.observe != nil {
		s.observe(err)
	}
	if err != nil {
		return ColorResult{}, err
	}
	return ColorResult{
		Hex:      rgb.Hex(),
		HSV:      hsv.Values(),
		Textbook: colorspace.Textbook(rgb).Values(),
	}, nil
}

func (a ColorArgs) rgb() (colorspace.RGB, error) {
	channels := a.R != nil || a.G != nil || a.B != nil
	switch {
	case a.Hex != "" && channels:
		return colorspace.RGB{}, fmt.Errorf("%w: give either r, g, b or hex", colorspace.ErrInvalidArgument)
	case a.Hex != "":
		return colorspace.ParseHex(a.Hex)
	case a.R != nil && a.G != nil && a.B != nil:
		return colorspace.RGB{R: *a.R, G: *a.G, B: *a.B}, nil
	case channels:
		return colorspace.RGB{}, fmt.Errorf("%w: r, g and b are all required", colorspace.ErrInvalidArgument)
	}
	return colorspace.RGB{}, fmt.Errorf("%w: rgb input is missing", colorspace.ErrInvalidArgument)
}

func (s *Server) handleListNodeTypes(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	data, err := json.Marshal(s.sim.Registry().Definitions())
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("encode failed: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

func (s *Server) handleDescribeNodeType(ctx context.Context, request mcp.CallToolRequest, args DescribeArgs) (*mcp.CallToolResult, error) {
	t, err := s.sim.Registry().Get(args.Name)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(tui.NodeDoc(t.Definition())), nil
}

func (s *Server) handleEvaluateScene(ctx context.Context, request mcp.CallToolRequest, args EvaluateArgs) (EvaluateResult, error) {
	if args.Scene == "" {
		return EvaluateResult{}, errors.New("scene is required")
	}
	sc, err := scene.Decode([]byte(args.Scene), scene.FormatJSON)
	if err != nil {
		return EvaluateResult{}, fmt.Errorf("invalid scene: %w", err)
	}

	res, err := s.sim.Simulate(ctx, sc, args.SnapshotID)
	if err != nil {
		s.logger.Warn("MCP evaluate_scene failed", "scene", sc.Name, "err", err)
		return EvaluateResult{}, fmt.Errorf("evaluate failed: %w", err)
	}
	return EvaluateResult{
		Scene:    res.Scene.Name,
		Results:  res.Results,
		Snapshot: res.Snapshot,
	}, nil
}

func (s *Server) registerResources() {
	s.mcpServer.AddResource(mcp.NewResource(nodeTypesURI, "Node Types",
		mcp.WithResourceDescription("Definitions of every registered node type"),
		mcp.WithMIMEType("application/json"),
	), s.readNodeTypes)
}

func (s *Server) readNodeTypes(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	data, err := json.Marshal(s.sim.Registry().Definitions())
	if err != nil {
		return nil, fmt.Errorf("failed to encode node types: %w", err)
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      nodeTypesURI,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}
