package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/aretw0/morenodes"
	"github.com/aretw0/morenodes/pkg/adapters/memory"
	"github.com/aretw0/morenodes/pkg/colorspace"
	"github.com/aretw0/morenodes/pkg/domain"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, opts ...Option) (*Server, *memory.Store) {
	t.Helper()
	store := memory.NewStore()
	sim := morenodes.New(
		morenodes.WithRegistry(morenodes.NewRegistry(morenodes.WithLogOutput(&bytes.Buffer{}))),
		morenodes.WithStore(store),
	)
	return NewServer(sim, opts...), store
}

func f64(v float64) *float64 { return &v }

func textOf(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	require.NotNil(t, res)
	require.NotEmpty(t, res.Content)
	text, ok := res.Content[0].(mcp.TextContent)
	require.True(t, ok)
	return text.Text
}

func TestRGBToHSV(t *testing.T) {
	var observed []error
	s, _ := newTestServer(t, WithConversionObserver(func(err error) { observed = append(observed, err) }))
	ctx := context.Background()

	res, err := s.handleRGBToHSV(ctx, mcp.CallToolRequest{}, ColorArgs{R: f64(0), G: f64(0), B: f64(0.5)})
	require.NoError(t, err)
	assert.Equal(t, []float64{4, 1, 0.5}, res.HSV)
	assert.Equal(t, []float64{240, 1, 0.5}, res.Textbook)
	assert.Equal(t, "#000080", res.Hex)

	res, err = s.handleRGBToHSV(ctx, mcp.CallToolRequest{}, ColorArgs{Hex: "00ff00"})
	require.NoError(t, err)
	// Green dominant: 60*((b-r)/diff) + 2.
	assert.Equal(t, []float64{2, 1, 1}, res.HSV)

	require.Len(t, observed, 2)
}

func TestRGBToHSV_InvalidArgs(t *testing.T) {
	s, _ := newTestServer(t)
	ctx := context.Background()

	for name, args := range map[string]ColorArgs{
		"missing": {},
		"partial": {R: f64(1), G: f64(0)},
		"both":    {R: f64(1), G: f64(0), B: f64(0), Hex: "#ff0000"},
		"bad hex": {Hex: "nothex"},
	} {
		t.Run(name, func(t *testing.T) {
			_, err := s.handleRGBToHSV(ctx, mcp.CallToolRequest{}, args)
			assert.ErrorIs(t, err, colorspace.ErrInvalidArgument)
		})
	}
}

func TestListAndDescribeNodeTypes(t *testing.T) {
	s, _ := newTestServer(t)
	ctx := context.Background()

	res, err := s.handleListNodeTypes(ctx, mcp.CallToolRequest{})
	require.NoError(t, err)
	var defs []domain.NodeDefinition
	require.NoError(t, json.Unmarshal([]byte(textOf(t, res)), &defs))
	assert.Len(t, defs, 3)

	res, err = s.handleDescribeNodeType(ctx, mcp.CallToolRequest{}, DescribeArgs{Name: "morenodes.LoggingNode"})
	require.NoError(t, err)
	assert.False(t, res.IsError)
	assert.Contains(t, textOf(t, res), "inputs:verbosity")

	res, err = s.handleDescribeNodeType(ctx, mcp.CallToolRequest{}, DescribeArgs{Name: "nope"})
	require.NoError(t, err)
	assert.True(t, res.IsError)
}

func TestEvaluateScene(t *testing.T) {
	s, store := newTestServer(t)
	ctx := context.Background()

	doc := `{
		"name": "navy",
		"nodes": [
			{"path": "conv", "type": "morenodes.RGBToHSV", "values": {"inputs:rgb": [0, 0, 0.5]}},
			{"path": "match", "type": "morenodes.DynamicMatcher",
			 "dynamic": [{"name": "inputs:data0", "type": "double[3]"}, {"name": "outputs:data0", "type": "double[3]"}]}
		],
		"connections": [{"from": "conv.outputs:hsv", "to": "match.inputs:data0"}]
	}`
	res, err := s.handleEvaluateScene(ctx, mcp.CallToolRequest{}, EvaluateArgs{Scene: doc, SnapshotID: "mcp-1"})
	require.NoError(t, err)
	assert.Equal(t, "navy", res.Scene)
	assert.Equal(t, map[string]bool{"conv": true, "match": true}, res.Results)

	n, ok := res.Snapshot.Node("match")
	require.True(t, ok)
	out, _ := n.Attribute("outputs:data0")
	assert.Equal(t, []float64{4, 1, 0.5}, out.Value)

	_, err = store.Load(ctx, "mcp-1")
	assert.NoError(t, err)

	_, err = s.handleEvaluateScene(ctx, mcp.CallToolRequest{}, EvaluateArgs{})
	assert.Error(t, err)
	_, err = s.handleEvaluateScene(ctx, mcp.CallToolRequest{}, EvaluateArgs{Scene: `{"nodes":[{"path":"a","type":"nope"}]}`})
	assert.ErrorIs(t, err, domain.ErrNodeTypeNotFound)
}

func TestReadNodeTypesResource(t *testing.T) {
	s, _ := newTestServer(t)

	contents, err := s.readNodeTypes(context.Background(), mcp.ReadResourceRequest{})
	require.NoError(t, err)
	require.Len(t, contents, 1)
	text, ok := contents[0].(mcp.TextResourceContents)
	require.True(t, ok)
	assert.Equal(t, nodeTypesURI, text.URI)
	assert.Contains(t, text.Text, "morenodes.DynamicMatcher")
}
