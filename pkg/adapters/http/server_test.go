package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/aretw0/morenodes"
	httpadapter "github.com/aretw0/morenodes/pkg/adapters/http"
	"github.com/aretw0/morenodes/pkg/adapters/memory"
	"github.com/aretw0/morenodes/pkg/colorspace"
	"github.com/aretw0/morenodes/pkg/domain"
	"github.com/aretw0/morenodes/pkg/observability"
	"github.com/aretw0/morenodes/pkg/snapshot"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	handler http.Handler
	store   *snapshot.Manager
}

func newFixture(t *testing.T, opts ...httpadapter.Option) fixture {
	t.Helper()
	store := snapshot.NewManager(memory.NewStore())
	sim := morenodes.New(
		morenodes.WithRegistry(morenodes.NewRegistry(morenodes.WithLogOutput(&bytes.Buffer{}))),
		morenodes.WithStore(store),
	)
	opts = append([]httpadapter.Option{httpadapter.WithSnapshots(store)}, opts...)
	return fixture{handler: httpadapter.NewHandler(sim, opts...), store: store}
}

func (f fixture) do(t *testing.T, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	f.handler.ServeHTTP(w, req)
	return w
}

func TestSpec_IsValid(t *testing.T) {
	doc, err := httpadapter.Spec()
	require.NoError(t, err)
	assert.Equal(t, "morenodes", doc.Info.Title)
}

func TestHealthAndInfo(t *testing.T) {
	f := newFixture(t)

	w := f.do(t, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())

	w = f.do(t, http.MethodGet, "/info", "")
	require.Equal(t, http.StatusOK, w.Code)
	var info map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &info))
	assert.Equal(t, morenodes.Version, info["version"])
	assert.Equal(t, "1.0.0", info["api_version"])

	w = f.do(t, http.MethodGet, "/openapi.yaml", "")
	assert.Contains(t, w.Body.String(), "openapi: 3.0.3")
}

func TestConvertColor(t *testing.T) {
	var observed []error
	f := newFixture(t, httpadapter.WithConversionObserver(func(err error) { observed = append(observed, err) }))

	w := f.do(t, http.MethodPost, "/colors/hsv", `{"rgb":[0,0,0.5]}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var resp httpadapter.ColorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, []float64{4, 1, 0.5}, resp.HSV)
	assert.Equal(t, []float64{240, 1, 0.5}, resp.Textbook)
	assert.Equal(t, "#000080", resp.Hex)

	w = f.do(t, http.MethodPost, "/colors/hsv", `{"hex":"#ff0000"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, []float64{0, 1, 1}, resp.HSV)

	require.Len(t, observed, 2)
	assert.NoError(t, observed[0])
}

func TestConvertColor_Invalid(t *testing.T) {
	var observed []error
	f := newFixture(t, httpadapter.WithConversionObserver(func(err error) { observed = append(observed, err) }))

	tests := []struct {
		name string
		body string
	}{
		{"malformed json", `{"rgb":`},
		{"two channels", `{"rgb":[0.1,0.2]}`},
		{"unknown field", `{"rgb":[0,0,0],"alpha":1}`},
		{"bad hex", `{"hex":"#zzzzzz"}`},
		{"empty", `{}`},
		{"both", `{"rgb":[0,0,0],"hex":"#000000"}`},
		{"null rgb", `{"rgb":null}`},
		{"four channels", `{"rgb":[0,0,0,1]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := f.do(t, http.MethodPost, "/colors/hsv", tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)

			var body map[string]string
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.NotEmpty(t, body["error"])
			assert.NotContains(t, body["error"], "\n", "schema dump is not returned")
		})
	}

	require.Len(t, observed, len(tests), "every rejected conversion is observed")
	for _, err := range observed {
		assert.ErrorIs(t, err, colorspace.ErrInvalidArgument)
	}
}

func TestNodeTypes(t *testing.T) {
	f := newFixture(t)

	w := f.do(t, http.MethodGet, "/node-types", "")
	require.Equal(t, http.StatusOK, w.Code)
	var defs []domain.NodeDefinition
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &defs))
	assert.Len(t, defs, 3)

	w = f.do(t, http.MethodGet, "/node-types/morenodes.RGBToHSV", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "inputs:rgb")

	w = f.do(t, http.MethodGet, "/node-types/nope", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

const sceneJSON = `{
	"name": "navy",
	"nodes": [
		{"path": "conv", "type": "morenodes.RGBToHSV", "values": {"inputs:rgb": [0, 0, 0.5]}},
		{"path": "log", "type": "morenodes.LoggingNode", "values": {"inputs:execIn": "ENABLED"}}
	],
	"connections": [{"from": "conv.outputs:hsv", "to": "log.inputs:dataIn0"}]
}`

func TestEvaluateScene_AndSnapshots(t *testing.T) {
	f := newFixture(t)

	w := f.do(t, http.MethodPost, "/scenes/evaluate?snapshot_id=navy-1", sceneJSON)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var resp httpadapter.EvaluateResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "navy", resp.Scene)
	assert.Equal(t, map[string]bool{"conv": true, "log": true}, resp.Results)

	w = f.do(t, http.MethodGet, "/snapshots", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `["navy-1"]`, w.Body.String())

	w = f.do(t, http.MethodGet, "/snapshots/navy-1", "")
	require.Equal(t, http.StatusOK, w.Code)
	var snap domain.GraphSnapshot
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &snap))
	n, ok := snap.Node("conv")
	require.True(t, ok)
	hsv, _ := n.Attribute("outputs:hsv")
	assert.Equal(t, []any{4.0, 1.0, 0.5}, hsv.Value)

	w = f.do(t, http.MethodGet, "/snapshots/navy-1/graph", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `conv -- "outputs:hsv → inputs:dataIn0" --> log`)

	w = f.do(t, http.MethodDelete, "/snapshots/navy-1", "")
	assert.Equal(t, http.StatusNoContent, w.Code)
	w = f.do(t, http.MethodGet, "/snapshots/navy-1", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestEvaluateScene_Errors(t *testing.T) {
	f := newFixture(t)

	w := f.do(t, http.MethodPost, "/scenes/evaluate", `{"nodes":[{"path":"a"}]}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = f.do(t, http.MethodPost, "/scenes/evaluate", `{"nodes":[{"path":"a","type":"nope"}]}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "node type not found")
}

func TestPutSnapshot(t *testing.T) {
	f := newFixture(t)

	w := f.do(t, http.MethodPut, "/snapshots/manual", `{"nodes":[{"path":"a","type":"t"}]}`)
	require.Equal(t, http.StatusNoContent, w.Code, w.Body.String())

	snap, err := f.store.Load(context.Background(), "manual")
	require.NoError(t, err)
	assert.Equal(t, "manual", snap.ID)
	require.Len(t, snap.Nodes, 1)

	w = f.do(t, http.MethodPut, "/snapshots/manual", `{"nodes":[{"path":"a"}]}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSnapshots_NotConfigured(t *testing.T) {
	h := httpadapter.NewHandler(morenodes.New())
	req := httptest.NewRequest(http.MethodGet, "/snapshots", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := observability.NewMetrics(reg)
	f := newFixture(t,
		httpadapter.WithConversionObserver(m.ObserveConversion),
		httpadapter.WithMetricsHandler(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})),
	)

	f.do(t, http.MethodPost, "/colors/hsv", `{"rgb":[1,0,0]}`)
	f.do(t, http.MethodPost, "/colors/hsv", `{"rgb":[1,0]}`)
	w := f.do(t, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `morenodes_color_conversions_total{result="success"} 1`)
	assert.Contains(t, w.Body.String(), `morenodes_color_conversions_total{result="failure"} 1`)
}

func TestCORS_Preflight(t *testing.T) {
	f := newFixture(t)
	w := f.do(t, http.MethodOptions, "/colors/hsv", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}
