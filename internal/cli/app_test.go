package cli

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/aretw0/morenodes/pkg/domain"
	"github.com/aretw0/morenodes/pkg/scene"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const paletteScene = `
name: palette
nodes:
  - path: conv
    type: morenodes.RGBToHSV
    values:
      inputs:rgb: [0, 0, 0.5]
  - path: log
    type: morenodes.LoggingNode
    values:
      inputs:execIn: ENABLED
connections:
  - from: conv.outputs:hsv
    to: log.inputs:dataIn0
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "morenodes.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestNewApp_Defaults(t *testing.T) {
	var nodeOut bytes.Buffer
	app, err := NewApp(Options{
		ConfigPath: filepath.Join(t.TempDir(), "missing.yaml"),
		LogOutput:  io.Discard,
		NodeOutput: &nodeOut,
	})
	require.NoError(t, err)
	defer app.Close()

	assert.Equal(t, "info", app.Config.LogLevel)
	require.NotNil(t, app.Metrics, "metrics are enabled by default")

	sc, err := scene.Decode([]byte(paletteScene), scene.FormatYAML)
	require.NoError(t, err)
	res, err := app.Simulator.Simulate(context.Background(), sc, "snap")
	require.NoError(t, err)
	assert.Equal(t, map[string]bool{"conv": true, "log": true}, res.Results)
	assert.Contains(t, nodeOut.String(), "inputs:dataIn0: [4 1 0.5]")

	ids, err := app.Snapshots.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"snap"}, ids)
}

func TestNewApp_LogLevelOverride(t *testing.T) {
	_, err := NewApp(Options{ConfigPath: writeConfig(t, "log_level: debug\n"), LogLevel: "loud", LogOutput: io.Discard})
	require.Error(t, err)

	app, err := NewApp(Options{ConfigPath: writeConfig(t, "log_level: loud\n"), LogLevel: "warn", LogOutput: io.Discard})
	require.NoError(t, err)
	assert.Equal(t, "warn", app.Config.LogLevel)
}

func TestNewApp_InvalidConfig(t *testing.T) {
	_, err := NewApp(Options{ConfigPath: writeConfig(t, "colour: red\n"), LogOutput: io.Discard})
	assert.Error(t, err)
}

func TestNewApp_Redis(t *testing.T) {
	mr := miniredis.RunT(t)
	path := writeConfig(t, fmt.Sprintf("redis:\n  addr: %s\n  prefix: \"test:\"\n  ttl: 1h\nmetrics:\n  enabled: false\n", mr.Addr()))

	app, err := NewApp(Options{ConfigPath: path, LogOutput: io.Discard, NodeOutput: io.Discard})
	require.NoError(t, err)
	defer app.Close()
	assert.Nil(t, app.Metrics)

	ctx := context.Background()
	require.NoError(t, app.Snapshots.Save(ctx, "s1", &domain.GraphSnapshot{Scene: "x"}))
	assert.True(t, mr.Exists("test:snapshot:s1"))

	loaded, err := app.Snapshots.Load(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "s1", loaded.ID)
}

func TestNewApp_RedisUnreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	_, err := NewApp(Options{ConfigPath: writeConfig(t, "redis:\n  addr: "+addr+"\n"), LogOutput: io.Discard})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to connect to redis")
}

func TestApp_HTTPHandler(t *testing.T) {
	app, err := NewApp(Options{ConfigPath: filepath.Join(t.TempDir(), "none.yaml"), LogOutput: io.Discard})
	require.NoError(t, err)

	srv := httptest.NewServer(app.HTTPHandler())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	assert.NotNil(t, app.MCPServer().MCPServer())
}

func TestNewApp_SealedSnapshots(t *testing.T) {
	key := base64.StdEncoding.EncodeToString(bytes.Repeat([]byte{7}, 32))
	path := writeConfig(t, "snapshot:\n  encryption_key: "+key+"\n  redact: [\"^inputs:rgb$\"]\n")

	app, err := NewApp(Options{ConfigPath: path, LogOutput: io.Discard, NodeOutput: io.Discard})
	require.NoError(t, err)

	sc, err := scene.Decode([]byte(paletteScene), scene.FormatYAML)
	require.NoError(t, err)
	_, err = app.Simulator.Simulate(context.Background(), sc, "sealed")
	require.NoError(t, err)

	loaded, err := app.Snapshots.Load(context.Background(), "sealed")
	require.NoError(t, err)
	conv, ok := loaded.Node("conv")
	require.True(t, ok)
	rgb, _ := conv.Attribute("inputs:rgb")
	assert.Equal(t, "***", rgb.Value)
	hsv, _ := conv.Attribute("outputs:hsv")
	assert.Equal(t, []any{4.0, 1.0, 0.5}, hsv.Value)
}

func TestNewApp_BadEncryptionKey(t *testing.T) {
	_, err := NewApp(Options{ConfigPath: writeConfig(t, "snapshot:\n  encryption_key: \"!!\"\n"), LogOutput: io.Discard})
	assert.ErrorContains(t, err, "encryption_key")

	_, err = NewApp(Options{ConfigPath: writeConfig(t, "snapshot:\n  encryption_key: a2V5\n"), LogOutput: io.Discard})
	assert.ErrorContains(t, err, "32 bytes")
}
