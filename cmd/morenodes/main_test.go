package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// execute runs rootCmd with args, returning stdout and stderr. Flag values
// are reset first since the commands are package globals.
func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	resetFlags(rootCmd)

	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	// Keep tests away from any morenodes.yaml in the working directory.
	rootCmd.SetArgs(append([]string{"--config", filepath.Join(t.TempDir(), "none.yaml")}, args...))
	err := rootCmd.Execute()
	return stdout.String(), stderr.String(), err
}

func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

const sceneYAML = `
name: palette
steps: 2
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

func writeScene(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "palette.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sceneYAML), 0o644))
	return path
}

func TestVersion(t *testing.T) {
	out, _, err := execute(t, "version")
	require.NoError(t, err)
	assert.Regexp(t, `^morenodes version \d+\.\d+\.\d+\n$`, out)
}

func TestHSV(t *testing.T) {
	out, _, err := execute(t, "hsv", "0", "0", "0.5")
	require.NoError(t, err)
	assert.Equal(t, "[#000080]  rgb(0, 0, 0.5) -> hsv(4, 1, 0.5)  textbook hsv(240, 1, 0.5)\n", out)
}

func TestHSV_JSON(t *testing.T) {
	out, _, err := execute(t, "hsv", "#00ff00", "--json")
	require.NoError(t, err)

	var got hsvOutput
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, "#00ff00", got.Hex)
	assert.Equal(t, []float64{2, 1, 1}, got.HSV)
	assert.Equal(t, []float64{120, 1, 1}, got.Textbook)
}

func TestHSV_Errors(t *testing.T) {
	_, _, err := execute(t, "hsv", "1", "2")
	assert.ErrorContains(t, err, "expected R G B or a hex color")

	_, _, err = execute(t, "hsv", "red", "0", "0")
	assert.ErrorContains(t, err, "not a number")

	_, _, err = execute(t, "hsv", "#zz0000")
	assert.Error(t, err)
}

func TestNodes(t *testing.T) {
	out, _, err := execute(t, "nodes", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "morenodes.RGBToHSV")
	assert.Contains(t, out, "morenodes.DynamicMatcher")
	assert.Contains(t, out, "morenodes.LoggingNode")

	out, _, err = execute(t, "nodes", "describe", "morenodes.RGBToHSV", "--raw")
	require.NoError(t, err)
	assert.Contains(t, out, "| `inputs:rgb` | double[3] | `[0 0 0]` |")

	out, _, err = execute(t, "nodes", "describe", "morenodes.RGBToHSV")
	require.NoError(t, err)
	assert.Contains(t, out, "inputs:rgb")

	_, _, err = execute(t, "nodes", "describe", "nope")
	assert.Error(t, err)
}

func TestSimulate_Text(t *testing.T) {
	out, _, err := execute(t, "simulate", writeScene(t), "--steps", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "[Logging Node at 0] inputs:dataIn0: [4 1 0.5]\n")
	assert.NotContains(t, out, "[Logging Node at 0.0166")
	assert.Contains(t, out, "conv: ok\nlog: ok\n")
}

func TestSimulate_JSON(t *testing.T) {
	out, stderr, err := execute(t, "simulate", writeScene(t), "-o", "json", "--snapshot-id", "s1")
	require.NoError(t, err)
	assert.Contains(t, stderr, "inputs:dataIn0: [4 1 0.5]", "node prints stay off stdout")

	var got struct {
		Scene    string          `json:"scene"`
		Results  map[string]bool `json:"results"`
		Snapshot struct {
			ID string `json:"id"`
		} `json:"snapshot"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, "palette", got.Scene)
	assert.Equal(t, map[string]bool{"conv": true, "log": true}, got.Results)
	assert.Equal(t, "s1", got.Snapshot.ID)
}

func TestSimulate_Mermaid(t *testing.T) {
	out, _, err := execute(t, "simulate", writeScene(t), "--format", "mermaid")
	require.NoError(t, err)
	assert.Contains(t, out, "graph LR\n")
	assert.Contains(t, out, `conv -- "outputs:hsv → inputs:dataIn0" --> log`)
}

func TestSimulate_Errors(t *testing.T) {
	_, _, err := execute(t, "simulate", writeScene(t), "--format", "svg")
	assert.ErrorContains(t, err, "unknown format")

	_, _, err = execute(t, "simulate", filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorContains(t, err, "invalid scene path")
}

func TestMCP_UnknownTransport(t *testing.T) {
	_, _, err := execute(t, "mcp", "--transport", "ws")
	assert.ErrorContains(t, err, "unknown transport")
}
