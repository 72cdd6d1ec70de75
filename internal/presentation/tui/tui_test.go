package tui_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/aretw0/morenodes/internal/presentation/tui"
	"github.com/aretw0/morenodes/pkg/colorspace"
	"github.com/aretw0/morenodes/pkg/nodes/colorconvert"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsTerminal_Buffer(t *testing.T) {
	assert.False(t, tui.IsTerminal(&bytes.Buffer{}))
	assert.False(t, tui.NewPrinter(&bytes.Buffer{}).Color())
}

func TestBanner_Plain(t *testing.T) {
	var buf bytes.Buffer
	tui.NewPrinterWithColor(&buf, false).Banner("1.2.3")

	out := buf.String()
	assert.Contains(t, out, "v1.2.3")
	assert.NotContains(t, out, "\x1b[")
}

func TestSwatch(t *testing.T) {
	rgb := colorspace.RGB{R: 0, G: 0, B: 0.5}
	hsv := rgb.HSV()

	var plain bytes.Buffer
	tui.NewPrinterWithColor(&plain, false).Swatch(rgb, hsv)
	assert.Equal(t,
		"[#000080]  rgb(0, 0, 0.5) -> hsv(4, 1, 0.5)  textbook hsv(240, 1, 0.5)\n",
		plain.String())

	var colored bytes.Buffer
	tui.NewPrinterWithColor(&colored, true).Swatch(rgb, hsv)
	assert.Contains(t, colored.String(), "\x1b[")
	assert.Contains(t, colored.String(), "#000080")
}

func TestNodeDoc(t *testing.T) {
	doc := tui.NodeDoc(colorconvert.New().Definition())
	assert.True(t, strings.HasPrefix(doc, "# RGBToHSV"))
	assert.Contains(t, doc, "| `inputs:rgb` | double[3] | `[0 0 0]` |")
	assert.Contains(t, doc, "| `outputs:hsv` | double[3] |  |")
}

func TestRenderer_Plain(t *testing.T) {
	render, err := tui.NewRenderer(false, 80)
	require.NoError(t, err)

	out, err := render("# Title\n\nSome *text*.")
	require.NoError(t, err)
	assert.Contains(t, out, "Title")
	assert.Contains(t, out, "text")
}
