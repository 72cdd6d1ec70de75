package colorspace_test

import (
	"testing"

	"github.com/aretw0/morenodes/pkg/colorspace"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTextbook_DiffersFromLibraryHue(t *testing.T) {
	c := colorspace.RGB{R: 150.0 / 255, G: 100.0 / 255, B: 50.0 / 255}

	textbook := colorspace.Textbook(c)
	library := c.HSV()

	assert.InDelta(t, 30.0, textbook.H, 1e-9)
	assert.InDelta(t, library.S, textbook.S, 1e-12)
	assert.InDelta(t, library.V, textbook.V, 1e-12)
	assert.NotEqual(t, textbook.H, library.H)
}

func TestParseHex(t *testing.T) {
	c, err := colorspace.ParseHex("#963264")
	require.NoError(t, err)
	assert.InDelta(t, 150.0/255, c.R, 1e-12)
	assert.InDelta(t, 50.0/255, c.G, 1e-12)
	assert.InDelta(t, 100.0/255, c.B, 1e-12)

	bare, err := colorspace.ParseHex("963264")
	require.NoError(t, err)
	assert.Equal(t, c, bare)

	_, err = colorspace.ParseHex("not-a-color")
	assert.ErrorIs(t, err, colorspace.ErrInvalidArgument)
}

func TestRGB_Hex(t *testing.T) {
	assert.Equal(t, "#963264", colorspace.RGB{R: 150.0 / 255, G: 50.0 / 255, B: 100.0 / 255}.Hex())
	assert.Equal(t, "#ff0000", colorspace.RGB{R: 3, G: -1, B: 0}.Hex())
}
