package termplay

import (
	"image"
	"image/color"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blacktop/go-termplay/pkg/csi"
)

func solidImage(w, h int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

func TestEncodeHalfblocksOpaque(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	red := color.RGBA{R: 255, A: 255}
	blue := color.RGBA{B: 255, A: 255}
	img.SetRGBA(0, 0, red)
	img.SetRGBA(1, 0, red)
	img.SetRGBA(0, 1, blue)
	img.SetRGBA(1, 1, blue)

	lines := EncodeHalfblocks(img, KindCapabilities(KindStandard))
	require.Len(t, lines, 1)

	// Top pixel becomes the cell background, bottom the lower half block.
	cell := csi.Background(255, 0, 0) + csi.Foreground(0, 0, 255) + "▄" + csi.Reset
	assert.Equal(t, cell+cell, lines[0])
}

func TestEncodeHalfblocksTransparency(t *testing.T) {
	opaque := color.RGBA{R: 10, G: 20, B: 30, A: 255}

	tests := []struct {
		name     string
		top      color.RGBA
		bottom   color.RGBA
		caps     Capabilities
		expected string
	}{
		{
			name:     "both fully transparent blanks",
			top:      color.RGBA{},
			bottom:   color.RGBA{},
			caps:     KindCapabilities(KindStandard),
			expected: " ",
		},
		{
			name:     "top transparent takes upper glyph in bottom color",
			top:      color.RGBA{A: 49},
			bottom:   opaque,
			caps:     KindCapabilities(KindStandard),
			expected: csi.Foreground(10, 20, 30) + "▀" + csi.Reset,
		},
		{
			name:     "bottom transparent takes lower glyph in top color",
			top:      opaque,
			bottom:   color.RGBA{A: 49},
			caps:     KindCapabilities(KindStandard),
			expected: csi.Foreground(10, 20, 30) + "▄" + csi.Reset,
		},
		{
			// Half-opaque pixels survive on terminals that composite, but
			// blank out where the real background never shows through.
			name:     "half opaque pair blanks under blank policy",
			top:      color.RGBA{R: 10, G: 20, B: 30, A: 100},
			bottom:   color.RGBA{R: 10, G: 20, B: 30, A: 100},
			caps:     KindCapabilities(KindMultiplexer),
			expected: " ",
		},
		{
			name:     "half opaque pair renders on standard",
			top:      color.RGBA{R: 10, G: 20, B: 30, A: 100},
			bottom:   color.RGBA{R: 40, G: 50, B: 60, A: 100},
			caps:     KindCapabilities(KindStandard),
			expected: csi.Background(10, 20, 30) + csi.Foreground(40, 50, 60) + "▄" + csi.Reset,
		},
		{
			// VS Code insets backgrounds, so the opaque pair flips to the
			// upper glyph with the top color in the foreground.
			name:     "vscode opaque pair uses upper glyph",
			top:      color.RGBA{R: 10, G: 20, B: 30, A: 255},
			bottom:   color.RGBA{R: 40, G: 50, B: 60, A: 255},
			caps:     KindCapabilities(KindVSCode),
			expected: csi.Foreground(10, 20, 30) + csi.Background(40, 50, 60) + "▀" + csi.Reset,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img := image.NewRGBA(image.Rect(0, 0, 1, 2))
			img.SetRGBA(0, 0, tt.top)
			img.SetRGBA(0, 1, tt.bottom)

			lines := EncodeHalfblocks(img, tt.caps)
			require.Len(t, lines, 1)
			assert.Equal(t, tt.expected, lines[0])
		})
	}
}

func TestEncodeHalfblocksDropsUnpairedRow(t *testing.T) {
	img := solidImage(3, 5, color.RGBA{R: 255, A: 255})
	lines := EncodeHalfblocks(img, KindCapabilities(KindStandard))
	assert.Len(t, lines, 2)
}

func TestEncodeHalfblocksLineShape(t *testing.T) {
	img := solidImage(4, 6, color.RGBA{G: 128, A: 255})
	lines := EncodeHalfblocks(img, KindCapabilities(KindStandard))
	require.Len(t, lines, 3)
	for _, line := range lines {
		assert.Equal(t, 4, strings.Count(line, "▄"))
		assert.Equal(t, 4, strings.Count(line, csi.Reset))
		assert.True(t, strings.HasSuffix(line, csi.Reset))
	}
}
