package termplay

import (
	"bytes"
	"fmt"
	"image"

	"github.com/makeworld-the-better-one/dither/v2"
	"github.com/mattn/go-sixel"
	"github.com/soniakeys/quant/median"
)

// sixelColors is the palette size used for sixel output. Sixel encoding is
// slow; 100 colors keeps it tolerable.
const sixelColors = 100

// renderSixel encodes img as a DCS sixel sequence for terminals that support
// it. The image is quantized with a median-cut palette and Stucki dithering
// before encoding.
func renderSixel(img image.Image, size ResolvedSize, dec Decoder) (string, error) {
	resized := dec.Resize(img, size.Width, size.Height)

	quantizer := median.Quantizer(sixelColors)
	palette := quantizer.Palette(resized).ColorPalette()

	// NewDitherer rejects palettes under two colors (flat images).
	quantized := resized
	if ditherer := dither.NewDitherer(palette); ditherer != nil {
		ditherer.Matrix = dither.Stucki
		quantized = ditherer.Dither(resized)
	}

	var buf bytes.Buffer
	enc := sixel.NewEncoder(&buf)
	enc.Colors = sixelColors
	enc.Dither = false // already dithered against the optimized palette
	if err := enc.Encode(quantized); err != nil {
		return "", fmt.Errorf("%w: sixel: %v", ErrStrategy, err)
	}
	if buf.Len() == 0 {
		return "", fmt.Errorf("%w: sixel produced empty output", ErrStrategy)
	}
	return fmt.Sprintf("\x1bPq%s\x1b\\", buf.String()), nil
}
