package termplay

import (
	"bytes"
	"image"
	"image/color"
	"image/gif"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// encodeTestGIF builds an animated GIF of solid-color frames, one per delay
// (delays in 1/100ths of a second).
func encodeTestGIF(t *testing.T, w, h int, colors []color.RGBA, delays []int) []byte {
	t.Helper()
	require.Equal(t, len(colors), len(delays))

	anim := &gif.GIF{Config: image.Config{Width: w, Height: h}}
	for i, c := range colors {
		pal := color.Palette{color.RGBA{A: 255}, c}
		frame := image.NewPaletted(image.Rect(0, 0, w, h), pal)
		for p := range frame.Pix {
			frame.Pix[p] = 1
		}
		anim.Image = append(anim.Image, frame)
		anim.Delay = append(anim.Delay, delays[i])
	}

	var buf bytes.Buffer
	require.NoError(t, gif.EncodeAll(&buf, anim))
	return buf.Bytes()
}

func TestGIFExtractorResampling(t *testing.T) {
	red := color.RGBA{R: 255, A: 255}
	blue := color.RGBA{B: 255, A: 255}

	// Two 100ms frames sampled at 30fps: six samples, three per frame.
	data := encodeTestGIF(t, 4, 4, []color.RGBA{red, blue}, []int{10, 10})

	frames, err := GIFExtractor{}.Extract(data, 30)
	require.NoError(t, err)
	require.Len(t, frames, 6)

	firstPixel := func(img image.Image) color.RGBA {
		return toRGBA(img).RGBAAt(0, 0)
	}
	assert.Equal(t, red, firstPixel(frames[0]))
	assert.Equal(t, red, firstPixel(frames[2]))
	assert.Equal(t, blue, firstPixel(frames[3]))
	assert.Equal(t, blue, firstPixel(frames[5]))
}

func TestGIFExtractorUnevenDelays(t *testing.T) {
	red := color.RGBA{R: 255, A: 255}
	blue := color.RGBA{B: 255, A: 255}

	// 30ms + 90ms at 10fps (10 hundredths per sample): sample instants land
	// at 0 (frame 0) and 10 (frame 1), dropping the short frame's duplicates.
	data := encodeTestGIF(t, 4, 4, []color.RGBA{red, blue}, []int{3, 9})

	frames, err := GIFExtractor{}.Extract(data, 10)
	require.NoError(t, err)
	require.Len(t, frames, 2)
	assert.Equal(t, red, toRGBA(frames[0]).RGBAAt(0, 0))
	assert.Equal(t, blue, toRGBA(frames[1]).RGBAAt(0, 0))
}

func TestGIFExtractorDefaultRate(t *testing.T) {
	data := encodeTestGIF(t, 4, 4, []color.RGBA{{R: 255, A: 255}}, []int{10})

	// fps <= 0 falls back to the default sampling rate.
	frames, err := GIFExtractor{}.Extract(data, 0)
	require.NoError(t, err)
	assert.Len(t, frames, 3)
}

func TestGIFExtractorTooSmall(t *testing.T) {
	data := encodeTestGIF(t, 1, 1, []color.RGBA{{R: 255, A: 255}}, []int{10})

	_, err := GIFExtractor{}.Extract(data, 30)
	assert.ErrorIs(t, err, ErrImageTooSmall)
}

func TestGIFExtractorBadData(t *testing.T) {
	_, err := GIFExtractor{}.Extract([]byte("not a gif"), 30)
	assert.ErrorIs(t, err, ErrDecode)
}

func TestGIFExtractorZeroDelay(t *testing.T) {
	// A zero delay still produces at least one sampled frame.
	data := encodeTestGIF(t, 4, 4, []color.RGBA{{G: 255, A: 255}}, []int{0})

	frames, err := GIFExtractor{}.Extract(data, 30)
	require.NoError(t, err)
	assert.NotEmpty(t, frames)
}
