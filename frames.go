package termplay

import (
	"bytes"
	"fmt"
	"image"
	"image/draw"
	"image/gif"
)

// FrameExtractor is the animation collaborator: it turns encoded animation
// bytes into a finite, ordered sequence of decoded frames sampled at the
// given rate. Extraction completes (or fails) in full before playback
// begins; there is no streaming.
type FrameExtractor interface {
	Extract(data []byte, fps int) ([]image.Image, error)
}

// DefaultExtractionRate is the sampling rate used when none is given,
// independent of the playback rate.
const DefaultExtractionRate = 30

// GIFExtractor extracts frames from animated GIFs. Frames are composited
// against their predecessors according to each frame's disposal method, then
// the frame timeline is resampled at the requested rate.
type GIFExtractor struct{}

// Extract implements FrameExtractor.
func (GIFExtractor) Extract(data []byte, fps int) ([]image.Image, error) {
	if fps <= 0 {
		fps = DefaultExtractionRate
	}
	g, err := gif.DecodeAll(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	if len(g.Image) == 0 {
		return nil, ErrNoFrames
	}

	width, height := g.Config.Width, g.Config.Height
	if width == 0 || height == 0 {
		b := g.Image[0].Bounds()
		width, height = b.Max.X, b.Max.Y
	}
	if width < 2 || height < 2 {
		return nil, fmt.Errorf("%w: %dx%d", ErrImageTooSmall, width, height)
	}

	frames, delays := compositeFrames(g, width, height)
	return resampleTimeline(frames, delays, fps), nil
}

// compositeFrames flattens the GIF's partial frames into full canvases and
// returns them with their delays in 1/100ths of a second.
func compositeFrames(g *gif.GIF, width, height int) ([]image.Image, []int) {
	canvas := image.NewRGBA(image.Rect(0, 0, width, height))
	frames := make([]image.Image, 0, len(g.Image))
	delays := make([]int, 0, len(g.Image))

	for i, src := range g.Image {
		var previous *image.RGBA
		if i < len(g.Disposal) && g.Disposal[i] == gif.DisposalPrevious {
			previous = cloneRGBA(canvas)
		}

		draw.Draw(canvas, src.Bounds(), src, src.Bounds().Min, draw.Over)
		frames = append(frames, cloneRGBA(canvas))

		delay := 10 // reasonable default when the GIF omits timing
		if i < len(g.Delay) && g.Delay[i] > 0 {
			delay = g.Delay[i]
		}
		delays = append(delays, delay)

		if i < len(g.Disposal) {
			switch g.Disposal[i] {
			case gif.DisposalBackground:
				draw.Draw(canvas, src.Bounds(), image.Transparent, image.Point{}, draw.Src)
			case gif.DisposalPrevious:
				canvas = previous
			}
		}
	}
	return frames, delays
}

// resampleTimeline walks the composed timeline at a fixed sampling rate and
// picks the frame active at each sample instant. The result always contains
// at least one frame.
func resampleTimeline(frames []image.Image, delays []int, fps int) []image.Image {
	var total float64
	for _, d := range delays {
		total += float64(d)
	}
	step := 100.0 / float64(fps) // sampling period in 1/100ths of a second

	out := make([]image.Image, 0, int(total/step)+1)
	idx, elapsed := 0, 0.0
	for t := 0.0; t < total; t += step {
		for idx < len(frames)-1 && t >= elapsed+float64(delays[idx]) {
			elapsed += float64(delays[idx])
			idx++
		}
		out = append(out, frames[idx])
	}
	if len(out) == 0 {
		out = append(out, frames[0])
	}
	return out
}

func cloneRGBA(src *image.RGBA) *image.RGBA {
	dst := image.NewRGBA(src.Bounds())
	copy(dst.Pix, src.Pix)
	return dst
}
