package termplay

import (
	"fmt"
	"image"
	"io"
	"os"

	"golang.org/x/term"
)

// Geometry defaults when the output stream is not a terminal.
const (
	defaultCols = 80
	defaultRows = 24
)

// Options configures a still-image render.
type Options struct {
	// Width and Height size the output; unset dimensions are derived from
	// the terminal and the image aspect ratio.
	Width  Dimension
	Height Dimension
	// Stretch disables aspect-ratio preservation.
	Stretch bool

	// Writer is the destination stream. Defaults to os.Stdout. Graphics
	// protocols are only attempted when it is an interactive terminal.
	Writer io.Writer
	// Caps overrides capability detection, mainly for tests.
	Caps *Capabilities
	// Decoder overrides the bitmap collaborator.
	Decoder Decoder
}

func (o Options) writer() io.Writer {
	if o.Writer != nil {
		return o.Writer
	}
	return os.Stdout
}

func (o Options) caps() Capabilities {
	if o.Caps != nil {
		return *o.Caps
	}
	return Detect()
}

func (o Options) decoder() Decoder {
	if o.Decoder != nil {
		return o.Decoder
	}
	return StdDecoder{}
}

func (o Options) request() DimensionRequest {
	return DimensionRequest{Width: o.Width, Height: o.Height, Stretch: o.Stretch}
}

// Render renders encoded image bytes to the configured stream and returns
// the emitted text for non-interactive capture.
//
// Strategy order: native passthrough, kitty graphics, sixel, halfblocks.
// Every strategy failure downgrades to the next; only decode and dimension
// errors surface. A structurally valid image therefore always renders, in
// the worst case as halfblocks.
func Render(data []byte, opts Options) (string, error) {
	dec := opts.decoder()
	img, err := dec.Decode(data)
	if err != nil {
		return "", err
	}

	w := opts.writer()
	cols, rows := terminalGeometry(w)
	out, err := renderStill(img, data, opts, opts.caps(), cols, rows, isInteractive(w), dec)
	if err != nil {
		return "", err
	}
	if _, err := io.WriteString(w, out); err != nil {
		return "", fmt.Errorf("failed to write frame: %w", err)
	}
	return out, nil
}

// RenderFile renders an image file. See Render.
func RenderFile(path string, opts Options) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read image: %w", err)
	}
	return Render(data, opts)
}

// renderStill runs the downgrade chain for one frame. It is also the
// animation sub-frame path: the driver calls it with the strategy already
// pinned through caps, so no per-frame re-detection happens.
func renderStill(img image.Image, data []byte, opts Options, caps Capabilities, cols, rows int, interactive bool, dec Decoder) (string, error) {
	b := img.Bounds()
	req := opts.request()

	// Resolving up front validates the dimension request for every
	// strategy and provides the fallback size.
	size, err := Resolve(b.Dx(), b.Dy(), req, cols, rows)
	if err != nil {
		return "", err
	}

	if interactive {
		if caps.NativeImages {
			if out, err := renderITerm2(data, req, cols, rows); err == nil {
				return out, nil
			}
		}
		if caps.KittyGraphics {
			if out, err := renderKitty(data, b.Dx(), b.Dy(), cols, rows, req, dec); err == nil {
				return out, nil
			}
		}
		if caps.Sixel {
			if out, err := renderSixel(img, size, dec); err == nil {
				return out, nil
			}
		}
	}
	return renderHalfblocks(img, size, caps, dec), nil
}

// terminalGeometry reports the destination terminal's column and row count,
// falling back to 80x24 for non-terminal writers.
func terminalGeometry(w io.Writer) (cols, rows int) {
	if f, ok := w.(*os.File); ok {
		if c, r, err := term.GetSize(int(f.Fd())); err == nil && c > 0 && r > 0 {
			return c, r
		}
	}
	return defaultCols, defaultRows
}

// isInteractive reports whether the writer is a character device. Graphics
// protocols require a real terminal on the other end.
func isInteractive(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}
