package termplay

import (
	"image"
	"strings"

	"github.com/blacktop/go-termplay/pkg/csi"
)

const (
	upperHalfBlock = "▀"
	lowerHalfBlock = "▄"
)

// Alpha thresholds for the halfblock transparency policy.
const (
	// A pixel this faint contributes no half block of its own.
	nearTransparentAlpha = 50
	// On BlankTransparency terminals a cell whose two pixels are both below
	// half opacity renders as a blank.
	blankThresholdAlpha = 128
)

// EncodeHalfblocks converts an RGBA grid into styled text lines, two image
// rows per line. This is the universal fallback: it produces a renderable
// result for every terminal kind.
//
// Each column renders one of five cases from the two stacked samples' alpha
// values and the terminal's transparency policy. Color is always emitted as
// 24-bit SGR sequences. A final unpaired image row is dropped.
func EncodeHalfblocks(img image.Image, caps Capabilities) []string {
	rgba := toRGBA(img)
	b := rgba.Bounds()
	w, h := b.Dx(), b.Dy()

	lines := make([]string, 0, h/2)
	var sb strings.Builder
	for y := 0; y+1 < h; y += 2 {
		sb.Reset()
		for x := 0; x < w; x++ {
			top := rgba.RGBAAt(x, y)
			bottom := rgba.RGBAAt(x, y+1)

			switch {
			case caps.BlankTransparency &&
				top.A < blankThresholdAlpha && bottom.A < blankThresholdAlpha:
				sb.WriteString(" ")
			case top.A == 0 && bottom.A == 0:
				sb.WriteString(" ")
			case top.A < nearTransparentAlpha:
				sb.WriteString(csi.Foreground(bottom.R, bottom.G, bottom.B))
				sb.WriteString(upperHalfBlock)
				sb.WriteString(csi.Reset)
			case bottom.A < nearTransparentAlpha:
				sb.WriteString(csi.Foreground(top.R, top.G, top.B))
				sb.WriteString(lowerHalfBlock)
				sb.WriteString(csi.Reset)
			case caps.Kind == KindVSCode:
				// VS Code insets cell backgrounds slightly, leaving seams
				// between rows when the top pixel rides in the background.
				sb.WriteString(csi.Foreground(top.R, top.G, top.B))
				sb.WriteString(csi.Background(bottom.R, bottom.G, bottom.B))
				sb.WriteString(upperHalfBlock)
				sb.WriteString(csi.Reset)
			default:
				sb.WriteString(csi.Background(top.R, top.G, top.B))
				sb.WriteString(csi.Foreground(bottom.R, bottom.G, bottom.B))
				sb.WriteString(lowerHalfBlock)
				sb.WriteString(csi.Reset)
			}
		}
		lines = append(lines, sb.String())
	}
	return lines
}

// renderHalfblocks resizes img to size via the decoder and returns the
// joined frame text.
func renderHalfblocks(img image.Image, size ResolvedSize, caps Capabilities, dec Decoder) string {
	resized := dec.Resize(img, size.Width, size.Height)
	return strings.Join(EncodeHalfblocks(resized, caps), "\n")
}
