package termplay

import (
	"bytes"
	"fmt"
	"strings"
)

// pngMagic is the PNG signature; kitty transfers stills as PNG (f=100).
var pngMagic = []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}

// kittyRequest describes one kitty graphics transmission.
type kittyRequest struct {
	// Columns/Rows carry the sizing control keys. At most one is set when
	// aspect ratio is preserved: the protocol scales the other axis itself.
	Columns int
	Rows    int
}

// EncodeKitty converts encoded still-image bytes into the ordered chunk
// sequence of one kitty graphics transmission.
//
// The payload is base64 and split into 4096-character chunks. Chunk 0
// carries all control keys (format, action, sizing); every chunk carries the
// continuation key m=1 except the last, which carries m=0. Receivers depend
// on exactly this framing. Any decode or re-encode failure returns before a
// single chunk is produced, so an image is never half transmitted.
func EncodeKitty(data []byte, req kittyRequest, dec Decoder) ([]string, error) {
	if !bytes.HasPrefix(data, pngMagic) {
		img, err := dec.Decode(data)
		if err != nil {
			return nil, err
		}
		if data, err = dec.EncodePNG(img); err != nil {
			return nil, err
		}
	}

	payloads := chunkedBase64(data)
	if len(payloads) == 0 {
		return nil, fmt.Errorf("%w: empty kitty payload", ErrStrategy)
	}

	var sizing strings.Builder
	if req.Columns > 0 {
		fmt.Fprintf(&sizing, ",c=%d", req.Columns)
	}
	if req.Rows > 0 {
		fmt.Fprintf(&sizing, ",r=%d", req.Rows)
	}

	chunks := make([]string, 0, len(payloads))
	for i, payload := range payloads {
		more := 1
		if i == len(payloads)-1 {
			more = 0
		}
		if i == 0 {
			chunks = append(chunks, fmt.Sprintf("\x1b_Gf=100,a=T,q=2%s,m=%d;%s\x1b\\",
				sizing.String(), more, payload))
			continue
		}
		chunks = append(chunks, fmt.Sprintf("\x1b_Gm=%d;%s\x1b\\", more, payload))
	}
	return chunks, nil
}

// renderKitty orchestrates one kitty frame: it sizes the transmission
// against the terminal cell budget and joins the chunk sequence.
func renderKitty(data []byte, imgW, imgH, cols, rows int, req DimensionRequest, dec Decoder) (string, error) {
	budgetCols, budgetRows := kittyBudget(cols, rows)

	var kreq kittyRequest
	if req.Width.IsSet() {
		w, err := req.Width.resolveAgainst(budgetCols)
		if err != nil {
			return "", err
		}
		budgetCols = min(budgetCols, int(w))
	}
	if req.Height.IsSet() {
		h, err := req.Height.resolveAgainst(budgetRows)
		if err != nil {
			return "", err
		}
		budgetRows = min(budgetRows, int(h))
	}

	if req.Stretch {
		kreq.Columns = budgetCols
		kreq.Rows = budgetRows
	} else {
		kreq.Columns, kreq.Rows = kittyAxis(imgW, imgH, budgetCols, budgetRows)
	}

	chunks, err := EncodeKitty(data, kreq, dec)
	if err != nil {
		return "", err
	}
	return strings.Join(chunks, ""), nil
}
