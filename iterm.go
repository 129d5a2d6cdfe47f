package termplay

import "fmt"

// renderITerm2 builds the OSC 1337 inline-file sequence for terminals with
// native image support. The terminal does its own scaling, so the original
// bytes pass through untouched; explicit dimensions become width/height
// control parameters in cell units.
func renderITerm2(data []byte, req DimensionRequest, cols, rows int) (string, error) {
	params := fmt.Sprintf("inline=1;size=%d", len(data))
	if req.Width.IsSet() {
		w, err := req.Width.resolveAgainst(cols)
		if err != nil {
			return "", err
		}
		params += fmt.Sprintf(";width=%d", int(w))
	}
	if req.Height.IsSet() {
		h, err := req.Height.resolveAgainst(rows)
		if err != nil {
			return "", err
		}
		params += fmt.Sprintf(";height=%d", int(h))
	}
	if !req.Stretch {
		params += ";preserveAspectRatio=1"
	}
	return fmt.Sprintf("\x1b]1337;File=%s:%s\x07", params, base64Encode(data)), nil
}
