package termplay

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Terminal area reserved so rendered output never collides with the prompt.
// The halfblock path gives up rows; the kitty path reserves both axes.
const (
	promptRowOffset = 2
	kittyColMargin  = 2
	kittyRowMargin  = 4
)

// cellAspect is the assumed width:height ratio of one terminal cell.
// One cell is about half as wide as it is tall, which is also why a cell
// encodes two stacked pixels on the halfblock path.
const cellAspect = 2

// Dimension is an optional width or height request, either an absolute cell
// count or a percentage of the terminal axis. The zero value is "unset".
type Dimension struct {
	value   float64
	percent bool
	set     bool
}

// Cells returns an absolute dimension in terminal cells.
func Cells(n int) Dimension {
	return Dimension{value: float64(n), set: true}
}

// Percent returns a dimension as a percentage of the terminal axis.
// Validity is checked at resolution time.
func Percent(p float64) Dimension {
	return Dimension{value: p, percent: true, set: true}
}

// ParseDimension parses "64" as an absolute cell count and "75%" as a
// percentage. An empty string is the unset dimension.
func ParseDimension(s string) (Dimension, error) {
	if s == "" {
		return Dimension{}, nil
	}
	if p, ok := strings.CutSuffix(s, "%"); ok {
		v, err := strconv.ParseFloat(p, 64)
		if err != nil {
			return Dimension{}, fmt.Errorf("%w: %q", ErrInvalidDimension, s)
		}
		return Percent(v), nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return Dimension{}, fmt.Errorf("%w: %q", ErrInvalidDimension, s)
	}
	return Cells(v), nil
}

// IsSet reports whether the dimension was specified.
func (d Dimension) IsSet() bool { return d.set }

// resolveAgainst turns the dimension into a concrete value on the given
// terminal basis. Percentages must lie in (0, 100]; absolute values are used
// as-is.
func (d Dimension) resolveAgainst(basis int) (float64, error) {
	if !d.percent {
		if d.value <= 0 {
			return 0, fmt.Errorf("%w: %g", ErrInvalidDimension, d.value)
		}
		return d.value, nil
	}
	if d.value <= 0 || d.value > 100 {
		return 0, fmt.Errorf("%w: %g%%", ErrInvalidDimension, d.value)
	}
	return float64(basis) * d.value / 100, nil
}

// DimensionRequest is the per-render sizing request.
type DimensionRequest struct {
	Width  Dimension
	Height Dimension
	// Stretch disables aspect-ratio preservation when both axes are given.
	Stretch bool
}

// ResolvedSize is the target size in image pixels. On the halfblock path one
// pixel maps to one cell column and two pixels to one terminal row.
type ResolvedSize struct {
	Width  int
	Height int
}

// Lines returns the number of terminal rows the halfblock rendering of this
// size occupies.
func (s ResolvedSize) Lines() int {
	return s.Height / 2
}

// Resolve computes the target pixel size for the halfblock path from the
// image geometry, the sizing request and the terminal geometry.
//
// Explicit dimensions resolve independently against their axis (heights are
// given in rows, worth two pixels each); a single dimension derives the other
// from the image aspect ratio; no dimensions contain-fits into the terminal.
// A resolved width wider than the terminal re-contains using the original
// image aspect ratio. Rounding happens once, at the end.
func Resolve(imgW, imgH int, req DimensionRequest, cols, rows int) (ResolvedSize, error) {
	if imgW <= 0 || imgH <= 0 {
		return ResolvedSize{}, fmt.Errorf("%w: source %dx%d", ErrDecode, imgW, imgH)
	}
	usableRows := rows - promptRowOffset
	if usableRows < 1 {
		usableRows = 1
	}
	budgetW := float64(cols)
	budgetH := float64(usableRows * 2)
	aspect := float64(imgW) / float64(imgH)

	var w, h float64
	switch {
	case req.Width.IsSet() && req.Height.IsSet():
		var err error
		if w, err = req.Width.resolveAgainst(cols); err != nil {
			return ResolvedSize{}, err
		}
		if h, err = req.Height.resolveAgainst(usableRows); err != nil {
			return ResolvedSize{}, err
		}
		h *= 2 // rows to pixels
		if !req.Stretch {
			w, h = containFit(float64(imgW), float64(imgH), w, h)
		}
	case req.Width.IsSet():
		var err error
		if w, err = req.Width.resolveAgainst(cols); err != nil {
			return ResolvedSize{}, err
		}
		h = w / aspect
	case req.Height.IsSet():
		var err error
		if h, err = req.Height.resolveAgainst(usableRows); err != nil {
			return ResolvedSize{}, err
		}
		h *= 2
		w = h * aspect
	default:
		w, h = containFit(float64(imgW), float64(imgH), budgetW, budgetH)
	}

	// Overflow clamp, always from the original image aspect ratio.
	if w > budgetW {
		w, h = containFit(float64(imgW), float64(imgH), budgetW, budgetH)
	}

	out := ResolvedSize{
		Width:  int(math.Round(w)),
		Height: int(math.Round(h)),
	}
	if out.Width < 1 {
		out.Width = 1
	}
	if out.Height < 2 {
		out.Height = 2
	}
	return out, nil
}

// containFit scales srcW x srcH to fit entirely inside boxW x boxH,
// preserving aspect ratio. The axis with the smaller scale factor wins.
func containFit(srcW, srcH, boxW, boxH float64) (float64, float64) {
	ratio := math.Min(boxW/srcW, boxH/srcH)
	return srcW * ratio, srcH * ratio
}

// kittyBudget returns the column and row budget for the kitty path.
func kittyBudget(cols, rows int) (int, int) {
	c := cols - kittyColMargin
	r := rows - kittyRowMargin
	if c < 1 {
		c = 1
	}
	if r < 1 {
		r = 1
	}
	return c, r
}

// kittyAxis picks the dominant sizing axis for a kitty transmission: the
// protocol accepts one axis per image, so choose the one that keeps the
// image inside the cell budget given the 1:2 cell aspect ratio.
// It returns (columns, 0) when width-bound and (0, rows) when height-bound.
func kittyAxis(imgW, imgH, cols, rows int) (int, int) {
	budgetAspect := float64(cols) / float64(rows*cellAspect)
	imageAspect := float64(imgW) / float64(imgH)
	if imageAspect >= budgetAspect {
		return cols, 0
	}
	return 0, rows
}
