package termplay

import "errors"

var (
	// ErrInvalidDimension reports a malformed or out-of-range width/height.
	ErrInvalidDimension = errors.New("invalid dimension value")
	// ErrDecode reports that the decoder rejected the image bytes.
	ErrDecode = errors.New("image decode failed")
	// ErrImageTooSmall reports an animation source below the 2x2 minimum.
	ErrImageTooSmall = errors.New("animation source smaller than 2x2")
	// ErrNoFrames reports that frame extraction produced zero frames.
	// It is fatal for the animation session and never retried.
	ErrNoFrames = errors.New("no frames extracted")
	// ErrStrategy reports that a rendering strategy failed. It only surfaces
	// when the halfblock fallback itself is the one that failed.
	ErrStrategy = errors.New("render strategy failed")
)
