package termplay

import (
	"fmt"
	"image"
	"io"
	"os"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/blacktop/go-termplay/pkg/csi"
)

// DefaultFrameRate caps playback when no rate is given.
const DefaultFrameRate = 30

// Clock abstracts time for the animation driver so the loop can run against
// an instrumented clock in tests.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// Scheduler is the driver's "run soon" primitive. Each tick schedules the
// next one, so ticks never overlap; a fixed-interval timer would compound
// its own delay instead.
type Scheduler interface {
	Schedule(fn func())
}

type asyncScheduler struct{}

func (asyncScheduler) Schedule(fn func()) {
	go func() {
		time.Sleep(time.Millisecond)
		fn()
	}()
}

// Sink receives rendered animation frames. Complete is invoked exactly once
// when playback ends, after cleanup, to leave the cursor in a sane place.
type Sink interface {
	Render(frame string) error
	Complete()
}

// smoothSink repaints in place using cursor positioning, avoiding a full
// clear between frames of the same height.
type smoothSink struct {
	w         io.Writer
	prevLines int
	started   bool
}

func newSmoothSink(w io.Writer) *smoothSink {
	return &smoothSink{w: w}
}

func (s *smoothSink) Render(frame string) error {
	lines := strings.Count(frame, "\n") + 1

	var sb strings.Builder
	switch {
	case !s.started || lines > s.prevLines:
		sb.WriteString(csi.ClearScreen)
		sb.WriteString(csi.CursorHome)
	default:
		sb.WriteString(csi.CursorUp(s.prevLines))
	}
	sb.WriteString(frame)
	sb.WriteString("\n")

	// A shorter frame leaves stale rows behind; blank them and come back.
	if s.started && lines < s.prevLines {
		excess := s.prevLines - lines
		for i := 0; i < excess; i++ {
			sb.WriteString(csi.EraseLine)
			sb.WriteString("\n")
		}
		sb.WriteString(csi.CursorUp(excess))
	}

	s.prevLines = lines
	s.started = true
	_, err := io.WriteString(s.w, sb.String())
	return err
}

func (s *smoothSink) Complete() {
	io.WriteString(s.w, "\n")
}

// AnimateOptions configures animation playback.
type AnimateOptions struct {
	Options

	// MaxFrameRate caps playback in frames per second. Defaults to 30.
	MaxFrameRate int
	// SampleRate is the extraction rate passed to the frame extractor,
	// independent of MaxFrameRate. Defaults to 30.
	SampleRate int
	// Sink receives rendered frames. Defaults to the smooth repaint sink on
	// the configured writer.
	Sink Sink
	// Extractor overrides the frame-extraction collaborator.
	Extractor FrameExtractor
	// Clock and Scheduler override the driver's timing, mainly for tests.
	Clock     Clock
	Scheduler Scheduler
}

// Playback is the cancellation handle returned to the caller. The caller
// never holds the session itself.
type Playback struct {
	playing atomic.Bool
	done    chan struct{}
}

// Stop requests cancellation. It is idempotent and takes effect at the next
// scheduled tick; one frame render may still be in flight.
func (p *Playback) Stop() {
	p.playing.Store(false)
}

// Done is closed once the session has been torn down and its resources
// released.
func (p *Playback) Done() <-chan struct{} {
	return p.done
}

// Session states.
type sessionState int

const (
	stateCreated sessionState = iota
	stateLoading
	statePlaying
	stateStopping
	stateCleanedUp
)

// driver owns one animation session: frames, pacing state and the resize
// cache. Sessions are independent; two concurrent animations share nothing
// but the destination stream, which is the caller's to serialize.
type driver struct {
	state  sessionState
	frames []image.Image
	idx    int
	delay  time.Duration
	last   time.Time

	clock  Clock
	sched  Scheduler
	sink   Sink
	cache  *frameCache
	render func(img image.Image, idx int) (string, error)

	handle   *Playback
	complete sync.Once
}

// Play starts animation playback from encoded animation bytes and returns
// the cancellation handle. Frame extraction is front-loaded: it completes
// before the first frame renders, and extracting zero frames is fatal for
// the session.
func Play(data []byte, opts AnimateOptions) (*Playback, error) {
	if opts.MaxFrameRate <= 0 {
		opts.MaxFrameRate = DefaultFrameRate
	}
	if opts.SampleRate <= 0 {
		opts.SampleRate = DefaultExtractionRate
	}
	extractor := opts.Extractor
	if extractor == nil {
		extractor = GIFExtractor{}
	}
	clock := opts.Clock
	if clock == nil {
		clock = systemClock{}
	}
	sched := opts.Scheduler
	if sched == nil {
		sched = asyncScheduler{}
	}
	w := opts.writer()
	sink := opts.Sink
	if sink == nil {
		sink = newSmoothSink(w)
	}

	d := &driver{
		state: stateCreated,
		clock: clock,
		sched: sched,
		sink:  sink,
		cache: newFrameCache(),
		handle: &Playback{
			done: make(chan struct{}),
		},
	}

	d.state = stateLoading
	frames, err := extractor.Extract(data, opts.SampleRate)
	if err != nil {
		return nil, err
	}
	if len(frames) == 0 {
		return nil, ErrNoFrames
	}
	d.frames = frames

	renderFrame, err := newFrameRenderer(frames[0], opts, d.cache, w)
	if err != nil {
		return nil, err
	}
	d.render = renderFrame

	d.delay = time.Duration(float64(time.Second) / float64(opts.MaxFrameRate))
	d.state = statePlaying
	d.handle.playing.Store(true)
	// Back-date the reference point so the first tick renders immediately.
	d.last = clock.Now().Add(-d.delay)
	d.sched.Schedule(d.tick)

	return d.handle, nil
}

// PlayFile plays an animation file. See Play.
func PlayFile(path string, opts AnimateOptions) (*Playback, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read animation: %w", err)
	}
	return Play(data, opts)
}

// tick advances the session once. If the frame delay has elapsed it renders
// the current frame and corrects the reference timestamp by the overshoot
// remainder instead of resetting it, so timing error never accumulates.
func (d *driver) tick() {
	if !d.handle.playing.Load() {
		d.cleanup()
		return
	}

	now := d.clock.Now()
	elapsed := now.Sub(d.last)
	if elapsed >= d.delay {
		out, err := d.render(d.frames[d.idx], d.idx)
		if err == nil {
			err = d.sink.Render(out)
		}
		if err != nil {
			// The destination is gone; stop rather than spin.
			d.handle.playing.Store(false)
			d.cleanup()
			return
		}
		d.idx = (d.idx + 1) % len(d.frames)
		d.last = now.Add(-(elapsed % d.delay))
	}
	d.sched.Schedule(d.tick)
}

// cleanup releases the session's frames and cache and signals completion.
// It is best-effort: the session is already over, so nothing here surfaces.
func (d *driver) cleanup() {
	d.complete.Do(func() {
		d.state = stateStopping
		func() {
			defer func() { _ = recover() }()
			d.cache.Clear()
			d.frames = nil
			d.sink.Complete()
		}()
		d.state = stateCleanedUp
		close(d.handle.done)
	})
}

// newFrameRenderer pins the render strategy for a whole session. Frames are
// sub-frame renders of the single-image path: the strategy is selected once
// here and never re-detected mid-playback.
func newFrameRenderer(first image.Image, opts AnimateOptions, cache *frameCache, w io.Writer) (func(image.Image, int) (string, error), error) {
	caps := opts.caps()
	dec := opts.decoder()
	cols, rows := terminalGeometry(w)
	interactive := isInteractive(w)
	req := opts.request()

	b := first.Bounds()
	size, err := Resolve(b.Dx(), b.Dy(), req, cols, rows)
	if err != nil {
		return nil, err
	}

	halfblocks := func(img image.Image, idx int) (string, error) {
		resized := cache.resizeFrame(img, idx, size.Width, size.Height)
		return strings.Join(EncodeHalfblocks(resized, caps), "\n"), nil
	}

	if !interactive || (!caps.NativeImages && !caps.KittyGraphics) {
		return halfblocks, nil
	}

	// Graphics-protocol sessions re-encode each frame to PNG; a failure on
	// any frame downgrades that frame to halfblocks.
	return func(img image.Image, idx int) (string, error) {
		resized := cache.resizeFrame(img, idx, size.Width, size.Height)
		png, err := dec.EncodePNG(resized)
		if err != nil {
			return halfblocks(img, idx)
		}
		if caps.NativeImages {
			if out, err := renderITerm2(png, req, cols, rows); err == nil {
				return out, nil
			}
		}
		if caps.KittyGraphics {
			rb := resized.Bounds()
			if out, err := renderKitty(png, rb.Dx(), rb.Dy(), cols, rows, req, dec); err == nil {
				return out, nil
			}
		}
		return halfblocks(img, idx)
	}, nil
}
