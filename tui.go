package termplay

import (
	"io"

	tea "github.com/charmbracelet/bubbletea"
)

// FrameMsg carries one rendered animation frame into a Bubble Tea program.
type FrameMsg string

// playbackDoneMsg signals that the animation session finished.
type playbackDoneMsg struct{}

type renderErrMsg struct{ err error }

// Model is a Bubble Tea widget that displays a still image or plays an
// animation as part of a larger TUI. Rendering always takes the halfblock
// path: the framework owns the screen, so raw graphics protocols would
// fight its repaints.
type Model struct {
	data    []byte
	opts    Options
	animate bool
	fps     int

	frame    string
	err      error
	playback *Playback
	frames   chan string
}

// NewModel creates a widget showing a still image.
func NewModel(data []byte, opts Options) Model {
	opts.Writer = io.Discard
	return Model{data: data, opts: opts}
}

// NewAnimationModel creates a widget that plays an animation until the
// program quits or the user presses q.
func NewAnimationModel(data []byte, opts AnimateOptions) Model {
	opts.Writer = io.Discard
	return Model{
		data:    data,
		opts:    opts.Options,
		animate: true,
		fps:     opts.MaxFrameRate,
	}
}

// channelSink forwards frames to the Bubble Tea event loop.
type channelSink struct{ ch chan string }

func (s channelSink) Render(frame string) error {
	// Never block the driver on the event loop; a busy program just skips
	// the frame.
	select {
	case s.ch <- frame:
	default:
	}
	return nil
}

func (s channelSink) Complete() { close(s.ch) }

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	if !m.animate {
		return func() tea.Msg {
			out, err := Render(m.data, m.opts)
			if err != nil {
				return renderErrMsg{err}
			}
			return FrameMsg(out)
		}
	}
	return func() tea.Msg {
		frames := make(chan string, 1)
		playback, err := Play(m.data, AnimateOptions{
			Options:      m.opts,
			MaxFrameRate: m.fps,
			Sink:         channelSink{ch: frames},
		})
		if err != nil {
			return renderErrMsg{err}
		}
		return playbackStartedMsg{playback: playback, frames: frames}
	}
}

type playbackStartedMsg struct {
	playback *Playback
	frames   chan string
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		// Size the render to the program's viewport on the next frame.
		m.opts.Width = Cells(msg.Width)
		m.opts.Height = Cells(msg.Height - 1)
		return m, nil
	case playbackStartedMsg:
		m.playback = msg.playback
		m.frames = msg.frames
		return m, m.waitForFrame()
	case FrameMsg:
		m.frame = string(msg)
		if m.animate {
			return m, m.waitForFrame()
		}
		return m, nil
	case playbackDoneMsg:
		return m, nil
	case renderErrMsg:
		m.err = msg.err
		return m, nil
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			if m.playback != nil {
				m.playback.Stop()
			}
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m Model) waitForFrame() tea.Cmd {
	return func() tea.Msg {
		frame, ok := <-m.frames
		if !ok {
			return playbackDoneMsg{}
		}
		return FrameMsg(frame)
	}
}

// View implements tea.Model.
func (m Model) View() string {
	if m.err != nil {
		return "render error: " + m.err.Error()
	}
	return m.frame
}

// Err reports a render failure, if any, for callers inspecting the final
// model after the program exits.
func (m Model) Err() error { return m.err }
