package termplay

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestModelStillImage(t *testing.T) {
	data := encodeTestPNG(t, 10, 10)
	caps := KindCapabilities(KindStandard)
	m := NewModel(data, Options{Caps: &caps})

	msg := m.Init()()
	frame, ok := msg.(FrameMsg)
	require.True(t, ok, "expected FrameMsg, got %T", msg)
	assert.Contains(t, string(frame), "▄")

	next, cmd := m.Update(frame)
	assert.Nil(t, cmd)
	assert.Equal(t, string(frame), next.View())
}

func TestModelRenderError(t *testing.T) {
	m := NewModel([]byte("junk"), Options{})

	msg := m.Init()()
	errMsg, ok := msg.(renderErrMsg)
	require.True(t, ok, "expected renderErrMsg, got %T", msg)

	next, _ := m.Update(errMsg)
	model := next.(Model)
	assert.ErrorIs(t, model.Err(), ErrDecode)
	assert.Contains(t, model.View(), "render error")
}

func TestModelWindowSize(t *testing.T) {
	m := NewModel(nil, Options{})
	next, _ := m.Update(tea.WindowSizeMsg{Width: 60, Height: 20})
	model := next.(Model)
	assert.Equal(t, Cells(60), model.opts.Width)
	assert.Equal(t, Cells(19), model.opts.Height)
}

func TestModelQuitStopsPlayback(t *testing.T) {
	pb := &Playback{done: make(chan struct{})}
	pb.playing.Store(true)
	m := Model{playback: pb}

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
	assert.False(t, pb.playing.Load())
}

func TestModelFrameForwarding(t *testing.T) {
	frames := make(chan string, 1)
	m := Model{animate: true, frames: frames}

	frames <- "frame-1"
	msg := m.waitForFrame()()
	assert.Equal(t, FrameMsg("frame-1"), msg)

	close(frames)
	msg = m.waitForFrame()()
	assert.IsType(t, playbackDoneMsg{}, msg)
}

func TestChannelSinkDropsWhenBusy(t *testing.T) {
	sink := channelSink{ch: make(chan string, 1)}
	require.NoError(t, sink.Render("a"))
	require.NoError(t, sink.Render("b")) // dropped, not blocked
	assert.Equal(t, "a", <-sink.ch)

	sink.Complete()
	_, open := <-sink.ch
	assert.False(t, open)
}
