package csi

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCursorMovement(t *testing.T) {
	assert.Equal(t, "\x1b[3A", CursorUp(3))
	assert.Equal(t, "\x1b[1B", CursorDown(1))
	assert.Empty(t, CursorUp(0))
	assert.Empty(t, CursorDown(-2))
}

func TestColors(t *testing.T) {
	assert.Equal(t, "\x1b[38;2;255;0;128m", Foreground(255, 0, 128))
	assert.Equal(t, "\x1b[48;2;0;64;255m", Background(0, 64, 255))
}
