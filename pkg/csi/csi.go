/*
Package csi builds the CSI/SGR escape sequences shared by the halfblock
encoder and the animation repaint sink.
*/
package csi

import "strconv"

const (
	// Reset clears all SGR attributes.
	Reset = "\x1b[0m"
	// ClearScreen erases the visible display.
	ClearScreen = "\x1b[2J"
	// CursorHome moves the cursor to row 1, column 1.
	CursorHome = "\x1b[H"
	// EraseLine erases the entire current line.
	EraseLine = "\x1b[2K"
)

// CursorUp moves the cursor up n rows.
func CursorUp(n int) string {
	if n <= 0 {
		return ""
	}
	return "\x1b[" + strconv.Itoa(n) + "A"
}

// CursorDown moves the cursor down n rows.
func CursorDown(n int) string {
	if n <= 0 {
		return ""
	}
	return "\x1b[" + strconv.Itoa(n) + "B"
}

// Foreground returns the 24-bit SGR sequence for a foreground color.
func Foreground(r, g, b uint8) string {
	return "\x1b[38;2;" + rgb(r, g, b) + "m"
}

// Background returns the 24-bit SGR sequence for a background color.
func Background(r, g, b uint8) string {
	return "\x1b[48;2;" + rgb(r, g, b) + "m"
}

func rgb(r, g, b uint8) string {
	return strconv.Itoa(int(r)) + ";" + strconv.Itoa(int(g)) + ";" + strconv.Itoa(int(b))
}
