// Package render turns arbitrary message text into fixed-width frames for a
// 20x2 character display. It owns word wrapping, the static/scrolling
// decision and the sliding-window scroll animation. Widths are counted in
// runes, not bytes, since the catalogue is Cyrillic.
package render

import (
	"strings"
)

const (
	// Width is the number of character columns on the display.
	Width = 20

	// Height is the number of display rows.
	Height = 2
)

// Frame is exactly two lines of exactly Width runes each, ready to be sent
// to a display driver as-is.
type Frame [Height]string

// FrameWriter is the sink a frame is pushed to. Display drivers and the
// remote mirror implement it.
type FrameWriter interface {
	Write(frame Frame) error
}

// WrapMessageLines splits a message into display lines. Explicit newlines
// split first; within each segment runs of whitespace collapse to single
// spaces and the text is word-wrapped to Width without breaking words. An
// empty segment becomes one empty line, so intentional blank lines survive.
// The result is never empty: a fully empty message yields one empty line.
func WrapMessageLines(message string) []string {
	var lines []string
	for _, segment := range strings.Split(message, "\n") {
		words := strings.Fields(segment)
		if len(words) == 0 {
			lines = append(lines, "")
			continue
		}

		current := words[0]
		for _, word := range words[1:] {
			if runeLen(current)+1+runeLen(word) <= Width {
				current += " " + word
			} else {
				lines = append(lines, current)
				current = word
			}
		}
		lines = append(lines, current)
	}
	return lines
}

// StaticFrame renders the first two wrapped lines of a message as a fixed
// frame. Content beyond two lines is dropped; each line is truncated to
// Width and right-padded with spaces. Callers that care about long content
// should go through Presenter.ShowMessage instead.
func StaticFrame(message string) Frame {
	lines := WrapMessageLines(message)

	var frame Frame
	for row := 0; row < Height; row++ {
		if row < len(lines) {
			frame[row] = padLine(lines[row])
		} else {
			frame[row] = padLine("")
		}
	}
	return frame
}

// VerticalScrollingFrames renders a message as a one-row-per-step upward
// scroll: for N wrapped lines it returns N-1 frames where frame i shows
// lines i and i+1. For N <= 1 it returns nil and the caller must fall back
// to the static path.
func VerticalScrollingFrames(message string) []Frame {
	lines := WrapMessageLines(message)
	if len(lines) <= 1 {
		return nil
	}

	frames := make([]Frame, 0, len(lines)-1)
	for i := 0; i+1 < len(lines); i++ {
		frames = append(frames, Frame{padLine(lines[i]), padLine(lines[i+1])})
	}
	return frames
}

// padLine truncates a line to Width runes and right-pads it with spaces to
// exactly Width.
func padLine(line string) string {
	runes := []rune(line)
	if len(runes) > Width {
		return string(runes[:Width])
	}
	return string(runes) + strings.Repeat(" ", Width-len(runes))
}

func runeLen(s string) int {
	return len([]rune(s))
}
