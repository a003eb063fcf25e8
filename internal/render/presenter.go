package render

import (
	"time"
)

// DefaultFrameDelay is the pause between scroll frames. 0.8s keeps the
// upward roll readable on slow VFD/LCD glass.
const DefaultFrameDelay = 800 * time.Millisecond

// Presenter pushes rendered messages to a FrameWriter. It is the single
// entry point normal content goes through; overlays and short status lines
// use ShowStatic directly.
type Presenter struct {
	Writer     FrameWriter
	FrameDelay time.Duration

	// Sleep is replaceable in tests. Defaults to time.Sleep.
	Sleep func(d time.Duration)
}

// NewPresenter builds a Presenter with the default frame delay.
func NewPresenter(w FrameWriter) *Presenter {
	return &Presenter{
		Writer:     w,
		FrameDelay: DefaultFrameDelay,
		Sleep:      time.Sleep,
	}
}

// ShowStatic renders the message as a single non-scrolling frame. Content
// beyond two lines is dropped.
func (p *Presenter) ShowStatic(message string) error {
	return p.Writer.Write(StaticFrame(message))
}

// ShowMessage decides the presentation: messages that wrap to at most
// Height lines are shown statically, longer ones animate with the vertical
// scroll, pausing FrameDelay between frames. The animation blocks the
// caller for its full duration; that is the intended "hold the screen"
// contract of the single-threaded loop.
func (p *Presenter) ShowMessage(message string) error {
	lines := WrapMessageLines(message)
	if len(lines) <= Height {
		return p.Writer.Write(StaticFrame(message))
	}

	for i, frame := range VerticalScrollingFrames(message) {
		if i > 0 {
			p.sleep(p.FrameDelay)
		}
		if err := p.Writer.Write(frame); err != nil {
			return err
		}
	}
	return nil
}

func (p *Presenter) sleep(d time.Duration) {
	if p.Sleep != nil {
		p.Sleep(d)
	} else {
		time.Sleep(d)
	}
}
