package engine

import "fmt"

// Controller owns the active mode and applies button intents to it and to
// the sequencer. Like the rest of the engine state it is owned by the main
// loop goroutine; synchronization happens one layer out, in the
// IntentQueue.
type Controller struct {
	mode      Mode
	prevMode  Mode
	inWeather bool

	seq     *Sequencer
	overlay *Overlay
}

// NewController starts in Sequential mode.
func NewController(seq *Sequencer, overlay *Overlay) *Controller {
	return &Controller{
		mode:    ModeSequential,
		seq:     seq,
		overlay: overlay,
	}
}

// Mode returns the active mode.
func (c *Controller) Mode() Mode {
	return c.mode
}

// Apply dispatches one intent.
func (c *Controller) Apply(in Intent) {
	switch in {
	case IntentToggleMode:
		c.ToggleMode()
	case IntentCycleCategory:
		c.CycleCategory()
	case IntentToggleWeather:
		c.ToggleWeather()
	}
}

// ToggleMode cycles Sequential -> Random -> CategorySequence -> Sequential
// and queues an overlay naming the new mode. Weather is not part of the
// cycle; a toggle while weather is showing drops back into the phrase
// cycle and clears the remembered previous mode.
func (c *Controller) ToggleMode() {
	switch c.mode {
	case ModeSequential:
		c.mode = ModeRandom
	case ModeRandom:
		c.mode = ModeCategorySequence
	case ModeCategorySequence:
		c.mode = ModeSequential
	case ModeWeather:
		c.mode = ModeSequential
	}
	c.inWeather = false
	c.overlay.Set(c.mode.DisplayName())
}

// CycleCategory forces CategorySequence mode, pins the cursor to the start
// of the next category, and queues an overlay naming it.
func (c *Controller) CycleCategory() {
	c.mode = ModeCategorySequence
	c.inWeather = false
	cat := c.seq.JumpToNextCategory()
	c.overlay.Set(fmt.Sprintf("Раздел: %s", cat.Name))
}

// ToggleWeather flips between weather and phrase content. Entering weather
// remembers the active mode; leaving restores it (Sequential when nothing
// was recorded) and forgets the memory.
func (c *Controller) ToggleWeather() {
	if c.mode == ModeWeather {
		if c.inWeather {
			c.mode = c.prevMode
		} else {
			c.mode = ModeSequential
		}
		c.inWeather = false
		c.overlay.Set(c.mode.DisplayName())
		return
	}

	c.prevMode = c.mode
	c.inWeather = true
	c.mode = ModeWeather
	c.overlay.Set(ModeWeather.DisplayName())
}
