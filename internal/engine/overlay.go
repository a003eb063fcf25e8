package engine

import "time"

// OverlayHold is how long an overlay stays on screen before normal content
// resumes. The hold deliberately blocks the tick that shows it; overlays
// are rare, user-triggered events, not part of the refresh cadence.
const OverlayHold = 1500 * time.Millisecond

// Overlay holds at most one pending transient status message. A new
// request replaces any message that has not been shown yet; the newest
// announcement is the one the user acted on last. Owned by the main loop.
type Overlay struct {
	text    string
	pending bool
}

// Set queues a message, replacing any unshown one.
func (o *Overlay) Set(text string) {
	o.text = text
	o.pending = true
}

// Take returns the pending message and clears it. The second return is
// false when nothing is pending.
func (o *Overlay) Take() (string, bool) {
	if !o.pending {
		return "", false
	}
	text := o.text
	o.text = ""
	o.pending = false
	return text, true
}
