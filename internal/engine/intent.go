package engine

// Intent is a button action waiting to be applied by the main loop. Button
// callbacks run on other goroutines (GPIO edge watcher, websocket reader,
// TUI event loop); instead of mutating mode or cursor state from there,
// they enqueue an intent and the loop applies it at the next tick. This
// keeps every state mutation single-threaded.
type Intent int

const (
	// IntentToggleMode is the primary button short press.
	IntentToggleMode Intent = iota

	// IntentCycleCategory is the primary button long press.
	IntentCycleCategory

	// IntentToggleWeather is the secondary button short press.
	IntentToggleWeather
)

// String returns the intent name used in logs.
func (i Intent) String() string {
	switch i {
	case IntentToggleMode:
		return "toggle_mode"
	case IntentCycleCategory:
		return "cycle_category"
	case IntentToggleWeather:
		return "toggle_weather"
	default:
		return "unknown"
	}
}

// intentQueueDepth bounds how many presses can pile up between ticks. The
// loop polls every 100ms, so the queue only fills if someone mashes the
// button faster than that for a sustained burst; excess presses are
// dropped rather than blocking the GPIO callback.
const intentQueueDepth = 8

// IntentQueue is the single-producer-friendly channel between button
// callbacks and the main loop. Push never blocks; Poll never blocks.
type IntentQueue struct {
	ch chan Intent
}

// NewIntentQueue builds an empty queue.
func NewIntentQueue() *IntentQueue {
	return &IntentQueue{ch: make(chan Intent, intentQueueDepth)}
}

// Push enqueues an intent. Safe to call from any goroutine. Returns false
// when the queue is full and the intent was dropped.
func (q *IntentQueue) Push(in Intent) bool {
	select {
	case q.ch <- in:
		return true
	default:
		return false
	}
}

// Poll dequeues one intent without blocking. The second return is false
// when the queue is empty.
func (q *IntentQueue) Poll() (Intent, bool) {
	select {
	case in := <-q.ch:
		return in, true
	default:
		return 0, false
	}
}
