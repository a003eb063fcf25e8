// Package engine is the content-sequencing state machine: the active mode,
// the phrase cursor, the pending overlay and the intent queue that carries
// button presses into the main loop. All state in this package is owned by
// the main loop goroutine; button callbacks never touch it directly, they
// only push intents.
package engine

// Mode is the active phrase-selection strategy. It is a closed set; adding
// a mode requires updating DisplayName and String, which the exhaustive
// switches below make a compile-visible change.
type Mode int

const (
	// ModeSequential walks every phrase of every category in catalogue order.
	ModeSequential Mode = iota

	// ModeRandom picks a uniformly random category, then a random phrase.
	ModeRandom

	// ModeCategorySequence behaves like ModeSequential starting from the
	// category the user pinned with a long press.
	ModeCategorySequence

	// ModeWeather replaces phrases with a clock/weather summary. It is
	// entered and left only via the secondary button, never by ToggleMode.
	ModeWeather
)

// DisplayName returns the short label shown as an overlay when the mode is
// activated. The wording matches the device's Russian catalogue.
func (m Mode) DisplayName() string {
	switch m {
	case ModeSequential:
		return "Режим: подряд"
	case ModeRandom:
		return "Режим: рандом"
	case ModeCategorySequence:
		return "Режим: по разделу"
	case ModeWeather:
		return "Режим: погода"
	default:
		return "Режим: фразы"
	}
}

// String returns the mode identifier used in logs and config.
func (m Mode) String() string {
	switch m {
	case ModeSequential:
		return "sequential"
	case ModeRandom:
		return "random"
	case ModeCategorySequence:
		return "category"
	case ModeWeather:
		return "weather"
	default:
		return "unknown"
	}
}
