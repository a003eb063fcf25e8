package engine

import (
	"testing"
)

func newTestController(t *testing.T) (*Controller, *Overlay) {
	t.Helper()
	overlay := &Overlay{}
	seq := NewSequencer(testCatalogue(t))
	return NewController(seq, overlay), overlay
}

func TestToggleModeIsThreeCycle(t *testing.T) {
	ctrl, overlay := newTestController(t)

	want := []Mode{ModeRandom, ModeCategorySequence, ModeSequential}
	for i, wantMode := range want {
		ctrl.ToggleMode()
		if ctrl.Mode() != wantMode {
			t.Errorf("toggle %d: mode = %v, want %v", i+1, ctrl.Mode(), wantMode)
		}
		if ctrl.Mode() == ModeWeather {
			t.Error("ToggleMode must never enter weather mode")
		}
		text, ok := overlay.Take()
		if !ok {
			t.Fatalf("toggle %d queued no overlay", i+1)
		}
		if text != wantMode.DisplayName() {
			t.Errorf("toggle %d overlay = %q, want %q", i+1, text, wantMode.DisplayName())
		}
	}
}

func TestToggleWeatherRoundTrip(t *testing.T) {
	tests := []struct {
		name  string
		setup func(c *Controller)
		want  Mode
	}{
		{
			name:  "from sequential",
			setup: func(c *Controller) {},
			want:  ModeSequential,
		},
		{
			name:  "from random",
			setup: func(c *Controller) { c.ToggleMode() },
			want:  ModeRandom,
		},
		{
			name:  "from category sequence",
			setup: func(c *Controller) { c.ToggleMode(); c.ToggleMode() },
			want:  ModeCategorySequence,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl, overlay := newTestController(t)
			tt.setup(ctrl)
			overlay.Take()

			ctrl.ToggleWeather()
			if ctrl.Mode() != ModeWeather {
				t.Fatalf("mode = %v, want weather", ctrl.Mode())
			}
			if text, _ := overlay.Take(); text != ModeWeather.DisplayName() {
				t.Errorf("overlay = %q, want %q", text, ModeWeather.DisplayName())
			}

			ctrl.ToggleWeather()
			if ctrl.Mode() != tt.want {
				t.Errorf("mode after round trip = %v, want %v", ctrl.Mode(), tt.want)
			}
			if text, _ := overlay.Take(); text != tt.want.DisplayName() {
				t.Errorf("overlay = %q, want %q", text, tt.want.DisplayName())
			}
		})
	}
}

func TestToggleWeatherClearsPreviousModeMemory(t *testing.T) {
	ctrl, _ := newTestController(t)
	ctrl.ToggleMode() // random

	ctrl.ToggleWeather()
	ctrl.ToggleWeather()
	if ctrl.Mode() != ModeRandom {
		t.Fatalf("mode = %v, want random restored", ctrl.Mode())
	}

	// The memory was cleared on exit: entering weather again and toggling
	// mode out of it must not resurrect the old value later.
	ctrl.ToggleWeather()
	ctrl.ToggleMode() // leaves weather via the phrase cycle
	ctrl.ToggleWeather()
	ctrl.ToggleWeather()
	if ctrl.Mode() == ModeWeather {
		t.Error("second round trip left controller stuck in weather")
	}
}

func TestCycleCategoryForcesCategoryMode(t *testing.T) {
	for _, start := range []int{0, 1, 2} {
		ctrl, overlay := newTestController(t)
		for i := 0; i < start; i++ {
			ctrl.ToggleMode()
		}
		overlay.Take()

		ctrl.CycleCategory()
		if ctrl.Mode() != ModeCategorySequence {
			t.Errorf("after %d toggles: mode = %v, want category sequence", start, ctrl.Mode())
		}
		text, ok := overlay.Take()
		if !ok {
			t.Fatal("CycleCategory queued no overlay")
		}
		if text != "Раздел: Юмор" {
			t.Errorf("overlay = %q, want %q", text, "Раздел: Юмор")
		}
	}
}

func TestCycleCategoryResetsPhraseIndex(t *testing.T) {
	overlay := &Overlay{}
	seq := NewSequencer(testCatalogue(t))
	ctrl := NewController(seq, overlay)

	// Advance into the middle of the first category.
	seq.NextPhrase(ModeSequential)

	ctrl.CycleCategory()
	_, phrase := seq.NextPhrase(ModeCategorySequence)
	if phrase != "Кофе уже в пути" {
		t.Errorf("first phrase after cycle = %q, want start of next category", phrase)
	}
}

func TestOverlayNewestWins(t *testing.T) {
	overlay := &Overlay{}

	if _, ok := overlay.Take(); ok {
		t.Error("empty overlay reported pending")
	}

	overlay.Set("Режим: рандом")
	overlay.Set("Режим: по разделу")

	text, ok := overlay.Take()
	if !ok {
		t.Fatal("overlay not pending after Set")
	}
	if text != "Режим: по разделу" {
		t.Errorf("Take() = %q, want the newest message", text)
	}
	if _, ok := overlay.Take(); ok {
		t.Error("overlay still pending after Take")
	}
}

func TestIntentQueue(t *testing.T) {
	q := NewIntentQueue()

	if _, ok := q.Poll(); ok {
		t.Error("empty queue returned an intent")
	}

	if !q.Push(IntentToggleMode) {
		t.Error("push into empty queue failed")
	}
	if !q.Push(IntentCycleCategory) {
		t.Error("second push failed")
	}

	in, ok := q.Poll()
	if !ok || in != IntentToggleMode {
		t.Errorf("Poll() = (%v, %v), want toggle_mode first", in, ok)
	}
	in, ok = q.Poll()
	if !ok || in != IntentCycleCategory {
		t.Errorf("Poll() = (%v, %v), want cycle_category second", in, ok)
	}
}

func TestIntentQueueDropsWhenFull(t *testing.T) {
	q := NewIntentQueue()
	for i := 0; i < intentQueueDepth; i++ {
		if !q.Push(IntentToggleMode) {
			t.Fatalf("push %d failed before the queue was full", i)
		}
	}
	if q.Push(IntentToggleMode) {
		t.Error("push into a full queue did not report a drop")
	}
}
