// Package app is the main loop: it ties the engine, the renderer, the
// weather collaborator and the display driver together on a single
// goroutine. Content refreshes every 5 seconds; the loop polls ten times a
// second so button intents, overlays and shutdown are observed promptly.
package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/markoshka/markoshka/internal/catalogue"
	"github.com/markoshka/markoshka/internal/display"
	"github.com/markoshka/markoshka/internal/engine"
	"github.com/markoshka/markoshka/internal/logging"
	"github.com/markoshka/markoshka/internal/render"
	"github.com/markoshka/markoshka/internal/weather"
)

const (
	// DefaultPeriod is the wall-clock time between content refreshes.
	DefaultPeriod = 5 * time.Second

	// DefaultPoll is the fine-grain tick; shutdown latency and overlay
	// responsiveness are bounded by it.
	DefaultPoll = 100 * time.Millisecond

	// announceHold keeps a category announcement frame on screen before
	// the first phrase of that category appears.
	announceHold = 5 * time.Second

	// Loading animation timings.
	loadingDuration = 5 * time.Second
	loadingInterval = 700 * time.Millisecond
	readyHold       = 5 * time.Second
)

// Options configures an App. Zero durations fall back to the defaults;
// Sleep and Now are test seams and default to the real clock.
type Options struct {
	Driver    display.Driver
	Transport string
	Catalogue *catalogue.Catalogue
	Weather   *weather.Client

	Period time.Duration
	Poll   time.Duration

	// Intents is the queue button sources push into. Nil means the app
	// creates its own; passing one in lets the mirror and the GPIO
	// watchers be wired up before the app exists.
	Intents *engine.IntentQueue

	Sleep func(d time.Duration)
	Now   func() time.Time
}

// App owns the loop state. All engine state is touched only from Run's
// goroutine; the intent queue is the only cross-goroutine boundary.
type App struct {
	driver    display.Driver
	transport string
	presenter *render.Presenter
	weather   *weather.Client

	seq     *engine.Sequencer
	overlay *engine.Overlay
	ctrl    *engine.Controller
	intents *engine.IntentQueue

	period time.Duration
	poll   time.Duration

	sleep func(d time.Duration)
	now   func() time.Time

	lastCategoryShown string
}

// New builds the app around a validated catalogue and an open driver.
func New(opts Options) *App {
	a := &App{
		driver:    opts.Driver,
		transport: opts.Transport,
		weather:   opts.Weather,
		overlay:   &engine.Overlay{},
		intents:   opts.Intents,
		period:    opts.Period,
		poll:      opts.Poll,
		sleep:     opts.Sleep,
		now:       opts.Now,
	}

	a.seq = engine.NewSequencer(opts.Catalogue)
	a.ctrl = engine.NewController(a.seq, a.overlay)

	if a.period <= 0 {
		a.period = DefaultPeriod
	}
	if a.poll <= 0 {
		a.poll = DefaultPoll
	}
	if a.intents == nil {
		a.intents = engine.NewIntentQueue()
	}
	if a.now == nil {
		a.now = time.Now
	}

	a.presenter = render.NewPresenter(loggingWriter{driver: a.driver, transport: a.transport})
	if a.sleep != nil {
		a.presenter.Sleep = a.sleep
	}
	return a
}

// Intents returns the queue button sources push into.
func (a *App) Intents() *engine.IntentQueue {
	return a.intents
}

// Mode returns the active mode. Intended for logs and tests; the loop
// itself is the only writer.
func (a *App) Mode() engine.Mode {
	return a.ctrl.Mode()
}

// Run plays the loading animation and then ticks until the context is
// cancelled. Collaborator faults never end the loop; only cancellation
// does.
func (a *App) Run(ctx context.Context) error {
	logging.Info("Main loop starting",
		zap.String("transport", a.transport),
		zap.Duration("period", a.period),
	)

	a.playLoading(ctx)

	nextRefresh := a.now()
	a.lastCategoryShown = ""

	for ctx.Err() == nil {
		a.applyIntents()
		a.showOverlayIfPending()

		if !a.now().Before(nextRefresh) {
			a.refresh(ctx)
			nextRefresh = a.now().Add(a.period)
		}

		a.sleepCtx(ctx, a.poll)
	}

	logging.Info("Main loop stopped")
	return nil
}

// applyIntents drains queued button presses. Each intent is applied as one
// atomic step (mode switch plus overlay enqueue together) because only
// this goroutine touches the engine.
func (a *App) applyIntents() {
	for {
		intent, ok := a.intents.Poll()
		if !ok {
			return
		}
		before := a.ctrl.Mode()
		a.ctrl.Apply(intent)
		if after := a.ctrl.Mode(); after != before {
			logging.LogModeChange(before.String(), after.String())
		}
	}
}

// showOverlayIfPending renders a pending overlay and holds it on screen.
// The hold deliberately blocks this tick; overlays are rare user-triggered
// events.
func (a *App) showOverlayIfPending() {
	text, ok := a.overlay.Take()
	if !ok {
		return
	}
	a.showStatic(text)
	a.hold(engine.OverlayHold)
}

// refresh produces one piece of content for the current mode.
func (a *App) refresh(ctx context.Context) {
	if a.ctrl.Mode() == engine.ModeWeather {
		a.showWeather(ctx)
		a.lastCategoryShown = ""
		return
	}

	mode := a.ctrl.Mode()
	cat, phrase := a.seq.NextPhrase(mode)

	if mode == engine.ModeRandom {
		// Random jumps categories every refresh; announcing each one
		// would drown the phrases.
		a.lastCategoryShown = ""
	} else if cat.Name != a.lastCategoryShown {
		a.showMessage(cat.Name)
		a.hold(announceHold)
		a.lastCategoryShown = cat.Name
	}

	a.showMessage(phrase)
}

// weekdayNames are the two-letter Russian weekday abbreviations, Monday
// first.
var weekdayNames = [7]string{"Пн", "Вт", "Ср", "Чт", "Пт", "Сб", "Вс"}

// showWeather renders the clock/weather summary. Missing fields become
// "?"; a missing reading becomes a fixed unavailable notice.
func (a *App) showWeather(ctx context.Context) {
	var reading *weather.Reading
	if a.weather != nil {
		reading = a.weather.Fetch(ctx)
	}
	if reading == nil {
		a.showStatic("Погода недоступна")
		return
	}

	now := a.now()
	// time.Weekday counts from Sunday; shift to Monday-first.
	weekday := weekdayNames[(int(now.Weekday())+6)%7]
	line1 := fmt.Sprintf("%s %s %s", now.Format("15:04"), now.Format("02.01"), weekday)

	temp, humidity, wind := "?", "?", "?"
	if reading.TemperatureC != nil {
		temp = fmt.Sprintf("%.0f°", *reading.TemperatureC)
	}
	if reading.HumidityPct != nil {
		humidity = fmt.Sprintf("%.0f%%", *reading.HumidityPct)
	}
	if reading.WindSpeedMS != nil {
		wind = fmt.Sprintf("%.1f", *reading.WindSpeedMS)
	}
	line2 := fmt.Sprintf("Темп:%s Вл:%s Вет:%sм/с", temp, humidity, wind)

	a.showStatic(line1 + "\n" + line2)
}

// playLoading runs the cosmetic startup animation: an animated
// "загружается..." banner followed by a ready frame.
func (a *App) playLoading(ctx context.Context) {
	start := a.now()
	frame := 0
	for ctx.Err() == nil {
		remaining := loadingDuration - a.now().Sub(start)
		if remaining <= 0 {
			break
		}
		dots := strings.Repeat(".", frame%3+1)
		a.showStatic("Маркошка v1.0\nзагружается" + dots)
		frame++
		a.sleepCtx(ctx, min(loadingInterval, remaining))
	}

	a.showStatic("Маркошка готова!\nПоехали!")
	a.sleepCtx(ctx, readyHold)
}

func (a *App) showStatic(message string) {
	if err := a.presenter.ShowStatic(message); err != nil {
		logging.Error("Display write failed", zap.Error(err))
	}
}

func (a *App) showMessage(message string) {
	if err := a.presenter.ShowMessage(message); err != nil {
		logging.Error("Display write failed", zap.Error(err))
	}
}

// hold is the plain bounded sleep used for on-screen holds.
func (a *App) hold(d time.Duration) {
	if a.sleep != nil {
		a.sleep(d)
		return
	}
	time.Sleep(d)
}

// sleepCtx sleeps but wakes early on cancellation.
func (a *App) sleepCtx(ctx context.Context, d time.Duration) {
	if a.sleep != nil {
		a.sleep(d)
		return
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}

// loggingWriter wraps the driver so every frame is visible at debug level.
type loggingWriter struct {
	driver    display.Driver
	transport string
}

func (w loggingWriter) Write(frame render.Frame) error {
	logging.LogFrame(w.transport, [2]string{frame[0], frame[1]})
	return w.driver.Write(frame)
}
