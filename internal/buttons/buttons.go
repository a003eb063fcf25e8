// Package buttons watches GPIO push buttons and classifies presses as
// short or long by hold time. Callbacks run on the watcher goroutine and
// must not block; in this daemon they only push intents onto the engine's
// queue.
package buttons

import (
	"fmt"
	"sync"
	"time"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/host/v3"
)

// Handler is a press callback. Invoked from the watcher goroutine.
type Handler func()

// Source is a button handle the app releases on shutdown. The Disabled
// stub satisfies it when no hardware is present.
type Source interface {
	Close() error
}

// Disabled is the no-hardware stand-in.
type Disabled struct{}

// Close implements Source.
func (Disabled) Close() error { return nil }

// edgeTimeout bounds each WaitForEdge call so the watcher notices a
// close request promptly.
const edgeTimeout = 500 * time.Millisecond

var hostInitOnce sync.Once

// Button watches one active-low push button (pull-up, pressed = low).
type Button struct {
	pin      gpio.PinIO
	name     string
	holdTime time.Duration
	short    Handler
	long     Handler

	stop chan struct{}
	done chan struct{}
}

// New configures the named pin (e.g. "GPIO17") and starts the watcher.
// Fails when the GPIO host or the pin is unavailable; callers degrade to
// Disabled in that case.
func New(pinName string, holdTime time.Duration, short, long Handler) (*Button, error) {
	var hostErr error
	hostInitOnce.Do(func() {
		_, hostErr = host.Init()
	})
	if hostErr != nil {
		return nil, fmt.Errorf("failed to initialize periph host: %w", hostErr)
	}

	pin := gpioreg.ByName(pinName)
	if pin == nil {
		return nil, fmt.Errorf("gpio pin %q not found", pinName)
	}
	if err := pin.In(gpio.PullUp, gpio.BothEdges); err != nil {
		return nil, fmt.Errorf("failed to configure pin %s: %w", pinName, err)
	}

	b := &Button{
		pin:      pin,
		name:     pinName,
		holdTime: holdTime,
		short:    short,
		long:     long,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
	go b.watch()
	return b, nil
}

// watch classifies on release: a press held at least holdTime is long,
// anything shorter is short. Classifying on release means a single press
// never fires both handlers.
func (b *Button) watch() {
	defer close(b.done)

	var pressedAt time.Time
	pressed := false

	for {
		select {
		case <-b.stop:
			return
		default:
		}

		if !b.pin.WaitForEdge(edgeTimeout) {
			continue
		}

		if b.pin.Read() == gpio.Low {
			pressedAt = time.Now()
			pressed = true
			continue
		}

		if !pressed {
			continue
		}
		pressed = false

		if time.Since(pressedAt) >= b.holdTime {
			if b.long != nil {
				b.long()
			}
		} else if b.short != nil {
			b.short()
		}
	}
}

// Close stops the watcher and releases the pin. Called on every daemon
// exit path.
func (b *Button) Close() error {
	select {
	case <-b.stop:
		return nil
	default:
	}
	close(b.stop)
	_ = b.pin.Halt()
	<-b.done
	return nil
}
