package display

import (
	"errors"
	"strings"
	"testing"

	"github.com/markoshka/markoshka/internal/config"
	"github.com/markoshka/markoshka/internal/render"
)

func TestConsoleDriverOutput(t *testing.T) {
	var buf strings.Builder
	driver := NewConsoleDriverTo(&buf)

	frame := render.StaticFrame("Ты справишься!")
	if err := driver.Write(frame); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	want := "----------------------\n" +
		"|Ты справишься!      |\n" +
		"|                    |\n" +
		"----------------------\n"
	if buf.String() != want {
		t.Errorf("console output:\n%s\nwant:\n%s", buf.String(), want)
	}

	if err := driver.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
}

// fakeDriver records frames and can be told to fail.
type fakeDriver struct {
	frames   []render.Frame
	writeErr error
	closed   bool
}

func (d *fakeDriver) Write(frame render.Frame) error {
	if d.writeErr != nil {
		return d.writeErr
	}
	d.frames = append(d.frames, frame)
	return nil
}

func (d *fakeDriver) Close() error {
	d.closed = true
	return nil
}

func TestMultiFansOut(t *testing.T) {
	primary := &fakeDriver{}
	tap := &fakeDriver{}
	driver := Multi(primary, tap)

	frame := render.StaticFrame("Кофе уже в пути")
	if err := driver.Write(frame); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	if len(primary.frames) != 1 || len(tap.frames) != 1 {
		t.Errorf("frames: primary %d, tap %d, want 1 each", len(primary.frames), len(tap.frames))
	}

	if err := driver.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if !primary.closed || !tap.closed {
		t.Error("Close() did not reach every driver")
	}
}

func TestMultiTapErrorIsSwallowed(t *testing.T) {
	primary := &fakeDriver{}
	tap := &fakeDriver{writeErr: errors.New("mirror down")}
	driver := Multi(primary, tap)

	if err := driver.Write(render.StaticFrame("x")); err != nil {
		t.Errorf("tap failure leaked: %v", err)
	}
	if len(primary.frames) != 1 {
		t.Errorf("primary got %d frames, want 1", len(primary.frames))
	}
}

func TestMultiPrimaryErrorPropagates(t *testing.T) {
	wantErr := errors.New("glass gone")
	primary := &fakeDriver{writeErr: wantErr}
	tap := &fakeDriver{}
	driver := Multi(primary, tap)

	if err := driver.Write(render.StaticFrame("x")); !errors.Is(err, wantErr) {
		t.Errorf("Write() error = %v, want %v", err, wantErr)
	}
	// The tap still sees the frame.
	if len(tap.frames) != 1 {
		t.Errorf("tap got %d frames, want 1", len(tap.frames))
	}
}

func TestMultiWithoutTapsReturnsPrimary(t *testing.T) {
	primary := &fakeDriver{}
	if got := Multi(primary); got != Driver(primary) {
		t.Error("Multi with no taps should return the primary unchanged")
	}
}

func TestNewFallsBackToConsole(t *testing.T) {
	// No VFD on /dev/null-adjacent ports and no I2C bus in CI: the chain
	// must bottom out at the console without an error.
	cfg := config.Default()
	cfg.Serial.Port = "/nonexistent/ttyUSB99"

	driver, transport := New(cfg)
	if driver == nil {
		t.Fatal("New() returned nil driver")
	}
	defer driver.Close()

	if transport != config.TransportConsole {
		t.Errorf("transport = %q, want %q", transport, config.TransportConsole)
	}
	if _, ok := driver.(*ConsoleDriver); !ok {
		t.Errorf("driver type = %T, want *ConsoleDriver", driver)
	}
}

func TestNewConsoleTransportDirect(t *testing.T) {
	cfg := config.Default()
	cfg.Transport = config.TransportConsole

	driver, transport := New(cfg)
	defer driver.Close()

	if transport != config.TransportConsole {
		t.Errorf("transport = %q, want console", transport)
	}
}
