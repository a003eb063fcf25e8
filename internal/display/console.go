package display

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/markoshka/markoshka/internal/render"
)

// ConsoleDriver echoes frames to a writer as a boxed 20x2 panel. It is the
// always-available fallback transport and doubles as the development
// display.
type ConsoleDriver struct {
	out io.Writer
}

// NewConsoleDriver writes to stdout.
func NewConsoleDriver() *ConsoleDriver {
	return &ConsoleDriver{out: os.Stdout}
}

// NewConsoleDriverTo writes to the given writer. Used by tests.
func NewConsoleDriverTo(out io.Writer) *ConsoleDriver {
	return &ConsoleDriver{out: out}
}

// Write prints the frame between divider lines:
//
//	----------------------
//	|Ты справишься!      |
//	|                    |
//	----------------------
func (d *ConsoleDriver) Write(frame render.Frame) error {
	divider := strings.Repeat("-", render.Width+2)

	if _, err := fmt.Fprintln(d.out, divider); err != nil {
		return err
	}
	for _, line := range frame {
		if _, err := fmt.Fprintf(d.out, "|%s|\n", line); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintln(d.out, divider); err != nil {
		return err
	}
	return nil
}

// Close is a no-op; the console is not a held resource.
func (d *ConsoleDriver) Close() error {
	return nil
}
