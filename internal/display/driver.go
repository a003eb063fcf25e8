// Package display contains the physical display transports. Every driver
// receives frames already normalized to 20x2 by the renderer and only has
// to move the bytes; a driver never reflows text.
package display

import (
	"github.com/markoshka/markoshka/internal/render"
)

// Driver is a display transport. Write pushes one full frame; drivers do
// not buffer or diff, the refresh cadence is slow enough to rewrite the
// whole glass every time.
type Driver interface {
	render.FrameWriter

	// Close releases the underlying port or bus. Safe to call more than
	// once.
	Close() error
}
