package display

import (
	"fmt"

	"go.bug.st/serial"

	"github.com/markoshka/markoshka/internal/render"
)

// PD2800 control bytes. The display interprets a form feed as
// clear-and-home; lines are terminated with CR LF.
const (
	pd2800Clear = 0x0C
	pd2800CR    = 0x0D
	pd2800LF    = 0x0A
)

// SerialDriver drives a PD2800 VFD customer display over a serial port.
// The glass holds its own Cyrillic character ROM; we send the frame bytes
// as-is.
type SerialDriver struct {
	port serial.Port
	name string
}

// NewSerialDriver opens the port and clears the display. An unreachable or
// busy port surfaces here so the factory can fall back to the next
// transport.
func NewSerialDriver(portName string, baud int) (*SerialDriver, error) {
	mode := &serial.Mode{BaudRate: baud}
	port, err := serial.Open(portName, mode)
	if err != nil {
		return nil, fmt.Errorf("failed to open serial port %s: %w", portName, err)
	}

	d := &SerialDriver{port: port, name: portName}
	if _, err := port.Write([]byte{pd2800Clear}); err != nil {
		_ = port.Close()
		return nil, fmt.Errorf("failed to clear display on %s: %w", portName, err)
	}
	return d, nil
}

// Write clears the glass and sends both lines.
func (d *SerialDriver) Write(frame render.Frame) error {
	payload := make([]byte, 0, 2*render.Width+8)
	payload = append(payload, pd2800Clear)
	payload = append(payload, []byte(frame[0])...)
	payload = append(payload, pd2800CR, pd2800LF)
	payload = append(payload, []byte(frame[1])...)

	if _, err := d.port.Write(payload); err != nil {
		return fmt.Errorf("serial write to %s failed: %w", d.name, err)
	}
	return nil
}

// Close releases the serial port.
func (d *SerialDriver) Close() error {
	return d.port.Close()
}
