package display

import (
	"fmt"
	"sync"
	"time"

	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/host/v3"

	"github.com/markoshka/markoshka/internal/render"
)

// PCF8574 backpack bit layout for HD44780-compatible character LCDs.
const (
	lcdRS        = 0x01 // register select: 0 = command, 1 = data
	lcdEnable    = 0x04 // enable strobe
	lcdBacklight = 0x08

	lcdCmdClear      = 0x01
	lcdCmdEntryMode  = 0x06 // cursor moves right, no shift
	lcdCmdDisplayOn  = 0x0C // display on, cursor off, blink off
	lcdCmdFunction4b = 0x28 // 4-bit bus, 2 lines, 5x8 font

	lcdLine1Addr = 0x80
	lcdLine2Addr = 0xC0
)

var hostInitOnce sync.Once

// I2CDriver drives a 20x2 character LCD behind a PCF8574 I2C backpack in
// 4-bit mode. Cyrillic legibility depends on the controller's character
// ROM (the deployed panels carry the KS0066 Cyrillic set).
type I2CDriver struct {
	dev *i2c.Dev
	bus i2c.BusCloser
}

// NewI2CDriver opens the bus (empty name = first available), probes the
// backpack address and runs the 4-bit init sequence. Any failure surfaces
// to the factory for the console fallback.
func NewI2CDriver(busName string, addr uint16) (*I2CDriver, error) {
	var hostErr error
	hostInitOnce.Do(func() {
		_, hostErr = host.Init()
	})
	if hostErr != nil {
		return nil, fmt.Errorf("failed to initialize periph host: %w", hostErr)
	}

	bus, err := i2creg.Open(busName)
	if err != nil {
		return nil, fmt.Errorf("failed to open i2c bus %q: %w", busName, err)
	}

	d := &I2CDriver{
		dev: &i2c.Dev{Bus: bus, Addr: addr},
		bus: bus,
	}
	if err := d.init(); err != nil {
		_ = bus.Close()
		return nil, fmt.Errorf("lcd init at 0x%02x failed: %w", addr, err)
	}
	return d, nil
}

// init brings the controller into 4-bit mode. The 0x33/0x32 preamble is
// the HD44780 reset-by-instruction dance and must keep its delays.
func (d *I2CDriver) init() error {
	sequence := []byte{0x33, 0x32, lcdCmdFunction4b, lcdCmdDisplayOn, lcdCmdClear, lcdCmdEntryMode}
	for _, cmd := range sequence {
		if err := d.command(cmd); err != nil {
			return err
		}
		time.Sleep(5 * time.Millisecond)
	}
	return nil
}

// Write repaints both lines from their DDRAM start addresses.
func (d *I2CDriver) Write(frame render.Frame) error {
	for row, addr := range []byte{lcdLine1Addr, lcdLine2Addr} {
		if err := d.command(addr); err != nil {
			return err
		}
		for _, b := range []byte(frame[row]) {
			if err := d.data(b); err != nil {
				return err
			}
		}
	}
	return nil
}

// Close clears the glass and releases the bus.
func (d *I2CDriver) Close() error {
	_ = d.command(lcdCmdClear)
	return d.bus.Close()
}

func (d *I2CDriver) command(b byte) error {
	return d.writeByte(b, 0)
}

func (d *I2CDriver) data(b byte) error {
	return d.writeByte(b, lcdRS)
}

// writeByte sends one byte as two strobed nibbles with the backlight held
// on.
func (d *I2CDriver) writeByte(b byte, mode byte) error {
	for _, nibble := range []byte{b & 0xF0, (b << 4) & 0xF0} {
		value := nibble | mode | lcdBacklight
		if err := d.strobe(value); err != nil {
			return err
		}
	}
	return nil
}

func (d *I2CDriver) strobe(value byte) error {
	if err := d.dev.Tx([]byte{value | lcdEnable}, nil); err != nil {
		return err
	}
	time.Sleep(time.Millisecond)
	if err := d.dev.Tx([]byte{value &^ lcdEnable}, nil); err != nil {
		return err
	}
	time.Sleep(50 * time.Microsecond)
	return nil
}
