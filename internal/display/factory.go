package display

import (
	"go.uber.org/zap"

	"github.com/markoshka/markoshka/internal/config"
	"github.com/markoshka/markoshka/internal/logging"
	"github.com/markoshka/markoshka/internal/render"
)

// New resolves the configured transport into a concrete driver. Hardware
// that cannot be opened degrades down the chain serial -> i2c -> console
// with a logged warning; the console driver cannot fail, so the daemon
// always gets a display. Returns the driver and the transport name that
// actually came up.
func New(cfg *config.Config) (Driver, string) {
	transport := cfg.Transport

	if transport == config.TransportSerial {
		driver, err := NewSerialDriver(cfg.Serial.Port, cfg.Serial.Baud)
		if err == nil {
			logging.Info("Display transport ready",
				zap.String("transport", config.TransportSerial),
				zap.String("port", cfg.Serial.Port),
				zap.Int("baud", cfg.Serial.Baud),
			)
			return driver, config.TransportSerial
		}
		logging.LogTransportFallback(config.TransportSerial, config.TransportI2C, err)
		transport = config.TransportI2C
	}

	if transport == config.TransportI2C {
		driver, err := NewI2CDriver(cfg.I2C.Bus, cfg.I2C.Addr)
		if err == nil {
			logging.Info("Display transport ready",
				zap.String("transport", config.TransportI2C),
				zap.Uint16("addr", cfg.I2C.Addr),
			)
			return driver, config.TransportI2C
		}
		logging.LogTransportFallback(config.TransportI2C, config.TransportConsole, err)
	}

	logging.Info("Display transport ready",
		zap.String("transport", config.TransportConsole),
	)
	return NewConsoleDriver(), config.TransportConsole
}

// Multi fans every frame out to all given drivers. The first driver is
// the primary; errors from the others (e.g. the websocket mirror) are
// logged and swallowed so a flaky mirror cannot disturb the glass.
func Multi(primary Driver, taps ...Driver) Driver {
	if len(taps) == 0 {
		return primary
	}
	return &multiDriver{primary: primary, taps: taps}
}

type multiDriver struct {
	primary Driver
	taps    []Driver
}

func (m *multiDriver) Write(frame render.Frame) error {
	err := m.primary.Write(frame)
	for _, tap := range m.taps {
		if tapErr := tap.Write(frame); tapErr != nil {
			logging.Warn("Secondary display write failed", zap.Error(tapErr))
		}
	}
	return err
}

func (m *multiDriver) Close() error {
	for _, tap := range m.taps {
		if err := tap.Close(); err != nil {
			logging.Warn("Secondary display close failed", zap.Error(err))
		}
	}
	return m.primary.Close()
}
