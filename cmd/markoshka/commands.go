package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/markoshka/markoshka/internal/app"
	"github.com/markoshka/markoshka/internal/buttons"
	"github.com/markoshka/markoshka/internal/catalogue"
	"github.com/markoshka/markoshka/internal/config"
	"github.com/markoshka/markoshka/internal/display"
	"github.com/markoshka/markoshka/internal/engine"
	"github.com/markoshka/markoshka/internal/logging"
	"github.com/markoshka/markoshka/internal/server"
	"github.com/markoshka/markoshka/internal/tui"
	"github.com/markoshka/markoshka/internal/weather"
)

// Shared flags
var (
	configPath    string
	logLevel      string
	transport     string
	serialPort    string
	serialBaud    int
	i2cAddr       uint16
	cataloguePath string
	listenMirror  bool
	listenPort    int
	advertise     bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the display loop",
	Long: `Start the display loop against the configured transport.

An unavailable transport degrades down the chain serial -> i2c -> console,
so the loop always comes up; missing GPIO hardware only disables the
physical buttons. Configuration comes from the config file, MARKOSHKA_*
environment variables and these flags, in that order.`,
	Example: `  # Run with the configured (or default) transport
  markoshka run

  # Force the console transport with verbose logging
  markoshka run --transport console --log-level debug

  # Serial VFD on a specific port
  markoshka run --transport serial --port /dev/ttyUSB1 --baud 19200

  # Expose the websocket mirror and announce it over mDNS
  markoshka run --listen --advertise`,
	RunE: runRun,
}

var previewCmd = &cobra.Command{
	Use:   "preview",
	Short: "Run the display in an interactive terminal simulation",
	Long: `Run the full display loop against a terminal rendering of the 20x2
panel. Keys stand in for the buttons: space is a short press, enter a long
press, w the weather button, q quits.`,
	RunE: runPreview,
}

func init() {
	for _, cmd := range []*cobra.Command{runCmd, previewCmd} {
		cmd.Flags().StringVar(&configPath, "config", "", "Path to config file (default: platform config dir)")
		cmd.Flags().StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error); silent when unset")
		cmd.Flags().StringVar(&cataloguePath, "catalogue", "", "Path to a YAML phrase catalogue (default: built-in)")
	}

	runCmd.Flags().StringVar(&transport, "transport", "", "Display transport (console, serial, i2c)")
	runCmd.Flags().StringVar(&serialPort, "port", "", "Serial port for the PD2800 VFD")
	runCmd.Flags().IntVar(&serialBaud, "baud", 0, "Serial baud rate")
	runCmd.Flags().Uint16Var(&i2cAddr, "addr", 0, "I2C backpack address")
	runCmd.Flags().BoolVar(&listenMirror, "listen", false, "Enable the websocket frame mirror")
	runCmd.Flags().IntVar(&listenPort, "listen-port", 0, "Mirror port (default from config)")
	runCmd.Flags().BoolVar(&advertise, "advertise", false, "Announce the mirror over mDNS")
}

// loadSetup resolves config, catalogue and weather client for both
// commands. Catalogue problems are configuration errors and abort startup.
func loadSetup() (*config.Config, *catalogue.Catalogue, *weather.Client, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, nil, err
	}
	applyFlagOverrides(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, nil, nil, err
	}

	var cat *catalogue.Catalogue
	if cfg.CataloguePath != "" {
		cat, err = catalogue.LoadFile(cfg.CataloguePath)
		if err != nil {
			return nil, nil, nil, err
		}
	} else {
		cat = catalogue.Default()
	}

	return cfg, cat, weather.NewClient(cfg.Weather), nil
}

func applyFlagOverrides(cfg *config.Config) {
	if transport != "" {
		cfg.Transport = transport
	}
	if serialPort != "" {
		cfg.Serial.Port = serialPort
	}
	if serialBaud > 0 {
		cfg.Serial.Baud = serialBaud
	}
	if i2cAddr != 0 {
		cfg.I2C.Addr = i2cAddr
	}
	if cataloguePath != "" {
		cfg.CataloguePath = cataloguePath
	}
	if listenMirror {
		cfg.Mirror.Enabled = true
	}
	if listenPort > 0 {
		cfg.Mirror.Port = listenPort
	}
	if advertise {
		cfg.Mirror.Advertise = true
	}
}

func runRun(cmd *cobra.Command, args []string) error {
	if err := logging.Initialize(logLevel); err != nil {
		return err
	}
	defer logging.Sync()

	cfg, cat, weatherClient, err := loadSetup()
	if err != nil {
		return err
	}

	driver, transportName := display.New(cfg)
	defer driver.Close()

	intents := engine.NewIntentQueue()

	if cfg.Mirror.Enabled {
		mirror := server.New(server.Config{
			Host:      cfg.Mirror.Host,
			Port:      cfg.Mirror.Port,
			Advertise: cfg.Mirror.Advertise,
		}, intents)
		if err := mirror.Start(); err != nil {
			// Mirror is optional; the glass still works without it.
			logging.Warn("Frame mirror disabled", zap.Error(err))
		} else {
			driver = display.Multi(driver, mirror)
		}
	}

	holdTime := time.Duration(cfg.Buttons.HoldTime * float64(time.Second))
	attachButton := func(name, pin string, short, long buttons.Handler) buttons.Source {
		if pin == "" {
			return buttons.Disabled{}
		}
		btn, err := buttons.New(pin, holdTime, short, long)
		if err != nil {
			logging.Warn("Button disabled",
				zap.String("button", name),
				zap.String("pin", pin),
				zap.Error(err),
			)
			return buttons.Disabled{}
		}
		logging.Info("Button attached",
			zap.String("button", name),
			zap.String("pin", pin),
		)
		return btn
	}

	modeButton := attachButton("mode", cfg.Buttons.ModePin,
		func() { intents.Push(engine.IntentToggleMode) },
		func() { intents.Push(engine.IntentCycleCategory) },
	)
	defer modeButton.Close()

	weatherButton := attachButton("weather", cfg.Buttons.WeatherPin,
		func() { intents.Push(engine.IntentToggleWeather) },
		nil, // long press reserved
	)
	defer weatherButton.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	application := app.New(app.Options{
		Driver:    driver,
		Transport: transportName,
		Catalogue: cat,
		Weather:   weatherClient,
		Intents:   intents,
	})
	return application.Run(ctx)
}

func runPreview(cmd *cobra.Command, args []string) error {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return fmt.Errorf("preview needs an interactive terminal")
	}

	if err := logging.Initialize(logLevel); err != nil {
		return err
	}
	defer logging.Sync()

	_, cat, weatherClient, err := loadSetup()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	intents := engine.NewIntentQueue()
	driver := tui.NewDriver(intents, cancel)

	application := app.New(app.Options{
		Driver:    driver,
		Transport: "tui",
		Catalogue: cat,
		Weather:   weatherClient,
		Intents:   intents,
	})

	loopDone := make(chan error, 1)
	go func() {
		loopDone <- application.Run(ctx)
	}()

	// The program owns the terminal until the user quits.
	err = driver.Run()
	cancel()
	<-loopDone
	return err
}
