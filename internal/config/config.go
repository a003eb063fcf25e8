// Package config loads the daemon configuration: display transport,
// button pins, weather provider settings and the optional catalogue file.
//
// Precedence, lowest to highest: built-in defaults, the YAML config file,
// MARKOSHKA_* environment variables, command-line flags (applied by the
// cobra layer). The file lives in the platform config directory
// (~/.config/markoshka/config.yaml on Linux) and is optional.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/markoshka/markoshka/internal/weather"
)

const (
	appName    = "markoshka"
	configFile = "config.yaml"
)

// Display transport identifiers accepted in config and flags.
const (
	TransportConsole = "console"
	TransportSerial  = "serial"
	TransportI2C     = "i2c"
)

// Serial holds the PD2800 serial VFD settings.
type Serial struct {
	Port string `yaml:"port"`
	Baud int    `yaml:"baud"`
}

// I2C holds the character LCD backpack settings.
type I2C struct {
	Bus  string `yaml:"bus"`  // empty = first available bus
	Addr uint16 `yaml:"addr"` // PCF8574 backpack address, typically 0x27
}

// Buttons holds the GPIO pin names for the two physical controls. An empty
// pin name disables that button.
type Buttons struct {
	ModePin    string  `yaml:"mode_pin"`    // short = toggle mode, long = cycle category
	WeatherPin string  `yaml:"weather_pin"` // short = toggle weather
	HoldTime   float64 `yaml:"hold_time"`   // seconds a press must last to count as long
}

// Mirror holds the optional websocket frame mirror settings.
type Mirror struct {
	Enabled   bool   `yaml:"enabled"`
	Host      string `yaml:"host"` // empty = all interfaces
	Port      int    `yaml:"port"`
	Advertise bool   `yaml:"advertise"` // announce the endpoint over mDNS
}

// Config is the full daemon configuration.
type Config struct {
	Transport string         `yaml:"transport"`
	Serial    Serial         `yaml:"serial"`
	I2C       I2C            `yaml:"i2c"`
	Buttons   Buttons        `yaml:"buttons"`
	Weather   weather.Config `yaml:"weather"`
	Mirror    Mirror         `yaml:"mirror"`

	// CataloguePath points at a YAML phrase catalogue. Empty = built-in.
	CataloguePath string `yaml:"catalogue"`
}

// Default returns the configuration used when no file and no overrides are
// present: serial transport with the console fallback chain, the default
// Raspberry Pi button pins, weather via Open-Meteo.
func Default() *Config {
	return &Config{
		Transport: TransportSerial,
		Serial: Serial{
			Port: "/dev/ttyUSB0",
			Baud: 9600,
		},
		I2C: I2C{
			Addr: 0x27,
		},
		Buttons: Buttons{
			ModePin:    "GPIO17",
			WeatherPin: "GPIO27",
			HoldTime:   1.2,
		},
		Mirror: Mirror{
			Port: 8420,
		},
	}
}

// GetConfigDir returns the OS-appropriate configuration directory:
//   - Linux: $XDG_CONFIG_HOME/markoshka or $HOME/.config/markoshka
//   - macOS: $HOME/.config/markoshka
//   - Windows: %LOCALAPPDATA%\markoshka
func GetConfigDir() (string, error) {
	var baseDir string

	switch runtime.GOOS {
	case "windows":
		localAppData := os.Getenv("LOCALAPPDATA")
		if localAppData == "" {
			userProfile := os.Getenv("USERPROFILE")
			if userProfile == "" {
				return "", fmt.Errorf("cannot determine user profile directory (LOCALAPPDATA and USERPROFILE not set)")
			}
			baseDir = filepath.Join(userProfile, "AppData", "Local", appName)
		} else {
			baseDir = filepath.Join(localAppData, appName)
		}

	default:
		xdgConfigHome := os.Getenv("XDG_CONFIG_HOME")
		if xdgConfigHome != "" {
			baseDir = filepath.Join(xdgConfigHome, appName)
		} else {
			homeDir, err := os.UserHomeDir()
			if err != nil {
				return "", fmt.Errorf("cannot determine home directory: %w", err)
			}
			baseDir = filepath.Join(homeDir, ".config", appName)
		}
	}

	return baseDir, nil
}

// GetConfigPath returns the full path to the configuration file.
func GetConfigPath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, configFile), nil
}

// Load reads the configuration. With an empty path it looks for the
// default config file and silently uses defaults when none exists; an
// explicit path that cannot be read is an error.
func Load(path string) (*Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		defaultPath, err := GetConfigPath()
		if err != nil {
			return nil, err
		}
		path = defaultPath
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !explicit {
			cfg.applyEnv()
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	cfg.applyEnv()
	return cfg, nil
}

// applyEnv overlays MARKOSHKA_* and weather provider environment variables
// on top of the file values. Unset variables leave the config untouched.
func (c *Config) applyEnv() {
	if v := os.Getenv("MARKOSHKA_TRANSPORT"); v != "" {
		c.Transport = v
	}
	if v := os.Getenv("MARKOSHKA_PORT"); v != "" {
		c.Serial.Port = v
	}
	if v := os.Getenv("MARKOSHKA_BAUD"); v != "" {
		if baud, err := strconv.Atoi(v); err == nil {
			c.Serial.Baud = baud
		}
	}
	if v := os.Getenv("MARKOSHKA_ADDR"); v != "" {
		if addr, err := strconv.ParseUint(v, 0, 16); err == nil {
			c.I2C.Addr = uint16(addr)
		}
	}
	if v := os.Getenv("MARKOSHKA_BUTTON_PIN"); v != "" {
		c.Buttons.ModePin = v
	}
	if v := os.Getenv("MARKOSHKA_WEATHER_PIN"); v != "" {
		c.Buttons.WeatherPin = v
	}
	if v := os.Getenv("OPENWEATHER_API_KEY"); v != "" {
		c.Weather.APIKey = v
	}
	if v := os.Getenv("WEATHER_CITY"); v != "" {
		c.Weather.City = v
	}
	if v := os.Getenv("WEATHER_LAT"); v != "" {
		c.Weather.Latitude = v
	}
	if v := os.Getenv("WEATHER_LON"); v != "" {
		c.Weather.Longitude = v
	}
}

// Validate rejects values the display factory cannot act on.
func (c *Config) Validate() error {
	switch c.Transport {
	case TransportConsole, TransportSerial, TransportI2C:
	default:
		return fmt.Errorf("unknown transport %q (expected console, serial or i2c)", c.Transport)
	}
	if c.Serial.Baud <= 0 {
		return fmt.Errorf("serial baud rate must be positive, got %d", c.Serial.Baud)
	}
	if c.Buttons.HoldTime <= 0 {
		return fmt.Errorf("button hold time must be positive, got %g", c.Buttons.HoldTime)
	}
	if c.Mirror.Enabled && (c.Mirror.Port <= 0 || c.Mirror.Port > 65535) {
		return fmt.Errorf("mirror port %d out of range", c.Mirror.Port)
	}
	return nil
}
