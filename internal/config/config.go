// Package config resolves cmd/heos-dashboard's settings from flags,
// environment variables and a JSON config file, in that precedence
// order, adapted from the desktop app's Config/Default/Validate/Load/
// Save/Ensure pattern and generalized from data-directory and window
// settings to HEOS connection parameters.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"

	"github.com/mvandenberg/heos-go/internal/util"
)

// Config is cmd/heos-dashboard's full settings set.
type Config struct {
	Device    Device    `json:"device"`
	Dashboard Dashboard `json:"dashboard"`
	Logging   Logging   `json:"logging"`
}

// Device names the HEOS device (or mock) the dashboard connects to.
type Device struct {
	Addr string `json:"addr"`
	Mock bool   `json:"mock"`
}

// Dashboard configures the heosweb HTTP/WebSocket surface.
type Dashboard struct {
	ListenAddr string `json:"listen_addr"`
}

// Logging configures the zap logger cmd/heos-dashboard builds.
type Logging struct {
	Development bool   `json:"development"`
	Level       string `json:"level"`
}

// Default returns the built-in defaults: a mock device and a
// dashboard listening on localhost only.
func Default() Config {
	return Config{
		Device:    Device{Addr: "", Mock: true},
		Dashboard: Dashboard{ListenAddr: "127.0.0.1:8787"},
		Logging:   Logging{Development: false, Level: "info"},
	}
}

// Env names the environment variables ApplyEnv checks, each overriding
// the corresponding default when set.
const (
	EnvDeviceAddr    = "HEOS_DEVICE_ADDR"
	EnvDashboardAddr = "HEOS_DASHBOARD_ADDR"
)

// ApplyEnv overlays the HEOS_DEVICE_ADDR/HEOS_DASHBOARD_ADDR
// environment variables onto c, in that precedence (flags, applied by
// the caller after ApplyEnv, win over both).
func (c *Config) ApplyEnv() {
	if v := strings.TrimSpace(os.Getenv(EnvDeviceAddr)); v != "" {
		c.Device.Addr = v
		c.Device.Mock = false
	}
	if v := strings.TrimSpace(os.Getenv(EnvDashboardAddr)); v != "" {
		c.Dashboard.ListenAddr = v
	}
}

func (c *Config) Validate() error {
	if !c.Device.Mock {
		if strings.TrimSpace(c.Device.Addr) == "" {
			return errors.New("device.addr is required unless device.mock is true")
		}
		if err := validateHostPort(c.Device.Addr); err != nil {
			return fmt.Errorf("device.addr: %w", err)
		}
	}
	if strings.TrimSpace(c.Dashboard.ListenAddr) == "" {
		return errors.New("dashboard.listen_addr is required")
	}
	if err := validateHostPort(c.Dashboard.ListenAddr); err != nil {
		return fmt.Errorf("dashboard.listen_addr: %w", err)
	}
	switch c.Logging.Level {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level %q must be one of debug,info,warn,error", c.Logging.Level)
	}
	return nil
}

func validateHostPort(addr string) error {
	_, portStr, err := net.SplitHostPort(addr)
	if err != nil {
		return fmt.Errorf("invalid host:port: %w", err)
	}
	port, err := strconv.Atoi(portStr)
	if err != nil || port < 1 || port > 65535 {
		return errors.New("port must be 1..65535")
	}
	return nil
}

// Load reads a JSON config file, falling back to Default for any
// field the file omits.
func Load(path string) (Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	cfg := Default()
	if err := json.Unmarshal(b, &cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Save writes cfg as indented JSON, creating parent directories as
// needed.
func Save(path string, cfg Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	return util.WriteJSONFile(path, cfg)
}

// Ensure loads path if present, otherwise writes and returns Default.
// The bool result reports whether a new file was created.
func Ensure(path string) (Config, bool, error) {
	if _, err := os.Stat(path); err == nil {
		cfg, err := Load(path)
		return cfg, false, err
	} else if !os.IsNotExist(err) {
		return Config{}, false, err
	}
	cfg := Default()
	if err := Save(path, cfg); err != nil {
		return Config{}, false, fmt.Errorf("create default config: %w", err)
	}
	return cfg, true, nil
}
