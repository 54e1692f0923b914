// Package config loads the daemon's runtime settings.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v2"
)

// Data is the complete daemon configuration. Every field has a working
// default; a YAML file and CLOCKD_* environment variables override it, the
// environment winning over the file.
type Data struct {
	Database   DatabaseData   `yaml:"database" json:"database"`
	Broadcast  BroadcastData  `yaml:"broadcast" json:"broadcast"`
	CommandAPI CommandAPIData `yaml:"command_api" json:"command_api"`

	// TickIntervalMS is the tick period in milliseconds. The production
	// default is one second; tests and simulators may shorten it.
	TickIntervalMS int `yaml:"tick_interval_ms" json:"tick_interval_ms"`

	// LogFile enables rotating file logging when set.
	LogFile string `yaml:"log_file,omitempty" json:"log_file,omitempty"`
}

// DatabaseData locates the alarm database. The path is normally resolved by
// the platform bootstrap in cmd/clockd; the daemon itself only needs a
// usable file path.
type DatabaseData struct {
	Path string `yaml:"path" json:"path"`
}

// BroadcastData configures the subscribe-channel listener.
type BroadcastData struct {
	ListenAddr string `yaml:"listen_addr" json:"listen_addr"`
	Port       int    `yaml:"port" json:"port"`
}

// CommandAPIData configures the HTTP command API listener.
type CommandAPIData struct {
	ListenAddr string `yaml:"listen_addr" json:"listen_addr"`
	Port       int    `yaml:"port" json:"port"`
}

// Default returns the built-in configuration.
func Default() Data {
	return Data{
		Broadcast: BroadcastData{
			ListenAddr: "127.0.0.1",
			Port:       5555,
		},
		CommandAPI: CommandAPIData{
			ListenAddr: "127.0.0.1",
			Port:       8081,
		},
		TickIntervalMS: 1000,
	}
}

// Load builds the configuration from defaults, an optional YAML file, and
// the environment.
func Load(path string) (Data, error) {
	data := Default()

	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return Data{}, fmt.Errorf("error reading config file: %w", err)
		}
		if err := yaml.Unmarshal(raw, &data); err != nil {
			return Data{}, fmt.Errorf("error parsing config file: %w", err)
		}
	}

	if err := data.applyEnv(); err != nil {
		return Data{}, err
	}

	if data.TickIntervalMS <= 0 {
		return Data{}, fmt.Errorf("tick interval must be positive, got %d ms", data.TickIntervalMS)
	}

	return data, nil
}

// Environment variables understood by the daemon.
const (
	envDBPath         = "CLOCKD_DB_PATH"
	envBroadcastAddr  = "CLOCKD_BROADCAST_ADDR"
	envBroadcastPort  = "CLOCKD_BROADCAST_PORT"
	envCommandAddr    = "CLOCKD_COMMAND_ADDR"
	envCommandPort    = "CLOCKD_COMMAND_PORT"
	envTickIntervalMS = "CLOCKD_TICK_INTERVAL_MS"
	envLogFile        = "CLOCKD_LOG_FILE"
)

func (d *Data) applyEnv() error {
	if v := os.Getenv(envDBPath); v != "" {
		d.Database.Path = v
	}
	if v := os.Getenv(envBroadcastAddr); v != "" {
		d.Broadcast.ListenAddr = v
	}
	if v := os.Getenv(envCommandAddr); v != "" {
		d.CommandAPI.ListenAddr = v
	}
	if v := os.Getenv(envLogFile); v != "" {
		d.LogFile = v
	}

	intVars := []struct {
		name   string
		target *int
	}{
		{envBroadcastPort, &d.Broadcast.Port},
		{envCommandPort, &d.CommandAPI.Port},
		{envTickIntervalMS, &d.TickIntervalMS},
	}
	for _, iv := range intVars {
		v := os.Getenv(iv.name)
		if v == "" {
			continue
		}
		parsed, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %s value %q: %w", iv.name, v, err)
		}
		*iv.target = parsed
	}

	return nil
}

// TickInterval returns the tick period as a duration.
func (d Data) TickInterval() time.Duration {
	return time.Duration(d.TickIntervalMS) * time.Millisecond
}

// BroadcastAddr returns the subscribe-channel listen address as host:port.
func (d Data) BroadcastAddr() string {
	return fmt.Sprintf("%s:%d", d.Broadcast.ListenAddr, d.Broadcast.Port)
}

// CommandAddr returns the command API listen address as host:port.
func (d Data) CommandAddr() string {
	return fmt.Sprintf("%s:%d", d.CommandAPI.ListenAddr, d.CommandAPI.Port)
}
