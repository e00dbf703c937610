// File: facade/config.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package facade

import (
	"fmt"

	"github.com/BurntSushi/toml"
	"github.com/momentics/hioload-rt/executor"
)

// Config holds parameters immutable per run.
type Config struct {
	LogLevel        string `toml:"log_level"`         // trace, debug, info, warning, err, disabled
	ReadyOrder      string `toml:"ready_order"`       // "lifo" or "fifo"
	LockOSThread    bool   `toml:"lock_os_thread"`    // pin BlockOn to its OS thread
	ContinueOnPanic bool   `toml:"continue_on_panic"` // drop panicking non-root tasks
	EdgeTriggered   bool   `toml:"edge_triggered"`    // epoll edge vs level mode
	MaxEvents       int    `toml:"max_events"`        // events taken per wait
	ReadBufferSize  int    `toml:"read_buffer_size"`  // scratch buffer for leaf reads
	ServerAddr      string `toml:"server_addr"`       // delay server address
	ExecutorCPU     int    `toml:"executor_cpu"`      // pin BlockOn thread, -1 disables
	ReactorCPU      int    `toml:"reactor_cpu"`       // pin reactor thread, -1 disables

	MetricsNamespace string `toml:"metrics_namespace"` // prometheus metric prefix
}

// DefaultConfig returns default configuration values.
func DefaultConfig() *Config {
	return &Config{
		LogLevel:       "info",
		ReadyOrder:     "lifo",
		LockOSThread:   true,
		EdgeTriggered:  true,
		MaxEvents:      128,
		ReadBufferSize: 4096,
		ServerAddr:     "127.0.0.1:8080",
		ExecutorCPU:    -1,
		ReactorCPU:     -1,

		MetricsNamespace: "hioload",
	}
}

// LoadConfig reads a TOML file over DefaultConfig. Keys absent from the file
// keep their defaults.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return nil, fmt.Errorf("facade: load config %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("facade: load config %s: unknown keys %v", path, undecoded)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports the first invalid field.
func (c *Config) Validate() error {
	if _, err := ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("facade: %w", err)
	}
	if _, err := executor.ParseOrder(c.ReadyOrder); err != nil {
		return fmt.Errorf("facade: %w", err)
	}
	if c.MaxEvents <= 0 {
		return fmt.Errorf("facade: max_events must be positive, got %d", c.MaxEvents)
	}
	if c.ReadBufferSize <= 0 {
		return fmt.Errorf("facade: read_buffer_size must be positive, got %d", c.ReadBufferSize)
	}
	return nil
}
