package config

import (
	"fmt"

	"github.com/aristath/stepweaver/internal/scheduler"
)

// Config is the top-level configuration.
type Config struct {
	Workers    int    `json:"workers"`     // Worker pool size for parallel runs
	BaseOffset int    `json:"base_offset"` // Added to every task's alphabet rank
	Alphabet   string `json:"alphabet"`    // Ordered task tokens; rank drives duration
}

// fileConfig mirrors Config with optional fields, so a file can set a
// value to zero without it being mistaken for "unset".
type fileConfig struct {
	Workers    *int    `json:"workers"`
	BaseOffset *int    `json:"base_offset"`
	Alphabet   *string `json:"alphabet"`
}

// Validate reports configuration errors as scheduler.ErrConfig.
func (c *Config) Validate() error {
	if c.Workers < 1 {
		return fmt.Errorf("%w: workers must be at least 1, got %d", scheduler.ErrConfig, c.Workers)
	}
	if c.BaseOffset < 0 {
		return fmt.Errorf("%w: base_offset must not be negative, got %d", scheduler.ErrConfig, c.BaseOffset)
	}
	return scheduler.Alphabet(c.Alphabet).Validate()
}

// DurationFunc returns the duration function for the configured alphabet.
func (c *Config) DurationFunc() scheduler.DurationFunc {
	return scheduler.AlphabetDuration(scheduler.Alphabet(c.Alphabet))
}
