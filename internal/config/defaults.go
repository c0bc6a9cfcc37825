package config

import "github.com/aristath/stepweaver/internal/scheduler"

// DefaultConfig returns five workers, a base offset of 60 and the
// upper-case Latin alphabet.
func DefaultConfig() *Config {
	return &Config{
		Workers:    5,
		BaseOffset: 60,
		Alphabet:   string(scheduler.DefaultAlphabet),
	}
}
