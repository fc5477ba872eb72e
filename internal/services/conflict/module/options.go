package module

import (
	"time"

	"tandem/internal/platform/config"
)

// Options holds configuration settings for the conflict module
type Options struct {
	// Horizon is the default sweep window when a caller passes none
	Horizon time.Duration
}

// FromConfig extracts Options from the given config.Conf
func FromConfig(cfg config.Conf) Options {
	cf := cfg.Prefix("CONFLICT_")
	return Options{
		Horizon: cf.MayDuration("HORIZON", 14*24*time.Hour),
	}
}
