package module

import (
	"time"

	"tandem/internal/platform/config"
)

// Options holds configuration settings for the insights module
type Options struct {
	BatchSize     int
	FlushInterval time.Duration
	BufferSize    int
}

// FromConfig extracts Options from the given config.Conf
func FromConfig(cfg config.Conf) Options {
	in := cfg.Prefix("INSIGHTS_")
	return Options{
		BatchSize:     in.MayInt("BATCH_SIZE", 64),
		FlushInterval: in.MayDuration("FLUSH_INTERVAL", 5*time.Second),
		BufferSize:    in.MayInt("BUFFER_SIZE", 1024),
	}
}
