package module

import (
	"time"

	"tandem/internal/platform/config"
)

// Options holds configuration settings for the availability module
type Options struct {
	// Workers is the oracle fan-out width across (user, account) pairs
	Workers int

	// Fallback ladder knobs
	SuggestPerStrategy int
	ExtendBy           time.Duration

	// Provider OAuth clients. A provider with an empty client id stays
	// unconfigured and its accounts degrade per-account at fetch time
	GoogleClientID      string
	GoogleClientSecret  string
	OutlookClientID     string
	OutlookClientSecret string
	ProviderTimeout     time.Duration
}

// FromConfig extracts Options from the given config.Conf
func FromConfig(cfg config.Conf) Options {
	av := cfg.Prefix("AVAILABILITY_")
	cal := cfg.Prefix("CAL_")
	return Options{
		Workers:            av.MayInt("WORKERS", 4),
		SuggestPerStrategy: av.MayInt("SUGGEST_PER_STRATEGY", 3),
		ExtendBy:           av.MayDuration("EXTEND_BY", 14*24*time.Hour),

		GoogleClientID:      cal.MayString("GOOGLE_CLIENT_ID", ""),
		GoogleClientSecret:  cal.MayString("GOOGLE_CLIENT_SECRET", ""),
		OutlookClientID:     cal.MayString("OUTLOOK_CLIENT_ID", ""),
		OutlookClientSecret: cal.MayString("OUTLOOK_CLIENT_SECRET", ""),
		ProviderTimeout:     cal.MayDuration("TIMEOUT", 10*time.Second),
	}
}
