package module

import (
	"time"

	"tandem/internal/platform/config"
)

// Options holds configuration settings for the events module
type Options struct {
	// DefaultHorizon bounds ListUpcoming when no horizon is given
	DefaultHorizon time.Duration

	// Provider OAuth clients for the mirror path. A provider with an
	// empty client id stays unconfigured and its accounts are skipped
	// at mirror time
	GoogleClientID      string
	GoogleClientSecret  string
	OutlookClientID     string
	OutlookClientSecret string
	ProviderTimeout     time.Duration
}

// FromConfig extracts Options from the given config.Conf
func FromConfig(cfg config.Conf) Options {
	ev := cfg.Prefix("EVENTS_")
	cal := cfg.Prefix("CAL_")
	return Options{
		DefaultHorizon: ev.MayDuration("HORIZON", 14*24*time.Hour),

		GoogleClientID:      cal.MayString("GOOGLE_CLIENT_ID", ""),
		GoogleClientSecret:  cal.MayString("GOOGLE_CLIENT_SECRET", ""),
		OutlookClientID:     cal.MayString("OUTLOOK_CLIENT_ID", ""),
		OutlookClientSecret: cal.MayString("OUTLOOK_CLIENT_SECRET", ""),
		ProviderTimeout:     cal.MayDuration("TIMEOUT", 10*time.Second),
	}
}
