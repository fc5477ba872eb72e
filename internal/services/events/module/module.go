// Package module wires event booking and the calendar mirror clients
package module

import (
	"tandem/internal/adapters/calendar"
	"tandem/internal/modkit"
	"tandem/internal/modkit/httpkit"
	"tandem/internal/modkit/repokit"
	"tandem/internal/services/events/domain"
	"tandem/internal/services/events/repo"
	"tandem/internal/services/events/service"
)

// Ports exposed by the events module
type Ports struct {
	Booker domain.BookerPort
}

// Module implements modkit.Module
type Module struct {
	deps  modkit.Deps
	ports Ports
}

// New constructs a new events module
func New(deps modkit.Deps, overrides Options, opts ...modkit.Option) *Module {
	b := modkit.Build(append([]modkit.Option{
		modkit.WithName("events"),
	}, opts...)...)

	// Basic guardrails against incorrect wiring
	ports, ok := b.Ports.(domain.Ports)
	if !ok {
		panic("events module: expected WithPorts(events/domain.Ports)")
	}
	if ports.Resolver == nil || ports.Creds == nil {
		panic("events module: Ports missing Resolver or Creds")
	}

	// Merge config + overrides
	cfg := FromConfig(deps.Cfg)
	if overrides.DefaultHorizon != 0 {
		cfg.DefaultHorizon = overrides.DefaultHorizon
	}
	if overrides.GoogleClientID != "" {
		cfg.GoogleClientID = overrides.GoogleClientID
	}
	if overrides.OutlookClientID != "" {
		cfg.OutlookClientID = overrides.OutlookClientID
	}
	if overrides.ProviderTimeout != 0 {
		cfg.ProviderTimeout = overrides.ProviderTimeout
	}

	mirror := service.NewProviderMirror(providers(cfg))
	booker := service.New(
		repokit.TxRunner(deps.PG), repo.NewPG(),
		ports.Resolver, ports.Creds, mirror,
		service.Config{DefaultHorizon: cfg.DefaultHorizon},
	)

	m := &Module{deps: deps}
	m.ports = Ports{Booker: booker}
	return m
}

// providers builds a client per configured provider kind. Accounts of
// an unconfigured kind skip their mirror instead of failing the booking
func providers(cfg Options) map[calendar.Kind]calendar.Provider {
	out := make(map[calendar.Kind]calendar.Provider, 2)
	if cfg.GoogleClientID != "" {
		out[calendar.KindGoogle] = calendar.NewGoogle(calendar.Options{
			ClientID:     cfg.GoogleClientID,
			ClientSecret: cfg.GoogleClientSecret,
			Timeout:      cfg.ProviderTimeout,
		})
	}
	if cfg.OutlookClientID != "" {
		out[calendar.KindOutlook] = calendar.NewOutlook(calendar.Options{
			ClientID:     cfg.OutlookClientID,
			ClientSecret: cfg.OutlookClientSecret,
			Timeout:      cfg.ProviderTimeout,
		})
	}
	return out
}

// Name satisfies modkit.Module
func (m *Module) Name() string { return "events" }

// Ports satisfies modkit.Module
func (m *Module) Ports() any { return m.ports }

// Prefix satisfies modkit.Module
func (m *Module) Prefix() string { return "" }

// MountRoutes satisfies modkit.Module
func (m *Module) MountRoutes(_ httpkit.Router) {}
