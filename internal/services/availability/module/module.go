// Package module wires the availability engine, its oracle and the
// provider clients behind it
package module

import (
	"tandem/internal/adapters/calendar"
	"tandem/internal/modkit"
	"tandem/internal/modkit/httpkit"
	"tandem/internal/modkit/repokit"
	"tandem/internal/services/availability/domain"
	"tandem/internal/services/availability/repo"
	"tandem/internal/services/availability/service"
)

// Ports exposed by the availability module
type Ports struct {
	Search  domain.SearchPort
	Suggest domain.SuggestPort
	Oracle  domain.OraclePort

	// Creds is shared with the events module so mirroring reads the
	// same calendar account rows as the oracle
	Creds domain.CredentialSource
}

// Module implements modkit.Module
type Module struct {
	deps  modkit.Deps
	ports Ports
}

// New constructs a new availability module
func New(deps modkit.Deps, overrides Options, opts ...modkit.Option) *Module {
	b := modkit.Build(append([]modkit.Option{
		modkit.WithName("availability"),
	}, opts...)...)

	// Basic guardrails against incorrect wiring
	ports, ok := b.Ports.(domain.Ports)
	if !ok {
		panic("availability module: expected WithPorts(availability/domain.Ports)")
	}
	if ports.Resolver == nil || ports.Prefs == nil {
		panic("availability module: Ports missing Resolver or Prefs")
	}

	// Merge config + overrides
	cfg := FromConfig(deps.Cfg)
	if overrides.Workers != 0 {
		cfg.Workers = overrides.Workers
	}
	if overrides.SuggestPerStrategy != 0 {
		cfg.SuggestPerStrategy = overrides.SuggestPerStrategy
	}
	if overrides.ExtendBy != 0 {
		cfg.ExtendBy = overrides.ExtendBy
	}

	creds := service.NewCredentialStore(repokit.TxRunner(deps.PG), repo.NewPG())
	busy := service.NewProviderBusy(providers(cfg))
	oracle := service.NewOracle(creds, busy, service.OracleConfig{Workers: cfg.Workers})

	engine := service.New(ports.Resolver, ports.Prefs, oracle, ports.Insights, service.Config{
		SuggestPerStrategy: cfg.SuggestPerStrategy,
		ExtendBy:           cfg.ExtendBy,
	})

	m := &Module{deps: deps}
	m.ports = Ports{
		Search:  engine,
		Suggest: engine,
		Oracle:  oracle,
		Creds:   creds,
	}
	return m
}

// providers builds a client per configured provider kind. Accounts of
// an unconfigured kind fail their individual fetches instead of taking
// the whole oracle down
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
func (m *Module) Name() string { return "availability" }

// Ports satisfies modkit.Module
func (m *Module) Ports() any { return m.ports }

// Prefix satisfies modkit.Module
func (m *Module) Prefix() string { return "" }

// MountRoutes satisfies modkit.Module
func (m *Module) MountRoutes(_ httpkit.Router) {}
