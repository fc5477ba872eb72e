// Package module wires the conflict sweeper
package module

import (
	"tandem/internal/modkit"
	"tandem/internal/modkit/httpkit"
	"tandem/internal/modkit/repokit"
	"tandem/internal/services/conflict/domain"
	"tandem/internal/services/conflict/repo"
	"tandem/internal/services/conflict/service"
)

// Ports exposed by the conflict module
type Ports struct {
	Sweeper domain.SweeperPort
}

// Module implements modkit.Module
type Module struct {
	deps  modkit.Deps
	ports Ports
}

// New constructs a new conflict module
func New(deps modkit.Deps, overrides Options, opts ...modkit.Option) *Module {
	b := modkit.Build(append([]modkit.Option{
		modkit.WithName("conflict"),
	}, opts...)...)

	// Basic guardrails against incorrect wiring
	ports, ok := b.Ports.(domain.Ports)
	if !ok {
		panic("conflict module: expected WithPorts(conflict/domain.Ports)")
	}
	if ports.Resolver == nil || ports.Oracle == nil {
		panic("conflict module: Ports missing Resolver or Oracle")
	}

	// Merge config + overrides
	cfg := FromConfig(deps.Cfg)
	if overrides.Horizon != 0 {
		cfg.Horizon = overrides.Horizon
	}

	sweeper := service.New(
		repokit.TxRunner(deps.PG), repo.NewPG(),
		ports.Resolver, ports.Oracle,
		service.Config{DefaultHorizon: cfg.Horizon},
	)

	m := &Module{deps: deps}
	m.ports = Ports{Sweeper: sweeper}
	return m
}

// Name satisfies modkit.Module
func (m *Module) Name() string { return "conflict" }

// Ports satisfies modkit.Module
func (m *Module) Ports() any { return m.ports }

// Prefix satisfies modkit.Module
func (m *Module) Prefix() string { return "" }

// MountRoutes satisfies modkit.Module
func (m *Module) MountRoutes(_ httpkit.Router) {}
