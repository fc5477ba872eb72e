// Package module implements the relationship service module
package module

import (
	"tandem/internal/modkit"
	"tandem/internal/modkit/httpkit"
	"tandem/internal/modkit/repokit"
	"tandem/internal/services/relationship/domain"
	"tandem/internal/services/relationship/repo"
	"tandem/internal/services/relationship/service"
)

// Ports exposed by the relationship module
type Ports struct {
	Resolver domain.ResolverPort
	Linker   domain.LinkerPort
}

// Module implements the relationship service module
type Module struct {
	deps  modkit.Deps
	ports Ports
}

// New constructs a new relationship module
func New(deps modkit.Deps) *Module {
	binder := repo.NewPG()
	svc := service.New(repokit.TxRunner(deps.PG), binder)

	m := &Module{deps: deps}
	m.ports = Ports{Resolver: svc, Linker: svc}
	return m
}

// Name satisfies modkit.Module
func (m *Module) Name() string { return "relationship" }

// Ports satisfies modkit.Module
func (m *Module) Ports() any { return m.ports }

// Prefix satisfies modkit.Module
func (m *Module) Prefix() string { return "" }

// MountRoutes satisfies modkit.Module
func (m *Module) MountRoutes(r httpkit.Router) {}
