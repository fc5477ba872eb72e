// Package module implements the preferences service module
package module

import (
	"tandem/internal/modkit"
	"tandem/internal/modkit/httpkit"
	"tandem/internal/modkit/repokit"
	"tandem/internal/services/preferences/domain"
	"tandem/internal/services/preferences/repo"
	"tandem/internal/services/preferences/service"
)

// Ports exposed by the preferences module
type Ports struct {
	Prefs domain.PrefsPort
}

// Module implements the preferences service module
type Module struct {
	deps  modkit.Deps
	ports Ports
}

// New constructs a new preferences module
func New(deps modkit.Deps) *Module {
	binder := repo.NewPG()
	svc := service.New(repokit.TxRunner(deps.PG), binder)

	m := &Module{deps: deps}
	m.ports = Ports{Prefs: svc}
	return m
}

// Name satisfies modkit.Module
func (m *Module) Name() string { return "preferences" }

// Ports satisfies modkit.Module
func (m *Module) Ports() any { return m.ports }

// Prefix satisfies modkit.Module
func (m *Module) Prefix() string { return "" }

// MountRoutes satisfies modkit.Module
func (m *Module) MountRoutes(r httpkit.Router) {}
