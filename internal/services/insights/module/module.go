// Package module wires the optional insights sink
package module

import (
	"context"

	"tandem/internal/modkit"
	"tandem/internal/modkit/httpkit"
	"tandem/internal/services/insights/domain"
	"tandem/internal/services/insights/service"
)

// Ports exposed by the insights module. Recorder is nil when no
// ClickHouse store is configured; consumers treat that as disabled
type Ports struct {
	Recorder domain.RecorderPort
}

// Module implements modkit.Module
type Module struct {
	deps  modkit.Deps
	ports Ports
	rec   *service.Recorder
}

// New constructs a new insights module
func New(deps modkit.Deps, overrides Options) *Module {
	m := &Module{deps: deps}
	if deps.CH == nil {
		return m
	}

	cfg := FromConfig(deps.Cfg)
	if overrides.BatchSize != 0 {
		cfg.BatchSize = overrides.BatchSize
	}
	if overrides.FlushInterval != 0 {
		cfg.FlushInterval = overrides.FlushInterval
	}
	if overrides.BufferSize != 0 {
		cfg.BufferSize = overrides.BufferSize
	}

	m.rec = service.NewRecorder(deps.CH, service.Config{
		BatchSize:     cfg.BatchSize,
		FlushInterval: cfg.FlushInterval,
		BufferSize:    cfg.BufferSize,
	})
	m.ports = Ports{Recorder: m.rec}
	return m
}

// Run starts the flush loop when a recorder exists, otherwise blocks
// until ctx ends so callers can treat both shapes the same
func (m *Module) Run(ctx context.Context) error {
	if m.rec == nil {
		<-ctx.Done()
		return ctx.Err()
	}
	return m.rec.Run(ctx)
}

// Name satisfies modkit.Module
func (m *Module) Name() string { return "insights" }

// Ports satisfies modkit.Module
func (m *Module) Ports() any { return m.ports }

// Prefix satisfies modkit.Module
func (m *Module) Prefix() string { return "" }

// MountRoutes satisfies modkit.Module
func (m *Module) MountRoutes(_ httpkit.Router) {}
