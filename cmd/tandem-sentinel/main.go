package main

import (
	"context"
	"flag"
	"os/signal"
	"syscall"
	"time"

	"tandem/internal/modkit"
	"tandem/internal/modkit/module"
	"tandem/internal/modkit/repokit"
	"tandem/internal/platform/config"
	"tandem/internal/platform/logger"
	"tandem/internal/platform/store"

	availdom "tandem/internal/services/availability/domain"
	availmod "tandem/internal/services/availability/module"
	confdom "tandem/internal/services/conflict/domain"
	confmod "tandem/internal/services/conflict/module"
	prefmod "tandem/internal/services/preferences/module"
	relmod "tandem/internal/services/relationship/module"
)

func main() {
	root := config.New()
	dbCfg := root.Prefix("SERVICE_PGSQL_")

	l := logger.Get()

	st, err := store.Open(context.Background(), store.Config{
		AppName: "tandem-sentinel",
		PG: store.PGConfig{
			Enabled:     true,
			URL:         dbCfg.MustString("DBURL"),
			MaxConns:    int32(dbCfg.MayInt("MAX_CONNS", 4)),
			SlowQueryMs: dbCfg.MayInt("SLOW_MS", 500),
			LogSQL:      dbCfg.MayBool("LOG_SQL", false),
		},
	}, store.WithLogger(*l))
	if err != nil {
		l.Panic().Err(err).Msg("store.Open failed")
	}
	defer func() {
		if err := st.Close(context.Background()); err != nil {
			l.Error().Err(err).Msg("failed to close store")
		}
	}()

	repokit.MustGuard(context.Background(), st)

	// Flags
	var (
		fMode    = flag.String("mode", "worker", "sentinel mode: worker | sweep")
		fEvery   = flag.Duration("every", 10*time.Minute, "sweep cadence in worker mode")
		fHorizon = flag.Duration("horizon", 0, "sweep window (0 = module default)")
	)
	flag.Parse()

	// Shared deps
	deps := modkit.Deps{
		Cfg: root,
		PG:  st.PG,
		Log: *l,
	}

	// Same wiring as the API process minus the HTTP surface. The
	// sentinel never serves searches so the insights sink stays off
	relationship := relmod.New(deps)
	relPorts := module.MustPortsOf[relmod.Ports](relationship)

	preferences := prefmod.New(deps)
	prefsPort := module.MustPortsOf[prefmod.Ports](preferences).Prefs

	availability := availmod.New(deps, availmod.Options{},
		modkit.WithPorts(availdom.Ports{
			Resolver: relPorts.Resolver,
			Prefs:    prefsPort,
		}),
	)
	availPorts := module.MustPortsOf[availmod.Ports](availability)

	conflict := confmod.New(deps, confmod.Options{Horizon: *fHorizon},
		modkit.WithPorts(confdom.Ports{
			Resolver: relPorts.Resolver,
			Oracle:   availPorts.Oracle,
		}),
	)

	for _, m := range []module.Module{relationship, preferences, availability, conflict} {
		module.Register(m.Name(), m.Ports())
	}

	sweeper := module.MustPortsOf[confmod.Ports](conflict).Sweeper

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	switch *fMode {
	case "worker":
		// Re-check booked events on a cadence until signalled
		ticker := time.NewTicker(*fEvery)
		defer ticker.Stop()
		l.Info().Dur("every", *fEvery).Msg("sentinel sweeping")

		for {
			sweepOnce(ctx, l, sweeper, *fHorizon)
			select {
			case <-ctx.Done():
				l.Info().Msg("sentinel stopping")
				return
			case <-ticker.C:
			}
		}

	case "sweep":
		// One pass over the horizon, then exit
		report, err := sweeper.Sweep(ctx, *fHorizon)
		if err != nil {
			l.Fatal().Err(err).Msg("sweep failed")
		}
		l.Info().
			Int("events", report.Events).
			Int("flagged", report.Flagged).
			Int("transitions", len(report.Transitions)).
			Msg("sweep complete")

	default:
		l.Panic().Str("mode", *fMode).Msg("sentinel unknown -mode (expected: worker | sweep)")
	}
}

func sweepOnce(ctx context.Context, l *logger.Logger, sweeper confdom.SweeperPort, horizon time.Duration) {
	report, err := sweeper.Sweep(ctx, horizon)
	if err != nil {
		if ctx.Err() == nil {
			l.Error().Err(err).Msg("sweep failed")
		}
		return
	}
	l.Info().
		Time("at", report.At).
		Int("events", report.Events).
		Int("flagged", report.Flagged).
		Int("transitions", len(report.Transitions)).
		Msg("sweep complete")
}
