// @title         Tandem API
// @version       0.1.0
// @description   Mutual availability search, booking and conflict endpoints

package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"tandem/internal/migrate"
	"tandem/internal/modkit/repokit"
	"tandem/internal/platform/config"
	"tandem/internal/platform/logger"
	phttp "tandem/internal/platform/net/http"
	"tandem/internal/platform/store"

	"tandem/internal/services/api"
)

func main() {
	var (
		fAddr    = flag.String("addr", "", "listen address (overrides CORE_API_PORT)")
		fMigrate = flag.Bool("migrate", false, "apply pending schema migrations before serving")
	)
	flag.Parse()

	// Export the flag as env so the server reads it via config
	if *fAddr != "" {
		_ = os.Setenv("CORE_API_PORT", *fAddr)
	}

	// service-scoped config for HTTP etc (CORE_API_*)
	root := config.New()
	apiCfg := root.Prefix("CORE_API_")

	pgCfg := root.Prefix("SERVICE_PGSQL_")      // pgCfg lives under SERVICE_PGSQL_*
	chCfg := root.Prefix("SERVICE_CLICKHOUSE_") // chCfg lives under SERVICE_CLICKHOUSE_*

	// bring up logging early
	l := logger.Get()

	// clickhouse backs the optional insights sink; no DBURL leaves it off
	chURL := chCfg.MayString("DBURL", "")

	st, err := store.Open(
		context.Background(),
		store.Config{
			AppName: "tandem-api",
			PG: store.PGConfig{
				Enabled:     true,
				URL:         pgCfg.MustString("DBURL"),
				MaxConns:    int32(pgCfg.MayInt("MAX_CONNS", 4)),
				SlowQueryMs: pgCfg.MayInt("SLOW_MS", 500),
				LogSQL:      pgCfg.MayBool("LOG_SQL", true),
			},
			CH: store.CHConfig{
				Enabled: chURL != "",
				URL:     chURL,
				Role:    "api",
			},
		},
		store.WithLogger(*logger.Get()),
	)
	if err != nil {
		l.Panic().Err(err).Msg("store.Open failed")
	}
	defer func() {
		if err := st.Close(context.Background()); err != nil {
			l.Error().Err(err).Msg("failed to close store")
		}
	}()

	// all configured seams must answer before routes mount
	repokit.MustGuard(context.Background(), st)

	if *fMigrate {
		if err := migrate.Up(context.Background(), st.PG); err != nil {
			l.Panic().Err(err).Msg("postgres migrations failed")
		}
		if err := migrate.UpClickhouse(context.Background(), st.CH); err != nil {
			l.Panic().Err(err).Msg("clickhouse migrations failed")
		}
	}

	// http server (reads CORE_API_PORT)
	srv := phttp.NewServer(apiCfg)

	// mount our API. Mount hands the insights module back so its flush
	// loop shares this process's lifetime
	insights := api.Mount(
		srv.Router(),
		api.Options{
			Config:         apiCfg,
			Store:          st,
			Logger:         l,
			EnableSwagger:  apiCfg.MayBool("SWAGGER", true),
			EnableProfiler: apiCfg.MayBool("PROFILER", true),
		},
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := insights.Run(ctx); err != nil && ctx.Err() == nil {
			l.Error().Err(err).Msg("insights flush loop stopped")
		}
	}()

	// drain in-flight requests before the store closes
	go func() {
		<-ctx.Done()
		shutCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutCtx); err != nil {
			l.Error().Err(err).Msg("http shutdown failed")
		}
	}()

	// run
	if err := srv.Run(ctx); err != nil {
		l.Panic().Err(err).Msg("http server stopped")
	}
}
