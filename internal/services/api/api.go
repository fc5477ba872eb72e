// Package api provides the HTTP API for the application
package api

import (
	"tandem/internal/platform/config"
	"tandem/internal/platform/logger"
	phttp "tandem/internal/platform/net/http"
	"tandem/internal/platform/store"

	"tandem/internal/modkit"
	"tandem/internal/modkit/httpkit"
	"tandem/internal/modkit/module"
	"tandem/internal/modkit/swaggerkit"

	apiavail "tandem/internal/services/api/availability/module"
	apiconf "tandem/internal/services/api/conflicts/module"
	apievents "tandem/internal/services/api/events/module"
	metamod "tandem/internal/services/api/meta/module"
	apiparties "tandem/internal/services/api/parties/module"
	apiprefs "tandem/internal/services/api/preferences/module"

	// Worker modules owning the ports the API modules delegate to
	availdom "tandem/internal/services/availability/domain"
	availmod "tandem/internal/services/availability/module"
	confdom "tandem/internal/services/conflict/domain"
	confmod "tandem/internal/services/conflict/module"
	evdom "tandem/internal/services/events/domain"
	evmod "tandem/internal/services/events/module"
	insightsmod "tandem/internal/services/insights/module"
	prefmod "tandem/internal/services/preferences/module"
	relmod "tandem/internal/services/relationship/module"
)

// Options are the API options
type Options struct {
	Config         config.Conf
	Store          *store.Store
	Logger         *logger.Logger
	EnableSwagger  bool
	EnableProfiler bool
}

// Mount mounts the API service onto the given router and returns the
// insights module so main can drive its flush loop
func Mount(r phttp.Router, opt Options) *insightsmod.Module {
	// shared deps for modules
	deps := modkit.Deps{
		Cfg: opt.Config,
		PG:  opt.Store.PG,
		CH:  opt.Store.CH,
	}

	// Worker modules first, ports flow left to right: relationship and
	// preferences feed the engine, the engine's oracle and credential
	// store feed events and conflict
	relationship := relmod.New(deps)
	relPorts := module.MustPortsOf[relmod.Ports](relationship)
	resolver := relPorts.Resolver

	preferences := prefmod.New(deps)
	prefsPort := module.MustPortsOf[prefmod.Ports](preferences).Prefs

	insights := insightsmod.New(deps, insightsmod.Options{})
	recorder := module.MustPortsOf[insightsmod.Ports](insights).Recorder

	availability := availmod.New(deps, availmod.Options{},
		modkit.WithPorts(availdom.Ports{
			Resolver: resolver,
			Prefs:    prefsPort,
			Insights: recorder,
		}),
	)
	availPorts := module.MustPortsOf[availmod.Ports](availability)

	events := evmod.New(deps, evmod.Options{},
		modkit.WithPorts(evdom.Ports{
			Resolver: resolver,
			Creds:    availPorts.Creds,
		}),
	)

	conflict := confmod.New(deps, confmod.Options{},
		modkit.WithPorts(confdom.Ports{
			Resolver: resolver,
			Oracle:   availPorts.Oracle,
		}),
	)

	// API modules wrap the worker ports with a wire surface
	mods := []module.Module{
		metamod.New(deps),
		relationship,
		preferences,
		insights,
		availability,
		events,
		conflict,
		apiparties.New(deps, modkit.WithPorts(apiparties.Ports{
			Linker:   relPorts.Linker,
			Resolver: resolver,
		})),
		apiavail.New(deps, modkit.WithPorts(apiavail.Ports{
			Search:  availPorts.Search,
			Suggest: availPorts.Suggest,
		})),
		apiprefs.New(deps, modkit.WithPorts(apiprefs.Ports{
			Prefs: prefsPort,
		})),
		apievents.New(deps, modkit.WithPorts(apievents.Ports{
			Booker: module.MustPortsOf[evmod.Ports](events).Booker,
		})),
		apiconf.New(deps, modkit.WithPorts(apiconf.Ports{
			Sweeper: module.MustPortsOf[confmod.Ports](conflict).Sweeper,
		})),
	}

	// versioned API with a common middleware stack
	httpkit.MountAPIV1(r, httpkit.CommonStack(), func(api httpkit.Router) {
		// Swagger + profiler
		swaggerkit.Mount(r, opt.EnableSwagger)
		phttp.MountProfiler(r, "/debug", opt.EnableProfiler)

		for _, m := range mods {
			// register each module's ports under its own name (for cross-module lookups)
			module.Register(m.Name(), m.Ports())

			// mount module routes under its Prefix()
			m.MountRoutes(api)
		}
	})

	return insights
}
