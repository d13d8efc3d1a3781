// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"

	activitiesfeature "github.com/dalemusser/fittrack/internal/app/features/activities"
	apirootfeature "github.com/dalemusser/fittrack/internal/app/features/apiroot"
	healthfeature "github.com/dalemusser/fittrack/internal/app/features/health"
	leaderboardfeature "github.com/dalemusser/fittrack/internal/app/features/leaderboard"
	teamsfeature "github.com/dalemusser/fittrack/internal/app/features/teams"
	usersfeature "github.com/dalemusser/fittrack/internal/app/features/users"
	workoutsfeature "github.com/dalemusser/fittrack/internal/app/features/workouts"
	"github.com/dalemusser/fittrack/internal/app/store/entities"
	"github.com/dalemusser/fittrack/internal/app/system/metrics"
	"github.com/dalemusser/fittrack/internal/app/system/reqlog"
	"github.com/dalemusser/fittrack/internal/app/system/restapi"
	"github.com/dalemusser/waffle/config"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup, and
// any Startup hooks have completed.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	return newRouter(appCfg, deps, logger)
}

// newRegistry lists the resources served under /api/, in directory order.
func newRegistry(store *entities.Store, logger *zap.Logger) (*restapi.Registry, error) {
	return restapi.NewRegistry(
		teamsfeature.New(store, logger),
		usersfeature.New(store, logger),
		activitiesfeature.New(store, logger),
		leaderboardfeature.New(store, logger),
		workoutsfeature.New(store, logger),
	)
}

func newRouter(appCfg AppConfig, deps DBDeps, logger *zap.Logger) (chi.Router, error) {
	store := entities.New(deps.MongoDatabase, logger)
	reg, err := newRegistry(store, logger)
	if err != nil {
		logger.Error("resource registry init failed", zap.Error(err))
		return nil, err
	}
	dir := apirootfeature.NewHandler(reg, appCfg.Location(), logger)

	r := chi.NewRouter()
	r.Use(reqlog.Middleware(logger))

	// Health check endpoint for load balancers and orchestrators
	healthHandler := healthfeature.NewHandler(deps.MongoClient, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	if appCfg.MetricsEnabled {
		r.Handle("/metrics", metrics.Handler())
	}

	// The directory is served at the site root as well as /api/.
	r.Get("/", dir.Serve)
	r.Route("/api", func(api chi.Router) {
		api.Get("/", dir.Serve)
		reg.Mount(api)
	})

	logger.Info("routes built", zap.Strings("resources", reg.Names()))
	return r, nil
}
