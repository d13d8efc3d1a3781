// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"

	"github.com/dalemusser/fittrack/internal/app/store/entities"
	"github.com/dalemusser/fittrack/internal/app/system/seed"
	"github.com/dalemusser/fittrack/internal/app/system/timeouts"
	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

// Startup runs one-time application initialization after DB connections and
// schema setup are complete, but before the HTTP handler is built: it
// applies the configured store timeouts and, when enabled, loads the demo
// dataset.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	timeouts.Configure(appCfg.Timeouts())
	cur := timeouts.Current()
	logger.Info("store timeouts",
		zap.Duration("short", cur.Short),
		zap.Duration("medium", cur.Medium),
		zap.Duration("long", cur.Long))

	if !appCfg.SeedDemoData {
		return nil
	}
	return seedDemo(ctx, entities.New(deps.MongoDatabase, logger), appCfg.SeedReset, logger)
}

func seedDemo(ctx context.Context, store *entities.Store, reset bool, logger *zap.Logger) error {
	data, err := seed.Demo()
	if err != nil {
		return err
	}
	ctx, cancel := timeouts.WithTimeout(ctx, timeouts.Long(), logger, "seed demo data")
	defer cancel()

	if _, err := seed.Run(ctx, store, data, seed.Options{Reset: reset}, logger); err != nil {
		logger.Error("seeding demo data failed", zap.Error(err))
		return err
	}
	return nil
}
