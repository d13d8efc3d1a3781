// internal/app/bootstrap/config.go
package bootstrap

import (
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/dalemusser/waffle/config"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.uber.org/zap"
)

// hostedPreviewEnv is consulted when hosted_preview_host is not configured.
const hostedPreviewEnv = "CODESPACE_NAME"

// appConfigKeys defines the configuration keys for fittrack.
// These are loaded via WAFFLE's config system with support for:
//   - Config files: mongo_uri, local_base_url, etc.
//   - Environment variables: FITTRACK_MONGO_URI, FITTRACK_SEED_DEMO_DATA, etc.
//   - Command-line flags: --mongo_uri, --seed_demo_data, etc.
var appConfigKeys = []config.AppKey{
	{Name: "mongo_uri", Default: "mongodb://localhost:27017", Desc: "MongoDB connection URI"},
	{Name: "mongo_database", Default: "octofit_db", Desc: "MongoDB database name"},
	{Name: "mongo_max_pool_size", Default: 100, Desc: "MongoDB max connection pool size (default: 100)"},
	{Name: "mongo_min_pool_size", Default: 5, Desc: "MongoDB min connection pool size (default: 5)"},

	// API directory base URL
	{Name: "local_base_url", Default: "http://localhost:8000", Desc: "Base URL advertised by /api/ outside a hosted preview"},
	{Name: "hosted_preview_host", Default: "", Desc: "Hosted preview name; overrides local_base_url (falls back to $CODESPACE_NAME)"},
	{Name: "hosted_preview_port", Default: 8000, Desc: "Port embedded in the hosted preview URL"},
	{Name: "hosted_preview_domain", Default: "app.github.dev", Desc: "Domain of the hosted preview URL"},

	// Demo data
	{Name: "seed_demo_data", Default: false, Desc: "Load the demo teams, users and activities at startup"},
	{Name: "seed_reset", Default: true, Desc: "Delete existing records before seeding"},

	// Store request bounds
	{Name: "timeout_short", Default: "5s", Desc: "Timeout for single-record reads"},
	{Name: "timeout_medium", Default: "10s", Desc: "Timeout for lists and single-collection writes"},
	{Name: "timeout_long", Default: "30s", Desc: "Timeout for cascading deletes and seeding"},

	{Name: "metrics_enabled", Default: true, Desc: "Expose Prometheus metrics at /metrics"},
}

// LoadConfig loads WAFFLE core config and app-specific config.
//
// WAFFLE's config.LoadWithAppConfig handles:
//   - Loading from .env files
//   - Loading from config.yaml/json/toml files
//   - Reading environment variables (WAFFLE_* for core, FITTRACK_* for app)
//   - Parsing command-line flags
//   - Merging with precedence: flags > env > files > defaults
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, appValues, err := config.LoadWithAppConfig(logger, "FITTRACK", appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}

	appCfg := AppConfig{
		MongoURI:         appValues.String("mongo_uri"),
		MongoDatabase:    appValues.String("mongo_database"),
		MongoMaxPoolSize: uint64(appValues.Int("mongo_max_pool_size")),
		MongoMinPoolSize: uint64(appValues.Int("mongo_min_pool_size")),

		LocalBaseURL:        appValues.String("local_base_url"),
		HostedPreviewHost:   appValues.String("hosted_preview_host"),
		HostedPreviewPort:   appValues.Int("hosted_preview_port"),
		HostedPreviewDomain: appValues.String("hosted_preview_domain"),

		SeedDemoData: appValues.Bool("seed_demo_data"),
		SeedReset:    appValues.Bool("seed_reset"),

		TimeoutShort:  appValues.Duration("timeout_short", 5*time.Second),
		TimeoutMedium: appValues.Duration("timeout_medium", 10*time.Second),
		TimeoutLong:   appValues.Duration("timeout_long", 30*time.Second),

		MetricsEnabled: appValues.Bool("metrics_enabled"),
	}

	if appCfg.HostedPreviewHost == "" {
		appCfg.HostedPreviewHost = strings.TrimSpace(os.Getenv(hostedPreviewEnv))
		if appCfg.HostedPreviewHost != "" {
			logger.Info("hosted preview detected",
				zap.String("env", hostedPreviewEnv),
				zap.String("host", appCfg.HostedPreviewHost))
		}
	}

	return coreCfg, appCfg, nil
}

// ValidateConfig performs app-specific config validation.
//
// fittrack validates the MongoDB URI format to catch configuration errors
// early, before attempting to connect, and checks the inputs of the API
// directory base URL.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	if err := wafflemongo.ValidateURI(appCfg.MongoURI); err != nil {
		logger.Error("invalid MongoDB URI", zap.Error(err))
		return fmt.Errorf("invalid MongoDB URI: %w", err)
	}
	return validateAppConfig(appCfg)
}

func validateAppConfig(appCfg AppConfig) error {
	if strings.TrimSpace(appCfg.MongoDatabase) == "" {
		return fmt.Errorf("mongo_database must not be empty")
	}
	if appCfg.MongoMinPoolSize > appCfg.MongoMaxPoolSize {
		return fmt.Errorf("mongo_min_pool_size (%d) exceeds mongo_max_pool_size (%d)",
			appCfg.MongoMinPoolSize, appCfg.MongoMaxPoolSize)
	}

	u, err := url.Parse(appCfg.LocalBaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("local_base_url must be an absolute URL, got %q", appCfg.LocalBaseURL)
	}
	if appCfg.HostedPreviewPort <= 0 || appCfg.HostedPreviewPort > 65535 {
		return fmt.Errorf("hosted_preview_port must be between 1 and 65535, got %d", appCfg.HostedPreviewPort)
	}
	if appCfg.HostedPreviewHost != "" && strings.TrimSpace(appCfg.HostedPreviewDomain) == "" {
		return fmt.Errorf("hosted_preview_domain is required when a hosted preview host is set")
	}
	return nil
}
