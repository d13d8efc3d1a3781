// internal/app/bootstrap/appconfig.go
package bootstrap

import (
	"time"

	"github.com/dalemusser/fittrack/internal/app/features/apiroot"
	"github.com/dalemusser/fittrack/internal/app/system/timeouts"
)

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// These values come from environment variables, configuration files, or
// command-line flags (loaded in LoadConfig). WAFFLE's CoreConfig covers the
// framework-level settings (ports, TLS, logging, CORS, body limits).
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI         string // MongoDB connection string (e.g., mongodb://localhost:27017)
	MongoDatabase    string // Database name within MongoDB
	MongoMaxPoolSize uint64
	MongoMinPoolSize uint64

	// API directory base URL
	LocalBaseURL        string // advertised when no hosted preview is detected
	HostedPreviewHost   string // e.g. the Codespace name; empty when running locally
	HostedPreviewPort   int
	HostedPreviewDomain string

	// Demo data
	SeedDemoData bool
	SeedReset    bool

	// Store request bounds
	TimeoutShort  time.Duration
	TimeoutMedium time.Duration
	TimeoutLong   time.Duration

	MetricsEnabled bool
}

// Location is the input of the API directory's base URL.
func (c AppConfig) Location() apiroot.Location {
	return apiroot.Location{
		HostedHost:   c.HostedPreviewHost,
		HostedPort:   c.HostedPreviewPort,
		HostedDomain: c.HostedPreviewDomain,
		LocalBaseURL: c.LocalBaseURL,
	}
}

// Timeouts is the store request bounds as configured.
func (c AppConfig) Timeouts() timeouts.Config {
	return timeouts.Config{
		Short:  c.TimeoutShort,
		Medium: c.TimeoutMedium,
		Long:   c.TimeoutLong,
	}
}
