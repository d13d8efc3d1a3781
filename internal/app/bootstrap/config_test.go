package bootstrap

import (
	"testing"
	"time"

	"github.com/dalemusser/fittrack/internal/app/system/timeouts"
	"github.com/stretchr/testify/assert"
)

func validAppConfig() AppConfig {
	return AppConfig{
		MongoURI:            "mongodb://localhost:27017",
		MongoDatabase:       "octofit_db",
		MongoMaxPoolSize:    100,
		MongoMinPoolSize:    5,
		LocalBaseURL:        "http://localhost:8000",
		HostedPreviewPort:   8000,
		HostedPreviewDomain: "app.github.dev",
	}
}

func TestValidateAppConfig(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*AppConfig)
		wantErr bool
	}{
		{"defaults", func(*AppConfig) {}, false},
		{"relative base url", func(c *AppConfig) { c.LocalBaseURL = "localhost:8000/api" }, true},
		{"empty base url", func(c *AppConfig) { c.LocalBaseURL = "" }, true},
		{"zero port", func(c *AppConfig) { c.HostedPreviewPort = 0 }, true},
		{"pool inverted", func(c *AppConfig) { c.MongoMinPoolSize = 200 }, true},
		{"empty database", func(c *AppConfig) { c.MongoDatabase = " " }, true},
		{"hosted without domain", func(c *AppConfig) { c.HostedPreviewHost = "demo"; c.HostedPreviewDomain = "" }, true},
		{"hosted ok", func(c *AppConfig) { c.HostedPreviewHost = "demo" }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validAppConfig()
			tt.mutate(&cfg)
			err := validateAppConfig(cfg)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestAppConfig_Location(t *testing.T) {
	cfg := validAppConfig()
	cfg.HostedPreviewHost = "octo"
	loc := cfg.Location()
	assert.Equal(t, "octo", loc.HostedHost)
	assert.Equal(t, 8000, loc.HostedPort)
	assert.Equal(t, "app.github.dev", loc.HostedDomain)
	assert.Equal(t, "http://localhost:8000", loc.LocalBaseURL)
}

func TestAppConfig_Timeouts(t *testing.T) {
	cfg := validAppConfig()
	cfg.TimeoutShort = time.Second
	cfg.TimeoutLong = time.Minute

	got := cfg.Timeouts()
	assert.Equal(t, timeouts.Config{Short: time.Second, Long: time.Minute}, got)
}
