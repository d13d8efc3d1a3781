// Package apiroot serves the API directory: the base URL of this
// deployment and the absolute collection URL of every registered resource.
package apiroot

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/dalemusser/fittrack/internal/app/system/reqlog"
	"github.com/dalemusser/fittrack/internal/app/system/restapi"
	"go.uber.org/zap"
)

// Prefix is the path every resource collection lives under.
const Prefix = "/api/"

// Location describes where the service is reachable.
type Location struct {
	// HostedHost is the hosted preview environment name. When set it
	// overrides LocalBaseURL.
	HostedHost   string
	HostedPort   int
	HostedDomain string
	LocalBaseURL string
}

// BaseURL returns https://<host>-<port>.<domain> for a hosted preview, or
// the local base URL otherwise. It never ends in a slash.
func BaseURL(loc Location) string {
	host := strings.TrimSpace(loc.HostedHost)
	if host == "" {
		return strings.TrimRight(loc.LocalBaseURL, "/")
	}
	return fmt.Sprintf("https://%s-%d.%s", host, loc.HostedPort, strings.Trim(loc.HostedDomain, "."))
}

// Directory is the response body of GET /api/.
type Directory struct {
	BaseURL string            `json:"base_url"`
	Routes  map[string]string `json:"routes"`
}

// Build computes the directory for names under base.
func Build(base string, names []string) Directory {
	routes := make(map[string]string, len(names))
	for _, name := range names {
		routes[name] = base + Prefix + name + "/"
	}
	return Directory{BaseURL: base, Routes: routes}
}

// Handler serves the directory from the live registry.
type Handler struct {
	Registry *restapi.Registry
	Location Location
	Log      *zap.Logger
}

func NewHandler(reg *restapi.Registry, loc Location, logger *zap.Logger) *Handler {
	return &Handler{Registry: reg, Location: loc, Log: logger}
}

// Serve handles GET /api/ (and GET /).
func (h *Handler) Serve(w http.ResponseWriter, r *http.Request) {
	dir := Build(BaseURL(h.Location), h.Registry.Names())
	h.Log.Debug("api directory served",
		zap.String("base_url", dir.BaseURL),
		zap.Int("resources", len(dir.Routes)),
		zap.String("request_id", reqlog.ID(r.Context())))
	restapi.WriteJSON(w, http.StatusOK, dir)
}
