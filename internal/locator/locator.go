// Package locator finds repair workshops near a free-text location.
package locator

import (
	"context"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/motocare/motocare/internal/config"
)

// Workshop is a single search hit.
type Workshop struct {
	Name    string  `json:"name"`
	Address string  `json:"address"`
	Rating  float64 `json:"rating"`
}

// Searcher finds workshops near a location. The radius is in meters.
type Searcher interface {
	Search(ctx context.Context, location string, radius int) ([]Workshop, error)
}

// SimulatedClient serves a fixed result set. It stands in for a real
// places API until an API key pipeline exists, but still resolves the
// query to coordinates the way the real client would.
type SimulatedClient struct {
	cfg *config.LocatorConfig
}

func NewSimulatedClient(cfg *config.LocatorConfig) *SimulatedClient {
	return &SimulatedClient{cfg: cfg}
}

func (c *SimulatedClient) Search(ctx context.Context, location string, radius int) ([]Workshop, error) {
	if radius <= 0 {
		radius = c.cfg.DefaultRadius
	}

	lat, lng := resolveLocation(location)
	log.Debug("Simulated workshop search", "location", location, "lat", lat, "lng", lng, "radius", radius)

	return []Workshop{
		{Name: "Bengkel Ahli Motor (Simulasi)", Address: "Jl. Merdeka No. 12, Jakarta", Rating: 4.5},
		{Name: "Service Cepat Jaya (Simulasi)", Address: "Jl. Sudirman Kav. 5, Jakarta", Rating: 4.1},
		{Name: "Ganti Oli 24 Jam (Simulasi)", Address: "Jl. MH Thamrin, Jakarta", Rating: 4.7},
	}, nil
}

func resolveLocation(location string) (lat, lng float64) {
	switch {
	case strings.Contains(strings.ToLower(location), "surabaya"):
		return -7.257472, 112.752090
	default:
		return -6.175110, 106.865036
	}
}
