// ABOUTME: Conversions between server wire types and local models.
// ABOUTME: Keeps local coordinates when the server omits them.
package sync

import (
	"time"

	"github.com/alexng353/uplifting/internal/api"
	"github.com/alexng353/uplifting/internal/models"
)

// gymFromAPI converts a server gym, taking missing coordinates from fallback.
func gymFromAPI(g api.Gym, fallback *models.Gym, now time.Time) models.Gym {
	out := models.Gym{
		ID:        g.ID,
		Name:      g.Name,
		Latitude:  g.Latitude,
		Longitude: g.Longitude,
		CreatedAt: g.CreatedAt.Time,
	}
	if fallback != nil && !out.HasLocation() && fallback.HasLocation() {
		out.Latitude = fallback.Latitude
		out.Longitude = fallback.Longitude
	}
	if out.CreatedAt.IsZero() {
		if fallback != nil && !fallback.CreatedAt.IsZero() {
			out.CreatedAt = fallback.CreatedAt
		} else {
			out.CreatedAt = now.UTC()
		}
	}
	return out
}

// gymsFromAPI converts a server list, matching local gyms by ID for fallbacks.
func gymsFromAPI(server []api.Gym, local []models.Gym, now time.Time) []models.Gym {
	out := make([]models.Gym, 0, len(server))
	for _, g := range server {
		var fallback *models.Gym
		if lg, ok := models.FindGym(local, g.ID); ok {
			fallback = &lg
		}
		out = append(out, gymFromAPI(g, fallback, now))
	}
	return out
}
