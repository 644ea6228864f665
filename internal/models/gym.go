// ABOUTME: Gym and Profile models for the local-first gym store.
// ABOUTME: Gyms are minted locally with placeholder IDs until the server confirms them.
package models

import (
	"time"

	"github.com/google/uuid"
)

// Gym is a place the user trains at. Coordinates are optional.
type Gym struct {
	ID        string    `json:"id" yaml:"id"`
	Name      string    `json:"name" yaml:"name"`
	Latitude  *float64  `json:"latitude,omitempty" yaml:"latitude,omitempty"`
	Longitude *float64  `json:"longitude,omitempty" yaml:"longitude,omitempty"`
	CreatedAt time.Time `json:"createdAt" yaml:"created_at"`
}

// NewGym creates a Gym with a locally minted placeholder ID.
func NewGym(name string) *Gym {
	return &Gym{
		ID:        uuid.NewString(),
		Name:      name,
		CreatedAt: time.Now().UTC(),
	}
}

// WithLocation sets the gym coordinates.
func (g *Gym) WithLocation(latitude, longitude float64) *Gym {
	g.Latitude = &latitude
	g.Longitude = &longitude
	return g
}

// HasLocation reports whether both coordinates are known.
func (g Gym) HasLocation() bool {
	return g.Latitude != nil && g.Longitude != nil
}

// FindGym returns the gym with the given ID.
func FindGym(gyms []Gym, id string) (Gym, bool) {
	for _, g := range gyms {
		if g.ID == id {
			return g, true
		}
	}
	return Gym{}, false
}

// Profile is a named variant of an exercise, e.g. "incline" vs "flat" bench.
type Profile struct {
	ID         string `json:"id" yaml:"id"`
	ExerciseID string `json:"exerciseId" yaml:"exercise_id"`
	Name       string `json:"name" yaml:"name"`
}
