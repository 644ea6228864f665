// ABOUTME: Wire types for the remote gym and sync API.
// ABOUTME: Decodes server decimals and naive timestamps leniently.
package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Decimal is a server decimal that may arrive as a JSON string or number.
type Decimal float64

// UnmarshalJSON implements json.Unmarshaler.
func (d *Decimal) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*d = 0
		return nil
	}

	raw := string(data)
	if strings.HasPrefix(raw, `"`) {
		unquoted, err := strconv.Unquote(raw)
		if err != nil {
			return fmt.Errorf("decimal: %w", err)
		}
		raw = strings.TrimSpace(unquoted)
	}

	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return fmt.Errorf("decimal %q: %w", raw, err)
	}
	*d = Decimal(f)
	return nil
}

// Float64 returns the decimal as a float64.
func (d Decimal) Float64() float64 {
	return float64(d)
}

// naiveLayout is the server's timestamp format when no zone is attached.
const naiveLayout = "2006-01-02T15:04:05.999999999"

// Time is a server timestamp. Naive timestamps are read as UTC.
type Time struct {
	time.Time
}

// ParseTime parses an RFC 3339 or naive server timestamp.
func ParseTime(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t.UTC(), nil
	}
	t, err := time.ParseInLocation(naiveLayout, s, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("timestamp %q: %w", s, err)
	}
	return t, nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (t *Time) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		t.Time = time.Time{}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("timestamp: %w", err)
	}
	parsed, err := ParseTime(s)
	if err != nil {
		return err
	}
	t.Time = parsed
	return nil
}

// MarshalJSON implements json.Marshaler.
func (t Time) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.UTC().Format(time.RFC3339Nano))
}

// Gym is a gym as returned by the server.
type Gym struct {
	ID        string   `json:"id"`
	UserID    string   `json:"user_id,omitempty"`
	Name      string   `json:"name"`
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
	CreatedAt Time     `json:"created_at"`
}

// CreateGymRequest is the body of CreateGym.
type CreateGymRequest struct {
	Name      string   `json:"name"`
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
}

// UpdateGymRequest is the body of UpdateGym.
type UpdateGymRequest struct {
	Name string `json:"name"`
}

// ProfileMapping is the profile last used for an exercise at one gym.
type ProfileMapping struct {
	ExerciseID string `json:"exercise_id"`
	ProfileID  string `json:"profile_id"`
}

// Profile is an exercise profile as returned by the server.
type Profile struct {
	ID         string `json:"id"`
	UserID     string `json:"user_id,omitempty"`
	ExerciseID string `json:"exercise_id"`
	Name       string `json:"name"`
}

// BootstrapMapping is a gym profile mapping in the bootstrap snapshot.
type BootstrapMapping struct {
	GymID      string `json:"gym_id"`
	ExerciseID string `json:"exercise_id"`
	ProfileID  string `json:"profile_id"`
}

// BootstrapSet is one historical set in the bootstrap snapshot.
type BootstrapSet struct {
	Reps       int     `json:"reps"`
	Weight     Decimal `json:"weight"`
	WeightUnit string  `json:"weight_unit"`
	Side       *string `json:"side,omitempty"`
}

// Bootstrap is the full snapshot used to seed the local store.
type Bootstrap struct {
	Gyms               []Gym                     `json:"gyms"`
	Profiles           []Profile                 `json:"profiles"`
	GymProfileMappings []BootstrapMapping        `json:"gym_profile_mappings"`
	PreviousSets       map[string][]BootstrapSet `json:"previous_sets"`
}

// Settings holds the server-side user settings this client reads.
type Settings struct {
	CurrentGymID *string `json:"current_gym_id"`
}
