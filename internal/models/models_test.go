// ABOUTME: Tests for gym, key, set and settings models.
// ABOUTME: Validates constructors, composite keys and weight conversion.
package models

import (
	"testing"
)

func TestNewGym(t *testing.T) {
	g := NewGym("Iron Temple")

	if g.ID == "" {
		t.Error("expected placeholder ID to be set")
	}
	if g.Name != "Iron Temple" {
		t.Errorf("Name = %s, want Iron Temple", g.Name)
	}
	if g.CreatedAt.IsZero() {
		t.Error("expected CreatedAt to be set")
	}
	if g.HasLocation() {
		t.Error("expected new gym to have no location")
	}
}

func TestGymWithLocation(t *testing.T) {
	g := NewGym("Iron Temple").WithLocation(52.52, 13.405)

	if !g.HasLocation() {
		t.Fatal("expected location to be set")
	}
	if *g.Latitude != 52.52 || *g.Longitude != 13.405 {
		t.Errorf("location = %v,%v, want 52.52,13.405", *g.Latitude, *g.Longitude)
	}
}

func TestFindGym(t *testing.T) {
	gyms := []Gym{{ID: "a", Name: "A"}, {ID: "b", Name: "B"}}

	g, ok := FindGym(gyms, "b")
	if !ok || g.Name != "B" {
		t.Errorf("FindGym(b) = %v, %v", g, ok)
	}
	if _, ok := FindGym(gyms, "c"); ok {
		t.Error("expected FindGym(c) to miss")
	}
}

func TestPreviousSetsKey(t *testing.T) {
	if got := PreviousSetsKey("ex1", "p1"); got != "ex1_p1" {
		t.Errorf("PreviousSetsKey = %s, want ex1_p1", got)
	}
	if got := PreviousSetsKey("ex1", ""); got != "ex1_default" {
		t.Errorf("PreviousSetsKey = %s, want ex1_default", got)
	}
}

func TestGymProfileMap(t *testing.T) {
	m := GymProfileMap{}
	m.Put("ex1", "gym1", "p1")
	m.Put("ex1", "gym1", "p2")

	if got := m.Lookup("ex1", "gym1"); got != "p2" {
		t.Errorf("Lookup = %s, want p2 (last write wins)", got)
	}
	if got := m.Lookup("ex1", ""); got != "" {
		t.Errorf("Lookup without gym = %s, want empty", got)
	}

	var nilMap GymProfileMap
	if got := nilMap.Lookup("ex1", "gym1"); got != "" {
		t.Errorf("nil Lookup = %s, want empty", got)
	}
}

func TestGymProfileMapRekeyGym(t *testing.T) {
	m := GymProfileMap{
		"ex1_local": "p1",
		"ex2_local": "p2",
		"ex3_other": "p3",
	}

	moved := m.RekeyGym("local", "server")
	if moved != 2 {
		t.Errorf("moved = %d, want 2", moved)
	}
	if m.Lookup("ex1", "server") != "p1" || m.Lookup("ex2", "server") != "p2" {
		t.Errorf("entries not moved: %v", m)
	}
	if m.Lookup("ex1", "local") != "" {
		t.Error("expected old key to be removed")
	}
	if m.Lookup("ex3", "other") != "p3" {
		t.Error("expected unrelated key to survive")
	}
}

func TestParseSide(t *testing.T) {
	for _, in := range []string{"", "L", "R"} {
		if _, err := ParseSide(in); err != nil {
			t.Errorf("ParseSide(%q) failed: %v", in, err)
		}
	}
	if _, err := ParseSide("X"); err == nil {
		t.Error("expected error for side X")
	}
}

func TestDefaultSettings(t *testing.T) {
	s := DefaultSettings()

	if s.MaxWorkoutDurationMinutes != 120 {
		t.Errorf("MaxWorkoutDurationMinutes = %d, want 120", s.MaxWorkoutDurationMinutes)
	}
	if s.DefaultRestTimerSeconds != 90 {
		t.Errorf("DefaultRestTimerSeconds = %d, want 90", s.DefaultRestTimerSeconds)
	}
	if s.CurrentGymID != nil || s.DisplayUnit != nil {
		t.Error("expected nil current gym and display unit")
	}
}

func TestConvertWeight(t *testing.T) {
	tests := []struct {
		weight   float64
		from, to string
		want     float64
	}{
		{100, "kg", "kg", 100},
		{100, "kg", "lbs", 220.5},
		{220.5, "lbs", "kg", 100},
		{20, "kg", "stone", 20},
	}
	for _, tt := range tests {
		if got := ConvertWeight(tt.weight, tt.from, tt.to); got != tt.want {
			t.Errorf("ConvertWeight(%v, %s, %s) = %v, want %v", tt.weight, tt.from, tt.to, got, tt.want)
		}
	}
}
