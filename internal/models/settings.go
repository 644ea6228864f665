// ABOUTME: User settings and stored workout shapes persisted by the local store.
// ABOUTME: Includes display-only weight conversion between kg and lbs.
package models

import (
	"math"
	"time"
)

// Settings holds user preferences.
type Settings struct {
	DisplayUnit               *string `json:"displayUnit" yaml:"display_unit"`
	MaxWorkoutDurationMinutes int     `json:"maxWorkoutDurationMinutes" yaml:"max_workout_duration_minutes"`
	DefaultRestTimerSeconds   int     `json:"defaultRestTimerSeconds" yaml:"default_rest_timer_seconds"`
	DefaultPrivacy            string  `json:"defaultPrivacy" yaml:"default_privacy"`
	ShareGymLocation          bool    `json:"shareGymLocation" yaml:"share_gym_location"`
	ShareOnlineStatus         bool    `json:"shareOnlineStatus" yaml:"share_online_status"`
	ShareWorkoutStatus        bool    `json:"shareWorkoutStatus" yaml:"share_workout_status"`
	ShareWorkoutHistory       bool    `json:"shareWorkoutHistory" yaml:"share_workout_history"`
	CurrentGymID              *string `json:"currentGymId" yaml:"current_gym_id"`
}

// DefaultSettings returns the settings used when none are stored.
func DefaultSettings() Settings {
	return Settings{
		MaxWorkoutDurationMinutes: 120,
		DefaultRestTimerSeconds:   90,
		DefaultPrivacy:            "friends",
		ShareGymLocation:          true,
		ShareOnlineStatus:         true,
		ShareWorkoutStatus:        true,
		ShareWorkoutHistory:       true,
	}
}

// WorkoutKind distinguishes training days from rest days.
type WorkoutKind string

const (
	WorkoutKindWorkout WorkoutKind = "workout"
	WorkoutKindRest    WorkoutKind = "rest"
)

// StoredWorkout is an in-progress or pending workout.
type StoredWorkout struct {
	ID          string                  `json:"id"`
	StartTime   time.Time               `json:"startTime"`
	Exercises   []StoredWorkoutExercise `json:"exercises"`
	Name        string                  `json:"name,omitempty"`
	Privacy     string                  `json:"privacy"`
	GymLocation string                  `json:"gymLocation,omitempty"`
	Kind        WorkoutKind             `json:"kind"`
}

// StoredWorkoutExercise is one exercise inside a stored workout.
type StoredWorkoutExercise struct {
	ExerciseID   string `json:"exerciseId"`
	ProfileID    string `json:"profileId,omitempty"`
	ExerciseName string `json:"exerciseName"`
	Sets         []Set  `json:"sets"`
	IsUnilateral bool   `json:"isUnilateral,omitempty"`
}

// WorkoutLastSlide remembers where the user left a workout.
type WorkoutLastSlide struct {
	WorkoutID  string `json:"workoutId"`
	SlideIndex int    `json:"slideIndex"`
}

// Exercise is a cached exercise definition.
type Exercise struct {
	ID               string   `json:"id"`
	Name             string   `json:"name"`
	ExerciseType     string   `json:"exerciseType"`
	Official         bool     `json:"official"`
	PrimaryMuscles   []string `json:"primaryMuscles"`
	SecondaryMuscles []string `json:"secondaryMuscles"`
}

const kgPerLb = 2.20462

// ConvertWeight converts between "kg" and "lbs", rounded to one decimal.
// Unknown units are returned unchanged.
func ConvertWeight(weight float64, fromUnit, toUnit string) float64 {
	if fromUnit == toUnit {
		return weight
	}
	switch {
	case fromUnit == "kg" && toUnit == "lbs":
		return math.Round(weight*kgPerLb*10) / 10
	case fromUnit == "lbs" && toUnit == "kg":
		return math.Round(weight/kgPerLb*10) / 10
	}
	return weight
}
