// ABOUTME: Composite key helpers for previous-set history and gym profile mappings.
// ABOUTME: Keys match the server format: {exercise_id}_{profile_id|default}.
package models

import "strings"

const (
	// KeySeparator joins the two halves of a composite key.
	KeySeparator = "_"

	// DefaultProfile stands in for a missing profile ID in previous-set keys.
	DefaultProfile = "default"
)

// PreviousSetsKey builds the history key for an exercise and optional profile.
func PreviousSetsKey(exerciseID, profileID string) string {
	if profileID == "" {
		profileID = DefaultProfile
	}
	return exerciseID + KeySeparator + profileID
}

// GymProfileKey builds the mapping key for an exercise at a gym.
func GymProfileKey(exerciseID, gymID string) string {
	return exerciseID + KeySeparator + gymID
}

// ExercisePrefix returns the prefix shared by every key of an exercise.
func ExercisePrefix(exerciseID string) string {
	return exerciseID + KeySeparator
}

// GymProfileMap records the last profile used for an exercise at a gym.
// Keys come from GymProfileKey; last write wins.
type GymProfileMap map[string]string

// Lookup returns the profile recorded for exercise at gym, or "".
func (m GymProfileMap) Lookup(exerciseID, gymID string) string {
	if m == nil || exerciseID == "" || gymID == "" {
		return ""
	}
	return m[GymProfileKey(exerciseID, gymID)]
}

// Put records profileID for exercise at gym.
func (m GymProfileMap) Put(exerciseID, gymID, profileID string) {
	m[GymProfileKey(exerciseID, gymID)] = profileID
}

// RekeyGym moves every entry for oldGymID onto newGymID.
// Returns the number of moved entries.
func (m GymProfileMap) RekeyGym(oldGymID, newGymID string) int {
	suffix := KeySeparator + oldGymID
	moved := 0
	for key, profileID := range m {
		if !strings.HasSuffix(key, suffix) {
			continue
		}
		exerciseID := strings.TrimSuffix(key, suffix)
		delete(m, key)
		m[GymProfileKey(exerciseID, newGymID)] = profileID
		moved++
	}
	return moved
}

// Clone returns a copy of the map that is safe to mutate.
func (m GymProfileMap) Clone() GymProfileMap {
	out := make(GymProfileMap, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
