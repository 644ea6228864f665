// ABOUTME: Rep and weight suggestions from previous-set history.
// ABOUTME: Pure functions with a deterministic lookup and fallback order.
package suggest

import (
	"sort"
	"strings"

	"github.com/alexng353/uplifting/internal/models"
)

// Defaults used when no history applies.
const (
	DefaultReps   = 10
	DefaultWeight = 20.0
)

// Suggestion is the proposed reps and weight for a set.
type Suggestion struct {
	Reps       int     `json:"reps"`
	Weight     float64 `json:"weight"`
	WeightUnit *string `json:"weightUnit"`
}

// Default returns the suggestion used when there is no usable history.
func Default() Suggestion {
	return Suggestion{Reps: DefaultReps, Weight: DefaultWeight}
}

// Suggest proposes reps and weight for setNumber (1-based) of an exercise.
//
// History for the exact exercise and profile is preferred. Failing that, the
// first other profile of the same exercise with history is used, in key order.
func Suggest(history models.PreviousSets, exerciseID, profileID string, setNumber int, side models.Side) Suggestion {
	if setNumber < 1 {
		return Default()
	}

	candidates := candidateSets(history, exerciseID, profileID)
	if len(candidates) == 0 {
		return Default()
	}

	filtered := filterBySide(candidates, side)
	if len(filtered) == 0 {
		return Default()
	}

	idx := setNumber - 1
	if idx > len(filtered)-1 {
		idx = len(filtered) - 1
	}
	return fromSet(filtered[idx])
}

// candidateSets returns the exact history, else the first non-empty sibling.
func candidateSets(history models.PreviousSets, exerciseID, profileID string) []models.Set {
	exact := models.PreviousSetsKey(exerciseID, profileID)
	if sets := history[exact]; len(sets) > 0 {
		return sets
	}

	prefix := models.ExercisePrefix(exerciseID)
	keys := make([]string, 0, len(history))
	for key := range history {
		if key != exact && strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)

	for _, key := range keys {
		if sets := history[key]; len(sets) > 0 {
			return sets
		}
	}
	return nil
}

// filterBySide narrows sets to the requested side.
// Unilateral lookups fall back to all sets. Bilateral lookups fall back to
// right-side sets, then to all sets.
func filterBySide(sets []models.Set, side models.Side) []models.Set {
	if side != models.SideNone {
		if matched := withSide(sets, side); len(matched) > 0 {
			return matched
		}
		return sets
	}

	if untagged := withSide(sets, models.SideNone); len(untagged) > 0 {
		return untagged
	}
	if right := withSide(sets, models.SideRight); len(right) > 0 {
		return right
	}
	return sets
}

func withSide(sets []models.Set, side models.Side) []models.Set {
	var out []models.Set
	for _, s := range sets {
		if s.Side == side {
			out = append(out, s)
		}
	}
	return out
}

func fromSet(s models.Set) Suggestion {
	out := Default()
	if s.Reps != nil {
		out.Reps = *s.Reps
	}
	if s.Weight != nil {
		out.Weight = *s.Weight
	}
	if s.WeightUnit != "" {
		unit := s.WeightUnit
		out.WeightUnit = &unit
	}
	return out
}
