// ABOUTME: Set and PreviousSets models for historical lifting data.
// ABOUTME: PreviousSets are keyed by exercise and profile and never reordered.
package models

import (
	"fmt"
	"time"
)

// Side marks a set of a unilateral exercise.
type Side string

const (
	SideNone  Side = ""
	SideLeft  Side = "L"
	SideRight Side = "R"
)

// ParseSide validates a side tag. Empty input means bilateral.
func ParseSide(s string) (Side, error) {
	switch Side(s) {
	case SideNone, SideLeft, SideRight:
		return Side(s), nil
	}
	return SideNone, fmt.Errorf("invalid side %q: want L, R or empty", s)
}

// Set is one performed set.
type Set struct {
	ID         string    `json:"id" yaml:"id"`
	Reps       *int      `json:"reps,omitempty" yaml:"reps,omitempty"`
	Weight     *float64  `json:"weight,omitempty" yaml:"weight,omitempty"`
	WeightUnit string    `json:"weightUnit" yaml:"weight_unit"`
	CreatedAt  time.Time `json:"createdAt" yaml:"created_at"`
	Side       Side      `json:"side,omitempty" yaml:"side,omitempty"`
}

// PreviousSets maps PreviousSetsKey to the sets of the last session, in order.
type PreviousSets map[string][]Set
