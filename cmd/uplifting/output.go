// ABOUTME: Shared output helpers for CLI commands.
// ABOUTME: Prints gyms and sync states with fatih/color.
package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/alexng353/uplifting/internal/geo"
	"github.com/alexng353/uplifting/internal/models"
	"github.com/alexng353/uplifting/internal/sync"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var faint = color.New(color.Faint)

// printState reports where a mutation ended up.
func printState[L any](w io.Writer, res sync.Result[L]) {
	switch res.State {
	case sync.ServerConfirmed:
		color.New(color.FgGreen).Fprintln(w, "  ✓ synced with server")
	case sync.LocalOnly:
		if res.RemoteErr != nil {
			color.New(color.FgYellow).Fprintf(w, "  ⚠ saved locally, server sync failed: %v\n", res.RemoteErr)
		} else {
			faint.Fprintln(w, "  saved locally")
		}
	}
}

func printGym(w io.Writer, g models.Gym, current bool) {
	marker := " "
	if current {
		marker = color.New(color.FgGreen).Sprint("*")
	}
	loc := ""
	if g.HasLocation() {
		loc = faint.Sprintf(" (%.5f, %.5f)", *g.Latitude, *g.Longitude)
	}
	fmt.Fprintf(w, "%s %s %s%s\n", marker, faint.Sprint(padRight(g.ID, 36)), g.Name, loc)
}

func padRight(s string, length int) string {
	if len(s) >= length {
		return s
	}
	return s + strings.Repeat(" ", length-len(s))
}

// coordinateFlags reads --lat/--lon, which must be given together.
func coordinateFlags(cmd *cobra.Command) (*geo.Coordinates, error) {
	latSet := cmd.Flags().Changed("lat")
	lonSet := cmd.Flags().Changed("lon")
	if latSet != lonSet {
		return nil, fmt.Errorf("--lat and --lon must be given together")
	}
	if !latSet {
		return nil, nil
	}
	lat, _ := cmd.Flags().GetFloat64("lat")
	lon, _ := cmd.Flags().GetFloat64("lon")
	return &geo.Coordinates{Latitude: lat, Longitude: lon}, nil
}

func addCoordinateFlags(cmd *cobra.Command) {
	cmd.Flags().Float64("lat", 0, "latitude in degrees")
	cmd.Flags().Float64("lon", 0, "longitude in degrees")
}
