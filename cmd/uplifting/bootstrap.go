// ABOUTME: CLI command seeding the local store from the server snapshot.
// ABOUTME: Optionally detects the current gym from a given position.
package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var bootstrapCmd = &cobra.Command{
	Use:   "bootstrap",
	Short: "Seed this device from the server",
	Long: `Download gyms, profiles, profile mappings and set history from the server
and replace the local copies with them.

Pass --lat and --lon to pick the current gym from the nearest stored gym
within 300 meters.

EXAMPLES:

  uplifting bootstrap
  uplifting bootstrap --lat 49.2827 --lon -123.1207`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		coords, err := coordinateFlags(cmd)
		if err != nil {
			return err
		}
		if coords != nil {
			application.SetPosition(*coords)
		}

		ctx := cmd.Context()
		snap, err := application.Bootstrap(ctx)
		if err != nil {
			return err
		}
		application.Bootstrapper.Wait()

		out := cmd.OutOrStdout()
		color.New(color.FgGreen).Fprintln(out, "✓ Bootstrap complete")
		fmt.Fprintf(out, "  Gyms: %d\n", len(snap.Gyms))
		fmt.Fprintf(out, "  Profiles: %d\n", len(snap.Profiles))
		fmt.Fprintf(out, "  Profile mappings: %d\n", len(snap.GymProfileMap))
		fmt.Fprintf(out, "  Set history entries: %d\n", len(snap.PreviousSets))
		if g, ok := application.CurrentGym.Gym(ctx); ok {
			fmt.Fprintf(out, "  Current gym: %s\n", g.Name)
		}
		return nil
	},
}

func init() {
	addCoordinateFlags(bootstrapCmd)
	rootCmd.AddCommand(bootstrapCmd)
}
