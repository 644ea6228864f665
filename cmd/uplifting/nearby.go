// ABOUTME: CLI command finding the stored gym near a position.
// ABOUTME: Reports the nearest gym within the detection radius without selecting it.
package main

import (
	"fmt"

	"github.com/alexng353/uplifting/internal/geo"
	"github.com/spf13/cobra"
)

var nearbyCmd = &cobra.Command{
	Use:   "nearby",
	Short: "Find the stored gym near a position",
	Long: fmt.Sprintf(`Find the nearest stored gym within %.0f meters of a position.

EXAMPLES:

  uplifting nearby --lat 49.2827 --lon -123.1207`, geo.DetectionRadiusMeters),
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		coords, err := coordinateFlags(cmd)
		if err != nil {
			return err
		}
		if coords == nil {
			return fmt.Errorf("--lat and --lon are required")
		}

		out := cmd.OutOrStdout()
		det, ok := application.Detector.Nearby(cmd.Context(), *coords)
		if !ok {
			fmt.Fprintln(out, "No gym within range.")
			return nil
		}

		current := application.CurrentGym.ID(cmd.Context())
		printGym(out, det.Gym, det.Gym.ID == current)
		fmt.Fprintf(out, "  %s\n", faint.Sprintf("%.0f m away", det.DistanceMeters))
		return nil
	},
}

func init() {
	addCoordinateFlags(nearbyCmd)
	rootCmd.AddCommand(nearbyCmd)
}
