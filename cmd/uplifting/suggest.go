// ABOUTME: CLI command suggesting reps and weight from previous sets.
// ABOUTME: Falls back to another profile of the exercise, then to defaults.
package main

import (
	"fmt"

	"github.com/alexng353/uplifting/internal/models"
	"github.com/spf13/cobra"
)

var (
	suggestProfile string
	suggestSet     int
	suggestSide    string
)

var suggestCmd = &cobra.Command{
	Use:   "suggest",
	Short: "Suggest values from your history",
}

var suggestSetCmd = &cobra.Command{
	Use:   "set <exercise>",
	Short: "Suggest reps and weight for a set",
	Long: `Suggest reps and weight for a set of an exercise.

The suggestion copies the same set from your last session with the profile.
When there is no history for the profile, another profile of the exercise is
used. Without any history the suggestion is 10 reps at 20.

EXAMPLES:

  uplifting suggest set bench
  uplifting suggest set bench --profile <id> --set 3
  uplifting suggest set lunge --side L`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		side, err := models.ParseSide(suggestSide)
		if err != nil {
			return err
		}

		s := application.Suggestions.Suggest(cmd.Context(), args[0], suggestProfile, suggestSet, side)

		unit := ""
		if s.WeightUnit != nil {
			unit = " " + *s.WeightUnit
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%d reps @ %g%s\n", s.Reps, s.Weight, unit)
		return nil
	},
}

func init() {
	suggestSetCmd.Flags().StringVarP(&suggestProfile, "profile", "p", "", "profile ID (default profile when empty)")
	suggestSetCmd.Flags().IntVarP(&suggestSet, "set", "s", 1, "1-based set number")
	suggestSetCmd.Flags().StringVar(&suggestSide, "side", "", "L or R for unilateral sets")

	suggestCmd.AddCommand(suggestSetCmd)
	rootCmd.AddCommand(suggestCmd)
}
