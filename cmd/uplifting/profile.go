// ABOUTME: CLI commands for the profile used per exercise at each gym.
// ABOUTME: Records and suggests profiles, and pulls a gym's mappings from the server.
package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var profileGym string

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Manage exercise profiles per gym",
	Long: `Remember which profile you use for an exercise at each gym.

--gym defaults to the current gym.

EXAMPLES:

  uplifting profile record bench <profile-id>
  uplifting profile suggest bench
  uplifting profile pull --gym <id>`,
}

var profileSuggestCmd = &cobra.Command{
	Use:   "suggest <exercise>",
	Short: "Show the profile last used for an exercise at a gym",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		out := cmd.OutOrStdout()

		gymID := profileGym
		if gymID == "" {
			gymID = application.CurrentGym.ID(ctx)
		}
		if gymID == "" {
			fmt.Fprintln(out, "No current gym.")
			return nil
		}

		profileID := application.Mappings.SuggestedProfile(ctx, args[0], gymID)
		if profileID == "" {
			fmt.Fprintln(out, "No profile recorded for this gym.")
			return nil
		}
		fmt.Fprintln(out, profileID)
		return nil
	},
}

var profileRecordCmd = &cobra.Command{
	Use:   "record <exercise> <profile>",
	Short: "Remember the profile used for an exercise at a gym",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		res, err := application.Mappings.Record(cmd.Context(), profileGym, args[0], args[1])
		if err != nil {
			return fmt.Errorf("failed to record profile: %w", err)
		}

		out := cmd.OutOrStdout()
		color.New(color.FgGreen).Fprintf(out, "✓ Recorded %s for %s\n", args[1], args[0])
		printState(out, res)
		return nil
	},
}

var profilePullCmd = &cobra.Command{
	Use:   "pull",
	Short: "Merge a gym's profile mappings from the server",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		gymID := profileGym
		if gymID == "" {
			gymID = application.CurrentGym.ID(ctx)
		}

		n, err := application.Mappings.Pull(ctx, gymID)
		if err != nil {
			return fmt.Errorf("failed to pull mappings: %w", err)
		}
		color.New(color.FgGreen).Fprintf(cmd.OutOrStdout(), "✓ Merged %d mappings\n", n)
		return nil
	},
}

func init() {
	profileCmd.PersistentFlags().StringVar(&profileGym, "gym", "", "gym ID (default: current gym)")

	profileCmd.AddCommand(profileSuggestCmd)
	profileCmd.AddCommand(profileRecordCmd)
	profileCmd.AddCommand(profilePullCmd)
	rootCmd.AddCommand(profileCmd)
}
