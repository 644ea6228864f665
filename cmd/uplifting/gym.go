// ABOUTME: CLI commands for managing gyms and the current gym.
// ABOUTME: Every change is written locally first and then sent to the server.
package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var gymCmd = &cobra.Command{
	Use:     "gym",
	Aliases: []string{"gyms", "g"},
	Short:   "Manage gyms",
	Long: `Manage the gyms you train at.

New gyms get a temporary ID until the server confirms them. When signed in,
the server ID replaces it everywhere, including the current gym and profile
mappings.

EXAMPLES:

  uplifting gym add "Iron Temple" --lat 49.28 --lon -123.12
  uplifting gym list
  uplifting gym use <id>
  uplifting gym rename <id> "Iron Temple Downtown"
  uplifting gym delete <id>`,
}

var gymListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List gyms",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		out := cmd.OutOrStdout()

		gyms := application.Gyms.List(ctx)
		if len(gyms) == 0 {
			fmt.Fprintln(out, "No gyms found.")
			return nil
		}

		current := application.CurrentGym.ID(ctx)
		for _, g := range gyms {
			printGym(out, g, g.ID == current)
		}
		return nil
	},
}

var gymAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Add a gym",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		coords, err := coordinateFlags(cmd)
		if err != nil {
			return err
		}

		res, err := application.Gyms.Add(cmd.Context(), args[0], coords)
		if err != nil {
			return fmt.Errorf("failed to add gym: %w", err)
		}

		out := cmd.OutOrStdout()
		color.New(color.FgGreen).Fprintf(out, "✓ Added %s\n", res.Value.Name)
		fmt.Fprintf(out, "  %s\n", faint.Sprint(res.Value.ID))
		printState(out, res)
		return nil
	},
}

var gymRenameCmd = &cobra.Command{
	Use:   "rename <id> <name>",
	Short: "Rename a gym",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		res, err := application.Gyms.Rename(cmd.Context(), args[0], args[1])
		if err != nil {
			return fmt.Errorf("failed to rename gym: %w", err)
		}

		out := cmd.OutOrStdout()
		color.New(color.FgGreen).Fprintf(out, "✓ Renamed to %s\n", args[1])
		printState(out, res)
		return nil
	},
}

var gymDeleteCmd = &cobra.Command{
	Use:     "delete <id>",
	Aliases: []string{"rm"},
	Short:   "Delete a gym",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		g, ok := application.Gyms.Get(ctx, args[0])
		if !ok {
			return fmt.Errorf("gym not found: %s", args[0])
		}

		res, err := application.Gyms.Delete(ctx, g.ID)
		if err != nil {
			return fmt.Errorf("failed to delete gym: %w", err)
		}

		out := cmd.OutOrStdout()
		color.New(color.FgYellow).Fprintf(out, "✗ Deleted %s\n", g.Name)
		printState(out, res)
		return nil
	},
}

var gymUseClear bool

var gymUseCmd = &cobra.Command{
	Use:   "use <id>",
	Short: "Select the current gym",
	Long: `Select the gym you are training at.

Use --clear instead of an ID to unset the current gym.`,
	Args: func(cmd *cobra.Command, args []string) error {
		if gymUseClear {
			return cobra.NoArgs(cmd, args)
		}
		return cobra.ExactArgs(1)(cmd, args)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		id := ""
		if !gymUseClear {
			id = args[0]
		}

		res, err := application.CurrentGym.Set(cmd.Context(), id)
		if err != nil {
			return fmt.Errorf("failed to set current gym: %w", err)
		}

		out := cmd.OutOrStdout()
		if id == "" {
			color.New(color.FgYellow).Fprintln(out, "✓ Cleared current gym")
		} else {
			g, _ := application.Gyms.Get(cmd.Context(), id)
			color.New(color.FgGreen).Fprintf(out, "✓ Now training at %s\n", g.Name)
		}
		printState(out, res)
		return nil
	},
}

var gymCurrentCmd = &cobra.Command{
	Use:   "current",
	Short: "Show the current gym",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		g, ok := application.CurrentGym.Gym(cmd.Context())
		if !ok {
			fmt.Fprintln(out, "No current gym.")
			return nil
		}
		printGym(out, g, true)
		return nil
	},
}

var gymPullCmd = &cobra.Command{
	Use:   "pull",
	Short: "Replace local gyms and the current gym with the server's",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		gyms, err := application.Gyms.Pull(ctx)
		if err != nil {
			return fmt.Errorf("failed to pull gyms: %w", err)
		}
		current, err := application.CurrentGym.Pull(ctx)
		if err != nil {
			return fmt.Errorf("failed to pull current gym: %w", err)
		}

		out := cmd.OutOrStdout()
		color.New(color.FgGreen).Fprintf(out, "✓ Pulled %d gyms\n", len(gyms))
		if current != "" {
			fmt.Fprintf(out, "  current: %s\n", current)
		}
		return nil
	},
}

func init() {
	addCoordinateFlags(gymAddCmd)
	gymUseCmd.Flags().BoolVar(&gymUseClear, "clear", false, "unset the current gym")

	gymCmd.AddCommand(gymListCmd)
	gymCmd.AddCommand(gymAddCmd)
	gymCmd.AddCommand(gymRenameCmd)
	gymCmd.AddCommand(gymDeleteCmd)
	gymCmd.AddCommand(gymUseCmd)
	gymCmd.AddCommand(gymCurrentCmd)
	gymCmd.AddCommand(gymPullCmd)
	rootCmd.AddCommand(gymCmd)
}
