// ABOUTME: CLI commands for sync status and the Charm storage backend.
// ABOUTME: Supports status, link, unlink, repair, reset, and wipe operations.
package main

import (
	"fmt"
	"os"
	"os/exec"

	"github.com/alexng353/uplifting/internal/charm"
	"github.com/alexng353/uplifting/internal/config"
	"github.com/charmbracelet/charm/kv"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var syncCmd = &cobra.Command{
	Use:     "sync",
	Aliases: []string{"s"},
	Short:   "Show sync status and manage Charm storage",
	Long: `Show server sync status and manage the Charm storage backend.

Server sync happens on every change when "server" and "token" are configured.
The Charm backend additionally keeps an E2E encrypted copy of the local store
in Charm Cloud, encrypted with your SSH key.

COMMANDS:

  status      Show server and storage status
  link        Link this device to your Charm account
  unlink      Disconnect this device from Charm
  repair      Repair Charm database corruption
  reset       Reset local Charm data and restore from cloud (destructive)
  wipe        Delete Charm cloud and local data (destructive)`,
}

var syncStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show sync status",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		out := cmd.OutOrStdout()

		fmt.Fprintf(out, "Backend: %s\n", cfg.GetBackend())
		if cfg.GetBackend() != config.BackendCharm {
			fmt.Fprintf(out, "Data dir: %s\n", cfg.GetDataDir())
		}

		if client, ok := application.Store.KV().(*charm.Client); ok {
			if id, err := client.ID(); err == nil {
				fmt.Fprintf(out, "Charm ID: %s\n", id)
			} else {
				color.New(color.FgYellow).Fprintln(out, "Not linked to Charm")
			}
		}
		fmt.Fprintln(out)

		if application.Coordinator.Authenticated() {
			color.New(color.FgGreen).Fprintf(out, "✓ Signed in to %s\n", cfg.Server)
		} else {
			color.New(color.FgYellow).Fprintln(out, "Offline: set server and token to sync")
		}
		if last, ok := application.Store.LastSyncTime(ctx); ok {
			fmt.Fprintf(out, "  Last bootstrap: %s\n", last.Local().Format("2006-01-02 15:04"))
		} else {
			fmt.Fprintln(out, "  Last bootstrap: never")
		}

		fmt.Fprintf(out, "  Gyms: %d\n", len(application.Store.Gyms(ctx)))
		fmt.Fprintf(out, "  Profiles: %d\n", len(application.Store.Profiles(ctx)))
		fmt.Fprintf(out, "  Profile mappings: %d\n", len(application.Store.GymProfileMap(ctx)))
		fmt.Fprintf(out, "  Set history entries: %d\n", len(application.Store.PreviousSets(ctx)))
		return nil
	},
}

func runCharmCLI(args ...string) error {
	c := exec.Command("charm", args...)
	c.Stdin = os.Stdin
	c.Stdout = os.Stdout
	c.Stderr = os.Stderr
	return c.Run()
}

var syncLinkCmd = &cobra.Command{
	Use:         "link",
	Short:       "Link this device to Charm",
	Args:        cobra.NoArgs,
	Annotations: map[string]string{skipApp: "true"},
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := runCharmCLI("link"); err != nil {
			return fmt.Errorf("failed to link: %w\n\nMake sure 'charm' CLI is installed: go install github.com/charmbracelet/charm@latest", err)
		}

		out := cmd.OutOrStdout()
		color.New(color.FgGreen).Fprintln(out, "\n✓ Device linked to Charm")

		if cfg.GetBackend() != config.BackendCharm {
			fmt.Fprintln(out, "Set \"backend\": \"charm\" in your config to store data in Charm.")
			return nil
		}

		client, err := charm.InitClient()
		if err != nil {
			return err
		}
		defer client.Close()
		if err := client.Sync(); err != nil {
			color.New(color.FgYellow).Fprintf(out, "⚠ Initial sync failed: %v\n", err)
		} else {
			color.New(color.FgGreen).Fprintln(out, "✓ Initial sync complete")
		}
		return nil
	},
}

var syncUnlinkCmd = &cobra.Command{
	Use:         "unlink",
	Short:       "Disconnect from Charm",
	Args:        cobra.NoArgs,
	Annotations: map[string]string{skipApp: "true"},
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := runCharmCLI("unlink"); err != nil {
			return fmt.Errorf("failed to unlink: %w", err)
		}
		color.New(color.FgGreen).Fprintln(cmd.OutOrStdout(), "✓ Device unlinked from Charm")
		return nil
	},
}

// confirm reads one word from the command's input.
func confirm(cmd *cobra.Command, prompt string) string {
	fmt.Fprint(cmd.OutOrStdout(), prompt)
	var answer string
	_, _ = fmt.Fscanln(cmd.InOrStdin(), &answer)
	return answer
}

var syncWipeCmd = &cobra.Command{
	Use:         "wipe",
	Short:       "Delete all Charm cloud and local data",
	Args:        cobra.NoArgs,
	Annotations: map[string]string{skipApp: "true"},
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		fmt.Fprintln(out, "This will PERMANENTLY DELETE all Charm cloud backups and local uplifting data.")
		if confirm(cmd, "Type 'wipe' to confirm: ") != "wipe" {
			fmt.Fprintln(out, "Canceled.")
			return nil
		}

		result, err := kv.Wipe(charm.DBName)
		if err != nil {
			return fmt.Errorf("wipe failed: %w", err)
		}

		color.New(color.FgGreen).Fprintln(out, "✓ Data wiped successfully")
		fmt.Fprintf(out, "  Cloud backups deleted: %d\n", result.CloudBackupsDeleted)
		fmt.Fprintf(out, "  Local files deleted: %d\n", result.LocalFilesDeleted)
		return nil
	},
}

var syncRepairForce bool

var syncRepairCmd = &cobra.Command{
	Use:         "repair",
	Short:       "Repair Charm database corruption",
	Args:        cobra.NoArgs,
	Annotations: map[string]string{skipApp: "true"},
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		fmt.Fprintln(out, "Repairing uplifting database...")
		result, err := kv.Repair(charm.DBName, syncRepairForce)

		green := color.New(color.FgGreen)
		if result.WalCheckpointed {
			green.Fprintln(out, "  ✓ WAL checkpointed")
		}
		if result.ShmRemoved {
			green.Fprintln(out, "  ✓ SHM file removed")
		}
		if result.IntegrityOK {
			green.Fprintln(out, "  ✓ Integrity check passed")
		} else {
			color.New(color.FgRed).Fprintln(out, "  ✗ Integrity check failed")
		}
		if result.Vacuumed {
			green.Fprintln(out, "  ✓ Database vacuumed")
		}

		if err != nil {
			if !syncRepairForce {
				color.New(color.FgYellow).Fprintln(out, "\nRun with --force to attempt recovery.")
			}
			return fmt.Errorf("repair failed: %w", err)
		}

		green.Fprintln(out, "\n✓ Repair complete")
		return nil
	},
}

var syncResetCmd = &cobra.Command{
	Use:         "reset",
	Short:       "Reset local Charm data and restore from cloud",
	Args:        cobra.NoArgs,
	Annotations: map[string]string{skipApp: "true"},
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		fmt.Fprintln(out, "This will DELETE all local uplifting data and restore it from Charm Cloud.")
		answer := confirm(cmd, "Continue? [y/N]: ")
		if answer != "y" && answer != "Y" {
			fmt.Fprintln(out, "Canceled.")
			return nil
		}

		if err := kv.Reset(charm.DBName); err != nil {
			return fmt.Errorf("reset failed: %w", err)
		}

		color.New(color.FgGreen).Fprintln(out, "✓ Local data reset and restored from cloud")
		return nil
	},
}

func init() {
	syncRepairCmd.Flags().BoolVar(&syncRepairForce, "force", false, "attempt recovery even if integrity checks fail")

	syncCmd.AddCommand(syncStatusCmd)
	syncCmd.AddCommand(syncLinkCmd)
	syncCmd.AddCommand(syncUnlinkCmd)
	syncCmd.AddCommand(syncRepairCmd)
	syncCmd.AddCommand(syncResetCmd)
	syncCmd.AddCommand(syncWipeCmd)
	rootCmd.AddCommand(syncCmd)
}
