// ABOUTME: CLI command for moving the local store between backends.
// ABOUTME: Copies every key from one configured backend to another.
package main

import (
	"fmt"
	"path/filepath"

	"github.com/alexng353/uplifting/internal/charm"
	"github.com/alexng353/uplifting/internal/config"
	"github.com/alexng353/uplifting/internal/storage"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	migrateFrom  string
	migrateTo    string
	migrateForce bool
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Copy local data between storage backends",
	Long: `Copy every stored key from one storage backend to another.

Backends are sqlite, badger and charm, stored under the configured data
directory (charm manages its own location). The destination must be empty
unless --force is given.

After migrating, set "backend" in ~/.config/uplifting/config.json to use the
new backend.

EXAMPLES:

  uplifting migrate --from sqlite --to badger
  uplifting migrate --from sqlite --to charm`,
	Args:        cobra.NoArgs,
	Annotations: map[string]string{skipApp: "true"},
	RunE: func(cmd *cobra.Command, args []string) error {
		if migrateFrom == migrateTo {
			return fmt.Errorf("source and destination backends are both %q", migrateFrom)
		}

		srcCfg := *cfg
		srcCfg.Backend = migrateFrom
		dstCfg := *cfg
		dstCfg.Backend = migrateTo

		if migrateTo == config.BackendBadger && !migrateForce {
			nonEmpty, err := storage.IsDirNonEmpty(filepath.Join(dstCfg.GetDataDir(), "badger"))
			if err != nil {
				return err
			}
			if nonEmpty {
				return fmt.Errorf("destination badger directory is not empty (use --force to overwrite)")
			}
		}

		src, err := srcCfg.OpenStorage()
		if err != nil {
			return fmt.Errorf("open %s: %w", migrateFrom, err)
		}
		defer src.Close()

		dst, err := dstCfg.OpenStorage()
		if err != nil {
			return fmt.Errorf("open %s: %w", migrateTo, err)
		}
		defer dst.Close()

		ctx := cmd.Context()
		if !migrateForce {
			keys, err := dst.Keys(ctx)
			if err != nil {
				return fmt.Errorf("list destination keys: %w", err)
			}
			if len(keys) > 0 {
				return fmt.Errorf("destination %s already holds %d keys (use --force to overwrite)", migrateTo, len(keys))
			}
		}

		// One cloud sync at the end instead of one per key.
		charmDst, toCharm := dst.(*charm.Client)
		if toCharm {
			charmDst.SetAutoSync(false)
		}

		summary, err := storage.MigrateData(ctx, src, dst)
		if err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}

		if toCharm {
			if err := charmDst.Sync(); err != nil {
				logger.Warn("charm sync after migration failed", "err", err)
			}
		}

		logger.Info("migrated local store", "from", migrateFrom, "to", migrateTo, "keys", summary.Keys)
		out := cmd.OutOrStdout()
		color.New(color.FgGreen).Fprintf(out, "✓ Migrated %s → %s\n", migrateFrom, migrateTo)
		fmt.Fprintf(out, "  Keys: %d\n", summary.Keys)
		fmt.Fprintf(out, "  Bytes: %d\n", summary.Bytes)
		return nil
	},
}

func init() {
	migrateCmd.Flags().StringVar(&migrateFrom, "from", config.BackendSQLite, "source backend")
	migrateCmd.Flags().StringVar(&migrateTo, "to", config.BackendBadger, "destination backend")
	migrateCmd.Flags().BoolVar(&migrateForce, "force", false, "overwrite a non-empty destination")
	rootCmd.AddCommand(migrateCmd)
}
