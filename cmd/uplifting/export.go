// ABOUTME: CLI commands for exporting and importing the local store.
// ABOUTME: Supports JSON and YAML formats.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	exportFormat string
	exportOutput string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export local data",
	Long: `Export gyms, the current gym, profile mappings, profiles, set history and
settings.

FORMATS:

  json       Full JSON export (suitable for backup/restore)
  yaml       YAML export (human-readable)

EXAMPLES:

  uplifting export                          # JSON to stdout
  uplifting export -o backup.json           # Save to file
  uplifting export --format yaml`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		var (
			data []byte
			err  error
		)
		switch exportFormat {
		case "json":
			data, err = application.Store.ExportJSON(ctx)
		case "yaml":
			data, err = application.Store.ExportYAML(ctx)
		default:
			return fmt.Errorf("unknown format: %s (use json or yaml)", exportFormat)
		}
		if err != nil {
			return fmt.Errorf("export failed: %w", err)
		}

		if exportOutput != "" {
			if err := os.WriteFile(exportOutput, data, 0600); err != nil {
				return fmt.Errorf("failed to write file: %w", err)
			}
			color.New(color.FgGreen).Fprintf(cmd.OutOrStdout(), "✓ Exported to %s\n", exportOutput)
			return nil
		}

		fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return nil
	},
}

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import local data from a JSON or YAML export",
	Long: `Import a previous export, replacing the local gyms, current gym, profile
mappings, profiles, set history and settings.

Files ending in .yaml or .yml are read as YAML, anything else as JSON.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		filename := args[0]

		data, err := os.ReadFile(filename)
		if err != nil {
			return fmt.Errorf("failed to read file: %w", err)
		}

		ctx := cmd.Context()
		switch strings.ToLower(filepath.Ext(filename)) {
		case ".yaml", ".yml":
			err = application.Store.ImportYAML(ctx, data)
		default:
			err = application.Store.ImportJSON(ctx, data)
		}
		if err != nil {
			return fmt.Errorf("import failed: %w", err)
		}
		application.Suggestions.Invalidate()

		color.New(color.FgGreen).Fprintf(cmd.OutOrStdout(), "✓ Imported from %s\n", filename)
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", "json", "output format: json or yaml")
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "output file (default: stdout)")

	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(importCmd)
}
