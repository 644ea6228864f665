// ABOUTME: Root Cobra command for the uplifting CLI.
// ABOUTME: Handles config, logger and App lifecycle via PersistentPre/PostRunE.
package main

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"

	"github.com/alexng353/uplifting/internal/app"
	"github.com/alexng353/uplifting/internal/config"
	"github.com/alexng353/uplifting/internal/logging"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

// skipApp marks commands that manage storage themselves.
const skipApp = "skip-app"

var (
	cfg         *config.Config
	logger      *log.Logger
	logCloser   io.Closer
	application *app.App

	flagBackend  string
	flagLogLevel string
)

var rootCmd = &cobra.Command{
	Use:     "uplifting",
	Short:   "Local-first gym data for your workouts",
	Version: version,
	Long: `Uplifting keeps your gyms, exercise profiles and set history on this device
and syncs them with the uplifting server when you are signed in.

QUICK START:

  $ uplifting gym add "Iron Temple" --lat 49.28 --lon -123.12
  $ uplifting gym use <id>
  $ uplifting suggest set bench --set 2
  $ uplifting profile record bench <profile-id>

SERVER SYNC:

  Set "server" and "token" in ~/.config/uplifting/config.json (or the
  UPLIFTING_SERVER and UPLIFTING_TOKEN environment variables). Every change is
  written locally first and then sent to the server. Offline changes stay local.

  $ uplifting bootstrap --lat 49.28 --lon -123.12   # Seed this device from the server

STORAGE BACKENDS:

  sqlite   ~/.local/share/uplifting/uplifting.db (default)
  badger   ~/.local/share/uplifting/badger
  charm    Charm KV, E2E encrypted and backed up to Charm Cloud

MCP INTEGRATION:

  Run 'uplifting mcp' to start the Model Context Protocol server.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "help" || cmd.Name() == "version" {
			return nil
		}

		if application != nil {
			_ = application.Close()
			application = nil
		}

		var err error
		cfg, err = config.Load()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if flagBackend != "" {
			cfg.Backend = flagBackend
		}
		if flagLogLevel != "" {
			cfg.LogLevel = flagLogLevel
		}

		opts := logging.Options{Level: cfg.LogLevel, File: cfg.GetLogFile(), Writer: cmd.ErrOrStderr()}
		if cmd.Name() == "mcp" && opts.File == "" {
			opts.File = filepath.Join(cfg.GetDataDir(), "mcp.log")
		}
		logger, logCloser, err = logging.New(opts)
		if err != nil {
			return fmt.Errorf("failed to initialize logging: %w", err)
		}

		if cmd.Annotations[skipApp] == "true" {
			return nil
		}

		application, err = app.Open(cfg, logger)
		if err != nil {
			return fmt.Errorf("failed to open local store: %w", err)
		}
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		var errs []error
		if application != nil {
			errs = append(errs, application.Close())
			application = nil
		}
		if logCloser != nil {
			errs = append(errs, logCloser.Close())
			logCloser = nil
		}
		return errors.Join(errs...)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagBackend, "backend", "", "storage backend: sqlite, badger or charm")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "log level: debug, info, warn or error")
}
