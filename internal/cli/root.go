// Package cli implements the command-line interface for cubescene.
package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/SeamusWaldron/cubescene/internal/config"
	"github.com/SeamusWaldron/cubescene/internal/logging"
	"github.com/SeamusWaldron/cubescene/internal/storage"
)

const version = "0.1.0"

var (
	// Global flags
	configPath string
	verbose    bool
	orderFlag  int
)

// rootCmd is the base command.
var rootCmd = &cobra.Command{
	Use:   "cubescene",
	Short: "NxNxN twisty puzzle in the terminal",
	Long: `cubescene - an NxNxN twisty puzzle with animated layer turns, drag-to-turn
picking and an orbiting camera.

Play interactively, feed letter notation, mirror a GoCube smart cube over
Bluetooth and review journaled sessions.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render("Error: "+err.Error()))
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default: $CUBESCENE_CONFIG)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().IntVarP(&orderFlag, "order", "n", 0, "Puzzle order, overrides the config")
}

// loadConfig reads the config and applies command-line overrides.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if orderFlag != 0 {
		cfg.Puzzle.Order = orderFlag
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

// newLogger builds the command logger from cfg.
func newLogger(cfg *config.Config) (*logrus.Logger, io.Closer, error) {
	return logging.New(logging.Options{
		Level:   cfg.Log.Level,
		Format:  cfg.Log.Format,
		File:    cfg.Log.File,
		Verbose: verbose,
	})
}

// openJournal opens the journal database. Without a configured path it
// returns nil unless record asks for the default location.
func openJournal(cfg *config.Config, record bool) (*storage.DB, error) {
	path := cfg.Journal.Path
	if path == "" {
		if !record {
			return nil, nil
		}
		defaultPath, err := storage.DefaultDBPath()
		if err != nil {
			return nil, err
		}
		path = defaultPath
	}
	db, err := storage.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open journal: %w", err)
	}
	return db, nil
}
