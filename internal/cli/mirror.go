package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/SeamusWaldron/cubescene/internal/app"
	"github.com/SeamusWaldron/cubescene/internal/config"
	"github.com/SeamusWaldron/cubescene/internal/journal"
	"github.com/SeamusWaldron/cubescene/internal/metrics"
	"github.com/SeamusWaldron/cubescene/internal/notation"
	"github.com/SeamusWaldron/cubescene/internal/puzzle"
	"github.com/SeamusWaldron/cubescene/internal/smartcube"
)

var mirrorRecord bool

var mirrorCmd = &cobra.Command{
	Use:   "mirror",
	Short: "Mirror a GoCube smart cube without the TUI",
	Long: `Connect to a GoCube over Bluetooth and replay every turn of the physical
cube on the puzzle, logging each committed move. Start with a solved cube.
Press Ctrl+C to stop.`,
	RunE: runMirror,
}

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Scan for GoCube devices",
	RunE:  runScan,
}

func init() {
	mirrorCmd.Flags().BoolVar(&mirrorRecord, "record", false, "Journal to the default database when journal.path is unset")
	rootCmd.AddCommand(mirrorCmd)
	rootCmd.AddCommand(scanCmd)
}

func scanTimeout(cfg *config.Config) time.Duration {
	return time.Duration(cfg.SmartCube.ScanSeconds) * time.Second
}

// connectSmartCube finds and connects the configured cube and delivers its
// turns to onMoves.
func connectSmartCube(ctx context.Context, cfg *config.Config, logger logrus.FieldLogger, onMoves func([]notation.Move)) (*smartcube.Client, error) {
	client, err := smartcube.NewClient()
	if err != nil {
		return nil, err
	}

	result, err := client.Find(ctx, cfg.SmartCube.Device, scanTimeout(cfg))
	if err != nil {
		return nil, fmt.Errorf("failed to find cube: %w", err)
	}

	mirror := smartcube.NewMirror(cfg.Puzzle.Order, logger)
	mirror.SetMovesCallback(onMoves)
	client.SetNotificationCallback(func(data []byte) {
		_ = mirror.HandleNotification(data)
	})

	if err := client.Connect(result); err != nil {
		return nil, err
	}
	if err := client.SendCommand(smartcube.CmdResetSolved); err != nil {
		logger.WithError(err).Warn("failed to reset cube state")
	}
	logger.WithFields(logrus.Fields{"name": result.Name, "rssi": result.RSSI}).Info("smart cube connected")
	return client, nil
}

func runMirror(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger, closer, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer closer.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	opts := []app.Option{
		app.WithLogger(logger),
		app.WithMoveObserver(func(ev puzzle.MoveEvent) {
			fmt.Println(moveStyle.Render(ev.Letter))
		}),
	}

	db, err := openJournal(cfg, mirrorRecord)
	if err != nil {
		return err
	}
	var recorder *journal.Recorder
	if db != nil {
		defer db.Close()
		recorder = journal.NewRecorder(db, journal.WithLogger(logger))
		opts = append(opts, app.WithRecorder(recorder))
	}

	if cfg.Metrics.Addr != "" {
		mtr := metrics.New()
		opts = append(opts, app.WithMetrics(mtr))
		go func() {
			if err := mtr.Serve(ctx, cfg.Metrics.Addr, logger); err != nil {
				logger.WithError(err).Error("metrics server stopped")
			}
		}()
	}

	session, err := app.New(cfg, nil, opts...)
	if err != nil {
		return err
	}
	defer session.Close()

	incoming := make(chan []notation.Move, 100)
	fmt.Println("Scanning for GoCube devices...")
	client, err := connectSmartCube(ctx, cfg, logger, func(moves []notation.Move) {
		select {
		case incoming <- moves:
		default:
			logger.Warn("smart cube moves dropped")
		}
	})
	if err != nil {
		return err
	}
	defer client.Disconnect()

	fmt.Printf("Mirroring %s. Press Ctrl+C to stop.\n", client.DeviceName())

	ticker := time.NewTicker(frameInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			fmt.Println()
			fmt.Println(statusStyle.Render("Final state:"))
			fmt.Println(renderNet(session.Cube().Facelets(), cfg.Puzzle.Order))
			return nil
		case moves := <-incoming:
			// each solve on the physical cube journals as its own session
			if recorder != nil && recorder.State() != journal.StateRecording {
				if _, err := recorder.Start(cfg.Puzzle.Order, ""); err != nil {
					logger.WithError(err).Warn("journal unavailable")
				}
			}
			if err := session.ApplySmartCube(moves); err != nil {
				logger.WithError(err).Warn("failed to queue smart cube moves")
			}
		case <-ticker.C:
			session.Tick()
		}
	}
}

func runScan(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	client, err := smartcube.NewClient()
	if err != nil {
		return err
	}

	fmt.Printf("Scanning for GoCube devices (%s)...\n", scanTimeout(cfg))
	results, err := client.Scan(cmd.Context(), scanTimeout(cfg))
	if err != nil {
		return err
	}
	if len(results) == 0 {
		fmt.Println("No GoCube devices found.")
		fmt.Println()
		fmt.Println("To fix this:")
		fmt.Println("  1. Rotate your cube to wake it up")
		fmt.Println("  2. Make sure it's not connected to your phone")
		fmt.Println("  3. Run this command again")
		return nil
	}

	fmt.Printf("Found %d device(s):\n", len(results))
	for _, r := range results {
		fmt.Printf("  %s  %s  RSSI %d\n", titleStyle.Render(r.Name), r.Address.String(), r.RSSI)
	}
	return nil
}
