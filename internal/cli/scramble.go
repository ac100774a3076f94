package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/SeamusWaldron/cubescene/internal/solver"
)

var (
	scrambleSeed   int64
	scrambleLength int
	scrambleNet    bool
)

var scrambleCmd = &cobra.Command{
	Use:   "scramble",
	Short: "Print a random scramble",
	Long:  `Generate a scramble of outer face turns in letter notation. Consecutive turns never share an axis.`,
	RunE:  runScramble,
}

func init() {
	scrambleCmd.Flags().Int64Var(&scrambleSeed, "seed", 0, "Random seed (default: config or time)")
	scrambleCmd.Flags().IntVar(&scrambleLength, "length", 0, "Number of turns (default: config)")
	scrambleCmd.Flags().BoolVar(&scrambleNet, "net", false, "Also print the scrambled net")
	rootCmd.AddCommand(scrambleCmd)
}

func runScramble(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	length := cfg.Scramble.Length
	if scrambleLength > 0 {
		length = scrambleLength
	}
	seed := cfg.Scramble.Seed
	if scrambleSeed != 0 {
		seed = scrambleSeed
	}

	opts := []solver.Option{solver.WithScrambleLength(length)}
	if seed != 0 {
		opts = append(opts, solver.WithSeed(seed))
	}
	s, err := solver.NewHistorySolver(cfg.Puzzle.Order, opts...)
	if err != nil {
		return err
	}

	letters, err := s.Scramble()
	if err != nil {
		return fmt.Errorf("failed to scramble: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), letters)

	if scrambleNet {
		if err := s.Move(letters); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout())
		fmt.Fprintln(cmd.OutOrStdout(), renderNet(s.Cube().FaceletString(), cfg.Puzzle.Order))
	}
	return nil
}
