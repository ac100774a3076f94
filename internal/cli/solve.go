package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/SeamusWaldron/cubescene/internal/app"
	"github.com/SeamusWaldron/cubescene/internal/logging"
)

var solvePlay bool

var solveCmd = &cobra.Command{
	Use:   "solve <letters>",
	Short: "Apply letter notation and print the answer",
	Long: `Play a letter notation sequence on a solved puzzle, print the resulting net
and the sequence that solves it. With --play the answer is played back and the
puzzle is checked to be solved.`,
	Example: `  cubescene solve "R U R' U'"
  cubescene solve --order 4 "R U2 M'" --play`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSolve,
}

func init() {
	solveCmd.Flags().BoolVar(&solvePlay, "play", false, "Play the answer and verify the result")
	rootCmd.AddCommand(solveCmd)
}

// settleFrames bounds headless playback.
const settleFrames = 1 << 20

func runSolve(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger := logging.Discard()
	if verbose {
		var closer io.Closer
		logger, closer, err = newLogger(cfg)
		if err != nil {
			return err
		}
		defer closer.Close()
	}

	session, err := app.New(cfg, nil, app.WithLogger(logger))
	if err != nil {
		return err
	}
	cube := session.Cube()
	out := cmd.OutOrStdout()

	letters := strings.Join(args, " ")
	if err := session.RotateByLetters(letters); err != nil {
		return err
	}
	session.Scene().Settle(settleFrames)

	fmt.Fprintln(out, renderNet(cube.Facelets(), cube.Order()))
	fmt.Fprintln(out)
	fmt.Fprintf(out, "Facelets: %s\n", cube.Facelets())

	answer, err := cube.Answer()
	if err != nil {
		return fmt.Errorf("failed to get answer: %w", err)
	}
	if answer == "" {
		fmt.Fprintln(out, phaseStyle.Render("Already solved."))
		return nil
	}
	fmt.Fprintf(out, "Answer: %s\n", moveStyle.Render(answer))

	if !solvePlay {
		return nil
	}
	if _, err := cube.Solve(); err != nil {
		return err
	}
	session.Scene().Settle(settleFrames)
	if !cube.IsSolved() {
		return fmt.Errorf("answer did not solve the puzzle: %s", cube.Facelets())
	}
	fmt.Fprintln(out, phaseStyle.Render("Solved."))
	return nil
}
