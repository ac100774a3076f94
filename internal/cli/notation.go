package cli

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/SeamusWaldron/cubescene/internal/notation"
)

var notationCmd = &cobra.Command{
	Use:   "notation <tokens...>",
	Short: "Decode letter notation into layer moves",
	Long: `Show the axis, layer and direction each token turns on the configured order,
with the canonical letter the move is written back as.`,
	Example: `  cubescene notation R U2 "M'"
  cubescene notation --order 5 S E`,
	Args: cobra.MinimumNArgs(1),
	RunE: runNotation,
}

func init() {
	rootCmd.AddCommand(notationCmd)
}

func runNotation(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	order := cfg.Puzzle.Order

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "TOKEN\tAXIS\tLAYER\tCLOCKWISE\tLETTER\tDESCRIPTION")
	for _, token := range strings.Fields(strings.Join(args, " ")) {
		moves, err := notation.Parse(token, order)
		if err != nil {
			return err
		}
		for _, m := range moves {
			fmt.Fprintf(w, "%s\t%s\t%d\t%t\t%s\t%s\n",
				token, m.Axis, m.Layer, m.Clockwise, notation.Letter(m, order), notation.Describe(m, order))
		}
	}
	return w.Flush()
}
