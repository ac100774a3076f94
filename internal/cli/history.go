package cli

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/SeamusWaldron/cubescene/internal/journal"
	"github.com/SeamusWaldron/cubescene/internal/storage"
)

var (
	historyLimit int
	historyJSON  bool
	historyTopK  int
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List journaled sessions",
	Long:  `List recent sessions from the journal, newest first.`,
	RunE:  runHistory,
}

var historyShowCmd = &cobra.Command{
	Use:   "show <session-id|last>",
	Short: "Show the moves of one session",
	Long: `Print a session's moves, a count by source and the move sequences that
repeat within it.`,
	Args: cobra.ExactArgs(1),
	RunE: runHistoryShow,
}

var historyDeleteCmd = &cobra.Command{
	Use:   "delete <session-id>",
	Short: "Delete a session and its moves",
	Args:  cobra.ExactArgs(1),
	RunE:  runHistoryDelete,
}

func init() {
	historyCmd.Flags().IntVar(&historyLimit, "limit", 20, "Number of sessions to list")
	historyShowCmd.Flags().BoolVar(&historyJSON, "json", false, "Print the report as JSON")
	historyShowCmd.Flags().IntVar(&historyTopK, "top", 5, "Repeated sequences to show per length")
	historyCmd.AddCommand(historyShowCmd)
	historyCmd.AddCommand(historyDeleteCmd)
	rootCmd.AddCommand(historyCmd)
}

// sessionReport is the JSON form of history show.
type sessionReport struct {
	Session  storage.Session      `json:"session"`
	Moves    []string             `json:"moves"`
	BySource map[string]int       `json:"by_source"`
	Repeats  *journal.NGramReport `json:"repeats"`
}

func openHistory() (*storage.DB, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	return openJournal(cfg, true)
}

func runHistory(cmd *cobra.Command, args []string) error {
	db, err := openHistory()
	if err != nil {
		return err
	}
	defer db.Close()

	sessions, err := storage.NewSessionRepository(db).List(historyLimit)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if len(sessions) == 0 {
		fmt.Fprintln(out, "No sessions recorded.")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SESSION\tSTARTED\tORDER\tMOVES\tSOLVED\tDURATION")
	for _, s := range sessions {
		fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%s\t%s\n",
			s.SessionID, s.StartedAt.Local().Format("2006-01-02 15:04:05"), s.Order, s.MoveCount, solvedLabel(s), durationLabel(s))
	}
	return w.Flush()
}

func runHistoryShow(cmd *cobra.Command, args []string) error {
	db, err := openHistory()
	if err != nil {
		return err
	}
	defer db.Close()

	sessions := storage.NewSessionRepository(db)
	var session *storage.Session
	if args[0] == "last" {
		session, err = sessions.GetLast()
	} else {
		session, err = sessions.Get(args[0])
	}
	if err != nil {
		return err
	}
	if session == nil {
		return fmt.Errorf("session not found: %s", args[0])
	}

	moves := storage.NewMoveRepository(db)
	records, err := moves.GetBySession(session.SessionID)
	if err != nil {
		return err
	}
	bySource, err := moves.CountBySource(session.SessionID)
	if err != nil {
		return err
	}

	report := sessionReport{
		Session:  *session,
		Moves:    make([]string, len(records)),
		BySource: bySource,
		Repeats:  journal.MineNGrams(records, session.Order, 2, 6, historyTopK),
	}
	for i, r := range records {
		report.Moves[i] = r.Letter
	}

	out := cmd.OutOrStdout()
	if historyJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	}

	fmt.Fprintln(out, titleStyle.Render("Session "+session.SessionID))
	fmt.Fprintf(out, "Started:  %s\n", session.StartedAt.Local().Format(time.RFC3339))
	fmt.Fprintf(out, "Order:    %d\n", session.Order)
	fmt.Fprintf(out, "Solved:   %s\n", solvedLabel(*session))
	fmt.Fprintf(out, "Duration: %s\n", durationLabel(*session))
	if session.ScrambleText != nil {
		fmt.Fprintf(out, "Scramble: %s\n", *session.ScrambleText)
	}
	fmt.Fprintln(out)

	fmt.Fprintln(out, phaseStyle.Render(fmt.Sprintf("Moves (%d)", len(records))))
	fmt.Fprintln(out, moveStyle.Render(strings.Join(report.Moves, " ")))
	fmt.Fprintln(out)

	sources := make([]string, 0, len(bySource))
	for src := range bySource {
		sources = append(sources, src)
	}
	sort.Strings(sources)
	for _, src := range sources {
		fmt.Fprintf(out, "  %-10s %d\n", src, bySource[src])
	}

	var lengths []int
	for n := range report.Repeats.TopNGrams {
		lengths = append(lengths, n)
	}
	sort.Ints(lengths)
	if len(lengths) > 0 {
		fmt.Fprintln(out)
		fmt.Fprintln(out, phaseStyle.Render("Repeated sequences"))
	}
	for _, n := range lengths {
		for _, g := range report.Repeats.TopNGrams[n] {
			fmt.Fprintf(out, "  %dx  %s\n", g.Count, strings.Join(g.Sequence, " "))
		}
	}
	return nil
}

func runHistoryDelete(cmd *cobra.Command, args []string) error {
	db, err := openHistory()
	if err != nil {
		return err
	}
	defer db.Close()

	if err := storage.NewSessionRepository(db).Delete(args[0]); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Deleted session %s\n", args[0])
	return nil
}

func solvedLabel(s storage.Session) string {
	if s.EndedAt == nil {
		return "open"
	}
	if s.Solved {
		return "yes"
	}
	return "no"
}

func durationLabel(s storage.Session) string {
	if s.DurationMs == nil {
		return "-"
	}
	return (time.Duration(*s.DurationMs) * time.Millisecond).Round(time.Millisecond).String()
}
