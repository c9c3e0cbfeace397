package cmd

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/user/touch-ref-logger/db"
	"github.com/user/touch-ref-logger/eventlog"
	"github.com/user/touch-ref-logger/pkg/logger"
	"github.com/user/touch-ref-logger/pkg/timeutil"
	"github.com/user/touch-ref-logger/tagging"
)

var logCmd = &cobra.Command{
	Use:   "log",
	Short: "Manage an event log CSV without the player",
	Long:  `Add entries to, list, and summarise an event log CSV file from the command line.`,
}

var logAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Append an event at a given timestamp",
	Long: `Append one event to the CSV file. The timestamp must be HH:MM:SS.
The event may be given by hotkey or by label. A referee hotkey resolves to its
configured name; anything else is used as the name as-is.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		path := logFile(cmd)
		at, _ := cmd.Flags().GetString("at")
		eventArg, _ := cmd.Flags().GetString("event")
		refereeArg, _ := cmd.Flags().GetString("referee")
		desc, _ := cmd.Flags().GetString("desc")

		seconds, err := timeutil.ParseTimestamp(at)
		if err != nil {
			return err
		}

		machine, err := cfg.Machine()
		if err != nil {
			return err
		}
		event, ok := machine.Catalog().Find(eventArg)
		if !ok {
			return fmt.Errorf("unknown event '%s' (run 'touch-ref-logger events' to list them)", eventArg)
		}
		referee := resolveReferee(machine.Registry(), refereeArg)

		l, cols, err := eventlog.LoadFile(path)
		if err != nil {
			return err
		}
		if l.Len() == 0 {
			cols = cfg.Columns()
		}
		n := l.Append(eventlog.Entry{
			Timestamp:   timeutil.FormatTime(seconds),
			Event:       event.Label,
			Referee:     referee,
			Description: desc,
		})
		entry := l.Entries()[n]
		if l.HasDescriptions() {
			cols.Description = true
		}
		if err := l.WriteFile(path, cols); err != nil {
			return fmt.Errorf("failed to write %s: %w", path, err)
		}

		logger.Named("log").Debug(cmd.Context(), "entry added", logger.String("path", path), logger.Int("index", n))
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Logged #%d at %s: %s", n+1, entry.Timestamp, entry.Event)
		if referee != "" {
			fmt.Fprintf(out, " (%s)", referee)
		}
		fmt.Fprintln(out)
		return nil
	},
}

var logListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the entries of an event log",
	Long:  `Display all entries of the CSV file as a table, in logged order.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		path := logFile(cmd)
		l, cols, err := eventlog.LoadFile(path)
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		header := "#\tTime\tEvent\tReferee"
		rule := "-\t----\t-----\t-------"
		if cols.Description {
			header += "\tDescription"
			rule += "\t-----------"
		}
		fmt.Fprintln(w, header)
		fmt.Fprintln(w, rule)
		for i, e := range l.Entries() {
			line := fmt.Sprintf("%d\t%s\t%s\t%s", i+1, e.Timestamp, e.Event, e.Referee)
			if cols.Description {
				line += "\t" + e.Description
			}
			fmt.Fprintln(w, line)
		}
		w.Flush()

		if l.Len() == 0 {
			fmt.Fprintf(cmd.OutOrStdout(), "\nNo events in %s.\n", path)
		} else {
			fmt.Fprintf(cmd.OutOrStdout(), "\n%d event(s) in %s.\n", l.Len(), path)
		}
		return nil
	},
}

var logStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Summarise an event log per referee and event",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		path := logFile(cmd)
		l, _, err := eventlog.LoadFile(path)
		if err != nil {
			return err
		}

		database, err := db.Open(ctx)
		if err != nil {
			return fmt.Errorf("failed to open stats database: %w", err)
		}
		defer database.Close()
		store := db.NewStore(database, path)
		if err := store.Seed(ctx, l.Entries()); err != nil {
			return err
		}

		referees, err := store.RefereeTotals(ctx)
		if err != nil {
			return err
		}
		events, err := store.EventTotals(ctx)
		if err != nil {
			return err
		}
		pairs, err := store.PairTotals(ctx)
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		printTotals(w, "Referee", referees)
		fmt.Fprintln(w)
		printTotals(w, "Event", events)
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Referee\tEvent\tCount")
		fmt.Fprintln(w, "-------\t-----\t-----")
		for _, p := range pairs {
			fmt.Fprintf(w, "%s\t%s\t%d\n", orNone(p.Referee), p.Event, p.Count)
		}
		w.Flush()

		fmt.Fprintf(cmd.OutOrStdout(), "\n%d event(s) in %s.\n", l.Len(), path)
		return nil
	},
}

func printTotals(w *tabwriter.Writer, title string, totals []db.Total) {
	fmt.Fprintf(w, "%s\tCount\n", title)
	fmt.Fprintf(w, "%s\t-----\n", strings.Repeat("-", len(title)))
	for _, t := range totals {
		fmt.Fprintf(w, "%s\t%d\n", orNone(t.Name), t.Count)
	}
}

func orNone(s string) string {
	if s == "" {
		return "(none)"
	}
	return s
}

// resolveReferee maps a referee hotkey to its configured name.
func resolveReferee(reg *tagging.Registry, arg string) string {
	arg = strings.TrimSpace(arg)
	if r := []rune(arg); len(r) == 1 && reg.IsReferee(r[0]) {
		if name := reg.Resolve(r[0]); name != "" {
			return name
		}
	}
	return arg
}

func logFile(cmd *cobra.Command) string {
	if path, _ := cmd.Flags().GetString("file"); path != "" {
		return path
	}
	return cfg.Output
}

func init() {
	logCmd.PersistentFlags().StringP("file", "f", "", "CSV file (default: configured output)")

	logAddCmd.Flags().String("at", "", "Timestamp as HH:MM:SS")
	logAddCmd.Flags().StringP("event", "e", "", "Event hotkey or label")
	logAddCmd.Flags().StringP("referee", "r", "", "Referee hotkey or name")
	logAddCmd.Flags().StringP("desc", "d", "", "Optional description")
	_ = logAddCmd.MarkFlagRequired("at")
	_ = logAddCmd.MarkFlagRequired("event")

	logCmd.AddCommand(logAddCmd)
	logCmd.AddCommand(logListCmd)
	logCmd.AddCommand(logStatsCmd)
	rootCmd.AddCommand(logCmd)
}
