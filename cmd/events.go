package cmd

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "List the referee and event hotkeys",
	Long:  `Print the referee hotkeys and the event catalog of the effective configuration.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		machine, err := cfg.Machine()
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "Key\tReferee")
		fmt.Fprintln(w, "---\t-------")
		for _, s := range machine.Registry().Slots() {
			fmt.Fprintf(w, "%s\t%s\n", strings.ToUpper(string(s.Hotkey)), orNone(s.Name))
		}
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Key\tEvent")
		fmt.Fprintln(w, "---\t-----")
		for _, e := range machine.Catalog().Events() {
			fmt.Fprintf(w, "%s\t%s\n", strings.ToUpper(string(e.Hotkey)), e.Label)
		}
		w.Flush()

		if machine.RequireReferee() {
			fmt.Println("\nEvents are rejected until a referee is selected.")
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(eventsCmd)
}
