package main

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"grocerylens/internal/grocery"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var byDay bool
	var clearAll bool
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show items moved off the list",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(store *grocery.Store) error {
				out := cmd.OutOrStdout()
				if clearAll {
					removed, err := store.ClearHistory(cmd.Context())
					if err != nil {
						return err
					}
					fmt.Fprintf(out, "Cleared %d history entr%s\n", removed, pluralSuffix(removed, "y", "ies"))
					return nil
				}

				if byDay {
					days, err := store.HistoryByDay(cmd.Context(), time.Local)
					if err != nil {
						return err
					}
					if jsonOut {
						if days == nil {
							days = []grocery.HistoryDay{}
						}
						return writeJSON(cmd, days)
					}
					if len(days) == 0 {
						fmt.Fprintln(out, "History is empty")
						return nil
					}
					for _, day := range days {
						fmt.Fprintf(out, "%s (%d)\n", day.Date.Format("Mon 2 Jan 2006"), len(day.Entries))
						dayEntries := make([]*grocery.HistoryEntry, len(day.Entries))
						for i := range day.Entries {
							dayEntries[i] = &day.Entries[i]
						}
						printHistory(out, dayEntries)
					}
					return nil
				}

				entries, err := store.History(cmd.Context())
				if err != nil {
					return err
				}
				if jsonOut {
					if entries == nil {
						entries = []*grocery.HistoryEntry{}
					}
					return writeJSON(cmd, entries)
				}
				if len(entries) == 0 {
					fmt.Fprintln(out, "History is empty")
					return nil
				}
				printHistory(out, entries)
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&byDay, "by-day", false, "Group entries by the day they were added")
	cmd.Flags().BoolVar(&clearAll, "clear", false, "Delete all history entries")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Output as JSON")
	return cmd
}

func printHistory(out io.Writer, entries []*grocery.HistoryEntry) {
	rows := make([][]string, 0, len(entries))
	for _, entry := range entries {
		rows = append(rows, []string{
			entry.Name,
			strconv.Itoa(entry.Quantity),
			checkbox(entry.Completed),
			formatTimestamp(entry.CreatedAt),
			humanize.Time(entry.MovedAt),
		})
	}
	fmt.Fprint(out, renderTable(
		[]string{"Item", "Qty", "Bought", "Added", "Archived"},
		rows,
		[]columnAlignment{alignLeft, alignRight, alignLeft, alignLeft, alignLeft},
	))
}

func pluralSuffix(n int64, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
