package main

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"grocerylens/internal/grocery"
	"grocerylens/internal/labels"
	"grocerylens/internal/scan"
)

func newScanCommand(ctx *commandContext) *cobra.Command {
	var hint string
	var jsonOut bool
	var add bool
	var quantity int

	cmd := &cobra.Command{
		Use:   "scan IMAGE",
		Short: "Annotate a photo and match it against the list (use - for stdin)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}
			image, err := readImage(cmd, args[0])
			if err != nil {
				return err
			}

			return ctx.withStore(func(store *grocery.Store) error {
				scanner := scan.New(
					newVisionClient(cfg, logger),
					scan.WithItems(store),
					scan.WithRanker(ctx.ranker()),
					scan.WithLogger(logger),
					scan.WithMinSimilarity(cfg.Matching.MinSimilarity),
				)
				result, err := scanner.Scan(cmd.Context(), image, hint)
				if err != nil {
					return err
				}

				var added *grocery.Item
				if add && result.Found() {
					added, err = store.Create(cmd.Context(), scannedItem(result, quantity))
					if err != nil {
						return err
					}
				}

				if jsonOut {
					payload := struct {
						scan.Result
						Added *grocery.Item `json:"added,omitempty"`
					}{Result: result, Added: added}
					return writeJSON(cmd, payload)
				}
				printScan(cmd.OutOrStdout(), result)
				if added != nil {
					fmt.Fprintf(cmd.OutOrStdout(), "Added %q to the list (%s)\n", added.Name, shortID(added.ID))
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&hint, "hint", "", "Word the user typed, tried first when resolving the item")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Output the full scan result as JSON")
	cmd.Flags().BoolVar(&add, "add", false, "Add the recognized item to the list")
	cmd.Flags().IntVarP(&quantity, "quantity", "q", 1, "Quantity used with --add")
	return cmd
}

// scannedItem names a new list item after the resolved specific item when
// there is one, otherwise after the label shown to the user.
func scannedItem(result scan.Result, quantity int) grocery.Item {
	name := result.Specific
	category := result.Category
	if name == "" {
		name = result.Detected
		category = labels.Category(name)
	}
	return grocery.Item{
		Name:     name,
		Quantity: quantity,
		Category: category,
		Source:   grocery.SourceScan,
	}
}

func readImage(cmd *cobra.Command, path string) ([]byte, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(cmd.InOrStdin())
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("read image: %w", err)
	}
	return data, nil
}

func printScan(out io.Writer, result scan.Result) {
	if !result.Found() {
		fmt.Fprintln(out, "Nothing recognized")
		return
	}
	fmt.Fprintf(out, "Detected: %s\n", result.Detected)
	if len(result.Candidates) > 0 {
		fmt.Fprint(out, renderCandidates(result.Candidates))
	}
	printSummary(out, result)
	if len(result.Matches) == 0 {
		fmt.Fprintln(out, "No matching list items")
		return
	}
	rows := make([][]string, 0, len(result.Matches))
	for _, m := range result.Matches {
		rows = append(rows, []string{
			shortID(m.Item.ID),
			m.Item.Name,
			m.Label,
			strconv.FormatFloat(m.Score, 'f', 2, 64),
			yesNo(m.Exact),
		})
	}
	fmt.Fprint(out, renderTable(
		[]string{"ID", "Item", "Matched", "Score", "Exact"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignLeft},
	))
}
