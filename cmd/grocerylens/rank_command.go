package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"grocerylens/internal/labels"
	"grocerylens/internal/scan"
	"grocerylens/internal/services/vision"
)

func newRankCommand(ctx *commandContext) *cobra.Command {
	var jsonOut bool
	var verbose bool
	var hint string

	cmd := &cobra.Command{
		Use:   "rank FILE",
		Short: "Rank label candidates from a saved annotation (use - for stdin)",
		Long: "Rank reads either a grocerylens annotation document or a raw Cloud Vision\n" +
			"images:annotate response and prints up to five display labels, best first.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			annotation, err := readAnnotation(cmd, args[0])
			if err != nil {
				return err
			}
			result := scan.Analyze(ctx.ranker(), annotation, hint)
			if jsonOut {
				return writeJSON(cmd, result)
			}

			out := cmd.OutOrStdout()
			if len(result.Candidates) == 0 {
				fmt.Fprintln(out, "No labels found")
			} else if verbose {
				fmt.Fprint(out, renderCandidates(result.Candidates))
			} else {
				for i, label := range result.Labels {
					fmt.Fprintf(out, "%d. %s\n", i+1, label)
				}
			}
			if verbose {
				printSummary(out, result)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "Output the full analysis as JSON")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Show scores, sources and the resolved item")
	cmd.Flags().StringVar(&hint, "hint", "", "Word the user typed, tried first when resolving the item")
	return cmd
}

func newResolveCommand(ctx *commandContext) *cobra.Command {
	var hint string
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "resolve FILE",
		Short: "Resolve the specific fruit or vegetable in a saved annotation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			annotation, err := readAnnotation(cmd, args[0])
			if err != nil {
				return err
			}
			item, ok := labels.ResolveSpecific(annotation, hint)
			if jsonOut {
				payload := struct {
					Item     string `json:"item"`
					Category string `json:"category"`
					Found    bool   `json:"found"`
				}{Item: item, Category: labels.Category(item), Found: ok}
				return writeJSON(cmd, payload)
			}
			out := cmd.OutOrStdout()
			if !ok {
				fmt.Fprintln(out, "No specific item resolved")
				return nil
			}
			fmt.Fprintf(out, "%s (%s)\n", item, labels.Category(item))
			return nil
		},
	}

	cmd.Flags().StringVar(&hint, "hint", "", "Word the user typed, tried first")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Output as JSON")
	return cmd
}

func readAnnotation(cmd *cobra.Command, path string) (*labels.AnnotationResult, error) {
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
		return nil, fmt.Errorf("read annotation: %w", err)
	}
	annotation, err := vision.DecodeResult(data)
	if err != nil {
		return nil, fmt.Errorf("decode annotation %s: %w", path, err)
	}
	return annotation, nil
}

func renderCandidates(candidates []labels.Candidate) string {
	rows := make([][]string, 0, len(candidates))
	for i, c := range candidates {
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			c.Text,
			strconv.FormatFloat(c.Score, 'f', 2, 64),
			c.Source.String(),
		})
	}
	return renderTable(
		[]string{"#", "Label", "Score", "Source"},
		rows,
		[]columnAlignment{alignRight, alignLeft, alignRight, alignLeft},
	)
}

func printSummary(out io.Writer, result scan.Result) {
	specific := result.Specific
	if specific == "" {
		specific = "-"
	} else if result.Category != "" {
		specific += " (" + result.Category + ")"
	}
	best := result.Best
	if best == "" {
		best = "-"
	}
	fmt.Fprintf(out, "Specific item: %s\n", specific)
	fmt.Fprintf(out, "Best label:    %s\n", best)
	if strings.TrimSpace(result.SearchURL) != "" {
		fmt.Fprintf(out, "Search:        %s\n", result.SearchURL)
	}
}
