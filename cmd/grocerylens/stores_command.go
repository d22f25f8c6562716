package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"grocerylens/internal/services/places"
)

func newStoresCommand(ctx *commandContext) *cobra.Command {
	var query places.Query
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "stores",
		Short: "Find grocery stores near a location",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}
			result, err := newPlacesClient(cfg, logger).Nearby(cmd.Context(), query)
			if err != nil {
				return err
			}
			if jsonOut {
				return writeJSON(cmd, result)
			}

			out := cmd.OutOrStdout()
			if len(result.Places) == 0 {
				msg := "No stores found"
				if result.Status != "" && result.Status != "OK" {
					msg += " (" + result.Status
					if strings.TrimSpace(result.ErrorMessage) != "" {
						msg += ": " + result.ErrorMessage
					}
					msg += ")"
				}
				fmt.Fprintln(out, msg)
				return nil
			}
			rows := make([][]string, 0, len(result.Places))
			for _, p := range result.Places {
				rows = append(rows, []string{
					p.Name,
					p.Vicinity,
					strconv.FormatFloat(p.Latitude, 'f', 5, 64) + ", " + strconv.FormatFloat(p.Longitude, 'f', 5, 64),
				})
			}
			fmt.Fprint(out, renderTable(
				[]string{"Name", "Address", "Location"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft},
			))
			return nil
		},
	}

	cmd.Flags().StringVar(&query.Lat, "lat", "", "Latitude")
	cmd.Flags().StringVar(&query.Lng, "lng", "", "Longitude")
	cmd.Flags().StringVar(&query.Radius, "radius", "", "Search radius in meters, or \"distance\" to sort by distance")
	cmd.Flags().StringVar(&query.Keyword, "keyword", "", "Search keyword (defaults to config)")
	cmd.Flags().StringVar(&query.Type, "type", "", "Place type (defaults to config)")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Output as JSON")
	_ = cmd.MarkFlagRequired("lat")
	_ = cmd.MarkFlagRequired("lng")
	return cmd
}
