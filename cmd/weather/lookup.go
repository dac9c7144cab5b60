package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/couchcryptid/weather-lookup/internal/app"
	"github.com/couchcryptid/weather-lookup/internal/domain"
	"github.com/couchcryptid/weather-lookup/internal/favorites"
	"github.com/couchcryptid/weather-lookup/internal/search"
)

func searchCommand(c *cli) *cobra.Command {
	var gazetteerOnly bool
	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search places in the national address index and the gazetteer",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			mode := search.ModeHybrid
			if gazetteerOnly {
				mode = search.ModeGazetteer
			}
			results := c.svc.Search(cmd.Context(), strings.Join(args, " "), mode)
			return c.print(cmd.OutOrStdout(), results, func(t *table) {
				t.header("SOURCE", "ID", "NAME", "REGION", "LAT", "LON")
				for _, cand := range results {
					t.row(string(cand.Source), strconv.FormatInt(cand.ID, 10), cand.Name, cand.Admin1, formatFloat(cand.Latitude), formatFloat(cand.Longitude))
				}
			})
		},
	}
	cmd.Flags().BoolVar(&gazetteerOnly, "gazetteer", false, "query the gazetteer only (up to 10 results)")
	return cmd
}

func forecastCommand(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "forecast [<lat> <lon>]",
		Short: "Show current weather, the weekly forecast and sun times",
		Long:  "Show current weather, the weekly forecast and sun times.\nWithout coordinates the default location (" + favorites.Default().Name + ") is used.",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 0 && len(args) != 2 {
				return fmt.Errorf("accepts 0 or 2 arg(s), received %d", len(args))
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			def := favorites.Default()
			lat, lon := def.Latitude, def.Longitude
			if len(args) == 2 {
				var err error
				if lat, lon, err = parseCoords(args[0], args[1]); err != nil {
					return err
				}
			}
			report, err := c.svc.Forecast(cmd.Context(), lat, lon)
			if err != nil {
				return app.ErrForecastUnavailable
			}
			return c.print(cmd.OutOrStdout(), report, func(t *table) {
				t.header("DATE", "WEATHER", "MAX", "MIN")
				t.row("now", report.Current.Description, formatFloat(report.Current.Temperature), "")
				for _, d := range report.Daily {
					t.row(d.Date, d.Description, formatFloat(d.MaxTemp), formatFloat(d.MinTemp))
				}
				if report.Sun != nil {
					t.row("sun", report.Sun.Sunrise.Format("15:04")+" - "+report.Sun.Sunset.Format("15:04"), "", "")
				}
			})
		},
	}
}

func linksCommand(c *cli) *cobra.Command {
	var loc domain.ResolvedLocation
	cmd := &cobra.Command{
		Use:   "links <name>",
		Short: "Print weather provider links for a place",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			loc.Name = args[0]
			out := c.svc.Links(cmd.Context(), loc)
			return c.print(cmd.OutOrStdout(), out, func(t *table) {
				t.header("PROVIDER", "URL")
				for _, l := range out {
					t.row(l.Name, l.URL)
				}
			})
		},
	}
	cmd.Flags().StringVar(&loc.Admin1, "admin1", "", "region label, e.g. 兵庫県")
	cmd.Flags().Float64Var(&loc.Latitude, "lat", 0, "latitude")
	cmd.Flags().Float64Var(&loc.Longitude, "lon", 0, "longitude")
	cmd.Flags().StringVar(&loc.PostalCode, "postal-code", "", "postal code")
	cmd.Flags().StringVar(&loc.Address, "address", "", "street address (city + town)")
	return cmd
}

func parseCoords(latStr, lonStr string) (float64, float64, error) {
	lat, err := strconv.ParseFloat(latStr, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid latitude %q", latStr)
	}
	lon, err := strconv.ParseFloat(lonStr, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid longitude %q", lonStr)
	}
	return lat, lon, nil
}
