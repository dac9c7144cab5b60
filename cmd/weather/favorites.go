package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/couchcryptid/weather-lookup/internal/domain"
	"github.com/couchcryptid/weather-lookup/internal/favorites"
	"github.com/couchcryptid/weather-lookup/internal/search"
)

func favoritesCommand(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "favorites",
		Short: "List and edit favorite places",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List fixed and user favorites",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return c.printFavorites(cmd)
			},
		},
		&cobra.Command{
			Use:   "toggle <query>",
			Short: "Toggle the first search result as a favorite",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				results := c.svc.Search(cmd.Context(), args[0], search.ModeHybrid)
				if len(results) == 0 {
					return fmt.Errorf("no place found for %q", args[0])
				}
				loc := c.svc.Select(cmd.Context(), results[0])
				fav, err := c.svc.Favorites().Toggle(cmd.Context(), loc)
				if err != nil {
					return err
				}
				state := "removed from"
				if fav {
					state = "added to"
				}
				if favorites.IsFixed(loc) {
					state = "fixed in"
				}
				fmt.Fprintf(cmd.ErrOrStderr(), "%s %s favorites\n", loc.Name, state)
				return c.printFavorites(cmd)
			},
		},
		&cobra.Command{
			Use:   "remove <name> <admin1>",
			Short: "Remove a user favorite",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				store := c.svc.Favorites()
				target := domain.ResolvedLocation{Candidate: domain.Candidate{Name: args[0], Admin1: args[1]}}
				for _, e := range store.UserEntries() {
					if e.SameFavorite(target) {
						if _, err := store.Remove(cmd.Context(), e); err != nil {
							return err
						}
						return c.printFavorites(cmd)
					}
				}
				return fmt.Errorf("%s (%s) is not a user favorite", args[0], args[1])
			},
		},
	)
	return cmd
}

func (c *cli) printFavorites(cmd *cobra.Command) error {
	all := c.svc.Favorites().List()
	return c.print(cmd.OutOrStdout(), all, func(t *table) {
		t.header("NAME", "REGION", "POSTAL", "ADDRESS", "FIXED")
		for _, f := range all {
			fixed := ""
			if favorites.IsFixed(f) {
				fixed = "yes"
			}
			t.row(f.Name, f.Admin1, f.PostalCode, f.Address, fixed)
		}
	})
}
