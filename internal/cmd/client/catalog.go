package client

import (
	"github.com/spf13/cobra"

	"github.com/rzbill/tablo/internal/model"
	"github.com/rzbill/tablo/internal/query"
	"github.com/rzbill/tablo/internal/runtime"
)

// newRestaurantsCommand constructs the `restaurants` command group.
func newRestaurantsCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{Use: "restaurants", Short: "Browse restaurants"}
	cmd.AddCommand(newRestaurantsListCommand(a), newRestaurantsShowCommand(a))
	return cmd
}

func newRestaurantsListCommand(a *app) *cobra.Command {
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List restaurants, optionally filtered",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cuisine, _ := cmd.Flags().GetString("cuisine")
			search, _ := cmd.Flags().GetString("search")
			where, _ := cmd.Flags().GetString("where")
			var criteria query.Criteria
			criteria.Cuisine = cuisine
			if cmd.Flags().Changed("min-rating") {
				minRating, _ := cmd.Flags().GetFloat64("min-rating")
				criteria.MinRating = &minRating
			}

			return a.withRuntime(cmd, func(rt *runtime.Runtime) error {
				out := rt.FilterRestaurants(criteria)
				if search != "" {
					out = intersect(out, rt.SearchRestaurants(search))
				}
				if where != "" {
					matched, err := rt.WhereRestaurants(where)
					if err != nil {
						return err
					}
					out = intersect(out, matched)
				}
				return printJSON(cmd, out)
			})
		},
	}
	listCmd.Flags().String("cuisine", "", "Cuisine type (case-insensitive exact match)")
	listCmd.Flags().Float64("min-rating", 0, "Minimum rating, inclusive")
	listCmd.Flags().String("search", "", "Substring of name, cuisine or location")
	listCmd.Flags().String("where", "", "CEL filter, e.g. 'rating >= 4.5 && 6 in tables'")
	return listCmd
}

// intersect keeps the restaurants of a that also appear in b, in a's order.
func intersect(a, b []model.Restaurant) []model.Restaurant {
	keep := make(map[string]struct{}, len(b))
	for _, r := range b {
		keep[r.ID] = struct{}{}
	}
	out := []model.Restaurant{}
	for _, r := range a {
		if _, ok := keep[r.ID]; ok {
			out = append(out, r)
		}
	}
	return out
}

func newRestaurantsShowCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show RESTAURANT_ID",
		Short: "Show one restaurant",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withRuntime(cmd, func(rt *runtime.Runtime) error {
				r, err := rt.Restaurant(args[0])
				if err != nil {
					return err
				}
				return printJSON(cmd, r.Info())
			})
		},
	}
}

func newCuisinesCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "cuisines",
		Short: "List distinct cuisine types",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withRuntime(cmd, func(rt *runtime.Runtime) error {
				return printJSON(cmd, rt.CuisineTypes())
			})
		},
	}
}

// newUsersCommand constructs the `users` command group.
func newUsersCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{Use: "users", Short: "Users"}
	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List users",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withRuntime(cmd, func(rt *runtime.Runtime) error {
				return printJSON(cmd, rt.Users())
			})
		},
	})
	return cmd
}

func newSlotsCommand(a *app) *cobra.Command {
	slotsCmd := &cobra.Command{
		Use:   "slots",
		Short: "List bookable times for a restaurant and date",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := requireFlags(cmd, "restaurant", "date"); err != nil {
				return err
			}
			restaurantID, _ := cmd.Flags().GetString("restaurant")
			date, _ := cmd.Flags().GetString("date")
			return a.withRuntime(cmd, func(rt *runtime.Runtime) error {
				slots, err := rt.TimeSlots(restaurantID, date)
				if err != nil {
					return err
				}
				return printJSON(cmd, slots)
			})
		},
	}
	slotsCmd.Flags().String("restaurant", "", "Restaurant id (required)")
	slotsCmd.Flags().String("date", "", "Date YYYY-MM-DD (required)")
	return slotsCmd
}

func newTablesCommand(a *app) *cobra.Command {
	tablesCmd := &cobra.Command{
		Use:   "tables",
		Short: "List free tables for a party at a slot",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := requireFlags(cmd, "restaurant", "date", "time"); err != nil {
				return err
			}
			restaurantID, _ := cmd.Flags().GetString("restaurant")
			date, _ := cmd.Flags().GetString("date")
			clock, _ := cmd.Flags().GetString("time")
			party, _ := cmd.Flags().GetInt("party")
			return a.withRuntime(cmd, func(rt *runtime.Runtime) error {
				tables, err := rt.AvailableTables(cmd.Context(), restaurantID, date, clock, party)
				if err != nil {
					return err
				}
				return printJSON(cmd, tables)
			})
		},
	}
	tablesCmd.Flags().String("restaurant", "", "Restaurant id (required)")
	tablesCmd.Flags().String("date", "", "Date YYYY-MM-DD (required)")
	tablesCmd.Flags().String("time", "", "Time HH:MM (required)")
	tablesCmd.Flags().Int("party", 2, "Party size")
	return tablesCmd
}
