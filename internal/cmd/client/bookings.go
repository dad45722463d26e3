package client

import (
	"github.com/spf13/cobra"

	"github.com/rzbill/tablo/internal/runtime"
)

func addSlotFlags(cmd *cobra.Command) {
	cmd.Flags().String("user", "", "User id (required)")
	cmd.Flags().String("restaurant", "", "Restaurant id (required)")
	cmd.Flags().String("date", "", "Date YYYY-MM-DD (required)")
	cmd.Flags().String("time", "", "Time HH:MM (required)")
	cmd.Flags().Int("party", 2, "Party size")
}

func slotRequest(cmd *cobra.Command) runtime.BookRequest {
	var req runtime.BookRequest
	req.UserID, _ = cmd.Flags().GetString("user")
	req.RestaurantID, _ = cmd.Flags().GetString("restaurant")
	req.Date, _ = cmd.Flags().GetString("date")
	req.Time, _ = cmd.Flags().GetString("time")
	req.TableID, _ = cmd.Flags().GetString("table")
	req.PartySize, _ = cmd.Flags().GetInt("party")
	return req
}

// newBookCommand constructs the guarded `book` command.
func newBookCommand(a *app) *cobra.Command {
	bookCmd := &cobra.Command{
		Use:   "book",
		Short: "Book a table after checking hours, date and availability",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := requireFlags(cmd, "user", "restaurant", "date", "time"); err != nil {
				return err
			}
			req := slotRequest(cmd)
			return a.withRuntime(cmd, func(rt *runtime.Runtime) error {
				b, err := rt.Book(cmd.Context(), req)
				if err != nil {
					return err
				}
				return printJSON(cmd, b)
			})
		},
	}
	addSlotFlags(bookCmd)
	bookCmd.Flags().String("table", "", "Table id; the first free fitting table when empty")
	return bookCmd
}

// newReserveCommand constructs the raw `reserve` command.
func newReserveCommand(a *app) *cobra.Command {
	reserveCmd := &cobra.Command{
		Use:   "reserve",
		Short: "Record a reservation for a table without availability checks",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := requireFlags(cmd, "user", "restaurant", "date", "time", "table"); err != nil {
				return err
			}
			req := slotRequest(cmd)
			return a.withRuntime(cmd, func(rt *runtime.Runtime) error {
				bookingID, err := rt.MakeReservation(cmd.Context(), req.UserID, req.RestaurantID, req.Date, req.Time, req.TableID, req.PartySize)
				if err != nil {
					return err
				}
				return printJSON(cmd, map[string]string{"booking_id": bookingID})
			})
		},
	}
	addSlotFlags(reserveCmd)
	reserveCmd.Flags().String("table", "", "Table id (required)")
	return reserveCmd
}

func newCancelCommand(a *app) *cobra.Command {
	cancelCmd := &cobra.Command{
		Use:   "cancel",
		Short: "Cancel one of the user's active bookings",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := requireFlags(cmd, "user", "booking"); err != nil {
				return err
			}
			userID, _ := cmd.Flags().GetString("user")
			bookingID, _ := cmd.Flags().GetString("booking")
			return a.withRuntime(cmd, func(rt *runtime.Runtime) error {
				ok, err := rt.CancelReservation(cmd.Context(), userID, bookingID)
				if err != nil {
					return err
				}
				return printJSON(cmd, map[string]any{"booking_id": bookingID, "cancelled": ok})
			})
		},
	}
	cancelCmd.Flags().String("user", "", "User id (required)")
	cancelCmd.Flags().String("booking", "", "Booking id (required)")
	return cancelCmd
}

func newHistoryCommand(a *app) *cobra.Command {
	historyCmd := &cobra.Command{
		Use:   "history",
		Short: "List a user's bookings in creation order",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := requireFlags(cmd, "user"); err != nil {
				return err
			}
			userID, _ := cmd.Flags().GetString("user")
			return a.withRuntime(cmd, func(rt *runtime.Runtime) error {
				hist, err := rt.BookingHistory(cmd.Context(), userID)
				if err != nil {
					return err
				}
				return printJSON(cmd, hist)
			})
		},
	}
	historyCmd.Flags().String("user", "", "User id (required)")
	return historyCmd
}

// newBookingCommand constructs the `booking` command group.
func newBookingCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{Use: "booking", Short: "Inspect bookings"}
	cmd.AddCommand(&cobra.Command{
		Use:   "show BOOKING_ID",
		Short: "Show one booking",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withRuntime(cmd, func(rt *runtime.Runtime) error {
				b, err := rt.Booking(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				return printJSON(cmd, b)
			})
		},
	})
	return cmd
}
