package cmd

import (
	"fmt"
	"io"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"movie-tickets-cli/model"
	"movie-tickets-cli/store"
)

func newBookingsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "bookings",
		Short: "List booked tickets, most recent first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			bookings, err := store.LoadBookings()
			if err != nil {
				return fmt.Errorf("load bookings: %w", err)
			}
			renderBookings(cmd.OutOrStdout(), bookings)
			return nil
		},
	}
}

func renderBookings(out io.Writer, bookings []model.Booking) {
	if len(bookings) == 0 {
		fmt.Fprintln(out, "No bookings yet.")
		return
	}

	t := table.NewWriter()
	t.SetOutputMirror(out)
	t.AppendHeader(table.Row{"Code", "Movie", "Day", "Time", "Booked At"})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, WidthMax: 30},
	})
	for _, b := range bookings {
		t.AppendRow(table.Row{
			b.Code,
			b.MovieTitle,
			b.Day,
			b.Time,
			b.BookedAt.Local().Format(time.DateTime),
		})
	}
	t.Render()
}
