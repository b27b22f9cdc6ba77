package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"vitals/internal/app"
	"vitals/internal/domain"
)

// NewWaterCommand creates the water command group.
func NewWaterCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "water",
		Short: "Record and inspect water intake",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "add <liters>",
		Short: "Append a water event (negative values correct earlier entries)",
		Example: `  vitals water add 0.5
  vitals water add -- -0.25`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			delta, err := strconv.ParseFloat(args[0], 64)
			if err != nil {
				return &domain.ValidationError{Field: "deltaLiters", Msg: fmt.Sprintf("must be a number, got %q", args[0])}
			}
			svc, err := rootOpts.openServices()
			if err != nil {
				return err
			}
			defer func() { _ = svc.Close() }()

			id, err := svc.water.RecordEvent(cmd.Context(), delta)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), map[string]any{"id": id})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "today",
		Short: "Show today's water total in liters",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := rootOpts.openServices()
			if err != nil {
				return err
			}
			defer func() { _ = svc.Close() }()

			today := svc.water.Today()
			total, err := svc.water.GetTodayTotal(cmd.Context(), today)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), map[string]any{"today": today, "totalLiters": total})
		},
	})

	var limit int
	recent := &cobra.Command{
		Use:   "recent",
		Short: "List recent water events, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := rootOpts.openServices()
			if err != nil {
				return err
			}
			defer func() { _ = svc.Close() }()

			items, err := svc.water.ListRecent(cmd.Context(), limit)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), map[string]any{"items": items})
		},
	}
	recent.Flags().IntVar(&limit, "limit", app.DefaultWaterLimit, "maximum number of events")
	cmd.AddCommand(recent)

	cmd.AddCommand(&cobra.Command{
		Use:   "undo",
		Short: "Delete the most recent water event",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := rootOpts.openServices()
			if err != nil {
				return err
			}
			defer func() { _ = svc.Close() }()

			undone, id, err := svc.water.UndoLast(cmd.Context())
			if err != nil {
				return err
			}
			if !undone {
				return printJSON(cmd.OutOrStdout(), map[string]any{"undone": false})
			}
			return printJSON(cmd.OutOrStdout(), map[string]any{"undone": true, "id": id})
		},
	})

	return cmd
}
