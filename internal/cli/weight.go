package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"vitals/internal/app"
	"vitals/internal/domain"
)

// NewWeightCommand creates the weight command group.
func NewWeightCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "weight",
		Short: "Record and inspect daily weight",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "set <value> <unit>",
		Short: "Set today's weight (unit kg or lb)",
		Example: `  vitals weight set 81.4 kg
  vitals weight set 179.5 lb`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			value, err := strconv.ParseFloat(args[0], 64)
			if err != nil {
				return &domain.ValidationError{Field: "value", Msg: fmt.Sprintf("must be a number, got %q", args[0])}
			}
			svc, err := rootOpts.openServices()
			if err != nil {
				return err
			}
			defer func() { _ = svc.Close() }()

			entry, today, err := svc.weight.RecordWeight(cmd.Context(), value, domain.Unit(args[1]))
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), map[string]any{"today": today, "entry": entry})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "today",
		Short: "Show today's weight",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := rootOpts.openServices()
			if err != nil {
				return err
			}
			defer func() { _ = svc.Close() }()

			today := svc.weight.Today()
			entry, err := svc.weight.GetTodayWeight(cmd.Context(), today)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), map[string]any{"today": today, "entry": entry})
		},
	})

	var limit int
	recent := &cobra.Command{
		Use:   "recent",
		Short: "List recent daily weights, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := rootOpts.openServices()
			if err != nil {
				return err
			}
			defer func() { _ = svc.Close() }()

			items, err := svc.weight.ListRecent(cmd.Context(), limit)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), map[string]any{"items": items})
		},
	}
	recent.Flags().IntVar(&limit, "limit", app.DefaultWeightLimit, "maximum number of entries")
	cmd.AddCommand(recent)

	return cmd
}
