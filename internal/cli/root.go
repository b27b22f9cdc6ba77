// Package cli implements the vitals command line.
package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"vitals/internal/adapter/memory"
	"vitals/internal/adapter/postgres"
	"vitals/internal/adapter/sqlite"
	"vitals/internal/app"
	"vitals/internal/config"
	"vitals/internal/domain"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Addr     string
	DBDriver string
	DBPath   string

	cfg *config.Config
}

// NewRootCommand creates the root command for the vitals CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "vitals",
		Short: "Personal weight and water tracker",
		Long: `Track a daily body weight and an append-only water intake ledger.

Run "vitals serve" for the HTTP API, or use the weight and water
subcommands against the same store directly.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(map[string]string{
				"ADDR":      opts.Addr,
				"DB_DRIVER": opts.DBDriver,
				"DB_PATH":   opts.DBPath,
			})
			if err != nil {
				return err
			}
			opts.cfg = cfg
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&opts.Addr, "addr", "", "listen address (overrides ADDR)")
	cmd.PersistentFlags().StringVar(&opts.DBDriver, "db-driver", "", "storage driver: sqlite, postgres or memory (overrides DB_DRIVER)")
	cmd.PersistentFlags().StringVar(&opts.DBPath, "db-path", "", "SQLite file path (overrides DB_PATH)")

	cmd.AddCommand(NewServeCommand(opts))
	cmd.AddCommand(NewWeightCommand(opts))
	cmd.AddCommand(NewWaterCommand(opts))

	return cmd
}

// OpenStore opens the storage backend selected by cfg.
func OpenStore(cfg *config.Config) (domain.Store, error) {
	cal := cfg.Calendar()
	switch cfg.DBDriver {
	case config.DriverSQLite:
		db, err := sqlite.Open(cfg.DBPath, cal)
		if err != nil {
			return nil, err
		}
		return db, nil
	case config.DriverPostgres:
		db, err := postgres.Open(cfg.DatabaseURL, cal)
		if err != nil {
			return nil, err
		}
		return db, nil
	case config.DriverMemory:
		return memory.New(cal), nil
	default:
		return nil, fmt.Errorf("unknown db driver %q", cfg.DBDriver)
	}
}

// services bundles the application services over one store.
type services struct {
	store  domain.Store
	weight *app.WeightService
	water  *app.WaterService
	charts *app.ChartsService
}

func (o *RootOptions) openServices() (*services, error) {
	st, err := OpenStore(o.cfg)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	cal := o.cfg.Calendar()
	opt := app.WithMaxWaterDelta(o.cfg.MaxWaterDelta)
	return &services{
		store:  st,
		weight: app.NewWeightService(st, cal, opt),
		water:  app.NewWaterService(st, cal, opt),
		charts: app.NewChartsService(st, st, cal, opt),
	}, nil
}

func (s *services) Close() error {
	return s.store.Close()
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
