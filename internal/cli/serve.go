package cli

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	adapthttp "vitals/internal/adapter/http"
	"vitals/internal/scheduler"
)

// NewServeCommand creates the serve command.
func NewServeCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the JSON API and web UI",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return runServe(ctx, rootOpts)
		},
	}
}

func runServe(ctx context.Context, opts *RootOptions) error {
	cfg := opts.cfg
	svc, err := opts.openServices()
	if err != nil {
		return err
	}
	defer func() { _ = svc.Close() }()

	if cfg.DigestEnabled {
		sched := scheduler.New(svc.weight, svc.water, cfg.Calendar(), cfg.DigestAt)
		if err := sched.Start(); err != nil {
			return err
		}
		defer sched.Stop()
	}

	srv := &http.Server{
		Addr:    cfg.Addr,
		Handler: adapthttp.New(svc.weight, svc.water, svc.charts, cfg.WebDir).Handler(),
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("listening on %s (db=%s, tz=%s)", cfg.Addr, cfg.DBDriver, cfg.Location)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	log.Printf("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return nil
}
