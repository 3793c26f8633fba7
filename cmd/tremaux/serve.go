package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	httpAdapter "github.com/aretw0/tremaux/pkg/adapters/http"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP decision service",
	Long: `Starts the decision service: remote maze hosts open a session per robot,
post one sensor reading per tick and apply the returned commands. Routes are
persisted to the configured store when a host reports the end of an attempt.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := storeConfig(flagString(cmd, "store"))
		if cmd.Flags().Changed("addr") {
			cfg.Server.Addr = flagString(cmd, "addr")
		}
		logger := app.logger

		manager, closeStore, err := openRoutes(cfg)
		if err != nil {
			return err
		}
		defer func() { _ = closeStore() }()

		reg := prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

		server := httpAdapter.NewServer(manager,
			httpAdapter.WithLogger(logger),
			httpAdapter.WithRegistry(reg),
			httpAdapter.WithLedgerCapacity(cfg.Engine.LedgerCapacity),
		)
		srv := &http.Server{
			Addr:    cfg.Server.Addr,
			Handler: server.Handler(),
		}

		serverErrors := make(chan error, 1)
		go func() {
			logger.Info("starting tremaux server", "addr", srv.Addr, "store", cfg.Store.Driver)
			serverErrors <- srv.ListenAndServe()
		}()

		shutdown := make(chan os.Signal, 1)
		signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)
		defer signal.Stop(shutdown)

		select {
		case err := <-serverErrors:
			if errors.Is(err, http.ErrServerClosed) {
				return nil
			}
			return fmt.Errorf("server error: %w", err)

		case sig := <-shutdown:
			logger.Info("shutting down", "signal", sig.String())

			ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
			defer cancel()

			if err := srv.Shutdown(ctx); err != nil {
				logger.Warn("graceful shutdown did not complete", "timeout", cfg.Server.ShutdownTimeout, "error", err)
				if err := srv.Close(); err != nil {
					return fmt.Errorf("killing server: %w", err)
				}
			}
			logger.Info("tremaux server stopped gracefully")
			return nil
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("addr", "", "Listen address (overrides config, default :8080)")
}
