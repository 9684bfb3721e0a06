package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/grahamc/nix-channel-monitor/internal/channel"
	"github.com/grahamc/nix-channel-monitor/internal/driver"
	"github.com/grahamc/nix-channel-monitor/internal/server"
)

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the live timeline over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := setup(cmd)
			if err != nil {
				return err
			}
			if v, _ := cmd.Flags().GetString("addr"); v != "" {
				e.cfg.Server.Addr = v
			}

			reg := prometheus.NewRegistry()
			reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
			d, err := e.driver(driver.WithMetrics(driver.NewMetrics(reg)))
			if err != nil {
				return err
			}
			d.Render()

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			if watch, _ := cmd.Flags().GetBool("watch"); watch {
				go func() {
					if err := d.Watch(ctx, e.cfg.Data.Path, channel.Load, nil); err != nil && !errors.Is(err, context.Canceled) {
						e.logger.Error("Dataset watch stopped", "err", err)
					}
				}()
			}

			srv := &http.Server{
				Addr: e.cfg.Server.Addr,
				Handler: server.NewHandler(d, server.Options{
					DefaultWidth: e.cfg.Render.Width,
					Gatherer:     reg,
					Logger:       e.logger,
				}),
				ReadHeaderTimeout: 10 * time.Second,
			}
			errc := make(chan error, 1)
			go func() { errc <- srv.ListenAndServe() }()
			e.logger.Info("Serving timeline", "addr", e.cfg.Server.Addr)

			select {
			case err := <-errc:
				return fmt.Errorf("error serving: %w", err)
			case <-ctx.Done():
			}
			e.logger.Info("Shutting down")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	}
	cmd.Flags().String("addr", "", "Listen address (overrides server.addr)")
	cmd.Flags().Bool("watch", true, "Reload the dataset when it changes")
	return cmd
}
