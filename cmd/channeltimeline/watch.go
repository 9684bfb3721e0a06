package main

import (
	"context"
	"errors"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/grahamc/nix-channel-monitor/internal/channel"
	"github.com/grahamc/nix-channel-monitor/internal/render"
)

func newWatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Re-render the SVG file whenever the dataset changes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := setup(cmd)
			if err != nil {
				return err
			}
			if v, _ := cmd.Flags().GetString("output"); v != "" {
				e.cfg.Render.Output = v
			}
			out := outputFilename(e.cfg.Data.Path, e.cfg.Render.Output)
			if out == "-" {
				return errors.New("watch needs an output file")
			}

			d, err := e.driver()
			if err != nil {
				return err
			}
			d.Render()
			if err := writeSVG(d, out); err != nil {
				return err
			}
			e.logger.Info("Timeline SVG generated", "output", out)

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			err = d.Watch(ctx, e.cfg.Data.Path, channel.Load, func(rep render.Report) {
				if err := writeSVG(d, out); err != nil {
					e.logger.Error("Failed to write SVG", "output", out, "err", err)
					return
				}
				e.logger.Info("Timeline SVG regenerated", "output", out, "elements", rep.Elements)
			})
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		},
	}
	cmd.Flags().String("output", "", "Output SVG filename (default: dataset name with .svg)")
	return cmd
}
