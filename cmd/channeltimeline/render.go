package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/grahamc/nix-channel-monitor/internal/driver"
)

func newRenderCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render the timeline once",
		Long: `Render the timeline once at the given container width.

Use --output - to write the SVG to stdout.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := setup(cmd)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("width") {
				e.cfg.Render.Width, _ = cmd.Flags().GetFloat64("width")
			}
			if v, _ := cmd.Flags().GetString("output"); v != "" {
				e.cfg.Render.Output = v
			}

			d, err := e.driver()
			if err != nil {
				return err
			}
			rep := d.Render()

			out := outputFilename(e.cfg.Data.Path, e.cfg.Render.Output)
			if out == "-" {
				return d.WriteDocument(cmd.OutOrStdout())
			}
			if err := writeSVG(d, out); err != nil {
				return err
			}
			e.logger.Info("Timeline SVG generated", "output", out, "elements", rep.Elements)
			return nil
		},
	}
	cmd.Flags().Float64("width", 0, "Container width in pixels (overrides render.width)")
	cmd.Flags().String("output", "", "Output SVG filename, - for stdout (default: dataset name with .svg)")
	return cmd
}

// writeSVG replaces path with the driver's current scene, going through a
// temporary file so readers never see a partial document.
func writeSVG(d *driver.Driver, path string) error {
	var buf bytes.Buffer
	if err := d.WriteDocument(&buf); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), ".channeltimeline-*.svg")
	if err != nil {
		return fmt.Errorf("error writing SVG file: %w", err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		return fmt.Errorf("error writing SVG file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("error writing SVG file: %w", err)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return fmt.Errorf("error writing SVG file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("error writing SVG file: %w", err)
	}
	return nil
}
