package main

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/grahamc/nix-channel-monitor/internal/channel"
	"github.com/grahamc/nix-channel-monitor/internal/config"
	"github.com/grahamc/nix-channel-monitor/internal/driver"
	"github.com/grahamc/nix-channel-monitor/internal/logging"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "channeltimeline",
		Short:         "Render Nix channel history as an SVG timeline",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().String("config", "", "YAML configuration file (optional)")
	root.PersistentFlags().Bool("debug", false, "Enable debug logging")
	root.PersistentFlags().String("data", "", "History directory or .json/.yaml dataset (overrides data.path)")
	root.PersistentFlags().String("timezone", "", "Time zone for ticks and tooltips (overrides render.timezone)")

	root.AddCommand(newRenderCmd(), newServeCmd(), newWatchCmd(), newVersionCmd())
	return root
}

// env is what every subcommand needs: resolved configuration, a logger and
// the initial dataset.
type env struct {
	cfg      config.Config
	logger   *slog.Logger
	channels []channel.Channel
}

func setup(cmd *cobra.Command) (*env, error) {
	flags := cmd.Flags()
	path, _ := flags.GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("error loading configuration: %w", err)
	}
	if v, _ := flags.GetString("data"); v != "" {
		cfg.Data.Path = v
	}
	if v, _ := flags.GetString("timezone"); v != "" {
		cfg.Render.Timezone = v
	}
	if debug, _ := flags.GetBool("debug"); debug {
		cfg.Log.Level = "debug"
	}

	level, err := logging.ParseLevel(cfg.Log.Level)
	if err != nil {
		return nil, err
	}
	logger := logging.NewWithWriter(cmd.ErrOrStderr(), level)
	logger.Debug("Configuration loaded", "data", cfg.Data.Path, "timezone", cfg.Render.Timezone)

	channels, err := channel.Load(cfg.Data.Path)
	if err != nil {
		return nil, err
	}
	logger.Info("Loaded dataset",
		"path", cfg.Data.Path,
		"channels", len(channels),
		"events", channel.EventCount(channels),
	)
	return &env{cfg: cfg, logger: logger, channels: channels}, nil
}

func (e *env) driver(opts ...driver.Option) (*driver.Driver, error) {
	loc, err := e.cfg.Location()
	if err != nil {
		return nil, err
	}
	base := []driver.Option{
		driver.WithDataset(e.channels),
		driver.WithLocation(loc),
		driver.WithLogger(e.logger),
		driver.WithContainer(driver.NewViewport(e.cfg.Render.Width)),
	}
	return driver.New(append(base, opts...)...), nil
}

// outputFilename returns the SVG file to write. An explicit name wins;
// otherwise the dataset name with an .svg extension is used, so "data.json"
// becomes "data.svg" and a directory "data/" becomes "data.svg".
func outputFilename(dataPath, output string) string {
	if output != "" {
		return output
	}
	base := filepath.Base(filepath.Clean(dataPath))
	return strings.TrimSuffix(base, filepath.Ext(base)) + ".svg"
}
