// Package config loads the runtime configuration of the timeline renderer.
//
// Only the surroundings of a render are configurable: where the dataset
// comes from, where output goes, the time zone ticks and tooltips are shown
// in, and the server address. The layout constants themselves are fixed.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config maps directly to the YAML configuration file.
type Config struct {
	Data struct {
		Path string `yaml:"path"` // History directory or .json/.yaml dataset file
	} `yaml:"data"`
	Render struct {
		Width    float64 `yaml:"width"`    // Container width for one-shot renders, in pixels
		Timezone string  `yaml:"timezone"` // IANA zone for axis ticks and tooltips, "Local" or "UTC"
		Output   string  `yaml:"output"`   // Output SVG filename; empty writes to stdout
	} `yaml:"render"`
	Server struct {
		Addr string `yaml:"addr"` // Listen address of the HTTP server
	} `yaml:"server"`
	Log struct {
		Level string `yaml:"level"` // debug, info, warn or error
	} `yaml:"log"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	var c Config
	c.Data.Path = "data"
	c.Render.Width = 1200
	c.Render.Timezone = "UTC"
	c.Server.Addr = ":8080"
	c.Log.Level = "info"
	return c
}

// Load reads configuration from a YAML file, or returns Default when
// path is empty. Keys absent from the file keep their default values.
func Load(path string) (Config, error) {
	config := Default()
	if path == "" {
		return config, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("error reading config file: %w", err)
	}
	if err := yaml.Unmarshal(data, &config); err != nil {
		return Config{}, fmt.Errorf("error parsing config file: %w", err)
	}
	if _, err := config.Location(); err != nil {
		return Config{}, err
	}
	return config, nil
}

// Location resolves Render.Timezone.
func (c Config) Location() (*time.Location, error) {
	switch c.Render.Timezone {
	case "", "UTC":
		return time.UTC, nil
	case "Local":
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Render.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid render.timezone: %w", err)
	}
	return loc, nil
}
