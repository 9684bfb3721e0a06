/*
Command channeltimeline renders the advancement history of Nix channels as
an SVG timeline: one row per channel, one clickable point per commit the
channel advanced to, on a shared time axis.

Usage:

	channeltimeline render --data data/ --width 1200 --output channels.svg
	channeltimeline serve --data data/ --addr :8080
	channeltimeline watch --data data/ --output channels.svg

The dataset is either the directory maintained by the channel monitor (one
subdirectory per channel holding a "history" file) or a JSON/YAML file.
*/
package main

import (
	"context"
	"fmt"
	"os"
)

// Version is set at build time.
var Version = "dev"

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
