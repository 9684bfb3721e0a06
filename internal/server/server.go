// Package server serves a live channel timeline over HTTP.
//
// The host page measures its container and requests the timeline at that
// width, again after every window resize. Each request is one render of the
// shared scene at the requested width.
package server

import (
	"html/template"
	"log/slog"
	"math"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/grahamc/nix-channel-monitor/internal/render"
)

// Renderer renders the timeline at a container width.
type Renderer interface {
	Snapshot(width float64) ([]byte, render.Report, error)
}

// Options configures the handler.
type Options struct {
	// DefaultWidth is used when a request has no width parameter.
	DefaultWidth float64
	// Gatherer backs /metrics. Nil disables the endpoint.
	Gatherer prometheus.Gatherer
	Logger   *slog.Logger
}

type server struct {
	renderer Renderer
	opts     Options
}

// NewHandler creates the HTTP handler for a renderer.
func NewHandler(renderer Renderer, opts Options) http.Handler {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	s := &server{renderer: renderer, opts: opts}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Get("/", s.handleIndex)
	r.Get("/timeline.svg", s.handleTimeline)
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok\n"))
	})
	if opts.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(opts.Gatherer, promhttp.HandlerOpts{}))
	}
	return r
}

func (s *server) handleTimeline(w http.ResponseWriter, r *http.Request) {
	width := s.opts.DefaultWidth
	if raw := r.URL.Query().Get("width"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil || v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			http.Error(w, "width must be a non-negative number", http.StatusBadRequest)
			return
		}
		width = v
	}

	svg, rep, err := s.renderer.Snapshot(width)
	if err != nil {
		s.opts.Logger.Error("Failed to render timeline", "err", err)
		http.Error(w, "Failed to render timeline", http.StatusInternalServerError)
		return
	}
	s.opts.Logger.Debug("Served timeline", "width", width, "elements", rep.Elements)

	w.Header().Set("Content-Type", "image/svg+xml")
	w.Header().Set("Cache-Control", "no-store")
	w.Write(svg)
}

func (s *server) handleIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := indexTemplate.Execute(w, nil); err != nil {
		s.opts.Logger.Error("Failed to render index", "err", err)
	}
}

var indexTemplate = template.Must(template.New("index").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="utf-8" />
    <meta name="viewport" content="width=device-width, initial-scale=1" />
    <title>Nix channel history</title>
    <style>
        body { font-family: sans-serif; margin: 1em; }
        #container { width: 100%; overflow-x: auto; }
        .row__point circle { cursor: pointer; }
    </style>
</head>
<body>
    <h1>Nix channel history</h1>
    <div id="container"></div>
    <script>
    const container = document.getElementById("container");
    let pending = null;
    async function render() {
        const width = Math.floor(container.getBoundingClientRect().width);
        const resp = await fetch("timeline.svg?width=" + width);
        if (resp.ok) {
            container.innerHTML = await resp.text();
        }
    }
    render();
    window.addEventListener("resize", () => {
        clearTimeout(pending);
        pending = setTimeout(render, 100);
    });
    </script>
</body>
</html>
`))
