/*
Package driver runs the render pipeline of a channel timeline.

A Driver is the explicit render context: it owns the dataset, the persistent
scene and the container the scene is drawn into. Every render reads the
container width, lays the dataset out and reconciles the scene against it.

Renders are serialized. Render, Resize, Snapshot and SetDataset may be
called from any goroutine, but only one of them touches the scene at a time,
so the scene has a single writer no matter how many resize notifications
arrive at once.
*/
package driver

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"math"
	"sync"
	"sync/atomic"
	"time"

	"github.com/grahamc/nix-channel-monitor/internal/channel"
	"github.com/grahamc/nix-channel-monitor/internal/layout"
	"github.com/grahamc/nix-channel-monitor/internal/logging"
	"github.com/grahamc/nix-channel-monitor/internal/render"
	"github.com/grahamc/nix-channel-monitor/internal/scene"
)

// Container is the host element the timeline is drawn into.
type Container interface {
	// Width is the available horizontal space in pixels.
	Width() float64
}

// Viewport is a Container whose width follows resize notifications.
type Viewport struct {
	bits atomic.Uint64
}

// NewViewport returns a viewport of the given width.
func NewViewport(width float64) *Viewport {
	v := &Viewport{}
	v.SetWidth(width)
	return v
}

// Width implements Container.
func (v *Viewport) Width() float64 { return math.Float64frombits(v.bits.Load()) }

// SetWidth records a new width.
func (v *Viewport) SetWidth(width float64) { v.bits.Store(math.Float64bits(width)) }

// Option configures a Driver.
type Option func(*Driver)

// WithDataset sets the initial dataset.
func WithDataset(channels []channel.Channel) Option {
	return func(d *Driver) { d.channels = channels }
}

// WithContainer replaces the default viewport. Resize only changes the
// width of containers that have a SetWidth method.
func WithContainer(c Container) Option {
	return func(d *Driver) { d.container = c }
}

// WithLocation sets the time zone of axis ticks and tooltips.
func WithLocation(loc *time.Location) Option {
	return func(d *Driver) { d.planner.Location = loc }
}

// WithLogger sets the logger. Renders are logged at debug level.
func WithLogger(logger *slog.Logger) Option {
	return func(d *Driver) { d.logger = logger }
}

// WithMetrics records render statistics.
func WithMetrics(m *Metrics) Option {
	return func(d *Driver) { d.metrics = m }
}

// WithDebounce sets how long Watch waits for a burst of file changes to
// settle before reloading.
func WithDebounce(delay time.Duration) Option {
	return func(d *Driver) { d.debounce = delay }
}

// Driver owns a timeline scene and re-renders it on demand.
type Driver struct {
	mu        sync.Mutex
	channels  []channel.Channel
	scene     *scene.Scene
	container Container
	planner   layout.Planner
	logger    *slog.Logger
	metrics   *Metrics
	debounce  time.Duration
}

// New returns a driver with an empty scene. Without options it draws an
// empty dataset into a viewport layout.MinWidth pixels wide.
func New(opts ...Option) *Driver {
	d := &Driver{
		scene:     scene.New(),
		container: NewViewport(layout.MinWidth),
		planner:   layout.Planner{Location: time.UTC},
		logger:    logging.NewNop(),
		debounce:  100 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Render draws the current dataset at the current container width.
func (d *Driver) Render() render.Report {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.renderLocked()
}

// Resize records a new container width and renders.
func (d *Driver) Resize(width float64) render.Report {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.resizeLocked(width)
	return d.renderLocked()
}

// SetDataset replaces the dataset used by later renders. The scene is
// not touched until the next render.
func (d *Driver) SetDataset(channels []channel.Channel) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.channels = channels
}

// Dataset returns the current dataset. It must not be modified.
func (d *Driver) Dataset() []channel.Channel {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.channels
}

// View calls fn with the scene while holding the render lock. fn must not
// keep the scene or modify it.
func (d *Driver) View(fn func(s *scene.Scene)) {
	d.mu.Lock()
	defer d.mu.Unlock()
	fn(d.scene)
}

// WriteSVG writes the scene as it is after the last render.
func (d *Driver) WriteSVG(w io.Writer) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.scene.WriteSVG(w)
}

// WriteDocument writes the scene as a standalone SVG file.
func (d *Driver) WriteDocument(w io.Writer) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.scene.WriteDocument(w)
}

// Snapshot resizes to width, renders and returns the resulting markup as
// one atomic step.
func (d *Driver) Snapshot(width float64) ([]byte, render.Report, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.resizeLocked(width)
	rep := d.renderLocked()
	var buf bytes.Buffer
	if err := d.scene.WriteSVG(&buf); err != nil {
		return nil, rep, err
	}
	return buf.Bytes(), rep, nil
}

// Run renders once for every width received on resizes until the channel
// is closed or ctx is done. Widths that queue up while a render is running
// are coalesced and only the latest is drawn.
func (d *Driver) Run(ctx context.Context, resizes <-chan float64) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case width, ok := <-resizes:
			if !ok {
				return nil
			}
			width, ok = latest(resizes, width)
			d.Resize(width)
			if !ok {
				return nil
			}
		}
	}
}

// latest drains the values already queued on ch. ok is false if ch was
// closed while draining.
func latest(ch <-chan float64, width float64) (float64, bool) {
	for {
		select {
		case w, ok := <-ch:
			if !ok {
				return width, false
			}
			width = w
		default:
			return width, true
		}
	}
}

func (d *Driver) resizeLocked(width float64) {
	if r, ok := d.container.(interface{ SetWidth(float64) }); ok {
		r.SetWidth(width)
	}
}

func (d *Driver) renderLocked() render.Report {
	start := time.Now()
	g := d.planner.Compute(d.container.Width(), d.channels)
	rep := render.Reconcile(d.scene, g, d.channels)
	elapsed := time.Since(start)

	d.metrics.observe(rep, elapsed)
	d.logger.Debug("Rendered timeline",
		"width", g.Width,
		"height", g.Height,
		"channels", len(d.channels),
		"entered", rep.Entered,
		"exited", rep.Exited,
		"ticks_entered", rep.TicksEntered,
		"elements", rep.Elements,
		"duration", elapsed,
	)
	return rep
}
