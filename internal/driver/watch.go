package driver

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/grahamc/nix-channel-monitor/internal/channel"
	"github.com/grahamc/nix-channel-monitor/internal/render"
)

// Loader reads a dataset from path.
type Loader func(path string) ([]channel.Channel, error)

// Watch reloads the dataset whenever the data source at path changes and
// renders it. path is either a history directory, in which case the
// directory and every channel directory below it is watched and only
// history files and channel directories are considered, or a dataset file,
// in which case its parent directory is watched and only events for the
// file are considered. onRender, when not nil, is called after every
// reload render.
//
// A failed reload is logged and the previous dataset is kept. Watch returns
// when ctx is done.
func (d *Driver) Watch(ctx context.Context, path string, load Loader, onRender func(render.Report)) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("error creating watcher: %w", err)
	}
	defer w.Close()

	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("error watching dataset: %w", err)
	}
	var tree *historyTree
	if info.IsDir() {
		tree = &historyTree{root: filepath.Clean(path), dirs: map[string]bool{}}
		if err := tree.add(w); err != nil {
			return err
		}
	} else if err := w.Add(filepath.Dir(path)); err != nil {
		return fmt.Errorf("error watching dataset: %w", err)
	}
	d.logger.Info("Watching dataset", "path", path)

	var pending <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if tree == nil {
				if filepath.Clean(ev.Name) != filepath.Clean(path) {
					continue
				}
			} else if !tree.changed(w, ev, d.logger) {
				continue
			}
			d.logger.Debug("Dataset changed", "path", ev.Name, "op", ev.Op.String())
			pending = time.After(d.debounce)

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			d.logger.Warn("Watcher error", "err", err)

		case <-pending:
			pending = nil
			channels, err := load(path)
			if err != nil {
				d.logger.Error("Failed to reload dataset", "path", path, "err", err)
				continue
			}
			d.SetDataset(channels)
			rep := d.Render()
			d.logger.Info("Reloaded dataset",
				"channels", len(channels),
				"events", channel.EventCount(channels),
				"entered", rep.Entered,
				"exited", rep.Exited,
			)
			if onRender != nil {
				onRender(rep)
			}
		}
	}
}

// historyTree tracks the directories of a watched history directory: the
// root and one directory per channel.
type historyTree struct {
	root string
	dirs map[string]bool
}

func (t *historyTree) add(w *fsnotify.Watcher) error {
	if err := w.Add(t.root); err != nil {
		return fmt.Errorf("error watching dataset: %w", err)
	}
	entries, err := os.ReadDir(t.root)
	if err != nil {
		return fmt.Errorf("error watching dataset: %w", err)
	}
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		dir := filepath.Join(t.root, e.Name())
		if err := w.Add(dir); err != nil {
			return fmt.Errorf("error watching dataset: %w", err)
		}
		t.dirs[dir] = true
	}
	return nil
}

// changed reports whether ev can change the loaded dataset. Only history
// files inside channel directories and channel directories appearing or
// disappearing count, so other files written under the root, like a
// rendered SVG, do not trigger a reload.
func (t *historyTree) changed(w *fsnotify.Watcher, ev fsnotify.Event, logger *slog.Logger) bool {
	name := filepath.Clean(ev.Name)
	parent := filepath.Dir(name)

	if parent == t.root {
		switch {
		case ev.Has(fsnotify.Create):
			fi, err := os.Stat(name)
			if err != nil || !fi.IsDir() {
				return false
			}
			if err := w.Add(name); err != nil {
				logger.Warn("Failed to watch channel directory", "path", name, "err", err)
			}
			t.dirs[name] = true
			return true
		case ev.Has(fsnotify.Remove), ev.Has(fsnotify.Rename):
			if !t.dirs[name] {
				return false
			}
			delete(t.dirs, name)
			return true
		}
		return false
	}

	if !t.dirs[parent] {
		return false
	}
	base := filepath.Base(name)
	return base == channel.HistoryFilename || base == channel.HistoryV2Filename
}
