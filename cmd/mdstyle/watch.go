package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"github.com/muesli/termenv"
	"pkt.systems/mdstyle"
	"pkt.systems/mdstyle/internal/config"
)

type watchRequest struct {
	args    []string
	opts    options
	writer  io.Writer
	painter *mdstyle.Painter
	styler  *mdstyle.Styler
	loader  *config.Loader
	logger  *slog.Logger
	// explicit is the --theme flag; when set, config reloads keep that theme.
	explicit string
}

// rerenderer redraws the document after file or config changes. Calls are
// serialised because debounced calls run on timer goroutines.
type rerenderer struct {
	req           watchRequest
	mu            sync.Mutex
	configChanged atomic.Bool
}

func (r *rerenderer) markConfigChanged() {
	r.configChanged.Store(true)
}

func (r *rerenderer) render() {
	r.mu.Lock()
	defer r.mu.Unlock()
	req := r.req
	text, err := readDocument(req.args)
	if err != nil {
		req.logger.Warn("reread input failed", "err", err)
		return
	}
	req.painter.SetDocument(text, true)
	if r.configChanged.Swap(false) {
		if req.explicit == "" {
			name := req.loader.Config().Theme
			if theme, ok := mdstyle.ThemeByName(name); ok {
				req.painter.SetTheme(theme)
			} else {
				req.logger.Warn("unknown theme in config, keeping current", "theme", name)
			}
		}
		req.styler.OnConfigurationChanged()
	} else {
		req.styler.Redraw()
	}
	if err := resetOutput(req.writer); err != nil {
		req.logger.Warn("reset output failed", "err", err)
	}
	if err := writeDocument(req.writer, req.painter, req.opts.format); err != nil {
		req.logger.Warn("render failed", "err", err)
		return
	}
	req.logger.Debug("re-rendered", "bytes", len(text))
}

// resetOutput clears a terminal or truncates a regular file so the next render
// replaces the previous one.
func resetOutput(w io.Writer) error {
	f, ok := w.(*os.File)
	if !ok {
		return nil
	}
	if isTerminal(f) {
		termenv.NewOutput(f).ClearScreen()
		return nil
	}
	if err := f.Truncate(0); err != nil {
		return fmt.Errorf("truncate: %w", err)
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return fmt.Errorf("seek: %w", err)
	}
	return nil
}

// watch re-renders whenever an input file or the config file changes, until
// ctx is cancelled. Parent directories are watched so editors that replace
// files on save are followed.
func watch(ctx context.Context, req watchRequest) error {
	paths, err := watchPaths(req.args)
	if err != nil {
		return usageError{err}
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watch: %w", err)
	}
	defer func() { _ = fw.Close() }()

	targets := make(map[string]struct{}, len(paths))
	dirs := make(map[string]struct{}, len(paths))
	for _, p := range paths {
		targets[filepath.Clean(p)] = struct{}{}
		dirs[filepath.Dir(p)] = struct{}{}
	}
	for dir := range dirs {
		if err := fw.Add(dir); err != nil {
			return fmt.Errorf("watch %s: %w", dir, err)
		}
	}

	r := &rerenderer{req: req}
	deb := mdstyle.NewDebouncer(req.opts.debounce, r.render)
	defer deb.Stop()
	err = req.loader.Watch(ctx, func(cfg config.Config) {
		logIgnored(req.logger, cfg)
		r.markConfigChanged()
		deb.Trigger()
	}, func(err error) {
		req.logger.Warn("config reload failed", "err", err)
	})
	if err != nil {
		return err
	}
	req.logger.Debug("watching", "files", paths, "config", req.loader.Path())

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if _, hit := targets[filepath.Clean(ev.Name)]; !hit {
				continue
			}
			if ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) || ev.Has(fsnotify.Rename) {
				req.logger.Debug("input changed", "file", ev.Name, "op", ev.Op.String())
				deb.Trigger()
			}
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			req.logger.Warn("watch error", "err", err)
		}
	}
}
