// Package config loads mdstyle settings from YAML and the environment and
// watches the file for changes.
package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes environment overrides, e.g. MDSTYLE_THEME.
const EnvPrefix = "MDSTYLE"

// LocalFile is looked up in the working directory when no user config exists.
const LocalFile = "mdstyle.yaml"

// DefaultTheme is used when no theme is configured.
const DefaultTheme = "default"

// Config is a snapshot of the settings. Values of the wrong shape are dropped
// in favour of the defaults and their keys listed in Ignored.
type Config struct {
	Enabled bool
	Theme   string
	// Styles holds the raw style table; keys are lowercased by viper.
	Styles  map[string]any
	Ignored []string
}

// Loader reads a Config through viper and keeps the latest copy. The viper
// instance is only touched with mu held, so a Loader is safe for concurrent
// use.
type Loader struct {
	path string

	mu  sync.RWMutex
	v   *viper.Viper
	cfg Config
}

// DefaultPath returns the per-user config file location.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "mdstyle", "config.yaml")
}

// Load reads configuration from path. An empty path looks for DefaultPath and
// then LocalFile; when neither exists the defaults are used. Only an
// unreadable or syntactically broken file is an error.
func Load(path string) (*Loader, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	v.SetDefault("enabled", true)
	v.SetDefault("theme", DefaultTheme)

	resolved, err := resolvePath(path)
	if err != nil {
		return nil, err
	}
	if resolved != "" {
		v.SetConfigFile(resolved)
	}
	l := &Loader{v: v, path: resolved}
	if err := l.Reload(); err != nil {
		return nil, err
	}
	return l, nil
}

func resolvePath(path string) (string, error) {
	if path != "" {
		if _, err := os.Stat(path); err != nil {
			return "", fmt.Errorf("config: %w", err)
		}
		return absPath(path), nil
	}
	for _, candidate := range []string{DefaultPath(), LocalFile} {
		if candidate == "" {
			continue
		}
		info, err := os.Stat(candidate)
		if err == nil && !info.IsDir() {
			return absPath(candidate), nil
		}
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("config: %w", err)
		}
	}
	return "", nil
}

func absPath(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	return abs
}

// snapshot reads every setting from viper and keeps the well-typed ones.
// Callers hold l.mu.
func (l *Loader) snapshot() Config {
	cfg := Config{Enabled: true, Theme: DefaultTheme, Styles: map[string]any{}}
	if b, ok := normalizeBool(l.v.Get("enabled")).(bool); ok {
		cfg.Enabled = b
	} else {
		cfg.Ignored = append(cfg.Ignored, "enabled")
	}
	if theme, ok := l.v.Get("theme").(string); ok {
		if theme = strings.TrimSpace(theme); theme != "" {
			cfg.Theme = theme
		}
	} else {
		cfg.Ignored = append(cfg.Ignored, "theme")
	}
	switch styles := l.v.Get("styles").(type) {
	case nil:
	case map[string]any:
		for k, v := range styles {
			cfg.Styles[k] = v
		}
	default:
		cfg.Ignored = append(cfg.Ignored, "styles")
	}
	return cfg
}

// Path returns the config file in use, or "" when running on defaults.
func (l *Loader) Path() string { return l.path }

// Config returns the most recently loaded configuration.
func (l *Loader) Config() Config {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.cfg
}

// Values returns the style table plus the "enabled" switch, in the shape
// mdstyle.ResolveStyles expects.
func (l *Loader) Values() map[string]any {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make(map[string]any, len(l.cfg.Styles)+1)
	for k, v := range l.cfg.Styles {
		out[k] = v
	}
	out["enabled"] = l.cfg.Enabled
	return out
}

// Reload rereads the config file. On error the previous configuration is
// kept.
func (l *Loader) Reload() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.path != "" {
		if err := l.v.ReadInConfig(); err != nil {
			return fmt.Errorf("config: read %s: %w", l.path, err)
		}
	}
	l.cfg = l.snapshot()
	return nil
}

// Watch reloads the configuration whenever the file is written or replaced
// and passes the result to onChange, until ctx is cancelled. The parent
// directory is watched so editors that save by rename are followed. Reload
// errors go to onError and the previous configuration is kept. Watch does
// nothing when no file is in use.
func (l *Loader) Watch(ctx context.Context, onChange func(Config), onError func(error)) error {
	if l.path == "" {
		return nil
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("config: watch: %w", err)
	}
	target := filepath.Clean(l.path)
	if err := fw.Add(filepath.Dir(target)); err != nil {
		_ = fw.Close()
		return fmt.Errorf("config: watch %s: %w", filepath.Dir(target), err)
	}
	report := func(err error) {
		if onError != nil {
			onError(err)
		}
	}
	go func() {
		defer func() { _ = fw.Close() }()
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-fw.Events:
				if !ok {
					return
				}
				if filepath.Clean(ev.Name) != target {
					continue
				}
				if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
					continue
				}
				if err := l.Reload(); err != nil {
					report(err)
					continue
				}
				if onChange != nil {
					onChange(l.Config())
				}
			case err, ok := <-fw.Errors:
				if !ok {
					return
				}
				report(fmt.Errorf("config: watch: %w", err))
			}
		}
	}()
	return nil
}

// normalizeBool turns string values from the environment into booleans and
// leaves anything else as is.
func normalizeBool(v any) any {
	s, ok := v.(string)
	if !ok {
		return v
	}
	b, err := strconv.ParseBool(strings.TrimSpace(s))
	if err != nil {
		return v
	}
	return b
}
