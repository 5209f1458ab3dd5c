package mdstyle

import (
	"log/slog"
	"sync"
)

// Surface is the rendering collaborator a Styler paints onto.
type Surface interface {
	// Document returns the text of the active document. ok is false when no
	// document is active or it is not Markdown.
	Document() (text string, ok bool)
	// Apply replaces every span previously applied for c.
	Apply(c Category, style Style, spans []Span)
}

// ConfigSource supplies raw style configuration, keyed by category name.
type ConfigSource interface {
	Values() map[string]any
}

// ConfigMap is a static ConfigSource.
type ConfigMap map[string]any

// Values implements ConfigSource.
func (m ConfigMap) Values() map[string]any { return m }

// Styler maps classification results onto a Surface using configured styles.
type Styler struct {
	mu      sync.Mutex
	surface Surface
	source  ConfigSource
	logger  *slog.Logger
	enabled bool
	styles  StyleConfig
}

// New returns a Styler painting onto surface. A nil surface makes every
// operation a no-op.
func New(surface Surface, opts ...Option) *Styler {
	cfg := stylerConfig{enabled: true}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	logger := cfg.logger
	if logger == nil {
		logger = discardLogger()
	}
	s := &Styler{
		surface: surface,
		source:  cfg.source,
		logger:  logger,
		enabled: cfg.enabled,
	}
	s.styles = s.loadStyles()
	return s
}

// Enabled reports whether styling is switched on.
func (s *Styler) Enabled() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.enabled
}

// Styles returns the current style configuration.
func (s *Styler) Styles() StyleConfig {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.styles
}

// SetEnabled switches styling on or off. Switching off clears every applied
// span and keeps the configuration; switching on redraws the active document.
func (s *Styler) SetEnabled(enabled bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.setEnabledLocked(enabled)
}

// Toggle flips the enabled state and returns the new state.
func (s *Styler) Toggle() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.setEnabledLocked(!s.enabled)
	return s.enabled
}

func (s *Styler) setEnabledLocked(enabled bool) {
	s.enabled = enabled
	s.logger.Debug("styling toggled", "enabled", enabled)
	if !enabled {
		s.clearLocked()
		return
	}
	s.redrawLocked()
}

// Refresh classifies text and applies every category to the surface,
// including empty ones so stale spans are cleared. It does nothing while
// disabled or when the surface has no active Markdown document.
func (s *Styler) Refresh(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.refreshLocked(text)
}

// Redraw refreshes the surface's active document.
func (s *Styler) Redraw() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.redrawLocked()
}

// OnConfigurationChanged rebuilds the styles from the config source and
// reapplies them.
func (s *Styler) OnConfigurationChanged() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.styles = s.loadStyles()
	s.logger.Debug("configuration reloaded", "enabled", s.styles.Enabled)
	s.redrawLocked()
}

func (s *Styler) redrawLocked() {
	if s.surface == nil {
		return
	}
	text, ok := s.surface.Document()
	if !ok {
		return
	}
	s.refreshLocked(text)
}

func (s *Styler) refreshLocked(text string) {
	if !s.enabled || s.surface == nil {
		return
	}
	if _, ok := s.surface.Document(); !ok {
		return
	}
	if !s.styles.Enabled {
		s.clearLocked()
		return
	}
	res := Classify(text)
	res.Each(func(c Category, spans []Span) {
		s.surface.Apply(c, s.styles.Style(c), spans)
	})
	s.logger.Debug("refreshed", "spans", res.Len())
}

func (s *Styler) clearLocked() {
	if s.surface == nil {
		return
	}
	for _, c := range Categories() {
		s.surface.Apply(c, s.styles.Style(c), nil)
	}
}

func (s *Styler) loadStyles() StyleConfig {
	if s.source == nil {
		return DefaultStyleConfig()
	}
	cfg, ignored := ResolveStyles(s.source.Values())
	for _, key := range ignored {
		s.logger.Debug("ignoring style value of unexpected type", "key", key)
	}
	return cfg
}
