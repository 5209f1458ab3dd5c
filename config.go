package mdstyle

import (
	"fmt"
	"sort"
	"strings"
)

// Fallback style definitions, per configuration key.
var defaultStyleCSS = [categoryCount]string{
	H1:             "font-size: 2em; font-weight: bold;",
	H2:             "font-size: 1.8em; font-weight: bold;",
	H3:             "font-size: 1.5em; font-weight: bold;",
	H4:             "font-size: 1.3em; font-weight: bold;",
	H5:             "font-size: 1.2em; font-weight: bold;",
	H6:             "font-size: 1.1em; font-weight: bold;",
	ListMarker:     "",
	Bold:           "font-weight: bold;",
	Italic:         "font-style: italic;",
	HorizontalRule: "",
	Quote:          "background-color: var(--textBlockQuote-background); border: 2px solid var(--textBlockQuote-border); border-radius: 3px;",
	Table:          "background-color: var(--textCodeBlock-background); border: 1px solid var(--panel-border);",
	Indent1:        "background-color: var(--textCodeBlock-background);",
	Indent2:        "background-color: var(--textCodeBlock-background); opacity: 0.8;",
	Indent3:        "background-color: var(--textCodeBlock-background); opacity: 0.6;",
}

const (
	keyEnabled     = "enabled"
	keyHeaderColor = "headerColor"
)

// StyleConfig maps every category to its style.
type StyleConfig struct {
	Enabled bool
	styles  [categoryCount]Style
}

// DefaultStyleConfig returns the documented fallback styles with styling enabled.
func DefaultStyleConfig() StyleConfig {
	cfg := StyleConfig{Enabled: true}
	for i, css := range defaultStyleCSS {
		cfg.styles[i] = ParseStyle(css)
	}
	return cfg
}

// Style returns the style for c.
func (c StyleConfig) Style(cat Category) Style {
	if !cat.Valid() {
		return Style{}
	}
	return c.styles[cat]
}

// Set replaces the style for cat.
func (c *StyleConfig) Set(cat Category, s Style) {
	if cat.Valid() {
		c.styles[cat] = s
	}
}

// Configurable reports whether cat's style can be overridden by configuration.
// Quote, table and indentation styles are fixed to theme tokens.
func Configurable(cat Category) bool {
	return cat <= HorizontalRule
}

// ResolveStyles builds a StyleConfig from a partial configuration. Each
// category is resolved on its own: a non-empty string value for its key wins,
// anything else falls back to the default. Keys are matched
// case-insensitively. Headers additionally accept "h<n>FontSize" and
// "headerColor" string overrides. Keys holding values of the wrong type are
// returned as ignored.
func ResolveStyles(values map[string]any) (StyleConfig, []string) {
	cfg := DefaultStyleConfig()
	lookup := make(map[string]string, len(values))
	for k := range values {
		lookup[strings.ToLower(k)] = k
	}
	var ignored []string
	get := func(key string) (any, string, bool) {
		orig, ok := lookup[strings.ToLower(key)]
		if !ok {
			return nil, "", false
		}
		return values[orig], orig, true
	}
	str := func(key string) (string, bool) {
		v, orig, ok := get(key)
		if !ok {
			return "", false
		}
		s, ok := v.(string)
		if !ok {
			ignored = append(ignored, orig)
			return "", false
		}
		s = strings.TrimSpace(s)
		return s, s != ""
	}

	if v, orig, ok := get(keyEnabled); ok {
		if b, ok := v.(bool); ok {
			cfg.Enabled = b
		} else {
			ignored = append(ignored, orig)
		}
	}

	for _, cat := range Categories() {
		if !Configurable(cat) {
			continue
		}
		if css, ok := str(cat.String()); ok {
			cfg.styles[cat] = ParseStyle(css)
		}
	}

	headerColor, hasHeaderColor := str(keyHeaderColor)
	for level := 1; level <= 6; level++ {
		cat, _ := HeaderCategory(level)
		s := cfg.styles[cat]
		if size, ok := str(fmt.Sprintf("h%dFontSize", level)); ok {
			s.FontSize = size
		}
		if hasHeaderColor && s.Color == "" {
			s.Color = headerColor
		}
		cfg.styles[cat] = s
	}

	sort.Strings(ignored)
	return cfg, ignored
}
