package mdstyle

import (
	"sort"
	"strings"

	"github.com/lucasb-eyer/go-colorful"

	"pkt.systems/mdstyle/internal/palette"
)

// Theme resolves the colour tokens referenced by styles as var(--token).
type Theme interface {
	Name() string
	// Token returns the colour for a token name such as
	// "textBlockQuote-background".
	Token(name string) (string, bool)
	// Background is the colour partially opaque backgrounds are blended over.
	Background() string
}

type theme struct {
	name   string
	tokens map[string]string
	bg     string
}

func (t theme) Name() string       { return t.name }
func (t theme) Background() string { return t.bg }

func (t theme) Token(name string) (string, bool) {
	v, ok := t.tokens[name]
	return v, ok && v != ""
}

// NewTheme returns a Theme from a token table. background may be empty.
func NewTheme(name string, tokens map[string]string, background string) Theme {
	copied := make(map[string]string, len(tokens))
	for k, v := range tokens {
		copied[k] = v
	}
	return theme{name: name, tokens: copied, bg: background}
}

func themeFromPalette(name string, p palette.Palette) Theme {
	return theme{name: name, tokens: p.Tokens(), bg: p.Background}
}

var builtinThemes = map[string]Theme{
	"default":        themeFromPalette("default", palette.PaletteDefault),
	"gruvbox":        themeFromPalette("gruvbox", palette.PaletteGruvbox),
	"nord":           themeFromPalette("nord", palette.PaletteNord),
	"solarized-dark": themeFromPalette("solarized-dark", palette.PaletteSolarizedDark),
	"github-light":   themeFromPalette("github-light", palette.PaletteGithubLight),
}

// AvailableThemes returns the names of built-in themes.
func AvailableThemes() []string {
	names := make([]string, 0, len(builtinThemes))
	for name := range builtinThemes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ThemeByName returns a built-in theme by name.
func ThemeByName(name string) (Theme, bool) {
	if name == "" {
		return builtinThemes["default"], true
	}
	normalized := strings.ToLower(strings.TrimSpace(name))
	theme, ok := builtinThemes[normalized]
	return theme, ok
}

// DefaultTheme returns the default built-in theme.
func DefaultTheme() Theme {
	return builtinThemes["default"]
}

// ResolveColor turns a style colour value into a colour. It accepts hex
// values and var(--token) references, looked up in t.
func ResolveColor(t Theme, value string) (colorful.Color, bool) {
	value = strings.TrimSpace(value)
	if name, ok := tokenRef(value); ok {
		if t == nil {
			return colorful.Color{}, false
		}
		resolved, ok := t.Token(name)
		if !ok {
			return colorful.Color{}, false
		}
		value = resolved
	}
	c, err := colorful.Hex(expandShortHex(value))
	if err != nil {
		return colorful.Color{}, false
	}
	return c, true
}

// tokenRef extracts the token from "var(--token)".
func tokenRef(value string) (string, bool) {
	if !strings.HasPrefix(value, "var(") || !strings.HasSuffix(value, ")") {
		return "", false
	}
	inner := strings.TrimSpace(value[len("var(") : len(value)-1])
	if !strings.HasPrefix(inner, "--") {
		return "", false
	}
	inner = strings.TrimPrefix(inner, "--")
	inner = strings.TrimPrefix(inner, "vscode-")
	return inner, inner != ""
}

func expandShortHex(value string) string {
	if len(value) != 4 || value[0] != '#' {
		return value
	}
	return string([]byte{'#', value[1], value[1], value[2], value[2], value[3], value[3]})
}

// borderColor picks the colour out of a CSS border shorthand such as
// "2px solid var(--token)".
func borderColor(t Theme, border string) (colorful.Color, bool) {
	for _, part := range strings.Fields(border) {
		if c, ok := ResolveColor(t, part); ok {
			return c, true
		}
	}
	return colorful.Color{}, false
}
