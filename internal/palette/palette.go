// Package palette holds the colour sets behind the built-in themes.
package palette

// Palette lists the theme colours styles can refer to with var(--token).
// All values are #rrggbb.
type Palette struct {
	Background          string
	Foreground          string
	QuoteBackground     string
	QuoteBorder         string
	CodeBlockBackground string
	PanelBorder         string
	Accent              string
}

// Tokens maps style variable names to colours.
func (p Palette) Tokens() map[string]string {
	return map[string]string{
		"editor-background":         p.Background,
		"editor-foreground":         p.Foreground,
		"textBlockQuote-background": p.QuoteBackground,
		"textBlockQuote-border":     p.QuoteBorder,
		"textCodeBlock-background":  p.CodeBlockBackground,
		"panel-border":              p.PanelBorder,
		"textLink-foreground":       p.Accent,
	}
}

var (
	PaletteDefault = Palette{
		Background:          "#1e1e1e",
		Foreground:          "#d4d4d4",
		QuoteBackground:     "#2b2b2b",
		QuoteBorder:         "#616161",
		CodeBlockBackground: "#0a0a0a",
		PanelBorder:         "#808080",
		Accent:              "#3794ff",
	}
	PaletteGruvbox = Palette{
		Background:          "#282828",
		Foreground:          "#ebdbb2",
		QuoteBackground:     "#3c3836",
		QuoteBorder:         "#928374",
		CodeBlockBackground: "#1d2021",
		PanelBorder:         "#504945",
		Accent:              "#83a598",
	}
	PaletteNord = Palette{
		Background:          "#2e3440",
		Foreground:          "#d8dee9",
		QuoteBackground:     "#3b4252",
		QuoteBorder:         "#4c566a",
		CodeBlockBackground: "#242933",
		PanelBorder:         "#434c5e",
		Accent:              "#88c0d0",
	}
	PaletteSolarizedDark = Palette{
		Background:          "#002b36",
		Foreground:          "#839496",
		QuoteBackground:     "#073642",
		QuoteBorder:         "#586e75",
		CodeBlockBackground: "#00212b",
		PanelBorder:         "#2aa1b3",
		Accent:              "#268bd2",
	}
	PaletteGithubLight = Palette{
		Background:          "#ffffff",
		Foreground:          "#1f2328",
		QuoteBackground:     "#f6f8fa",
		QuoteBorder:         "#d0d7de",
		CodeBlockBackground: "#eff1f3",
		PanelBorder:         "#d0d7de",
		Accent:              "#0969da",
	}
)
