package mdstyle

import (
	"strconv"
	"strings"
)

// Style is a CSS-like visual definition for one category. Values are kept as
// written; empty fields are unset.
type Style struct {
	FontSize       string `json:"fontSize,omitempty" yaml:"fontSize,omitempty"`
	FontWeight     string `json:"fontWeight,omitempty" yaml:"fontWeight,omitempty"`
	FontStyle      string `json:"fontStyle,omitempty" yaml:"fontStyle,omitempty"`
	TextDecoration string `json:"textDecoration,omitempty" yaml:"textDecoration,omitempty"`
	Color          string `json:"color,omitempty" yaml:"color,omitempty"`
	Background     string `json:"background,omitempty" yaml:"background,omitempty"`
	Border         string `json:"border,omitempty" yaml:"border,omitempty"`
	BorderRadius   string `json:"borderRadius,omitempty" yaml:"borderRadius,omitempty"`
	Opacity        string `json:"opacity,omitempty" yaml:"opacity,omitempty"`
}

// ParseStyle parses a declaration list such as "font-size: 2em; font-weight: bold;".
// Unknown properties and malformed declarations are ignored.
func ParseStyle(css string) Style {
	var s Style
	for _, decl := range strings.Split(css, ";") {
		prop, value, ok := strings.Cut(decl, ":")
		if !ok {
			continue
		}
		prop = strings.ToLower(strings.TrimSpace(prop))
		value = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(value), "!important"))
		if value == "" {
			continue
		}
		if field := s.field(prop); field != nil {
			*field = value
		}
	}
	return s
}

func (s *Style) field(prop string) *string {
	switch prop {
	case "font-size":
		return &s.FontSize
	case "font-weight":
		return &s.FontWeight
	case "font-style":
		return &s.FontStyle
	case "text-decoration":
		return &s.TextDecoration
	case "color":
		return &s.Color
	case "background-color", "background":
		return &s.Background
	case "border":
		return &s.Border
	case "border-radius":
		return &s.BorderRadius
	case "opacity":
		return &s.Opacity
	}
	return nil
}

var styleProps = [...]string{
	"font-size",
	"font-weight",
	"font-style",
	"text-decoration",
	"color",
	"background-color",
	"border",
	"border-radius",
	"opacity",
}

// String renders s back to a declaration list.
func (s Style) String() string {
	var b strings.Builder
	for _, prop := range styleProps {
		value := *s.field(prop)
		if value == "" {
			continue
		}
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(prop)
		b.WriteString(": ")
		b.WriteString(value)
		b.WriteByte(';')
	}
	return b.String()
}

// IsZero reports whether no property is set.
func (s Style) IsZero() bool {
	return s == Style{}
}

// Merge returns s with every property set in over replacing its own.
func (s Style) Merge(over Style) Style {
	for _, prop := range styleProps {
		if v := *over.field(prop); v != "" {
			*s.field(prop) = v
		}
	}
	return s
}

// IsBold reports a bold or heavier font weight.
func (s Style) IsBold() bool {
	switch strings.ToLower(s.FontWeight) {
	case "bold", "bolder":
		return true
	}
	n, err := strconv.Atoi(s.FontWeight)
	return err == nil && n >= 600
}

// IsItalic reports an italic or oblique font style.
func (s Style) IsItalic() bool {
	switch strings.ToLower(s.FontStyle) {
	case "italic", "oblique":
		return true
	}
	return false
}

// IsUnderlined reports an underline text decoration.
func (s Style) IsUnderlined() bool {
	return strings.Contains(strings.ToLower(s.TextDecoration), "underline")
}

// FontScale returns the font size relative to body text, parsed from em or %
// units. Unset or unparseable sizes report 1.
func (s Style) FontScale() float64 {
	size := strings.ToLower(strings.TrimSpace(s.FontSize))
	var (
		num  string
		div  float64
		unit bool
	)
	switch {
	case strings.HasSuffix(size, "em"):
		num, div, unit = strings.TrimSuffix(size, "em"), 1, true
	case strings.HasSuffix(size, "%"):
		num, div, unit = strings.TrimSuffix(size, "%"), 100, true
	}
	if !unit {
		return 1
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(num), 64)
	if err != nil || f <= 0 {
		return 1
	}
	return f / div
}

// Alpha returns the opacity as a value in [0, 1]; unset means 1.
func (s Style) Alpha() float64 {
	if s.Opacity == "" {
		return 1
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(s.Opacity), 64)
	if err != nil {
		return 1
	}
	switch {
	case f < 0:
		return 0
	case f > 1:
		return 1
	}
	return f
}
