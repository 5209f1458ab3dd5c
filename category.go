package mdstyle

import (
	"fmt"
	"strings"
)

// Category is a syntactic class a span can be styled as.
type Category uint8

const (
	H1 Category = iota
	H2
	H3
	H4
	H5
	H6
	ListMarker
	Bold
	Italic
	HorizontalRule
	Quote
	Table
	Indent1
	Indent2
	Indent3

	categoryCount = int(Indent3) + 1
)

var categoryNames = [categoryCount]string{
	H1:             "h1",
	H2:             "h2",
	H3:             "h3",
	H4:             "h4",
	H5:             "h5",
	H6:             "h6",
	ListMarker:     "listMarker",
	Bold:           "bold",
	Italic:         "italic",
	HorizontalRule: "hr",
	Quote:          "quote",
	Table:          "table",
	Indent1:        "indent1",
	Indent2:        "indent2",
	Indent3:        "indent3",
}

var allCategories = func() [categoryCount]Category {
	var out [categoryCount]Category
	for i := range out {
		out[i] = Category(i)
	}
	return out
}()

// Categories returns every category in declaration order.
func Categories() []Category {
	out := allCategories
	return out[:]
}

// HeaderCategory returns the header category for level 1..6.
func HeaderCategory(level int) (Category, bool) {
	if level < 1 || level > 6 {
		return 0, false
	}
	return H1 + Category(level-1), true
}

// IndentCategory returns the indentation tier for depth. Depths of three and
// above share Indent3.
func IndentCategory(depth int) (Category, bool) {
	switch {
	case depth < 1:
		return 0, false
	case depth == 1:
		return Indent1, true
	case depth == 2:
		return Indent2, true
	default:
		return Indent3, true
	}
}

// HeaderLevel returns the header level of c, or false if c is not a header.
func (c Category) HeaderLevel() (int, bool) {
	if c > H6 {
		return 0, false
	}
	return int(c-H1) + 1, true
}

// IndentDepth returns the indentation tier of c (3 meaning three or deeper).
func (c Category) IndentDepth() (int, bool) {
	if c < Indent1 || c > Indent3 {
		return 0, false
	}
	return int(c-Indent1) + 1, true
}

// Valid reports whether c is a declared category.
func (c Category) Valid() bool {
	return int(c) < categoryCount
}

// String returns the configuration key of c.
func (c Category) String() string {
	if !c.Valid() {
		return fmt.Sprintf("Category(%d)", uint8(c))
	}
	return categoryNames[c]
}

// MarshalText implements encoding.TextMarshaler.
func (c Category) MarshalText() ([]byte, error) {
	if !c.Valid() {
		return nil, fmt.Errorf("mdstyle: invalid category %d", uint8(c))
	}
	return []byte(categoryNames[c]), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *Category) UnmarshalText(text []byte) error {
	parsed, ok := ParseCategory(string(text))
	if !ok {
		return fmt.Errorf("mdstyle: unknown category %q", text)
	}
	*c = parsed
	return nil
}

// ParseCategory maps a configuration key back to its category. Matching is
// case-insensitive.
func ParseCategory(name string) (Category, bool) {
	for i, n := range categoryNames {
		if strings.EqualFold(n, name) {
			return Category(i), true
		}
	}
	return 0, false
}
