package mdstyle

import (
	"bytes"
	"encoding/json"
)

// Span is a run of bytes on one line. Start and End are byte offsets into
// the line with 0 <= Start <= End <= len(line).
type Span struct {
	Line  int `json:"line" yaml:"line"`
	Start int `json:"start" yaml:"start"`
	End   int `json:"end" yaml:"end"`
}

// Len returns the number of bytes covered by s.
func (s Span) Len() int { return s.End - s.Start }

// Result holds the spans found for every category, in document order.
// The zero value is an empty result with every category present.
type Result struct {
	spans [categoryCount][]Span
}

// Spans returns the spans classified as c. The slice is shared with the
// result and must not be modified.
func (r *Result) Spans(c Category) []Span {
	if !c.Valid() {
		return nil
	}
	return r.spans[c]
}

// Each calls fn for every category, including those without spans.
func (r *Result) Each(fn func(Category, []Span)) {
	for i := range r.spans {
		fn(Category(i), r.spans[i])
	}
}

// Len returns the total number of spans across all categories.
func (r *Result) Len() int {
	n := 0
	for i := range r.spans {
		n += len(r.spans[i])
	}
	return n
}

// Equal reports whether r and other hold the same spans per category.
func (r *Result) Equal(other *Result) bool {
	for i := range r.spans {
		a, b := r.spans[i], other.spans[i]
		if len(a) != len(b) {
			return false
		}
		for j := range a {
			if a[j] != b[j] {
				return false
			}
		}
	}
	return true
}

// Map returns the result keyed by category. Every category is present; empty
// categories map to an empty, non-nil slice.
func (r *Result) Map() map[Category][]Span {
	out := make(map[Category][]Span, categoryCount)
	for i := range r.spans {
		spans := r.spans[i]
		if spans == nil {
			spans = []Span{}
		}
		out[Category(i)] = spans
	}
	return out
}

// MarshalJSON encodes the result as an object keyed by category name in
// declaration order.
func (r *Result) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i := range r.spans {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(categoryNames[i])
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		spans := r.spans[i]
		if spans == nil {
			spans = []Span{}
		}
		val, err := json.Marshal(spans)
		if err != nil {
			return nil, err
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (r *Result) add(c Category, line, start, end int) {
	r.spans[c] = append(r.spans[c], Span{Line: line, Start: start, End: end})
}
