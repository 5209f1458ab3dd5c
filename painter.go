package mdstyle

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/muesli/reflow/ansi"
	"github.com/muesli/reflow/truncate"
	"github.com/muesli/termenv"
)

// PainterOption configures a Painter.
type PainterOption func(*painterConfig)

type painterConfig struct {
	theme   Theme
	profile termenv.Profile
	width   int
}

// WithTheme sets the theme used to resolve var(--token) colours.
func WithTheme(t Theme) PainterOption {
	return func(cfg *painterConfig) {
		if t != nil {
			cfg.theme = t
		}
	}
}

// WithProfile sets the terminal colour profile. termenv.Ascii disables all
// escape sequences.
func WithProfile(p termenv.Profile) PainterOption {
	return func(cfg *painterConfig) {
		cfg.profile = p
	}
}

// WithWidth truncates rendered lines to width cells. Zero disables truncation.
func WithWidth(width int) PainterOption {
	return func(cfg *painterConfig) {
		if width >= 0 {
			cfg.width = width
		}
	}
}

type appliedSpans struct {
	style Style
	spans []Span
}

// Painter is a Surface that renders the styled document to a terminal.
type Painter struct {
	mu       sync.Mutex
	w        io.Writer
	cfg      painterConfig
	text     string
	markdown bool
	applied  [categoryCount]appliedSpans
}

// NewPainter returns a Painter writing to w.
func NewPainter(w io.Writer, opts ...PainterOption) *Painter {
	cfg := painterConfig{theme: DefaultTheme(), profile: termenv.TrueColor}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return &Painter{w: w, cfg: cfg}
}

// SetDocument makes text the active document. markdown=false marks it as a
// document the Styler must leave alone.
func (p *Painter) SetDocument(text string, markdown bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.text = text
	p.markdown = markdown
}

// Document implements Surface.
func (p *Painter) Document() (string, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.text, p.markdown
}

// Apply implements Surface.
func (p *Painter) Apply(c Category, style Style, spans []Span) {
	if !c.Valid() {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.applied[c] = appliedSpans{style: style, spans: append([]Span(nil), spans...)}
}

// Spans returns the spans currently applied for c.
func (p *Painter) Spans(c Category) []Span {
	if !c.Valid() {
		return nil
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]Span(nil), p.applied[c].spans...)
}

// Applied returns the currently applied spans as a Result.
func (p *Painter) Applied() Result {
	p.mu.Lock()
	defer p.mu.Unlock()
	var res Result
	for c := range p.applied {
		for _, s := range p.applied[c].spans {
			res.add(Category(c), s.Line, s.Start, s.End)
		}
	}
	return res
}

// SetTheme replaces the theme used by later renders. A nil theme is ignored.
func (p *Painter) SetTheme(t Theme) {
	if t == nil {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.cfg.theme = t
}

// Render writes the active document with the applied styles.
func (p *Painter) Render() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.w == nil {
		return fmt.Errorf("paint: writer is nil")
	}
	if p.text == "" {
		return nil
	}
	lines := strings.Split(p.text, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	masks := p.lineMasks(len(lines))
	styles := map[uint16]termenv.Style{}
	bw := bufio.NewWriter(p.w)
	var b strings.Builder
	for n, line := range lines {
		line = strings.TrimSuffix(line, "\r")
		b.Reset()
		p.paintLine(&b, line, masks[n], styles)
		out := b.String()
		if p.cfg.width > 0 && ansi.PrintableRuneWidth(out) > p.cfg.width {
			out = truncate.StringWithTail(out, uint(p.cfg.width), "…")
		}
		if _, err := bw.WriteString(out); err != nil {
			return fmt.Errorf("paint: %w", err)
		}
		if err := bw.WriteByte('\n'); err != nil {
			return fmt.Errorf("paint: %w", err)
		}
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("paint: %w", err)
	}
	return nil
}

// lineMasks returns, per line, the spans grouped so paintLine can compute a
// category bitmask for every byte.
func (p *Painter) lineMasks(lines int) [][]maskSpan {
	out := make([][]maskSpan, lines)
	for c := range p.applied {
		for _, s := range p.applied[c].spans {
			if s.Line < 0 || s.Line >= lines || s.Start < 0 || s.End <= s.Start {
				continue
			}
			out[s.Line] = append(out[s.Line], maskSpan{bit: 1 << uint(c), start: s.Start, end: s.End})
		}
	}
	return out
}

type maskSpan struct {
	bit        uint16
	start, end int
}

func (p *Painter) paintLine(b *strings.Builder, line string, spans []maskSpan, cache map[uint16]termenv.Style) {
	if len(spans) == 0 || line == "" {
		b.WriteString(line)
		return
	}
	mask := make([]uint16, len(line))
	for _, s := range spans {
		end := s.end
		if end > len(line) {
			end = len(line)
		}
		for i := s.start; i < end; i++ {
			mask[i] |= s.bit
		}
	}
	start := 0
	for i := 1; i <= len(line); i++ {
		if i < len(line) && mask[i] == mask[start] {
			continue
		}
		seg := line[start:i]
		if m := mask[start]; m == 0 {
			b.WriteString(seg)
		} else {
			st, ok := cache[m]
			if !ok {
				st = p.styleFor(m)
				cache[m] = st
			}
			b.WriteString(st.Styled(seg))
		}
		start = i
	}
}

// styleFor combines the styles of every category in mask. Attributes add up;
// for colours the later category wins.
func (p *Painter) styleFor(mask uint16) termenv.Style {
	st := p.cfg.profile.String()
	var (
		bold, italic, underline bool
		fg, bg                  string
	)
	for c := 0; c < categoryCount; c++ {
		if mask&(1<<uint(c)) == 0 {
			continue
		}
		s := p.applied[c].style
		bold = bold || s.IsBold()
		italic = italic || s.IsItalic()
		underline = underline || s.IsUnderlined() || s.FontScale() >= 1.5
		if col, ok := ResolveColor(p.cfg.theme, s.Color); ok {
			fg = col.Hex()
		}
		if col, ok := p.background(s); ok {
			bg = col.Hex()
		}
	}
	if bold {
		st = st.Bold()
	}
	if italic {
		st = st.Italic()
	}
	if underline {
		st = st.Underline()
	}
	if fg != "" {
		st = st.Foreground(p.cfg.profile.Color(fg))
	}
	if bg != "" {
		st = st.Background(p.cfg.profile.Color(bg))
	}
	return st
}

// background resolves s's background, blended over the theme background by
// its opacity. A style without background but with a border uses the border
// colour.
func (p *Painter) background(s Style) (colorful.Color, bool) {
	col, ok := ResolveColor(p.cfg.theme, s.Background)
	if !ok {
		if s.Border == "" {
			return colorful.Color{}, false
		}
		col, ok = borderColor(p.cfg.theme, s.Border)
		if !ok {
			return colorful.Color{}, false
		}
	}
	alpha := s.Alpha()
	if alpha >= 1 || p.cfg.theme == nil {
		return col, true
	}
	base, ok := ResolveColor(p.cfg.theme, p.cfg.theme.Background())
	if !ok {
		return col, true
	}
	return base.BlendRgb(col, alpha), true
}
