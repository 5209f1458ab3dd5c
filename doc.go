// Package mdstyle classifies Markdown text into styleable spans.
//
// The classifier is a single top-to-bottom pass over the lines of a document.
// It tracks fenced code blocks, skips indented code and lines led by inline
// code containing '#', and assigns each remaining line at most one line-level
// category (header, horizontal rule, quote, table) plus any number of span-level
// matches (list marker, bold, italic, nested-list indentation). Nothing is kept
// between calls, so classifying on every keystroke is safe.
//
// A Styler ties classification to a rendering Surface: it owns the resolved
// styles and the enabled switch, and on every refresh applies all categories,
// empty ones included, so stale spans never linger.
//
// Example:
//
//	painter := mdstyle.NewPainter(os.Stdout, mdstyle.WithTheme(mdstyle.DefaultTheme()))
//	painter.SetDocument("# Hello\n\n- **bold** item\n", true)
//	styler := mdstyle.New(painter)
//	styler.Redraw()
//	if err := painter.Render(); err != nil {
//		log.Fatal(err)
//	}
//
// Spans are byte offsets into their line. CRLF line endings are accepted; the
// trailing carriage return is never part of a span.
package mdstyle
