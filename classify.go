package mdstyle

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
)

// scanState threads fence tracking through one pass over a document.
type scanState struct {
	inFence bool
	fence   string
}

// Classify scans text line by line and returns the spans found for every
// category. It holds no state between calls.
func Classify(text string) Result {
	var res Result
	var st scanState
	n := 0
	for {
		i := strings.IndexByte(text, '\n')
		if i < 0 {
			st.classifyLine(&res, n, text)
			return res
		}
		st.classifyLine(&res, n, text[:i])
		text = text[i+1:]
		n++
	}
}

// ClassifyLines classifies a document that has already been split into lines.
func ClassifyLines(lines []string) Result {
	var res Result
	var st scanState
	for n, line := range lines {
		st.classifyLine(&res, n, line)
	}
	return res
}

// ClassifyReader classifies a document read from r. Cancellation of ctx is
// observed between lines. Unlike Classify it refuses input that is not text:
// invalid UTF-8 or binary content stops the scan with ErrInvalidUTF8 or
// ErrBinaryInput, wrapped with the 1-based line number.
func ClassifyReader(ctx context.Context, r io.Reader) (Result, error) {
	if r == nil {
		return Result{}, fmt.Errorf("classify: reader is nil")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	br := bufio.NewReaderSize(r, 4096)
	var res Result
	var st scanState
	var v textValidator
	for n := 0; ; n++ {
		if err := ctx.Err(); err != nil {
			return Result{}, fmt.Errorf("classify: %w", err)
		}
		line, err := br.ReadString('\n')
		if err != nil && err != io.EOF {
			return Result{}, fmt.Errorf("classify: read: %w", err)
		}
		if verr := v.addLine(line); verr != nil {
			return Result{}, fmt.Errorf("classify: line %d: %w", n+1, verr)
		}
		if err == nil {
			st.classifyLine(&res, n, line[:len(line)-1])
			continue
		}
		st.classifyLine(&res, n, line)
		return res, nil
	}
}

func (st *scanState) classifyLine(res *Result, n int, line string) {
	line = strings.TrimSuffix(line, "\r")

	if m := fencePattern.FindStringSubmatch(line); m != nil {
		st.toggleFence(m[1])
		return
	}
	if st.inFence || strings.HasPrefix(line, indentedCodePrefix) {
		return
	}
	if inlineCodeHashPattern.MatchString(line) {
		return
	}

	if m := headerPattern.FindStringSubmatchIndex(line); m != nil {
		c, _ := HeaderCategory(m[3] - m[2])
		res.add(c, n, 0, len(line))
		return
	}

	// The marker is recorded before the rule check: "* * *" is both.
	list := listPattern.FindStringSubmatchIndex(line)
	if list != nil {
		res.add(ListMarker, n, list[4], list[5])
	}

	if matchString(ruleRegexp, line) {
		res.add(HorizontalRule, n, 0, len(line))
		return
	}

	eachMatch(boldRegexp, line, func(start, end int) {
		res.add(Bold, n, start, end)
	})
	eachMatch(italicRegexp, line, func(start, end int) {
		res.add(Italic, n, start, end)
	})

	if quotePattern.MatchString(line) {
		res.add(Quote, n, 0, len(line))
		return
	}
	if tableRowPattern.MatchString(line) || tableSepPattern.MatchString(line) {
		res.add(Table, n, 0, len(line))
		return
	}

	if list != nil {
		indent := list[3] - list[2]
		if c, ok := IndentCategory(indent / 2); ok {
			res.add(c, n, 0, indent)
		}
	}
}

// toggleFence opens a fence, or closes the open one when token matches the
// delimiter that opened it.
func (st *scanState) toggleFence(token string) {
	switch {
	case !st.inFence:
		st.inFence = true
		st.fence = token
	case token == st.fence:
		st.inFence = false
		st.fence = ""
	}
}
