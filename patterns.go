package mdstyle

import (
	"regexp"
	"unicode/utf8"

	"github.com/dlclark/regexp2"
)

// Line patterns RE2 can express.
var (
	fencePattern          = regexp.MustCompile("^\\s*(```|~~~)")
	inlineCodeHashPattern = regexp.MustCompile("^\\s*`[^`]*#[^`]*`")
	headerPattern         = regexp.MustCompile(`^(#{1,6})\s+`)
	listPattern           = regexp.MustCompile(`^(\s*)([-*+]|\d+\.)\s`)
	quotePattern          = regexp.MustCompile(`^\s*>`)
	tableRowPattern       = regexp.MustCompile(`^\s*\|.*\|\s*$`)
	tableSepPattern       = regexp.MustCompile(`^\s*[|:\-\s]+$`)
)

// Patterns relying on backreferences or look-around.
var (
	ruleRegexp   = regexp2.MustCompile(`^\s*([-_*])(?:\s*\1){2,}\s*$`, regexp2.None)
	boldRegexp   = regexp2.MustCompile(`(\*\*|__)(.+?)\1`, regexp2.None)
	italicRegexp = regexp2.MustCompile(`(?<!\*)\*(?!\*)([^*]+?)\*(?!\*)|(?<!_)_(?!_)([^_]+?)_(?!_)`, regexp2.None)
)

const indentedCodePrefix = "    "

func matchString(re *regexp2.Regexp, s string) bool {
	ok, err := re.MatchString(s)
	return err == nil && ok
}

// eachMatch calls fn with the byte range of every non-overlapping match of re
// in s, left to right.
func eachMatch(re *regexp2.Regexp, s string, fn func(start, end int)) {
	m, err := re.FindStringMatch(s)
	if err != nil || m == nil {
		return
	}
	offs := newRuneOffsets(s)
	for m != nil {
		fn(offs.at(m.Index), offs.at(m.Index+m.Length))
		m, err = re.FindNextMatch(m)
		if err != nil {
			return
		}
	}
}

// runeOffsets translates the rune indices regexp2 reports into byte offsets.
type runeOffsets struct {
	ascii bool
	offs  []int
}

func newRuneOffsets(s string) runeOffsets {
	ascii := true
	for i := 0; i < len(s); i++ {
		if s[i] >= utf8.RuneSelf {
			ascii = false
			break
		}
	}
	if ascii {
		return runeOffsets{ascii: true}
	}
	offs := make([]int, 0, len(s)+1)
	for i := range s {
		offs = append(offs, i)
	}
	offs = append(offs, len(s))
	return runeOffsets{offs: offs}
}

func (o runeOffsets) at(i int) int {
	if o.ascii {
		return i
	}
	if i >= len(o.offs) {
		return o.offs[len(o.offs)-1]
	}
	return o.offs[i]
}
