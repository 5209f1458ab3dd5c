package mdstyle

import (
	"errors"
	"unicode/utf8"
)

var (
	// ErrInvalidUTF8 reports invalid UTF-8 input.
	ErrInvalidUTF8 = errors.New("invalid utf-8 input")
	// ErrBinaryInput reports input that appears to be binary.
	ErrBinaryInput = errors.New("binary input detected")
)

const (
	minBinarySample = 64
	maxControlPct   = 2
)

// ValidateInput returns an error if src is not valid UTF-8 or looks binary.
// Classify accepts any string; callers reading whole documents from disk or
// the network use this to refuse files that are not text. ClassifyReader
// performs the same checks line by line.
func ValidateInput(src []byte) error {
	var v textValidator
	return v.addLine(string(src))
}

// textValidator accumulates byte and control-character counts across the
// lines of one document so binary input is caught as soon as the control
// ratio is exceeded.
type textValidator struct {
	total   int
	control int
}

// addLine checks one chunk of text. Lines are read up to and including '\n',
// so a rune is never split between two calls.
func (v *textValidator) addLine(line string) error {
	for i := 0; i < len(line); {
		r, size := utf8.DecodeRuneInString(line[i:])
		if r == utf8.RuneError && size == 1 {
			return ErrInvalidUTF8
		}
		if r == 0 {
			return ErrBinaryInput
		}
		v.total += size
		if isControlRune(r) {
			v.control++
			if v.total >= minBinarySample && v.control*100 >= v.total*maxControlPct {
				return ErrBinaryInput
			}
		}
		i += size
	}
	return nil
}

func isControlRune(r rune) bool {
	if r == '\n' || r == '\r' || r == '\t' {
		return false
	}
	return r < 0x20 || r == 0x7F
}
