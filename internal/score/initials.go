package score

import (
	"fmt"
	"io"
	"strings"
)

// Filter decides whether a byte is accepted as an initial.
type Filter func(b byte) bool

// LegacyFilter accepts bytes 'A' (65) through 'z' (122) inclusive, which also
// admits the punctuation between the two letter ranges.
func LegacyFilter(b byte) bool {
	return b >= 65 && b <= 122
}

// LettersFilter accepts ASCII letters only.
func LettersFilter(b byte) bool {
	return (b >= 'A' && b <= 'Z') || (b >= 'a' && b <= 'z')
}

// ParseFilter maps a config name to a Filter.
func ParseFilter(name string) (Filter, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "legacy":
		return LegacyFilter, nil
	case "letters":
		return LettersFilter, nil
	default:
		return nil, fmt.Errorf("unknown initials filter %q (want legacy or letters)", name)
	}
}

// ReadInitials reads two accepted bytes, echoing each one to w. Rejected bytes
// are discarded without advancing.
func ReadInitials(r io.ByteReader, w io.Writer, accept Filter) ([2]byte, error) {
	var out [2]byte
	for i := 0; i < len(out); {
		b, err := r.ReadByte()
		if err != nil {
			return out, fmt.Errorf("read initials: %w", err)
		}
		if !accept(b) {
			continue
		}
		out[i] = b
		i++
		if _, err := w.Write([]byte{b}); err != nil {
			return out, fmt.Errorf("echo initials: %w", err)
		}
	}
	return out, nil
}
