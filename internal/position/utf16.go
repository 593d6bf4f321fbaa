// Package position converts between byte offsets in Go strings and the
// line/UTF-16 positions editors use.
package position

import (
	"fmt"
	"strings"
	"unicode/utf16"
	"unicode/utf8"
)

// Position is a zero-based line and UTF-16 code unit column
type Position struct {
	Line      uint32
	Character uint32
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line+1, p.Character+1)
}

// runeUnits is the UTF-16 length of r. Invalid bytes count as one unit.
func runeUnits(r rune) int {
	if n := utf16.RuneLen(r); n > 0 {
		return n
	}
	return 1
}

// UTF16Len returns the length of s in UTF-16 code units
func UTF16Len(s string) int {
	n := 0
	for _, r := range s {
		n += runeUnits(r)
	}
	return n
}

// UTF16ToByteOffset converts a UTF-16 column within line to a byte offset.
// Columns past the end clamp to len(line); a column inside a surrogate pair
// clamps to the start of that rune.
func UTF16ToByteOffset(line string, col int) int {
	units := 0
	for i, r := range line {
		n := runeUnits(r)
		if units+n > col {
			return i
		}
		units += n
	}
	return len(line)
}

// ByteOffsetToUTF16 converts a byte offset within line to a UTF-16 column.
// An offset inside a multi-byte rune counts up to the start of that rune.
func ByteOffsetToUTF16(line string, offset int) int {
	offset = min(max(offset, 0), len(line))
	units := 0
	for i := 0; i < offset; {
		r, size := utf8.DecodeRuneInString(line[i:])
		if i+size > offset {
			break
		}
		units += runeUnits(r)
		i += size
	}
	return units
}

// FromOffset returns the position of a byte offset in content. Offsets are
// clamped to the content.
func FromOffset(content string, offset int) Position {
	offset = min(max(offset, 0), len(content))
	lineStart := strings.LastIndexByte(content[:offset], '\n') + 1
	line := strings.Count(content[:lineStart], "\n")
	return Position{
		Line:      uint32(line),
		Character: uint32(ByteOffsetToUTF16(content[lineStart:], offset-lineStart)),
	}
}

// ToOffset returns the byte offset of p in content. Lines past the end are an
// error; columns past the end of a line clamp to it.
func ToOffset(content string, p Position) (int, error) {
	lineStart := 0
	for range p.Line {
		next := strings.IndexByte(content[lineStart:], '\n')
		if next < 0 {
			return 0, fmt.Errorf("line %d out of range (document has %d lines)", p.Line, strings.Count(content, "\n")+1)
		}
		lineStart += next + 1
	}

	lineEnd := len(content)
	if next := strings.IndexByte(content[lineStart:], '\n'); next >= 0 {
		lineEnd = lineStart + next
	}
	return lineStart + UTF16ToByteOffset(content[lineStart:lineEnd], int(p.Character)), nil
}
