package discovery

import (
	"sort"
	"unicode/utf8"

	"fte/internal/domain"
)

// LineIndex is the offset table of a document. It maps byte offsets to
// zero-based line/column positions.
type LineIndex struct {
	text       string
	lineStarts []int
}

// NewLineIndex builds the offset table for text
func NewLineIndex(text string) *LineIndex {
	starts := []int{0}
	for i := 0; i < len(text); i++ {
		if text[i] == '\n' {
			starts = append(starts, i+1)
		}
	}
	return &LineIndex{text: text, lineStarts: starts}
}

// PositionAt converts a byte offset into a position. Offsets outside the
// document are clamped to its bounds.
func (li *LineIndex) PositionAt(offset int) domain.Position {
	if offset < 0 {
		offset = 0
	}
	if offset > len(li.text) {
		offset = len(li.text)
	}

	// index of the last line start <= offset
	line := sort.Search(len(li.lineStarts), func(i int) bool {
		return li.lineStarts[i] > offset
	}) - 1

	lineStart := li.lineStarts[line]
	column := utf8.RuneCountInString(li.text[lineStart:offset])

	return domain.Position{
		Offset: offset,
		Line:   line,
		Column: column,
	}
}
