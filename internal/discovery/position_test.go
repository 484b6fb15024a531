package discovery

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"fte/internal/domain"
)

func TestLineIndex_PositionAt(t *testing.T) {
	text := "ab\ncd\n\nélan x"
	index := NewLineIndex(text)

	tests := []struct {
		name     string
		offset   int
		expected domain.Position
	}{
		{name: "start of document", offset: 0, expected: domain.Position{Offset: 0, Line: 0, Column: 0}},
		{name: "inside first line", offset: 1, expected: domain.Position{Offset: 1, Line: 0, Column: 1}},
		{name: "newline belongs to its line", offset: 2, expected: domain.Position{Offset: 2, Line: 0, Column: 2}},
		{name: "start of second line", offset: 3, expected: domain.Position{Offset: 3, Line: 1, Column: 0}},
		{name: "empty line", offset: 6, expected: domain.Position{Offset: 6, Line: 2, Column: 0}},
		{name: "columns count runes", offset: 13, expected: domain.Position{Offset: 13, Line: 3, Column: 5}},
		{name: "negative offset is clamped", offset: -5, expected: domain.Position{Offset: 0, Line: 0, Column: 0}},
		{name: "offset past the end is clamped", offset: 100, expected: domain.Position{Offset: len(text), Line: 3, Column: 6}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, index.PositionAt(tt.offset))
		})
	}
}

func TestLineIndex_DeclarationPosition(t *testing.T) {
	text := "contract A {\n    function test_foo() public {}\n}\n"
	declarations := NewParser().Scan(text)
	assert.Len(t, declarations, 1)

	position := NewLineIndex(text).PositionAt(declarations[0].Offset)
	assert.Equal(t, 1, position.Line)
	assert.Equal(t, 4, position.Column)
	assert.Equal(t, "2:5", position.String())
}
