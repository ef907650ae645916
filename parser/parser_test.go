package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		expected []Card
	}{
		{
			name:     "single pair",
			input:    "Front: What is Go?\nBack: A programming language",
			expected: []Card{{Front: "What is Go?", Back: "A programming language"}},
		},
		{
			name:  "two pairs separated by blank line",
			input: "Front: A\nBack: B\n\nFront: C\nBack: D",
			expected: []Card{
				{Front: "A", Back: "B"},
				{Front: "C", Back: "D"},
			},
		},
		{
			name:  "banner line stripped",
			input: "**Flashcards:**\n\nFront: A\nBack: B",
			expected: []Card{
				{Front: "A", Back: "B"},
			},
		},
		{
			name:  "bold markers around Front and Back",
			input: "**Front**: Mitochondria\n**Back**: Powerhouse of the cell",
			expected: []Card{
				{Front: "Mitochondria", Back: "Powerhouse of the cell"},
			},
		},
		{
			name:  "multiline back",
			input: "Front: Primary colors\nBack: Red\nBlue\nYellow",
			expected: []Card{
				{Front: "Primary colors", Back: "Red\nBlue\nYellow"},
			},
		},
		{
			name:  "multiple blank lines between entries",
			input: "Front: A\nBack: B\n\n\n\nFront: C\nBack: D",
			expected: []Card{
				{Front: "A", Back: "B"},
				{Front: "C", Back: "D"},
			},
		},
		{
			name:  "entry missing back is skipped",
			input: "Front: orphan\n\nFront: A\nBack: B",
			expected: []Card{
				{Front: "A", Back: "B"},
			},
		},
		{
			name:  "entry missing front is skipped",
			input: "Back: orphan\n\nFront: A\nBack: B",
			expected: []Card{
				{Front: "A", Back: "B"},
			},
		},
		{
			name:     "no usable entries",
			input:    "The model apologizes and returns prose instead.",
			expected: nil,
		},
		{
			name:     "empty input",
			input:    "",
			expected: nil,
		},
		{
			name:  "surrounding whitespace trimmed",
			input: "  Front:   spaced out  \n  Back:   also spaced  ",
			expected: []Card{
				{Front: "spaced out", Back: "also spaced"},
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := Parse(tc.input)
			assert.Equal(t, tc.expected, got)
		})
	}
}

func TestParseOrderPreserved(t *testing.T) {
	input := "Front: 1\nBack: a\n\nFront: 2\nBack: b\n\nFront: 3\nBack: c"
	cards := Parse(input)
	require.Len(t, cards, 3)
	assert.Equal(t, "1", cards[0].Front)
	assert.Equal(t, "2", cards[1].Front)
	assert.Equal(t, "3", cards[2].Front)
}
