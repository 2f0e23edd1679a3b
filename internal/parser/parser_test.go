package parser

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	testCases := []struct {
		name          string
		input         string
		expectedCards int
		expectedFront string
		expectedBack  string
		expectedTag   string
	}{
		{
			name:          "Simple Q&A",
			input:         "Q: Translate: 'only if'\nA: A only if B means A → B",
			expectedCards: 1,
			expectedFront: "Translate: 'only if'",
			expectedBack:  "A only if B means A → B",
		},
		{
			name:          "Q, A and T",
			input:         "Q: Topic vs Scope\nA: Scope is narrower\nT: RC",
			expectedCards: 1,
			expectedFront: "Topic vs Scope",
			expectedBack:  "Scope is narrower",
			expectedTag:   "RC",
		},
		{
			name: "Multiline back",
			input: `
Q: Name the conditional indicators
A: if
only if
unless
`,
			expectedCards: 1,
			expectedFront: "Name the conditional indicators",
			expectedBack:  "if\nonly if\nunless",
		},
		{
			name: "Two cards",
			input: `
Q: First question
A: First answer

Q: Second question
A: Second answer
`,
			expectedCards: 2,
		},
		{
			name:          "Separator ends a card",
			input:         "Q: One\nA: 1\n---\nstray text\nQ: Two\nA: 2",
			expectedCards: 2,
		},
		{
			name:          "No cards, just text",
			input:         "This is a file with no questions.",
			expectedCards: 0,
		},
		{
			name:          "Prefixes with no space",
			input:         "Q:Question\nA:Answer\nT:Flaws",
			expectedCards: 1,
			expectedFront: "Question",
			expectedBack:  "Answer",
			expectedTag:   "Flaws",
		},
		{
			name:          "Windows line endings",
			input:         "Q: Front\r\nA: Back\r\n",
			expectedCards: 1,
			expectedFront: "Front",
			expectedBack:  "Back",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cards, err := Parse(strings.NewReader(tc.input))
			require.NoError(t, err)
			require.Len(t, cards, tc.expectedCards)

			if tc.expectedCards == 1 {
				card := cards[0]
				assert.Equal(t, tc.expectedFront, card.Front)
				assert.Equal(t, tc.expectedBack, card.Back)
				assert.Equal(t, tc.expectedTag, card.Tag)
			}
		})
	}
}

func TestParseFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logic.md")
	require.NoError(t, os.WriteFile(path, []byte("Q: if\nA: B → A\nT: Logic\n"), 0o644))

	cards, err := ParseFile(path)
	require.NoError(t, err)
	require.Len(t, cards, 1)
	assert.Equal(t, "Logic", cards[0].Tag)

	_, err = ParseFile(filepath.Join(t.TempDir(), "missing.md"))
	assert.Error(t, err)
}
