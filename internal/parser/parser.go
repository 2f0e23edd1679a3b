// Package parser reads flashcards from Markdown notes. A card starts with a
// "Q:" line (front), continues with "A:" (back) and may carry a "T:" line
// (tag). Cards are separated by a new "Q:" or a "---" line; lines following a
// prefix belong to that field until the next prefix.
package parser

import (
	"bufio"
	"io"
	"os"
	"strings"

	"github.com/conorfennell/lsatprep/internal/domain"
)

const (
	frontPrefix = "Q:"
	backPrefix  = "A:"
	tagPrefix   = "T:"
	separator   = "---"
)

type state int

const (
	seeking state = iota
	readingFront
	readingBack
	readingTag
)

// ParseFile reads a file from the given path and extracts all cards.
func ParseFile(path string) ([]domain.Card, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return Parse(file)
}

// Parse extracts cards from r. Only Front, Back and Tag are filled in;
// cards without a front are dropped.
func Parse(r io.Reader) ([]domain.Card, error) {
	scanner := bufio.NewScanner(r)
	var cards []domain.Card
	var current domain.Card
	var block []string
	currentState := seeking

	flushBlock := func() {
		content := strings.TrimRight(strings.Join(block, "\n"), " \t\n")
		switch currentState {
		case readingFront:
			current.Front = content
		case readingBack:
			current.Back = content
		case readingTag:
			current.Tag = strings.TrimSpace(content)
		}
		block = nil
	}

	finishCard := func() {
		flushBlock()
		if current.Front != "" {
			cards = append(cards, current)
		}
		current = domain.Card{}
		currentState = seeking
	}

	for scanner.Scan() {
		line := strings.TrimSuffix(scanner.Text(), "\r")

		if line == separator {
			finishCard()
			continue
		}

		next, prefix := classify(line)
		if next == seeking {
			if currentState != seeking {
				block = append(block, line)
			}
			continue
		}

		if next == readingFront && currentState != seeking {
			finishCard()
		} else {
			flushBlock()
		}
		currentState = next
		block = append(block, strings.TrimPrefix(line[len(prefix):], " "))
	}

	finishCard()

	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return cards, nil
}

func classify(line string) (state, string) {
	switch {
	case strings.HasPrefix(line, frontPrefix):
		return readingFront, frontPrefix
	case strings.HasPrefix(line, backPrefix):
		return readingBack, backPrefix
	case strings.HasPrefix(line, tagPrefix):
		return readingTag, tagPrefix
	}
	return seeking, ""
}
