// Package knol derives a stable content fingerprint for a card so the same
// question imported twice is recognised as one card.
package knol

import (
	"crypto/sha256"
	"fmt"
	"strings"

	"github.com/conorfennell/lsatprep/internal/domain"
)

// Normalize joins the card's front, back and tag after lowercasing, trimming
// and normalising line endings in each. Id, level and due are ignored.
func Normalize(card domain.Card) string {
	normalizePart := func(part string) string {
		p := strings.ToLower(part)
		p = strings.ReplaceAll(p, "\r\n", "\n")
		return strings.TrimSpace(p)
	}

	return strings.Join([]string{
		normalizePart(card.Front),
		normalizePart(card.Back),
		normalizePart(card.Tag),
	}, "\n")
}

// Hash returns the SHA-256 of the normalized card as a hex string.
func Hash(card domain.Card) string {
	sum := sha256.Sum256([]byte(Normalize(card)))
	return fmt.Sprintf("%x", sum)
}

// Set is a collection of card fingerprints.
type Set map[string]struct{}

// NewSet fingerprints every card.
func NewSet(cards []domain.Card) Set {
	s := make(Set, len(cards))
	for _, c := range cards {
		s.Add(c)
	}
	return s
}

// Add records the card's fingerprint and reports whether it was new.
func (s Set) Add(card domain.Card) bool {
	h := Hash(card)
	if _, ok := s[h]; ok {
		return false
	}
	s[h] = struct{}{}
	return true
}
