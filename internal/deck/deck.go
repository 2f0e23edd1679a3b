// Package deck holds the flashcard collection and the operations that read it:
// the due queue, tag listing, statistics and the single write path for a
// card's schedule.
package deck

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/conorfennell/lsatprep/internal/domain"
	"github.com/conorfennell/lsatprep/internal/srs"
)

var (
	ErrDuplicateID  = errors.New("deck: duplicate card id")
	ErrCardNotFound = errors.New("deck: card not found")
	ErrInvalidCard  = errors.New("deck: invalid card")
)

// Deck is an ordered collection of cards keyed by id.
// The zero value is an empty deck ready to use.
type Deck struct {
	cards []domain.Card
	index map[string]int
}

// New builds a deck from cards, validating each one and rejecting duplicate ids.
func New(cards ...domain.Card) (*Deck, error) {
	d := &Deck{}
	for _, c := range cards {
		if err := d.Add(c); err != nil {
			return nil, err
		}
	}
	return d, nil
}

// NewCard creates a level-1 card due at now with a fresh id.
// Blank tags are treated as absent.
func NewCard(front, back, tag string, now time.Time) domain.Card {
	return domain.Card{
		ID:    NewID(),
		Front: strings.TrimSpace(front),
		Back:  strings.TrimSpace(back),
		Tag:   strings.TrimSpace(tag),
		Level: srs.MinLevel,
		Due:   now,
	}
}

// NewID returns an opaque unique card id.
func NewID() string {
	return uuid.NewString()
}

// Len returns the number of cards in the deck.
func (d *Deck) Len() int {
	return len(d.cards)
}

// Cards returns a copy of the cards in deck order.
func (d *Deck) Cards() []domain.Card {
	out := make([]domain.Card, len(d.cards))
	copy(out, d.cards)
	return out
}

// Get looks a card up by id.
func (d *Deck) Get(id string) (domain.Card, bool) {
	i, ok := d.index[id]
	if !ok {
		return domain.Card{}, false
	}
	return d.cards[i], true
}

// Add appends a card after validating it.
func (d *Deck) Add(c domain.Card) error {
	if err := Validate(c); err != nil {
		return err
	}
	if _, exists := d.index[c.ID]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateID, c.ID)
	}
	if d.index == nil {
		d.index = make(map[string]int)
	}
	d.index[c.ID] = len(d.cards)
	d.cards = append(d.cards, c)
	return nil
}

// Remove deletes the card with the given id.
func (d *Deck) Remove(id string) error {
	i, ok := d.index[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrCardNotFound, id)
	}
	d.cards = append(d.cards[:i], d.cards[i+1:]...)
	d.reindex()
	return nil
}

// Replace swaps the whole contents of the deck. On error the deck is unchanged.
func (d *Deck) Replace(cards []domain.Card) error {
	next, err := New(cards...)
	if err != nil {
		return err
	}
	*d = *next
	return nil
}

// Rate applies a quality judgment to the card with the given id, storing
// the level and due time computed by the scheduler. It is the only method
// that changes a card's schedule.
func (d *Deck) Rate(id string, q srs.Quality, now time.Time) (domain.Card, error) {
	i, ok := d.index[id]
	if !ok {
		return domain.Card{}, fmt.Errorf("%w: %s", ErrCardNotFound, id)
	}
	res := srs.Next(d.cards[i].Level, q, now)
	d.cards[i].Level = res.Level
	d.cards[i].Due = res.Due
	return d.cards[i], nil
}

func (d *Deck) reindex() {
	d.index = make(map[string]int, len(d.cards))
	for i, c := range d.cards {
		d.index[c.ID] = i
	}
}
