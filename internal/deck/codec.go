package deck

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/conorfennell/lsatprep/internal/domain"
)

// ISOLayout is the timestamp format of dueISO: UTC with millisecond precision.
const ISOLayout = "2006-01-02T15:04:05.000Z07:00"

// jsonCard is the export representation of a card.
type jsonCard struct {
	ID     string `json:"id"`
	Front  string `json:"front"`
	Back   string `json:"back"`
	Tag    string `json:"tag,omitempty"`
	Level  int    `json:"level"`
	DueISO string `json:"dueISO"`
}

// FormatDue renders a due time as dueISO.
func FormatDue(t time.Time) string {
	return t.UTC().Format(ISOLayout)
}

// ParseDue parses a dueISO timestamp. Any RFC 3339 form is accepted.
func ParseDue(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: dueISO %q", ErrInvalidCard, s)
	}
	return t, nil
}

// Encode writes the deck as a JSON array.
func Encode(w io.Writer, d *Deck) error {
	out := make([]jsonCard, 0, d.Len())
	for _, c := range d.cards {
		out = append(out, jsonCard{
			ID:     c.ID,
			Front:  c.Front,
			Back:   c.Back,
			Tag:    c.Tag,
			Level:  c.Level,
			DueISO: FormatDue(c.Due),
		})
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("failed to encode deck: %w", err)
	}
	return nil
}

// Decode reads a JSON array of cards. Every card is validated and ids must
// be unique; a document with any bad card is rejected as a whole.
func Decode(r io.Reader) (*Deck, error) {
	var in []jsonCard
	if err := json.NewDecoder(r).Decode(&in); err != nil {
		return nil, fmt.Errorf("failed to decode deck: %w", err)
	}
	cards := make([]domain.Card, 0, len(in))
	for i, jc := range in {
		due, err := ParseDue(jc.DueISO)
		if err != nil {
			return nil, fmt.Errorf("card %d: %w", i, err)
		}
		cards = append(cards, domain.Card{
			ID:    jc.ID,
			Front: jc.Front,
			Back:  jc.Back,
			Tag:   jc.Tag,
			Level: jc.Level,
			Due:   due,
		})
	}
	d, err := New(cards...)
	if err != nil {
		return nil, fmt.Errorf("failed to decode deck: %w", err)
	}
	return d, nil
}
