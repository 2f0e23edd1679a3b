package deck

import (
	"math"
	"time"

	"github.com/conorfennell/lsatprep/internal/domain"
)

// AllTags is the filter value that matches every card.
const AllTags = "All"

// Queue returns the cards due at now, in deck order, restricted to the given
// display tag unless filter is AllTags or empty.
func (d *Deck) Queue(now time.Time, filter string) []domain.Card {
	var queue []domain.Card
	for _, c := range d.cards {
		if !c.IsDue(now) {
			continue
		}
		if !matchesTag(c, filter) {
			continue
		}
		queue = append(queue, c)
	}
	return queue
}

func matchesTag(c domain.Card, filter string) bool {
	return filter == "" || filter == AllTags || c.DisplayTag() == filter
}

// Tags returns AllTags followed by each distinct display tag in the order it
// first appears in the deck.
func (d *Deck) Tags() []string {
	tags := []string{AllTags}
	seen := map[string]bool{AllTags: true}
	for _, c := range d.cards {
		t := c.DisplayTag()
		if seen[t] {
			continue
		}
		seen[t] = true
		tags = append(tags, t)
	}
	return tags
}

// Stats summarises the deck for display.
type Stats struct {
	Due      int
	Total    int
	AvgLevel float64
}

// Stats counts the queue for filter at now, the deck size and the mean
// level rounded to one decimal place.
func (d *Deck) Stats(now time.Time, filter string) Stats {
	s := Stats{
		Due:   len(d.Queue(now, filter)),
		Total: len(d.cards),
	}
	if s.Total == 0 {
		return s
	}
	sum := 0
	for _, c := range d.cards {
		sum += c.Level
	}
	s.AvgLevel = math.Round(float64(sum)/float64(s.Total)*10) / 10
	return s
}
