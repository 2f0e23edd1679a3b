package domain

import "time"

// UntaggedLabel is shown for cards without a tag. It is never stored.
const UntaggedLabel = "Untagged"

// Card is a single flashcard and its review schedule.
// Level and Due are written only by the rating operation.
type Card struct {
	ID    string    `validate:"required"`
	Front string    `validate:"notblank"`
	Back  string    `validate:"notblank"`
	Tag   string    // optional, empty when absent
	Level int       `validate:"min=1,max=5"`
	Due   time.Time `validate:"required"`
}

// DisplayTag returns the card's tag, or UntaggedLabel when it has none.
func (c Card) DisplayTag() string {
	if c.Tag == "" {
		return UntaggedLabel
	}
	return c.Tag
}

// IsDue reports whether the card should be presented at time now.
func (c Card) IsDue(now time.Time) bool {
	return !c.Due.After(now)
}

// ReviewLog records a single rating applied to a card.
type ReviewLog struct {
	CardID    string
	Timestamp time.Time
	Quality   string
	Level     int
}
