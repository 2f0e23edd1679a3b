// Package srs implements the fixed-interval spaced-repetition schedule used by
// the flashcard deck: a card climbs one level per successful recall and drops
// back to the first level on a miss.
package srs

import (
	"encoding"
	"errors"
	"fmt"
	"time"
)

const (
	MinLevel = 1
	MaxLevel = 5
)

// Day is the unit of the interval table.
const Day = 24 * time.Hour

// intervals holds the number of days until a card of a given level is due
// again. Index 0 is never scheduled.
var intervals = [MaxLevel + 1]int{0, 1, 3, 7, 14, 30}

// ErrInvalidQuality is returned when a quality judgment cannot be parsed.
var ErrInvalidQuality = errors.New("srs: invalid quality")

// Quality is the user's binary self-assessment of recall.
type Quality string

const (
	Again Quality = "again" // Failed recall.
	Good  Quality = "good"  // Successful recall.
)

var (
	_ fmt.Stringer             = Quality("")
	_ encoding.TextMarshaler   = Quality("")
	_ encoding.TextUnmarshaler = (*Quality)(nil)
)

// ParseQuality converts "again" or "good" into a Quality.
func ParseQuality(s string) (Quality, error) {
	switch q := Quality(s); q {
	case Again, Good:
		return q, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidQuality, s)
}

func (q Quality) String() string { return string(q) }

// IsValid reports whether q is Again or Good.
func (q Quality) IsValid() bool {
	return q == Again || q == Good
}

// MarshalText implements encoding.TextMarshaler.
func (q Quality) MarshalText() ([]byte, error) {
	if !q.IsValid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidQuality, string(q))
	}
	return []byte(q), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (q *Quality) UnmarshalText(text []byte) error {
	v, err := ParseQuality(string(text))
	if err != nil {
		return err
	}
	*q = v
	return nil
}

// Result is the outcome of scheduling a single review.
type Result struct {
	Level int
	Due   time.Time
}

// Next computes the level and due time that follow a review graded q at
// time now. Good advances one level up to MaxLevel; anything else resets
// the card to MinLevel. Negative levels are treated as zero.
func Next(level int, q Quality, now time.Time) Result {
	newLevel := MinLevel
	if q == Good {
		newLevel = min(max(level, 0)+1, MaxLevel)
	}
	return Result{
		Level: newLevel,
		Due:   now.Add(interval(newLevel)),
	}
}

// interval returns the spacing for a level in [MinLevel, MaxLevel].
func interval(level int) time.Duration {
	return time.Duration(intervals[level]) * Day
}
