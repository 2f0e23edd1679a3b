package deck

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conorfennell/lsatprep/internal/domain"
	"github.com/conorfennell/lsatprep/internal/srs"
)

var now = time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC)

func card(id, tag string, level int, due time.Time) domain.Card {
	return domain.Card{ID: id, Front: "front " + id, Back: "back " + id, Tag: tag, Level: level, Due: due}
}

func mustDeck(t *testing.T, cards ...domain.Card) *Deck {
	t.Helper()
	d, err := New(cards...)
	require.NoError(t, err)
	return d
}

func TestNewCard(t *testing.T) {
	c := NewCard("  Front ", "Back", "   ", now)

	assert.NotEmpty(t, c.ID)
	assert.Equal(t, "Front", c.Front)
	assert.Equal(t, "", c.Tag, "blank tag is stored as absent")
	assert.Equal(t, domain.UntaggedLabel, c.DisplayTag())
	assert.Equal(t, 1, c.Level)
	assert.Equal(t, now, c.Due)
	assert.NotEqual(t, c.ID, NewCard("a", "b", "", now).ID)
}

func TestAdd(t *testing.T) {
	t.Run("rejects duplicate ids", func(t *testing.T) {
		d := mustDeck(t, card("a", "", 1, now))
		err := d.Add(card("a", "", 1, now))
		assert.ErrorIs(t, err, ErrDuplicateID)
		assert.Equal(t, 1, d.Len())
	})

	t.Run("rejects invalid cards", func(t *testing.T) {
		testCases := []struct {
			name string
			card domain.Card
		}{
			{"missing id", card("", "", 1, now)},
			{"blank front", domain.Card{ID: "x", Front: "  ", Back: "b", Level: 1, Due: now}},
			{"missing back", domain.Card{ID: "x", Front: "f", Level: 1, Due: now}},
			{"level zero", card("x", "", 0, now)},
			{"level six", card("x", "", 6, now)},
			{"zero due", card("x", "", 1, time.Time{})},
		}
		for _, tc := range testCases {
			t.Run(tc.name, func(t *testing.T) {
				var d Deck
				assert.ErrorIs(t, d.Add(tc.card), ErrInvalidCard)
				assert.Equal(t, 0, d.Len())
			})
		}
	})
}

func TestRemove(t *testing.T) {
	d := mustDeck(t, card("a", "", 1, now), card("b", "", 1, now), card("c", "", 1, now))

	require.NoError(t, d.Remove("b"))
	assert.Equal(t, 2, d.Len())
	_, ok := d.Get("b")
	assert.False(t, ok)

	got, ok := d.Get("c")
	require.True(t, ok)
	assert.Equal(t, "c", got.ID)

	assert.ErrorIs(t, d.Remove("b"), ErrCardNotFound)
}

func TestReplaceKeepsDeckOnError(t *testing.T) {
	d := mustDeck(t, card("a", "", 1, now))

	err := d.Replace([]domain.Card{card("x", "", 1, now), card("x", "", 1, now)})
	assert.ErrorIs(t, err, ErrDuplicateID)
	_, ok := d.Get("a")
	assert.True(t, ok)
}

func TestRate(t *testing.T) {
	d := mustDeck(t, card("a", "", 1, now), card("b", "", 4, now))

	got, err := d.Rate("a", srs.Good, now)
	require.NoError(t, err)
	assert.Equal(t, 2, got.Level)
	assert.Equal(t, now.Add(3*srs.Day), got.Due)

	got, err = d.Rate("b", srs.Again, now)
	require.NoError(t, err)
	assert.Equal(t, 1, got.Level)
	assert.Equal(t, now.Add(srs.Day), got.Due)

	stored, _ := d.Get("b")
	assert.Equal(t, got, stored)

	_, err = d.Rate("missing", srs.Good, now)
	assert.ErrorIs(t, err, ErrCardNotFound)
}

func TestQueue(t *testing.T) {
	d := mustDeck(t,
		card("logic-due", "Logic", 1, now.Add(-time.Hour)),
		card("rc-later", "RC", 2, now.Add(time.Hour)),
		card("rc-due", "RC", 3, now),
		card("flaw-due", "Flaws", 1, now.Add(-48*time.Hour)),
		card("plain-due", "", 1, now.Add(-time.Minute)),
	)

	ids := func(cards []domain.Card) []string {
		var out []string
		for _, c := range cards {
			out = append(out, c.ID)
		}
		return out
	}

	t.Run("due cards in deck order", func(t *testing.T) {
		assert.Equal(t, []string{"logic-due", "rc-due", "flaw-due", "plain-due"}, ids(d.Queue(now, AllTags)))
	})

	t.Run("tag filter", func(t *testing.T) {
		assert.Equal(t, []string{"rc-due"}, ids(d.Queue(now, "RC")))
	})

	t.Run("untagged filter uses display tag", func(t *testing.T) {
		assert.Equal(t, []string{"plain-due"}, ids(d.Queue(now, domain.UntaggedLabel)))
	})

	t.Run("empty filter means all", func(t *testing.T) {
		assert.Len(t, d.Queue(now, ""), 4)
	})

	t.Run("building twice yields the same list", func(t *testing.T) {
		assert.Equal(t, d.Queue(now, AllTags), d.Queue(now, AllTags))
	})
}

func TestTags(t *testing.T) {
	d := mustDeck(t,
		card("1", "Logic", 1, now),
		card("2", "", 1, now),
		card("3", "RC", 1, now),
		card("4", "Logic", 1, now),
	)
	assert.Equal(t, []string{"All", "Logic", "Untagged", "RC"}, d.Tags())

	var empty Deck
	assert.Equal(t, []string{"All"}, empty.Tags())
}

func TestStats(t *testing.T) {
	d := mustDeck(t,
		card("1", "Logic", 1, now),
		card("2", "RC", 2, now.Add(srs.Day)),
		card("3", "RC", 2, now),
	)

	s := d.Stats(now, AllTags)
	assert.Equal(t, Stats{Due: 2, Total: 3, AvgLevel: 1.7}, s)

	s = d.Stats(now, "RC")
	assert.Equal(t, 1, s.Due)

	var empty Deck
	assert.Equal(t, Stats{}, empty.Stats(now, AllTags))
}

func TestSample(t *testing.T) {
	cards := Sample(now)
	d := mustDeck(t, cards...)

	assert.Equal(t, 7, d.Len())
	assert.Equal(t, []string{"All", "Logic", "Flaws", "RC"}, d.Tags())
	assert.Len(t, d.Queue(now, AllTags), 7)
	for _, c := range cards {
		assert.Equal(t, 1, c.Level)
	}
}

func TestEncodeDecode(t *testing.T) {
	due := time.Date(2025, 4, 1, 12, 0, 0, 500_000_000, time.UTC)
	d := mustDeck(t, card("a", "Logic", 3, due), card("b", "", 1, now))

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, d))
	assert.Contains(t, buf.String(), `"dueISO": "2025-04-01T12:00:00.500Z"`)
	assert.NotContains(t, buf.String(), domain.UntaggedLabel)

	got, err := Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, d.Cards(), got.Cards())
}

func TestDecodeRejectsInvalidDocuments(t *testing.T) {
	testCases := []struct {
		name  string
		input string
	}{
		{"not json", "{"},
		{"not an array", `{"id":"a"}`},
		{"missing id", `[{"front":"f","back":"b","level":1,"dueISO":"2025-01-01T00:00:00.000Z"}]`},
		{"bad due", `[{"id":"a","front":"f","back":"b","level":1,"dueISO":"soon"}]`},
		{"level out of range", `[{"id":"a","front":"f","back":"b","level":9,"dueISO":"2025-01-01T00:00:00.000Z"}]`},
		{"duplicate ids", `[{"id":"a","front":"f","back":"b","level":1,"dueISO":"2025-01-01T00:00:00.000Z"},{"id":"a","front":"f","back":"b","level":1,"dueISO":"2025-01-01T00:00:00.000Z"}]`},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Decode(strings.NewReader(tc.input))
			assert.Error(t, err)
		})
	}
}
