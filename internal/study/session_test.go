package study

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/conorfennell/lsatprep/internal/domain"
)

func TestSessionCycles(t *testing.T) {
	s := NewSession([]domain.Card{{ID: "a"}, {ID: "b"}, {ID: "c"}})

	for i := 0; i < s.Len(); i++ {
		assert.False(t, s.Complete())
		s.Advance()
	}
	assert.Equal(t, 0, s.Index(), "n advances return to the start")
	assert.True(t, s.Complete())

	id, ok := s.Current()
	assert.True(t, ok)
	assert.Equal(t, "a", id)
}

func TestSessionRevealResetsOnAdvance(t *testing.T) {
	s := NewSession([]domain.Card{{ID: "a"}, {ID: "b"}})

	s.Reveal()
	assert.True(t, s.Revealed())
	s.Flip()
	assert.False(t, s.Revealed())
	s.Flip()

	s.Advance()
	assert.False(t, s.Revealed())
}

func TestEmptySession(t *testing.T) {
	s := NewSession(nil)

	_, ok := s.Current()
	assert.False(t, ok)
	s.Advance()
	assert.Equal(t, 0, s.Index())
	assert.False(t, s.Complete())
}
