package study

import "github.com/conorfennell/lsatprep/internal/domain"

// Session walks a snapshot of the due queue. The snapshot is taken once and
// is not re-evaluated as cards are rated; the index wraps to the start after
// the last card so a sitting cycles until the queue is rebuilt.
type Session struct {
	queue    []string
	idx      int
	revealed bool
	rated    map[string]struct{}
}

// NewSession snapshots the ids of queue in order.
func NewSession(queue []domain.Card) *Session {
	ids := make([]string, len(queue))
	for i, c := range queue {
		ids[i] = c.ID
	}
	return &Session{queue: ids, rated: make(map[string]struct{})}
}

// Len returns the size of the queue snapshot.
func (s *Session) Len() int { return len(s.queue) }

// Index returns the position of the current card.
func (s *Session) Index() int { return s.idx }

// Current returns the id of the card being presented.
func (s *Session) Current() (string, bool) {
	if len(s.queue) == 0 {
		return "", false
	}
	return s.queue[s.idx], true
}

// Revealed reports whether the answer side is showing.
func (s *Session) Revealed() bool { return s.revealed }

// Reveal shows the answer side.
func (s *Session) Reveal() { s.revealed = true }

// Flip toggles between front and back.
func (s *Session) Flip() { s.revealed = !s.revealed }

// Advance records the current card as rated and moves to the next one,
// wrapping around, with the answer hidden again.
func (s *Session) Advance() {
	if id, ok := s.Current(); ok {
		s.rated[id] = struct{}{}
	}
	s.idx = (s.idx + 1) % max(len(s.queue), 1)
	s.revealed = false
}

// Rated returns how many distinct queued cards have been rated.
func (s *Session) Rated() int { return len(s.rated) }

// Complete reports whether every card in a non-empty queue has been rated at
// least once. Presentation keeps cycling regardless.
func (s *Session) Complete() bool {
	return len(s.queue) > 0 && len(s.rated) >= len(s.queue)
}
