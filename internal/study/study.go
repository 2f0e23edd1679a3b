// Package study owns the flashcard deck for a single user: it loads it from
// the persistence collaborator, runs the review session over it and writes it
// back after every change.
package study

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/conorfennell/lsatprep/internal/deck"
	"github.com/conorfennell/lsatprep/internal/domain"
	"github.com/conorfennell/lsatprep/internal/knol"
	"github.com/conorfennell/lsatprep/internal/srs"
)

var (
	ErrNoCurrentCard = errors.New("study: no card to review")
	ErrStaleCard     = errors.New("study: card is not the one being reviewed")
	ErrAnswerHidden  = errors.New("study: answer not revealed")
)

// Store loads and saves decks by key. Load must return an empty deck, never
// nil, when nothing usable is stored.
type Store interface {
	Load(key string) *deck.Deck
	Save(key string, d *deck.Deck) error
}

// ReviewRecorder is implemented by stores that keep a review log.
type ReviewRecorder interface {
	InsertReview(key string, r domain.ReviewLog) error
}

// Option configures a Study.
type Option func(*Study)

// WithClock overrides the wall clock.
func WithClock(now func() time.Time) Option {
	return func(s *Study) { s.now = now }
}

// Study is the single owner of a deck and its review session.
type Study struct {
	mu      sync.Mutex
	store   Store
	key     string
	now     func() time.Time
	deck    *deck.Deck
	filter  string
	session *Session
}

// New loads the deck stored under key and starts a session over every due card.
func New(store Store, key string, opts ...Option) *Study {
	s := &Study{
		store:  store,
		key:    key,
		now:    time.Now,
		filter: deck.AllTags,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.deck = store.Load(key)
	if s.deck == nil {
		s.deck = &deck.Deck{}
	}
	s.rebuild()
	return s
}

// View is what the presentation layer needs to render the review pane.
type View struct {
	Card     domain.Card
	HasCard  bool
	Revealed bool
	Position int
	QueueLen int
	Rated    int
	Complete bool
	Filter   string
}

// Current describes the card being presented, if any.
func (s *Study) Current() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view()
}

func (s *Study) view() View {
	v := View{
		Revealed: s.session.Revealed(),
		Position: s.session.Index(),
		QueueLen: s.session.Len(),
		Rated:    s.session.Rated(),
		Complete: s.session.Complete(),
		Filter:   s.filter,
	}
	if id, ok := s.session.Current(); ok {
		v.Card, v.HasCard = s.deck.Get(id)
	}
	return v
}

// Reveal shows the answer of the current card.
func (s *Study) Reveal() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.session.Reveal()
	return s.view()
}

// Flip toggles the current card between front and back.
func (s *Study) Flip() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.session.Flip()
	return s.view()
}

// Rate applies q to the card with the given id, which must be the card on
// display with its answer revealed, then advances the session and persists
// the deck. The in-memory change is kept even when saving fails.
func (s *Study) Rate(id string, q srs.Quality) (domain.Card, error) {
	if !q.IsValid() {
		return domain.Card{}, fmt.Errorf("%w: %q", srs.ErrInvalidQuality, string(q))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.session.Current()
	if !ok {
		return domain.Card{}, ErrNoCurrentCard
	}
	if id != current {
		return domain.Card{}, fmt.Errorf("%w: got %s, showing %s", ErrStaleCard, id, current)
	}
	if !s.session.Revealed() {
		return domain.Card{}, ErrAnswerHidden
	}
	now := s.now()
	card, err := s.deck.Rate(id, q, now)
	if err != nil {
		return domain.Card{}, err
	}
	s.session.Advance()

	slog.Debug("Card rated", "id", card.ID, "quality", q, "level", card.Level, "due", card.Due)
	if rec, ok := s.store.(ReviewRecorder); ok {
		err := rec.InsertReview(s.key, domain.ReviewLog{
			CardID:    card.ID,
			Timestamp: now,
			Quality:   q.String(),
			Level:     card.Level,
		})
		if err != nil {
			slog.Warn("Failed to log review", "id", card.ID, "error", err)
		}
	}
	return card, s.save()
}

// Filter returns the active tag filter.
func (s *Study) Filter() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.filter
}

// SetFilter restricts the session to a display tag and rebuilds the queue.
// An empty tag selects every card.
func (s *Study) SetFilter(tag string) View {
	if tag == "" {
		tag = deck.AllTags
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.filter = tag
	s.rebuild()
	return s.view()
}

// Restart rebuilds the queue from the cards due now.
func (s *Study) Restart() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rebuild()
	return s.view()
}

// Add creates a new card due now.
func (s *Study) Add(front, back, tag string) (domain.Card, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := deck.NewCard(front, back, tag, s.now())
	if err := s.deck.Add(c); err != nil {
		return domain.Card{}, err
	}
	s.rebuild()
	return c, s.save()
}

// Remove deletes a card.
func (s *Study) Remove(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.deck.Remove(id); err != nil {
		return err
	}
	s.rebuild()
	return s.save()
}

// LoadSample replaces the deck with the sample deck.
func (s *Study) LoadSample() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.replace(deck.Sample(s.now()))
}

// SeedSample loads the sample deck only when the deck is empty, reporting
// whether it did.
func (s *Study) SeedSample() (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.deck.Len() > 0 {
		return false, nil
	}
	return true, s.replace(deck.Sample(s.now()))
}

// Import replaces the deck with a JSON export. An invalid document leaves
// the deck untouched.
func (s *Study) Import(r io.Reader) error {
	d, err := deck.Decode(r)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.replace(d.Cards())
}

// Merge appends new cards built from the front, back and tag of drafts.
// Drafts whose content already exists in the deck, or repeats an earlier
// draft, are skipped; invalid drafts are reported in errs.
func (s *Study) Merge(drafts []domain.Card) (added int, errs []error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	seen := knol.NewSet(s.deck.Cards())
	now := s.now()
	for _, draft := range drafts {
		c := deck.NewCard(draft.Front, draft.Back, draft.Tag, now)
		if !seen.Add(c) {
			continue
		}
		if err := s.deck.Add(c); err != nil {
			errs = append(errs, fmt.Errorf("card %q: %w", draft.Front, err))
			continue
		}
		added++
	}
	if added == 0 {
		return 0, errs
	}
	s.rebuild()
	if err := s.save(); err != nil {
		errs = append(errs, err)
	}
	return added, errs
}

// Export writes the deck as JSON.
func (s *Study) Export(w io.Writer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return deck.Encode(w, s.deck)
}

// Stats summarises the deck under the active filter.
func (s *Study) Stats() deck.Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.deck.Stats(s.now(), s.filter)
}

// Tags lists the filter choices.
func (s *Study) Tags() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.deck.Tags()
}

// Cards returns every card in deck order.
func (s *Study) Cards() []domain.Card {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.deck.Cards()
}

func (s *Study) replace(cards []domain.Card) error {
	if err := s.deck.Replace(cards); err != nil {
		return err
	}
	s.rebuild()
	return s.save()
}

func (s *Study) rebuild() {
	s.session = NewSession(s.deck.Queue(s.now(), s.filter))
}

func (s *Study) save() error {
	if err := s.store.Save(s.key, s.deck); err != nil {
		slog.Error("Failed to save deck", "deck", s.key, "error", err)
		return fmt.Errorf("failed to save deck: %w", err)
	}
	return nil
}
