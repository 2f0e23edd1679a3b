package deck

import (
	"time"

	"github.com/conorfennell/lsatprep/internal/domain"
)

// Sample returns the starter LSAT deck, every card new and due at now.
func Sample(now time.Time) []domain.Card {
	mk := func(front, back, tag string) domain.Card {
		return NewCard(front, back, tag, now)
	}
	return []domain.Card{
		mk("Translate: 'only if'", "A only if B ⇒ A → B (B is necessary).", "Logic"),
		mk("Translate: 'if'", "A if B ⇒ B → A (B is sufficient).", "Logic"),
		mk("Translate: 'unless'", "A unless B ⇒ ¬B → A (equivalently A ∨ B).", "Logic"),
		mk("Flaw: Affirming the consequent", "If P→Q; Q; therefore P. Invalid; could be other cause.", "Flaws"),
		mk("Flaw: Causal – alternative cause", "Assumes X→Y without ruling out other causes.", "Flaws"),
		mk("RC: Author attitude words", "lauds/approves (positive); skeptical/concerned (negative); neutral/analytical.", "RC"),
		mk("RC: Topic vs Scope", "Topic=general subject; Scope=the specific slice the author addresses.", "RC"),
	}
}
