package game

import (
	"testing"

	"go.uber.org/zap/zaptest"

	"github.com/mathspire/mathspire-server/internal/game/cards"
	"github.com/mathspire/mathspire-server/internal/game/rules"
	"github.com/mathspire/mathspire-server/internal/problems"
)

const (
	rightAnswer = "4"
	wrongAnswer = "5"
)

// scriptedOracle always asks the same question so tests can choose
// success or failure by answer.
type scriptedOracle struct{}

func (scriptedOracle) Generate(topic cards.MathTopic) problems.Problem {
	return problems.New("2 + 2 = ?", []string{"3", "4", "5", "6"}, func(s string) bool {
		return s == rightAnswer
	})
}

// combatHarness sets up and drives combats for tests, with direct
// access to internal state for scenario staging.
type combatHarness struct {
	t      *testing.T
	engine *Engine
	id     string
}

func newHarness(t *testing.T, setup CombatSetup) *combatHarness {
	t.Helper()
	engine := NewEngine(zaptest.NewLogger(t), scriptedOracle{})
	if setup.Seed == 0 {
		setup.Seed = 1
	}
	if _, err := engine.StartCombat("combat-test", setup); err != nil {
		t.Fatalf("failed to start combat: %v", err)
	}
	return &combatHarness{t: t, engine: engine, id: "combat-test"}
}

// deckOf instantiates catalog templates into a deck.
func deckOf(t *testing.T, ids ...string) []cards.Card {
	t.Helper()
	out := make([]cards.Card, 0, len(ids))
	for _, id := range ids {
		tmpl, err := cards.Get(id)
		if err != nil {
			t.Fatalf("unknown catalog card %q: %v", id, err)
		}
		out = append(out, tmpl.Instantiate())
	}
	return out
}

// state returns the internal combat state for direct manipulation.
func (h *combatHarness) state() *combatState {
	h.t.Helper()
	cs, err := h.engine.combat(h.id)
	if err != nil {
		h.t.Fatalf("combat lookup: %v", err)
	}
	return cs
}

// handCard finds a hand card by its template id.
func (h *combatHarness) handCard(templateID string) cards.Card {
	h.t.Helper()
	cs := h.state()
	for _, c := range cs.player.Piles.Hand {
		if c.ID == templateID {
			return c
		}
	}
	h.t.Fatalf("no %q in hand", templateID)
	return cards.Card{}
}

// play drives a card through play, optional targeting and the math
// challenge, answering correctly.
func (h *combatHarness) play(templateID, targetID string) []rules.Event {
	return h.answer(templateID, targetID, rightAnswer)
}

// playWrong drives a card through the gate with an incorrect answer.
func (h *combatHarness) playWrong(templateID, targetID string) []rules.Event {
	return h.answer(templateID, targetID, wrongAnswer)
}

func (h *combatHarness) answer(templateID, targetID, submission string) []rules.Event {
	h.t.Helper()
	card := h.handCard(templateID)

	var all []rules.Event
	evs, err := h.engine.PlayCard(h.id, card.Instance)
	if err != nil {
		h.t.Fatalf("play %q: %v", templateID, err)
	}
	all = append(all, evs...)

	if h.state().phase == rules.PhaseTargeting {
		evs, err = h.engine.SelectTarget(h.id, targetID)
		if err != nil {
			h.t.Fatalf("select target for %q: %v", templateID, err)
		}
		all = append(all, evs...)
	}

	evs, err = h.engine.SubmitAnswer(h.id, submission)
	if err != nil {
		h.t.Fatalf("answer for %q: %v", templateID, err)
	}
	return append(all, evs...)
}

// hasEvent reports whether evs contains an event of the given type.
func hasEvent(evs []rules.Event, typ rules.EventType) bool {
	for _, ev := range evs {
		if ev.Type == typ {
			return true
		}
	}
	return false
}

// countEvents counts events of the given type.
func countEvents(evs []rules.Event, typ rules.EventType) int {
	n := 0
	for _, ev := range evs {
		if ev.Type == typ {
			n++
		}
	}
	return n
}
