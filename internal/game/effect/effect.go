// Package effect implements the card effect resolver: a pure mapping
// from (card, actor snapshot, target, enemy snapshots, transient bonus)
// to state deltas plus the semantic events the resolution produced. The
// resolver never touches engine state; the engine applies the deltas.
package effect

import (
	"github.com/mathspire/mathspire-server/internal/game/rules"
)

// Actor is a snapshot of the player at resolution time. Hand lists the
// instance ids of every card in hand including the card being played;
// hand-size-scaled effects count it before removal.
type Actor struct {
	HP     int
	MaxHP  int
	Block  int
	Energy int
	Hand   []string
}

func (a Actor) handSize() int {
	return len(a.Hand)
}

// othersInHand returns every hand instance id except the played card.
func (a Actor) othersInHand(played string) []string {
	others := make([]string, 0, len(a.Hand))
	for _, id := range a.Hand {
		if id != played {
			others = append(others, id)
		}
	}
	return others
}

// Enemy is a snapshot of one enemy at resolution time.
type Enemy struct {
	ID string
	HP int
}

// Hit is one damage application to an enemy, in strict resolution
// order. Multi-hit effects produce one Hit per swing.
type Hit struct {
	Target   string
	Amount   int
	Critical bool
}

// ActorDelta describes the changes to apply to the player. HP and Block
// are signed deltas; SetHP/SetBlock, when non-nil, are absolute
// assignments applied instead (stat-swap semantics). Draw is a number
// of cards the engine draws via the deck subsystem after applying the
// rest. DiscardOther and UpgradeOther name hand instances chosen by the
// resolver for random discard/upgrade side effects.
type ActorDelta struct {
	HP       int
	Block    int
	Energy   int
	Bonus    int
	Draw     int
	SetHP    *int
	SetBlock *int

	DiscardOther string
	UpgradeOther string
}

// Outcome is the full result of resolving one card.
type Outcome struct {
	Actor  ActorDelta
	Hits   []Hit
	Events []rules.Event
}

// isPrime reports primality via trial division up to √n. Zero, one and
// negatives are not prime.
func isPrime(n int) bool {
	if n < 2 {
		return false
	}
	for d := 2; d*d <= n; d++ {
		if n%d == 0 {
			return false
		}
	}
	return true
}
