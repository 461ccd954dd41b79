// Package deck manages the three combat piles (draw, discard, hand) and
// the reshuffle-on-empty draw policy. All randomness comes from the
// caller's injected *rand.Rand so combats replay deterministically.
package deck

import (
	"math/rand"

	"github.com/mathspire/mathspire-server/internal/game/cards"
)

// Piles holds the combat-instance card pools. The union of the three
// slices is always a permutation of the deck the combat started with,
// minus any cards exhausted.
type Piles struct {
	Draw    []cards.Card
	Discard []cards.Card
	Hand    []cards.Card
}

// New shuffles a copy of the master deck into a fresh draw pile. Discard
// and hand start empty.
func New(master []cards.Card, rng *rand.Rand) *Piles {
	draw := make([]cards.Card, len(master))
	copy(draw, master)
	shuffle(draw, rng)
	return &Piles{Draw: draw}
}

// Size returns the total number of cards across all piles.
func (p *Piles) Size() int {
	return len(p.Draw) + len(p.Discard) + len(p.Hand)
}

// DrawToHand draws up to n cards into the hand. When the draw pile
// empties mid-draw the discard pile is shuffled in and drawing
// continues; when both piles are empty the draw stops early, which is a
// valid outcome rather than an error. Returns the drawn cards and
// whether a reshuffle happened.
func (p *Piles) DrawToHand(n int, rng *rand.Rand) (drawn []cards.Card, shuffled bool) {
	for i := 0; i < n; i++ {
		if len(p.Draw) == 0 {
			if len(p.Discard) == 0 {
				break
			}
			p.Draw = p.Discard
			p.Discard = nil
			shuffle(p.Draw, rng)
			shuffled = true
		}
		card := p.Draw[len(p.Draw)-1]
		p.Draw = p.Draw[:len(p.Draw)-1]
		p.Hand = append(p.Hand, card)
		drawn = append(drawn, card)
	}
	return drawn, shuffled
}

// SweepHand moves every card in hand (played or not) to the discard
// pile. Called at the start of each player turn before drawing.
func (p *Piles) SweepHand() {
	p.Discard = append(p.Discard, p.Hand...)
	p.Hand = nil
}

// InHand returns the hand card with the given instance id.
func (p *Piles) InHand(instance string) (cards.Card, bool) {
	for _, c := range p.Hand {
		if c.Instance == instance {
			return c, true
		}
	}
	return cards.Card{}, false
}

// RemoveFromHand takes the card with the given instance id out of the
// hand without routing it anywhere. The caller decides whether it goes
// to discard or is exhausted.
func (p *Piles) RemoveFromHand(instance string) (cards.Card, bool) {
	for i, c := range p.Hand {
		if c.Instance == instance {
			p.Hand = append(p.Hand[:i], p.Hand[i+1:]...)
			return c, true
		}
	}
	return cards.Card{}, false
}

// ToDiscard places a card on the discard pile.
func (p *Piles) ToDiscard(c cards.Card) {
	p.Discard = append(p.Discard, c)
}

// ReplaceInHand swaps the hand card sharing next's instance id for next.
// Used by in-combat upgrades.
func (p *Piles) ReplaceInHand(next cards.Card) bool {
	for i, c := range p.Hand {
		if c.Instance == next.Instance {
			p.Hand[i] = next
			return true
		}
	}
	return false
}

func shuffle(cs []cards.Card, rng *rand.Rand) {
	rng.Shuffle(len(cs), func(i, j int) {
		cs[i], cs[j] = cs[j], cs[i]
	})
}
