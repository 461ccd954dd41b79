package game

import (
	"github.com/mathspire/mathspire-server/internal/game/deck"
	"github.com/mathspire/mathspire-server/internal/game/intent"
)

// PlayerState is the player's side of a combat instance. It is created
// from the persistent profile at combat start and discarded when combat
// ends; only HP and deck changes flow back to the meta-game.
type PlayerState struct {
	MaxHP     int
	HP        int
	Energy    int
	MaxEnergy int
	// Block absorbs incoming damage before HP and never goes negative.
	Block int
	// Bonus is the transient damage bonus added to outgoing damage; it
	// persists across plays within a turn cycle and resets at the next
	// turn start.
	Bonus int

	Piles *deck.Piles
}

// damage applies incoming damage through block absorption. Returns the
// blocked and unblocked portions.
func (p *PlayerState) damage(amount int) (blocked, unblocked int) {
	blocked = amount
	if p.Block < blocked {
		blocked = p.Block
	}
	unblocked = amount - blocked
	p.Block -= blocked
	p.HP -= unblocked
	if p.HP < 0 {
		p.HP = 0
	}
	return blocked, unblocked
}

// Enemy is one opponent in a combat instance. Enemies carry no block;
// their defend intent is cosmetic.
type Enemy struct {
	ID     string
	Name   string
	MaxHP  int
	HP     int
	Intent intent.Intent
}

// Alive treats any non-positive HP as dead; HP may sit below zero
// internally after overkill.
func (e *Enemy) Alive() bool {
	return e.HP > 0
}

// EnemyTemplate describes one enemy of an encounter. Templates arrive
// pre-scaled by tier logic outside this package.
type EnemyTemplate struct {
	Name  string
	MaxHP int
}

// snapshotHand returns the instance ids currently in hand, in order.
func snapshotHand(p *PlayerState) []string {
	ids := make([]string, len(p.Piles.Hand))
	for i, c := range p.Piles.Hand {
		ids[i] = c.Instance
	}
	return ids
}

// masterDeckSize returns the size of the combat's card pool; exhausted
// cards shrink it for the rest of the encounter.
func masterDeckSize(p *PlayerState) int {
	return p.Piles.Size()
}
