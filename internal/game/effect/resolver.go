package effect

import (
	"fmt"
	"math/rand"

	"github.com/mathspire/mathspire-server/internal/game/cards"
	"github.com/mathspire/mathspire-server/internal/game/rules"
)

// swapBlockCap bounds the block granted by a stat swap.
const swapBlockCap = 10

// Resolve computes the outcome of playing card. The function is pure:
// given equal inputs (including rng state) it returns equal outcomes.
// targetID must name a living enemy for targeted effects; passing a
// missing or dead target is a caller bug and returns an error rather
// than corrupting state.
func Resolve(card cards.Card, actor Actor, targetID string, enemies []Enemy, bonus int, rng *rand.Rand) (Outcome, error) {
	var out Outcome

	var target Enemy
	if card.Effect.Targeted() {
		found := false
		for _, e := range enemies {
			if e.ID == targetID {
				target = e
				found = true
				break
			}
		}
		if !found {
			return Outcome{}, fmt.Errorf("effect: %s requires a target, %q not in enemy list", card.Effect, targetID)
		}
		if target.HP <= 0 {
			return Outcome{}, fmt.Errorf("effect: target %q is already dead", targetID)
		}
	}

	emit := func(ev rules.Event) {
		out.Events = append(out.Events, ev)
	}
	hit := func(amount int, critical bool) {
		out.Hits = append(out.Hits, Hit{Target: target.ID, Amount: amount, Critical: critical})
		if critical {
			emit(rules.Event{Type: rules.EventCritical, Target: target.ID, Card: card.Instance, Amount: amount})
		}
		emit(rules.Event{Type: rules.EventDamage, Target: target.ID, Card: card.Instance, Amount: amount})
	}
	gainBlock := func(amount int) {
		out.Actor.Block += amount
		emit(rules.Event{Type: rules.EventBlockGained, Target: rules.TargetPlayer, Card: card.Instance, Amount: amount})
	}

	switch card.Effect {
	case cards.DealDamage:
		hit(card.Value+bonus, false)

	case cards.DamageAll:
		for _, e := range enemies {
			if e.HP <= 0 {
				continue
			}
			amount := card.Value + bonus
			out.Hits = append(out.Hits, Hit{Target: e.ID, Amount: amount})
			emit(rules.Event{Type: rules.EventDamage, Target: e.ID, Card: card.Instance, Amount: amount})
		}

	case cards.DamageX:
		hit(card.Value*actor.handSize()+bonus, false)

	case cards.DamageEqualToBlock:
		hit(actor.Block+bonus, false)

	case cards.DamagePrime:
		amount := card.Value + bonus
		critical := isPrime(target.HP)
		if critical {
			amount *= 2
		}
		hit(amount, critical)

	case cards.DamageXDraw:
		amount := actor.handSize() - 1
		if amount < 0 {
			amount = 0
		}
		hit(amount+bonus, false)
		out.Actor.Draw = 1

	case cards.BlockSlam:
		gainBlock(card.Value)
		hit(actor.Block+card.Value+bonus, false)

	case cards.MultiHit:
		for i := 0; i < 3; i++ {
			hit(card.Value+bonus, false)
		}

	case cards.MultiHit2:
		for i := 0; i < 2; i++ {
			hit(card.Value+bonus, false)
		}

	case cards.RecklessAttack:
		// Self-damage floors at 1 HP; this card cannot kill its owner.
		if actor.HP > 1 {
			out.Actor.HP = -1
			emit(rules.Event{Type: rules.EventDamage, Target: rules.TargetPlayer, Card: card.Instance, Amount: 1})
		}
		hit(card.Value+bonus, false)

	case cards.Lifesteal:
		hit(card.Value+bonus, false)
		heal := 1
		if actor.HP+heal > actor.MaxHP {
			heal = actor.MaxHP - actor.HP
		}
		if heal > 0 {
			out.Actor.HP += heal
			emit(rules.Event{Type: rules.EventHealed, Target: rules.TargetPlayer, Card: card.Instance, Amount: heal})
		}

	case cards.BlockEnemy:
		gainBlock(target.HP)

	case cards.BlockDamage:
		gainBlock(1)
		hit(2+bonus, false)

	case cards.DamageDiscard:
		hit(card.Value+bonus, false)
		if pick, ok := pickOther(actor, card.Instance, rng); ok {
			out.Actor.DiscardOther = pick
			emit(rules.Event{Type: rules.EventCardDiscard, Card: pick})
		}

	case cards.GainEnergy:
		out.Actor.Energy = card.Value
		emit(rules.Event{Type: rules.EventEnergyGained, Target: rules.TargetPlayer, Card: card.Instance, Amount: card.Value})

	case cards.GainBlock, cards.GainBlockHeavy:
		gainBlock(card.Value)

	case cards.BlockHandSize:
		amount := actor.handSize() - 1
		if amount < 0 {
			amount = 0
		}
		gainBlock(amount)

	case cards.BuffDamage:
		out.Actor.Bonus = card.Value
		emit(rules.Event{Type: rules.EventBuffGained, Target: rules.TargetPlayer, Card: card.Instance, Amount: card.Value})

	case cards.DrawCards:
		out.Actor.Draw = card.Value

	case cards.UpgradeHand:
		gainBlock(card.Value)
		if pick, ok := pickOther(actor, card.Instance, rng); ok {
			out.Actor.UpgradeOther = pick
			emit(rules.Event{Type: rules.EventCardUpgraded, Card: pick})
		}

	case cards.SwapStats:
		newBlock := actor.HP
		if newBlock > swapBlockCap {
			newBlock = swapBlockCap
		}
		newHP := actor.Block
		if newHP < 1 {
			newHP = 1
		}
		if newHP > actor.MaxHP {
			newHP = actor.MaxHP
		}
		out.Actor.SetBlock = &newBlock
		out.Actor.SetHP = &newHP
		emit(rules.Event{Type: rules.EventStatsSwapped, Target: rules.TargetPlayer, Card: card.Instance})

	case cards.BlockDraw:
		gainBlock(card.Value)
		out.Actor.Draw = 1

	default:
		return Outcome{}, fmt.Errorf("effect: unhandled kind %s", card.Effect)
	}

	return out, nil
}

// pickOther chooses a uniformly-random hand card other than the played
// one. Returns false when no other card exists.
func pickOther(actor Actor, played string, rng *rand.Rand) (string, bool) {
	others := actor.othersInHand(played)
	if len(others) == 0 {
		return "", false
	}
	return others[rng.Intn(len(others))], true
}
