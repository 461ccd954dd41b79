package effect

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mathspire/mathspire-server/internal/game/cards"
	"github.com/mathspire/mathspire-server/internal/game/rules"
)

func testCard(t *testing.T, kind cards.EffectKind, value int) cards.Card {
	t.Helper()
	return cards.Card{
		Template: cards.Template{ID: "test", Name: "Test", Effect: kind, Value: value},
		Instance: "inst-test",
	}
}

func testRNG() *rand.Rand {
	return rand.New(rand.NewSource(1))
}

func hitTotal(out Outcome, target string) int {
	total := 0
	for _, h := range out.Hits {
		if h.Target == target {
			total += h.Amount
		}
	}
	return total
}

func TestDealDamage(t *testing.T) {
	actor := Actor{HP: 20, MaxHP: 20}
	enemies := []Enemy{{ID: "e1", HP: 10}}

	out, err := Resolve(testCard(t, cards.DealDamage, 6), actor, "e1", enemies, 2, testRNG())
	require.NoError(t, err)

	require.Len(t, out.Hits, 1)
	assert.Equal(t, 8, out.Hits[0].Amount, "value plus transient bonus")
	assert.Equal(t, "e1", out.Hits[0].Target)
}

func TestTargetedEffectRejectsMissingTarget(t *testing.T) {
	actor := Actor{HP: 20, MaxHP: 20}
	enemies := []Enemy{{ID: "e1", HP: 10}}

	_, err := Resolve(testCard(t, cards.DealDamage, 6), actor, "nope", enemies, 0, testRNG())
	assert.Error(t, err)

	_, err = Resolve(testCard(t, cards.DealDamage, 6), actor, "e1", []Enemy{{ID: "e1", HP: 0}}, 0, testRNG())
	assert.Error(t, err, "dead target is a caller bug")
}

func TestDamageAllSkipsDeadEnemies(t *testing.T) {
	actor := Actor{HP: 20, MaxHP: 20}
	enemies := []Enemy{{ID: "e1", HP: 10}, {ID: "e2", HP: 0}, {ID: "e3", HP: 4}}

	out, err := Resolve(testCard(t, cards.DamageAll, 4), actor, "", enemies, 1, testRNG())
	require.NoError(t, err)

	require.Len(t, out.Hits, 2)
	assert.Equal(t, 5, hitTotal(out, "e1"))
	assert.Equal(t, 5, hitTotal(out, "e3"))
	assert.Zero(t, hitTotal(out, "e2"))
}

func TestDamageXCountsHandBeforeRemoval(t *testing.T) {
	card := testCard(t, cards.DamageX, 2)
	actor := Actor{HP: 20, MaxHP: 20, Hand: []string{card.Instance, "a", "b", "c"}}
	enemies := []Enemy{{ID: "e1", HP: 30}}

	out, err := Resolve(card, actor, "e1", enemies, 1, testRNG())
	require.NoError(t, err)

	// 2 damage per card with the played card still counted: 2*4+1.
	assert.Equal(t, 9, hitTotal(out, "e1"))
}

func TestDamageEqualToBlock(t *testing.T) {
	actor := Actor{HP: 20, MaxHP: 20, Block: 7}
	enemies := []Enemy{{ID: "e1", HP: 30}}

	out, err := Resolve(testCard(t, cards.DamageEqualToBlock, 0), actor, "e1", enemies, 1, testRNG())
	require.NoError(t, err)
	assert.Equal(t, 8, hitTotal(out, "e1"))
}

func TestDamagePrimeDoublesOnPrimeHP(t *testing.T) {
	actor := Actor{HP: 20, MaxHP: 20}
	out, err := Resolve(testCard(t, cards.DamagePrime, 3), actor, "e1", []Enemy{{ID: "e1", HP: 7}}, 0, testRNG())
	require.NoError(t, err)

	require.Len(t, out.Hits, 1)
	assert.Equal(t, 6, out.Hits[0].Amount, "7 HP is prime, damage doubles")
	assert.True(t, out.Hits[0].Critical)

	var sawCrit bool
	for _, ev := range out.Events {
		if ev.Type == rules.EventCritical {
			sawCrit = true
		}
	}
	assert.True(t, sawCrit, "crit emits a distinct event")
}

func TestDamagePrimeNonPrimeHP(t *testing.T) {
	actor := Actor{HP: 20, MaxHP: 20}
	for _, hp := range []int{1, 4, 9, 15} {
		out, err := Resolve(testCard(t, cards.DamagePrime, 3), actor, "e1", []Enemy{{ID: "e1", HP: hp}}, 0, testRNG())
		require.NoError(t, err)
		assert.Equal(t, 3, out.Hits[0].Amount, "hp=%d", hp)
		assert.False(t, out.Hits[0].Critical, "hp=%d", hp)
	}
}

func TestDamageXDraw(t *testing.T) {
	card := testCard(t, cards.DamageXDraw, 0)
	actor := Actor{HP: 20, MaxHP: 20, Hand: []string{card.Instance, "a", "b"}}

	out, err := Resolve(card, actor, "e1", []Enemy{{ID: "e1", HP: 10}}, 0, testRNG())
	require.NoError(t, err)

	assert.Equal(t, 2, hitTotal(out, "e1"), "hand size minus the played card")
	assert.Equal(t, 1, out.Actor.Draw)
}

func TestDamageXDrawEmptyHandFloorsAtZero(t *testing.T) {
	card := testCard(t, cards.DamageXDraw, 0)
	actor := Actor{HP: 20, MaxHP: 20, Hand: []string{card.Instance}}

	out, err := Resolve(card, actor, "e1", []Enemy{{ID: "e1", HP: 10}}, 0, testRNG())
	require.NoError(t, err)
	assert.Equal(t, 0, hitTotal(out, "e1"))
}

func TestBlockSlamAppliesBlockBeforeDamage(t *testing.T) {
	actor := Actor{HP: 20, MaxHP: 20, Block: 2}

	out, err := Resolve(testCard(t, cards.BlockSlam, 3), actor, "e1", []Enemy{{ID: "e1", HP: 30}}, 0, testRNG())
	require.NoError(t, err)

	assert.Equal(t, 3, out.Actor.Block)
	assert.Equal(t, 5, hitTotal(out, "e1"), "damage reads the new block total")
}

func TestMultiHitProducesOrderedSeparateHits(t *testing.T) {
	actor := Actor{HP: 20, MaxHP: 20}

	out, err := Resolve(testCard(t, cards.MultiHit, 3), actor, "e1", []Enemy{{ID: "e1", HP: 5}}, 0, testRNG())
	require.NoError(t, err)

	require.Len(t, out.Hits, 3, "overkill hits still fire")
	for _, h := range out.Hits {
		assert.Equal(t, 3, h.Amount)
	}

	out2, err := Resolve(testCard(t, cards.MultiHit2, 3), actor, "e1", []Enemy{{ID: "e1", HP: 5}}, 1, testRNG())
	require.NoError(t, err)
	require.Len(t, out2.Hits, 2)
	assert.Equal(t, 4, out2.Hits[0].Amount)
}

func TestRecklessAttackSelfDamageFloorsAtOneHP(t *testing.T) {
	out, err := Resolve(testCard(t, cards.RecklessAttack, 5), Actor{HP: 20, MaxHP: 20}, "e1", []Enemy{{ID: "e1", HP: 10}}, 0, testRNG())
	require.NoError(t, err)
	assert.Equal(t, -1, out.Actor.HP)
	assert.Equal(t, 5, hitTotal(out, "e1"))

	// At 1 HP the self-damage does not apply.
	out, err = Resolve(testCard(t, cards.RecklessAttack, 5), Actor{HP: 1, MaxHP: 20}, "e1", []Enemy{{ID: "e1", HP: 10}}, 0, testRNG())
	require.NoError(t, err)
	assert.Equal(t, 0, out.Actor.HP)
}

func TestLifestealHealsCappedAtMax(t *testing.T) {
	out, err := Resolve(testCard(t, cards.Lifesteal, 4), Actor{HP: 18, MaxHP: 20}, "e1", []Enemy{{ID: "e1", HP: 10}}, 0, testRNG())
	require.NoError(t, err)
	assert.Equal(t, 1, out.Actor.HP)
	assert.Equal(t, 4, hitTotal(out, "e1"))

	out, err = Resolve(testCard(t, cards.Lifesteal, 4), Actor{HP: 20, MaxHP: 20}, "e1", []Enemy{{ID: "e1", HP: 10}}, 0, testRNG())
	require.NoError(t, err)
	assert.Equal(t, 0, out.Actor.HP, "no heal at full HP")
}

func TestBlockEnemyGainsTargetHP(t *testing.T) {
	out, err := Resolve(testCard(t, cards.BlockEnemy, 0), Actor{HP: 20, MaxHP: 20}, "e1", []Enemy{{ID: "e1", HP: 13}}, 0, testRNG())
	require.NoError(t, err)
	assert.Equal(t, 13, out.Actor.Block)
	assert.Empty(t, out.Hits)
}

func TestBlockDamageBothHalvesFire(t *testing.T) {
	out, err := Resolve(testCard(t, cards.BlockDamage, 0), Actor{HP: 20, MaxHP: 20}, "e1", []Enemy{{ID: "e1", HP: 10}}, 3, testRNG())
	require.NoError(t, err)
	assert.Equal(t, 1, out.Actor.Block)
	assert.Equal(t, 5, hitTotal(out, "e1"))
}

func TestDamageDiscardPicksOtherCard(t *testing.T) {
	card := testCard(t, cards.DamageDiscard, 7)
	actor := Actor{HP: 20, MaxHP: 20, Hand: []string{card.Instance, "a", "b"}}

	out, err := Resolve(card, actor, "e1", []Enemy{{ID: "e1", HP: 30}}, 0, testRNG())
	require.NoError(t, err)
	assert.Equal(t, 7, hitTotal(out, "e1"))
	assert.Contains(t, []string{"a", "b"}, out.Actor.DiscardOther)
	assert.NotEqual(t, card.Instance, out.Actor.DiscardOther)
}

func TestDamageDiscardNoOtherCards(t *testing.T) {
	card := testCard(t, cards.DamageDiscard, 7)
	actor := Actor{HP: 20, MaxHP: 20, Hand: []string{card.Instance}}

	out, err := Resolve(card, actor, "e1", []Enemy{{ID: "e1", HP: 30}}, 0, testRNG())
	require.NoError(t, err)
	assert.Empty(t, out.Actor.DiscardOther, "discard is a no-op with no other cards")
}

func TestGainEnergyAndBlockAndBuffAndDraw(t *testing.T) {
	actor := Actor{HP: 20, MaxHP: 20}

	out, err := Resolve(testCard(t, cards.GainEnergy, 1), actor, "", nil, 0, testRNG())
	require.NoError(t, err)
	assert.Equal(t, 1, out.Actor.Energy)

	out, err = Resolve(testCard(t, cards.GainBlock, 5), actor, "", nil, 0, testRNG())
	require.NoError(t, err)
	assert.Equal(t, 5, out.Actor.Block)

	out, err = Resolve(testCard(t, cards.GainBlockHeavy, 9), actor, "", nil, 0, testRNG())
	require.NoError(t, err)
	assert.Equal(t, 9, out.Actor.Block)

	out, err = Resolve(testCard(t, cards.BuffDamage, 2), actor, "", nil, 0, testRNG())
	require.NoError(t, err)
	assert.Equal(t, 2, out.Actor.Bonus)

	out, err = Resolve(testCard(t, cards.DrawCards, 2), actor, "", nil, 0, testRNG())
	require.NoError(t, err)
	assert.Equal(t, 2, out.Actor.Draw)
}

func TestBlockHandSizeExcludesPlayedCard(t *testing.T) {
	card := testCard(t, cards.BlockHandSize, 0)
	actor := Actor{HP: 20, MaxHP: 20, Hand: []string{card.Instance, "a", "b", "c"}}

	out, err := Resolve(card, actor, "", nil, 0, testRNG())
	require.NoError(t, err)
	assert.Equal(t, 3, out.Actor.Block)
}

func TestUpgradeHandPicksOtherCard(t *testing.T) {
	card := testCard(t, cards.UpgradeHand, 3)
	actor := Actor{HP: 20, MaxHP: 20, Hand: []string{card.Instance, "a"}}

	out, err := Resolve(card, actor, "", nil, 0, testRNG())
	require.NoError(t, err)
	assert.Equal(t, 3, out.Actor.Block)
	assert.Equal(t, "a", out.Actor.UpgradeOther)
}

func TestSwapStatsClamps(t *testing.T) {
	// Block above the cap; HP swaps in from block with floor 1.
	out, err := Resolve(testCard(t, cards.SwapStats, 0), Actor{HP: 25, MaxHP: 30, Block: 0}, "", nil, 0, testRNG())
	require.NoError(t, err)
	require.NotNil(t, out.Actor.SetBlock)
	require.NotNil(t, out.Actor.SetHP)
	assert.Equal(t, 10, *out.Actor.SetBlock, "block capped at 10")
	assert.Equal(t, 1, *out.Actor.SetHP, "HP floored at 1")

	out, err = Resolve(testCard(t, cards.SwapStats, 0), Actor{HP: 4, MaxHP: 10, Block: 50}, "", nil, 0, testRNG())
	require.NoError(t, err)
	assert.Equal(t, 4, *out.Actor.SetBlock)
	assert.Equal(t, 10, *out.Actor.SetHP, "HP capped at max")
}

func TestBlockDraw(t *testing.T) {
	out, err := Resolve(testCard(t, cards.BlockDraw, 3), Actor{HP: 20, MaxHP: 20}, "", nil, 0, testRNG())
	require.NoError(t, err)
	assert.Equal(t, 3, out.Actor.Block)
	assert.Equal(t, 1, out.Actor.Draw)
}

func TestIsPrime(t *testing.T) {
	primes := []int{2, 3, 5, 7, 11, 13, 17, 19, 23, 97}
	for _, n := range primes {
		assert.True(t, isPrime(n), "%d", n)
	}
	notPrimes := []int{-7, 0, 1, 4, 6, 9, 15, 49, 91, 100}
	for _, n := range notPrimes {
		assert.False(t, isPrime(n), "%d", n)
	}
}

func TestResolveDeterministicForSeed(t *testing.T) {
	card := testCard(t, cards.DamageDiscard, 7)
	actor := Actor{HP: 20, MaxHP: 20, Hand: []string{card.Instance, "a", "b", "c", "d"}}
	enemies := []Enemy{{ID: "e1", HP: 30}}

	a, err := Resolve(card, actor, "e1", enemies, 0, rand.New(rand.NewSource(11)))
	require.NoError(t, err)
	b, err := Resolve(card, actor, "e1", enemies, 0, rand.New(rand.NewSource(11)))
	require.NoError(t, err)
	assert.Equal(t, a, b)
}
