package cards

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalogIntegrity(t *testing.T) {
	all := All()
	require.NotEmpty(t, all)

	seen := map[string]bool{}
	for _, tmpl := range all {
		if seen[tmpl.ID] {
			t.Errorf("duplicate template id %q", tmpl.ID)
		}
		seen[tmpl.ID] = true

		if tmpl.Cost < 0 {
			t.Errorf("card %q has negative cost %d", tmpl.ID, tmpl.Cost)
		}
		if tmpl.Name == "" {
			t.Errorf("card %q has no name", tmpl.ID)
		}
		if tmpl.Topic == "" {
			t.Errorf("card %q has no math topic", tmpl.ID)
		}
	}
}

func TestCatalogCoversEveryEffectKind(t *testing.T) {
	covered := map[EffectKind]bool{}
	for _, tmpl := range All() {
		covered[tmpl.Effect] = true
	}
	for kind := DealDamage; kind <= BlockDraw; kind++ {
		if !covered[kind] {
			t.Errorf("no catalog card uses effect kind %s", kind)
		}
	}
}

func TestExactlyOneExhaustOnFailCard(t *testing.T) {
	count := 0
	for _, tmpl := range All() {
		if tmpl.ExhaustOnFail {
			count++
		}
	}
	assert.Equal(t, 1, count)
}

func TestInstantiateAssignsUniqueInstances(t *testing.T) {
	tmpl, err := Get("strike")
	require.NoError(t, err)

	a := tmpl.Instantiate()
	b := tmpl.Instantiate()
	assert.NotEmpty(t, a.Instance)
	assert.NotEqual(t, a.Instance, b.Instance)
	assert.Equal(t, a.ID, b.ID)
}

func TestUpgrade(t *testing.T) {
	tmpl, err := Get("strike")
	require.NoError(t, err)

	card := tmpl.Instantiate()
	up := card.Upgrade()

	assert.True(t, up.Upgraded)
	assert.Equal(t, tmpl.Value+tmpl.UpgradeDelta, up.Value)
	assert.Equal(t, tmpl.Name+"+", up.Name)
	assert.NotEqual(t, card.Instance, up.Instance)

	// Original instance and template unaffected.
	assert.False(t, card.Upgraded)
	assert.Equal(t, tmpl.Value, card.Value)

	// Upgrading twice is a no-op.
	again := up.Upgrade()
	assert.Equal(t, up.Value, again.Value)
	assert.Equal(t, up.Name, again.Name)
}

func TestCombatUpgradeKeepsInstance(t *testing.T) {
	tmpl, err := Get("guard")
	require.NoError(t, err)

	card := tmpl.Instantiate()
	up := card.CombatUpgrade()

	assert.True(t, up.Upgraded)
	assert.Equal(t, card.Instance, up.Instance)
	assert.Equal(t, card.Value+3, up.Value)
}

func TestTargetedKinds(t *testing.T) {
	targeted := []EffectKind{
		DealDamage, DamageX, RecklessAttack, Lifesteal, MultiHit, MultiHit2,
		DamagePrime, BlockSlam, DamageEqualToBlock, BlockDamage,
		DamageDiscard, DamageXDraw, BlockEnemy,
	}
	for _, k := range targeted {
		assert.True(t, k.Targeted(), "%s should be targeted", k)
	}
	untargeted := []EffectKind{
		DamageAll, GainEnergy, GainBlock, GainBlockHeavy, BlockHandSize,
		BuffDamage, DrawCards, UpgradeHand, SwapStats, BlockDraw,
	}
	for _, k := range untargeted {
		assert.False(t, k.Targeted(), "%s should not be targeted", k)
	}
}

func TestStarterDeck(t *testing.T) {
	deck := StarterDeck()
	require.Len(t, deck, 10)

	ids := map[string]bool{}
	for _, c := range deck {
		assert.False(t, ids[c.Instance], "duplicate instance id in starter deck")
		ids[c.Instance] = true
	}
}
