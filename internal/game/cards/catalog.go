package cards

import "fmt"

// catalog is the static card registry. Values are templates, never
// mutated after init.
var catalog = map[string]Template{}

func register(t Template) {
	if _, dup := catalog[t.ID]; dup {
		panic(fmt.Sprintf("cards: duplicate template id %q", t.ID))
	}
	catalog[t.ID] = t
}

func init() {
	for _, t := range []Template{
		{ID: "strike", Name: "Strike", Category: CategoryAttack, Cost: 1, Value: 6, Effect: DealDamage, Rarity: RarityStarter, Topic: TopicAddition, UpgradeDelta: 3},
		{ID: "guard", Name: "Guard", Category: CategorySkill, Cost: 1, Value: 5, Effect: GainBlock, Rarity: RarityStarter, Topic: TopicAddition, UpgradeDelta: 3},
		{ID: "cleave", Name: "Cleave", Category: CategoryAttack, Cost: 1, Value: 4, Effect: DamageAll, Rarity: RarityCommon, Topic: TopicAddition, UpgradeDelta: 2},
		{ID: "double_tap", Name: "Double Tap", Category: CategoryAttack, Cost: 1, Value: 3, Effect: MultiHit2, Rarity: RarityCommon, Topic: TopicAddition, UpgradeDelta: 2},
		{ID: "flurry", Name: "Flurry", Category: CategoryAttack, Cost: 2, Value: 2, Effect: MultiHit, Rarity: RarityUncommon, Topic: TopicMultiplication, UpgradeDelta: 1},
		{ID: "multiplier", Name: "Multiplier", Category: CategoryAttack, Cost: 1, Value: 2, Effect: DamageX, Rarity: RarityUncommon, Topic: TopicMultiplication, UpgradeDelta: 1},
		{ID: "mirror_strike", Name: "Mirror Strike", Category: CategoryAttack, Cost: 1, Value: 0, Effect: DamageEqualToBlock, Rarity: RarityUncommon, Topic: TopicSubtraction, UpgradeDelta: 4},
		{ID: "prime_cut", Name: "Prime Cut", Category: CategoryAttack, Cost: 1, Value: 3, Effect: DamagePrime, Rarity: RarityRare, Topic: TopicPrimes, UpgradeDelta: 2},
		{ID: "tally_slash", Name: "Tally Slash", Category: CategoryAttack, Cost: 0, Value: 0, Effect: DamageXDraw, Rarity: RarityCommon, Topic: TopicAddition, UpgradeDelta: 2},
		{ID: "shield_bash", Name: "Shield Bash", Category: CategoryAttack, Cost: 2, Value: 3, Effect: BlockSlam, Rarity: RarityUncommon, Topic: TopicSubtraction, UpgradeDelta: 3},
		{ID: "reckless_swing", Name: "Reckless Swing", Category: CategoryAttack, Cost: 0, Value: 5, Effect: RecklessAttack, Rarity: RarityCommon, Topic: TopicSubtraction, UpgradeDelta: 3},
		{ID: "leech_blade", Name: "Leech Blade", Category: CategoryAttack, Cost: 1, Value: 4, Effect: Lifesteal, Rarity: RarityUncommon, Topic: TopicDivision, UpgradeDelta: 3},
		{ID: "tower_guard", Name: "Tower Guard", Category: CategorySkill, Cost: 1, Value: 0, Effect: BlockEnemy, Rarity: RarityRare, Topic: TopicSubtraction, UpgradeDelta: 3},
		{ID: "counterweight", Name: "Counterweight", Category: CategoryAttack, Cost: 0, Value: 0, Effect: BlockDamage, Rarity: RarityCommon, Topic: TopicAddition, UpgradeDelta: 2},
		{ID: "gambit", Name: "Gambit", Category: CategoryAttack, Cost: 1, Value: 7, Effect: DamageDiscard, Rarity: RarityRare, Topic: TopicFractions, UpgradeDelta: 4},
		{ID: "focus", Name: "Focus", Category: CategorySkill, Cost: 0, Value: 1, Effect: GainEnergy, Rarity: RarityUncommon, Topic: TopicDivision, UpgradeDelta: 1},
		{ID: "bulwark", Name: "Bulwark", Category: CategorySkill, Cost: 2, Value: 9, Effect: GainBlockHeavy, Rarity: RarityUncommon, Topic: TopicMultiplication, UpgradeDelta: 4},
		{ID: "headcount", Name: "Headcount", Category: CategorySkill, Cost: 1, Value: 0, Effect: BlockHandSize, Rarity: RarityCommon, Topic: TopicAddition, UpgradeDelta: 2},
		{ID: "sharpen", Name: "Sharpen", Category: CategoryPower, Cost: 1, Value: 2, Effect: BuffDamage, Rarity: RarityUncommon, Topic: TopicMultiplication, UpgradeDelta: 1},
		{ID: "quick_study", Name: "Quick Study", Category: CategorySkill, Cost: 1, Value: 2, Effect: DrawCards, Rarity: RarityCommon, Topic: TopicDivision, UpgradeDelta: 1},
		{ID: "whetstone", Name: "Whetstone", Category: CategorySkill, Cost: 1, Value: 3, Effect: UpgradeHand, Rarity: RarityRare, Topic: TopicFractions, UpgradeDelta: 2},
		{ID: "trade_off", Name: "Trade-Off", Category: CategorySkill, Cost: 0, Value: 0, Effect: SwapStats, Rarity: RarityRare, Topic: TopicFractions, UpgradeDelta: 0},
		{ID: "shield_drill", Name: "Shield Drill", Category: CategorySkill, Cost: 1, Value: 3, Effect: BlockDraw, Rarity: RarityCommon, Topic: TopicSubtraction, UpgradeDelta: 2},
		// High-risk cards carrying failure penalties.
		{ID: "all_in", Name: "All In", Category: CategoryAttack, Cost: 1, Value: 10, Effect: DealDamage, Rarity: RarityRare, Topic: TopicPrimes, UpgradeDelta: 4, ExhaustOnFail: true},
		{ID: "overreach", Name: "Overreach", Category: CategoryAttack, Cost: 1, Value: 8, Effect: DealDamage, Rarity: RarityUncommon, Topic: TopicMultiplication, UpgradeDelta: 3, FailBlockLoss: 2},
	} {
		register(t)
	}
}

// Get returns the template registered under id.
func Get(id string) (Template, error) {
	t, ok := catalog[id]
	if !ok {
		return Template{}, fmt.Errorf("cards: unknown template %q", id)
	}
	return t, nil
}

// All returns a copy of every registered template.
func All() []Template {
	out := make([]Template, 0, len(catalog))
	for _, t := range catalog {
		out = append(out, t)
	}
	return out
}

// StarterDeck instantiates the deck a fresh profile begins with.
func StarterDeck() []Card {
	ids := []string{
		"strike", "strike", "strike",
		"guard", "guard", "guard",
		"double_tap", "cleave", "quick_study", "focus",
	}
	deck := make([]Card, 0, len(ids))
	for _, id := range ids {
		t, err := Get(id)
		if err != nil {
			panic(err)
		}
		deck = append(deck, t.Instantiate())
	}
	return deck
}
