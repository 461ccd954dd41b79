package cards

import "github.com/google/uuid"

// Category groups cards for presentation and reward rolls.
type Category string

const (
	CategoryAttack Category = "attack"
	CategorySkill  Category = "skill"
	CategoryPower  Category = "power"
)

// Rarity drives reward odds; the combat engine does not read it.
type Rarity string

const (
	RarityStarter  Rarity = "starter"
	RarityCommon   Rarity = "common"
	RarityUncommon Rarity = "uncommon"
	RarityRare     Rarity = "rare"
)

// MathTopic hints the puzzle oracle toward a question family. The engine
// passes it through opaquely.
type MathTopic string

const (
	TopicAddition       MathTopic = "addition"
	TopicSubtraction    MathTopic = "subtraction"
	TopicMultiplication MathTopic = "multiplication"
	TopicDivision       MathTopic = "division"
	TopicPrimes         MathTopic = "primes"
	TopicFractions      MathTopic = "fractions"
)

// upgradeSuffix is appended to a card's name when it is upgraded.
const upgradeSuffix = "+"

// Template is the immutable catalog definition of a card.
type Template struct {
	ID           string
	Name         string
	Category     Category
	Cost         int
	Value        int
	Effect       EffectKind
	Rarity       Rarity
	Topic        MathTopic
	UpgradeDelta int

	// Optional penalties applied when the math challenge for this card
	// is answered incorrectly. Modeled per-card so the engine stays
	// generic.
	ExhaustOnFail bool
	FailBlockLoss int
}

// Card is one deck instance of a template. Duplicate templates in a deck
// are distinguished by Instance.
type Card struct {
	Template
	Instance string
	Upgraded bool
}

// Instantiate mints a new deck instance of the template.
func (t Template) Instantiate() Card {
	return Card{Template: t, Instance: uuid.NewString()}
}

// Upgrade returns a new instance with the template's upgrade delta
// applied. The original template is unaffected; upgrading an already
// upgraded card is a no-op.
func (c Card) Upgrade() Card {
	if c.Upgraded {
		return c
	}
	c.Instance = uuid.NewString()
	c.Value += c.UpgradeDelta
	c.Name += upgradeSuffix
	c.Upgraded = true
	return c
}

// combatUpgradeDelta is the fixed value bump applied by in-combat
// upgrades (the UpgradeHand effect); distinct from the per-template
// delta used between combats.
const combatUpgradeDelta = 3

// CombatUpgrade upgrades the card in place for the rest of the current
// combat, keeping its instance id so hand references stay valid.
func (c Card) CombatUpgrade() Card {
	if c.Upgraded {
		return c
	}
	c.Value += combatUpgradeDelta
	c.Name += upgradeSuffix
	c.Upgraded = true
	return c
}
