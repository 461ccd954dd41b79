package cards

import "fmt"

// EffectKind is the closed set of semantic actions a card can perform.
// The effect resolver switches exhaustively over these values, so adding
// a kind without handling it is a compile-visible change, not a silent
// string-lookup miss.
type EffectKind int

const (
	DealDamage EffectKind = iota
	DamageAll
	DamageX
	DamageEqualToBlock
	DamagePrime
	DamageXDraw
	BlockSlam
	MultiHit
	MultiHit2
	RecklessAttack
	Lifesteal
	BlockEnemy
	BlockDamage
	DamageDiscard
	GainEnergy
	GainBlock
	GainBlockHeavy
	BlockHandSize
	BuffDamage
	DrawCards
	UpgradeHand
	SwapStats
	BlockDraw
)

var kindNames = map[EffectKind]string{
	DealDamage:         "DEAL_DAMAGE",
	DamageAll:          "DAMAGE_ALL",
	DamageX:            "DAMAGE_X",
	DamageEqualToBlock: "DAMAGE_EQUAL_TO_BLOCK",
	DamagePrime:        "DAMAGE_PRIME",
	DamageXDraw:        "DAMAGE_X_DRAW",
	BlockSlam:          "BLOCK_SLAM",
	MultiHit:           "MULTI_HIT",
	MultiHit2:          "MULTI_HIT_2",
	RecklessAttack:     "RECKLESS_ATTACK",
	Lifesteal:          "LIFESTEAL",
	BlockEnemy:         "BLOCK_ENEMY",
	BlockDamage:        "BLOCK_DAMAGE",
	DamageDiscard:      "DAMAGE_DISCARD",
	GainEnergy:         "GAIN_ENERGY",
	GainBlock:          "GAIN_BLOCK",
	GainBlockHeavy:     "GAIN_BLOCK_HEAVY",
	BlockHandSize:      "BLOCK_HAND_SIZE",
	BuffDamage:         "BUFF_DAMAGE",
	DrawCards:          "DRAW_CARDS",
	UpgradeHand:        "UPGRADE_HAND",
	SwapStats:          "SWAP_STATS",
	BlockDraw:          "BLOCK_DRAW",
}

func (k EffectKind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("EFFECT_%d", int(k))
}

// Targeted reports whether the effect needs a single enemy target.
// Untargeted effects either hit every enemy or only touch the actor.
func (k EffectKind) Targeted() bool {
	switch k {
	case DealDamage, DamageX, RecklessAttack, Lifesteal, MultiHit, MultiHit2,
		DamagePrime, BlockSlam, DamageEqualToBlock, BlockDamage,
		DamageDiscard, DamageXDraw, BlockEnemy:
		return true
	}
	return false
}
