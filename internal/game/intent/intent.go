// Package intent produces enemy intents: the telegraphed action an
// enemy will take on its next turn, always visible to the player before
// it fires.
package intent

import (
	"fmt"
	"math/rand"
)

// Kind is the category of a telegraphed enemy action.
type Kind string

const (
	Attack Kind = "attack"
	Defend Kind = "defend"
	Buff   Kind = "buff"
)

// Intent is one telegraphed action. Defend and buff intents are purely
// cosmetic in this design: enemies carry no block mechanic.
type Intent struct {
	Kind  Kind `json:"kind"`
	Value int  `json:"value"`
}

func (i Intent) String() string {
	return fmt.Sprintf("%s %d", i.Kind, i.Value)
}

// Roll draws the next intent from the weighted policy: 40% light attack
// for 1-2, 30% defend (fixed 3, cosmetic), 30% heavy attack for 4. The
// asymmetric buckets give an overall 70% attack rate.
func Roll(rng *rand.Rand) Intent {
	r := rng.Float64()
	switch {
	case r > 0.6:
		return Intent{Kind: Attack, Value: rng.Intn(2) + 1}
	case r > 0.3:
		return Intent{Kind: Defend, Value: 3}
	default:
		return Intent{Kind: Attack, Value: 4}
	}
}
