package intent

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRollPolicy(t *testing.T) {
	rng := rand.New(rand.NewSource(17))

	const rolls = 10000
	attacks, defends := 0, 0
	for i := 0; i < rolls; i++ {
		in := Roll(rng)
		switch in.Kind {
		case Attack:
			attacks++
			if in.Value != 1 && in.Value != 2 && in.Value != 4 {
				t.Fatalf("attack value %d outside {1,2,4}", in.Value)
			}
		case Defend:
			defends++
			if in.Value != 3 {
				t.Fatalf("defend value %d, want fixed 3", in.Value)
			}
		default:
			t.Fatalf("unexpected intent kind %q", in.Kind)
		}
	}

	attackRate := float64(attacks) / rolls
	assert.InDelta(t, 0.7, attackRate, 0.02, "attack probability should be 0.7")
	assert.InDelta(t, 0.3, float64(defends)/rolls, 0.02)
}

func TestRollDeterministicForSeed(t *testing.T) {
	a := rand.New(rand.NewSource(5))
	b := rand.New(rand.NewSource(5))
	for i := 0; i < 100; i++ {
		assert.Equal(t, Roll(a), Roll(b))
	}
}

func TestIntentString(t *testing.T) {
	assert.Equal(t, "attack 4", Intent{Kind: Attack, Value: 4}.String())
	assert.Equal(t, "defend 3", Intent{Kind: Defend, Value: 3}.String())
}
