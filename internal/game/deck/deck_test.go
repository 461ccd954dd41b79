package deck

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mathspire/mathspire-server/internal/game/cards"
)

func testDeck(n int) []cards.Card {
	tmpl, err := cards.Get("strike")
	if err != nil {
		panic(err)
	}
	out := make([]cards.Card, 0, n)
	for i := 0; i < n; i++ {
		c := tmpl.Instantiate()
		c.Name = fmt.Sprintf("Strike %d", i)
		out = append(out, c)
	}
	return out
}

func TestNewShufflesFullDeck(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	p := New(testDeck(10), rng)

	assert.Len(t, p.Draw, 10)
	assert.Empty(t, p.Discard)
	assert.Empty(t, p.Hand)
}

func TestDrawToHand(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	p := New(testDeck(10), rng)

	drawn, shuffled := p.DrawToHand(5, rng)
	assert.Len(t, drawn, 5)
	assert.False(t, shuffled)
	assert.Len(t, p.Hand, 5)
	assert.Len(t, p.Draw, 5)
	assert.Equal(t, 10, p.Size())
}

func TestDrawReshufflesDiscardOnEmpty(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	p := New(testDeck(12), rng)

	// Leave 2 in draw, 10 in discard.
	drawn, _ := p.DrawToHand(10, rng)
	require.Len(t, drawn, 10)
	p.SweepHand()
	require.Len(t, p.Draw, 2)
	require.Len(t, p.Discard, 10)

	drawn, shuffled := p.DrawToHand(5, rng)
	assert.Len(t, drawn, 5)
	assert.True(t, shuffled)
	assert.Empty(t, p.Discard, "discard emptied into the reshuffled draw pile")
	assert.Len(t, p.Draw, 7)
	assert.Equal(t, 12, p.Size())
}

func TestDrawStopsWhenBothPilesEmpty(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	p := New(testDeck(3), rng)

	drawn, shuffled := p.DrawToHand(5, rng)
	assert.Len(t, drawn, 3, "short draw is a valid outcome")
	assert.False(t, shuffled)
	assert.Empty(t, p.Draw)
	assert.Empty(t, p.Discard)
}

func TestDrawInvariantAcrossManyCycles(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	p := New(testDeck(8), rng)

	for turn := 0; turn < 50; turn++ {
		p.SweepHand()
		p.DrawToHand(5, rng)
		if p.Size() != 8 {
			t.Fatalf("turn %d: pile total %d, want 8", turn, p.Size())
		}
	}
}

func TestRemoveFromHand(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	p := New(testDeck(6), rng)
	p.DrawToHand(3, rng)

	target := p.Hand[1]
	got, ok := p.RemoveFromHand(target.Instance)
	require.True(t, ok)
	assert.Equal(t, target.Instance, got.Instance)
	assert.Len(t, p.Hand, 2)

	// Removed card is in no pile until the caller routes it.
	assert.Equal(t, 5, p.Size())
	p.ToDiscard(got)
	assert.Equal(t, 6, p.Size())

	_, ok = p.RemoveFromHand("nonexistent")
	assert.False(t, ok)
}

func TestReplaceInHand(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	p := New(testDeck(4), rng)
	p.DrawToHand(2, rng)

	up := p.Hand[0].CombatUpgrade()
	require.True(t, p.ReplaceInHand(up))
	assert.True(t, p.Hand[0].Upgraded)

	missing := p.Draw[0]
	assert.False(t, p.ReplaceInHand(missing))
}

func TestShuffleDeterministicForSeed(t *testing.T) {
	master := testDeck(10)

	order := func(seed int64) []string {
		rng := rand.New(rand.NewSource(seed))
		p := New(master, rng)
		ids := make([]string, len(p.Draw))
		for i, c := range p.Draw {
			ids[i] = c.Instance
		}
		return ids
	}

	assert.Equal(t, order(99), order(99))
}
