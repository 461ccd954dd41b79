package integration

import (
	"fmt"
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/mathspire/mathspire-server/internal/game"
	"github.com/mathspire/mathspire-server/internal/game/cards"
	"github.com/mathspire/mathspire-server/internal/problems"
)

// solve derives the correct answer from the generated question text so
// the test can drive real challenges end to end.
func solve(t *testing.T, question string) string {
	t.Helper()

	if strings.HasPrefix(question, "Is ") {
		var n int
		_, err := fmt.Sscanf(question, "Is %d a prime number?", &n)
		require.NoError(t, err)
		for d := 2; d*d <= n; d++ {
			if n%d == 0 {
				return "no"
			}
		}
		if n < 2 {
			return "no"
		}
		return "yes"
	}
	if strings.HasPrefix(question, "What is half of ") {
		var n int
		_, err := fmt.Sscanf(question, "What is half of %d?", &n)
		require.NoError(t, err)
		return fmt.Sprintf("%d", n/2)
	}

	var a, b int
	var op string
	_, err := fmt.Sscanf(question, "%d %s %d = ?", &a, &op, &b)
	require.NoError(t, err, "unrecognized question %q", question)
	switch op {
	case "+":
		return fmt.Sprintf("%d", a+b)
	case "-":
		return fmt.Sprintf("%d", a-b)
	case "×":
		return fmt.Sprintf("%d", a*b)
	case "÷":
		return fmt.Sprintf("%d", a/b)
	}
	t.Fatalf("unknown operator %q", op)
	return ""
}

// TestFullCombatFlow drives a complete combat through the engine with
// the real arithmetic generator, playing until a terminal phase.
func TestFullCombatFlow(t *testing.T) {
	logger := zaptest.NewLogger(t)
	oracle := problems.NewGenerator(rand.New(rand.NewSource(42)))
	engine := game.NewEngine(logger, oracle)

	encounter, err := game.Encounter("rat_pack")
	require.NoError(t, err)

	const combatID = "integration-1"
	_, err = engine.StartCombat(combatID, game.CombatSetup{
		Deck:    cards.StarterDeck(),
		HP:      40,
		MaxHP:   40,
		Enemies: encounter.Enemies,
		Seed:    42,
	})
	require.NoError(t, err)

	for step := 0; step < 500; step++ {
		view, err := engine.View(combatID)
		require.NoError(t, err)
		if view.Outcome != nil {
			require.Equal(t, "ENDED", view.Phase)
			require.True(t, view.Outcome.Victory, "starter deck beats a tier-1 encounter with perfect answers")
			require.Greater(t, view.Outcome.RemainingHP, 0)
			require.Greater(t, view.Outcome.Turns, 0)

			replay, err := engine.CombatReplay(combatID)
			require.NoError(t, err)
			require.Greater(t, replay.Size(), view.Outcome.Turns, "at least one snapshot per turn")
			return
		}

		switch view.Phase {
		case "PLAYER":
			if !playFirstAffordable(t, engine, combatID, view) {
				_, err := engine.EndTurn(combatID)
				require.NoError(t, err)
			}
		case "TARGETING":
			_, err := engine.SelectTarget(combatID, firstLiving(view))
			require.NoError(t, err)
		case "MATH_CHALLENGE":
			require.NotNil(t, view.Challenge)
			_, err := engine.SubmitAnswer(combatID, solve(t, view.Challenge.Question))
			require.NoError(t, err)
		default:
			t.Fatalf("unexpected phase %s", view.Phase)
		}
	}
	t.Fatal("combat did not finish within the step cap")
}

func playFirstAffordable(t *testing.T, engine *game.Engine, combatID string, view game.CombatView) bool {
	t.Helper()
	for _, card := range view.Player.Hand {
		if card.Cost > view.Player.Energy {
			continue
		}
		if _, err := engine.PlayCard(combatID, card.Instance); err != nil {
			continue
		}
		return true
	}
	return false
}

func firstLiving(view game.CombatView) string {
	for _, en := range view.Enemies {
		if en.Alive {
			return en.ID
		}
	}
	return ""
}
