package main

import (
	"flag"
	"fmt"
	"math/rand"
	"os"

	"go.uber.org/zap"

	"github.com/mathspire/mathspire-server/internal/game"
	"github.com/mathspire/mathspire-server/internal/game/cards"
	"github.com/mathspire/mathspire-server/internal/game/rules"
	"github.com/mathspire/mathspire-server/internal/problems"
)

// The simulator plays seeded combats with the starter deck to gauge
// encounter balance. Challenges use a fixed question; the accuracy
// flag injects wrong answers at the given rate.

var (
	encounterID = flag.String("encounter", "lone_slime", "encounter to simulate")
	games       = flag.Int("games", 100, "number of combats to run")
	seed        = flag.Int64("seed", 1, "base seed; combat i uses seed+i")
	accuracy    = flag.Float64("accuracy", 0.9, "probability of answering a challenge correctly")
	maxTurns    = flag.Int("max-turns", 50, "abort a combat after this many turns")
	verbose     = flag.Bool("verbose", false, "log every engine event")
)

type fixedOracle struct{}

func (fixedOracle) Generate(topic cards.MathTopic) problems.Problem {
	return problems.New("3 + 4 = ?", nil, func(s string) bool { return s == "7" })
}

func main() {
	flag.Parse()

	logger := zap.NewNop()
	if *verbose {
		var err error
		logger, err = zap.NewDevelopment()
		if err != nil {
			fmt.Fprintf(os.Stderr, "logger: %v\n", err)
			os.Exit(1)
		}
	}

	encounter, err := game.Encounter(*encounterID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}

	answerRNG := rand.New(rand.NewSource(*seed))
	engine := game.NewEngine(logger, fixedOracle{})

	var victories, totalTurns, totalHP, aborted int
	for i := 0; i < *games; i++ {
		outcome, ok := runCombat(engine, encounter, *seed+int64(i), answerRNG)
		if !ok {
			aborted++
			continue
		}
		if outcome.Victory {
			victories++
			totalHP += outcome.RemainingHP
		}
		totalTurns += outcome.Turns
	}

	completed := *games - aborted
	fmt.Printf("encounter %s: %d combats, accuracy %.0f%%\n", encounter.ID, *games, *accuracy*100)
	if completed > 0 {
		fmt.Printf("  victories:    %d (%.1f%%)\n", victories, float64(victories)/float64(completed)*100)
		fmt.Printf("  avg turns:    %.1f\n", float64(totalTurns)/float64(completed))
	}
	if victories > 0 {
		fmt.Printf("  avg HP left:  %.1f\n", float64(totalHP)/float64(victories))
	}
	if aborted > 0 {
		fmt.Printf("  aborted:      %d (stalled past %d turns)\n", aborted, *maxTurns)
	}
}

func runCombat(engine *game.Engine, encounter game.EncounterTemplate, combatSeed int64, answerRNG *rand.Rand) (game.Outcome, bool) {
	combatID := fmt.Sprintf("sim-%d", combatSeed)
	defer engine.Remove(combatID)

	evs, err := engine.StartCombat(combatID, game.CombatSetup{
		Deck:    cards.StarterDeck(),
		HP:      40,
		MaxHP:   40,
		Enemies: encounter.Enemies,
		Seed:    combatSeed,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "start combat: %v\n", err)
		os.Exit(1)
	}
	trace(evs)

	for {
		view, err := engine.View(combatID)
		if err != nil {
			fmt.Fprintf(os.Stderr, "view: %v\n", err)
			os.Exit(1)
		}
		if view.Outcome != nil {
			return *view.Outcome, true
		}
		if view.Turn > *maxTurns {
			return game.Outcome{}, false
		}

		switch view.Phase {
		case "PLAYER":
			if !playAffordable(engine, combatID, view) {
				evs, err := engine.EndTurn(combatID)
				if err != nil {
					fmt.Fprintf(os.Stderr, "end turn: %v\n", err)
					os.Exit(1)
				}
				trace(evs)
			}
		case "TARGETING":
			evs, err := engine.SelectTarget(combatID, firstLiving(view))
			if err != nil {
				fmt.Fprintf(os.Stderr, "select target: %v\n", err)
				os.Exit(1)
			}
			trace(evs)
		case "MATH_CHALLENGE":
			answer := "7"
			if answerRNG.Float64() > *accuracy {
				answer = "0"
			}
			evs, err := engine.SubmitAnswer(combatID, answer)
			if err != nil {
				fmt.Fprintf(os.Stderr, "submit answer: %v\n", err)
				os.Exit(1)
			}
			trace(evs)
		default:
			fmt.Fprintf(os.Stderr, "unexpected phase %s\n", view.Phase)
			os.Exit(1)
		}
	}
}

// trace prints the ordered event log in verbose mode.
func trace(evs []rules.Event) {
	if !*verbose {
		return
	}
	for _, ev := range evs {
		fmt.Printf("  %-14s target=%-38s card=%-38s amount=%-3d %s\n",
			ev.Type, ev.Target, ev.Card, ev.Amount, ev.Detail)
	}
}

// playAffordable plays the first hand card the player can pay for.
func playAffordable(engine *game.Engine, combatID string, view game.CombatView) bool {
	for _, card := range view.Player.Hand {
		if card.Cost > view.Player.Energy {
			continue
		}
		evs, err := engine.PlayCard(combatID, card.Instance)
		if err != nil {
			continue
		}
		trace(evs)
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
