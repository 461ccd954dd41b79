package rules

import "fmt"

// Phase represents the states of the combat turn machine.
type Phase int

const (
	// PhasePlayer is the default state at the start of every player turn;
	// cards may be played and the turn may be ended only here.
	PhasePlayer Phase = iota
	// PhaseTargeting is entered when a targeted card is played while more
	// than one living enemy exists; it is the only cancellable phase.
	PhaseTargeting
	// PhaseMathChallenge gates the pending card on the puzzle oracle's
	// verdict. Energy is committed on answer, success or failure.
	PhaseMathChallenge
	// PhaseEnemyTurn covers the sequential resolution of enemy intents.
	// The engine resolves it synchronously; it appears to clients only in
	// the emitted event stream.
	PhaseEnemyTurn
	// PhaseEnded is the absorbing terminal state (victory or defeat).
	PhaseEnded
)

var phaseNames = map[Phase]string{
	PhasePlayer:        "PLAYER",
	PhaseTargeting:     "TARGETING",
	PhaseMathChallenge: "MATH_CHALLENGE",
	PhaseEnemyTurn:     "ENEMY_TURN",
	PhaseEnded:         "ENDED",
}

func (p Phase) String() string {
	if name, ok := phaseNames[p]; ok {
		return name
	}
	return fmt.Sprintf("PHASE_%d", int(p))
}

// Terminal reports whether the phase is an absorbing end state.
func (p Phase) Terminal() bool {
	return p == PhaseEnded
}
