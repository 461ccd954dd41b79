package game

import (
	"github.com/mathspire/mathspire-server/internal/game/intent"
)

// CombatView is the JSON-ready snapshot of a combat sent to clients.
// It never exposes problem answers or the draw pile order.
type CombatView struct {
	CombatID  string          `json:"combat_id"`
	Phase     string          `json:"phase"`
	Turn      int             `json:"turn"`
	Player    PlayerView      `json:"player"`
	Enemies   []EnemyView     `json:"enemies"`
	Challenge *ChallengeView  `json:"challenge,omitempty"`
	Outcome   *Outcome        `json:"outcome,omitempty"`
}

// PlayerView mirrors the player's visible state.
type PlayerView struct {
	HP           int        `json:"hp"`
	MaxHP        int        `json:"max_hp"`
	Energy       int        `json:"energy"`
	MaxEnergy    int        `json:"max_energy"`
	Block        int        `json:"block"`
	Bonus        int        `json:"bonus"`
	Hand         []CardView `json:"hand"`
	DrawCount    int        `json:"draw_count"`
	DiscardCount int        `json:"discard_count"`
	DeckSize     int        `json:"deck_size"`
}

// CardView is one hand card as shown to the player.
type CardView struct {
	Instance string `json:"instance"`
	ID       string `json:"id"`
	Name     string `json:"name"`
	Category string `json:"category"`
	Cost     int    `json:"cost"`
	Value    int    `json:"value"`
	Effect   string `json:"effect"`
	Upgraded bool   `json:"upgraded"`
}

// EnemyView carries an enemy's state with its telegraphed intent:
// upcoming enemy actions are always visible, never hidden.
type EnemyView struct {
	ID     string        `json:"id"`
	Name   string        `json:"name"`
	HP     int           `json:"hp"`
	MaxHP  int           `json:"max_hp"`
	Alive  bool          `json:"alive"`
	Intent intent.Intent `json:"intent"`
}

// ChallengeView is the active math challenge, present only during the
// challenge phase. Options is empty in free-text mode.
type ChallengeView struct {
	CardName string   `json:"card_name"`
	Question string   `json:"question"`
	Options  []string `json:"options,omitempty"`
	FreeText bool     `json:"free_text"`
}

// view builds the snapshot; callers hold the combat lock.
func (cs *combatState) view() CombatView {
	v := CombatView{
		CombatID: cs.id,
		Phase:    cs.phase.String(),
		Turn:     cs.turn,
		Player: PlayerView{
			HP:           cs.player.HP,
			MaxHP:        cs.player.MaxHP,
			Energy:       cs.player.Energy,
			MaxEnergy:    cs.player.MaxEnergy,
			Block:        cs.player.Block,
			Bonus:        cs.player.Bonus,
			DrawCount:    len(cs.player.Piles.Draw),
			DiscardCount: len(cs.player.Piles.Discard),
			DeckSize:     masterDeckSize(cs.player),
		},
	}
	for _, c := range cs.player.Piles.Hand {
		v.Player.Hand = append(v.Player.Hand, CardView{
			Instance: c.Instance,
			ID:       c.ID,
			Name:     c.Name,
			Category: string(c.Category),
			Cost:     c.Cost,
			Value:    c.Value,
			Effect:   c.Effect.String(),
			Upgraded: c.Upgraded,
		})
	}
	for _, en := range cs.enemies {
		v.Enemies = append(v.Enemies, EnemyView{
			ID:     en.ID,
			Name:   en.Name,
			HP:     en.HP,
			MaxHP:  en.MaxHP,
			Alive:  en.Alive(),
			Intent: en.Intent,
		})
	}
	if cs.pending != nil && cs.pending.problem.Question != "" {
		v.Challenge = &ChallengeView{
			CardName: cs.pending.card.Name,
			Question: cs.pending.problem.Question,
			Options:  cs.pending.problem.Options,
			FreeText: cs.pending.problem.FreeText(),
		}
	}
	if cs.outcome != nil {
		out := *cs.outcome
		v.Outcome = &out
	}
	return v
}

// record appends the current view to the combat's replay buffer;
// callers hold the combat lock.
func (cs *combatState) record() {
	cs.replay.Record(cs.view())
}
