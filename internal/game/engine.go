// Package game implements the combat engine: a turn state machine over
// a deck of cards, an energy economy, per-card effect resolution gated
// behind a math challenge, and sequential enemy intent resolution. All
// outcomes are computed synchronously; pacing belongs to presentation,
// which replays the ordered event log.
package game

import (
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mathspire/mathspire-server/internal/game/cards"
	"github.com/mathspire/mathspire-server/internal/game/deck"
	"github.com/mathspire/mathspire-server/internal/game/effect"
	"github.com/mathspire/mathspire-server/internal/game/intent"
	"github.com/mathspire/mathspire-server/internal/game/rules"
	"github.com/mathspire/mathspire-server/internal/problems"
)

// Domain rejections. These are expected conditions: the engine returns
// them without any state change and the caller surfaces feedback.
var (
	ErrUnknownCombat      = errors.New("game: unknown combat")
	ErrCombatOver         = errors.New("game: combat already ended")
	ErrIllegalPhase       = errors.New("game: action not legal in current phase")
	ErrInsufficientEnergy = errors.New("game: not enough energy")
	ErrInvalidTarget      = errors.New("game: invalid target")
	ErrCardNotInHand      = errors.New("game: card not in hand")
)

const (
	defaultMaxEnergy = 3
	turnHandSize     = 5
)

// Engine manages combat instances. Player and enemy state are owned
// exclusively by the engine for the duration of a combat; nothing
// outside mutates them.
type Engine struct {
	logger *zap.Logger
	oracle problems.Oracle

	mu      sync.RWMutex
	combats map[string]*combatState
}

// NewEngine creates an engine that gates card plays through oracle.
func NewEngine(logger *zap.Logger, oracle problems.Oracle) *Engine {
	return &Engine{
		logger:  logger,
		oracle:  oracle,
		combats: make(map[string]*combatState),
	}
}

// CombatSetup carries the encounter input: the player's persistent
// state and the pre-scaled enemy templates.
type CombatSetup struct {
	Deck      []cards.Card
	HP        int
	MaxHP     int
	MaxEnergy int
	Enemies   []EnemyTemplate
	// Seed fixes the combat's RNG (shuffles, intent rolls, random
	// picks). Zero means derive from the clock.
	Seed int64
}

// Outcome is the combat output consumed by the meta-game layer.
type Outcome struct {
	Victory     bool `json:"victory"`
	RemainingHP int  `json:"remaining_hp"`
	Turns       int  `json:"turns"`
}

// pendingCard exists only between card click and challenge resolution.
type pendingCard struct {
	card     cards.Card
	targetID string
	problem  problems.Problem
}

type combatState struct {
	mu      sync.Mutex
	id      string
	phase   rules.Phase
	turn    int
	player  *PlayerState
	enemies []*Enemy
	pending *pendingCard
	rng     *rand.Rand
	replay  *Replay
	outcome *Outcome
}

// StartCombat creates a combat instance, shuffles the full deck into
// the draw pile, rolls initial intents and starts the first player
// turn. Returns the events of the opening sequence.
func (e *Engine) StartCombat(combatID string, setup CombatSetup) ([]rules.Event, error) {
	if len(setup.Deck) == 0 {
		return nil, fmt.Errorf("game: combat %s needs a non-empty deck", combatID)
	}
	if len(setup.Enemies) == 0 {
		return nil, fmt.Errorf("game: combat %s needs at least one enemy", combatID)
	}
	if setup.HP <= 0 || setup.HP > setup.MaxHP {
		return nil, fmt.Errorf("game: combat %s has invalid hp %d/%d", combatID, setup.HP, setup.MaxHP)
	}

	maxEnergy := setup.MaxEnergy
	if maxEnergy <= 0 {
		maxEnergy = defaultMaxEnergy
	}
	seed := setup.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	cs := &combatState{
		id:    combatID,
		phase: rules.PhasePlayer,
		player: &PlayerState{
			MaxHP:     setup.MaxHP,
			HP:        setup.HP,
			MaxEnergy: maxEnergy,
			Piles:     deck.New(setup.Deck, rng),
		},
		rng:    rng,
		replay: NewReplay(combatID),
	}
	var log rules.Log
	for _, tmpl := range setup.Enemies {
		en := &Enemy{
			ID:     uuid.NewString(),
			Name:   tmpl.Name,
			MaxHP:  tmpl.MaxHP,
			HP:     tmpl.MaxHP,
			Intent: intent.Roll(rng),
		}
		cs.enemies = append(cs.enemies, en)
		log.Emit(rules.Event{Type: rules.EventIntentSet, Target: en.ID, Amount: en.Intent.Value, Detail: string(en.Intent.Kind)})
	}
	startTurn(cs, &log)

	e.mu.Lock()
	if _, dup := e.combats[combatID]; dup {
		e.mu.Unlock()
		return nil, fmt.Errorf("game: combat %s already exists", combatID)
	}
	e.combats[combatID] = cs
	e.mu.Unlock()

	cs.record()
	e.logger.Info("combat started",
		zap.String("combat_id", combatID),
		zap.Int("deck_size", len(setup.Deck)),
		zap.Int("enemies", len(setup.Enemies)),
		zap.Int64("seed", seed),
	)
	return log.Drain(), nil
}

// Remove drops a combat instance, usually after its outcome has been
// persisted.
func (e *Engine) Remove(combatID string) {
	e.mu.Lock()
	delete(e.combats, combatID)
	e.mu.Unlock()
}

func (e *Engine) combat(combatID string) (*combatState, error) {
	e.mu.RLock()
	cs, ok := e.combats[combatID]
	e.mu.RUnlock()
	if !ok {
		return nil, ErrUnknownCombat
	}
	return cs, nil
}

// PlayCard begins playing a hand card: it validates phase, hand
// membership and energy, then routes to targeting or straight to the
// math challenge. Energy is not paid yet; the cost commits when the
// challenge is answered.
func (e *Engine) PlayCard(combatID, instanceID string) ([]rules.Event, error) {
	cs, err := e.combat(combatID)
	if err != nil {
		return nil, err
	}
	cs.mu.Lock()
	defer cs.mu.Unlock()

	if cs.phase.Terminal() {
		return nil, ErrCombatOver
	}
	if cs.phase != rules.PhasePlayer {
		return nil, ErrIllegalPhase
	}
	card, ok := cs.player.Piles.InHand(instanceID)
	if !ok {
		return nil, ErrCardNotInHand
	}
	if card.Cost > cs.player.Energy {
		return nil, ErrInsufficientEnergy
	}

	var log rules.Log
	if card.Effect.Targeted() {
		living := cs.livingEnemies()
		switch len(living) {
		case 0:
			// Combat ends with the last enemy, so this is unreachable
			// through the engine's own transitions.
			return nil, ErrInvalidTarget
		case 1:
			cs.pending = &pendingCard{card: card, targetID: living[0].ID}
			e.enterChallenge(cs, &log)
		default:
			cs.pending = &pendingCard{card: card}
			cs.setPhase(rules.PhaseTargeting, &log)
		}
	} else {
		cs.pending = &pendingCard{card: card}
		e.enterChallenge(cs, &log)
	}

	cs.record()
	return log.Drain(), nil
}

// SelectTarget supplies the target for a pending targeted card.
// Selecting a dead or unknown enemy is ignored: the error is returned,
// state stays unchanged and a valid selection is still awaited.
func (e *Engine) SelectTarget(combatID, enemyID string) ([]rules.Event, error) {
	cs, err := e.combat(combatID)
	if err != nil {
		return nil, err
	}
	cs.mu.Lock()
	defer cs.mu.Unlock()

	if cs.phase != rules.PhaseTargeting {
		return nil, ErrIllegalPhase
	}
	target := cs.enemy(enemyID)
	if target == nil || !target.Alive() {
		return nil, ErrInvalidTarget
	}

	var log rules.Log
	cs.pending.targetID = enemyID
	e.enterChallenge(cs, &log)
	cs.record()
	return log.Drain(), nil
}

// CancelTarget aborts targeting. The pending card stays in hand and no
// energy is spent.
func (e *Engine) CancelTarget(combatID string) ([]rules.Event, error) {
	cs, err := e.combat(combatID)
	if err != nil {
		return nil, err
	}
	cs.mu.Lock()
	defer cs.mu.Unlock()

	if cs.phase != rules.PhaseTargeting {
		return nil, ErrIllegalPhase
	}

	var log rules.Log
	cs.pending = nil
	cs.setPhase(rules.PhasePlayer, &log)
	cs.record()
	return log.Drain(), nil
}

// SubmitAnswer resolves the math challenge for the pending card. The
// energy cost is paid whether or not the answer is correct; only a
// correct answer applies the card's effect. Either way the card leaves
// the hand and the machine returns to the player phase (or ends).
func (e *Engine) SubmitAnswer(combatID, answer string) ([]rules.Event, error) {
	cs, err := e.combat(combatID)
	if err != nil {
		return nil, err
	}
	cs.mu.Lock()
	defer cs.mu.Unlock()

	if cs.phase != rules.PhaseMathChallenge {
		return nil, ErrIllegalPhase
	}
	pending := cs.pending
	if pending == nil {
		return nil, fmt.Errorf("game: combat %s in challenge phase with no pending card", combatID)
	}

	var log rules.Log
	cs.player.Energy -= pending.card.Cost
	correct := pending.problem.Check(answer)

	if correct {
		if err := e.resolvePending(cs, pending, &log); err != nil {
			return nil, err
		}
	} else {
		failPending(cs, pending, &log)
	}
	cs.pending = nil
	if !cs.phase.Terminal() {
		cs.setPhase(rules.PhasePlayer, &log)
	}

	cs.record()
	e.logger.Debug("challenge answered",
		zap.String("combat_id", combatID),
		zap.String("card", pending.card.ID),
		zap.Bool("correct", correct),
	)
	return log.Drain(), nil
}

// AbandonChallenge handles a dismissed challenge modal: treated as a
// cancel without cost. The pending card returns to availability in
// hand and no energy is spent.
func (e *Engine) AbandonChallenge(combatID string) ([]rules.Event, error) {
	cs, err := e.combat(combatID)
	if err != nil {
		return nil, err
	}
	cs.mu.Lock()
	defer cs.mu.Unlock()

	if cs.phase != rules.PhaseMathChallenge {
		return nil, ErrIllegalPhase
	}

	var log rules.Log
	cs.pending = nil
	cs.setPhase(rules.PhasePlayer, &log)
	cs.record()
	return log.Drain(), nil
}

// EndTurn resolves the enemy phase synchronously: every living enemy
// acts in order, survivors roll fresh intents, and a new player turn
// begins. The emitted event sequence carries the pacing structure;
// replaying it with zero delay yields the same outcomes.
func (e *Engine) EndTurn(combatID string) ([]rules.Event, error) {
	cs, err := e.combat(combatID)
	if err != nil {
		return nil, err
	}
	cs.mu.Lock()
	defer cs.mu.Unlock()

	if cs.phase.Terminal() {
		return nil, ErrCombatOver
	}
	if cs.phase != rules.PhasePlayer {
		return nil, ErrIllegalPhase
	}

	var log rules.Log
	cs.setPhase(rules.PhaseEnemyTurn, &log)

	for _, en := range cs.enemies {
		if !en.Alive() {
			continue
		}
		switch en.Intent.Kind {
		case intent.Attack:
			log.Emit(rules.Event{Type: rules.EventEnemyActed, Target: en.ID, Amount: en.Intent.Value, Detail: string(intent.Attack)})
			damagePlayer(cs, en.Intent.Value, &log)
		default:
			// Defend and buff intents are cosmetic: no mechanical
			// change to the enemy.
			log.Emit(rules.Event{Type: rules.EventEnemyActed, Target: en.ID, Amount: en.Intent.Value, Detail: string(en.Intent.Kind)})
		}
		if cs.checkTerminal(&log) {
			cs.record()
			return log.Drain(), nil
		}
	}

	for _, en := range cs.enemies {
		if !en.Alive() {
			continue
		}
		en.Intent = intent.Roll(cs.rng)
		log.Emit(rules.Event{Type: rules.EventIntentSet, Target: en.ID, Amount: en.Intent.Value, Detail: string(en.Intent.Kind)})
	}

	startTurn(cs, &log)
	cs.setPhase(rules.PhasePlayer, &log)
	cs.record()
	return log.Drain(), nil
}

// View returns a snapshot of the combat for presentation.
func (e *Engine) View(combatID string) (CombatView, error) {
	cs, err := e.combat(combatID)
	if err != nil {
		return CombatView{}, err
	}
	cs.mu.Lock()
	defer cs.mu.Unlock()
	return cs.view(), nil
}

// CombatOutcome returns the outcome of a finished combat, or nil while
// it is still running.
func (e *Engine) CombatOutcome(combatID string) (*Outcome, error) {
	cs, err := e.combat(combatID)
	if err != nil {
		return nil, err
	}
	cs.mu.Lock()
	defer cs.mu.Unlock()
	if cs.outcome == nil {
		return nil, nil
	}
	out := *cs.outcome
	return &out, nil
}

// CombatReplay returns the recorded snapshot sequence for a combat.
func (e *Engine) CombatReplay(combatID string) (*Replay, error) {
	cs, err := e.combat(combatID)
	if err != nil {
		return nil, err
	}
	return cs.replay, nil
}

// enterChallenge asks the oracle for a problem matching the pending
// card's topic and suspends at the challenge phase.
func (e *Engine) enterChallenge(cs *combatState, log *rules.Log) {
	cs.pending.problem = e.oracle.Generate(cs.pending.card.Topic)
	cs.setPhase(rules.PhaseMathChallenge, log)
}

// resolvePending applies the pending card's effect after a correct
// answer: resolver deltas first, then ordered hits, then the card moves
// to discard and terminal conditions are evaluated.
func (e *Engine) resolvePending(cs *combatState, pending *pendingCard, log *rules.Log) error {
	actor := effect.Actor{
		HP:     cs.player.HP,
		MaxHP:  cs.player.MaxHP,
		Block:  cs.player.Block,
		Energy: cs.player.Energy,
		Hand:   snapshotHand(cs.player),
	}
	snaps := make([]effect.Enemy, len(cs.enemies))
	for i, en := range cs.enemies {
		snaps[i] = effect.Enemy{ID: en.ID, HP: en.HP}
	}

	out, err := effect.Resolve(pending.card, actor, pending.targetID, snaps, cs.player.Bonus, cs.rng)
	if err != nil {
		return err
	}

	log.Emit(rules.Event{Type: rules.EventCardPlayed, Card: pending.card.Instance, Detail: pending.card.Name})
	for _, ev := range out.Events {
		log.Emit(ev)
	}

	played, ok := cs.player.Piles.RemoveFromHand(pending.card.Instance)
	if !ok {
		return fmt.Errorf("game: pending card %s vanished from hand", pending.card.Instance)
	}

	applyActorDelta(cs, out.Actor, log)
	for _, h := range out.Hits {
		if en := cs.enemy(h.Target); en != nil {
			// Overkill is allowed: HP may go below zero and later
			// hits of the same card still land there.
			en.HP -= h.Amount
		}
	}

	cs.player.Piles.ToDiscard(played)
	cs.checkTerminal(log)
	return nil
}

// failPending handles an incorrect answer: no effect, the card leaves
// the hand (to discard, or out of the combat entirely for
// exhaust-on-fail cards) and any per-card failure penalty applies.
func failPending(cs *combatState, pending *pendingCard, log *rules.Log) {
	log.Emit(rules.Event{Type: rules.EventCardFizzled, Card: pending.card.Instance, Detail: pending.card.Name})

	played, ok := cs.player.Piles.RemoveFromHand(pending.card.Instance)
	if !ok {
		return
	}
	if played.ExhaustOnFail {
		// Permanently out of every pile for the rest of the encounter.
		log.Emit(rules.Event{Type: rules.EventCardExhaust, Card: played.Instance, Detail: played.Name})
	} else {
		cs.player.Piles.ToDiscard(played)
	}

	if played.FailBlockLoss > 0 {
		loss := played.FailBlockLoss
		if loss > cs.player.Block {
			loss = cs.player.Block
		}
		if loss > 0 {
			cs.player.Block -= loss
			log.Emit(rules.Event{Type: rules.EventBlockLost, Target: rules.TargetPlayer, Amount: loss})
		}
	}
}

// applyActorDelta commits the resolver's player-side changes and
// performs the deck operations it requested.
func applyActorDelta(cs *combatState, d effect.ActorDelta, log *rules.Log) {
	pl := cs.player

	if d.SetBlock != nil {
		pl.Block = *d.SetBlock
	} else {
		pl.Block += d.Block
	}
	if pl.Block < 0 {
		pl.Block = 0
	}

	if d.SetHP != nil {
		pl.HP = *d.SetHP
	} else {
		pl.HP += d.HP
	}
	if pl.HP > pl.MaxHP {
		pl.HP = pl.MaxHP
	}
	if pl.HP < 0 {
		pl.HP = 0
	}

	pl.Energy += d.Energy
	pl.Bonus += d.Bonus

	if d.DiscardOther != "" {
		if c, ok := pl.Piles.RemoveFromHand(d.DiscardOther); ok {
			pl.Piles.ToDiscard(c)
		}
	}
	if d.UpgradeOther != "" {
		if c, ok := pl.Piles.InHand(d.UpgradeOther); ok {
			pl.Piles.ReplaceInHand(c.CombatUpgrade())
		}
	}
	if d.Draw > 0 {
		drawCards(cs, d.Draw, log)
	}
}

// damagePlayer routes incoming damage through block absorption and
// emits the block/damage event pair; a fully absorbed hit gets its own
// event instead of a zero-damage one.
func damagePlayer(cs *combatState, amount int, log *rules.Log) {
	blocked, unblocked := cs.player.damage(amount)
	if blocked > 0 {
		log.Emit(rules.Event{Type: rules.EventBlocked, Target: rules.TargetPlayer, Amount: blocked})
	}
	if unblocked > 0 {
		log.Emit(rules.Event{Type: rules.EventDamage, Target: rules.TargetPlayer, Amount: unblocked})
	} else if blocked > 0 {
		log.Emit(rules.Event{Type: rules.EventFullyBlocked, Target: rules.TargetPlayer})
	}
}

// startTurn begins a player turn: unplayed cards sweep to discard, a
// fresh hand of five is drawn, and block, bonus and energy reset.
func startTurn(cs *combatState, log *rules.Log) {
	cs.turn++
	log.Emit(rules.Event{Type: rules.EventTurnStart, Amount: cs.turn})

	cs.player.Piles.SweepHand()
	cs.player.Block = 0
	cs.player.Bonus = 0
	cs.player.Energy = cs.player.MaxEnergy
	drawCards(cs, turnHandSize, log)
}

func drawCards(cs *combatState, n int, log *rules.Log) {
	drawn, shuffled := cs.player.Piles.DrawToHand(n, cs.rng)
	if shuffled {
		log.Emit(rules.Event{Type: rules.EventDeckShuffled})
	}
	for _, c := range drawn {
		log.Emit(rules.Event{Type: rules.EventCardDrawn, Card: c.Instance, Detail: c.Name})
	}
}

func (cs *combatState) setPhase(p rules.Phase, log *rules.Log) {
	cs.phase = p
	log.Emit(rules.Event{Type: rules.EventPhaseChange, Detail: p.String()})
}

func (cs *combatState) enemy(id string) *Enemy {
	for _, en := range cs.enemies {
		if en.ID == id {
			return en
		}
	}
	return nil
}

func (cs *combatState) livingEnemies() []*Enemy {
	var out []*Enemy
	for _, en := range cs.enemies {
		if en.Alive() {
			out = append(out, en)
		}
	}
	return out
}

// checkTerminal evaluates end conditions after a state mutation.
// Victory is checked before defeat so a turn that clears the last enemy
// wins even if the player's HP is also at zero.
func (cs *combatState) checkTerminal(log *rules.Log) bool {
	if cs.phase.Terminal() {
		return true
	}
	if len(cs.livingEnemies()) == 0 {
		cs.outcome = &Outcome{Victory: true, RemainingHP: cs.player.HP, Turns: cs.turn}
		log.Emit(rules.Event{Type: rules.EventVictory, Amount: cs.player.HP})
		cs.setPhase(rules.PhaseEnded, log)
		return true
	}
	if cs.player.HP <= 0 {
		cs.outcome = &Outcome{Victory: false, Turns: cs.turn}
		log.Emit(rules.Event{Type: rules.EventDefeat})
		cs.setPhase(rules.PhaseEnded, log)
		return true
	}
	return false
}
