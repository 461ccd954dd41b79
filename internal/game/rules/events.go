package rules

// EventType indicates the category of a combat event.
type EventType string

const (
	// Turn flow events
	EventTurnStart   EventType = "TURN_START"
	EventPhaseChange EventType = "PHASE_CHANGE"
	EventEnemyActed  EventType = "ENEMY_ACTED"
	EventIntentSet   EventType = "INTENT_SET"

	// Card events
	EventCardPlayed   EventType = "CARD_PLAYED"
	EventCardFizzled  EventType = "CARD_FIZZLED"
	EventCardExhaust  EventType = "CARD_EXHAUSTED"
	EventCardUpgraded EventType = "CARD_UPGRADED"
	EventCardDiscard  EventType = "CARD_DISCARDED"
	EventCardDrawn    EventType = "CARD_DRAWN"
	EventDeckShuffled EventType = "DECK_SHUFFLED"

	// Resource events
	EventDamage       EventType = "DAMAGE"
	EventCritical     EventType = "CRITICAL"
	EventBlocked      EventType = "BLOCKED"
	EventFullyBlocked EventType = "FULLY_BLOCKED"
	EventBlockGained  EventType = "BLOCK_GAINED"
	EventBlockLost    EventType = "BLOCK_LOST"
	EventHealed       EventType = "HEALED"
	EventEnergyGained EventType = "ENERGY_GAINED"
	EventBuffGained   EventType = "BUFF_GAINED"
	EventStatsSwapped EventType = "STATS_SWAPPED"

	// Terminal events
	EventVictory EventType = "VICTORY"
	EventDefeat  EventType = "DEFEAT"
)

// TargetPlayer is the Event.Target value used when the player, rather
// than an enemy, is affected.
const TargetPlayer = "player"

// Event is one entry of the ordered combat log. The engine emits events
// as it mutates state; presentation layers replay them with whatever
// pacing they like. Events are never consumed back by the engine.
type Event struct {
	Type   EventType `json:"type"`
	Target string    `json:"target,omitempty"` // enemy id or TargetPlayer
	Card   string    `json:"card,omitempty"`   // card instance id, when relevant
	Amount int       `json:"amount,omitempty"`
	Detail string    `json:"detail,omitempty"` // card name, phase name, intent kind...
}

// Log is an append-only event accumulator used by the engine's
// resolution helpers during a single action.
type Log struct {
	events []Event
}

// Emit appends an event to the log.
func (l *Log) Emit(ev Event) {
	l.events = append(l.events, ev)
}

// Events returns the accumulated events in emission order.
func (l *Log) Events() []Event {
	return l.events
}

// Drain returns the accumulated events and resets the log.
func (l *Log) Drain() []Event {
	evs := l.events
	l.events = nil
	return evs
}
