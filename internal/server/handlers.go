package server

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mathspire/mathspire-server/internal/game"
	"github.com/mathspire/mathspire-server/internal/game/cards"
	"github.com/mathspire/mathspire-server/internal/game/rules"
	"github.com/mathspire/mathspire-server/internal/repository"
	"github.com/mathspire/mathspire-server/internal/session"
)

type authData struct {
	Username string `json:"username,omitempty"`
	Password string `json:"password,omitempty"`
	Token    string `json:"token,omitempty"`
}

type createCombatData struct {
	EncounterID string `json:"encounter_id"`
	Seed        int64  `json:"seed,omitempty"`
}

type playCardData struct {
	Instance string `json:"instance"`
}

type selectTargetData struct {
	EnemyID string `json:"enemy_id"`
}

type answerData struct {
	Answer string `json:"answer"`
}

// combatStatePayload pairs the fresh snapshot with the events that led
// to it, in resolution order.
type combatStatePayload struct {
	View   game.CombatView `json:"view"`
	Events []rules.Event   `json:"events"`
}

const dbTimeout = 5 * time.Second

func (h *Hub) handleMessage(c *Client, msg Message) {
	switch msg.Type {
	case "register":
		h.handleRegister(c, msg)
	case "login":
		h.handleLogin(c, msg)
	case "resume":
		h.handleResume(c, msg)
	case "create_combat":
		h.handleCreateCombat(c, msg)
	case "play_card":
		var data playCardData
		if !decode(c, msg, &data) {
			return
		}
		h.combatAction(c, func(id string) ([]rules.Event, error) {
			return h.engine.PlayCard(id, data.Instance)
		})
	case "select_target":
		var data selectTargetData
		if !decode(c, msg, &data) {
			return
		}
		h.combatAction(c, func(id string) ([]rules.Event, error) {
			return h.engine.SelectTarget(id, data.EnemyID)
		})
	case "cancel_target":
		h.combatAction(c, h.engine.CancelTarget)
	case "submit_answer":
		var data answerData
		if !decode(c, msg, &data) {
			return
		}
		h.combatAction(c, func(id string) ([]rules.Event, error) {
			return h.engine.SubmitAnswer(id, data.Answer)
		})
	case "abandon_challenge":
		h.combatAction(c, h.engine.AbandonChallenge)
	case "end_turn":
		h.combatAction(c, h.engine.EndTurn)
	case "state":
		h.handleState(c)
	default:
		c.sendError(msg.CombatID, "unknown message type "+msg.Type)
	}
}

func decode(c *Client, msg Message, into any) bool {
	if err := json.Unmarshal(msg.Data, into); err != nil {
		c.sendError(msg.CombatID, "malformed "+msg.Type+" payload")
		return false
	}
	return true
}

func (h *Hub) handleRegister(c *Client, msg Message) {
	if h.profiles == nil {
		c.sendError("", "persistence disabled; play as guest")
		return
	}
	var data authData
	if !decode(c, msg, &data) {
		return
	}
	if data.Username == "" || data.Password == "" {
		c.sendError("", "username and password required")
		return
	}

	hash, err := session.HashPassword(data.Password)
	if err != nil {
		h.logger.Error("hash password", zap.Error(err))
		c.sendError("", "internal error")
		return
	}

	deck := make([]repository.DeckCard, 0, 10)
	for _, card := range cards.StarterDeck() {
		deck = append(deck, repository.DeckCard{TemplateID: card.ID, Upgraded: card.Upgraded})
	}
	profile := &repository.Profile{
		ID:           uuid.NewString(),
		Username:     data.Username,
		PasswordHash: hash,
		HP:           h.cfg.Game.StartingHP,
		MaxHP:        h.cfg.Game.StartingHP,
		Gold:         h.cfg.Game.StartingGold,
		Deck:         deck,
	}

	ctx, cancel := context.WithTimeout(context.Background(), dbTimeout)
	defer cancel()
	if err := h.profiles.Create(ctx, profile); err != nil {
		h.logger.Warn("create profile", zap.String("username", data.Username), zap.Error(err))
		c.sendError("", "could not create profile")
		return
	}
	h.startSession(c, profile)
}

func (h *Hub) handleLogin(c *Client, msg Message) {
	if h.profiles == nil {
		c.sendError("", "persistence disabled; play as guest")
		return
	}
	var data authData
	if !decode(c, msg, &data) {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), dbTimeout)
	defer cancel()
	profile, err := h.profiles.GetByUsername(ctx, data.Username)
	if err != nil || !session.CheckPassword(profile.PasswordHash, data.Password) {
		c.sendError("", "invalid credentials")
		return
	}
	h.startSession(c, profile)
}

func (h *Hub) startSession(c *Client, profile *repository.Profile) {
	s := h.sessions.Create(profile.ID, profile.Username)
	c.mu.Lock()
	c.profileID = profile.ID
	c.username = profile.Username
	c.mu.Unlock()

	c.sendResponse(Response{Type: "session", Data: map[string]any{
		"token":    s.Token,
		"username": profile.Username,
		"hp":       profile.HP,
		"max_hp":   profile.MaxHP,
		"gold":     profile.Gold,
	}})
}

func (h *Hub) handleResume(c *Client, msg Message) {
	var data authData
	if !decode(c, msg, &data) {
		return
	}
	s, err := h.sessions.Validate(data.Token)
	if err != nil {
		c.sendError("", "session invalid or expired")
		return
	}
	c.mu.Lock()
	c.profileID = s.ProfileID
	c.username = s.Username
	c.mu.Unlock()
	c.sendResponse(Response{Type: "session", Data: map[string]any{
		"token":    s.Token,
		"username": s.Username,
	}})
}

func (h *Hub) handleCreateCombat(c *Client, msg Message) {
	var data createCombatData
	if !decode(c, msg, &data) {
		return
	}
	encounter, err := game.Encounter(data.EncounterID)
	if err != nil {
		c.sendError("", "unknown encounter "+data.EncounterID)
		return
	}

	deck := cards.StarterDeck()
	hp := h.cfg.Game.StartingHP
	maxHP := h.cfg.Game.StartingHP

	c.mu.Lock()
	profileID := c.profileID
	c.mu.Unlock()
	if profileID != "" && h.profiles != nil {
		ctx, cancel := context.WithTimeout(context.Background(), dbTimeout)
		profile, err := h.profiles.Get(ctx, profileID)
		cancel()
		if err != nil {
			c.sendError("", "profile unavailable")
			return
		}
		deck = buildDeck(profile.Deck)
		hp, maxHP = profile.HP, profile.MaxHP
	}

	combatID := uuid.NewString()
	evs, err := h.engine.StartCombat(combatID, game.CombatSetup{
		Deck:      deck,
		HP:        hp,
		MaxHP:     maxHP,
		MaxEnergy: h.cfg.Game.MaxEnergy,
		Enemies:   encounter.Enemies,
		Seed:      data.Seed,
	})
	if err != nil {
		h.logger.Error("start combat", zap.Error(err))
		c.sendError("", "could not start combat")
		return
	}

	c.mu.Lock()
	if prior := c.combatID; prior != "" {
		h.engine.Remove(prior)
	}
	c.combatID = combatID
	c.encounterID = encounter.ID
	username := c.username
	c.mu.Unlock()

	h.logger.Info("combat started",
		zap.String("combat_id", combatID),
		zap.String("encounter", encounter.ID),
		zap.String("username", username),
	)
	h.respondState(c, combatID, evs)
}

// buildDeck rehydrates a persisted deck, falling back to the starter
// deck when every saved template is unknown.
func buildDeck(saved []repository.DeckCard) []cards.Card {
	out := make([]cards.Card, 0, len(saved))
	for _, dc := range saved {
		tmpl, err := cards.Get(dc.TemplateID)
		if err != nil {
			continue
		}
		card := tmpl.Instantiate()
		if dc.Upgraded {
			card = card.Upgrade()
		}
		out = append(out, card)
	}
	if len(out) == 0 {
		return cards.StarterDeck()
	}
	return out
}

// combatAction runs one engine operation against the client's combat
// and replies with the snapshot plus events.
func (h *Hub) combatAction(c *Client, op func(combatID string) ([]rules.Event, error)) {
	c.mu.Lock()
	combatID := c.combatID
	c.mu.Unlock()
	if combatID == "" {
		c.sendError("", "no active combat")
		return
	}

	evs, err := op(combatID)
	if err != nil {
		c.sendError(combatID, engineErrorMessage(err))
		return
	}
	h.respondState(c, combatID, evs)
	h.finishIfOver(c, combatID)
}

func (h *Hub) handleState(c *Client) {
	c.mu.Lock()
	combatID := c.combatID
	c.mu.Unlock()
	if combatID == "" {
		c.sendError("", "no active combat")
		return
	}
	h.respondState(c, combatID, nil)
}

func (h *Hub) respondState(c *Client, combatID string, evs []rules.Event) {
	view, err := h.engine.View(combatID)
	if err != nil {
		c.sendError(combatID, engineErrorMessage(err))
		return
	}
	if evs == nil {
		evs = []rules.Event{}
	}
	c.sendResponse(Response{
		Type:     "combat_state",
		CombatID: combatID,
		Data:     combatStatePayload{View: view, Events: evs},
	})
}

// finishIfOver persists the outcome once a combat reaches a terminal
// phase, then archives its replay.
func (h *Hub) finishIfOver(c *Client, combatID string) {
	outcome, err := h.engine.CombatOutcome(combatID)
	if err != nil || outcome == nil {
		return
	}

	if replay, err := h.engine.CombatReplay(combatID); err == nil && h.cfg.Server.ReplayDir != "" {
		if err := replay.SaveToFile(h.cfg.Server.ReplayDir); err != nil {
			h.logger.Warn("save replay", zap.String("combat_id", combatID), zap.Error(err))
		}
	}

	c.mu.Lock()
	profileID := c.profileID
	encounterID := c.encounterID
	c.mu.Unlock()
	if profileID == "" || h.profiles == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), dbTimeout)
	defer cancel()

	result := &repository.CombatResult{
		ID:          uuid.NewString(),
		ProfileID:   profileID,
		EncounterID: encounterID,
		Victory:     outcome.Victory,
		RemainingHP: outcome.RemainingHP,
		Turns:       outcome.Turns,
	}
	if err := h.profiles.RecordResult(ctx, result); err != nil {
		h.logger.Warn("record combat result", zap.Error(err))
	}

	profile, err := h.profiles.Get(ctx, profileID)
	if err != nil {
		h.logger.Warn("load profile for progress update", zap.Error(err))
		return
	}
	profile.HP = outcome.RemainingHP
	if outcome.Victory {
		profile.Gold += h.cfg.Game.VictoryReward
	}
	if err := h.profiles.UpdateProgress(ctx, profile); err != nil {
		h.logger.Warn("update profile progress", zap.Error(err))
	}
}

func engineErrorMessage(err error) string {
	switch {
	case errors.Is(err, game.ErrUnknownCombat):
		return "combat not found"
	case errors.Is(err, game.ErrCombatOver):
		return "combat is over"
	case errors.Is(err, game.ErrIllegalPhase):
		return "action not allowed in this phase"
	case errors.Is(err, game.ErrInsufficientEnergy):
		return "not enough energy"
	case errors.Is(err, game.ErrInvalidTarget):
		return "invalid target"
	case errors.Is(err, game.ErrCardNotInHand):
		return "card not in hand"
	default:
		return "internal error"
	}
}
