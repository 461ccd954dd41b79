package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
)

// ErrNotFound is returned when a lookup matches no row.
var ErrNotFound = errors.New("repository: not found")

// DeckCard is one card in a persisted deck.
type DeckCard struct {
	TemplateID string `json:"template_id"`
	Upgraded   bool   `json:"upgraded"`
}

// Profile is a persisted player profile.
type Profile struct {
	ID           string
	Username     string
	PasswordHash string
	HP           int
	MaxHP        int
	Gold         int
	Deck         []DeckCard
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// CombatResult is one finished combat, recorded for history and stats.
type CombatResult struct {
	ID          string
	ProfileID   string
	EncounterID string
	Victory     bool
	RemainingHP int
	Turns       int
	Seed        int64
	FoughtAt    time.Time
}

// ProfileRepository persists player profiles and combat results.
type ProfileRepository struct {
	db *DB
}

// NewProfileRepository creates a profile repository backed by db.
func NewProfileRepository(db *DB) *ProfileRepository {
	return &ProfileRepository{db: db}
}

// Migrate creates the schema if it does not exist yet.
func (r *ProfileRepository) Migrate(ctx context.Context) error {
	_, err := r.db.Pool().Exec(ctx, `
		CREATE TABLE IF NOT EXISTS profiles (
			id            UUID PRIMARY KEY,
			username      TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			hp            INT  NOT NULL,
			max_hp        INT  NOT NULL,
			gold          INT  NOT NULL DEFAULT 0,
			deck          JSONB NOT NULL DEFAULT '[]',
			created_at    TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at    TIMESTAMPTZ NOT NULL DEFAULT now()
		);
		CREATE TABLE IF NOT EXISTS combat_results (
			id           UUID PRIMARY KEY,
			profile_id   UUID NOT NULL REFERENCES profiles(id) ON DELETE CASCADE,
			encounter_id TEXT NOT NULL,
			victory      BOOLEAN NOT NULL,
			remaining_hp INT NOT NULL,
			turns        INT NOT NULL,
			seed         BIGINT NOT NULL,
			fought_at    TIMESTAMPTZ NOT NULL DEFAULT now()
		);
		CREATE INDEX IF NOT EXISTS combat_results_profile_idx
			ON combat_results (profile_id, fought_at DESC);
	`)
	if err != nil {
		return fmt.Errorf("migrate schema: %w", err)
	}
	return nil
}

// Create inserts a new profile.
func (r *ProfileRepository) Create(ctx context.Context, p *Profile) error {
	deck, err := json.Marshal(p.Deck)
	if err != nil {
		return fmt.Errorf("marshal deck: %w", err)
	}
	_, err = r.db.Pool().Exec(ctx, `
		INSERT INTO profiles (id, username, password_hash, hp, max_hp, gold, deck)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		p.ID, p.Username, p.PasswordHash, p.HP, p.MaxHP, p.Gold, deck)
	if err != nil {
		return fmt.Errorf("insert profile %s: %w", p.Username, err)
	}
	return nil
}

// GetByUsername loads a profile by its unique username.
func (r *ProfileRepository) GetByUsername(ctx context.Context, username string) (*Profile, error) {
	row := r.db.Pool().QueryRow(ctx, `
		SELECT id, username, password_hash, hp, max_hp, gold, deck, created_at, updated_at
		FROM profiles WHERE username = $1`, username)
	return scanProfile(row)
}

// Get loads a profile by id.
func (r *ProfileRepository) Get(ctx context.Context, id string) (*Profile, error) {
	row := r.db.Pool().QueryRow(ctx, `
		SELECT id, username, password_hash, hp, max_hp, gold, deck, created_at, updated_at
		FROM profiles WHERE id = $1`, id)
	return scanProfile(row)
}

func scanProfile(row pgx.Row) (*Profile, error) {
	var p Profile
	var deck []byte
	err := row.Scan(&p.ID, &p.Username, &p.PasswordHash, &p.HP, &p.MaxHP, &p.Gold, &deck, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan profile: %w", err)
	}
	if err := json.Unmarshal(deck, &p.Deck); err != nil {
		return nil, fmt.Errorf("unmarshal deck: %w", err)
	}
	return &p, nil
}

// UpdateProgress persists hp, gold and deck after a run step.
func (r *ProfileRepository) UpdateProgress(ctx context.Context, p *Profile) error {
	deck, err := json.Marshal(p.Deck)
	if err != nil {
		return fmt.Errorf("marshal deck: %w", err)
	}
	tag, err := r.db.Pool().Exec(ctx, `
		UPDATE profiles
		SET hp = $2, max_hp = $3, gold = $4, deck = $5, updated_at = now()
		WHERE id = $1`,
		p.ID, p.HP, p.MaxHP, p.Gold, deck)
	if err != nil {
		return fmt.Errorf("update profile %s: %w", p.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// RecordResult stores a finished combat.
func (r *ProfileRepository) RecordResult(ctx context.Context, res *CombatResult) error {
	_, err := r.db.Pool().Exec(ctx, `
		INSERT INTO combat_results (id, profile_id, encounter_id, victory, remaining_hp, turns, seed)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		res.ID, res.ProfileID, res.EncounterID, res.Victory, res.RemainingHP, res.Turns, res.Seed)
	if err != nil {
		return fmt.Errorf("insert combat result: %w", err)
	}
	return nil
}

// RecentResults lists a profile's latest combats, newest first.
func (r *ProfileRepository) RecentResults(ctx context.Context, profileID string, limit int) ([]CombatResult, error) {
	rows, err := r.db.Pool().Query(ctx, `
		SELECT id, profile_id, encounter_id, victory, remaining_hp, turns, seed, fought_at
		FROM combat_results
		WHERE profile_id = $1
		ORDER BY fought_at DESC
		LIMIT $2`, profileID, limit)
	if err != nil {
		return nil, fmt.Errorf("query combat results: %w", err)
	}
	defer rows.Close()

	var out []CombatResult
	for rows.Next() {
		var res CombatResult
		if err := rows.Scan(&res.ID, &res.ProfileID, &res.EncounterID, &res.Victory,
			&res.RemainingHP, &res.Turns, &res.Seed, &res.FoughtAt); err != nil {
			return nil, fmt.Errorf("scan combat result: %w", err)
		}
		out = append(out, res)
	}
	return out, rows.Err()
}
