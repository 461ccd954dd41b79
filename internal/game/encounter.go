package game

import "fmt"

// EncounterTemplate groups the enemies of one combat node. Tier scaling
// happens before templates reach this registry.
type EncounterTemplate struct {
	ID      string
	Name    string
	Tier    int
	Enemies []EnemyTemplate
}

var encounters = []EncounterTemplate{
	{ID: "lone_slime", Name: "Lone Slime", Tier: 1, Enemies: []EnemyTemplate{
		{Name: "Slime", MaxHP: 12},
	}},
	{ID: "rat_pack", Name: "Rat Pack", Tier: 1, Enemies: []EnemyTemplate{
		{Name: "Rat", MaxHP: 7},
		{Name: "Rat", MaxHP: 7},
	}},
	{ID: "gnoll_ambush", Name: "Gnoll Ambush", Tier: 2, Enemies: []EnemyTemplate{
		{Name: "Gnoll", MaxHP: 14},
		{Name: "Gnoll Cub", MaxHP: 8},
	}},
	{ID: "stone_bruiser", Name: "Stone Bruiser", Tier: 2, Enemies: []EnemyTemplate{
		{Name: "Bruiser", MaxHP: 26},
	}},
	{ID: "warden_trio", Name: "Warden Trio", Tier: 3, Enemies: []EnemyTemplate{
		{Name: "Warden", MaxHP: 18},
		{Name: "Warden", MaxHP: 18},
		{Name: "Overseer", MaxHP: 24},
	}},
}

// Encounter returns the template registered under id. The returned
// value is a copy; callers may scale it freely.
func Encounter(id string) (EncounterTemplate, error) {
	for _, e := range encounters {
		if e.ID == id {
			out := e
			out.Enemies = append([]EnemyTemplate(nil), e.Enemies...)
			return out, nil
		}
	}
	return EncounterTemplate{}, fmt.Errorf("game: unknown encounter %q", id)
}

// EncountersByTier lists the encounters available at a tier.
func EncountersByTier(tier int) []EncounterTemplate {
	var out []EncounterTemplate
	for _, e := range encounters {
		if e.Tier == tier {
			c := e
			c.Enemies = append([]EnemyTemplate(nil), e.Enemies...)
			out = append(out, c)
		}
	}
	return out
}
