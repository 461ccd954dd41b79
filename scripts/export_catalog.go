package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"sort"

	"github.com/mathspire/mathspire-server/internal/game"
	"github.com/mathspire/mathspire-server/internal/game/cards"
)

// Exports the card catalog and encounter list as JSON for the browser
// client, so the frontend renders card text without a round trip.

type cardExport struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Category      string `json:"category"`
	Cost          int    `json:"cost"`
	Value         int    `json:"value"`
	Effect        string `json:"effect"`
	Rarity        string `json:"rarity"`
	Topic         string `json:"topic"`
	UpgradeDelta  int    `json:"upgrade_delta"`
	ExhaustOnFail bool   `json:"exhaust_on_fail,omitempty"`
	FailBlockLoss int    `json:"fail_block_loss,omitempty"`
}

type encounterExport struct {
	ID      string   `json:"id"`
	Name    string   `json:"name"`
	Tier    int      `json:"tier"`
	Enemies []string `json:"enemies"`
}

type catalogExport struct {
	Cards      []cardExport      `json:"cards"`
	Encounters []encounterExport `json:"encounters"`
}

func main() {
	out := flag.String("out", "catalog.json", "output file")
	flag.Parse()

	export := catalogExport{}
	for _, t := range cards.All() {
		export.Cards = append(export.Cards, cardExport{
			ID:            t.ID,
			Name:          t.Name,
			Category:      string(t.Category),
			Cost:          t.Cost,
			Value:         t.Value,
			Effect:        t.Effect.String(),
			Rarity:        string(t.Rarity),
			Topic:         string(t.Topic),
			UpgradeDelta:  t.UpgradeDelta,
			ExhaustOnFail: t.ExhaustOnFail,
			FailBlockLoss: t.FailBlockLoss,
		})
	}
	sort.Slice(export.Cards, func(i, j int) bool {
		return export.Cards[i].ID < export.Cards[j].ID
	})

	for tier := 1; ; tier++ {
		encounters := game.EncountersByTier(tier)
		if len(encounters) == 0 {
			break
		}
		for _, enc := range encounters {
			exp := encounterExport{ID: enc.ID, Name: enc.Name, Tier: enc.Tier}
			for _, en := range enc.Enemies {
				exp.Enemies = append(exp.Enemies, fmt.Sprintf("%s (%d HP)", en.Name, en.MaxHP))
			}
			export.Encounters = append(export.Encounters, exp)
		}
	}

	data, err := json.MarshalIndent(export, "", "  ")
	if err != nil {
		log.Fatalf("marshal catalog: %v", err)
	}
	if err := os.WriteFile(*out, data, 0o644); err != nil {
		log.Fatalf("write %s: %v", *out, err)
	}
	log.Printf("wrote %d cards and %d encounters to %s", len(export.Cards), len(export.Encounters), *out)
}
