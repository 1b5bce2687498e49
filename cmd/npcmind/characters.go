package main

import (
	"fmt"

	"npcmind/internal/agent"
	"npcmind/internal/world"
)

// The demo village: two characters with fixed personas and seeded world
// knowledge, placed on a small grid.

var villagers = []agent.Persona{
	{
		ID:         "john",
		Name:       "John",
		Age:        52,
		Occupation: "blacksmith",
		Home:       "forge",
		Traits:     []string{"gruff", "honest", "hard-working"},
		Backstory: "John has run the village forge for thirty years. His apprentice " +
			"left for the city last spring and the backlog of repair work has been " +
			"piling up ever since.",
		Goals: []string{
			"finish the batch of horseshoes for the miller",
			"find a new apprentice",
		},
		SpeechStyle: "short, blunt sentences; warms up slowly",
	},
	{
		ID:         "rosa",
		Name:       "Rosa",
		Age:        38,
		Occupation: "innkeeper",
		Home:       "inn",
		Traits:     []string{"warm", "talkative", "sharp-eyed"},
		Backstory: "Rosa took over the Gilded Goose from her mother. She knows " +
			"everyone's business and most of their secrets, and trades gossip as " +
			"readily as ale.",
		Goals: []string{
			"fill every room during the harvest festival",
			"get John to fix the inn's iron stove",
		},
		SpeechStyle: "chatty and familiar, fond of nicknames",
	},
}

var villageKnowledge = map[string][]string{
	"john": {
		"The forge is on the east side of the village square.",
		"The Gilded Goose inn serves supper after sundown.",
		"The miller pays well but hates waiting.",
		"The village square is busiest in the morning.",
	},
	"rosa": {
		"The Gilded Goose inn sits across the square from the forge.",
		"John the blacksmith takes his ale quietly in the corner.",
		"The market in the village square runs every morning.",
		"The inn's iron stove smokes when the wind turns north.",
	},
}

func buildVillageGrid() *world.Grid {
	g := world.NewGrid(6)
	g.AddLocation("village square", world.Position{X: 10, Y: 10})
	g.AddLocation("forge", world.Position{X: 14, Y: 10})
	g.AddLocation("inn", world.Position{X: 6, Y: 10})
	g.AddLocation("market", world.Position{X: 10, Y: 8})
	g.AddObject("stove", "the inn's iron stove", "smoking", "inn")
	g.AddObject("anvil", "the forge anvil", "cold", "forge")
	return g
}

func populateVillage(registry *agent.Registry, w world.World) error {
	grid, _ := w.(*world.Grid)

	for _, persona := range villagers {
		orch, err := registry.Create(persona)
		if err != nil {
			return fmt.Errorf("failed to create %s: %w", persona.ID, err)
		}
		orch.SeedKnowledge(villageKnowledge[persona.ID])

		if grid != nil {
			if err := grid.AddCharacter(persona.ID, persona.Name, persona.Home); err != nil {
				return fmt.Errorf("failed to place %s: %w", persona.ID, err)
			}
		}
	}
	return nil
}
