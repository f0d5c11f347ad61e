package catalog

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"math/rand"
)

//go:embed cards.json
var cardsJSON []byte

// Hand categories in the order they are shown to players.
var HandCategories = []string{
	CategorySuperpowers,
	CategoryPhobias,
	CategoryCharacter,
	CategoryHobbies,
	CategoryLuggage,
	CategoryFacts,
}

const (
	CategorySuperpowers = "superpowers"
	CategoryPhobias     = "phobias"
	CategoryCharacter   = "character"
	CategoryHobbies     = "hobbies"
	CategoryLuggage     = "luggage"
	CategoryFacts       = "facts"
	CategorySpecial     = "special"
)

// Card is an immutable catalog entry. Cards are copied by value into
// player hands and never mutated afterwards.
type Card struct {
	Category    string `json:"type"`
	Name        string `json:"name"`
	Icon        string `json:"icon"`
	Description string `json:"description"`
}

type Catalog struct {
	Superpowers       []Card
	Phobias           []Card
	Character         []Card
	Hobbies           []Card
	Luggage           []Card
	Facts             []Card
	SpecialConditions []Card
	Catastrophes      []Card
	Threats           []Card
	Bunker            []Card
}

type rawCatalog struct {
	Superpowers       []Card `json:"superpowers"`
	Phobias           []Card `json:"phobias"`
	Character         []Card `json:"character"`
	Hobbies           []Card `json:"hobbies"`
	Luggage           []Card `json:"luggage"`
	Facts             []Card `json:"facts"`
	SpecialConditions []Card `json:"special_conditions"`
	Catastrophes      []Card `json:"catastrophes"`
	Threats           []Card `json:"threats"`
	Bunker            []Card `json:"bunker"`
}

// Load decodes the embedded card data. Called once at startup.
func Load() (*Catalog, error) {
	var raw rawCatalog
	if err := json.Unmarshal(cardsJSON, &raw); err != nil {
		return nil, fmt.Errorf("parsing cards.json: %w", err)
	}
	c := &Catalog{
		Superpowers:       tagged(raw.Superpowers, CategorySuperpowers),
		Phobias:           tagged(raw.Phobias, CategoryPhobias),
		Character:         tagged(raw.Character, CategoryCharacter),
		Hobbies:           tagged(raw.Hobbies, CategoryHobbies),
		Luggage:           tagged(raw.Luggage, CategoryLuggage),
		Facts:             tagged(raw.Facts, CategoryFacts),
		SpecialConditions: tagged(raw.SpecialConditions, CategorySpecial),
		Catastrophes:      tagged(raw.Catastrophes, "catastrophe"),
		Threats:           tagged(raw.Threats, "threat"),
		Bunker:            tagged(raw.Bunker, "bunker"),
	}
	for _, category := range HandCategories {
		if len(c.ByCategory(category)) == 0 {
			return nil, fmt.Errorf("cards.json: category %q is empty", category)
		}
	}
	if len(c.Catastrophes) == 0 || len(c.Threats) < 5 || len(c.Bunker) < 5 || len(c.SpecialConditions) == 0 {
		return nil, fmt.Errorf("cards.json: not enough catastrophe/threat/bunker/special cards")
	}
	return c, nil
}

func tagged(cards []Card, category string) []Card {
	out := make([]Card, len(cards))
	for i, card := range cards {
		card.Category = category
		out[i] = card
	}
	return out
}

// ByCategory returns the deck for one of the six hand categories.
func (c *Catalog) ByCategory(category string) []Card {
	switch category {
	case CategorySuperpowers:
		return c.Superpowers
	case CategoryPhobias:
		return c.Phobias
	case CategoryCharacter:
		return c.Character
	case CategoryHobbies:
		return c.Hobbies
	case CategoryLuggage:
		return c.Luggage
	case CategoryFacts:
		return c.Facts
	default:
		return nil
	}
}

// Random draws one card from the given deck with replacement.
func Random(deck []Card) Card {
	return deck[rand.Intn(len(deck))]
}

// Shuffled returns a shuffled copy of the deck.
func Shuffled(deck []Card) []Card {
	out := make([]Card, len(deck))
	copy(out, deck)
	rand.Shuffle(len(out), func(i, j int) {
		out[i], out[j] = out[j], out[i]
	})
	return out
}
