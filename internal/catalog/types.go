// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/staranto/dexctl/internal/names"
	"github.com/staranto/dexctl/internal/pokeapi"
)

const (
	// DefaultConcurrency bounds gallery and stage fan-out.
	DefaultConcurrency = 16

	// DefaultDescription is shown when no English flavor text exists.
	DefaultDescription = "Description not available."

	// NotFoundMessage is what a failed lookup shows.
	NotFoundMessage = "Pokémon not found"

	// SpriteFallbackURL is formatted with the numeric id when a pokemon has no
	// artwork of its own.
	SpriteFallbackURL = "https://raw.githubusercontent.com/PokeAPI/sprites/master/sprites/pokemon/%d.png"
)

var (
	// ErrEmptyQuery is returned when a lookup is asked for nothing.
	ErrEmptyQuery = errors.New("empty query")

	// ErrNotFound is returned by Lookup when nothing matches. Views show it
	// as NotFoundMessage.
	ErrNotFound = errors.New("pokémon not found")
)

// Source is the subset of *pokeapi.Client the catalog reads from.
type Source interface {
	ListPokemon(ctx context.Context, limit, offset int) (*pokeapi.ListPage, error)
	Pokemon(ctx context.Context, idOrName string) (*pokeapi.Pokemon, error)
	PokemonAt(ctx context.Context, url string) (*pokeapi.Pokemon, error)
	Species(ctx context.Context, idOrName string) (*pokeapi.Species, error)
	SpeciesAt(ctx context.Context, url string) (*pokeapi.Species, error)
	EvolutionChain(ctx context.Context, url string) (*pokeapi.EvolutionChain, error)
}

// Entry is one row of the listing.
type Entry struct {
	ID      int    `jsonapi:"primary,pokemon"`
	Name    string `jsonapi:"attr,name"`
	Display string `jsonapi:"attr,display"`
	URL     string `jsonapi:"attr,url"`
}

// Card is a listing row enriched with its detail fetch.
type Card struct {
	ID      int      `jsonapi:"primary,pokemon"`
	Name    string   `jsonapi:"attr,name"`
	Display string   `jsonapi:"attr,display"`
	Types   []string `jsonapi:"attr,types"`
	Sprite  string   `jsonapi:"attr,sprite"`
	Height  int      `jsonapi:"attr,height"`
	Weight  int      `jsonapi:"attr,weight"`
}

// StageCard is an evolution stage with its sprite.
type StageCard struct {
	ID      int    `jsonapi:"primary,stage"`
	Name    string `jsonapi:"attr,name"`
	Display string `jsonapi:"attr,display"`
	Depth   int    `jsonapi:"attr,depth"`
	Sprite  string `jsonapi:"attr,sprite"`
}

// TypeCount is one elemental type and the number of gallery cards with it.
type TypeCount struct {
	Name  string `jsonapi:"primary,type"`
	Count int    `jsonapi:"attr,count"`
}

// Detail is everything the detail view shows.
type Detail struct {
	ID          int            `jsonapi:"primary,pokemon"`
	Name        string         `jsonapi:"attr,name"`
	Display     string         `jsonapi:"attr,display"`
	Types       []string       `jsonapi:"attr,types"`
	Sprite      string         `jsonapi:"attr,sprite"`
	Description string         `jsonapi:"attr,description"`
	Genus       string         `jsonapi:"attr,genus"`
	Height      int            `jsonapi:"attr,height"`
	Weight      int            `jsonapi:"attr,weight"`
	Abilities   []string       `jsonapi:"attr,abilities"`
	Stats       map[string]int `jsonapi:"attr,stats"`
	Evolutions  []string       `jsonapi:"attr,evolutions"`

	// Stages backs Evolutions with ids and sprites for the views.
	Stages []*StageCard
}

// FormatName is the display name for a slug.
func FormatName(raw string) string {
	return names.Format(raw)
}

// PlaceholderSprite is the fallback image URL for id.
func PlaceholderSprite(id int) string {
	return fmt.Sprintf(SpriteFallbackURL, id)
}

// SpriteFor picks official artwork, then the default front sprite, then the
// placeholder for p's id.
func SpriteFor(p *pokeapi.Pokemon) string {
	if art := p.Sprites.Other.OfficialArtwork.FrontDefault; art != "" {
		return art
	}
	if p.Sprites.FrontDefault != "" {
		return p.Sprites.FrontDefault
	}
	return PlaceholderSprite(p.ID)
}

func newCard(p *pokeapi.Pokemon) *Card {
	return &Card{
		ID:      p.ID,
		Name:    p.Name,
		Display: FormatName(p.Name),
		Types:   p.TypeNames(),
		Sprite:  SpriteFor(p),
		Height:  p.Height,
		Weight:  p.Weight,
	}
}
