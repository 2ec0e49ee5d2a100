// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package pokeapi

import "github.com/staranto/dexctl/internal/evolution"

// NamedResource is the {name, url} pair PokeAPI uses for references.
type NamedResource struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// ListPage is a page of the /pokemon listing.
type ListPage struct {
	Count    int             `json:"count"`
	Next     *string         `json:"next"`
	Previous *string         `json:"previous"`
	Results  []NamedResource `json:"results"`
}

// Pokemon is the subset of the /pokemon/{id} resource dexctl uses.
type Pokemon struct {
	ID             int              `json:"id"`
	Name           string           `json:"name"`
	Height         int              `json:"height"`
	Weight         int              `json:"weight"`
	BaseExperience int              `json:"base_experience"`
	Types          []PokemonType    `json:"types"`
	Abilities      []PokemonAbility `json:"abilities"`
	Stats          []PokemonStat    `json:"stats"`
	Sprites        Sprites          `json:"sprites"`
	Species        NamedResource    `json:"species"`
}

type PokemonType struct {
	Slot int           `json:"slot"`
	Type NamedResource `json:"type"`
}

type PokemonAbility struct {
	Ability  NamedResource `json:"ability"`
	IsHidden bool          `json:"is_hidden"`
	Slot     int           `json:"slot"`
}

type PokemonStat struct {
	BaseStat int           `json:"base_stat"`
	Effort   int           `json:"effort"`
	Stat     NamedResource `json:"stat"`
}

// Sprites holds the image URLs. Any of them may be null upstream.
type Sprites struct {
	FrontDefault string       `json:"front_default"`
	Other        OtherSprites `json:"other"`
}

type OtherSprites struct {
	OfficialArtwork struct {
		FrontDefault string `json:"front_default"`
	} `json:"official-artwork"`
}

// TypeNames returns the type names in slot order as delivered.
func (p *Pokemon) TypeNames() []string {
	names := make([]string, 0, len(p.Types))
	for _, t := range p.Types {
		names = append(names, t.Type.Name)
	}
	return names
}

// Species is the subset of the /pokemon-species/{id} resource dexctl uses.
type Species struct {
	ID                int            `json:"id"`
	Name              string         `json:"name"`
	FlavorTextEntries []FlavorText   `json:"flavor_text_entries"`
	Genera            []Genus        `json:"genera"`
	EvolutionChain    *APIResource   `json:"evolution_chain"`
	EvolvesFrom       *NamedResource `json:"evolves_from_species"`
}

type FlavorText struct {
	FlavorText string        `json:"flavor_text"`
	Language   NamedResource `json:"language"`
	Version    NamedResource `json:"version"`
}

type Genus struct {
	Genus    string        `json:"genus"`
	Language NamedResource `json:"language"`
}

// APIResource is a bare {url} reference.
type APIResource struct {
	URL string `json:"url"`
}

// EvolutionChain is the /evolution-chain/{id} resource.
type EvolutionChain = evolution.Chain
