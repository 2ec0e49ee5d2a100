// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package catalog

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"sync"

	"github.com/staranto/dexctl/internal/evolution"
	"github.com/staranto/dexctl/internal/pokeapi"
)

const base = "https://pokeapi.co/api/v2"

// fakeSource is an in-memory Source. Missing keys answer ErrNotFound, keys in
// fail answer the given error.
type fakeSource struct {
	mu      sync.Mutex
	pokemon map[string]*pokeapi.Pokemon
	species map[string]*pokeapi.Species
	chains  map[string]*pokeapi.EvolutionChain
	fail    map[string]error
	calls   map[string]int
}

func newFakeSource() *fakeSource {
	return &fakeSource{
		pokemon: map[string]*pokeapi.Pokemon{},
		species: map[string]*pokeapi.Species{},
		chains:  map[string]*pokeapi.EvolutionChain{},
		fail:    map[string]error{},
		calls:   map[string]int{},
	}
}

func (f *fakeSource) record(key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[key]++
	return f.fail[key]
}

func (f *fakeSource) count(key string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[key]
}

func notFound(key string) error {
	return fmt.Errorf("%w: %s", pokeapi.ErrNotFound, key)
}

// addPokemon registers p by id, name and listing URL.
func (f *fakeSource) addPokemon(id int, name string, types ...string) *pokeapi.Pokemon {
	p := &pokeapi.Pokemon{
		ID:      id,
		Name:    name,
		Height:  id,
		Weight:  id * 10,
		Species: pokeapi.NamedResource{Name: name, URL: fmt.Sprintf("%s/pokemon-species/%d/", base, id)},
	}
	p.Sprites.Other.OfficialArtwork.FrontDefault = fmt.Sprintf("art/%d.png", id)
	for i, t := range types {
		p.Types = append(p.Types, pokeapi.PokemonType{Slot: i + 1, Type: pokeapi.NamedResource{Name: t}})
	}

	f.pokemon["pokemon/"+strconv.Itoa(id)] = p
	f.pokemon["pokemon/"+name] = p
	f.pokemon[listURL(id)] = p
	return p
}

func listURL(id int) string {
	return fmt.Sprintf("%s/pokemon/%d/", base, id)
}

func (f *fakeSource) addSpecies(id int, name, chainURL string, flavor ...pokeapi.FlavorText) *pokeapi.Species {
	sp := &pokeapi.Species{ID: id, Name: name, FlavorTextEntries: flavor}
	if chainURL != "" {
		sp.EvolutionChain = &pokeapi.APIResource{URL: chainURL}
	}
	f.species["species/"+strconv.Itoa(id)] = sp
	f.species["species/"+name] = sp
	f.species[fmt.Sprintf("%s/pokemon-species/%d/", base, id)] = sp
	return sp
}

func (f *fakeSource) ListPokemon(_ context.Context, limit, offset int) (*pokeapi.ListPage, error) {
	if err := f.record("list"); err != nil {
		return nil, err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	var ids []int
	for k, p := range f.pokemon {
		if k == listURL(p.ID) {
			ids = append(ids, p.ID)
		}
	}
	sort.Ints(ids)

	page := &pokeapi.ListPage{Count: len(ids)}
	for i, id := range ids {
		if i < offset || len(page.Results) >= limit {
			continue
		}
		page.Results = append(page.Results, pokeapi.NamedResource{
			Name: f.pokemon[listURL(id)].Name,
			URL:  listURL(id),
		})
	}
	return page, nil
}

func (f *fakeSource) lookupPokemon(ctx context.Context, key string) (*pokeapi.Pokemon, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := f.record(key); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if p, ok := f.pokemon[key]; ok {
		return p, nil
	}
	return nil, notFound(key)
}

func (f *fakeSource) Pokemon(ctx context.Context, idOrName string) (*pokeapi.Pokemon, error) {
	return f.lookupPokemon(ctx, "pokemon/"+idOrName)
}

func (f *fakeSource) PokemonAt(ctx context.Context, url string) (*pokeapi.Pokemon, error) {
	return f.lookupPokemon(ctx, url)
}

func (f *fakeSource) lookupSpecies(key string) (*pokeapi.Species, error) {
	if err := f.record(key); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if sp, ok := f.species[key]; ok {
		return sp, nil
	}
	return nil, notFound(key)
}

func (f *fakeSource) Species(_ context.Context, idOrName string) (*pokeapi.Species, error) {
	return f.lookupSpecies("species/" + idOrName)
}

func (f *fakeSource) SpeciesAt(_ context.Context, url string) (*pokeapi.Species, error) {
	return f.lookupSpecies(url)
}

func (f *fakeSource) EvolutionChain(_ context.Context, url string) (*pokeapi.EvolutionChain, error) {
	if err := f.record(url); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if c, ok := f.chains[url]; ok {
		return c, nil
	}
	return nil, notFound(url)
}

func node(name string, id int, children ...evolution.Node) evolution.Node {
	return evolution.Node{
		Species:   evolution.SpeciesRef{Name: name, URL: fmt.Sprintf("%s/pokemon-species/%d/", base, id)},
		EvolvesTo: children,
	}
}

func english(text string) pokeapi.FlavorText {
	return pokeapi.FlavorText{FlavorText: text, Language: pokeapi.NamedResource{Name: "en"}}
}

func french(text string) pokeapi.FlavorText {
	return pokeapi.FlavorText{FlavorText: text, Language: pokeapi.NamedResource{Name: "fr"}}
}
