// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package tui

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/staranto/dexctl/internal/pokeapi"
)

const base = "https://pokeapi.co/api/v2"

// fakeBackend serves a handful of pokemon from memory. Species are never
// found, so details degrade to the default description.
type fakeBackend struct {
	mu          sync.Mutex
	pokemon     map[string]*pokeapi.Pokemon
	cachedAt    map[string]time.Time
	invalidated []string
}

func newFakeBackend() *fakeBackend {
	f := &fakeBackend{
		pokemon:  map[string]*pokeapi.Pokemon{},
		cachedAt: map[string]time.Time{},
	}
	for id, name := range map[int]string{1: "bulbasaur", 4: "charmander", 5: "charmeleon", 25: "pikachu"} {
		p := &pokeapi.Pokemon{ID: id, Name: name, Height: id, Weight: id * 10}
		f.pokemon[name] = p
		f.pokemon[strconv.Itoa(id)] = p
	}
	return f
}

func (f *fakeBackend) ListPokemon(ctx context.Context, limit, offset int) (*pokeapi.ListPage, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	var ids []int
	for k, p := range f.pokemon {
		if k == p.Name {
			ids = append(ids, p.ID)
		}
	}
	sort.Ints(ids)

	page := &pokeapi.ListPage{Count: len(ids)}
	for _, id := range ids {
		p := f.pokemon[strconv.Itoa(id)]
		page.Results = append(page.Results, pokeapi.NamedResource{
			Name: p.Name,
			URL:  fmt.Sprintf("%s/pokemon/%d/", base, id),
		})
	}
	return page, nil
}

func (f *fakeBackend) Pokemon(ctx context.Context, idOrName string) (*pokeapi.Pokemon, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if p, ok := f.pokemon[idOrName]; ok {
		return p, nil
	}
	return nil, fmt.Errorf("%w: %s", pokeapi.ErrNotFound, idOrName)
}

func (f *fakeBackend) PokemonAt(ctx context.Context, url string) (*pokeapi.Pokemon, error) {
	return nil, fmt.Errorf("%w: %s", pokeapi.ErrNotFound, url)
}

func (f *fakeBackend) Species(_ context.Context, idOrName string) (*pokeapi.Species, error) {
	return nil, fmt.Errorf("%w: %s", pokeapi.ErrNotFound, idOrName)
}

func (f *fakeBackend) SpeciesAt(_ context.Context, url string) (*pokeapi.Species, error) {
	return nil, fmt.Errorf("%w: %s", pokeapi.ErrNotFound, url)
}

func (f *fakeBackend) EvolutionChain(_ context.Context, url string) (*pokeapi.EvolutionChain, error) {
	return nil, fmt.Errorf("%w: %s", pokeapi.ErrNotFound, url)
}

func (f *fakeBackend) InvalidateCache(url string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.invalidated = append(f.invalidated, url)
	delete(f.cachedAt, url)
}

func (f *fakeBackend) CachedAt(url string) (time.Time, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	at, ok := f.cachedAt[url]
	return at, ok
}

func (f *fakeBackend) ListURL(limit, offset int) string {
	return fmt.Sprintf("list?limit=%d&offset=%d", limit, offset)
}

func (f *fakeBackend) PokemonURL(idOrName string) string {
	return "pokemon/" + idOrName
}

func (f *fakeBackend) SpeciesURL(idOrName string) string {
	return "species/" + idOrName
}
