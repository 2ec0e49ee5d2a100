// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package catalog

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/apex/log"
	"golang.org/x/sync/errgroup"

	"github.com/staranto/dexctl/internal/evolution"
	"github.com/staranto/dexctl/internal/pokeapi"
)

// Lookup finds a single pokemon by name or id, as typed into a search box.
func Lookup(ctx context.Context, src Source, query string) (*Card, error) {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return nil, ErrEmptyQuery
	}

	p, err := src.Pokemon(ctx, q)
	if err != nil {
		if errors.Is(err, pokeapi.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, pokeapi.Friendly(err, pokeapi.ErrorContext{
			Operation: "lookup",
			Resource:  "pokemon",
			Target:    q,
		})
	}
	return newCard(p), nil
}

// LoadDetail assembles the detail view for idOrName. The pokemon itself is
// required. Species data, and with it the description and evolution line, is
// optional and degrades to defaults when it cannot be read.
func LoadDetail(ctx context.Context, src Source, idOrName string, concurrency int) (*Detail, error) {
	key := strings.ToLower(strings.TrimSpace(idOrName))
	if key == "" {
		return nil, ErrEmptyQuery
	}

	var (
		p     *pokeapi.Pokemon
		sp    *pokeapi.Species
		spErr error
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		p, err = src.Pokemon(gctx, key)
		if err != nil {
			return pokeapi.Friendly(err, pokeapi.ErrorContext{
				Operation: "load detail",
				Resource:  "pokemon",
				Target:    key,
			})
		}
		return nil
	})
	g.Go(func() error {
		sp, spErr = src.Species(gctx, key)
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	// Alternate forms have no species of their own id. Follow the reference
	// the pokemon carries instead.
	if errors.Is(spErr, pokeapi.ErrNotFound) && p.Species.URL != "" {
		log.Debugf("species %s not found, following %s", key, p.Species.URL)
		sp, spErr = src.SpeciesAt(ctx, p.Species.URL)
	}

	d := &Detail{
		ID:          p.ID,
		Name:        p.Name,
		Display:     FormatName(p.Name),
		Types:       p.TypeNames(),
		Sprite:      SpriteFor(p),
		Description: DefaultDescription,
		Height:      p.Height,
		Weight:      p.Weight,
		Abilities:   abilityNames(p),
		Stats:       statMap(p),
	}

	if spErr != nil {
		log.WithError(spErr).Warnf("species unavailable for %s", key)
		return d, nil
	}

	d.Description = Description(sp)
	d.Genus = Genus(sp)

	stages, err := LoadStages(ctx, src, sp, concurrency)
	if err != nil {
		log.WithError(err).Warnf("evolution chain unavailable for %s", key)
		return d, nil
	}
	d.Stages = stages
	for _, s := range stages {
		d.Evolutions = append(d.Evolutions, s.Name)
	}

	return d, nil
}

// Evolutions loads the evolution line of idOrName as stage cards.
func Evolutions(ctx context.Context, src Source, idOrName string, concurrency int) ([]*StageCard, error) {
	key := strings.ToLower(strings.TrimSpace(idOrName))
	if key == "" {
		return nil, ErrEmptyQuery
	}

	sp, err := src.Species(ctx, key)
	if errors.Is(err, pokeapi.ErrNotFound) {
		// Forms are addressable as pokemon only.
		p, perr := src.Pokemon(ctx, key)
		if perr == nil && p.Species.URL != "" {
			sp, err = src.SpeciesAt(ctx, p.Species.URL)
		}
	}
	if err != nil {
		return nil, pokeapi.Friendly(err, pokeapi.ErrorContext{
			Operation: "load evolutions",
			Resource:  "species",
			Target:    key,
		})
	}

	return LoadStages(ctx, src, sp, concurrency)
}

// LoadStages fetches the chain referenced by sp, flattens it and gives each
// stage a sprite. A species without a chain has no stages.
func LoadStages(ctx context.Context, src Source, sp *pokeapi.Species, concurrency int) ([]*StageCard, error) {
	if sp == nil || sp.EvolutionChain == nil || sp.EvolutionChain.URL == "" {
		return nil, nil
	}

	chain, err := src.EvolutionChain(ctx, sp.EvolutionChain.URL)
	if err != nil {
		return nil, pokeapi.Friendly(err, pokeapi.ErrorContext{
			Operation: "load evolution chain",
			Resource:  "evolution chain",
			Target:    sp.EvolutionChain.URL,
		})
	}

	return enrichStages(ctx, src, evolution.Resolve(chain.Chain), concurrency), nil
}

// enrichStages fetches each stage concurrently for its sprite. A stage that
// cannot be fetched keeps its id and gets the placeholder sprite.
func enrichStages(ctx context.Context, src Source, stages []evolution.Stage, concurrency int) []*StageCard {
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}

	cards := make([]*StageCard, len(stages))

	var g errgroup.Group
	g.SetLimit(concurrency)
	for i, s := range stages {
		g.Go(func() error {
			card := &StageCard{
				ID:      s.ID,
				Name:    s.Name,
				Display: FormatName(s.Name),
				Depth:   s.Depth,
			}

			target := s.Name
			if s.ID != evolution.UnresolvedID {
				target = strconv.Itoa(s.ID)
			}

			p, err := src.Pokemon(ctx, target)
			if err != nil {
				log.WithError(err).Debugf("stage %s: using placeholder sprite", s.Name)
				card.Sprite = PlaceholderSprite(s.ID)
			} else {
				card.Sprite = SpriteFor(p)
			}

			cards[i] = card
			return nil
		})
	}
	_ = g.Wait()

	return cards
}

// Description is the first English flavor text with form feeds and line
// breaks flattened, or DefaultDescription.
func Description(sp *pokeapi.Species) string {
	if sp == nil {
		return DefaultDescription
	}
	for _, e := range sp.FlavorTextEntries {
		if e.Language.Name != "en" {
			continue
		}
		text := strings.Join(strings.Fields(e.FlavorText), " ")
		if text == "" {
			continue
		}
		return text
	}
	return DefaultDescription
}

// Genus is the English genus, e.g. "Mouse Pokémon".
func Genus(sp *pokeapi.Species) string {
	if sp == nil {
		return ""
	}
	for _, g := range sp.Genera {
		if g.Language.Name == "en" {
			return g.Genus
		}
	}
	return ""
}

func abilityNames(p *pokeapi.Pokemon) []string {
	out := make([]string, 0, len(p.Abilities))
	for _, a := range p.Abilities {
		out = append(out, a.Ability.Name)
	}
	return out
}

func statMap(p *pokeapi.Pokemon) map[string]int {
	out := make(map[string]int, len(p.Stats))
	for _, s := range p.Stats {
		out[s.Stat.Name] = s.BaseStat
	}
	return out
}
