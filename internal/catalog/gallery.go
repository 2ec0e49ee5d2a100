// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package catalog

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/apex/log"
	"golang.org/x/sync/errgroup"

	"github.com/staranto/dexctl/internal/pokeapi"
)

// GalleryOptions bounds a gallery load.
type GalleryOptions struct {
	// Limit is the listing size. Non-positive means pokeapi.GalleryLimit.
	Limit int
	// Concurrency bounds the detail fan-out. Non-positive means
	// DefaultConcurrency.
	Concurrency int
	// Progress, if set, is called after each card loads. Calls are
	// serialized.
	Progress func(done, total int)
}

// Gallery lists entries and fetches the detail of each one. Cards come back
// in listing order. The first failed fetch aborts the whole gallery.
func Gallery(ctx context.Context, src Source, opts GalleryOptions) ([]*Card, error) {
	if opts.Limit <= 0 {
		opts.Limit = pokeapi.GalleryLimit
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = DefaultConcurrency
	}

	entries, err := List(ctx, src, opts.Limit)
	if err != nil {
		return nil, err
	}

	cards := make([]*Card, len(entries))

	var (
		mu   sync.Mutex
		done int
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Concurrency)
	for i, e := range entries {
		g.Go(func() error {
			p, err := src.PokemonAt(gctx, e.URL)
			if err != nil {
				return pokeapi.Friendly(err, pokeapi.ErrorContext{
					Operation: "load gallery",
					Resource:  "pokemon",
					Target:    e.Name,
				})
			}
			cards[i] = newCard(p)

			if opts.Progress != nil {
				mu.Lock()
				done++
				opts.Progress(done, len(entries))
				mu.Unlock()
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	log.Debugf("gallery: %d cards", len(cards))

	return cards, nil
}

// AllTypes is the sorted set of types across cards.
func AllTypes(cards []*Card) []string {
	seen := make(map[string]bool)
	for _, c := range cards {
		for _, t := range c.Types {
			seen[t] = true
		}
	}

	types := make([]string, 0, len(seen))
	for t := range seen {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}

// TypeCounts is AllTypes with the number of cards carrying each type.
func TypeCounts(cards []*Card) []*TypeCount {
	counts := make(map[string]int)
	for _, c := range cards {
		for _, t := range c.Types {
			counts[t]++
		}
	}

	out := make([]*TypeCount, 0, len(counts))
	for _, t := range AllTypes(cards) {
		out = append(out, &TypeCount{Name: t, Count: counts[t]})
	}
	return out
}

// FilterByTypes keeps cards that carry every one of types. Matching ignores
// case. No types keeps everything.
func FilterByTypes(cards []*Card, types []string) []*Card {
	var want []string
	for _, t := range types {
		if t = strings.ToLower(strings.TrimSpace(t)); t != "" {
			want = append(want, t)
		}
	}
	if len(want) == 0 {
		return cards
	}

	var out []*Card
	for _, c := range cards {
		if hasAll(c.Types, want) {
			out = append(out, c)
		}
	}
	return out
}

func hasAll(have []string, want []string) bool {
	for _, w := range want {
		found := false
		for _, h := range have {
			if strings.EqualFold(h, w) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}
