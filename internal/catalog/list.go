// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package catalog

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/apex/log"

	"github.com/staranto/dexctl/internal/evolution"
	"github.com/staranto/dexctl/internal/finder"
	"github.com/staranto/dexctl/internal/pokeapi"
)

// SortField selects the listing sort key.
type SortField string

// SortOrder selects the listing sort direction.
type SortOrder string

const (
	SortByID   SortField = "id"
	SortByName SortField = "name"

	Ascending  SortOrder = "asc"
	Descending SortOrder = "desc"
)

// ParseSortField accepts "id" or "name".
func ParseSortField(s string) (SortField, error) {
	switch f := SortField(strings.ToLower(strings.TrimSpace(s))); f {
	case SortByID, SortByName:
		return f, nil
	default:
		return "", fmt.Errorf("invalid sort field %q: must be one of [id name]", s)
	}
}

// ParseSortOrder accepts "asc" or "desc".
func ParseSortOrder(s string) (SortOrder, error) {
	switch o := SortOrder(strings.ToLower(strings.TrimSpace(s))); o {
	case Ascending, Descending:
		return o, nil
	default:
		return "", fmt.Errorf("invalid sort order %q: must be one of [asc desc]", s)
	}
}

// List fetches the whole listing. A non-positive limit means
// pokeapi.ListLimit.
func List(ctx context.Context, src Source, limit int) ([]*Entry, error) {
	if limit <= 0 {
		limit = pokeapi.ListLimit
	}

	page, err := src.ListPokemon(ctx, limit, 0)
	if err != nil {
		return nil, pokeapi.Friendly(err, pokeapi.ErrorContext{
			Operation: "list pokemon",
			Resource:  "listing",
		})
	}

	entries := make([]*Entry, 0, len(page.Results))
	for _, r := range page.Results {
		entries = append(entries, &Entry{
			ID:      evolution.EntityID(r.URL),
			Name:    r.Name,
			Display: FormatName(r.Name),
			URL:     r.URL,
		})
	}
	log.Debugf("listing: %d of %d entries", len(entries), page.Count)

	return entries, nil
}

// Search keeps entries whose name contains query, ignoring case. An empty
// query keeps everything.
func Search(entries []*Entry, query string) []*Entry {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return entries
	}

	var out []*Entry
	for _, e := range entries {
		if strings.Contains(strings.ToLower(e.Name), q) {
			out = append(out, e)
		}
	}
	return out
}

// SortEntries sorts entries in place. The sort is stable.
func SortEntries(entries []*Entry, field SortField, order SortOrder) {
	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if order == Descending {
			a, b = b, a
		}
		if field == SortByName {
			return strings.ToLower(a.Name) < strings.ToLower(b.Name)
		}
		return a.ID < b.ID
	})
}

// Candidates returns entries as finder candidates.
func Candidates(entries []*Entry) []finder.Candidate {
	out := make([]finder.Candidate, 0, len(entries))
	for _, e := range entries {
		out = append(out, finder.Candidate{ID: e.ID, Name: e.Name})
	}
	return out
}
