// Copyright (c) 2025 Steve Taranto staranto@gmail.com.
// SPDX-License-Identifier: Apache-2.0

// Package finder resolves loose user input against the catalog listing.
package finder

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/staranto/dexctl/internal/names"
)

// ErrNoMatch is returned when a spec matches nothing.
var ErrNoMatch = errors.New("no matching pokemon")

// Candidate is one listing entry.
type Candidate struct {
	ID   int
	Name string
}

// Find resolves each spec to a candidate. A spec may be
//
//	id     - the candidate with that numeric id.
//	name   - the candidate with exactly that name.
//	prefix - the lowest id whose name starts with the spec.
//
// Matching is case-insensitive.
func Find(candidates []Candidate, specs ...string) ([]Candidate, error) {
	result := make([]Candidate, 0, len(specs))

specloop:
	for _, raw := range specs {
		s := strings.ToLower(strings.TrimSpace(raw))
		if s == "" {
			return nil, fmt.Errorf("%w: empty spec", ErrNoMatch)
		}

		if id, err := strconv.Atoi(s); err == nil {
			for _, c := range candidates {
				if c.ID == id {
					result = append(result, c)
					continue specloop
				}
			}
			return nil, fmt.Errorf("%w: id %d", ErrNoMatch, id)
		}

		for _, c := range candidates {
			if c.Name == s {
				result = append(result, c)
				continue specloop
			}
		}

		var best *Candidate
		for i, c := range candidates {
			if strings.HasPrefix(c.Name, s) && (best == nil || c.ID < best.ID) {
				best = &candidates[i]
			}
		}
		if best == nil {
			return nil, fmt.Errorf("%w: %q", ErrNoMatch, raw)
		}
		result = append(result, *best)
	}

	return result, nil
}

// Suggest returns up to max names related to query, closest first. Prefix
// matches rank ahead of other related names.
func Suggest(candidates []Candidate, query string, max int) []string {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" || max <= 0 {
		return nil
	}

	type scored struct {
		Candidate
		rank int
	}

	var hits []scored
	for _, c := range candidates {
		switch {
		case strings.HasPrefix(c.Name, q):
			hits = append(hits, scored{c, 0})
		case names.Related(q, c.Name):
			hits = append(hits, scored{c, 1})
		}
	}

	sort.SliceStable(hits, func(i, j int) bool {
		if hits[i].rank != hits[j].rank {
			return hits[i].rank < hits[j].rank
		}
		return hits[i].ID < hits[j].ID
	})

	if len(hits) > max {
		hits = hits[:max]
	}

	out := make([]string, 0, len(hits))
	for _, h := range hits {
		out = append(out, h.Name)
	}
	return out
}
