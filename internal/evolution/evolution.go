// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

// Package evolution flattens PokeAPI evolution chains into an ordered list
// of stages.
package evolution

import (
	"regexp"
	"strconv"
)

// UnresolvedID is the ID given to a stage whose species reference cannot be
// parsed.
const UnresolvedID = 0

// SpeciesRef names a species and points at its resource URL.
type SpeciesRef struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// Node is one species in a chain and the species it evolves into.
type Node struct {
	Species   SpeciesRef `json:"species"`
	EvolvesTo []Node     `json:"evolves_to"`
}

// Chain is the evolution-chain resource.
type Chain struct {
	ID    int  `json:"id"`
	Chain Node `json:"chain"`
}

// Stage is one entry of a flattened chain. Depth is 0 for the root.
type Stage struct {
	ID    int
	Name  string
	Depth int
}

var (
	speciesIDRe = regexp.MustCompile(`/pokemon-species/(\d+)(?:/|$)`)
	entityIDRe  = regexp.MustCompile(`/pokemon/(\d+)(?:/|$)`)
)

// SpeciesID extracts the numeric id from a species URL. It returns
// UnresolvedID when the URL does not contain one.
func SpeciesID(url string) int {
	return extractID(speciesIDRe, url)
}

// EntityID is SpeciesID for /pokemon/{id}/ listing URLs.
func EntityID(url string) int {
	return extractID(entityIDRe, url)
}

func extractID(re *regexp.Regexp, url string) int {
	m := re.FindStringSubmatch(url)
	if m == nil {
		return UnresolvedID
	}
	id, err := strconv.Atoi(m[1])
	if err != nil {
		return UnresolvedID
	}
	return id
}

// Resolve walks the chain depth-first in pre-order, children in their listed
// order, and returns one Stage per distinct species. A species is the pair
// of name and URL; one seen a second time is skipped. Nameless species are
// never merged.
func Resolve(root Node) []Stage {
	type frame struct {
		node  *Node
		depth int
	}

	var stages []Stage
	seen := make(map[SpeciesRef]bool)

	stack := []frame{{node: &root}}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		ref := f.node.Species
		if ref.Name == "" || !seen[ref] {
			seen[ref] = true
			stages = append(stages, Stage{
				ID:    SpeciesID(ref.URL),
				Name:  ref.Name,
				Depth: f.depth,
			})
		}

		// Push in reverse so the first child is visited next.
		for i := len(f.node.EvolvesTo) - 1; i >= 0; i-- {
			stack = append(stack, frame{node: &f.node.EvolvesTo[i], depth: f.depth + 1})
		}
	}

	return stages
}

// Names returns the stage names in order.
func Names(stages []Stage) []string {
	names := make([]string, 0, len(stages))
	for _, s := range stages {
		names = append(names, s.Name)
	}
	return names
}
