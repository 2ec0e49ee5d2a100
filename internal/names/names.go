// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

// Package names turns catalog slugs such as "charizard-mega-x" into display
// names and compares slugs by their hyphenated parts.
package names

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Forms are the regional and battle forms that are moved to the front of a
// display name. Order matters, the first match wins.
var Forms = []string{"mega", "gmax", "alola", "galar", "hisui", "paldea", "totem"}

var (
	wordSplitRe  = regexp.MustCompile(`[-\s]+`)
	tokenSplitRe = regexp.MustCompile(`[^a-z0-9]+`)
)

// Format returns the display name for a slug.
//
//	charizard-mega-x -> Mega Charizard X
//	vulpix-alola     -> Alola Vulpix
//	mr-mime          -> Mr Mime
func Format(raw string) string {
	name := strings.ToLower(raw)

	for _, form := range Forms {
		marker := "-" + form
		if strings.Contains(name, marker) {
			base := strings.Replace(name, marker, "", 1)
			return capitalize(form) + " " + capitalizeWords(base)
		}
	}

	return capitalizeWords(name)
}

func capitalizeWords(s string) string {
	words := wordSplitRe.Split(s, -1)
	for i, w := range words {
		words[i] = capitalize(w)
	}
	return strings.Join(words, " ")
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

// Tokens splits a slug into its lower-cased alphanumeric parts.
func Tokens(s string) []string {
	var out []string
	for _, t := range tokenSplitRe.Split(strings.ToLower(s), -1) {
		if t != "" {
			out = append(out, t)
		}
	}
	return out
}

// Related returns true if any token of query appears in name, either as a
// whole part or as a substring. Matching is case-insensitive.
func Related(query string, name string) bool {
	if query == "" || name == "" {
		return false
	}

	nameLower := strings.ToLower(name)
	nameParts := Tokens(nameLower)

	for _, tok := range Tokens(query) {
		for _, p := range nameParts {
			if p == tok {
				return true
			}
		}

		// Substring hits cover partial input such as "pika".
		if strings.Contains(nameLower, tok) {
			return true
		}
	}

	return false
}
