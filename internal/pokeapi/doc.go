// Copyright © 2025 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: MIT

// Package pokeapi is a small read-only client for the PokeAPI v2 REST API.
// Every GET is served through an in-memory TTL cache keyed by the full
// request URL, and outbound requests are rate limited.
package pokeapi
