// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package metrics

import (
	"bytes"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKind(t *testing.T) {
	tests := []struct {
		url  string
		want string
	}{
		{"https://pokeapi.co/api/v2/pokemon/25", "pokemon"},
		{"https://pokeapi.co/api/v2/pokemon?limit=100000", "pokemon"},
		{"https://pokeapi.co/api/v2/pokemon-species/25/", "pokemon-species"},
		{"https://pokeapi.co/api/v2/evolution-chain/10/", "evolution-chain"},
		{"http://127.0.0.1:1234/pokemon/1", "pokemon"},
		{"", "unknown"},
		{"://bad", "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			assert.Equal(t, tt.want, Kind(tt.url))
		})
	}
}

func TestRecorder_CacheEvents(t *testing.T) {
	r := New()
	const u = "https://pokeapi.co/api/v2/pokemon/25"

	r.Miss(u)
	r.Store(u)
	r.Hit(u)
	r.Hit(u)
	r.Invalidate(u)

	assert.Equal(t, 2.0, testutil.ToFloat64(r.cacheHits.WithLabelValues("pokemon")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.cacheMisses.WithLabelValues("pokemon")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.cacheStores.WithLabelValues("pokemon")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.cacheInvalidations.WithLabelValues("pokemon")))
}

func TestRecorder_ObserveFetch(t *testing.T) {
	r := New()
	r.ObserveFetch("https://pokeapi.co/api/v2/pokemon-species/25/", 200, 20*time.Millisecond)
	r.ObserveFetch("https://pokeapi.co/api/v2/pokemon-species/9999/", 404, 5*time.Millisecond)

	assert.Equal(t, 1.0, testutil.ToFloat64(r.fetchTotal.WithLabelValues("pokemon-species", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.fetchTotal.WithLabelValues("pokemon-species", "404")))
}

func TestRecorder_WriteText(t *testing.T) {
	r := New()
	r.Hit("https://pokeapi.co/api/v2/pokemon/1")

	var buf bytes.Buffer
	require.NoError(t, r.WriteText(&buf))
	assert.Contains(t, buf.String(), `dexctl_cache_hits_total{kind="pokemon"} 1`)
}
