// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package output

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/staranto/dexctl/internal/catalog"
)

func pikachu() *catalog.Detail {
	return &catalog.Detail{
		ID:          25,
		Name:        "pikachu",
		Display:     "Pikachu",
		Types:       []string{"electric"},
		Description: "Stores electricity in its cheeks.",
		Genus:       "Mouse Pokémon",
		Height:      4,
		Weight:      60,
		Abilities:   []string{"static", "lightning-rod"},
		Stats:       map[string]int{"speed": 90, "hp": 35, "attack": 55},
		Evolutions:  []string{"pichu", "pikachu", "raichu"},
		Stages: []*catalog.StageCard{
			{ID: 172, Name: "pichu", Display: "Pichu"},
			{ID: 25, Name: "pikachu", Display: "Pikachu", Depth: 1},
			{ID: 26, Name: "raichu", Display: "Raichu", Depth: 2},
		},
	}
}

func TestDetailCard(t *testing.T) {
	out := DetailCard(pikachu(), false)

	for _, want := range []string{
		"#025 Pikachu",
		"Mouse Pokémon",
		"ELECTRIC",
		"0.4 m",
		"6 kg",
		"Static, Lightning Rod",
		"Stores electricity in its cheeks.",
		"Pichu → [Pikachu] → Raichu",
		"Total",
		"180",
	} {
		assert.Contains(t, out, want)
	}
}

func TestRenderDetail(t *testing.T) {
	var w bytes.Buffer
	require.NoError(t, RenderDetail(&w, pikachu(), true))
	assert.Contains(t, w.String(), "Pikachu")
}

func TestStatNames(t *testing.T) {
	got := StatNames(map[string]int{"speed": 1, "accuracy": 1, "hp": 1, "evasion": 1, "attack": 1})
	assert.Equal(t, []string{"hp", "attack", "speed", "accuracy", "evasion"}, got)
}

func TestStageStrip(t *testing.T) {
	assert.Equal(t, "-", StageStrip(nil, "ditto"))
	assert.Equal(t, "[Ditto]", StageStrip([]*catalog.StageCard{{Name: "ditto"}}, "ditto"))
	assert.Equal(t, "Eevee → Vaporeon", StageStrip([]*catalog.StageCard{
		{Name: "eevee", Display: "Eevee"},
		{Name: "vaporeon", Display: "Vaporeon"},
	}, "flareon"))
}

func TestUnits(t *testing.T) {
	assert.Equal(t, "0.4 m", Metres(4))
	assert.Equal(t, "1.7 m", Metres(17))
	assert.Equal(t, "2 m", Metres(20))
	assert.Equal(t, "905 kg", Kilograms(9050))
	assert.Equal(t, "1,000 kg", Kilograms(10000))
	assert.Equal(t, "#025", Number(25))
	assert.Equal(t, "#1025", Number(1025))
}

func TestStatBar(t *testing.T) {
	assert.Equal(t, "", statBar(0))
	assert.Equal(t, "▇", statBar(1))
	assert.Len(t, []rune(statBar(255)), 30)
	assert.Len(t, []rune(statBar(999)), 30)
}
