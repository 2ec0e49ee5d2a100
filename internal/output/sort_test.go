// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package output

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSortDataset(t *testing.T) {
	testData := []map[string]interface{}{
		{"name": "Zubat", "id": "41", "weight": 75.0, "type": "poison"},
		{"name": "abra", "id": "63", "weight": 195.0, "type": "psychic"},
		{"name": "Bulbasaur", "id": "1", "weight": 69.0, "type": "grass"},
		{"name": "arbok", "id": "24", "weight": 650.0, "type": "poison"},
	}

	tests := []struct {
		name      string
		spec      string
		wantOrder []string
	}{
		{
			name:      "ascending by name ignores case",
			spec:      "name",
			wantOrder: []string{"abra", "arbok", "Bulbasaur", "Zubat"},
		},
		{
			name:      "descending by name",
			spec:      "-name",
			wantOrder: []string{"Zubat", "Bulbasaur", "arbok", "abra"},
		},
		{
			name:      "case sensitive",
			spec:      "!name",
			wantOrder: []string{"Bulbasaur", "Zubat", "abra", "arbok"},
		},
		{
			name:      "case sensitive descending either prefix order",
			spec:      "!-name",
			wantOrder: []string{"arbok", "abra", "Zubat", "Bulbasaur"},
		},
		{
			name:      "numeric strings sort numerically",
			spec:      "id",
			wantOrder: []string{"Bulbasaur", "arbok", "Zubat", "abra"},
		},
		{
			name:      "numbers descending",
			spec:      "-weight",
			wantOrder: []string{"arbok", "abra", "Zubat", "Bulbasaur"},
		},
		{
			name:      "multiple keys",
			spec:      "type,-id",
			wantOrder: []string{"Bulbasaur", "Zubat", "arbok", "abra"},
		},
		{
			name:      "empty spec keeps order",
			spec:      "",
			wantOrder: []string{"Zubat", "abra", "Bulbasaur", "arbok"},
		},
		{
			name:      "unknown key keeps order",
			spec:      "color",
			wantOrder: []string{"Zubat", "abra", "Bulbasaur", "arbok"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := make([]map[string]interface{}, len(testData))
			copy(data, testData)
			SortDataset(data, tt.spec)
			for i, expectedName := range tt.wantOrder {
				assert.Equal(t, expectedName, data[i]["name"], "at index %d", i)
			}
		})
	}
}

func TestSortDatasetStable(t *testing.T) {
	data := []map[string]interface{}{
		{"name": "oddish", "type": "grass"},
		{"name": "ekans", "type": "poison"},
		{"name": "bellsprout", "type": "grass"},
		{"name": "tangela", "type": "grass"},
	}

	SortDataset(data, "type")

	got := make([]string, 0, len(data))
	for _, row := range data {
		got = append(got, row["name"].(string))
	}
	assert.Equal(t, []string{"oddish", "bellsprout", "tangela", "ekans"}, got)
}

func TestCompareValues(t *testing.T) {
	assert.Equal(t, 0, compareValues(nil, nil, false))
	assert.Equal(t, -1, compareValues(nil, "a", false))
	assert.Equal(t, 1, compareValues("a", nil, false))
	assert.Equal(t, -1, compareValues("9", "10", false))
	assert.Equal(t, -1, compareValues(2.0, "abc", false))
	assert.Equal(t, 0, compareValues("Mew", "mew", false))
	assert.Equal(t, -1, compareValues("Mew", "mew", true))
}

func TestParseSortSpec(t *testing.T) {
	got := parseSortSpec(" -name, !type ,, -!id,-")
	assert.Equal(t, []sortKey{
		{name: "name", descending: true},
		{name: "type", caseSensitive: true},
		{name: "id", descending: true, caseSensitive: true},
	}, got)
}

func BenchmarkSortDataset(b *testing.B) {
	testData := []map[string]interface{}{
		{"name": "zubat", "id": "41"},
		{"name": "abra", "id": "63"},
		{"name": "bulbasaur", "id": "1"},
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		data := make([]map[string]interface{}, len(testData))
		copy(data, testData)
		SortDataset(data, "-id,name")
	}
}
