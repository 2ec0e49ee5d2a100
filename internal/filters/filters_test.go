// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package filters

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"github.com/staranto/dexctl/internal/attrs"
)

func TestBuildFilters(t *testing.T) {
	tests := []struct {
		name  string
		spec  string
		delim string
		want  []Filter
	}{
		{
			name: "empty spec",
			spec: "",
		},
		{
			name: "blank spec",
			spec: "   ",
		},
		{
			name: "exact",
			spec: "name=pikachu",
			want: []Filter{{Key: "name", Operand: "=", Target: "pikachu"}},
		},
		{
			name: "prefix",
			spec: "name^char",
			want: []Filter{{Key: "name", Operand: "^", Target: "char"}},
		},
		{
			name: "negated exact",
			spec: "name!=ditto",
			want: []Filter{{Key: "name", Operand: "=", Target: "ditto", Negate: true}},
		},
		{
			name: "negated contains",
			spec: "types!@fire",
			want: []Filter{{Key: "types", Operand: "@", Target: "fire", Negate: true}},
		},
		{
			name: "numeric and regex",
			spec: "id>150,name/^mew",
			want: []Filter{
				{Key: "id", Operand: ">", Target: "150"},
				{Key: "name", Operand: "/", Target: "^mew"},
			},
		},
		{
			name: "empty target allowed",
			spec: "name=",
			want: []Filter{{Key: "name", Operand: "=", Target: ""}},
		},
		{
			name: "invalid entries skipped",
			spec: "name,=pikachu,id<10",
			want: []Filter{{Key: "id", Operand: "<", Target: "10"}},
		},
		{
			name:  "custom delimiter",
			spec:  "name^pi;id<30",
			delim: ";",
			want: []Filter{
				{Key: "name", Operand: "^", Target: "pi"},
				{Key: "id", Operand: "<", Target: "30"},
			},
		},
		{
			name:  "custom delimiter leaves commas in targets",
			spec:  "name/^(a|b),c",
			delim: "|||",
			want:  []Filter{{Key: "name", Operand: "/", Target: "^(a|b),c"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.delim != "" {
				t.Setenv(DelimEnvVar, tt.delim)
			}
			got := BuildFilters(tt.spec)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFilterString(t *testing.T) {
	assert.Equal(t, "types!@fire", Filter{Key: "types", Operand: "@", Target: "fire", Negate: true}.String())
	assert.Equal(t, "id>3", Filter{Key: "id", Operand: ">", Target: "3"}.String())
}

func TestCheckStringOperand(t *testing.T) {
	tests := []struct {
		name   string
		value  string
		filter Filter
		want   bool
	}{
		{"equal", "pikachu", Filter{Operand: "=", Target: "pikachu"}, true},
		{"equal is case sensitive", "pikachu", Filter{Operand: "=", Target: "Pikachu"}, false},
		{"not equal", "pikachu", Filter{Operand: "=", Target: "raichu", Negate: true}, true},
		{"fold", "Pikachu", Filter{Operand: "~", Target: "PIKACHU"}, true},
		{"prefix ignores case", "Charmander", Filter{Operand: "^", Target: "char"}, true},
		{"prefix miss", "squirtle", Filter{Operand: "^", Target: "char"}, false},
		{"negated prefix", "squirtle", Filter{Operand: "^", Target: "char", Negate: true}, true},
		{"contains", "mr-mime", Filter{Operand: "@", Target: "MIME"}, true},
		{"greater", "onix", Filter{Operand: ">", Target: "abra"}, true},
		{"less", "abra", Filter{Operand: "<", Target: "onix"}, true},
		{"regex", "mewtwo", Filter{Operand: "/", Target: "^mew"}, true},
		{"negated regex", "mewtwo", Filter{Operand: "/", Target: "^mew", Negate: true}, false},
		{"bad regex", "mewtwo", Filter{Operand: "/", Target: "("}, false},
		{"unknown operand", "mewtwo", Filter{Operand: "%", Target: "x"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, checkStringOperand(tt.value, tt.filter))
		})
	}
}

func TestCheckNumericOperand(t *testing.T) {
	tests := []struct {
		name   string
		value  float64
		filter Filter
		want   bool
	}{
		{"equal", 25, Filter{Operand: "=", Target: "25"}, true},
		{"equal with spaces", 25, Filter{Operand: "=", Target: " 25 "}, true},
		{"not equal", 25, Filter{Operand: "=", Target: "26", Negate: true}, true},
		{"greater", 151, Filter{Operand: ">", Target: "150"}, true},
		{"not greater", 150, Filter{Operand: ">", Target: "150"}, false},
		{"less", 4.5, Filter{Operand: "<", Target: "5"}, true},
		{"negated less", 4.5, Filter{Operand: "<", Target: "5", Negate: true}, false},
		{"bad target", 1, Filter{Operand: "=", Target: "one"}, false},
		{"unsupported", 1, Filter{Operand: "^", Target: "1"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, checkNumericOperand(tt.value, tt.filter))
		})
	}
}

func TestCheckContainsOperand(t *testing.T) {
	types := []any{"grass", "poison"}
	stats := map[string]any{"hp": float64(45), "speed": float64(45)}

	assert.True(t, checkContainsOperand(types, Filter{Operand: "@", Target: "Poison"}))
	assert.False(t, checkContainsOperand(types, Filter{Operand: "@", Target: "fire"}))
	assert.True(t, checkContainsOperand(types, Filter{Operand: "@", Target: "fire", Negate: true}))
	assert.True(t, checkContainsOperand(stats, Filter{Operand: "@", Target: "hp"}))
	assert.False(t, checkContainsOperand(stats, Filter{Operand: "@", Target: "hp", Negate: true}))
	assert.False(t, checkContainsOperand(42, Filter{Operand: "@", Target: "4"}))
}

func TestToFloat64(t *testing.T) {
	for _, v := range []interface{}{float64(3), float32(3), 3, int64(3), int32(3), uint(3), uint64(3)} {
		got, ok := toFloat64(v)
		assert.True(t, ok, "%T", v)
		assert.Equal(t, float64(3), got)
	}

	_, ok := toFloat64("3")
	assert.False(t, ok)
}

func TestApplyFilters(t *testing.T) {
	row := gjson.Parse(`{
		"id": "25",
		"attributes": {
			"name": "pikachu",
			"types": ["electric"],
			"height": 4,
			"legendary": false,
			"genus": null,
			"stats": {"hp": 35}
		}
	}`)

	al := attrs.AttrList{
		{Key: "id", OutputKey: "id", Include: true},
		{Key: "attributes.name", OutputKey: "name", Include: true},
		{Key: "attributes.types", OutputKey: "types", Include: true},
		{Key: "attributes.height", OutputKey: "height", Include: true},
		{Key: "attributes.legendary", OutputKey: "legendary", Include: true},
		{Key: "attributes.genus", OutputKey: "genus", Include: true},
		{Key: "attributes.stats", OutputKey: "stats", Include: true},
	}

	tests := []struct {
		name string
		spec string
		want bool
	}{
		{"no filters", "", true},
		{"name match", "name=pikachu", true},
		{"name miss", "name=raichu", false},
		{"source key accepted", "attributes.name^pika", true},
		{"string id compares numerically", "id<100", true},
		{"string id numeric miss", "id>100", false},
		{"string id equality", "id=25", true},
		{"number", "height>3", true},
		{"bool", "legendary=false", true},
		{"list membership", "types@electric", true},
		{"list membership negated", "types!@electric", false},
		{"list membership is whole element", "types@elec", false},
		{"map membership", "stats@hp", true},
		{"list ignores equality", "types=electric", true},
		{"null fails", "genus=mouse", false},
		{"unknown key ignored", "color=yellow", true},
		{"all must pass", "name^pika,height>10", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, applyFilters(row, al, BuildFilters(tt.spec)))
		})
	}
}

func TestFilterDataset(t *testing.T) {
	data := gjson.Parse(`[
		{"id": "4", "attributes": {"name": "charmander", "types": ["fire"]}},
		{"id": "5", "attributes": {"name": "charmeleon", "types": ["fire"]}},
		{"id": "6", "attributes": {"name": "charizard", "types": ["fire", "flying"]}},
		{"id": "7", "attributes": {"name": "squirtle", "types": ["water"]}}
	]`)

	al := attrs.AttrList{
		{Key: "id", OutputKey: "id", Include: true},
		{Key: "attributes.name", OutputKey: "name", Include: true},
		{Key: "attributes.types", OutputKey: "types", Include: true},
	}

	tests := []struct {
		name  string
		spec  string
		names []string
	}{
		{"no filters", "", []string{"charmander", "charmeleon", "charizard", "squirtle"}},
		{"prefix", "name^charm", []string{"charmander", "charmeleon"}},
		{"type", "types@flying", []string{"charizard"}},
		{"not fire", "types!@fire", []string{"squirtle"}},
		{"id range", "id>4,id<7", []string{"charmeleon", "charizard"}},
		{"none", "name=mew", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FilterDataset(data, al, tt.spec)
			require.Len(t, got, len(tt.names))
			for i, want := range tt.names {
				assert.Equal(t, want, got[i]["name"])
			}
		})
	}
}

func TestFilterDatasetKeepsListShape(t *testing.T) {
	data := gjson.Parse(`[
		{"id": "25", "attributes": {"name": "pikachu", "types": ["electric"]}},
		{"id": "6", "attributes": {"name": "charizard", "types": ["fire", "flying"]}}
	]`)
	al := attrs.AttrList{{Key: "attributes.types", OutputKey: "types", Include: true}}

	got := FilterDataset(data, al, "")
	require.Len(t, got, 2)
	assert.Equal(t, []interface{}{"electric"}, got[0]["types"])
	assert.Equal(t, []interface{}{"fire", "flying"}, got[1]["types"])
}

func TestFilterDatasetProjectsAttributes(t *testing.T) {
	data := gjson.Parse(`[{"id": "1", "attributes": {"name": "bulbasaur", "weight": 69}}]`)
	al := attrs.AttrList{
		{Key: "attributes.name", OutputKey: "pokemon", Include: true},
		{Key: "attributes.weight", OutputKey: "weight", Include: false},
	}

	got := FilterDataset(data, al, "")
	require.Len(t, got, 1)
	assert.Equal(t, map[string]interface{}{"pokemon": "bulbasaur", "weight": float64(69)}, got[0])
}
