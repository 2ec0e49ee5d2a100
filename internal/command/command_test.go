// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package command

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v3"

	"github.com/staranto/dexctl/internal/attrs"
	"github.com/staranto/dexctl/internal/catalog"
	"github.com/staranto/dexctl/internal/meta"
)

type fixture struct {
	id     int
	name   string
	types  []string
	weight int
}

var fixtures = []fixture{
	{1, "bulbasaur", []string{"grass", "poison"}, 69},
	{4, "charmander", []string{"fire"}, 85},
	{25, "pikachu", []string{"electric"}, 60},
}

// newCatalogServer serves a three entry catalog. Species are never found.
func newCatalogServer(t *testing.T) *httptest.Server {
	t.Helper()

	pokemon := map[string]string{}
	var results []string
	for _, f := range fixtures {
		var types []string
		for i, ty := range f.types {
			types = append(types, fmt.Sprintf(`{"slot":%d,"type":{"name":%q,"url":""}}`, i+1, ty))
		}
		doc := fmt.Sprintf(`{"id":%d,"name":%q,"height":%d,"weight":%d,"types":[%s],`+
			`"stats":[{"base_stat":%d,"effort":0,"stat":{"name":"hp","url":""}}],`+
			`"sprites":{"front_default":"front/%d.png","other":{"official-artwork":{"front_default":"art/%d.png"}}},`+
			`"species":{"name":%q,"url":""}}`,
			f.id, f.name, f.id, f.weight, strings.Join(types, ","), f.weight/2, f.id, f.id, f.name)
		pokemon[f.name] = doc
		pokemon[strconv.Itoa(f.id)] = doc
		results = append(results, fmt.Sprintf(`{"name":%q,"url":"%%s/pokemon/%d/"}`, f.name, f.id))
	}

	var srv *httptest.Server
	srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/pokemon":
			items := make([]string, 0, len(results))
			for _, res := range results {
				items = append(items, fmt.Sprintf(res, srv.URL))
			}
			fmt.Fprintf(w, `{"count":%d,"next":null,"previous":null,"results":[%s]}`, len(items), strings.Join(items, ","))
		case strings.HasPrefix(r.URL.Path, "/pokemon/"):
			// Listing URLs carry a trailing slash.
			doc, ok := pokemon[strings.Trim(strings.TrimPrefix(r.URL.Path, "/pokemon/"), "/")]
			if !ok {
				http.NotFound(w, r)
				return
			}
			fmt.Fprint(w, doc)
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

// run executes dexctl with args against srv and returns what it printed.
func run(t *testing.T, srv *httptest.Server, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer
	stdout, stderr = &out, io.Discard
	t.Cleanup(func() { stdout, stderr = os.Stdout, os.Stderr })

	full := append([]string{"dexctl"}, args...)
	if srv != nil {
		full = append(full, "--base-url", srv.URL)
	}

	app, err := InitApp(context.Background(), full)
	require.NoError(t, err)
	err = app.Run(context.Background(), full)
	return out.String(), err
}

func decodeRows(t *testing.T, out string) []map[string]interface{} {
	t.Helper()
	var rows []map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(out), &rows))
	return rows
}

func TestLq(t *testing.T) {
	srv := newCatalogServer(t)

	tests := []struct {
		name string
		args []string
		want []map[string]interface{}
	}{
		{
			name: "everything",
			args: []string{"lq", "-o", "json"},
			want: []map[string]interface{}{
				{"id": "1", "name": "bulbasaur"},
				{"id": "4", "name": "charmander"},
				{"id": "25", "name": "pikachu"},
			},
		},
		{
			name: "search",
			args: []string{"lq", "-q", "CHAR", "-o", "json"},
			want: []map[string]interface{}{
				{"id": "4", "name": "charmander"},
			},
		},
		{
			name: "sorted descending",
			args: []string{"lq", "-s", "-name", "-o", "json"},
			want: []map[string]interface{}{
				{"id": "25", "name": "pikachu"},
				{"id": "4", "name": "charmander"},
				{"id": "1", "name": "bulbasaur"},
			},
		},
		{
			name: "filtered and formatted",
			args: []string{"lq", "-f", "id>1", "-a", "name::u", "-o", "json"},
			want: []map[string]interface{}{
				{"id": "4", "name": "CHARMANDER"},
				{"id": "25", "name": "PIKACHU"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := run(t, srv, tt.args...)
			require.NoError(t, err)
			assert.Equal(t, tt.want, decodeRows(t, out))
		})
	}
}

func TestLqText(t *testing.T) {
	srv := newCatalogServer(t)

	out, err := run(t, srv, "lq", "-q", "pika")
	require.NoError(t, err)
	assert.Contains(t, out, "25")
	assert.Contains(t, out, "pikachu")
	assert.NotContains(t, out, "bulbasaur")
}

func TestGqAndTq(t *testing.T) {
	srv := newCatalogServer(t)

	out, err := run(t, srv, "gq", "--types", "poison", "-o", "json")
	require.NoError(t, err)
	rows := decodeRows(t, out)
	require.Len(t, rows, 1)
	assert.Equal(t, "bulbasaur", rows[0]["name"])

	out, err = run(t, srv, "tq", "-o", "json")
	require.NoError(t, err)
	rows = decodeRows(t, out)
	var types []string
	for _, r := range rows {
		types = append(types, r["type"].(string))
	}
	assert.Equal(t, []string{"electric", "fire", "grass", "poison"}, types)
}

func TestDq(t *testing.T) {
	srv := newCatalogServer(t)

	out, err := run(t, srv, "dq", "25")
	require.NoError(t, err)
	assert.Contains(t, out, "#025 Pikachu")
	assert.Contains(t, out, catalog.DefaultDescription)
	assert.Contains(t, out, "6 kg")

	out, err = run(t, srv, "dq", "pikachu", "-o", "json")
	require.NoError(t, err)
	rows := decodeRows(t, out)
	require.Len(t, rows, 1)
	assert.Equal(t, "art/25.png", rows[0]["sprite"])
	assert.Equal(t, catalog.DefaultDescription, rows[0]["description"])

	_, err = run(t, srv, "dq", "missingno")
	assert.EqualError(t, err, catalog.NotFoundMessage)

	_, err = run(t, srv, "dq")
	assert.ErrorContains(t, err, "missing id or name")
}

func TestFq(t *testing.T) {
	srv := newCatalogServer(t)

	out, err := run(t, srv, "fq", "Pikachu", "-o", "json")
	require.NoError(t, err)
	rows := decodeRows(t, out)
	require.Len(t, rows, 1)
	assert.Equal(t, "pikachu", rows[0]["name"])

	_, err = run(t, srv, "fq", "pikachuu")
	require.Error(t, err)
	assert.True(t, strings.HasPrefix(err.Error(), catalog.NotFoundMessage))
}

func TestCq(t *testing.T) {
	srv := newCatalogServer(t)

	out, err := run(t, srv, "cq", "bulb", "4", "--path", "weight")
	require.NoError(t, err)
	assert.Contains(t, out, `"weight": 69`)
	assert.Contains(t, out, `"weight": 85`)

	out, err = run(t, srv, "cq", "25", "pikachu")
	require.NoError(t, err)
	assert.Equal(t, "pikachu and pikachu do not differ\n", out)

	_, err = run(t, srv, "cq", "25")
	assert.ErrorContains(t, err, "missing two ids or names")
}

func TestSchemaAndTLDR(t *testing.T) {
	out, err := run(t, nil, "lq", "--schema")
	require.NoError(t, err)
	assert.Contains(t, out, "name")
	assert.Contains(t, out, "display")

	_, err = run(t, nil, "lq", "--schema", "--tldr")
	assert.Error(t, err)
}

func TestCompletion(t *testing.T) {
	out, err := run(t, nil, "completion", "bash")
	require.NoError(t, err)
	assert.Contains(t, out, "complete -F _dexctl dexctl")

	out, err = run(t, nil, "completion", "zsh")
	require.NoError(t, err)
	assert.Contains(t, out, "#compdef dexctl")
}

func TestBuildAttrs(t *testing.T) {
	var got attrs.AttrList
	cmd := &cli.Command{
		Name:  "lq",
		Flags: []cli.Flag{&cli.StringFlag{Name: "attrs"}},
		Action: func(ctx context.Context, c *cli.Command) error {
			var err error
			got, err = BuildAttrs(c, ".id", "name")
			return err
		},
	}
	require.NoError(t, cmd.Run(context.Background(), []string{"lq", "--attrs", "name::u,!url"}))

	require.Len(t, got, 3)
	assert.Equal(t, "u", got[1].TransformSpec, "a later spec updates the default in place")
	assert.False(t, got[2].Include)

	_, err := BuildAttrs(&cli.Command{}, ".id", ",")
	assert.Error(t, err)
}

func TestGetMeta(t *testing.T) {
	assert.Equal(t, meta.Meta{}, GetMeta(nil))
	assert.Equal(t, meta.Meta{}, GetMeta(&cli.Command{}))

	m := meta.Meta{Namespace: "lq"}
	assert.Equal(t, m, GetMeta(&cli.Command{Metadata: map[string]any{"meta": m}}))
}
