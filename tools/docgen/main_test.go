// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = "# dexctl dq\n\n" +
	"Short description\n\n" +
	"Show the detail page of one pokemon.\n\n" +
	"Quick examples\n\n" +
	"```\n" +
	"# Detail card for pikachu\n" +
	"dexctl dq pikachu\n\n" +
	"# Detail as json\n" +
	"dexctl dq   <id>  -o json\n" +
	"```\n"

func TestExtractTitleAndShortDesc(t *testing.T) {
	title, short := extractTitleAndShortDesc(sample)
	assert.Equal(t, "dexctl dq", title)
	assert.Equal(t, "Show the detail page of one pokemon.", short)

	title, short = extractTitleAndShortDesc("# dexctl tq\n")
	assert.Equal(t, "dexctl tq", title)
	assert.Equal(t, "dexctl tq.", short)
}

func TestExtractQuickExamples(t *testing.T) {
	exs := extractQuickExamples(sample)
	require.Len(t, exs, 2)
	assert.Equal(t, example{Desc: "Detail card for pikachu", Cmd: "dexctl dq pikachu"}, exs[0])
	assert.Equal(t, "Detail as json", exs[1].Desc)

	assert.Nil(t, extractQuickExamples("# nothing here\n"))
}

func TestBuildTLDR(t *testing.T) {
	got := buildTLDR(parsePage("dq", []byte(sample)))
	assert.Contains(t, got, "# dexctl-dq\n")
	assert.Contains(t, got, "> Show the detail page of one pokemon.\n")
	assert.Contains(t, got, "> More information: "+repoURL+".")
	assert.Contains(t, got, "- Detail card for pikachu:\n\n`dexctl dq pikachu`\n")
	assert.Contains(t, got, "`dexctl dq {{id}} -o json`")

	fallback := buildTLDR(&page{Cmd: "tq"})
	assert.Contains(t, fallback, "> dexctl tq\n")
	assert.Contains(t, fallback, "`dexctl tq --help`")
}

func TestBuildOverview(t *testing.T) {
	got := buildOverview([]*page{
		{Cmd: "dq", Short: "Show one pokemon."},
		{Cmd: "lq", Short: "List the catalog."},
	})
	assert.Contains(t, got, "# dexctl 1\n")
	assert.Contains(t, got, "dexctl-dq(1)\n: Show one pokemon.\n")
	assert.Less(t, strings.Index(got, "dexctl-dq(1)"), strings.Index(got, "dexctl-lq(1)"))
}

func TestWriter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "page.md")
	w := &writer{}

	require.NoError(t, w.write(path, []byte("one\n")))
	info, err := os.Stat(path)
	require.NoError(t, err)

	// Whitespace-only differences are not a change.
	require.NoError(t, w.write(path, []byte("one")))
	again, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, info.ModTime(), again.ModTime())

	require.NoError(t, w.write(path, []byte("two")))
	body, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "two", string(body))
	assert.Empty(t, w.stale)
}

func TestGenerate(t *testing.T) {
	root := t.TempDir()
	commands := filepath.Join(root, "docs", "commands")
	require.NoError(t, os.MkdirAll(commands, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(commands, "dq.md"), []byte(sample), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(commands, "notes.txt"), []byte("skip"), 0o644))

	// Nothing generated yet, so check mode reports every page.
	check := &writer{check: true}
	n, err := generate(root, check)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Len(t, check.stale, 3)

	n, err = generate(root, &writer{})
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.FileExists(t, filepath.Join(root, "docs", "man", "share", "man1", "dexctl-dq.1"))
	assert.FileExists(t, filepath.Join(root, "docs", "man", "share", "man1", "dexctl.1"))

	tldr, err := os.ReadFile(filepath.Join(root, "docs", "tldr", "dexctl-dq.md"))
	require.NoError(t, err)
	assert.Contains(t, string(tldr), "`dexctl dq pikachu`")

	check = &writer{check: true}
	_, err = generate(root, check)
	require.NoError(t, err)
	assert.Empty(t, check.stale)
}

func TestGenerate_NoPages(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "docs", "commands"), 0o755))

	_, err := generate(root, &writer{})
	assert.ErrorContains(t, err, "no command markdown")

	_, err = generate(filepath.Join(root, "missing"), &writer{})
	assert.Error(t, err)
}
