// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

// Command docgen renders docs/commands/<cmd>.md, the canonical command pages,
// into man pages under docs/man/share/man1 and tldr pages under docs/tldr.
// It also writes dexctl.1, an overview page listing every command.
//
// With -check nothing is written; stale pages are listed and docgen exits 1.
package main

import (
	"bytes"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	md2man "github.com/cpuguy83/go-md2man/v2/md2man"
)

const (
	binary  = "dexctl"
	repoURL = "https://github.com/staranto/dexctl"
)

// page is one command doc and what is extracted from it.
type page struct {
	Cmd      string
	Title    string
	Short    string
	Examples []example
	Raw      []byte
}

type example struct {
	Desc string
	Cmd  string
}

// writer either writes changed files or, in check mode, records them.
type writer struct {
	check bool
	stale []string
}

func main() {
	root := flag.String("root", ".", "repo root")
	check := flag.Bool("check", false, "list stale pages instead of writing them")
	flag.Parse()

	w := &writer{check: *check}
	n, err := generate(*root, w)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if len(w.stale) > 0 {
		for _, s := range w.stale {
			fmt.Fprintf(os.Stderr, "stale: %s\n", s)
		}
		os.Exit(1)
	}
	fmt.Printf("%d command pages\n", n)
}

// generate renders every command page under root and returns how many there
// were.
func generate(root string, w *writer) (int, error) {
	var (
		commandsDir = filepath.Join(root, "docs", "commands")
		manDir      = filepath.Join(root, "docs", "man", "share", "man1")
		tldrDir     = filepath.Join(root, "docs", "tldr")
	)

	pages, err := readPages(commandsDir)
	if err != nil {
		return 0, err
	}
	if len(pages) == 0 {
		return 0, fmt.Errorf("no command markdown found under %s", commandsDir)
	}

	if !w.check {
		for _, dir := range []string{manDir, tldrDir} {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return 0, fmt.Errorf("creating %s: %w", dir, err)
			}
		}
	}

	for _, p := range pages {
		man := filepath.Join(manDir, fmt.Sprintf("%s-%s.1", binary, p.Cmd))
		if err := w.write(man, md2man.Render(p.Raw)); err != nil {
			return 0, fmt.Errorf("man page for %s: %w", p.Cmd, err)
		}

		tldr := filepath.Join(tldrDir, fmt.Sprintf("%s-%s.md", binary, p.Cmd))
		if err := w.write(tldr, []byte(buildTLDR(p))); err != nil {
			return 0, fmt.Errorf("tldr page for %s: %w", p.Cmd, err)
		}
	}

	overview := filepath.Join(manDir, binary+".1")
	if err := w.write(overview, md2man.Render([]byte(buildOverview(pages)))); err != nil {
		return 0, fmt.Errorf("overview page: %w", err)
	}

	return len(pages), nil
}

// readPages loads every .md file in dir, sorted by command name.
func readPages(dir string) ([]*page, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading commands dir %s: %w", dir, err)
	}

	var pages []*page
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".md") {
			continue
		}
		raw, err := os.ReadFile(filepath.Join(dir, e.Name()))
		if err != nil {
			return nil, err
		}
		pages = append(pages, parsePage(strings.TrimSuffix(e.Name(), ".md"), raw))
	}

	sort.Slice(pages, func(i, j int) bool { return pages[i].Cmd < pages[j].Cmd })
	return pages, nil
}

func parsePage(cmd string, raw []byte) *page {
	md := string(raw)
	title, short := extractTitleAndShortDesc(md)
	return &page{
		Cmd:      cmd,
		Title:    title,
		Short:    short,
		Examples: extractQuickExamples(md),
		Raw:      raw,
	}
}

// write stores content at path unless the file already holds it, ignoring
// surrounding whitespace.
func (w *writer) write(path string, content []byte) error {
	old, err := os.ReadFile(path)
	switch {
	case err == nil:
		if bytes.Equal(bytes.TrimSpace(old), bytes.TrimSpace(content)) {
			return nil
		}
	case !errors.Is(err, fs.ErrNotExist):
		return err
	}

	if w.check {
		w.stale = append(w.stale, path)
		return nil
	}
	return os.WriteFile(path, content, 0o644)
}

var h1Re = regexp.MustCompile(`(?m)^#\s+(.+)$`)

// extractTitleAndShortDesc returns the first H1 and the first paragraph after
// the "Short description" line. Without one the title stands in.
func extractTitleAndShortDesc(md string) (title, short string) {
	if m := h1Re.FindStringSubmatch(md); m != nil {
		title = strings.TrimSpace(m[1])
	}

	if body, ok := section(md, "short description"); ok {
		var para []string
		for _, ln := range strings.Split(body, "\n") {
			ln = strings.TrimSpace(ln)
			if ln == "" {
				if len(para) > 0 {
					break
				}
				continue
			}
			if strings.HasPrefix(ln, "#") || strings.HasSuffix(ln, ":") || strings.EqualFold(ln, "quick examples") {
				break
			}
			para = append(para, ln)
		}
		short = strings.Join(para, " ")
	}

	if short == "" && title != "" {
		short = title + "."
	}
	return title, short
}

// extractQuickExamples reads the first fenced block after "Quick examples".
// A "# text" line describes the command line that follows it.
func extractQuickExamples(md string) []example {
	body, ok := section(md, "quick examples")
	if !ok {
		return nil
	}

	const fence = "```"
	start := strings.Index(body, fence)
	if start < 0 {
		return nil
	}
	body = body[start+len(fence):]
	// Skip an info string such as ```sh.
	if nl := strings.Index(body, "\n"); nl >= 0 {
		body = body[nl+1:]
	}
	end := strings.Index(body, fence)
	if end < 0 {
		return nil
	}

	var (
		exs  []example
		desc string
	)
	for _, ln := range strings.Split(body[:end], "\n") {
		ln = strings.TrimSpace(ln)
		switch {
		case ln == "":
		case strings.HasPrefix(ln, "#"):
			desc = strings.TrimSpace(strings.TrimPrefix(ln, "#"))
		default:
			if desc == "" {
				desc = "Example"
			}
			exs = append(exs, example{Desc: desc, Cmd: ln})
			desc = ""
		}
	}
	return exs
}

// section returns md after the line containing header, matched without case.
func section(md, header string) (string, bool) {
	idx := strings.Index(strings.ToLower(md), header)
	if idx < 0 {
		return "", false
	}
	rest := md[idx:]
	if nl := strings.Index(rest, "\n"); nl >= 0 {
		return rest[nl+1:], true
	}
	return "", true
}

func buildTLDR(p *page) string {
	var b strings.Builder

	summary := p.Short
	if summary == "" {
		summary = binary + " " + p.Cmd
	}
	fmt.Fprintf(&b, "# %s-%s\n\n", binary, p.Cmd)
	fmt.Fprintf(&b, "> %s\n", summary)
	fmt.Fprintf(&b, "> More information: %s.\n\n", repoURL)

	exs := p.Examples
	if len(exs) == 0 {
		exs = []example{{Desc: "Show help for the command", Cmd: binary + " " + p.Cmd + " --help"}}
	}

	for i, ex := range exs {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "- %s:\n\n`%s`\n", ex.Desc, sanitizeCommand(ex.Cmd))
	}
	return b.String()
}

// buildOverview is the markdown source of dexctl.1.
func buildOverview(pages []*page) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s 1\n\n", binary)
	b.WriteString("## NAME\n\n")
	fmt.Fprintf(&b, "%s - PokeAPI catalog control\n\n", binary)
	b.WriteString("## SYNOPSIS\n\n")
	fmt.Fprintf(&b, "%s <command> [options]\n\n", binary)
	b.WriteString("## COMMANDS\n\n")
	for _, p := range pages {
		fmt.Fprintf(&b, "%s-%s(1)\n: %s\n\n", binary, p.Cmd, p.Short)
	}
	b.WriteString("## SEE ALSO\n\n")
	b.WriteString(repoURL + "\n")
	return b.String()
}

var placeholderRe = regexp.MustCompile(`<([^<>|]+)>`)

// sanitizeCommand compresses whitespace and turns <placeholder> into the
// tldr {{placeholder}} style.
func sanitizeCommand(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	return placeholderRe.ReplaceAllString(s, "{{$1}}")
}
