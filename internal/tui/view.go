// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package tui

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/staranto/dexctl/internal/catalog"
	"github.com/staranto/dexctl/internal/output"
)

// View renders the current screen.
func (m Model) View() string {
	if m.screen == detailScreen {
		return m.detailView()
	}
	return m.listView()
}

func (m Model) listView() string {
	var b strings.Builder

	header := fmt.Sprintf("dexctl  %s of %s  sorted by %s %s",
		humanize.Comma(int64(len(m.visible))),
		humanize.Comma(int64(len(m.entries))),
		m.sortField, m.sortOrder)
	b.WriteString(titleStyle.Render(header))
	b.WriteString("\n")

	if m.searching || m.search.Value() != "" {
		b.WriteString(m.search.View())
	}
	b.WriteString("\n")

	switch {
	case m.loading && len(m.entries) == 0:
		b.WriteString(m.spinner.View() + " loading catalog\n")
	case len(m.visible) == 0 && !m.loading:
		b.WriteString(dimStyle.Render("no matches") + "\n")
	default:
		end := min(m.offset+m.pageSize(), len(m.visible))
		for i := m.offset; i < end; i++ {
			e := m.visible[i]
			row := fmt.Sprintf("%s  %s", output.Number(e.ID), e.Display)
			if i == m.cursor {
				b.WriteString(selectedStyle.Render("> " + row))
			} else {
				b.WriteString("  " + row)
			}
			b.WriteString("\n")
		}
	}

	b.WriteString(m.footer(m.backend.ListURL(m.limit, 0)))
	b.WriteString("\n")
	b.WriteString(m.help.ShortHelpView(keys.listHelp()))
	return b.String()
}

func (m Model) detailView() string {
	var b strings.Builder

	switch {
	case m.detail == nil:
		b.WriteString(m.spinner.View() + " loading " + m.detailTok.Target() + "\n")
	default:
		if m.loading {
			b.WriteString(m.spinner.View() + " refreshing\n")
		}
		b.WriteString(output.DetailCard(m.detail, m.color))
		b.WriteString("\n")
		b.WriteString(m.stagePicker())
		b.WriteString("\n")
	}

	target := m.detailTok.Target()
	if m.detail != nil {
		target = m.detail.Name
	}
	b.WriteString(m.footer(m.backend.PokemonURL(target)))
	b.WriteString("\n")
	b.WriteString(m.help.ShortHelpView(keys.detailHelp()))
	return b.String()
}

// stagePicker renders the evolution line with the stage cursor
// highlighted.
func (m Model) stagePicker() string {
	if m.detail == nil || len(m.detail.Stages) < 2 {
		return ""
	}

	parts := make([]string, 0, len(m.detail.Stages))
	for i, s := range m.detail.Stages {
		label := s.Display
		if label == "" {
			label = catalog.FormatName(s.Name)
		}
		if i == m.stage {
			label = stageStyle.Render(label)
		}
		parts = append(parts, label)
	}
	return strings.Join(parts, " → ")
}

// footer shows the status or error line, then how old the cached page
// behind url is.
func (m Model) footer(url string) string {
	var line string
	switch {
	case m.err != nil:
		line = errorStyle.Render(m.err.Error())
	case m.status != "":
		line = errorStyle.Render(m.status)
	}

	if at, ok := m.backend.CachedAt(url); ok {
		age := dimStyle.Render("fetched " + humanize.RelTime(at, m.now(), "ago", "from now"))
		if line != "" {
			line += "  "
		}
		line += age
	}
	return line
}
