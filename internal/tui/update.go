// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package tui

import (
	"errors"
	"strconv"
	"strings"

	"github.com/apex/log"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/staranto/dexctl/internal/catalog"
	"github.com/staranto/dexctl/internal/pokeapi"
)

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m.scroll(), nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.shutdown()
			return m, tea.Quit
		}
		if m.screen == detailScreen {
			return m.handleDetailKey(msg)
		}
		if m.searching {
			return m.handleSearchKey(msg)
		}
		return m.handleListKey(msg)

	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case listLoadedMsg:
		if !m.listTokens.Current(msg.tok) {
			log.Debugf("dropping stale listing")
			return m, nil
		}
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.entries = msg.entries
		m.err = nil
		return m.refilter(), nil

	case detailLoadedMsg:
		if !m.detailTokens.Current(msg.tok) {
			log.Debugf("dropping stale detail for %s", msg.tok.Target())
			return m, nil
		}
		m.loading = false
		if msg.err != nil {
			if errors.Is(msg.err, pokeapi.ErrNotFound) || errors.Is(msg.err, catalog.ErrNotFound) {
				m.status = catalog.NotFoundMessage
			} else {
				m.err = msg.err
			}
			if m.detail == nil {
				status, err := m.status, m.err
				m = m.closeDetail()
				m.status, m.err = status, err
			}
			return m, nil
		}
		m.detail = msg.detail
		m.stage = stageIndex(msg.detail, msg.detail.Name)
		return m, nil
	}

	return m, nil
}

func (m Model) handleListKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Quit):
		m.shutdown()
		return m, tea.Quit

	case key.Matches(msg, keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
		return m.scroll(), nil

	case key.Matches(msg, keys.Down):
		if m.cursor < len(m.visible)-1 {
			m.cursor++
		}
		return m.scroll(), nil

	case key.Matches(msg, keys.PageUp):
		m.cursor = max(m.cursor-m.pageSize(), 0)
		return m.scroll(), nil

	case key.Matches(msg, keys.PageDown):
		m.cursor = max(min(m.cursor+m.pageSize(), len(m.visible)-1), 0)
		return m.scroll(), nil

	case key.Matches(msg, keys.Open):
		if e := m.selected(); e != nil {
			return m.openDetail(e.Name, false)
		}
		return m, nil

	case key.Matches(msg, keys.Search):
		m.searching = true
		m.status = ""
		return m, m.search.Focus()

	case key.Matches(msg, keys.Sort):
		if m.sortField == catalog.SortByID {
			m.sortField = catalog.SortByName
		} else {
			m.sortField = catalog.SortByID
		}
		return m.refilter(), nil

	case key.Matches(msg, keys.Order):
		if m.sortOrder == catalog.Ascending {
			m.sortOrder = catalog.Descending
		} else {
			m.sortOrder = catalog.Ascending
		}
		return m.refilter(), nil

	case key.Matches(msg, keys.Refresh):
		m.backend.InvalidateCache(m.backend.ListURL(m.limit, 0))
		m.status = ""
		return m.startList()

	case msg.String() == "esc":
		m.search.Reset()
		m.status = ""
		return m.refilter(), nil
	}

	return m, nil
}

// handleSearchKey routes keys to the search box. Enter opens the query
// itself when it names an entry exactly or when nothing in the listing
// matches, so ids and forms outside the listing are still reachable.
func (m Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.searching = false
		m.search.Blur()
		m.search.Reset()
		return m.refilter(), nil

	case "enter":
		m.searching = false
		m.search.Blur()

		query := strings.ToLower(strings.TrimSpace(m.search.Value()))
		if query == "" {
			return m.refilter(), nil
		}
		if exact(m.visible, query) || len(m.visible) == 0 {
			return m.openDetail(query, false)
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	m.cursor = 0
	return m.refilter(), cmd
}

func (m Model) handleDetailKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Quit):
		m.shutdown()
		return m, tea.Quit

	case key.Matches(msg, keys.Back):
		if n := len(m.history); n > 0 {
			prev := m.history[n-1]
			m.history = m.history[:n-1]
			return m.openDetail(prev, false)
		}
		return m.closeDetail(), nil
	}

	if m.detail == nil {
		return m, nil
	}

	switch {
	case key.Matches(msg, keys.Left):
		if m.stage > 0 {
			m.stage--
		}
		return m, nil

	case key.Matches(msg, keys.Right):
		if m.stage < len(m.detail.Stages)-1 {
			m.stage++
		}
		return m, nil

	case key.Matches(msg, keys.Open):
		if m.stage < len(m.detail.Stages) {
			if s := m.detail.Stages[m.stage]; s.Name != m.detail.Name {
				return m.openDetail(s.Name, true)
			}
		}
		return m, nil

	case key.Matches(msg, keys.Refresh):
		for _, target := range []string{m.detail.Name, m.detailTok.Target()} {
			m.backend.InvalidateCache(m.backend.PokemonURL(target))
			m.backend.InvalidateCache(m.backend.SpeciesURL(target))
		}
		return m.openDetail(m.detail.Name, false)
	}

	return m, nil
}

// exact reports whether query is the name or id of one of entries.
func exact(entries []*catalog.Entry, query string) bool {
	id, _ := strconv.Atoi(query)
	for _, e := range entries {
		if e.Name == query || (id > 0 && e.ID == id) {
			return true
		}
	}
	return false
}
