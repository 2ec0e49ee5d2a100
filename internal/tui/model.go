// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package tui

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/staranto/dexctl/internal/catalog"
	"github.com/staranto/dexctl/internal/pokeapi"
	"github.com/staranto/dexctl/internal/token"
)

// Backend is what the browser reads from. *pokeapi.Client satisfies it.
type Backend interface {
	catalog.Source

	InvalidateCache(url string)
	CachedAt(url string) (time.Time, bool)
	ListURL(limit, offset int) string
	PokemonURL(idOrName string) string
	SpeciesURL(idOrName string) string
}

// Options configure a browser session.
type Options struct {
	Backend     Backend
	Limit       int
	Concurrency int
	SortField   catalog.SortField
	SortOrder   catalog.SortOrder
	// Color enables type badge colors in the detail card.
	Color bool
	// Now is the clock used for page ages. Defaults to time.Now.
	Now func() time.Time
}

type screen int

const (
	listScreen screen = iota
	detailScreen
)

// chrome is the number of lines the list screen spends on header and
// footer.
const chrome = 5

// Model is the bubbletea model for the catalog browser.
type Model struct {
	ctx         context.Context
	backend     Backend
	limit       int
	concurrency int
	color       bool
	now         func() time.Time

	entries []*catalog.Entry
	visible []*catalog.Entry
	cursor  int
	offset  int
	width   int
	height  int

	search    textinput.Model
	searching bool
	sortField catalog.SortField
	sortOrder catalog.SortOrder

	spinner spinner.Model
	help    help.Model
	loading bool
	status  string
	err     error

	screen  screen
	detail  *catalog.Detail
	history []string
	stage   int

	listTokens   *token.Issuer
	detailTokens *token.Issuer
	listTok      token.Token
	detailTok    token.Token
	cancelList   context.CancelFunc
	cancelDetail context.CancelFunc

	initCmd tea.Cmd
}

// NewModel creates a browser model and starts the first listing load.
func NewModel(ctx context.Context, opts Options) Model {
	search := textinput.New()
	search.Placeholder = "name or id"
	search.Prompt = "/ "
	search.CharLimit = 64

	m := Model{
		ctx:          ctx,
		backend:      opts.Backend,
		limit:        opts.Limit,
		concurrency:  opts.Concurrency,
		color:        opts.Color,
		now:          opts.Now,
		search:       search,
		sortField:    opts.SortField,
		sortOrder:    opts.SortOrder,
		spinner:      spinner.New(spinner.WithSpinner(spinner.Dot)),
		help:         help.New(),
		listTokens:   &token.Issuer{},
		detailTokens: &token.Issuer{},
	}

	if m.limit <= 0 {
		m.limit = pokeapi.ListLimit
	}
	if m.concurrency <= 0 {
		m.concurrency = catalog.DefaultConcurrency
	}
	if m.sortField == "" {
		m.sortField = catalog.SortByID
	}
	if m.sortOrder == "" {
		m.sortOrder = catalog.Ascending
	}
	if m.now == nil {
		m.now = time.Now
	}

	var cmd tea.Cmd
	m, cmd = m.startList()
	m.initCmd = cmd
	return m
}

// Init returns the first listing load.
func (m Model) Init() tea.Cmd {
	return m.initCmd
}

// startList supersedes any listing load in flight and begins a new one.
func (m Model) startList() (Model, tea.Cmd) {
	if m.cancelList != nil {
		m.cancelList()
	}

	var ctx context.Context
	ctx, m.cancelList = context.WithCancel(m.ctx)
	m.listTok = m.listTokens.Begin("list")
	m.loading = true
	m.err = nil

	return m, tea.Batch(loadListCmd(ctx, m.backend, m.limit, m.listTok), m.spinner.Tick)
}

// openDetail supersedes any detail load in flight and begins one for
// target. With push the detail on screen is remembered for going back.
func (m Model) openDetail(target string, push bool) (Model, tea.Cmd) {
	if m.cancelDetail != nil {
		m.cancelDetail()
	}
	if push && m.detail != nil {
		m.history = append(m.history, m.detail.Name)
	}

	var ctx context.Context
	ctx, m.cancelDetail = context.WithCancel(m.ctx)
	m.detailTok = m.detailTokens.Begin(target)
	m.screen = detailScreen
	m.loading = true
	m.status = ""
	m.err = nil

	return m, tea.Batch(loadDetailCmd(ctx, m.backend, target, m.concurrency, m.detailTok), m.spinner.Tick)
}

// closeDetail returns to the list. A detail load still in flight is
// abandoned.
func (m Model) closeDetail() Model {
	if m.cancelDetail != nil {
		m.cancelDetail()
		m.cancelDetail = nil
	}
	m.detailTok = m.detailTokens.Begin("")
	m.screen = listScreen
	m.detail = nil
	m.history = nil
	m.stage = 0
	m.loading = false
	return m
}

// shutdown cancels every load in flight.
func (m Model) shutdown() {
	if m.cancelList != nil {
		m.cancelList()
	}
	if m.cancelDetail != nil {
		m.cancelDetail()
	}
}

// refilter recomputes the visible rows from the search box and sort
// settings, keeping the cursor in range.
func (m Model) refilter() Model {
	found := catalog.Search(m.entries, m.search.Value())
	m.visible = append(make([]*catalog.Entry, 0, len(found)), found...)
	catalog.SortEntries(m.visible, m.sortField, m.sortOrder)

	if m.cursor >= len(m.visible) {
		m.cursor = len(m.visible) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
	return m.scroll()
}

// pageSize is the number of list rows that fit on screen.
func (m Model) pageSize() int {
	if n := m.height - chrome; n > 0 {
		return n
	}
	return 10
}

// scroll moves the window so the cursor is on screen.
func (m Model) scroll() Model {
	page := m.pageSize()
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+page {
		m.offset = m.cursor - page + 1
	}
	if m.offset < 0 {
		m.offset = 0
	}
	return m
}

// selected is the entry under the cursor, or nil.
func (m Model) selected() *catalog.Entry {
	if m.cursor < 0 || m.cursor >= len(m.visible) {
		return nil
	}
	return m.visible[m.cursor]
}

// stageIndex is the position of name in the current evolution line.
func stageIndex(d *catalog.Detail, name string) int {
	for i, s := range d.Stages {
		if s.Name == name {
			return i
		}
	}
	return 0
}

func loadListCmd(ctx context.Context, b Backend, limit int, tok token.Token) tea.Cmd {
	return func() tea.Msg {
		entries, err := catalog.List(ctx, b, limit)
		return listLoadedMsg{tok: tok, entries: entries, err: err}
	}
}

func loadDetailCmd(ctx context.Context, b Backend, target string, concurrency int, tok token.Token) tea.Cmd {
	return func() tea.Msg {
		d, err := catalog.LoadDetail(ctx, b, target, concurrency)
		return detailLoadedMsg{tok: tok, detail: d, err: err}
	}
}

// Run starts the browser and blocks until the user quits or ctx is done.
func Run(ctx context.Context, opts Options) error {
	if opts.Backend == nil {
		return fmt.Errorf("browser needs a backend")
	}

	p := tea.NewProgram(NewModel(ctx, opts), tea.WithAltScreen(), tea.WithContext(ctx))
	final, err := p.Run()
	if fm, ok := final.(Model); ok {
		fm.shutdown()
	}
	if err != nil {
		return fmt.Errorf("browser failed: %w", err)
	}
	return nil
}
