// Package tui renders the reading dashboard. It is a pure consumer of
// the core: every view is built from exported query methods and nothing
// here mutates tracker state except by requesting a sync.
package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/foliotracker/folio/internal/analytics"
	"github.com/foliotracker/folio/internal/domain"
	"github.com/foliotracker/folio/internal/stats"
	"github.com/foliotracker/folio/internal/tracker"
)

// Tab identifies a dashboard view
type Tab int

const (
	TabOverview Tab = iota
	TabHeatmap
	TabCalendar
	TabFeed
	tabCount
)

func (t Tab) String() string {
	switch t {
	case TabOverview:
		return "Overview"
	case TabHeatmap:
		return "Heatmap"
	case TabCalendar:
		return "Calendar"
	default:
		return "Feed"
	}
}

// Messages

type syncDoneMsg struct {
	result tracker.SyncResult
	err    error
}

type booksMsg struct {
	books []domain.Observation
	err   error
}

// Model is the root bubbletea model for the dashboard.
type Model struct {
	tracker *tracker.Service
	stats   *stats.Aggregator
	store   domain.Store
	source  domain.BookSource

	defaultPages int
	feedSize     int

	keys   KeyMap
	width  int
	height int

	tab      Tab
	calYear  int
	calMonth time.Month

	summary   stats.Summary
	haveBooks bool
	rollup    analytics.Summary
	heat      []analytics.HeatmapCell
	calendar  []analytics.CalendarDay
	feedLines []string

	filter    textinput.Model
	filtering bool

	syncing  bool
	showHelp bool
	errMsg   string
}

// NewModel builds the dashboard model.
func NewModel(trk *tracker.Service, agg *stats.Aggregator, store domain.Store, source domain.BookSource, defaultPages, feedSize int) Model {
	filter := textinput.New()
	filter.Placeholder = "filter feed"
	filter.CharLimit = 64

	now := time.Now()
	m := Model{
		tracker:      trk,
		stats:        agg,
		store:        store,
		source:       source,
		defaultPages: defaultPages,
		feedSize:     feedSize,
		keys:         DefaultKeyMap(),
		calYear:      now.Year(),
		calMonth:     now.Month(),
		filter:       filter,
	}
	m.recompute()
	return m
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.syncCmd(), m.loadBooksCmd())
}

func (m Model) syncCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		result, err := m.tracker.Sync(ctx)
		return syncDoneMsg{result: result, err: err}
	}
}

func (m Model) loadBooksCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		raw, err := m.source.Books(ctx)
		if err != nil {
			return booksMsg{err: err}
		}
		books := make([]domain.Observation, 0, len(raw))
		for _, r := range raw {
			books = append(books, domain.Normalize(r))
		}
		return booksMsg{books: books}
	}
}

// recompute rebuilds the derived views from the store.
func (m *Model) recompute() {
	engine := analytics.NewEngine(m.store.PageCounts(), m.defaultPages)
	m.rollup = engine.Compute(m.store.AllActivities(), time.Now())
	m.heat = engine.Heatmap(m.rollup.DailyPages, m.calYear)
	m.calendar = engine.Calendar(m.rollup, m.calYear, m.calMonth)
	m.feedLines = m.stats.Feed(m.feedSize)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case syncDoneMsg:
		m.syncing = false
		if msg.err != nil {
			m.errMsg = msg.err.Error()
		} else {
			m.errMsg = ""
		}
		m.recompute()
		return m, nil

	case booksMsg:
		if msg.err == nil {
			m.summary = m.stats.Summarize(msg.books)
			m.haveBooks = true
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.filtering {
		switch {
		case key.Matches(msg, m.keys.Escape):
			m.filtering = false
			m.filter.SetValue("")
			m.filter.Blur()
			return m, nil
		case msg.Type == tea.KeyEnter:
			m.filtering = false
			m.filter.Blur()
			return m, nil
		}
		var cmd tea.Cmd
		m.filter, cmd = m.filter.Update(msg)
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.showHelp = !m.showHelp
		return m, nil

	case key.Matches(msg, m.keys.NextTab):
		m.tab = (m.tab + 1) % tabCount
		return m, nil

	case key.Matches(msg, m.keys.PrevTab):
		m.tab = (m.tab + tabCount - 1) % tabCount
		return m, nil

	case key.Matches(msg, m.keys.Sync):
		if m.syncing {
			return m, nil
		}
		m.syncing = true
		return m, tea.Batch(m.syncCmd(), m.loadBooksCmd())

	case key.Matches(msg, m.keys.Filter):
		if m.tab == TabFeed {
			m.filtering = true
			m.filter.Focus()
			return m, textinput.Blink
		}
		return m, nil

	case key.Matches(msg, m.keys.Escape):
		m.filter.SetValue("")
		return m, nil

	case key.Matches(msg, m.keys.PrevMonth):
		if m.tab == TabCalendar {
			m.calMonth--
			if m.calMonth < time.January {
				m.calMonth = time.December
				m.calYear--
			}
			m.recompute()
		}
		return m, nil

	case key.Matches(msg, m.keys.NextMonth):
		if m.tab == TabCalendar {
			m.calMonth++
			if m.calMonth > time.December {
				m.calMonth = time.January
				m.calYear++
			}
			m.recompute()
		}
		return m, nil
	}

	return m, nil
}
