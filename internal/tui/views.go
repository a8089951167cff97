package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	"github.com/foliotracker/folio/internal/analytics"
	"github.com/foliotracker/folio/internal/tui/styles"
)

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(m.renderTabs())
	b.WriteString("\n\n")

	switch m.tab {
	case TabOverview:
		b.WriteString(m.renderOverview())
	case TabHeatmap:
		b.WriteString(m.renderHeatmap())
	case TabCalendar:
		b.WriteString(m.renderCalendar())
	case TabFeed:
		b.WriteString(m.renderFeed())
	}

	b.WriteString("\n")
	if m.showHelp {
		b.WriteString(m.renderHelp())
		b.WriteString("\n")
	}
	b.WriteString(m.renderStatusBar())
	return b.String()
}

func (m Model) renderTabs() string {
	var tabs []string
	for t := Tab(0); t < tabCount; t++ {
		if t == m.tab {
			tabs = append(tabs, styles.ActiveTabStyle.Render(t.String()))
		} else {
			tabs = append(tabs, styles.InactiveTabStyle.Render(t.String()))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m Model) renderOverview() string {
	var b strings.Builder

	b.WriteString(styles.TitleStyle.Render("Library"))
	b.WriteString("\n")
	if m.haveBooks {
		b.WriteString(fmt.Sprintf("  %s reading · %s completed · %s not started\n",
			styles.AccentStyle.Render(fmt.Sprintf("%d", m.summary.Reading)),
			styles.AccentStyle.Render(fmt.Sprintf("%d", m.summary.Completed)),
			styles.DimStyle.Render(fmt.Sprintf("%d", m.summary.NotStarted))))
	} else {
		b.WriteString(styles.DimStyle.Render("  loading book list...") + "\n")
	}

	now := time.Now()
	st := m.store.Streak()
	b.WriteString("\n")
	b.WriteString(styles.TitleStyle.Render("Reading"))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("  %s (longest %d)\n",
		styles.StreakStyle.Render(fmt.Sprintf("%d day streak", st.Current)), st.Longest))
	b.WriteString(fmt.Sprintf("  %d pages today · %d this week\n",
		m.stats.EstimatedPagesToday(now), m.stats.PagesInWindow(now, 7)))
	b.WriteString(fmt.Sprintf("  %d finished in %d\n", m.stats.BooksFinishedInYear(now.Year()), now.Year()))

	b.WriteString("\n")
	b.WriteString(styles.TitleStyle.Render("Last 30 days"))
	b.WriteString("\n")
	trendArrow := "→"
	if m.rollup.TrendPercent > 0 {
		trendArrow = "↑"
	} else if m.rollup.TrendPercent < 0 {
		trendArrow = "↓"
	}
	b.WriteString(fmt.Sprintf("  %d pages (%s %.0f%%)\n",
		m.rollup.TotalPages30Days, trendArrow, m.rollup.TrendPercent))
	if m.rollup.BestDayDate != "" {
		b.WriteString(fmt.Sprintf("  best day %s · %d pages\n", m.rollup.BestDayDate, m.rollup.BestDayPages))
	}
	return b.String()
}

// renderHeatmap lays the year out one month per row.
func (m Model) renderHeatmap() string {
	var b strings.Builder
	b.WriteString(styles.TitleStyle.Render(fmt.Sprintf("%d · %d pages", m.calYear, m.rollup.TotalPagesYear)))
	b.WriteString("\n\n")

	rows := map[time.Month][]analytics.HeatmapCell{}
	for _, cell := range m.heat {
		t, err := time.Parse("2006-01-02", cell.Date)
		if err != nil {
			continue
		}
		rows[t.Month()] = append(rows[t.Month()], cell)
	}

	for month := time.January; month <= time.December; month++ {
		b.WriteString(styles.DimStyle.Render(month.String()[:3] + " "))
		for _, cell := range rows[month] {
			b.WriteString(styles.HeatStyles[cell.Level].Render(styles.HeatChar))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(styles.DimStyle.Render("less "))
	for _, s := range styles.HeatStyles {
		b.WriteString(s.Render(styles.HeatChar))
	}
	b.WriteString(styles.DimStyle.Render(" more"))
	b.WriteString("\n")
	return b.String()
}

func (m Model) renderCalendar() string {
	var b strings.Builder
	b.WriteString(styles.TitleStyle.Render(fmt.Sprintf("%s %d", m.calMonth, m.calYear)))
	b.WriteString(styles.DimStyle.Render("  [ / ] to change month"))
	b.WriteString("\n\n")

	printed := 0
	for _, day := range m.calendar {
		if day.Pages == 0 && len(day.Books) == 0 {
			continue
		}
		printed++
		b.WriteString(fmt.Sprintf("  %s  %s\n",
			styles.SubtitleStyle.Render(day.Date),
			styles.AccentStyle.Render(fmt.Sprintf("%d pages", day.Pages))))
		for _, entry := range day.Books {
			b.WriteString(fmt.Sprintf("    %s %s\n", styles.DimStyle.Render(string(entry.Type)), entry.Title))
		}
	}
	if printed == 0 {
		b.WriteString(styles.DimStyle.Render("  no reading recorded this month\n"))
	}
	return b.String()
}

func (m Model) renderFeed() string {
	var b strings.Builder

	lines := m.feedLines
	if query := m.filter.Value(); query != "" {
		var filtered []string
		for _, match := range fuzzy.Find(query, lines) {
			filtered = append(filtered, match.Str)
		}
		lines = filtered
	}

	if m.filtering || m.filter.Value() != "" {
		b.WriteString(m.filter.View())
		b.WriteString("\n\n")
	}

	if len(lines) == 0 {
		b.WriteString(styles.DimStyle.Render("  no activity yet — press s to sync\n"))
		return b.String()
	}

	limit := len(lines)
	if m.height > 8 && limit > m.height-8 {
		limit = m.height - 8
	}
	for _, line := range lines[:limit] {
		b.WriteString("  " + line + "\n")
	}
	return b.String()
}

func (m Model) renderHelp() string {
	k := m.keys
	entries := []string{
		k.NextTab.Help().Key + " " + k.NextTab.Help().Desc,
		k.Sync.Help().Key + " " + k.Sync.Help().Desc,
		k.Filter.Help().Key + " " + k.Filter.Help().Desc,
		k.PrevMonth.Help().Key + k.NextMonth.Help().Key + " month",
		k.Quit.Help().Key + " " + k.Quit.Help().Desc,
	}
	return styles.DimStyle.Render("  " + strings.Join(entries, " · "))
}

func (m Model) renderStatusBar() string {
	status := m.stats.StatusLine(time.Now())
	if m.syncing {
		status += " · syncing..."
	} else if last, ok := m.store.LastSync(); ok {
		status += " · synced " + last.Format("15:04")
	}
	if m.errMsg != "" {
		status += " · " + styles.ErrorStyle.Render(m.errMsg)
	}
	return styles.StatusBarStyle.Render(status)
}
