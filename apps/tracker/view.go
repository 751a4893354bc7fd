package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/ntic/scicon/apps/shared"
	"github.com/ntic/scicon/core/submission"
)

const (
	titleWidth = 44
	eventWidth = 28
	typeWidth  = 8
	badgeWidth = 20

	helpText = "/ search · s status · e event · t type · c clear · w withdraw · enter view · o edit · r resubmit · n new · q quit"
)

var (
	cellStyle    = lipgloss.NewStyle().PaddingRight(2)
	cursorStyle  = lipgloss.NewStyle().Foreground(shared.ColorMauve).Bold(true)
	criteriaKey  = lipgloss.NewStyle().Foreground(shared.ColorOverlay1)
	criteriaVal  = lipgloss.NewStyle().Foreground(shared.ColorText).Bold(true)
	promptStyle  = lipgloss.NewStyle().Foreground(shared.ColorPeach).Bold(true)
	routeStyle   = lipgloss.NewStyle().Foreground(shared.ColorBlue).Underline(true)
	sectionStyle = lipgloss.NewStyle().MarginBottom(1)
)

func (m model) View() string {
	var b strings.Builder

	b.WriteString(sectionStyle.Render(lipgloss.JoinVertical(lipgloss.Left,
		shared.TitleStyle.Render("My Submissions"),
		shared.MutedStyle.Render(shared.CountersLine(m.counters)),
	)))
	b.WriteString("\n")
	b.WriteString(sectionStyle.Render(m.viewCriteria()))
	b.WriteString("\n")

	if m.err != nil {
		b.WriteString(shared.ErrorStyle.Render("error: " + m.err.Error()))
		b.WriteString("\n")
	}
	b.WriteString(m.viewRows())
	b.WriteString("\n\n")
	b.WriteString(m.viewFooter())
	b.WriteString("\n")
	return b.String()
}

func (m model) viewCriteria() string {
	search := m.search
	if m.mode == modeSearch {
		search += "▏"
	}
	parts := []string{
		criteriaKey.Render("Search: ") + criteriaVal.Render(search),
		criteriaKey.Render("Status: ") + criteriaVal.Render(criterionLabel(statusOptions[m.statusIdx], submission.Status.Label)),
		criteriaKey.Render("Event: ") + criteriaVal.Render(m.eventLabel()),
		criteriaKey.Render("Type: ") + criteriaVal.Render(criterionLabel(typeOptions[m.typeIdx], submission.Type.Label)),
	}
	return strings.Join(parts, "   ")
}

func criterionLabel[T comparable](c submission.Criterion[T], label func(T) string) string {
	if v, active := c.Value(); active {
		return label(v)
	}
	return submission.AllValue
}

func (m model) eventLabel() string {
	if m.eventIdx == 0 || m.eventIdx > len(m.events) {
		return submission.AllValue
	}
	return m.events[m.eventIdx-1].Title
}

func (m model) viewRows() string {
	if len(m.results) == 0 {
		return shared.MutedStyle.Render("No submissions match.")
	}

	rows := make([]string, 0, len(m.results))
	for i, sub := range m.results {
		marker := "  "
		if i == m.cursor {
			marker = cursorStyle.Render("› ")
		}
		row := lipgloss.JoinHorizontal(lipgloss.Top,
			marker,
			cellStyle.Width(titleWidth).Render(shared.Truncate(sub.Title, titleWidth-2)),
			cellStyle.Width(eventWidth).Render(shared.Truncate(sub.EventTitle, eventWidth-2)),
			cellStyle.Width(typeWidth).Render(sub.Type.Label()),
			cellStyle.Width(badgeWidth).Render(shared.StatusBadge(sub.Status)),
			shared.MutedStyle.Render(shared.UpdatedAt(sub)),
		)
		if i == m.cursor {
			row = shared.SelectedStyle.Render(row)
		}
		rows = append(rows, row)
	}
	return strings.Join(rows, "\n")
}

func (m model) viewFooter() string {
	var lines []string
	switch {
	case m.mode == modeConfirm:
		lines = append(lines, promptStyle.Render(fmt.Sprintf("Withdraw %q? [y/n]", m.pending.Title)))
	case m.flash != "":
		lines = append(lines, shared.ErrorStyle.Render(m.flash))
	}
	if m.route != "" {
		lines = append(lines, "→ "+routeStyle.Render(m.baseURL+m.route))
	}
	lines = append(lines, shared.MutedStyle.Render(helpText))
	return strings.Join(lines, "\n")
}
