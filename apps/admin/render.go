package main

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/ntic/scicon/apps/shared"
	"github.com/ntic/scicon/core/submission"
)

const titleMaxWidth = 48

// renderSubmissions lays the submissions out as a table, status badges colored by tone.
func renderSubmissions(subs []submission.Submission) string {
	if len(subs) == 0 {
		return shared.MutedStyle.Render("No submissions match.")
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(shared.BorderStyle).
		Headers("ID", "TITLE", "EVENT", "TYPE", "STATUS", "UPDATED").
		StyleFunc(func(row, col int) lipgloss.Style {
			style := lipgloss.NewStyle().Padding(0, 1)
			if row == table.HeaderRow {
				return style.Inherit(shared.HeaderStyle)
			}
			if col == 4 && row >= 0 && row < len(subs) {
				return style.Foreground(shared.ToneColor(subs[row].Status.Tone()))
			}
			return style
		})
	for _, sub := range subs {
		t.Row(
			sub.ID,
			shared.Truncate(sub.Title, titleMaxWidth),
			sub.EventTitle,
			sub.Type.Label(),
			sub.Status.Label(),
			shared.UpdatedAt(sub),
		)
	}
	return t.String()
}

func renderEvents(events []submission.EventOption) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(shared.BorderStyle).
		Headers("ID", "EVENT").
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return shared.HeaderStyle.Padding(0, 1)
			}
			return lipgloss.NewStyle().Padding(0, 1)
		})
	for _, ev := range events {
		t.Row(ev.ID, ev.Title)
	}
	return t.String()
}
