// Package shared holds the terminal styles the admin and tracker binaries render submissions with.
package shared

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/ntic/scicon/core/submission"
)

// Catppuccin Mocha
const (
	ColorMauve    lipgloss.Color = "#cba6f7"
	ColorRed      lipgloss.Color = "#f38ba8"
	ColorPeach    lipgloss.Color = "#fab387"
	ColorYellow   lipgloss.Color = "#f9e2af"
	ColorGreen    lipgloss.Color = "#a6e3a1"
	ColorBlue     lipgloss.Color = "#89b4fa"
	ColorLavender lipgloss.Color = "#b4befe"
	ColorText     lipgloss.Color = "#cdd6f4"
	ColorOverlay1 lipgloss.Color = "#7f849c"
	ColorSurface1 lipgloss.Color = "#45475a"
	ColorSurface0 lipgloss.Color = "#313244"
)

var (
	TitleStyle    = lipgloss.NewStyle().Bold(true).Foreground(ColorMauve)
	HeaderStyle   = lipgloss.NewStyle().Bold(true).Foreground(ColorLavender)
	MutedStyle    = lipgloss.NewStyle().Foreground(ColorOverlay1)
	ErrorStyle    = lipgloss.NewStyle().Foreground(ColorRed)
	SuccessStyle  = lipgloss.NewStyle().Foreground(ColorGreen)
	SelectedStyle = lipgloss.NewStyle().Background(ColorSurface0).Foreground(ColorText)
	BorderStyle   = lipgloss.NewStyle().Foreground(ColorSurface1)
)

// ToneColor maps a status tone to its badge color.
func ToneColor(t submission.Tone) lipgloss.Color {
	switch t {
	case submission.ToneInfo:
		return ColorBlue
	case submission.ToneWarning:
		return ColorYellow
	case submission.TonePurple:
		return ColorMauve
	case submission.ToneSuccess:
		return ColorGreen
	case submission.ToneDanger:
		return ColorRed
	case submission.ToneMuted:
		return ColorOverlay1
	}
	return ColorText
}

func StatusBadge(s submission.Status) string {
	return lipgloss.NewStyle().Foreground(ToneColor(s.Tone())).Render(s.Label())
}

// CountersLine renders the workspace totals on one line.
func CountersLine(c submission.Counters) string {
	parts := []string{
		fmt.Sprintf("Total %d", c.Total),
		fmt.Sprintf("Accepted %d", c.Accepted),
		fmt.Sprintf("In review %d", c.InReview),
		fmt.Sprintf("Revision %d", c.Revision),
		fmt.Sprintf("Drafts %d", c.Drafts),
	}
	return strings.Join(parts, " · ")
}

// Truncate shortens s to at most n runes, ending with an ellipsis when cut.
func Truncate(s string, n int) string {
	runes := []rune(s)
	if n <= 0 {
		return ""
	}
	if len(runes) <= n {
		return s
	}
	if n == 1 {
		return "…"
	}
	return string(runes[:n-1]) + "…"
}

// UpdatedAt formats a submission's last update for listings.
func UpdatedAt(sub submission.Submission) string {
	if sub.UpdatedAt.IsZero() {
		return "-"
	}
	return sub.UpdatedAt.Format("2006-01-02 15:04")
}
