package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// SummaryRow is one label/value line. A row with an empty label renders as
// a blank separator.
type SummaryRow struct {
	Label string
	Value string
}

func RenderSummary(rows []SummaryRow) string {
	labelWidth := 0
	valueWidth := 0
	for _, row := range rows {
		labelWidth = max(labelWidth, lipgloss.Width(row.Label))
		valueWidth = max(valueWidth, lipgloss.Width(row.Value))
	}

	hline := strings.Repeat("-", labelWidth+valueWidth+3)
	lines := []string{hline}

	for _, row := range rows {
		if row.Label == "" {
			lines = append(lines, "")
			continue
		}
		label := padRight(row.Label, labelWidth)
		value := padLeft(row.Value, valueWidth)
		line := fmt.Sprintf("%s | %s", labelStyle.Render(label), valueStyle.Render(value))
		lines = append(lines, line)
	}

	lines = append(lines, hline)
	return strings.Join(lines, "\n")
}

// RenderWarning styles a one-line notice.
func RenderWarning(msg string) string {
	return warnStyle.Render(msg)
}

func padRight(s string, width int) string {
	if w := lipgloss.Width(s); w < width {
		return s + strings.Repeat(" ", width-w)
	}
	return s
}

func padLeft(s string, width int) string {
	if w := lipgloss.Width(s); w < width {
		return strings.Repeat(" ", width-w) + s
	}
	return s
}

var (
	valueStyle = lipgloss.NewStyle().Foreground(ColorInk).Bold(true)
	warnStyle  = lipgloss.NewStyle().Foreground(ColorWarn)
)
