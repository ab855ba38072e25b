package aggregate

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/fatih/color"

	"github.com/peerbench/peerbench/internal/util"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63"))
	borderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

// RenderLeaderboard renders the ranked result rows as a terminal table.
// Averages are shown with 2-decimal display precision; the underlying
// values keep full precision.
func RenderLeaderboard(result *Result) string {
	headers := []string{"Rank", "Provider:Model", "Responses", "Score", "Wrong", "Missing", "Avg. Latency", "Avg. Score"}
	rows := make([][]string, 0, len(result.Results))
	for i, row := range result.Results {
		rows = append(rows, []string{
			fmt.Sprintf("%d", i+1),
			color.MagentaString("%s", util.TruncateRunes(row.Provider+":"+row.ModelID, 48)),
			color.GreenString("%d", row.TotalResponses),
			color.YellowString("%.0f", row.Score),
			color.RedString("%d", row.WrongAnswers),
			fmt.Sprintf("%d", row.MissingAnswers),
			color.BlueString("%s", ReadableTime(row.AvgLatency/1000)),
			color.YellowString("%.2f", row.AvgScore),
		})
	}
	return renderTable(headers, rows)
}

func renderTable(headers []string, rows [][]string) string {
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = len(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if w := visibleWidth(cell); w > widths[i] {
				widths[i] = w
			}
		}
	}

	var b strings.Builder
	writeRow := func(cells []string, style func(string) string) {
		b.WriteString(borderStyle.Render("│"))
		for i, cell := range cells {
			pad := widths[i] - visibleWidth(cell)
			b.WriteString(" ")
			b.WriteString(style(cell))
			b.WriteString(strings.Repeat(" ", pad+1))
			b.WriteString(borderStyle.Render("│"))
		}
		b.WriteString("\n")
	}
	rule := func(left, mid, right string) {
		b.WriteString(borderStyle.Render(left))
		for i, w := range widths {
			b.WriteString(borderStyle.Render(strings.Repeat("─", w+2)))
			if i < len(widths)-1 {
				b.WriteString(borderStyle.Render(mid))
			}
		}
		b.WriteString(borderStyle.Render(right))
		b.WriteString("\n")
	}

	rule("╭", "┬", "╮")
	writeRow(headers, func(s string) string { return headerStyle.Render(s) })
	rule("├", "┼", "┤")
	for _, row := range rows {
		writeRow(row, func(s string) string { return s })
	}
	rule("╰", "┴", "╯")
	return b.String()
}

// visibleWidth ignores ANSI escape sequences when measuring a cell.
func visibleWidth(s string) int {
	width := 0
	inEscape := false
	for _, r := range s {
		switch {
		case inEscape:
			if r == 'm' {
				inEscape = false
			}
		case r == '\x1b':
			inEscape = true
		default:
			width++
		}
	}
	return width
}

// ReadableTime converts seconds into a human-readable duration string.
func ReadableTime(totalSeconds float64) string {
	switch {
	case totalSeconds >= 86400:
		days := float64(int(totalSeconds / 86400))
		unit := " days"
		if days == 1 {
			unit = " day"
		}
		return fmt.Sprintf("%.2f%s", days, unit)
	case totalSeconds >= 3600:
		hours := float64(int(totalSeconds / 3600))
		unit := " hours"
		if hours == 1 {
			unit = " hour"
		}
		return fmt.Sprintf("%.2f%s", hours, unit)
	case totalSeconds >= 60:
		minutes := float64(int(totalSeconds / 60))
		unit := " minutes"
		if minutes == 1 {
			unit = " minute"
		}
		return fmt.Sprintf("%.2f%s", minutes, unit)
	default:
		unit := " seconds"
		if totalSeconds == 1 {
			unit = " second"
		}
		return fmt.Sprintf("%.2f%s", totalSeconds, unit)
	}
}
