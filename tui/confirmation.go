package tui

import "github.com/charmbracelet/lipgloss"

const doneLabel = "Done"

type button struct {
	row    int
	x0, x1 int
}

// confirmationLayout renders the booking confirmation screen and reports
// where its Done button landed.
func (m appModel) confirmationLayout() ([]string, button) {
	title := lipgloss.NewStyle().Bold(true).Render("Your tickets are booked")
	code := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#FFFFFF")).
		Background(lipgloss.Color("#673AB7")).
		Padding(0, 2).
		Render(m.booking.Code)

	lines := []string{
		title,
		"",
		hint("Confirmation code"),
		code,
		"",
		m.booking.MovieTitle,
		hint(m.booking.Day + " • " + m.booking.Time),
		"",
	}

	label := bookStyle.Render(doneLabel)
	done := button{row: len(lines), x0: 0, x1: lipgloss.Width(label)}
	lines = append(lines, label, "", m.help.ShortHelpView(m.keys.confirmationHelp()))

	if m.status != "" {
		lines = append(lines, statusStyle.Render(m.status))
	}
	return lines, done
}

func (b button) contains(x, y int) bool {
	return y == b.row && x >= b.x0 && x < b.x1
}
