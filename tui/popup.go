package tui

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"movie-tickets-cli/model"
	"movie-tickets-cli/popup"
)

const (
	popupIndent      = 2
	compactPosterW   = 8
	compactPosterH   = 3
	expandedPosterW  = 16
	expandedPosterH  = 7
	bookLabel        = "Book My Tickets"
	noShowtimeStatus = "Please select show time"
)

type spotKind int

const (
	spotDay spotKind = iota
	spotTime
	spotBook
)

// hotspot is a clickable span on one popup line, in screen columns.
type hotspot struct {
	x0, x1 int
	kind   spotKind
	index  int
}

type popupLine struct {
	text  string
	spots []hotspot
}

var chipStyle = lipgloss.NewStyle().
	Padding(0, 1).
	Background(lipgloss.Color("238")).
	Foreground(lipgloss.Color("252"))

var chipSelectedStyle = lipgloss.NewStyle().
	Padding(0, 1).
	Bold(true).
	Background(lipgloss.Color("#673AB7")).
	Foreground(lipgloss.Color("#FFFFFF"))

var bookStyle = lipgloss.NewStyle().
	Padding(0, 2).
	Bold(true).
	Background(lipgloss.Color("#673AB7")).
	Foreground(lipgloss.Color("#FFFFFF"))

var statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))

// dragState follows one mouse drag on the popup.
type dragState struct {
	startY   int
	velocity *popup.VelocityTracker
}

func newDragState(y int, screenHeight float64, now time.Time) *dragState {
	return &dragState{
		startY:   y,
		velocity: popup.NewVelocityTracker(screenHeight, float64(y), now),
	}
}

func (d *dragState) sample(y int, now time.Time) popup.DragSample {
	return popup.DragSample{
		DeltaY:    float64(y - d.startY),
		VelocityY: d.velocity.Add(float64(y), now),
	}
}

// synopsisRenderer renders markdown synopses with glamour and caches the
// result per movie and width.
type synopsisRenderer struct {
	width    int
	renderer *glamour.TermRenderer
	cache    map[string]string
}

func newSynopsisRenderer() *synopsisRenderer {
	return &synopsisRenderer{cache: make(map[string]string)}
}

func (s *synopsisRenderer) Render(movie model.Movie, width int) string {
	if strings.TrimSpace(movie.Synopsis) == "" {
		return ""
	}
	width = max(width, 10)
	key := fmt.Sprintf("%s@%d", movie.Id, width)
	if out, ok := s.cache[key]; ok {
		return out
	}

	if s.renderer == nil || s.width != width {
		r, err := glamour.NewTermRenderer(
			glamour.WithStandardStyle("dark"),
			glamour.WithWordWrap(width-4),
		)
		if err != nil {
			log.Warn("synopsis renderer unavailable", "err", err)
			return lipgloss.NewStyle().Width(width).Render(movie.Synopsis)
		}
		s.renderer = r
		s.width = width
	}

	out, err := s.renderer.Render(movie.Synopsis)
	if err != nil {
		log.Warn("could not render synopsis", "movie", movie.Id, "err", err)
		out = lipgloss.NewStyle().Width(width).Render(movie.Synopsis)
	}
	out = strings.Trim(out, "\n")
	s.cache[key] = out
	return out
}

// popupGeometry returns the screen row of the popup's first line and its
// drawn height in rows.
func (m appModel) popupGeometry() (top int, rows int) {
	rows = int(math.Round(m.popup.DisplayHeight()))
	rows = max(0, min(rows, m.height))
	offset := int(math.Round(m.popup.State().Offset))
	return m.height - rows + offset, rows
}

// popupLayout builds the popup lines from top to bottom for a popup of the
// given height. The book button always takes the last row.
func (m appModel) popupLayout(rows int) []popupLine {
	if rows <= 0 {
		return nil
	}

	footer := []popupLine{m.bookLine()}
	if m.status != "" {
		status := popupLine{text: strings.Repeat(" ", popupIndent) + statusStyle.Render(m.status)}
		footer = append([]popupLine{status}, footer...)
	}
	if rows <= len(footer) {
		return footer[len(footer)-rows:]
	}

	content := m.popupContent()
	avail := rows - len(footer)
	if len(content) > avail {
		content = content[:avail]
	}
	for len(content) < avail {
		content = append(content, popupLine{})
	}
	return append(content, footer...)
}

func (m appModel) popupContent() []popupLine {
	state := m.popup.State()
	indent := strings.Repeat(" ", popupIndent)

	handle := lipgloss.PlaceHorizontal(m.width, lipgloss.Center, hint("━━━━━━"), lipgloss.WithWhitespaceChars("─"))
	lines := []popupLine{{text: handle}}

	for _, l := range strings.Split(m.movieHeader(state.Expanded), "\n") {
		lines = append(lines, popupLine{text: indent + l})
	}

	lines = append(lines, popupLine{}, popupLine{text: indent + hint("Day")})
	lines = append(lines, chipRows(m.movie.Days, m.chosenDay, spotDay, m.width)...)

	chosenTime := -1
	if m.chosenTime != nil {
		chosenTime = *m.chosenTime
	}
	lines = append(lines, popupLine{}, popupLine{text: indent + hint("Showtime")})
	lines = append(lines, chipRows(m.movie.Times, chosenTime, spotTime, m.width)...)
	return lines
}

func (m appModel) movieHeader(expanded bool) string {
	posterW, posterH := compactPosterW, compactPosterH
	if expanded {
		posterW, posterH = expandedPosterW, expandedPosterH
	}
	infoWidth := m.width - 2*popupIndent - posterW - 2
	if infoWidth < 1 {
		infoWidth = 1
	}

	info := []string{
		lipgloss.NewStyle().Bold(true).Render(ansi.Truncate(m.movie.Title, infoWidth, "…")),
		hint(ansi.Truncate(m.movie.Genre, infoWidth, "…")),
	}
	if expanded {
		if synopsis := m.synopsis.Render(m.movie, infoWidth); synopsis != "" {
			info = append(info, "", synopsis)
		}
	}

	poster := posterBlock(m.movie, posterW, posterH, 0)
	return lipgloss.JoinHorizontal(lipgloss.Top, poster, "  ", strings.Join(info, "\n"))
}

// chipRows lays labels out as chips, wrapping to new lines at width.
func chipRows(labels []string, selected int, kind spotKind, width int) []popupLine {
	var (
		lines []popupLine
		cur   popupLine
		b     strings.Builder
		x     = popupIndent
	)
	b.WriteString(strings.Repeat(" ", popupIndent))

	flush := func() {
		cur.text = b.String()
		lines = append(lines, cur)
		cur = popupLine{}
		b.Reset()
		b.WriteString(strings.Repeat(" ", popupIndent))
		x = popupIndent
	}

	for i, label := range labels {
		style := chipStyle
		if i == selected {
			style = chipSelectedStyle
		}
		chip := style.Render(label)
		w := lipgloss.Width(chip)

		if x > popupIndent && x+1+w > width {
			flush()
		}
		if x > popupIndent {
			b.WriteByte(' ')
			x++
		}
		cur.spots = append(cur.spots, hotspot{x0: x, x1: x + w, kind: kind, index: i})
		b.WriteString(chip)
		x += w
	}
	if len(cur.spots) > 0 {
		flush()
	}
	return lines
}

func (m appModel) bookLine() popupLine {
	button := bookStyle.Render(bookLabel)
	w := lipgloss.Width(button)
	left := max(0, (m.width-w)/2)
	return popupLine{
		text:  strings.Repeat(" ", left) + button,
		spots: []hotspot{{x0: left, x1: left + w, kind: spotBook}},
	}
}

func hitPopup(lines []popupLine, row, x int) (hotspot, bool) {
	if row < 0 || row >= len(lines) {
		return hotspot{}, false
	}
	for _, spot := range lines[row].spots {
		if x >= spot.x0 && x < spot.x1 {
			return spot, true
		}
	}
	return hotspot{}, false
}

// padLine fits s to exactly width cells.
func padLine(s string, width int) string {
	w := lipgloss.Width(s)
	if w > width {
		return ansi.Truncate(s, width, "")
	}
	return s + strings.Repeat(" ", width-w)
}
