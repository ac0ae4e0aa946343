package tui

import (
	"hash/fnv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/lucasb-eyer/go-colorful"

	"movie-tickets-cli/model"
)

const (
	headerRows    = 4
	cardWidth     = 16
	cardGap       = 2
	posterRows    = 3
	cardLines     = posterRows + 2
	gridRowHeight = cardLines + 1
)

var (
	black = colorful.Color{}
	white = colorful.Color{R: 1, G: 1, B: 1}
)

// posterColor picks the poster tint for a movie. Catalog entries may carry a
// hex color as poster; everything else gets a stable hue from its id.
func posterColor(movie model.Movie) colorful.Color {
	if strings.HasPrefix(movie.Poster, "#") {
		if c, err := colorful.Hex(movie.Poster); err == nil {
			return c
		}
	}
	h := fnv.New32a()
	_, _ = h.Write([]byte(movie.Id))
	hue := float64(h.Sum32() % 360)
	return colorful.Hcl(hue, 0.45, 0.55).Clamped()
}

// dimmed darkens c towards black by amount in [0, 1].
func dimmed(c colorful.Color, amount float64) colorful.Color {
	if amount <= 0 {
		return c
	}
	if amount > 1 {
		amount = 1
	}
	return c.BlendLab(black, amount).Clamped()
}

func textColorFor(c colorful.Color) lipgloss.Color {
	l, _, _ := c.Lab()
	if l > 0.6 {
		return lipgloss.Color("#000000")
	}
	return lipgloss.Color("#FFFFFF")
}

func posterBlock(movie model.Movie, width, height int, dim float64) string {
	c := dimmed(posterColor(movie), dim)
	title := ansi.Truncate(movie.Title, (width-2)*height, "…")
	return lipgloss.NewStyle().
		Background(lipgloss.Color(c.Hex())).
		Foreground(textColorFor(c)).
		Bold(true).
		Padding(0, 1).
		Width(width).
		Height(height).
		MaxHeight(height).
		Render(title)
}

func renderCard(movie model.Movie, selected bool, dim float64) []string {
	lines := strings.Split(posterBlock(movie, cardWidth, posterRows, dim), "\n")

	genre := ansi.Truncate(movie.Genre, cardWidth, "…")
	lines = append(lines, lipgloss.NewStyle().Faint(true).Width(cardWidth).Render(genre))

	marker := strings.Repeat(" ", cardWidth)
	if selected {
		accent := dimmed(posterColor(movie).BlendLab(white, 0.35), dim)
		marker = lipgloss.NewStyle().Foreground(lipgloss.Color(accent.Hex())).Render(strings.Repeat("━", cardWidth))
	}
	return append(lines, marker)
}

func (m appModel) gridColumns() int {
	cols := (m.width + cardGap) / (cardWidth + cardGap)
	if cols < 1 {
		return 1
	}
	return cols
}

func (m appModel) gridVisibleRows() int {
	rows := (m.height - headerRows) / gridRowHeight
	if rows < 1 {
		return 1
	}
	return rows
}

// gridFirstRow is the first grid row on screen; it keeps the selection visible.
func (m appModel) gridFirstRow() int {
	selectedRow := m.selected / m.gridColumns()
	first := selectedRow - m.gridVisibleRows() + 1
	if first < 0 {
		return 0
	}
	return first
}

func (m appModel) gridLines(dim float64) []string {
	cols := m.gridColumns()
	first := m.gridFirstRow()
	var out []string
	for row := first; row < first+m.gridVisibleRows(); row++ {
		start := row * cols
		if start >= len(m.movies) {
			break
		}
		end := min(start+cols, len(m.movies))

		cards := make([][]string, 0, end-start)
		for i := start; i < end; i++ {
			cards = append(cards, renderCard(m.movies[i], i == m.selected, dim))
		}
		gap := strings.Repeat(" ", cardGap)
		for line := 0; line < cardLines; line++ {
			parts := make([]string, 0, len(cards))
			for _, card := range cards {
				parts = append(parts, card[line])
			}
			out = append(out, strings.Join(parts, gap))
		}
		out = append(out, "")
	}
	return out
}

// hitGrid maps a screen cell to a movie index, or -1.
func (m appModel) hitGrid(x, y int) int {
	if y < headerRows || x < 0 {
		return -1
	}
	y -= headerRows
	if y%gridRowHeight >= cardLines {
		return -1
	}
	if x%(cardWidth+cardGap) >= cardWidth {
		return -1
	}
	col := x / (cardWidth + cardGap)
	if col >= m.gridColumns() {
		return -1
	}
	row := y / gridRowHeight
	if row >= m.gridVisibleRows() {
		return -1
	}
	index := (m.gridFirstRow()+row)*m.gridColumns() + col
	if index >= len(m.movies) {
		return -1
	}
	return index
}

func (m *appModel) moveSelection(delta int) {
	if len(m.movies) == 0 {
		return
	}
	next := m.selected + delta
	if next < 0 || next >= len(m.movies) {
		return
	}
	m.selected = next
}
