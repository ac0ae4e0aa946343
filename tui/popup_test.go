package tui

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"movie-tickets-cli/model"
)

func TestChipRowsWrapAndTrackPositions(t *testing.T) {
	labels := []string{"11:30", "13:45", "16:00", "18:20"}
	lines := chipRows(labels, 1, spotTime, 24)

	require.Greater(t, len(lines), 1, "chips wrap at the width")
	count := 0
	for _, line := range lines {
		assert.LessOrEqual(t, lipgloss.Width(line.text), 24)
		for _, spot := range line.spots {
			assert.Equal(t, spotTime, spot.kind)
			assert.Equal(t, count, spot.index)
			assert.GreaterOrEqual(t, spot.x0, popupIndent)
			count++
		}
	}
	assert.Equal(t, len(labels), count)
}

func TestChipRowsEmpty(t *testing.T) {
	assert.Empty(t, chipRows(nil, -1, spotDay, 80))
}

func TestHitPopup(t *testing.T) {
	lines := []popupLine{
		{text: "handle"},
		{spots: []hotspot{{x0: 2, x1: 9, kind: spotDay, index: 0}, {x0: 10, x1: 15, kind: spotDay, index: 1}}},
	}

	spot, ok := hitPopup(lines, 1, 10)
	require.True(t, ok)
	assert.Equal(t, 1, spot.index)

	_, ok = hitPopup(lines, 1, 9)
	assert.False(t, ok, "gap between chips")
	_, ok = hitPopup(lines, 0, 3)
	assert.False(t, ok)
	_, ok = hitPopup(lines, 5, 3)
	assert.False(t, ok)
}

func TestPopupLayoutKeepsBookButtonLast(t *testing.T) {
	m, _ := openFirstMovie(t)

	for _, rows := range []int{1, 3, 12, 30} {
		layout := m.popupLayout(rows)
		require.Len(t, layout, rows)
		last := layout[len(layout)-1]
		require.Len(t, last.spots, 1)
		assert.Equal(t, spotBook, last.spots[0].kind)
	}
	assert.Nil(t, m.popupLayout(0))
}

func TestPopupLayoutShowsStatusAboveBook(t *testing.T) {
	m, _ := openFirstMovie(t)
	m.status = noShowtimeStatus

	layout := m.popupLayout(20)
	require.Len(t, layout, 20)
	assert.Contains(t, layout[18].text, noShowtimeStatus)
	assert.Equal(t, spotBook, layout[19].spots[0].kind)
}

func TestPadLine(t *testing.T) {
	assert.Equal(t, "ab  ", padLine("ab", 4))
	assert.Equal(t, "abcd", padLine("abcdef", 4))
}

func TestPosterColor(t *testing.T) {
	a := posterColor(model.Movie{Id: "arrival"})
	assert.Equal(t, a, posterColor(model.Movie{Id: "arrival"}), "stable per id")

	hex := posterColor(model.Movie{Id: "x", Poster: "#ff0000"})
	assert.Equal(t, "#ff0000", hex.Hex())

	assert.Equal(t, a, dimmed(a, 0))
	dark := dimmed(a, 1)
	assert.Equal(t, "#000000", dark.Hex())
}

func TestRenderCardWidth(t *testing.T) {
	movie := model.Movie{Id: "long", Title: strings.Repeat("Very Long Title ", 5), Genre: strings.Repeat("Drama/", 10)}
	lines := renderCard(movie, true, 0.3)
	require.Len(t, lines, cardLines)
	for _, line := range lines {
		assert.Equal(t, cardWidth, lipgloss.Width(line))
	}
}
