package tui

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"movie-tickets-cli/logging"
	"movie-tickets-cli/model"
	"movie-tickets-cli/popup"
	"movie-tickets-cli/service"
	"movie-tickets-cli/store"
)

var log = logging.New("tui")

type appState int

const (
	stateLoading appState = iota
	stateGrid
	stateError
)

type route int

const (
	routeMovies route = iota
	routeConfirmation
)

// Options configures the terminal UI.
type Options struct {
	Client            *service.Client
	Offline           bool
	AnimationDuration time.Duration
	Now               func() time.Time
}

type appModel struct {
	client  *service.Client
	offline bool
	now     func() time.Time

	state appState
	route route
	err   error

	width  int
	height int

	movies   []model.Movie
	source   catalogSource
	loading  bool
	selected int
	status   string

	// Host side of the popup: which movie is shown and what is chosen.
	movie      model.Movie
	popupOpen  bool
	chosenDay  int
	chosenTime *int
	booking    model.Booking

	popup    *popup.Controller
	outbox   *outbox
	drag     *dragState
	ticking  bool
	synopsis *synopsisRenderer

	keys    keyMap
	help    help.Model
	spinner spinner.Model
}

type errMsg struct {
	err error
}

type frameMsg time.Time

type closeMovieMsg struct{}

type chooseDayMsg struct {
	index int
}

type chooseTimeMsg struct {
	index int
}

type bookMsg struct{}

type bookingSavedMsg struct {
	err error
}

// outbox collects popup callbacks so they reach Update as messages.
type outbox struct {
	msgs []tea.Msg
}

func (o *outbox) push(msg tea.Msg) {
	o.msgs = append(o.msgs, msg)
}

func (o *outbox) take() []tea.Msg {
	msgs := o.msgs
	o.msgs = nil
	return msgs
}

// New returns the root model of the movie browser.
func New(opts Options) tea.Model {
	if opts.Now == nil {
		opts.Now = time.Now
	}

	box := &outbox{}
	controller := popup.NewController(popup.Options{
		Duration: opts.AnimationDuration,
		Now:      opts.Now,
		Callbacks: popup.Callbacks{
			OnClose:      func() { box.push(closeMovieMsg{}) },
			OnBook:       func() { box.push(bookMsg{}) },
			OnChooseDay:  func(i int) { box.push(chooseDayMsg{index: i}) },
			OnChooseTime: func(i int) { box.push(chooseTimeMsg{index: i}) },
		},
	})

	var last popup.VisualState
	controller.Subscribe(func(s popup.VisualState) {
		if s.Visible != last.Visible || s.Expanded != last.Expanded {
			log.Debug("popup changed", "visible", s.Visible, "expanded", s.Expanded, "height", s.Height)
		}
		last = s
	})

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("5"))

	return appModel{
		client:   opts.Client,
		offline:  opts.Offline,
		now:      opts.Now,
		state:    stateLoading,
		loading:  true,
		popup:    controller,
		outbox:   box,
		synopsis: newSynopsisRenderer(),
		keys:     newKeyMap(),
		help:     help.New(),
		spinner:  sp,
	}
}

func (m appModel) Init() tea.Cmd {
	return tea.Batch(m.fetchCatalogCmd(false), m.spinner.Tick)
}

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.drag = nil
		m.popup.Resize(float64(msg.Height))
		cmd := m.afterPopup()
		return m, cmd

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case frameMsg:
		m.popup.Tick()
		if m.popup.Animating() {
			return m, frameCmd()
		}
		m.ticking = false
		return m, nil

	case catalogMsg:
		m.loading = false
		m.movies = msg.movies
		m.source = msg.source
		if msg.warning != nil {
			m.status = fmt.Sprintf("Catalog unavailable, showing %s movies", msg.source)
		}
		if m.selected >= len(m.movies) {
			m.selected = 0
		}
		m.state = stateGrid
		return m, nil

	case errMsg:
		m.err = msg.err
		m.state = stateError
		return m, nil

	case closeMovieMsg:
		cmd := m.closeMovie()
		return m, cmd

	case chooseDayMsg:
		if m.popupOpen && msg.index < len(m.movie.Days) {
			m.chosenDay = msg.index
			m.status = ""
		}
		return m, nil

	case chooseTimeMsg:
		if m.popupOpen && msg.index < len(m.movie.Times) {
			index := msg.index
			m.chosenTime = &index
			m.status = ""
		}
		return m, nil

	case bookMsg:
		return m.book()

	case bookingSavedMsg:
		if msg.err != nil {
			log.Warn("could not save booking", "err", msg.err)
			m.status = "Booking was not saved to history"
		}
		return m, nil
	}

	return m, nil
}

func (m appModel) View() string {
	if m.route == routeConfirmation {
		lines, _ := m.confirmationLayout()
		return strings.Join(lines, "\n")
	}
	header := m.headerView()
	switch m.state {
	case stateLoading:
		return header + "\n\n" + m.loadingView()
	case stateError:
		msg := "unknown error"
		if m.err != nil {
			msg = m.err.Error()
		}
		return header + "\n\n" + lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Render(msg) + "\n\n" + hint("Press esc to go back or ctrl+c to quit.")
	default:
		return m.moviesView()
	}
}

func (m appModel) headerView() string {
	title := lipgloss.NewStyle().Bold(true).Render("Movie Tickets")
	sub := []string{}
	if len(m.movies) > 0 {
		sub = append(sub, fmt.Sprintf("%d movies", len(m.movies)))
	}
	if m.source != "" {
		sub = append(sub, "Source: "+string(m.source))
	}
	if m.loading && m.state == stateGrid {
		sub = append(sub, m.spinner.View()+" refreshing")
	}
	if m.popupOpen && m.movie.Title != "" {
		sub = append(sub, "Movie: "+m.movie.Title)
	}
	meta := strings.Join(sub, " • ")
	if meta != "" {
		title += "  " + lipgloss.NewStyle().Faint(true).Render(meta)
	}

	bindings := m.keys.gridHelp()
	if m.popupOpen {
		bindings = m.keys.popupHelp()
	}
	return title + "\n" + m.help.ShortHelpView(bindings)
}

func (m appModel) loadingView() string {
	return fmt.Sprintf("%s %s\n\n%s", m.spinner.View(), "Loading movies", hint("Fetching catalog..."))
}

// moviesView draws the poster grid and, when visible, the popup over its
// bottom rows. The grid is darkened by the popup's backdrop opacity.
func (m appModel) moviesView() string {
	state := m.popup.State()
	dim := 0.0
	if state.Visible {
		dim = state.Opacity
	}

	lines := strings.Split(m.headerView(), "\n")
	status := ""
	if m.status != "" && !state.Visible {
		status = lipgloss.NewStyle().Foreground(lipgloss.Color("3")).Render(m.status)
	}
	lines = append(lines, status, "")
	for len(lines) < headerRows {
		lines = append(lines, "")
	}
	lines = append(lines[:headerRows], m.gridLines(dim)...)

	if m.height <= 0 {
		return strings.Join(lines, "\n")
	}
	for len(lines) < m.height {
		lines = append(lines, "")
	}
	lines = lines[:m.height]

	if state.Visible {
		top, rows := m.popupGeometry()
		for i, line := range m.popupLayout(rows) {
			y := top + i
			if y < 0 || y >= len(lines) {
				continue
			}
			lines[y] = padLine(line.text, m.width)
		}
	}
	return strings.Join(lines, "\n")
}

func (m appModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.ForceQuit) {
		return m, tea.Quit
	}

	if m.route == routeConfirmation {
		if key.Matches(msg, m.keys.Done) {
			m.route = routeMovies
		}
		return m, nil
	}

	switch m.state {
	case stateError:
		if key.Matches(msg, m.keys.Back) {
			m.err = nil
			if len(m.movies) > 0 {
				m.state = stateGrid
				return m, nil
			}
			m.state = stateLoading
			m.loading = true
			return m, tea.Batch(m.fetchCatalogCmd(true), m.spinner.Tick)
		}
		return m, nil
	case stateLoading:
		return m, nil
	}

	if m.popupOpen {
		return m.handlePopupKey(msg)
	}

	cols := m.gridColumns()
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Up):
		m.moveSelection(-cols)
	case key.Matches(msg, m.keys.Down):
		m.moveSelection(cols)
	case key.Matches(msg, m.keys.Left):
		m.moveSelection(-1)
	case key.Matches(msg, m.keys.Right):
		m.moveSelection(1)
	case key.Matches(msg, m.keys.Open):
		cmd := m.openMovie(m.selected)
		return m, cmd
	case key.Matches(msg, m.keys.Refresh):
		if m.loading {
			return m, nil
		}
		m.loading = true
		m.status = ""
		return m, tea.Batch(m.fetchCatalogCmd(true), m.spinner.Tick)
	}
	return m, nil
}

func (m appModel) handlePopupKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Close):
		cmd := m.closeMovie()
		return m, cmd
	case key.Matches(msg, m.keys.Book):
		m.popup.Book()
	case key.Matches(msg, m.keys.NextDay):
		m.popup.ChooseDay(cycle(m.chosenDay, 1, len(m.movie.Days)))
	case key.Matches(msg, m.keys.PrevDay):
		m.popup.ChooseDay(cycle(m.chosenDay, -1, len(m.movie.Days)))
	case key.Matches(msg, m.keys.NextTime):
		m.popup.ChooseTime(stepTime(m.chosenTime, 1, len(m.movie.Times)))
	case key.Matches(msg, m.keys.PrevTime):
		m.popup.ChooseTime(stepTime(m.chosenTime, -1, len(m.movie.Times)))
	case key.Matches(msg, m.keys.Grow):
		m.nudge(-1)
	case key.Matches(msg, m.keys.Shrink):
		m.nudge(1)
	default:
		return m, nil
	}
	cmd := m.afterPopup()
	return m, cmd
}

// stepTime moves the showtime selection by delta. Without a selection it
// starts from the first showtime going forward and from the last going back.
func stepTime(chosen *int, delta, n int) int {
	if n <= 0 {
		return -1
	}
	if chosen == nil {
		if delta > 0 {
			return 0
		}
		return n - 1
	}
	return cycle(*chosen, delta, n)
}

func cycle(index, delta, n int) int {
	if n <= 0 {
		return -1
	}
	return ((index+delta)%n + n) % n
}

// nudge feeds the popup a synthetic one-step drag; direction -1 grows it.
func (m *appModel) nudge(direction int) {
	step := max(1, float64(m.height)/10)
	sample := popup.DragSample{DeltaY: float64(direction) * step}
	m.drag = nil
	m.popup.OnDragStart()
	m.popup.OnDragMove(sample)
	m.popup.OnDragEnd(sample)
}

func (m appModel) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if m.route == routeConfirmation {
		if msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft {
			_, done := m.confirmationLayout()
			if done.contains(msg.X, msg.Y) {
				m.route = routeMovies
			}
		}
		return m, nil
	}
	if m.state != stateGrid {
		return m, nil
	}
	if m.popupOpen {
		return m.handlePopupMouse(msg)
	}

	switch {
	case msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft:
		if index := m.hitGrid(msg.X, msg.Y); index >= 0 {
			cmd := m.openMovie(index)
			return m, cmd
		}
	case msg.Button == tea.MouseButtonWheelUp:
		m.moveSelection(-m.gridColumns())
	case msg.Button == tea.MouseButtonWheelDown:
		m.moveSelection(m.gridColumns())
	}
	return m, nil
}

func (m appModel) handlePopupMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	switch {
	case msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft:
		top, rows := m.popupGeometry()
		if msg.Y < top {
			m.popup.Backdrop()
			break
		}
		if spot, ok := hitPopup(m.popupLayout(rows), msg.Y-top, msg.X); ok {
			switch spot.kind {
			case spotDay:
				m.popup.ChooseDay(spot.index)
			case spotTime:
				m.popup.ChooseTime(spot.index)
			case spotBook:
				m.popup.Book()
			}
			break
		}
		m.drag = newDragState(msg.Y, float64(m.height), m.now())
		m.popup.OnDragStart()

	case msg.Action == tea.MouseActionMotion && m.drag != nil:
		m.popup.OnDragMove(m.drag.sample(msg.Y, m.now()))

	case msg.Action == tea.MouseActionRelease && m.drag != nil:
		sample := m.drag.sample(msg.Y, m.now())
		m.drag = nil
		m.popup.OnDragEnd(sample)

	default:
		return m, nil
	}
	cmd := m.afterPopup()
	return m, cmd
}

func (m *appModel) openMovie(index int) tea.Cmd {
	if index < 0 || index >= len(m.movies) {
		return nil
	}
	m.selected = index
	m.movie = m.movies[index]
	m.chosenDay = 0
	m.chosenTime = nil
	m.status = ""

	prev := m.popupOpen
	m.popupOpen = true
	m.popup.OnIsOpenChanged(prev, true)
	return m.afterPopup()
}

func (m *appModel) closeMovie() tea.Cmd {
	if !m.popupOpen {
		return nil
	}
	m.popupOpen = false
	m.drag = nil
	m.chosenDay = 0
	m.chosenTime = nil
	m.popup.OnIsOpenChanged(true, false)
	return m.afterPopup()
}

func (m appModel) book() (tea.Model, tea.Cmd) {
	if !m.popupOpen {
		return m, nil
	}
	booking, err := service.Book(m.movie, m.chosenDay, m.chosenTime, m.now())
	if errors.Is(err, service.ErrNoShowtime) {
		m.status = noShowtimeStatus
		return m, nil
	}
	if err != nil {
		return m, errCmd(err)
	}

	log.Info("booked", "code", booking.Code, "movie", booking.MovieId, "day", booking.Day, "time", booking.Time)
	m.booking = booking
	m.status = ""
	closeCmd := m.closeMovie()
	m.route = routeConfirmation
	return m, tea.Batch(closeCmd, saveBookingCmd(booking))
}

// afterPopup turns queued popup callbacks into commands and keeps animation
// frames coming while the popup moves.
func (m *appModel) afterPopup() tea.Cmd {
	return tea.Batch(m.drain(), m.ensureTicking())
}

func (m *appModel) drain() tea.Cmd {
	msgs := m.outbox.take()
	if len(msgs) == 0 {
		return nil
	}
	cmds := make([]tea.Cmd, 0, len(msgs))
	for _, msg := range msgs {
		cmds = append(cmds, msgCmd(msg))
	}
	if len(cmds) == 1 {
		return cmds[0]
	}
	return tea.Sequence(cmds...)
}

func (m *appModel) ensureTicking() tea.Cmd {
	if m.ticking || !m.popup.Animating() {
		return nil
	}
	m.ticking = true
	return frameCmd()
}

func frameCmd() tea.Cmd {
	return tea.Tick(popup.FrameInterval, func(t time.Time) tea.Msg {
		return frameMsg(t)
	})
}

func msgCmd(msg tea.Msg) tea.Cmd {
	return func() tea.Msg {
		return msg
	}
}

func saveBookingCmd(booking model.Booking) tea.Cmd {
	return func() tea.Msg {
		return bookingSavedMsg{err: store.RememberBooking(booking)}
	}
}

func hint(text string) string {
	return lipgloss.NewStyle().Faint(true).Render(text)
}

func errCmd(err error) tea.Cmd {
	return func() tea.Msg {
		return errMsg{err: err}
	}
}
