package main

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"slices"
	"strings"
	"syscall"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/vadimtrunov/reelview/internal/catalog"
	"github.com/vadimtrunov/reelview/internal/core"
	"github.com/vadimtrunov/reelview/internal/watchlist"
)

const (
	defaultListRows = 20
	chromeRows      = 6 // header, info line, blank, status, help, margin
	moreIDSeparator = "-more-"
)

// newBrowseCmd returns the "browse" subcommand for the interactive list.
func newBrowseCmd() *cobra.Command {
	var seed bool
	cmd := &cobra.Command{
		Use:   "browse [query]",
		Short: "Browse movies interactively",
		Long: "Browse the lowest-rated list, or search results when a query is given.\n" +
			"Keys: s sort, g genre, v watchlist only, w toggle watchlist, m load more,\n" +
			"enter details, esc back, q quit.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBrowse(cmd, strings.Join(args, " "), seed)
		},
	}
	cmd.Flags().BoolVar(&seed, "seed-watchlist", false, "start with the first five movies on the watchlist")
	return cmd
}

// runBrowse loads configuration and starts the Bubble Tea browse TUI.
func runBrowse(cmd *cobra.Command, query string, seed bool) error {
	cfg, _, svc, err := setup(cmd)
	if err != nil {
		return err
	}
	order, err := catalog.ParseSortOrder(cfg.Browse.Sort)
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	m := newBrowseModel(ctx, svc, browseOptions{
		query: query,
		order: order,
		pager: catalog.NewPager(cfg.Browse.Delay(), cfg.Browse.LoadMoreBatch),
		seed:  seed,
	})
	p := tea.NewProgram(m, tea.WithAltScreen())

	// Bridge OS signal cancellation into the Bubble Tea event loop.
	go func() {
		<-ctx.Done()
		p.Send(tea.Quit())
	}()

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run browse: %w", err)
	}
	return nil
}

// browseSource is the catalog subset the browse screen uses.
type browseSource interface {
	LowestRated(ctx context.Context) ([]core.Movie, error)
	Search(ctx context.Context, query string) ([]core.Movie, error)
	Details(ctx context.Context, id string) (*core.MovieDetails, error)
}

type browseOptions struct {
	query string
	order catalog.SortOrder
	pager *catalog.Pager
	watch *watchlist.Store
	seed  bool
}

type browseState int

const (
	stateLoading browseState = iota
	stateLoaded
	stateError
)

// Messages carrying request results back to the TUI.
type (
	browseLoadedMsg struct {
		movies []core.Movie
		err    error
	}
	browseMoreMsg struct {
		movies []core.Movie
		err    error
	}
	browseDetailsMsg struct {
		details *core.MovieDetails
		err     error
	}
)

// browseModel is the Bubble Tea model for the interactive list.
type browseModel struct {
	ctx      context.Context
	source   browseSource
	query    string
	pager    *catalog.Pager
	watch    *watchlist.Store
	seed     bool
	spinner  spinner.Model
	viewport viewport.Model

	state       browseState
	err         error
	movies      []core.Movie // in load order
	order       catalog.SortOrder
	category    string
	watchOnly   bool
	cursor      int
	loadingMore bool
	status      string

	details        *core.MovieDetails
	detailsLoading bool
	showDetails    bool

	width  int
	height int
}

func newBrowseModel(ctx context.Context, source browseSource, opts browseOptions) browseModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = styleInfo

	if opts.pager == nil {
		opts.pager = catalog.NewPager(catalog.DefaultLoadMoreDelay, catalog.DefaultLoadMoreBatch)
	}
	if opts.watch == nil {
		opts.watch = watchlist.New()
	}

	return browseModel{
		ctx:      ctx,
		source:   source,
		query:    opts.query,
		pager:    opts.pager,
		watch:    opts.watch,
		seed:     opts.seed,
		spinner:  s,
		viewport: viewport.New(80, defaultListRows),
		state:    stateLoading,
		order:    opts.order,
		category: catalog.CategoryAll,
	}
}

// Init starts the spinner and the initial fetch.
func (m browseModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.load())
}

// Update handles request results and key presses.
func (m browseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.viewport.Width = msg.Width
		m.viewport.Height = max(1, msg.Height-3)
		return m, nil

	case spinner.TickMsg:
		if !m.busy() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case browseLoadedMsg:
		m.handleLoaded(msg)
		return m, nil

	case browseMoreMsg:
		m.handleMore(msg)
		return m, nil

	case browseDetailsMsg:
		m.handleDetails(msg)
		return m, nil

	case tea.KeyMsg:
		if m.showDetails {
			return m.handleDetailsKey(msg)
		}
		return m.handleListKey(msg)
	}
	return m, nil
}

// busy reports whether a request is pending.
func (m browseModel) busy() bool {
	return m.state == stateLoading || m.loadingMore || m.detailsLoading
}

func (m *browseModel) handleLoaded(msg browseLoadedMsg) {
	if msg.err != nil {
		m.state = stateError
		m.err = msg.err
		return
	}
	m.state = stateLoaded
	m.err = nil
	m.movies = msg.movies
	m.cursor = 0
	if m.seed {
		m.watch.Seed(msg.movies)
	}
}

func (m *browseModel) handleMore(msg browseMoreMsg) {
	m.loadingMore = false
	switch {
	case errors.Is(msg.err, catalog.ErrLoadInProgress):
		m.status = "Already loading more movies"
	case errors.Is(msg.err, context.Canceled):
		m.status = ""
	case msg.err != nil:
		m.status = "Could not load more movies"
	default:
		m.movies = append(m.movies, msg.movies...)
		m.status = fmt.Sprintf("Loaded %d more", len(msg.movies))
	}
}

func (m *browseModel) handleDetails(msg browseDetailsMsg) {
	m.detailsLoading = false
	if msg.err != nil {
		m.status = "Could not load movie details"
		return
	}
	m.details = msg.details
	m.showDetails = true
	m.status = ""
	m.refreshDetails()
	m.viewport.GotoTop()
}

// handleListKey handles keys on the list screen.
func (m browseModel) handleListKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit
	case "r":
		if m.state != stateError {
			return m, nil
		}
		m.state = stateLoading
		return m, tea.Batch(m.spinner.Tick, m.load())
	}

	if m.state != stateLoaded {
		return m, nil
	}

	visible := m.visible()
	switch msg.String() {
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(visible)-1 {
			m.cursor++
		}
	case "s":
		m.order = m.order.Next()
		m.cursor = 0
		m.status = "Sorted by " + m.order.String()
	case "g":
		m.category = nextCategory(m.category, catalog.Genres(m.movies))
		m.cursor = 0
		m.status = "Genre: " + m.category
	case "v":
		m.watchOnly = !m.watchOnly
		m.cursor = 0
		if m.watchOnly {
			m.status = "Showing watchlist only"
		} else {
			m.status = "Showing all movies"
		}
	case "w":
		if movie, ok := m.selected(visible); ok {
			m.status = m.toggleWatch(movie)
			m.cursor = min(m.cursor, max(0, len(m.visible())-1))
		}
	case "m":
		if m.loadingMore {
			m.status = "Already loading more movies"
			return m, nil
		}
		m.loadingMore = true
		m.status = ""
		return m, tea.Batch(m.spinner.Tick, m.loadMore())
	case "enter":
		if movie, ok := m.selected(visible); ok && !m.detailsLoading {
			m.detailsLoading = true
			m.status = ""
			return m, tea.Batch(m.spinner.Tick, m.loadDetails(baseID(movie.ID)))
		}
	}
	return m, nil
}

// handleDetailsKey handles keys on the details screen.
func (m browseModel) handleDetailsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit
	case "esc", "backspace":
		m.showDetails = false
		return m, nil
	case "w":
		m.status = m.toggleWatch(m.details.Movie)
		m.refreshDetails()
		return m, nil
	}
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m *browseModel) toggleWatch(movie core.Movie) string {
	movie.ID = baseID(movie.ID)
	if m.watch.Toggle(movie) {
		return "Added " + movie.Title + " to watchlist"
	}
	return "Removed " + movie.Title + " from watchlist"
}

func (m *browseModel) refreshDetails() {
	content := renderDetails(m.details)
	if m.watch.Contains(m.details.ID) {
		content = styleSuccess.Render("✓ On your watchlist") + "\n\n" + content
	}
	m.viewport.SetContent(content)
}

// visible returns the movies shown: genre filter, watchlist filter, then sort.
func (m browseModel) visible() []core.Movie {
	movies := catalog.FilterByCategory(m.movies, m.category)
	if m.watchOnly {
		movies = slices.DeleteFunc(movies, func(mv core.Movie) bool {
			return !m.watch.Contains(mv.ID)
		})
	}
	return catalog.Sort(movies, m.order)
}

func (m browseModel) selected(visible []core.Movie) (core.Movie, bool) {
	if m.cursor < 0 || m.cursor >= len(visible) {
		return core.Movie{}, false
	}
	return visible[m.cursor], true
}

// nextCategory cycles All -> first genre -> ... -> last genre -> All.
func nextCategory(current string, genres []string) string {
	if len(genres) == 0 {
		return catalog.CategoryAll
	}
	if strings.EqualFold(current, catalog.CategoryAll) {
		return genres[0]
	}
	i := slices.IndexFunc(genres, func(g string) bool { return strings.EqualFold(g, current) })
	if i < 0 || i == len(genres)-1 {
		return catalog.CategoryAll
	}
	return genres[i+1]
}

// baseID maps a loaded-more copy back to the ID of the movie it copies.
func baseID(id string) string {
	base, _, _ := strings.Cut(id, moreIDSeparator)
	return base
}

// View renders the current screen.
func (m browseModel) View() string {
	if m.showDetails {
		return m.viewport.View() + "\n" + m.statusLine() +
			styleDim.Render("↑/↓ scroll · w watchlist · esc back · q quit")
	}

	var sb strings.Builder
	sb.WriteString(styleHeader.Render("reelview · " + m.title()))
	sb.WriteString("\n")

	switch m.state {
	case stateLoading:
		sb.WriteString(m.spinner.View() + styleDim.Render(" Loading movies...") + "\n")
		return sb.String()
	case stateError:
		sb.WriteString(styleError.Render("Could not load movies: "+m.err.Error()) + "\n\n")
		sb.WriteString(styleDim.Render("r retry · q quit"))
		return sb.String()
	}

	visible := m.visible()
	sb.WriteString(styleDim.Render(fmt.Sprintf("sort: %s · genre: %s · watchlist: %d · %d/%d shown",
		m.order, m.category, m.watch.Len(), len(visible), len(m.movies))))
	sb.WriteString("\n\n")

	if len(visible) == 0 {
		sb.WriteString(styleDim.Render("No movies found.") + "\n")
	}
	from, to := m.window(len(visible))
	for i := from; i < to; i++ {
		mv := visible[i]
		mark := "  "
		if m.watch.Contains(baseID(mv.ID)) {
			mark = styleSuccess.Render("✓ ")
		}
		line := movieLine(mv)
		if i == m.cursor {
			line = styleSelected.Render("> ") + mark + line
		} else {
			line = "  " + mark + line
		}
		sb.WriteString(line + "\n")
	}

	sb.WriteString("\n" + m.statusLine())
	sb.WriteString(styleDim.Render("↑/↓ move · enter details · s sort · g genre · v watchlist · w toggle · m more · q quit"))
	return sb.String()
}

func (m browseModel) title() string {
	if m.query != "" {
		return fmt.Sprintf("Search: %s", m.query)
	}
	return "Lowest rated"
}

func (m browseModel) statusLine() string {
	switch {
	case m.loadingMore:
		return m.spinner.View() + styleDim.Render(" Loading more...") + "\n"
	case m.detailsLoading:
		return m.spinner.View() + styleDim.Render(" Loading details...") + "\n"
	case m.status != "":
		return styleInfo.Render(m.status) + "\n"
	}
	return ""
}

// window returns the slice of rows that fits on screen around the cursor.
func (m browseModel) window(n int) (int, int) {
	rows := defaultListRows
	if m.height > chromeRows {
		rows = m.height - chromeRows
	}
	if n <= rows {
		return 0, n
	}
	from := max(0, m.cursor-rows/2)
	from = min(from, n-rows)
	return from, from + rows
}

func (m browseModel) load() tea.Cmd {
	return func() tea.Msg {
		var (
			movies []core.Movie
			err    error
		)
		if m.query != "" {
			movies, err = m.source.Search(m.ctx, m.query)
		} else {
			movies, err = m.source.LowestRated(m.ctx)
		}
		return browseLoadedMsg{movies: movies, err: err}
	}
}

func (m browseModel) loadMore() tea.Cmd {
	loaded := slices.Clone(m.movies)
	return func() tea.Msg {
		more, err := m.pager.More(m.ctx, loaded)
		return browseMoreMsg{movies: more, err: err}
	}
}

func (m browseModel) loadDetails(id string) tea.Cmd {
	return func() tea.Msg {
		d, err := m.source.Details(m.ctx, id)
		return browseDetailsMsg{details: d, err: err}
	}
}
