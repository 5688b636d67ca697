package ui

import (
	"context"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/five82/storefront/internal/action"
	"github.com/five82/storefront/internal/catalog"
	"github.com/five82/storefront/internal/logging"
	"github.com/five82/storefront/internal/prefs"
	"github.com/five82/storefront/internal/product"
	"github.com/five82/storefront/internal/store"
)

// View represents the current active view.
type View int

const (
	ViewCatalog View = iota
	ViewCart
)

const defaultRefreshTick = 250 * time.Millisecond

// Store is the part of the store the UI reads and writes.
type Store interface {
	Dispatch(a action.Action) error
	GetState() store.RootState
}

// Gate reports whether persisted state has been restored.
type Gate interface {
	Rehydrated() bool
}

// Options configures the UI.
type Options struct {
	Context context.Context
	Store   Store
	// Gate holds the UI on a loading screen until it reports true. Nil
	// means no gate.
	Gate        Gate
	Fetcher     catalog.Fetcher
	Logger      logrus.FieldLogger
	RefreshTick time.Duration
	ThemeName   string
	PrefsPath   string
	Query       string
}

// Model is the root application state for Bubble Tea.
type Model struct {
	// Configuration
	ctx         context.Context
	store       Store
	gate        Gate
	fetcher     catalog.Fetcher
	log         logrus.FieldLogger
	prefsPath   string
	refreshTick time.Duration
	keys        keyMap

	// UI state
	theme       Theme
	currentView View
	width       int
	height      int
	ready       bool
	showHelp    bool

	// Data state
	state       store.RootState
	hydrated    bool
	lastList    []catalog.Product
	lastUpdated time.Time
	notice      string

	// Catalog state
	catalogRow int
	filter     textinput.Model
	filtering  bool

	// Cart state
	cartRow int
}

// New creates a new Bubble Tea model.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}

	refreshTick := opts.RefreshTick
	if refreshTick <= 0 {
		refreshTick = defaultRefreshTick
	}

	themeName := opts.ThemeName
	if themeName == "" {
		themeName = prefs.Defaults().Theme
	}

	filter := textinput.New()
	filter.Prompt = "/ "
	filter.Placeholder = "filter by title"
	filter.CharLimit = 64
	filter.SetValue(strings.TrimSpace(opts.Query))

	m := Model{
		ctx:         ctx,
		store:       opts.Store,
		gate:        opts.Gate,
		fetcher:     opts.Fetcher,
		log:         logging.OrDiscard(opts.Logger).WithField("component", "ui"),
		prefsPath:   opts.PrefsPath,
		refreshTick: refreshTick,
		keys:        DefaultKeyMap(),
		theme:       GetTheme(themeName),
		currentView: ViewCatalog,
		filter:      filter,
	}
	if m.store != nil {
		m.state = m.store.GetState()
	}
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{tickCmd(m.refreshTick)}
	if m.store != nil {
		cmds = append(cmds, snapshotCmd(m.store, m.gate))
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.filter.Width = maxInt(10, msg.Width-6)
		m.ready = true
		return m, nil

	case tickMsg:
		cmds := []tea.Cmd{tickCmd(m.refreshTick)}
		if m.store != nil {
			cmds = append(cmds, snapshotCmd(m.store, m.gate))
		}
		return m, tea.Batch(cmds...)

	case snapshotMsg:
		m.applySnapshot(msg)
		return m, nil

	case fetchDoneMsg:
		if msg.err != nil {
			m.notice = "reload failed: " + msg.err.Error()
		} else {
			m.notice = ""
		}
		m.applySnapshot(snapshotMsg{state: m.store.GetState(), hydrated: m.hydrated})
		return m, nil
	}

	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	if !m.hydrated {
		return m.renderGate()
	}
	if m.showHelp {
		return m.renderHelp()
	}
	return m.renderMain()
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.showHelp {
		// Any key closes help
		m.showHelp = false
		return m, nil
	}

	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	// Nothing may change the cart until persisted state is back.
	if !m.hydrated {
		if key.Matches(msg, m.keys.Quit) {
			return m, tea.Quit
		}
		return m, nil
	}

	if m.filtering {
		return m.handleFilterKey(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		m.savePrefs()
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil

	case key.Matches(msg, m.keys.CycleTheme):
		m.theme = GetTheme(NextTheme(m.theme.Name))
		m.savePrefs()
		return m, nil

	case key.Matches(msg, m.keys.Tab):
		if m.currentView == ViewCatalog {
			m.currentView = ViewCart
		} else {
			m.currentView = ViewCatalog
		}
		return m, nil

	case key.Matches(msg, m.keys.ViewCatalog):
		m.currentView = ViewCatalog
		return m, nil

	case key.Matches(msg, m.keys.ViewCart):
		m.currentView = ViewCart
		return m, nil

	case key.Matches(msg, m.keys.Refresh):
		return m, m.fetchCmd()
	}

	switch m.currentView {
	case ViewCatalog:
		return m.handleCatalogKey(msg)
	case ViewCart:
		return m.handleCartKey(msg)
	}
	return m, nil
}

// applySnapshot stores the latest state. Whenever the product list has
// changed the title filter is applied again, since fetches never touch
// filteredProducts themselves.
func (m *Model) applySnapshot(msg snapshotMsg) {
	m.state = msg.state
	m.hydrated = msg.hydrated
	m.lastUpdated = time.Now()

	if !slices.Equal(m.state.Product.ProductList, m.lastList) {
		m.lastList = m.state.Product.ProductList
		m.refilter()
	}
	m.catalogRow = clamp(m.catalogRow, len(m.state.Product.FilteredProducts))
	m.cartRow = clamp(m.cartRow, len(m.state.Cart.Items))
}

// refilter recomputes filteredProducts from productList and the query.
func (m *Model) refilter() {
	filtered := product.FilterByTitle(m.state.Product.ProductList, m.filter.Value())
	m.dispatch(product.SetFilteredProducts{Products: filtered})
}

// dispatch sends a to the store and refreshes the local snapshot.
func (m *Model) dispatch(a action.Action) {
	if m.store == nil {
		return
	}
	if err := m.store.Dispatch(a); err != nil {
		m.log.WithError(err).WithField("action", a.Type()).Error("dispatch failed")
		m.notice = err.Error()
	}
	m.state = m.store.GetState()
}

func (m Model) savePrefs() {
	if m.prefsPath == "" {
		return
	}
	p := prefs.Prefs{Theme: m.theme.Name, Query: m.filter.Value()}
	if err := prefs.Save(m.prefsPath, p); err != nil {
		m.log.WithError(err).Warn("save prefs failed")
	}
}

func (m Model) fetchCmd() tea.Cmd {
	if m.store == nil || m.fetcher == nil {
		return nil
	}
	st, f := m.store, m.fetcher
	return func() tea.Msg {
		var fetchErr error
		tracked := fetcherFunc(func(ctx context.Context) ([]catalog.Product, error) {
			list, err := f.FetchCatalog(ctx)
			fetchErr = err
			return list, err
		})
		if err := st.Dispatch(store.FetchProducts(tracked)); err != nil {
			return fetchDoneMsg{err: err}
		}
		return fetchDoneMsg{err: fetchErr}
	}
}

// renderMain renders the full UI.
func (m Model) renderMain() string {
	var b strings.Builder

	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.renderCommandBar())
	b.WriteString("\n")

	switch m.currentView {
	case ViewCatalog:
		b.WriteString(m.renderCatalog())
	case ViewCart:
		b.WriteString(m.renderCart())
	}

	return b.String()
}

// contentHeight is the number of rows left for list content.
func (m Model) contentHeight(reserved int) int {
	return maxInt(1, m.height-2-reserved)
}

// Messages

type tickMsg time.Time

type snapshotMsg struct {
	state    store.RootState
	hydrated bool
}

type fetchDoneMsg struct {
	err error
}

type fetcherFunc func(ctx context.Context) ([]catalog.Product, error)

func (f fetcherFunc) FetchCatalog(ctx context.Context) ([]catalog.Product, error) {
	return f(ctx)
}

// Commands

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func snapshotCmd(s Store, gate Gate) tea.Cmd {
	return func() tea.Msg {
		return snapshotMsg{
			state:    s.GetState(),
			hydrated: gate == nil || gate.Rehydrated(),
		}
	}
}

// Run starts the Bubble Tea program.
func Run(opts Options) error {
	m := New(opts)
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
