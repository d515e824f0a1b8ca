package ui

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/five82/showroom/internal/catalog"
	"github.com/five82/showroom/internal/fakestore"
	"github.com/five82/showroom/internal/favorites"
	"github.com/five82/showroom/internal/prefs"
)

// View represents the current active view.
type View int

const (
	ViewDashboard View = iota
	ViewDetail
)

// Options configures the UI.
type Options struct {
	Context      context.Context
	Source       fakestore.Source
	Catalog      *catalog.Catalog
	Favorites    *favorites.Store
	Logger       *zap.Logger
	ThemeName    string
	PrefsPath    string
	FetchTimeout time.Duration
}

// detailState tracks the product currently open on the detail page.
type detailState struct {
	seq     uint64 // bumped on every open and on leaving; stale results are dropped
	id      int64
	loading bool
	result  catalog.Detail
}

// Model is the root application state for Bubble Tea.
type Model struct {
	// Configuration
	ctx          context.Context
	source       fakestore.Source
	catalog      *catalog.Catalog
	favorites    *favorites.Store
	logger       *zap.Logger
	prefsPath    string
	fetchTimeout time.Duration
	keys         keyMap

	// UI state
	theme       Theme
	currentView View
	width       int
	height      int
	ready       bool
	showHelp    bool

	// Dashboard state
	selectedRow int
	selectedID  int64 // follows the product across filter changes
	searching   bool
	searchInput textinput.Model
	spinner     spinner.Model

	// Detail state
	detail         detailState
	detailViewport viewport.Model
}

// New creates a new Bubble Tea model.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	cat := opts.Catalog
	if cat == nil {
		cat = catalog.New(catalog.Options{Favorites: opts.Favorites, Logger: logger})
	}
	favs := opts.Favorites
	if favs == nil {
		favs = favorites.Load(nil, logger)
	}
	timeout := opts.FetchTimeout
	if timeout <= 0 {
		timeout = DefaultFetchTimeout
	}

	input := textinput.New()
	input.Placeholder = "Search products by name..."
	input.Prompt = "/ "
	input.CharLimit = 120

	spin := spinner.New()
	spin.Spinner = spinner.Dot

	m := Model{
		ctx:          ctx,
		source:       opts.Source,
		catalog:      cat,
		favorites:    favs,
		logger:       logger,
		prefsPath:    opts.PrefsPath,
		fetchTimeout: timeout,
		keys:         DefaultKeyMap(),
		theme:        GetTheme(opts.ThemeName),
		currentView:  ViewDashboard,
		searchInput:  input,
		spinner:      spin,
	}
	m.applyThemeToWidgets()
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.startLoad())
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if !m.ready {
			m.detailViewport = viewport.New(msg.Width, m.contentHeight())
		}
		m.ready = true
		m.detailViewport.Width = msg.Width
		m.detailViewport.Height = m.contentHeight()
		m.searchInput.Width = max(msg.Width-6, 10)
		m.clampSelection()
		m.updateDetailViewport()
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case productsMsg:
		m.catalog.FinishLoad(msg.products, msg.err)
		m.clampSelection()
		return m, nil

	case detailMsg:
		if msg.seq != m.detail.seq {
			// Superseded: the user left or opened another product.
			m.logger.Debug("dropping stale detail result", zap.Int64("id", msg.detail.ID))
			return m, nil
		}
		m.detail.loading = false
		m.detail.result = msg.detail
		if msg.detail.Err != nil {
			m.logger.Warn("product detail failed", zap.Int64("id", msg.detail.ID), zap.Error(msg.detail.Err))
		}
		m.updateDetailViewport()
		return m, nil
	}

	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	if m.showHelp {
		return m.renderHelp()
	}

	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.renderCommandBar())
	b.WriteString("\n")
	switch m.currentView {
	case ViewDetail:
		b.WriteString(m.renderDetail())
	default:
		b.WriteString(m.renderDashboard())
	}
	return b.String()
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.showHelp {
		// Any key closes help
		m.showHelp = false
		return m, nil
	}
	if m.searching {
		return m.handleSearchKey(msg)
	}

	switch {
	case msg.String() == "ctrl+c":
		return m, tea.Quit
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil
	case key.Matches(msg, m.keys.CycleTheme):
		m.theme = GetTheme(NextTheme(m.theme.Name))
		m.applyThemeToWidgets()
		m.savePrefs()
		m.updateDetailViewport()
		return m, nil
	}

	switch m.currentView {
	case ViewDetail:
		return m.handleDetailKey(msg)
	default:
		return m.handleDashboardKey(msg)
	}
}

func (m *Model) applyThemeToWidgets() {
	styles := m.theme.Styles()
	m.searchInput.PromptStyle = styles.AccentText
	m.searchInput.TextStyle = styles.Text
	m.searchInput.PlaceholderStyle = styles.FaintText
	m.spinner.Style = styles.AccentText
}

func (m Model) savePrefs() {
	if m.prefsPath == "" {
		return
	}
	p := prefs.Prefs{Theme: m.theme.Name, Sort: m.catalog.Filter().Sort.String()}
	if err := prefs.Save(m.prefsPath, p); err != nil {
		m.logger.Warn("save prefs", zap.Error(err))
	}
}

// contentHeight is the space left under the header and command bar.
func (m Model) contentHeight() int {
	return max(m.height-headerLines, 1)
}

// Messages

type productsMsg struct {
	products []fakestore.Product
	err      error
}

type detailMsg struct {
	seq    uint64
	detail catalog.Detail
}

// Commands

// startLoad moves the catalog to Loading and returns the fetch command.
// Nothing is started while a load is already outstanding.
func (m Model) startLoad() tea.Cmd {
	if m.catalog.State() == catalog.Loading {
		return nil
	}
	m.catalog.BeginLoad()
	return fetchProductsCmd(m.ctx, m.source, m.fetchTimeout)
}

func fetchProductsCmd(ctx context.Context, src fakestore.Source, timeout time.Duration) tea.Cmd {
	return func() tea.Msg {
		if src == nil {
			return productsMsg{err: errNoSource}
		}
		ctx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()
		products, err := src.FetchProducts(ctx)
		return productsMsg{products: products, err: err}
	}
}

func fetchDetailCmd(ctx context.Context, src fakestore.Source, timeout time.Duration, seq uint64, id int64) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()
		return detailMsg{seq: seq, detail: catalog.FetchDetail(ctx, src, id)}
	}
}

// NewProgram builds the Bubble Tea program on the alternate screen.
func NewProgram(opts Options) *tea.Program {
	return tea.NewProgram(New(opts), tea.WithAltScreen())
}

// Run starts the Bubble Tea program and blocks until it exits.
func Run(opts Options) error {
	_, err := NewProgram(opts).Run()
	return err
}
