package tui

import (
	"log/slog"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/finlane/tutordock/internal/adapter"
	"github.com/finlane/tutordock/internal/catalog"
	"github.com/finlane/tutordock/internal/domain"
	"github.com/finlane/tutordock/internal/session"
	"github.com/finlane/tutordock/internal/tui/styles"
)

// Route is one page of the app shell.
type Route struct {
	Path  string
	Title string
}

// routes are the mock product pages. Their content is out of scope; they
// exist to exercise navigation, the inline slots, and the overlay.
var routes = []Route{
	{"/dashboard", "Dashboard"},
	{"/invoices", "Invoices"},
	{"/expenses", "Expenses"},
	{"/banking", "Banking"},
	{"/taxes", "Taxes"},
	{"/tutorials", "Tutorials"},
}

// Model is the main Bubble Tea model: the app shell plus the three playback
// hosts. All playback state lives in the session store; the model keeps only
// the latest snapshot for rendering.
type Model struct {
	cfg      *adapter.Config
	logger   *slog.Logger
	store    *session.Store
	registry *session.Registry
	watcher  *session.NavigationWatcher
	catalog  *catalog.Catalog
	observer *ChannelObserver

	keys      AppKeyMap
	inline    *InlineHost
	floating  *FloatingHost
	minimized *MinimizedHost
	picker    *Picker

	snap     domain.SessionSnapshot
	routeIdx int
	width    int
	height   int
	lastErr  error
}

// NewModel wires the app shell to the coordinator services.
func NewModel(
	cfg *adapter.Config,
	store *session.Store,
	registry *session.Registry,
	watcher *session.NavigationWatcher,
	cat *catalog.Catalog,
	observer *ChannelObserver,
	logger *slog.Logger,
) *Model {
	if logger == nil {
		logger = slog.Default()
	}
	return &Model{
		cfg:       cfg,
		logger:    logger,
		store:     store,
		registry:  registry,
		watcher:   watcher,
		catalog:   cat,
		observer:  observer,
		keys:      DefaultAppKeyMap(),
		inline:    NewInlineHost(store),
		floating:  NewFloatingHost(store),
		minimized: NewMinimizedHost(store),
		picker:    NewPicker(cat),
		snap:      store.Snapshot(),
	}
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return waitForSession(m.observer.Snapshots())
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case SessionMsg:
		m.snap = domain.SessionSnapshot(msg)
		return m, waitForSession(m.observer.Snapshots())

	case EngineReadyMsg:
		m.lastErr = nil
		return m, nil

	case ErrMsg:
		m.logger.Error("ui error", "error", msg.Err, "context", msg.Context)
		m.lastErr = msg
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.picker.Visible() {
		if tut, handled := m.picker.HandleKey(msg); handled {
			if tut != nil {
				return m, m.launchTutorial(*tut)
			}
			return m, nil
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		m.store.Close()
		return m, tea.Quit

	case key.Matches(msg, m.keys.Picker):
		m.picker.Open()
		return m, nil

	case key.Matches(msg, m.keys.NextPage):
		m.navigate((m.routeIdx + 1) % len(routes))
		return m, nil

	case key.Matches(msg, m.keys.PrevPage):
		m.navigate((m.routeIdx + len(routes) - 1) % len(routes))
		return m, nil
	}

	if idx := digitRoute(msg.String()); idx >= 0 && idx < len(routes) {
		m.navigate(idx)
		return m, nil
	}

	// Route playback keys to whichever host currently presents the session.
	if m.snap.Live {
		switch m.snap.Session.DisplayMode {
		case domain.ModeFloating:
			m.floating.HandleKey(msg, m.snap)
		case domain.ModeInline:
			if m.watcher.HasHome(m.currentRoute().Path) {
				m.inline.HandleKey(msg, m.snap)
			}
		}
	}

	return m, nil
}

// navigate switches pages and feeds the navigation watcher, which may
// auto-relocate an inline session to the overlay.
func (m *Model) navigate(idx int) {
	m.routeIdx = idx
	m.watcher.NavigationCompleted(m.currentRoute().Path)
}

// launchTutorial starts (or re-homes) the session for a tutorial and jumps
// to its home page.
func (m *Model) launchTutorial(t domain.Tutorial) tea.Cmd {
	m.store.Launch(t.ID, t.SourceURL, session.LaunchOptions{AutoPlay: true})
	m.store.SetVolume(m.cfg.Playback.Volume)

	for i, r := range routes {
		if r.Path == t.HomeRoute {
			m.routeIdx = i
			break
		}
	}
	return m.ensureEngine()
}

func (m *Model) currentRoute() Route {
	return routes[m.routeIdx]
}

// activeTitle resolves the catalog title for the live session.
func (m *Model) activeTitle() string {
	if !m.snap.Live {
		return ""
	}
	if t, err := m.catalog.Get(m.snap.Session.VideoID); err == nil {
		return t.Title
	}
	return m.snap.Session.VideoID
}

func digitRoute(s string) int {
	if len(s) != 1 || s[0] < '1' || s[0] > '9' {
		return -1
	}
	return int(s[0] - '1')
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.width == 0 {
		return ""
	}

	header := m.renderTabs()
	footer := m.renderFooter()
	bodyHeight := m.height - lipgloss.Height(header) - lipgloss.Height(footer)
	if bodyHeight < 3 {
		bodyHeight = 3
	}

	var body string
	switch {
	case m.picker.Visible():
		body = m.picker.View(m.width, bodyHeight)
	case m.snap.Live && m.snap.Session.DisplayMode == domain.ModeFloating && !m.snap.Session.Floating.Minimized:
		body = m.floating.Render(m.snap, m.activeTitle(), m.width, bodyHeight)
	default:
		body = m.renderPage(bodyHeight)
	}

	return lipgloss.JoinVertical(lipgloss.Left, header, body, footer)
}

func (m *Model) renderTabs() string {
	var tabs []string
	for i, r := range routes {
		if i == m.routeIdx {
			tabs = append(tabs, styles.ActiveTabStyle.Render(r.Title))
		} else {
			tabs = append(tabs, styles.TabStyle.Render(r.Title))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Center, tabs...)
}

func (m *Model) renderPage(height int) string {
	route := m.currentRoute()

	var sections []string
	sections = append(sections, styles.TitleStyle.Render(route.Title))
	sections = append(sections, styles.DimStyle.Render(pageStub(route.Path)))

	if m.snap.Live && m.snap.Session.DisplayMode == domain.ModeInline && m.watcher.HasHome(route.Path) {
		sections = append(sections, "", m.inline.Render(m.snap, m.activeTitle(), m.width*3/4))
	}

	content := lipgloss.JoinVertical(lipgloss.Left, sections...)
	return lipgloss.Place(m.width, height, lipgloss.Left, lipgloss.Top,
		lipgloss.NewStyle().Padding(1, 2).Render(content))
}

func (m *Model) renderFooter() string {
	var parts []string

	if pill := m.minimized.Render(m.snap, m.activeTitle()); pill != "" {
		parts = append(parts, pill)
	}
	if m.lastErr != nil {
		parts = append(parts, styles.ErrorStyle.Render(m.lastErr.Error()))
	}
	parts = append(parts, styles.HelpStyle.Render("tab pages · t tutorials · q quit"))

	return " " + strings.Join(parts, "  ")
}

// pageStub returns placeholder copy for the mock product pages.
func pageStub(path string) string {
	switch path {
	case "/dashboard":
		return "Cash flow, overdue invoices, and profit at a glance."
	case "/invoices":
		return "Draft, sent, and paid invoices for the current period."
	case "/expenses":
		return "Captured receipts awaiting categorization."
	case "/banking":
		return "Imported bank transactions ready to reconcile."
	case "/taxes":
		return "Open VAT periods and filing deadlines."
	case "/tutorials":
		return "Press t to browse the tutorial library."
	default:
		return ""
	}
}
