package ui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/nomadex/nomadex/internal/catalog"
	"github.com/nomadex/nomadex/internal/form"
	"github.com/nomadex/nomadex/internal/geo"
	"github.com/nomadex/nomadex/internal/mapsync"
	"github.com/nomadex/nomadex/internal/search"
	"github.com/nomadex/nomadex/internal/session"
	"github.com/nomadex/nomadex/internal/store"
)

// View represents the current active view.
type View int

const (
	ViewList View = iota
	ViewForm
	ViewDetail
)

// JournalSource fetches the journal entries attached to a voyage.
type JournalSource interface {
	ListJournalsByVoyage(ctx context.Context, voyageID int64) ([]store.Journal, error)
}

// Options configures the UI.
type Options struct {
	Context      context.Context
	Catalog      *catalog.Controller
	Form         *form.Controller
	Journals     JournalSource
	Geocoder     *geo.Cache
	Session      session.Session
	SessionPath  string
	RefreshEvery time.Duration
}

// Model is the root application state for Bubble Tea.
type Model struct {
	// Collaborators
	ctx      context.Context
	catalog  *catalog.Controller
	form     *form.Controller
	journals JournalSource
	geocoder *geo.Cache
	pipeline *search.Pipeline
	send     func(tea.Msg)

	sessionPath  string
	userSession  session.Session
	refreshEvery time.Duration

	// UI state
	theme       Theme
	currentView View
	width       int
	height      int
	ready       bool
	showHelp    bool

	// List state
	searchInput     textinput.Model
	searchFocused   bool
	visible         []store.Voyage
	selectedRow     int
	confirmDeleteID int64

	// Form state
	fields        formFields
	suggestions   []geo.Candidate
	suggestionIdx int
	formError     string
	mapPanel      *mapPanel
	mapCtl        *mapsync.Controller

	// Detail state
	detailViewport viewport.Model
	detailJournals []store.Journal
	journalsErr    bool
}

// New creates a new Bubble Tea model. send bridges completions from the
// search pipeline and map reverse lookups back into the update loop.
func New(opts Options, send func(tea.Msg)) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}

	searchInput := textinput.New()
	searchInput.Placeholder = "Search voyages"
	searchInput.Prompt = "/ "
	searchInput.CharLimit = 120

	m := Model{
		ctx:          ctx,
		catalog:      opts.Catalog,
		form:         opts.Form,
		journals:     opts.Journals,
		geocoder:     opts.Geocoder,
		send:         send,
		sessionPath:  opts.SessionPath,
		userSession:  opts.Session,
		refreshEvery: opts.RefreshEvery,
		theme:        GetTheme(opts.Session.Theme),
		currentView:  ViewList,
		searchInput:  searchInput,
	}
	m.pipeline = search.New(0, opts.Geocoder.Lookup, func(candidates []geo.Candidate) {
		send(suggestionsMsg(candidates))
	})
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.reloadCmd()}
	if m.refreshEvery > 0 {
		cmds = append(cmds, tickCmd(m.refreshEvery))
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
		if !m.ready {
			m.detailViewport = viewport.New(msg.Width, msg.Height-4)
		} else {
			m.detailViewport.Width = msg.Width
			m.detailViewport.Height = msg.Height - 4
		}
		m.ready = true
		return m, nil

	case tickMsg:
		return m.handleTick()

	case reloadDoneMsg:
		m.refreshVisible()
		if msg.err != nil {
			return m, m.toastExpireCmd()
		}
		return m, nil

	case saveDoneMsg:
		cmds := []tea.Cmd{m.toastExpireCmd()}
		if msg.err == nil {
			m.closeForm()
			m.currentView = ViewList
			cmds = append(cmds, m.reloadCmd())
		}
		m.refreshVisible()
		return m, tea.Batch(cmds...)

	case deleteDoneMsg:
		cmds := []tea.Cmd{m.toastExpireCmd()}
		if msg.err == nil {
			if m.currentView == ViewDetail {
				m.currentView = ViewList
			}
			cmds = append(cmds, m.reloadCmd())
		}
		m.refreshVisible()
		return m, tea.Batch(cmds...)

	case toastExpireMsg:
		m.catalog.ExpireToast(uint64(msg))
		return m, nil

	case suggestionsMsg:
		m.suggestions = []geo.Candidate(msg)
		m.suggestionIdx = 0
		return m, nil

	case placePatchedMsg:
		// Silent field update: the search input value changes without
		// feeding the pipeline, so the click result never re-triggers
		// a search.
		m.form.PatchPlace(msg.city, msg.country, msg.label)
		m.fields.location.SetValue(m.form.Draft().LocationSearch)
		return m, nil

	case journalsMsg:
		if selected, ok := m.catalog.Selected(); ok && selected.ID == msg.voyageID {
			m.detailJournals = msg.entries
			m.journalsErr = msg.err != nil
			m.updateDetailViewport()
		}
		return m, nil

	case attachDoneMsg:
		if msg.err != nil {
			m.formError = "Could not read one of the images; nothing was attached."
		} else {
			m.formError = ""
			m.fields.imagePath.SetValue("")
		}
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
	return m.renderMain()
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		return m, tea.Quit
	}

	if m.showHelp {
		// Any key closes help
		m.showHelp = false
		return m, nil
	}

	switch m.currentView {
	case ViewList:
		return m.handleListKey(msg)
	case ViewForm:
		return m.handleFormKey(msg)
	case ViewDetail:
		return m.handleDetailKey(msg)
	}
	return m, nil
}

// handleTick runs the periodic catalog refresh. Paused while authoring so a
// background reload cannot race an in-progress submission.
func (m Model) handleTick() (tea.Model, tea.Cmd) {
	cmds := []tea.Cmd{tickCmd(m.refreshEvery)}
	if m.currentView != ViewForm {
		cmds = append(cmds, m.reloadCmd())
	}
	return m, tea.Batch(cmds...)
}

// refreshVisible re-projects the catalog and clamps the selection.
func (m *Model) refreshVisible() {
	m.visible = m.catalog.Visible()
	if m.selectedRow >= len(m.visible) {
		m.selectedRow = len(m.visible) - 1
	}
	if m.selectedRow < 0 {
		m.selectedRow = 0
	}
}

// cycleTheme switches to the next theme and persists the choice.
func (m *Model) cycleTheme() {
	m.theme = GetTheme(NextTheme(m.theme.Name))
	m.userSession.Theme = m.theme.Name
	if m.sessionPath != "" {
		_ = session.Save(m.sessionPath, m.userSession)
	}
}

// Messages

type tickMsg time.Time

type reloadDoneMsg struct{ err error }

type saveDoneMsg struct {
	outcome catalog.SaveOutcome
	err     error
}

type deleteDoneMsg struct {
	id  int64
	err error
}

type attachDoneMsg struct{ err error }

type suggestionsMsg []geo.Candidate

type placePatchedMsg struct {
	city    string
	country string
	label   string
}

type journalsMsg struct {
	voyageID int64
	entries  []store.Journal
	err      error
}

type toastExpireMsg uint64

// Commands

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m Model) reloadCmd() tea.Cmd {
	return func() tea.Msg {
		return reloadDoneMsg{err: m.catalog.Reload(m.ctx)}
	}
}

func (m Model) saveCmd(payload store.Voyage) tea.Cmd {
	return func() tea.Msg {
		outcome, err := m.catalog.Save(m.ctx, payload)
		return saveDoneMsg{outcome: outcome, err: err}
	}
}

func (m Model) deleteCmd(id int64) tea.Cmd {
	return func() tea.Msg {
		return deleteDoneMsg{id: id, err: m.catalog.Delete(m.ctx, id)}
	}
}

func (m Model) attachCmd(paths []string) tea.Cmd {
	return func() tea.Msg {
		return attachDoneMsg{err: m.form.AttachImages(m.ctx, paths)}
	}
}

func (m Model) journalsCmd(voyageID int64) tea.Cmd {
	return func() tea.Msg {
		entries, err := m.journals.ListJournalsByVoyage(m.ctx, voyageID)
		return journalsMsg{voyageID: voyageID, entries: entries, err: err}
	}
}

// toastExpireCmd schedules dismissal of the toast raised by the operation
// that just settled. The generation guard makes a stale timer harmless.
func (m Model) toastExpireCmd() tea.Cmd {
	seq := m.catalog.ToastSeq()
	return tea.Tick(catalog.ToastLifetime, func(time.Time) tea.Msg {
		return toastExpireMsg(seq)
	})
}

// Run starts the Bubble Tea program and blocks until the user quits.
func Run(opts Options) error {
	var p *tea.Program
	send := func(msg tea.Msg) {
		if p != nil {
			p.Send(msg)
		}
	}

	m := New(opts, send)
	p = tea.NewProgram(m, tea.WithAltScreen())
	_, err := p.Run()
	m.pipeline.Stop()
	return err
}
