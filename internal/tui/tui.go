// Package tui provides a Bubble Tea terminal browser for a Traktor collection.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/handiism/nmlgraph/internal/audio"
	"github.com/handiism/nmlgraph/internal/collection"
	"github.com/handiism/nmlgraph/internal/config"
	"github.com/handiism/nmlgraph/internal/ingest"
	ioutils "github.com/handiism/nmlgraph/internal/io"
	"github.com/handiism/nmlgraph/internal/model"
)

// State represents the current UI state.
type State int

const (
	StateLoading State = iota
	StateBrowse
	StateError
)

// Tab is a top-level list of the browser.
type Tab int

const (
	TabArtists Tab = iota
	TabAlbums
	TabPlaylists
)

var tabNames = []string{"Artists", "Albums", "Playlists"}

func (t Tab) String() string {
	return tabNames[t]
}

// LogEntry represents a log message in the UI.
type LogEntry struct {
	Message string
	Level   ingest.ProgressLevel
}

type viewKind int

const (
	viewArtists viewKind = iota
	viewAlbums
	viewPlaylists
	viewTracks
	viewTrack
)

// item is one selectable row. id is interpreted according to the view kind.
type item struct {
	label  string
	detail string
	id     int
}

type view struct {
	kind   viewKind
	title  string
	items  []item
	cursor int
	filter string

	// track is set for viewTrack.
	track model.TrackID
}

// visible returns the items matching the view filter.
func (v view) visible() []item {
	if v.filter == "" {
		return v.items
	}
	needle := strings.ToLower(v.filter)
	var out []item
	for _, it := range v.items {
		if strings.Contains(strings.ToLower(it.label), needle) {
			out = append(out, it)
		}
	}
	return out
}

// Model is the Bubble Tea model for the TUI.
type Model struct {
	state    State
	spinner  spinner.Model
	progress progress.Model
	filter   textinput.Model
	settings *config.Settings
	source   string
	logs     []LogEntry
	err      error

	// Load context
	ctx    context.Context
	cancel context.CancelFunc

	manager *ingest.Manager
	events  chan ingest.ProgressEvent

	// Load progress
	bytesRead  int64
	totalBytes int64
	records    int64

	// Browse state
	data      *collection.Data
	stats     collection.Stats
	tab       Tab
	views     []view
	filtering bool

	auditor  *audio.Auditor
	images   *ioutils.ImageService
	artwork  string
	artErr   error
	finding  *audio.Finding
	verbose  bool
	loadTime time.Duration

	width  int
	height int
}

// NewModel creates a new TUI model that loads source on start.
func NewModel(settings *config.Settings, source string) Model {
	fi := textinput.New()
	fi.Placeholder = "filter"
	fi.Prompt = "/ "
	fi.CharLimit = 200
	fi.Width = 40

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B"))

	prog := progress.New(progress.WithDefaultGradient())
	prog.Width = 50

	if source == "" {
		source = settings.CollectionPath
	}

	ctx, cancel := context.WithCancel(context.Background())

	events := make(chan ingest.ProgressEvent, 64)
	manager := ingest.NewManager(settings, func(event ingest.ProgressEvent) {
		select {
		case events <- event:
		default:
		}
	})

	auditCfg := audio.DefaultAuditConfig()
	auditCfg.VolumeRoots = settings.VolumeRoots

	return Model{
		state:    StateLoading,
		spinner:  sp,
		progress: prog,
		filter:   fi,
		settings: settings,
		source:   source,
		logs:     make([]LogEntry, 0),
		ctx:      ctx,
		cancel:   cancel,
		manager:  manager,
		events:   events,
		auditor:  audio.NewAuditor(auditCfg),
		images:   ioutils.NewImageService(),
	}
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.load(), m.waitForEvent(), m.tickProgress())
}

// Message types
type (
	// ProgressMsg is sent for every load progress event.
	ProgressMsg struct {
		Event ingest.ProgressEvent
	}

	// LoadDoneMsg is sent when the load finishes.
	LoadDoneMsg struct {
		Result *ingest.Result
		Err    error
	}

	// ArtworkMsg carries the rendered cover of a track.
	ArtworkMsg struct {
		TrackID model.TrackID
		Render  string
		Err     error
	}

	// AuditMsg carries the tag audit of a track.
	AuditMsg struct {
		Finding audio.Finding
	}

	// TickMsg is for periodic progress updates.
	TickMsg struct{}
)

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.progress.Width = msg.Width - 20
		if m.progress.Width > 80 {
			m.progress.Width = 80
		}
		if m.progress.Width < 20 {
			m.progress.Width = 20
		}
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.cancel()
			return m, tea.Quit
		}
		switch m.state {
		case StateLoading:
			if msg.String() == "esc" {
				m.cancel()
			}
		case StateError:
			if msg.String() == "q" || msg.String() == "esc" {
				return m, tea.Quit
			}
		case StateBrowse:
			return m.updateBrowse(msg)
		}

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)

	case ProgressMsg:
		if msg.Event.Level != ingest.LevelVerbose || m.verbose {
			m.logs = append(m.logs, LogEntry{
				Message: msg.Event.Message,
				Level:   msg.Event.Level,
			})
			// Keep only last 10 logs
			if len(m.logs) > 10 {
				m.logs = m.logs[len(m.logs)-10:]
			}
		}
		cmds = append(cmds, m.waitForEvent())

	case LoadDoneMsg:
		switch {
		case errors.Is(msg.Err, context.Canceled):
			m.state = StateError
			m.err = fmt.Errorf("cancelled by user")
		case msg.Err != nil:
			m.state = StateError
			m.err = msg.Err
		default:
			m.setData(msg.Result)
		}

	case TickMsg:
		if m.state == StateLoading {
			m.bytesRead, m.totalBytes, m.records = m.manager.GetProgress()
			var percent float64
			if m.totalBytes > 0 {
				percent = float64(m.bytesRead) / float64(m.totalBytes)
			}
			cmds = append(cmds, m.progress.SetPercent(percent), m.tickProgress())
		}

	case progress.FrameMsg:
		progressModel, cmd := m.progress.Update(msg)
		m.progress = progressModel.(progress.Model)
		cmds = append(cmds, cmd)

	case ArtworkMsg:
		if v := m.current(); v != nil && v.kind == viewTrack && v.track == msg.TrackID {
			m.artwork, m.artErr = msg.Render, msg.Err
		}

	case AuditMsg:
		if v := m.current(); v != nil && v.kind == viewTrack && v.track == msg.Finding.TrackID {
			f := msg.Finding
			m.finding = &f
		}
	}

	return m, tea.Batch(cmds...)
}

func (m Model) updateBrowse(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.filtering {
		switch msg.String() {
		case "enter":
			m.filtering = false
			m.filter.Blur()
			return m, nil
		case "esc":
			m.filtering = false
			m.filter.Blur()
			m.filter.SetValue("")
			m.applyFilter()
			return m, nil
		}
		var cmd tea.Cmd
		m.filter, cmd = m.filter.Update(msg)
		m.applyFilter()
		return m, cmd
	}

	v := m.current()
	switch msg.String() {
	case "q":
		m.cancel()
		return m, tea.Quit

	case "tab", "right", "l":
		m.switchTab((m.tab + 1) % Tab(len(tabNames)))
	case "shift+tab", "left", "h":
		m.switchTab((m.tab + Tab(len(tabNames)) - 1) % Tab(len(tabNames)))
	case "1", "2", "3":
		m.switchTab(Tab(msg.String()[0] - '1'))

	case "up", "k":
		if v != nil && v.cursor > 0 {
			v.cursor--
		}
	case "down", "j":
		if v != nil && v.cursor < len(v.visible())-1 {
			v.cursor++
		}
	case "pgup":
		if v != nil {
			v.cursor = max(0, v.cursor-m.pageSize())
		}
	case "pgdown":
		if v != nil {
			v.cursor = max(0, min(len(v.visible())-1, v.cursor+m.pageSize()))
		}

	case "/":
		if v != nil && v.kind != viewTrack {
			m.filtering = true
			m.filter.SetValue(v.filter)
			cmd := m.filter.Focus()
			return m, cmd
		}

	case "enter":
		return m.open()

	case "esc", "backspace":
		if len(m.views) > 1 {
			m.views = m.views[:len(m.views)-1]
			m.artwork, m.artErr, m.finding = "", nil, nil
		}

	case "v":
		m.verbose = !m.verbose
	}

	return m, nil
}

// open drills into the selected row.
func (m Model) open() (tea.Model, tea.Cmd) {
	v := m.current()
	if v == nil || v.kind == viewTrack {
		return m, nil
	}
	rows := v.visible()
	if v.cursor >= len(rows) {
		return m, nil
	}
	sel := rows[v.cursor]

	switch v.kind {
	case viewArtists:
		m.push(m.tracksView(sel.label, m.data.ArtistTracks(model.ArtistID(sel.id))))
	case viewAlbums:
		m.push(m.tracksView(sel.label, m.data.AlbumTracks(model.AlbumID(sel.id))))
	case viewPlaylists:
		m.push(m.tracksView(sel.label, m.data.PlaylistTracks(model.PlaylistID(sel.id))))
	case viewTracks:
		track, ok := m.data.Track(model.TrackID(sel.id))
		if !ok {
			return m, nil
		}
		m.push(view{kind: viewTrack, title: sel.label, track: track.ID})
		m.artwork, m.artErr, m.finding = "", nil, nil
		return m, tea.Batch(m.loadArtwork(track), m.auditTrack(track))
	}

	return m, nil
}

func (m *Model) setData(res *ingest.Result) {
	m.state = StateBrowse
	m.data = res.Data
	m.stats = res.Stats
	m.loadTime = res.Duration
	m.switchTab(TabArtists)
}

func (m *Model) switchTab(t Tab) {
	if m.data == nil || int(t) >= len(tabNames) {
		return
	}
	m.tab = t
	m.filtering = false
	m.filter.Blur()
	m.artwork, m.artErr, m.finding = "", nil, nil

	var root view
	switch t {
	case TabArtists:
		root = view{kind: viewArtists, title: "Artists"}
		for a := range m.data.Artists() {
			root.items = append(root.items, item{label: a.Name, detail: countLabel(len(a.TrackIDs)), id: int(a.ID)})
		}
	case TabAlbums:
		root = view{kind: viewAlbums, title: "Albums"}
		for a := range m.data.Albums() {
			label := a.Title
			if a.Artist != "" {
				label = a.Artist + " / " + a.Title
			}
			root.items = append(root.items, item{label: label, detail: countLabel(len(a.TrackIDs)), id: int(a.ID)})
		}
	case TabPlaylists:
		root = view{kind: viewPlaylists, title: "Playlists"}
		for p := range m.data.Playlists() {
			root.items = append(root.items, item{label: p.Name, detail: countLabel(p.Len()), id: int(p.ID)})
		}
	}
	m.views = []view{root}
}

func (m Model) tracksView(title string, tracks []model.Track) view {
	v := view{kind: viewTracks, title: title}
	for _, t := range tracks {
		label := t.Title
		if artist, ok := m.data.TrackArtist(t.ID); ok {
			label = artist.Name + " - " + t.Title
		}
		v.items = append(v.items, item{label: label, detail: durationLabel(t.DurationSeconds), id: int(t.ID)})
	}
	return v
}

func (m *Model) push(v view) {
	m.views = append(m.views, v)
}

// current returns the top of the navigation stack.
func (m *Model) current() *view {
	if len(m.views) == 0 {
		return nil
	}
	return &m.views[len(m.views)-1]
}

func (m *Model) applyFilter() {
	if v := m.current(); v != nil {
		v.filter = m.filter.Value()
		v.cursor = 0
	}
}

func (m Model) pageSize() int {
	if m.height <= 12 {
		return 10
	}
	return m.height - 12
}

// tickProgress returns a command to tick progress updates.
func (m Model) tickProgress() tea.Cmd {
	return tea.Tick(200*time.Millisecond, func(_ time.Time) tea.Msg {
		return TickMsg{}
	})
}

// waitForEvent delivers the next progress event of the running load.
func (m Model) waitForEvent() tea.Cmd {
	events := m.events
	return func() tea.Msg {
		event, ok := <-events
		if !ok {
			return nil
		}
		return ProgressMsg{Event: event}
	}
}

// load runs the ingestion in the background.
func (m Model) load() tea.Cmd {
	ctx, manager, source, events := m.ctx, m.manager, m.source, m.events
	return func() tea.Msg {
		defer close(events)
		res, err := manager.Load(ctx, source)
		return LoadDoneMsg{Result: res, Err: err}
	}
}

func (m Model) loadArtwork(track model.Track) tea.Cmd {
	auditor, images, ctx := m.auditor, m.images, m.ctx
	width, height := m.settings.ThumbnailWidth, m.settings.ThumbnailHeight
	return func() tea.Msg {
		data, _, err := auditor.ReadArtwork(auditor.TrackPath(track))
		if err != nil {
			return ArtworkMsg{TrackID: track.ID, Err: err}
		}
		img, err := images.Thumbnail(ctx, data, width, height)
		if err != nil {
			return ArtworkMsg{TrackID: track.ID, Err: err}
		}
		return ArtworkMsg{TrackID: track.ID, Render: renderHalfBlocks(img)}
	}
}

func (m Model) auditTrack(track model.Track) tea.Cmd {
	auditor, data := m.auditor, m.data
	return func() tea.Msg {
		return AuditMsg{Finding: auditor.Audit(data, track)}
	}
}

func countLabel(n int) string {
	if n == 1 {
		return "1 track"
	}
	return fmt.Sprintf("%d tracks", n)
}

func durationLabel(seconds *float64) string {
	if seconds == nil {
		return ""
	}
	total := int(*seconds + 0.5)
	return fmt.Sprintf("%d:%02d", total/60, total%60)
}

// Run starts the TUI application.
func Run(settings *config.Settings, source string) error {
	p := tea.NewProgram(NewModel(settings, source), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
