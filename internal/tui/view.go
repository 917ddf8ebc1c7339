package tui

import (
	"fmt"
	"image"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/handiism/nmlgraph/internal/audio"
	"github.com/handiism/nmlgraph/internal/ingest"
)

// Styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FF6B6B")).
			MarginBottom(1)

	subtitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#4ECDC4"))

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#95E1A3"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFE66D"))

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#A8DADC"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6C757D"))

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#4ECDC4")).
			Padding(1, 2)

	selectedStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#F8B500"))

	activeTabStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#1A1A2E")).
			Background(lipgloss.Color("#4ECDC4")).
			Padding(0, 1)

	tabStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6C757D")).
			Padding(0, 1)
)

// View renders the UI.
func (m Model) View() string {
	var b strings.Builder

	// Header
	b.WriteString(titleStyle.Render("nmlgraph"))
	b.WriteString("\n")
	b.WriteString(subtitleStyle.Render("Traktor collection browser"))
	b.WriteString("\n\n")

	switch m.state {
	case StateLoading:
		b.WriteString(m.renderLoading())
	case StateBrowse:
		b.WriteString(m.renderBrowse())
	case StateError:
		b.WriteString(errorStyle.Render("Error: "))
		b.WriteString(m.err.Error())
		b.WriteString("\n\n")
		b.WriteString(m.renderLogs())
	}

	// Help
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(m.getHelpText()))

	return b.String()
}

func (m Model) renderLoading() string {
	var b strings.Builder

	fmt.Fprintf(&b, "%s Loading %s\n\n", m.spinner.View(), infoStyle.Render(m.source))

	if m.totalBytes > 0 {
		percent := float64(m.bytesRead) / float64(m.totalBytes)
		b.WriteString(m.progress.ViewAs(percent))
		b.WriteString("\n")
		b.WriteString(dimStyle.Render(fmt.Sprintf("%.2f / %.2f MB  %d records",
			float64(m.bytesRead)/1024/1024,
			float64(m.totalBytes)/1024/1024,
			m.records)))
	} else {
		b.WriteString(dimStyle.Render(fmt.Sprintf("%d records", m.records)))
	}
	b.WriteString("\n\n")
	b.WriteString(m.renderLogs())

	return b.String()
}

func (m Model) renderBrowse() string {
	var b strings.Builder

	tabs := make([]string, len(tabNames))
	for i, name := range tabNames {
		if Tab(i) == m.tab {
			tabs[i] = activeTabStyle.Render(name)
		} else {
			tabs[i] = tabStyle.Render(name)
		}
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, tabs...))
	b.WriteString("  ")
	b.WriteString(dimStyle.Render(fmt.Sprintf("%d tracks, %d artists, %d albums, %d playlists",
		m.data.TrackCount(), m.data.ArtistCount(), m.data.AlbumCount(), m.data.PlaylistCount())))
	if n := m.stats.SkippedTotal(); n > 0 {
		b.WriteString(warningStyle.Render(fmt.Sprintf("  %d skipped", n)))
	}
	b.WriteString(dimStyle.Render(fmt.Sprintf("  loaded in %s", m.loadTime.Round(time.Millisecond))))
	b.WriteString("\n\n")

	// Breadcrumb
	crumbs := make([]string, len(m.views))
	for i, v := range m.views {
		crumbs[i] = v.title
	}
	b.WriteString(subtitleStyle.Render(strings.Join(crumbs, " > ")))
	b.WriteString("\n")

	v := m.current()
	if v == nil {
		return b.String()
	}

	if v.kind == viewTrack {
		b.WriteString(m.renderTrack(*v))
		return b.String()
	}

	if m.filtering {
		b.WriteString(m.filter.View())
		b.WriteString("\n")
	} else if v.filter != "" {
		b.WriteString(dimStyle.Render("filter: " + v.filter))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	rows := v.visible()
	if len(rows) == 0 {
		b.WriteString(dimStyle.Render("(empty)"))
		b.WriteString("\n")
		return b.String()
	}

	page := m.pageSize()
	first := max(0, v.cursor-page+1)
	last := min(len(rows), first+page)
	for i := first; i < last; i++ {
		row := rows[i]
		line := row.label
		if row.detail != "" {
			line += "  " + dimStyle.Render(row.detail)
		}
		if i == v.cursor {
			b.WriteString(selectedStyle.Render("> " + row.label))
			if row.detail != "" {
				b.WriteString("  " + dimStyle.Render(row.detail))
			}
		} else {
			b.WriteString("  " + line)
		}
		b.WriteString("\n")
	}
	if len(rows) > page {
		b.WriteString(dimStyle.Render(fmt.Sprintf("%d/%d", v.cursor+1, len(rows))))
		b.WriteString("\n")
	}

	return b.String()
}

func (m Model) renderTrack(v view) string {
	track, ok := m.data.Track(v.track)
	if !ok {
		return errorStyle.Render("track not found")
	}

	var info strings.Builder
	field := func(name, value string) {
		if value == "" {
			return
		}
		fmt.Fprintf(&info, "%s %s\n", dimStyle.Render(fmt.Sprintf("%-9s", name)), value)
	}

	field("Title", track.Title)
	if artist, ok := m.data.TrackArtist(track.ID); ok {
		field("Artist", artist.Name)
	}
	if album, ok := m.data.TrackAlbum(track.ID); ok {
		field("Album", album.Title)
	}
	if track.AlbumTrackNumber != nil {
		field("Track", fmt.Sprintf("%d", *track.AlbumTrackNumber))
	}
	field("Duration", durationLabel(track.DurationSeconds))
	if track.BPM != nil {
		field("BPM", fmt.Sprintf("%.2f", *track.BPM))
	}
	field("Location", string(track.Location.Key()))
	field("Path", m.auditor.TrackPath(track))

	info.WriteString("\n")
	info.WriteString(renderFinding(m.finding))

	art := m.artwork
	switch {
	case m.artErr != nil:
		art = dimStyle.Render("no artwork")
	case art == "":
		art = m.spinner.View()
	}

	return boxStyle.Render(lipgloss.JoinHorizontal(lipgloss.Top, art, "  ", info.String()))
}

func renderFinding(f *audio.Finding) string {
	switch {
	case f == nil:
		return dimStyle.Render("Checking tags...")
	case f.Err != nil:
		return errorStyle.Render(fmt.Sprintf("Tags unreadable: %v", f.Err))
	case !f.HasTag:
		return warningStyle.Render("No ID3 tag")
	case len(f.Mismatches) == 0:
		return successStyle.Render("Tags match the collection")
	}

	var b strings.Builder
	b.WriteString(warningStyle.Render("Tag mismatches:"))
	for _, mm := range f.Mismatches {
		b.WriteString("\n  ")
		b.WriteString(mm.String())
	}
	return b.String()
}

// renderHalfBlocks draws img with one "▀" cell per two pixel rows, the upper
// pixel as foreground and the lower one as background.
func renderHalfBlocks(img image.Image) string {
	bounds := img.Bounds()
	var b strings.Builder
	for y := bounds.Min.Y; y < bounds.Max.Y; y += 2 {
		if y > bounds.Min.Y {
			b.WriteString("\n")
		}
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			style := lipgloss.NewStyle().Foreground(hexColor(img, x, y))
			if y+1 < bounds.Max.Y {
				style = style.Background(hexColor(img, x, y+1))
			}
			b.WriteString(style.Render("▀"))
		}
	}
	return b.String()
}

func hexColor(img image.Image, x, y int) lipgloss.Color {
	r, g, bl, _ := img.At(x, y).RGBA()
	return lipgloss.Color(fmt.Sprintf("#%02X%02X%02X", r>>8, g>>8, bl>>8))
}

// renderLogs renders the log entries.
func (m Model) renderLogs() string {
	if len(m.logs) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString(dimStyle.Render("─── Log ───"))
	b.WriteString("\n")

	for _, log := range m.logs {
		var style lipgloss.Style
		var prefix string

		switch log.Level {
		case ingest.LevelSuccess:
			style = successStyle
			prefix = "+ "
		case ingest.LevelError:
			style = errorStyle
			prefix = "x "
		case ingest.LevelWarning:
			style = warningStyle
			prefix = "! "
		case ingest.LevelVerbose:
			style = dimStyle
			prefix = "  "
		default:
			style = infoStyle
			prefix = "- "
		}

		b.WriteString(style.Render(prefix + log.Message))
		b.WriteString("\n")
	}

	return b.String()
}

// getHelpText returns context-appropriate help text.
func (m Model) getHelpText() string {
	switch m.state {
	case StateLoading:
		return "esc: cancel • ctrl+c: quit"
	case StateBrowse:
		if m.filtering {
			return "enter: apply • esc: clear"
		}
		if v := m.current(); v != nil && v.kind == viewTrack {
			return "esc: back • tab: switch list • q: quit"
		}
		return "↑/↓: move • enter: open • /: filter • tab: switch list • esc: back • q: quit"
	case StateError:
		return "q: quit"
	default:
		return "ctrl+c: quit"
	}
}
