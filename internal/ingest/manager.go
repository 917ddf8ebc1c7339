package ingest

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync/atomic"
	"time"

	"github.com/handiism/nmlgraph/internal/collection"
	"github.com/handiism/nmlgraph/internal/config"
	"github.com/handiism/nmlgraph/internal/http"
	ioutils "github.com/handiism/nmlgraph/internal/io"
	"github.com/handiism/nmlgraph/internal/nml"
)

// ProgressLevel indicates the severity/type of a progress message.
type ProgressLevel int

const (
	LevelInfo ProgressLevel = iota
	LevelVerbose
	LevelWarning
	LevelError
	LevelSuccess
)

// ProgressEvent represents a load progress update.
type ProgressEvent struct {
	Message string
	Level   ProgressLevel
}

// Result is the outcome of a load. After an error it holds everything
// applied before the failure.
type Result struct {
	Data  *collection.Data
	Stats collection.Stats

	// Skipped lists the dropped records when settings.ReportSkipped is set.
	Skipped []collection.Skip

	Duration time.Duration
}

// Option configures a Manager.
type Option func(*Manager)

// WithMetrics records load metrics into m.
func WithMetrics(m *Metrics) Option {
	return func(mgr *Manager) {
		mgr.metrics = m
	}
}

// WithHTTPClient replaces the client used for URL sources.
func WithHTTPClient(c *http.Client) Option {
	return func(mgr *Manager) {
		mgr.httpClient = c
	}
}

// Manager coordinates collection loads.
type Manager struct {
	settings   *config.Settings
	httpClient *http.Client
	metrics    *Metrics

	bytesRead  atomic.Int64
	totalBytes atomic.Int64
	records    atomic.Int64

	onProgress func(ProgressEvent)
}

// NewManager creates a new load Manager.
func NewManager(settings *config.Settings, onProgress func(ProgressEvent), opts ...Option) *Manager {
	m := &Manager{
		settings:   settings,
		onProgress: onProgress,
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.httpClient == nil {
		m.httpClient = http.NewClient(
			http.WithTimeout(settings.HTTPTimeout()),
			http.WithUserAgent(settings.UserAgent),
		)
	}
	return m
}

// Load reads a collection from a file path or an http(s) URL. An empty
// source falls back to settings.CollectionPath.
func (m *Manager) Load(ctx context.Context, source string) (*Result, error) {
	if source == "" {
		source = m.settings.CollectionPath
	}

	m.progress(ProgressEvent{Message: fmt.Sprintf("Loading collection from %s", source), Level: LevelInfo})

	var (
		rc   io.ReadCloser
		size int64
		err  error
	)
	if http.IsURL(source) {
		rc, size, err = m.httpClient.Open(ctx, source)
	} else {
		rc, size, err = ioutils.OpenFile(source)
	}
	if err != nil {
		m.metrics.loadError("open")
		m.progress(ProgressEvent{Message: fmt.Sprintf("Error opening %s: %v", source, err), Level: LevelError})
		return nil, fmt.Errorf("open collection %s: %w", source, err)
	}
	defer rc.Close()

	return m.LoadReader(ctx, rc, size)
}

// LoadReader reads a collection document from r. size is the expected
// length in bytes, or -1 when unknown.
//
// ctx is checked between records. On cancellation the records applied so
// far are returned together with ctx.Err().
func (m *Manager) LoadReader(ctx context.Context, r io.Reader, size int64) (*Result, error) {
	opts, err := m.settings.ToBuilderOptions()
	if err != nil {
		return nil, err
	}

	start := time.Now()
	m.bytesRead.Store(0)
	m.totalBytes.Store(size)
	m.records.Store(0)

	var skipped []collection.Skip
	opts = append(opts, collection.WithSkipHandler(func(s collection.Skip) {
		m.metrics.skip(s)
		if m.settings.ReportSkipped {
			skipped = append(skipped, s)
		}
		m.progress(ProgressEvent{Message: fmt.Sprintf("Skipped %s", s), Level: LevelVerbose})
	}))
	builder := collection.NewBuilder(opts...)

	pr := &ioutils.ProgressReader{
		Reader: r,
		Total:  size,
		OnUpdate: func(read, _ int64) {
			m.bytesRead.Store(read)
		},
	}
	parser := nml.NewParser(pr)

	result := func() *Result {
		elapsed := time.Since(start)
		m.metrics.finish(builder.Data(), pr.BytesRead(), elapsed)
		return &Result{
			Data:     builder.Data(),
			Stats:    builder.Stats(),
			Skipped:  skipped,
			Duration: elapsed,
		}
	}

	for {
		if err := ctx.Err(); err != nil {
			m.metrics.loadError("cancel")
			m.progress(ProgressEvent{Message: "Load cancelled", Level: LevelWarning})
			return result(), err
		}

		node, err := parser.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			m.metrics.loadError("parse")
			m.progress(ProgressEvent{Message: fmt.Sprintf("Error reading collection: %v", err), Level: LevelError})
			return result(), fmt.Errorf("parse collection: %w", err)
		}

		m.records.Add(1)
		m.metrics.record(node.Kind)

		// A dropped record has already been reported by the skip handler.
		_ = builder.Ingest(node)
	}

	res := result()
	data := res.Data
	m.progress(ProgressEvent{
		Message: fmt.Sprintf("Loaded %d tracks, %d artists, %d albums, %d playlists in %s",
			data.TrackCount(), data.ArtistCount(), data.AlbumCount(), data.PlaylistCount(), res.Duration.Round(time.Millisecond)),
		Level: LevelSuccess,
	})
	if n := res.Stats.SkippedTotal(); n > 0 {
		m.progress(ProgressEvent{Message: fmt.Sprintf("%d malformed records were skipped", n), Level: LevelWarning})
	}

	return res, nil
}

// GetProgress returns the current load progress. total is -1 when the
// source size is unknown. It is safe to call while a load is running.
func (m *Manager) GetProgress() (read, total, records int64) {
	return m.bytesRead.Load(), m.totalBytes.Load(), m.records.Load()
}

func (m *Manager) progress(event ProgressEvent) {
	if m.onProgress != nil {
		m.onProgress(event)
	}
}
