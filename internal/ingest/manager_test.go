package ingest

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/handiism/nmlgraph/internal/collection"
	"github.com/handiism/nmlgraph/internal/config"
	"github.com/handiism/nmlgraph/internal/model"
	"github.com/handiism/nmlgraph/internal/nml"
)

const twoEntries = `<?xml version="1.0" encoding="UTF-8" standalone="no" ?>
<NML VERSION="19">
<HEAD COMPANY="www.native-instruments.com" PROGRAM="Traktor"></HEAD>
<COLLECTION ENTRIES="2">
<ENTRY TITLE="Song A" ARTIST="X">
<LOCATION DIR="/d/" FILE="a.mp3" VOLUME="C"></LOCATION>
<ALBUM TITLE="Y"></ALBUM>
</ENTRY>
<ENTRY TITLE="Song B" ARTIST="X">
<LOCATION DIR="/d/" FILE="b.mp3" VOLUME="C"></LOCATION>
<ALBUM TITLE="Y"></ALBUM>
</ENTRY>
</COLLECTION>
</NML>
`

// Playlist P precedes track B in document order.
const orderedDocument = `<NML>
<COLLECTION>
<ENTRY TITLE="A"><LOCATION VOLUME="C" DIR="/d/" FILE="a.mp3"/><TEMPO BPM="N/A"/></ENTRY>
</COLLECTION>
<PLAYLISTS>
<NODE TYPE="FOLDER" NAME="$ROOT"><SUBNODES>
<NODE TYPE="PLAYLIST" NAME="P"><PLAYLIST>
<ENTRY><PRIMARYKEY TYPE="TRACK" KEY="C/d/a.mp3"/></ENTRY>
<ENTRY><PRIMARYKEY TYPE="TRACK" KEY="C/d/b.mp3"/></ENTRY>
</PLAYLIST></NODE>
<NODE TYPE="PLAYLIST"><PLAYLIST/></NODE>
</SUBNODES></NODE>
</PLAYLISTS>
<COLLECTION>
<ENTRY TITLE="B"><LOCATION VOLUME="C" DIR="/d/" FILE="b.mp3"/></ENTRY>
<ENTRY><LOCATION VOLUME="C" DIR="/d/" FILE="c.mp3"/></ENTRY>
</COLLECTION>
</NML>
`

type eventLog struct {
	mu     sync.Mutex
	events []ProgressEvent
}

func (l *eventLog) add(e ProgressEvent) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = append(l.events, e)
}

func (l *eventLog) levels() map[ProgressLevel]int {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := map[ProgressLevel]int{}
	for _, e := range l.events {
		out[e.Level]++
	}
	return out
}

func testSettings() *config.Settings {
	s := config.DefaultSettings()
	s.ReportSkipped = true
	return s
}

func TestManager_LoadTwoEntries(t *testing.T) {
	var log eventLog
	m := NewManager(testSettings(), log.add)

	res, err := m.LoadReader(context.Background(), strings.NewReader(twoEntries), int64(len(twoEntries)))
	require.NoError(t, err)
	data := res.Data

	assert.Equal(t, 2, data.TrackCount())
	require.Equal(t, 1, data.ArtistCount())
	require.Equal(t, 1, data.AlbumCount())

	x, ok := data.ArtistByName("X")
	require.True(t, ok)
	assert.Len(t, data.ArtistTracks(x.ID), 2)
	assert.Len(t, data.ArtistAlbums(x.ID), 1)

	y, ok := data.AlbumByTitle("Y")
	require.True(t, ok)
	assert.Len(t, data.AlbumTracks(y.ID), 2)

	_, ok = data.TrackByLocation("C/d/a.mp3")
	assert.True(t, ok)

	read, total, records := m.GetProgress()
	assert.Equal(t, int64(len(twoEntries)), read)
	assert.Equal(t, int64(len(twoEntries)), total)
	assert.Equal(t, int64(2), records)

	assert.Equal(t, 1, log.levels()[LevelSuccess])
	assert.Zero(t, log.levels()[LevelWarning])
}

func TestManager_RecordOrder(t *testing.T) {
	m := NewManager(testSettings(), nil)

	res, err := m.LoadReader(context.Background(), strings.NewReader(orderedDocument), -1)
	require.NoError(t, err)
	data := res.Data

	p, ok := data.PlaylistByName("P")
	require.True(t, ok)
	assert.Equal(t, 1, p.Len(), "a member defined later in the document stays unresolved")

	a, _ := data.TrackByLocation("C/d/a.mp3")
	assert.Equal(t, []model.TrackID{a.ID}, p.TrackIDs)
	assert.Nil(t, a.BPM)

	assert.Equal(t, 2, data.TrackCount())
	assert.Equal(t, 1, data.PlaylistCount())

	assert.Equal(t, 5, res.Stats.Records)
	assert.Equal(t, map[collection.SkipReason]int{
		collection.SkipMissingName:  1,
		collection.SkipMissingTitle: 1,
	}, res.Stats.Skipped)
	require.Len(t, res.Skipped, 2)
	assert.Equal(t, nml.KindPlaylist, res.Skipped[0].Kind)
	assert.Equal(t, "C/d/c.mp3", res.Skipped[1].Location)
}

func TestManager_SkippedNotReportedByDefault(t *testing.T) {
	m := NewManager(config.DefaultSettings(), nil)

	res, err := m.LoadReader(context.Background(), strings.NewReader(orderedDocument), -1)
	require.NoError(t, err)
	assert.Nil(t, res.Skipped)
	assert.Equal(t, 2, res.Stats.SkippedTotal())
}

func TestManager_LoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "collection.nml")
	require.NoError(t, os.WriteFile(path, []byte(twoEntries), 0644))

	settings := testSettings()
	settings.CollectionPath = path
	m := NewManager(settings, nil)

	res, err := m.Load(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, 2, res.Data.TrackCount())

	_, err = m.Load(context.Background(), filepath.Join(t.TempDir(), "missing.nml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestManager_LoadURL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/collection.nml" {
			http.NotFound(w, r)
			return
		}
		io.WriteString(w, twoEntries)
	}))
	defer srv.Close()

	m := NewManager(testSettings(), nil)

	res, err := m.Load(context.Background(), srv.URL+"/collection.nml")
	require.NoError(t, err)
	assert.Equal(t, 2, res.Data.TrackCount())

	_, err = m.Load(context.Background(), srv.URL+"/other.nml")
	assert.Error(t, err)
}

func TestManager_ParseErrorReturnsPartialGraph(t *testing.T) {
	truncated := twoEntries[:strings.Index(twoEntries, `<ENTRY TITLE="Song B"`)+10]

	m := NewManager(testSettings(), nil)
	res, err := m.LoadReader(context.Background(), strings.NewReader(truncated), -1)

	var srcErr *nml.SourceError
	require.ErrorAs(t, err, &srcErr)
	require.NotNil(t, res)
	assert.Equal(t, 1, res.Data.TrackCount())
}

func TestManager_MalformedStructure(t *testing.T) {
	doc := `<NML><COLLECTION><ENTRY TITLE="a"><COLLECTION></COLLECTION></ENTRY></COLLECTION></NML>`

	m := NewManager(testSettings(), nil)
	_, err := m.LoadReader(context.Background(), strings.NewReader(doc), -1)
	assert.ErrorIs(t, err, nml.ErrMalformedDocument)
}

func TestManager_CancelBetweenRecords(t *testing.T) {
	doc := `<NML><COLLECTION>
<ENTRY TITLE="one"><LOCATION VOLUME="C" DIR="/" FILE="1"/></ENTRY>
<ENTRY><LOCATION VOLUME="C" DIR="/" FILE="2"/></ENTRY>
<ENTRY TITLE="three"><LOCATION VOLUME="C" DIR="/" FILE="3"/></ENTRY>
</COLLECTION></NML>`

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// The second record is malformed; cancel as soon as its skip is reported.
	m := NewManager(testSettings(), func(e ProgressEvent) {
		if e.Level == LevelVerbose && strings.HasPrefix(e.Message, "Skipped") {
			cancel()
		}
	})

	res, err := m.LoadReader(ctx, strings.NewReader(doc), -1)
	require.ErrorIs(t, err, context.Canceled)
	require.NotNil(t, res)

	assert.Equal(t, 1, res.Data.TrackCount())
	_, ok := res.Data.TrackByLocation("C/3")
	assert.False(t, ok, "no record after the cancellation point is applied")
	assert.Equal(t, 2, res.Stats.Records)
}

func TestManager_InvalidAlbumIdentity(t *testing.T) {
	settings := testSettings()
	settings.AlbumIdentity = "label"

	_, err := NewManager(settings, nil).LoadReader(context.Background(), strings.NewReader(twoEntries), -1)
	assert.Error(t, err)
}

func TestManager_Metrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := NewMetrics(reg)
	m := NewManager(testSettings(), nil, WithMetrics(metrics))

	_, err := m.LoadReader(context.Background(), strings.NewReader(orderedDocument), -1)
	require.NoError(t, err)

	assert.Equal(t, 3.0, testutil.ToFloat64(metrics.records.WithLabelValues("track")))
	assert.Equal(t, 2.0, testutil.ToFloat64(metrics.records.WithLabelValues("playlist")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.skipped.WithLabelValues("track", "missing_title")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.skipped.WithLabelValues("playlist", "missing_name")))
	assert.Equal(t, 2.0, testutil.ToFloat64(metrics.entities.WithLabelValues("track")))
	assert.Equal(t, float64(len(orderedDocument)), testutil.ToFloat64(metrics.bytes))

	_, err = m.LoadReader(context.Background(), strings.NewReader("<NML><COLLECTION>"), -1)
	require.Error(t, err)
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.loadErrors.WithLabelValues("parse")))

	count, err := testutil.GatherAndCount(reg, "nml_ingest_load_seconds")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestMetrics_NilIsSafe(t *testing.T) {
	var m *Metrics
	m.record(nml.KindTrack)
	m.skip(collection.Skip{})
	m.loadError("open")
	m.finish(collection.NewBuilder().Data(), 0, 0)
}

func TestManager_OpenErrorEvent(t *testing.T) {
	var log eventLog
	m := NewManager(testSettings(), log.add)

	_, err := m.Load(context.Background(), filepath.Join(t.TempDir(), "nope.nml"))
	require.Error(t, err)
	assert.False(t, errors.Is(err, context.Canceled))
	assert.Equal(t, 1, log.levels()[LevelError])
}
