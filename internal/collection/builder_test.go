package collection

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/handiism/nmlgraph/internal/model"
	"github.com/handiism/nmlgraph/internal/nml"
)

type entry struct {
	title, artist string
	noTitle       bool
	volume, dir   string
	file          string
	noLocation    bool
	album         string
	trackNo       string
	playtime      string
	bpm           string
}

func trackNode(e entry) nml.Node {
	n := nml.Node{Kind: nml.KindTrack, Tag: nml.TagEntry}
	if !e.noTitle {
		n.Attrs = append(n.Attrs, nml.Attr{Name: nml.AttrTitle, Value: e.title})
	}
	if e.artist != "" {
		n.Attrs = append(n.Attrs, nml.Attr{Name: nml.AttrArtist, Value: e.artist})
	}
	if !e.noLocation {
		volume := e.volume
		if volume == "" {
			volume = "C:"
		}
		dir := e.dir
		if dir == "" {
			dir = "/:d/:"
		}
		n.Children = append(n.Children, nml.Element{Name: nml.TagLocation, Attrs: []nml.Attr{
			{Name: nml.AttrVolume, Value: volume},
			{Name: nml.AttrDir, Value: dir},
			{Name: nml.AttrFile, Value: e.file},
		}})
	}
	if e.album != "" || e.trackNo != "" {
		album := nml.Element{Name: nml.TagAlbum}
		if e.album != "" {
			album.Attrs = append(album.Attrs, nml.Attr{Name: nml.AttrTitle, Value: e.album})
		}
		if e.trackNo != "" {
			album.Attrs = append(album.Attrs, nml.Attr{Name: nml.AttrTrack, Value: e.trackNo})
		}
		n.Children = append(n.Children, album)
	}
	if e.playtime != "" {
		n.Children = append(n.Children, nml.Element{Name: nml.TagInfo, Attrs: []nml.Attr{{Name: nml.AttrPlaytime, Value: e.playtime}}})
	}
	if e.bpm != "" {
		n.Children = append(n.Children, nml.Element{Name: nml.TagTempo, Attrs: []nml.Attr{{Name: nml.AttrBPM, Value: e.bpm}}})
	}
	return n
}

func playlistNode(name string, keys ...string) nml.Node {
	n := nml.Node{Kind: nml.KindPlaylist, Tag: nml.TagNode}
	n.Attrs = append(n.Attrs, nml.Attr{Name: nml.AttrType, Value: nml.TypePlaylist})
	if name != "" {
		n.Attrs = append(n.Attrs, nml.Attr{Name: nml.AttrName, Value: name})
	}
	n.Children = append(n.Children, nml.Element{Name: "PLAYLIST"})
	for _, key := range keys {
		n.Children = append(n.Children,
			nml.Element{Name: nml.TagEntry},
			nml.Element{Name: nml.TagPrimaryKey, Attrs: []nml.Attr{{Name: nml.AttrType, Value: "TRACK"}, {Name: nml.AttrKey, Value: key}}},
		)
	}
	return n
}

func ingestAll(t *testing.T, b *Builder, nodes ...nml.Node) {
	t.Helper()
	for _, n := range nodes {
		if err := b.Ingest(n); err != nil && !errors.Is(err, ErrSkipped) {
			t.Fatalf("Ingest: %v", err)
		}
	}
}

func TestBuilder_TwoEntries(t *testing.T) {
	b := NewBuilder()
	ingestAll(t, b,
		trackNode(entry{title: "One", artist: "X", album: "LP", trackNo: "1", file: "a.mp3", playtime: "200", bpm: "128"}),
		trackNode(entry{title: "Two", artist: "X", album: "LP", trackNo: "2", file: "b.mp3"}),
	)
	data := b.Data()

	require.Equal(t, 2, data.TrackCount())
	require.Equal(t, 1, data.ArtistCount())
	require.Equal(t, 1, data.AlbumCount())

	artist, ok := data.ArtistByName("X")
	require.True(t, ok)
	assert.Equal(t, []model.TrackID{0, 1}, artist.TrackIDs)
	assert.Equal(t, []model.AlbumID{0}, artist.AlbumIDs)

	album, ok := data.AlbumByTitle("LP")
	require.True(t, ok)
	assert.Equal(t, []model.TrackID{0, 1}, album.TrackIDs)

	one, ok := data.TrackByLocation("C:/:d/:a.mp3")
	require.True(t, ok)
	assert.Equal(t, "One", one.Title)
	require.NotNil(t, one.AlbumTrackNumber)
	assert.Equal(t, uint16(1), *one.AlbumTrackNumber)
	require.NotNil(t, one.DurationSeconds)
	assert.Equal(t, 200.0, *one.DurationSeconds)
	require.NotNil(t, one.BPM)
	assert.Equal(t, 128.0, *one.BPM)

	two, ok := data.Track(1)
	require.True(t, ok)
	assert.Nil(t, two.BPM)
	assert.Nil(t, two.DurationSeconds)
}

func TestBuilder_Dedup(t *testing.T) {
	b := NewBuilder()
	ingestAll(t, b,
		trackNode(entry{title: "a", artist: "X", album: "Same", file: "1"}),
		trackNode(entry{title: "b", artist: "Y", album: "Same", file: "2"}),
		trackNode(entry{title: "c", artist: "X", album: "Other", file: "3"}),
		trackNode(entry{title: "d", artist: "x", file: "4"}),
	)
	data := b.Data()

	names := map[string]int{}
	for a := range data.Artists() {
		names[a.Name]++
	}
	assert.Equal(t, map[string]int{"X": 1, "Y": 1, "x": 1}, names, "artist names are exact-match unique")

	titles := map[string]int{}
	for a := range data.Albums() {
		titles[a.Title]++
	}
	assert.Equal(t, map[string]int{"Same": 1, "Other": 1}, titles)

	same, _ := data.AlbumByTitle("Same")
	assert.Equal(t, []model.TrackID{0, 1}, same.TrackIDs, "title-only identity merges artists")

	x, _ := data.ArtistByName("X")
	assert.Len(t, x.AlbumIDs, 2)
	y, _ := data.ArtistByName("Y")
	assert.Equal(t, []model.AlbumID{same.ID}, y.AlbumIDs)
}

func TestBuilder_ArtistAlbumLinkedOnce(t *testing.T) {
	b := NewBuilder()
	for i, f := range []string{"1", "2", "3"} {
		ingestAll(t, b, trackNode(entry{title: f, artist: "X", album: "LP", file: f, trackNo: string(rune('1' + i))}))
	}

	x, ok := b.Data().ArtistByName("X")
	require.True(t, ok)
	assert.Equal(t, []model.AlbumID{0}, x.AlbumIDs)
	assert.Len(t, x.TrackIDs, 3)
}

func TestBuilder_AlbumByArtistAndTitle(t *testing.T) {
	b := NewBuilder(WithAlbumIdentity(model.AlbumByArtistAndTitle))
	ingestAll(t, b,
		trackNode(entry{title: "a", artist: "X", album: "Greatest Hits", file: "1"}),
		trackNode(entry{title: "b", artist: "Y", album: "Greatest Hits", file: "2"}),
		trackNode(entry{title: "c", artist: "X", album: "Greatest Hits", file: "3"}),
		trackNode(entry{title: "d", album: "Greatest Hits", file: "4"}),
	)
	data := b.Data()

	assert.Equal(t, model.AlbumByArtistAndTitle, data.AlbumIdentity())
	require.Equal(t, 3, data.AlbumCount())

	albums := data.AlbumsByTitle("Greatest Hits")
	require.Len(t, albums, 3)
	assert.Equal(t, "X", albums[0].Artist)
	assert.Equal(t, []model.TrackID{0, 2}, albums[0].TrackIDs)
	assert.Equal(t, "Y", albums[1].Artist)
	assert.Equal(t, "", albums[2].Artist)

	first, ok := data.AlbumByTitle("Greatest Hits")
	require.True(t, ok)
	assert.Equal(t, albums[0].ID, first.ID)
}

func TestBuilder_BackReferenceConsistency(t *testing.T) {
	b := NewBuilder()
	ingestAll(t, b,
		trackNode(entry{title: "a", artist: "X", album: "LP", file: "1"}),
		trackNode(entry{title: "b", artist: "Y", file: "2"}),
		trackNode(entry{title: "c", album: "EP", file: "3"}),
		trackNode(entry{title: "d", file: "4"}),
		trackNode(entry{title: "bad", artist: "Ghost", album: "Ghost LP", noLocation: true}),
	)
	data := b.Data()

	for track := range data.Tracks() {
		if artist, ok := data.TrackArtist(track.ID); ok {
			assert.True(t, artist.HasTrack(track.ID), "artist %q misses track %d", artist.Name, track.ID)
			if album, ok := data.TrackAlbum(track.ID); ok {
				assert.True(t, artist.HasAlbum(album.ID))
			}
		}
		if album, ok := data.TrackAlbum(track.ID); ok {
			assert.True(t, album.HasTrack(track.ID))
		}
	}

	seen := map[model.TrackID]bool{}
	for track := range data.Tracks() {
		seen[track.ID] = true
	}
	for artist := range data.Artists() {
		for _, id := range artist.TrackIDs {
			assert.True(t, seen[id], "artist %q references a ghost track %d", artist.Name, id)
		}
	}
	for album := range data.Albums() {
		for _, id := range album.TrackIDs {
			assert.True(t, seen[id], "album %q references a ghost track %d", album.Title, id)
		}
	}

	_, ok := data.ArtistByName("Ghost")
	assert.False(t, ok, "a dropped record must not create its artist")
	_, ok = data.AlbumByTitle("Ghost LP")
	assert.False(t, ok, "a dropped record must not create its album")
}

func TestBuilder_RequiredFields(t *testing.T) {
	tests := []struct {
		name   string
		entry  entry
		reason SkipReason
	}{
		{"missing title", entry{noTitle: true, artist: "X", album: "LP", file: "1"}, SkipMissingTitle},
		{"missing location", entry{title: "t", artist: "X", album: "LP", noLocation: true}, SkipMissingLocation},
		{"missing both", entry{noTitle: true, artist: "X", album: "LP", noLocation: true}, SkipMissingLocation},
		{"empty file", entry{title: "t", artist: "X", file: ""}, SkipMissingLocation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var skips []Skip
			b := NewBuilder(WithSkipHandler(func(s Skip) { skips = append(skips, s) }))

			err := b.Ingest(trackNode(tt.entry))
			require.ErrorIs(t, err, ErrSkipped)

			var skipErr *SkipError
			require.ErrorAs(t, err, &skipErr)
			assert.Equal(t, tt.reason, skipErr.Skip.Reason)
			assert.Equal(t, nml.KindTrack, skipErr.Skip.Kind)
			require.Len(t, skips, 1)
			assert.Equal(t, skipErr.Skip, skips[0])

			data := b.Data()
			assert.Zero(t, data.TrackCount())
			assert.Zero(t, data.ArtistCount())
			assert.Zero(t, data.AlbumCount())

			require.NoError(t, b.Ingest(trackNode(entry{title: "next", artist: "X", album: "LP", file: "ok"})))
			assert.Equal(t, 1, data.TrackCount())
			x, ok := data.ArtistByName("X")
			require.True(t, ok)
			assert.Equal(t, []model.TrackID{0}, x.TrackIDs)
		})
	}
}

func TestBuilder_EmptyTitleIsKept(t *testing.T) {
	b := NewBuilder()
	require.NoError(t, b.Ingest(trackNode(entry{title: "", file: "1"})))
	assert.Equal(t, 1, b.Data().TrackCount())
}

func TestBuilder_DuplicateLocation(t *testing.T) {
	b := NewBuilder()
	require.NoError(t, b.Ingest(trackNode(entry{title: "first", artist: "X", file: "a.mp3"})))

	err := b.Ingest(trackNode(entry{title: "second", artist: "Y", file: "a.mp3"}))
	var skipErr *SkipError
	require.ErrorAs(t, err, &skipErr)
	assert.Equal(t, SkipDuplicateLocation, skipErr.Skip.Reason)
	assert.Equal(t, "C:/:d/:a.mp3", skipErr.Skip.Location)

	data := b.Data()
	assert.Equal(t, 1, data.TrackCount())
	track, _ := data.TrackByLocation("C:/:d/:a.mp3")
	assert.Equal(t, "first", track.Title)
	_, ok := data.ArtistByName("Y")
	assert.False(t, ok)
}

func TestBuilder_NumericTolerance(t *testing.T) {
	b := NewBuilder()
	require.NoError(t, b.Ingest(trackNode(entry{title: "t", file: "1", bpm: "N/A", trackNo: "x", playtime: "long"})))

	track, ok := b.Data().Track(0)
	require.True(t, ok)
	assert.Nil(t, track.BPM)
	assert.Nil(t, track.AlbumTrackNumber)
	assert.Nil(t, track.DurationSeconds)
}

func TestBuilder_DurationPrefersPlaytimeFloat(t *testing.T) {
	node := trackNode(entry{title: "t", file: "1"})
	node.Children = append(node.Children, nml.Element{Name: nml.TagInfo, Attrs: []nml.Attr{
		{Name: nml.AttrPlaytime, Value: "200"},
		{Name: nml.AttrPlaytimeFloat, Value: "199.75"},
	}})

	b := NewBuilder()
	require.NoError(t, b.Ingest(node))

	track, _ := b.Data().Track(0)
	require.NotNil(t, track.DurationSeconds)
	assert.Equal(t, 199.75, *track.DurationSeconds)
}

func TestBuilder_PlaylistOrdering(t *testing.T) {
	a := trackNode(entry{title: "A", file: "a.mp3"})
	bNode := trackNode(entry{title: "B", file: "b.mp3"})
	keyA, keyB := "C:/:d/:a.mp3", "C:/:d/:b.mp3"

	t.Run("tracks before playlist", func(t *testing.T) {
		b := NewBuilder()
		ingestAll(t, b, a, bNode, playlistNode("P", keyB, keyA))

		p, ok := b.Data().PlaylistByName("P")
		require.True(t, ok)
		assert.Equal(t, []model.TrackID{1, 0}, p.TrackIDs)

		titles := []string{}
		for _, track := range b.Data().PlaylistTracks(p.ID) {
			titles = append(titles, track.Title)
		}
		assert.Equal(t, []string{"B", "A"}, titles)
	})

	t.Run("playlist between tracks", func(t *testing.T) {
		b := NewBuilder()
		ingestAll(t, b, a, playlistNode("P", keyA, keyB), bNode)

		p, ok := b.Data().PlaylistByName("P")
		require.True(t, ok)
		assert.Equal(t, []model.TrackID{0}, p.TrackIDs)
		assert.Equal(t, 2, b.Data().TrackCount())
	})
}

func TestBuilder_PlaylistUnresolvedAndDuplicateKeys(t *testing.T) {
	b := NewBuilder()
	ingestAll(t, b,
		trackNode(entry{title: "A", file: "a.mp3"}),
		playlistNode("P", "nope", "C:/:d/:a.mp3", "C:/:d/:a.mp3"),
		playlistNode("Empty"),
	)
	data := b.Data()

	p, _ := data.PlaylistByName("P")
	assert.Equal(t, []model.TrackID{0, 0}, p.TrackIDs)
	assert.Equal(t, 2, p.Len())

	empty, ok := data.PlaylistByName("Empty")
	require.True(t, ok)
	assert.Zero(t, empty.Len())
}

func TestBuilder_PlaylistWithoutName(t *testing.T) {
	b := NewBuilder()
	ingestAll(t, b, trackNode(entry{title: "A", file: "a.mp3"}))

	err := b.Ingest(playlistNode("", "C:/:d/:a.mp3"))
	var skipErr *SkipError
	require.ErrorAs(t, err, &skipErr)
	assert.Equal(t, SkipMissingName, skipErr.Skip.Reason)
	assert.Equal(t, nml.KindPlaylist, skipErr.Skip.Kind)
	assert.Zero(t, b.Data().PlaylistCount())
}

func TestBuilder_UnknownKind(t *testing.T) {
	b := NewBuilder()
	err := b.Ingest(nml.Node{Tag: "MYSTERY"})

	var skipErr *SkipError
	require.ErrorAs(t, err, &skipErr)
	assert.Equal(t, SkipUnknownKind, skipErr.Skip.Reason)
}

func TestBuilder_Stats(t *testing.T) {
	b := NewBuilder()
	ingestAll(t, b,
		trackNode(entry{title: "A", file: "a.mp3"}),
		trackNode(entry{title: "A again", file: "a.mp3"}),
		trackNode(entry{noTitle: true, file: "b.mp3"}),
		playlistNode("P"),
		playlistNode(""),
	)

	stats := b.Stats()
	assert.Equal(t, 5, stats.Records)
	assert.Equal(t, 1, stats.Tracks)
	assert.Equal(t, 1, stats.Playlists)
	assert.Equal(t, 3, stats.SkippedTotal())
	assert.Equal(t, map[SkipReason]int{
		SkipDuplicateLocation: 1,
		SkipMissingTitle:      1,
		SkipMissingName:       1,
	}, stats.Skipped)

	stats.Skipped[SkipMissingName] = 99
	assert.Equal(t, 1, b.Stats().Skipped[SkipMissingName], "Stats returns a copy")
}

func TestSkip_String(t *testing.T) {
	tests := []struct {
		skip Skip
		want string
	}{
		{Skip{Kind: nml.KindTrack, Reason: SkipDuplicateLocation, Sequence: 3, Location: "C:/:a"}, "track #3 (C:/:a): duplicate_location"},
		{Skip{Kind: nml.KindTrack, Reason: SkipMissingLocation, Sequence: 0, Title: "t"}, `track #0 ("t"): missing_location`},
		{Skip{Kind: nml.KindPlaylist, Reason: SkipMissingName, Sequence: 7}, "playlist #7: missing_name"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.skip.String())
	}
	assert.Equal(t, "unknown", SkipReason(0).String())
}
