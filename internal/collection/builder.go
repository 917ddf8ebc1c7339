package collection

import (
	"maps"

	"github.com/handiism/nmlgraph/internal/model"
	"github.com/handiism/nmlgraph/internal/nml"
)

// Option configures a Builder.
type Option func(*Builder)

// WithAlbumIdentity selects how albums are deduplicated. The default is
// model.AlbumByTitle.
func WithAlbumIdentity(identity model.AlbumIdentity) Option {
	return func(b *Builder) {
		b.identity = identity
	}
}

// WithSkipHandler registers a callback invoked for every dropped record.
func WithSkipHandler(fn func(Skip)) Option {
	return func(b *Builder) {
		b.onSkip = fn
	}
}

// Stats counts the records a Builder has seen.
type Stats struct {
	Records   int
	Tracks    int
	Playlists int
	Skipped   map[SkipReason]int
}

// SkippedTotal returns the number of dropped records.
func (s Stats) SkippedTotal() int {
	total := 0
	for _, n := range s.Skipped {
		total += n
	}
	return total
}

// Builder turns records into a Data graph.
type Builder struct {
	data *Data

	identity model.AlbumIdentity
	onSkip   func(Skip)

	records   int
	tracks    int
	playlists int
	skipped   map[SkipReason]int
}

// NewBuilder creates an empty Builder.
func NewBuilder(opts ...Option) *Builder {
	b := &Builder{
		identity: model.AlbumByTitle,
		skipped:  make(map[SkipReason]int),
	}
	for _, opt := range opts {
		opt(b)
	}
	b.data = newData(b.identity)
	return b
}

// Data returns the graph built so far. The Builder keeps ownership; callers
// must stop ingesting before sharing the result.
func (b *Builder) Data() *Data {
	return b.data
}

// Stats returns a snapshot of the record counters.
func (b *Builder) Stats() Stats {
	return Stats{
		Records:   b.records,
		Tracks:    b.tracks,
		Playlists: b.playlists,
		Skipped:   maps.Clone(b.skipped),
	}
}

// Ingest applies one record to the graph.
//
// It returns a *SkipError when the record is dropped; the graph is then
// unchanged and ingestion can go on with the next record.
func (b *Builder) Ingest(node nml.Node) error {
	seq := b.records
	b.records++

	switch node.Kind {
	case nml.KindTrack:
		return b.ingestTrack(seq, node)
	case nml.KindPlaylist:
		return b.ingestPlaylist(seq, node)
	default:
		return b.skip(Skip{Kind: node.Kind, Reason: SkipUnknownKind, Sequence: seq})
	}
}

func (b *Builder) ingestTrack(seq int, node nml.Node) error {
	title, hasTitle := node.Attr(nml.AttrTitle)
	loc, hasLoc := trackLocation(node)

	skip := Skip{Kind: nml.KindTrack, Sequence: seq, Title: title}
	if hasLoc {
		skip.Location = string(loc.Key())
	}

	switch {
	case !hasLoc:
		skip.Reason = SkipMissingLocation
		return b.skip(skip)
	case !hasTitle:
		skip.Reason = SkipMissingTitle
		return b.skip(skip)
	}

	if _, dup := b.data.byLocation[loc.Key()]; dup {
		skip.Reason = SkipDuplicateLocation
		return b.skip(skip)
	}

	artistName, _ := node.Attr(nml.AttrArtist)
	albumTitle, _ := node.ChildAttr(nml.TagAlbum, nml.AttrTitle)

	albumID := model.NoAlbum
	if albumTitle != "" {
		albumID = b.data.findOrCreateAlbum(artistName, albumTitle)
	}

	artistID := model.NoArtist
	if artistName != "" {
		artistID = b.data.findOrCreateArtist(artistName)
	}

	track := model.Track{
		Title:    title,
		Location: loc,
		ArtistID: artistID,
		AlbumID:  albumID,
	}
	if n, ok := nml.ParseUint16(node.ChildAttr(nml.TagAlbum, nml.AttrTrack)); ok {
		track.AlbumTrackNumber = &n
	}
	if d, ok := trackDuration(node); ok {
		track.DurationSeconds = &d
	}
	if bpm, ok := nml.ParseFloat64(node.ChildAttr(nml.TagTempo, nml.AttrBPM)); ok {
		track.BPM = &bpm
	}

	id := b.data.addTrack(track)
	b.data.link(id)
	b.tracks++
	return nil
}

func (b *Builder) ingestPlaylist(seq int, node nml.Node) error {
	name, ok := node.Attr(nml.AttrName)
	if !ok {
		return b.skip(Skip{Kind: nml.KindPlaylist, Reason: SkipMissingName, Sequence: seq})
	}

	keys := node.ChildAttrValues(nml.AttrKey)
	ids := make([]model.TrackID, 0, len(keys))
	for _, key := range keys {
		if id, ok := b.data.byLocation[model.LocationKey(key)]; ok {
			ids = append(ids, id)
		}
	}

	b.data.addPlaylist(model.Playlist{Name: name, TrackIDs: ids})
	b.playlists++
	return nil
}

func (b *Builder) skip(s Skip) error {
	b.skipped[s.Reason]++
	if b.onSkip != nil {
		b.onSkip(s)
	}
	return &SkipError{Skip: s}
}

func trackLocation(node nml.Node) (model.Location, bool) {
	el, ok := node.Child(nml.TagLocation)
	if !ok {
		return model.Location{}, false
	}

	volume, okVolume := el.Attr(nml.AttrVolume)
	dir, okDir := el.Attr(nml.AttrDir)
	file, okFile := el.Attr(nml.AttrFile)
	if !okVolume || !okDir || !okFile || file == "" {
		return model.Location{}, false
	}

	return model.Location{Volume: volume, Dir: dir, File: file}, true
}

func trackDuration(node nml.Node) (float64, bool) {
	if d, ok := nml.ParseFloat64(node.ChildAttr(nml.TagInfo, nml.AttrPlaytimeFloat)); ok {
		return d, true
	}
	return nml.ParseFloat64(node.ChildAttr(nml.TagInfo, nml.AttrPlaytime))
}
