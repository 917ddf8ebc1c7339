package collection

import "github.com/handiism/nmlgraph/internal/model"

type albumKey struct {
	artist string
	title  string
}

// Data owns every entity of a collection.
//
// Entities live in insertion-ordered slices and reference each other by ID.
// The maps index the slices by natural key and are kept in step with them by
// the Builder, which is the only writer.
type Data struct {
	tracks    []model.Track
	artists   []model.Artist
	albums    []model.Album
	playlists []model.Playlist

	byLocation map[model.LocationKey]model.TrackID
	byArtist   map[string]model.ArtistID
	byAlbum    map[albumKey]model.AlbumID

	albumIdentity model.AlbumIdentity
}

func newData(identity model.AlbumIdentity) *Data {
	return &Data{
		byLocation:    make(map[model.LocationKey]model.TrackID),
		byArtist:      make(map[string]model.ArtistID),
		byAlbum:       make(map[albumKey]model.AlbumID),
		albumIdentity: identity,
	}
}

// AlbumIdentity returns the album identity mode the data was built with.
func (d *Data) AlbumIdentity() model.AlbumIdentity {
	return d.albumIdentity
}

func (d *Data) albumKey(artist, title string) albumKey {
	if d.albumIdentity == model.AlbumByArtistAndTitle {
		return albumKey{artist: artist, title: title}
	}
	return albumKey{title: title}
}

func (d *Data) addTrack(t model.Track) model.TrackID {
	t.ID = model.TrackID(len(d.tracks))
	d.tracks = append(d.tracks, t)
	d.byLocation[t.Location.Key()] = t.ID
	return t.ID
}

func (d *Data) findOrCreateArtist(name string) model.ArtistID {
	if id, ok := d.byArtist[name]; ok {
		return id
	}
	id := model.ArtistID(len(d.artists))
	d.artists = append(d.artists, model.Artist{ID: id, Name: name})
	d.byArtist[name] = id
	return id
}

func (d *Data) findOrCreateAlbum(artist, title string) model.AlbumID {
	key := d.albumKey(artist, title)
	if id, ok := d.byAlbum[key]; ok {
		return id
	}
	id := model.AlbumID(len(d.albums))
	d.albums = append(d.albums, model.Album{ID: id, Title: title, Artist: key.artist})
	d.byAlbum[key] = id
	return id
}

func (d *Data) addPlaylist(p model.Playlist) model.PlaylistID {
	p.ID = model.PlaylistID(len(d.playlists))
	d.playlists = append(d.playlists, p)
	return p.ID
}

// link wires the back-references of a freshly added track.
func (d *Data) link(id model.TrackID) {
	t := d.tracks[id]

	if t.HasArtist() {
		artist := &d.artists[t.ArtistID]
		artist.TrackIDs = append(artist.TrackIDs, id)
		if t.HasAlbum() && !artist.HasAlbum(t.AlbumID) {
			artist.AlbumIDs = append(artist.AlbumIDs, t.AlbumID)
		}
	}

	if t.HasAlbum() {
		album := &d.albums[t.AlbumID]
		album.TrackIDs = append(album.TrackIDs, id)
	}
}
