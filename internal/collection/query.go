package collection

import (
	"iter"
	"slices"

	"github.com/handiism/nmlgraph/internal/model"
)

func (d *Data) TrackCount() int    { return len(d.tracks) }
func (d *Data) ArtistCount() int   { return len(d.artists) }
func (d *Data) AlbumCount() int    { return len(d.albums) }
func (d *Data) PlaylistCount() int { return len(d.playlists) }

// Tracks iterates over all tracks in ingestion order.
func (d *Data) Tracks() iter.Seq[model.Track] {
	return slices.Values(d.tracks)
}

// Artists iterates over all artists in creation order.
func (d *Data) Artists() iter.Seq[model.Artist] {
	return slices.Values(d.artists)
}

// Albums iterates over all albums in creation order.
func (d *Data) Albums() iter.Seq[model.Album] {
	return slices.Values(d.albums)
}

// Playlists iterates over all playlists in document order.
func (d *Data) Playlists() iter.Seq[model.Playlist] {
	return slices.Values(d.playlists)
}

// Track returns the track with the given ID. It returns false for an ID that
// does not resolve.
func (d *Data) Track(id model.TrackID) (model.Track, bool) {
	return get(d.tracks, int(id))
}

func (d *Data) Artist(id model.ArtistID) (model.Artist, bool) {
	return get(d.artists, int(id))
}

func (d *Data) Album(id model.AlbumID) (model.Album, bool) {
	return get(d.albums, int(id))
}

func (d *Data) Playlist(id model.PlaylistID) (model.Playlist, bool) {
	return get(d.playlists, int(id))
}

// TrackByLocation finds a track by its location key.
func (d *Data) TrackByLocation(key model.LocationKey) (model.Track, bool) {
	id, ok := d.byLocation[key]
	if !ok {
		return model.Track{}, false
	}
	return d.Track(id)
}

// ArtistByName finds an artist by exact name.
func (d *Data) ArtistByName(name string) (model.Artist, bool) {
	id, ok := d.byArtist[name]
	if !ok {
		return model.Artist{}, false
	}
	return d.Artist(id)
}

// AlbumByTitle returns the first album with the given title.
//
// In artist-title mode several albums can share a title; use AlbumsByTitle to
// get all of them.
func (d *Data) AlbumByTitle(title string) (model.Album, bool) {
	for _, a := range d.albums {
		if a.Title == title {
			return a, true
		}
	}
	return model.Album{}, false
}

// AlbumsByTitle returns every album with the given title, in creation order.
func (d *Data) AlbumsByTitle(title string) []model.Album {
	var out []model.Album
	for _, a := range d.albums {
		if a.Title == title {
			out = append(out, a)
		}
	}
	return out
}

// PlaylistByName returns the first playlist with the given name.
// Traktor allows duplicate names in different folders.
func (d *Data) PlaylistByName(name string) (model.Playlist, bool) {
	for _, p := range d.playlists {
		if p.Name == name {
			return p, true
		}
	}
	return model.Playlist{}, false
}

// ArtistTracks resolves the tracks of an artist.
func (d *Data) ArtistTracks(id model.ArtistID) []model.Track {
	artist, ok := d.Artist(id)
	if !ok {
		return nil
	}
	return d.resolveTracks(artist.TrackIDs)
}

// ArtistAlbums resolves the albums of an artist.
func (d *Data) ArtistAlbums(id model.ArtistID) []model.Album {
	artist, ok := d.Artist(id)
	if !ok {
		return nil
	}
	out := make([]model.Album, 0, len(artist.AlbumIDs))
	for _, albumID := range artist.AlbumIDs {
		if album, ok := d.Album(albumID); ok {
			out = append(out, album)
		}
	}
	return out
}

// AlbumTracks resolves the tracks of an album.
func (d *Data) AlbumTracks(id model.AlbumID) []model.Track {
	album, ok := d.Album(id)
	if !ok {
		return nil
	}
	return d.resolveTracks(album.TrackIDs)
}

// PlaylistTracks resolves the members of a playlist in playlist order.
func (d *Data) PlaylistTracks(id model.PlaylistID) []model.Track {
	playlist, ok := d.Playlist(id)
	if !ok {
		return nil
	}
	return d.resolveTracks(playlist.TrackIDs)
}

// TrackArtist resolves the artist of a track.
func (d *Data) TrackArtist(id model.TrackID) (model.Artist, bool) {
	track, ok := d.Track(id)
	if !ok || !track.HasArtist() {
		return model.Artist{}, false
	}
	return d.Artist(track.ArtistID)
}

// TrackAlbum resolves the album of a track.
func (d *Data) TrackAlbum(id model.TrackID) (model.Album, bool) {
	track, ok := d.Track(id)
	if !ok || !track.HasAlbum() {
		return model.Album{}, false
	}
	return d.Album(track.AlbumID)
}

func (d *Data) resolveTracks(ids []model.TrackID) []model.Track {
	out := make([]model.Track, 0, len(ids))
	for _, id := range ids {
		if t, ok := d.Track(id); ok {
			out = append(out, t)
		}
	}
	return out
}

func get[T any](items []T, i int) (T, bool) {
	if i < 0 || i >= len(items) {
		var zero T
		return zero, false
	}
	return items[i], true
}
