package model

import "slices"

// ArtistID is the index of an Artist in its owning collection.
type ArtistID int

// NoArtist marks a track without an artist.
const NoArtist ArtistID = -1

// Artist is a performer referenced by one or more tracks.
type Artist struct {
	ID   ArtistID
	Name string

	// AlbumIDs holds each album of the artist once, in first-seen order.
	AlbumIDs []AlbumID

	// TrackIDs holds the artist's tracks in ingestion order.
	TrackIDs []TrackID
}

// HasAlbum reports whether the artist is already linked to the album.
func (a Artist) HasAlbum(id AlbumID) bool {
	return slices.Contains(a.AlbumIDs, id)
}

// HasTrack reports whether the artist references the track.
func (a Artist) HasTrack(id TrackID) bool {
	return slices.Contains(a.TrackIDs, id)
}
