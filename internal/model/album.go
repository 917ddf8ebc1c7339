package model

import (
	"fmt"
	"slices"
)

// AlbumID is the index of an Album in its owning collection.
type AlbumID int

// NoAlbum marks a track without an album.
const NoAlbum AlbumID = -1

// Album groups the tracks sharing an album title.
//
// By default albums are keyed by title alone, so two artists releasing albums
// with the same title share one Album. With AlbumByArtistAndTitle the Artist
// field holds the qualifying artist name.
type Album struct {
	// ID is the position of the album in the collection.
	ID AlbumID

	// Title is the album title.
	Title string

	// Artist is the qualifying artist name. Empty in AlbumByTitle mode.
	Artist string

	// TrackIDs references the tracks of the album in ingestion order.
	TrackIDs []TrackID
}

// AlbumIdentity selects how albums are deduplicated.
type AlbumIdentity int

const (
	// AlbumByTitle merges every album with the same title.
	AlbumByTitle AlbumIdentity = iota

	// AlbumByArtistAndTitle merges albums only when artist and title both match.
	AlbumByArtistAndTitle
)

// String returns the settings name of the identity mode.
//
// Returns:
//   - "title" for AlbumByTitle
//   - "artist-title" for AlbumByArtistAndTitle
func (ai AlbumIdentity) String() string {
	switch ai {
	case AlbumByArtistAndTitle:
		return "artist-title"
	default:
		return "title"
	}
}

// ParseAlbumIdentity converts a settings name into an AlbumIdentity.
// The empty string selects AlbumByTitle.
func ParseAlbumIdentity(s string) (AlbumIdentity, error) {
	switch s {
	case "", "title":
		return AlbumByTitle, nil
	case "artist-title":
		return AlbumByArtistAndTitle, nil
	default:
		return AlbumByTitle, fmt.Errorf("unknown album identity %q (want title or artist-title)", s)
	}
}

// HasTrack reports whether the album references the track.
func (a Album) HasTrack(id TrackID) bool {
	return slices.Contains(a.TrackIDs, id)
}
