package model

import (
	"path/filepath"
	"regexp"
	"strings"
)

// TrackID is the index of a Track in its owning collection.
type TrackID int

// Track represents a single audio file of the collection.
//
// Track contains metadata for one song including:
//   - Title (always present)
//   - Location, the identity of the track
//   - References to its Artist and Album, if any
//   - Optional album track number, duration and tempo
//
// A Track is immutable once it has been added to a collection.
type Track struct {
	// ID is the position of the track in the collection.
	ID TrackID

	// Title is the track title.
	Title string

	// Location is where the audio file lives. Its Key is the track identity.
	Location Location

	// ArtistID references the track artist, or NoArtist.
	ArtistID ArtistID

	// AlbumID references the album the track belongs to, or NoAlbum.
	AlbumID AlbumID

	// AlbumTrackNumber is the position on the album. Nil when unknown.
	AlbumTrackNumber *uint16

	// DurationSeconds is the play time in seconds. Nil when unknown.
	DurationSeconds *float64

	// BPM is the analysed tempo. Nil when unknown.
	BPM *float64
}

// HasArtist returns true if the track references an artist.
func (t Track) HasArtist() bool {
	return t.ArtistID != NoArtist
}

// HasAlbum returns true if the track references an album.
func (t Track) HasAlbum() bool {
	return t.AlbumID != NoAlbum
}

// LocationKey is the string identity of a track location.
type LocationKey string

// Location is the (volume, directory, file) triple of a track.
//
// Dir uses Traktor's notation where every path separator is written as "/:",
// for example "/:Users/:dj/:Music/:".
type Location struct {
	Volume string
	Dir    string
	File   string
}

// Key returns the location key, the concatenation of volume, directory and file.
//
// This is the same string Traktor writes in playlist PRIMARYKEY elements, so it
// can be used directly to resolve playlist members.
func (l Location) Key() LocationKey {
	return LocationKey(l.Volume + l.Dir + l.File)
}

var driveLetter = regexp.MustCompile(`^[A-Za-z]:$`)

// Path converts the location into a local filesystem path.
//
// roots maps volume names to mount points and takes precedence. Without a
// mapping, a Windows drive volume ("C:") is used as the path prefix and any
// other volume is assumed to be the root filesystem.
//
// Example:
//
//	loc := Location{Volume: "Music", Dir: "/:DJ/:", File: "a.mp3"}
//	loc.Path(map[string]string{"Music": "/Volumes/Music"}) // "/Volumes/Music/DJ/a.mp3"
func (l Location) Path(roots map[string]string) string {
	dir := strings.ReplaceAll(l.Dir, "/:", "/")

	if root, ok := roots[l.Volume]; ok {
		return filepath.Join(root, filepath.FromSlash(dir), l.File)
	}

	if driveLetter.MatchString(l.Volume) {
		return l.Volume + dir + l.File
	}

	return filepath.Join("/", filepath.FromSlash(dir), l.File)
}
