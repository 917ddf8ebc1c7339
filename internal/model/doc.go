// Package model defines the entities of a loaded music collection.
//
// # Entities
//
// A collection is made of four kinds of entity:
//
//   - Track: one audio file, identified by its Location key
//   - Artist: identified by name
//   - Album: identified by title (or by artist and title, see AlbumIdentity)
//   - Playlist: identified by name, an ordered list of tracks
//
// # References
//
// Entities never point at each other directly. Every cross reference is a
// typed index (TrackID, ArtistID, AlbumID, PlaylistID) into the slices owned
// by collection.Data, and is resolved through it:
//
//	track, _ := data.TrackByLocation(key)
//	artist, ok := data.TrackArtist(track.ID)
//	if !ok {
//	    // the track has no artist
//	}
//
// NoArtist and NoAlbum mark an absent reference on a Track.
//
// # Locations
//
// Location is the (volume, directory, file) triple Traktor stores for every
// track. Its Key is the concatenation used by playlists to refer to tracks:
//
//	loc := model.Location{Volume: "Macintosh HD", Dir: "/:Users/:dj/:Music/:", File: "a.mp3"}
//	loc.Key()     // "Macintosh HD/:Users/:dj/:Music/:a.mp3"
//	loc.Path(nil) // "/Users/dj/Music/a.mp3"
package model
